package main

import (
	"fmt"
	"github.com/jnb666/reber/grammar"
	"github.com/jnb666/reber/nnet"
	"github.com/spf13/cobra"
)

func sampleCmd() *cobra.Command {
	var (
		name    string
		count   int
		corrupt bool
		seed    int64
		ids     bool
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print strings generated from a grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Lookup(name)
			if err != nil {
				return err
			}
			rng := nnet.SetSeed(seed)
			for i := 0; i < count; i++ {
				var s string
				if corrupt {
					s = g.Corrupt(rng, grammar.Chars)
				} else {
					s = g.Generate(rng)
				}
				status := "reject"
				if g.Accepts(s) {
					status = "accept"
				}
				if ids {
					fmt.Printf("%-30s %s %v\n", s, status, grammar.Chars.MustEncode(s))
				} else {
					fmt.Printf("%-30s %s\n", s, status)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "grammar", "embedded", "grammar name")
	f.IntVarP(&count, "count", "n", 10, "number of strings")
	f.BoolVar(&corrupt, "corrupt", false, "corrupt one character of each string")
	f.Int64Var(&seed, "seed", 0, "random number seed, 0 to seed from the clock")
	f.BoolVar(&ids, "ids", false, "also print the character ids")
	return cmd
}

func checkCmd() *cobra.Command {
	var (
		name     string
		describe bool
	)
	cmd := &cobra.Command{
		Use:   "check <string>...",
		Short: "Check if strings are accepted by a grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Lookup(name)
			if err != nil {
				return err
			}
			if err = g.Validate(grammar.Chars); err != nil {
				return err
			}
			if describe {
				fmt.Print(g.Describe())
			}
			for _, s := range args {
				if !grammar.Chars.Contains(s) {
					fmt.Printf("%-30s invalid characters\n", s)
				} else if g.Accepts(s) {
					fmt.Printf("%-30s accept\n", s)
				} else {
					fmt.Printf("%-30s reject\n", s)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "grammar", "embedded", "grammar name")
	cmd.Flags().BoolVar(&describe, "describe", false, "print the grammar transition table")
	return cmd
}

package main

import (
	"fmt"
	"github.com/jnb666/reber/nnet"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "generate <dataset>",
		Short: "Generate train, valid and test data and save the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := o.apply(cmd, nnet.DefaultConfig())
			conf.DataSet = args[0]
			rng := nnet.SetSeed(conf.RandSeed)
			built, err := nnet.Build(conf, rng)
			if err != nil {
				return err
			}
			if err = nnet.SaveData(conf.DataSet, built); err != nil {
				return err
			}
			data := make(map[string]nnet.Data)
			for key, d := range built {
				data[key] = d
			}
			fmt.Println(nnet.Summary(data))
			fmt.Println(conf)
			return conf.SaveDefault(conf.DataSet)
		},
	}
	o.register(cmd)
	return cmd
}

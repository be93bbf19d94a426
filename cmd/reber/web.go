package main

import (
	"fmt"
	"github.com/jnb666/reber/web"
	"github.com/spf13/cobra"
	"log"
	"net/http"
	"os"
)

func webCmd() *cobra.Command {
	var (
		addr string
		rows int
	)
	cmd := &cobra.Command{
		Use:   "web <model>",
		Short: "Serve the web interface for the given model config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetFlags(0)
			conf, err := web.NewConfig(args[0])
			if err != nil {
				return err
			}
			h, _, err := web.NewRouter(conf, web.Options{
				Rows:     rows,
				User:     os.Getenv("REBER_USER"),
				Password: os.Getenv("REBER_PASSWORD"),
				LogTo:    os.Stdout,
			})
			if err != nil {
				return err
			}
			fmt.Printf("serving web page at http://localhost%s\n", addr)
			return http.ListenAndServe(addr, h)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&rows, "rows", 50, "sequences per page")
	return cmd
}

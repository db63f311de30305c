package main

import (
	"time"

	"github.com/spf13/cobra"

	"blogsmith/internal/serve"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr     string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build, serve the build directory and rebuild on changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := serve.New(c.cfg, serve.Options{Debounce: debounce, Logger: c.log})
			defer s.Close()
			return s.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before a rebuild")
	return cmd
}

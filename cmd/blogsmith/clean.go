package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCleanCmd(c *cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.RemoveAll(c.cfg.Build.BuildDir); err != nil {
				return fmt.Errorf("remove %s: %w", c.cfg.Build.BuildDir, err)
			}
			c.log.Info("Removed build directory", "dir", c.cfg.Build.BuildDir)

			if all && c.cfg.Build.ManifestPath != "" {
				if err := os.Remove(c.cfg.Build.ManifestPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove %s: %w", c.cfg.Build.ManifestPath, err)
				}
				c.log.Info("Removed manifest", "path", c.cfg.Build.ManifestPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also remove the build manifest")
	return cmd
}

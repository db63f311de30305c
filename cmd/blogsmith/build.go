package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blogsmith/internal/build"
)

func newBuildCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Render every post and the archive index into the build directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runBuild(cmd)
		},
	}
}

func (c *cli) runBuild(cmd *cobra.Command) error {
	b := &build.Builder{Cfg: c.cfg, Log: c.log}
	res, err := b.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "built %d pages into %s (%d changed, %d unchanged, %d removed)\n",
		res.Pages, c.cfg.Build.BuildDir,
		len(res.Diff.Changed), len(res.Diff.Unchanged), len(res.Diff.Removed))
	return nil
}

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"blogsmith/internal/domain/config"
)

// cli holds the global flags and the state PersistentPreRunE derives from them.
type cli struct {
	cfgFile string
	envFile string
	verbose bool

	stdout io.Writer
	stderr io.Writer

	cfg config.Config
	log *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "blogsmith",
		Short: "Build a chronological blog from date-named markdown posts",
		Long: `blogsmith turns a directory of YYYY-MM-DD-slug.md posts into a static
site: one HTML page per post, linked to its neighbors, plus an archive index.

Settings come from defaults, the config file, the dotenv file and the
environment, in that order. Running without a subcommand builds the site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runBuild(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "site.yaml", "config file (yaml or toml); ignored if missing")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file; ignored if missing")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newBuildCmd(c),
		newServeCmd(c),
		newCleanCmd(c),
		newTagsCmd(c),
		newListCmd(c),
		newHistoryCmd(c),
	)
	return root
}

func (c *cli) init() error {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	c.log = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: c.cfgFile,
		EnvFile:    c.envFile,
	})
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log.Debug("Configuration loaded",
		"source", cfg.Build.SourceDir,
		"output", cfg.Build.BuildDir,
		"site_url", cfg.Site.BaseURL())
	return nil
}

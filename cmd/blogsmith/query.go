package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domainerr "blogsmith/internal/domain/errors"
	"blogsmith/internal/index"
	"blogsmith/internal/ingest"
	"blogsmith/internal/render"
)

func (c *cli) loadRepository(ctx context.Context) (*index.Repository, error) {
	res, err := ingest.Load(ctx, ingest.Options{
		SourceDir: c.cfg.Build.SourceDir,
		BaseURL:   c.cfg.Site.BaseURL(),
		Converter: render.NewMarkdownRenderer(),
		Logger:    c.log,
	})
	if err != nil {
		return nil, err
	}
	return res.Repository, nil
}

func newTagsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags with the number of posts carrying each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := c.loadRepository(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			for _, st := range index.BuildTagIndex(repo).Stats() {
				fmt.Fprintf(tw, "%s\t%d\n", st.Name, st.Count)
			}
			return tw.Flush()
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	var (
		tag     string
		page    int
		perPage int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts newest first, optionally filtered by tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := c.loadRepository(cmd.Context())
			if err != nil {
				return err
			}
			pages := repo.Pages()
			if tag != "" {
				pages = index.FilterByTag(pages, tag)
			}
			batch, total, err := index.PageOf(pages, perPage, page)
			if err != nil {
				return fmt.Errorf("%w: --per-page", err)
			}

			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			for _, p := range batch {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.DisplayDate(), render.DisplayTitle(p), p.URL())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if total > 1 {
				fmt.Fprintf(c.stdout, "page %d of %d\n", page, total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only posts carrying this tag")
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "posts per page")
	return cmd
}

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent builds recorded in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.Build.ManifestPath == "" {
				return fmt.Errorf("%w: MANIFEST_PATH is empty", domainerr.ErrInvalid)
			}
			st, err := index.OpenManifest(c.cfg.Build.ManifestPath)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.History(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FINISHED\tID\tPAGES\tOUTPUTS\tCHANGED\tUNCHANGED\tREMOVED")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					r.Finished.Format("2006-01-02 15:04:05"), r.ID,
					r.Pages, r.Outputs, r.Changed, r.Unchanged, r.Removed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of builds to show (max 100)")
	return cmd
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"blogsmith/internal/domain/content"
	domainerr "blogsmith/internal/domain/errors"
	"blogsmith/internal/index"
)

type Options struct {
	SourceDir string
	BaseURL   string
	Converter Converter
	Logger    *slog.Logger
}

type Result struct {
	Repository *index.Repository
	// SourceHashes is keyed by page SourcePath.
	SourceHashes map[string]string
}

// Load parses every dated source file under opt.SourceDir, one at a time, and
// returns them as a Repository. The first failing page aborts the load.
func Load(ctx context.Context, opt Options) (*Result, error) {
	if opt.Converter == nil {
		return nil, errors.New("ingest: missing converter")
	}
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}

	files, err := DiscoverSource(opt.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", opt.SourceDir, err)
	}

	pages := make([]*content.Page, 0, len(files))
	hashes := make(map[string]string, len(files))
	claimed := make(map[string]string, len(files))
	for _, sf := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(sf.Path)
		if err != nil {
			return nil, err
		}
		parsed, err := ParsePage(sf.Path, raw, opt.BaseURL, opt.Converter)
		if err != nil {
			return nil, err
		}
		target := parsed.Page.Target()
		if other, ok := claimed[target]; ok {
			return nil, domainerr.DuplicateTarget(sf.Path, target, other)
		}
		claimed[target] = sf.Path

		log.Debug("Parsed page", "source", sf.Path, "target", parsed.Page.Target(), "title", parsed.Page.Title)
		pages = append(pages, parsed.Page)
		hashes[sf.Path] = parsed.SourceHash
	}

	return &Result{
		Repository:   index.NewRepository(pages),
		SourceHashes: hashes,
	}, nil
}

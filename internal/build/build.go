package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"blogsmith/internal/app"
	domainbuild "blogsmith/internal/domain/build"
	"blogsmith/internal/domain/config"
	domainerr "blogsmith/internal/domain/errors"
	"blogsmith/internal/domain/site"
	"blogsmith/internal/index"
	"blogsmith/internal/ingest"
	"blogsmith/internal/metrics"
	"blogsmith/internal/render"
)

// BuildContext carries everything one build needs. It is created once per
// build and passed to every stage.
type BuildContext struct {
	ID        string
	Cfg       config.Config
	Log       *slog.Logger
	Recorder  metrics.Recorder
	Converter ingest.Converter
	Renderer  render.Renderer
	// StagingDir receives all outputs before they replace Cfg.Build.BuildDir.
	StagingDir string
}

func (bc *BuildContext) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	bc.Recorder.ObserveStageDuration(name, d)
	bc.Log.Debug("Stage finished", "stage", name, "duration", d, "ok", err == nil)
	return err
}

type Builder struct {
	Cfg      config.Config
	Log      *slog.Logger
	Recorder metrics.Recorder
	// Converter overrides the goldmark converter.
	Converter ingest.Converter
}

type Result struct {
	ID       string
	Pages    int
	Tags     int
	Outputs  int
	Diff     index.Diff
	Duration time.Duration
}

// NewContext prepares the BuildContext for a single Run.
func (b *Builder) NewContext() (*BuildContext, error) {
	if err := b.Cfg.Validate(); err != nil {
		return nil, err
	}
	log := b.Log
	if log == nil {
		log = slog.Default()
	}
	rec := b.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	conv := b.Converter
	if conv == nil {
		conv = render.NewMarkdownRenderer()
	}
	tpl, err := render.NewTemplateRenderer(b.Cfg.Site, b.Cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	id := uuid.NewString()
	buildDir := filepath.Clean(b.Cfg.Build.BuildDir)
	return &BuildContext{
		ID:         id,
		Cfg:        b.Cfg,
		Log:        log.With("build", id),
		Recorder:   rec,
		Converter:  conv,
		Renderer:   tpl,
		StagingDir: filepath.Join(filepath.Dir(buildDir), "."+filepath.Base(buildDir)+".staging-"+id),
	}, nil
}

// Run performs a full rebuild. Outputs land in BuildDir only if every stage succeeds.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	bc, err := b.NewContext()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := run(ctx, bc)
	d := time.Since(start)
	bc.Recorder.ObserveBuildDuration(d)
	if err != nil {
		bc.Recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	res.Duration = d
	bc.Recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	bc.Log.Info("Build complete",
		"pages", res.Pages,
		"outputs", res.Outputs,
		"changed", len(res.Diff.Changed),
		"removed", len(res.Diff.Removed),
		"output", bc.Cfg.Build.BuildDir,
		"duration", d)
	return res, nil
}

func run(ctx context.Context, bc *BuildContext) (*Result, error) {
	bc.Log.Info("Starting build", "source", bc.Cfg.Build.SourceDir, "output", bc.Cfg.Build.BuildDir)

	var loaded *ingest.Result
	err := bc.stage("load", func() error {
		var err error
		loaded, err = ingest.Load(ctx, ingest.Options{
			SourceDir: bc.Cfg.Build.SourceDir,
			BaseURL:   bc.Cfg.Site.BaseURL(),
			Converter: bc.Converter,
			Logger:    bc.Log,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	repo := loaded.Repository
	bc.Recorder.SetPages(repo.Len())

	if newest, err := repo.Newest(); err == nil {
		bc.Log.Info("Loaded pages", "count", repo.Len(), "newest", newest.Target())
	} else if errors.Is(err, domainerr.ErrEmptyRepository) {
		bc.Log.Warn("No pages found, the archive will be empty", "source", bc.Cfg.Build.SourceDir)
	}

	if err := os.MkdirAll(bc.StagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	swapped := false
	defer func() {
		if !swapped {
			_ = os.RemoveAll(bc.StagingDir)
		}
	}()

	outputs := make(map[string]domainbuild.Fingerprint)
	err = bc.stage("render", func() error {
		return renderAll(ctx, bc, repo, loaded.SourceHashes, outputs)
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	err = bc.stage("assets", func() error {
		return copyStaticAssets(bc, outputs)
	})
	if err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	err = bc.stage("swap", func() error {
		return swapDir(bc.StagingDir, bc.Cfg.Build.BuildDir, bc.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", bc.Cfg.Build.BuildDir, err)
	}
	swapped = true

	res := &Result{
		ID:      bc.ID,
		Pages:   repo.Len(),
		Tags:    len(index.BuildTagIndex(repo)),
		Outputs: len(outputs),
	}
	res.Diff = recordManifest(bc, res, outputs)
	return res, nil
}

func renderAll(
	ctx context.Context,
	bc *BuildContext,
	repo *index.Repository,
	hashes map[string]string,
	outputs map[string]domainbuild.Fingerprint,
) error {
	rb := &app.RouteBuilder{Repo: repo}
	for _, route := range rb.BuildRoutes() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			data       []byte
			sourceHash string
			err        error
		)
		switch route.Kind {
		case site.RoutePost:
			p := repo.At(route.Page)
			nav := repo.Link(route.Page)
			data, err = bc.Renderer.RenderPage(p, nav.Prev, nav.Next)
			sourceHash = hashes[p.SourcePath]
		case site.RouteIndex:
			data, err = bc.Renderer.RenderArchiveIndex(repo.Pages())
		default:
			err = fmt.Errorf("unexpected route kind %q", route.Kind)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", route, err)
		}

		if err := writeFile(bc.StagingDir, route.OutPath, data); err != nil {
			return err
		}
		outputs[route.OutPath] = domainbuild.New(sourceHash, data)
		bc.Log.Debug("Wrote output", "route", route.String())
	}
	return nil
}

func recordManifest(bc *BuildContext, res *Result, outputs map[string]domainbuild.Fingerprint) index.Diff {
	path := bc.Cfg.Build.ManifestPath
	if path == "" {
		return index.Compare(nil, outputs)
	}
	st, err := index.OpenManifest(path)
	if err != nil {
		bc.Log.Warn("Manifest unavailable, skipping change report", "path", path, "error", err)
		return index.Compare(nil, outputs)
	}
	defer st.Close()

	prev, err := st.Outputs()
	if err != nil {
		bc.Log.Warn("Failed to read manifest", "path", path, "error", err)
		prev = nil
	}
	diff := index.Compare(prev, outputs)
	bc.Recorder.AddOutputs(len(diff.Changed), len(diff.Unchanged), len(diff.Removed))

	rec := index.BuildRecord{
		ID:        bc.ID,
		Finished:  time.Now(),
		Pages:     res.Pages,
		Outputs:   res.Outputs,
		Changed:   len(diff.Changed),
		Unchanged: len(diff.Unchanged),
		Removed:   len(diff.Removed),
	}
	if err := st.Record(rec, outputs); err != nil {
		bc.Log.Warn("Failed to record manifest", "path", path, "error", err)
	}
	return diff
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// swapDir replaces dst with src. The previous dst is moved aside first and
// restored if the final rename fails.
func swapDir(src, dst, id string) error {
	dst = filepath.Clean(dst)
	old := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".old-"+id)

	hadOld := false
	if _, err := os.Stat(dst); err == nil {
		if err := os.Rename(dst, old); err != nil {
			return err
		}
		hadOld = true
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	if err := os.Rename(src, dst); err != nil {
		if hadOld {
			_ = os.Rename(old, dst)
		}
		return err
	}
	if hadOld {
		return os.RemoveAll(old)
	}
	return nil
}

func copyStaticAssets(bc *BuildContext, outputs map[string]domainbuild.Fingerprint) error {
	src := bc.Cfg.Build.AssetsDir
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			bc.Log.Debug("No assets directory, skipping copy", "assets", src)
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		route := site.Route{
			Kind:    site.RouteAsset,
			Page:    -1,
			Source:  path,
			OutPath: filepath.ToSlash(filepath.Join("assets", rel)),
		}

		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := writeFile(bc.StagingDir, route.OutPath, in); err != nil {
			return err
		}
		outputs[route.OutPath] = domainbuild.New("", in)
		bc.Log.Debug("Copied asset", "route", route.String())
		return nil
	})
}

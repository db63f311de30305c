package serve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"blogsmith/internal/build"
	"blogsmith/internal/domain/config"
	"blogsmith/internal/metrics"
)

const (
	EventsPath  = "/dev/events"
	MetricsPath = "/metrics"

	defaultDebounce = 200 * time.Millisecond
)

// reloadScript is appended to served HTML so open pages refresh after a rebuild.
const reloadScript = `<script>new EventSource("` + EventsPath + `").onmessage=function(e){if(e.data==="reload")location.reload()}</script>`

type Options struct {
	// Debounce is how long the watcher waits for events to settle before rebuilding.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Server rebuilds the site on source changes and serves the build directory.
type Server struct {
	cfg      config.Config
	log      *slog.Logger
	debounce time.Duration

	reg     *prom.Registry
	builder *build.Builder
	hub     *hub

	buildMu sync.Mutex

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, opt Options) *Server {
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	d := opt.Debounce
	if d <= 0 {
		d = defaultDebounce
	}
	reg := prom.NewRegistry()
	return &Server{
		cfg:      cfg,
		log:      log,
		debounce: d,
		reg:      reg,
		builder: &build.Builder{
			Cfg:      cfg,
			Log:      log,
			Recorder: metrics.NewPrometheusRecorder(reg),
		},
		hub: newHub(),
	}
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Handler routes the live-reload stream, metrics and the built site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(EventsPath, s.hub.handleSSE)
	mux.Handle(MetricsPath, metrics.HTTPHandler(s.reg))
	mux.Handle("/", s.siteHandler())
	return mux
}

// Rebuild runs one full build. Builds are serialized; on success every open
// page is told to reload. A failed build leaves the previous output in place.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if _, err := s.builder.Run(ctx); err != nil {
		return err
	}
	s.hub.broadcast("reload")
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("Serving site", "addr", addr, "dir", s.cfg.Build.BuildDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// siteHandler serves BuildDir. HTML responses get the reload script injected.
func (s *Server) siteHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.Build.BuildDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/") {
			p = path.Join(p, "index.html")
		}
		if path.Ext(p) != ".html" {
			files.ServeHTTP(w, r)
			return
		}

		data, err := os.ReadFile(filepath.Join(s.cfg.Build.BuildDir, filepath.FromSlash(p)))
		if err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "read error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(injectReload(data))
	})
}

func injectReload(page []byte) []byte {
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return append(page, reloadScript...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:i]...)
	out = append(out, reloadScript...)
	return append(out, page[i:]...)
}

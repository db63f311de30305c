package serve

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsmith/internal/domain/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Build.SourceDir = filepath.Join(root, "posts")
	cfg.Build.BuildDir = filepath.Join(root, "build")
	cfg.Build.AssetsDir = filepath.Join(root, "assets")
	cfg.Build.ManifestPath = ""
	require.NoError(t, os.MkdirAll(cfg.Build.SourceDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.Build.AssetsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Build.AssetsDir, "style.css"), []byte("body{}"), 0o644))
	writePost(t, cfg, "2020-03-21-foo.md", "---\ntitle: Foo\n---\nhello foo\n")
	return cfg
}

func writePost(t *testing.T, cfg config.Config, name, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Build.SourceDir, name), []byte(doc), 0o644))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_ServesBuildWithReloadScript(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, Options{Logger: quietLogger()})
	require.NoError(t, s.Rebuild(context.Background()))
	h := s.Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "/2020/03/21/foo.html")
	assert.Contains(t, body, reloadScript+"</body>")

	rec = get(t, h, "/2020/03/21/foo.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello foo")

	rec = get(t, h, "/assets/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	rec = get(t, h, "/2020/03/21/missing.html")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Metrics(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, Options{Logger: quietLogger()})
	require.NoError(t, s.Rebuild(context.Background()))

	rec := get(t, s.Handler(), MetricsPath)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `blogsmith_build_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, body, "blogsmith_pages 1")
}

func TestRebuild_FailureKeepsPreviousOutput(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, Options{Logger: quietLogger()})
	require.NoError(t, s.Rebuild(context.Background()))

	writePost(t, cfg, "2020-03-22-bad.md", "no front matter\n")
	require.Error(t, s.Rebuild(context.Background()))

	rec := get(t, s.Handler(), "/2020/03/21/foo.html")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInjectReload(t *testing.T) {
	assert.Equal(t, "<body>x"+reloadScript+"</body>", string(injectReload([]byte("<body>x</body>"))))
	assert.Equal(t, "plain"+reloadScript, string(injectReload([]byte("plain"))))
}

func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestSSE_BroadcastsReload(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, Options{Logger: quietLogger()})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+EventsPath, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	require.Equal(t, "hello", readEvent(t, r))

	require.NoError(t, s.Rebuild(context.Background()))
	require.Equal(t, "reload", readEvent(t, r))
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, Options{Logger: quietLogger(), Debounce: 20 * time.Millisecond})
	defer s.Close()
	require.NoError(t, s.Rebuild(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.startWatch(ctx))

	writePost(t, cfg, "2020-04-01-bar.md", "---\ntitle: Bar\n---\nbar\n")

	out := filepath.Join(cfg.Build.BuildDir, "2020", "04", "01", "bar.html")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	s.buildMu.Lock()
	s.buildMu.Unlock()
}

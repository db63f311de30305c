package serve

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchRoots lists the directories whose changes trigger a rebuild. Missing
// optional directories are skipped.
func (s *Server) watchRoots() []string {
	roots := []string{s.cfg.Build.SourceDir}
	for _, dir := range []string{s.cfg.Build.AssetsDir, s.cfg.Build.ThemeDir} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		for _, root := range s.watchRoots() {
			e := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return w.Add(path)
				}
				return nil
			})
			if e != nil {
				err = e
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("Watching for changes", "dirs", s.watchRoots())

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = s.watcher.Add(ev.Name)
				}
			}
			s.log.Debug("Change detected", "path", ev.Name, "op", ev.Op.String())
			debounce.Reset(s.debounce)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("Watcher error", "error", err)
		case <-debounce.C:
			buildCtx, cancel := context.WithTimeout(ctx, time.Minute)
			if err := s.Rebuild(buildCtx); err != nil {
				s.log.Error("Rebuild failed, keeping previous output", "error", err)
			}
			cancel()
		}
	}
}

package ingest

import (
	"os"
	"path/filepath"
	"sort"

	"blogsmith/internal/domain/content"
)

type SourceFile struct {
	Path string
}

// DiscoverSource lists YYYY-MM-DD-* files directly under root (no recursion),
// sorted by descending name.
func DiscoverSource(root string) ([]SourceFile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var out []SourceFile
	for _, e := range entries {
		if e.IsDir() || !content.IsSourceName(e.Name()) {
			continue
		}
		out = append(out, SourceFile{Path: filepath.Join(root, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path > out[j].Path
	})
	return out, nil
}

package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// manifestLockTimeout bounds the wait for another process holding the file lock.
const manifestLockTimeout = time.Second

// Manifest is the on-disk record of previous builds. It never feeds back into
// rendering: every build is a full rebuild, the manifest only reports what changed.
type Manifest struct {
	db   *bolt.DB
	path string
}

// OpenManifest opens the manifest at path, creating the file, its parent
// directory and the buckets when missing.
func OpenManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, errors.New("manifest: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: manifestLockTimeout})
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bOutputs, bBuilds} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init manifest %s: %w", path, err)
	}
	return &Manifest{db: db, path: path}, nil
}

func (m *Manifest) Path() string { return m.path }

func (m *Manifest) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

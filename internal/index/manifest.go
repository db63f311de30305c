package index

import (
	"encoding/json"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"blogsmith/internal/domain/build"
)

// BuildRecord summarises one successful build.
type BuildRecord struct {
	ID        string    `json:"id"`
	Finished  time.Time `json:"finished"`
	Pages     int       `json:"pages"`
	Outputs   int       `json:"outputs"`
	Changed   int       `json:"changed"`
	Unchanged int       `json:"unchanged"`
	Removed   int       `json:"removed"`
}

// Diff compares the outputs of two builds by target path. New targets count as changed.
type Diff struct {
	Changed   []string
	Unchanged []string
	Removed   []string
}

func Compare(prev, cur map[string]build.Fingerprint) Diff {
	var d Diff
	for target, fp := range cur {
		old, ok := prev[target]
		if ok && old.RenderHash == fp.RenderHash {
			d.Unchanged = append(d.Unchanged, target)
			continue
		}
		d.Changed = append(d.Changed, target)
	}
	for target := range prev {
		if _, ok := cur[target]; !ok {
			d.Removed = append(d.Removed, target)
		}
	}
	sort.Strings(d.Changed)
	sort.Strings(d.Unchanged)
	sort.Strings(d.Removed)
	return d
}

// Outputs returns the fingerprints recorded by the previous build.
func (m *Manifest) Outputs() (map[string]build.Fingerprint, error) {
	out := make(map[string]build.Fingerprint)
	err := m.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bOutputs)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var fp build.Fingerprint
			if err := json.Unmarshal(v, &fp); err != nil {
				return err
			}
			out[string(k)] = fp
			return nil
		})
	})
	return out, err
}

// Record replaces the output fingerprints and appends rec to the build history.
func (m *Manifest) Record(rec BuildRecord, outputs map[string]build.Fingerprint) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bOutputs)
		outB, err := tx.CreateBucket(bOutputs)
		if err != nil {
			return err
		}
		for target, fp := range outputs {
			fb, err := json.Marshal(fp)
			if err != nil {
				return err
			}
			if err := outB.Put([]byte(target), fb); err != nil {
				return err
			}
		}

		buildsB, err := tx.CreateBucketIfNotExists(bBuilds)
		if err != nil {
			return err
		}
		rb, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return buildsB.Put(makeTimeIDKey(rec.Finished.UnixNano(), rec.ID), rb)
	})
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}

// History lists recorded builds, newest first.
func (m *Manifest) History(limit int) ([]BuildRecord, error) {
	limit = normalizeLimit(limit)

	var out []BuildRecord
	err := m.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bBuilds)
		if b == nil {
			return nil
		}
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			id, ok := idFromTimeIDKey(k)
			if !ok {
				continue
			}
			var rec BuildRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			// the key is authoritative for the id
			rec.ID = id
			out = append(out, rec)
			if len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

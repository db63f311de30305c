package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"blogsmith/internal/domain/build"
)

func openManifest(t *testing.T) *Manifest {
	t.Helper()
	st, err := OpenManifest(filepath.Join(t.TempDir(), "state", "manifest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenManifest_RequiresPath(t *testing.T) {
	_, err := OpenManifest("")
	require.Error(t, err)
}

func TestOpenManifest_CreatesBuckets(t *testing.T) {
	st := openManifest(t)
	require.NoError(t, st.db.View(func(tx *bolt.Tx) error {
		require.NotNil(t, tx.Bucket(bOutputs))
		require.NotNil(t, tx.Bucket(bBuilds))
		return nil
	}))
}

func TestManifest_RecordAndOutputs(t *testing.T) {
	st := openManifest(t)

	prev, err := st.Outputs()
	require.NoError(t, err)
	require.Empty(t, prev)

	outputs := map[string]build.Fingerprint{
		"index.html":        build.New("", []byte("<html>index</html>")),
		"2020/01/01/a.html": build.New("src-a", []byte("<html>a</html>")),
	}
	require.NoError(t, st.Record(BuildRecord{ID: "b1", Finished: time.Unix(100, 0), Pages: 1, Outputs: 2}, outputs))

	got, err := st.Outputs()
	require.NoError(t, err)
	require.Equal(t, outputs, got)

	// a second record replaces the outputs wholesale
	next := map[string]build.Fingerprint{
		"index.html": build.New("", []byte("<html>index v2</html>")),
	}
	require.NoError(t, st.Record(BuildRecord{ID: "b2", Finished: time.Unix(200, 0)}, next))
	got, err = st.Outputs()
	require.NoError(t, err)
	require.Equal(t, next, got)
}

func TestManifest_HistoryNewestFirst(t *testing.T) {
	st := openManifest(t)
	for i, id := range []string{"first", "second", "third"} {
		rec := BuildRecord{ID: id, Finished: time.Unix(int64(1000+i), 0), Pages: i}
		require.NoError(t, st.Record(rec, nil))
	}

	hist, err := st.History(2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, "third", hist[0].ID)
	require.Equal(t, "second", hist[1].ID)
}

func TestCompare(t *testing.T) {
	a := build.New("s", []byte("a"))
	b := build.New("s", []byte("b"))
	prev := map[string]build.Fingerprint{"x.html": a, "y.html": a, "gone.html": a}
	cur := map[string]build.Fingerprint{"x.html": a, "y.html": b, "new.html": b}

	d := Compare(prev, cur)
	require.Equal(t, []string{"x.html"}, d.Unchanged)
	require.Equal(t, []string{"new.html", "y.html"}, d.Changed)
	require.Equal(t, []string{"gone.html"}, d.Removed)
}

func TestTimeIDKeyRoundTrip(t *testing.T) {
	k := makeTimeIDKey(time.Unix(0, 0).UnixNano(), "abc")
	id, ok := idFromTimeIDKey(k)
	require.True(t, ok)
	require.Equal(t, "abc", id)

	_, ok = idFromTimeIDKey([]byte{1, 2})
	require.False(t, ok)
	_, ok = idFromTimeIDKey([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 'x'})
	require.False(t, ok, "missing separator")
}

func TestManifest_HistoryTakesIDFromKey(t *testing.T) {
	st := openManifest(t)
	require.NoError(t, st.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bBuilds)
		if err := b.Put(makeTimeIDKey(time.Unix(50, 0).UnixNano(), "from-key"), []byte(`{"pages":3}`)); err != nil {
			return err
		}
		return b.Put([]byte("garbage"), []byte(`{"id":"bad"}`))
	}))

	hist, err := st.History(0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, "from-key", hist[0].ID)
	require.Equal(t, 3, hist[0].Pages)
}

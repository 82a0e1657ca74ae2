package fbref

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	raw   []byte
	calls int
}

func (f *countingFetcher) Fetch(context.Context, string) ([]byte, error) {
	f.calls++
	return f.raw, nil
}

func TestArchive_ReadsBothNamingSchemes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.html"), []byte("plain"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "match_def.html"), []byte("prefixed"), 0o644))

	archive := NewArchive(dir)
	raw, err := archive.Fetch(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(raw))

	raw, err = archive.Fetch(context.Background(), "def")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", string(raw))

	_, err = archive.Fetch(context.Background(), "ghi")
	if !crerr.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrNotFound)
	}
}

func TestArchive_SaveThenFetch(t *testing.T) {
	t.Parallel()

	archive := NewArchive(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, archive.Save(context.Background(), "m1", []byte(reportBody)))

	raw, err := archive.Fetch(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, reportBody, string(raw))

	entries, err := os.ReadDir(archive.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMirror_FetchesOnceThenServesFromDisk(t *testing.T) {
	t.Parallel()

	source := &countingFetcher{raw: []byte(reportBody)}
	mirror := NewMirror(source, NewArchive(t.TempDir()), nil)

	for i := 0; i < 3; i++ {
		raw, err := mirror.Fetch(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, reportBody, string(raw))
	}
	if source.calls != 1 {
		t.Fatalf("unexpected source calls: got=%d want=%d", source.calls, 1)
	}
}

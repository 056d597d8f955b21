package dirlist

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *sandbox.Guard {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "photos", "2024"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("x=1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "photos", "cat.jpg"), make([]byte, 1024), 0o644))

	g, err := sandbox.New(root)
	require.NoError(t, err)
	return g
}

func byName(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

func TestList_ImmediateChildrenOnly(t *testing.T) {
	g := setup(t)
	l := New(g, Options{}, logging.Nop{})

	entries, dir, err := l.List(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, g.Root(), dir)

	assert.Equal(t, []string{".cache", ".env", "a.txt", "photos"}, names(entries))

	m := byName(entries)
	assert.True(t, m["photos"].IsDir)
	assert.True(t, m[".cache"].IsDir)
	assert.False(t, m["a.txt"].IsDir)
	assert.EqualValues(t, 5, m["a.txt"].Size)
}

func TestList_Subdirectory(t *testing.T) {
	g := setup(t)
	l := New(g, Options{}, logging.Nop{})

	entries, dir, err := l.List(context.Background(), "photos")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(g.Root(), "photos"), dir)
	assert.Equal(t, []string{"2024", "cat.jpg"}, names(entries))
	assert.EqualValues(t, 1024, byName(entries)["cat.jpg"].Size)
}

func TestList_SkipHidden(t *testing.T) {
	g := setup(t)
	l := New(g, Options{SkipHidden: true}, logging.Nop{})

	entries, _, err := l.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "photos"}, names(entries))
}

func TestList_SkipStaging(t *testing.T) {
	g := setup(t)
	staging := filex.StagingPath(filepath.Join(g.Root(), "upload.bin"))
	require.NoError(t, os.WriteFile(staging, []byte("partial"), 0o640))

	all, _, err := New(g, Options{}, logging.Nop{}).List(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, names(all), filepath.Base(staging))

	l := New(g, Options{SkipStaging: true}, logging.Nop{})
	entries, _, err := l.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{".cache", ".env", "a.txt", "photos"}, names(entries))
}

func TestList_Idempotent(t *testing.T) {
	g := setup(t)
	l := New(g, Options{}, logging.Nop{})

	first, _, err := l.List(context.Background(), "/")
	require.NoError(t, err)
	second, _, err := l.List(context.Background(), "/")
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestList_Errors(t *testing.T) {
	g := setup(t)
	l := New(g, Options{}, logging.Nop{})
	ctx := context.Background()

	_, _, err := l.List(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, _, err = l.List(ctx, "../../etc")
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	// a file is not a directory
	_, _, err = l.List(ctx, "a.txt")
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestList_CancelledContext(t *testing.T) {
	g := setup(t)
	l := New(g, Options{}, logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := l.List(ctx, "/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".git"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
	assert.False(t, isHidden("readme"))
}

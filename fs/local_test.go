package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gabo01/artid/fs"
)

func TestLocalReadDirSortedAndKinds(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "f3"), []byte{1, 2, 3}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "f1"), []byte{1, 2, 3, 4, 5}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(tmp, "z"), 0o755))

	dir := fs.NewLocal(tmp)

	entries, err := dir.ReadDir(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []string{"f1", "f3", "z"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})

	info, err := entries[0].Path.Stat(ctx)
	require.NoError(t, err)
	require.Equal(t, fs.File, fs.KindOf(info.Mode))

	info, err = entries[2].Path.Stat(ctx)
	require.NoError(t, err)
	require.Equal(t, fs.Dir, fs.KindOf(info.Mode))
}

func TestLocalSymlinkRequiresSameKind(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a.txt"), []byte("aaaa"), 0o644))

	target := fs.NewLocal(filepath.Join(tmp, "a.txt"))
	mem := fs.NewMemoryRoot().Join("link")

	err := target.SymlinkTo(ctx, mem)
	require.Error(t, err)
}

func TestLocalCopyToOverwritesExistingSymlink(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a.txt"), []byte("aaaa"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(tmp, "a.txt"), filepath.Join(tmp, "b.txt")))

	src := fs.NewLocal(filepath.Join(tmp, "a.txt"))
	dst := fs.NewLocal(filepath.Join(tmp, "b.txt"))

	lst, err := dst.LstatSymlink(ctx)
	require.NoError(t, err)
	require.True(t, lst.Mode&os.ModeSymlink != 0)

	require.NoError(t, dst.Remove(ctx))
	require.NoError(t, src.CopyTo(ctx, dst))

	lst, err = dst.LstatSymlink(ctx)
	require.NoError(t, err)
	require.False(t, lst.Mode&os.ModeSymlink != 0)

	data, err := os.ReadFile(filepath.Join(tmp, "b.txt"))
	require.NoError(t, err)
	require.Equal(t, "aaaa", string(data))
}

func TestLocalExistsNotExists(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	missing := fs.NewLocal(filepath.Join(tmp, "nope"))
	ok, err := missing.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

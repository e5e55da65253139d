package executor_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/executor"
	"github.com/gabo01/artid/internal/planner"
)

func TestApplyRunCreatesDirectoriesAndCopiesFiles(t *testing.T) {
	ctx := context.Background()

	origin := fs.NewMemoryRoot()
	require.NoError(t, origin.MkdirAll(ctx))
	require.NoError(t, origin.Join("a.txt").(fs.Memory).WriteFile(ctx, []byte("aaaa"), time.Now()))

	newSnapshot := fs.NewMemoryRoot().Join("snap")

	plan, err := planner.BackupFromScratch(ctx, origin, newSnapshot)
	require.NoError(t, err)

	token, err := executor.Apply(ctx, plan, executor.Run)
	require.NoError(t, err)
	require.Equal(t, len(plan), token.Actions())

	data, err := newSnapshot.Join("a.txt").Open(ctx)
	require.NoError(t, err)
	defer data.Close()
}

func TestApplyDryRunTouchesNothing(t *testing.T) {
	ctx := context.Background()

	origin := fs.NewMemoryRoot()
	require.NoError(t, origin.MkdirAll(ctx))
	require.NoError(t, origin.Join("a.txt").(fs.Memory).WriteFile(ctx, []byte("aaaa"), time.Now()))

	newSnapshot := fs.NewMemoryRoot().Join("snap")

	plan, err := planner.BackupFromScratch(ctx, origin, newSnapshot)
	require.NoError(t, err)

	_, err = executor.Apply(ctx, plan, executor.DryRun)
	require.NoError(t, err)

	exists, err := newSnapshot.Exists(ctx)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestApplyCopyFileRemovesExistingSymlinkAtDestination(t *testing.T) {
	ctx := context.Background()

	root := fs.NewMemoryRoot()
	require.NoError(t, root.MkdirAll(ctx))

	src := root.Join("src.txt").(fs.Memory)
	require.NoError(t, src.WriteFile(ctx, []byte("fresh"), time.Now()))

	dst := root.Join("dst.txt")
	other := root.Join("other.txt").(fs.Memory)
	require.NoError(t, other.WriteFile(ctx, []byte("stale"), time.Now()))
	require.NoError(t, other.SymlinkTo(ctx, dst))

	plan := planner.Plan{{Kind: planner.CopyFile, Src: src, Dst: dst}}

	_, err := executor.Apply(ctx, plan, executor.Run)
	require.NoError(t, err)

	lst, err := dst.LstatSymlink(ctx)
	require.NoError(t, err)
	require.False(t, lst.Mode&os.ModeSymlink != 0)

	r, err := dst.Open(ctx)
	require.NoError(t, err)
	defer r.Close()
}

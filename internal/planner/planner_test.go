package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/planner"
)

func memDir(t *testing.T) fs.Memory {
	t.Helper()

	ctx := context.Background()
	root := fs.NewMemoryRoot()
	require.NoError(t, root.MkdirAll(ctx))

	return root
}

func write(t *testing.T, dir fs.Memory, name string, data string, at time.Time) {
	t.Helper()

	ctx := context.Background()
	f := dir.Join(name).(fs.Memory)
	require.NoError(t, f.WriteFile(ctx, []byte(data), at))
}

func actionsOfKind(plan planner.Plan, kind planner.Kind) int {
	n := 0
	for _, a := range plan {
		if a.Kind == kind {
			n++
		}
	}

	return n
}

func TestBackupFromScratchCopiesEverything(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	origin := memDir(t)
	write(t, origin, "a.txt", "a", now)
	sub := origin.Join("sub").(fs.Memory)
	require.NoError(t, sub.MkdirAll(ctx))
	write(t, sub, "b.txt", "b", now)

	newSnapshot := fs.NewMemoryRoot().Join("2026-07-30").(fs.Memory)

	plan, err := planner.BackupFromScratch(ctx, origin, newSnapshot)
	require.NoError(t, err)

	require.Equal(t, 2, actionsOfKind(plan, planner.CreateDir)) // root + sub
	require.Equal(t, 2, actionsOfKind(plan, planner.CopyFile))
	require.Equal(t, 0, actionsOfKind(plan, planner.CopyLink))

	// The root CreateDir (Path=="") must come before any action whose
	// target lives under it.
	require.Equal(t, planner.CreateDir, plan[0].Kind)
}

func TestBackupWithPreviousLinksUnchangedCopiesChanged(t *testing.T) {
	ctx := context.Background()
	early := time.Now().Add(-time.Hour)
	late := time.Now()

	origin := memDir(t)
	write(t, origin, "unchanged.txt", "same", early)
	write(t, origin, "changed.txt", "new-content", late)

	previous := memDir(t)
	write(t, previous, "unchanged.txt", "same", early)
	write(t, previous, "changed.txt", "old-content", early)

	newSnapshot := fs.NewMemoryRoot().Join("2026-07-30").(fs.Memory)

	plan, err := planner.BackupWithPrevious(ctx, origin, previous, newSnapshot)
	require.NoError(t, err)

	var linked, copied bool
	for _, a := range plan {
		switch a.Kind {
		case planner.CopyLink:
			if a.Dst.String() == newSnapshot.Join("unchanged.txt").String() {
				linked = true
			}
		case planner.CopyFile:
			if a.Dst.String() == newSnapshot.Join("changed.txt").String() {
				copied = true
			}
		}
	}

	require.True(t, linked, "unsynced-free file should be linked into the previous snapshot")
	require.True(t, copied, "file with a newer mtime than its previous snapshot copy should be re-copied")
}

func TestBackupWithPreviousDropsFilesDeletedFromOrigin(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	origin := memDir(t)
	previous := memDir(t)
	write(t, previous, "deleted.txt", "gone", now)

	newSnapshot := fs.NewMemoryRoot().Join("2026-07-30").(fs.Memory)

	plan, err := planner.BackupWithPrevious(ctx, origin, previous, newSnapshot)
	require.NoError(t, err)

	for _, a := range plan {
		require.NotContains(t, a.Dst.String(), "deleted.txt")
	}
}

func TestRestoreFromPointWithoutOverwriteOnlyFillsMissing(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	origin := memDir(t)
	write(t, origin, "present.txt", "origin-version", now)

	snapshot := memDir(t)
	write(t, snapshot, "present.txt", "snapshot-version", now)
	write(t, snapshot, "missing.txt", "restore-me", now)

	plan, err := planner.RestoreFromPoint(ctx, origin, snapshot, false)
	require.NoError(t, err)

	require.Len(t, plan, 1)
	require.Equal(t, planner.CopyFile, plan[0].Kind)
	require.Contains(t, plan[0].Dst.String(), "missing.txt")
}

func TestRestoreFromPointWithOverwriteReplacesExisting(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	origin := memDir(t)
	write(t, origin, "present.txt", "origin-version", now)

	snapshot := memDir(t)
	write(t, snapshot, "present.txt", "snapshot-version", now)

	plan, err := planner.RestoreFromPoint(ctx, origin, snapshot, true)
	require.NoError(t, err)

	require.Len(t, plan, 1)
	require.Equal(t, planner.CopyFile, plan[0].Kind)
	require.Contains(t, plan[0].Src.String(), "present.txt")
}

package ops

import (
	"context"

	"github.com/gabo01/artid/archive"
	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/errcode"
	"github.com/gabo01/artid/internal/executor"
	"github.com/gabo01/artid/internal/planner"
)

// RestoreOptions selects the restore target: which snapshot and which
// folders. An empty Timestamp means the most recent snapshot in
// history; a nil/empty FolderIDs means every registered folder, each
// restored from its most recent snapshot at or before the resolved
// one (folders with no such snapshot are skipped).
type RestoreOptions struct {
	FolderIDs []string
	Timestamp string
	Overwrite bool
}

// Restore materialises one snapshot point back onto each selected
// folder's origin. Restore has no post-commit
// manifest mutation: the manifest only records backups.
func Restore(ctx context.Context, archiveRoot fs.Filesystem, m *archive.Manifest, opts RestoreOptions, mode executor.Mode) error {
	target, err := resolveTarget(m, opts.Timestamp)
	if err != nil {
		return err
	}

	pin, ok := m.PinAt(target.Timestamp)
	if !ok {
		return errcode.Newf(errcode.PointNotExists, "snapshot %s not found in history", target.Timestamp)
	}

	folders := selectFolders(m, opts.FolderIDs)

	var plans []planner.Plan

	for _, f := range folders {
		snapshotTimestamp, ok := pin.Resolve(f.ID)
		if !ok {
			continue
		}

		origin := fs.NewLocal(f.Origin.Resolved())
		snapshotDir := archiveRoot.Join(f.Path.Resolved()).Join(snapshotTimestamp)

		plan, err := planner.RestoreFromPoint(ctx, origin, snapshotDir, opts.Overwrite)
		if err != nil {
			return errcode.Wrapf(err, errcode.Operative, "planning restore for folder %s", f.ID)
		}

		plans = append(plans, plan)
	}

	for _, plan := range plans {
		if _, err := executor.Apply(ctx, plan, mode); err != nil {
			return errcode.Wrap(err, errcode.Operative, "executing restore")
		}
	}

	return nil
}

func resolveTarget(m *archive.Manifest, timestamp string) (archive.Snapshot, error) {
	if timestamp != "" {
		s, ok := m.SnapshotAt(timestamp)
		if !ok {
			return archive.Snapshot{}, errcode.Newf(errcode.PointNotExists, "no snapshot at %s", timestamp)
		}

		return s, nil
	}

	all := m.Snapshots()
	if len(all) == 0 {
		return archive.Snapshot{}, errcode.New(errcode.PointNotExists, "archive has no snapshots")
	}

	return all[len(all)-1], nil
}

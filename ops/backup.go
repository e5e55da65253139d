// Package ops implements the operation façade: it selects folders and
// a snapshot point from an archive.Manifest,
// drives internal/planner and internal/executor to produce and apply
// a multi-folder plan, and mutates the manifest on success. Grounded
// on original_source's src/core/src/config/mod.rs (ConfigFile::backup)
// and kopia-kopia's cli/command_snapshot_create.go /
// cli/command_restore.go for the options-struct-plus-selection idiom.
package ops

import (
	"context"
	"time"

	"github.com/gabo01/artid/archive"
	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/errcode"
	"github.com/gabo01/artid/internal/executor"
	"github.com/gabo01/artid/internal/logging"
	"github.com/gabo01/artid/internal/planner"
	"github.com/gabo01/artid/internal/rfc3339"
)

var log = logging.Module("artid/ops")

// BackupOptions selects which folders a Backup call covers. A nil or
// empty FolderIDs means every registered folder.
type BackupOptions struct {
	FolderIDs []string
}

// folderPlan is one folder's contribution to a multi-folder plan,
// carried alongside the folder itself so the post-commit step knows
// which folder ids actually ran.
type folderPlan struct {
	folder archive.Folder
	plan   planner.Plan
}

// Backup captures one new snapshot, shared across every selected
// folder, composing each folder's plan via BackupWithPrevious when a
// previous snapshot exists, else BackupFromScratch.
// The manifest is mutated (a new Snapshot appended) only after every
// per-folder plan has been fully applied; on any per-folder planning
// error, nothing is executed at all.
func Backup(ctx context.Context, archiveRoot fs.Filesystem, m *archive.Manifest, opts BackupOptions, mode executor.Mode) error {
	folders := selectFolders(m, opts.FolderIDs)
	if len(folders) == 0 {
		return nil
	}

	timestamp := rfc3339.Format(time.Now().UTC())

	if history := m.Snapshots(); len(history) > 0 && timestamp <= history[len(history)-1].Timestamp {
		return errcode.Newf(errcode.Operative, "new snapshot time %s is not after the last snapshot %s", timestamp, history[len(history)-1].Timestamp)
	}

	plans := make([]folderPlan, 0, len(folders))

	for _, f := range folders {
		origin := fs.NewLocal(f.Origin.Resolved())
		folderRoot := archiveRoot.Join(f.Path.Resolved())
		newSnapshot := folderRoot.Join(timestamp)

		var (
			plan planner.Plan
			err  error
		)

		if prev, ok := m.LastSnapshotFor(f.ID); ok {
			previous := folderRoot.Join(prev.Timestamp)
			plan, err = planner.BackupWithPrevious(ctx, origin, previous, newSnapshot)
		} else {
			plan, err = planner.BackupFromScratch(ctx, origin, newSnapshot)
		}

		if err != nil {
			return errcode.Wrapf(err, errcode.Operative, "planning backup for folder %s", f.ID)
		}

		plans = append(plans, folderPlan{folder: f, plan: plan})
	}

	participating := make([]string, 0, len(plans))

	for _, fp := range plans {
		if _, err := executor.Apply(ctx, fp.plan, mode); err != nil {
			return errcode.Wrapf(err, errcode.Operative, "executing backup for folder %s", fp.folder.ID)
		}

		participating = append(participating, fp.folder.ID)
	}

	if mode == executor.DryRun {
		log(ctx).Debug("dry-run: manifest not persisted")
		return nil
	}

	m.AppendSnapshot(archive.Snapshot{Timestamp: timestamp, Folders: participating})

	return nil
}

func selectFolders(m *archive.Manifest, ids []string) []archive.Folder {
	all := m.Folders()
	if len(ids) == 0 {
		return all
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out []archive.Folder

	for _, f := range all {
		if want[f.ID] {
			out = append(out, f)
		}
	}

	return out
}

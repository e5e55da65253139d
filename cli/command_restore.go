package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/gabo01/artid/archive"
	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/errcode"
	"github.com/gabo01/artid/internal/executor"
	"github.com/gabo01/artid/ops"
)

// commandRestore implements
// "restore <archive-root> [--dry-run] [--overwrite] [--folder=ID] [--from=N]".
// Flag declaration style follows kopia-kopia/cli/command_restore.go.
type commandRestore struct {
	app *App

	archiveRoot string
	dryRun      bool
	overwrite   bool
	folders     []string
	from        int
}

func (c *commandRestore) setup(app *App, parent *kingpin.Application) {
	c.app = app

	cmd := parent.Command("restore", "Restore a folder's origin from a snapshot.")
	cmd.Arg("archive-root", "Path to the archive directory holding the manifest and snapshot history.").Required().StringVar(&c.archiveRoot)
	cmd.Flag("dry-run", "Print the actions a restore would take without touching the filesystem.").BoolVar(&c.dryRun)
	cmd.Flag("overwrite", "Replace files already present at the origin.").BoolVar(&c.overwrite)
	cmd.Flag("folder", "Restrict the restore to this folder id. May be repeated; default is every folder with a snapshot at or before the target.").StringsVar(&c.folders)
	cmd.Flag("from", "Restore the N-th (0-based, oldest first) snapshot of the single selected --folder, instead of the most recent overall.").Default("-1").IntVar(&c.from)

	cmd.Action(app.runAction(c.run))
}

func (c *commandRestore) run(ctx context.Context) error {
	if c.from >= 0 && len(c.folders) != 1 {
		return badArgument("--from", "requires exactly one --folder")
	}

	lock, err := archive.AcquireLock(c.archiveRoot)
	if err != nil {
		return err
	}
	defer lock.Release() // nolint:errcheck

	m, err := archive.Load(c.archiveRoot)
	if err != nil {
		return err
	}

	opts := ops.RestoreOptions{FolderIDs: c.folders, Overwrite: c.overwrite}

	if c.from >= 0 {
		snap, ok := m.SnapshotByIndex(c.folders[0], c.from)
		if !ok {
			return errcode.Newf(errcode.PointNotExists, "no snapshot at index %d for folder %s", c.from, c.folders[0])
		}

		opts.Timestamp = snap.Timestamp
	}

	mode := executor.Run
	if c.dryRun {
		mode = executor.DryRun
		ctx = withDryRunPrinter(ctx, c.app.stdout())
		noteColor.Fprintln(c.app.stderr(), "dry run: no changes will be made") // nolint:errcheck
	}

	archiveRoot := fs.NewLocal(c.archiveRoot)

	return ops.Restore(ctx, archiveRoot, m, opts, mode)
}

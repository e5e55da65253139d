package cli

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/gabo01/artid/archive"
	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/executor"
	"github.com/gabo01/artid/ops"
)

// commandBackup implements "backup <archive-root> [--dry-run] [--folder=ID...]".
// Flag declaration style follows kopia-kopia/cli/command_snapshot_create.go.
type commandBackup struct {
	app *App

	archiveRoot string
	dryRun      bool
	folders     []string
}

func (c *commandBackup) setup(app *App, parent *kingpin.Application) {
	c.app = app

	cmd := parent.Command("backup", "Capture a new snapshot of every configured folder, or a subset of them.")
	cmd.Arg("archive-root", "Path to the archive directory holding the manifest and snapshot history.").Required().StringVar(&c.archiveRoot)
	cmd.Flag("dry-run", "Print the actions a backup would take without touching the filesystem.").BoolVar(&c.dryRun)
	cmd.Flag("folder", "Restrict the backup to this folder id. May be repeated; default is every folder.").StringsVar(&c.folders)

	cmd.Action(app.runAction(c.run))
}

func (c *commandBackup) run(ctx context.Context) error {
	lock, err := archive.AcquireLock(c.archiveRoot)
	if err != nil {
		return err
	}
	defer lock.Release() // nolint:errcheck

	m, err := archive.Load(c.archiveRoot)
	if err != nil {
		return err
	}

	mode := executor.Run
	if c.dryRun {
		mode = executor.DryRun
		ctx = withDryRunPrinter(ctx, c.app.stdout())
		noteColor.Fprintln(c.app.stderr(), "dry run: no changes will be made") // nolint:errcheck
	}

	archiveRoot := fs.NewLocal(c.archiveRoot)

	if err := ops.Backup(ctx, archiveRoot, m, ops.BackupOptions{FolderIDs: c.folders}, mode); err != nil {
		return err
	}

	if mode == executor.DryRun {
		return nil
	}

	return m.Save(c.archiveRoot)
}

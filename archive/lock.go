package archive

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/gabo01/artid/internal/errcode"
)

// LockFile is the advisory lock file name within ManifestDir, used to
// enforce single-writer access to an archive for the duration of a
// backup or restore call.
const LockFile = ".lock"

// Lock is an advisory, process-wide guard against two concurrent
// backup/restore calls against the same archive. It does not protect
// against uncooperative processes, matching the explicitly advisory
// nature github.com/gofrs/flock itself documents.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock tries to take the archive's lock file without blocking,
// returning a recoverable IO error if another process already holds
// it.
func AcquireLock(archiveRoot string) (*Lock, error) {
	dir := filepath.Join(archiveRoot, ManifestDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errcode.Wrapf(err, errcode.IO, "creating %s", dir)
	}

	path := filepath.Join(dir, LockFile)

	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, errcode.Wrapf(err, errcode.IO, "locking archive at %s", path)
	}

	if !locked {
		return nil, errcode.Newf(errcode.IO, "archive at %s is locked by another process", archiveRoot)
	}

	return &Lock{fl: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return errcode.Wrap(err, errcode.IO, "releasing archive lock")
	}

	return nil
}

// Package fs is the typed wrapper around a filesystem path that the
// rest of the engine compiles against. It exists so the directory-tree
// differ (internal/diff), the action planner (internal/planner) and the
// plan executor (internal/executor) never touch os.* directly: tests
// substitute Memory for Local and everything above this package is
// unaffected. The split mirrors github.com/kopia/kopia's fs.Entry /
// fs.Directory capability-set plus a single concrete fs/localfs
// backend, generalised here to a read-write, symlink-creating surface
// since this engine writes snapshot trees rather than only reading
// them into a content-addressed store.
package fs

import (
	"context"
	"io"
	"os"
	"time"
)

// Info is the subset of file metadata the engine needs: enough to
// classify a path's Kind and to run the coarse, metadata-only sync
// check a backup-with-previous plan relies on.
type Info struct {
	Name    string
	Size    int64
	ModTime time.Time
	Mode    os.FileMode
}

// Kind classifies a path the way the directory-tree differ needs: as a
// directory, a regular file (symlinks are resolved to what they point
// at before classification), or anything else.
type Kind int

const (
	// File is a regular file, or a symlink that resolves to one.
	File Kind = iota
	// Dir is a directory, or a symlink that resolves to one.
	Dir
	// Other is anything else: a dangling symlink, device file, socket,
	// and so on.
	Other
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Dir:
		return "dir"
	default:
		return "other"
	}
}

// KindOf derives a Kind from a standard library FileMode, as returned
// by Filesystem.Stat (which follows symlinks, so Kind is computed
// against the resolved target).
func KindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return Dir
	case mode.IsRegular():
		return File
	default:
		return Other
	}
}

// DirEntry is one element yielded by Filesystem.ReadDir: the child's
// own Filesystem handle plus its bare name, so callers never need to
// re-Join.
type DirEntry struct {
	Path Filesystem
	Name string
}

// Filesystem is a capability set over a single path. Implementations:
// Local (the real disk) and Memory (an in-memory double used by
// internal/diff, internal/planner and internal/executor's unit tests).
//
// Kind is never part of this interface: callers derive it from Stat's
// or LstatSymlink's Info via KindOf, keeping existence/metadata probing
// separate from path classification.
type Filesystem interface {
	// Exists reports whether the path is present, following symlinks.
	Exists(ctx context.Context) (bool, error)

	// Stat returns metadata for the path, following symlinks.
	Stat(ctx context.Context) (Info, error)

	// LstatSymlink returns metadata for the path without following a
	// trailing symlink.
	LstatSymlink(ctx context.Context) (Info, error)

	// Open opens the path for reading, following symlinks.
	Open(ctx context.Context) (io.ReadCloser, error)

	// ReadDir lists the immediate children of the path, which must be a
	// directory.
	ReadDir(ctx context.Context) ([]DirEntry, error)

	// MkdirAll recursively creates the path and any missing parents. It
	// is a no-op if the path already exists as a directory.
	MkdirAll(ctx context.Context) error

	// Remove deletes the path, which must not be a directory.
	Remove(ctx context.Context) error

	// SymlinkTo creates a symbolic link at linkLocation that points at
	// the receiver's own path: the receiver is the link target, and
	// linkLocation is where the link is created. Both must belong to
	// the same concrete Filesystem kind, or an errcode.IO error is
	// returned.
	SymlinkTo(ctx context.Context, linkLocation Filesystem) error

	// CopyTo performs a byte-accurate copy from the receiver to dst via
	// open-read plus create-write-truncate. File permissions are not
	// propagated.
	CopyTo(ctx context.Context, dst Filesystem) error

	// Join returns a new Filesystem of the same concrete kind rooted at
	// the receiver's path, joined with name.
	Join(name string) Filesystem

	// String renders the path for display and log messages.
	String() string
}

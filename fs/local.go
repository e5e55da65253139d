package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/gabo01/artid/internal/errcode"
)

// Local is a Filesystem backed by the real disk, rooted at an absolute
// path. It is the only concrete backend required for production use;
// Memory exists purely so the differ, planner and executor can be unit
// tested without touching disk.
type Local struct {
	path string
}

// NewLocal wraps path as a Local filesystem handle. path is used
// verbatim; callers are expected to have already resolved it to an
// absolute path (see archive.Path).
func NewLocal(path string) Local {
	return Local{path: path}
}

func (l Local) String() string { return l.path }

func (l Local) Join(name string) Filesystem {
	return Local{path: filepath.Join(l.path, name)}
}

func (l Local) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(l.path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, errcode.Wrapf(err, errcode.IO, "checking existence of %s", l.path)
}

func (l Local) Stat(_ context.Context) (Info, error) {
	fi, err := os.Stat(l.path)
	if err != nil {
		return Info{}, errcode.Wrapf(err, errcode.IO, "stat %s", l.path)
	}

	return infoFromOS(fi), nil
}

func (l Local) LstatSymlink(_ context.Context) (Info, error) {
	fi, err := os.Lstat(l.path)
	if err != nil {
		return Info{}, errcode.Wrapf(err, errcode.IO, "lstat %s", l.path)
	}

	return infoFromOS(fi), nil
}

func infoFromOS(fi os.FileInfo) Info {
	return Info{
		Name:    fi.Name(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
		Mode:    fi.Mode(),
	}
}

func (l Local) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, errcode.Wrapf(err, errcode.IO, "open %s", l.path)
	}

	return f, nil
}

func (l Local) ReadDir(_ context.Context) ([]DirEntry, error) {
	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, errcode.Wrapf(err, errcode.IO, "read dir %s", l.path)
	}

	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Path: l.Join(e.Name()), Name: e.Name()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (l Local) MkdirAll(_ context.Context) error {
	if err := os.MkdirAll(l.path, 0o755); err != nil {
		return errcode.Wrapf(err, errcode.IO, "mkdir -p %s", l.path)
	}

	return nil
}

func (l Local) Remove(_ context.Context) error {
	if err := os.Remove(l.path); err != nil {
		return errcode.Wrapf(err, errcode.IO, "remove %s", l.path)
	}

	return nil
}

func (l Local) SymlinkTo(_ context.Context, linkLocation Filesystem) error {
	other, ok := linkLocation.(Local)
	if !ok {
		return invalidInput("SymlinkTo requires two Local filesystem paths")
	}

	if err := os.Symlink(l.path, other.path); err != nil {
		return errcode.Wrapf(err, errcode.IO, "symlink %s -> %s", other.path, l.path)
	}

	return nil
}

func (l Local) CopyTo(ctx context.Context, dst Filesystem) error {
	src, err := l.Open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	other, ok := dst.(Local)
	if !ok {
		return invalidInput("CopyTo requires two Local filesystem paths")
	}

	out, err := os.OpenFile(other.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errcode.Wrapf(err, errcode.IO, "create %s", other.path)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return errcode.Wrapf(err, errcode.IO, "copy %s -> %s", l.path, other.path)
	}

	return errors.Wrapf(out.Sync(), "flush %s", other.path)
}

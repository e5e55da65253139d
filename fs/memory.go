package fs

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabo01/artid/internal/errcode"
)

type memKind int

const (
	memDir memKind = iota
	memFile
	memSymlink
)

type memNode struct {
	kind    memKind
	content []byte
	target  string // for memSymlink: the path (within the same store) it points at
	modTime time.Time
}

// memStore is the shared backing map for a tree of Memory handles. All
// Memory values produced by Join or NewMemoryRoot from the same root
// share one memStore, the way every Local value sharing a filesystem
// shares the real disk.
type memStore struct {
	mu    sync.Mutex
	nodes map[string]*memNode
}

// Memory is an in-memory Filesystem used by internal/diff,
// internal/planner and internal/executor's unit tests so they can
// assert on tree-shaped behavior without touching disk.
type Memory struct {
	store *memStore
	path  string
}

// NewMemoryRoot creates a new, empty in-memory filesystem. The root
// itself does not exist until MkdirAll is called on it,
// matching Local's behavior for a path that has not been created yet.
func NewMemoryRoot() Memory {
	return Memory{store: &memStore{nodes: map[string]*memNode{}}}
}

func (m Memory) clean() string { return path.Clean("/" + m.path) }

func (m Memory) String() string { return m.path }

func (m Memory) Join(name string) Filesystem {
	return Memory{store: m.store, path: path.Join(m.path, name)}
}

func (m Memory) node() (*memNode, bool) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	n, ok := m.store.nodes[m.clean()]
	return n, ok
}

func (m Memory) resolved() (Memory, *memNode, bool) {
	cur := m
	for i := 0; i < 64; i++ {
		n, ok := cur.node()
		if !ok || n.kind != memSymlink {
			return cur, n, ok
		}

		cur = Memory{store: m.store, path: n.target}
	}

	return cur, nil, false
}

func (m Memory) Exists(_ context.Context) (bool, error) {
	_, _, ok := m.resolved()
	return ok, nil
}

func (m Memory) Stat(_ context.Context) (Info, error) {
	_, n, ok := m.resolved()
	if !ok {
		return Info{}, errcode.Newf(errcode.IO, "stat %s: not found", m.path)
	}

	return m.infoFor(n), nil
}

func (m Memory) LstatSymlink(_ context.Context) (Info, error) {
	n, ok := m.node()
	if !ok {
		return Info{}, errcode.Newf(errcode.IO, "lstat %s: not found", m.path)
	}

	return m.infoFor(n), nil
}

func (m Memory) infoFor(n *memNode) Info {
	mode := regularMode
	switch n.kind {
	case memDir:
		mode = dirMode
	case memSymlink:
		mode = symlinkMode
	}

	return Info{
		Name:    path.Base(m.path),
		Size:    int64(len(n.content)),
		ModTime: n.modTime,
		Mode:    mode,
	}
}

func (m Memory) Open(_ context.Context) (io.ReadCloser, error) {
	_, n, ok := m.resolved()
	if !ok || n.kind == memDir {
		return nil, errcode.Newf(errcode.IO, "open %s: not found", m.path)
	}

	return io.NopCloser(bytes.NewReader(n.content)), nil
}

func (m Memory) ReadDir(_ context.Context) ([]DirEntry, error) {
	prefix := m.clean()
	if prefix != "/" {
		prefix += "/"
	}

	m.store.mu.Lock()
	var names []string
	for p := range m.store.nodes {
		if p == m.clean() {
			continue
		}

		if !strings.HasPrefix(p, prefix) {
			continue
		}

		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			continue // not a direct child
		}

		names = append(names, rest)
	}
	m.store.mu.Unlock()

	sort.Strings(names)

	out := make([]DirEntry, 0, len(names))
	for _, name := range names {
		out = append(out, DirEntry{Path: m.Join(name), Name: name})
	}

	return out, nil
}

func (m Memory) MkdirAll(_ context.Context) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	clean := m.clean()
	for _, p := range splitAncestors(clean) {
		if _, ok := m.store.nodes[p]; !ok {
			m.store.nodes[p] = &memNode{kind: memDir, modTime: time.Now()}
		}
	}

	return nil
}

func splitAncestors(clean string) []string {
	if clean == "/" {
		return []string{"/"}
	}

	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	var out []string
	acc := ""
	for _, p := range parts {
		acc += "/" + p
		out = append(out, acc)
	}

	return out
}

func (m Memory) Remove(_ context.Context) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	delete(m.store.nodes, m.clean())
	return nil
}

func (m Memory) SymlinkTo(_ context.Context, linkLocation Filesystem) error {
	other, ok := linkLocation.(Memory)
	if !ok {
		return invalidInput("SymlinkTo requires two Memory filesystem paths")
	}

	other.store.mu.Lock()
	defer other.store.mu.Unlock()

	other.store.nodes[other.clean()] = &memNode{
		kind:    memSymlink,
		target:  m.clean(),
		modTime: time.Now(),
	}

	return nil
}

func (m Memory) CopyTo(ctx context.Context, dst Filesystem) error {
	r, err := m.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return errcode.Wrapf(err, errcode.IO, "read %s", m.path)
	}

	other, ok := dst.(Memory)
	if !ok {
		return invalidInput("CopyTo requires two Memory filesystem paths")
	}

	return other.WriteFile(ctx, data, time.Now())
}

// WriteFile is a test-setup convenience, not part of the Filesystem
// interface: it creates or overwrites a regular file with the given
// content and modification time. Local has no equivalent because tests
// seed Local trees with ordinary os.WriteFile calls.
func (m Memory) WriteFile(_ context.Context, data []byte, modTime time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	m.store.nodes[m.clean()] = &memNode{kind: memFile, content: append([]byte(nil), data...), modTime: modTime}
	return nil
}

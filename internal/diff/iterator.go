package diff

import (
	"context"

	"github.com/gabo01/artid/fs"
)

// IterNode is one element yielded by Iterator: a Node plus the tree's
// two roots, so callers can materialise absolute paths (src.Join(path),
// dst.Join(path)) and so Synced can be computed on demand. This mirrors
// original_source's TreeIterNode, which bundles a &TreeNode with the
// tree's src/dst path references for the same reason.
type IterNode struct {
	Src, Dst fs.Filesystem
	Node     *Node
}

// SrcPath returns the node's absolute location under the tree's source
// root.
func (n IterNode) SrcPath() fs.Filesystem { return n.Src.Join(n.Node.Path) }

// DstPath returns the node's absolute location under the tree's
// destination root.
func (n IterNode) DstPath() fs.Filesystem { return n.Dst.Join(n.Node.Path) }

// Synced reports whether the two locations referenced by this node are
// synced in the given Direction: true iff both sides exist and the
// "to-be-synced" side's ModTime is at least the "to-sync" side's.
// A missing modification time on either side (the path does not exist,
// or its metadata cannot be read) means false. This is a coarse,
// metadata-only check — no content hashing is performed.
func (n IterNode) Synced(ctx context.Context, direction Direction) bool {
	toSync, toBeSynced := n.SrcPath(), n.DstPath()
	if direction == Backward {
		toSync, toBeSynced = toBeSynced, toSync
	}

	syncedExists, err := toSync.Exists(ctx)
	if err != nil || !syncedExists {
		return false
	}

	beSyncedExists, err := toBeSynced.Exists(ctx)
	if err != nil || !beSyncedExists {
		return false
	}

	srcInfo, err := toSync.Stat(ctx)
	if err != nil {
		return false
	}

	dstInfo, err := toBeSynced.Stat(ctx)
	if err != nil {
		return false
	}

	return !dstInfo.ModTime.Before(srcInfo.ModTime)
}

// Iterator walks a Tree breadth-first: a parent directory is always
// yielded before its children, which the action planner relies on to
// guarantee every CreateDir action precedes the CopyFile/CopyLink
// actions targeting its children.
type Iterator struct {
	tree    *Tree
	pending []IterNode
}

// Iter creates a breadth-first Iterator over t.
func (t *Tree) Iter() *Iterator {
	return &Iterator{
		tree:    t,
		pending: []IterNode{{Src: t.src, Dst: t.dst, Node: t.root}},
	}
}

// Next returns the next node in breadth-first order, or (IterNode{},
// false) once the walk is exhausted.
func (it *Iterator) Next() (IterNode, bool) {
	if len(it.pending) == 0 {
		return IterNode{}, false
	}

	next := it.pending[0]
	it.pending = it.pending[1:]

	if next.Node.Kind == fs.Dir {
		for _, child := range next.Node.Children {
			it.pending = append(it.pending, IterNode{Src: next.Src, Dst: next.Dst, Node: child})
		}
	}

	return next, true
}

// All drains the iterator into a slice, for callers (like the planner)
// that want to range over every node rather than pull one at a time.
func (t *Tree) All() []IterNode {
	it := t.Iter()

	var out []IterNode
	for {
		n, ok := it.Next()
		if !ok {
			return out
		}

		out = append(out, n)
	}
}

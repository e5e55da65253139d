// Package planner converts a directory-tree diff (internal/diff) into
// an ordered Plan of filesystem actions. It is a Go transliteration of
// original_source's src/core/src/ops/backup.rs
// (Backup::with_previous, Backup::from_scratch) and
// src/core/src/ops/restore.rs (Restore::from_point).
package planner

import (
	"context"

	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/diff"
	"github.com/gabo01/artid/internal/errcode"
)

// Kind is the closed set of filesystem actions a Plan is made of.
type Kind int

const (
	// CreateDir creates Target as a directory (recursively).
	CreateDir Kind = iota
	// CopyFile byte-copies Src into Dst.
	CopyFile
	// CopyLink creates a symlink at Dst pointing at Src.
	CopyLink
)

func (k Kind) String() string {
	switch k {
	case CreateDir:
		return "CreateDir"
	case CopyFile:
		return "CopyFile"
	default:
		return "CopyLink"
	}
}

// Action is one step of a Plan. For CreateDir, only Target is set; for
// CopyFile/CopyLink, Src and Dst are set and Target is nil.
type Action struct {
	Kind   Kind
	Target fs.Filesystem
	Src    fs.Filesystem
	Dst    fs.Filesystem
}

// Plan is a finite ordered sequence of actions. Ordering invariant: for
// every CopyFile/CopyLink action, every ancestor directory of Dst
// appears earlier in the sequence as a CreateDir (or already exists on
// disk). This holds here because every Plan is built
// by walking a diff.Tree breadth-first, and diff.Iterator always yields
// a directory node before its children.
type Plan []Action

// BackupFromScratch builds the plan for a folder with no previous
// snapshot: every path under origin is copied into newSnapshot. Because
// newSnapshot does not exist yet, the diff tree's root presence is
// diff.Src, so every node is copied.
func BackupFromScratch(ctx context.Context, origin, newSnapshot fs.Filesystem) (Plan, error) {
	tree, err := diff.New(ctx, origin, newSnapshot)
	if err != nil {
		return nil, errcode.Wrap(err, errcode.Operative, "diffing origin against new snapshot")
	}

	var plan Plan

	for _, n := range tree.All() {
		if n.Node.Kind == fs.Dir {
			plan = append(plan, Action{Kind: CreateDir, Target: newSnapshot.Join(n.Node.Path)})
			continue
		}

		plan = append(plan, Action{
			Kind: CopyFile,
			Src:  origin.Join(n.Node.Path),
			Dst:  newSnapshot.Join(n.Node.Path),
		})
	}

	return plan, nil
}

// BackupWithPrevious builds the plan for a folder that has a previous
// snapshot: unchanged files are shared via symlink into the previous
// snapshot rather than copied again.
func BackupWithPrevious(ctx context.Context, origin, previous, newSnapshot fs.Filesystem) (Plan, error) {
	tree, err := diff.New(ctx, origin, previous)
	if err != nil {
		return nil, errcode.Wrap(err, errcode.Operative, "diffing origin against previous snapshot")
	}

	var plan Plan

	for _, n := range tree.All() {
		if n.Node.Presence == diff.Dst {
			// Present only in the previous snapshot: the user deleted it
			// from origin, so it is absent from the new snapshot too.
			continue
		}

		if n.Node.Kind == fs.Dir {
			plan = append(plan, Action{Kind: CreateDir, Target: newSnapshot.Join(n.Node.Path)})
			continue
		}

		if n.Node.Presence == diff.Src || !n.Synced(ctx, diff.Forward) {
			plan = append(plan, Action{
				Kind: CopyFile,
				Src:  origin.Join(n.Node.Path),
				Dst:  newSnapshot.Join(n.Node.Path),
			})
			continue
		}

		plan = append(plan, Action{
			Kind: CopyLink,
			Src:  previous.Join(n.Node.Path),
			Dst:  newSnapshot.Join(n.Node.Path),
		})
	}

	return plan, nil
}

// RestoreFromPoint builds the plan that materialises snapshot back into
// origin. When overwrite is false, only paths missing from origin are
// restored; when true, paths present in both are overwritten too
// (directories excepted, since an existing directory never needs
// recreating).
func RestoreFromPoint(ctx context.Context, origin, snapshot fs.Filesystem, overwrite bool) (Plan, error) {
	tree, err := diff.New(ctx, origin, snapshot)
	if err != nil {
		return nil, errcode.Wrap(err, errcode.Operative, "diffing origin against snapshot")
	}

	var plan Plan

	for _, n := range tree.All() {
		keep := n.Node.Presence == diff.Dst ||
			(overwrite && n.Node.Presence == diff.Both && n.Node.Kind != fs.Dir)

		if !keep {
			continue
		}

		if n.Node.Kind == fs.Dir && n.Node.Presence == diff.Dst {
			plan = append(plan, Action{Kind: CreateDir, Target: origin.Join(n.Node.Path)})
			continue
		}

		if n.Node.Kind == fs.Other {
			// A device file or similar: nothing sensible to copy.
			continue
		}

		plan = append(plan, Action{
			Kind: CopyFile,
			Src:  snapshot.Join(n.Node.Path),
			Dst:  origin.Join(n.Node.Path),
		})
	}

	return plan, nil
}

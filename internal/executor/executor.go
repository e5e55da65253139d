// Package executor applies a planner.Plan to disk (or to any other
// fs.Filesystem backend). It is grounded on the apply loop in
// original_source's src/core/src/ops/core/mod.rs
// (Folder::sync / apply_plan), rewritten around the engine's own
// Filesystem/Action types and kopia's context-carried logging.
package executor

import (
	"context"
	"fmt"

	"github.com/gabo01/artid/fs"
	"github.com/gabo01/artid/internal/errcode"
	"github.com/gabo01/artid/internal/logging"
	"github.com/gabo01/artid/internal/planner"
)

var log = logging.Module("artid/executor")

// Mode selects whether Apply performs the plan's actions or only
// reports what it would do.
type Mode int

const (
	// Run performs every action.
	Run Mode = iota
	// DryRun logs every action without touching the filesystem.
	DryRun
)

// CommitToken is returned by Apply once every action in a Plan has
// run without error. Its only data is the number of actions applied;
// its purpose is to force a caller that wants to persist a manifest update (the
// archive package's job, not this one) to have first obtained proof
// that the plan it describes actually completed. Earlier drafts of
// this package considered a stashed "commit" closure instead, but a
// token makes the "you may only persist after a successful Apply"
// invariant visible in the function signature rather than buried in a
// callback contract.
type CommitToken struct {
	actions int
}

// Actions reports how many actions the completed plan contained.
func (c CommitToken) Actions() int { return c.actions }

// Apply runs plan's actions in order. In Run mode, a failure midway
// stops immediately and returns the error: actions already applied are
// not rolled back, since every action is independently idempotent to
// re-run (CreateDir is a no-op if the
// directory exists, CopyFile/CopyLink overwrite their destination).
// In DryRun mode, each action is logged and nothing is written.
func Apply(ctx context.Context, plan planner.Plan, mode Mode) (CommitToken, error) {
	for _, action := range plan {
		if err := applyOne(ctx, action, mode); err != nil {
			return CommitToken{}, err
		}
	}

	return CommitToken{actions: len(plan)}, nil
}

func applyOne(ctx context.Context, action planner.Action, mode Mode) error {
	logAction(ctx, action)

	if mode == DryRun {
		return nil
	}

	switch action.Kind {
	case planner.CreateDir:
		if err := action.Target.MkdirAll(ctx); err != nil {
			return errcode.Wrapf(err, errcode.IO, "creating directory %s", action.Target)
		}

		return nil

	case planner.CopyFile:
		if err := removeExisting(ctx, action.Dst); err != nil {
			return err
		}

		if err := action.Src.CopyTo(ctx, action.Dst); err != nil {
			return errcode.Wrapf(err, errcode.IO, "copying %s to %s", action.Src, action.Dst)
		}

		return nil

	case planner.CopyLink:
		if err := removeExisting(ctx, action.Dst); err != nil {
			return err
		}

		if err := action.Src.SymlinkTo(ctx, action.Dst); err != nil {
			return errcode.Wrapf(err, errcode.IO, "linking %s to %s", action.Dst, action.Src)
		}

		return nil

	default:
		return errcode.Newf(errcode.Operative, "unknown action kind %v", action.Kind)
	}
}

// removeExisting clears any pre-existing symlink or file at dst so
// CopyFile/CopyLink never fail trying to create over it. dst not
// existing at all is not an error.
func removeExisting(ctx context.Context, dst fs.Filesystem) error {
	exists, err := dst.Exists(ctx)
	if err != nil {
		return errcode.Wrap(err, errcode.IO, "probing destination before write")
	}

	if !exists {
		return nil
	}

	if err := dst.Remove(ctx); err != nil {
		return errcode.Wrapf(err, errcode.IO, "removing existing entry at %v", dst)
	}

	return nil
}

func logAction(ctx context.Context, action planner.Action) {
	switch action.Kind {
	case planner.CreateDir:
		log(ctx).Debugw("plan action", "kind", "CreateDir", "target", fmt.Sprint(action.Target))
	default:
		log(ctx).Debugw("plan action", "kind", action.Kind.String(), "src", fmt.Sprint(action.Src), "dst", fmt.Sprint(action.Dst))
	}
}

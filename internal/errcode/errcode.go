// Package errcode defines the closed set of failure kinds raised by the
// core backup/restore engine and the causal-chain helpers used to wrap
// them.
package errcode

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is a closed taxonomy of failure categories. New kinds are added
// here, never inferred from error strings at call sites.
type Kind int

const (
	// Unknown is never constructed directly; it only appears if a Kind
	// zero value escapes into user-visible output.
	Unknown Kind = iota

	// File is raised when the manifest file cannot be read, opened or
	// written.
	File

	// InvalidData is raised when the manifest cannot be parsed.
	InvalidData

	// IO is raised for any disk operation failure during diff, plan or
	// execute.
	IO

	// PointNotExists is raised when a restore targets a snapshot that is
	// not in history, or a --from index beyond the per-folder snapshot
	// count.
	PointNotExists

	// BadArgument is raised when a CLI argument fails validation.
	BadArgument

	// Operative is the umbrella kind wrapping planning or execution
	// failures (IO, PointNotExists).
	Operative

	// Config is the umbrella kind wrapping manifest-layer failures
	// (File, InvalidData).
	Config
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case InvalidData:
		return "invalid-data"
	case IO:
		return "io"
	case PointNotExists:
		return "point-not-exists"
	case BadArgument:
		return "bad-argument"
	case Operative:
		return "operative"
	case Config:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the concrete error type raised throughout the engine. It
// carries a Kind and, through github.com/pkg/errors, a causal chain
// accessible via errors.Cause / the %+v verb.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}

	return e.msg
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.err }

// Cause exposes the wrapped cause to github.com/pkg/errors.Cause.
func (e *Error) Cause() error { return e.err }

// KindOf returns the closed-set failure category of err, or Unknown if
// err was not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}

	return Unknown
}

// New creates a bare Error of the given kind with no cause.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap chains cause under a new Error of the given kind. A nil cause
// yields a nil error, mirroring github.com/pkg/errors.Wrap.
func Wrap(cause error, kind Kind, msg string) error {
	if cause == nil {
		return nil
	}

	return &Error{kind: kind, msg: msg, err: cause}
}

// Wrapf is Wrap with fmt.Sprintf-style formatting.
func Wrapf(cause error, kind Kind, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}

	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: cause}
}

// BadArgumentError builds the BadArgument(name, value) shape used for
// CLI argument validation failures.
func BadArgumentError(name, value string) error {
	return Newf(BadArgument, "invalid argument %s=%q", name, value)
}

// Is reports whether the outermost Error in err's chain has the given
// Kind. Kinds of Errors wrapped further down the chain are not
// consulted.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Cause returns the innermost wrapped error, following github.com/pkg/errors
// semantics.
func Cause(err error) error {
	return errors.Cause(err)
}

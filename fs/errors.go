package fs

import "github.com/gabo01/artid/internal/errcode"

// invalidInput builds the recoverable error raised when SymlinkTo is
// attempted across two Filesystem values of different concrete kinds.
// It is classified under the IO kind in the closed taxonomy
// (errcode.IO): it is a disk-operation failure surfaced during
// diff/plan/execute, same as any other local filesystem error.
func invalidInput(msg string) error {
	return errcode.New(errcode.IO, msg)
}

package errcode_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gabo01/artid/internal/errcode"
)

func TestWrapChainsCause(t *testing.T) {
	wrapped := errcode.Wrap(io.EOF, errcode.IO, "reading snapshot directory")
	require.Error(t, wrapped)
	require.Equal(t, io.EOF, errcode.Cause(wrapped))
	require.Equal(t, errcode.IO, errcode.KindOf(wrapped))

	operative := errcode.Wrap(wrapped, errcode.Operative, "plan execution failed")
	require.Equal(t, errcode.Operative, errcode.KindOf(operative))
	require.True(t, errcode.Is(operative, errcode.Operative))
	require.False(t, errcode.Is(operative, errcode.IO))
}

func TestWrapNilIsNil(t *testing.T) {
	require.NoError(t, errcode.Wrap(nil, errcode.IO, "should not happen"))
}

func TestBadArgumentError(t *testing.T) {
	err := errcode.BadArgumentError("--from", "nope")
	require.True(t, errcode.Is(err, errcode.BadArgument))
	require.Contains(t, err.Error(), "--from")
}

func TestKindOfUnrelatedError(t *testing.T) {
	require.Equal(t, errcode.Unknown, errcode.KindOf(io.EOF))
}

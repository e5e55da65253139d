package archive_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gabo01/artid/archive"
)

func TestNewPathInterpolatesVar(t *testing.T) {
	require.NoError(t, os.Setenv("ARTIDTESTVAR", "/home/tester"))
	defer os.Unsetenv("ARTIDTESTVAR")

	p := archive.NewPath("$ARTIDTESTVAR/Documents")
	require.Equal(t, "/home/tester/Documents", p.Resolved())
	require.Equal(t, "$ARTIDTESTVAR/Documents", p.Addr())
}

func TestNewPathUnsetVarIsEmpty(t *testing.T) {
	require.NoError(t, os.Unsetenv("ARTIDTESTUNSET"))

	p := archive.NewPath("$ARTIDTESTUNSET/x")
	require.Equal(t, "/x", p.Resolved())
}

func TestNewPathEscapedDollarIsLiteral(t *testing.T) {
	require.NoError(t, os.Setenv("HOME", "/home/ignored"))

	p := archive.NewPath(`\$HOME/literal`)
	require.Equal(t, "$HOME/literal", p.Resolved())
}

func TestPathRoundTripsThroughText(t *testing.T) {
	require.NoError(t, os.Setenv("ARTID_TEST_VAR", "/somewhere"))
	defer os.Unsetenv("ARTID_TEST_VAR")

	p := archive.NewPath("$ARTID_TEST_VAR/data")
	text, err := p.MarshalText()
	require.NoError(t, err)

	var round archive.Path
	require.NoError(t, round.UnmarshalText(text))
	require.Equal(t, p.Resolved(), round.Resolved())
	require.Equal(t, p.Addr(), round.Addr())
}

package archive

import (
	"os"
	"regexp"
)

// envVar matches a possibly-escaped environment variable reference
// inside a manifest path string: `$NAME` interpolates, `\$NAME`
// renders as the literal `$NAME`. Grounded verbatim on
// original_source/crates/env_path's own regex.
var envVar = regexp.MustCompile(`(\\?)\$([A-Z]+)`)

// Path is a manifest-stored path string with environment-variable
// interpolation performed once, at construction time. Addr preserves
// the original (possibly $VAR-bearing) string for round-tripping back
// to the manifest file; Resolved is the interpolated form used for
// every disk operation.
type Path struct {
	addr     string
	resolved string
}

// NewPath interpolates addr's `$NAME` references against the current
// environment and returns a Path carrying both forms. Interpolation
// happens exactly once: a Path does not track environment changes
// after construction.
func NewPath(addr string) Path {
	resolved := envVar.ReplaceAllStringFunc(addr, func(match string) string {
		groups := envVar.FindStringSubmatch(match)
		if groups[1] == `\` {
			return "$" + groups[2]
		}

		return os.Getenv(groups[2])
	})

	return Path{addr: addr, resolved: resolved}
}

// Addr returns the original, uninterpolated string, suitable for
// saving back to the manifest.
func (p Path) Addr() string { return p.addr }

// Resolved returns the interpolated path used for filesystem access.
func (p Path) Resolved() string { return p.resolved }

// String implements fmt.Stringer as the resolved path, since that is
// what callers almost always want to display or join against.
func (p Path) String() string { return p.resolved }

// MarshalText lets Path round-trip through BurntSushi/toml as a plain
// string, storing Addr rather than Resolved so interpolation is
// re-applied (against whatever environment is current) on next load.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.addr), nil
}

// UnmarshalText reconstructs a Path from its stored Addr, interpolating
// against the current environment.
func (p *Path) UnmarshalText(text []byte) error {
	*p = NewPath(string(text))
	return nil
}

package archive

import (
	"time"

	"github.com/gabo01/artid/internal/errcode"
	"github.com/gabo01/artid/internal/rfc3339"
)

// Snapshot is one append-only history entry: a point-in-time backup
// identified by a nanosecond-precision timestamp and the folder ids it
// covers. Snapshot never reuses a timestamp already present in a
// manifest's history.
type Snapshot struct {
	Timestamp string   `toml:"timestamp"`
	Folders   []string `toml:"folders"`
}

// Time parses Timestamp back into a time.Time using the engine's
// lossless RFC3339-nanos layout.
func (s Snapshot) Time() (time.Time, error) {
	t, err := rfc3339.Parse(s.Timestamp)
	if err != nil {
		return time.Time{}, errcode.Wrapf(err, errcode.InvalidData, "parsing snapshot timestamp %q", s.Timestamp)
	}

	return t, nil
}

// contains reports whether folderID participated in this snapshot.
func (s Snapshot) contains(folderID string) bool {
	for _, id := range s.Folders {
		if id == folderID {
			return true
		}
	}

	return false
}

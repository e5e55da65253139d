package archive

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Folder is a registered backup source: an origin path on the real
// filesystem and the archive-relative path its snapshots are stored
// under, identified by a stable Folder.ID that survives either path
// being edited later.
type Folder struct {
	ID     string `toml:"id"`
	Path   Path   `toml:"path"`
	Origin Path   `toml:"origin"`
}

// folderIDLength is the number of hex characters kept from the SHA-256
// digest: 24 hex chars (12 bytes) is short enough to read in a manifest
// diff yet collision-safe for the number of folders a single archive
// realistically registers.
const folderIDLength = 24

// NewFolderID derives a stable identifier from a folder's origin path.
// Two registrations of the same origin always produce the same id,
// which is what lets a folder's snapshots continue to resolve to it
// under rename of its archive-relative path. An empty origin (a folder
// being constructed before its origin is known) falls back to a random
// github.com/google/uuid token rather than hashing the empty string,
// since every such folder would otherwise collide on the same id.
func NewFolderID(origin string) string {
	if origin == "" {
		return uuid.NewString()
	}

	sum := sha256.Sum256([]byte(origin))
	return hex.EncodeToString(sum[:])[:folderIDLength]
}

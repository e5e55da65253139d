package fs

import "os"

// Synthetic modes used by Memory.infoFor so KindOf classifies
// in-memory nodes the same way it classifies real os.FileInfo values.
const (
	regularMode os.FileMode = 0o644
	dirMode                 = os.ModeDir | 0o755
	symlinkMode             = os.ModeSymlink | 0o777
)

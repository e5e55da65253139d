// Package archive implements the on-disk archive manifest: the
// configured folders, the append-only snapshot history, and the
// env-interpolated path type both are built from. It is grounded on
// github.com/kopia/kopia's repo.LocalConfig load/save-to-file pattern,
// adapted from JSON to a TOML schema using github.com/BurntSushi/toml
// the way hashgraph-solo-weaver's configuration layer does.
package archive

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"

	"github.com/gabo01/artid/internal/errcode"
)

// ManifestDir is the directory, relative to an archive root, the
// manifest and lock file live under.
const ManifestDir = ".artid"

// ManifestFile is the manifest's file name within ManifestDir.
const ManifestFile = "artid.toml"

// Hasher names the content-hashing scheme a manifest declares. The
// core never hashes file content itself (no dedup beyond whole-file
// symlink reuse, per the non-goals this engine honors), so the field
// is round-tripped losslessly rather than acted on, the way kopia's
// own LocalConfig carries fields not every code path touches.
type Hasher string

// Sha3 is the only hasher value this engine currently emits.
const Sha3 Hasher = "sha-3"

type manifestSystem struct {
	Hasher  Hasher   `toml:"hasher"`
	Folders []Folder `toml:"folder"`
}

type manifestHistory struct {
	Snapshots []Snapshot `toml:"snapshot"`
}

// Manifest is the in-memory representation of an archive: its
// configured folders and its snapshot history.
//
// Unknown top-level keys are ignored on load and dropped on save: this
// struct round-trips only the system/folder/history shape it models,
// not arbitrary extra tables. Preserving unrecognised keys losslessly
// would need a generic TOML document model behind BurntSushi/toml's
// typed decoding, which the archive format does not otherwise need.
type Manifest struct {
	Hasher  Hasher `toml:"-"`
	folders []Folder
	history []Snapshot
}

type manifestDoc struct {
	System  manifestSystem  `toml:"system"`
	History manifestHistory `toml:"history"`
}

// New returns an empty manifest using the given hasher.
func New(hasher Hasher) *Manifest {
	return &Manifest{Hasher: hasher}
}

// ManifestPath returns the manifest file path for the given archive
// root.
func ManifestPath(archiveRoot string) string {
	return filepath.Join(archiveRoot, ManifestDir, ManifestFile)
}

// Load reads and parses the manifest file for archiveRoot. Folder id
// uniqueness, snapshot-folder referential integrity and strictly
// increasing history timestamps are validated before Load returns.
func Load(archiveRoot string) (*Manifest, error) {
	path := ManifestPath(archiveRoot)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errcode.Wrapf(err, errcode.File, "reading manifest %s", path)
	}

	var doc manifestDoc

	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, errcode.Wrapf(err, errcode.InvalidData, "parsing manifest %s", path)
	}

	m := &Manifest{
		Hasher:  doc.System.Hasher,
		folders: doc.System.Folders,
		history: doc.History.Snapshots,
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.folders))

	for _, f := range m.folders {
		if seen[f.ID] {
			return errcode.Newf(errcode.InvalidData, "duplicate folder id %q in manifest", f.ID)
		}

		seen[f.ID] = true
	}

	lastTimestamp := ""

	for _, s := range m.history {
		for _, id := range s.Folders {
			if !seen[id] {
				return errcode.Newf(errcode.InvalidData, "snapshot %s references unknown folder id %q", s.Timestamp, id)
			}
		}

		if lastTimestamp != "" && s.Timestamp <= lastTimestamp {
			return errcode.Newf(errcode.InvalidData, "snapshot history is not strictly increasing at %s", s.Timestamp)
		}

		lastTimestamp = s.Timestamp
	}

	return nil
}

// Save writes the manifest to archiveRoot via write-then-rename, so a
// crash mid-write never corrupts an existing manifest.
func (m *Manifest) Save(archiveRoot string) error {
	if err := m.validate(); err != nil {
		return err
	}

	dir := filepath.Join(archiveRoot, ManifestDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errcode.Wrapf(err, errcode.File, "creating %s", dir)
	}

	doc := manifestDoc{
		System:  manifestSystem{Hasher: m.Hasher, Folders: m.folders},
		History: manifestHistory{Snapshots: m.history},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return errcode.Wrap(err, errcode.File, "encoding manifest")
	}

	path := ManifestPath(archiveRoot)
	if err := atomic.WriteFile(path, &buf); err != nil {
		return errcode.Wrapf(err, errcode.File, "writing manifest %s", path)
	}

	return nil
}

// AddFolder registers a new folder, deriving and assigning its id, and
// returns the stored value.
func (m *Manifest) AddFolder(path, origin Path) Folder {
	f := Folder{ID: NewFolderID(origin.Addr()), Path: path, Origin: origin}
	m.folders = append(m.folders, f)

	return f
}

// FolderByID looks up a registered folder by its stable id.
func (m *Manifest) FolderByID(id string) (Folder, bool) {
	for _, f := range m.folders {
		if f.ID == id {
			return f, true
		}
	}

	return Folder{}, false
}

// FolderByPath looks up a registered folder by its archive-relative
// path.
func (m *Manifest) FolderByPath(path string) (Folder, bool) {
	for _, f := range m.folders {
		if f.Path.Addr() == path {
			return f, true
		}
	}

	return Folder{}, false
}

// Folders returns every registered folder, in registration order.
func (m *Manifest) Folders() []Folder {
	return append([]Folder(nil), m.folders...)
}

// Snapshots returns the full history, oldest first.
func (m *Manifest) Snapshots() []Snapshot {
	return append([]Snapshot(nil), m.history...)
}

// AppendSnapshot adds a new history entry. The caller (the ops façade)
// is responsible for ensuring s.Timestamp is strictly greater than every
// existing timestamp before calling this.
func (m *Manifest) AppendSnapshot(s Snapshot) {
	m.history = append(m.history, s)
}

// LastSnapshotFor returns the most recent snapshot that contains
// folderID, if any.
func (m *Manifest) LastSnapshotFor(folderID string) (Snapshot, bool) {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].contains(folderID) {
			return m.history[i], true
		}
	}

	return Snapshot{}, false
}

// SnapshotAt returns the history entry with the given timestamp.
func (m *Manifest) SnapshotAt(timestamp string) (Snapshot, bool) {
	for _, s := range m.history {
		if s.Timestamp == timestamp {
			return s, true
		}
	}

	return Snapshot{}, false
}

// SnapshotByIndex returns the N-th (0-based) snapshot that contains
// folderID, counted from the oldest, for the CLI's --from flag.
func (m *Manifest) SnapshotByIndex(folderID string, n int) (Snapshot, bool) {
	count := 0

	for _, s := range m.history {
		if !s.contains(folderID) {
			continue
		}

		if count == n {
			return s, true
		}

		count++
	}

	return Snapshot{}, false
}

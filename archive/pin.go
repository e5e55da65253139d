package archive

// Pin projects the history against a single snapshot: for a given
// folder, it resolves to the timestamp of the most recent snapshot at
// or before the pinned one that contains that folder. This lets a
// restore of snapshot T locate the most recent backup of a folder that
// was not itself part of T.
type Pin struct {
	history []Snapshot
	index   int // position of the pinned snapshot within history
}

// PinAt builds a Pin at the snapshot with the given timestamp.
func (m *Manifest) PinAt(timestamp string) (Pin, bool) {
	for i, s := range m.history {
		if s.Timestamp == timestamp {
			return Pin{history: m.history, index: i}, true
		}
	}

	return Pin{}, false
}

// Resolve returns the timestamp of the most recent snapshot at or
// before the pin that contains folderID, walking backwards from the
// pinned snapshot.
func (p Pin) Resolve(folderID string) (string, bool) {
	for i := p.index; i >= 0; i-- {
		if p.history[i].contains(folderID) {
			return p.history[i].Timestamp, true
		}
	}

	return "", false
}

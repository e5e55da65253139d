// Package rfc3339 formats and parses the nanosecond-precision UTC
// timestamps used to name snapshot directories and to serialise
// snapshot history in the archive manifest.
package rfc3339

import "time"

// layout is RFC3339 with nanosecond fractional seconds and a literal Z,
// e.g. "2024-05-01T12:00:00.123456789Z". Unlike time.RFC3339Nano, this
// layout always prints all nine fractional digits so formatting is
// lossless and directory names sort lexicographically by time.
const layout = "2006-01-02T15:04:05.000000000Z"

// Format renders t (converted to UTC) using the archive's on-disk
// timestamp representation. Snapshot directory names use this string
// verbatim.
func Format(t time.Time) string {
	return t.UTC().Format(layout)
}

// Parse is the inverse of Format. It round-trips losslessly: for any
// time t, Parse(Format(t)) equals t.UTC() exactly to the nanosecond.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, err
	}

	return t.UTC(), nil
}

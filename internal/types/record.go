// Package types provides shared types used across the dupeview codebase.
package types

import (
	"bytes"
	"encoding/base64"
	"path/filepath"
	"time"
)

// Fingerprint is the SHA-1 digest of a file's full content.
// A nil Fingerprint means the content could not be hashed.
type Fingerprint []byte

// Resolved reports whether the fingerprint was computed.
func (f Fingerprint) Resolved() bool { return f != nil }

// Equal reports whether both fingerprints are resolved and bit-for-bit identical.
// Unresolved fingerprints never equal anything, including each other.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if f == nil || other == nil {
		return false
	}
	return bytes.Equal(f, other)
}

// String returns the base64 form shown in the hash column, or "" when unresolved.
func (f Fingerprint) String() string {
	if f == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(f)
}

// ColorID indexes a color table. IDs are dense and start at 0.
type ColorID int

// NoColor marks a record whose fingerprint is unresolved.
// It never collides with a real color, including ColorID 0.
const NoColor ColorID = -1

// FileRecord is one row of the catalog.
// Size and ModTime are snapshots taken at collection time.
type FileRecord struct {
	Path        string
	Size        uint64
	ModTime     time.Time
	Fingerprint Fingerprint
	Color       ColorID
}

// Name returns the base name of the file.
func (r FileRecord) Name() string { return filepath.Base(r.Path) }

// Dir returns the directory containing the file.
func (r FileRecord) Dir() string { return filepath.Dir(r.Path) }

// Resolved reports whether the record carries a computed fingerprint.
func (r FileRecord) Resolved() bool { return r.Fingerprint.Resolved() }

// WithColor returns a copy of the record carrying the given color.
func (r FileRecord) WithColor(id ColorID) FileRecord {
	r.Color = id
	return r
}

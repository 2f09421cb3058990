package model

import (
	"fmt"
	"strings"
)

// EntryType tags a listing entry as a file or a directory.
type EntryType int

const (
	EntryFile EntryType = iota
	EntryDirectory
)

// String returns the git object name used in listings ("blob" or "tree").
func (t EntryType) String() string {
	switch t {
	case EntryDirectory:
		return "tree"
	default:
		return "blob"
	}
}

// ParseEntryType accepts the git object names plus "dir"/"file" aliases.
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blob", "file":
		return EntryFile, nil
	case "tree", "dir", "directory":
		return EntryDirectory, nil
	default:
		return EntryFile, fmt.Errorf("unknown entry type %q", s)
	}
}

func (t EntryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EntryType) UnmarshalText(b []byte) error {
	parsed, err := ParseEntryType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Entry is one record of the flat repository listing.
type Entry struct {
	Path        string    `json:"path"`          // Slash separated, case-sensitive (e.g. content/posts/hello.md)
	Type        EntryType `json:"type"`          // "tree" or "blob"
	ContentHash string    `json:"sha,omitempty"` // Content hash from the source, may be empty
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == EntryDirectory
}

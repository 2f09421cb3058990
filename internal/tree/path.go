// Package tree turns a flat repository listing into a nested file tree and a
// page tree, and indexes either tree by path.
//
// Everything here is pure and total: malformed input is dropped, never
// reported, and no function panics on any listing.
package tree

import (
	"strings"
)

const (
	// Separator joins path segments. Paths are case-sensitive.
	Separator = "/"

	// ContentRoot is the conventional top-level content directory. It is never
	// materialized as a page under its own name.
	ContentRoot = "content"

	// ContentExt marks files that become pages. Anything else is an asset.
	ContentExt = ".md"

	// HomeTitle is the fixed title of the document root.
	HomeTitle = "Home Page"

	// MaxDepth caps the number of path segments any traversal will follow.
	// Deeper entries are treated as orphans.
	MaxDepth = 64
)

// IndexMarkers are the file names that make a directory addressable.
var IndexMarkers = []string{"_index.md", "index.md"}

// Split returns the ordered segments of a path and its leaf name.
func Split(path string) (segments []string, leaf string) {
	if path == "" {
		return nil, ""
	}
	segments = strings.Split(path, Separator)
	return segments, segments[len(segments)-1]
}

// Leaf returns the final segment of a path.
func Leaf(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ParentPath drops the final segment. ok is false for root paths.
func ParentPath(path string) (parent string, ok bool) {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return "", false
	}
	return path[:i], true
}

// Depth counts the segments of a path ("a/b/c" is 3).
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, Separator) + 1
}

// IsIndexMarker reports whether name is one of the reserved index file names.
func IsIndexMarker(name string) bool {
	for _, marker := range IndexMarkers {
		if name == marker {
			return true
		}
	}
	return false
}

// IsContentFile reports whether name carries the markdown extension.
func IsContentFile(name string) bool {
	if len(name) < len(ContentExt) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(ContentExt):], ContentExt)
}

// JoinPath joins a parent path and a child name.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + Separator + name
}

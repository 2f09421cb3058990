package model

import "fmt"

// FileNode is a file or directory in the nested file tree.
// Path always equals the ancestor names joined by "/" ending in Name.
type FileNode struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	Type        EntryType   `json:"type"`
	ContentHash string      `json:"sha,omitempty"`
	Children    []*FileNode `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *FileNode) IsDir() bool {
	return n.Type == EntryDirectory
}

func (n *FileNode) NodePath() string          { return n.Path }
func (n *FileNode) NodeChildren() []*FileNode { return n.Children }

// PageKind describes what backs a page. It is informational only:
// folders and files are addressed the same way.
type PageKind int

const (
	KindPage PageKind = iota
	KindFolder
)

func (k PageKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	default:
		return "page"
	}
}

func (k PageKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PageKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "page":
		*k = KindPage
	case "folder":
		*k = KindFolder
	default:
		return fmt.Errorf("unknown page kind %q", b)
	}
	return nil
}

// PageNode is an addressable unit of the page tree.
//
// When IsIndexBacked is set, ContentPath is the path of the directory's hidden
// index file. File-backed pages carry their own path as ContentPath, and a
// folder without an index has no content (ContentPath is empty).
type PageNode struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Path          string      `json:"path"`
	ContentPath   string      `json:"contentPath,omitempty"`
	Kind          PageKind    `json:"kind"`
	IsIndexBacked bool        `json:"isIndexBacked"`
	Children      []*PageNode `json:"children,omitempty"`
	Source        *FileNode   `json:"-"`
}

// HasContent reports whether the page has a body that can be fetched.
func (n *PageNode) HasContent() bool {
	return n.ContentPath != ""
}

func (n *PageNode) NodePath() string          { return n.Path }
func (n *PageNode) NodeChildren() []*PageNode { return n.Children }

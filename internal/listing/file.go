package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pagetree/internal/model"
)

// StdinPath selects standard input as a listing file.
const StdinPath = "-"

// FileSource reads a pre-computed JSON listing:
//
//	[{"path": "content/_index.md", "type": "blob", "sha": "..."}]
//
// It carries no file bodies.
type FileSource struct {
	Path  string
	Stdin io.Reader
}

// NewFileSource returns a source for the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, Stdin: os.Stdin}
}

func (s *FileSource) Identity() string {
	if s.Path == StdinPath {
		return "file:stdin"
	}
	path, err := filepath.Abs(s.Path)
	if err != nil {
		path = s.Path
	}
	return "file:" + path
}

func (s *FileSource) Listing(_ context.Context) ([]model.Entry, error) {
	var r io.Reader
	if s.Path == StdinPath {
		r = s.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
		}
		defer f.Close()
		r = f
	}

	entries, err := DecodeListing(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListingUnavailable, s.Path, err)
	}
	return entries, nil
}

func (s *FileSource) Content(_ context.Context, path string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s: listing files carry no content", ErrContentUnavailable, path)
}

// DecodeListing parses a JSON array of entries.
func DecodeListing(r io.Reader) ([]model.Entry, error) {
	var entries []model.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return entries, nil
}

// EncodeListing writes entries as an indented JSON array.
func EncodeListing(w io.Writer, entries []model.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

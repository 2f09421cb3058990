package listing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagetree/internal/model"
)

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"path": "content", "type": "tree"},
		{"path": "content/_index.md", "type": "blob", "sha": "abc"},
		{"path": "content/notes.md", "type": "file"}
	]`), 0644))

	src := NewFileSource(path)
	entries, err := src.Listing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Entry{
		{Path: "content", Type: model.EntryDirectory},
		{Path: "content/_index.md", Type: model.EntryFile, ContentHash: "abc"},
		{Path: "content/notes.md", Type: model.EntryFile},
	}, entries)

	_, err = src.Content(context.Background(), "content/_index.md")
	assert.ErrorIs(t, err, ErrContentUnavailable)
}

func TestFileSourceStdin(t *testing.T) {
	src := NewFileSource(StdinPath)
	src.Stdin = strings.NewReader(`[{"path":"a.md","type":"blob"}]`)

	entries, err := src.Listing(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file:stdin", src.Identity())
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"path":"a","type":"symlink"}]`), 0644))

	for _, path := range []string{bad, filepath.Join(dir, "missing.json")} {
		_, err := NewFileSource(path).Listing(context.Background())
		assert.ErrorIs(t, err, ErrListingUnavailable, path)
	}
}

func TestEncodeDecodeListing(t *testing.T) {
	entries := []model.Entry{
		{Path: "docs", Type: model.EntryDirectory},
		{Path: "docs/a.md", Type: model.EntryFile, ContentHash: "1"},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeListing(&buf, entries))
	assert.Contains(t, buf.String(), `"type": "tree"`)

	decoded, err := DecodeListing(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, decoded)
}

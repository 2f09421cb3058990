package listing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagetree/internal/model"
)

func writeFile(t *testing.T, root, path, body string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(body), 0644))
}

func sortedPaths(entries []model.Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	sort.Strings(paths)
	return paths
}

func TestDirSourceListing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "content/_index.md", "# Home")
	writeFile(t, root, "content/posts/hello.md", "hello")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main")

	src := NewDirSource(root)
	entries, err := src.Listing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"content", "content/_index.md", "content/posts", "content/posts/hello.md"}, sortedPaths(entries))
	for _, e := range entries {
		if e.Path == "content/posts" {
			assert.Equal(t, model.EntryDirectory, e.Type)
			assert.Empty(t, e.ContentHash)
		}
		if e.Path == "content/posts/hello.md" {
			assert.Equal(t, model.EntryFile, e.Type)
			assert.Equal(t, BlobHash([]byte("hello")), e.ContentHash)
		}
	}
}

func TestBlobHashMatchesGit(t *testing.T) {
	// git hash-object /dev/null
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", BlobHash(nil))
	// printf 'hello\n' | git hash-object --stdin
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", BlobHash([]byte("hello\n")))
}

func TestDirSourceContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "content/page.md", "body")
	src := NewDirSource(root)

	data, err := src.Content(context.Background(), "content/page.md")
	require.NoError(t, err)
	assert.Equal(t, "body", string(data))

	for _, bad := range []string{"../secret", "/etc/passwd", ".", "", "content/missing.md"} {
		_, err := src.Content(context.Background(), bad)
		assert.True(t, errors.Is(err, ErrContentUnavailable), bad)
	}
}

func TestDirSourceMissingRoot(t *testing.T) {
	src := NewDirSource(filepath.Join(t.TempDir(), "absent"))
	_, err := src.Listing(context.Background())
	assert.ErrorIs(t, err, ErrListingUnavailable)
}

func TestDirSourceCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirSource(root).Listing(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrListingUnavailable)
}

func TestDirSourceIdentity(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, NewDirSource(root).Identity(), NewDirSource(root+string(os.PathSeparator)+".").Identity())
	assert.NotEqual(t, NewDirSource(root).Identity(), NewDirSource(t.TempDir()).Identity())
}

func TestWatcherReportsChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "content/a.md", "a")

	w, err := NewDirSource(root).Watch(20 * time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { changed <- struct{}{} })
	}()

	writeFile(t, root, "content/b.md", "b")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

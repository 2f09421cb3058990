package listing

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"pagetree/internal/model"
)

// DirSource lists a directory on disk. Files are hashed the way git hashes
// blobs, so a clean checkout yields the same IDs as GitSource.
type DirSource struct {
	Root   string
	Logger *zap.Logger

	fsys fs.FS
}

// NewDirSource returns a source rooted at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root, Logger: zap.NewNop(), fsys: os.DirFS(root)}
}

func (s *DirSource) Identity() string {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		root = s.Root
	}
	return "dir:" + root
}

// Listing walks the tree, skipping .git and symlinks.
func (s *DirSource) Listing(ctx context.Context) ([]model.Entry, error) {
	fsys := s.filesystem()
	var entries []model.Entry

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == "." {
			return nil
		}

		switch {
		case d.IsDir():
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			entries = append(entries, model.Entry{Path: path, Type: model.EntryDirectory})
		case d.Type().IsRegular():
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}
			entries = append(entries, model.Entry{
				Path:        path,
				Type:        model.EntryFile,
				ContentHash: BlobHash(data),
			})
		default:
			s.logger().Debug("irregular file skipped", zap.String("path", path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", ErrListingUnavailable, s.Root, err)
	}
	return entries, nil
}

// Content reads a file below Root. Paths escaping Root are rejected.
func (s *DirSource) Content(_ context.Context, path string) ([]byte, error) {
	if !fs.ValidPath(path) || path == "." {
		return nil, fmt.Errorf("%w: invalid path %q", ErrContentUnavailable, path)
	}
	data, err := fs.ReadFile(s.filesystem(), path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}
	return data, nil
}

// BlobHash returns the git blob object id of data.
func BlobHash(data []byte) string {
	return plumbing.ComputeHash(plumbing.BlobObject, data).String()
}

func (s *DirSource) filesystem() fs.FS {
	if s.fsys == nil {
		s.fsys = os.DirFS(s.Root)
	}
	return s.fsys
}

func (s *DirSource) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

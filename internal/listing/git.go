package listing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"pagetree/internal/model"
)

// DefaultRev is the revision listed when none is given.
const DefaultRev = "HEAD"

// GitSource lists a revision of a local git repository by running git.
type GitSource struct {
	Dir    string
	Rev    string
	Logger *zap.Logger
}

// NewGitSource returns a source for rev in the repository at dir.
func NewGitSource(dir, rev string) *GitSource {
	if rev == "" {
		rev = DefaultRev
	}
	return &GitSource{Dir: dir, Rev: rev, Logger: zap.NewNop()}
}

func (s *GitSource) Identity() string {
	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		dir = s.Dir
	}
	return "git:" + dir + "@" + s.Rev
}

// Listing runs `git ls-tree` over the whole tree of the revision.
func (s *GitSource) Listing(ctx context.Context) ([]model.Entry, error) {
	out, err := s.git(ctx, "ls-tree", "-r", "-t", "-z", "--full-tree", s.Rev)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}

	parser := &LsTreeParser{}
	entries, err := parser.Parse(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}
	if parser.Skipped > 0 {
		s.logger().Debug("ls-tree records skipped", zap.Int("count", parser.Skipped), zap.String("rev", s.Rev))
	}
	return entries, nil
}

// Content reads a blob with `git cat-file`.
func (s *GitSource) Content(ctx context.Context, path string) ([]byte, error) {
	if path == "" || strings.HasPrefix(path, "-") {
		return nil, fmt.Errorf("%w: invalid path %q", ErrContentUnavailable, path)
	}
	out, err := s.git(ctx, "cat-file", "blob", s.Rev+":"+path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}
	return out, nil
}

func (s *GitSource) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", s.Dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return nil, fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

func (s *GitSource) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

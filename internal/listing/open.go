package listing

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Kind names the family of a location.
type Kind string

const (
	KindGit    Kind = "git"
	KindDir    Kind = "dir"
	KindGitHub Kind = "github"
	KindS3     Kind = "s3"
	KindFile   Kind = "file"
)

// Location is a parsed source location string.
type Location struct {
	Kind Kind
	// Path is the directory or file for git, dir and file locations.
	Path string
	// Rev is the git revision or GitHub ref.
	Rev    string
	Owner  string
	Repo   string
	Bucket string
	Prefix string
}

// Options carries credentials and shared collaborators for Open.
type Options struct {
	GitHubToken string
	S3          S3Config
	Logger      *zap.Logger
}

// ParseLocation interprets a location string:
//
//	github:owner/repo[@ref]
//	s3://bucket[/prefix]
//	git:<dir>[@rev]
//	<file>.json or - for stdin
//	<dir>
//
// A bare directory is always read from disk, work trees included, so
// uncommitted edits show up and the directory can be watched. Use git: to
// list a committed revision instead.
func ParseLocation(raw string) (Location, error) {
	switch {
	case raw == "":
		return Location{}, fmt.Errorf("%w: empty location", ErrUnknownSource)

	case strings.HasPrefix(raw, "github:"):
		rest, ref := splitRev(strings.TrimPrefix(raw, "github:"))
		owner, repo, ok := strings.Cut(rest, "/")
		if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
			return Location{}, fmt.Errorf("%w: want github:owner/repo, got %q", ErrUnknownSource, raw)
		}
		return Location{Kind: KindGitHub, Owner: owner, Repo: repo, Rev: ref}, nil

	case strings.HasPrefix(raw, "s3://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(raw, "s3://"), "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("%w: missing bucket in %q", ErrUnknownSource, raw)
		}
		return Location{Kind: KindS3, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil

	case strings.HasPrefix(raw, "git:"):
		dir, rev := splitRev(strings.TrimPrefix(raw, "git:"))
		if dir == "" {
			dir = "."
		}
		if rev == "" {
			rev = DefaultRev
		}
		return Location{Kind: KindGit, Path: dir, Rev: rev}, nil

	case raw == StdinPath || strings.HasSuffix(strings.ToLower(raw), ".json"):
		return Location{Kind: KindFile, Path: raw}, nil
	}

	info, err := os.Stat(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrUnknownSource, err)
	}
	if !info.IsDir() {
		return Location{}, fmt.Errorf("%w: %s is not a directory or listing file", ErrUnknownSource, raw)
	}
	return Location{Kind: KindDir, Path: raw}, nil
}

// Open parses a location string and builds the matching source.
func Open(ctx context.Context, raw string, opts Options) (Source, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch loc.Kind {
	case KindGitHub:
		return NewGitHubSource(ctx, loc.Owner, loc.Repo, loc.Rev, opts.GitHubToken), nil
	case KindS3:
		return NewS3Source(ctx, loc.Bucket, loc.Prefix, opts.S3)
	case KindGit:
		src := NewGitSource(loc.Path, loc.Rev)
		src.Logger = logger
		return src, nil
	case KindDir:
		src := NewDirSource(loc.Path)
		src.Logger = logger
		return src, nil
	case KindFile:
		return NewFileSource(loc.Path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, raw)
	}
}

func splitRev(s string) (string, string) {
	if i := strings.LastIndex(s, "@"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

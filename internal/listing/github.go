package listing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/github"
	"golang.org/x/oauth2"

	"pagetree/internal/model"
)

// GitHubSource lists a repository through the GitHub Git Trees API.
type GitHubSource struct {
	Owner string
	Repo  string
	// Ref is a branch, tag or commit. Empty means the default branch.
	Ref string

	client *github.Client
}

// NewGitHubSource builds a client, authenticated when token is set.
func NewGitHubSource(ctx context.Context, owner, repo, ref, token string) *GitHubSource {
	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &GitHubSource{
		Owner:  owner,
		Repo:   repo,
		Ref:    ref,
		client: github.NewClient(httpClient),
	}
}

// SetBaseURL points the client at a GitHub Enterprise or test server.
func (s *GitHubSource) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	s.client.BaseURL = u
	return nil
}

func (s *GitHubSource) Identity() string {
	id := "github:" + s.Owner + "/" + s.Repo
	if s.Ref != "" {
		id += "@" + s.Ref
	}
	return id
}

// Listing fetches the recursive tree of Ref.
func (s *GitHubSource) Listing(ctx context.Context) ([]model.Entry, error) {
	ref, err := s.resolveRef(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}

	tree, _, err := s.client.Git.GetTree(ctx, s.Owner, s.Repo, ref, true)
	if err != nil {
		return nil, fmt.Errorf("%w: tree %s/%s@%s: %w", ErrListingUnavailable, s.Owner, s.Repo, ref, err)
	}

	entries := make([]model.Entry, 0, len(tree.Entries))
	for _, item := range tree.Entries {
		var kind model.EntryType
		switch item.GetType() {
		case "blob":
			kind = model.EntryFile
		case "tree":
			kind = model.EntryDirectory
		default:
			// Submodules point at other repositories
			continue
		}
		entries = append(entries, model.Entry{
			Path:        item.GetPath(),
			Type:        kind,
			ContentHash: item.GetSHA(),
		})
	}
	return entries, nil
}

// Content fetches a file through the Contents API.
func (s *GitHubSource) Content(ctx context.Context, path string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if s.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: s.Ref}
	}
	file, _, _, err := s.client.Repositories.GetContents(ctx, s.Owner, s.Repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrContentUnavailable, path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s is a directory", ErrContentUnavailable, path)
	}
	body, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrContentUnavailable, path, err)
	}
	return []byte(body), nil
}

func (s *GitHubSource) resolveRef(ctx context.Context) (string, error) {
	if s.Ref != "" {
		return s.Ref, nil
	}
	repo, _, err := s.client.Repositories.Get(ctx, s.Owner, s.Repo)
	if err != nil {
		return "", fmt.Errorf("repository %s/%s: %w", s.Owner, s.Repo, err)
	}
	if repo.GetDefaultBranch() == "" {
		return DefaultRev, nil
	}
	return repo.GetDefaultBranch(), nil
}

package listing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		location string
		want     Location
	}{
		{"github:gohugoio/hugoDocs", Location{Kind: KindGitHub, Owner: "gohugoio", Repo: "hugoDocs"}},
		{"github:gohugoio/hugoDocs@v0.120.0", Location{Kind: KindGitHub, Owner: "gohugoio", Repo: "hugoDocs", Rev: "v0.120.0"}},
		{"s3://docs", Location{Kind: KindS3, Bucket: "docs"}},
		{"s3://docs/site/v2/", Location{Kind: KindS3, Bucket: "docs", Prefix: "site/v2"}},
		{"git:/srv/site@release", Location{Kind: KindGit, Path: "/srv/site", Rev: "release"}},
		{"git:", Location{Kind: KindGit, Path: ".", Rev: DefaultRev}},
		{"listing.json", Location{Kind: KindFile, Path: "listing.json"}},
		{"LISTING.JSON", Location{Kind: KindFile, Path: "LISTING.JSON"}},
		{"-", Location{Kind: KindFile, Path: "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := ParseLocation(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocationDirectories(t *testing.T) {
	plain := t.TempDir()
	loc, err := ParseLocation(plain)
	require.NoError(t, err)
	assert.Equal(t, Location{Kind: KindDir, Path: plain}, loc)

	repo := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repo, ".git"), 0755))
	loc, err = ParseLocation(repo)
	require.NoError(t, err)
	assert.Equal(t, Location{Kind: KindDir, Path: repo}, loc, "work trees are read from disk")
}

func TestParseLocationErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	for _, location := range []string{
		"",
		"github:",
		"github:owner",
		"github:owner/",
		"github:a/b/c",
		"s3://",
		file,
		filepath.Join(t.TempDir(), "missing"),
	} {
		_, err := ParseLocation(location)
		assert.ErrorIs(t, err, ErrUnknownSource, location)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, t.TempDir(), Options{})
	require.NoError(t, err)
	assert.IsType(t, &DirSource{}, src)

	src, err = Open(ctx, "git:/srv/site", Options{})
	require.NoError(t, err)
	assert.IsType(t, &GitSource{}, src)

	src, err = Open(ctx, "github:o/r@main", Options{GitHubToken: "token"})
	require.NoError(t, err)
	assert.Equal(t, "github:o/r@main", src.Identity())

	src, err = Open(ctx, "pages.json", Options{})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	_, err = Open(ctx, "", Options{})
	assert.ErrorIs(t, err, ErrUnknownSource)
}

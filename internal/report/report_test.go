package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pagetree/internal/model"
	"pagetree/internal/session"
)

func snapshot() *session.Snapshot {
	return session.Build("dir:/srv/site", []model.Entry{
		{Path: "content", Type: model.EntryDirectory},
		{Path: "content/_index.md", Type: model.EntryFile},
		{Path: "content/posts", Type: model.EntryDirectory},
		{Path: "content/posts/_index.md", Type: model.EntryFile},
		{Path: "content/posts/hello.md", Type: model.EntryFile},
		{Path: "content/about.md", Type: model.EntryFile},
		{Path: "content/assets", Type: model.EntryDirectory},
		{Path: "content/assets/logo.png", Type: model.EntryFile},
		{Path: "lost/page.md", Type: model.EntryFile},
	}, nil)
}

func TestGenerate(t *testing.T) {
	out := Generate(snapshot(), false)

	assert.Contains(t, out, "Source:     dir:/srv/site\n")
	assert.Contains(t, out, "Files:      8\n")
	assert.Contains(t, out, "Pages:      5\n")
	assert.Contains(t, out, "Orphans:    1")
	assert.NotContains(t, out, "Duplicates")
	assert.Contains(t, out, ""+
		"└── ◆ Home Page\n"+
		"    ├──   About\n"+
		"    ├── ◇ Assets\n"+
		"    └── ◆ Posts\n"+
		"        └──   Hello\n")
	assert.NotContains(t, out, "File tree")
}

func TestGenerateVerbose(t *testing.T) {
	out := Generate(snapshot(), true)

	assert.Contains(t, out, "◆ Home Page  [content/_index.md]\n")
	assert.Contains(t, out, "◇ Assets  [no content]\n")
	assert.Contains(t, out, "File tree")
	assert.Contains(t, out, "    ├── assets/\n")
	assert.Contains(t, out, "    │   └── logo.png\n")
}

func TestGenerateEmpty(t *testing.T) {
	out := Generate(&session.Snapshot{Identity: "file:stdin"}, false)
	assert.Contains(t, out, "(no pages)")
	assert.NotContains(t, out, "Loaded:")
}

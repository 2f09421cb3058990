package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagetree/internal/model"
)

func samplePages() []*model.PageNode {
	hello := &model.PageNode{Title: "Hello", Path: "content/posts/hello.md"}
	posts := &model.PageNode{Title: "Posts", Path: "content/posts", Children: []*model.PageNode{hello}}
	home := &model.PageNode{Title: "Home Page", Path: "content", Children: []*model.PageNode{posts}}
	about := &model.PageNode{Title: "About", Path: "about.md"}
	return []*model.PageNode{home, about}
}

func rowPaths(rows []Row) []string {
	paths := make([]string, 0, len(rows))
	for _, row := range rows {
		paths = append(paths, row.Page.Path)
	}
	return paths
}

func TestRowsCollapsedByDefault(t *testing.T) {
	rows := Rows(samplePages(), New(), Collapsed)
	assert.Equal(t, []string{"content", "about.md"}, rowPaths(rows))
	assert.True(t, rows[0].HasChildren)
	assert.False(t, rows[0].Expanded)
	assert.False(t, rows[1].HasChildren)
}

func TestRowsExpanded(t *testing.T) {
	rows := Rows(samplePages(), New(), Expanded)
	require.Equal(t, []string{"content", "content/posts", "content/posts/hello.md", "about.md"}, rowPaths(rows))
	assert.Equal(t, []int{0, 1, 2, 0}, []int{rows[0].Depth, rows[1].Depth, rows[2].Depth, rows[3].Depth})
	assert.False(t, rows[2].Expanded, "leaves are never expanded")
}

func TestRowsExplicitStateWins(t *testing.T) {
	s := New()
	s.SetExpanded("content/posts", false)

	rows := Rows(samplePages(), s, Expanded)
	assert.Equal(t, []string{"content", "content/posts", "about.md"}, rowPaths(rows))
}

func TestRowsExpandToDepth(t *testing.T) {
	rows := Rows(samplePages(), New(), ExpandToDepth(1))
	assert.Equal(t, []string{"content", "content/posts", "about.md"}, rowPaths(rows))
}

func TestParentPaths(t *testing.T) {
	assert.Equal(t, []string{"content", "content/posts"}, ParentPaths(samplePages()))
}

func TestReveal(t *testing.T) {
	s := New()
	s.SetExpanded("content", false)
	s.Reveal("content/posts/hello.md")

	assert.True(t, s.IsExpanded("content"))
	assert.True(t, s.IsExpanded("content/posts"))
	assert.False(t, s.IsExpanded("content/posts/hello.md"))

	rows := Rows(samplePages(), s, Collapsed)
	assert.Contains(t, rowPaths(rows), "content/posts/hello.md")
}

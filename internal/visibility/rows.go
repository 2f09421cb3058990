package visibility

import (
	"pagetree/internal/model"
	"pagetree/internal/tree"
)

// Row is one visible line of a flattened page tree.
type Row struct {
	Page        *model.PageNode
	Depth       int
	Expanded    bool
	HasChildren bool
}

// Rows flattens the visible part of the page tree in display order. Children
// of a collapsed page are omitted.
func Rows(roots []*model.PageNode, store *Store, policy Policy) []Row {
	var rows []Row
	var flatten func(pages []*model.PageNode, depth int)
	flatten = func(pages []*model.PageNode, depth int) {
		if depth >= tree.MaxDepth {
			return
		}
		for _, page := range pages {
			if page == nil {
				continue
			}
			row := Row{
				Page:        page,
				Depth:       depth,
				HasChildren: len(page.Children) > 0,
			}
			if row.HasChildren {
				row.Expanded = store.Resolve(page.Path, depth, policy)
			}
			rows = append(rows, row)
			if row.Expanded {
				flatten(page.Children, depth+1)
			}
		}
	}
	flatten(roots, 0)
	return rows
}

// ParentPaths returns the path of every page that has children.
func ParentPaths(roots []*model.PageNode) []string {
	var paths []string
	tree.Walk(roots, func(page *model.PageNode, _ int) bool {
		if len(page.Children) > 0 {
			paths = append(paths, page.Path)
		}
		return true
	})
	return paths
}

// Reveal expands every ancestor of path so the page becomes visible.
func (s *Store) Reveal(path string) {
	for parent, ok := tree.ParentPath(path); ok; parent, ok = tree.ParentPath(parent) {
		s.SetExpanded(parent, true)
	}
}

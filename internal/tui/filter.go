package tui

import (
	"strings"

	"pagetree/internal/model"
	"pagetree/internal/tree"
	"pagetree/internal/visibility"
)

// filterRows lists every page whose title or path contains term, along with
// the ancestors needed to reach it. Matching branches are shown expanded.
func filterRows(pages []*model.PageNode, term string) []visibility.Row {
	term = strings.ToLower(term)
	var rows []visibility.Row

	var visit func(pages []*model.PageNode, depth int) bool
	visit = func(pages []*model.PageNode, depth int) bool {
		if depth >= tree.MaxDepth {
			return false
		}
		found := false
		for _, page := range pages {
			if page == nil {
				continue
			}
			at := len(rows)
			rows = append(rows, visibility.Row{Page: page, Depth: depth, HasChildren: len(page.Children) > 0})

			self := matches(page, term)
			below := visit(page.Children, depth+1)
			if !self && !below {
				rows = rows[:at]
				continue
			}
			rows[at].Expanded = below
			found = true
		}
		return found
	}
	visit(pages, 0)
	return rows
}

func matches(page *model.PageNode, term string) bool {
	return strings.Contains(strings.ToLower(page.Title), term) ||
		strings.Contains(strings.ToLower(page.Path), term)
}

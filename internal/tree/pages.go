package tree

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"pagetree/internal/model"
)

// Transformer projects a file tree onto the page tree.
type Transformer struct {
	Logger *zap.Logger
}

// TransformToPageTree projects file tree roots with a silent Transformer.
func TransformToPageTree(roots []*model.FileNode) []*model.PageNode {
	return (&Transformer{}).Transform(roots)
}

// Transform builds the page tree for the given file tree roots.
//
// Directories become pages. An index marker inside a directory is consumed
// into the directory's page and never listed as a child. Files other than
// markdown are assets and excluded. The top-level ContentRoot directory is
// never shown by name: with an index it is the Home Page, without one its
// children are promoted to the top level.
func (t *Transformer) Transform(roots []*model.FileNode) []*model.PageNode {
	run := *t
	if run.Logger == nil {
		run.Logger = zap.NewNop()
	}
	return run.siblings(roots, 1, true)
}

func (t *Transformer) siblings(nodes []*model.FileNode, depth int, topLevel bool) []*model.PageNode {
	if depth > MaxDepth {
		t.Logger.Debug("subtree excluded beyond max depth", zap.Int("depth", depth))
		return nil
	}

	var pages []*model.PageNode
	for _, node := range nodes {
		if node == nil {
			continue
		}

		switch node.Type {
		case model.EntryDirectory:
			index := findIndex(node)
			if topLevel && node.Name == ContentRoot {
				if index == nil {
					pages = append(pages, t.siblings(node.Children, depth+1, false)...)
					continue
				}
				pages = append(pages, t.directory(node, index, depth, true))
				continue
			}
			pages = append(pages, t.directory(node, index, depth, IsIndexMarker(node.Name)))

		case model.EntryFile:
			if IsIndexMarker(node.Name) {
				// Only a root-level index stands alone; otherwise its directory owns it.
				if topLevel {
					pages = append(pages, filePage(node, HomeTitle))
				}
				continue
			}
			if !IsContentFile(node.Name) {
				t.Logger.Debug("asset excluded from page tree", zap.String("path", node.Path))
				continue
			}
			pages = append(pages, filePage(node, FormatTitle(node.Name)))

		default:
			t.Logger.Debug("unknown node type dropped", zap.String("path", node.Path), zap.Int("type", int(node.Type)))
		}
	}

	SortPages(pages)
	return pages
}

func (t *Transformer) directory(node, index *model.FileNode, depth int, home bool) *model.PageNode {
	page := &model.PageNode{
		ID:     nodeID(node),
		Title:  FormatTitle(node.Name),
		Path:   node.Path,
		Kind:   model.KindFolder,
		Source: node,
	}
	if home {
		page.Title = HomeTitle
	}

	children := node.Children
	if index != nil {
		page.IsIndexBacked = true
		page.ContentPath = index.Path

		children = make([]*model.FileNode, 0, len(node.Children)-1)
		for _, child := range node.Children {
			if child != index {
				children = append(children, child)
			}
		}
	}

	page.Children = t.siblings(children, depth+1, false)
	return page
}

func filePage(node *model.FileNode, title string) *model.PageNode {
	return &model.PageNode{
		ID:          nodeID(node),
		Title:       title,
		Path:        node.Path,
		ContentPath: node.Path,
		Kind:        model.KindPage,
		Source:      node,
	}
}

// findIndex returns the first index marker among the direct children of a
// directory, in the children's declared order.
func findIndex(dir *model.FileNode) *model.FileNode {
	for _, child := range dir.Children {
		if child != nil && !child.IsDir() && IsIndexMarker(child.Name) {
			return child
		}
	}
	return nil
}

func nodeID(node *model.FileNode) string {
	if node.ContentHash != "" {
		return node.ContentHash
	}
	return node.Path
}

// SortPages orders siblings in place: the Home Page first, everything else
// by case-insensitive title. Equal titles keep their relative order.
func SortPages(pages []*model.PageNode) {
	sort.SliceStable(pages, func(i, j int) bool {
		iHome, jHome := pages[i].Title == HomeTitle, pages[j].Title == HomeTitle
		if iHome != jHome {
			return iHome
		}
		return strings.ToLower(pages[i].Title) < strings.ToLower(pages[j].Title)
	})
}

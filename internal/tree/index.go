package tree

import "pagetree/internal/model"

// Node is satisfied by both *model.FileNode and *model.PageNode.
type Node[N any] interface {
	comparable
	NodePath() string
	NodeChildren() []N
}

// PathIndex maps a node's own path to the node. It is rebuilt, never patched.
type PathIndex[N Node[N]] map[string]N

// BuildPathIndex flattens a tree into a path-keyed map with one pre-order walk.
func BuildPathIndex[N Node[N]](roots []N) PathIndex[N] {
	index := make(PathIndex[N])
	Walk(roots, func(node N, _ int) bool {
		if _, exists := index[node.NodePath()]; !exists {
			index[node.NodePath()] = node
		}
		return true
	})
	return index
}

// Get returns the node stored under path.
func (idx PathIndex[N]) Get(path string) (N, bool) {
	node, ok := idx[path]
	return node, ok
}

// Enclosing returns the nearest indexed ancestor of path, excluding path itself.
func (idx PathIndex[N]) Enclosing(path string) (N, bool) {
	for parent, ok := ParentPath(path); ok; parent, ok = ParentPath(parent) {
		if node, found := idx[parent]; found {
			return node, true
		}
	}
	var zero N
	return zero, false
}

// PageForContent resolves the page whose body lives at contentPath. Index
// files resolve to their directory's page.
func PageForContent(idx PathIndex[*model.PageNode], contentPath string) (*model.PageNode, bool) {
	if page, ok := idx[contentPath]; ok {
		return page, true
	}
	if !IsIndexMarker(Leaf(contentPath)) {
		return nil, false
	}
	parent, ok := ParentPath(contentPath)
	if !ok {
		return nil, false
	}
	page, ok := idx[parent]
	if !ok || page.ContentPath != contentPath {
		return nil, false
	}
	return page, true
}

// Walk visits nodes in pre-order with their depth (roots are 0). Returning
// false from fn skips the node's children. Nodes deeper than MaxDepth are not
// visited.
func Walk[N Node[N]](roots []N, fn func(node N, depth int) bool) {
	walk(roots, 0, fn)
}

func walk[N Node[N]](nodes []N, depth int, fn func(N, int) bool) {
	if depth >= MaxDepth {
		return
	}
	var zero N
	for _, node := range nodes {
		if node == zero {
			continue
		}
		if fn(node, depth) {
			walk(node.NodeChildren(), depth+1, fn)
		}
	}
}

// Count returns the number of nodes reachable from roots.
func Count[N Node[N]](roots []N) int {
	count := 0
	Walk(roots, func(N, int) bool {
		count++
		return true
	})
	return count
}

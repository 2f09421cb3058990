package tree

import (
	"sort"

	"go.uber.org/zap"

	"pagetree/internal/model"
)

// BuildStats summarizes one Builder run.
type BuildStats struct {
	Entries    int `json:"entries"`    // Entries received
	Nodes      int `json:"nodes"`      // Nodes attached to the tree
	Roots      int `json:"roots"`      // Top-level nodes
	Orphans    int `json:"orphans"`    // Entries dropped because their parent was missing or too deep
	Duplicates int `json:"duplicates"` // Entries dropped because their path was already seen
}

// Builder converts a flat listing into a nested file tree.
type Builder struct {
	Logger *zap.Logger
}

// BuildTree builds the file tree with a silent Builder.
func BuildTree(entries []model.Entry) []*model.FileNode {
	roots, _ := (&Builder{}).Build(entries)
	return roots
}

// Build sorts the entries by path, creates every node, then attaches each
// node to its parent. Entries whose parent is not in the listing are dropped.
func (b *Builder) Build(entries []model.Entry) ([]*model.FileNode, BuildStats) {
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	stats := BuildStats{Entries: len(entries)}

	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	// Stable so the first of two identical paths keeps winning regardless of sort internals.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	// Pass 1: every node, independent of hierarchy
	nodes := make(map[string]*model.FileNode, len(sorted))
	ordered := make([]*model.FileNode, 0, len(sorted))
	for _, entry := range sorted {
		if entry.Path == "" {
			continue
		}
		if _, seen := nodes[entry.Path]; seen {
			stats.Duplicates++
			log.Debug("duplicate entry ignored", zap.String("path", entry.Path))
			continue
		}
		node := &model.FileNode{
			Name:        Leaf(entry.Path),
			Path:        entry.Path,
			Type:        entry.Type,
			ContentHash: entry.ContentHash,
		}
		nodes[entry.Path] = node
		ordered = append(ordered, node)
	}

	// Pass 2: attach to parents
	var roots []*model.FileNode
	for _, node := range ordered {
		if Depth(node.Path) > MaxDepth {
			stats.Orphans++
			log.Debug("entry exceeds max depth", zap.String("path", node.Path), zap.Int("max_depth", MaxDepth))
			continue
		}

		parentPath, ok := ParentPath(node.Path)
		if !ok {
			roots = append(roots, node)
			continue
		}

		parent, found := nodes[parentPath]
		if !found || !parent.IsDir() || !attached(parent, nodes) {
			stats.Orphans++
			log.Debug("orphaned entry dropped", zap.String("path", node.Path), zap.String("parent", parentPath))
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	stats.Roots = len(roots)
	stats.Nodes = countFileNodes(roots)
	return roots, stats
}

// attached reports whether a node is reachable from a root: every ancestor
// path must exist as a directory. Parents sort before children, so a missing
// grandparent would otherwise leave a detached subtree that is never reached.
func attached(node *model.FileNode, nodes map[string]*model.FileNode) bool {
	path := node.Path
	for {
		parentPath, ok := ParentPath(path)
		if !ok {
			return true
		}
		parent, found := nodes[parentPath]
		if !found || !parent.IsDir() {
			return false
		}
		path = parentPath
	}
}

func countFileNodes(nodes []*model.FileNode) int {
	count := 0
	for _, node := range nodes {
		count++
		count += countFileNodes(node.Children)
	}
	return count
}

// Package visibility tracks which tree paths a user explicitly expanded or
// collapsed. Paths that were never touched fall back to a caller policy, so
// nothing is stored per node and the state survives tree rebuilds.
package visibility

import (
	"sort"
)

// Store holds two disjoint path sets. It is not safe for concurrent use;
// give each session its own Store and serialize access in the caller.
type Store struct {
	source    string // identity of the document the paths belong to
	expanded  map[string]struct{}
	collapsed map[string]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		expanded:  make(map[string]struct{}),
		collapsed: make(map[string]struct{}),
	}
}

// SetExpanded records an explicit state for path, evicting it from the
// opposite set.
func (s *Store) SetExpanded(path string, expanded bool) {
	s.init()
	if expanded {
		delete(s.collapsed, path)
		s.expanded[path] = struct{}{}
		return
	}
	delete(s.expanded, path)
	s.collapsed[path] = struct{}{}
}

// Toggle flips the state the caller currently shows for path.
func (s *Store) Toggle(path string, currentlyExpanded bool) {
	s.SetExpanded(path, !currentlyExpanded)
}

// IsExpanded reports explicit expansion only.
func (s *Store) IsExpanded(path string) bool {
	_, ok := s.expanded[path]
	return ok
}

// IsCollapsed reports explicit collapse only.
func (s *Store) IsCollapsed(path string) bool {
	_, ok := s.collapsed[path]
	return ok
}

// Reset forgets every explicit state. The bound document is kept; use Bind
// to switch documents.
func (s *Store) Reset() {
	s.expanded = make(map[string]struct{})
	s.collapsed = make(map[string]struct{})
}

// Source returns the identity of the document the store is bound to.
func (s *Store) Source() string {
	return s.source
}

// Bind attaches the store to the document named source. State recorded for
// any other document, or for no document at all, is dropped. Bind reports
// whether explicit state was dropped.
func (s *Store) Bind(source string) bool {
	if s.source == source {
		return false
	}
	dropped := s.Len() > 0
	s.Reset()
	s.source = source
	return dropped
}

// Forget drops any explicit state for path.
func (s *Store) Forget(path string) {
	delete(s.expanded, path)
	delete(s.collapsed, path)
}

// Len returns the number of paths with explicit state.
func (s *Store) Len() int {
	return len(s.expanded) + len(s.collapsed)
}

// ExpandAll marks every path as expanded.
func (s *Store) ExpandAll(paths []string) {
	for _, path := range paths {
		s.SetExpanded(path, true)
	}
}

// CollapseAll marks every path as collapsed.
func (s *Store) CollapseAll(paths []string) {
	for _, path := range paths {
		s.SetExpanded(path, false)
	}
}

// Expanded returns the explicitly expanded paths, sorted.
func (s *Store) Expanded() []string {
	return sortedKeys(s.expanded)
}

// Collapsed returns the explicitly collapsed paths, sorted.
func (s *Store) Collapsed() []string {
	return sortedKeys(s.collapsed)
}

// Resolve composes explicit state with the default policy for untouched paths.
func (s *Store) Resolve(path string, depth int, policy Policy) bool {
	if s.IsExpanded(path) {
		return true
	}
	if s.IsCollapsed(path) {
		return false
	}
	if policy == nil {
		return false
	}
	return policy(path, depth)
}

func (s *Store) init() {
	if s.expanded == nil {
		s.expanded = make(map[string]struct{})
	}
	if s.collapsed == nil {
		s.collapsed = make(map[string]struct{})
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Policy decides the visibility of a path nobody touched.
type Policy func(path string, depth int) bool

// Collapsed is the default policy: untouched paths stay closed.
func Collapsed(string, int) bool { return false }

// Expanded opens every untouched path.
func Expanded(string, int) bool { return true }

// ExpandToDepth opens untouched nodes shallower than depth (roots are depth 0).
func ExpandToDepth(depth int) Policy {
	return func(_ string, d int) bool {
		return d < depth
	}
}

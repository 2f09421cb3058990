package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconExpanded   = "▾" // Node with visible children
	IconCollapsed  = "▸" // Node with hidden children
	IconLeaf       = "•" // Nothing to expand
	IconIndexed    = "◆" // Folder backed by an index file
	IconStructural = "◇" // Folder without an index (no content)
	IconPage       = " " // Plain file-backed page (no icon to reduce noise)
	IconHome       = "⌂" // Document root
)

// Version is the application version reported by --version and the web UI.
const Version = "0.3.1"

// PageIcon picks the marker for a page by what backs it.
func PageIcon(p *PageNode) string {
	switch {
	case p.IsIndexBacked:
		return IconIndexed
	case p.Kind == KindFolder:
		return IconStructural
	default:
		return IconPage
	}
}

// Package report renders a snapshot as plain text for the --report mode.
package report

import (
	"fmt"
	"strings"
	"time"

	"pagetree/internal/model"
	"pagetree/internal/session"
	"pagetree/internal/tree"
)

// Generate renders the page tree fully expanded. Verbose adds content paths
// and the underlying file tree.
func Generate(snap *session.Snapshot, verbose bool) string {
	var b strings.Builder

	b.WriteString("pagetree report\n")
	b.WriteString("===============\n\n")
	fmt.Fprintf(&b, "Source:     %s\n", snap.Identity)
	if !snap.LoadedAt.IsZero() {
		fmt.Fprintf(&b, "Loaded:     %s\n", snap.LoadedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Entries:    %d\n", snap.Stats.Entries)
	fmt.Fprintf(&b, "Files:      %d\n", snap.Stats.Nodes)
	fmt.Fprintf(&b, "Pages:      %d\n", tree.Count(snap.Pages))
	if snap.Stats.Orphans > 0 {
		fmt.Fprintf(&b, "Orphans:    %d (entries whose parent directory is not listed)\n", snap.Stats.Orphans)
	}
	if snap.Stats.Duplicates > 0 {
		fmt.Fprintf(&b, "Duplicates: %d\n", snap.Stats.Duplicates)
	}

	b.WriteString("\nPage tree\n---------\n")
	if snap.Empty() {
		b.WriteString("(no pages)\n")
	}
	writePages(&b, snap.Pages, "", verbose)

	if verbose {
		b.WriteString("\nFile tree\n---------\n")
		writeFiles(&b, snap.Files, "")
		b.WriteString("\nLegend: ")
		fmt.Fprintf(&b, "%s index-backed folder, %s folder without content, %q page\n",
			model.IconIndexed, model.IconStructural, model.IconPage)
	}
	return b.String()
}

func writePages(b *strings.Builder, pages []*model.PageNode, prefix string, verbose bool) {
	for i, page := range pages {
		branch, next := connectors(prefix, i == len(pages)-1)
		fmt.Fprintf(b, "%s%s %s", branch, model.PageIcon(page), page.Title)
		if verbose {
			if page.HasContent() {
				fmt.Fprintf(b, "  [%s]", page.ContentPath)
			} else {
				b.WriteString("  [no content]")
			}
		}
		b.WriteString("\n")
		writePages(b, page.Children, next, verbose)
	}
}

func writeFiles(b *strings.Builder, nodes []*model.FileNode, prefix string) {
	for i, node := range nodes {
		branch, next := connectors(prefix, i == len(nodes)-1)
		name := node.Name
		if node.IsDir() {
			name += "/"
		}
		fmt.Fprintf(b, "%s%s\n", branch, name)
		writeFiles(b, node.Children, next)
	}
}

func connectors(prefix string, last bool) (string, string) {
	if last {
		return prefix + "└── ", prefix + "    "
	}
	return prefix + "├── ", prefix + "│   "
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pagetree/internal/model"
	"pagetree/internal/tree"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

// detailsHeaderLines is the number of lines above the preview viewport.
const detailsHeaderLines = 9

// layout returns the panel widths and the interior height shared by both
// panels.
func (m AppModel) layout() (leftWidth, rightWidth, interiorHeight int) {
	// 6 columns for borders and gap, 6 rows for borders, footer and status
	netWidth := m.WindowSize.Width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth = netWidth * 2 / 5
	rightWidth = netWidth - leftWidth

	interiorHeight = m.WindowSize.Height - 8
	if interiorHeight < 4 {
		interiorHeight = 4
	}
	return leftWidth, rightWidth, interiorHeight
}

func (m *AppModel) resizeViewport() {
	_, rightWidth, interiorHeight := m.layout()
	m.DetailsViewport.Width = rightWidth
	height := interiorHeight - detailsHeaderLines
	if height < 1 {
		height = 1
	}
	m.DetailsViewport.Height = height
}

// syncViewport loads the selected page's preview into the viewport.
func (m *AppModel) syncViewport() {
	row, ok := m.SelectedRow()
	if !ok {
		m.DetailsViewport.SetContent("")
		m.ViewportPath = ""
		return
	}

	path := row.Page.ContentPath
	var content string
	switch preview, cached := m.Previews[path]; {
	case !row.Page.HasContent():
		content = dimStyle.Render("This folder has no index page.")
	case !cached:
		content = dimStyle.Render("Loading " + path + "...")
	case preview.ErrorMsg != "":
		content = errorStyle.Render(preview.ErrorMsg)
	default:
		content = strings.Join(preview.Lines, "\n")
		if preview.Truncated {
			content += dimStyle.Render(fmt.Sprintf("\n... %d more lines", preview.TotalLines-len(preview.Lines)))
		}
	}
	m.DetailsViewport.SetContent(content)
	if m.ViewportPath != path {
		m.DetailsViewport.GotoTop()
		m.ViewportPath = path
	}
}

func (m AppModel) View() string {
	if m.Loading && m.Snapshot == nil {
		return "\n  Loading listing... please wait.\n"
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	leftWidth, rightWidth, interiorHeight := m.layout()

	leftBorder := activeColor
	if m.InputMode {
		leftBorder = borderColor
	}
	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(leftBorder).
		Render(m.renderTree(leftWidth, interiorHeight))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.renderDetails(rightWidth))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + m.renderFooter()
}

func (m AppModel) renderTree(width, height int) string {
	var b strings.Builder
	title := "Pages"
	if m.Filter != "" {
		title = fmt.Sprintf("Pages matching %q", m.Filter)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		if m.Filter != "" {
			b.WriteString(dimStyle.Render("No matching pages."))
		} else {
			b.WriteString(dimStyle.Render("No pages found."))
		}
		return b.String()
	}

	// Windowing: keep the cursor in the middle once the list overflows
	visibleItems := height - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.Rows)
	if len(m.Rows) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - visibleItems/2
		}
		if startIdx+visibleItems > len(m.Rows) {
			startIdx = len(m.Rows) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	for i := startIdx; i < endIdx; i++ {
		line := m.rowLine(i)
		if lipgloss.Width(line) > width-1 {
			line = truncate(line, width-1)
		}

		style := normalStyle
		switch {
		case i == m.SelectedIdx:
			style = selectedStyle
		case m.Filter != "" && matches(m.Rows[i].Page, strings.ToLower(m.Filter)):
			style = matchStyle
		case !m.Rows[i].Page.HasContent():
			style = dimStyle
		}
		b.WriteString(style.Render(line))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m AppModel) rowLine(i int) string {
	row := m.Rows[i]
	toggle := model.IconLeaf
	if row.HasChildren {
		toggle = model.IconCollapsed
		if row.Expanded {
			toggle = model.IconExpanded
		}
	}
	icon := model.PageIcon(row.Page)
	if row.Depth == 0 && row.Page.Title == tree.HomeTitle {
		icon = model.IconHome
	}
	return fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", row.Depth), toggle, icon, row.Page.Title)
}

func (m AppModel) renderDetails(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Details"))
	b.WriteString("\n\n")

	row, ok := m.SelectedRow()
	if !ok {
		b.WriteString(dimStyle.Render("Nothing selected."))
		return b.String()
	}
	page := row.Page

	content := page.ContentPath
	if !page.HasContent() {
		content = "(none)"
	}
	backing := "file"
	if page.IsIndexBacked {
		backing = "index file"
	} else if page.Kind == model.KindFolder {
		backing = "folder without index"
	}

	fields := []string{
		fmt.Sprintf("Title:      %s", page.Title),
		fmt.Sprintf("Path:       %s", page.Path),
		fmt.Sprintf("Content:    %s", content),
		fmt.Sprintf("Kind:       %s (%s)", page.Kind, backing),
		fmt.Sprintf("ID:         %s", page.ID),
		fmt.Sprintf("Children:   %d (%d below)", len(page.Children), tree.Count(page.Children)),
	}
	for _, field := range fields {
		b.WriteString(truncate(field, width))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.DetailsViewport.View())
	return b.String()
}

func (m AppModel) renderFooter() string {
	if m.InputMode {
		return fmt.Sprintf("\n\nFilter: %s", m.InputBuffer.View())
	}

	status := ""
	if m.Snapshot != nil {
		status = fmt.Sprintf("%s • %d pages • %d files", m.Snapshot.Identity, tree.Count(m.Snapshot.Pages), m.Snapshot.Stats.Nodes)
		if m.Snapshot.Stats.Orphans > 0 {
			status += fmt.Sprintf(" • %d orphans", m.Snapshot.Stats.Orphans)
		}
	}
	if m.Loading {
		status += " • reloading..."
	}
	if m.Err != nil {
		status += " • " + errorStyle.Render("reload failed: "+m.Err.Error())
	}

	help := "↑/↓: Navigate • ←/→: Collapse/Expand • Space: Toggle • E/C: Expand/Collapse All • /: Filter • r: Reload • ?: Help • q: Quit"
	return "\n" + dimStyle.Render(status) + "\n" + help
}

const helpContent = `pagetree

The left panel shows the page tree. Folders holding an _index.md or
index.md are pages themselves; the index file is their content.

Navigation
  ↑/k ↓/j        Move the cursor
  PgUp/PgDn      Move a screen at a time
  g/G            First / last page
  →/l            Expand, or step into an expanded page
  ←/h            Collapse, or jump to the enclosing page
  Space/Enter    Toggle the page under the cursor
  E / C          Expand / collapse every page
  J / K          Scroll the preview

Filtering
  /              Filter by title or path (live)
  Enter          Keep the filter
  Esc            Clear the filter

Other
  r              Reload the listing
  ?              Toggle this help
  q              Quit (expanded pages are remembered)

Icons
  ▾ ▸ •          Expanded / collapsed / no children
  ◆              Folder backed by an index file
  ◇              Folder without an index (no content)
  ⌂              Home Page`

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := h - 6
	if helpHeight < 5 {
		helpHeight = 5
	}

	lines := strings.Split(helpContent, "\n")
	contentHeight := helpHeight - 2

	startY := m.HelpScrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	endY := startY + contentHeight
	if endY > len(lines) {
		endY = len(lines)
	}

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(strings.Join(lines[startY:endY], "\n"))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialog)
}

// truncate cuts s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

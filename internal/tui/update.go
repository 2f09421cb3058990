package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pagetree/internal/model"
	"pagetree/internal/visibility"
)

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.resizeViewport()
		return m, nil

	case MsgTreeReady:
		m.Loading = false
		m.Err = msg.Err
		m.Snapshot = msg.Snapshot
		// Bodies may have changed along with the listing
		m.Previews = make(map[string]model.ContentPreview)
		m.PendingPreview = ""
		m.refreshRows()
		return m.withPreview()

	case MsgSourceChanged:
		return m, ReloadCmd(m.Session)

	case MsgContentReady:
		preview := model.NewContentPreview(msg.Path, msg.Data, previewLines)
		if msg.Err != nil {
			preview = model.PreviewError(msg.Path, msg.Err)
		}
		m.Previews[msg.Path] = preview
		if m.PendingPreview == msg.Path {
			m.PendingPreview = ""
		}
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.applyFilter(m.InputBuffer.Value())
				return m.withPreview()
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.applyFilter("")
				return m.withPreview()
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			// Live filtering while typing
			m.applyFilter(m.InputBuffer.Value())
			return m, cmd
		}

		if m.ShowHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.ShowHelp = false
			case "down", "j":
				m.HelpScrollY++
			case "up", "k":
				if m.HelpScrollY > 0 {
					m.HelpScrollY--
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.Filter != "" {
				m.InputBuffer.SetValue("")
				m.applyFilter("")
			}
			return m, nil
		case "?":
			m.ShowHelp = true
			m.HelpScrollY = 0
			return m, nil
		case "up", "k":
			return m.moveTo(m.SelectedIdx - 1)
		case "down", "j":
			return m.moveTo(m.SelectedIdx + 1)
		case "pgup", "ctrl+u":
			return m.moveTo(m.SelectedIdx - m.pageSize())
		case "pgdown", "ctrl+d":
			return m.moveTo(m.SelectedIdx + m.pageSize())
		case "home", "g":
			return m.moveTo(0)
		case "end", "G":
			return m.moveTo(len(m.Rows) - 1)
		case "right", "l":
			return m.expandOrDescend()
		case "left", "h":
			return m.collapseOrAscend()
		case " ", "enter":
			if row, ok := m.SelectedRow(); ok && row.HasChildren {
				m.setExpanded(row.Page.Path, !row.Expanded)
			}
			return m.withPreview()
		case "E":
			m.visibilityAll(true)
			return m, nil
		case "C":
			m.visibilityAll(false)
			return m, nil
		case "/":
			m.InputMode = true
			m.InputBuffer.SetValue(m.Filter)
			m.InputBuffer.Focus()
			return m, textinput.Blink
		case "r":
			m.Loading = true
			return m, ReloadCmd(m.Session)
		case "J":
			m.DetailsViewport.LineDown(1)
		case "K":
			m.DetailsViewport.LineUp(1)
		}
	}

	return m, cmd
}

func (m AppModel) moveTo(idx int) (tea.Model, tea.Cmd) {
	if len(m.Rows) == 0 {
		return m, nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.Rows) {
		idx = len(m.Rows) - 1
	}
	m.SelectedIdx = idx
	m.syncViewport()
	return m.withPreview()
}

// expandOrDescend opens a collapsed page, or steps into an open one.
func (m AppModel) expandOrDescend() (tea.Model, tea.Cmd) {
	row, ok := m.SelectedRow()
	if !ok || !row.HasChildren {
		return m, nil
	}
	if !row.Expanded {
		m.setExpanded(row.Page.Path, true)
		return m, nil
	}
	return m.moveTo(m.SelectedIdx + 1)
}

// collapseOrAscend closes an open page, or jumps to the enclosing one.
func (m AppModel) collapseOrAscend() (tea.Model, tea.Cmd) {
	row, ok := m.SelectedRow()
	if !ok {
		return m, nil
	}
	if row.HasChildren && row.Expanded {
		m.setExpanded(row.Page.Path, false)
		return m, nil
	}
	for i := m.SelectedIdx - 1; i >= 0; i-- {
		if m.Rows[i].Depth < row.Depth {
			return m.moveTo(i)
		}
	}
	return m, nil
}

func (m *AppModel) setExpanded(path string, expanded bool) {
	if m.Filter != "" {
		// Filtered rows ignore visibility state
		return
	}
	m.Session.Visibility(func(store *visibility.Store) {
		store.SetExpanded(path, expanded)
	})
	m.refreshRows()
}

func (m *AppModel) visibilityAll(expanded bool) {
	if m.Snapshot == nil || m.Filter != "" {
		return
	}
	paths := visibility.ParentPaths(m.Snapshot.Pages)
	m.Session.Visibility(func(store *visibility.Store) {
		if expanded {
			store.ExpandAll(paths)
		} else {
			store.CollapseAll(paths)
		}
	})
	m.refreshRows()
}

func (m *AppModel) applyFilter(term string) {
	m.Filter = strings.TrimSpace(term)
	m.refreshRows()
}

// refreshRows re-flattens the tree, keeping the cursor on the same page
// when it is still visible.
func (m *AppModel) refreshRows() {
	selected := ""
	if row, ok := m.SelectedRow(); ok {
		selected = row.Page.Path
	}

	switch {
	case m.Snapshot == nil:
		m.Rows = nil
	case m.Filter != "":
		m.Rows = filterRows(m.Snapshot.Pages, m.Filter)
	default:
		m.Session.Visibility(func(store *visibility.Store) {
			m.Rows = visibility.Rows(m.Snapshot.Pages, store, m.Policy)
		})
	}

	for i, row := range m.Rows {
		if row.Page.Path == selected {
			m.SelectedIdx = i
			m.syncViewport()
			return
		}
	}
	if m.SelectedIdx >= len(m.Rows) {
		m.SelectedIdx = len(m.Rows) - 1
	}
	if m.SelectedIdx < 0 {
		m.SelectedIdx = 0
	}
	m.syncViewport()
}

// withPreview returns the model together with the fetch for the selected
// page's body.
func (m AppModel) withPreview() (tea.Model, tea.Cmd) {
	cmd := m.previewCmd()
	return m, cmd
}

// previewCmd fetches the selected page's body unless it is cached.
func (m *AppModel) previewCmd() tea.Cmd {
	row, ok := m.SelectedRow()
	if !ok || !row.Page.HasContent() {
		return nil
	}
	path := row.Page.ContentPath
	if _, cached := m.Previews[path]; cached || m.PendingPreview == path {
		return nil
	}
	m.PendingPreview = path
	return LoadContentCmd(m.Session, path)
}

func (m *AppModel) pageSize() int {
	size := m.WindowSize.Height - 10
	if size < 1 {
		size = 1
	}
	return size
}

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"pagetree/internal/model"
	"pagetree/internal/session"
	"pagetree/internal/visibility"
)

// previewLines caps how much of a page body the details panel keeps.
const previewLines = 400

// fetchTimeout bounds a single listing or content fetch.
const fetchTimeout = 30 * time.Second

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Session  *session.Session
	Snapshot *session.Snapshot
	Policy   visibility.Policy
	Rows     []visibility.Row
	Loading  bool
	Err      error // last reload failure; the previous tree stays on screen

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	ShowHelp    bool
	HelpScrollY int

	// Filter State
	InputMode   bool
	InputBuffer textinput.Model
	Filter      string

	// Preview
	Previews        map[string]model.ContentPreview
	PendingPreview  string
	DetailsViewport viewport.Model
	ViewportPath    string // content path the viewport currently shows
}

// InitialModel returns the initial state for browsing sess.
func InitialModel(sess *session.Session, policy visibility.Policy) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Title or path..."
	ti.CharLimit = 80
	ti.Width = 30

	if policy == nil {
		policy = visibility.Collapsed
	}

	return AppModel{
		Session:         sess,
		Policy:          policy,
		Loading:         true,
		InputBuffer:     ti,
		Previews:        make(map[string]model.ContentPreview),
		DetailsViewport: viewport.New(40, 10),
	}
}

func (m AppModel) Init() tea.Cmd {
	return ReloadCmd(m.Session)
}

// MsgTreeReady carries the result of a reload.
type MsgTreeReady struct {
	Snapshot *session.Snapshot
	Err      error
}

// MsgContentReady carries a fetched page body.
type MsgContentReady struct {
	Path string
	Data []byte
	Err  error
}

// MsgSourceChanged asks the model to reload, sent by the directory watcher.
type MsgSourceChanged struct{}

// ReloadCmd rebuilds the session's trees in the background.
func ReloadCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		snap, err := sess.Reload(ctx)
		return MsgTreeReady{Snapshot: snap, Err: err}
	}
}

// LoadContentCmd fetches one page body in the background.
func LoadContentCmd(sess *session.Session, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		data, err := sess.Content(ctx, path)
		return MsgContentReady{Path: path, Data: data, Err: err}
	}
}

// SelectedRow returns the row under the cursor.
func (m AppModel) SelectedRow() (visibility.Row, bool) {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.Rows) {
		return visibility.Row{}, false
	}
	return m.Rows[m.SelectedIdx], true
}

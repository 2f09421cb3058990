package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagetree/internal/model"
	"pagetree/internal/session"
	"pagetree/internal/visibility"
)

type fakeSource struct {
	entries []model.Entry
	bodies  map[string]string
}

func (f *fakeSource) Identity() string { return "fake" }

func (f *fakeSource) Listing(context.Context) ([]model.Entry, error) {
	return f.entries, nil
}

func (f *fakeSource) Content(_ context.Context, path string) ([]byte, error) {
	body, ok := f.bodies[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return []byte(body), nil
}

func siteEntries() []model.Entry {
	dir := func(p string) model.Entry { return model.Entry{Path: p, Type: model.EntryDirectory} }
	file := func(p string) model.Entry { return model.Entry{Path: p, Type: model.EntryFile} }
	return []model.Entry{
		dir("content"),
		file("content/_index.md"),
		dir("content/posts"),
		file("content/posts/_index.md"),
		file("content/posts/hello.md"),
		file("content/posts/world.md"),
		dir("content/docs"),
		file("content/docs/setup.md"),
		file("about.md"),
	}
}

// testHelper drives the model the way the bubbletea runtime would, without
// executing commands unless asked to.
type testHelper struct {
	t       *testing.T
	session *session.Session
	model   AppModel
}

func newTestHelper(t *testing.T) *testHelper {
	t.Helper()
	src := &fakeSource{
		entries: siteEntries(),
		bodies: map[string]string{
			"content/_index.md":      "# Welcome\n\nHome body",
			"about.md":               "# About us\n\nWe write docs.",
			"content/posts/hello.md": "# Hello\n",
		},
	}
	sess := session.New(src, nil, nil)
	h := &testHelper{t: t, session: sess, model: InitialModel(sess, visibility.Collapsed)}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})

	snap, err := sess.Reload(context.Background())
	require.NoError(t, err)
	h.send(MsgTreeReady{Snapshot: snap})
	return h
}

func (h *testHelper) send(msg tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(AppModel)
	return cmd
}

func (h *testHelper) key(k string) tea.Cmd {
	switch k {
	case "up":
		return h.send(tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		return h.send(tea.KeyMsg{Type: tea.KeyDown})
	case "left":
		return h.send(tea.KeyMsg{Type: tea.KeyLeft})
	case "right":
		return h.send(tea.KeyMsg{Type: tea.KeyRight})
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "space":
		return h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func (h *testHelper) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *testHelper) paths() []string {
	paths := make([]string, 0, len(h.model.Rows))
	for _, row := range h.model.Rows {
		paths = append(paths, row.Page.Path)
	}
	return paths
}

func (h *testHelper) selected() string {
	row, ok := h.model.SelectedRow()
	require.True(h.t, ok)
	return row.Page.Path
}

func (h *testHelper) expanded(path string) bool {
	var expanded bool
	h.session.Visibility(func(store *visibility.Store) { expanded = store.IsExpanded(path) })
	return expanded
}

func TestStartsCollapsed(t *testing.T) {
	h := newTestHelper(t)
	assert.Equal(t, []string{"content", "about.md"}, h.paths())
	assert.Equal(t, "content", h.selected())
	assert.False(t, h.model.Loading)
}

func TestExpandAndDescend(t *testing.T) {
	h := newTestHelper(t)

	h.key("right")
	assert.Equal(t, []string{"content", "content/docs", "content/posts", "about.md"}, h.paths())
	assert.Equal(t, "content", h.selected(), "expanding keeps the cursor")
	assert.True(t, h.expanded("content"))

	h.key("l")
	assert.Equal(t, "content/docs", h.selected())

	h.key("right")
	h.key("right")
	assert.Equal(t, "content/docs/setup.md", h.selected())

	h.key("right")
	assert.Equal(t, "content/docs/setup.md", h.selected(), "leaves do nothing")
}

func TestCollapseAndAscend(t *testing.T) {
	h := newTestHelper(t)
	h.key("E")
	h.key("G")
	h.key("k")
	assert.Equal(t, "content/posts/world.md", h.selected())

	h.key("left")
	assert.Equal(t, "content/posts", h.selected())

	h.key("h")
	assert.False(t, h.expanded("content/posts"))
	assert.NotContains(t, h.paths(), "content/posts/world.md")

	h.key("h")
	assert.Equal(t, "content", h.selected())
	h.key("h")
	assert.Equal(t, []string{"content", "about.md"}, h.paths())

	h.key("h")
	assert.Equal(t, "content", h.selected(), "roots have nowhere to go")
}

func TestToggle(t *testing.T) {
	h := newTestHelper(t)

	h.key("space")
	assert.True(t, h.expanded("content"))
	assert.Len(t, h.paths(), 4)

	h.key("enter")
	assert.False(t, h.expanded("content"))
	assert.Len(t, h.paths(), 2)

	var collapsed bool
	h.session.Visibility(func(store *visibility.Store) { collapsed = store.IsCollapsed("content") })
	assert.True(t, collapsed)
}

func TestExpandCollapseAll(t *testing.T) {
	h := newTestHelper(t)

	h.key("E")
	assert.Equal(t, []string{
		"content",
		"content/docs",
		"content/docs/setup.md",
		"content/posts",
		"content/posts/hello.md",
		"content/posts/world.md",
		"about.md",
	}, h.paths())

	h.key("C")
	assert.Equal(t, []string{"content", "about.md"}, h.paths())
}

func TestNavigationBounds(t *testing.T) {
	h := newTestHelper(t)

	h.key("up")
	assert.Equal(t, "content", h.selected())
	h.key("down")
	h.key("down")
	h.key("down")
	assert.Equal(t, "about.md", h.selected())
	h.key("g")
	assert.Equal(t, "content", h.selected())
}

func TestFilter(t *testing.T) {
	h := newTestHelper(t)

	h.key("/")
	require.True(t, h.model.InputMode)
	h.typeText("hel")
	assert.Equal(t, []string{"content", "content/posts", "content/posts/hello.md"}, h.paths(), "filters while typing")

	h.key("enter")
	assert.False(t, h.model.InputMode)
	assert.Equal(t, "hel", h.model.Filter)
	assert.Contains(t, h.model.View(), `Pages matching "hel"`)

	// Visibility state is untouched by filtering
	h.key("C")
	assert.Len(t, h.paths(), 3)
	assert.False(t, h.expanded("content/posts"))

	h.key("esc")
	assert.Empty(t, h.model.Filter)
	assert.Equal(t, []string{"content", "about.md"}, h.paths())
}

func TestFilterNoMatches(t *testing.T) {
	h := newTestHelper(t)
	h.key("/")
	h.typeText("zzz")
	assert.Empty(t, h.paths())
	assert.Contains(t, h.model.View(), "No matching pages.")

	h.key("esc")
	assert.Len(t, h.paths(), 2)
}

func TestPreview(t *testing.T) {
	h := newTestHelper(t)

	cmd := h.key("down")
	require.NotNil(t, cmd)
	assert.Equal(t, "about.md", h.model.PendingPreview)
	h.send(cmd())

	preview, ok := h.model.Previews["about.md"]
	require.True(t, ok)
	assert.Equal(t, []string{"# About us", "", "We write docs."}, preview.Lines)
	assert.Contains(t, h.model.View(), "We write docs.")

	// Cached bodies are not fetched again
	h.key("up")
	assert.Nil(t, h.key("down"))
}

func TestPreviewError(t *testing.T) {
	h := newTestHelper(t)
	h.key("E")
	h.key("G")
	h.key("k")
	require.Equal(t, "content/posts/world.md", h.selected())

	h.send(LoadContentCmd(h.session, "content/posts/world.md")())
	assert.NotEmpty(t, h.model.Previews["content/posts/world.md"].ErrorMsg)
}

func TestStructuralFolderHasNoPreview(t *testing.T) {
	h := newTestHelper(t)
	h.key("right")
	cmd := h.key("down")
	assert.Equal(t, "content/docs", h.selected())
	assert.Nil(t, cmd)
	assert.Contains(t, h.model.View(), "This folder has no index page.")
}

func TestReloadFailureKeepsTree(t *testing.T) {
	h := newTestHelper(t)
	snap := h.model.Snapshot

	h.send(MsgTreeReady{Snapshot: snap, Err: errors.New("network down")})
	assert.Len(t, h.paths(), 2)
	assert.Contains(t, h.model.View(), "reload failed: network down")
}

func TestReloadKeepsSelection(t *testing.T) {
	h := newTestHelper(t)
	h.key("down")
	require.Equal(t, "about.md", h.selected())

	cmd := h.key("r")
	require.NotNil(t, cmd)
	assert.True(t, h.model.Loading)
	h.send(cmd())
	assert.False(t, h.model.Loading)
	assert.Equal(t, "about.md", h.selected())
}

func TestView(t *testing.T) {
	h := newTestHelper(t)
	view := h.model.View()

	assert.Contains(t, view, "▸ ⌂ Home Page")
	assert.Contains(t, view, "• ")
	assert.Contains(t, view, "About")
	assert.Contains(t, view, "Content:    content/_index.md")
	assert.Contains(t, view, "fake • 7 pages • 9 files")
}

func TestHelpDialog(t *testing.T) {
	h := newTestHelper(t)
	h.key("?")
	assert.True(t, h.model.ShowHelp)
	assert.Contains(t, h.model.View(), "Folders holding an _index.md")

	h.key("esc")
	assert.False(t, h.model.ShowHelp)
}

func TestQuit(t *testing.T) {
	h := newTestHelper(t)
	cmd := h.key("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSourceChangedTriggersReload(t *testing.T) {
	h := newTestHelper(t)
	cmd := h.send(MsgSourceChanged{})
	require.NotNil(t, cmd)
	assert.IsType(t, MsgTreeReady{}, cmd())
}

func TestFilterRows(t *testing.T) {
	snap := session.Build("x", siteEntries(), nil)

	rows := filterRows(snap.Pages, "SETUP")
	require.Len(t, rows, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{rows[0].Depth, rows[1].Depth, rows[2].Depth})
	assert.True(t, rows[0].Expanded)
	assert.True(t, rows[1].Expanded)
	assert.False(t, rows[2].Expanded)

	rows = filterRows(snap.Pages, "about")
	require.Len(t, rows, 1)
	assert.Equal(t, "about.md", rows[0].Page.Path)
}

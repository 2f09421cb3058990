package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.uber.org/zap"

	"pagetree/internal/listing"
	"pagetree/internal/logging"
	"pagetree/internal/metrics"
	"pagetree/internal/model"
	"pagetree/internal/session"
	"pagetree/internal/tree"
	"pagetree/internal/visibility"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// Options configures a Server.
type Options struct {
	Policy    visibility.Policy
	StatePath string // visibility state is saved here after every change
	Logger    *zap.Logger
}

// Server exposes one session over HTTP.
type Server struct {
	session   *session.Session
	policy    visibility.Policy
	statePath string
	markdown  goldmark.Markdown
	logger    *zap.Logger
	mux       *http.ServeMux
}

// NewServer registers every route for sess.
func NewServer(sess *session.Session, opts Options) *Server {
	s := &Server{
		session:   sess,
		policy:    opts.Policy,
		statePath: opts.StatePath,
		logger:    opts.Logger,
		mux:       http.NewServeMux(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
	if s.policy == nil {
		s.policy = visibility.Collapsed
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	subFS, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /", http.FileServer(http.FS(subFS)))

	s.mux.HandleFunc("GET /api/tree", s.handleTree)
	s.mux.HandleFunc("GET /api/files", s.handleFiles)
	s.mux.HandleFunc("GET /api/node", s.handleNode)
	s.mux.HandleFunc("GET /api/folder", s.handleFolder)
	s.mux.HandleFunc("GET /api/content", s.handleContent)
	s.mux.HandleFunc("GET /api/visibility", s.handleVisibility)
	s.mux.HandleFunc("POST /api/visibility", s.handleVisibilityUpdate)
	s.mux.HandleFunc("POST /api/reload", s.handleReload)
	s.mux.HandleFunc("GET /api/help", s.handleHelp)
	s.mux.Handle("GET /metrics", metrics.Handler())
	return s
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logging.Middleware(metrics.RecordHTTPRequest)(s.mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("web server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// rowView is a visible line of the page tree.
type rowView struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Depth       int    `json:"depth"`
	Expanded    bool   `json:"expanded"`
	HasChildren bool   `json:"hasChildren"`
	HasContent  bool   `json:"hasContent"`
	Icon        string `json:"icon"`
}

type treeResponse struct {
	Version    string            `json:"version"`
	Source     string            `json:"source"`
	LoadedAt   time.Time         `json:"loadedAt"`
	Stats      tree.BuildStats   `json:"stats"`
	Pages      []*model.PageNode `json:"pages"`
	Rows       []rowView         `json:"rows"`
	Visibility visibility.State  `json:"visibility"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	resp := treeResponse{
		Version:  model.Version,
		Source:   snap.Identity,
		LoadedAt: snap.LoadedAt,
		Stats:    snap.Stats,
		Pages:    snap.Pages,
	}
	if resp.Pages == nil {
		resp.Pages = []*model.PageNode{}
	}
	s.session.Visibility(func(store *visibility.Store) {
		for _, row := range visibility.Rows(snap.Pages, store, s.policy) {
			resp.Rows = append(resp.Rows, rowView{
				Path:        row.Page.Path,
				Title:       row.Page.Title,
				Depth:       row.Depth,
				Expanded:    row.Expanded,
				HasChildren: row.HasChildren,
				HasContent:  row.Page.HasContent(),
				Icon:        model.PageIcon(row.Page),
			})
		}
		resp.Visibility = store.Snapshot()
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files := s.snapshot().Files
	if files == nil {
		files = []*model.FileNode{}
	}
	writeJSON(w, http.StatusOK, files)
}

type nodeResponse struct {
	Page   *model.PageNode `json:"page"`
	Parent string          `json:"parent,omitempty"`
	Depth  int             `json:"depth"`
}

// handleNode looks a page up by its own path, or by the path of the file
// holding its body (?content=).
func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	var (
		page *model.PageNode
		ok   bool
	)
	switch {
	case r.URL.Query().Get("path") != "":
		page, ok = snap.PageIndex.Get(r.URL.Query().Get("path"))
	case r.URL.Query().Get("content") != "":
		page, ok = tree.PageForContent(snap.PageIndex, r.URL.Query().Get("content"))
	default:
		writeError(w, http.StatusBadRequest, "path or content is required")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no such page")
		return
	}

	resp := nodeResponse{Page: page, Depth: pageDepth(snap.Pages, page.Path)}
	if parent, found := snap.PageIndex.Enclosing(page.Path); found {
		resp.Parent = parent.Path
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleFolder returns the nearest page enclosing any path, listed or not.
func (s *Server) handleFolder(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	page, ok := s.snapshot().PageIndex.Enclosing(path)
	if !ok {
		writeError(w, http.StatusNotFound, "no enclosing page")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if _, ok := s.snapshot().FileIndex.Get(path); !ok {
		writeError(w, http.StatusNotFound, "path is not in the listing")
		return
	}

	data, err := s.session.Content(r.Context(), path)
	if err != nil {
		logging.WithContext(r.Context()).Warn("content fetch failed", zap.String("path", path), zap.Error(err))
		writeError(w, statusFor(err), err.Error())
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "raw":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write(data)
	case "html":
		var buf bytes.Buffer
		if err := s.markdown.Convert(data, &buf); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	default:
		writeError(w, http.StatusBadRequest, "format must be raw or html")
	}
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var state visibility.State
	s.session.Visibility(func(store *visibility.Store) {
		state = store.Snapshot()
	})
	writeJSON(w, http.StatusOK, state)
}

// visibilityRequest is the body of POST /api/visibility.
type visibilityRequest struct {
	Action   string `json:"action"` // set, toggle, reset, expandAll, collapseAll
	Path     string `json:"path"`
	Expanded bool   `json:"expanded"`
}

func (s *Server) handleVisibilityUpdate(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (req.Action == "set" || req.Action == "toggle") && req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	snap := s.snapshot()
	var (
		state visibility.State
		bad   bool
	)
	s.session.Visibility(func(store *visibility.Store) {
		switch req.Action {
		case "set":
			store.SetExpanded(req.Path, req.Expanded)
		case "toggle":
			depth := pageDepth(snap.Pages, req.Path)
			store.Toggle(req.Path, store.Resolve(req.Path, depth, s.policy))
		case "reset":
			store.Reset()
		case "expandAll":
			store.ExpandAll(visibility.ParentPaths(snap.Pages))
		case "collapseAll":
			store.CollapseAll(visibility.ParentPaths(snap.Pages))
		default:
			bad = true
			return
		}
		state = store.Snapshot()
		if s.statePath != "" {
			if err := store.Save(s.statePath); err != nil {
				logging.WithContext(r.Context()).Warn("saving visibility state failed", zap.Error(err))
			}
		}
	})
	if bad {
		writeError(w, http.StatusBadRequest, "unknown action "+req.Action)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Reload(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source":   snap.Identity,
		"loadedAt": snap.LoadedAt,
		"stats":    snap.Stats,
	})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(text))
}

// snapshot never returns nil so handlers can serve an empty tree before the
// first successful load.
func (s *Server) snapshot() *session.Snapshot {
	if snap := s.session.Snapshot(); snap != nil {
		return snap
	}
	return session.Build("", nil, nil)
}

// pageDepth is the display depth of the page at path, or 0 when unknown.
func pageDepth(pages []*model.PageNode, path string) int {
	depth := 0
	tree.Walk(pages, func(page *model.PageNode, d int) bool {
		if page.Path == path {
			depth = d
			return false
		}
		return true
	})
	return depth
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, listing.ErrListingUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, listing.ErrContentUnavailable):
		return http.StatusNotFound
	case errors.Is(err, listing.ErrUnknownSource):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

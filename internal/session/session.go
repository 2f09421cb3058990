// Package session ties a listing source to the trees built from it and to
// the visibility state of the user browsing them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pagetree/internal/listing"
	"pagetree/internal/metrics"
	"pagetree/internal/model"
	"pagetree/internal/tree"
	"pagetree/internal/visibility"
)

// Snapshot is one immutable build of a listing. Reload replaces it whole.
type Snapshot struct {
	Identity  string
	Files     []*model.FileNode
	Pages     []*model.PageNode
	FileIndex tree.PathIndex[*model.FileNode]
	PageIndex tree.PathIndex[*model.PageNode]
	Stats     tree.BuildStats
	LoadedAt  time.Time
}

// Empty reports whether the snapshot has no pages.
func (s *Snapshot) Empty() bool {
	return len(s.Pages) == 0
}

// Build turns a listing into a snapshot.
func Build(identity string, entries []model.Entry, logger *zap.Logger) *Snapshot {
	files, stats := (&tree.Builder{Logger: logger}).Build(entries)
	pages := (&tree.Transformer{Logger: logger}).Transform(files)
	return &Snapshot{
		Identity:  identity,
		Files:     files,
		Pages:     pages,
		FileIndex: tree.BuildPathIndex(files),
		PageIndex: tree.BuildPathIndex(pages),
		Stats:     stats,
		LoadedAt:  time.Now(),
	}
}

// Session owns a source, the latest snapshot and one visibility store.
// All methods are safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	source   listing.Source
	store    *visibility.Store
	snapshot *Snapshot
	logger   *zap.Logger
}

// New creates a session. A nil store starts empty.
func New(source listing.Source, store *visibility.Store, logger *zap.Logger) *Session {
	if store == nil {
		store = visibility.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{source: source, store: store, logger: logger}
}

// Source returns the current source.
func (s *Session) Source() listing.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// SetSource switches to another source. The next Reload builds from it.
func (s *Session) SetSource(source listing.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Reload fetches the listing and rebuilds both trees. Visibility state
// recorded for a different document than the source names is reset, whether
// it came from an earlier snapshot or from a state file.
//
// On failure the previous snapshot stays current and is returned with the
// error. Without a previous snapshot an empty one is installed.
func (s *Session) Reload(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	start := time.Now()
	identity := source.Identity()
	entries, err := source.Listing(ctx)
	if err != nil {
		metrics.RecordBuild(time.Since(start), false)
		if !errors.Is(err, listing.ErrListingUnavailable) {
			err = fmt.Errorf("%w: %w", listing.ErrListingUnavailable, err)
		}
		s.logger.Warn("listing failed, keeping previous tree", zap.String("source", identity), zap.Error(err))

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.snapshot == nil {
			s.snapshot = &Snapshot{Identity: identity, LoadedAt: time.Now()}
		}
		return s.snapshot, err
	}

	snapshot := Build(identity, entries, s.logger)

	s.mu.Lock()
	previous := s.store.Source()
	if s.store.Bind(identity) {
		s.logger.Info("visibility state belongs to another document, reset",
			zap.String("from", previous), zap.String("to", identity))
	}
	s.snapshot = snapshot
	s.mu.Unlock()

	metrics.RecordBuild(time.Since(start), true)
	metrics.RecordTreeSize(snapshot.Stats.Nodes, tree.Count(snapshot.Pages), snapshot.Stats.Orphans)
	s.logger.Info("tree rebuilt",
		zap.String("source", identity),
		zap.Int("entries", snapshot.Stats.Entries),
		zap.Int("nodes", snapshot.Stats.Nodes),
		zap.Int("orphans", snapshot.Stats.Orphans),
		zap.Int("duplicates", snapshot.Stats.Duplicates),
		zap.Duration("duration", time.Since(start)),
	)
	return snapshot, nil
}

// Snapshot returns the current snapshot, or nil before the first Reload.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Visibility runs fn with exclusive access to the visibility store.
func (s *Session) Visibility(fn func(store *visibility.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}

// Content fetches a page body from the source.
func (s *Session) Content(ctx context.Context, path string) ([]byte, error) {
	data, err := s.Source().Content(ctx, path)
	metrics.RecordContentFetch(err == nil)
	if err != nil && !errors.Is(err, listing.ErrContentUnavailable) {
		err = fmt.Errorf("%w: %w", listing.ErrContentUnavailable, err)
	}
	return data, err
}

// Package browse holds the state of one browsing session: the current query and its filter
// state, the selected entry, and the full-preview toggle.
package browse

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/metrics"
	"github.com/lexandro/assetview-mcp/preview"
)

var (
	// ErrStale is returned when a preview finished after a newer selection replaced it.
	ErrStale = errors.New("preview superseded by a newer selection")
	// ErrNotLoaded is returned before the first manifest load.
	ErrNotLoaded = errors.New("no manifest loaded")
	// ErrUnknownID is returned for ids outside the current catalog.
	ErrUnknownID = errors.New("unknown entry id")
	// ErrLoadMismatch is returned when the caller's load id is not the current one.
	ErrLoadMismatch = errors.New("entry ids belong to a previous manifest load")
)

// Previewer produces preview payloads.
type Previewer interface {
	Preview(ctx context.Context, entry catalog.Entry, showFull bool) preview.Payload
}

// Page is the result of a list operation.
type Page struct {
	LoadID     uuid.UUID
	Query      string
	Revealed   []catalog.Entry // entries newly revealed by this call
	Visible    int
	MatchedAll int
	Total      int
	HasMore    bool
}

// View is a read-only copy of the session state.
type View struct {
	LoadID     uuid.UUID
	Query      string
	Visible    int
	MatchedAll int
	HasMore    bool
	Selected   *catalog.Entry
	ShowFull   bool
}

// Session is safe for concurrent use.
type Session struct {
	store     *catalog.Store
	previewer Previewer
	pageSize  int

	mu         sync.Mutex
	snapshot   *catalog.Snapshot
	state      catalog.FilterState
	selected   *catalog.Entry
	showFull   bool
	generation uint64
	cancel     context.CancelFunc
	rebased    bool // no page of the current snapshot has been returned yet
}

// NewSession creates a session over store. pageSize < 1 uses catalog.DefaultPageSize.
func NewSession(store *catalog.Store, previewer Previewer, pageSize int) *Session {
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}
	return &Session{store: store, previewer: previewer, pageSize: pageSize}
}

// PageSize returns the default page size.
func (s *Session) PageSize() int {
	return s.pageSize
}

// syncSnapshotLocked picks up a snapshot installed since the last call.
func (s *Session) syncSnapshotLocked() error {
	current := s.store.Current()
	if current == nil {
		return ErrNotLoaded
	}
	if current != s.snapshot {
		s.rebaseLocked(current)
	}
	return nil
}

// SetQuery filters the catalog by query and reveals the first page.
func (s *Session) SetQuery(query string, pageSize int) (Page, error) {
	if pageSize < 1 {
		pageSize = s.pageSize
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncSnapshotLocked(); err != nil {
		return Page{}, err
	}
	s.state = catalog.Filter(s.snapshot.Entries, query, pageSize)
	return s.pageLocked(s.state.Visible), nil
}

// LoadMore reveals the next page of the current query. When a new load was installed since
// the last call, the first page of the new catalog is returned instead.
func (s *Session) LoadMore(pageSize int) (Page, error) {
	if pageSize < 1 {
		pageSize = s.pageSize
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncSnapshotLocked(); err != nil {
		return Page{}, err
	}
	if s.rebased {
		return s.pageLocked(s.state.Visible), nil
	}
	before := len(s.state.Visible)
	s.state = catalog.Extend(s.state, pageSize)
	return s.pageLocked(s.state.Visible[before:]), nil
}

func (s *Session) pageLocked(revealed []catalog.Entry) Page {
	s.rebased = false
	return Page{
		LoadID:     s.snapshot.LoadID,
		Query:      s.state.Query,
		Revealed:   revealed,
		Visible:    len(s.state.Visible),
		MatchedAll: len(s.state.MatchedAll),
		Total:      len(s.snapshot.Entries),
		HasMore:    s.state.HasMore(),
	}
}

// Select makes id the selected entry and previews it. A previous in-flight preview is
// cancelled. When loadID is not uuid.Nil it must match the current load.
// If another Select starts before this one finishes, the payload is discarded and
// ErrStale is returned.
func (s *Session) Select(ctx context.Context, id int, loadID uuid.UUID, showFull bool) (preview.Payload, error) {
	s.mu.Lock()
	if err := s.syncSnapshotLocked(); err != nil {
		s.mu.Unlock()
		return preview.Payload{}, err
	}
	if loadID != uuid.Nil && loadID != s.snapshot.LoadID {
		s.mu.Unlock()
		return preview.Payload{}, ErrLoadMismatch
	}
	entry, ok := s.snapshot.Lookup(id)
	if !ok {
		s.mu.Unlock()
		return preview.Payload{}, ErrUnknownID
	}

	if s.cancel != nil {
		s.cancel()
	}
	previewCtx, cancel := context.WithCancel(ctx)
	s.generation++
	generation := s.generation
	s.cancel = cancel
	s.selected = &entry
	s.showFull = showFull
	s.mu.Unlock()

	payload := s.previewer.Preview(previewCtx, entry, showFull)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		cancel()
		metrics.RecordStalePreview()
		return preview.Payload{}, ErrStale
	}
	cancel()
	s.cancel = nil
	return payload, nil
}

// Rebase moves the session onto snapshot: the query is re-applied to the new catalog and
// the selection is cleared, since ids from the previous load no longer apply.
func (s *Session) Rebase(snapshot *catalog.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebaseLocked(snapshot)
}

func (s *Session) rebaseLocked(snapshot *catalog.Snapshot) {
	s.snapshot = snapshot
	s.rebased = true
	var entries []catalog.Entry
	if snapshot != nil {
		entries = snapshot.Entries
	}
	s.state = catalog.Filter(entries, s.state.Query, s.pageSize)
	s.clearSelectionLocked()
}

// Refresh clears the query, the selection and the full-preview toggle.
func (s *Session) Refresh() (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSelectionLocked()
	s.showFull = false
	if err := s.syncSnapshotLocked(); err != nil {
		s.state = catalog.FilterState{}
		return Page{}, err
	}
	s.state = catalog.Filter(s.snapshot.Entries, "", s.pageSize)
	return s.pageLocked(s.state.Visible), nil
}

func (s *Session) clearSelectionLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.selected = nil
}

// View returns a copy of the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		Query:      s.state.Query,
		Visible:    len(s.state.Visible),
		MatchedAll: len(s.state.MatchedAll),
		HasMore:    s.state.HasMore(),
		ShowFull:   s.showFull,
	}
	if s.snapshot != nil {
		view.LoadID = s.snapshot.LoadID
	}
	if s.selected != nil {
		selected := *s.selected
		view.Selected = &selected
	}
	return view
}

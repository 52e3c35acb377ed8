package store

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// State is the store's fetch lifecycle. idle → loading → ready on the first
// fetch; ready → loading → ready on refetch. A failed fetch still lands in
// ready: the previous snapshot stays visible alongside the error.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Entity is anything a store can hold, keyed by a stable id.
type Entity interface {
	EntityID() string
}

// Store is the canonical client-side snapshot of one entity family. It
// merges REST list responses with WebSocket patches by id, so interleaved
// completions commute as long as they touch disjoint fields.
//
// Every mutation notifies subscribers after the lock is released; a
// subscriber may re-read the store or unsubscribe from inside its callback.
type Store[T Entity] struct {
	name   string
	logger *slog.Logger

	mu        sync.RWMutex
	state     State
	items     map[string]T
	order     []string
	total     int64
	errMsg    string
	filters   map[string]string
	page      int
	limit     int
	selection map[string]struct{}
	fetchGen  uint64

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func newStore[T Entity](name string, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		name:      name,
		logger:    logger.With("store", name),
		state:     StateIdle,
		items:     make(map[string]T),
		filters:   make(map[string]string),
		selection: make(map[string]struct{}),
		subs:      make(map[int]func()),
	}
}

// State returns the fetch lifecycle state.
func (s *Store[T]) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Error returns the current error string, empty when none.
func (s *Store[T]) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// ClearError resets the error string.
func (s *Store[T]) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// Total returns the backend's total count from the last fetch.
func (s *Store[T]) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Items returns the snapshot in its current order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Get returns one entity by id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Len returns the snapshot size.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Subscribe registers a callback invoked after every store change. The
// returned function removes the subscription.
func (s *Store[T]) Subscribe(fn func()) func() {
	s.subMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store[T]) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// beginFetch moves to loading and returns the generation token the matching
// completeFetch must present. A newer fetch bumps the generation, so a
// superseded response is discarded instead of clobbering fresher data.
func (s *Store[T]) beginFetch() uint64 {
	s.mu.Lock()
	s.state = StateLoading
	s.fetchGen++
	gen := s.fetchGen
	s.mu.Unlock()
	s.notify()
	return gen
}

// completeFetch resolves a fetch started with beginFetch. On success the
// snapshot and total are replaced; on failure the previous snapshot is
// retained and the error surfaced. Either way the store lands in ready.
func (s *Store[T]) completeFetch(gen uint64, items []T, total int64, err error) error {
	s.mu.Lock()
	if gen != s.fetchGen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale fetch response", "gen", gen)
		return err
	}

	s.state = StateReady
	if err != nil {
		s.errMsg = err.Error()
		s.mu.Unlock()
		s.notify()
		return err
	}

	s.errMsg = ""
	s.total = total
	s.items = make(map[string]T, len(items))
	s.order = s.order[:0]
	for _, item := range items {
		id := item.EntityID()
		if _, seen := s.items[id]; !seen {
			s.order = append(s.order, id)
		}
		s.items[id] = item
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// setError surfaces an error outside the fetch path (mutation failures).
func (s *Store[T]) setError(err error) {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
	s.notify()
}

// Upsert inserts or replaces one entity, appending new ids to the order.
func (s *Store[T]) Upsert(item T) {
	id := item.EntityID()
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = item
	s.mu.Unlock()
	s.notify()
}

// Remove deletes one entity by id. Removing an unknown id is a no-op.
func (s *Store[T]) Remove(id string) {
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.items, id)
	delete(s.selection, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// ApplyPatch merges a push into the entity with the given id. When the id
// is unknown the create factory supplies a minimal entity first: a patch
// arriving before the first fetch still lands (create-via-update
// tolerance), and the partial entity is filled in by the eventual fetch.
func (s *Store[T]) ApplyPatch(id string, create func() T, mutate func(*T)) {
	s.mu.Lock()
	item, ok := s.items[id]
	if !ok {
		item = create()
		s.order = append(s.order, id)
	}
	mutate(&item)
	s.items[id] = item
	s.mu.Unlock()
	s.notify()
}

// Selection operations. These touch only the selection set, never the
// snapshot.

// Select marks an id as selected.
func (s *Store[T]) Select(id string) {
	s.mu.Lock()
	s.selection[id] = struct{}{}
	s.mu.Unlock()
	s.notify()
}

// Deselect unmarks an id.
func (s *Store[T]) Deselect(id string) {
	s.mu.Lock()
	delete(s.selection, id)
	s.mu.Unlock()
	s.notify()
}

// ToggleSelect flips an id's selection.
func (s *Store[T]) ToggleSelect(id string) {
	s.mu.Lock()
	if _, ok := s.selection[id]; ok {
		delete(s.selection, id)
	} else {
		s.selection[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// SelectAll selects every id currently in the snapshot.
func (s *Store[T]) SelectAll() {
	s.mu.Lock()
	for _, id := range s.order {
		s.selection[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// ClearSelection empties the selection set.
func (s *Store[T]) ClearSelection() {
	s.mu.Lock()
	s.selection = make(map[string]struct{})
	s.mu.Unlock()
	s.notify()
}

// Selected returns the selected ids, sorted.
func (s *Store[T]) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.selection))
	for id := range s.selection {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsSelected reports whether the id is selected.
func (s *Store[T]) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selection[id]
	return ok
}

// setFilters replaces the filter and pagination state. The per-entity store
// triggers the follow-up fetch.
func (s *Store[T]) setFilters(filters map[string]string, page, limit int) {
	s.mu.Lock()
	s.filters = make(map[string]string, len(filters))
	for k, v := range filters {
		s.filters[k] = v
	}
	s.page = page
	s.limit = limit
	s.mu.Unlock()
}

func (s *Store[T]) clearFilters() {
	s.mu.Lock()
	s.filters = make(map[string]string)
	s.page = 0
	s.mu.Unlock()
}

// listOptions snapshots the current filter state for a REST list call.
func (s *Store[T]) listOptions() ports.ListOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filters := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		filters[k] = v
	}
	return ports.ListOptions{Page: s.page, Limit: s.limit, Filters: filters}
}

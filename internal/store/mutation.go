package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MutationKind names a class of user-initiated edits, e.g. "assign" or
// "block". At most one mutation of a kind per entity id is authoritative at
// a time: a second edit supersedes the first, it never queues behind it.
type MutationKind string

const (
	KindAssign MutationKind = "assign"
	KindBlock  MutationKind = "block"
	KindStatus MutationKind = "status"
	KindLabels MutationKind = "labels"
)

type pendingKey struct {
	id   string
	kind MutationKind
}

// Mutation describes one user-initiated edit and its policy. Optimistic is
// explicit per operation rather than implied by the entity:
//
//   - Optimistic: Stage runs before the REST call, applying a tentative,
//     UI-scoped overlay (never the canonical snapshot). On failure the
//     overlay is retained for retry and only Rollback — when provided —
//     runs. Reconciliation happens via refetch or a push patch.
//   - Non-optimistic: nothing changes until the REST call succeeds, then
//     Commit patches the snapshot. A false "done" on a session or block
//     toggle is worse than a brief delay.
type Mutation struct {
	EntityID   string
	Kind       MutationKind
	Optimistic bool
	Stage      func()
	Call       func(ctx context.Context) error
	Commit     func()
	Rollback   func()
}

// Coordinator runs mutations and enforces the supersede rule.
type Coordinator struct {
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[pendingKey]uuid.UUID
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "mutation_coordinator"),
		inFlight: make(map[pendingKey]uuid.UUID),
	}
}

// Run executes the mutation. When a newer mutation of the same kind for the
// same entity started while this one's REST call was in flight, the result
// is discarded: neither Commit nor Rollback runs, and the error (if any) is
// still returned to the original caller.
func (c *Coordinator) Run(ctx context.Context, m Mutation) error {
	key := pendingKey{id: m.EntityID, kind: m.Kind}
	token := uuid.New()

	c.mu.Lock()
	c.inFlight[key] = token
	c.mu.Unlock()

	if m.Optimistic && m.Stage != nil {
		m.Stage()
	}

	err := m.Call(ctx)

	c.mu.Lock()
	authoritative := c.inFlight[key] == token
	if authoritative {
		delete(c.inFlight, key)
	}
	c.mu.Unlock()

	if !authoritative {
		c.logger.Debug("mutation superseded, discarding result",
			"entity_id", m.EntityID,
			"kind", m.Kind,
			"error", err,
		)
		return err
	}

	if err != nil {
		if m.Rollback != nil {
			m.Rollback()
		}
		return err
	}

	if m.Commit != nil {
		m.Commit()
	}
	return nil
}

// Pending reports whether a mutation of the kind is in flight for the id.
func (c *Coordinator) Pending(id string, kind MutationKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[pendingKey{id: id, kind: kind}]
	return ok
}

// PendingSet is a dialog-scoped working copy of a membership-style field
// (labels on a conversation, agents in a group). The user toggles ids in
// the pending set; the canonical snapshot is untouched until Save has
// confirmed each REST call. A failed Save keeps the pending set as the user
// left it so the edit can be retried or cancelled explicitly.
type PendingSet struct {
	mu        sync.Mutex
	canonical map[string]struct{}
	pending   map[string]struct{}
}

// NewPendingSet seeds the editor with the canonical membership.
func NewPendingSet(canonical []string) *PendingSet {
	p := &PendingSet{
		canonical: make(map[string]struct{}, len(canonical)),
		pending:   make(map[string]struct{}, len(canonical)),
	}
	for _, id := range canonical {
		p.canonical[id] = struct{}{}
		p.pending[id] = struct{}{}
	}
	return p
}

// Toggle flips an id in the pending set.
func (p *PendingSet) Toggle(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.pending[id]; ok {
		delete(p.pending, id)
	} else {
		p.pending[id] = struct{}{}
	}
}

// Contains reports whether the id is in the pending set.
func (p *PendingSet) Contains(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[id]
	return ok
}

// Pending returns the pending ids, sorted.
func (p *PendingSet) Pending() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sortedKeys(p.pending)
}

// Dirty reports whether pending differs from canonical.
func (p *PendingSet) Dirty() bool {
	adds, removes := p.Diff()
	return len(adds) > 0 || len(removes) > 0
}

// Diff returns the minimal delta between pending and canonical: ids to add
// and ids to remove, both sorted. Ids present in both sets appear in
// neither list, so Save never issues a call for an unchanged membership.
func (p *PendingSet) Diff() (adds, removes []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id := range p.pending {
		if _, ok := p.canonical[id]; !ok {
			adds = append(adds, id)
		}
	}
	for id := range p.canonical {
		if _, ok := p.pending[id]; !ok {
			removes = append(removes, id)
		}
	}
	sort.Strings(adds)
	sort.Strings(removes)
	return adds, removes
}

// Save issues one add call per id to add and one remove call per id to
// remove — never a full replace. Each confirmed id is folded into the
// canonical set immediately, so a retry after a partial failure only
// replays the calls that actually failed. The pending set itself is never
// reverted here: the user's intent survives the error.
func (p *PendingSet) Save(ctx context.Context, add, remove func(ctx context.Context, id string) error) error {
	adds, removes := p.Diff()

	for _, id := range adds {
		if err := add(ctx, id); err != nil {
			return err
		}
		p.mu.Lock()
		p.canonical[id] = struct{}{}
		p.mu.Unlock()
	}
	for _, id := range removes {
		if err := remove(ctx, id); err != nil {
			return err
		}
		p.mu.Lock()
		delete(p.canonical, id)
		p.mu.Unlock()
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

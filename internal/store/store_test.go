package store

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func labels(names ...string) []domain.Label {
	out := make([]domain.Label, 0, len(names))
	for _, name := range names {
		out = append(out, domain.Label{ID: "id-" + name, Name: name})
	}
	return out
}

func TestStore_FetchLifecycle(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())
	assert.Equal(t, StateIdle, s.State())

	gen := s.beginFetch()
	assert.Equal(t, StateLoading, s.State())

	require.NoError(t, s.completeFetch(gen, labels("a", "b"), 2, nil))
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, int64(2), s.Total())
	assert.Empty(t, s.Error())
}

func TestStore_FailedFetchRetainsSnapshot(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())

	gen := s.beginFetch()
	require.NoError(t, s.completeFetch(gen, labels("a", "b"), 2, nil))

	gen = s.beginFetch()
	fetchErr := errors.New("backend unavailable")
	require.Error(t, s.completeFetch(gen, nil, 0, fetchErr))

	// The old snapshot stays visible alongside the error.
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "backend unavailable", s.Error())

	s.ClearError()
	assert.Empty(t, s.Error())
}

func TestStore_StaleFetchDiscarded(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())

	genOld := s.beginFetch()
	genNew := s.beginFetch()

	require.NoError(t, s.completeFetch(genNew, labels("fresh"), 1, nil))
	// The older fetch resolving late must not clobber the newer snapshot.
	require.NoError(t, s.completeFetch(genOld, labels("stale-a", "stale-b"), 2, nil))

	assert.Equal(t, 1, s.Len())
	item, ok := s.Get("id-fresh")
	require.True(t, ok)
	assert.Equal(t, "fresh", item.Name)
}

func TestStore_UpsertAndRemove(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())

	s.Upsert(domain.Label{ID: "l1", Name: "one"})
	s.Upsert(domain.Label{ID: "l2", Name: "two"})
	s.Upsert(domain.Label{ID: "l1", Name: "one again"})

	assert.Equal(t, 2, s.Len())
	item, _ := s.Get("l1")
	assert.Equal(t, "one again", item.Name)

	// Order is stable across replaces.
	items := s.Items()
	assert.Equal(t, "l1", items[0].ID)
	assert.Equal(t, "l2", items[1].ID)

	s.Remove("l1")
	s.Remove("ghost")
	assert.Equal(t, 1, s.Len())
}

func TestStore_ApplyPatchCreatesMissingEntity(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())

	// A patch for an id the store has never seen lands on a minimal
	// entity instead of being dropped.
	s.ApplyPatch("l9", func() domain.Label {
		return domain.Label{ID: "l9"}
	}, func(l *domain.Label) {
		l.Name = "from push"
	})

	item, ok := s.Get("l9")
	require.True(t, ok)
	assert.Equal(t, "from push", item.Name)
}

func TestStore_Selection(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())
	gen := s.beginFetch()
	require.NoError(t, s.completeFetch(gen, labels("a", "b", "c"), 3, nil))

	s.Select("id-a")
	s.ToggleSelect("id-b")
	s.ToggleSelect("id-b")
	assert.Equal(t, []string{"id-a"}, s.Selected())
	assert.True(t, s.IsSelected("id-a"))

	s.SelectAll()
	assert.Len(t, s.Selected(), 3)

	// Removing an entity drops it from the selection too.
	s.Remove("id-a")
	assert.Equal(t, []string{"id-b", "id-c"}, s.Selected())

	s.ClearSelection()
	assert.Empty(t, s.Selected())
}

func TestStore_Subscribe(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())

	var notified int
	unsub := s.Subscribe(func() { notified++ })

	s.Upsert(domain.Label{ID: "l1"})
	assert.Equal(t, 1, notified)

	unsub()
	s.Upsert(domain.Label{ID: "l2"})
	assert.Equal(t, 1, notified)
}

func TestStore_SubscriberMayUnsubscribeInCallback(t *testing.T) {
	s := newStore[domain.Label]("test", testLogger())

	var unsub func()
	var calls int
	unsub = s.Subscribe(func() {
		calls++
		unsub()
	})

	require.NotPanics(t, func() {
		s.Upsert(domain.Label{ID: "l1"})
		s.Upsert(domain.Label{ID: "l2"})
	})
	assert.Equal(t, 1, calls)
}

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSet_DiffIsMinimal(t *testing.T) {
	p := NewPendingSet([]string{"a", "b", "c"})

	// {a,b,c} -> {b,c,d}: only the actual delta is reported.
	p.Toggle("a")
	p.Toggle("d")

	adds, removes := p.Diff()
	assert.Equal(t, []string{"d"}, adds)
	assert.Equal(t, []string{"a"}, removes)
	assert.True(t, p.Dirty())
	assert.Equal(t, []string{"b", "c", "d"}, p.Pending())
}

func TestPendingSet_UnchangedMembershipIssuesNoCalls(t *testing.T) {
	p := NewPendingSet([]string{"a", "b"})
	p.Toggle("a")
	p.Toggle("a")

	var calls int
	count := func(context.Context, string) error { calls++; return nil }
	require.NoError(t, p.Save(context.Background(), count, count))
	assert.Zero(t, calls)
	assert.False(t, p.Dirty())
}

func TestPendingSet_PartialFailureRetryIsMinimal(t *testing.T) {
	p := NewPendingSet([]string{"a", "b", "c"})
	p.Toggle("a")
	p.Toggle("d")

	var added []string
	add := func(_ context.Context, id string) error {
		added = append(added, id)
		return nil
	}
	removeFail := func(context.Context, string) error {
		return errors.New("remove failed")
	}

	err := p.Save(context.Background(), add, removeFail)
	require.Error(t, err)
	assert.Equal(t, []string{"d"}, added)

	// The confirmed add was folded into canonical; only the failed remove
	// is left for the retry. The user's pending choices are untouched.
	adds, removes := p.Diff()
	assert.Empty(t, adds)
	assert.Equal(t, []string{"a"}, removes)
	assert.Equal(t, []string{"b", "c", "d"}, p.Pending())

	var removedNow []string
	remove := func(_ context.Context, id string) error {
		removedNow = append(removedNow, id)
		return nil
	}
	require.NoError(t, p.Save(context.Background(), add, remove))
	assert.Equal(t, []string{"d"}, added, "no duplicate add on retry")
	assert.Equal(t, []string{"a"}, removedNow)
	assert.False(t, p.Dirty())
}

func TestCoordinator_CommitOnSuccess(t *testing.T) {
	c := NewCoordinator(testLogger())

	var committed, rolledBack bool
	err := c.Run(context.Background(), Mutation{
		EntityID: "t1",
		Kind:     KindAssign,
		Call:     func(context.Context) error { return nil },
		Commit:   func() { committed = true },
		Rollback: func() { rolledBack = true },
	})

	require.NoError(t, err)
	assert.True(t, committed)
	assert.False(t, rolledBack)
	assert.False(t, c.Pending("t1", KindAssign))
}

func TestCoordinator_RollbackOnFailure(t *testing.T) {
	c := NewCoordinator(testLogger())

	var staged, committed, rolledBack bool
	callErr := errors.New("backend said no")
	err := c.Run(context.Background(), Mutation{
		EntityID:   "t1",
		Kind:       KindAssign,
		Optimistic: true,
		Stage:      func() { staged = true },
		Call:       func(context.Context) error { return callErr },
		Commit:     func() { committed = true },
		Rollback:   func() { rolledBack = true },
	})

	require.ErrorIs(t, err, callErr)
	assert.True(t, staged)
	assert.False(t, committed)
	assert.True(t, rolledBack)
}

func TestCoordinator_StageSkippedWhenNotOptimistic(t *testing.T) {
	c := NewCoordinator(testLogger())

	var staged bool
	err := c.Run(context.Background(), Mutation{
		EntityID:   "t1",
		Kind:       KindBlock,
		Optimistic: false,
		Stage:      func() { staged = true },
		Call:       func(context.Context) error { return nil },
	})

	require.NoError(t, err)
	assert.False(t, staged)
}

func TestCoordinator_LaterMutationSupersedesEarlier(t *testing.T) {
	c := NewCoordinator(testLogger())

	firstInFlight := make(chan struct{})
	releaseFirst := make(chan struct{})

	var mu sync.Mutex
	var log []string
	record := func(s string) {
		mu.Lock()
		log = append(log, s)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = c.Run(context.Background(), Mutation{
			EntityID: "t1",
			Kind:     KindAssign,
			Call: func(context.Context) error {
				close(firstInFlight)
				<-releaseFirst
				return errors.New("slow call lost the race")
			},
			Commit:   func() { record("first commit") },
			Rollback: func() { record("first rollback") },
		})
	}()

	<-firstInFlight

	// Second assign of the same ticket starts while the first call is
	// still in flight and wins.
	err := c.Run(context.Background(), Mutation{
		EntityID: "t1",
		Kind:     KindAssign,
		Call:     func(context.Context) error { return nil },
		Commit:   func() { record("second commit") },
		Rollback: func() { record("second rollback") },
	})
	require.NoError(t, err)

	close(releaseFirst)
	wg.Wait()

	// The superseded mutation neither commits nor rolls back, but its
	// caller still sees the error.
	require.Error(t, firstErr)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"second commit"}, log)
}

func TestCoordinator_DifferentKindsDoNotSupersede(t *testing.T) {
	c := NewCoordinator(testLogger())

	inFlight := make(chan struct{})
	release := make(chan struct{})

	var assignCommitted bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Run(context.Background(), Mutation{
			EntityID: "t1",
			Kind:     KindAssign,
			Call: func(context.Context) error {
				close(inFlight)
				<-release
				return nil
			},
			Commit: func() { assignCommitted = true },
		})
	}()

	<-inFlight

	var statusCommitted bool
	require.NoError(t, c.Run(context.Background(), Mutation{
		EntityID: "t1",
		Kind:     KindStatus,
		Call:     func(context.Context) error { return nil },
		Commit:   func() { statusCommitted = true },
	}))

	close(release)
	wg.Wait()

	assert.True(t, assignCommitted)
	assert.True(t, statusCommitted)
}

package optimistic_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voyager/internal/optimistic"
)

type item struct {
	ID   string
	Name string
}

func newStore(ids ...string) *optimistic.Store[string, item] {
	s := optimistic.New(func(it item) string { return it.ID })
	var items []item
	for _, id := range ids {
		items = append(items, item{ID: id, Name: "name-" + id})
	}
	s.Reset(items)
	return s
}

func ids(s *optimistic.Store[string, item]) []string {
	out := []string{}
	for _, it := range s.Snapshot() {
		out = append(out, it.ID)
	}
	return out
}

// remote is a fake remote set. Calls block on gate when it is non-nil.
type remote struct {
	mu    sync.Mutex
	set   map[string]bool
	calls []string
	fail  map[string]error
	gate  chan struct{}
}

func newRemote(ids ...string) *remote {
	r := &remote{set: map[string]bool{}, fail: map[string]error{}}
	for _, id := range ids {
		r.set[id] = true
	}
	return r
}

func (r *remote) do(op, id string, present bool) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op+":"+id)
	if err := r.fail[op+":"+id]; err != nil {
		return err
	}
	r.set[id] = present
	return nil
}

func (r *remote) add(_ context.Context, it item) error { return r.do("add", it.ID, true) }
func (r *remote) remove(_ context.Context, id string) error { return r.do("remove", id, false) }

func (r *remote) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set[id]
}

var errBoom = errors.New("boom")

// ---- Toggle ---------------------------------------------------------------

func TestToggle_AddIsAppliedImmediately(t *testing.T) {
	s := newStore("a")
	r := newRemote("a")
	r.gate = make(chan struct{})

	p := s.Toggle(context.Background(), item{ID: "b"}, r.add, r.remove)

	assert.True(t, p.Present)
	assert.True(t, s.Contains("b"), "visible before the remote answers")
	close(r.gate)
	require.NoError(t, p.Wait())
	assert.True(t, r.has("b"))
	assert.Equal(t, []string{"a", "b"}, ids(s))
}

func TestToggle_FailedAddRollsBack(t *testing.T) {
	s := newStore("a")
	r := newRemote("a")
	r.fail["add:b"] = errBoom
	before := s.Snapshot()

	err := s.Toggle(context.Background(), item{ID: "b"}, r.add, r.remove).Wait()

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, s.Snapshot())
}

func TestToggle_FailedRemoveRestoresPosition(t *testing.T) {
	s := newStore("a", "b", "c")
	r := newRemote("a", "b", "c")
	r.fail["remove:b"] = errBoom
	before := s.Snapshot()

	p := s.Toggle(context.Background(), item{ID: "b"}, r.add, r.remove)
	assert.False(t, p.Present)
	err := p.Wait()

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, s.Snapshot())
}

func TestToggle_SaveThenUnsaveBeforeFirstResolves(t *testing.T) {
	s := newStore()
	r := newRemote()
	r.gate = make(chan struct{})
	ctx := context.Background()

	p1 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	p2 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	assert.False(t, s.Contains("x"))

	close(r.gate)
	require.NoError(t, p1.Wait())
	require.NoError(t, p2.Wait())

	assert.False(t, s.Contains("x"))
	assert.False(t, r.has("x"))
	assert.Equal(t, []string{"add:x", "remove:x"}, r.calls, "requests for one key run in order")
}

func TestToggle_LaterRequestSucceedsAfterEarlierFailure(t *testing.T) {
	s := newStore()
	r := newRemote()
	r.gate = make(chan struct{})
	r.fail["add:x"] = errBoom
	ctx := context.Background()

	p1 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	p2 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	p3 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	close(r.gate)

	assert.ErrorIs(t, p1.Wait(), errBoom)
	require.NoError(t, p2.Wait())
	assert.ErrorIs(t, p3.Wait(), errBoom)

	// The last add failed and nothing is queued: local matches the remote.
	assert.Equal(t, r.has("x"), s.Contains("x"))
	assert.False(t, s.Contains("x"))
}

func TestOnRevert_RunsOnlyWhenKeyRollsBack(t *testing.T) {
	s := newStore()
	r := newRemote()
	r.gate = make(chan struct{})
	r.fail["add:x"] = errBoom
	ctx := context.Background()
	var (
		mu       sync.Mutex
		reverted []bool
	)
	s.OnRevert(func(it item, present bool, err error) {
		mu.Lock()
		reverted = append(reverted, present)
		mu.Unlock()
		assert.ErrorIs(t, err, errBoom)
	})

	p1 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	p2 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	p3 := s.Toggle(ctx, item{ID: "x"}, r.add, r.remove)
	close(r.gate)

	assert.ErrorIs(t, p1.Wait(), errBoom)
	require.NoError(t, p2.Wait())
	assert.ErrorIs(t, p3.Wait(), errBoom)

	// p1 failed while p2 and p3 were queued, so only p3 rolled back.
	assert.False(t, p1.Reverted())
	assert.False(t, p2.Reverted())
	assert.True(t, p3.Reverted())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true}, reverted)
}

func TestOnRevert_RemoveFailure(t *testing.T) {
	s := newStore("t1")
	var got []string
	s.OnRevert(func(it item, present bool, _ error) {
		assert.False(t, present)
		got = append(got, it.ID)
	})

	p := s.Remove(context.Background(), "t1", func(context.Context, string) error { return errBoom })

	assert.ErrorIs(t, p.Wait(), errBoom)
	assert.True(t, p.Reverted())
	assert.Equal(t, []string{"t1"}, got, "hook runs before the pending settles")
}

func TestToggle_FinalStateMatchesRemote(t *testing.T) {
	for n := 1; n <= 6; n++ {
		s := newStore()
		r := newRemote()
		r.gate = make(chan struct{})
		var last *optimistic.Pending
		for i := 0; i < n; i++ {
			last = s.Toggle(context.Background(), item{ID: "x"}, r.add, r.remove)
		}
		close(r.gate)
		require.NoError(t, last.Wait())
		s.Wait()

		assert.Equal(t, n%2 == 1, s.Contains("x"), "after %d toggles", n)
		assert.Equal(t, s.Contains("x"), r.has("x"), "after %d toggles", n)
	}
}

func TestToggle_KeysAreIndependent(t *testing.T) {
	s := newStore()
	slow := make(chan struct{})
	add := func(_ context.Context, it item) error {
		if it.ID == "slow" {
			<-slow
		}
		return nil
	}
	noop := func(context.Context, string) error { return nil }

	ps := s.Toggle(context.Background(), item{ID: "slow"}, add, noop)
	pf := s.Toggle(context.Background(), item{ID: "fast"}, add, noop)

	select {
	case <-pf.Done():
	case <-time.After(time.Second):
		t.Fatal("fast key waited for slow key")
	}
	close(slow)
	require.NoError(t, ps.Wait())
}

// ---- Remove ---------------------------------------------------------------

func TestRemove_OptimisticAndRollback(t *testing.T) {
	s := newStore("t1", "t2", "t3")
	gate := make(chan struct{})
	remote := func(context.Context, string) error {
		<-gate
		return errBoom
	}

	p := s.Remove(context.Background(), "t2", remote)
	assert.Equal(t, []string{"t1", "t3"}, ids(s))
	close(gate)

	assert.ErrorIs(t, p.Wait(), errBoom)
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(s))
}

func TestRemove_Success(t *testing.T) {
	s := newStore("t1", "t2")

	err := s.Remove(context.Background(), "t1", func(context.Context, string) error { return nil }).Wait()

	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids(s))
}

func TestRemove_AbsentKey(t *testing.T) {
	s := newStore("t1")
	called := false

	err := s.Remove(context.Background(), "nope", func(context.Context, string) error {
		called = true
		return nil
	}).Wait()

	assert.NoError(t, err)
	assert.False(t, called)
}

// ---- confirmed writes -----------------------------------------------------

func TestPrepend(t *testing.T) {
	s := newStore("a", "b")

	s.Prepend(item{ID: "c"})
	s.Prepend(item{ID: "b", Name: "fresh"})

	assert.Equal(t, []string{"b", "c", "a"}, ids(s))
	got, _ := s.Get("b")
	assert.Equal(t, "fresh", got.Name)
}

func TestReplace(t *testing.T) {
	s := newStore("a", "b")

	assert.True(t, s.Replace(item{ID: "b", Name: "server copy"}))
	assert.False(t, s.Replace(item{ID: "zzz"}))

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "server copy", got.Name)
	assert.Equal(t, []string{"a", "b"}, ids(s))
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := newStore("a")

	snap := s.Snapshot()
	snap[0].Name = "mutated"

	got, _ := s.Get("a")
	assert.Equal(t, "name-a", got.Name)
}

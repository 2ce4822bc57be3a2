// Package optimistic keeps an ordered, keyed collection whose local state
// runs ahead of a remote store. Mutations are applied locally at once, sent
// to the remote in per-key FIFO order, and reverted when the remote rejects
// them.
package optimistic

import (
	"context"
	"sync"
)

// Pending is an in-flight remote mutation.
type Pending struct {
	// Present is the local membership of the key right after the optimistic
	// apply.
	Present bool

	done     chan struct{}
	err      error
	reverted bool
}

// Wait blocks until the remote call has settled and returns its error.
// A non-nil error means the local change may have been reverted.
func (p *Pending) Wait() error {
	<-p.done
	return p.err
}

// Done is closed once the remote call has settled.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Reverted reports whether the failed call rolled the key back. It blocks
// until the call has settled.
func (p *Pending) Reverted() bool {
	<-p.done
	return p.reverted
}

// keyState tracks one key while it has requests queued or in flight.
type keyState[V any] struct {
	confirmed    bool // last membership the remote acknowledged
	confirmedVal V
	confirmedIdx int // position to restore to, -1 for the end
	pending      int
	tail         chan struct{} // closed when the newest queued request settles
}

// Store is an ordered collection of V keyed by K. It is safe for
// concurrent use.
type Store[K comparable, V any] struct {
	key func(V) K

	mu       sync.Mutex
	items    []V
	keys     map[K]*keyState[V]
	onRevert func(v V, present bool, err error)

	wg sync.WaitGroup
}

// New returns an empty Store using key to identify items.
func New[K comparable, V any](key func(V) K) *Store[K, V] {
	return &Store[K, V]{key: key, keys: make(map[K]*keyState[V])}
}

// OnRevert registers fn to run each time a failed call rolls its key back.
// present is the membership the failed call tried to reach. fn is not called
// for failures superseded by a later queued request for the same key, and it
// runs before the failed Pending settles.
func (s *Store[K, V]) OnRevert(fn func(v V, present bool, err error)) {
	s.mu.Lock()
	s.onRevert = fn
	s.mu.Unlock()
}

func (s *Store[K, V]) indexLocked(k K) int {
	for i, it := range s.items {
		if s.key(it) == k {
			return i
		}
	}
	return -1
}

func (s *Store[K, V]) insertLocked(idx int, v V) {
	if idx < 0 || idx > len(s.items) {
		idx = len(s.items)
	}
	s.items = append(s.items, v)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = v
}

func (s *Store[K, V]) removeLocked(idx int) {
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
}

// Toggle flips the membership of v locally and then calls add or remove on
// the remote. On failure the key is restored to its last confirmed state
// unless a later request for the same key is still queued.
func (s *Store[K, V]) Toggle(ctx context.Context, v V, add func(context.Context, V) error, remove func(context.Context, K) error) *Pending {
	k := s.key(v)

	s.mu.Lock()
	idx := s.indexLocked(k)
	present := idx >= 0
	ks := s.stateLocked(k, present, v, idx)
	if present {
		s.removeLocked(idx)
	} else {
		s.items = append(s.items, v)
	}
	want := !present
	p, prev := s.enqueueLocked(ks)
	s.mu.Unlock()

	s.run(ctx, k, v, want, prev, p, func(ctx context.Context) error {
		if want {
			return add(ctx, v)
		}
		return remove(ctx, k)
	})
	return p
}

// Remove deletes the item with key k locally and then calls remote. On
// failure the item reappears at its original position. Removing an absent
// key settles immediately with no remote call.
func (s *Store[K, V]) Remove(ctx context.Context, k K, remote func(context.Context, K) error) *Pending {
	s.mu.Lock()
	idx := s.indexLocked(k)
	if idx < 0 {
		s.mu.Unlock()
		p := &Pending{done: make(chan struct{})}
		close(p.done)
		return p
	}
	v := s.items[idx]
	ks := s.stateLocked(k, true, v, idx)
	s.removeLocked(idx)
	p, prev := s.enqueueLocked(ks)
	s.mu.Unlock()

	s.run(ctx, k, v, false, prev, p, func(ctx context.Context) error { return remote(ctx, k) })
	return p
}

// stateLocked returns the key's state, creating it from the current local
// membership when nothing is in flight.
func (s *Store[K, V]) stateLocked(k K, present bool, v V, idx int) *keyState[V] {
	ks, ok := s.keys[k]
	if !ok {
		ks = &keyState[V]{confirmed: present, confirmedVal: v, confirmedIdx: idx}
		s.keys[k] = ks
	}
	return ks
}

func (s *Store[K, V]) enqueueLocked(ks *keyState[V]) (*Pending, chan struct{}) {
	ks.pending++
	prev := ks.tail
	p := &Pending{done: make(chan struct{})}
	ks.tail = p.done
	return p, prev
}

func (s *Store[K, V]) run(ctx context.Context, k K, v V, want bool, prev chan struct{}, p *Pending, call func(context.Context) error) {
	p.Present = want
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if prev != nil {
			<-prev
		}
		err := call(ctx)

		s.mu.Lock()
		ks := s.keys[k]
		ks.pending--
		if err == nil {
			ks.confirmed = want
			if want {
				ks.confirmedVal = v
				ks.confirmedIdx = -1
			}
		} else if ks.pending == 0 {
			s.restoreLocked(k, ks)
			p.reverted = true
		}
		if ks.pending == 0 {
			delete(s.keys, k)
		}
		p.err = err
		hook := s.onRevert
		s.mu.Unlock()

		if p.reverted && hook != nil {
			hook(v, want, err)
		}
		close(p.done)
	}()
}

func (s *Store[K, V]) restoreLocked(k K, ks *keyState[V]) {
	idx := s.indexLocked(k)
	switch {
	case ks.confirmed && idx < 0:
		s.insertLocked(ks.confirmedIdx, ks.confirmedVal)
	case !ks.confirmed && idx >= 0:
		s.removeLocked(idx)
	}
}

// Prepend inserts v at the front, replacing any item with the same key.
// Use it for values the remote has already confirmed.
func (s *Store[K, V]) Prepend(v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(s.key(v)); idx >= 0 {
		s.removeLocked(idx)
	}
	s.insertLocked(0, v)
}

// Replace swaps the item with v's key for v in place. It reports false when
// no such item exists.
func (s *Store[K, V]) Replace(v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(s.key(v))
	if idx < 0 {
		return false
	}
	s.items[idx] = v
	return true
}

// Reset replaces the whole collection, typically with a fresh remote listing.
func (s *Store[K, V]) Reset(items []V) {
	s.mu.Lock()
	s.items = append([]V(nil), items...)
	s.mu.Unlock()
}

// Snapshot returns a copy of the items in order.
func (s *Store[K, V]) Snapshot() []V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]V{}, s.items...)
}

// Get returns the item with key k.
func (s *Store[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(k); idx >= 0 {
		return s.items[idx], true
	}
	var zero V
	return zero, false
}

// Contains reports whether k is present locally.
func (s *Store[K, V]) Contains(k K) bool {
	_, ok := s.Get(k)
	return ok
}

// Wait blocks until every queued remote call has settled.
func (s *Store[K, V]) Wait() {
	s.wg.Wait()
}

package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/untangle/pkg/game"
)

// entry is one live game. mu serialises every call on the session.
type entry struct {
	mu       sync.Mutex
	id       string
	session  *game.Session
	lastUsed time.Time
	solves   int
	cancel   func()
}

func newEntry(s *game.Session) *entry {
	e := &entry{id: uuid.NewString(), session: s}
	e.cancel = s.Subscribe(func(ev game.Event) {
		if ev.Kind == game.EventSolved {
			e.solves++
		}
	})
	return e
}

func (e *entry) close() {
	e.cancel()
	e.session.Close()
}

type registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	ttl     time.Duration
	now     func() time.Time
}

func newRegistry(limit int, ttl time.Duration) *registry {
	return &registry{
		entries: make(map[string]*entry),
		max:     limit,
		ttl:     ttl,
		now:     time.Now,
	}
}

// add registers s under a new ID, evicting expired games and then, if
// still full, the least recently used one.
func (r *registry) add(s *game.Session) *entry {
	e := newEntry(s)
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	e.lastUsed = now
	r.sweepLocked(now)
	for len(r.entries) >= r.max {
		r.evictOldestLocked()
	}
	r.entries[e.id] = e
	return e
}

// acquire returns the game with the given ID, locked. The caller must
// call release.
func (r *registry) acquire(id string) (*entry, bool) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		e.lastUsed = r.now()
	}
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	return e, true
}

func (r *registry) release(e *entry) { e.mu.Unlock() }

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok {
		e.mu.Lock()
		e.close()
		e.mu.Unlock()
	}
	return ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// sweep removes games idle for longer than the TTL.
func (r *registry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *registry) sweepEvery(ctx context.Context, interval time.Duration, report func(int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.sweep(); n > 0 {
				report(n)
			}
		}
	}
}

func (r *registry) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range r.entries {
		if now.Sub(e.lastUsed) > r.ttl {
			delete(r.entries, id)
			go r.closeEntry(e)
			n++
		}
	}
	return n
}

func (r *registry) evictOldestLocked() {
	var oldest *entry
	for _, e := range r.entries {
		if oldest == nil || e.lastUsed.Before(oldest.lastUsed) {
			oldest = e
		}
	}
	if oldest != nil {
		delete(r.entries, oldest.id)
		go r.closeEntry(oldest)
	}
}

// closeEntry waits for any in-flight request on e before closing it.
func (r *registry) closeEntry(e *entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.close()
}

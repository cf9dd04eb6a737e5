package schedule

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/glizzus/traytimer/internal/generator"
)

// Registry is the set of pending notifications, keyed by ID.
// It is safe for concurrent use.
type Registry struct {
	ids generator.Generator[uint64]

	mu      sync.RWMutex
	entries map[ID]Notification
	// last is the highest ID handed out so far.
	last ID
}

// NewRegistry returns an empty registry that draws IDs from ids. The
// generator must produce strictly increasing values; Insert rejects any ID
// that is not greater than every ID issued before. A nil generator uses a
// fresh generator.Sequence.
func NewRegistry(ids generator.Generator[uint64]) *Registry {
	if ids == nil {
		ids = &generator.Sequence{}
	}
	return &Registry{
		ids:     ids,
		entries: make(map[ID]Notification),
	}
}

// Insert stores n under a newly assigned ID and returns that ID.
// Any ID already set on n is ignored.
func (r *Registry) Insert(n Notification) (ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.ids.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to generate notification id: %w", err)
	}
	id := ID(next)
	if id <= r.last {
		return 0, fmt.Errorf("notification id %d was not greater than the last issued id %d", id, r.last)
	}
	r.last = id

	n.ID = id
	r.entries[id] = n
	return id, nil
}

// Remove deletes and returns the entry for id.
func (r *Registry) Remove(id ID) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.entries[id]
	if !ok {
		return Notification{}, ErrNotFound
	}
	delete(r.entries, id)
	return n, nil
}

func (r *Registry) Get(id ID) (Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.entries[id]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return n, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot returns a copy of the pending entries, soonest deadline first.
func (r *Registry) Snapshot() []Notification {
	r.mu.RLock()
	out := make([]Notification, 0, len(r.entries))
	for _, n := range r.entries {
		out = append(out, n)
	}
	r.mu.RUnlock()

	sortByDeadline(out)
	return out
}

// Drain removes every entry and returns them, soonest deadline first.
func (r *Registry) Drain() []Notification {
	r.mu.Lock()
	out := make([]Notification, 0, len(r.entries))
	for _, n := range r.entries {
		out = append(out, n)
	}
	clear(r.entries)
	r.mu.Unlock()

	sortByDeadline(out)
	return out
}

func sortByDeadline(ns []Notification) {
	slices.SortFunc(ns, func(a, b Notification) int {
		if c := a.FireAt.Compare(b.FireAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Package blacklist tracks object ids known to be unfetchable so the
// fetch pipeline never wastes network calls on them.
package blacklist

import (
	"sync"
)

// FailureKind classifies why an id was reported dead.
type FailureKind int

const (
	// NotFound means the upstream has no object for the id.
	NotFound FailureKind = iota
	// ServerError means the upstream repeatedly failed serving the id.
	ServerError
)

// Blacklist holds two disjoint id sets: a permanent set seeded at
// construction (fixed, read-only at runtime) and a runtime set populated
// as fetches fail. The runtime set lives only as long as the process.
type Blacklist struct {
	mu        sync.RWMutex
	permanent map[int]struct{}
	runtime   map[int]struct{}
}

// New creates a Blacklist seeded with the permanent id set.
func New(permanent []int) *Blacklist {
	p := make(map[int]struct{}, len(permanent))
	for _, id := range permanent {
		p[id] = struct{}{}
	}
	return &Blacklist{
		permanent: p,
		runtime:   make(map[int]struct{}),
	}
}

// IsBlocked reports whether an id is in either set. Blocked ids are
// skipped with zero network calls.
func (b *Blacklist) IsBlocked(id int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.permanent[id]; ok {
		return true
	}
	_, ok := b.runtime[id]
	return ok
}

// ReportFailure adds an id to the runtime set. Both failure kinds are
// treated the same: the id is skipped for the remainder of the process.
func (b *Blacklist) ReportFailure(id int, _ FailureKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runtime[id] = struct{}{}
}

// Filter returns the subset of ids not present in either set, preserving order.
func (b *Blacklist) Filter(ids []int) []int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := b.permanent[id]; ok {
			continue
		}
		if _, ok := b.runtime[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// RuntimeLen returns the current size of the runtime set.
func (b *Blacklist) RuntimeLen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runtime)
}

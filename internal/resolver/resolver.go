// Package resolver maps identity keys to display names with a
// session-lifetime cache. Older complaint records predate the
// denormalized name fields; the page loader backfills them through
// this resolver so each identity is looked up at most once.
package resolver

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"crms/backend/internal/models"
)

// UserLookup is the single read the resolver needs from storage.
type UserLookup interface {
	GetUserByID(id string) (*models.User, error)
}

// Resolver caches id -> display name for the lifetime of the process.
// Entries are never refreshed: a rename is not observed until restart,
// an accepted staleness tradeoff. Not-found outcomes are cached too
// (as the raw id) so a dangling reference does not trigger a lookup on
// every page. Concurrent first calls for one key are collapsed into a
// single lookup.
type Resolver struct {
	lookup UserLookup

	mu    sync.RWMutex
	cache map[string]string
	group singleflight.Group
}

// New creates a Resolver with a fresh cache. The lookup is injected so
// tests can run against a fake user store.
func New(lookup UserLookup) *Resolver {
	return &Resolver{
		lookup: lookup,
		cache:  make(map[string]string),
	}
}

// Resolve returns the display name for an identity key: the user's
// name, falling back to email, falling back to the key itself when no
// record exists or the lookup fails.
func (r *Resolver) Resolve(id string) string {
	if id == "" {
		return ""
	}

	r.mu.RLock()
	name, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return name
	}

	resolved, _, _ := r.group.Do(id, func() (interface{}, error) {
		name := id
		if user, err := r.lookup.GetUserByID(id); err == nil {
			name = user.DisplayName()
		}
		r.mu.Lock()
		r.cache[id] = name
		r.mu.Unlock()
		return name, nil
	})
	return resolved.(string)
}

// Len reports the number of cached entries.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

package cart

import (
	"context"
	"log"
	"sync"
)

// Registry hands out one Manager per authenticated user, so every request
// for the same user works against the same in-memory view.
type Registry struct {
	mu       sync.Mutex
	store    Store
	managers map[string]*Manager
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store, managers: make(map[string]*Manager)}
}

// ForUser returns the user's manager, creating and loading it on first use.
// A load failure degrades to an empty (or previous) view rather than
// blocking the caller; it is logged, not surfaced.
func (r *Registry) ForUser(ctx context.Context, userID string) (*Manager, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	r.mu.Lock()
	mgr, ok := r.managers[userID]
	if !ok {
		mgr = NewManager(r.store, userID)
		r.managers[userID] = mgr
	}
	r.mu.Unlock()

	if !ok {
		if err := mgr.Load(ctx); err != nil {
			log.Printf("⚠️ Cart load failed for user %s: %v", userID, err)
		}
	}
	return mgr, nil
}

// Evict drops a user's manager, e.g. on sign-out. The next access reloads
// from the store.
func (r *Registry) Evict(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, userID)
}

package cart

import (
	"sync"

	"github.com/trezcool/soko/core"
)

// StorageOpener returns the Storage holding the cart entry for a given owner key.
type StorageOpener func(owner string) Storage

// Registry hands out one Store per owner key, lazily rehydrating each from its
// own storage entry. Within a process each owner's aggregate stays single-instance;
// concurrent processes sharing a storage entry remain last-write-wins.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Store
	open   StorageOpener
	logger core.Logger
}

func NewRegistry(open StorageOpener, logger core.Logger) *Registry {
	return &Registry{
		stores: make(map[string]*Store),
		open:   open,
		logger: logger,
	}
}

// Store returns the owner's Store, constructing it on first access.
func (r *Registry) Store(owner string) *Store {
	r.mu.RLock()
	store, ok := r.stores[owner]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok = r.stores[owner]; ok {
		return store
	}
	store = NewStore(r.open(owner), r.logger)
	r.stores[owner] = store
	return store
}

// Service returns the facade over the owner's Store.
func (r *Registry) Service(owner string) *Service {
	return NewService(r.Store(owner))
}

package cart

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/soko/core"
)

// NowFunc stamps Item.AddedAt at insertion time. Mockable.
var NowFunc = time.Now

// Store is the single authoritative in-memory representation of a cart State,
// with persistence-on-mutation and recompute-on-load.
//
// All operations are total functions over the in-memory state: there are no
// error returns. The only externally observable failure mode is persistence
// silently not sticking, which does not affect in-memory correctness for the
// current session; the storage entry is not the system of record, the backend
// order flow is.
type Store struct {
	mu      sync.RWMutex
	state   State
	storage Storage
	logger  core.Logger
}

// NewStore rehydrates a Store from its storage. Items, coupon code and
// discount are seeded from the persisted state; subtotal and total are always
// recomputed from that seed rather than trusted from the persisted value,
// guarding against stale totals persisted under a previous recompute rule.
func NewStore(storage Storage, logger core.Logger) *Store {
	s := &Store{
		storage: storage,
		logger:  logger,
	}

	state, err := storage.Load()
	if err != nil {
		if errors.Cause(err) != ErrNoState {
			logger.Warn("loading cart state, starting empty", err)
		}
		state = State{}
	}
	if state.Items == nil {
		state.Items = make([]Item, 0)
	}
	state.recompute()
	s.state = state
	return s
}

// persist writes the current state through the storage adapter. Write failures
// are logged and swallowed: the in-memory store remains the source of truth
// for the current session.
func (s *Store) persist() {
	if err := s.storage.Save(s.state); err != nil {
		s.logger.Error("persisting cart state", errors.Wrap(err, "persisting cart state"))
	}
}

// AddItem stamps AddedAt and appends the item, only if no existing item shares
// its CourseID; adding a duplicate is an idempotent no-op.
func (s *Store) AddItem(candidate NewItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.contains(candidate.CourseID) {
		return
	}
	s.state.Items = append(s.state.Items, candidate.item(NowFunc().UTC()))
	s.state.recompute()
	s.persist()
}

// RemoveItem filters out any item with a matching CourseID; a no-op if absent.
func (s *Store) RemoveItem(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.contains(courseID) {
		return
	}
	items := make([]Item, 0, len(s.state.Items)-1)
	for _, item := range s.state.Items {
		if item.CourseID != courseID {
			items = append(items, item)
		}
	}
	s.state.Items = items
	s.state.recompute()
	s.persist()
}

// Clear resets the cart to the empty state. The storage entry continues to
// exist, holding the empty state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{Items: make([]Item, 0)}
	s.state.recompute()
	s.persist()
}

// ApplyCoupon records the coupon code and discount as given; a nil discount
// means "coupon recorded but no amount yet resolved". Validation of the coupon
// is an external collaborator's responsibility: this is a pure local update.
func (s *Store) ApplyCoupon(code string, discount *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CouponCode = code
	if discount != nil {
		d := *discount
		s.state.Discount = &d
	} else {
		s.state.Discount = nil
	}
	s.state.recompute()
	s.persist()
}

// RemoveCoupon clears the coupon code and discount; total falls back to subtotal.
func (s *Store) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CouponCode = ""
	s.state.Discount = nil
	s.state.recompute()
	s.persist()
}

// ItemCount returns the number of items. Pure read.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items)
}

// Contains reports whether any item matches the given CourseID. Pure read.
func (s *Store) Contains(courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.contains(courseID)
}

// State returns a snapshot copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.copy()
}

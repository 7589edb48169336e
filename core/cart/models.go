package cart

import (
	"time"

	"github.com/pkg/errors"
)

// ErrNoState is returned by a Storage when no usable cart state exists under its key.
// Missing entries and entries that fail to parse are indistinguishable on purpose:
// both rehydrate as an empty cart.
var ErrNoState = errors.New("no cart state")

type (
	// Item is one course pending purchase. Display metadata and price are frozen
	// at add-time; they are never resynced with the catalog afterwards.
	Item struct {
		CourseID       string    `json:"courseId"`
		Slug           string    `json:"slug"`
		Title          string    `json:"title"`
		InstructorName string    `json:"instructorName"`
		ImageURL       string    `json:"imageUrl,omitempty"`
		ThumbColor     string    `json:"thumbColor,omitempty"`
		Rating         float64   `json:"rating"`
		RatingCount    int       `json:"ratingCount"`
		Price          float64   `json:"price"`
		PriceLabel     string    `json:"priceLabel"`
		AddedAt        time.Time `json:"addedAt"` // recency sort only, never expiry
	}

	// NewItem contains information needed to add an Item to a cart.
	// AddedAt is stamped by the store at insertion time.
	NewItem struct {
		CourseID       string  `json:"courseId" validate:"required"`
		Slug           string  `json:"slug" validate:"required"`
		Title          string  `json:"title" validate:"required"`
		InstructorName string  `json:"instructorName"`
		ImageURL       string  `json:"imageUrl"`
		ThumbColor     string  `json:"thumbColor"`
		Rating         float64 `json:"rating" validate:"gte=0,lte=5"`
		RatingCount    int     `json:"ratingCount" validate:"gte=0"`
		Price          float64 `json:"price" validate:"gte=0"`
		PriceLabel     string  `json:"priceLabel"`
	}

	// State is the cart aggregate. Subtotal and Total are derived: they are
	// recomputed from Items and Discount on every state transition and at
	// rehydration time, never mutated independently.
	State struct {
		Items      []Item   `json:"items"`
		CouponCode string   `json:"couponCode,omitempty"`
		Discount   *float64 `json:"discount,omitempty"`
		Subtotal   float64  `json:"subtotal"`
		Total      float64  `json:"total"`
	}

	// Storage is any durable key-value persistence for a single cart State.
	Storage interface {
		// Load returns the last persisted State, or ErrNoState if no entry
		// exists or the entry fails to parse.
		Load() (State, error)
		// Save persists the full State, replacing any previous entry.
		Save(state State) error
	}
)

func (ni NewItem) item(addedAt time.Time) Item {
	return Item{
		CourseID:       ni.CourseID,
		Slug:           ni.Slug,
		Title:          ni.Title,
		InstructorName: ni.InstructorName,
		ImageURL:       ni.ImageURL,
		ThumbColor:     ni.ThumbColor,
		Rating:         ni.Rating,
		RatingCount:    ni.RatingCount,
		Price:          ni.Price,
		PriceLabel:     ni.PriceLabel,
		AddedAt:        addedAt,
	}
}

// recompute applies the only pricing rule in the system:
// subtotal = sum(items[].price); total = max(0, subtotal - discount) when a
// discount is present, else total = subtotal.
func (s *State) recompute() {
	var subtotal float64
	for _, item := range s.Items {
		subtotal += item.Price
	}
	s.Subtotal = subtotal

	if s.Discount != nil {
		total := subtotal - *s.Discount
		if total < 0 {
			total = 0
		}
		s.Total = total
	} else {
		s.Total = subtotal
	}
}

func (s State) contains(courseID string) bool {
	for _, item := range s.Items {
		if item.CourseID == courseID {
			return true
		}
	}
	return false
}

// copy returns a deep copy of the State; mutations on the copy do not leak
// back into the store.
func (s State) copy() State {
	cp := s
	cp.Items = make([]Item, len(s.Items))
	copy(cp.Items, s.Items)
	if s.Discount != nil {
		discount := *s.Discount
		cp.Discount = &discount
	}
	return cp
}

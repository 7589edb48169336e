package coupon

import "time"

// Coupon is a flat-amount discount code. Discount is applied flat against the
// cart subtotal, not percentage, not per-item.
type Coupon struct {
	Code      string    `json:"code" db:"code"`
	Discount  float64   `json:"discount" db:"discount"`
	Active    bool      `json:"active" db:"active"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"` // zero value = never expires
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (c Coupon) expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

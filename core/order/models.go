package order

import (
	"context"
	"time"

	"github.com/trezcool/soko/core/cart"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

type (
	// Line is a cart item frozen into an order at checkout time.
	Line struct {
		CourseID       string  `json:"course_id" db:"course_id"`
		Slug           string  `json:"slug" db:"slug"`
		Title          string  `json:"title" db:"title"`
		InstructorName string  `json:"instructor_name" db:"instructor_name"`
		Price          float64 `json:"price" db:"price"`
		PriceLabel     string  `json:"price_label" db:"price_label"`
	}

	Order struct {
		ID         string    `json:"id" db:"id"`
		Owner      string    `json:"owner" db:"owner"`
		Email      string    `json:"email" db:"email"`
		Lines      []Line    `json:"lines"`
		CouponCode string    `json:"coupon_code,omitempty" db:"coupon_code"`
		Discount   *float64  `json:"discount,omitempty" db:"discount"`
		Subtotal   float64   `json:"subtotal" db:"subtotal"`
		Total      float64   `json:"total" db:"total"`
		Status     Status    `json:"status" db:"status"`
		CreatedAt  time.Time `json:"created_at" db:"created_at"`
		UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	}

	// PaymentSession is what the payment provider hands back for a pending
	// order: the client completes payment there, the provider calls back.
	PaymentSession struct {
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}

	// Callback is a payment provider notification for a pending order.
	Callback struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		TransactionStatus string `json:"transaction_status"`
		SignatureKey      string `json:"signature_key"`
	}

	// Gateway is any payment provider that can collect an order's total.
	Gateway interface {
		// CreateSession registers the order with the provider and returns the
		// session the client pays through.
		CreateSession(ctx context.Context, ord Order) (PaymentSession, error)
		// VerifyCallback authenticates a provider callback.
		VerifyCallback(cb Callback) error
	}
)

// freezeLines copies cart items into order lines.
func freezeLines(items []cart.Item) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			CourseID:       item.CourseID,
			Slug:           item.Slug,
			Title:          item.Title,
			InstructorName: item.InstructorName,
			Price:          item.Price,
			PriceLabel:     item.PriceLabel,
		})
	}
	return lines
}

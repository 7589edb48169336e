package order

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/cart"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound  = errors.New("order not found")
	ErrEmptyCart = errors.New("cart is empty")
)

type (
	Repository interface {
		CreateOrder(ord Order) (Order, error)
		GetOrderByID(id string) (Order, error)
		QueryOrdersByOwner(owner string) ([]Order, error)
		UpdateOrderStatus(id string, status Status) (Order, error)
	}

	// Service converts cart snapshots into orders through a payment Gateway.
	// The cart is only cleared once the provider confirms payment.
	Service struct {
		repo    Repository
		gateway Gateway
		carts   *cart.Registry
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, gateway Gateway, carts *cart.Registry, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		carts:   carts,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

// Checkout snapshots the owner's cart into a pending order and opens a payment
// session for it. The cart itself is left untouched until ConfirmPayment.
func (svc *Service) Checkout(ctx context.Context, ident core.Identity) (Order, PaymentSession, error) {
	state := svc.carts.Service(ident.ID).GetCart()
	if len(state.Items) == 0 {
		return Order{}, PaymentSession{}, core.NewValidationError(ErrEmptyCart)
	}

	now := NowFunc().UTC()
	ord := Order{
		ID:         uuid.New().String(),
		Owner:      ident.ID,
		Email:      ident.Email,
		Lines:      freezeLines(state.Items),
		CouponCode: state.CouponCode,
		Discount:   state.Discount,
		Subtotal:   state.Subtotal,
		Total:      state.Total,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	ord, err := svc.repo.CreateOrder(ord)
	if err != nil {
		return Order{}, PaymentSession{}, errors.Wrap(err, "creating order")
	}

	session, err := svc.gateway.CreateSession(ctx, ord)
	if err != nil {
		if _, uerr := svc.repo.UpdateOrderStatus(ord.ID, StatusFailed); uerr != nil {
			svc.logger.Error("marking order failed", uerr)
		}
		return Order{}, PaymentSession{}, errors.Wrap(err, "creating payment session")
	}
	return ord, session, nil
}

// ConfirmPayment processes an authenticated provider callback. On settlement
// the order is marked paid, a confirmation email goes out and the owner's cart
// is cleared; on a terminal failure the order is marked failed and the cart is
// left untouched. Repeated callbacks for a settled order are no-ops.
func (svc *Service) ConfirmPayment(cb Callback) (Order, error) {
	if err := svc.gateway.VerifyCallback(cb); err != nil {
		return Order{}, errors.Wrap(err, "verifying callback")
	}

	ord, err := svc.repo.GetOrderByID(cb.OrderID)
	if err != nil {
		return Order{}, err
	}
	if ord.Status != StatusPending {
		return ord, nil
	}

	switch cb.TransactionStatus {
	case "capture", "settlement":
		if ord, err = svc.repo.UpdateOrderStatus(ord.ID, StatusPaid); err != nil {
			return Order{}, errors.Wrap(err, "marking order paid")
		}
		svc.sendConfirmation(ord)
		svc.carts.Service(ord.Owner).ClearCart()
	case "deny", "cancel", "expire", "failure":
		if ord, err = svc.repo.UpdateOrderStatus(ord.ID, StatusFailed); err != nil {
			return Order{}, errors.Wrap(err, "marking order failed")
		}
	default: // "pending" and friends: wait for the next callback
	}
	return ord, nil
}

func (svc *Service) GetByID(id string) (Order, error) {
	return svc.repo.GetOrderByID(id)
}

func (svc *Service) QueryByOwner(owner string) ([]Order, error) {
	return svc.repo.QueryOrdersByOwner(owner)
}

func (svc *Service) sendConfirmation(ord Order) {
	if ord.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: ord.Email}},
		Subject:      "Your order is confirmed",
		TemplateName: "order_confirmation",
		TemplateData: ord,
	})
}

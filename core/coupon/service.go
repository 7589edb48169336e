package coupon

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/soko/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("coupon not found")
	ErrExpired  = errors.New("coupon has expired")
	ErrInactive = errors.New("coupon is no longer active")
)

type (
	Repository interface {
		CreateCoupon(coupon Coupon) (Coupon, error)
		GetCouponByCode(code string) (Coupon, error)
	}

	// Service resolves coupon codes into discount amounts. It is the real
	// source of a valid discount: the cart store itself records whatever it
	// is handed and never validates.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(cpn Coupon) (Coupon, error) {
	cpn.Code = core.CleanString(cpn.Code, true /* lower */)
	if cpn.CreatedAt.IsZero() {
		cpn.CreatedAt = NowFunc().UTC()
	}
	return svc.repo.CreateCoupon(cpn)
}

// Resolve returns the coupon for a code if it is active and unexpired.
func (svc *Service) Resolve(code string) (Coupon, error) {
	cpn, err := svc.repo.GetCouponByCode(core.CleanString(code, true /* lower */))
	if err != nil {
		return Coupon{}, err
	}
	if !cpn.Active {
		return Coupon{}, ErrInactive
	}
	if cpn.expired(NowFunc().UTC()) {
		return Coupon{}, ErrExpired
	}
	return cpn, nil
}

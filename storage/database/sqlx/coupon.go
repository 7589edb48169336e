package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core/coupon"
)

type couponRepository struct {
	db *sqlx.DB
}

var _ coupon.Repository = (*couponRepository)(nil)

func NewCouponRepository(db *sqlx.DB) coupon.Repository {
	return &couponRepository{db: db}
}

func (repo couponRepository) CreateCoupon(cpn coupon.Coupon) (coupon.Coupon, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO coupon (code, discount, active, expires_at, created_at)
		VALUES (:code, :discount, :active, :expires_at, :created_at)`,
		cpn,
	)
	if err != nil {
		return coupon.Coupon{}, errors.Wrap(err, "inserting coupon")
	}
	return cpn, nil
}

func (repo couponRepository) GetCouponByCode(code string) (coupon.Coupon, error) {
	var cpn coupon.Coupon
	if err := repo.db.Get(&cpn, "SELECT * FROM coupon WHERE code = $1", code); err != nil {
		if err == sql.ErrNoRows {
			return coupon.Coupon{}, coupon.ErrNotFound
		}
		return coupon.Coupon{}, errors.Wrap(err, "getting coupon by code")
	}
	return cpn, nil
}

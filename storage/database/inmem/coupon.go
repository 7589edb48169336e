package inmemdb

import (
	"github.com/trezcool/soko/core/coupon"
)

type couponRepository struct {
	db *couponTable
}

var _ coupon.Repository = (*couponRepository)(nil)

func NewCouponRepository(db *DB) coupon.Repository {
	return &couponRepository{db: db.coupon}
}

func (repo *couponRepository) CreateCoupon(cpn coupon.Coupon) (coupon.Coupon, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[cpn.Code] = &cpn
	return cpn, nil
}

func (repo *couponRepository) GetCouponByCode(code string) (coupon.Coupon, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cpn, ok := repo.db.table[code]; ok {
		return *cpn, nil
	}
	return coupon.Coupon{}, coupon.ErrNotFound
}

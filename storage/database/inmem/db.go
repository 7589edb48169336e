package inmemdb

import (
	"sync"

	"github.com/trezcool/soko/core/coupon"
	"github.com/trezcool/soko/core/course"
	"github.com/trezcool/soko/core/order"
)

type (
	DB struct {
		course *courseTable
		coupon *couponTable
		order  *orderTable
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	couponTable struct {
		sync.RWMutex
		table map[string]*coupon.Coupon
	}

	orderTable struct {
		sync.RWMutex
		table map[string]*order.Order
	}
)

func Open() (*DB, error) {
	db := &DB{
		course: &courseTable{table: make(map[string]*course.Course)},
		coupon: &couponTable{table: make(map[string]*coupon.Coupon)},
		order:  &orderTable{table: make(map[string]*order.Order)},
	}
	return db, nil
}

package inmemdb

import (
	"sort"

	"github.com/trezcool/soko/core/order"
)

type orderRepository struct {
	db *orderTable
}

var _ order.Repository = (*orderRepository)(nil)

func NewOrderRepository(db *DB) order.Repository {
	return &orderRepository{db: db.order}
}

func copyOrder(ord order.Order) order.Order {
	cp := ord
	cp.Lines = make([]order.Line, len(ord.Lines))
	copy(cp.Lines, ord.Lines)
	if ord.Discount != nil {
		d := *ord.Discount
		cp.Discount = &d
	}
	return cp
}

func (repo *orderRepository) CreateOrder(ord order.Order) (order.Order, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cp := copyOrder(ord)
	repo.db.table[ord.ID] = &cp
	return ord, nil
}

func (repo *orderRepository) GetOrderByID(id string) (order.Order, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ord, ok := repo.db.table[id]; ok {
		return copyOrder(*ord), nil
	}
	return order.Order{}, order.ErrNotFound
}

func (repo *orderRepository) QueryOrdersByOwner(owner string) ([]order.Order, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	orders := make([]order.Order, 0)
	for _, ord := range repo.db.table {
		if ord.Owner == owner {
			orders = append(orders, copyOrder(*ord))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (repo *orderRepository) UpdateOrderStatus(id string, status order.Status) (order.Order, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ord, ok := repo.db.table[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	ord.Status = status
	ord.UpdatedAt = order.NowFunc().UTC()
	return copyOrder(*ord), nil
}

package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core/order"
)

type orderRepository struct {
	db *sqlx.DB
}

var _ order.Repository = (*orderRepository)(nil)

func NewOrderRepository(db *sqlx.DB) order.Repository {
	return &orderRepository{db: db}
}

func (repo orderRepository) CreateOrder(ord order.Order) (order.Order, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return order.Order{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.NamedExec(`
		INSERT INTO orders (id, owner, email, coupon_code, discount, subtotal, total, status, created_at, updated_at)
		VALUES (:id, :owner, :email, :coupon_code, :discount, :subtotal, :total, :status, :created_at, :updated_at)`,
		ord,
	)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "inserting order")
	}

	for i, line := range ord.Lines {
		_, err = tx.Exec(`
			INSERT INTO order_line (order_id, position, course_id, slug, title, instructor_name, price, price_label)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ord.ID, i, line.CourseID, line.Slug, line.Title, line.InstructorName, line.Price, line.PriceLabel,
		)
		if err != nil {
			return order.Order{}, errors.Wrap(err, "inserting order line")
		}
	}

	if err = tx.Commit(); err != nil {
		return order.Order{}, errors.Wrap(err, "committing tx")
	}
	return ord, nil
}

func (repo orderRepository) GetOrderByID(id string) (order.Order, error) {
	var ord order.Order
	if err := repo.db.Get(&ord, "SELECT * FROM orders WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, errors.Wrap(err, "getting order by id")
	}

	if err := repo.loadLines(&ord); err != nil {
		return order.Order{}, err
	}
	return ord, nil
}

func (repo orderRepository) QueryOrdersByOwner(owner string) ([]order.Order, error) {
	var orders []order.Order
	err := repo.db.Select(&orders, "SELECT * FROM orders WHERE owner = $1 ORDER BY created_at DESC", owner)
	if err != nil {
		return nil, errors.Wrap(err, "querying orders by owner")
	}
	for i := range orders {
		if err = repo.loadLines(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (repo orderRepository) UpdateOrderStatus(id string, status order.Status) (order.Order, error) {
	res, err := repo.db.Exec(
		"UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "updating order status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.Order{}, order.ErrNotFound
	}
	return repo.GetOrderByID(id)
}

func (repo orderRepository) loadLines(ord *order.Order) error {
	err := repo.db.Select(&ord.Lines,
		"SELECT course_id, slug, title, instructor_name, price, price_label FROM order_line WHERE order_id = $1 ORDER BY position",
		ord.ID,
	)
	return errors.Wrap(err, "loading order lines")
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkomarov/crm/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create сохраняет заказ и связи заказ-товар в одной транзакции:
// либо записаны и заказ, и все связи, либо ничего.
func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total_minor, order_date, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		order.ID, order.CustomerID, order.TotalMinor, order.OrderDate, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, productID := range order.ProductIDs {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_products (order_id, product_id)
			VALUES ($1,$2)
		`, order.ID, productID); err != nil {
			return fmt.Errorf("insert order product: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total_minor, order_date, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.TotalMinor, &order.OrderDate, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	productIDs, err := r.loadProductIDs(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.ProductIDs = productIDs

	return order, nil
}

func (r *orderRepository) List(predicates []domain.FilterPredicate) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	where := orderWhere(predicates)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, total_minor, order_date, created_at
		FROM orders`+where.sql()+`
		ORDER BY order_date ASC, id ASC
	`, where.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.TotalMinor, &order.OrderDate, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		productIDs, err := r.loadProductIDs(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].ProductIDs = productIDs
	}

	return orders, nil
}

func (r *orderRepository) Totals() (int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		count   int
		revenue int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_minor), 0)
		FROM orders
	`).Scan(&count, &revenue)
	if err != nil {
		return 0, 0, fmt.Errorf("query order totals: %w", err)
	}

	return count, revenue, nil
}

func (r *orderRepository) loadProductIDs(ctx context.Context, orderID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id
		FROM order_products
		WHERE order_id = $1
		ORDER BY product_id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order products: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order products: %w", err)
	}

	return ids, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)

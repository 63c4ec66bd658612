package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkomarov/crm/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var phone any
	if customer.Phone != "" {
		phone = customer.Phone
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		customer.ID, customer.Name, customer.Email, phone,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		// Гонку двух конкурентных созданий с одним email разрешает
		// unique-констрейнт базы, не приложение.
		if isUniqueViolation(err) {
			return &domain.DuplicateEmailError{Email: customer.Email}
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, &domain.CustomerNotFoundError{ID: id}
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) EmailExists(email string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE LOWER(email) = LOWER($1))
	`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *customerRepository) List(predicates []domain.FilterPredicate) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	where := customerWhere(predicates)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers`+where.sql()+`
		ORDER BY created_at ASC, id ASC
	`, where.args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) Count() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var (
		customer domain.Customer
		phone    sql.NullString
	)
	if err := row.Scan(
		&customer.ID, &customer.Name, &customer.Email, &phone,
		&customer.CreatedAt, &customer.UpdatedAt,
	); err != nil {
		return domain.Customer{}, err
	}
	customer.Phone = phone.String
	return customer, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.CustomerRepository = (*customerRepository)(nil)

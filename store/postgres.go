package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens a pool against dsn and makes sure the schema exists
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return pool, nil
}

// InitSchema creates the session and order tables
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	sessionsSQL := `
		CREATE TABLE IF NOT EXISTS sessions (
			customer_id TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			version BIGINT NOT NULL DEFAULT 1,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, sessionsSQL); err != nil {
		return err
	}

	ordersSQL := `
		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			status VARCHAR(50) NOT NULL,
			payment_url TEXT NOT NULL DEFAULT '',
			amount NUMERIC(12,2) NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS orders_customer_created_idx
		ON orders (customer_id, created_at DESC);
	`
	if _, err := pool.Exec(ctx, ordersSQL); err != nil {
		return err
	}
	return nil
}

// PostgresSessionStore stores sessions as JSONB rows guarded by a version column
type PostgresSessionStore struct {
	db *pgxpool.Pool
}

func NewPostgresSessionStore(db *pgxpool.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

func (r *PostgresSessionStore) Load(ctx context.Context, customerID string) (*models.Session, error) {
	var (
		data    []byte
		version int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT data, version
		FROM sessions
		WHERE customer_id = $1
	`, customerID).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", customerID, err)
	}
	s.Version = version
	if s.Cart == nil {
		s.Cart = []models.CartLine{}
	}
	return &s, nil
}

func (r *PostgresSessionStore) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	next := session.Version + 1

	stored := *session
	stored.Version = next
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var sql string
	var args []any
	if session.Version == 0 {
		sql = `
			INSERT INTO sessions (customer_id, data, version, updated_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (customer_id) DO NOTHING
		`
		args = []any{session.CustomerID, data, session.UpdatedAt}
	} else {
		sql = `
			UPDATE sessions
			SET data = $2, version = version + 1, updated_at = $3
			WHERE customer_id = $1 AND version = $4
		`
		args = []any{session.CustomerID, data, session.UpdatedAt, session.Version}
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	session.Version = next
	return nil
}

// PostgresOrderStore stores orders with the item list kept as JSONB
type PostgresOrderStore struct {
	db *pgxpool.Pool
}

func NewPostgresOrderStore(db *pgxpool.Pool) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

func (r *PostgresOrderStore) Create(ctx context.Context, order models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, customer_id, status, payment_url, amount, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, order.ID, order.CustomerID, string(order.Status), order.PaymentURL, order.Amount, data, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *PostgresOrderStore) Get(ctx context.Context, orderID string) (models.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT data, status, payment_url, updated_at
		FROM orders
		WHERE id = $1
	`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

func (r *PostgresOrderStore) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, paymentURL string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2,
			payment_url = CASE WHEN $3 = '' THEN payment_url ELSE $3 END,
			updated_at = NOW()
		WHERE id = $1
	`, orderID, string(status), paymentURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresOrderStore) FindRecentOrders(ctx context.Context, customerID string, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx, `
		SELECT data, status, payment_url, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// the status columns are authoritative over the JSONB copy
func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		data       []byte
		status     string
		paymentURL string
		updatedAt  time.Time
	)
	if err := row.Scan(&data, &status, &paymentURL, &updatedAt); err != nil {
		return models.Order{}, err
	}
	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode order: %w", err)
	}
	order.Status = models.OrderStatus(status)
	order.PaymentURL = paymentURL
	order.UpdatedAt = updatedAt
	return order, nil
}

// Package store holds session, order and catalog persistence.
package store

import (
	"context"
	"errors"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrAlreadyExists   = errors.New("already exists")
)

// SessionStore persists one session per customer. Save succeeds only when the
// stored version still equals the session's version, and then increments it.
type SessionStore interface {
	Load(ctx context.Context, customerID string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
}

// OrderStore persists placed orders
type OrderStore interface {
	Create(ctx context.Context, order models.Order) error
	Get(ctx context.Context, orderID string) (models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, paymentURL string) error
	FindRecentOrders(ctx context.Context, customerID string, limit int) ([]models.Order, error)
}

// CatalogSource returns the current menu snapshot
type CatalogSource interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

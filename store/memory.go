package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
)

// MemorySessionStore keeps sessions in process memory
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.Session)}
}

func (m *MemorySessionStore) Load(_ context.Context, customerID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemorySessionStore) Save(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[session.CustomerID]
	switch {
	case !ok && session.Version != 0:
		return ErrVersionConflict
	case ok && current.Version != session.Version:
		return ErrVersionConflict
	}
	session.Version++
	session.UpdatedAt = time.Now()
	m.sessions[session.CustomerID] = session.Clone()
	return nil
}

// MemoryOrderStore keeps orders in process memory
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]models.Order)}
}

func (m *MemoryOrderStore) Create(_ context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[order.ID]; ok {
		return ErrAlreadyExists
	}
	order.Items = append([]models.OrderItem(nil), order.Items...)
	m.orders[order.ID] = order
	return nil
}

func (m *MemoryOrderStore) Get(_ context.Context, orderID string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[orderID]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

func (m *MemoryOrderStore) UpdateStatus(_ context.Context, orderID string, status models.OrderStatus, paymentURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	if paymentURL != "" {
		order.PaymentURL = paymentURL
	}
	order.UpdatedAt = time.Now()
	m.orders[orderID] = order
	return nil
}

func (m *MemoryOrderStore) FindRecentOrders(_ context.Context, customerID string, limit int) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Order
	for _, order := range m.orders {
		if order.CustomerID == customerID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// StaticCatalog serves a fixed snapshot that can be swapped at runtime
type StaticCatalog struct {
	mu   sync.RWMutex
	snap *models.Snapshot
}

func NewStaticCatalog(snap *models.Snapshot) *StaticCatalog {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	return &StaticCatalog{snap: snap}
}

func (c *StaticCatalog) Snapshot(_ context.Context) (*models.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, nil
}

// Replace swaps the served snapshot
func (c *StaticCatalog) Replace(snap *models.Snapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

package activities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/store"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func sampleOrder(id string) models.Order {
	return models.Order{
		ID:            id,
		CustomerID:    "919000000001",
		Amount:        320,
		PaymentMethod: models.PaymentCOD,
		ServiceType:   models.ServicePickup,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Date(2026, 10, 14, 12, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductID: "thali", Kind: models.LineCatalogItem, Name: "Veg Thali", Quantity: 2, Price: 120},
			{ProductID: "dosa", Kind: models.LineCatalogItem, Name: "Masala Dosa", Quantity: 1, Price: 80},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		order         func() models.Order
		existing      bool
		wantErr       bool
		errorContains string
	}{
		{
			name:  "Success - New Order",
			order: func() models.Order { return sampleOrder("ORD-001") },
		},
		{
			name:     "Success - Already Created",
			order:    func() models.Order { return sampleOrder("ORD-002") },
			existing: true,
		},
		{
			name: "Failure - No Items",
			order: func() models.Order {
				o := sampleOrder("ORD-003")
				o.Items = nil
				return o
			},
			wantErr:       true,
			errorContains: "no items",
		},
		{
			name: "Failure - Amount Mismatch",
			order: func() models.Order {
				o := sampleOrder("ORD-004")
				o.Amount = 999
				return o
			},
			wantErr:       true,
			errorContains: "order amount mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testSuite := &testsuite.WorkflowTestSuite{}
			env := testSuite.NewTestActivityEnvironment()

			orders := store.NewMemoryOrderStore()
			order := tt.order()
			if tt.existing {
				require.NoError(t, orders.Create(context.Background(), order))
			}

			act := NewOrderActivities(orders, nil)
			env.RegisterActivity(act.CreateOrder)

			_, err := env.ExecuteActivity(act.CreateOrder, order)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				_, getErr := orders.Get(context.Background(), order.ID)
				assert.ErrorIs(t, getErr, store.ErrNotFound)
				return
			}
			require.NoError(t, err)
			stored, err := orders.Get(context.Background(), order.ID)
			require.NoError(t, err)
			assert.Equal(t, order.Amount, stored.Amount)
		})
	}
}

type brokenOrders struct{ store.OrderStore }

func (brokenOrders) Get(context.Context, string) (models.Order, error) {
	return models.Order{}, errors.New("connection reset")
}

func TestCreateOrderLookupFailureIsRetryable(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()

	act := NewOrderActivities(brokenOrders{store.NewMemoryOrderStore()}, nil)
	env.RegisterActivity(act.CreateOrder)

	_, err := env.ExecuteActivity(act.CreateOrder, sampleOrder("ORD-005"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up order")
}

func TestUpdateOrderStatus(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()

	orders := store.NewMemoryOrderStore()
	require.NoError(t, orders.Create(context.Background(), sampleOrder("ORD-010")))

	act := NewOrderActivities(orders, nil)
	env.RegisterActivity(act.UpdateOrderStatus)

	_, err := env.ExecuteActivity(act.UpdateOrderStatus, "ORD-010", models.OrderStatusAwaitingPayment, "https://pay.example/l/ORD-010")
	require.NoError(t, err)

	stored, err := orders.Get(context.Background(), "ORD-010")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingPayment, stored.Status)
	assert.Equal(t, "https://pay.example/l/ORD-010", stored.PaymentURL)

	_, err = env.ExecuteActivity(act.UpdateOrderStatus, "ORD-MISSING", models.OrderStatusConfirmed, "")
	assert.Error(t, err)
}

func TestNotifyCustomer(t *testing.T) {
	tests := []struct {
		name     string
		notifier *transport.Recorder
		sendErr  error
		wantErr  bool
		wantSent int
	}{
		{name: "Success - Message Sent", notifier: transport.NewRecorder(), wantSent: 1},
		{name: "Success - No Notifier Configured"},
		{name: "Failure - Transport Error", notifier: transport.NewRecorder(), sendErr: errors.New("whatsapp returned status 500"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testSuite := &testsuite.WorkflowTestSuite{}
			env := testSuite.NewTestActivityEnvironment()

			var act *OrderActivities
			if tt.notifier != nil {
				tt.notifier.Err = tt.sendErr
				act = NewOrderActivities(store.NewMemoryOrderStore(), tt.notifier)
			} else {
				act = NewOrderActivities(store.NewMemoryOrderStore(), nil)
			}
			env.RegisterActivity(act.NotifyCustomer)

			_, err := env.ExecuteActivity(act.NotifyCustomer, sampleOrder("ORD-020"), "Your order is confirmed")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.notifier != nil {
				msgs := tt.notifier.Messages()
				require.Len(t, msgs, tt.wantSent)
				assert.Equal(t, "919000000001", msgs[0].To)
				assert.Equal(t, "Your order is confirmed", msgs[0].Body)
			}
		})
	}
}

func TestRollbackOrder(t *testing.T) {
	tests := []struct {
		name   string
		stored bool
	}{
		{name: "Success - Order Cancelled", stored: true},
		{name: "Success - Order Never Created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testSuite := &testsuite.WorkflowTestSuite{}
			env := testSuite.NewTestActivityEnvironment()

			orders := store.NewMemoryOrderStore()
			order := sampleOrder("ORD-030")
			if tt.stored {
				require.NoError(t, orders.Create(context.Background(), order))
			}

			act := NewOrderActivities(orders, nil)
			env.RegisterActivity(act.RollbackOrder)

			_, err := env.ExecuteActivity(act.RollbackOrder, order)
			require.NoError(t, err)

			if tt.stored {
				stored, err := orders.Get(context.Background(), order.ID)
				require.NoError(t, err)
				assert.Equal(t, models.OrderStatusCancelled, stored.Status)
			}
		})
	}
}

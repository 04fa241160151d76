package activities

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/store"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// OrderRepository is the order persistence used by the activities
type OrderRepository interface {
	Create(ctx context.Context, order models.Order) error
	Get(ctx context.Context, orderID string) (models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, paymentURL string) error
}

// Notifier delivers a plain text message to a customer
type Notifier interface {
	SendText(ctx context.Context, to, text string) error
}

// OrderActivities contains the order placement activities
type OrderActivities struct {
	orders   OrderRepository
	notifier Notifier
}

// NewOrderActivities creates a new OrderActivities instance. notifier may be nil.
func NewOrderActivities(orders OrderRepository, notifier Notifier) *OrderActivities {
	return &OrderActivities{orders: orders, notifier: notifier}
}

// CreateOrder validates and stores an order. Re-running it for an order that
// already exists is a no-op.
func (a *OrderActivities) CreateOrder(ctx context.Context, order models.Order) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating order", "order_id", order.ID, "amount", order.Amount)

	if len(order.Items) == 0 {
		return temporal.NewNonRetryableApplicationError("order has no items", "InvalidOrder", nil)
	}
	if calculated := order.Total(); math.Abs(calculated-order.Amount) > 0.005 {
		return temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("order amount mismatch: expected %.2f, got %.2f", calculated, order.Amount),
			"InvalidOrder", nil)
	}

	if _, err := a.orders.Get(ctx, order.ID); err == nil {
		logger.Info("Order already exists", "order_id", order.ID)
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up order: %w", err)
	}

	if err := a.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	logger.Info("Order created", "order_id", order.ID)
	return nil
}

// UpdateOrderStatus records the outcome of placement on the stored order
func (a *OrderActivities) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, paymentURL string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Updating order status", "order_id", orderID, "status", status)

	if err := a.orders.UpdateStatus(ctx, orderID, status, paymentURL); err != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, err)
	}
	return nil
}

// NotifyCustomer sends a notification to the customer
func (a *OrderActivities) NotifyCustomer(ctx context.Context, order models.Order, message string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Notifying customer", "order_id", order.ID, "message", message)

	if a.notifier == nil {
		return nil
	}
	if err := a.notifier.SendText(ctx, order.CustomerID, message); err != nil {
		return fmt.Errorf("failed to notify customer: %w", err)
	}

	logger.Info("Customer notified successfully", "order_id", order.ID)
	return nil
}

// RollbackOrder marks a partially placed order as cancelled
func (a *OrderActivities) RollbackOrder(ctx context.Context, order models.Order) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Rolling back order", "order_id", order.ID)

	err := a.orders.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, "")
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to roll back order: %w", err)
	}

	logger.Info("Order rolled back successfully", "order_id", order.ID)
	return nil
}

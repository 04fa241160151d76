package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/workflows"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

// OrderWriter persists orders
type OrderWriter interface {
	Create(ctx context.Context, order models.Order) error
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, paymentURL string) error
}

// PaymentLinker requests a UPI payment link for an order
type PaymentLinker interface {
	CreateLink(ctx context.Context, req models.PaymentLinkRequest) (models.PaymentLinkResponse, error)
}

// DirectPlacer writes the order and requests the payment link in-process
type DirectPlacer struct {
	orders   OrderWriter
	payments PaymentLinker
	logger   *zap.Logger
}

// NewDirectPlacer creates a placer that does not need a Temporal cluster
func NewDirectPlacer(orders OrderWriter, payments PaymentLinker) *DirectPlacer {
	return &DirectPlacer{orders: orders, payments: payments, logger: zap.NewNop()}
}

// WithLogger sets the logger used for failures that do not abort placement
func (p *DirectPlacer) WithLogger(l *zap.Logger) *DirectPlacer {
	if l != nil {
		p.logger = l
	}
	return p
}

// Place creates the order and, for UPI, attaches a payment link
func (p *DirectPlacer) Place(ctx context.Context, order models.Order) (models.PlacementResult, error) {
	if err := p.orders.Create(ctx, order); err != nil {
		return models.PlacementResult{}, fmt.Errorf("failed to create order: %w", err)
	}

	if order.PaymentMethod != models.PaymentUPI {
		if err := p.orders.UpdateStatus(ctx, order.ID, models.OrderStatusConfirmed, ""); err != nil {
			return models.PlacementResult{}, fmt.Errorf("failed to confirm order: %w", err)
		}
		return models.PlacementResult{OrderID: order.ID, Status: models.OrderStatusConfirmed}, nil
	}

	link, err := p.payments.CreateLink(ctx, models.PaymentLinkRequest{
		OrderID:    order.ID,
		Amount:     order.Amount,
		CustomerID: order.CustomerID,
	})
	if err != nil {
		if uerr := p.orders.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, ""); uerr != nil {
			p.logger.Error("failed to cancel order after payment link failure",
				zap.String("order_id", order.ID),
				zap.Error(uerr))
		}
		return models.PlacementResult{}, fmt.Errorf("failed to create payment link: %w", err)
	}
	if err := p.orders.UpdateStatus(ctx, order.ID, models.OrderStatusAwaitingPayment, link.URL); err != nil {
		return models.PlacementResult{}, fmt.Errorf("failed to record payment link: %w", err)
	}
	return models.PlacementResult{
		OrderID:    order.ID,
		Status:     models.OrderStatusAwaitingPayment,
		PaymentURL: link.URL,
	}, nil
}

// TemporalPlacer runs PlaceOrderWorkflow and waits for its result
type TemporalPlacer struct {
	client    client.Client
	taskQueue string
	timeout   time.Duration
}

// NewTemporalPlacer creates a placer backed by a Temporal client
func NewTemporalPlacer(c client.Client, taskQueue string, timeout time.Duration) *TemporalPlacer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TemporalPlacer{client: c, taskQueue: taskQueue, timeout: timeout}
}

// Place starts the placement workflow keyed by order id. An attempt that reuses
// the id of an earlier placement collects that workflow's result instead of
// starting another one.
func (p *TemporalPlacer) Place(ctx context.Context, order models.Order) (models.PlacementResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	options := client.StartWorkflowOptions{
		ID:                    workflows.PlacementWorkflowID(order.ID),
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := p.client.ExecuteWorkflow(ctx, options, workflows.PlaceOrderWorkflow, order)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &started) {
			return models.PlacementResult{}, fmt.Errorf("unable to execute placement workflow: %w", err)
		}
		run = p.client.GetWorkflow(ctx, options.ID, "")
	}

	var result models.PlacementResult
	if err := run.Get(ctx, &result); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return models.PlacementResult{}, fmt.Errorf("%w: workflow %s: %v", ErrOutcomeUnknown, run.GetID(), err)
		}
		return models.PlacementResult{}, fmt.Errorf("placement workflow %s failed: %w", run.GetID(), err)
	}
	return result, nil
}

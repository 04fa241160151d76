package workflows

import (
	"fmt"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/activities"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	SignalCancel = "cancel"
	QueryState   = "state"
)

// PlacementWorkflowID is the workflow id used for an order's placement
func PlacementWorkflowID(orderID string) string {
	return fmt.Sprintf("place-order-%s", orderID)
}

// PlaceOrderWorkflow persists a confirmed checkout and, for UPI orders,
// obtains a payment link through PaymentLinkWorkflow
func PlaceOrderWorkflow(ctx workflow.Context, order models.Order) (models.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PlaceOrderWorkflow started", "order_id", order.ID, "payment", order.PaymentMethod)

	state := models.PlacementState{
		OrderID:     order.ID,
		Status:      models.OrderStatusPending,
		LastUpdated: workflow.Now(ctx),
	}

	err := workflow.SetQueryHandler(ctx, QueryState, func() (models.PlacementState, error) {
		return state, nil
	})
	if err != nil {
		return models.PlacementResult{}, fmt.Errorf("failed to set query handler: %w", err)
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	})

	var act *activities.OrderActivities

	cancelled := false
	cancelChan := workflow.GetSignalChannel(ctx, SignalCancel)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		var reason string
		cancelChan.Receive(gCtx, &reason)
		cancelled = true
		state.Cancelled = true
		state.LastUpdated = workflow.Now(gCtx)
		logger.Info("Placement cancelled via signal", "order_id", order.ID, "reason", reason)
	})

	fail := func(message string, cause error) (models.PlacementResult, error) {
		state.Status = models.OrderStatusFailed
		state.LastUpdated = workflow.Now(ctx)
		if state.OrderCreated {
			rollbackCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
				StartToCloseTimeout: 10 * time.Second,
			})
			_ = workflow.ExecuteActivity(rollbackCtx, act.RollbackOrder, order).Get(ctx, nil)
			state.Status = models.OrderStatusCancelled
		}
		_ = workflow.ExecuteActivity(ctx, act.NotifyCustomer, order, message).Get(ctx, nil)
		return models.PlacementResult{}, cause
	}

	if err := workflow.ExecuteActivity(ctx, act.CreateOrder, order).Get(ctx, nil); err != nil {
		logger.Error("Order creation failed", "order_id", order.ID, "error", err)
		state.Status = models.OrderStatusFailed
		state.LastUpdated = workflow.Now(ctx)
		return models.PlacementResult{}, fmt.Errorf("create order failed: %w", err)
	}
	state.OrderCreated = true
	state.LastUpdated = workflow.Now(ctx)

	if cancelled {
		logger.Info("Placement cancelled after order creation", "order_id", order.ID)
		return fail(fmt.Sprintf("Your order %s was cancelled.", ShortID(order.ID)), fmt.Errorf("order cancelled"))
	}

	result := models.PlacementResult{OrderID: order.ID, Status: models.OrderStatusConfirmed}

	if order.PaymentMethod == models.PaymentUPI {
		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID:               fmt.Sprintf("payment-link-%s", order.ID),
			WorkflowExecutionTimeout: 2 * time.Minute,
		})
		var url string
		if err := workflow.ExecuteChildWorkflow(childCtx, PaymentLinkWorkflow, order).Get(ctx, &url); err != nil {
			logger.Error("Payment link failed", "order_id", order.ID, "error", err)
			return fail("We could not create a payment link for your order. Please try again.",
				fmt.Errorf("payment link failed: %w", err))
		}
		state.LinkCreated = true
		result.Status = models.OrderStatusAwaitingPayment
		result.PaymentURL = url
	}

	if cancelled {
		logger.Info("Placement cancelled after payment link", "order_id", order.ID)
		return fail(fmt.Sprintf("Your order %s was cancelled.", ShortID(order.ID)), fmt.Errorf("order cancelled"))
	}

	err = workflow.ExecuteActivity(ctx, act.UpdateOrderStatus, order.ID, result.Status, result.PaymentURL).Get(ctx, nil)
	if err != nil {
		logger.Error("Order status update failed", "order_id", order.ID, "error", err)
		return fail("Something went wrong while placing your order. Please try again.",
			fmt.Errorf("update status failed: %w", err))
	}

	state.Status = result.Status
	state.LastUpdated = workflow.Now(ctx)
	logger.Info("PlaceOrderWorkflow completed", "order_id", order.ID, "status", result.Status)
	return result, nil
}

// ShortID is the customer-facing order reference
func ShortID(orderID string) string {
	if len(orderID) > 8 {
		return orderID[:8]
	}
	return orderID
}

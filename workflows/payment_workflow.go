package workflows

import (
	"fmt"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/activities"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PaymentLinkWorkflow is a child workflow that obtains a UPI payment link for an order
func PaymentLinkWorkflow(ctx workflow.Context, order models.Order) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PaymentLinkWorkflow started", "order_id", order.ID, "amount", order.Amount)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 20 * time.Second,
		HeartbeatTimeout:    5 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	})

	var paymentAct *activities.PaymentActivities

	req := models.PaymentLinkRequest{
		OrderID:    order.ID,
		Amount:     order.Amount,
		CustomerID: order.CustomerID,
	}
	var resp models.PaymentLinkResponse
	if err := workflow.ExecuteActivity(ctx, paymentAct.CreatePaymentLink, req).Get(ctx, &resp); err != nil {
		logger.Error("Payment link request failed", "order_id", order.ID, "error", err)
		return "", fmt.Errorf("payment link request failed: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("payment gateway returned no link for order %s", order.ID)
	}

	logger.Info("Payment link created", "order_id", order.ID)
	return resp.URL, nil
}

package engine

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/store"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/workflows"

	"go.uber.org/zap"
)

func (e *Engine) recentOrders(t *turn) ([]models.Order, bool) {
	orders, err := e.orders.FindRecentOrders(t.ctx, t.session.CustomerID, recentOrderMax)
	if err != nil {
		e.logger.Error("failed to load orders", zap.String("customer", t.session.CustomerID), zap.Error(err))
		t.fail(models.FailureCollaborator)
		t.out = append(t.out, tryAgainReply())
		return nil, false
	}
	return orders, true
}

func (e *Engine) showOrders(t *turn) models.Step {
	orders, ok := e.recentOrders(t)
	if !ok {
		return models.StepMainMenu
	}
	if len(orders) == 0 {
		t.sendButtons("You haven't placed any orders yet.", btnMenu, btnCart, btnHome)
		return models.StepMainMenu
	}
	rows := make([]transport.Row, 0, len(orders))
	for i, o := range orders {
		rows = append(rows, transport.Row{
			ID:          prefixTrack + o.ID,
			Title:       fmt.Sprintf("%d. #%s", i+1, workflows.ShortID(o.ID)),
			Description: fmt.Sprintf("%s · %s · %s", orderStatusLabel(o.Status), formatPrice(o.Amount), o.CreatedAt.In(e.resolver.Location()).Format("02 Jan 15:04")),
		})
	}
	t.sendList("📦 Your recent orders. Pick one to see its details.", "My Orders",
		transport.Section{Title: "Recent orders", Rows: rows})
	return models.StepViewingOrders
}

func (e *Engine) selectTrack(t *turn, orderID string) models.Step {
	order, err := e.orders.Get(t.ctx, orderID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		t.fail(models.FailureStaleSelection)
		return e.showOrders(t)
	case err != nil:
		e.logger.Error("failed to load order", zap.String("order_id", orderID), zap.Error(err))
		t.fail(models.FailureCollaborator)
		t.out = append(t.out, tryAgainReply())
		return models.StepMainMenu
	}
	if order.CustomerID != t.session.CustomerID {
		t.fail(models.FailureStaleSelection)
		return e.showOrders(t)
	}
	t.sendText(orderDetails(order))
	t.sendButtons("Anything else?", btnOrders, btnMenu, btnHome)
	return models.StepTrackingOrder
}

func (e *Engine) trackLatest(t *turn) models.Step {
	if id := t.state().PendingOrderID; id != "" {
		return e.selectTrack(t, id)
	}
	return e.showOrders(t)
}

func (e *Engine) textPickOrder(t *turn) (models.Step, bool) {
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return "", false
	}
	orders, ok := e.recentOrders(t)
	if !ok {
		return models.StepMainMenu, true
	}
	if n < 1 || n > len(orders) {
		return e.showOrders(t), true
	}
	return e.selectTrack(t, orders[n-1].ID), true
}

// explainCancel answers cancel and refund requests; status changes belong to
// the restaurant's order desk
func (e *Engine) explainCancel(t *turn, action string) models.Step {
	body := fmt.Sprintf("To %s an order, please call the restaurant and mention your order number.", action)
	if id := t.state().PendingOrderID; id != "" {
		body = fmt.Sprintf("To %s order #%s, please call the restaurant and mention this order number.", action, workflows.ShortID(id))
	}
	t.sendButtons(body, btnOrders, btnMenu, btnHome)
	return models.StepMainMenu
}

package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/cart"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/checkout"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/transport"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/workflows"
)

var (
	btnPickup   = transport.Button{ID: prefixService + "pickup", Title: "🏃 Pickup"}
	btnDelivery = transport.Button{ID: prefixService + "delivery", Title: "🛵 Delivery"}
	btnUPI      = transport.Button{ID: prefixPay + "upi", Title: "📱 UPI"}
	btnCOD      = transport.Button{ID: prefixPay + "cod", Title: "💵 Cash"}
)

func (e *Engine) beginCheckout(t *turn) models.Step {
	out, err := e.checkout.Begin(t.session)
	if err != nil {
		return e.checkoutFailed(t, out, err)
	}
	body := cartSummary(cart.Resolve(t.session.Cart, t.snap)) + "\n\nHow would you like to get your order?"
	t.sendButtons(body, btnPickup, btnDelivery, btnCart)
	return out.Step
}

func serviceFromText(s string) (models.ServiceType, bool) {
	switch s {
	case "pickup", "pick up", "takeaway", "take away", "parcel", "self pickup", "collect":
		return models.ServicePickup, true
	case "delivery", "deliver", "home delivery", "door delivery":
		return models.ServiceDelivery, true
	}
	return "", false
}

func paymentFromText(s string) (models.PaymentMethod, bool) {
	switch s {
	case "upi", "gpay", "google pay", "phonepe", "paytm", "online", "pay online":
		return models.PaymentUPI, true
	case "cod", "cash", "cash on delivery", "cash on pickup", "pay cash":
		return models.PaymentCOD, true
	}
	return "", false
}

func (e *Engine) selectService(t *turn, arg string) models.Step {
	svc, ok := serviceFromText(arg)
	if !ok {
		t.fail(models.FailureStaleSelection)
		return e.beginCheckout(t)
	}
	out, err := e.checkout.ChooseService(t.session, t.snap, svc)
	return e.checkoutNext(t, out, err)
}

func (e *Engine) textServiceType(t *turn) (models.Step, bool) {
	if _, ok := serviceFromText(t.text); !ok {
		return "", false
	}
	return e.selectService(t, t.text), true
}

func (e *Engine) selectPayment(t *turn, arg string) models.Step {
	method, ok := paymentFromText(arg)
	if !ok {
		t.fail(models.FailureStaleSelection)
		return e.promptPayment(t)
	}
	out, err := e.checkout.ChoosePayment(t.ctx, t.session, t.snap, method)
	if out.Placement != nil {
		t.placed = true
	}
	return e.checkoutNext(t, out, err)
}

func (e *Engine) textPaymentMethod(t *turn) (models.Step, bool) {
	if _, ok := paymentFromText(t.text); !ok {
		return "", false
	}
	return e.selectPayment(t, t.text), true
}

func (e *Engine) onLocation(t *turn, loc models.Location) models.Step {
	waiting := t.step() == models.StepAwaitingLocation
	out, err := e.checkout.SetAddress(t.session, t.snap, loc)
	if !waiting {
		t.sendButtons("📍 Got it, your delivery address is saved.", btnMenu, btnCart, btnHome)
		if !out.Step.Valid() || out.Step == models.StepWelcome {
			return models.StepMainMenu
		}
		return out.Step
	}
	return e.checkoutNext(t, out, err)
}

// textAddress takes a typed address while waiting for a location
func (e *Engine) textAddress(t *turn) (models.Step, bool) {
	raw := strings.TrimSpace(t.event.Text)
	if len(strings.Fields(raw)) < 2 || e.classifier.Classify(t.text) != "" {
		return "", false
	}
	return e.onLocation(t, models.Location{Address: raw}), true
}

func (e *Engine) promptPayment(t *turn) models.Step {
	total := cart.Total(cart.Resolve(t.session.Cart, t.snap))
	t.sendButtons(fmt.Sprintf("Total: *%s*\nHow would you like to pay?", formatPrice(total)), btnUPI, btnCOD, btnCart)
	return models.StepSelectPaymentMethod
}

// checkoutNext renders the step the orchestrator moved to
func (e *Engine) checkoutNext(t *turn, out checkout.Outcome, err error) models.Step {
	if err != nil {
		return e.checkoutFailed(t, out, err)
	}
	switch out.Step {
	case models.StepAwaitingLocation:
		t.requestLocation("📍 Please share your delivery location, or type your full address.")
		return out.Step
	case models.StepSelectPaymentMethod:
		return e.promptPayment(t)
	case models.StepAwaitingPayment, models.StepOrderConfirmed:
		return e.confirmOrder(t, out)
	}
	return out.Step
}

func (e *Engine) confirmOrder(t *turn, out checkout.Outcome) models.Step {
	if out.Order == nil || out.Placement == nil {
		return out.Step
	}
	order := *out.Order
	order.ID = out.Placement.OrderID
	order.Status = out.Placement.Status
	order.PaymentURL = out.Placement.PaymentURL

	if out.Step == models.StepAwaitingPayment {
		t.sendText(orderDetails(order))
		t.sendButtons("💳 Please complete the payment using the link above. We'll start preparing once it's paid.",
			btnOrders, btnMenu, btnHome)
		return out.Step
	}
	t.sendText(orderDetails(order))
	t.sendButtons(fmt.Sprintf("✅ Thank you! Your order #%s is placed.", workflows.ShortID(order.ID)),
		btnOrders, btnMenu, btnHome)
	return out.Step
}

func (e *Engine) checkoutFailed(t *turn, out checkout.Outcome, err error) models.Step {
	var unavailable *checkout.UnavailableError
	switch {
	case errors.As(err, &unavailable):
		t.fail(models.FailureUnavailableAtCheckout)
		t.sendButtons(unavailableMessage(unavailable.Lines), btnCart, btnClear, btnMenu)
		return models.StepViewingCart
	case errors.Is(err, checkout.ErrEmptyCart):
		t.sendButtons("🛒 Your cart is empty. Add something first!", btnMenu, btnOrders, btnHome)
		return models.StepViewingCart
	case errors.Is(err, checkout.ErrNoServiceType):
		t.sendButtons("How would you like to get your order?", btnPickup, btnDelivery, btnCart)
		return models.StepSelectServiceType
	case errors.Is(err, checkout.ErrNoDeliveryAddress):
		t.requestLocation("📍 Please share your delivery location first.")
		return models.StepAwaitingLocation
	case errors.Is(err, checkout.ErrOutcomeUnknown):
		t.fail(models.FailureCollaborator)
		t.sendButtons("We're still confirming your order. Tap your payment option again in a moment to check on it.",
			btnUPI, btnCOD, btnCart)
		return models.StepSelectPaymentMethod
	case errors.Is(err, checkout.ErrPlacementFailed):
		t.fail(models.FailureCollaborator)
		t.sendButtons("Sorry, we couldn't place your order just now. Your cart is safe, please try again.",
			btnUPI, btnCOD, btnCart)
		return models.StepSelectPaymentMethod
	}
	t.fail(models.FailureCollaborator)
	t.out = append(t.out, tryAgainReply())
	if out.Step.Valid() {
		return out.Step
	}
	return models.StepViewingCart
}

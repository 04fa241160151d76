// Package checkout sequences service type, address, payment method and order
// creation, re-validating cart availability before payment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/availability"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/cart"
	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoServiceType     = errors.New("service type not chosen")
	ErrNoDeliveryAddress = errors.New("delivery address missing")
	ErrUnknownPayment    = errors.New("unknown payment method")
	ErrPlacementFailed   = errors.New("order placement failed")
	ErrNothingOrderable  = errors.New("no orderable lines")
	// ErrOutcomeUnknown means placement was started but its result did not
	// arrive in time; the order id is kept so the next attempt collects it
	ErrOutcomeUnknown = errors.New("placement outcome unknown")
)

// UnavailableError carries the cart lines that failed the availability gate
type UnavailableError struct {
	Lines []availability.LineVerdict
}

func (e *UnavailableError) Error() string {
	names := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		names = append(names, l.Name)
	}
	return fmt.Sprintf("unavailable at checkout: %s", strings.Join(names, ", "))
}

// ScheduleRelated reports whether every failure is a time-window failure
func (e *UnavailableError) ScheduleRelated() bool {
	for _, l := range e.Lines {
		if !l.Verdict.Reason.ScheduleRelated() {
			return false
		}
	}
	return len(e.Lines) > 0
}

// OrderPlacer persists an order and, for UPI, obtains a payment link
type OrderPlacer interface {
	Place(ctx context.Context, order models.Order) (models.PlacementResult, error)
}

// Outcome is the result of one checkout step
type Outcome struct {
	Step      models.Step
	Order     *models.Order
	Placement *models.PlacementResult
}

// Orchestrator drives checkout for one session at a time; it holds no per-customer state
type Orchestrator struct {
	resolver *availability.Resolver
	placer   OrderPlacer
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(resolver *availability.Resolver, placer OrderPlacer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{resolver: resolver, placer: placer, logger: logger, now: time.Now}
}

// WithClock overrides the time source
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Begin moves a non-empty cart to service type selection
func (o *Orchestrator) Begin(s *models.Session) (Outcome, error) {
	if len(s.Cart) == 0 {
		s.ConversationState.CurrentStep = models.StepViewingCart
		return Outcome{Step: models.StepViewingCart}, ErrEmptyCart
	}
	s.ConversationState.ServiceType = ""
	s.ConversationState.PaymentMethod = ""
	s.ConversationState.DraftOrderID = ""
	s.ConversationState.CurrentStep = models.StepSelectServiceType
	return Outcome{Step: models.StepSelectServiceType}, nil
}

// ChooseService records pickup or delivery. Delivery without a known address
// waits for a location; otherwise the cart is gated and payment is offered.
func (o *Orchestrator) ChooseService(s *models.Session, snap *models.Snapshot, svc models.ServiceType) (Outcome, error) {
	if len(s.Cart) == 0 {
		s.ConversationState.CurrentStep = models.StepViewingCart
		return Outcome{Step: models.StepViewingCart}, ErrEmptyCart
	}
	s.ConversationState.ServiceType = svc
	if svc == models.ServiceDelivery && s.DeliveryAddress == nil {
		s.ConversationState.CurrentStep = models.StepAwaitingLocation
		return Outcome{Step: models.StepAwaitingLocation}, nil
	}
	return o.toPayment(s, snap)
}

// SetAddress stores a delivery address and continues checkout if it was waiting for one
func (o *Orchestrator) SetAddress(s *models.Session, snap *models.Snapshot, loc models.Location) (Outcome, error) {
	s.DeliveryAddress = &loc
	if s.ConversationState.CurrentStep != models.StepAwaitingLocation {
		return Outcome{Step: s.ConversationState.CurrentStep}, nil
	}
	return o.toPayment(s, snap)
}

func (o *Orchestrator) toPayment(s *models.Session, snap *models.Snapshot) (Outcome, error) {
	if err := o.Gate(s, snap); err != nil {
		s.ConversationState.CurrentStep = models.StepViewingCart
		return Outcome{Step: models.StepViewingCart}, err
	}
	s.ConversationState.CurrentStep = models.StepSelectPaymentMethod
	return Outcome{Step: models.StepSelectPaymentMethod}, nil
}

// Gate re-checks every cart line against the current snapshot
func (o *Orchestrator) Gate(s *models.Session, snap *models.Snapshot) error {
	if len(s.Cart) == 0 {
		return ErrEmptyCart
	}
	bad := availability.Unavailable(o.resolver.Cart(s.Cart, snap, o.now()))
	if len(bad) > 0 {
		return &UnavailableError{Lines: bad}
	}
	return nil
}

// ChoosePayment gates the cart again, prices it from the current snapshot and
// places the order. On success the cart is cleared and the pending order recorded.
func (o *Orchestrator) ChoosePayment(ctx context.Context, s *models.Session, snap *models.Snapshot, method models.PaymentMethod) (Outcome, error) {
	if method != models.PaymentUPI && method != models.PaymentCOD {
		return Outcome{Step: s.ConversationState.CurrentStep}, ErrUnknownPayment
	}
	state := &s.ConversationState
	if state.ServiceType == "" {
		state.CurrentStep = models.StepSelectServiceType
		return Outcome{Step: models.StepSelectServiceType}, ErrNoServiceType
	}
	if state.ServiceType == models.ServiceDelivery && s.DeliveryAddress == nil {
		state.CurrentStep = models.StepAwaitingLocation
		return Outcome{Step: models.StepAwaitingLocation}, ErrNoDeliveryAddress
	}
	if err := o.Gate(s, snap); err != nil {
		state.CurrentStep = models.StepViewingCart
		return Outcome{Step: models.StepViewingCart}, err
	}

	state.PaymentMethod = method
	order, err := o.BuildOrder(s, snap)
	if err != nil {
		state.CurrentStep = models.StepViewingCart
		return Outcome{Step: models.StepViewingCart}, err
	}

	placement, err := o.placer.Place(ctx, order)
	if err != nil {
		o.logger.Error("order placement failed",
			zap.String("customer", s.CustomerID),
			zap.String("order_id", order.ID),
			zap.Error(err))
		state.DraftOrderID = ""
		if errors.Is(err, ErrOutcomeUnknown) {
			state.DraftOrderID = order.ID
		}
		state.CurrentStep = models.StepSelectPaymentMethod
		return Outcome{Step: models.StepSelectPaymentMethod, Order: &order}, fmt.Errorf("%w: %w", ErrPlacementFailed, err)
	}

	s.Cart = cart.Clear()
	state.PendingOrderID = placement.OrderID
	state.DraftOrderID = ""
	state.ClearSelection()
	next := models.StepOrderConfirmed
	if method == models.PaymentUPI && placement.Status == models.OrderStatusAwaitingPayment {
		next = models.StepAwaitingPayment
	}
	state.CurrentStep = next

	o.logger.Info("order placed",
		zap.String("customer", s.CustomerID),
		zap.String("order_id", placement.OrderID),
		zap.Float64("amount", order.Amount),
		zap.String("payment", string(method)))
	return Outcome{Step: next, Order: &order, Placement: &placement}, nil
}

// BuildOrder snapshots the cart into an order priced from the current catalog.
// A draft id left by an unanswered placement is reused.
func (o *Orchestrator) BuildOrder(s *models.Session, snap *models.Snapshot) (models.Order, error) {
	now := o.now()
	id := s.ConversationState.DraftOrderID
	if id == "" {
		id = uuid.NewString()
	}
	order := models.Order{
		ID:            id,
		CustomerID:    s.CustomerID,
		CustomerName:  s.Name,
		ServiceType:   s.ConversationState.ServiceType,
		PaymentMethod: s.ConversationState.PaymentMethod,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if s.ConversationState.ServiceType == models.ServiceDelivery && s.DeliveryAddress != nil {
		addr := *s.DeliveryAddress
		order.DeliveryAddress = &addr
	}
	for _, line := range s.Cart {
		switch line.Kind {
		case models.LineCatalogItem:
			item, ok := snap.Item(line.ItemID)
			if !ok {
				return models.Order{}, fmt.Errorf("%w: catalog item %s missing", ErrNothingOrderable, line.ItemID)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ID,
				Kind:      models.LineCatalogItem,
				Name:      item.Name,
				Quantity:  line.Quantity,
				Price:     item.EffectivePrice(),
			})
		case models.LineSpecialItem:
			item, ok := snap.Special(line.ItemID)
			if !ok {
				return models.Order{}, fmt.Errorf("%w: special item %s missing", ErrNothingOrderable, line.ItemID)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ID,
				Kind:      models.LineSpecialItem,
				Name:      item.Name,
				Quantity:  line.Quantity,
				Price:     item.Price,
			})
		default:
			return models.Order{}, fmt.Errorf("%w: line kind %q", ErrNothingOrderable, line.Kind)
		}
	}
	if len(order.Items) == 0 {
		return models.Order{}, ErrNothingOrderable
	}
	order.Amount = order.Total()
	return order, nil
}

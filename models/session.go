package models

import "time"

// Step is the position of a session in the order flow
type Step string

const (
	StepWelcome             Step = "welcome"
	StepMainMenu            Step = "main_menu"
	StepSelectFoodType      Step = "select_food_type"
	StepSelectCategory      Step = "select_category"
	StepViewingItems        Step = "viewing_items"
	StepViewingSpecials     Step = "viewing_special_items"
	StepSearchResults       Step = "search_results"
	StepSelectingItem       Step = "selecting_item"
	StepViewingItemDetails  Step = "viewing_item_details"
	StepSelectQuantity      Step = "select_quantity"
	StepItemAdded           Step = "item_added"
	StepViewingCart         Step = "viewing_cart"
	StepSelectServiceType   Step = "select_service_type"
	StepAwaitingLocation    Step = "awaiting_location"
	StepSelectPaymentMethod Step = "select_payment_method"
	StepAwaitingPayment     Step = "awaiting_payment"
	StepOrderConfirmed      Step = "order_confirmed"
	StepViewingOrders       Step = "viewing_orders"
	StepTrackingOrder       Step = "tracking_order"
)

var validSteps = map[Step]struct{}{
	StepWelcome: {}, StepMainMenu: {}, StepSelectFoodType: {}, StepSelectCategory: {},
	StepViewingItems: {}, StepViewingSpecials: {}, StepSearchResults: {}, StepSelectingItem: {},
	StepViewingItemDetails: {}, StepSelectQuantity: {}, StepItemAdded: {}, StepViewingCart: {},
	StepSelectServiceType: {}, StepAwaitingLocation: {}, StepSelectPaymentMethod: {},
	StepAwaitingPayment: {}, StepOrderConfirmed: {}, StepViewingOrders: {}, StepTrackingOrder: {},
}

// Valid reports whether s is one of the enumerated steps
func (s Step) Valid() bool {
	_, ok := validSteps[s]
	return ok
}

// LineKind tags the variant held by a CartLine
type LineKind string

const (
	LineCatalogItem LineKind = "catalog_item"
	LineSpecialItem LineKind = "special_item"
)

// Valid reports whether k is a known cart line kind
func (k LineKind) Valid() bool {
	return k == LineCatalogItem || k == LineSpecialItem
}

// CartLine is either a catalog reference or a special-item snapshot.
// Name and Price are only meaningful for special lines.
type CartLine struct {
	Kind     LineKind  `json:"kind"`
	ItemID   string    `json:"item_id"`
	Name     string    `json:"name,omitempty"`
	Price    float64   `json:"price,omitempty"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// NewCatalogLine builds a catalog cart line
func NewCatalogLine(itemID string, qty int, now time.Time) CartLine {
	return CartLine{Kind: LineCatalogItem, ItemID: itemID, Quantity: qty, AddedAt: now}
}

// NewSpecialLine builds a special-item cart line carrying a name/price snapshot
func NewSpecialLine(item SpecialItem, qty int, now time.Time) CartLine {
	return CartLine{
		Kind:     LineSpecialItem,
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: qty,
		AddedAt:  now,
	}
}

// SameItem reports whether two lines refer to the same (kind, item) pair
func (l CartLine) SameItem(other CartLine) bool {
	return l.Kind == other.Kind && l.ItemID == other.ItemID
}

// Location is a shared or typed delivery address
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Address   string  `json:"address,omitempty" bson:"address,omitempty"`
	Name      string  `json:"name,omitempty" bson:"name,omitempty"`
}

// ConversationState is what the engine remembers between turns
type ConversationState struct {
	CurrentStep         Step          `json:"current_step"`
	SelectedItem        string        `json:"selected_item,omitempty"`
	SelectedSpecialItem string        `json:"selected_special_item,omitempty"`
	FoodTypePreference  FoodType      `json:"food_type_preference,omitempty"`
	SelectedCategory    string        `json:"selected_category,omitempty"`
	SearchTag           string        `json:"search_tag,omitempty"`
	SearchResults       []string      `json:"search_results,omitempty"`
	ServiceType         ServiceType   `json:"service_type,omitempty"`
	PaymentMethod       PaymentMethod `json:"payment_method,omitempty"`
	PendingOrderID      string        `json:"pending_order_id,omitempty"`
	DraftOrderID        string        `json:"draft_order_id,omitempty"`
	CurrentPage         int           `json:"current_page,omitempty"`
	CategoryPage        int           `json:"category_page,omitempty"`
	ProcessedEvents     []string      `json:"processed_events,omitempty"`
	LastInteraction     time.Time     `json:"last_interaction"`
}

// ClearSelection forgets the item currently being added
func (c *ConversationState) ClearSelection() {
	c.SelectedItem = ""
	c.SelectedSpecialItem = ""
}

// Session is the long-lived per-customer record keyed by phone
type Session struct {
	CustomerID        string            `json:"customer_id"`
	Name              string            `json:"name,omitempty"`
	Cart              []CartLine        `json:"cart"`
	ConversationState ConversationState `json:"conversation_state"`
	DeliveryAddress   *Location         `json:"delivery_address,omitempty"`
	Version           int64             `json:"version"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewSession starts a session at the welcome step
func NewSession(customerID string, now time.Time) *Session {
	return &Session{
		CustomerID: customerID,
		Cart:       []CartLine{},
		ConversationState: ConversationState{
			CurrentStep:     StepWelcome,
			LastInteraction: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so a turn can be discarded without touching the original
func (s *Session) Clone() *Session {
	cp := *s
	cp.Cart = append([]CartLine(nil), s.Cart...)
	cp.ConversationState.SearchResults = append([]string(nil), s.ConversationState.SearchResults...)
	cp.ConversationState.ProcessedEvents = append([]string(nil), s.ConversationState.ProcessedEvents...)
	if s.DeliveryAddress != nil {
		addr := *s.DeliveryAddress
		cp.DeliveryAddress = &addr
	}
	return &cp
}

const maxProcessedEvents = 20

// SeenEvent reports whether a transport message id was already handled
func (s *Session) SeenEvent(id string) bool {
	if id == "" {
		return false
	}
	for _, seen := range s.ConversationState.ProcessedEvents {
		if seen == id {
			return true
		}
	}
	return false
}

// MarkEvent remembers a transport message id, keeping only the most recent ones
func (s *Session) MarkEvent(id string) {
	if id == "" {
		return
	}
	events := append(s.ConversationState.ProcessedEvents, id)
	if len(events) > maxProcessedEvents {
		events = events[len(events)-maxProcessedEvents:]
	}
	s.ConversationState.ProcessedEvents = events
}

package models

// EventKind classifies an inbound transport event
type EventKind string

const (
	EventText       EventKind = "text"
	EventSelection  EventKind = "selection"
	EventLocation   EventKind = "location"
	EventOrderBlock EventKind = "order_block"
)

// OrderBlockLine is one itemized line of a structured order message
type OrderBlockLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

// OrderBlock is a cart or single-item order pasted as message text
type OrderBlock struct {
	Lines []OrderBlockLine `json:"lines"`
	Total float64          `json:"total,omitempty"`
}

// InboundEvent is one customer turn as delivered by the transport
type InboundEvent struct {
	MessageID   string      `json:"message_id"`
	CustomerID  string      `json:"customer_id"`
	Name        string      `json:"name,omitempty"`
	Kind        EventKind   `json:"kind"`
	Text        string      `json:"text,omitempty"`
	SelectionID string      `json:"selection_id,omitempty"`
	Location    *Location   `json:"location,omitempty"`
	OrderBlock  *OrderBlock `json:"order_block,omitempty"`
}

// FailureKind names how a turn degraded
type FailureKind string

const (
	FailureNone                  FailureKind = ""
	FailureClassificationMiss    FailureKind = "classification_miss"
	FailureSearchEmpty           FailureKind = "search_empty"
	FailureStaleSelection        FailureKind = "stale_selection"
	FailureUnavailableAtCheckout FailureKind = "unavailable_at_checkout"
	FailureCollaborator          FailureKind = "collaborator_failure"
)

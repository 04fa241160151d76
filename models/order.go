package models

import "time"

// Order is the write-once record produced at checkout confirmation
type Order struct {
	ID              string        `json:"id" bson:"_id"`
	CustomerID      string        `json:"customer_id" bson:"customer_id"`
	CustomerName    string        `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	Items           []OrderItem   `json:"items" bson:"items"`
	Amount          float64       `json:"amount" bson:"amount"`
	ServiceType     ServiceType   `json:"service_type" bson:"service_type"`
	PaymentMethod   PaymentMethod `json:"payment_method" bson:"payment_method"`
	DeliveryAddress *Location     `json:"delivery_address,omitempty" bson:"delivery_address,omitempty"`
	Status          OrderStatus   `json:"status" bson:"status"`
	PaymentURL      string        `json:"payment_url,omitempty" bson:"payment_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// OrderItem is a denormalized snapshot of one cart line at order time
type OrderItem struct {
	ProductID string   `json:"product_id" bson:"product_id"`
	Kind      LineKind `json:"kind" bson:"kind"`
	Name      string   `json:"name" bson:"name"`
	Quantity  int      `json:"quantity" bson:"quantity"`
	Price     float64  `json:"price" bson:"price"`
}

// Total returns price times quantity summed over all items
func (o Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// OrderStatus represents the current status of an order
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusConfirmed       OrderStatus = "CONFIRMED"
	OrderStatusPreparing       OrderStatus = "PREPARING"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusFailed          OrderStatus = "FAILED"
)

// ServiceType is how the customer receives the order
type ServiceType string

const (
	ServicePickup   ServiceType = "pickup"
	ServiceDelivery ServiceType = "delivery"
)

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentUPI PaymentMethod = "upi"
	PaymentCOD PaymentMethod = "cod"
)

// PlacementResult is what order placement hands back to the checkout flow
type PlacementResult struct {
	OrderID    string      `json:"order_id"`
	Status     OrderStatus `json:"status"`
	PaymentURL string      `json:"payment_url,omitempty"`
}

// PaymentLinkRequest is sent to the payment gateway
type PaymentLinkRequest struct {
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	CustomerID string  `json:"customer_id"`
}

// PaymentLinkResponse is returned by the payment gateway
type PaymentLinkResponse struct {
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// PlacementState represents the current state of an order placement workflow
type PlacementState struct {
	OrderID      string      `json:"order_id"`
	Status       OrderStatus `json:"status"`
	OrderCreated bool        `json:"order_created"`
	LinkCreated  bool        `json:"link_created"`
	Cancelled    bool        `json:"cancelled"`
	LastUpdated  time.Time   `json:"last_updated"`
}

package model

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed:
		return true
	}
	return false
}

// IsPaid returns true once the order has been settled.
func (s OrderStatus) IsPaid() bool {
	return s == OrderStatusPaid
}

// CanTransitionTo checks if a transition from the current status to target is valid.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	allowed := orderTransitions[s]
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// orderTransitions defines valid state transitions.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPending, OrderStatusPaid, OrderStatusFailed},
	OrderStatusPaid:    {},
	OrderStatusFailed:  {OrderStatusPending, OrderStatusPaid},
}

// Order metadata keys persisted across the redirect round-trip.
const (
	MetaPaymentIntentID = "paymongo_payment_intent_id"
	MetaSourceID        = "source_id"
)

// Order represents a storefront order handed to the checkout service.
type Order struct {
	ID             uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	OrderKey       string            `json:"order_key" gorm:"uniqueIndex;not null"`
	CustomerID     uuid.UUID         `json:"customer_id" gorm:"type:uuid;index"`
	Status         OrderStatus       `json:"status" gorm:"not null;default:pending"`
	Total          float64           `json:"total" gorm:"type:numeric(12,2);not null"`
	Currency       string            `json:"currency" gorm:"not null;default:PHP"`
	PaymentMethod  string            `json:"payment_method"`
	AllowedMethods pq.StringArray    `json:"allowed_methods" gorm:"type:text[]"`
	Meta           map[string]string `json:"meta" gorm:"serializer:json;type:jsonb"`

	BillingFirstName string `json:"billing_first_name"`
	BillingLastName  string `json:"billing_last_name"`
	BillingEmail     string `json:"billing_email"`
	BillingPhone     string `json:"billing_phone"`
	BillingAddress1  string `json:"billing_address_1"`
	BillingAddress2  string `json:"billing_address_2"`
	BillingCity      string `json:"billing_city"`
	BillingState     string `json:"billing_state"`
	BillingPostcode  string `json:"billing_postcode"`
	BillingCountry   string `json:"billing_country"`

	TransactionID    string     `json:"transaction_id,omitempty"`
	InvoiceRequested bool       `json:"invoice_requested"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	Items     []*OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Order) TableName() string {
	return "checkout_orders"
}

// GetMeta returns a metadata value, or "" when absent.
func (o *Order) GetMeta(key string) string {
	if o.Meta == nil {
		return ""
	}
	return strings.TrimSpace(o.Meta[key])
}

// SetMeta sets a metadata value on the in-memory order.
func (o *Order) SetMeta(key, value string) {
	if o.Meta == nil {
		o.Meta = make(map[string]string)
	}
	o.Meta[key] = value
}

// AmountMinorUnits returns the order total in minor units, rounded to the nearest unit.
func (o *Order) AmountMinorUnits() int64 {
	return ToMinorUnits(o.Total)
}

// ToMinorUnits converts a major-unit decimal amount to minor units.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts a minor-unit amount to major units.
func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

// OrderItem represents a line item of an order.
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID string    `json:"product_id" gorm:"not null"`
	Name      string    `json:"name" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	Subtotal  float64   `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (OrderItem) TableName() string {
	return "checkout_order_items"
}

// CartItem represents a product sitting in a customer's cart.
type CartItem struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	ProductID  string    `json:"product_id" gorm:"not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (CartItem) TableName() string {
	return "cart_items"
}

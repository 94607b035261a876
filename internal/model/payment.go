package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentIntentStatus represents the status of a processor payment intent.
type PaymentIntentStatus string

const (
	IntentStatusAwaitingPaymentMethod PaymentIntentStatus = "awaiting_payment_method"
	IntentStatusAwaitingNextAction    PaymentIntentStatus = "awaiting_next_action"
	IntentStatusProcessing            PaymentIntentStatus = "processing"
	IntentStatusSucceeded             PaymentIntentStatus = "succeeded"
	IntentStatusFailed                PaymentIntentStatus = "failed"
)

// SourceStatus represents the status of an e-wallet source.
type SourceStatus string

const (
	SourceStatusPending    SourceStatus = "pending"
	SourceStatusChargeable SourceStatus = "chargeable"
	SourceStatusFailed     SourceStatus = "failed"
	SourceStatusExpired    SourceStatus = "expired"
	SourceStatusCancelled  SourceStatus = "cancelled"
)

// BillingAddress is the nested address of a billing object.
type BillingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// BillingObject is the billing payload the processor expects.
type BillingObject struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Address BillingAddress `json:"address"`
}

// PaymentMethod is a processor-side payment method.
type PaymentMethod struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
	Billing *BillingObject `json:"billing,omitempty"`
}

// Payment is a settled payment attached to a succeeded intent.
type Payment struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// PaymentIntent is a processor-side payment intent.
type PaymentIntent struct {
	ID            string              `json:"id"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency"`
	Status        PaymentIntentStatus `json:"status"`
	ClientKey     string              `json:"client_key,omitempty"`
	Payments      []Payment           `json:"payments,omitempty"`
	NextActionURL string              `json:"next_action_url,omitempty"`
}

// CreatePaymentIntentRequest holds the parameters to create a payment intent.
type CreatePaymentIntentRequest struct {
	Amount                int64
	Currency              string
	Description           string
	PaymentMethodsAllowed []string
}

// Source is a processor-side redirect-based e-wallet source.
type Source struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Status      SourceStatus           `json:"status"`
	CheckoutURL string                 `json:"checkout_url,omitempty"`
	SuccessURL  string                 `json:"success_url,omitempty"`
	FailedURL   string                 `json:"failed_url,omitempty"`
	Errors      []ProcessorErrorDetail `json:"errors,omitempty"`
}

// CreateSourceRequest holds the parameters to create an e-wallet source.
type CreateSourceRequest struct {
	Amount     int64
	Currency   string
	Type       string
	SuccessURL string
	FailedURL  string
	Billing    *BillingObject
	Metadata   map[string]string
}

// ProcessorErrorSource points at the request attribute an error refers to.
type ProcessorErrorSource struct {
	Pointer   string `json:"pointer"`
	Attribute string `json:"attribute"`
}

// ProcessorErrorDetail is a single field/code-level processor error.
type ProcessorErrorDetail struct {
	Code   string               `json:"code"`
	Detail string               `json:"detail"`
	Source ProcessorErrorSource `json:"source"`
}

// ProcessorError is a structured rejection reported by the payment processor.
type ProcessorError struct {
	StatusCode int
	Errors     []ProcessorErrorDetail
}

// Error implements the error interface.
func (e *ProcessorError) Error() string {
	details := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		details = append(details, d.Detail)
	}
	return fmt.Sprintf("processor rejected request (status %d): %s", e.StatusCode, strings.Join(details, ","))
}

// TransportError is raised when the processor could not be reached or its
// response could not be interpreted.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("processor transport error on %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("processor transport error on %s: status %d", e.Endpoint, e.StatusCode)
}

// Unwrap returns the wrapped error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Settlement records that a processor payment has been applied to an order.
type Settlement struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PaymentID string    `json:"payment_id" gorm:"uniqueIndex;not null"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	Channel   string    `json:"channel" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (Settlement) TableName() string {
	return "payment_settlements"
}

// WebhookEvent represents a stored webhook event for idempotency.
type WebhookEvent struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Provider        string     `json:"provider" gorm:"not null;uniqueIndex:idx_provider_event"`
	EventID         string     `json:"event_id" gorm:"uniqueIndex:idx_provider_event;not null"`
	EventType       string     `json:"event_type" gorm:"not null"`
	ReferenceNumber string     `json:"reference_number,omitempty" gorm:"index"`
	Data            string     `json:"data" gorm:"type:jsonb"`
	Processed       bool       `json:"processed" gorm:"default:false"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	Error           *string    `json:"error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName returns the table name for GORM.
func (WebhookEvent) TableName() string {
	return "payment_webhook_events"
}

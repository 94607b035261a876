package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
)

// OrderStorePort defines the order operations the checkout flows depend on.
type OrderStorePort interface {
	// FindByID returns the order, or nil if it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// FindByReference resolves a processor reference number (order ID or
	// order key) to an order, or nil if none matches.
	FindByReference(ctx context.Context, reference string) (*model.Order, error)

	// MarkPaid settles the order with the processor transaction id.
	MarkPaid(ctx context.Context, order *model.Order, transactionID string, sendInvoice bool) error

	// MarkPending moves the order to pending and persists its metadata.
	MarkPending(ctx context.Context, order *model.Order) error

	// SaveMeta persists the order metadata bag.
	SaveMeta(ctx context.Context, order *model.Order) error
}

// CartPort empties the customer's cart after settlement.
type CartPort interface {
	EmptyCart(ctx context.Context, order *model.Order) error
}

// NoticePort queues customer-facing notices for the storefront.
type NoticePort interface {
	Notify(ctx context.Context, orderID uuid.UUID, notice model.Notice) error

	// Drain returns and removes the queued notices of an order.
	Drain(ctx context.Context, orderID uuid.UUID) ([]model.Notice, error)
}

// DomainEventPort fires hook-style domain events.
type DomainEventPort interface {
	Emit(ctx context.Context, orderID uuid.UUID, name string, payload any)
}

// TrackerPort records analytics events.
type TrackerPort interface {
	Track(ctx context.Context, name string, props map[string]any)
}

// OrderSettlementPort is the full capability set of the external order
// system used by the checkout orchestrators.
type OrderSettlementPort interface {
	OrderStorePort
	CartPort
	NoticePort
	DomainEventPort
	TrackerPort
}

// SettlementGuardPort records which processor payments have already been
// applied so a payment settles an order at most once.
type SettlementGuardPort interface {
	// Acquire returns true when paymentID was not settled before and is now
	// recorded against orderID.
	Acquire(ctx context.Context, paymentID string, orderID uuid.UUID, channel string) (bool, error)

	// Release drops the claim on paymentID so a later attempt can settle it.
	// It is called when the order could not be marked paid.
	Release(ctx context.Context, paymentID string) error
}

// WebhookEventDatabasePort defines webhook event persistence operations.
type WebhookEventDatabasePort interface {
	// Create stores the event. It returns false when an event with the same
	// provider and event ID already exists.
	Create(ctx context.Context, event *model.WebhookEvent) (bool, error)

	// MarkProcessed marks a webhook event as processed.
	MarkProcessed(ctx context.Context, id uuid.UUID, processErr error) error
}

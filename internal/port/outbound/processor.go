package outbound

import (
	"context"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
)

// PaymentProcessorPort defines the card/intent operations of a payment processor.
//
// Structured rejections are returned as *model.ProcessorError; unreachable
// processors and unreadable responses as *model.TransportError.
type PaymentProcessorPort interface {
	// Name returns the processor name used in logs and metrics.
	Name() string

	// CreatePaymentMethod registers a payment method. details may be nil.
	CreatePaymentMethod(ctx context.Context, methodType string, details map[string]any, billing *model.BillingObject) (*model.PaymentMethod, error)

	// CreatePaymentIntent creates a payment intent.
	CreatePaymentIntent(ctx context.Context, req *model.CreatePaymentIntentRequest) (*model.PaymentIntent, error)

	// AttachPaymentMethod attaches a payment method to an intent. returnURL
	// is where the customer lands after any 3-D Secure step.
	AttachPaymentMethod(ctx context.Context, intentID, methodID, returnURL string) (*model.PaymentIntent, error)

	// GetPaymentIntent reads the current state of an intent.
	GetPaymentIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error)
}

// SourceProcessorPort defines redirect-based e-wallet source creation.
type SourceProcessorPort interface {
	CreateSource(ctx context.Context, req *model.CreateSourceRequest) (*model.Source, error)
}

// PaymayaClientPort defines the PayMaya checkout API.
type PaymayaClientPort interface {
	CreateCheckout(ctx context.Context, req *model.PaymayaCheckoutRequest) (*model.PaymayaCheckout, error)
	ListWebhooks(ctx context.Context) ([]model.PaymayaWebhook, error)
	DeleteWebhook(ctx context.Context, id string) error
	CreateWebhook(ctx context.Context, name, callbackURL string) (*model.PaymayaWebhook, error)
}

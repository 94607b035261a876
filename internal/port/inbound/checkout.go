package inbound

import "github.com/gin-gonic/gin"

// CheckoutHttpPort defines HTTP handler interface for storefront checkout.
type CheckoutHttpPort interface {
	// CreateIntent handles POST /checkout/orders/:id/intent
	// Creates a card payment intent and returns its client key.
	CreateIntent(c *gin.Context)

	// CreatePaymentMethod handles POST /checkout/orders/:id/payment-method
	CreatePaymentMethod(c *gin.Context)

	// ProcessPayment handles POST /checkout/orders/:id/pay
	// Attaches a payment method to the stored intent and settles or redirects.
	ProcessPayment(c *gin.Context)

	// ConfirmPayment handles POST /checkout/orders/:id/confirm
	// Re-reads the intent after the customer returns from authorization.
	ConfirmPayment(c *gin.Context)

	// CreateSource handles POST /checkout/orders/:id/ewallet
	CreateSource(c *gin.Context)

	// CreatePaymayaCheckout handles POST /checkout/orders/:id/paymaya
	CreatePaymayaCheckout(c *gin.Context)

	// ListNotices handles GET /checkout/orders/:id/notices
	// Returns and clears the queued customer notices.
	ListNotices(c *gin.Context)
}

// WebhookHttpPort defines HTTP handler interface for processor callbacks.
type WebhookHttpPort interface {
	// HandlePaymayaWebhook handles /webhooks/paymaya?gateway=cynder_paymaya
	HandlePaymayaWebhook(c *gin.Context)
}

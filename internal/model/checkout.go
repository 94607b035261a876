package model

import "github.com/google/uuid"

// CheckoutOutcome tells the storefront what to do with the customer.
type CheckoutOutcome string

const (
	// OutcomeRedirect sends the customer to Redirect.
	OutcomeRedirect CheckoutOutcome = "redirect"
	// OutcomeStay keeps the customer on the current page; the payment is
	// still being processed and settlement will arrive asynchronously.
	OutcomeStay CheckoutOutcome = "stay"
)

// CheckoutResult is the success result of a checkout step.
type CheckoutResult struct {
	Result   string          `json:"result"`
	Outcome  CheckoutOutcome `json:"outcome"`
	Redirect string          `json:"redirect,omitempty"`
}

// NewRedirectResult returns a success result redirecting to url.
func NewRedirectResult(url string) *CheckoutResult {
	return &CheckoutResult{Result: "success", Outcome: OutcomeRedirect, Redirect: url}
}

// NewStayResult returns a success result without a redirect.
func NewStayResult() *CheckoutResult {
	return &CheckoutResult{Result: "success", Outcome: OutcomeStay}
}

// IntentResult is returned when a payment intent is created for an order.
type IntentResult struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientKey       string `json:"payment_client_key"`
}

// NoticeLevel is the severity of a customer-facing notice.
type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "notice"
)

// Notice is a customer-facing message queued for the storefront.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Tracking event names.
const (
	TrackProcessPayment    = "process payment"
	TrackSuccessfulPayment = "successful payment"
)

// SuccessfulPaymentEventName is the domain event fired after settlement.
const SuccessfulPaymentEventName = "cynder_paymongo_successful_payment"

// SuccessfulPaymentEvent is the payload of the successful payment domain event.
type SuccessfulPaymentEvent struct {
	OrderID uuid.UUID `json:"order_id"`
	Payment Payment   `json:"payment"`
}

// --- Request/Response DTOs ---

// CreatePaymentMethodRequest is the body of the payment method endpoint.
type CreatePaymentMethodRequest struct {
	MethodTag string         `json:"method" binding:"required"`
	Details   map[string]any `json:"details"`
}

// ProcessPaymentRequest is the body of the pay endpoint.
type ProcessPaymentRequest struct {
	PaymentMethodID  string `json:"payment_method_id"`
	GatewayReturnURL string `json:"gateway_return_url"`
	FinalReturnURL   string `json:"return_url" binding:"required"`
	SendInvoice      bool   `json:"send_invoice"`
}

// ConfirmPaymentRequest is the body of the confirm endpoint.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	FinalReturnURL  string `json:"return_url" binding:"required"`
}

// CreateSourceRequestBody is the body of the e-wallet endpoint.
type CreateSourceRequestBody struct {
	Type string `json:"type" binding:"required"`
}

// CheckoutResponse is returned by every checkout endpoint.
type CheckoutResponse struct {
	Result   string          `json:"result"`
	Outcome  CheckoutOutcome `json:"outcome,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
	Notices  []Notice        `json:"notices,omitempty"`
}

// CreatePaymayaCheckoutRequest is the body of the PayMaya checkout endpoint.
type CreatePaymayaCheckoutRequest struct {
	RedirectURL PaymayaRedirectURLs `json:"redirect_url"`
}

// IntentResponse is returned by the intent endpoint.
type IntentResponse struct {
	Result string `json:"result"`
	*IntentResult
	Notices []Notice `json:"notices,omitempty"`
}

// PaymentMethodResponse is returned by the payment method endpoint.
type PaymentMethodResponse struct {
	Result        string         `json:"result"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	Notices       []Notice       `json:"notices,omitempty"`
}

// NoticesResponse is returned by the notices endpoint.
type NoticesResponse struct {
	Notices []Notice `json:"notices"`
}

// WebhookResponse acknowledges a processor callback.
type WebhookResponse struct {
	Outcome CallbackOutcome `json:"outcome"`
}

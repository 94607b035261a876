package model

// PayMaya checkout and payment statuses reported on callbacks.
const (
	PaymayaCheckoutCompleted = "COMPLETED"
	PaymayaPaymentSuccess    = "PAYMENT_SUCCESS"
)

// PayMaya webhook names registered for checkout callbacks.
var PaymayaWebhookNames = []string{
	"CHECKOUT_SUCCESS",
	"CHECKOUT_FAILURE",
	"CHECKOUT_DROPOUT",
}

// PaymayaCallback is the checkout event body posted by PayMaya.
type PaymayaCallback struct {
	ID                         string `json:"id"`
	RequestReferenceNumber     string `json:"requestReferenceNumber"`
	TransactionReferenceNumber string `json:"transactionReferenceNumber"`
	Status                     string `json:"status"`
	PaymentStatus              string `json:"paymentStatus"`
}

// CallbackOutcome is the result of reconciling a callback.
type CallbackOutcome string

const (
	// CallbackProcessed means the callback was handled, whether or not the
	// order was settled.
	CallbackProcessed CallbackOutcome = "processed"
	// CallbackOrderNotFound means the reference number did not resolve.
	CallbackOrderNotFound CallbackOutcome = "order_not_found"
	// CallbackDuplicate means the event id was already handled.
	CallbackDuplicate CallbackOutcome = "duplicate"
)

// PaymayaAmount is a PayMaya money value.
type PaymayaAmount struct {
	Value    any    `json:"value"`
	Currency string `json:"currency,omitempty"`
}

// PaymayaContact is the buyer contact block.
type PaymayaContact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// PaymayaAddress is the buyer billing address block.
type PaymayaAddress struct {
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	CountryCode string `json:"countryCode"`
}

// PaymayaBuyer is the buyer block of a checkout.
type PaymayaBuyer struct {
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Contact        PaymayaContact `json:"contact"`
	BillingAddress PaymayaAddress `json:"billing_address"`
}

// PaymayaItem is a checkout line item.
type PaymayaItem struct {
	Name        string        `json:"name"`
	Quantity    int           `json:"quantity"`
	Code        string        `json:"code"`
	Amount      PaymayaAmount `json:"amount"`
	TotalAmount PaymayaAmount `json:"totalAmount"`
}

// PaymayaRedirectURLs are the customer return URLs of a checkout.
type PaymayaRedirectURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Cancel  string `json:"cancel"`
}

// PaymayaCheckoutRequest is the body of a PayMaya checkout creation.
type PaymayaCheckoutRequest struct {
	TotalAmount            PaymayaAmount       `json:"totalAmount"`
	Buyer                  PaymayaBuyer        `json:"buyer"`
	Items                  []PaymayaItem       `json:"items"`
	RedirectURL            PaymayaRedirectURLs `json:"redirectUrl"`
	RequestReferenceNumber string              `json:"requestReferenceNumber"`
}

// PaymayaCheckout is the created checkout.
type PaymayaCheckout struct {
	CheckoutID  string `json:"checkoutId"`
	RedirectURL string `json:"redirectUrl"`
}

// PaymayaWebhook is a registered PayMaya webhook.
type PaymayaWebhook struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CallbackURL string `json:"callbackUrl"`
}

// PaymayaError is an error reported by the PayMaya API.
type PaymayaError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *PaymayaError) Error() string {
	return e.Message
}

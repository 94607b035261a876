package errortranslator

import (
	"fmt"
	"strings"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/model"
)

// User-facing template keys.
const (
	GenericPaymentError = "generic_payment_error"
	GenericUserError    = "generic_user_error"
	GenericLogError     = "generic_log_error"
)

// Internal error codes.
const (
	CodeMissingPaymentMethod = "PI001"
	CodeMissingPaymentIntent = "PI002"
	CodeResponsePayload      = "PI003"
)

// Fixed customer notices used by the checkout flows.
const (
	MinimumAmountNotice    = "Amount cannot be less than P100.00"
	ConnectionErrorNotice  = "Connection error. Check logs."
	ConnectionRetryNotice  = "Connection error."
	GenericPaymentNotice   = "Your payment did not proceed due to an error. Rest assured that no payment was made. You may refresh this page and try again."
	RetryNotice            = "Please try again."
	UnknownProcessorNotice = "Something went wrong."
	AlreadyPaidNotice      = "This order has already been paid."
)

var userTemplates = map[string]string{
	GenericPaymentError: "Your payment did not proceed due to an error. Please try again or contact the merchant and/or site administrator.",
	GenericUserError:    "An unknown error occured. Please contact your site administrator.",
	GenericLogError:     "Unknown error occured. (Error Code: %s)",
}

var logTemplates = map[string]string{
	CodeMissingPaymentMethod: "No payment method ID found while processing payment for order ID %s.",
	CodeMissingPaymentIntent: "No payment intent ID found while processing payment for order ID %s.",
	CodeResponsePayload:      "Response payload from Paymongo API for endpoint %s: %s",
}

// codeTemplates maps internal codes to the user template shown for them.
var codeTemplates = map[string]string{
	CodeMissingPaymentMethod: GenericPaymentError,
	CodeMissingPaymentIntent: GenericPaymentError,
}

type processorKey struct {
	code      string
	attribute string
}

var processorMessages = map[processorKey]string{
	{"parameter_required", "amount"}:      "Amount is required",
	{"parameter_required", "currency"}:    "Currency is required",
	{"parameter_below_minimum", "amount"}: "Amount should be greater than 100",
}

// Message is a translated message. Fallback is set when the code was unknown
// or its template could not be filled.
type Message struct {
	Text     string
	Code     string
	Fallback bool
}

// String returns the message text.
func (m Message) String() string {
	return m.Text
}

// Translator turns error codes into user-safe and loggable messages.
type Translator interface {
	// UserMessage returns the customer-facing message for code.
	UserMessage(code string, args ...any) Message

	// LogMessage returns the log line for code.
	LogMessage(code string, args ...any) Message

	// ProcessorMessage returns the customer-facing text of a processor error.
	ProcessorMessage(detail model.ProcessorErrorDetail) string
}

type translator struct{}

// New creates a Translator backed by the fixed message tables.
func New() Translator {
	return translator{}
}

func (translator) UserMessage(code string, args ...any) Message {
	key, ok := codeTemplates[code]
	if !ok {
		return userFallback(code)
	}
	text, ok := fill(userTemplates[key], args)
	if !ok {
		return userFallback(code)
	}
	return Message{Text: fmt.Sprintf("%s (Error Code: %s)", text, code), Code: code}
}

func (translator) LogMessage(code string, args ...any) Message {
	tmpl, ok := logTemplates[code]
	if !ok {
		return logFallback(code)
	}
	text, ok := fill(tmpl, args)
	if !ok {
		return logFallback(code)
	}
	return Message{Text: text, Code: code}
}

func (translator) ProcessorMessage(detail model.ProcessorErrorDetail) string {
	if msg, ok := processorMessages[processorKey{detail.Code, detail.Source.Attribute}]; ok {
		return msg
	}
	if detail.Detail == "" {
		return UnknownProcessorNotice
	}
	return detail.Detail
}

func userFallback(code string) Message {
	return Message{
		Text:     fmt.Sprintf("%s (Error Code: %s)", userTemplates[GenericUserError], code),
		Code:     code,
		Fallback: true,
	}
}

func logFallback(code string) Message {
	return Message{
		Text:     fmt.Sprintf(userTemplates[GenericLogError], code),
		Code:     code,
		Fallback: true,
	}
}

// fill interpolates args into tmpl. It reports false when there are fewer
// args than placeholders; surplus args are ignored.
func fill(tmpl string, args []any) (string, bool) {
	n := placeholders(tmpl)
	if len(args) < n {
		return "", false
	}
	if n == 0 {
		return tmpl, true
	}
	return fmt.Sprintf(tmpl, args[:n]...), true
}

// placeholders counts the formatting verbs in tmpl, ignoring escaped "%%".
func placeholders(tmpl string) int {
	return strings.Count(strings.ReplaceAll(tmpl, "%%", ""), "%")
}

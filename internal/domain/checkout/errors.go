package checkout

import "errors"

var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnknownMethodTag is returned for a payment method tag with no
	// processor mapping. It signals a wiring mistake, not a customer error.
	ErrUnknownMethodTag = errors.New("unknown payment method tag")

	// ErrSourceUnsupported is returned when the configured processor cannot
	// create e-wallet sources.
	ErrSourceUnsupported = errors.New("processor does not support e-wallet sources")
)

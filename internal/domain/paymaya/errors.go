package paymaya

import "errors"

var (
	// ErrInvalidCallback is returned for a callback without an event or reference id.
	ErrInvalidCallback = errors.New("invalid paymaya callback")
)

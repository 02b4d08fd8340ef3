package settlement

import (
	"errors"
	"fmt"
)

// Stable error kinds surfaced to HTTP callers. Support tooling keys on
// these, so they never change once shipped.
const (
	KindNotFound          = "not_found"
	KindInsufficientStock = "insufficient_stock"
	KindAlreadySettled    = "already_settled"
	KindAlreadyDelivered  = "already_delivered"
	KindNotPaid           = "not_paid"
)

// Error identifies which order or product a settlement failure is
// about, with a machine-readable Kind.
type Error struct {
	Kind      string
	OrderID   string
	ProductID string
	Message   string
}

func (e *Error) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("%s: %s (order %s, product %s)", e.Kind, e.Message, e.OrderID, e.ProductID)
	}
	return fmt.Sprintf("%s: %s (order %s)", e.Kind, e.Message, e.OrderID)
}

// KindOf extracts the kind from a settlement error, or "" for any
// other error.
func KindOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

package orders

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable classification for engine failures. The HTTP
// layer maps kinds to status codes; messages are for humans.
type Kind string

const (
	KindOrderNotFound     Kind = "ORDER_NOT_FOUND"
	KindProductNotFound   Kind = "PRODUCT_NOT_FOUND"
	KindCustomerNotFound  Kind = "CUSTOMER_NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindInvalidState      Kind = "INVALID_STATE"
	KindInvalidStatus     Kind = "INVALID_STATUS"
	KindInvalidRequest    Kind = "INVALID_REQUEST"
	KindNoChanges         Kind = "NO_CHANGES"
	KindConstraint        Kind = "CONSTRAINT_VIOLATION"
)

// Error is a classified engine failure. ProductID and Available are only
// populated for product-related kinds so callers can identify the offending
// line.
type Error struct {
	Kind      Kind
	Message   string
	ProductID int64
	Available int
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the Kind from err, or "" when err is not an engine error.
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

func errOrderNotFound(id int64) *Error {
	return &Error{Kind: KindOrderNotFound, Message: fmt.Sprintf("order %d not found", id)}
}

func errProductNotFound(pid int64) *Error {
	return &Error{Kind: KindProductNotFound, ProductID: pid,
		Message: fmt.Sprintf("product %d not found", pid)}
}

func errCustomerNotFound(cid int64) *Error {
	return &Error{Kind: KindCustomerNotFound, Message: fmt.Sprintf("customer %d not found", cid)}
}

func errInsufficientStock(pid int64, want, have int) *Error {
	return &Error{Kind: KindInsufficientStock, ProductID: pid, Available: have,
		Message: fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", pid, want, have)}
}

func errInvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

func errInvalidStatus(status string) *Error {
	return &Error{Kind: KindInvalidStatus,
		Message: fmt.Sprintf("invalid order status %q: must be pending, completed or cancelled", status)}
}

func errInvalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}

func errNoChanges() *Error {
	return &Error{Kind: KindNoChanges, Message: "no changes supplied"}
}

package services

import (
	"github.com/go-faster/errors"
)

// Kind classifies a failure for callers that translate errors to responses.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindUpstream        Kind = "UPSTREAM_FAILURE"
	KindPersist         Kind = "PERSIST_FAILURE"
	KindInternal        Kind = "INTERNAL"
)

// Sentinel errors returned by the cart and checkout services.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoAddress            = errors.New("delivery address is required")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
	ErrInvalidSession       = errors.New("payment session is missing metadata")

	ErrAlreadyInCart    = errors.New("item already in cart")
	ErrSessionProcessed = errors.New("payment session already processed")

	ErrCartItemNotFound = errors.New("cart item not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrAddressNotFound  = errors.New("address not found")

	ErrUnauthenticated = errors.New("user is not authenticated")
	ErrUpstream        = errors.New("payment gateway request failed")
	ErrPersistFailed   = errors.New("failed to persist orders")
)

// KindOf maps err onto the failure taxonomy.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrNoAddress),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidPaymentMethod),
		errors.Is(err, ErrInvalidSession):
		return KindValidation
	case errors.Is(err, ErrAlreadyInCart), errors.Is(err, ErrSessionProcessed):
		return KindConflict
	case errors.Is(err, ErrCartItemNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrAddressNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrPersistFailed):
		return KindPersist
	default:
		return KindInternal
	}
}

// causeError carries both a taxonomy sentinel and the underlying cause.
type causeError struct {
	op    string
	kind  error
	cause error
}

func (e *causeError) Error() string {
	return e.op + ": " + e.kind.Error() + ": " + e.cause.Error()
}

func (e *causeError) Unwrap() []error { return []error{e.kind, e.cause} }

func withCause(kind error, op string, cause error) error {
	return &causeError{op: op, kind: kind, cause: cause}
}

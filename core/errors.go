package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is().
// These are wrapped with operation context by the packages that raise them.
var (
	// Validation errors, raised before any I/O
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingPaymentFields = errors.New("missing payment details")
	ErrSubmissionInFlight   = errors.New("submission already in progress")

	// Transport errors
	ErrRequestFailed  = errors.New("request failed")
	ErrRequestTimeout = errors.New("request timed out")

	// Data integrity errors: a nominally successful response that
	// violates the API contract
	ErrMissingOrderID = errors.New("order created but no id received")

	// Not found
	ErrOrderNotFound = errors.New("order not found")

	// Resilience errors
	ErrCircuitOpen        = errors.New("circuit breaker is open")
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ErrorKind categorizes errors at the orchestration boundary.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindTransport     ErrorKind = "transport"
	KindDataIntegrity ErrorKind = "data_integrity"
	KindNotFound      ErrorKind = "not_found"
	KindInternal      ErrorKind = "internal"
)

// Error provides structured error information with context.
// It implements the error interface and supports error wrapping.
type Error struct {
	Op      string    // Operation that failed (e.g., "checkout.CreateOrder")
	Kind    ErrorKind // Error category
	Message string    // Optional human-readable message
	Err     error     // Underlying error for wrapping
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Op != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured Error.
func NewError(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of a structured error, or KindInternal for
// errors that carry no category.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsValidation checks if an error was raised before any I/O and is
// recoverable by user correction.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrMissingPaymentFields) ||
		errors.Is(err, ErrSubmissionInFlight) ||
		KindOf(err) == KindValidation
}

// IsTransport checks if an error is a network condition or non-2xx
// status; the originating state is intact and the call can be retried.
func IsTransport(err error) bool {
	return errors.Is(err, ErrRequestFailed) ||
		errors.Is(err, ErrRequestTimeout) ||
		KindOf(err) == KindTransport
}

// IsDataIntegrity checks if an error represents a contract violation in
// an otherwise successful response.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrMissingOrderID) || KindOf(err) == KindDataIntegrity
}

// IsNotFound checks if an error represents a missing order.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || KindOf(err) == KindNotFound
}

// IsRetryable checks if an error is a transient condition worth retrying.
// Validation, integrity and not-found errors never are.
func IsRetryable(err error) bool {
	return IsTransport(err) && !errors.Is(err, ErrCircuitOpen)
}

// UserMessage converts an error into the single user-facing message for
// the failed operation. Every orchestration boundary funnels through
// this so no half-reported error reaches the UI.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, ErrMissingPaymentFields):
		return "Please fill in all credit card details."
	case errors.Is(err, ErrSubmissionInFlight):
		return "Your order is already being submitted."
	case errors.Is(err, ErrOrderNotFound):
		return "Order not found."
	case errors.Is(err, ErrRequestTimeout):
		return "The request timed out. Please try again."
	case IsDataIntegrity(err):
		return "The server returned an unexpected response. Please contact support."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

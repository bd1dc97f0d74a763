package payment

import "fmt"

// Kind classifies an orchestrator failure so the transport layer can choose
// a status code without inspecting messages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindGateway      Kind = "gateway"
)

// PaymentError is the typed failure every orchestrator operation returns.
// Err, when set, carries the underlying cause (for gateway failures this is
// a *GatewayError with the upstream payload attached).
type PaymentError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PaymentError) Unwrap() error { return e.Err }

func newValidationError(msg string) *PaymentError {
	return &PaymentError{Kind: KindValidation, Message: msg}
}

func newNotFoundError(msg string) *PaymentError {
	return &PaymentError{Kind: KindNotFound, Message: msg}
}

func newUnauthorizedError(msg string) *PaymentError {
	return &PaymentError{Kind: KindUnauthorized, Message: msg}
}

func newConflictError(msg string) *PaymentError {
	return &PaymentError{Kind: KindConflict, Message: msg}
}

func newGatewayError(msg string, err error) *PaymentError {
	return &PaymentError{Kind: KindGateway, Message: msg, Err: err}
}

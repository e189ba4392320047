package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError covers slot races: a requested slot is already held under the
// exclusivity rule (paid, or locked with a live TTL).
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// InvalidStateError rejects an operation the booking's current payment status
// does not allow (state machine: locked -> paid/expired, paid -> cancelled).
type InvalidStateError struct {
	Current string
	Msg     string
}

func (e InvalidStateError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Current != "" {
		return fmt.Sprintf("operation not allowed in state %q", e.Current)
	}
	return "invalid state"
}

// AlreadyInitiatedError marks a repeated payment-order request for a booking
// that already holds a gateway order id.
type AlreadyInitiatedError struct {
	BookingID string
}

func (e AlreadyInitiatedError) Error() string {
	if e.BookingID != "" {
		return fmt.Sprintf("payment already initiated for booking %s", e.BookingID)
	}
	return "payment already initiated"
}

type InvalidSignatureError struct{}

func (e InvalidSignatureError) Error() string { return "invalid webhook signature" }

type GatewayError struct {
	Op  string
	Err error
}

func (e GatewayError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("payment gateway %s failed", e.Op)
	}
	return "payment gateway error"
}

func (e GatewayError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsAlreadyInitiated(err error) bool {
	var target AlreadyInitiatedError
	return errors.As(err, &target)
}

func IsInvalidSignature(err error) bool {
	var target InvalidSignatureError
	return errors.As(err, &target)
}

func IsGateway(err error) bool {
	var target GatewayError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

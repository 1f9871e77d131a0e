package domain

import (
	"fmt"
	"strings"
)

// Error types for consistent error handling across the BFF.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a single bad input outside of a form (path
// params, malformed values, unknown fields).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrFormInvalid carries the full field error set of a rejected form
// submission. Field errors never travel past the owning step.
type ErrFormInvalid struct {
	Form   string
	Fields map[string]string
}

func (e *ErrFormInvalid) Error() string {
	return fmt.Sprintf("%s form has %d invalid field(s)", e.Form, len(e.Fields))
}

// ErrUnauthorized indicates a missing, expired or superseded session.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// InvalidCredentialsMessage is shown for every failed credential check,
// whichever field was wrong.
const InvalidCredentialsMessage = "Invalid email or password"

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "Invalid credentials"
}

// Fields attributes the failure to both login fields.
func (e *ErrInvalidCredentials) Fields() map[string]string {
	return map[string]string{
		"email":    InvalidCredentialsMessage,
		"password": InvalidCredentialsMessage,
	}
}

// ErrLoginUnavailable indicates the credential check could not be
// performed at all. The session is left untouched.
type ErrLoginUnavailable struct {
	Err error
}

func (e *ErrLoginUnavailable) Error() string {
	return "Login failed. Please try again."
}

func (e *ErrLoginUnavailable) Unwrap() error {
	return e.Err
}

// ErrPrecondition indicates a final submission was attempted before every
// step was completed.
type ErrPrecondition struct {
	Missing []Step
}

func (e *ErrPrecondition) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, s := range e.Missing {
		names = append(names, s.String())
	}
	return fmt.Sprintf("Please complete all sections before submitting (missing: %s)", strings.Join(names, ", "))
}

// ErrSubmissionInFlight is returned when a submission is triggered while
// another one is still outstanding. The trigger is dropped, not queued.
type ErrSubmissionInFlight struct{}

func (e *ErrSubmissionInFlight) Error() string {
	return "submission already in progress"
}

// ErrConflict indicates the operation does not fit the current state
// (e.g. editing an onboarding that was already submitted).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

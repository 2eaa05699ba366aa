package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("resource conflict")
)

// Identity errors
var (
	ErrTokenInvalid        = errors.New("token invalid")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrOrganizationMissing = errors.New("profile has no organization")
)

// Meeting errors
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrAgendaItemNotFound = errors.New("agenda item not found")
	ErrIssueNotFound      = errors.New("issue not found")
	ErrMeetingNotEditable = errors.New("meeting can only be edited while scheduled")
	ErrMeetingInProgress  = errors.New("meeting in progress cannot be deleted")
)

// Integration errors
var (
	ErrOAuthStateInvalid       = errors.New("oauth state invalid")
	ErrOAuthExchangeFailed     = errors.New("oauth exchange failed")
	ErrProviderNotConfigured   = errors.New("provider not configured")
	ErrUnsupportedProvider     = errors.New("unsupported provider")
	ErrIntegrationNotConnected = errors.New("integration not connected")
	ErrSignatureInvalid        = errors.New("webhook signature invalid")
)

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a NotFoundError for resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// StateError reports a rejected meeting status transition.
type StateError struct {
	Action string
	Status string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("Cannot %s meeting with status: %s", e.Action, e.Status)
}

// Invalid wraps ErrInvalidInput with a client-facing message.
func Invalid(format string, args ...any) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// InvalidInputError carries a message that is safe to return to the caller.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

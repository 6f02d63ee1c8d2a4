package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repositories and services
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// MLServiceUnavailableMessage is shown to operators when the ML service cannot be reached
const MLServiceUnavailableMessage = "ML service is not available. Please ensure it's running on port 5000."

// ValidationError reports missing or malformed client input (400)
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that the requested document does not exist (404)
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ServiceUnavailableError reports that an external dependency could not be reached (503)
type ServiceUnavailableError struct {
	Err error
}

func (e *ServiceUnavailableError) Error() string {
	return MLServiceUnavailableMessage
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

// UpstreamError reports that an external dependency answered with a failure.
// Body holds the raw upstream payload when there is one worth relaying.
type UpstreamError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream error (status %d)", e.StatusCode)
}

// InternalError reports an unexpected local failure while talking to a dependency (500)
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ConfigurationError means a required setting is missing. It is fatal at startup and
// terminal for the current model call.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Key)
}

// AuthenticationError rejects a request before any business logic runs.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication error: " + e.Reason
}

// UpstreamError carries the status of a non-2xx answer from the model endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d", e.StatusCode)
}

// Transient reports whether the status is worth another attempt.
func (e *UpstreamError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ParseError keeps the raw model output for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse error: " + e.Err.Error()
	}
	return "parse error: no JSON object found in model output"
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError wraps a rejected insert/upsert.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// HTTPStatus maps an error of the taxonomy to the status code the API answers with.
func HTTPStatus(err error) int {
	var (
		cfgErr      *ConfigurationError
		authErr     *AuthenticationError
		upstreamErr *UpstreamError
		parseErr    *ParseError
		persistErr  *PersistenceError
		notFoundErr *NotFoundError
		validErr    *ValidationError
		conflictErr *ConflictError
		fiberErr    *fiber.Error
	)
	switch {
	case errors.As(err, &authErr):
		return fiber.StatusUnauthorized
	case errors.As(err, &validErr):
		return fiber.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound
	case errors.As(err, &conflictErr):
		return fiber.StatusConflict
	case errors.As(err, &upstreamErr), errors.As(err, &parseErr):
		return fiber.StatusBadGateway
	case errors.As(err, &cfgErr), errors.As(err, &persistErr):
		return fiber.StatusInternalServerError
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

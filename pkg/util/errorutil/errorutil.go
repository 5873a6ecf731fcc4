package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Error codes exposed in API responses.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeConflict           = "CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeUnsupportedMedia   = "UNSUPPORTED_MEDIA"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches DomainErrors by code so callers can test against the constructors' results.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code && (other.Message == "" || other.Message == e.Message)
}

// Diagnostic returns the wrapped cause for 5xx responses, if any.
func (e *DomainError) Diagnostic() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewConflict reports a uniqueness violation on field. Conflicts are client errors (400).
func NewConflict(field string) error {
	return NewDomainError(CodeConflict, fmt.Sprintf("%s already exists", field), http.StatusBadRequest,
		map[string]any{"field": field})
}

func NewUnsupportedMedia(message string) error {
	return NewDomainError(CodeUnsupportedMedia, message, http.StatusBadRequest, nil)
}

func NewStorageUnavailable(err error) error {
	return &DomainError{
		Code:       CodeStorageUnavailable,
		Message:    "image storage unavailable",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Internal Server Error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == http.StatusNotFound:
			return NewDomainError(CodeNotFound, fiberErr.Message, fiberErr.Code, nil)
		case fiberErr.Code < http.StatusInternalServerError:
			return NewDomainError(CodeValidation, fiberErr.Message, fiberErr.Code, nil)
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Internal Server Error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

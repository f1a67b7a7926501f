package util

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Error codes shared by every endpoint.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeRateLimited         = "RATE_LIMITED"
	CodeTimeout             = "REQUEST_TIMEOUT"
	CodeInternal            = "INTERNAL_ERROR"
)

// FieldViolation describes one failed validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    []FieldViolation
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details []FieldViolation) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details []FieldViolation) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, nil)
}

func NewInvalidRefreshToken() error {
	return NewDomainError(CodeInvalidRefreshToken, "invalid refresh token", http.StatusForbidden, nil)
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "too many requests, please try again later", http.StatusTooManyRequests, nil)
}

func NewTimeout() error {
	return NewDomainError(CodeTimeout, "request timed out", http.StatusRequestTimeout, nil)
}

// NewInternalError hides err behind a generic message. The cause keeps a
// stack trace so non-production responses can expose it.
func NewInternalError(err error) error {
	if err != nil {
		err = pkgerrors.WithStack(err)
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
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
	return NewInternalError(err).(*DomainError)
}

// IsCode reports whether err is a DomainError carrying code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// StackTrace renders the cause of an internal error with its recorded stack.
func StackTrace(err *DomainError) string {
	if err == nil || err.Err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", err.Err)
}

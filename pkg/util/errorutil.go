package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced in API responses and diagnostics.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeCodeNotFound     = "CODE_NOT_FOUND"
	CodeStaffInactive    = "STAFF_INACTIVE"
	CodeEmailMismatch    = "EMAIL_MISMATCH"
	CodeCenterMissing    = "CENTER_MISSING"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewInvalidInput flags a malformed request (missing/empty required fields).
// Always recoverable by the caller correcting the request; never phrased as
// a wrong credential.
func NewInvalidInput(message string) error {
	return NewDomainError(CodeInvalidInput, message, http.StatusBadRequest, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewCodeNotFound reports that no staff record carries the presented code.
func NewCodeNotFound() error {
	return NewDomainError(CodeCodeNotFound, "invalid staff code", http.StatusUnauthorized, nil)
}

// NewStaffInactive reports a deactivated staff record. The message matches
// NewCodeNotFound so end users cannot distinguish "exists but disabled"
// from "never existed"; the code stays distinct for diagnostics.
func NewStaffInactive() error {
	return NewDomainError(CodeStaffInactive, "invalid staff code", http.StatusUnauthorized, nil)
}

// NewEmailMismatch reports that the code exists but is bound to a different
// account email.
func NewEmailMismatch() error {
	return NewDomainError(CodeEmailMismatch, "staff code does not match this account", http.StatusUnauthorized, nil)
}

// NewCenterMissing reports an orphaned staff record whose owning dive
// center no longer exists.
func NewCenterMissing() error {
	return NewDomainError(CodeCenterMissing, "dive center missing", http.StatusUnauthorized, nil)
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

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
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
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// ErrorCode extracts the taxonomy code, defaulting to INTERNAL_ERROR.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

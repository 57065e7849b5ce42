package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDigitalSignatureUnavailable is returned when a caller attempts to
// submit a digital-certificate signature. The method is listed in the
// taxonomy but has no backing implementation; it must never reach the wire.
var ErrDigitalSignatureUnavailable = errors.New("digital certificate signing is not available")

// errNoFileLocation marks a document without any file URL or path.
var errNoFileLocation = errors.New("document has no file location")

// APIError is a non-2xx response from the contract API. The service layer
// passes it through unchanged; it never retries or reinterprets.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// FieldError reports a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates client-side field errors. Requests failing
// validation are rejected before any network call.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasField reports whether the error includes the named field.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func validationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}

// FileAccessError distinguishes local file failures (unreadable attachment,
// failed download) from API errors so callers can present them differently.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("file access failed for %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for better error handling and API responses

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a requested city or district has no canonical
// match after normalization. It is never retried automatically.
type NotFoundError struct {
	Kind  string // "city" or "district"
	Value string // the input that failed to match
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Value)
}

// DataUnavailableError reports that the external directory failed: network
// error, non-success status, or malformed payload. The core never retries;
// retry policy belongs to the caller.
type DataUnavailableError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("data unavailable from %s", e.Source)
	}
	return fmt.Sprintf("data unavailable from %s: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsDataUnavailable checks if an error is a DataUnavailableError
func IsDataUnavailable(err error) bool {
	var unavailableErr *DataUnavailableError
	return errors.As(err, &unavailableErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

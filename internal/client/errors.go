package client

import (
	sharederrors "github.com/khanhnv2901/headerguard/internal/shared/errors"
)

// DefaultAPIErrorMessage is used when a failure response carries no usable message.
const DefaultAPIErrorMessage = "Failed to analyze URL"

// APIError is a non-success response from the analyzer.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return DefaultAPIErrorMessage
	}
	return e.Message
}

// Is reports whether target is the shared analyze-failed sentinel.
func (e *APIError) Is(target error) bool {
	return target == sharederrors.ErrAnalyzeFailed
}

// TransportError wraps a network, timeout or decoding fault.
type TransportError struct {
	Op  string
	Err error
}

// Error returns "" when the underlying fault carries no message, so callers
// can substitute their own fallback.
func (e *TransportError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return ""
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the shared transport sentinel.
func (e *TransportError) Is(target error) bool {
	return target == sharederrors.ErrTransport
}

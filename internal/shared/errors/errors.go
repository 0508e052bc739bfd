package errors

import "errors"

// Domain errors
var (
	// Submission errors
	ErrEmptyURL   = errors.New("url cannot be empty")
	ErrSuperseded = errors.New("request superseded by a newer submission")
	ErrNoAnalyzer = errors.New("analyzer not configured")

	// Analyzer errors
	ErrInvalidAPIURL = errors.New("invalid analyzer API URL")
	ErrAnalyzeFailed = errors.New("analyzer returned a failure status")
	ErrTransport     = errors.New("analyzer transport failure")
	ErrEmptyResponse = errors.New("analyzer returned an empty response")

	// History errors
	ErrHistoryUnavailable = errors.New("history log unavailable")

	// Serialization errors
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")
)

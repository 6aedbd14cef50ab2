package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// The API layer maps them to HTTP status codes.
var (
	// ErrEmptySource indicates that neither a URL nor text was supplied.
	// API layer should map this to HTTP 400 Bad Request.
	ErrEmptySource = errors.New("either url or text is required")

	// ErrConflictingSources indicates that both a URL and text were supplied.
	// API layer should map this to HTTP 400 Bad Request.
	ErrConflictingSources = errors.New("only one of url or text may be given")

	// ErrItemNotFound indicates that the vocabulary item does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrItemNotFound = errors.New("vocabulary item not found")
)

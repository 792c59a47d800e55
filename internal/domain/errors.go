package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested item does not exist, even
	// after the resolver's fallback chain has been exhausted
	ErrItemNotFound = errors.New("media item not found")

	// ErrInvalidAddress indicates a malformed or wrong-scheme content address
	ErrInvalidAddress = errors.New("invalid content address")

	// ErrServerOffline indicates the media server is unreachable
	ErrServerOffline = errors.New("media server is unreachable")

	// ErrAuthFailed indicates authentication failed
	ErrAuthFailed = errors.New("authentication token is invalid")
)

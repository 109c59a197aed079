package service

import "errors"

// Sentinel errors the delivery layer maps onto HTTP status codes.
var (
	// ErrValidation marks malformed client input (400).
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks a missing provider key or similar setup gap (400/500).
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a request for which no usable data could be assembled (404).
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks an invalid or expired ID token (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUsageLimit marks an exhausted free-tier daily quota (429).
	ErrUsageLimit = errors.New("daily usage limit reached")
)

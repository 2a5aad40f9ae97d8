package client

import "errors"

// Sentinels matched by (*APIError).Is.
var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// ErrInvalidResponse is returned by Decode when a successful response does
// not match the expected schema.
var ErrInvalidResponse = errors.New("invalid response")

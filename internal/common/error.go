package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrorNotAuthenticated = errors.New("not authenticated")
	ErrorSessionCorrupt   = errors.New("stored session is corrupt")
	ErrTokenExpired       = errors.New("token expired")

	// Input errors.
	ErrorInvalidID = errors.New("invalid id")
)

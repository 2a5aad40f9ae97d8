// Package common contains shared constants and sentinel errors used across
// rentdesk components.
package common

// Header names set on every outbound API request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Local storage keys. The session is always written and removed as a pair.
const (
	AccessTokenKey = "access_token"
	UserDataKey    = "user_data"
)

// Package common contains constants and small helpers shared across the
// gatepass client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer token on API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme prefixes the token in the Authorization header.
	BearerScheme = "Bearer"

	// RequestIDHeaderName tags every outbound request for server-side tracing.
	RequestIDHeaderName = "X-Request-ID"
)

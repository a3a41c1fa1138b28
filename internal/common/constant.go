// Package common contains constants and small helpers shared by the client
// packages.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on calls that
	// need an authenticated session.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName tags every outbound API call so client and server
	// logs can be correlated.
	RequestIDHeaderName = "X-Request-ID"

	// BearerPrefix is prepended to the access token in AuthorizationHeaderName.
	BearerPrefix = "Bearer "
)

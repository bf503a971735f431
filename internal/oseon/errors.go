// Package oseon implements the authenticated HTTP client for the TRUMPF
// Oseon order-management REST API.
package oseon

import "errors"

// Error taxonomy for backend failures. Classified with errors.Is; the
// tool layer maps each category to a descriptive text outcome so
// operators can tell bad config from network trouble from missing data.
var (
	ErrConnection     = errors.New("oseon: connection failed")
	ErrAuthentication = errors.New("oseon: authentication failed")
	ErrNotFound       = errors.New("oseon: resource not found")
	ErrRateLimit      = errors.New("oseon: rate limit exceeded")
	ErrServer         = errors.New("oseon: server error")
)

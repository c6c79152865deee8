package dto

// Error codes used by the envelope-shaped service endpoints. The proxy
// endpoints (/projects, /bugs) use the detail-shaped bodies in proxy.go
// instead.
const (
	// ErrCodeNotFound is used when a route or resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

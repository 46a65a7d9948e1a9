package ratelimit

// Limiter gates assistant requests per caller key, typically the client IP.
type Limiter interface {
	// Allow reports whether the caller identified by key may proceed. Fails
	// open: backend trouble never blocks a request.
	Allow(key string) bool
}

// Package middleware contains the echo middleware chain: request ids,
// tracing, request-scoped logging, rate limiting and the global error
// handler that renders every error as JSON.
package middleware

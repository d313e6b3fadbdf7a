// Package handler adapts HTTP requests to service calls. Each endpoint is a
// typed function wrapped by Handle, which binds and validates the request,
// runs the function and writes the JSON response.
package handler

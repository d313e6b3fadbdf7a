// Package errs holds the error types returned to API clients.
//
// Every failure that must reach a caller with a specific status code is an
// *HTTPError. The echo error handler serializes it as-is, so the JSON shape
// is the same for validation problems, conflicts, upstream failures and
// internal errors.
package errs

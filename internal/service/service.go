// Package service holds the business rules of the user directory and the
// quote lookup. Every method returns either a result or an *errs.HTTPError
// carrying the status the client should see.
package service

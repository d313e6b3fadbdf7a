// Package lib groups the integrations with outside systems: the quote API
// client, the background job queue and transactional email.
package lib

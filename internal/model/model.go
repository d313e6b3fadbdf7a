// Package model defines the rows, request payloads and responses shared by
// the repository, service and handler layers.
package model

// EmptyPayload is bound by endpoints that take no input.
type EmptyPayload struct{}

func (p *EmptyPayload) Validate() error {
	return nil
}

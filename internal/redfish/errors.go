package redfish

import "errors"

// Errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

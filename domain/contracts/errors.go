package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrEmptyToken occurs when credential setup receives a blank token
	ErrEmptyToken = errors.New("token must not be empty")

	// ErrEmptyOrgID occurs when credential setup receives a blank organization ID
	ErrEmptyOrgID = errors.New("organization ID must not be empty")

	// ErrOrgIDNotNumeric occurs when the organization ID cannot be parsed as an integer
	ErrOrgIDNotNumeric = errors.New("organization ID must be a number")

	// ErrNoGateway occurs when a lookup runs before a credential has been accepted
	ErrNoGateway = errors.New("no authenticated API client")
)

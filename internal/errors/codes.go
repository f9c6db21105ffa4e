// Package errors provides structured error handling for bridge operations.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Parsing errors
	CodeResourceNotFound Code = "RESOURCE_NOT_FOUND"
	CodeParseFailure     Code = "PARSE_FAILURE"

	// Input errors
	CodeValidationFailure Code = "VALIDATION_FAILURE"

	// Context resolution errors
	CodeContextNotFound Code = "CONTEXT_NOT_FOUND"

	// Activity lifecycle errors
	CodeNoActiveContext    Code = "NO_ACTIVE_CONTEXT"
	CodeActivityNotStarted Code = "ACTIVITY_NOT_STARTED"

	// Storage errors
	CodeStoreFailure Code = "STORE_FAILURE"
)

package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeNotRegistered indicates no value is registered for a type key.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeTypeMismatch indicates a stored value does not satisfy the requested type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Lifecycle and internal errors
const (
	// ErrCodeLifecycle indicates a component failed to start or stop.
	ErrCodeLifecycle ErrorCode = "LIFECYCLE"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

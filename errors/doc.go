// Package errors provides the structured error type used across the module.
// Errors carry a machine-readable code so callers can branch on the failure
// kind (missing dependency, bad configuration, lifecycle failure) without
// string matching.
package errors

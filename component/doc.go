// Package component defines lifecycle-managed values.
//
// A Component is a registered dependency that also needs starting, stopping
// and health reporting (a connection pool, a background worker). The
// bootstrap package publishes components into the type registry and drives
// their lifecycle through a Registry: start in registration order, stop in
// reverse.
package component

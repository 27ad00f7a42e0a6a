package di

// Inject holds a value resolved from a Registry when the Inject was built.
// The value is captured once; later replacement or removal of T in the
// registry does not affect it.
type Inject[T any] struct {
	value T
}

// NewInject strictly resolves T from r and wraps the result. A missing T
// triggers the registry's fatal handler, exactly as Resolve does.
func NewInject[T any](r *Registry) Inject[T] {
	return Inject[T]{value: Resolve[T](r)}
}

// InjectDefault is NewInject against the process-wide registry.
func InjectDefault[T any]() Inject[T] {
	return NewInject[T](Default())
}

// Get returns the injected value.
func (i Inject[T]) Get() T {
	return i.value
}

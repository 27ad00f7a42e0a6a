package di

import (
	"fmt"

	"github.com/kbukum/inject/errors"
)

// Register stores v under the key of its static type T, replacing any value
// already registered for T.
//
//	di.Register(reg, &Store{}) // key: *Store
func Register[T any](r *Registry, v T) {
	r.store(KeyOf[T](), v)
}

// RegisterAs stores v under the capability type C instead of v's concrete
// type. The compiler checks that v satisfies C.
//
//	di.RegisterAs[Greeter](reg, &englishGreeter{})
//
// Resolving *englishGreeter afterwards finds nothing unless it was also
// registered directly.
func RegisterAs[C any](r *Registry, v C) {
	Register[C](r, v)
}

// Resolve returns the value registered for T, reference-identical to what was
// registered. A missing T is a programming error: the registry's fatal handler
// runs, which by default exits the process. Use SafeResolve or Lookup where a
// missing dependency is acceptable.
func Resolve[T any](r *Registry) T {
	if v, ok := SafeResolve[T](r); ok {
		return v
	}

	key := KeyOf[T]()
	r.missing(key)
	panic(errors.NotRegistered(key.String()))
}

// SafeResolve returns the value registered for T and true, or the zero value
// and false when T is not registered.
func SafeResolve[T any](r *Registry) (T, bool) {
	v, err := Lookup[T](r)
	return v, err == nil
}

// Lookup returns the value registered for T, or a NOT_REGISTERED
// *errors.AppError when T is not registered.
func Lookup[T any](r *Registry) (T, error) {
	var zero T
	key := KeyOf[T]()

	raw, ok := r.load(key)
	if !ok {
		return zero, errors.NotRegistered(key.String())
	}
	// A nil interface registered for an interface type is still registered.
	if raw == nil {
		return zero, nil
	}
	v, ok := raw.(T)
	if !ok {
		return zero, errors.TypeMismatch(key.String(), fmt.Sprintf("%T", raw))
	}
	return v, nil
}

// Has reports whether a value is registered for T.
func Has[T any](r *Registry) bool {
	_, ok := r.load(KeyOf[T]())
	return ok
}

// Remove deletes the value registered for T. Removing an unregistered type is
// a no-op.
func Remove[T any](r *Registry) {
	r.delete(KeyOf[T]())
}

// RemoveInstance deletes whatever is registered under the static type of v.
// Only the type matters: if another value of the same type replaced v, that
// value is removed.
func RemoveInstance[T any](r *Registry, _ T) {
	Remove[T](r)
}

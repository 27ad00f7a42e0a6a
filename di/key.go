package di

import "reflect"

// Key identifies a registry slot. It is derived from a compile-time type, so
// an interface type and the concrete types implementing it get distinct keys.
type Key struct {
	t reflect.Type
}

// KeyOf returns the key for the static type T.
func KeyOf[T any]() Key {
	return Key{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// Type returns the reflect.Type the key was derived from.
func (k Key) Type() reflect.Type {
	return k.t
}

// String renders the Go type name, e.g. "*app.Store" or "app.Greeter".
func (k Key) String() string {
	if k.t == nil {
		return "<nil>"
	}
	return k.t.String()
}

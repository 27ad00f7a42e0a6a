package bootstrap

import (
	"reflect"

	"github.com/kbukum/inject/component"
	"github.com/kbukum/inject/di"
)

// Provide registers v in the application's registry under its static type T.
func Provide[T any, C Config](a *App[C], v T) {
	di.Register(a.Registry, v)
}

// AddComponent registers c under T and hands it to the lifecycle registry,
// so it is started with the app and stopped in reverse order. A duplicate
// component name leaves the type registry untouched.
//
// Shutdown stops c through its Stop method only. If T still holds the same
// reference when the registry is closed, c is removed first, so a component
// that is also an io.Closer is not torn down twice. A component passed by
// value is not matched and stays subject to Close.
//
//	bootstrap.AddComponent[*Worker](app, worker)
func AddComponent[T component.Component, C Config](a *App[C], c T) error {
	if err := a.Components.Register(c); err != nil {
		return err
	}
	di.Register(a.Registry, c)
	a.detach = append(a.detach, func() {
		if cur, ok := di.SafeResolve[T](a.Registry); ok && sameValue(cur, c) {
			di.Remove[T](a.Registry)
		}
	})
	a.Summary.TrackComponent(c.Name(), di.KeyOf[T]().String())
	return nil
}

// sameValue reports whether a and b are the same reference value. Non-reference
// values never match.
func sameValue(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

// Package di provides a type-keyed dependency registry.
//
// A value is published once under its static type and any consumer obtains it
// later by naming that type, without the two being wired together directly.
// At most one value exists per type; registering again replaces it.
//
// # Registration
//
//	reg := di.New()
//	di.Register(reg, store)                  // key: *app.Store
//	di.RegisterAs[app.Greeter](reg, english) // key: app.Greeter
//
// # Resolution
//
//	store := di.Resolve[*app.Store](reg)          // exits the process if missing
//	greeter, ok := di.SafeResolve[app.Greeter](reg) // ok == false if missing
//
// # Auto-injection
//
//	type Handler struct {
//	    store di.Inject[*app.Store]
//	}
//	h := Handler{store: di.NewInject[*app.Store](reg)}
//	h.store.Get().Save(...)
//
// All operations on a Registry are serialized by an internal lock, so a
// Registry may be shared freely between goroutines. Stored values are handed
// out as-is; synchronizing their internal state is their own concern.
package di

// Package bootstrap assembles an application around a type registry.
//
// NewApp loads nothing by itself: it takes a typed config, applies defaults,
// validates it, initializes the logger and creates a di.Registry configured
// from the registry section. The config (under its own type), the logger and
// the component registry are published into the type registry, so any code
// holding the registry can resolve them.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	bootstrap.Provide(app, store)                       // key: *Store
//	bootstrap.AddComponent[*Worker](app, worker)        // key: *Worker, lifecycle-managed
//	return app.Run(ctx)
package bootstrap

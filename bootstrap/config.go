package bootstrap

import "github.com/kbukum/inject/config"

// Config is the constraint for application configuration types.
// Any struct embedding config.ServiceConfig satisfies it through its pointer
// type via promoted methods.
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	}
//	app, err := bootstrap.NewApp[*MyConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

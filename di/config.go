package di

import "github.com/kbukum/inject/validation"

// Strict-resolution miss policies.
const (
	OnMissingExit  = "exit"
	OnMissingPanic = "panic"
)

// Config contains registry configuration.
type Config struct {
	// OnMissing selects what Resolve does for an unregistered type:
	// "exit" terminates the process, "panic" raises a NOT_REGISTERED panic.
	OnMissing string `yaml:"on_missing" mapstructure:"on_missing" validate:"oneof=exit panic"`
}

// ApplyDefaults applies default values to registry configuration.
func (c *Config) ApplyDefaults() {
	if c.OnMissing == "" {
		c.OnMissing = OnMissingExit
	}
}

// Validate validates registry configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Options translates the configuration into registry options.
func (c *Config) Options() []Option {
	switch c.OnMissing {
	case OnMissingPanic:
		return []Option{WithFatalHandler(PanicOnMissing)}
	default:
		return []Option{WithFatalHandler(ExitOnMissing)}
	}
}

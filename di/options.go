package di

import (
	"fmt"
	"os"

	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
)

// Option configures a Registry during creation.
type Option func(*Registry)

// FatalHandler is invoked when Resolve finds no value for key. It must not
// return normally; if it does, Resolve panics instead.
type FatalHandler func(key Key)

// osExit is swapped in tests.
var osExit = os.Exit

// ExitOnMissing prints the missing type to stderr and exits with status 1.
func ExitOnMissing(key Key) {
	fmt.Fprintf(os.Stderr, "di: no provider registered for type %s\n", key)
	osExit(1)
}

// PanicOnMissing panics with a NOT_REGISTERED *errors.AppError.
func PanicOnMissing(key Key) {
	panic(errors.NotRegistered(key.String()))
}

// WithLogger sets the logger used for registry events.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithFatalHandler replaces the strict-resolution miss handler.
func WithFatalHandler(h FatalHandler) Option {
	return func(r *Registry) {
		if h != nil {
			r.onMissing = h
		}
	}
}

package di

import (
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
)

// Registry is a type-keyed store holding at most one value per Key.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]any
	id      string

	log       *logger.Logger
	onMissing FatalHandler
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:   make(map[Key]any),
		id:        uuid.NewString(),
		log:       logger.Get("di"),
		onMissing: ExitOnMissing,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the registry generation id. It changes on every Reset.
func (r *Registry) ID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Keys returns the registered keys ordered by type name.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sortKeys(keys)
	return keys
}

// Reset discards every entry and starts a new generation. Values already
// handed out stay valid for their holders; only future resolutions change.
func (r *Registry) Reset() {
	r.mu.Lock()
	discarded := len(r.entries)
	previous := r.id
	r.entries = make(map[Key]any)
	r.id = uuid.NewString()
	current := r.id
	r.mu.Unlock()

	r.log.Debug("Registry reset", logger.Fields(
		logger.FieldRegistry, current,
		"previous", previous,
		"discarded", discarded,
	))
}

// Close resets the registry and closes every discarded value implementing
// io.Closer, in key order. A reference value (pointer, map, chan) stored under
// several keys is closed once; other values are closed once per key. A
// panicking Close is reported as an INTERNAL_ERROR and the remaining values
// are still closed.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[Key]any)
	r.id = uuid.NewString()
	r.mu.Unlock()

	keys := make([]Key, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sortKeys(keys)

	seen := make(map[identity]struct{})
	var errs []error
	for _, k := range keys {
		closer, ok := entries[k].(io.Closer)
		if !ok {
			continue
		}
		if id, ok := identityOf(closer); ok {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		if err := closeValue(k, closer); err != nil {
			r.log.Error("Close failed", logger.Fields(
				logger.FieldType, k.String(),
				logger.FieldError, err.Error(),
			))
			errs = append(errs, fmt.Errorf("close %s: %w", k, err))
		}
	}

	r.log.Debug("Registry closed", logger.Fields(logger.FieldCount, len(keys)))
	return stderrors.Join(errs...)
}

func (r *Registry) store(key Key, v any) {
	r.mu.Lock()
	_, replaced := r.entries[key]
	r.entries[key] = v
	id := r.id
	r.mu.Unlock()

	r.log.Debug("Registered", logger.Fields(
		logger.FieldType, key.String(),
		logger.FieldRegistry, id,
		"replaced", replaced,
	))
}

func (r *Registry) load(key Key) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

func (r *Registry) delete(key Key) {
	r.mu.Lock()
	_, existed := r.entries[key]
	delete(r.entries, key)
	id := r.id
	r.mu.Unlock()

	r.log.Debug("Removed", logger.Fields(
		logger.FieldType, key.String(),
		logger.FieldRegistry, id,
		"existed", existed,
	))
}

// missing reports a strict-resolution miss and hands control to the fatal handler.
func (r *Registry) missing(key Key) {
	r.log.FatalNoExit("No provider registered for type "+key.String(), logger.Fields(
		logger.FieldType, key.String(),
		logger.FieldRegistry, r.ID(),
	))
	r.onMissing(key)
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
}

// identity is the address of a reference value together with its dynamic
// type, so distinct types sharing an address stay distinct.
type identity struct {
	t reflect.Type
	p uintptr
}

func identityOf(v any) (identity, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{t: rv.Type(), p: rv.Pointer()}, true
	default:
		return identity{}, false
	}
}

func closeValue(key Key, c io.Closer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Internal(fmt.Errorf("panic: %v", rec)).WithDetail("type", key.String())
		}
	}()
	return c.Close()
}

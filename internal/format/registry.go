package format

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Formatter converts a cell value into display text
type Formatter func(value interface{}) string

// Factory builds a formatter on first use
type Factory func() Formatter

// ErrUnknownFormatter matches every lookup of an unregistered key
var ErrUnknownFormatter = errors.New("unknown formatter")

// UnknownFormatterError reports a formatter key the registry cannot resolve
type UnknownFormatterError struct {
	Key string
}

func (e *UnknownFormatterError) Error() string {
	return fmt.Sprintf("unknown formatter %q", e.Key)
}

// Is makes errors.Is(err, ErrUnknownFormatter) hold
func (e *UnknownFormatterError) Is(target error) bool {
	return target == ErrUnknownFormatter
}

// Registry resolves formatter keys lazily and caches the result
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	cache     map[string]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		cache:     make(map[string]Formatter),
	}
}

// Register adds a factory for key, replacing any cached formatter
func (r *Registry) Register(key string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[key] = factory
	delete(r.cache, key)
}

// RegisterFunc registers a ready formatter
func (r *Registry) RegisterFunc(key string, f Formatter) {
	r.Register(key, func() Formatter { return f })
}

// Lookup returns the formatter for key, building it on first use
func (r *Registry) Lookup(key string) (Formatter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.cache[key]; ok {
		return f, nil
	}

	factory, ok := r.factories[key]
	if !ok {
		return nil, &UnknownFormatterError{Key: key}
	}

	f := factory()
	if f == nil {
		return nil, &UnknownFormatterError{Key: key}
	}
	r.cache[key] = f
	return f, nil
}

// Keys returns the registered keys in sorted order
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Cached reports whether key has been resolved already
func (r *Registry) Cached(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.cache[key]
	return ok
}

package jsonrpc2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync/atomic"
)

var (
	ErrDuplicateMethod = errors.New("jsonrpc2: method already registered")
	ErrRegistrySealed  = errors.New("jsonrpc2: registry is sealed")
)

// HandlerFunc defines the signature of JSON-RPC method handlers. args holds
// the bound parameters in declaration order.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Param declares one parameter of a method.
type Param struct {
	Name       string
	Default    any
	hasDefault bool
}

// Required declares a parameter that must be supplied by the caller.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional declares a parameter that falls back to def when not supplied.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, hasDefault: true}
}

func (p Param) IsRequired() bool {
	return !p.hasDefault
}

// Method is a registered handler together with its parameter shape.
type Method struct {
	Name    string
	Handler HandlerFunc
	Params  []Param

	names    []string
	defaults []json.RawMessage // marshalled once at registration
}

// Registry maps method names to handlers.
//
// Methods are registered during startup. Once sealed (NewProcessor seals
// the registry it is given) the registry is read-only, so lookups need no
// locking.
type Registry struct {
	methods map[string]*Method
	sealed  atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]*Method)}
}

// Register adds a method. It fails if the name is already taken, the
// registry is sealed, or the parameter list is malformed. Register must not
// be called concurrently.
func (r *Registry) Register(name string, handler HandlerFunc, params ...Param) error {
	if r.sealed.Load() {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, name)
	}
	if name == "" {
		return errors.New("jsonrpc2: method name is empty")
	}
	if handler == nil {
		return fmt.Errorf("jsonrpc2: method %q: nil handler", name)
	}
	if _, ok := r.methods[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMethod, name)
	}

	m := &Method{
		Name:     name,
		Handler:  handler,
		Params:   slices.Clone(params),
		names:    make([]string, len(params)),
		defaults: make([]json.RawMessage, len(params)),
	}

	seen := make(map[string]struct{}, len(params))
	optional := false
	for i, p := range params {
		if p.Name == "" {
			return fmt.Errorf("jsonrpc2: method %q: param %d has no name", name, i)
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("jsonrpc2: method %q: duplicate param %q", name, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.IsRequired() {
			// Positional binding fills defaults from the tail.
			if optional {
				return fmt.Errorf("jsonrpc2: method %q: required param %q follows an optional one", name, p.Name)
			}
		} else {
			optional = true
			b, err := json.Marshal(p.Default)
			if err != nil {
				return fmt.Errorf("jsonrpc2: method %q: default for %q: %w", name, p.Name, err)
			}
			m.defaults[i] = b
		}
		m.names[i] = p.Name
	}

	r.methods[name] = m
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, handler HandlerFunc, params ...Param) {
	if err := r.Register(name, handler, params...); err != nil {
		panic(err)
	}
}

// Lookup returns the method registered under name.
func (r *Registry) Lookup(name string) (*Method, bool) {
	m, ok := r.methods[name]
	return m, ok
}

// Methods returns the registered method names in sorted order.
func (r *Registry) Methods() []string {
	return slices.Sorted(maps.Keys(r.methods))
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.sealed.Store(true)
}

func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

package dsl

import (
	"fmt"

	resguard "github.com/dhilst/resguard"
)

// Registry is an explicit named-schema store, built once at startup and
// read-shared afterwards. It replaces looking schemas up off language-native
// class metadata at call time.
type Registry struct {
	schemas map[string]*resguard.RecordSchema
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*resguard.RecordSchema)}
}

// Register adds a schema under its name. Duplicate names are an error.
func (r *Registry) Register(s *resguard.RecordSchema) error {
	if s == nil {
		return fmt.Errorf("dsl: nil schema")
	}
	if _, dup := r.schemas[s.Name]; dup {
		return fmt.Errorf("dsl: schema %s already registered", s.Name)
	}
	r.schemas[s.Name] = s
	r.order = append(r.order, s.Name)
	return nil
}

// MustRegister registers every schema or panics on the first error.
func (r *Registry) MustRegister(ss ...*resguard.RecordSchema) {
	for _, s := range ss {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*resguard.RecordSchema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

package resguard

import (
	"fmt"
	"sort"
)

// FieldSpec declares one field of a record schema.
type FieldSpec struct {
	// Name is the field name on the instance. It doubles as the input key
	// unless Key is set.
	Name string
	// Key optionally maps the field to a different input key. This replaces
	// hidden identifier rewriting: a schema that needs a different external
	// key name says so explicitly.
	Key string
	// Type is the declared value shape.
	Type Type
	// Optional fields take Default (usually nil) when absent from input.
	Optional bool
	// HasDefault distinguishes an explicit nil default from no default.
	HasDefault bool
	Default    any
}

func (f *FieldSpec) inputKey() string {
	if f.Key != "" {
		return f.Key
	}
	return f.Name
}

// PostProcessFunc runs exactly once after all fields of an instance are
// populated. It may rewrite fields in place, typically to re-coerce a value
// the generic pass could not (a date-format string, say). The instance is
// treated as immutable after the hook returns.
type PostProcessFunc func(*Instance) error

// RecordSchema is a named, ordered set of field declarations. Schemas are
// declared once, treated as immutable afterwards, and safely read-shared by
// concurrent Parse calls. Schemas may reference other schemas through Ref
// fields; they form a DAG by construction.
type RecordSchema struct {
	Name        string
	Fields      []FieldSpec
	PostProcess PostProcessFunc

	index map[string]int // input key -> Fields position
}

// NewRecordSchema validates field declarations and builds the key index.
// Field names and input keys must be unique; declaration order is kept and is
// significant for error messages and printing.
func NewRecordSchema(name string, fields []FieldSpec, post PostProcessFunc) (*RecordSchema, error) {
	if name == "" {
		return nil, fmt.Errorf("resguard: record schema needs a name")
	}
	s := &RecordSchema{Name: name, Fields: fields, PostProcess: post, index: make(map[string]int, len(fields))}
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return nil, fmt.Errorf("resguard: record %s: field %d has no name", name, i)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("resguard: record %s: field %s has no type", name, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("resguard: record %s: duplicate field %s", name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if _, dup := s.index[f.inputKey()]; dup {
			return nil, fmt.Errorf("resguard: record %s: duplicate input key %s", name, f.inputKey())
		}
		s.index[f.inputKey()] = i
	}
	return s, nil
}

// MustRecordSchema is like NewRecordSchema but panics on error.
func MustRecordSchema(name string, fields []FieldSpec, post PostProcessFunc) *RecordSchema {
	s, err := NewRecordSchema(name, fields, post)
	if err != nil {
		panic(err)
	}
	return s
}

// FieldNames returns the declared field names in declaration order.
func (s *RecordSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i := range s.Fields {
		names[i] = s.Fields[i].Name
	}
	return names
}

// lookupKey returns the field declared for the given input key.
func (s *RecordSchema) lookupKey(key string) (*FieldSpec, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// Instance is a constructed value conforming to a RecordSchema: an ordered
// mapping from field name to coerced value. Instances are created per Parse
// call and owned solely by the caller that requested the parse.
type Instance struct {
	schema *RecordSchema
	values map[string]any
}

func newInstance(s *RecordSchema) *Instance {
	return &Instance{schema: s, values: make(map[string]any, len(s.Fields))}
}

// Schema returns the schema this instance was built against.
func (in *Instance) Schema() *RecordSchema { return in.schema }

// Get returns the value of the named field. Unknown names return nil.
func (in *Instance) Get(name string) any { return in.values[name] }

// Set rewrites a field value. It exists for PostProcess hooks; after the hook
// has run the instance is treated as immutable by convention.
func (in *Instance) Set(name string, v any) { in.values[name] = v }

// Fields returns the field names in declaration order.
func (in *Instance) Fields() []string { return in.schema.FieldNames() }

// AsMap projects the instance back to plain values, recursing into nested
// instances, sequences, and mappings. The result is suitable for feeding back
// into Parse.
func (in *Instance) AsMap() map[string]any {
	out := make(map[string]any, len(in.values))
	for name, v := range in.values {
		out[name] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Instance:
		return t.AsMap()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plainValue(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = plainValue(vv)
		}
		return out
	default:
		return v
	}
}

// sortedKeys returns map keys in ascending order for deterministic behavior.
func sortedKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

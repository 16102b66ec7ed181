package resguard

import (
	"encoding/json"
	"strings"
)

// Doc is a decoded object whose key order mirrors the input document. The
// ordered front doors (InferJSON, InferYAML) produce it so inference can list
// fields in the order the sample encountered them.
type Doc struct {
	keys   []string
	values map[string]any
}

// NewDoc returns an empty ordered object.
func NewDoc() *Doc {
	return &Doc{values: make(map[string]any)}
}

// Set stores a value, appending the key on first sight. Re-setting an
// existing key keeps its original position (last value wins).
func (d *Doc) Set(key string, v any) {
	if _, seen := d.values[key]; !seen {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value stored under key.
func (d *Doc) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in document order.
func (d *Doc) Keys() []string { return d.keys }

// Len returns the number of keys.
func (d *Doc) Len() int { return len(d.keys) }

// Map projects the document to plain nested maps, the shape Parse consumes.
func (d *Doc) Map() map[string]any {
	out := make(map[string]any, len(d.keys))
	for k, v := range d.values {
		out[k] = docPlain(v)
	}
	return out
}

func docPlain(v any) any {
	switch t := v.(type) {
	case *Doc:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = docPlain(t[i])
		}
		return out
	default:
		return v
	}
}

// Tree is the result of schema inference: every inferred record in dependency
// order (children discovered before the parents that reference them), with
// the root schema last.
type Tree struct {
	Root    *RecordSchema
	Schemas []*RecordSchema
}

// Infer samples the shape of a single document and produces a schema tree
// rooted at rootName. It is best effort and never fails: ambiguous input
// degrades to the wildcard or absence type rather than erroring, and a null
// sample value infers the absence marker. Nested objects become nested named
// schemas using their key as the name.
//
// Ordered input (*Doc, as produced by InferJSON/InferYAML) keeps the sample's
// key order; plain map input falls back to sorted keys so output stays
// deterministic.
func Infer(rootName string, sample any) *Tree {
	if rootName == "" {
		rootName = "Root"
	}
	t := &Tree{}
	t.Root = t.inferRecord(rootName, sample)
	return t
}

func (t *Tree) inferRecord(name string, sample any) *RecordSchema {
	var fields []FieldSpec
	switch m := sample.(type) {
	case *Doc:
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			fields = append(fields, FieldSpec{Name: k, Type: t.inferType(k, v)})
		}
	case map[string]any:
		for _, k := range sortedKeys(m) {
			fields = append(fields, FieldSpec{Name: k, Type: t.inferType(k, m[k])})
		}
	}
	// Field names come from a decoded document, so uniqueness holds and the
	// constructor cannot fail.
	s := MustRecordSchema(name, fields, nil)
	t.Schemas = append(t.Schemas, s)
	return s
}

func (t *Tree) inferType(key string, v any) Type {
	switch vv := v.(type) {
	case *Doc, map[string]any:
		return &Ref{Schema: t.inferRecord(key, v)}
	case []any:
		return t.inferSeq(key, vv)
	case bool:
		return Bool()
	case string:
		return String()
	case json.Number:
		if strings.ContainsAny(vv.String(), ".eE") {
			return Float()
		}
		return Int()
	case float64:
		return Float()
	case int, int64, uint64:
		return Int()
	case nil:
		return Null()
	default:
		return Any()
	}
}

// inferSeq samples sequence elements. A single element kind yields a plain
// sequence; mixed kinds yield a sequence of a union in first-seen order.
// Object elements all share the schema inferred from the first one.
func (t *Tree) inferSeq(key string, items []any) Type {
	if len(items) == 0 {
		return &Seq{Elem: Any()}
	}
	var members []Type
	var objRef Type
	seen := map[string]struct{}{}
	for _, item := range items {
		var mt Type
		switch item.(type) {
		case *Doc, map[string]any:
			if objRef == nil {
				objRef = &Ref{Schema: t.inferRecord(key, item)}
			}
			mt = objRef
		default:
			mt = t.inferType(key, item)
		}
		sig := TypeString(mt)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		members = append(members, mt)
	}
	if len(members) == 1 {
		return &Seq{Elem: members[0]}
	}
	return &Seq{Elem: &Union{Members: members}}
}

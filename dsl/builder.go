// Package dsl provides the fluent builder used to declare record schemas
// explicitly at startup, replacing any runtime reflection over native type
// declarations.
package dsl

import (
	resguard "github.com/dhilst/resguard"
)

// Builder accumulates field declarations for one record schema.
type Builder struct {
	name   string
	fields []resguard.FieldSpec
	post   resguard.PostProcessFunc
}

// Record starts a schema declaration with the given name.
func Record(name string) *Builder {
	return &Builder{name: name}
}

// Field appends a field with its declared type. Fields are required unless
// marked Optional or given a Default; declaration order is significant.
func (b *Builder) Field(name string, t resguard.Type) *FieldStep {
	b.fields = append(b.fields, resguard.FieldSpec{Name: name, Type: t})
	return &FieldStep{b: b, idx: len(b.fields) - 1}
}

// PostProcess installs the hook that runs once after all fields are set.
func (b *Builder) PostProcess(fn resguard.PostProcessFunc) *Builder {
	b.post = fn
	return b
}

// Build validates the declarations and returns the schema.
func (b *Builder) Build() (*resguard.RecordSchema, error) {
	return resguard.NewRecordSchema(b.name, b.fields, b.post)
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *resguard.RecordSchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// FieldStep scopes modifiers to the field just declared.
type FieldStep struct {
	b   *Builder
	idx int
}

// Optional marks the field as optional; absent input leaves it nil (or its
// default when one is set).
func (f *FieldStep) Optional() *FieldStep {
	f.b.fields[f.idx].Optional = true
	return f
}

// Default sets the value used when the field is absent from input. The value
// is stored as-is, without coercion.
func (f *FieldStep) Default(v any) *FieldStep {
	fs := &f.b.fields[f.idx]
	fs.HasDefault = true
	fs.Default = v
	return f
}

// Key maps the field to a different input key than its declared name.
func (f *FieldStep) Key(key string) *FieldStep {
	f.b.fields[f.idx].Key = key
	return f
}

// Field starts the next field declaration.
func (f *FieldStep) Field(name string, t resguard.Type) *FieldStep {
	return f.b.Field(name, t)
}

// PostProcess installs the post-construction hook on the builder.
func (f *FieldStep) PostProcess(fn resguard.PostProcessFunc) *Builder {
	return f.b.PostProcess(fn)
}

// Build finalizes the schema.
func (f *FieldStep) Build() (*resguard.RecordSchema, error) { return f.b.Build() }

// MustBuild is like Build but panics on error.
func (f *FieldStep) MustBuild() *resguard.RecordSchema { return f.b.MustBuild() }

package resguard

// Kind identifies a type-expression node.
type Kind int

const (
	KindPrimitive Kind = iota
	KindOptional
	KindSeq
	KindMap
	KindLiteral
	KindUnion
	KindRef
	KindCoerce
	KindAny
	KindNull
)

// Type is the declared shape of a field value. A Type is built once when the
// schema is declared and treated as immutable afterwards, so it is safe to
// share across concurrent Parse calls.
type Type interface {
	Kind() Kind
}

// Primitive represents the scalar targets: "string", "int", "float", "bool".
// Prefer the String/Int/Float/Bool constructors; they return shared instances
// so resolved types compare by identity.
type Primitive struct {
	Name string
}

func (p *Primitive) Kind() Kind { return KindPrimitive }

// Optional wraps a type that may also be absent or null.
type Optional struct {
	Elem Type
}

func (o *Optional) Kind() Kind { return KindOptional }

// Seq represents a sequence whose elements share one declared type.
type Seq struct {
	Elem Type
}

func (s *Seq) Kind() Kind { return KindSeq }

// Map represents a mapping with typed keys and values.
type Map struct {
	Key  Type
	Elem Type
}

func (m *Map) Kind() Kind { return KindMap }

// Literal is simultaneously a type and its set of allowed values, like an
// inline enum. Values are kept in declaration order.
type Literal struct {
	Values []any
}

func (l *Literal) Kind() Kind { return KindLiteral }

// Union is an ordered set of alternative types.
type Union struct {
	Members []Type
}

func (u *Union) Kind() Kind { return KindUnion }

// Ref points at another record schema, producing nested instances on parse.
type Ref struct {
	Schema *RecordSchema
}

func (r *Ref) Kind() Kind { return KindRef }

// CoerceFunc builds a typed value from a raw decoded one.
type CoerceFunc func(raw any) (any, error)

// Coercer lets an arbitrary transformation function stand in as a field type.
// Construction is delegated entirely to Fn; the raw value never touches the
// generic primitive coercion path. Name is used when rendering the type.
type Coercer struct {
	Name string
	Fn   CoerceFunc
}

func (c *Coercer) Kind() Kind { return KindCoerce }

// Via wraps fn as a Type usable anywhere a concrete type is expected as a
// field annotation. It replaces the subclass-with-custom-constructor trick:
// the base type is implied by whatever fn returns.
func Via(name string, fn CoerceFunc) Type {
	return &Coercer{Name: name, Fn: fn}
}

type anyType struct{}

func (anyType) Kind() Kind { return KindAny }

type nullType struct{}

func (nullType) Kind() Kind { return KindNull }

var (
	strPrim   = &Primitive{Name: "string"}
	intPrim   = &Primitive{Name: "int"}
	floatPrim = &Primitive{Name: "float"}
	boolPrim  = &Primitive{Name: "bool"}
	anyVal    = anyType{}
	nullVal   = nullType{}
)

// String returns the string primitive. It accepts any value with a textual
// representation, so treat it as the escape hatch of the type system.
func String() Type { return strPrim }

// Int returns the integer primitive.
func Int() Type { return intPrim }

// Float returns the floating-point primitive.
func Float() Type { return floatPrim }

// Bool returns the boolean primitive.
func Bool() Type { return boolPrim }

// Any returns the unconstrained wildcard marker.
func Any() Type { return anyVal }

// Null returns the absence marker.
func Null() Type { return nullVal }

// Resolve normalizes a declared type into the concrete target(s) usable for
// coercion. It is pure and total: no input produces an error.
//
//   - Optional/Union: members denoting absence (Null) or anything (Any) are
//     dropped. One survivor is returned unwrapped; several survive as a Union
//     in input order; if filtering would empty the set, the input is returned
//     unchanged.
//   - Seq: unwraps to the element type, exactly one container level. Call
//     sites coercing each element want the element target, not the container;
//     nested sequences stay sequences.
//   - Literal: identity. Literals are types and values at the same time.
//   - Anything else: identity.
func Resolve(t Type) Type {
	switch tt := t.(type) {
	case *Optional:
		return resolveMembers(t, []Type{tt.Elem})
	case *Union:
		return resolveMembers(t, tt.Members)
	case *Seq:
		return resolveMembers(t, []Type{tt.Elem})
	default:
		return t
	}
}

func resolveMembers(orig Type, members []Type) Type {
	kept := make([]Type, 0, len(members))
	for _, m := range members {
		switch m.Kind() {
		case KindNull, KindAny:
			continue
		}
		kept = append(kept, m)
	}
	switch len(kept) {
	case 0:
		return orig
	case 1:
		return kept[0]
	default:
		return &Union{Members: kept}
	}
}

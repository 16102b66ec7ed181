package resguard

import (
	"fmt"
	"strings"
)

// Print renders every schema of an inferred tree, children before parents, as
// declarative blocks. It is pure text generation; no validation happens here.
func Print(t *Tree) string {
	b := &strings.Builder{}
	for i, s := range t.Schemas {
		if i > 0 {
			b.WriteString("\n")
		}
		printRecord(b, s)
	}
	return b.String()
}

func printRecord(b *strings.Builder, s *RecordSchema) {
	fmt.Fprintf(b, "record %s {\n", s.Name)
	for i := range s.Fields {
		f := &s.Fields[i]
		fmt.Fprintf(b, "  %s: %s", f.Name, TypeString(f.Type))
		if f.Key != "" && f.Key != f.Name {
			fmt.Fprintf(b, " (key %q)", f.Key)
		}
		if f.HasDefault {
			if f.Default == nil {
				b.WriteString(" = null")
			} else {
				fmt.Fprintf(b, " = %v", f.Default)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

// TypeString renders a type expression in its declared notation.
func TypeString(t Type) string {
	switch tt := t.(type) {
	case *Primitive:
		return tt.Name
	case *Optional:
		return memberString(tt.Elem) + "?"
	case *Seq:
		return "[]" + memberString(tt.Elem)
	case *Map:
		return "map[" + memberString(tt.Key) + "]" + memberString(tt.Elem)
	case *Literal:
		vals := make([]string, len(tt.Values))
		for i, v := range tt.Values {
			vals[i] = fmt.Sprintf("%v", v)
		}
		return "literal(" + strings.Join(vals, ", ") + ")"
	case *Union:
		parts := make([]string, len(tt.Members))
		for i, m := range tt.Members {
			parts[i] = TypeString(m)
		}
		return strings.Join(parts, " | ")
	case *Ref:
		return tt.Schema.Name
	case *Coercer:
		return tt.Name
	case nullType:
		return "null"
	default:
		return "any"
	}
}

// memberString renders a type nested inside a container, parenthesizing
// unions so "[]" and "?" bind to the whole alternative set.
func memberString(t Type) string {
	if _, ok := t.(*Union); ok {
		return "(" + TypeString(t) + ")"
	}
	return TypeString(t)
}

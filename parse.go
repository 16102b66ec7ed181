package resguard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/dhilst/resguard/i18n"
)

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// Lenient disables the unknown-key check: undeclared input keys are
	// skipped with a warning instead of failing the parse. The zero value is
	// strict mode.
	Lenient bool
}

// Parse walks data against the schema, coercing every declared field in
// declaration order and recursing into nested records. It returns a fully
// populated Instance or structured Issues; no partial instance survives a
// failure.
func Parse(ctx context.Context, s *RecordSchema, data map[string]any, opts ...ParseOpt) (*Instance, error) {
	if s == nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	inst, iss := parseRecord(ctx, s, data, opt)
	if len(iss) > 0 {
		return nil, iss
	}
	return inst, nil
}

// SafeParse parses data, returning (nil, false) on validation error.
func SafeParse(ctx context.Context, s *RecordSchema, data map[string]any, opts ...ParseOpt) (*Instance, bool) {
	inst, err := Parse(ctx, s, data, opts...)
	if err != nil {
		return nil, false
	}
	return inst, true
}

func parseRecord(ctx context.Context, s *RecordSchema, data map[string]any, opt ParseOpt) (*Instance, Issues) {
	inst := newInstance(s)
	var iss Issues
	for i := range s.Fields {
		f := &s.Fields[i]
		raw, present := data[f.inputKey()]
		if !present || raw == nil {
			// JSON null counts as absence.
			if f.Optional || f.HasDefault {
				inst.Set(f.Name, f.Default)
				continue
			}
			iss = AppendIssues(iss, missingField(s.Name, f.Name))
			continue
		}
		v, i2 := coerceValue(ctx, opt, s.Name, f.Name, "/"+f.Name, f.Type, raw)
		if len(i2) > 0 {
			iss = AppendIssues(iss, i2...)
			continue
		}
		inst.Set(f.Name, v)
	}
	// unknown keys in key-sorted order for deterministic reporting
	for _, k := range sortedKeys(data) {
		if _, known := s.lookupKey(k); known {
			continue
		}
		if opt.Lenient {
			logger.WithFields(logrus.Fields{"record": s.Name, "key": k}).Warn("ignoring unknown field")
			continue
		}
		iss = AppendIssues(iss, unknownField(s.Name, k, s.FieldNames()))
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if s.PostProcess != nil {
		if err := s.PostProcess(inst); err != nil {
			if i2, ok := AsIssues(err); ok {
				return nil, i2
			}
			return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
		}
	}
	return inst, nil
}

// coerceValue builds the typed value for one declared type. Issues it returns
// already carry the full path from the record root.
func coerceValue(ctx context.Context, opt ParseOpt, record, field, path string, t Type, raw any) (any, Issues) {
	switch tt := t.(type) {
	case *Ref:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, Issues{coercionFailure(path, record, field, raw, fmt.Errorf("expected object for record %s, got %T", tt.Schema.Name, raw))}
		}
		child, i2 := parseRecord(ctx, tt.Schema, m, opt)
		if len(i2) > 0 {
			return nil, rebase(path, i2)
		}
		return child, nil
	case *Literal:
		// Membership against Values is deliberately not enforced; literal
		// fields accept the raw value unchanged.
		return raw, nil
	case *Seq:
		items, ok := raw.([]any)
		if !ok {
			return nil, Issues{coercionFailure(path, record, field, raw, fmt.Errorf("expected array, got %T", raw))}
		}
		elem := Resolve(tt)
		if elem == t {
			// Degenerate element type (absence/wildcard only): elements pass
			// through unchanged.
			elem = Any()
		}
		out := make([]any, 0, len(items))
		var iss Issues
		for i, item := range items {
			v, i2 := coerceValue(ctx, opt, record, field, path+"/"+strconv.Itoa(i), elem, item)
			if len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				continue
			}
			out = append(out, v)
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	case *Map:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, Issues{coercionFailure(path, record, field, raw, fmt.Errorf("expected mapping, got %T", raw))}
		}
		out := make(map[string]any, len(m))
		var iss Issues
		for _, k := range sortedKeys(m) {
			// Keys stay strings on the wire; the declared key type is checked
			// by coercing and discarding the result.
			if _, i2 := coerceValue(ctx, opt, record, field, path+"/"+k, tt.Key, k); len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				continue
			}
			v, i2 := coerceValue(ctx, opt, record, field, path+"/"+k, tt.Elem, m[k])
			if len(i2) > 0 {
				iss = AppendIssues(iss, i2...)
				continue
			}
			out[k] = v
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	case *Optional, *Union:
		resolved := Resolve(t)
		if resolved == t {
			// Degenerate expression: only absence/wildcard members. Accept
			// the raw value unchanged, as documented.
			return raw, nil
		}
		if u, ok := resolved.(*Union); ok {
			return coerceUnion(ctx, opt, record, field, path, u, raw)
		}
		return coerceValue(ctx, opt, record, field, path, resolved, raw)
	case *Coercer:
		v, err := tt.Fn(raw)
		if err != nil {
			return nil, Issues{coercionFailure(path, record, field, raw, err)}
		}
		return v, nil
	case *Primitive:
		v, err := coercePrimitive(tt, raw)
		if err != nil {
			return nil, Issues{coercionFailure(path, record, field, raw, err)}
		}
		return v, nil
	default: // Any, Null
		return raw, nil
	}
}

// coerceUnion tries the surviving members in declared order; the first one
// that accepts the raw value wins. When every member rejects it, the issues
// of the last attempt are reported.
func coerceUnion(ctx context.Context, opt ParseOpt, record, field, path string, u *Union, raw any) (any, Issues) {
	var last Issues
	for _, m := range u.Members {
		v, i2 := coerceValue(ctx, opt, record, field, path, m, raw)
		if len(i2) == 0 {
			return v, nil
		}
		last = i2
	}
	return nil, last
}

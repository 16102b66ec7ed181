package resguard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhilst/resguard/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired    = "required"     // non-optional, no-default field absent from input
	CodeUnknownKey  = "unknown_key"  // strict mode met an undeclared input key
	CodeCoercion    = "coercion"     // the target type rejected the raw value
	CodeInvalidType = "invalid_type" // input shape does not match the declared container
	CodeParseError  = "parse_error"  // the document could not be decoded at all
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer into the input (for example: /status/sentCount).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error, preserved and surfaced.
	// Params carries structured parameters ({"record":"Bar","key":"badkey",...})
	// so callers can branch without parsing messages.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// missingField reports a non-optional, no-default field absent from input.
func missingField(record, field string) Issue {
	return Issue{
		Path:    "/" + field,
		Code:    CodeRequired,
		Message: i18n.T(CodeRequired, map[string]string{"record": record, "field": field}),
		Params:  map[string]any{"record": record, "field": field},
	}
}

// unknownField reports an undeclared input key in strict mode. The expected
// field names are enumerated in declaration order, both in the message and in
// Params.
func unknownField(record, key string, expected []string) Issue {
	return Issue{
		Path: "/" + key,
		Code: CodeUnknownKey,
		Message: i18n.T(CodeUnknownKey, map[string]string{
			"record":   record,
			"key":      key,
			"expected": strings.Join(expected, ","),
		}),
		Params: map[string]any{"record": record, "key": key, "expected": expected},
	}
}

// coercionFailure wraps the underlying construction failure for a field.
func coercionFailure(path, record, field string, raw any, cause error) Issue {
	msg := i18n.T(CodeCoercion, map[string]string{
		"record": record,
		"field":  field,
		"value":  fmt.Sprintf("%v", raw),
	})
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return Issue{
		Path:    path,
		Code:    CodeCoercion,
		Message: msg,
		Cause:   cause,
		Params:  map[string]any{"record": record, "field": field, "value": raw},
	}
}

// rebase prefixes every issue path with base, used when bubbling nested record
// failures up through the field that triggered the recursive call.
func rebase(base string, iss Issues) Issues {
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

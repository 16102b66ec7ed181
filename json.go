package resguard

import (
	"bytes"
	"context"
	"fmt"

	j "github.com/goccy/go-json"

	"github.com/dhilst/resguard/i18n"
)

// decodeJSON decodes a document into plain map/slice/scalar values. Numbers
// are kept as json.Number so inference and coercion can tell int from float.
func decodeJSON(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseJSON decodes a JSON document and parses the resulting object against
// the schema.
func ParseJSON(ctx context.Context, s *RecordSchema, data []byte, opts ...ParseOpt) (*Instance, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected object"}}
	}
	return Parse(ctx, s, m, opts...)
}

// InferJSON decodes a JSON document with key order preserved and infers a
// schema tree rooted at rootName.
func InferJSON(rootName string, data []byte) (*Tree, error) {
	v, err := decodeOrderedJSON(data)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	return Infer(rootName, v), nil
}

// decodeOrderedJSON walks the token stream so objects come back as *Doc with
// key order mirroring the input document. Plain map decoding would lose the
// order the sample encountered its keys in.
func decodeOrderedJSON(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return readOrderedValue(dec)
}

func readOrderedValue(dec *j.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			d := NewDoc()
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := ktok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", ktok)
				}
				v, err := readOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				d.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return d, nil
		case '[':
			arr := []any{}
			for dec.More() {
				v, err := readOrderedValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		// string, bool, json.Number, nil
		return tok, nil
	}
}

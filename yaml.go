package resguard

import (
	"context"

	yaml "gopkg.in/yaml.v3"

	"github.com/dhilst/resguard/i18n"
)

// ParseYAML decodes a YAML document and parses the resulting mapping against
// the schema.
func ParseYAML(ctx context.Context, s *RecordSchema, data []byte, opts ...ParseOpt) (*Instance, error) {
	v, err := decodeYAML(data, false)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected mapping"}}
	}
	return Parse(ctx, s, m, opts...)
}

// InferYAML decodes a YAML document with key order preserved and infers a
// schema tree rooted at rootName.
func InferYAML(rootName string, data []byte) (*Tree, error) {
	v, err := decodeYAML(data, true)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	return Infer(rootName, v), nil
}

// decodeYAML normalizes a yaml.Node tree into the same value shapes the JSON
// path produces. With ordered set, mappings come back as *Doc preserving the
// document's key order.
func decodeYAML(data []byte, ordered bool) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0], ordered)
	}
	return yamlValue(&node, ordered)
}

func yamlValue(n *yaml.Node, ordered bool) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		if ordered {
			d := NewDoc()
			for i := 0; i+1 < len(n.Content); i += 2 {
				var key string
				if err := n.Content[i].Decode(&key); err != nil {
					return nil, err
				}
				v, err := yamlValue(n.Content[i+1], ordered)
				if err != nil {
					return nil, err
				}
				d.Set(key, v)
			}
			return d, nil
		}
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, err
			}
			v, err := yamlValue(n.Content[i+1], ordered)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c, ordered)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.AliasNode:
		return yamlValue(n.Alias, ordered)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

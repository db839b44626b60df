// internal/rules/parse.go
package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/solatis/querytext/internal/types"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

/*
 * Boundary conversion from untyped documents to condition trees.
 *
 * The rule builder emits plain objects. Only five keys carry meaning:
 *   - condition: the connective of a group
 *   - rules:     the children of a group
 *   - field, operator, value: the parts of a rule
 * Every other key is ignored. Shape is decided once, here:
 *   - object with "rules"                          -> *types.Group
 *   - object with any of field/operator/value      -> *types.Rule
 *   - anything else                                -> *types.Unrecognized
 *
 * Conversion never fails on shape; only undecodable bytes are errors. Strict
 * callers run Validate on the result.
 */

// Shape keys recognised on a node.
const (
	KeyCondition = "condition"
	KeyRules     = "rules"
	KeyField     = "field"
	KeyOperator  = "operator"
	KeyValue     = "value"
)

// ParseOptions tunes conversion.
type ParseOptions struct {
	// DetectDates turns date-looking strings into date values.
	DetectDates bool
}

// Format names a document encoding.
type Format string

const (
	FormatAuto Format = "auto" // JSON when the bytes are valid JSON, else YAML
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name; empty means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("rules: unknown format %q (want auto, json or yaml)", s)
	}
}

// Decode decodes a document without interpreting its shape.
// Empty input decodes to nil.
func Decode(data []byte, format Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if format == FormatAuto {
		format = FormatYAML
		if json.Valid(data) {
			format = FormatJSON
		}
	}

	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("rules: invalid JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("rules: invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("rules: unknown format %q", format)
	}
	return raw, nil
}

// Parse decodes a JSON condition tree.
// Empty input yields an Unrecognized node, which renders as empty text.
func Parse(data []byte) (types.Condition, error) {
	return ParseWithOptions(data, nil)
}

// ParseWithOptions decodes a JSON condition tree using opts.
func ParseWithOptions(data []byte, opts *ParseOptions) (types.Condition, error) {
	raw, err := Decode(data, FormatJSON)
	if err != nil {
		return nil, err
	}
	return FromValue(raw, opts), nil
}

// ParseYAML decodes a YAML condition tree.
func ParseYAML(data []byte, opts *ParseOptions) (types.Condition, error) {
	raw, err := Decode(data, FormatYAML)
	if err != nil {
		return nil, err
	}
	return FromValue(raw, opts), nil
}

// FromStruct converts a protobuf Struct carrying a condition tree.
func FromStruct(s *structpb.Struct, opts *ParseOptions) types.Condition {
	if s == nil {
		return &types.Unrecognized{}
	}
	return FromValue(s.AsMap(), opts)
}

// FromValue converts a decoded value into a condition tree.
// If opts is nil, default options are used.
func FromValue(v any, opts *ParseOptions) types.Condition {
	if opts == nil {
		opts = &ParseOptions{}
	}

	node, ok := asObject(v)
	if !ok {
		return &types.Unrecognized{}
	}

	if children, ok := node[KeyRules]; ok {
		return groupFromObject(node, children, opts)
	}

	_, hasField := node[KeyField]
	_, hasOperator := node[KeyOperator]
	_, hasValue := node[KeyValue]
	if hasField || hasOperator || hasValue {
		return &types.Rule{
			Field:    scalarText(node[KeyField]),
			Operator: scalarText(node[KeyOperator]),
			Value:    ConvertValue(node[KeyValue], opts.DetectDates),
		}
	}

	return &types.Unrecognized{Keys: sortedKeys(node)}
}

// groupFromObject builds a group; a non-list "rules" gives an empty group.
func groupFromObject(node map[string]any, children any, opts *ParseOptions) *types.Group {
	g := &types.Group{}
	if c, ok := node[KeyCondition].(string); ok {
		g.Connective = types.Connective(c)
	}

	list, ok := children.([]any)
	if !ok {
		return g
	}
	g.Children = make([]types.Condition, 0, len(list))
	for _, child := range list {
		g.Children = append(g.Children, FromValue(child, opts))
	}
	return g
}

// asObject accepts both JSON-style and YAML-style maps.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// scalarText renders field and operator values as text; null is empty.
func scalarText(v any) string {
	switch val := ConvertValue(v, false); val.Kind {
	case types.ValueString:
		return val.Str
	case types.ValueNumber:
		return strconv.FormatFloat(val.Num, 'f', -1, 64)
	case types.ValueBool:
		return strconv.FormatBool(val.Bool)
	default:
		return ""
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

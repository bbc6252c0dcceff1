package tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ArgKind discriminates the shapes a tool-call argument can take.
type ArgKind int

const (
	KindNull ArgKind = iota
	KindScalar
	KindSequence
	KindMapping
)

// ArgValue is a tagged variant over the argument shapes recipes may declare:
// a scalar, an ordered sequence, a string-keyed mapping, or null. The variant
// form lets the recursive rendering pass switch exhaustively on Kind.
type ArgValue struct {
	Kind     ArgKind
	Scalar   string
	Sequence []ArgValue
	Mapping  map[string]ArgValue
}

// NullArg returns the null argument value.
func NullArg() ArgValue { return ArgValue{Kind: KindNull} }

// ScalarArg wraps a string as a scalar argument value.
func ScalarArg(value string) ArgValue { return ArgValue{Kind: KindScalar, Scalar: value} }

// SequenceArg wraps values as an ordered sequence argument.
func SequenceArg(values ...ArgValue) ArgValue {
	return ArgValue{Kind: KindSequence, Sequence: values}
}

// MappingArg wraps a string-keyed mapping argument.
func MappingArg(values map[string]ArgValue) ArgValue {
	return ArgValue{Kind: KindMapping, Mapping: values}
}

// UnmarshalYAML decodes an arbitrary YAML node into the variant form.
// Scalars keep their literal text, so numbers and booleans arrive exactly as
// written in the recipe.
func (value *ArgValue) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := argFromNode(node)
	if err != nil {
		return err
	}
	*value = decoded
	return nil
}

func argFromNode(node *yaml.Node) (ArgValue, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return NullArg(), nil
		}
		return ScalarArg(node.Value), nil
	case yaml.SequenceNode:
		sequence := make([]ArgValue, 0, len(node.Content))
		for _, itemNode := range node.Content {
			item, err := argFromNode(itemNode)
			if err != nil {
				return ArgValue{}, err
			}
			sequence = append(sequence, item)
		}
		return ArgValue{Kind: KindSequence, Sequence: sequence}, nil
	case yaml.MappingNode:
		mapping := make(map[string]ArgValue, len(node.Content)/2)
		for index := 0; index+1 < len(node.Content); index += 2 {
			entry, err := argFromNode(node.Content[index+1])
			if err != nil {
				return ArgValue{}, err
			}
			mapping[node.Content[index].Value] = entry
		}
		return ArgValue{Kind: KindMapping, Mapping: mapping}, nil
	case yaml.AliasNode:
		return argFromNode(node.Alias)
	default:
		return ArgValue{}, fmt.Errorf("unsupported argument node kind %d", node.Kind)
	}
}

// ArgFromAny converts decoded generic data (as produced by yaml or json
// unmarshalling into any) to the variant form.
func ArgFromAny(data any) ArgValue {
	switch typed := data.(type) {
	case nil:
		return NullArg()
	case string:
		return ScalarArg(typed)
	case bool:
		return ScalarArg(strconv.FormatBool(typed))
	case int:
		return ScalarArg(strconv.Itoa(typed))
	case int64:
		return ScalarArg(strconv.FormatInt(typed, 10))
	case float64:
		return ScalarArg(strconv.FormatFloat(typed, 'f', -1, 64))
	case []any:
		sequence := make([]ArgValue, 0, len(typed))
		for _, item := range typed {
			sequence = append(sequence, ArgFromAny(item))
		}
		return ArgValue{Kind: KindSequence, Sequence: sequence}
	case map[string]any:
		mapping := make(map[string]ArgValue, len(typed))
		for key, item := range typed {
			mapping[key] = ArgFromAny(item)
		}
		return ArgValue{Kind: KindMapping, Mapping: mapping}
	default:
		return ScalarArg(fmt.Sprintf("%v", typed))
	}
}

// Rendered applies renderText to every scalar in the value, recursively, and
// returns the rewritten copy. Null values pass through untouched.
func (value ArgValue) Rendered(renderText func(string) string) ArgValue {
	switch value.Kind {
	case KindScalar:
		return ScalarArg(renderText(value.Scalar))
	case KindSequence:
		sequence := make([]ArgValue, 0, len(value.Sequence))
		for _, item := range value.Sequence {
			sequence = append(sequence, item.Rendered(renderText))
		}
		return ArgValue{Kind: KindSequence, Sequence: sequence}
	case KindMapping:
		mapping := make(map[string]ArgValue, len(value.Mapping))
		for key, item := range value.Mapping {
			mapping[key] = item.Rendered(renderText)
		}
		return ArgValue{Kind: KindMapping, Mapping: mapping}
	default:
		return value
	}
}

// Field looks up a mapping entry by key.
func (value ArgValue) Field(key string) (ArgValue, bool) {
	if value.Kind != KindMapping {
		return ArgValue{}, false
	}
	entry, found := value.Mapping[key]
	return entry, found
}

// Text returns the scalar text of the value, or "" for null and non-scalar
// shapes.
func (value ArgValue) Text() string {
	if value.Kind == KindScalar {
		return value.Scalar
	}
	return ""
}

// FieldText returns the scalar text of a mapping entry, or "" when the entry
// is absent or not a scalar.
func (value ArgValue) FieldText(key string) string {
	entry, found := value.Field(key)
	if !found {
		return ""
	}
	return entry.Text()
}

// String renders a compact human-readable form for logs and errors.
func (value ArgValue) String() string {
	switch value.Kind {
	case KindNull:
		return "null"
	case KindScalar:
		return value.Scalar
	case KindSequence:
		parts := make([]string, 0, len(value.Sequence))
		for _, item := range value.Sequence {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		keys := make([]string, 0, len(value.Mapping))
		for key := range value.Mapping {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+": "+value.Mapping[key].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}


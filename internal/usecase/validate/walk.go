package validate

import (
	"fmt"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
)

// walker performs the lockstep walk of the definition tree and the
// document, collecting every violation rather than stopping at the first.
type walker struct {
	violations []validation.Violation
}

func (w *walker) add(path, expected, actual string) {
	w.violations = append(w.violations, validation.NewViolation(path, expected, actual))
}

// value checks one value against one node and returns its normalized form.
func (w *walker) value(node *schema.Node, v any, path string) any {
	if v == nil {
		if node.Nullable() {
			return nil
		}
		w.add(path, expectedShape(node), "null")
		return v
	}

	switch node.Kind() {
	case schema.KindObject:
		return w.object(node, v, path)
	case schema.KindArray:
		return w.array(node, v, path)
	default:
		return w.primitive(node, v, path)
	}
}

func (w *walker) object(node *schema.Node, v any, path string) any {
	m, ok := v.(map[string]any)
	if !ok {
		w.add(path, expectedShape(node), typeName(v))
		return v
	}

	normalized := make(map[string]any, len(m))

	for name, child := range node.Properties() {
		childPath := join(path, name)
		value, present := m[name]
		if !present {
			if node.IsRequired(name) && !child.Nullable() {
				w.add(childPath, expectedShape(child), "absent")
				continue
			}
			if child.Nullable() {
				// Absent and explicitly-null collapse to one indexed state.
				normalized[name] = nil
			}
			continue
		}
		normalized[name] = w.value(child, value, childPath)
	}

	for name, value := range m {
		if _, declared := node.Property(name); declared {
			continue
		}
		if !node.AdditionalAllowed() {
			w.add(join(path, name), "no additional properties", typeName(value))
			continue
		}
		normalized[name] = canonicalValue(value)
	}

	return normalized
}

func (w *walker) array(node *schema.Node, v any, path string) any {
	items, ok := v.([]any)
	if !ok {
		w.add(path, expectedShape(node), typeName(v))
		return v
	}

	// A length-bound failure is one violation for the whole array, not one
	// per element.
	if min := node.MinItems(); min != nil && len(items) < *min {
		w.add(path, fmt.Sprintf("array with at least %d items", *min), fmt.Sprintf("array with %d items", len(items)))
	} else if max := node.MaxItems(); max != nil && len(items) > *max {
		w.add(path, fmt.Sprintf("array with at most %d items", *max), fmt.Sprintf("array with %d items", len(items)))
	}

	normalized := make([]any, len(items))
	for i, item := range items {
		normalized[i] = w.value(node.Items(), item, fmt.Sprintf("%s[%d]", path, i))
	}
	return normalized
}

func (w *walker) primitive(node *schema.Node, v any, path string) any {
	p, ok := primitiveOf(v)
	if !ok || !node.Allows(p) {
		w.add(path, expectedShape(node), typeName(v))
		return v
	}
	return canonicalScalar(v)
}

// canonicalScalar maps native numeric kinds onto float64, the shape JSON
// decoding produces. Fingerprints, index terms and filter predicates then
// see one representation whether the document arrived over the wire or was
// built in-process, and a restart cannot change how an entry filters.
func canonicalScalar(v any) any {
	switch val := v.(type) {
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return v
	}
}

// primitiveOf classifies a scalar. Integral numbers classify as Integer,
// which also satisfies a Number union member. Native int kinds appear when
// documents are built in-process instead of decoded from JSON.
func primitiveOf(v any) (schema.Primitive, bool) {
	switch val := v.(type) {
	case string:
		return schema.String, true
	case bool:
		return schema.Boolean, true
	case float64:
		if val == float64(int64(val)) {
			return schema.Integer, true
		}
		return schema.Number, true
	case float32:
		if val == float32(int64(val)) {
			return schema.Integer, true
		}
		return schema.Number, true
	case int, int32, int64:
		return schema.Integer, true
	default:
		return "", false
	}
}

// canonicalValue applies canonicalScalar through values the walk does not
// descend into (undeclared properties kept under additionalProperties).
func canonicalValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = canonicalValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = canonicalValue(child)
		}
		return out
	default:
		return canonicalScalar(v)
	}
}

func expectedShape(node *schema.Node) string {
	var base string
	switch node.Kind() {
	case schema.KindObject:
		base = "object"
	case schema.KindArray:
		base = "array"
	default:
		parts := make([]string, len(node.Types()))
		for i, t := range node.Types() {
			parts[i] = string(t)
		}
		base = strings.Join(parts, "|")
	}
	if node.Nullable() {
		base += "|null"
	}
	return base
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

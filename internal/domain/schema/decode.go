package schema

import "fmt"

// DecodeDefinition converts a raw JSON definition (as unmarshaled into
// map[string]any) into a Node tree. Catalog inconsistencies are normalized
// here, once, at load time:
//   - a "path" type is treated as a structurally-equivalent object node,
//   - union types like ["string","null"] become a primitive set plus an
//     explicit nullable flag.
//
// Returned warnings describe each normalization applied, keyed by the
// JSON-pointer-like location of the node.
func DecodeDefinition(raw any) (*Node, []string, error) {
	d := &decoder{}
	node, err := d.decode(raw, "")
	if err != nil {
		return nil, nil, err
	}
	return node, d.warnings, nil
}

type decoder struct {
	warnings []string
}

func (d *decoder) decode(raw any, at string) (*Node, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("definition node at %q is not an object", loc(at))
	}

	typeNames, nullable, err := typeUnion(m["type"], at)
	if err != nil {
		return nil, err
	}

	// Multi-member unions of non-null primitives are decoded in one shot
	// below; object/array may only appear as a single member.
	if len(typeNames) > 1 {
		return d.decodePrimitiveUnion(typeNames, nullable, at)
	}

	switch typeNames[0] {
	case "path":
		d.warnings = append(d.warnings, fmt.Sprintf("node %s: type \"path\" normalized to object", loc(at)))
		return d.decodeObject(m, nullable, at)
	case "object":
		return d.decodeObject(m, nullable, at)
	case "array":
		return d.decodeArray(m, nullable, at)
	default:
		return d.decodePrimitiveUnion(typeNames, nullable, at)
	}
}

func (d *decoder) decodeObject(m map[string]any, nullable bool, at string) (*Node, error) {
	props := map[string]*Node{}
	if rawProps, ok := m["properties"]; ok {
		propMap, ok := rawProps.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("node %s: properties is not an object", loc(at))
		}
		for name, rawChild := range propMap {
			child, err := d.decode(rawChild, at+"."+name)
			if err != nil {
				return nil, err
			}
			props[name] = child
		}
	}

	var required []string
	if rawReq, ok := m["required"]; ok {
		reqList, ok := rawReq.([]any)
		if !ok {
			return nil, fmt.Errorf("node %s: required is not an array", loc(at))
		}
		for _, r := range reqList {
			name, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("node %s: required entry is not a string", loc(at))
			}
			required = append(required, name)
		}
	}

	// Unknown properties pass through unless the node explicitly forbids
	// them; document producers evolve independently of the registry.
	additional := true
	if rawAdd, ok := m["additionalProperties"]; ok {
		allowed, ok := rawAdd.(bool)
		if !ok {
			return nil, fmt.Errorf("node %s: additionalProperties is not a boolean", loc(at))
		}
		additional = allowed
	}

	node, err := NewObject(props, required, additional, nullable)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", loc(at), err)
	}
	return node, nil
}

func (d *decoder) decodeArray(m map[string]any, nullable bool, at string) (*Node, error) {
	rawItems, ok := m["items"]
	if !ok {
		return nil, fmt.Errorf("node %s: array node missing items", loc(at))
	}
	items, err := d.decode(rawItems, at+"[]")
	if err != nil {
		return nil, err
	}

	minItems, err := intBound(m["minItems"], "minItems", at)
	if err != nil {
		return nil, err
	}
	maxItems, err := intBound(m["maxItems"], "maxItems", at)
	if err != nil {
		return nil, err
	}

	node, err := NewArray(items, minItems, maxItems, nullable)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", loc(at), err)
	}
	return node, nil
}

func (d *decoder) decodePrimitiveUnion(typeNames []string, nullable bool, at string) (*Node, error) {
	types := make([]Primitive, 0, len(typeNames))
	for _, name := range typeNames {
		p := Primitive(name)
		if !p.IsValid() {
			return nil, fmt.Errorf("node %s: unsupported type %q", loc(at), name)
		}
		types = append(types, p)
	}
	node, err := NewPrimitive(types, nullable)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", loc(at), err)
	}
	return node, nil
}

// typeUnion extracts the type member(s), splitting off "null" into the
// nullable flag.
func typeUnion(raw any, at string) ([]string, bool, error) {
	switch v := raw.(type) {
	case string:
		if v == "null" {
			return nil, false, fmt.Errorf("node %s: type cannot be only null", loc(at))
		}
		return []string{v}, false, nil
	case []any:
		var names []string
		nullable := false
		for _, member := range v {
			name, ok := member.(string)
			if !ok {
				return nil, false, fmt.Errorf("node %s: type union member is not a string", loc(at))
			}
			if name == "null" {
				nullable = true
				continue
			}
			names = append(names, name)
		}
		if len(names) == 0 {
			return nil, false, fmt.Errorf("node %s: type union has no non-null member", loc(at))
		}
		return names, nullable, nil
	case nil:
		return nil, false, fmt.Errorf("node %s: missing type", loc(at))
	default:
		return nil, false, fmt.Errorf("node %s: type must be a string or array of strings", loc(at))
	}
}

func intBound(raw any, name, at string) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return nil, fmt.Errorf("node %s: %s must be an integer", loc(at), name)
	}
	n := int(f)
	return &n, nil
}

func loc(at string) string {
	if at == "" {
		return "$"
	}
	return "$" + at
}

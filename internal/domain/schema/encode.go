package schema

import "sort"

// EncodeDefinition converts a Node tree back into the raw map form used on
// the wire and in storage. The output is the normalized shape: "path" nodes
// are gone and nullability is expressed as a "null" union member.
func EncodeDefinition(n *Node) map[string]any {
	switch n.Kind() {
	case KindObject:
		return encodeObject(n)
	case KindArray:
		return encodeArray(n)
	default:
		return encodePrimitive(n)
	}
}

func encodeObject(n *Node) map[string]any {
	m := map[string]any{"type": typeMember("object", n.Nullable())}

	props := n.Properties()
	if len(props) > 0 {
		out := make(map[string]any, len(props))
		for name, child := range props {
			out[name] = EncodeDefinition(child)
		}
		m["properties"] = out
	}
	if req := n.Required(); len(req) > 0 {
		sorted := append([]string(nil), req...)
		sort.Strings(sorted)
		members := make([]any, len(sorted))
		for i, name := range sorted {
			members[i] = name
		}
		m["required"] = members
	}
	if !n.AdditionalAllowed() {
		m["additionalProperties"] = false
	}
	return m
}

func encodeArray(n *Node) map[string]any {
	m := map[string]any{
		"type":  typeMember("array", n.Nullable()),
		"items": EncodeDefinition(n.Items()),
	}
	if min := n.MinItems(); min != nil {
		m["minItems"] = float64(*min)
	}
	if max := n.MaxItems(); max != nil {
		m["maxItems"] = float64(*max)
	}
	return m
}

func encodePrimitive(n *Node) map[string]any {
	types := n.Types()
	if len(types) == 1 && !n.Nullable() {
		return map[string]any{"type": string(types[0])}
	}
	members := make([]any, 0, len(types)+1)
	for _, p := range types {
		members = append(members, string(p))
	}
	if n.Nullable() {
		members = append(members, "null")
	}
	return map[string]any{"type": members}
}

func typeMember(name string, nullable bool) any {
	if !nullable {
		return name
	}
	return []any{name, "null"}
}

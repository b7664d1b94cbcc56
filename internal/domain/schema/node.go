package schema

import "fmt"

// Kind distinguishes definition node shapes.
type Kind string

// Node kinds.
const (
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindPrimitive Kind = "primitive"
)

// Primitive is a single allowed primitive type in a union.
type Primitive string

// Primitive type constants.
const (
	String  Primitive = "string"
	Number  Primitive = "number"
	Integer Primitive = "integer"
	Boolean Primitive = "boolean"
)

// IsValid checks whether the primitive name is supported.
func (p Primitive) IsValid() bool {
	return p == String || p == Number || p == Integer || p == Boolean
}

// Node is an immutable definition-tree node: a tagged variant over
// object, array, and primitive-union shapes. Nullability is carried as an
// explicit flag rather than a union member so the same walk logic applies
// to every shape.
type Node struct {
	kind     Kind
	nullable bool

	// object
	properties map[string]*Node
	required   []string
	additional bool

	// array
	items    *Node
	minItems *int
	maxItems *int

	// primitive union
	types []Primitive
}

// NewObject validates and creates an object node.
// Every name in required must be a declared property.
func NewObject(properties map[string]*Node, required []string, additional, nullable bool) (*Node, error) {
	for _, name := range required {
		if _, ok := properties[name]; !ok {
			return nil, fmt.Errorf("required property %q is not declared", name)
		}
	}
	return &Node{
		kind:       KindObject,
		nullable:   nullable,
		properties: cloneProps(properties),
		required:   append([]string(nil), required...),
		additional: additional,
	}, nil
}

// NewArray validates and creates an array node.
func NewArray(items *Node, minItems, maxItems *int, nullable bool) (*Node, error) {
	if items == nil {
		return nil, fmt.Errorf("array node requires an items definition")
	}
	if minItems != nil && *minItems < 0 {
		return nil, fmt.Errorf("minItems must be non-negative")
	}
	if maxItems != nil && *maxItems < 0 {
		return nil, fmt.Errorf("maxItems must be non-negative")
	}
	if minItems != nil && maxItems != nil && *minItems > *maxItems {
		return nil, fmt.Errorf("minItems %d exceeds maxItems %d", *minItems, *maxItems)
	}
	return &Node{kind: KindArray, nullable: nullable, items: items, minItems: minItems, maxItems: maxItems}, nil
}

// NewPrimitive validates and creates a primitive-union node.
// The union must contain at least one non-null member; nullability travels
// in the flag, never in types.
func NewPrimitive(types []Primitive, nullable bool) (*Node, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("primitive node requires at least one type")
	}
	for _, t := range types {
		if !t.IsValid() {
			return nil, fmt.Errorf("unsupported primitive type %q", t)
		}
	}
	return &Node{kind: KindPrimitive, nullable: nullable, types: append([]Primitive(nil), types...)}, nil
}

// Kind returns the node shape.
func (n *Node) Kind() Kind { return n.kind }

// Nullable reports whether an explicit null satisfies this node.
func (n *Node) Nullable() bool { return n.nullable }

// Properties returns the declared child nodes of an object node.
func (n *Node) Properties() map[string]*Node { return n.properties }

// Property looks up a declared child node by name.
func (n *Node) Property(name string) (*Node, bool) {
	c, ok := n.properties[name]
	return c, ok
}

// Required returns the required property names of an object node.
func (n *Node) Required() []string { return n.required }

// IsRequired reports whether the named property is required.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.required {
		if r == name {
			return true
		}
	}
	return false
}

// AdditionalAllowed reports whether undeclared properties pass through.
func (n *Node) AdditionalAllowed() bool { return n.additional }

// Items returns the element definition of an array node.
func (n *Node) Items() *Node { return n.items }

// MinItems returns the lower length bound of an array node, if declared.
func (n *Node) MinItems() *int { return n.minItems }

// MaxItems returns the upper length bound of an array node, if declared.
func (n *Node) MaxItems() *int { return n.maxItems }

// Types returns the allowed primitive kinds of a primitive node.
func (n *Node) Types() []Primitive { return n.types }

// Allows reports whether the primitive kind is a union member.
func (n *Node) Allows(p Primitive) bool {
	for _, t := range n.types {
		if t == p {
			return true
		}
		// An integer value satisfies a number union member.
		if t == Number && p == Integer {
			return true
		}
	}
	return false
}

// Resolve walks a dot-separated path through object properties and returns
// the node at the end of the path. Used by filter validation.
func (n *Node) Resolve(segments []string) (*Node, bool) {
	cur := n
	for _, seg := range segments {
		if cur == nil || cur.kind != KindObject {
			return nil, false
		}
		next, ok := cur.properties[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func cloneProps(m map[string]*Node) map[string]*Node {
	if m == nil {
		return map[string]*Node{}
	}
	c := make(map[string]*Node, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

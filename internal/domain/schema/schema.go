package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Version is a parsed semantic version. Ordering within a schema_id is
// strictly monotonic; the active version is the maximum.
type Version struct {
	major int
	minor int
	patch int
}

// ParseVersion parses a "MAJOR.MINOR.PATCH" string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("version %q is not MAJOR.MINOR.PATCH", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return Version{}, fmt.Errorf("version %q has invalid component %q", s, p)
		}
		nums[i] = n
	}
	return Version{major: nums[0], minor: nums[1], patch: nums[2]}, nil
}

// MustParseVersion parses a version or panics. Test helper.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0, or 1 ordering v against other.
func (v Version) Compare(other Version) int {
	pairs := [][2]int{{v.major, other.major}, {v.minor, other.minor}, {v.patch, other.patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// String formats the version as MAJOR.MINOR.PATCH.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Schema is a published structural contract (immutable value object).
// Once registered, a (schema_id, version) pair never changes; corrections
// publish a new version.
type Schema struct {
	id          string
	version     Version
	definition  *Node
	description string
	updatedDate string
}

// New validates and creates a Schema.
// ID: ^[a-zA-Z0-9_-]+$, 1-128 chars. Definition must be an object node.
func New(id, version string, definition *Node, description, updatedDate string) (Schema, error) {
	if id == "" {
		return Schema{}, fmt.Errorf("schema_id is required")
	}
	if len(id) > 128 {
		return Schema{}, fmt.Errorf("schema_id too long (max 128)")
	}
	if !idRegex.MatchString(id) {
		return Schema{}, fmt.Errorf("schema_id must be alphanumeric with underscores and hyphens")
	}
	v, err := ParseVersion(version)
	if err != nil {
		return Schema{}, err
	}
	if definition == nil {
		return Schema{}, fmt.Errorf("schema_definition is required")
	}
	if definition.Kind() != KindObject {
		return Schema{}, fmt.Errorf("top-level schema_definition must be an object node, got %s", definition.Kind())
	}
	return Schema{
		id:          id,
		version:     v,
		definition:  definition,
		description: description,
		updatedDate: updatedDate,
	}, nil
}

// Reconstruct creates a Schema without validation (storage hydration).
func Reconstruct(id string, version Version, definition *Node, description, updatedDate string) Schema {
	return Schema{id: id, version: version, definition: definition, description: description, updatedDate: updatedDate}
}

// ID returns the schema identifier.
func (s Schema) ID() string { return s.id }

// Version returns the parsed semantic version.
func (s Schema) Version() Version { return s.version }

// Definition returns the root definition node.
func (s Schema) Definition() *Node { return s.definition }

// Description returns the free-text description.
func (s Schema) Description() string { return s.description }

// UpdatedDate returns the catalog's update date string.
func (s Schema) UpdatedDate() string { return s.updatedDate }

// MetadataNode returns the definition's metadata property, the shape every
// document's metadata object must satisfy.
func (s Schema) MetadataNode() (*Node, bool) {
	return s.definition.Property("metadata")
}

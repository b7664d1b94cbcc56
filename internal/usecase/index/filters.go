package index

import (
	"fmt"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
)

// ValidateFilters checks every filter path against the metadata shape of
// the restricted document type's schema, or of any registered schema when
// no restriction is given. Unsatisfiable filters fail here, at query
// construction, never by silently returning empty results.
func (s *Service) ValidateFilters(filters filter.Expression, docType string) error {
	if filters.IsEmpty() {
		return nil
	}

	metadataNodes, err := s.metadataNodes(docType)
	if err != nil {
		return err
	}

	for _, c := range filters.Conditions() {
		if err := validateCondition(c, metadataNodes); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
		}
	}
	return nil
}

// metadataNodes returns the metadata definition(s) filters are checked
// against: one for a restricted query, all registered types otherwise.
func (s *Service) metadataNodes(docType string) ([]*schema.Node, error) {
	if docType != "" {
		sc, err := s.schemas.Resolve(docType, "")
		if err != nil {
			return nil, err
		}
		node, ok := sc.MetadataNode()
		if !ok {
			return nil, fmt.Errorf("%w: schema %s declares no metadata", domain.ErrInvalidFilter, sc.ID())
		}
		return []*schema.Node{node}, nil
	}

	var nodes []*schema.Node
	for _, t := range s.schemas.DocumentTypes() {
		sc, err := s.schemas.Resolve(t, "")
		if err != nil {
			// A type whose schema is not yet registered cannot satisfy any
			// filter; skip it rather than failing the whole query.
			continue
		}
		if node, ok := sc.MetadataNode(); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func validateCondition(c filter.Condition, metadataNodes []*schema.Node) error {
	segments := strings.Split(c.Path(), ".")
	resolved := false
	for _, root := range metadataNodes {
		node, ok := root.Resolve(segments)
		if !ok {
			continue
		}
		resolved = true
		if compatible(c, node) {
			return nil
		}
	}
	if resolved {
		return fmt.Errorf("predicate on %q does not match the field's declared shape", c.Path())
	}
	return fmt.Errorf("path %q is not declared by any applicable schema", c.Path())
}

func compatible(c filter.Condition, node *schema.Node) bool {
	switch {
	case c.IsRange():
		return node.Kind() == schema.KindPrimitive &&
			(node.Allows(schema.Number) || node.Allows(schema.Integer))
	case c.IsContains():
		return node.Kind() == schema.KindArray
	default:
		return node.Kind() == schema.KindPrimitive
	}
}

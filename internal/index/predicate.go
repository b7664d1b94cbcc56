package index

import (
	"strconv"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
)

// Predicate compiles a filter expression into an entry predicate.
// Path resolution walks the entry's metadata copy; an empty expression
// matches everything. Path validity against the schema is the caller's
// concern (checked at query-construction time), not evaluated here.
func Predicate(expr filter.Expression) func(*Entry) bool {
	if expr.IsEmpty() {
		return nil
	}
	conditions := expr.Conditions()
	return func(e *Entry) bool {
		for _, c := range conditions {
			if !matches(e.Metadata, c) {
				return false
			}
		}
		return true
	}
}

func matches(metadata map[string]any, c filter.Condition) bool {
	value, ok := resolvePath(metadata, c.Path())
	if !ok || value == nil {
		return false
	}

	switch {
	case c.IsMatch():
		return stringValue(value) == *c.Match()
	case c.IsRange():
		n, ok := value.(float64)
		if !ok {
			return false
		}
		return c.Range().Matches(n)
	case c.IsContains():
		items, ok := value.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			if stringValue(item) == c.Contains() {
				return true
			}
		}
		return false
	}
	return false
}

// resolvePath walks a dot-separated path through nested metadata objects.
func resolvePath(metadata map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	var cur any = metadata
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// stringValue renders scalar values for equality comparison. Metadata
// decoded from JSON yields string, float64, and bool scalars.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

package filter

import "fmt"

// MaxConditions is the maximum number of conditions in one expression.
const MaxConditions = 32

// Expression is a conjunction of predicates over metadata paths.
// Every condition must hold for an entry to match.
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(conditions []Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{conditions: conditions}, nil
}

// Conditions returns the predicate list.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Condition is a single predicate: an exact match, a numeric range, or an
// array-membership test, addressed by a dot-separated metadata path.
type Condition struct {
	path      string
	match     *string
	rangeExpr *Range
	contains  string
}

// NewMatch creates an exact string match condition.
func NewMatch(path, value string) (Condition, error) {
	if path == "" {
		return Condition{}, fmt.Errorf("filter path is required")
	}
	return Condition{path: path, match: &value}, nil
}

// NewRange creates a numeric range condition.
func NewRange(path string, r Range) (Condition, error) {
	if path == "" {
		return Condition{}, fmt.Errorf("filter path is required")
	}
	return Condition{path: path, rangeExpr: &r}, nil
}

// NewContains creates an array-membership condition.
func NewContains(path, value string) (Condition, error) {
	if path == "" {
		return Condition{}, fmt.Errorf("filter path is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("contains value is required for path %q", path)
	}
	return Condition{path: path, contains: value}, nil
}

// Path returns the dot-separated metadata path.
func (c Condition) Path() string { return c.path }

// Match returns the exact match value.
func (c Condition) Match() *string { return c.match }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// Contains returns the array-membership value.
func (c Condition) Contains() string { return c.contains }

// IsMatch reports whether this is an exact match condition.
func (c Condition) IsMatch() bool { return c.match != nil }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// IsContains reports whether this is a membership condition.
func (c Condition) IsContains() bool { return c.contains != "" }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeBounds validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeBounds(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// Matches reports whether the value lies inside the range.
func (r Range) Matches(v float64) bool {
	if r.gt != nil && v <= *r.gt {
		return false
	}
	if r.gte != nil && v < *r.gte {
		return false
	}
	if r.lt != nil && v >= *r.lt {
		return false
	}
	if r.lte != nil && v > *r.lte {
		return false
	}
	return true
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

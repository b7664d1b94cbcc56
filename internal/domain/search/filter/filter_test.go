package filter

import "testing"

func f64(v float64) *float64 { return &v }

func TestNewExpressionLimit(t *testing.T) {
	conds := make([]Condition, MaxConditions+1)
	for i := range conds {
		c, err := NewMatch("p", "v")
		if err != nil {
			t.Fatalf("NewMatch: %v", err)
		}
		conds[i] = c
	}
	if _, err := NewExpression(conds); err == nil {
		t.Error("expected error above MaxConditions")
	}
	if _, err := NewExpression(conds[:MaxConditions]); err != nil {
		t.Errorf("NewExpression at limit: %v", err)
	}
}

func TestConditionConstructors(t *testing.T) {
	if _, err := NewMatch("", "v"); err == nil {
		t.Error("NewMatch: expected error for empty path")
	}
	if _, err := NewContains("tags", ""); err == nil {
		t.Error("NewContains: expected error for empty value")
	}
	c, err := NewContains("tags", "photorealistic")
	if err != nil {
		t.Fatalf("NewContains: %v", err)
	}
	if !c.IsContains() || c.IsMatch() || c.IsRange() {
		t.Errorf("condition kind flags wrong: %+v", c)
	}
}

func TestNewRangeBounds(t *testing.T) {
	tests := []struct {
		name             string
		gt, gte, lt, lte *float64
		wantErr          bool
	}{
		{name: "gte only", gte: f64(1)},
		{name: "gt and lt", gt: f64(0), lt: f64(10)},
		{name: "no bounds", wantErr: true},
		{name: "gt and gte", gt: f64(0), gte: f64(0), wantErr: true},
		{name: "lt and lte", lt: f64(1), lte: f64(1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRangeBounds(tt.gt, tt.gte, tt.lt, tt.lte)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRangeBounds() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRangeMatches(t *testing.T) {
	r, err := NewRangeBounds(f64(1), nil, nil, f64(10))
	if err != nil {
		t.Fatalf("NewRangeBounds: %v", err)
	}

	tests := []struct {
		v    float64
		want bool
	}{
		{v: 1, want: false}, // gt is exclusive
		{v: 1.5, want: true},
		{v: 10, want: true}, // lte is inclusive
		{v: 10.5, want: false},
	}
	for _, tt := range tests {
		if got := r.Matches(tt.v); got != tt.want {
			t.Errorf("Matches(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

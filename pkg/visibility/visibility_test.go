package visibility

import (
	"errors"
	"testing"
)

func TestConditionOperators(t *testing.T) {
	t.Parallel()

	ctx := Context{Values: map[string]any{
		"address": map[string]any{"country": "USA", "city": ""},
		"age":     "21",
	}}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{name: "equals", cond: Condition{Field: "address.country", Operator: OperatorEquals, Value: "USA"}, want: true},
		{name: "equals coerces numbers", cond: Condition{Field: "age", Operator: OperatorEquals, Value: 21}, want: true},
		{name: "equals missing", cond: Condition{Field: "phone", Operator: OperatorEquals, Value: "1"}, want: false},
		{name: "not equals", cond: Condition{Field: "address.country", Operator: OperatorNotEquals, Value: "UK"}, want: true},
		{name: "not equals missing", cond: Condition{Field: "phone", Operator: OperatorNotEquals, Value: "1"}, want: true},
		{name: "exists", cond: Condition{Field: "address.country", Operator: OperatorExists}, want: true},
		{name: "blank does not exist", cond: Condition{Field: "address.city", Operator: OperatorExists}, want: false},
		{name: "not exists", cond: Condition{Field: "address.street", Operator: OperatorNotExists}, want: true},
	}

	for _, tc := range cases {
		got, err := tc.cond.Eval(ctx)
		if err != nil {
			t.Fatalf("%s: Eval returned error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNewConditionValidates(t *testing.T) {
	t.Parallel()

	cond, err := NewCondition("$.properties.address.properties.country", OperatorEquals, "USA")
	if err != nil {
		t.Fatalf("NewCondition returned error: %v", err)
	}
	if cond.Field != "address.country" {
		t.Fatalf("expected normalised field, got %q", cond.Field)
	}

	if _, err := NewCondition("", OperatorExists, nil); err == nil {
		t.Fatalf("expected error for empty field")
	}
	if _, err := NewCondition("a", "matches", "x"); err == nil {
		t.Fatalf("expected error for unknown operator")
	}
	if _, err := NewCondition("a", OperatorEquals, nil); err == nil {
		t.Fatalf("expected error for missing comparison value")
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	yes := RuleFunc(func(Context) (bool, error) { return true, nil })
	no := RuleFunc(func(Context) (bool, error) { return false, nil })
	boom := RuleFunc(func(Context) (bool, error) { return false, errors.New("boom") })

	if ok, _ := All(Context{}); !ok {
		t.Fatalf("empty rule set must be visible")
	}
	if ok, _ := All(Context{}, yes, nil, yes); !ok {
		t.Fatalf("expected visible")
	}
	if ok, _ := All(Context{}, yes, no); ok {
		t.Fatalf("expected hidden")
	}
	if _, err := All(Context{}, boom); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

func TestLookupAndEquality(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Values: map[string]any{
			"cta.headline": "flat",
			"items":        []any{map[string]any{"name": "first"}},
		},
		Extras: map[string]any{"flags": map[string]string{"beta": "on"}},
	}
	if v, ok := Lookup(ctx, "cta.headline"); !ok || v != "flat" {
		t.Fatalf("expected flattened key lookup, got %v %v", v, ok)
	}
	if v, ok := Lookup(ctx, "items.0.name"); !ok || v != "first" {
		t.Fatalf("expected slice traversal, got %v %v", v, ok)
	}
	if v, ok := Lookup(ctx, "extras.flags.beta"); !ok || v != "on" {
		t.Fatalf("expected extras lookup, got %v %v", v, ok)
	}
	if _, ok := Lookup(ctx, "items.3.name"); ok {
		t.Fatalf("expected out of range lookup to fail")
	}

	if !StrictEqual(3, float64(3)) || StrictEqual("3", 3) || !StrictEqual(nil, nil) {
		t.Fatalf("unexpected strict equality results")
	}
	if !LooseEqual("true", true) || !LooseEqual(" 4 ", 4) || LooseEqual(nil, "") {
		t.Fatalf("unexpected loose equality results")
	}
	if Truthy(0) || Truthy("") || !Truthy("0") || Truthy([]any{}) {
		t.Fatalf("unexpected truthiness")
	}
}

package visibility

import (
	"fmt"
	"strings"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
)

// Operator enumerates the comparisons supported by Condition.
type Operator string

const (
	OperatorEquals    Operator = "equals"
	OperatorNotEquals Operator = "notEquals"
	OperatorExists    Operator = "exists"
	OperatorNotExists Operator = "notExists"
)

// Condition watches another field's value. Field accepts a plain path or a
// schema pointer.
type Condition struct {
	Field    fieldpath.PlainPath `json:"field" yaml:"field"`
	Operator Operator            `json:"operator" yaml:"operator"`
	Value    any                 `json:"value,omitempty" yaml:"value,omitempty"`
}

// NewCondition normalises the watched path and checks the operator.
func NewCondition(field string, op Operator, value any) (Condition, error) {
	cond := Condition{
		Field:    fieldpath.Normalize(field),
		Operator: Operator(strings.TrimSpace(string(op))),
		Value:    value,
	}
	if err := cond.Validate(); err != nil {
		return Condition{}, err
	}
	return cond, nil
}

// Validate reports configuration problems with the condition.
func (c Condition) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("visibility: condition field is required")
	}
	switch c.Operator {
	case OperatorEquals, OperatorNotEquals:
		if c.Value == nil {
			return fmt.Errorf("visibility: condition on %q with operator %q requires a value", c.Field, c.Operator)
		}
	case OperatorExists, OperatorNotExists:
	default:
		return fmt.Errorf("visibility: unsupported operator %q on %q", c.Operator, c.Field)
	}
	return nil
}

// Eval implements Rule.
func (c Condition) Eval(ctx Context) (bool, error) {
	value, found := Lookup(ctx, string(c.Field))
	switch c.Operator {
	case OperatorEquals:
		return found && LooseEqual(value, c.Value), nil
	case OperatorNotEquals:
		return !found || !LooseEqual(value, c.Value), nil
	case OperatorExists:
		return found && present(value), nil
	case OperatorNotExists:
		return !found || !present(value), nil
	default:
		return false, fmt.Errorf("visibility: unsupported operator %q", c.Operator)
	}
}

func present(value any) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

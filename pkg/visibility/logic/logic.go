// Package logic parses JSON-logic visibility rules such as
//
//	{"or": [{"===": [{"var": "address.country"}, "USA"]}, {"!!": {"var": "phone"}}]}
//
// into visibility.Rule values. Rules are parsed once, so unknown operators and
// wrong arities surface when the layout is loaded rather than while a user is
// filling in the form.
//
// Supported operators: var, ==, ===, !=, !==, !, !!, and, or, in, <, <=, >, >=.
package logic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/visibility"
)

// Rule is a parsed JSON-logic expression. It is visible when the expression
// evaluates to a truthy value.
type Rule struct {
	root node
	vars []string
}

var _ visibility.Rule = (*Rule)(nil)

// Parse converts decoded JSON (maps, slices, scalars) into a Rule.
func Parse(raw any) (*Rule, error) {
	if raw == nil {
		return nil, errors.New("logic: rule is empty")
	}
	seen := make(map[string]struct{})
	root, err := parse(raw, seen)
	if err != nil {
		return nil, err
	}
	vars := make([]string, 0, len(seen))
	for name := range seen {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return &Rule{root: root, vars: vars}, nil
}

// MustParse panics when the rule cannot be parsed. Useful for tests.
func MustParse(raw any) *Rule {
	rule, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return rule
}

// Eval implements visibility.Rule.
func (r *Rule) Eval(ctx visibility.Context) (bool, error) {
	if r == nil || r.root == nil {
		return true, nil
	}
	value, err := r.root.eval(ctx)
	if err != nil {
		return false, err
	}
	return visibility.Truthy(value), nil
}

// Vars lists the data paths the rule reads, sorted.
func (r *Rule) Vars() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.vars...)
}

type node interface {
	eval(ctx visibility.Context) (any, error)
}

type literalNode struct {
	value any
}

func (n literalNode) eval(visibility.Context) (any, error) {
	return n.value, nil
}

type arrayNode struct {
	items []node
}

func (n arrayNode) eval(ctx visibility.Context) (any, error) {
	out := make([]any, 0, len(n.items))
	for _, item := range n.items {
		v, err := item.eval(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type varNode struct {
	path     string
	fallback node
}

func (n varNode) eval(ctx visibility.Context) (any, error) {
	if value, ok := visibility.Lookup(ctx, n.path); ok && value != nil {
		return value, nil
	}
	if n.fallback != nil {
		return n.fallback.eval(ctx)
	}
	return nil, nil
}

type opNode struct {
	op   string
	args []node
}

func (n opNode) eval(ctx visibility.Context) (any, error) {
	switch n.op {
	case "and":
		var last any
		for _, arg := range n.args {
			v, err := arg.eval(ctx)
			if err != nil {
				return nil, err
			}
			if !visibility.Truthy(v) {
				return v, nil
			}
			last = v
		}
		return last, nil
	case "or":
		var last any
		for _, arg := range n.args {
			v, err := arg.eval(ctx)
			if err != nil {
				return nil, err
			}
			if visibility.Truthy(v) {
				return v, nil
			}
			last = v
		}
		return last, nil
	}

	values := make([]any, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(ctx)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	switch n.op {
	case "==":
		return visibility.LooseEqual(values[0], values[1]), nil
	case "===":
		return visibility.StrictEqual(values[0], values[1]), nil
	case "!=":
		return !visibility.LooseEqual(values[0], values[1]), nil
	case "!==":
		return !visibility.StrictEqual(values[0], values[1]), nil
	case "!":
		return !visibility.Truthy(values[0]), nil
	case "!!":
		return visibility.Truthy(values[0]), nil
	case "in":
		return contains(values[1], values[0]), nil
	case "<", "<=", ">", ">=":
		return compare(n.op, values[0], values[1]), nil
	default:
		return nil, fmt.Errorf("logic: unsupported operator %q", n.op)
	}
}

func contains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case []any:
		for _, item := range h {
			if visibility.StrictEqual(item, needle) {
				return true
			}
		}
		return false
	case string:
		return strings.Contains(h, visibility.String(needle))
	default:
		return false
	}
}

func compare(op string, left, right any) bool {
	l, ok := visibility.Number(left)
	if !ok {
		return false
	}
	r, ok := visibility.Number(right)
	if !ok {
		return false
	}
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	default:
		return l >= r
	}
}

var arity = map[string][2]int{
	"==":  {2, 2},
	"===": {2, 2},
	"!=":  {2, 2},
	"!==": {2, 2},
	"!":   {1, 1},
	"!!":  {1, 1},
	"in":  {2, 2},
	"<":   {2, 2},
	"<=":  {2, 2},
	">":   {2, 2},
	">=":  {2, 2},
	"and": {1, -1},
	"or":  {1, -1},
}

func parse(raw any, vars map[string]struct{}) (node, error) {
	switch typed := raw.(type) {
	case map[string]any:
		if len(typed) != 1 {
			return nil, fmt.Errorf("logic: rule object must hold exactly one operator, got %d keys", len(typed))
		}
		for op, rawArgs := range typed {
			return parseOperator(op, rawArgs, vars)
		}
	case []any:
		items := make([]node, 0, len(typed))
		for _, item := range typed {
			parsed, err := parse(item, vars)
			if err != nil {
				return nil, err
			}
			items = append(items, parsed)
		}
		return arrayNode{items: items}, nil
	}
	return literalNode{value: raw}, nil
}

func parseOperator(op string, rawArgs any, vars map[string]struct{}) (node, error) {
	list, isList := rawArgs.([]any)
	if !isList {
		list = []any{rawArgs}
	}

	if op == "var" {
		return parseVar(list, vars)
	}

	bounds, ok := arity[op]
	if !ok {
		return nil, fmt.Errorf("logic: unsupported operator %q", op)
	}
	if len(list) < bounds[0] || (bounds[1] >= 0 && len(list) > bounds[1]) {
		return nil, fmt.Errorf("logic: operator %q expects %s, got %d", op, describeArity(bounds), len(list))
	}

	args := make([]node, 0, len(list))
	for _, item := range list {
		parsed, err := parse(item, vars)
		if err != nil {
			return nil, err
		}
		args = append(args, parsed)
	}
	return opNode{op: op, args: args}, nil
}

func parseVar(list []any, vars map[string]struct{}) (node, error) {
	if len(list) == 0 || len(list) > 2 {
		return nil, fmt.Errorf("logic: var expects a path and an optional default, got %d arguments", len(list))
	}
	name, ok := list[0].(string)
	if !ok {
		return nil, fmt.Errorf("logic: var path must be a string, got %T", list[0])
	}
	path := string(fieldpath.Normalize(name))
	if path == "" {
		return nil, errors.New("logic: var path is empty")
	}
	vars[path] = struct{}{}

	out := varNode{path: path}
	if len(list) == 2 {
		fallback, err := parse(list[1], vars)
		if err != nil {
			return nil, err
		}
		out.fallback = fallback
	}
	return out, nil
}

func describeArity(bounds [2]int) string {
	switch {
	case bounds[1] < 0:
		return fmt.Sprintf("at least %d arguments", bounds[0])
	case bounds[0] == bounds[1] && bounds[0] == 1:
		return "1 argument"
	case bounds[0] == bounds[1]:
		return fmt.Sprintf("%d arguments", bounds[0])
	default:
		return fmt.Sprintf("%d-%d arguments", bounds[0], bounds[1])
	}
}

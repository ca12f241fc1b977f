// Package visibility decides whether a layout field is shown for the current
// form data. Rules are parsed once when a layout is loaded and evaluated
// against a Context on every state change.
package visibility

// Context provides inputs to a Rule. Values holds the current form data while
// Extras allows callers to inject arbitrary context such as user roles or
// feature flags, reachable through the `extras.` prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// Rule reports whether a field should be visible.
type Rule interface {
	Eval(ctx Context) (bool, error)
}

// RuleFunc adapts a function into a Rule.
type RuleFunc func(ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn RuleFunc) Eval(ctx Context) (bool, error) {
	return fn(ctx)
}

// All reports true when every rule holds. Nil rules are skipped and an empty
// set is always visible.
func All(ctx Context, rules ...Rule) (bool, error) {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		ok, err := rule.Eval(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

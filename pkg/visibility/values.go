package visibility

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup resolves a dotted path against the context. Keys prefixed with
// `extras.` read from Extras, everything else from Values.
func Lookup(ctx Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}

	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return lookupMap(ctx.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}

	// Flattened keys such as "address.country" win over traversal.
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Truthy applies JSON-logic truthiness: nil, false, 0, "" and empty
// collections are false.
func Truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := Number(value); ok {
		return n != 0
	}
	return true
}

// StrictEqual compares values of the same JSON kind. Numbers are compared
// numerically regardless of their Go type.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, aNum := numeric(a)
	bn, bNum := numeric(b)
	if aNum || bNum {
		return aNum && bNum && an == bn
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

// LooseEqual compares across kinds the way form inputs need: "3" equals 3 and
// "true" equals true.
func LooseEqual(a, b any) bool {
	if StrictEqual(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if an, ok := Number(a); ok {
		if bn, ok := Number(b); ok {
			return an == bn
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, err := strconv.ParseBool(strings.TrimSpace(String(b))); err == nil {
			return ab == bb
		}
	}
	if bb, ok := b.(bool); ok {
		if ab, err := strconv.ParseBool(strings.TrimSpace(String(a))); err == nil {
			return ab == bb
		}
	}
	return String(a) == String(b)
}

// Number coerces numeric values and numeric strings to float64.
func Number(value any) (float64, bool) {
	if n, ok := numeric(value); ok {
		return n, true
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String renders a value for comparison.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}

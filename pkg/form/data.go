package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

func cloneData(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

// normalizeValue converts a value into the JSON data model the validator
// understands: maps, slices, strings, bools, float64 and nil.
func normalizeValue(value any) (any, error) {
	switch typed := value.(type) {
	case nil, string, bool, float64:
		return typed, nil
	case int:
		return float64(typed), nil
	case int32:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case float32:
		return float64(typed), nil
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			n, err := normalizeValue(v)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			n, err := normalizeValue(v)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("form: unsupported value %T: %w", value, err)
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("form: unsupported value %T: %w", value, err)
	}
	return out, nil
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dotted path. Missing or non-object intermediates
// are replaced with objects, numeric segments address slice elements.
func setPath(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("form: root map is nil")
	}
	segments := strings.Split(path, ".")
	return setIn(root, segments, value, path)
}

func setIn(node map[string]any, segments []string, value any, path string) error {
	segment := segments[0]
	if segment == "" {
		return fmt.Errorf("form: empty segment in path %q", path)
	}
	if len(segments) == 1 {
		node[segment] = value
		return nil
	}

	if idx, err := strconv.Atoi(segments[1]); err == nil {
		if idx < 0 {
			return fmt.Errorf("form: negative index in path %q", path)
		}
		list, _ := node[segment].([]any)
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		node[segment] = list
		if len(segments) == 2 {
			list[idx] = value
			return nil
		}
		child, ok := list[idx].(map[string]any)
		if !ok {
			child = make(map[string]any)
			list[idx] = child
		}
		return setIn(child, segments[2:], value, path)
	}

	child, ok := node[segment].(map[string]any)
	if !ok || child == nil {
		child = make(map[string]any)
		node[segment] = child
	}
	return setIn(child, segments[1:], value, path)
}

// deletePath removes the value at a dotted path. Emptied parents are kept so
// the document shape stays stable between edits.
func deletePath(root map[string]any, path string) {
	segments := strings.Split(path, ".")
	var parent any = root
	if len(segments) > 1 {
		p, ok := getPath(root, strings.Join(segments[:len(segments)-1], "."))
		if !ok {
			return
		}
		parent = p
	}
	last := segments[len(segments)-1]
	switch node := parent.(type) {
	case map[string]any:
		delete(node, last)
	case []any:
		if idx, err := strconv.Atoi(last); err == nil && idx >= 0 && idx < len(node) {
			node[idx] = nil
		}
	}
}

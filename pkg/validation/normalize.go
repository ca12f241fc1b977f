package validation

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// constMarker tags enums rewritten from "const" so errors keep the keyword.
const constMarker = "x-jsonforms-const"

const maxRefDepth = 64

// normalizeSchema rewrites a draft 2020-12 schema into the dialect the engine
// compiles: local $refs are inlined, numeric exclusive bounds become boolean
// flags, "const" becomes a one-value enum and "null" type members become
// nullable. The input is not modified.
func normalizeSchema(root map[string]any) (map[string]any, error) {
	anchors := make(map[string]any)
	indexAnchors(root, anchors)

	r := &refResolver{root: root, anchors: anchors, inStack: make(map[string]struct{})}
	resolved, err := r.resolve(root, "#")
	if err != nil {
		return nil, err
	}
	out, ok := resolved.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("validation: schema must be an object")
	}
	if err := rewriteKeywords(out, "#"); err != nil {
		return nil, err
	}
	return out, nil
}

func indexAnchors(node any, anchors map[string]any) {
	switch typed := node.(type) {
	case map[string]any:
		if name, ok := typed["$anchor"].(string); ok && name != "" {
			anchors[name] = typed
		}
		for _, key := range sortedKeys(typed) {
			indexAnchors(typed[key], anchors)
		}
	case []any:
		for _, item := range typed {
			indexAnchors(item, anchors)
		}
	}
}

type refResolver struct {
	root    map[string]any
	anchors map[string]any
	stack   []string
	inStack map[string]struct{}
}

// resolve returns a copy of node with every $ref replaced by its target.
// Keywords next to a $ref override the target's.
func (r *refResolver) resolve(node any, path string) (any, error) {
	switch typed := node.(type) {
	case map[string]any:
		if ref, ok := typed["$ref"].(string); ok {
			return r.inline(typed, strings.TrimSpace(ref), path)
		}
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			if key == "$defs" || key == "definitions" || key == "$anchor" {
				continue
			}
			if isLiteralKeyword(key) {
				out[key] = value
				continue
			}
			if key == "properties" || key == "patternProperties" {
				named, err := r.resolveNamed(value, joinPointer(path, key))
				if err != nil {
					return nil, err
				}
				out[key] = named
				continue
			}
			resolved, err := r.resolve(value, joinPointer(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			resolved, err := r.resolve(item, joinPointer(path, strconv.Itoa(idx)))
			if err != nil {
				return nil, err
			}
			out[idx] = resolved
		}
		return out, nil
	default:
		return node, nil
	}
}

// resolveNamed resolves a map of subschemas keyed by property name. Names are
// not keywords, so a property called "enum" is still a schema.
func (r *refResolver) resolveNamed(value any, path string) (any, error) {
	named, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}
	out := make(map[string]any, len(named))
	for name, child := range named {
		resolved, err := r.resolve(child, joinPointer(path, name))
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

func (r *refResolver) inline(node map[string]any, ref, path string) (any, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("validation: %s: only local $ref is supported, got %q", path, ref)
	}
	if _, ok := r.inStack[ref]; ok {
		return nil, fmt.Errorf("validation: %s: $ref cycle through %q", path, ref)
	}
	if len(r.stack) >= maxRefDepth {
		return nil, fmt.Errorf("validation: %s: $ref depth exceeds %d", path, maxRefDepth)
	}

	target, err := r.lookup(ref)
	if err != nil {
		return nil, fmt.Errorf("validation: %s: %w", path, err)
	}
	targetMap, ok := target.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("validation: %s: $ref %q does not name a schema", path, ref)
	}

	merged := make(map[string]any, len(targetMap)+len(node))
	for key, value := range targetMap {
		merged[key] = value
	}
	for key, value := range node {
		if key != "$ref" {
			merged[key] = value
		}
	}

	r.stack = append(r.stack, ref)
	r.inStack[ref] = struct{}{}
	resolved, err := r.resolve(merged, path)
	r.stack = r.stack[:len(r.stack)-1]
	delete(r.inStack, ref)
	return resolved, err
}

func (r *refResolver) lookup(ref string) (any, error) {
	fragment := strings.TrimPrefix(ref, "#")
	if fragment == "" {
		return r.root, nil
	}
	if !strings.HasPrefix(fragment, "/") {
		target, ok := r.anchors[fragment]
		if !ok {
			return nil, fmt.Errorf("unknown anchor in $ref %q", ref)
		}
		return target, nil
	}

	var current any = r.root
	for _, raw := range strings.Split(fragment[1:], "/") {
		token, err := url.PathUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid $ref %q: %w", ref, err)
		}
		token = strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return nil, fmt.Errorf("unresolved $ref %q", ref)
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("unresolved $ref %q", ref)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("unresolved $ref %q", ref)
		}
	}
	return current, nil
}

// rewriteKeywords walks every subschema of an already resolved tree.
func rewriteKeywords(node map[string]any, path string) error {
	if err := rewriteExclusive(node, "exclusiveMinimum", "minimum", path, func(bound, limit float64) bool { return bound >= limit }); err != nil {
		return err
	}
	if err := rewriteExclusive(node, "exclusiveMaximum", "maximum", path, func(bound, limit float64) bool { return bound <= limit }); err != nil {
		return err
	}

	if value, ok := node["const"]; ok {
		node["enum"] = []any{value}
		node[constMarker] = true
		delete(node, "const")
	}

	if err := rewriteNullType(node, path); err != nil {
		return err
	}

	if types, ok := node["type"]; ok && includesType(types, "array") {
		if _, ok := node["items"]; !ok {
			node["items"] = map[string]any{}
		}
	}

	for _, key := range []string{"properties", "patternProperties"} {
		children, ok := node[key].(map[string]any)
		if !ok {
			continue
		}
		for _, name := range sortedKeys(children) {
			if err := rewriteChild(children[name], joinPointer(path, key, name)); err != nil {
				return err
			}
		}
	}
	for _, key := range []string{"items", "additionalProperties", "not"} {
		if err := rewriteChild(node[key], joinPointer(path, key)); err != nil {
			return err
		}
	}
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		list, ok := node[key].([]any)
		if !ok {
			continue
		}
		for idx, item := range list {
			if err := rewriteChild(item, joinPointer(path, key, strconv.Itoa(idx))); err != nil {
				return err
			}
		}
	}
	return nil
}

func rewriteChild(node any, path string) error {
	child, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	return rewriteKeywords(child, path)
}

// rewriteExclusive turns a numeric exclusive bound into the inclusive keyword
// plus a boolean flag. When both are present the stricter one is kept.
func rewriteExclusive(node map[string]any, exclusiveKey, inclusiveKey, path string, stricter func(bound, limit float64) bool) error {
	raw, ok := node[exclusiveKey]
	if !ok {
		return nil
	}
	if _, isBool := raw.(bool); isBool {
		return nil
	}
	bound, ok := toFloat(raw)
	if !ok {
		return fmt.Errorf("validation: %s: %s must be a number", path, exclusiveKey)
	}
	if limitRaw, ok := node[inclusiveKey]; ok {
		limit, ok := toFloat(limitRaw)
		if !ok {
			return fmt.Errorf("validation: %s: %s must be a number", path, inclusiveKey)
		}
		if !stricter(bound, limit) {
			delete(node, exclusiveKey)
			return nil
		}
	}
	node[inclusiveKey] = bound
	node[exclusiveKey] = true
	return nil
}

// rewriteNullType moves a "null" type member onto nullable. A schema that only
// admits null keeps null as its single allowed value.
func rewriteNullType(node map[string]any, path string) error {
	raw, ok := node["type"]
	if !ok {
		return nil
	}

	var types []string
	switch typed := raw.(type) {
	case string:
		types = []string{typed}
	case []any:
		for idx, item := range typed {
			name, ok := item.(string)
			if !ok {
				return fmt.Errorf("validation: %s: type[%d] must be a string", path, idx)
			}
			types = append(types, name)
		}
	default:
		return fmt.Errorf("validation: %s: type must be a string or an array", path)
	}

	kept := make([]any, 0, len(types))
	nullable := false
	for _, name := range types {
		if name == "null" {
			nullable = true
			continue
		}
		kept = append(kept, name)
	}
	if !nullable {
		return nil
	}

	node["nullable"] = true
	switch len(kept) {
	case 0:
		delete(node, "type")
		if _, ok := node["enum"]; !ok {
			node["enum"] = []any{nil}
		}
	case 1:
		node["type"] = kept[0]
	default:
		node["type"] = kept
	}
	return nil
}

func includesType(raw any, name string) bool {
	switch typed := raw.(type) {
	case string:
		return typed == name
	case []any:
		for _, item := range typed {
			if item == name {
				return true
			}
		}
	}
	return false
}

// isLiteralKeyword reports keywords whose values are data, not subschemas.
func isLiteralKeyword(key string) bool {
	switch key {
	case "enum", "const", "default", "examples", "example", "required":
		return true
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func joinPointer(path string, segments ...string) string {
	for _, segment := range segments {
		path += "/" + strings.NewReplacer("~", "~0", "/", "~1").Replace(segment)
	}
	return path
}

func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

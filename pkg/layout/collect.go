package layout

import (
	"fmt"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
)

// Walk visits node and its descendants depth-first, left to right. Returning
// false from fn skips the node's children.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range children(node) {
		Walk(child, fn)
	}
}

func children(node Node) []Node {
	switch n := node.(type) {
	case *Step:
		return n.Children
	case *Section:
		return n.Children
	case *Grid:
		return n.Children
	case *Field:
		return nil
	default:
		panic(fmt.Sprintf("layout: unexpected node %T", node))
	}
}

// Fields returns the fields below node in depth-first, left-to-right order.
func Fields(node Node) []*Field {
	var out []*Field
	Walk(node, func(n Node) bool {
		if f, ok := n.(*Field); ok {
			out = append(out, f)
		}
		return true
	})
	return out
}

// CollectPaths returns the plain data paths of every field below node, in
// the order the fields appear.
func CollectPaths(node Node) []fieldpath.PlainPath {
	fields := Fields(node)
	out := make([]fieldpath.PlainPath, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Path)
	}
	return out
}

// Step returns the step at index i, or nil when out of range.
func (l *Layout) Step(i int) *Step {
	if l == nil || i < 0 || i >= len(l.Steps) {
		return nil
	}
	return l.Steps[i]
}

// StepFields returns the fields owned by step i.
func (l *Layout) StepFields(i int) []*Field {
	step := l.Step(i)
	if step == nil {
		return nil
	}
	return Fields(step)
}

// StepPaths returns the data paths owned by step i.
func (l *Layout) StepPaths(i int) []fieldpath.PlainPath {
	step := l.Step(i)
	if step == nil {
		return nil
	}
	return CollectPaths(step)
}

// Paths returns every bound data path across all steps.
func (l *Layout) Paths() []fieldpath.PlainPath {
	if l == nil {
		return nil
	}
	var out []fieldpath.PlainPath
	for _, step := range l.Steps {
		out = append(out, CollectPaths(step)...)
	}
	return out
}

// Field finds the field bound to path.
func (l *Layout) Field(path fieldpath.PlainPath) (*Field, int, bool) {
	if l == nil {
		return nil, -1, false
	}
	for idx, step := range l.Steps {
		for _, f := range Fields(step) {
			if f.Path == path {
				return f, idx, true
			}
		}
	}
	return nil, -1, false
}

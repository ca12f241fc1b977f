// Package scope attributes validation errors to form fields and decides which
// of them belong to the step a user is looking at.
package scope

import (
	"strings"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/validation"
)

// FallbackMessage is shown when the validator supplies no message.
const FallbackMessage = "Invalid value"

// ErrorFieldPath returns the data path an error belongs to. Required
// violations point at the parent object, so the missing child is appended.
func ErrorFieldPath(rec validation.ErrorRecord) fieldpath.PlainPath {
	base := fieldpath.FromInstanceLocation(rec.InstanceLocation)
	if rec.Keyword != "required" {
		return base
	}
	missing, _ := rec.Params["missingProperty"].(string)
	if missing == "" {
		return base
	}
	return base.Join(missing)
}

// Paths is an ordered set of owned data paths.
type Paths struct {
	order []fieldpath.PlainPath
	index map[fieldpath.PlainPath]struct{}
}

// NewPaths builds a set preserving first-seen order.
func NewPaths(paths ...fieldpath.PlainPath) Paths {
	set := Paths{index: make(map[fieldpath.PlainPath]struct{}, len(paths))}
	for _, p := range paths {
		set.add(p)
	}
	return set
}

func (s *Paths) add(p fieldpath.PlainPath) {
	if p == "" {
		return
	}
	if _, ok := s.index[p]; ok {
		return
	}
	s.index[p] = struct{}{}
	s.order = append(s.order, p)
}

// Contains reports exact membership.
func (s Paths) Contains(p fieldpath.PlainPath) bool {
	_, ok := s.index[p]
	return ok
}

// List returns the paths in first-seen order.
func (s Paths) List() []fieldpath.PlainPath {
	return append([]fieldpath.PlainPath(nil), s.order...)
}

// Len returns the number of paths.
func (s Paths) Len() int {
	return len(s.order)
}

// InScope reports whether path is owned by the set or is a strict ancestor of
// an owned path. A path below an owned path is not in scope.
func InScope(path fieldpath.PlainPath, owned Paths) bool {
	if path == "" {
		return false
	}
	if owned.Contains(path) {
		return true
	}
	prefix := string(path) + "."
	for _, p := range owned.order {
		if strings.HasPrefix(string(p), prefix) {
			return true
		}
	}
	return false
}

// Filter keys in-scope errors by field path. When several errors land on the
// same path the last one wins.
func Filter(errs []validation.ErrorRecord, owned Paths) map[fieldpath.PlainPath]string {
	out := make(map[fieldpath.PlainPath]string)
	for _, rec := range errs {
		path := ErrorFieldPath(rec)
		if !InScope(path, owned) {
			continue
		}
		msg := strings.TrimSpace(rec.Message)
		if msg == "" {
			msg = FallbackMessage
		}
		out[path] = msg
	}
	return out
}

// Package layout models the declarative description of a multi-step form.
//
// A Layout is an ordered list of steps. Each step holds a tree of sections,
// grids and fields; only fields bind to the data document. Nodes form a closed
// set: Node is implemented by *Step, *Section, *Grid and *Field and nothing
// else, so type switches over a Node are exhaustive.
//
// Layouts are parsed from JSON or YAML documents discriminated by
// "componentType". Every structural problem is reported by Parse, and Bind
// checks that each field resolves to a location declared by the data schema.
package layout

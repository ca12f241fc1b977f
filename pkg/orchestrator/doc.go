// Package orchestrator wires the loader → layout parser → schema compiler →
// form controller pipeline behind a single entry point.
package orchestrator

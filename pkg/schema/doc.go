// Package schema holds the source and document abstractions shared by the
// layout parser and the validator: where a document came from, its raw bytes,
// and the Loader contract used to fetch it.
package schema

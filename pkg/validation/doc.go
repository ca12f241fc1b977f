// Package validation compiles a JSON Schema document once and validates whole
// form documents against it, reporting every violation as an ErrorRecord.
//
// The engine is kin-openapi's schema validator. Records are normalised so
// consumers can rely on a small, stable contract:
//
//   - InstanceLocation is a slash-delimited JSON pointer into the data, empty
//     for the document root.
//   - Keyword names the failed constraint ("required", "pattern", ...).
//   - Params carries keyword specific data. Required violations point at the
//     parent object and name the child in Params["missingProperty"].
//   - Message is a short human readable description.
package validation

// Package schema compiles target JSON Schemas and validates transformed
// objects against them.
//
// Only flat top-level properties are modelled. Each property carries its
// declared primitive types and whether it is required; keyword constraints
// (enum, minimum, pattern, format, ...) are delegated to a compiled
// santhosh-tekuri/jsonschema validator.
//
// Key functions:
//   - Compile: build a Schema from a schema document, failing fast with a
//     SchemaConfiguration error on unsupported or malformed input
//   - Validate: check an object and report violations in property
//     declaration order
//   - Cache: a bounded LRU of compiled schemas keyed by document hash
package schema

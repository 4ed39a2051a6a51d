// Package payload provides the dynamic value model shared by every stage of
// the adapter: sample responses, raw responses, target schemas and
// transformed objects are all decoded into a Value.
//
// Key types:
//   - Value: tagged union of absent, null, boolean, number, string, object and array
//   - Object: insertion-ordered string-keyed map of Values
//
// The zero Value is the absent marker. It is distinct from Null and is
// encoded as JSON null on the wire.
package payload

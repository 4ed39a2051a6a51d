// Package diagnostic provides the structured validation report returned
// alongside every transform.
//
// Key capabilities:
//   - Violation records naming the property, the failed rule, and the
//     expected versus actual value
//   - Result aggregation with a validity flag that tracks the violation list
//   - Stable JSON shape where "errors" is always an array
package diagnostic

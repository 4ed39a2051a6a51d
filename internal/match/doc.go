// Package match provides key normalization, string similarity scoring,
// candidate ranking and mapping inference between a sample response and the
// properties of a target schema.
//
// Key functions:
//   - NormalizeKey: canonicalizes a field name for comparison
//   - JaroWinkler, Dice, LevenshteinRatio: similarity scorers in [0, 1]
//   - Infer: exact-then-fuzzy matching producing a mapping.Config
//   - RankCandidates: ranks sample keys for "why this mapped" explanations
package match

// Package match provides name normalization and Levenshtein distance
// calculation for configuration keys.
//
// Key functions:
//   - LowerCamel: derives the default key of a Go identifier
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known keys close to a misspelled one
package match

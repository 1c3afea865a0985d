// Package raw models the untyped values exchanged with a property resource.
//
// A property resource only ever produces a small closed set of shapes:
//   - nil, string, bool and Go numbers
//   - ordered sequences ([]any) of those shapes
//   - ordered string-keyed mappings (*Map) of those shapes
//
// Export adds one more shape, Commented, which attaches comment lines to a value
// so the resource writer can emit them next to it.
package raw

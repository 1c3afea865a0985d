// Package diagnostic provides structured warnings, errors, and
// informational notes collected while mapping configuration values.
//
// Key capabilities:
//   - Invalid value reports tied to a property path
//   - Default fallback notes
//   - Unknown key notes with spelling suggestions
package diagnostic

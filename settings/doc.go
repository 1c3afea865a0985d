// Package settings binds typed properties to a YAML resource file.
//
// A Property names a resource path, a code default and optional comments. A
// Manager reads every registered property from its file, falls back to the
// default where the file has nothing usable, and writes the file back when
// anything was missing or invalid so that it always documents the full set of
// properties.
package settings

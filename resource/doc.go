// Package resource stores raw property values in YAML files.
//
// A Document keeps the whole file as raw values: mappings become *raw.Map in
// file order, sequences become []any, scalars take the type YAML tag
// resolution gives them. Mappings with non-string keys are kept as map[any]any
// so that consumers can reject them. Values are addressed by dotted paths such
// as "server.port".
//
// When written back, raw.Commented values become comments placed above their
// key.
package resource

// Package mapper converts raw property values into typed Go values and back.
//
// Import walks a raw value (nil, string, bool, numbers, []any and *raw.Map)
// against a target type. Leaves go through a transformer chain; slices, arrays,
// sets, maps and beans are rebuilt recursively. Data problems never fail the
// call: they fall back to defaults and are reported to an ErrorRecorder so the
// caller knows the resource should be rewritten. Errors returned by the mapper
// are programming errors in the target types.
//
// Export walks a live value back into raw values, attaching property comments
// as raw.Commented wrappers. A comment that must not repeat is emitted once per
// export.
package mapper

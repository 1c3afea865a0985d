package mapper

import (
	"fmt"
	"sync"

	"configbean/bean"
	"configbean/internal/diagnostic"
)

// ErrorRecorder collects the recoverable problems of one top-level conversion.
// Once an error is registered the conversion stays invalid, telling the caller
// the resource should be saved again. Warnings and infos do not affect validity.
// It is safe for concurrent use.
type ErrorRecorder struct {
	mu        sync.Mutex
	hasError  bool
	diags     diagnostic.Diagnostics
	fallbacks []string
}

// NewErrorRecorder creates a recorder in the valid state.
func NewErrorRecorder() *ErrorRecorder {
	return &ErrorRecorder{}
}

// SetHasError marks the conversion invalid.
func (r *ErrorRecorder) SetHasError(path, reason string) {
	r.add(diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     diagnostic.CodeInvalidValue,
		Message:  reason,
		Path:     path,
	})
}

// RecordFallback notes that prop of the bean at path kept its default value.
func (r *ErrorRecorder) RecordFallback(path string, prop bean.Property) {
	child := joinPath(path, prop.Name)

	r.mu.Lock()
	r.fallbacks = append(r.fallbacks, child)
	r.mu.Unlock()

	r.add(diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     diagnostic.CodeDefaultFallback,
		Message:  fmt.Sprintf("fell back to default value for property %s", prop.Name),
		Type:     prop.Type.String(),
		Path:     child,
	})
}

// IsFullyValid reports whether no error was registered.
func (r *ErrorRecorder) IsFullyValid() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return !r.hasError
}

// Errors returns the registered errors as text.
func (r *ErrorRecorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.diags.Errors))
	for i, d := range r.diags.Errors {
		out[i] = d.String()
	}

	return out
}

// Fallbacks returns the paths of the properties that kept their code default
// instead of a value from the resource.
func (r *ErrorRecorder) Fallbacks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.fallbacks...)
}

// Diagnostics returns a copy of everything recorded.
func (r *ErrorRecorder) Diagnostics() diagnostic.Diagnostics {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out diagnostic.Diagnostics
	out.Merge(r.diags)

	return out
}

func (r *ErrorRecorder) add(d diagnostic.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Severity == diagnostic.DiagnosticError {
		r.hasError = true
	}

	r.diags.Add(d)
}

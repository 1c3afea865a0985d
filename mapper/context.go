package mapper

import (
	"strconv"
	"sync"

	"github.com/google/uuid"

	"configbean/bean"
	"configbean/internal/diagnostic"
	"configbean/node"
)

// joinPath appends a property name to a bean path. The root path is empty.
func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}

func elementPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

func entryPath(parent, key string) string {
	return parent + "[k=" + key + "]"
}

// MappingContext is the state of one import recursion step: where it is in the
// bean graph, what type it must produce, and the recorder shared by the whole
// conversion.
type MappingContext struct {
	path   string
	target node.Type
	errs   *ErrorRecorder
}

// NewMappingContext creates a root context.
func NewMappingContext(path string, target node.Type, errs *ErrorRecorder) *MappingContext {
	if errs == nil {
		errs = NewErrorRecorder()
	}

	return &MappingContext{path: path, target: target, errs: errs}
}

func (c *MappingContext) Path() string           { return c.path }
func (c *MappingContext) Target() node.Type      { return c.target }
func (c *MappingContext) Errors() *ErrorRecorder { return c.errs }

// Child returns the context of the bean property name.
func (c *MappingContext) Child(name string, target node.Type) *MappingContext {
	return &MappingContext{path: joinPath(c.path, name), target: target, errs: c.errs}
}

// Element returns the context of the i-th collection element.
func (c *MappingContext) Element(i int, target node.Type) *MappingContext {
	return &MappingContext{path: elementPath(c.path, i), target: target, errs: c.errs}
}

// Entry returns the context of the map value stored under key.
func (c *MappingContext) Entry(key string, target node.Type) *MappingContext {
	return &MappingContext{path: entryPath(c.path, key), target: target, errs: c.errs}
}

// RegisterError marks the conversion invalid with a problem at this path.
func (c *MappingContext) RegisterError(code, reason string) {
	c.errs.add(diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     code,
		Message:  reason,
		Type:     c.target.String(),
		Path:     c.path,
	})
}

func (c *MappingContext) warn(reason string) {
	c.errs.add(diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticWarning,
		Code:     diagnostic.CodeInvalidValue,
		Message:  reason,
		Type:     c.target.String(),
		Path:     c.path,
	})
}

func (c *MappingContext) note(code, reason, path string, suggestions []string) {
	c.errs.add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticInfo,
		Code:        code,
		Message:     reason,
		Path:        path,
		Suggestions: suggestions,
	})
}

// usedComments is the set of emit-once comment ids already written by one export.
type usedComments struct {
	mu  sync.Mutex
	ids map[uuid.UUID]struct{}
}

// ExportContext is the state of one export recursion step.
type ExportContext struct {
	path string
	used *usedComments
}

// NewExportContext creates a root context with an empty set of used comments.
func NewExportContext() *ExportContext {
	return &ExportContext{used: &usedComments{ids: make(map[uuid.UUID]struct{})}}
}

func (c *ExportContext) Path() string { return c.path }

// Child returns the context of the bean property or map key name.
func (c *ExportContext) Child(name string) *ExportContext {
	return &ExportContext{path: joinPath(c.path, name), used: c.used}
}

// Element returns the context of the i-th collection element.
func (c *ExportContext) Element(i int) *ExportContext {
	return &ExportContext{path: elementPath(c.path, i), used: c.used}
}

// ShouldInclude reports whether comments must be emitted here: they are not
// empty, and they either repeat or have not been emitted yet.
func (c *ExportContext) ShouldInclude(comments bean.Comments) bool {
	if comments.Empty() {
		return false
	}

	if comments.Repeatable() {
		return true
	}

	c.used.mu.Lock()
	defer c.used.mu.Unlock()

	_, used := c.used.ids[comments.ID]

	return !used
}

// RegisterComment marks an emit-once comment as emitted.
func (c *ExportContext) RegisterComment(comments bean.Comments) {
	if comments.Repeatable() {
		return
	}

	c.used.mu.Lock()
	c.used.ids[comments.ID] = struct{}{}
	c.used.mu.Unlock()
}

package diagnostic_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configbean/internal/diagnostic"
)

func TestDiagnostics_Buckets(t *testing.T) {
	var d diagnostic.Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddInfo(diagnostic.CodeUnknownKey, "unknown key", "", "server.prot")
	d.AddWarning(diagnostic.CodeDefaultFallback, "using default", "int", "server.port")
	d.AddError(diagnostic.CodeInvalidValue, "cannot convert", "int", "server.port")

	assert.True(t, d.HasErrors())
	assert.Len(t, d.Infos, 1)
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.All(), 3)
	assert.Equal(t, diagnostic.DiagnosticError, d.All()[0].Severity)
	assert.EqualError(t, d.Error(), "[int] server.port: [invalid-value] cannot convert")
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b diagnostic.Diagnostics
	a.AddError("x", "first", "", "")
	b.AddError("y", "second", "", "")
	b.AddInfo("z", "note", "", "")

	a.Merge(b)

	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Infos, 1)
}

func ExampleDiagnostic_String() {
	d := diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticInfo,
		Code:        diagnostic.CodeUnknownKey,
		Message:     "unknown key",
		Path:        "server.prot",
		Suggestions: []string{"port"},
	}

	fmt.Println(d.Severity)
	fmt.Println(d)
	fmt.Println(diagnostic.DiagnosticSeverity(7))
	// Output:
	// info
	// server.prot: [unknown-key] unknown key (did you mean port?)
	// unknown
}

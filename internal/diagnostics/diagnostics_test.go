package diagnostics

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/siko/internal/location"
)

func TestCodeKinds(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want Kind
	}{
		{ErrL002, LexError},
		{ErrY001, LayoutError},
		{ErrP001, SyntaxError},
		{ErrN002, ResolutionError},
		{ErrA004, TypeError},
		{ErrM001, ExhaustivenessError},
		{ErrM002, RedundancyError},
		{ErrC001, ConfigError},
		{ErrR001, RuntimeError},
		{ErrI001, InternalInvariantError},
	}
	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.want {
			t.Errorf("%s.Kind() = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestNewErrorResolvesLocation(t *testing.T) {
	tbl := location.NewTable()
	loc := tbl.Add(location.Position{File: "Main.sk", Line: 4, Column: 7})
	e := NewError(ErrN001, tbl, loc, "unknown name %s", "foo")
	want := "Main.sk:4:7: error [ResolutionError N001]: unknown name foo"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
	w := NewWarning(ErrN010, tbl, loc, "unused import")
	if !w.IsWarning() || HasErrors([]*DiagnosticError{w}) {
		t.Errorf("warning must not count as an error")
	}
	if !HasErrors([]*DiagnosticError{w, e}) {
		t.Errorf("HasErrors must see the error")
	}
}

func TestEmitterOrdersAndCounts(t *testing.T) {
	tbl := location.NewTable()
	late := tbl.Add(location.Position{File: "a.sk", Line: 9, Column: 1})
	early := tbl.Add(location.Position{File: "a.sk", Line: 2, Column: 1})
	var buf bytes.Buffer
	n := NewEmitter(&buf, "never").Emit([]*DiagnosticError{
		NewError(ErrA001, tbl, late, "late"),
		NewWarning(ErrN010, tbl, early, "early"),
	})
	if n != 1 {
		t.Errorf("error count = %d, want 1", n)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "early") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("colour must be off with mode never")
	}

	buf.Reset()
	NewEmitter(&buf, "always").Emit([]*DiagnosticError{NewError(ErrA001, tbl, late, "x")})
	if !strings.Contains(buf.String(), colorRed) {
		t.Errorf("colour expected with mode always")
	}
}

func TestInvariantCarriesStack(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Invariant("codegen", "unresolved reference %s", "x"))
	inv, ok := AsInvariant(err)
	if !ok {
		t.Fatal("AsInvariant failed")
	}
	if !strings.Contains(inv.Error(), "codegen") || !strings.Contains(inv.Error(), "unresolved reference x") {
		t.Errorf("message = %q", inv.Error())
	}
	if !strings.Contains(fmt.Sprintf("%+v", inv), "diagnostics_test.go") {
		t.Errorf("%%+v should include the stack")
	}
	if d := inv.Diagnostic(); d.Kind != InternalInvariantError {
		t.Errorf("Diagnostic kind = %s", d.Kind)
	}
}

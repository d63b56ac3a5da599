package zerr

import (
	"strings"
	"testing"

	"github.com/zokis/zox/token"
)

func TestFormatIncludesHeaderSourceLineAndCaret(t *testing.T) {
	src := "let x = @;\nlet y = 1;"
	e := NewParseError("unexpected token", token.Position{Line: 1, Column: 9}, src, "demo.zox")

	out := e.Format(false)
	if !strings.Contains(out, "Parse error in demo.zox:1:9") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "let x = @;") {
		t.Errorf("missing source line in %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret in %q", out)
	}
}

func TestFormatWithoutFileUsesPositionOnlyHeader(t *testing.T) {
	e := NewTypeError("operator mismatch", token.Position{Line: 2, Column: 3}, "", "")
	out := e.Format(false)
	if !strings.Contains(out, "Type error at 2:3") {
		t.Errorf("unexpected header in %q", out)
	}
}

func TestFormatToleratesZeroPosition(t *testing.T) {
	// Errors raised before any token exists carry a zero position; the
	// caret layout must not produce a negative padding width for them.
	e := NewLexError("boom", token.Position{}, "source text", "f.zox")
	out := e.Format(false)
	if out == "" {
		t.Fatal("Format returned empty output")
	}
}

func TestFormatColorWrapsCaretAndMessage(t *testing.T) {
	e := NewValueError("division by zero", token.Position{Line: 1, Column: 1}, "1/0;", "")
	out := e.Format(true)
	if !strings.Contains(out, "\033[1;31m^") {
		t.Errorf("caret not colorized in %q", out)
	}
	if !strings.Contains(out, "\033[0m") {
		t.Errorf("missing reset escape in %q", out)
	}
}

func TestFormatErrorsJoinsAll(t *testing.T) {
	errs := []*Error{
		NewNameError("undefined variable 'a'", token.Position{Line: 1, Column: 1}, "", ""),
		NewModuleError("module \"m\" not found", token.Position{Line: 2, Column: 1}, "", ""),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "Name error") || !strings.Contains(out, "Module error") {
		t.Errorf("joined output missing a kind: %q", out)
	}
}

func TestFromStringErrorsRecoversPositions(t *testing.T) {
	errs := FromStringErrors(Lexical, []string{
		"unterminated string literal at 3:14",
		"no position here",
	}, "src", "f.zox")
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	if errs[0].Pos.Line != 3 || errs[0].Pos.Column != 14 {
		t.Errorf("pos = %+v, want 3:14", errs[0].Pos)
	}
	if errs[0].Message != "unterminated string literal" {
		t.Errorf("message = %q, want suffix stripped", errs[0].Message)
	}
	if errs[1].Pos.Line != 0 || errs[1].Message != "no position here" {
		t.Errorf("positionless error mangled: %+v", errs[1])
	}
}

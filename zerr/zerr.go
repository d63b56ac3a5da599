// Package zerr formats Zox compiler/runtime errors with source context.
// It is named zerr rather than errors so callers can import it alongside
// the standard library's errors package without renaming either.
package zerr

import (
	"fmt"
	"strings"

	"github.com/zokis/zox/token"
)

// Kind is the diagnostic taxonomy: lexical, parse, name, type, value,
// and module errors.
type Kind string

const (
	Lexical Kind = "Lexical error"
	Parse   Kind = "Parse error"
	Name    Kind = "Name error"
	Type    Kind = "Type error"
	ValueK  Kind = "Value error"
	Module  Kind = "Module error"
)

// Error is a single diagnostic with source context.
type Error struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New builds an Error. Source and File may be empty when context is
// unavailable (e.g. a REPL line evaluated without a backing file).
func New(kind Kind, message string, pos token.Position, source, file string) *Error {
	return &Error{Kind: kind, Message: message, Source: source, File: file, Pos: pos}
}

// Per-kind constructors, so callers can build a classified diagnostic
// without threading Kind constants around.

func NewLexError(message string, pos token.Position, source, file string) *Error {
	return New(Lexical, message, pos, source, file)
}

func NewParseError(message string, pos token.Position, source, file string) *Error {
	return New(Parse, message, pos, source, file)
}

func NewNameError(message string, pos token.Position, source, file string) *Error {
	return New(Name, message, pos, source, file)
}

func NewTypeError(message string, pos token.Position, source, file string) *Error {
	return New(Type, message, pos, source, file)
}

func NewValueError(message string, pos token.Position, source, file string) *Error {
	return New(ValueK, message, pos, source, file)
}

func NewModuleError(message string, pos token.Position, source, file string) *Error {
	return New(Module, message, pos, source, file)
}

func (e *Error) Error() string { return e.Format(false) }

// Format renders the error with a source line and a caret pointing at the
// offending column; color adds ANSI escapes for terminal output.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		pad := len(prefix) + e.Pos.Column - 1
		if pad < 0 {
			pad = 0
		}
		sb.WriteString(strings.Repeat(" ", pad))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatErrors renders a batch of errors, one after another, separated by
// a newline.
func FormatErrors(errs []*Error, color bool) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Format(color)
	}
	return strings.Join(parts, "\n")
}

// FromStringErrors lifts plain error strings into classified diagnostics,
// recovering a position from a trailing "at LINE:COLUMN" when present.
func FromStringErrors(kind Kind, stringErrors []string, source, file string) []*Error {
	errs := make([]*Error, 0, len(stringErrors))
	for _, s := range stringErrors {
		pos, message := parseErrorString(s)
		errs = append(errs, New(kind, message, pos, source, file))
	}
	return errs
}

// parseErrorString splits "message at LINE:COLUMN" into its parts; a
// string without that suffix comes back whole with a zero position.
func parseErrorString(s string) (token.Position, string) {
	atIndex := strings.LastIndex(s, " at ")
	if atIndex == -1 {
		return token.Position{}, s
	}
	var line, column int
	if _, err := fmt.Sscanf(s[atIndex+4:], "%d:%d", &line, &column); err != nil {
		return token.Position{}, s
	}
	return token.Position{Line: line, Column: column}, strings.TrimSpace(s[:atIndex])
}

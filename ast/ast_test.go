package ast

import (
	"testing"

	"github.com/zokis/zox/token"
)

func TestProgramString(t *testing.T) {
	prog := &Program{
		Statements: []Statement{
			&VarDeclaration{Tok: token.Token{Lexeme: "let"}, Name: "x", Initializer: &NumberLiteral{Value: 1, Tok: token.Token{Lexeme: "1"}}},
		},
	}
	want := "let x = 1;\n"
	if got := prog.String(); got != want {
		t.Errorf("Program.String() = %q, want %q", got, want)
	}
}

func TestProgramTokenLiteralEmpty(t *testing.T) {
	prog := &Program{}
	if got := prog.TokenLiteral(); got != "" {
		t.Errorf("empty Program.TokenLiteral() = %q, want empty", got)
	}
}

func TestBinaryExprString(t *testing.T) {
	b := &BinaryExpr{
		Operator: "+",
		Left:     &NumberLiteral{Value: 1, Tok: token.Token{Lexeme: "1"}},
		Right:    &NumberLiteral{Value: 2, Tok: token.Token{Lexeme: "2"}},
	}
	if got, want := b.String(), "(1 + 2)"; got != want {
		t.Errorf("BinaryExpr.String() = %q, want %q", got, want)
	}
}

func TestUnaryExprString(t *testing.T) {
	u := &UnaryExpr{Operator: "-", Operand: &NumberLiteral{Value: 5, Tok: token.Token{Lexeme: "5"}}}
	if got, want := u.String(), "(-5)"; got != want {
		t.Errorf("UnaryExpr.String() = %q, want %q", got, want)
	}
}

func TestListLiteralString(t *testing.T) {
	l := &ListLiteral{Elements: []Expression{
		&NumberLiteral{Value: 1, Tok: token.Token{Lexeme: "1"}},
		&NumberLiteral{Value: 2, Tok: token.Token{Lexeme: "2"}},
	}}
	if got, want := l.String(), "{1, 2}"; got != want {
		t.Errorf("ListLiteral.String() = %q, want %q", got, want)
	}
}

func TestIfStringWithElseIf(t *testing.T) {
	inner := &If{
		Tok:  token.Token{Lexeme: "?"},
		Cond: &BooleanLiteral{Value: false, Tok: token.Token{Lexeme: "false"}},
	}
	outer := &If{
		Tok:    token.Token{Lexeme: "?"},
		Cond:   &BooleanLiteral{Value: true, Tok: token.Token{Lexeme: "true"}},
		ElseIf: inner,
	}
	want := "?(true) { ... } :?(false) { ... }"
	if got := outer.String(); got != want {
		t.Errorf("If.String() = %q, want %q", got, want)
	}
}

func TestImportStringWithBindings(t *testing.T) {
	imp := &Import{
		Module: "math",
		Bindings: []ImportBinding{
			{Name: "pi"},
			{Name: "sqrt", Alias: "root"},
		},
	}
	want := "~>math { pi, sqrt as root };"
	if got := imp.String(); got != want {
		t.Errorf("Import.String() = %q, want %q", got, want)
	}
}

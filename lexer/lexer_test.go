package lexer

import (
	"testing"

	"github.com/zokis/zox/token"
)

func typesOf(tokens []token.Token) []token.Type {
	types := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizeBasicProgram(t *testing.T) {
	src := `let x = 1 + 2;`
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []token.Type{
		token.LET, token.IDENT, token.EQUALS, token.NUMBER,
		token.BINARY_OP, token.NUMBER, token.SEMICOLON, token.EOF,
	}
	got := typesOf(tokens)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUnaryVsBinaryDisambiguation(t *testing.T) {
	// "-1" at the start of input: '-' has no previous token, so it is unary.
	tokens, err := Tokenize(`-1`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != token.UNARY_OP {
		t.Fatalf("leading '-' got %s, want UNARY_OP", tokens[0].Type)
	}

	// "1 - 2": '-' follows a NUMBER, so it is binary.
	tokens, err = Tokenize(`1 - 2`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[1].Type != token.BINARY_OP {
		t.Fatalf("infix '-' got %s, want BINARY_OP", tokens[1].Type)
	}

	// "(-1)": '-' follows '(', so it is unary.
	tokens, err = Tokenize(`(-1)`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[1].Type != token.UNARY_OP {
		t.Fatalf("'-' after '(' got %s, want UNARY_OP", tokens[1].Type)
	}

	// "let x = -3;": '-' follows '=', which cannot end an expression.
	tokens, err = Tokenize(`let x = -3;`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[3].Type != token.UNARY_OP {
		t.Fatalf("'-' after '=' got %s, want UNARY_OP", tokens[3].Type)
	}

	// "xs[-1]": '-' follows '[', so it starts a negative index expression.
	tokens, err = Tokenize(`xs[-1]`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[2].Type != token.UNARY_OP {
		t.Fatalf("'-' after '[' got %s, want UNARY_OP", tokens[2].Type)
	}

	// "xs[0] - 1": '-' follows ']', which ends an expression.
	tokens, err = Tokenize(`xs[0] - 1`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[4].Type != token.BINARY_OP {
		t.Fatalf("'-' after ']' got %s, want BINARY_OP", tokens[4].Type)
	}
}

func TestComparisonOperatorsMaximalMunch(t *testing.T) {
	cases := map[string]token.Type{
		"=":  token.EQUALS,
		"==": token.BINARY_OP,
		"!=": token.BINARY_OP,
		"<=": token.BINARY_OP,
		">=": token.BINARY_OP,
		"<":  token.BINARY_OP,
		">":  token.BINARY_OP,
	}
	for lexeme, want := range cases {
		tokens, err := Tokenize(lexeme)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", lexeme, err)
		}
		if tokens[0].Type != want {
			t.Errorf("Tokenize(%q)[0].Type = %s, want %s", lexeme, tokens[0].Type, want)
		}
		if tokens[0].Lexeme != lexeme {
			t.Errorf("Tokenize(%q)[0].Lexeme = %q, want %q", lexeme, tokens[0].Lexeme, lexeme)
		}
	}
}

func TestImportSigil(t *testing.T) {
	tokens, err := Tokenize(`~> math;`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != token.IMPORT {
		t.Fatalf("got %s, want IMPORT", tokens[0].Type)
	}
	if tokens[1].Type != token.IDENT {
		t.Fatalf("got %s, want IDENT", tokens[1].Type)
	}
}

func TestTableSigils(t *testing.T) {
	tokens, err := Tokenize(`|> a; <|`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != token.OPEN_TABLE {
		t.Errorf("got %s, want OPEN_TABLE", tokens[0].Type)
	}
}

func TestLineComment(t *testing.T) {
	tokens, err := Tokenize("1 -# trailing comment\n+ 2")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	got := typesOf(tokens)
	want := []token.Type{token.NUMBER, token.BINARY_OP, token.NUMBER, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(want))
	}
}

func TestStringLiteral(t *testing.T) {
	tokens, err := Tokenize(`"hello"`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != token.STRING || tokens[0].Lexeme != "hello" {
		t.Fatalf("got %+v, want STRING(hello)", tokens[0])
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize(`"oops`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestNumberWithTwoDecimalPointsIsError(t *testing.T) {
	_, err := Tokenize(`1.2.3`)
	if err == nil {
		t.Fatal("expected an error for a number with two decimal points")
	}
}

func TestIllegalByteIsError(t *testing.T) {
	_, err := Tokenize("`")
	if err == nil {
		t.Fatal("expected an error for an unrecognized byte")
	}
}

func TestUTF8BytesPassThroughIdentifier(t *testing.T) {
	tokens, err := Tokenize("café")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != token.IDENT {
		t.Fatalf("got %s, want IDENT", tokens[0].Type)
	}
	if tokens[0].Lexeme != "café" {
		t.Fatalf("got lexeme %q, want %q", tokens[0].Lexeme, "café")
	}
}

func TestDottedIdentifierIsImportIdent(t *testing.T) {
	tokens, err := Tokenize("math.pi")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if tokens[0].Type != token.IDENT_IMPORT {
		t.Fatalf("got %s, want IDENT_IMPORT", tokens[0].Type)
	}
}

func TestKeywords(t *testing.T) {
	tokens, err := Tokenize("let true false nil as")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []token.Type{token.LET, token.BOOLEAN, token.BOOLEAN, token.NIL, token.AS, token.EOF}
	got := typesOf(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBitwiseOperators(t *testing.T) {
	cases := []string{"&", "|", "^", "<<", ">>", "%", "**"}
	for _, lexeme := range cases {
		tokens, err := Tokenize(lexeme)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", lexeme, err)
		}
		if tokens[0].Type != token.BINARY_OP || tokens[0].Lexeme != lexeme {
			t.Errorf("Tokenize(%q)[0] = %+v, want BINARY_OP(%q)", lexeme, tokens[0], lexeme)
		}
	}
}

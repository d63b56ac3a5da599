// Package parser implements a recursive-descent parser with one token of
// lookahead over package lexer's token stream, producing package ast
// trees. The expression grammar is a fixed eight-level precedence ladder
// rather than a Pratt/operator-precedence table, since the ladder's level
// ordering (bitwise sandwiched between additive and multiplicative) does
// not correspond to a single binding-power scale.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zokis/zox/ast"
	"github.com/zokis/zox/token"
	"github.com/zokis/zox/zerr"
)

// Parser holds the full token slice (produced in one pass by the lexer)
// plus a cursor, rather than a two-token ring buffer over a streaming
// lexer.
type Parser struct {
	tokens []token.Token
	pos    int
	source string
	file   string
	errors []*zerr.Error
}

// New creates a Parser over a pre-lexed token slice.
func New(tokens []token.Token, source, file string) *Parser {
	return &Parser{tokens: tokens, source: source, file: file}
}

// Errors returns every parse error collected while parsing the program.
// The parser does not stop at the first error: it records it and, where a
// recognizable recovery point exists, keeps parsing. Recovery is attempted
// at statement boundaries, both at top level and inside blocks.
func (p *Parser) Errors() []*zerr.Error { return p.errors }

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) error {
	e := zerr.NewParseError(fmt.Sprintf(format, args...), pos, p.source, p.file)
	p.errors = append(p.errors, e)
	return e
}

func (p *Parser) expect(kind token.Type) (token.Token, error) {
	if p.cur().Type != kind {
		tok := p.cur()
		err := p.errorf(tok.Pos, "unexpected token %s (%q); expected %s", tok.Type, tok.Lexeme, kind)
		return tok, err
	}
	return p.advance(), nil
}

// ParseProgram parses the entire token stream into a Program. Parsing
// continues past a statement-level error: the offending statement is
// skipped up to the next recognizable boundary so later errors in the
// same source are still reported.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur().Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			p.synchronize()
			continue
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog
}

// synchronize advances past tokens until a plausible statement boundary
// (a semicolon, just consumed, or EOF) so that one bad statement does not
// cascade into spurious downstream errors.
func (p *Parser) synchronize() {
	for p.cur().Type != token.EOF {
		if p.cur().Type == token.SEMICOLON {
			p.advance()
			return
		}
		p.advance()
	}
}

// parseStatement parses one expression (the expression grammar already
// covers `let`, `~>`, `?`, `#`, `@`, `$` via Primary dispatch) and, if a
// semicolon follows, consumes it. `let`/`~>` consume their own mandatory
// trailing `;` as part of their own grammar, so this is a no-op for them.
func (p *Parser) parseStatement() (ast.Statement, error) {
	expr, err := p.parseExpression(precOr)
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.SEMICOLON {
		p.advance()
	}
	return expr, nil
}

// parseBlock parses statements until it sees end, consuming end itself.
func (p *Parser) parseBlock(end token.Type) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for p.cur().Type != end && p.cur().Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(end); err != nil {
		return stmts, err
	}
	return stmts, nil
}

// ---------------------------------------------------------------------
// Precedence ladder, loosest to tightest.
// ---------------------------------------------------------------------

const (
	precOr = iota
	precAnd
	precEquality
	precComparison
	precAdditive
	precBitwise
	precMultiplicative
	precPrimary
)

func (p *Parser) parseExpression(level int) (ast.Expression, error) {
	switch level {
	case precOr:
		return p.parseBinaryLevel(precAnd, isOp("||"))
	case precAnd:
		return p.parseBinaryLevel(precEquality, isOp("&&"))
	case precEquality:
		return p.parseBinaryLevel(precComparison, isOp("==", "!="))
	case precComparison:
		return p.parseBinaryLevel(precAdditive, isOp("<", ">", "<=", ">="))
	case precAdditive:
		return p.parseBinaryLevel(precBitwise, isOp("+", "-"))
	case precBitwise:
		return p.parseBinaryLevel(precMultiplicative, isOp("^", "&", "|", "<<", ">>"))
	case precMultiplicative:
		return p.parseBinaryLevel(precPrimary, isOp("*", "/", "%", "**"))
	default:
		return p.parsePrimary()
	}
}

// isOp returns a predicate matching a BINARY_OP token whose lexeme is one
// of ops.
func isOp(ops ...string) func(token.Token) bool {
	set := make(map[string]bool, len(ops))
	for _, o := range ops {
		set[o] = true
	}
	return func(t token.Token) bool {
		return t.Type == token.BINARY_OP && set[t.Lexeme]
	}
}

// parseBinaryLevel implements one rung of the ladder: parse the next
// tighter level, then greedily consume operators matching this level,
// left-associatively.
func (p *Parser) parseBinaryLevel(next int, match func(token.Token) bool) (ast.Expression, error) {
	left, err := p.parseExpression(next)
	if err != nil {
		return nil, err
	}
	for match(p.cur()) {
		opTok := p.advance()
		right, err := p.parseExpression(next)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Tok: opTok, Operator: opTok.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

// ---------------------------------------------------------------------
// Primary
// ---------------------------------------------------------------------

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.FUNCTION:
		return p.parseFuncDef()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.LET:
		return p.parseVarDeclaration()
	case token.IMPORT:
		return p.parseImport()
	case token.IDENT:
		return p.parseIdentifierExpr()
	case token.IDENT_IMPORT:
		p.advance()
		return &ast.Identifier{Tok: tok, Name: tok.Lexeme}, nil
	case token.NUMBER:
		p.advance()
		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf(tok.Pos, "invalid number literal %q", tok.Lexeme)
		}
		return &ast.NumberLiteral{Tok: tok, Value: n}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Tok: tok, Value: interpretEscapes(tok.Lexeme)}, nil
	case token.BOOLEAN:
		p.advance()
		return &ast.BooleanLiteral{Tok: tok, Value: tok.Lexeme == "true"}, nil
	case token.NIL:
		p.advance()
		return &ast.NilLiteral{Tok: tok}, nil
	case token.LBRACE:
		return p.parseListLiteral()
	case token.LBRACKET:
		return p.parseDictLiteral()
	case token.OPEN_TABLE:
		return p.parseTableLiteral()
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.UNARY_OP:
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Tok: tok, Operator: tok.Lexeme, Operand: operand}, nil
	case token.SEMICOLON:
		p.advance()
		return p.parsePrimary()
	default:
		return nil, p.errorf(tok.Pos, "unexpected token %s (%q)", tok.Type, tok.Lexeme)
	}
}

// interpretEscapes processes C-style escapes at parse time (the lexer
// keeps string bodies raw): \n \t \r \b \f \" \' \\.
func interpretEscapes(raw string) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(raw[i])
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// ---------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	tok := p.advance() // '{'
	var elems []ast.Expression
	for p.cur().Type != token.RBRACE && p.cur().Type != token.EOF {
		e, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.cur().Type == token.COMMA {
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Tok: tok, Elements: elems}, nil
}

func (p *Parser) parseDictLiteral() (ast.Expression, error) {
	tok := p.advance() // '['
	var keys, values []ast.Expression
	for p.cur().Type != token.RBRACKET && p.cur().Type != token.EOF {
		k, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ARROW); err != nil {
			return nil, err
		}
		v, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values = append(values, v)
		if p.cur().Type == token.SEMICOLON {
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.DictLiteral{Tok: tok, Keys: keys, Values: values}, nil
}

func (p *Parser) parseTableLiteral() (ast.Expression, error) {
	tok := p.advance() // '|>'
	var columns []string
	for p.cur().Type != token.CLOSE_TABLE && p.cur().Type != token.EOF {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		columns = append(columns, name.Lexeme)
		if p.cur().Type == token.SEMICOLON {
			p.advance()
		}
	}
	if _, err := p.expect(token.CLOSE_TABLE); err != nil {
		return nil, err
	}
	return &ast.TableLiteral{Tok: tok, Columns: columns}, nil
}

// ---------------------------------------------------------------------
// let / ~> / if / while / for / function
// ---------------------------------------------------------------------

func (p *Parser) parseVarDeclaration() (ast.Expression, error) {
	tok := p.advance() // 'let'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDeclaration{Tok: tok, Name: name.Lexeme}
	if p.cur().Type == token.EQUALS {
		p.advance()
		init, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		decl.Initializer = init
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseImport() (ast.Expression, error) {
	tok := p.advance() // '~>'
	nameTok := p.cur()
	if nameTok.Type != token.IDENT && nameTok.Type != token.IDENT_IMPORT {
		return nil, p.errorf(nameTok.Pos, "expected module name after ~>, got %q", nameTok.Lexeme)
	}
	p.advance()

	imp := &ast.Import{Tok: tok, Module: nameTok.Lexeme}
	if p.cur().Type == token.LBRACE {
		p.advance()
		for p.cur().Type != token.RBRACE && p.cur().Type != token.EOF {
			nameIdent, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			binding := ast.ImportBinding{Name: nameIdent.Lexeme}
			if p.cur().Type == token.AS {
				p.advance()
				alias, err := p.expect(token.IDENT)
				if err != nil {
					return nil, err
				}
				binding.Alias = alias.Lexeme
			}
			imp.Bindings = append(imp.Bindings, binding)
			if p.cur().Type == token.COMMA {
				p.advance()
			}
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return imp, nil
}

func (p *Parser) parseIf() (ast.Expression, error) {
	tok := p.advance() // '?'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.RBRACE)
	if err != nil {
		return nil, err
	}

	node := &ast.If{Tok: tok, Cond: cond, Body: body}

	if p.cur().Type == token.ELSE {
		p.advance() // ':'
		switch p.cur().Type {
		case token.IF:
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			node.ElseIf = elseIf.(*ast.If)
		case token.LBRACE:
			p.advance()
			elseBody, err := p.parseBlock(token.RBRACE)
			if err != nil {
				return nil, err
			}
			node.ElseBody = elseBody
		default:
			return nil, p.errorf(p.cur().Pos, "expected ? or { after : in if-expression")
		}
	}
	return node, nil
}

func (p *Parser) parseWhile() (ast.Expression, error) {
	tok := p.advance() // '#'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.While{Tok: tok, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Expression, error) {
	tok := p.advance() // '@'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	initStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	step, err := p.parseExpression(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.For{Tok: tok, Init: initStmt, Cond: cond, Step: step, Body: body}, nil
}

func (p *Parser) parseFuncDef() (ast.Expression, error) {
	tok := p.advance() // '$'
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Type != token.RPAREN && p.cur().Type != token.EOF {
		paramTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, paramTok.Lexeme)
		if p.cur().Type == token.COMMA {
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Tok: tok, Name: name.Lexeme, Params: params, Body: body}, nil
}

// ---------------------------------------------------------------------
// Identifier postfix chain: call, index/slice, dict-key, assignment.
// ---------------------------------------------------------------------

func (p *Parser) parseIdentifierExpr() (ast.Expression, error) {
	tok := p.advance()
	name := tok.Lexeme
	var expr ast.Expression = &ast.Identifier{Tok: tok, Name: name}

	for {
		switch p.cur().Type {
		case token.EQUALS:
			p.advance()
			val, err := p.parseExpression(precOr)
			if err != nil {
				return nil, err
			}
			return &ast.AssignVar{Tok: tok, Name: name, Value: val}, nil

		case token.LPAREN:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Tok: tok, Callee: expr, Args: args}

		case token.LBRACKET:
			start, end, isSlice, err := p.parseSubscript()
			if err != nil {
				return nil, err
			}
			if p.cur().Type == token.EQUALS && !isSlice {
				p.advance()
				val, err := p.parseExpression(precOr)
				if err != nil {
					return nil, err
				}
				return &ast.AssignListVar{Tok: tok, Name: name, Index: start, Value: val}, nil
			}
			expr = &ast.ListIndex{Tok: tok, Target: expr, Start: start, End: end, IsSlice: isSlice}

		case token.LBRACE:
			p.advance()
			key, err := p.parseExpression(precOr)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACE); err != nil {
				return nil, err
			}
			if p.cur().Type == token.EQUALS {
				p.advance()
				val, err := p.parseExpression(precOr)
				if err != nil {
					return nil, err
				}
				return &ast.AssignDictVar{Tok: tok, Name: name, Key: key, Value: val}, nil
			}
			expr = &ast.DictKey{Tok: tok, Target: expr, Key: key}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expression, error) {
	p.advance() // '('
	var args []ast.Expression
	for p.cur().Type != token.RPAREN && p.cur().Type != token.EOF {
		a, err := p.parseExpression(precOr)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur().Type == token.COMMA {
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parseSubscript parses the contents of `[ ... ]`: an `[:` prefix means
// slice-from-zero; otherwise an expression, optionally followed by `:`
// and an end expression for a slice.
func (p *Parser) parseSubscript() (start, end ast.Expression, isSlice bool, err error) {
	p.advance() // '['

	if p.cur().Type == token.ELSE { // ':' — slice-from-zero
		isSlice = true
		p.advance()
		if p.cur().Type != token.RBRACKET {
			end, err = p.parseExpression(precOr)
			if err != nil {
				return nil, nil, false, err
			}
		}
		if _, e := p.expect(token.RBRACKET); e != nil {
			return nil, nil, false, e
		}
		return nil, end, true, nil
	}

	start, err = p.parseExpression(precOr)
	if err != nil {
		return nil, nil, false, err
	}
	if p.cur().Type == token.ELSE {
		isSlice = true
		p.advance()
		if p.cur().Type != token.RBRACKET {
			end, err = p.parseExpression(precOr)
			if err != nil {
				return nil, nil, false, err
			}
		}
	}
	if _, e := p.expect(token.RBRACKET); e != nil {
		return nil, nil, false, e
	}
	return start, end, isSlice, nil
}

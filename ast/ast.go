// Package ast defines the abstract syntax tree produced by package parser
// and consumed by package eval.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/zokis/zox/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement is any node that can appear in a statement sequence.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Statement that also produces a value; every expression
// may appear as a statement.
type Expression interface {
	Statement
	expressionNode()
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ---------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------

type NilLiteral struct {
	Tok token.Token
}

func (n *NilLiteral) statementNode()       {}
func (n *NilLiteral) expressionNode()      {}
func (n *NilLiteral) TokenLiteral() string { return n.Tok.Lexeme }
func (n *NilLiteral) String() string       { return "nil" }

type BooleanLiteral struct {
	Tok   token.Token
	Value bool
}

func (b *BooleanLiteral) statementNode()       {}
func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Tok.Lexeme }
func (b *BooleanLiteral) String() string       { return b.Tok.Lexeme }

type NumberLiteral struct {
	Tok   token.Token
	Value float64
}

func (n *NumberLiteral) statementNode()       {}
func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Tok.Lexeme }
func (n *NumberLiteral) String() string       { return n.Tok.Lexeme }

type StringLiteral struct {
	Tok   token.Token
	Value string
}

func (s *StringLiteral) statementNode()       {}
func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Tok.Lexeme }
func (s *StringLiteral) String() string       { return fmt.Sprintf("%q", s.Value) }

// ListLiteral is an ordered sequence of element expressions: { a, b, c }.
type ListLiteral struct {
	Tok      token.Token
	Elements []Expression
}

func (l *ListLiteral) statementNode()       {}
func (l *ListLiteral) expressionNode()      {}
func (l *ListLiteral) TokenLiteral() string { return l.Tok.Lexeme }
func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// DictLiteral holds parallel key/value expression slices: [ k -> v; ... ].
type DictLiteral struct {
	Tok    token.Token
	Keys   []Expression
	Values []Expression
}

func (d *DictLiteral) statementNode()       {}
func (d *DictLiteral) expressionNode()      {}
func (d *DictLiteral) TokenLiteral() string { return d.Tok.Lexeme }
func (d *DictLiteral) String() string {
	parts := make([]string, len(d.Keys))
	for i := range d.Keys {
		parts[i] = d.Keys[i].String() + " -> " + d.Values[i].String()
	}
	return "[" + strings.Join(parts, "; ") + "]"
}

// TableLiteral declares the ordered column names of a table: |> a; b <|.
type TableLiteral struct {
	Tok     token.Token
	Columns []string
}

func (t *TableLiteral) statementNode()       {}
func (t *TableLiteral) expressionNode()      {}
func (t *TableLiteral) TokenLiteral() string { return t.Tok.Lexeme }
func (t *TableLiteral) String() string {
	return "|>" + strings.Join(t.Columns, ";") + "<|"
}

// ---------------------------------------------------------------------
// Identifiers, unary/binary expressions
// ---------------------------------------------------------------------

type Identifier struct {
	Tok  token.Token
	Name string
}

func (i *Identifier) statementNode()       {}
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Tok.Lexeme }
func (i *Identifier) String() string       { return i.Name }

type UnaryExpr struct {
	Tok      token.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpr) statementNode()       {}
func (u *UnaryExpr) expressionNode()      {}
func (u *UnaryExpr) TokenLiteral() string { return u.Tok.Lexeme }
func (u *UnaryExpr) String() string       { return "(" + u.Operator + u.Operand.String() + ")" }

type BinaryExpr struct {
	Tok      token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpr) statementNode()       {}
func (b *BinaryExpr) expressionNode()      {}
func (b *BinaryExpr) TokenLiteral() string { return b.Tok.Lexeme }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// ---------------------------------------------------------------------
// Declarations and assignments
// ---------------------------------------------------------------------

type VarDeclaration struct {
	Tok         token.Token
	Name        string
	Initializer Expression // nil means implicit nil initializer
}

func (v *VarDeclaration) statementNode()       {}
func (v *VarDeclaration) expressionNode()      {}
func (v *VarDeclaration) TokenLiteral() string { return v.Tok.Lexeme }
func (v *VarDeclaration) String() string {
	if v.Initializer == nil {
		return "let " + v.Name + ";"
	}
	return "let " + v.Name + " = " + v.Initializer.String() + ";"
}

type AssignVar struct {
	Tok   token.Token
	Name  string
	Value Expression
}

func (a *AssignVar) statementNode()       {}
func (a *AssignVar) expressionNode()      {}
func (a *AssignVar) TokenLiteral() string { return a.Tok.Lexeme }
func (a *AssignVar) String() string       { return a.Name + " = " + a.Value.String() }

type AssignListVar struct {
	Tok   token.Token
	Name  string
	Index Expression
	Value Expression
}

func (a *AssignListVar) statementNode()       {}
func (a *AssignListVar) expressionNode()      {}
func (a *AssignListVar) TokenLiteral() string { return a.Tok.Lexeme }
func (a *AssignListVar) String() string {
	return fmt.Sprintf("%s[%s] = %s", a.Name, a.Index.String(), a.Value.String())
}

type AssignDictVar struct {
	Tok   token.Token
	Name  string
	Key   Expression
	Value Expression
}

func (a *AssignDictVar) statementNode()       {}
func (a *AssignDictVar) expressionNode()      {}
func (a *AssignDictVar) TokenLiteral() string { return a.Tok.Lexeme }
func (a *AssignDictVar) String() string {
	return fmt.Sprintf("%s{%s} = %s", a.Name, a.Key.String(), a.Value.String())
}

// ---------------------------------------------------------------------
// Indexing
// ---------------------------------------------------------------------

// ListIndex covers both single-element indexing and slicing of
// Lists/Strings/Tables, distinguished by IsSlice.
type ListIndex struct {
	Tok     token.Token
	Target  Expression
	Start   Expression
	End     Expression // nil when absent; meaning depends on IsSlice
	IsSlice bool
}

func (l *ListIndex) statementNode()       {}
func (l *ListIndex) expressionNode()      {}
func (l *ListIndex) TokenLiteral() string { return l.Tok.Lexeme }
func (l *ListIndex) String() string {
	if !l.IsSlice {
		return fmt.Sprintf("%s[%s]", l.Target.String(), l.Start.String())
	}
	end := ""
	if l.End != nil {
		end = l.End.String()
	}
	start := ""
	if l.Start != nil {
		start = l.Start.String()
	}
	return fmt.Sprintf("%s[%s:%s]", l.Target.String(), start, end)
}

type DictKey struct {
	Tok    token.Token
	Target Expression
	Key    Expression
}

func (d *DictKey) statementNode()       {}
func (d *DictKey) expressionNode()      {}
func (d *DictKey) TokenLiteral() string { return d.Tok.Lexeme }
func (d *DictKey) String() string {
	return fmt.Sprintf("%s{%s}", d.Target.String(), d.Key.String())
}

// ---------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------

// If models both a leaf conditional and, via ElseIf, a chained else-if
// ladder: ElseIf is itself an If node or nil.
type If struct {
	Tok      token.Token
	Cond     Expression
	Body     []Statement
	ElseIf   *If
	ElseBody []Statement // nil when absent
}

func (i *If) statementNode()       {}
func (i *If) expressionNode()      {}
func (i *If) TokenLiteral() string { return i.Tok.Lexeme }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("?(")
	out.WriteString(i.Cond.String())
	out.WriteString(") { ... }")
	if i.ElseIf != nil {
		out.WriteString(" :")
		out.WriteString(i.ElseIf.String())
	} else if i.ElseBody != nil {
		out.WriteString(" : { ... }")
	}
	return out.String()
}

type While struct {
	Tok  token.Token
	Cond Expression
	Body []Statement
}

func (w *While) statementNode()       {}
func (w *While) expressionNode()      {}
func (w *While) TokenLiteral() string { return w.Tok.Lexeme }
func (w *While) String() string       { return "#(" + w.Cond.String() + ") { ... }" }

type For struct {
	Tok  token.Token
	Init Statement
	Cond Expression
	Step Statement
	Body []Statement
}

func (f *For) statementNode()       {}
func (f *For) expressionNode()      {}
func (f *For) TokenLiteral() string { return f.Tok.Lexeme }
func (f *For) String() string {
	return fmt.Sprintf("@(%s %s; %s) { ... }", f.Init.String(), f.Cond.String(), f.Step.String())
}

// ---------------------------------------------------------------------
// Functions and calls
// ---------------------------------------------------------------------

type FuncDef struct {
	Tok    token.Token
	Name   string
	Params []string
	Body   []Statement
}

func (f *FuncDef) statementNode()       {}
func (f *FuncDef) expressionNode()      {}
func (f *FuncDef) TokenLiteral() string { return f.Tok.Lexeme }
func (f *FuncDef) String() string {
	return "$" + f.Name + "(" + strings.Join(f.Params, ", ") + ") { ... }"
}

type Call struct {
	Tok    token.Token
	Callee Expression
	Args   []Expression
}

func (c *Call) statementNode()       {}
func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Tok.Lexeme }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// ---------------------------------------------------------------------
// Import
// ---------------------------------------------------------------------

// ImportBinding is one selective-import entry: `name` or `name as alias`.
type ImportBinding struct {
	Name  string
	Alias string // empty when no alias given
}

// Import is `~> module;` or `~> module { a, b as c };`. Bindings is nil
// when no selective list was given (the whole module is bound instead).
type Import struct {
	Tok      token.Token
	Module   string
	Bindings []ImportBinding
}

func (i *Import) statementNode()       {}
func (i *Import) expressionNode()      {}
func (i *Import) TokenLiteral() string { return i.Tok.Lexeme }
func (i *Import) String() string {
	if i.Bindings == nil {
		return "~>" + i.Module + ";"
	}
	parts := make([]string, len(i.Bindings))
	for idx, b := range i.Bindings {
		if b.Alias == "" {
			parts[idx] = b.Name
		} else {
			parts[idx] = b.Name + " as " + b.Alias
		}
	}
	return "~>" + i.Module + " { " + strings.Join(parts, ", ") + " };"
}

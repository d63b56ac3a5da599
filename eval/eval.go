// Package eval implements the tree-walking evaluator: dispatch on AST node
// kind, the binary-operator table, control flow, closures, and the module
// import pipeline.
package eval

import (
	"fmt"
	"math"

	"github.com/zokis/zox/ast"
	"github.com/zokis/zox/token"
	"github.com/zokis/zox/value"
	"github.com/zokis/zox/zerr"
)

// Interpreter owns the global environment and its external collaborators:
// a module resolver and, indirectly, whatever host builtins have been
// registered into Global before Run is called.
type Interpreter struct {
	Global   *value.Environment
	Resolver ModuleResolver
	Source   string
	File     string
}

// New creates an Interpreter with a bootstrapped global environment.
// Resolver may be nil; a program that never imports never needs one.
func New(resolver ModuleResolver) *Interpreter {
	in := &Interpreter{Global: value.NewEnvironment(), Resolver: resolver}
	in.bootstrap()
	return in
}

// bootstrap declares the globals that must exist before any user code
// runs. nil/true/false are reachable as literals already; PI is the one
// bootstrap value the interpreter itself provides, since it needs no host
// collaborator.
func (in *Interpreter) bootstrap() {
	_ = in.Global.Declare("PI", value.Num(math.Pi))
}

// RegisterHost installs a host-provided callable under name with a fixed
// arity. Re-registering an existing name is an error, same as any other
// duplicate declaration.
func (in *Interpreter) RegisterHost(name string, arity int, fn value.HostFunc) error {
	params := make([]string, arity)
	return in.Global.Declare(name, value.FunctionVal{Name: name, Params: params, Host: fn})
}

// Run evaluates a parsed program against the global environment.
func (in *Interpreter) Run(prog *ast.Program) (value.Value, error) {
	return in.evalStatements(prog.Statements, in.Global)
}

// Eval dispatches a single node.
func (in *Interpreter) Eval(node ast.Node, env *value.Environment) (value.Value, error) {
	switch n := node.(type) {
	case *ast.NilLiteral:
		return value.Nil, nil
	case *ast.BooleanLiteral:
		return value.Bool(n.Value), nil
	case *ast.NumberLiteral:
		return value.Num(n.Value), nil
	case *ast.StringLiteral:
		return value.Str(n.Value), nil
	case *ast.Identifier:
		v, err := env.Lookup(n.Name)
		if err != nil {
			return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
		}
		return v, nil
	case *ast.ListLiteral:
		return in.evalListLiteral(n, env)
	case *ast.DictLiteral:
		return in.evalDictLiteral(n, env)
	case *ast.TableLiteral:
		return value.NewTable(n.Columns), nil
	case *ast.UnaryExpr:
		return in.evalUnary(n, env)
	case *ast.BinaryExpr:
		return in.evalBinary(n, env)
	case *ast.VarDeclaration:
		return in.evalVarDeclaration(n, env)
	case *ast.AssignVar:
		return in.evalAssignVar(n, env)
	case *ast.AssignListVar:
		return in.evalAssignListVar(n, env)
	case *ast.AssignDictVar:
		return in.evalAssignDictVar(n, env)
	case *ast.ListIndex:
		return in.evalListIndex(n, env)
	case *ast.DictKey:
		return in.evalDictKey(n, env)
	case *ast.If:
		return in.evalIf(n, env)
	case *ast.While:
		return in.evalWhile(n, env)
	case *ast.For:
		return in.evalFor(n, env)
	case *ast.FuncDef:
		return in.evalFuncDef(n, env)
	case *ast.Call:
		return in.evalCall(n, env)
	case *ast.Import:
		return in.evalImport(n, env)
	default:
		return nil, in.errAt(zerr.Parse, token.Position{}, "cannot evaluate node of type %T", node)
	}
}

func (in *Interpreter) errAt(kind zerr.Kind, pos token.Position, format string, args ...interface{}) error {
	return zerr.New(kind, fmt.Sprintf(format, args...), pos, in.Source, in.File)
}

func (in *Interpreter) wrapEnvErr(err error, kind zerr.Kind, pos token.Position) error {
	if ne, ok := err.(*value.NameError); ok {
		return in.errAt(kind, pos, "%s", ne.Message)
	}
	return err
}

// evalStatements evaluates a statement sequence in order; result is the
// last value, or Nil for an empty sequence.
func (in *Interpreter) evalStatements(stmts []ast.Statement, env *value.Environment) (value.Value, error) {
	var result value.Value = value.Nil
	for _, stmt := range stmts {
		v, err := in.Eval(stmt, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// ---------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------

func (in *Interpreter) evalListLiteral(n *ast.ListLiteral, env *value.Environment) (value.Value, error) {
	items := make([]value.Value, len(n.Elements))
	for i, e := range n.Elements {
		v, err := in.Eval(e, env)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return value.NewList(items), nil
}

func (in *Interpreter) evalDictLiteral(n *ast.DictLiteral, env *value.Environment) (value.Value, error) {
	d := value.NewDict()
	for i := range n.Keys {
		kv, err := in.Eval(n.Keys[i], env)
		if err != nil {
			return nil, err
		}
		key, ok := value.StringifyKey(kv)
		if !ok {
			return nil, in.errAt(zerr.Type, n.Tok.Pos, "dict key of type %s is not convertible to a string", kv.TypeName())
		}
		vv, err := in.Eval(n.Values[i], env)
		if err != nil {
			return nil, err
		}
		d.Set(key, vv)
	}
	return d, nil
}

// ---------------------------------------------------------------------
// Unary
// ---------------------------------------------------------------------

func (in *Interpreter) evalUnary(n *ast.UnaryExpr, env *value.Environment) (value.Value, error) {
	operand, err := in.Eval(n.Operand, env)
	if err != nil {
		return nil, err
	}
	num, ok := coerceNumber(operand)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "unary %q is not defined for type %s", n.Operator, operand.TypeName())
	}
	switch n.Operator {
	case "-":
		return value.Num(-num), nil
	case "+":
		return value.Num(num), nil
	case "*", "/":
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "unary %q is not a defined unary operator", n.Operator)
	default:
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "unknown unary operator %q", n.Operator)
	}
}

// ---------------------------------------------------------------------
// Declarations and assignment
// ---------------------------------------------------------------------

func (in *Interpreter) evalVarDeclaration(n *ast.VarDeclaration, env *value.Environment) (value.Value, error) {
	var v value.Value = value.Nil
	if n.Initializer != nil {
		var err error
		v, err = in.Eval(n.Initializer, env)
		if err != nil {
			return nil, err
		}
	}
	if err := env.Declare(n.Name, v); err != nil {
		return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
	}
	return v, nil
}

func (in *Interpreter) evalAssignVar(n *ast.AssignVar, env *value.Environment) (value.Value, error) {
	v, err := in.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(n.Name, v); err != nil {
		return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
	}
	return v, nil
}

func (in *Interpreter) evalAssignListVar(n *ast.AssignListVar, env *value.Environment) (value.Value, error) {
	target, err := env.Lookup(n.Name)
	if err != nil {
		return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
	}
	list, ok := target.(value.ListVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "cannot index-assign a %s", target.TypeName())
	}
	idxVal, err := in.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	idx, ok := coerceNumber(idxVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "list index must be a number, got %s", idxVal.TypeName())
	}
	v, err := in.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	i := int(idx)
	items := *list.Items
	if i < 0 {
		i += len(items)
	}
	if i < 0 || i >= len(items) {
		return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "list index %d out of range", int(idx))
	}
	items[i] = v
	return v, nil
}

func (in *Interpreter) evalAssignDictVar(n *ast.AssignDictVar, env *value.Environment) (value.Value, error) {
	target, err := env.Lookup(n.Name)
	if err != nil {
		return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
	}
	d, ok := target.(value.DictVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "cannot key-assign a %s", target.TypeName())
	}
	keyVal, err := in.Eval(n.Key, env)
	if err != nil {
		return nil, err
	}
	key, ok := value.StringifyKey(keyVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "dict key of type %s is not convertible to a string", keyVal.TypeName())
	}
	v, err := in.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	d.Set(key, v)
	return v, nil
}

// ---------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------

func (in *Interpreter) evalIf(n *ast.If, env *value.Environment) (value.Value, error) {
	condEnv := value.NewChild(env)
	condVal, err := in.Eval(n.Cond, condEnv)
	if err != nil {
		return nil, err
	}
	cond, ok := condVal.(value.BooleanVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "if-condition must be Boolean, got %s", condVal.TypeName())
	}
	if cond.Value {
		return in.evalStatements(n.Body, condEnv)
	}
	if n.ElseIf != nil {
		return in.evalIf(n.ElseIf, env)
	}
	if n.ElseBody != nil {
		return in.evalStatements(n.ElseBody, value.NewChild(env))
	}
	return value.Nil, nil
}

func (in *Interpreter) evalWhile(n *ast.While, env *value.Environment) (value.Value, error) {
	loopEnv := value.NewChild(env)
	var result value.Value = value.Nil
	for {
		condVal, err := in.Eval(n.Cond, loopEnv)
		if err != nil {
			return nil, err
		}
		cond, ok := condVal.(value.BooleanVal)
		if !ok {
			return nil, in.errAt(zerr.Type, n.Tok.Pos, "while-condition must be Boolean, got %s", condVal.TypeName())
		}
		if !cond.Value {
			return result, nil
		}
		result, err = in.evalStatements(n.Body, loopEnv)
		if err != nil {
			return nil, err
		}
	}
}

func (in *Interpreter) evalFor(n *ast.For, env *value.Environment) (value.Value, error) {
	forEnv := value.NewChild(env)
	if _, err := in.Eval(n.Init, forEnv); err != nil {
		return nil, err
	}
	var result value.Value = value.Nil
	for {
		condVal, err := in.Eval(n.Cond, forEnv)
		if err != nil {
			return nil, err
		}
		cond, ok := condVal.(value.BooleanVal)
		if !ok {
			return nil, in.errAt(zerr.Type, n.Tok.Pos, "for-condition must be Boolean, got %s", condVal.TypeName())
		}
		if !cond.Value {
			return result, nil
		}
		bodyEnv := value.NewChild(forEnv)
		result, err = in.evalStatements(n.Body, bodyEnv)
		if err != nil {
			return nil, err
		}
		if _, err := in.Eval(n.Step, forEnv); err != nil {
			return nil, err
		}
	}
}

// ---------------------------------------------------------------------
// Functions and calls
// ---------------------------------------------------------------------

func (in *Interpreter) evalFuncDef(n *ast.FuncDef, env *value.Environment) (value.Value, error) {
	body := make([]value.Node, len(n.Body))
	for i, stmt := range n.Body {
		body[i] = stmt
	}
	fn := value.FunctionVal{Name: n.Name, Params: n.Params, Body: body, Env: env}
	if err := env.Declare(n.Name, fn); err != nil {
		return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
	}
	return fn, nil
}

func (in *Interpreter) evalCall(n *ast.Call, env *value.Environment) (value.Value, error) {
	calleeVal, err := in.Eval(n.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeVal.(value.FunctionVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "cannot call a %s", calleeVal.TypeName())
	}
	if len(n.Args) != fn.Arity() {
		return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "function %s expects %d argument(s), got %d", fn.Name, fn.Arity(), len(n.Args))
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if fn.IsHost() {
		return fn.Host(env, args)
	}
	callEnv := value.NewChild(fn.Env)
	for i, param := range fn.Params {
		if err := callEnv.Declare(param, args[i]); err != nil {
			return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
		}
	}
	bodyStmts := make([]ast.Statement, len(fn.Body))
	for i, node := range fn.Body {
		bodyStmts[i] = node.(ast.Statement)
	}
	return in.evalStatements(bodyStmts, callEnv)
}

// coerceNumber returns a Number's float64, or a Boolean coerced to 0/1
// for numeric operations.
func coerceNumber(v value.Value) (float64, bool) {
	switch val := v.(type) {
	case value.NumberVal:
		return val.Value, true
	case value.BooleanVal:
		if val.Value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

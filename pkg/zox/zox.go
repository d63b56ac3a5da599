// Package zox is the embeddable engine facade: a small wrapper over
// packages lexer/parser/eval/stdlib for host applications that want to
// run Zox source without assembling the pipeline themselves, configured
// with the functional-options pattern.
package zox

import (
	"github.com/zokis/zox/ast"
	"github.com/zokis/zox/eval"
	"github.com/zokis/zox/lexer"
	"github.com/zokis/zox/parser"
	"github.com/zokis/zox/stdlib"
	"github.com/zokis/zox/token"
	"github.com/zokis/zox/value"
	"github.com/zokis/zox/zerr"
)

// Engine runs Zox source against a single persistent global environment.
type Engine struct {
	interp   *eval.Interpreter
	resolver eval.ModuleResolver
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	resolver    eval.ModuleResolver
	skipCorelib bool
}

// WithModuleResolver supplies the resolver consulted for source-file
// imports after the built-in json/str native modules.
func WithModuleResolver(r eval.ModuleResolver) Option {
	return func(c *engineConfig) { c.resolver = r }
}

// WithoutCoreBuiltins skips registering the default catalog (keys, len,
// print, println, random, random_int, values, find), for hosts that want
// to supply their own.
func WithoutCoreBuiltins() Option {
	return func(c *engineConfig) { c.skipCorelib = true }
}

// New constructs an Engine with the given options applied.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var interp *eval.Interpreter
	if cfg.skipCorelib {
		interp = eval.New(&stdlib.Resolver{Next: cfg.resolver})
	} else {
		var err error
		interp, err = stdlib.Bootstrap(cfg.resolver)
		if err != nil {
			return nil, err
		}
	}
	return &Engine{interp: interp, resolver: cfg.resolver}, nil
}

// RegisterFunction installs a host callable under name with the given
// arity, usable from Zox source as an ordinary function call.
func (e *Engine) RegisterFunction(name string, arity int, fn value.HostFunc) error {
	return e.interp.RegisterHost(name, arity, fn)
}

// Eval lexes, parses, and evaluates source against the Engine's
// persistent global environment, returning the last statement's value.
func (e *Engine) Eval(source string) (value.Value, error) {
	return e.EvalFile(source, "<eval>")
}

// EvalFile is like Eval but attributes errors to file in diagnostics.
func (e *Engine) EvalFile(source, file string) (value.Value, error) {
	prog, err := e.Parse(source, file)
	if err != nil {
		return nil, err
	}
	return e.interp.Run(prog)
}

// Parse runs the lex/parse stages only, useful for tooling that wants the
// AST without evaluating it (e.g. --dump-ast in cmd/zox).
func (e *Engine) Parse(source, file string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		pos := token.Position{}
		if le, ok := err.(*lexer.Error); ok {
			pos = le.Pos
		}
		return nil, zerr.NewLexError(err.Error(), pos, source, file)
	}
	p := parser.New(tokens, source, file)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return prog, nil
}

// Global exposes the underlying environment for hosts that need direct
// bootstrap access (e.g. declaring constants before the first Eval).
func (e *Engine) Global() *value.Environment {
	return e.interp.Global
}

package eval

import (
	"github.com/zokis/zox/ast"
	"github.com/zokis/zox/lexer"
	"github.com/zokis/zox/parser"
	"github.com/zokis/zox/token"
	"github.com/zokis/zox/value"
	"github.com/zokis/zox/zerr"
)

// ModuleKind classifies how a ModuleResolver satisfied a request.
type ModuleKind int

const (
	ModuleNotFound ModuleKind = iota
	ModuleNative
	ModuleSource
)

// ModuleResolution is what a ModuleResolver returns for one module name.
// For ModuleNative, Init populates a freshly created environment with the
// module's bindings. For ModuleSource, Source holds the module's text and
// File its display name for error messages.
type ModuleResolution struct {
	Kind   ModuleKind
	Init   func(env *value.Environment) error
	Source string
	File   string
}

// ModuleResolver is the one collaborator the evaluator requires for
// imports; the search policy (filesystem, embedded, network) is entirely
// a host concern.
type ModuleResolver interface {
	Resolve(name string) (ModuleResolution, error)
}

// evalImport resolves and loads a module, then binds either a selective
// list of names or a whole-module snapshot into the caller's environment.
func (in *Interpreter) evalImport(n *ast.Import, env *value.Environment) (value.Value, error) {
	if in.Resolver == nil {
		return nil, in.errAt(zerr.Module, n.Tok.Pos, "no module resolver configured; cannot import %q", n.Module)
	}
	res, err := in.Resolver.Resolve(n.Module)
	if err != nil {
		return nil, in.errAt(zerr.Module, n.Tok.Pos, "module %q: %s", n.Module, err.Error())
	}

	// The module body runs in a fresh frame parented to the importing
	// scope, so module code can reach bootstrap values and registered
	// builtins while its own declarations stay in the frame the snapshot
	// and selective bindings read from.
	moduleEnv := value.NewChild(env)
	switch res.Kind {
	case ModuleNative:
		if res.Init == nil {
			return nil, in.errAt(zerr.Module, n.Tok.Pos, "native module %q has no initializer", n.Module)
		}
		if err := res.Init(moduleEnv); err != nil {
			return nil, in.errAt(zerr.Module, n.Tok.Pos, "module %q: %s", n.Module, err.Error())
		}
	case ModuleSource:
		if err := in.loadSourceModule(res, moduleEnv); err != nil {
			return nil, err
		}
	default:
		return nil, in.errAt(zerr.Module, n.Tok.Pos, "module %q not found", n.Module)
	}

	if n.Bindings == nil {
		snapshot := value.NewDict()
		moduleEnv.Each(func(name string, v value.Value) { snapshot.Set(name, v) })
		if err := env.Declare(n.Module, snapshot); err != nil {
			return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
		}
		return snapshot, nil
	}

	for _, binding := range n.Bindings {
		var v value.Value
		found := false
		moduleEnv.Each(func(name string, val value.Value) {
			if name == binding.Name {
				v, found = val, true
			}
		})
		if !found {
			return nil, in.errAt(zerr.Module, n.Tok.Pos, "name %q not found in module %q", binding.Name, n.Module)
		}
		bindName := binding.Name
		if binding.Alias != "" {
			bindName = binding.Alias
		}
		if err := env.Declare(bindName, v); err != nil {
			return nil, in.wrapEnvErr(err, zerr.Name, n.Tok.Pos)
		}
	}
	return value.Nil, nil
}

// loadSourceModule runs the full lex/parse/eval pipeline over a module's
// source text inside its own freshly created environment, sharing this
// Interpreter's resolver so transitive imports work.
func (in *Interpreter) loadSourceModule(res ModuleResolution, moduleEnv *value.Environment) error {
	tokens, err := lexer.Tokenize(res.Source)
	if err != nil {
		pos := token.Position{}
		if le, ok := err.(*lexer.Error); ok {
			pos = le.Pos
		}
		return zerr.NewLexError(err.Error(), pos, res.Source, res.File)
	}
	p := parser.New(tokens, res.Source, res.File)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return errs[0]
	}
	sub := &Interpreter{Global: moduleEnv, Resolver: in.Resolver, Source: res.Source, File: res.File}
	_, err = sub.Run(prog)
	return err
}

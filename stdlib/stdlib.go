// Package stdlib wires the native module catalog (corelib's globals plus
// the json and str native modules) into an eval.Interpreter, and supplies
// a default eval.ModuleResolver that serves those natives before falling
// back to a host-supplied resolver for source modules. The evaluator
// itself stays agnostic to any concrete resolution policy.
package stdlib

import (
	"fmt"

	"github.com/zokis/zox/eval"
	"github.com/zokis/zox/stdlib/corelib"
	"github.com/zokis/zox/stdlib/jsonmod"
	"github.com/zokis/zox/stdlib/strmod"
	"github.com/zokis/zox/value"
)

// Resolver serves the built-in native modules directly and delegates
// anything else to Next, which a host sets up for source-file modules
// (e.g. a filesystem lookup under a project's module path).
type Resolver struct {
	Next eval.ModuleResolver
}

var natives = map[string]func(*value.Environment) error{
	"json": jsonmod.Init,
	"str":  strmod.Init,
}

func (r *Resolver) Resolve(name string) (eval.ModuleResolution, error) {
	if init, ok := natives[name]; ok {
		return eval.ModuleResolution{Kind: eval.ModuleNative, Init: init}, nil
	}
	if r.Next != nil {
		return r.Next.Resolve(name)
	}
	return eval.ModuleResolution{Kind: eval.ModuleNotFound}, fmt.Errorf("module %q not found", name)
}

// Bootstrap creates an Interpreter with corelib's globals registered and
// the native json/str modules available through Resolve.
func Bootstrap(next eval.ModuleResolver) (*eval.Interpreter, error) {
	in := eval.New(&Resolver{Next: next})
	if err := corelib.Register(in); err != nil {
		return nil, err
	}
	return in, nil
}

package eval

import (
	"fmt"
	"testing"

	"github.com/zokis/zox/lexer"
	"github.com/zokis/zox/parser"
	"github.com/zokis/zox/value"
)

// mapResolver serves modules from an in-memory table, the smallest
// possible stand-in for a host's filesystem-backed resolver.
type mapResolver struct {
	sources map[string]string
	natives map[string]func(*value.Environment) error
}

func (r *mapResolver) Resolve(name string) (ModuleResolution, error) {
	if src, ok := r.sources[name]; ok {
		return ModuleResolution{Kind: ModuleSource, Source: src, File: name + ".zox"}, nil
	}
	if init, ok := r.natives[name]; ok {
		return ModuleResolution{Kind: ModuleNative, Init: init}, nil
	}
	return ModuleResolution{Kind: ModuleNotFound}, fmt.Errorf("module %q not found", name)
}

func runWith(t *testing.T, resolver ModuleResolver, src string) (value.Value, error) {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	p := parser.New(tokens, src, "<test>")
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("ParseProgram(%q) errors: %v", src, errs)
	}
	in := New(resolver)
	return in.Run(prog)
}

func TestImportSelectiveBindings(t *testing.T) {
	resolver := &mapResolver{sources: map[string]string{
		"mathx": `let tau = 6.5; $double(x){ x * 2 }`,
	}}
	got, err := runWith(t, resolver, `~> mathx { double, tau as TAU }; double(4) + TAU;`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := value.Num(14.5)
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestImportWholeModuleBindsSnapshot(t *testing.T) {
	resolver := &mapResolver{sources: map[string]string{
		"mathx": `let tau = 6.28;`,
	}}
	got, err := runWith(t, resolver, `~> mathx; mathx{"tau"};`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := value.Num(6.28)
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestImportedModuleSeesCallerGlobals(t *testing.T) {
	// The module body runs in a frame parented to the caller's globals, so
	// a registered host builtin is callable from inside the module.
	resolver := &mapResolver{sources: map[string]string{
		"shout": `let loud = amplify("hey");`,
	}}
	tokens, err := lexer.Tokenize(`~> shout { loud };  loud;`)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	p := parser.New(tokens, "", "<test>")
	prog := p.ParseProgram()
	in := New(resolver)
	err = in.RegisterHost("amplify", 1, func(env *value.Environment, args []value.Value) (value.Value, error) {
		s := args[0].(value.StringVal)
		return value.Str(string(s.Value) + "!"), nil
	})
	if err != nil {
		t.Fatalf("RegisterHost error: %v", err)
	}
	got, err := in.Run(prog)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !value.Equal(got, value.Str("hey!")) {
		t.Errorf("got %v, want \"hey!\"", got)
	}
}

func TestImportNativeModule(t *testing.T) {
	resolver := &mapResolver{natives: map[string]func(*value.Environment) error{
		"answers": func(env *value.Environment) error {
			return env.Declare("best", value.Num(42))
		},
	}}
	got, err := runWith(t, resolver, `~> answers { best }; best;`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !value.Equal(got, value.Num(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestImportMissingNameIsModuleError(t *testing.T) {
	resolver := &mapResolver{sources: map[string]string{
		"mathx": `let tau = 6.28;`,
	}}
	if _, err := runWith(t, resolver, `~> mathx { nope };`); err == nil {
		t.Fatal("expected a module error for a name the module does not define")
	}
}

func TestImportUnresolvedModuleIsError(t *testing.T) {
	resolver := &mapResolver{}
	if _, err := runWith(t, resolver, `~> ghost;`); err == nil {
		t.Fatal("expected a module error for an unresolvable module")
	}
}

func TestImportWithoutResolverIsError(t *testing.T) {
	if _, err := runWith(t, nil, `~> anything;`); err == nil {
		t.Fatal("expected an error when no resolver is configured")
	}
}

func TestTransitiveImport(t *testing.T) {
	resolver := &mapResolver{sources: map[string]string{
		"outer": `~> inner { base }; let derived = base + 1;`,
		"inner": `let base = 10;`,
	}}
	got, err := runWith(t, resolver, `~> outer { derived }; derived;`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !value.Equal(got, value.Num(11)) {
		t.Errorf("got %v, want 11", got)
	}
}

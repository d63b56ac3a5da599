package strmod

import (
	"testing"

	"github.com/zokis/zox/value"
)

func newEnv(t *testing.T) *value.Environment {
	t.Helper()
	env := value.NewEnvironment()
	if err := Init(env); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return env
}

func call(t *testing.T, env *value.Environment, name string, arg value.Value) value.Value {
	t.Helper()
	fn, err := env.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q) error: %v", name, err)
	}
	v, err := fn.(value.FunctionVal).Host(env, []value.Value{arg})
	if err != nil {
		t.Fatalf("%s(...) returned error: %v", name, err)
	}
	return v
}

func TestUpperAndLower(t *testing.T) {
	env := newEnv(t)
	if got := call(t, env, "upper", value.Str("abc")); !value.Equal(got, value.Str("ABC")) {
		t.Errorf("upper(abc) = %v, want ABC", got)
	}
	if got := call(t, env, "lower", value.Str("ABC")); !value.Equal(got, value.Str("abc")) {
		t.Errorf("lower(ABC) = %v, want abc", got)
	}
}

func TestNormalizeWidth(t *testing.T) {
	env := newEnv(t)
	// Fullwidth 'A' (U+FF21) narrows to ASCII 'A'.
	got := call(t, env, "normalizeWidth", value.Str("Ａ"))
	if !value.Equal(got, value.Str("A")) {
		t.Errorf("normalizeWidth(fullwidth A) = %v, want A", got)
	}
}

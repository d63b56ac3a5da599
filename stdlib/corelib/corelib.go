// Package corelib is the default built-in catalog: the small set of
// host-provided functions every zox program can call without an explicit
// import (keys, len, print, println, random, random_int, values, find).
// It is deliberately a separate package from eval: the evaluator knows
// nothing about any concrete built-in, only how to invoke a HostFunc.
package corelib

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/zokis/zox/eval"
	"github.com/zokis/zox/value"
)

// Register installs the whole catalog into in's global environment.
func Register(in *eval.Interpreter) error {
	fns := []struct {
		name  string
		arity int
		fn    value.HostFunc
	}{
		{"keys", 1, builtinKeys},
		{"values", 1, builtinValues},
		{"len", 1, builtinLen},
		{"print", 1, builtinPrint},
		{"println", 1, builtinPrintln},
		{"random", 0, builtinRandom},
		{"random_int", 2, builtinRandomInt},
		{"find", 2, builtinFind},
	}
	for _, f := range fns {
		if err := in.RegisterHost(f.name, f.arity, f.fn); err != nil {
			return err
		}
	}
	return nil
}

func builtinKeys(env *value.Environment, args []value.Value) (value.Value, error) {
	d, ok := args[0].(value.DictVal)
	if !ok {
		return nil, fmt.Errorf("keys: argument must be a dict, got %s", args[0].TypeName())
	}
	var items []value.Value
	d.Each(func(k string, _ value.Value) { items = append(items, value.Str(k)) })
	return value.NewList(items), nil
}

func builtinValues(env *value.Environment, args []value.Value) (value.Value, error) {
	d, ok := args[0].(value.DictVal)
	if !ok {
		return nil, fmt.Errorf("values: argument must be a dict, got %s", args[0].TypeName())
	}
	var items []value.Value
	d.Each(func(_ string, v value.Value) { items = append(items, v) })
	return value.NewList(items), nil
}

func builtinLen(env *value.Environment, args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.StringVal:
		return value.Num(float64(len(v.Value))), nil
	case value.ListVal:
		return value.Num(float64(v.Len())), nil
	case value.DictVal:
		return value.Num(float64(v.Len())), nil
	case value.TableVal:
		return value.Num(float64(v.Len())), nil
	default:
		return nil, fmt.Errorf("len: unsupported argument type %s", v.TypeName())
	}
}

func builtinPrint(env *value.Environment, args []value.Value) (value.Value, error) {
	fmt.Fprint(os.Stdout, args[0].Inspect())
	return value.Nil, nil
}

func builtinPrintln(env *value.Environment, args []value.Value) (value.Value, error) {
	fmt.Fprintln(os.Stdout, args[0].Inspect())
	return value.Nil, nil
}

func builtinRandom(env *value.Environment, args []value.Value) (value.Value, error) {
	return value.Num(rand.Float64()), nil
}

func builtinRandomInt(env *value.Environment, args []value.Value) (value.Value, error) {
	minV, ok := args[0].(value.NumberVal)
	if !ok {
		return nil, fmt.Errorf("random_int: min must be a number")
	}
	maxV, ok := args[1].(value.NumberVal)
	if !ok {
		return nil, fmt.Errorf("random_int: max must be a number")
	}
	lo, hi := int(minV.Value), int(maxV.Value)
	if hi < lo {
		return nil, fmt.Errorf("random_int: max must be >= min")
	}
	return value.Num(float64(lo + rand.Intn(hi-lo+1))), nil
}

func builtinFind(env *value.Environment, args []value.Value) (value.Value, error) {
	switch haystack := args[0].(type) {
	case value.StringVal:
		needle, ok := args[1].(value.StringVal)
		if !ok {
			return nil, fmt.Errorf("find: second argument must be a string when searching a string")
		}
		idx := indexOf(string(haystack.Value), string(needle.Value))
		return value.Num(float64(idx)), nil
	case value.ListVal:
		for i, item := range *haystack.Items {
			if value.Equal(item, args[1]) {
				return value.Num(float64(i)), nil
			}
		}
		return value.Num(-1), nil
	default:
		return nil, fmt.Errorf("find: first argument must be a string or list, got %s", haystack.TypeName())
	}
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

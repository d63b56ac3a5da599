package eval

import (
	"github.com/zokis/zox/ast"
	"github.com/zokis/zox/token"
	"github.com/zokis/zox/value"
	"github.com/zokis/zox/zerr"
)

// evalListIndex implements indexing and slicing over List, String, and
// Table targets.
func (in *Interpreter) evalListIndex(n *ast.ListIndex, env *value.Environment) (value.Value, error) {
	target, err := in.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}

	length, err := in.containerLen(n, target)
	if err != nil {
		return nil, err
	}

	if !n.IsSlice {
		idx, err := in.evalIndexOperand(n.Start, env, n.Tok.Pos)
		if err != nil {
			return nil, err
		}
		i := idx
		if i < 0 {
			i += length
		}
		if i < 0 || i >= length {
			return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "index %d out of range", idx)
		}
		return in.elementAt(n, target, i)
	}

	start := 0
	if n.Start != nil {
		v, err := in.evalIndexOperand(n.Start, env, n.Tok.Pos)
		if err != nil {
			return nil, err
		}
		start = v
	}
	end := length
	if n.End != nil {
		v, err := in.evalIndexOperand(n.End, env, n.Tok.Pos)
		if err != nil {
			return nil, err
		}
		end = v
	}
	if start < 0 {
		start += length
	}
	if end < 0 {
		end += length
	}
	start = clamp(start, 0, length)
	end = clamp(end, 0, length)
	if start >= end {
		return in.emptySliceOf(target), nil
	}
	return in.sliceOf(target, start, end)
}

func (in *Interpreter) evalIndexOperand(expr ast.Expression, env *value.Environment, pos token.Position) (int, error) {
	v, err := in.Eval(expr, env)
	if err != nil {
		return 0, err
	}
	num, ok := v.(value.NumberVal)
	if !ok {
		return 0, in.errAt(zerr.Type, pos, "index must be a number, got %s", v.TypeName())
	}
	return int(num.Value), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (in *Interpreter) containerLen(n *ast.ListIndex, target value.Value) (int, error) {
	switch t := target.(type) {
	case value.ListVal:
		return t.Len(), nil
	case value.StringVal:
		return len(t.Value), nil
	case value.TableVal:
		return t.Len(), nil
	default:
		return 0, in.errAt(zerr.Type, n.Tok.Pos, "cannot index a %s", target.TypeName())
	}
}

func (in *Interpreter) elementAt(n *ast.ListIndex, target value.Value, i int) (value.Value, error) {
	switch t := target.(type) {
	case value.ListVal:
		return (*t.Items)[i], nil
	case value.StringVal:
		return value.Str(string(t.Value[i])), nil
	case value.TableVal:
		return (*t.Rows)[i], nil
	default:
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "cannot index a %s", target.TypeName())
	}
}

func (in *Interpreter) emptySliceOf(target value.Value) value.Value {
	switch t := target.(type) {
	case value.ListVal:
		return value.NewList(nil)
	case value.StringVal:
		return value.Str("")
	case value.TableVal:
		return value.NewTable(t.Columns)
	default:
		return value.Nil
	}
}

func (in *Interpreter) sliceOf(target value.Value, start, end int) (value.Value, error) {
	switch t := target.(type) {
	case value.ListVal:
		return value.NewList((*t.Items)[start:end]), nil
	case value.StringVal:
		return value.Str(string(t.Value[start:end])), nil
	case value.TableVal:
		out := value.NewTable(t.Columns)
		for _, row := range (*t.Rows)[start:end] {
			out.AppendRow(row)
		}
		return out, nil
	default:
		return value.Nil, nil
	}
}

// evalDictKey implements `target{key}`: missing keys yield nil rather
// than an error.
func (in *Interpreter) evalDictKey(n *ast.DictKey, env *value.Environment) (value.Value, error) {
	target, err := in.Eval(n.Target, env)
	if err != nil {
		return nil, err
	}
	d, ok := target.(value.DictVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "cannot key-index a %s", target.TypeName())
	}
	keyVal, err := in.Eval(n.Key, env)
	if err != nil {
		return nil, err
	}
	key, ok := value.StringifyKey(keyVal)
	if !ok {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "dict key of type %s is not convertible to a string", keyVal.TypeName())
	}
	v, found := d.Get(key)
	if !found {
		return value.Nil, nil
	}
	return v, nil
}

package eval

import (
	"math"
	"strings"

	"github.com/zokis/zox/ast"
	"github.com/zokis/zox/value"
	"github.com/zokis/zox/zerr"
)

// evalBinary evaluates both operands eagerly, left-first, then dispatches
// on the (lhs-type, rhs-type, operator) triple.
func (in *Interpreter) evalBinary(n *ast.BinaryExpr, env *value.Environment) (value.Value, error) {
	left, err := in.Eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.Eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	op := n.Operator

	// == and != are defined across every type pair, including mismatches.
	if op == "==" {
		return value.Bool(value.Equal(left, right)), nil
	}
	if op == "!=" {
		return value.Bool(!value.Equal(left, right)), nil
	}

	lnum, lIsNum := coerceNumber(left)
	rnum, rIsNum := coerceNumber(right)
	if lIsNum && rIsNum {
		return in.evalNumericBinary(n, op, lnum, rnum)
	}

	lstr, lIsStr := left.(value.StringVal)
	rstr, rIsStr := right.(value.StringVal)
	if lIsStr && rIsStr {
		return in.evalStringStringBinary(n, op, lstr, rstr)
	}
	if rrep, ok := right.(value.NumberVal); lIsStr && ok {
		return in.evalStringNumberBinary(n, op, lstr, rrep.Value)
	}

	llist, lIsList := left.(value.ListVal)
	rlist, rIsList := right.(value.ListVal)
	if lIsList && rIsList {
		if v, ok, err := in.evalListListBinary(n, op, llist, rlist); ok || err != nil {
			return v, err
		}
	}
	if lIsList && op == "<<" {
		return llist.Append(right), nil
	}

	ldict, lIsDict := left.(value.DictVal)
	rdict, rIsDict := right.(value.DictVal)
	if lIsDict && rIsDict && op == "+" {
		merged := ldict.Clone()
		rdict.Each(func(k string, v value.Value) { merged.Set(k, v) })
		return merged, nil
	}

	ltable, lIsTable := left.(value.TableVal)
	if lIsTable && rIsDict && op == "+" {
		return in.evalTableDictAppend(n, ltable, rdict)
	}
	if lIsTable && rIsList && op == "+" {
		return in.evalTableListAppend(n, ltable, rlist)
	}

	return nil, in.errAt(zerr.Type, n.Tok.Pos, "operator %q is not defined for %s and %s", op, left.TypeName(), right.TypeName())
}

func (in *Interpreter) evalNumericBinary(n *ast.BinaryExpr, op string, l, r float64) (value.Value, error) {
	switch op {
	case "+":
		return value.Num(l + r), nil
	case "-":
		return value.Num(l - r), nil
	case "*":
		return value.Num(l * r), nil
	case "/":
		if r == 0 {
			return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "division by zero")
		}
		return value.Num(l / r), nil
	case "%":
		if int64(r) == 0 {
			return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "division by zero")
		}
		return value.Num(float64(int64(l) % int64(r))), nil
	case "**":
		return value.Num(math.Pow(l, r)), nil
	case ">":
		return value.Bool(l > r), nil
	case ">=":
		return value.Bool(l >= r), nil
	case "<":
		return value.Bool(l < r), nil
	case "<=":
		return value.Bool(l <= r), nil
	case "&&":
		return value.Bool(l != 0 && r != 0), nil
	case "||":
		return value.Bool(l != 0 || r != 0), nil
	case "&":
		return value.Num(float64(int64(l) & int64(r))), nil
	case "|":
		return value.Num(float64(int64(l) | int64(r))), nil
	case "^":
		return value.Num(float64(int64(l) ^ int64(r))), nil
	case "<<":
		return value.Num(float64(int64(l) << uint(int64(r)))), nil
	case ">>":
		return value.Num(float64(int64(l) >> uint(int64(r)))), nil
	default:
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "operator %q is not defined for numbers", op)
	}
}

func (in *Interpreter) evalStringStringBinary(n *ast.BinaryExpr, op string, l, r value.StringVal) (value.Value, error) {
	switch op {
	case "+":
		return value.Str(string(l.Value) + string(r.Value)), nil
	case "-":
		return value.Str(strings.ReplaceAll(string(l.Value), string(r.Value), "")), nil
	default:
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "operator %q is not defined between two strings", op)
	}
}

func (in *Interpreter) evalStringNumberBinary(n *ast.BinaryExpr, op string, l value.StringVal, r float64) (value.Value, error) {
	if op != "*" {
		return nil, in.errAt(zerr.Type, n.Tok.Pos, "operator %q is not defined between a string and a number", op)
	}
	if r < 0 {
		return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "cannot repeat a string a negative number of times")
	}
	return value.Str(strings.Repeat(string(l.Value), int(r))), nil
}

// evalListListBinary handles the List/List cell of the table. The bool
// result reports whether op was recognized at all (so the caller can fall
// through to the final type error).
func (in *Interpreter) evalListListBinary(n *ast.BinaryExpr, op string, l, r value.ListVal) (value.Value, bool, error) {
	switch op {
	case "+":
		items := make([]value.Value, 0, l.Len()+r.Len())
		items = append(items, *l.Items...)
		items = append(items, *r.Items...)
		return value.NewList(items), true, nil
	case "*":
		items := make([]value.Value, 0, l.Len()*r.Len())
		for _, lv := range *l.Items {
			for _, rv := range *r.Items {
				items = append(items, value.NewList([]value.Value{lv, rv}))
			}
		}
		return value.NewList(items), true, nil
	case "^":
		var items []value.Value
		for _, lv := range *l.Items {
			if !listContains(r, lv) {
				items = append(items, lv)
			}
		}
		for _, rv := range *r.Items {
			if !listContains(l, rv) {
				items = append(items, rv)
			}
		}
		return value.NewList(items), true, nil
	case "<<":
		return l.Append(r), true, nil
	default:
		return nil, false, nil
	}
}

func listContains(l value.ListVal, v value.Value) bool {
	for _, item := range *l.Items {
		if value.Equal(item, v) {
			return true
		}
	}
	return false
}

func (in *Interpreter) evalTableDictAppend(n *ast.BinaryExpr, t value.TableVal, d value.DictVal) (value.Value, error) {
	if d.Len() != len(t.Columns) {
		return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "row has %d entries but table has %d columns", d.Len(), len(t.Columns))
	}
	t.AppendRow(d)
	return t, nil
}

func (in *Interpreter) evalTableListAppend(n *ast.BinaryExpr, t value.TableVal, l value.ListVal) (value.Value, error) {
	for _, item := range *l.Items {
		switch row := item.(type) {
		case value.DictVal:
			if row.Len() != len(t.Columns) {
				return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "row has %d entries but table has %d columns", row.Len(), len(t.Columns))
			}
			t.AppendRow(row)
		case value.ListVal:
			if row.Len() != len(t.Columns) {
				return nil, in.errAt(zerr.ValueK, n.Tok.Pos, "row has %d entries but table has %d columns", row.Len(), len(t.Columns))
			}
			rowDict := value.NewDict()
			for i, col := range t.Columns {
				rowDict.Set(col, (*row.Items)[i])
			}
			t.AppendRow(rowDict)
		default:
			return nil, in.errAt(zerr.Type, n.Tok.Pos, "table row must be a Dict or a List, got %s", item.TypeName())
		}
	}
	return t, nil
}

// Package jsonmod is a native module exposing JSON encode/decode/query/set
// over Zox values, built on gjson/sjson rather than hand-rolled parsing.
// It is registered through the evaluator's module-resolver contract as a
// native module named "json".
package jsonmod

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/zokis/zox/value"
)

// Init populates env with the module's four functions. It matches the
// eval.ModuleResolution.Init signature.
func Init(env *value.Environment) error {
	fns := []struct {
		name   string
		params []string
		fn     value.HostFunc
	}{
		{"encode", []string{"value"}, hostEncode},
		{"decode", []string{"text"}, hostDecode},
		{"query", []string{"text", "path"}, hostQuery},
		{"set", []string{"text", "path", "value"}, hostSet},
	}
	for _, f := range fns {
		fn := value.FunctionVal{Name: f.name, Params: f.params, Host: f.fn}
		if err := env.Declare(f.name, fn); err != nil {
			return err
		}
	}
	return nil
}

func hostEncode(env *value.Environment, args []value.Value) (value.Value, error) {
	doc, err := Encode(args[0])
	if err != nil {
		return nil, err
	}
	return value.Str(doc), nil
}

func hostDecode(env *value.Environment, args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("json.decode: argument must be a string")
	}
	if !gjson.Valid(string(s.Value)) {
		return nil, fmt.Errorf("json.decode: invalid JSON text")
	}
	return Decode(gjson.Parse(string(s.Value))), nil
}

func hostQuery(env *value.Environment, args []value.Value) (value.Value, error) {
	doc, ok := args[0].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("json.query: first argument must be a string")
	}
	path, ok := args[1].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("json.query: second argument must be a string")
	}
	result := gjson.Get(string(doc.Value), string(path.Value))
	if !result.Exists() {
		return value.Nil, nil
	}
	return Decode(result), nil
}

func hostSet(env *value.Environment, args []value.Value) (value.Value, error) {
	doc, ok := args[0].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("json.set: first argument must be a string")
	}
	path, ok := args[1].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("json.set: second argument must be a string")
	}
	raw, err := Encode(args[2])
	if err != nil {
		return nil, err
	}
	out, err := sjson.SetRaw(string(doc.Value), string(path.Value), raw)
	if err != nil {
		return nil, fmt.Errorf("json.set: %w", err)
	}
	return value.Str(out), nil
}

// Encode renders a Zox value as JSON text. Strings are escaped by routing
// them through sjson (setting, then re-reading, a single scalar field)
// rather than reimplementing JSON string escaping by hand.
func Encode(v value.Value) (string, error) {
	switch val := v.(type) {
	case value.NilVal:
		return "null", nil
	case value.BooleanVal:
		return strconv.FormatBool(val.Value), nil
	case value.NumberVal:
		return strconv.FormatFloat(val.Value, 'f', -1, 64), nil
	case value.StringVal:
		return encodeString(string(val.Value))
	case value.ListVal:
		doc := "[]"
		for i, item := range *val.Items {
			raw, err := Encode(item)
			if err != nil {
				return "", err
			}
			var err2 error
			doc, err2 = sjson.SetRaw(doc, strconv.Itoa(i), raw)
			if err2 != nil {
				return "", err2
			}
		}
		return doc, nil
	case value.DictVal:
		// Dict keys containing sjson path metacharacters ('.', '*', '?',
		// ':', '|', '#') are not escaped here; encode such dicts through
		// json.set with an explicit path instead.
		doc := "{}"
		var setErr error
		val.Each(func(k string, v value.Value) {
			if setErr != nil {
				return
			}
			raw, err := Encode(v)
			if err != nil {
				setErr = err
				return
			}
			doc, setErr = sjson.SetRaw(doc, k, raw)
		})
		if setErr != nil {
			return "", setErr
		}
		return doc, nil
	case value.TableVal:
		doc := "[]"
		for i, row := range *val.Rows {
			raw, err := Encode(row)
			if err != nil {
				return "", err
			}
			var err2 error
			doc, err2 = sjson.SetRaw(doc, strconv.Itoa(i), raw)
			if err2 != nil {
				return "", err2
			}
		}
		return doc, nil
	default:
		return "", fmt.Errorf("json.encode: cannot encode a %s", v.TypeName())
	}
}

func encodeString(s string) (string, error) {
	doc, err := sjson.Set("{}", "s", s)
	if err != nil {
		return "", err
	}
	return gjson.Get(doc, "s").Raw, nil
}

// Decode converts a parsed gjson.Result into the corresponding Zox value.
func Decode(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Nil
	case gjson.True:
		return value.True
	case gjson.False:
		return value.False
	case gjson.Number:
		return value.Num(r.Float())
	case gjson.String:
		return value.Str(r.String())
	case gjson.JSON:
		if r.IsArray() {
			var items []value.Value
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, Decode(v))
				return true
			})
			return value.NewList(items)
		}
		d := value.NewDict()
		r.ForEach(func(k, v gjson.Result) bool {
			d.Set(k.String(), Decode(v))
			return true
		})
		return d
	default:
		return value.Nil
	}
}

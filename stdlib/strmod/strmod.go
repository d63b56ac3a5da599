// Package strmod is a native module adding case conversion and East
// Asian width normalization on top of x/text, scoped deliberately as
// host-builtin surface so the byte-wise passthrough the lexer and string
// operators rely on is never touched.
package strmod

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/zokis/zox/value"
)

// Init populates env with str.upper, str.lower, and str.normalizeWidth.
func Init(env *value.Environment) error {
	fns := []struct {
		name string
		fn   value.HostFunc
	}{
		{"upper", hostUpper},
		{"lower", hostLower},
		{"normalizeWidth", hostNormalizeWidth},
	}
	for _, f := range fns {
		fn := value.FunctionVal{Name: f.name, Params: []string{"text"}, Host: f.fn}
		if err := env.Declare(f.name, fn); err != nil {
			return err
		}
	}
	return nil
}

func hostUpper(env *value.Environment, args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("str.upper: argument must be a string")
	}
	caser := cases.Upper(language.Und)
	return value.Str(caser.String(string(s.Value))), nil
}

func hostLower(env *value.Environment, args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("str.lower: argument must be a string")
	}
	caser := cases.Lower(language.Und)
	return value.Str(caser.String(string(s.Value))), nil
}

func hostNormalizeWidth(env *value.Environment, args []value.Value) (value.Value, error) {
	s, ok := args[0].(value.StringVal)
	if !ok {
		return nil, fmt.Errorf("str.normalizeWidth: argument must be a string")
	}
	return value.Str(width.Narrow.String(string(s.Value))), nil
}

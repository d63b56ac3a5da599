// Package value implements the Zox runtime value hierarchy: the closed
// variant set of Nil, Boolean, Number, String, List, Dict, Table, and
// Function, plus the lexical environment chain.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is implemented by every runtime value variant. Equality between
// two Values must compare by value, never by identity, even for
// preallocated/interned instances.
type Value interface {
	TypeName() string
	Inspect() string
}

// ---------------------------------------------------------------------
// Nil
// ---------------------------------------------------------------------

type NilVal struct{}

func (NilVal) TypeName() string { return "nil" }
func (NilVal) Inspect() string { return "nil" }

// Nil is the single shared Nil instance. Preallocation is an optimization
// only; NilVal carries no fields so any two instances already compare
// equal by value.
var Nil = NilVal{}

// ---------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------

type BooleanVal struct{ Value bool }

func (BooleanVal) TypeName() string  { return "boolean" }
func (b BooleanVal) Inspect() string { return strconv.FormatBool(b.Value) }

var (
	True  = BooleanVal{Value: true}
	False = BooleanVal{Value: false}
)

// Bool returns the shared True/False instance for b.
func Bool(b bool) BooleanVal {
	if b {
		return True
	}
	return False
}

// ---------------------------------------------------------------------
// Number
// ---------------------------------------------------------------------

type NumberVal struct{ Value float64 }

func (NumberVal) TypeName() string  { return "number" }
func (n NumberVal) Inspect() string { return fmt.Sprintf("%f", n.Value) }

// smallInts holds the interned [0,255] integer numbers. Num should be
// used to look values up through this table.
var smallInts [256]NumberVal

func init() {
	for i := range smallInts {
		smallInts[i] = NumberVal{Value: float64(i)}
	}
}

// Num constructs a Number value, reusing the small-integer cache when v is
// a whole number in [0,255].
func Num(v float64) NumberVal {
	if v >= 0 && v < 256 && v == float64(int(v)) {
		return smallInts[int(v)]
	}
	return NumberVal{Value: v}
}

// ---------------------------------------------------------------------
// String
// ---------------------------------------------------------------------

type StringVal struct{ Value []byte }

func (StringVal) TypeName() string  { return "string" }
func (s StringVal) Inspect() string { return string(s.Value) }

// Str builds a StringVal from a Go string.
func Str(s string) StringVal { return StringVal{Value: []byte(s)} }

// ---------------------------------------------------------------------
// List
// ---------------------------------------------------------------------

// ListVal is a growable, aliased sequence of values: `<<` mutates the
// underlying slice in place and every other reference to the same List
// observes the mutation.
type ListVal struct {
	Items *[]Value
}

// NewList builds a List owning its own backing slice.
func NewList(items []Value) ListVal {
	s := make([]Value, len(items))
	copy(s, items)
	return ListVal{Items: &s}
}

func (ListVal) TypeName() string { return "list" }

func (l ListVal) Inspect() string {
	parts := make([]string, len(*l.Items))
	for i, v := range *l.Items {
		parts[i] = inspectNested(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Append mutates the List in place and returns it, implementing `<<`.
func (l ListVal) Append(v Value) ListVal {
	*l.Items = append(*l.Items, v)
	return l
}

func (l ListVal) Len() int { return len(*l.Items) }

// ---------------------------------------------------------------------
// Dict: separate-chaining hash table
// ---------------------------------------------------------------------

type dictEntry struct {
	key   string
	value Value
	next  *dictEntry
}

// DictVal is a reference type: copies share the same backing buckets, so
// that `+`-merge producing a *new* Dict is a deliberate allocation rather
// than an accidental aliasing bug (see eval's binary-op table).
type DictVal struct {
	buckets *[]*dictEntry
	size    *int
}

const dictInitialCapacity = 16

// NewDict creates an empty Dict.
func NewDict() DictVal {
	b := make([]*dictEntry, dictInitialCapacity)
	size := 0
	return DictVal{buckets: &b, size: &size}
}

func (DictVal) TypeName() string { return "dict" }

func (d DictVal) Inspect() string {
	var parts []string
	d.Each(func(k string, v Value) {
		parts = append(parts, fmt.Sprintf("%q -> %s", k, inspectNested(v)))
	})
	return "[" + strings.Join(parts, "; ") + "]"
}

func (d DictVal) bucketIndex(key string) int {
	return int(fnv1a32(key)) % len(*d.buckets)
}

func (d DictVal) maybeResize() {
	if float64(*d.size)/float64(len(*d.buckets)) < 0.75 {
		return
	}
	old := *d.buckets
	grown := make([]*dictEntry, len(old)*2)
	*d.buckets = grown
	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			idx := d.bucketIndex(e.key)
			e.next = grown[idx]
			grown[idx] = e
			e = next
		}
	}
}

// Set inserts or overwrites the value bound to key.
func (d DictVal) Set(key string, v Value) {
	idx := d.bucketIndex(key)
	for e := (*d.buckets)[idx]; e != nil; e = e.next {
		if e.key == key {
			e.value = v
			return
		}
	}
	d.maybeResize()
	idx = d.bucketIndex(key)
	(*d.buckets)[idx] = &dictEntry{key: key, value: v, next: (*d.buckets)[idx]}
	*d.size++
}

// Get returns the value bound to key, or (Nil, false) if absent.
func (d DictVal) Get(key string) (Value, bool) {
	idx := d.bucketIndex(key)
	for e := (*d.buckets)[idx]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	return Nil, false
}

// Each walks every entry in unspecified order.
func (d DictVal) Each(fn func(key string, v Value)) {
	for _, head := range *d.buckets {
		for e := head; e != nil; e = e.next {
			fn(e.key, e.value)
		}
	}
}

func (d DictVal) Len() int { return *d.size }

// Clone returns a new Dict with a copy of every entry (used by `+` merge,
// which must not mutate either operand).
func (d DictVal) Clone() DictVal {
	out := NewDict()
	d.Each(func(k string, v Value) { out.Set(k, v) })
	return out
}

// ---------------------------------------------------------------------
// Table: fixed ordered columns + growable Dict rows
// ---------------------------------------------------------------------

type TableVal struct {
	Columns []string
	Rows    *[]DictVal
}

// NewTable creates an empty Table with the given column schema.
func NewTable(columns []string) TableVal {
	cols := make([]string, len(columns))
	copy(cols, columns)
	rows := make([]DictVal, 0)
	return TableVal{Columns: cols, Rows: &rows}
}

func (TableVal) TypeName() string { return "table" }

func (t TableVal) Inspect() string {
	return fmt.Sprintf("|>%s<|{%d}", strings.Join(t.Columns, ";"), len(*t.Rows))
}

func (t TableVal) AppendRow(row DictVal) { *t.Rows = append(*t.Rows, row) }

func (t TableVal) Len() int { return len(*t.Rows) }

// ---------------------------------------------------------------------
// Function: user-defined or host-provided
// ---------------------------------------------------------------------

// HostFunc is the signature every host-registered builtin must satisfy:
// it receives the call-site environment and already-evaluated arguments,
// and returns a Value or an error.
type HostFunc func(env *Environment, args []Value) (Value, error)

// FunctionVal is either a user-defined closure (Params/Body/Env set, Host
// nil) or a host-provided callable (Host set, Params used only for arity).
type FunctionVal struct {
	Name   string
	Params []string
	Body   []Node
	Env    *Environment
	Host   HostFunc
}

// Node is the minimal surface FunctionVal needs from package ast, kept
// here to avoid an import cycle between value and ast. Package eval
// supplies the concrete ast.Statement values and type-asserts them back.
type Node interface {
	String() string
}

func (FunctionVal) TypeName() string { return "function" }

func (f FunctionVal) Inspect() string {
	if f.Name != "" {
		return "function " + f.Name
	}
	return "function(...)"
}

func (f FunctionVal) Arity() int { return len(f.Params) }

func (f FunctionVal) IsHost() bool { return f.Host != nil }

// ---------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------

// inspectNested renders a value the way it appears nested inside a
// container: strings are quoted there, but bare at top level.
func inspectNested(v Value) string {
	if s, ok := v.(StringVal); ok {
		return fmt.Sprintf("%q", string(s.Value))
	}
	return v.Inspect()
}

// StringifyKey converts a value to its canonical Dict-key string:
// nil -> "nil", booleans -> "true"/"false", numbers -> fixed-point,
// strings -> their bytes.
func StringifyKey(v Value) (string, bool) {
	switch val := v.(type) {
	case NilVal:
		return "nil", true
	case BooleanVal:
		if val.Value {
			return "true", true
		}
		return "false", true
	case NumberVal:
		return fmt.Sprintf("%f", val.Value), true
	case StringVal:
		return string(val.Value), true
	default:
		return "", false
	}
}

// Equal implements by-value equality across the whole variant set, used
// by the `==`/`!=` operators. Mismatched types are never an error, just
// false/true.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	case BooleanVal:
		bv, ok := b.(BooleanVal)
		return ok && av.Value == bv.Value
	case NumberVal:
		bv, ok := b.(NumberVal)
		return ok && av.Value == bv.Value
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && string(av.Value) == string(bv.Value)
	case ListVal:
		bv, ok := b.(ListVal)
		if !ok || len(*av.Items) != len(*bv.Items) {
			return false
		}
		for i := range *av.Items {
			if !Equal((*av.Items)[i], (*bv.Items)[i]) {
				return false
			}
		}
		return true
	case DictVal:
		bv, ok := b.(DictVal)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		equal := true
		av.Each(func(k string, v Value) {
			other, found := bv.Get(k)
			if !found || !Equal(v, other) {
				equal = false
			}
		})
		return equal
	case TableVal:
		bv, ok := b.(TableVal)
		if !ok || len(av.Columns) != len(bv.Columns) || len(*av.Rows) != len(*bv.Rows) {
			return false
		}
		for i, c := range av.Columns {
			if bv.Columns[i] != c {
				return false
			}
		}
		for i := range *av.Rows {
			if !Equal((*av.Rows)[i], (*bv.Rows)[i]) {
				return false
			}
		}
		return true
	default:
		return false // Function values are never equal, even to themselves by value
	}
}

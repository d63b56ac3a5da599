package value

import "testing"

func TestNumInternsSmallWholeNumbers(t *testing.T) {
	a := Num(5)
	b := Num(5)
	if a != b {
		t.Errorf("Num(5) instances differ: %+v vs %+v", a, b)
	}
	if Num(5) != smallInts[5] {
		t.Error("Num(5) did not return the interned instance")
	}
}

func TestEqualAcrossVariants(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{Num(1), Num(1), true},
		{Num(1), Num(2), false},
		{Str("a"), Str("a"), true},
		{Str("a"), Num(1), false},
		{Nil, Nil, true},
		{Bool(true), Bool(true), true},
		{Bool(true), Bool(false), false},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestEqualListsByValueNotIdentity(t *testing.T) {
	a := NewList([]Value{Num(1), Num(2)})
	b := NewList([]Value{Num(1), Num(2)})
	if !Equal(a, b) {
		t.Error("expected two separately-built equal Lists to compare equal")
	}
	a.Append(Num(3))
	if Equal(a, b) {
		t.Error("expected Lists to differ after appending to one")
	}
}

func TestListAppendMutatesSharedBacking(t *testing.T) {
	a := NewList([]Value{Num(1)})
	b := a // aliasing the same backing slice, per ListVal's semantics
	a.Append(Num(2))
	if b.Len() != 2 {
		t.Errorf("b.Len() = %d, want 2 (aliasing expected)", b.Len())
	}
}

func TestDictSetGetAndResize(t *testing.T) {
	d := NewDict()
	const n = 100 // forces several resizes past the initial 16-bucket table
	for i := 0; i < n; i++ {
		key := string(rune('a' + (i % 26)))
		d.Set(key, Num(float64(i)))
	}
	if d.Len() != 26 {
		t.Errorf("Len() = %d, want 26 (26 distinct keys, each overwritten repeatedly)", d.Len())
	}
	v, found := d.Get("a")
	if !found {
		t.Fatal("expected key \"a\" to be found")
	}
	want := Num(float64((n - 1) / 26 * 26)) // last i < n where i%26==0 is 78
	if !Equal(v, want) {
		t.Errorf("Get(\"a\") = %v, want %v", v, want)
	}
}

func TestDictGetMissingKey(t *testing.T) {
	d := NewDict()
	_, found := d.Get("missing")
	if found {
		t.Error("expected found == false for a missing key")
	}
}

func TestDictCloneIsIndependent(t *testing.T) {
	d := NewDict()
	d.Set("a", Num(1))
	clone := d.Clone()
	clone.Set("b", Num(2))
	if d.Len() != 1 {
		t.Errorf("original Len() = %d, want 1 (clone must not alias)", d.Len())
	}
}

func TestStringifyKey(t *testing.T) {
	cases := []struct {
		v    Value
		want string
		ok   bool
	}{
		{Nil, "nil", true},
		{Bool(true), "true", true},
		{Str("hi"), "hi", true},
		{NewList(nil), "", false},
	}
	for _, c := range cases {
		got, ok := StringifyKey(c.v)
		if ok != c.ok {
			t.Errorf("StringifyKey(%v) ok = %v, want %v", c.v, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("StringifyKey(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestTableAppendRow(t *testing.T) {
	tbl := NewTable([]string{"name", "age"})
	row := NewDict()
	row.Set("name", Str("ada"))
	row.Set("age", Num(30))
	tbl.AppendRow(row)
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}

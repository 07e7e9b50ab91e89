package eval

import (
	"math"
	"testing"
)

func allKinds() []Value {
	return []Value{
		Nothing,
		Number(0),
		Number(-2.5),
		Number(math.NaN()),
		Number(math.Inf(1)),
		Text(""),
		Text("12"),
		Text("abc"),
		Truth(true),
		Truth(false),
		NewList(),
		NewList(Number(1), Text("x"), NewList(Truth(true))),
	}
}

func TestCoercion_Total(t *testing.T) {
	for _, v := range allKinds() {
		t.Run(v.Kind().String()+"/"+v.GoString(), func(t *testing.T) {
			_ = ToNumber(v)
			_ = ToTruth(v)

			if ToText(v) == "" && v.Kind() != KindText {
				t.Errorf("ToText(%#v) is empty", v)
			}
		})
	}
}

func TestOperators_TotalOverKinds(t *testing.T) {
	ops := []string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||"}

	for _, x := range allKinds() {
		for _, y := range allKinds() {
			for _, sym := range ops {
				if _, ok := Binary(tokenFor(t, sym), x, y); !ok {
					t.Fatalf("Binary(%s) not defined", sym)
				}
			}
		}
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
	}{
		{Nothing, 0},
		{Number(3.5), 3.5},
		{Text("42"), 42},
		{Text("  -1.5e2 "), -150},
		{Text("1,234.5"), 1234.5},
		{Text("12abc"), 0},
		{Text("."), 0},
		{Text(""), 0},
		{Truth(true), 1},
		{Truth(false), 0},
		{NewList(Nothing, Nothing, Nothing), 3},
	}

	for _, tt := range tests {
		if got := ToNumber(tt.in); got != tt.want {
			t.Errorf("ToNumber(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToTruth(t *testing.T) {
	tests := []struct {
		in   Value
		want bool
	}{
		{Nothing, false},
		{Number(0), false},
		{Number(0.1), true},
		{Number(math.NaN()), true},
		{Text(""), false},
		{Text("false"), true},
		{Truth(false), false},
		{NewList(), false},
		{NewList(Nothing), true},
	}

	for _, tt := range tests {
		if got := ToTruth(tt.in); got != tt.want {
			t.Errorf("ToTruth(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToText(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Nothing, "nothing"},
		{Number(14), "14"},
		{Number(-0.5), "-0.5"},
		{Text("hi"), "hi"},
		{Truth(true), "true"},
		{NewList(Number(1), Text("a"), NewList(Truth(false), Nothing)), "[1, a, [false, nothing]]"},
	}

	for _, tt := range tests {
		if got := ToText(tt.in); got != tt.want {
			t.Errorf("ToText(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListContainingItself(t *testing.T) {
	l := &List{}
	a := ListOf(l)

	l.Append(Number(1))
	l.Append(a)
	l.Append(NewList(a, Text("x")))

	if got, want := ToText(a), "[1, [...], [[...], x]]"; got != want {
		t.Errorf("ToText = %q, want %q", got, want)
	}

	if got, want := a.GoString(), `[1, [...], [[...], "x"]]`; got != want {
		t.Errorf("GoString = %q, want %q", got, want)
	}

	native, ok := ToNative(a).([]any)
	if !ok || len(native) != 3 || native[1] != nil {
		t.Errorf("ToNative = %#v", ToNative(a))
	}

	if v, _ := Binary(tokenFor(t, "=="), a, Text(ToText(a))); !ToTruth(v) {
		t.Error("list does not equal its display text")
	}

	if v, _ := Binary(tokenFor(t, "+"), a, Text("!")); v.String() != "[1, [...], [[...], x]]!" {
		t.Errorf("concatenation = %q", v.String())
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "-0"},
		{1, "1"},
		{-7, "-7"},
		{2.5, "2.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e14, "100000000000000"},
		{1e15, "1E+15"},
		{1.5e300, "1.5E+300"},
		{0.0001, "0.0001"},
		{0.00001, "1E-05"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		x, y Value
		want bool
	}{
		{Number(0.1 + 0.2), Number(0.3), true},
		{Number(1), Number(1 + 1e-9), false},
		{Number(math.Inf(1)), Number(math.Inf(1)), true},
		{Number(math.NaN()), Number(math.NaN()), false},
		{Text("1"), Number(1), true},
		{Text("1.0"), Number(1), false},
		{Truth(true), Number(5), true},
		{Truth(false), Text(""), false},
		{Nothing, Number(0), true},
		{NewList(Number(1)), Number(1), true},
	}

	for _, tt := range tests {
		if got := Equal(tt.x, tt.y); got != tt.want {
			t.Errorf("Equal(%#v, %#v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestList_Aliasing(t *testing.T) {
	a := NewList(Number(1), Number(2))
	b := a

	l, _ := b.List()
	l.Append(Number(3))

	al, _ := a.List()
	if al.Len() != 3 {
		t.Fatalf("alias length = %d, want 3", al.Len())
	}
}

func TestList_AllSnapshot(t *testing.T) {
	v := NewList(Number(1), Number(2))
	l, _ := v.List()

	n := 0
	for range l.All() {
		l.Append(Nothing)

		n++
	}

	if n != 2 || l.Len() != 4 {
		t.Fatalf("iterated %d, length %d; want 2, 4", n, l.Len())
	}
}

func TestList_RemoveFunc(t *testing.T) {
	v := NewList(Text("x"), Number(1), Text("x"), Text("y"))
	l, _ := v.List()

	if n := l.RemoveFunc(func(e Value) bool { return ToText(e) == "x" }); n != 2 {
		t.Fatalf("removed %d, want 2", n)
	}

	if got := ToText(v); got != "[1, y]" {
		t.Fatalf("list = %s", got)
	}
}

func TestScope(t *testing.T) {
	s := NewScope()
	s.Define("Total", Number(1))
	s.Define("other", Number(2))
	s.Define("TOTAL", Number(3))

	v, ok := s.Lookup("total")
	if !ok || ToNumber(v) != 3 {
		t.Fatalf("Lookup = %v, %v", v, ok)
	}

	if names := s.Names(); len(names) != 2 || names[0] != "Total" || names[1] != "other" {
		t.Fatalf("Names = %v", names)
	}
}

func TestNative(t *testing.T) {
	v, err := FromNative([]any{1, "a", true, nil, []int{2, 3}, float32(0.5), uint8(7)})
	if err != nil {
		t.Fatal(err)
	}

	if got := ToText(v); got != "[1, a, true, nothing, [2, 3], 0.5, 7]" {
		t.Fatalf("FromNative = %s", got)
	}

	back, ok := ToNative(v).([]any)
	if !ok || len(back) != 7 || back[0] != 1.0 || back[1] != "a" {
		t.Fatalf("ToNative = %#v", ToNative(v))
	}

	if _, err := FromNative(map[string]int{}); err == nil {
		t.Fatal("FromNative(map) succeeded")
	}
}

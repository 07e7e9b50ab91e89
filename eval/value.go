package eval

import (
	"iter"
	"slices"
	"strings"
)

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindNothing Kind = iota // nothing
	KindNumber              // number
	KindText                // text
	KindTruth               // truth
	KindList                // list
)

// Value is a dynamically typed Reo value. The zero Value is nothing.
//
// Values are immutable except lists: a list Value refers to a shared
// [List], so copies of it observe each other's mutations.
type Value struct {
	list  *List
	text  string
	num   float64
	truth bool
	kind  Kind
}

// Nothing is the absent value.
//
//nolint:gochecknoglobals
var Nothing = Value{}

// Number returns a number value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Truth returns a truth value.
func Truth(b bool) Value { return Value{kind: KindTruth, truth: b} }

// NewList returns a value referring to a new list holding elems.
func NewList(elems ...Value) Value {
	return Value{kind: KindList, list: &List{elems: slices.Clone(elems)}}
}

// ListOf returns a value referring to l.
func ListOf(l *List) Value {
	if l == nil {
		l = &List{}
	}

	return Value{kind: KindList, list: l}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNothing reports whether v is the absent value.
func (v Value) IsNothing() bool { return v.kind == KindNothing }

// List returns the list v refers to, if v is a list.
func (v Value) List() (*List, bool) { return v.list, v.kind == KindList }

// String returns the display form of v. See [ToText].
func (v Value) String() string { return ToText(v) }

// GoString renders v the way it would be written in source, quoting text.
func (v Value) GoString() string { return goString(v, nil) }

func goString(v Value, open []*List) string {
	switch v.kind {
	case KindText:
		return `"` + strings.ReplaceAll(v.text, `"`, `\"`) + `"`
	case KindList:
		if slices.Contains(open, v.list) {
			return cycleMark
		}

		open = append(open, v.list)
		parts := make([]string, 0, v.list.Len())

		for _, e := range v.list.elems {
			parts = append(parts, goString(e, open))
		}

		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ToText(v)
	}
}

// List is the backing sequence of a list value. It is not safe for
// concurrent use.
type List struct {
	elems []Value
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// At returns element i. It panics if i is out of range.
func (l *List) At(i int) Value { return l.elems[i] }

// Set replaces element i. It panics if i is out of range.
func (l *List) Set(i int, v Value) { l.elems[i] = v }

// Append adds v to the end of the list.
func (l *List) Append(v Value) { l.elems = append(l.elems, v) }

// RemoveFunc deletes every element for which del returns true and
// reports how many were removed.
func (l *List) RemoveFunc(del func(Value) bool) int {
	n := len(l.elems)
	l.elems = slices.DeleteFunc(l.elems, del)

	return n - len(l.elems)
}

// Values returns a copy of the elements.
func (l *List) Values() []Value { return slices.Clone(l.elems) }

// All returns an iterator over a snapshot of the elements taken when
// iteration starts.
func (l *List) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, v := range slices.Clone(l.elems) {
			if !yield(v) {
				return
			}
		}
	}
}

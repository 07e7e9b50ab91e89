package eval

import (
	"iter"
	"strings"
)

// Scope is a flat, ordered mapping of names to values. Names are compared
// without regard to case and keep the spelling of their first binding.
type Scope struct {
	index map[string]int
	names []string
	vals  []Value
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{index: make(map[string]int)}
}

// Lookup returns the value bound to name.
func (s *Scope) Lookup(name string) (Value, bool) {
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return Nothing, false
	}

	return s.vals[i], true
}

// Define binds name to v, replacing any existing binding.
func (s *Scope) Define(name string, v Value) {
	key := strings.ToLower(name)

	if i, ok := s.index[key]; ok {
		s.vals[i] = v

		return
	}

	s.index[key] = len(s.vals)
	s.names = append(s.names, name)
	s.vals = append(s.vals, v)
}

// Len returns the number of bindings.
func (s *Scope) Len() int { return len(s.vals) }

// Names returns the bound names in the order they were first defined.
func (s *Scope) Names() []string {
	return append([]string(nil), s.names...)
}

// All returns an iterator over bindings in definition order.
func (s *Scope) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, name := range s.names {
			if !yield(name, s.vals[i]) {
				return
			}
		}
	}
}

// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package sym holds the symbol tables consulted while parsing:
// the variable scope stack, the function overload table,
// and the table of entered namespaces.
//
// Tables are per compilation unit and are not safe for concurrent use.
package sym

import (
	"github.com/dynamite-lang/dynamite/types"
)

// A Var is a variable binding.
type Var struct {
	Name string
	Type types.Type
}

// Scopes is a stack of nested variable scopes.
//
// Bindings are kept in a single list.
// Beginning a scope marks the current length of the list,
// and ending it truncates the list back to the mark.
// Bindings made before any Begin are in the outermost scope.
type Scopes struct {
	vars  []Var
	marks []int
}

// Begin opens a new innermost scope.
func (s *Scopes) Begin() {
	s.marks = append(s.marks, len(s.vars))
}

// End closes the innermost scope, discarding its bindings.
// It panics if there is no scope opened by Begin.
func (s *Scopes) End() {
	if len(s.marks) == 0 {
		panic("impossible: End without Begin")
	}
	m := s.marks[len(s.marks)-1]
	s.marks = s.marks[:len(s.marks)-1]
	for i := m; i < len(s.vars); i++ {
		s.vars[i] = Var{}
	}
	s.vars = s.vars[:m]
}

// Push binds a variable in the innermost scope.
func (s *Scopes) Push(name string, t types.Type) {
	s.vars = append(s.vars, Var{Name: name, Type: t})
}

// Lookup returns the type of the most recently bound variable with the name.
func (s *Scopes) Lookup(name string) (types.Type, bool) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if s.vars[i].Name == name {
			return s.vars[i].Type, true
		}
	}
	return types.Type{}, false
}

// Declared returns whether the name is bound in the innermost scope.
func (s *Scopes) Declared(name string) bool {
	var m int
	if len(s.marks) > 0 {
		m = s.marks[len(s.marks)-1]
	}
	for i := len(s.vars) - 1; i >= m; i-- {
		if s.vars[i].Name == name {
			return true
		}
	}
	return false
}

// Depth returns the number of scopes opened by Begin and not yet ended.
func (s *Scopes) Depth() int { return len(s.marks) }

// Len returns the number of visible bindings.
func (s *Scopes) Len() int { return len(s.vars) }

// Reset discards all bindings and scopes.
func (s *Scopes) Reset() {
	s.vars = s.vars[:0]
	s.marks = s.marks[:0]
}

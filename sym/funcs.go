// Copyright © 2020 The Pea Authors under an MIT-style license.

package sym

import (
	"strings"

	"github.com/dynamite-lang/dynamite/types"
)

// A Param is a function parameter.
type Param struct {
	Name string
	Type types.Type
	// Required is false if the parameter has a default value.
	Required bool
}

// An Overload is one signature of a function name.
type Overload struct {
	Name     string
	Ret      types.Type
	Params   []Param
	Variadic bool
	// Defined is whether a body has been parsed.
	Defined bool
	// Index is the position of the overload
	// in the declaration order of its name.
	Index int
	// Line is the source line of the first declaration.
	Line int
}

// Required returns the number of leading parameters
// that a call must supply:
// the position after the last parameter without a default.
func (o *Overload) Required() int {
	for i := len(o.Params) - 1; i >= 0; i-- {
		if o.Params[i].Required {
			return i + 1
		}
	}
	return 0
}

// ParamTypes returns the types of the parameters.
func (o *Overload) ParamTypes() []types.Type {
	ts := make([]types.Type, len(o.Params))
	for i, p := range o.Params {
		ts[i] = p.Type
	}
	return ts
}

// Accepts returns whether a call with the argument types can use the overload.
//
// The argument count must be within the required and total parameter counts;
// only a variadic overload takes more arguments than parameters.
// Each argument must be implicitly castable to its parameter.
func (o *Overload) Accepts(args []types.Type) bool {
	if len(args) < o.Required() || len(args) > len(o.Params) && !o.Variadic {
		return false
	}
	for i, a := range args {
		if i >= len(o.Params) {
			break
		}
		if !Assignable(a, o.Params[i].Type) {
			return false
		}
	}
	return true
}

// String returns the signature in source syntax.
func (o *Overload) String() string {
	var s strings.Builder
	s.WriteString(o.Ret.String())
	s.WriteRune(' ')
	s.WriteString(o.Name)
	s.WriteRune('(')
	for i, p := range o.Params {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(p.Type.String())
		if p.Name != "" {
			s.WriteRune(' ')
			s.WriteString(p.Name)
		}
		if !p.Required {
			s.WriteString(" = …")
		}
	}
	if o.Variadic {
		if len(o.Params) > 0 {
			s.WriteString(", ")
		}
		s.WriteString("...")
	}
	s.WriteRune(')')
	return s.String()
}

// Assignable returns whether a value of type from can initialize
// or be assigned to a location of type to.
// This is implicit castability,
// where a reference on either side also accepts its referenced type.
func Assignable(from, to types.Type) bool {
	if types.ImplicitCastable(from, to) {
		return true
	}
	if from.IsReference() && types.ImplicitCastable(from.Elem(), to) {
		return true
	}
	if to.IsReference() {
		if types.ImplicitCastable(from, to.Elem()) {
			return true
		}
		return from.IsReference() && types.ImplicitCastable(from.Elem(), to.Elem())
	}
	return false
}

// Funcs is the function overload table.
// The zero value is an empty table.
type Funcs struct {
	names     []string
	overloads map[string][]*Overload
}

// Add appends a new overload for the name and returns it.
// Add does not check for duplicates; see Exists and Lookup.
func (f *Funcs) Add(name string, ret types.Type, params []Param, variadic bool) *Overload {
	if f.overloads == nil {
		f.overloads = make(map[string][]*Overload)
	}
	os, ok := f.overloads[name]
	if !ok {
		f.names = append(f.names, name)
	}
	o := &Overload{
		Name:     name,
		Ret:      ret,
		Params:   params,
		Variadic: variadic,
		Index:    len(os),
	}
	f.overloads[name] = append(os, o)
	return o
}

// Names returns the function names in the order first added.
func (f *Funcs) Names() []string { return f.names }

// Overloads returns the overloads of the name in declaration order.
func (f *Funcs) Overloads(name string) []*Overload { return f.overloads[name] }

// ReturnTypes returns the return type of each overload of the name.
func (f *Funcs) ReturnTypes(name string) []types.Type {
	var ts []types.Type
	for _, o := range f.overloads[name] {
		ts = append(ts, o.Ret)
	}
	return ts
}

// ArgumentTypes returns the type of parameter i of each overload of the name.
// The type is the zero Type for overloads with fewer than i+1 parameters.
func (f *Funcs) ArgumentTypes(name string, i int) []types.Type {
	var ts []types.Type
	for _, o := range f.overloads[name] {
		var t types.Type
		if i < len(o.Params) {
			t = o.Params[i].Type
		}
		ts = append(ts, t)
	}
	return ts
}

// Exists returns whether an overload of the name has exactly
// the return type, parameter types, and variadic flag.
func (f *Funcs) Exists(name string, ret types.Type, params []types.Type, variadic bool) bool {
	o := f.Lookup(name, params)
	return o != nil && o.Ret.Equal(ret) && o.Variadic == variadic
}

// Lookup returns the overload of the name with the parameter types,
// or nil if there is none.
func (f *Funcs) Lookup(name string, params []types.Type) *Overload {
	for _, o := range f.overloads[name] {
		if sameTypes(o.Params, params) {
			return o
		}
	}
	return nil
}

func sameTypes(ps []Param, ts []types.Type) bool {
	if len(ps) != len(ts) {
		return false
	}
	for i := range ps {
		if !ps[i].Type.Equal(ts[i]) {
			return false
		}
	}
	return true
}

// Resolve returns the first overload of the name, in declaration order,
// that accepts the argument types, or nil if none does.
func (f *Funcs) Resolve(name string, args []types.Type) *Overload {
	for _, o := range f.overloads[name] {
		if o.Accepts(args) {
			return o
		}
	}
	return nil
}

// Reset removes all functions.
func (f *Funcs) Reset() {
	f.names = nil
	f.overloads = nil
}

// Copyright © 2020 The Pea Authors under an MIT-style license.

package sym

import (
	"testing"

	"github.com/dynamite-lang/dynamite/types"
	"github.com/google/go-cmp/cmp"
	"github.com/nalgeon/be"
)

var (
	i32 = types.Prim(types.Int32)
	i64 = types.Prim(types.Int64)
	f64 = types.Prim(types.Float64)
	u8  = types.Prim(types.UInt8)
)

func TestScopeShadowing(t *testing.T) {
	var s Scopes
	s.Push("x", i32)
	s.Begin()
	s.Push("x", f64)
	got, ok := s.Lookup("x")
	be.True(t, ok)
	be.True(t, got.Equal(f64))
	s.End()
	got, ok = s.Lookup("x")
	be.True(t, ok)
	be.True(t, got.Equal(i32))
}

func TestScopeEndDiscardsBindings(t *testing.T) {
	var s Scopes
	s.Push("a", i32)
	s.Begin()
	s.Push("b", i32)
	s.Begin()
	s.Push("c", i32)
	be.Equal(t, s.Depth(), 2)
	be.Equal(t, s.Len(), 3)

	s.End()
	_, ok := s.Lookup("c")
	be.Equal(t, ok, false)
	_, ok = s.Lookup("b")
	be.True(t, ok)

	s.End()
	_, ok = s.Lookup("b")
	be.Equal(t, ok, false)
	_, ok = s.Lookup("a")
	be.True(t, ok)
	be.Equal(t, s.Depth(), 0)
	be.Equal(t, s.Len(), 1)
}

func TestScopeDeclared(t *testing.T) {
	var s Scopes
	s.Push("x", i32)
	be.True(t, s.Declared("x"))
	s.Begin()
	be.Equal(t, s.Declared("x"), false)
	s.Push("x", i64)
	be.True(t, s.Declared("x"))
	s.End()
	be.True(t, s.Declared("x"))
}

func TestScopeEndWithoutBegin(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("End without Begin did not panic")
		}
	}()
	var s Scopes
	s.End()
}

func TestScopeReset(t *testing.T) {
	var s Scopes
	s.Begin()
	s.Push("x", i32)
	s.Reset()
	be.Equal(t, s.Depth(), 0)
	_, ok := s.Lookup("x")
	be.Equal(t, ok, false)
}

func TestRequired(t *testing.T) {
	tests := []struct {
		name   string
		params []Param
		want   int
	}{
		{name: "none", want: 0},
		{name: "all required", params: []Param{{Type: i32, Required: true}, {Type: i32, Required: true}}, want: 2},
		{name: "trailing default", params: []Param{{Type: i32, Required: true}, {Type: i32}}, want: 1},
		{name: "all defaults", params: []Param{{Type: i32}, {Type: i32}}, want: 0},
		// Counting is from the end; a default before a required parameter
		// does not make it optional.
		{name: "default in the middle", params: []Param{{Type: i32}, {Type: i32, Required: true}}, want: 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := &Overload{Params: test.params}
			be.Equal(t, o.Required(), test.want)
		})
	}
}

func TestFuncsFanOut(t *testing.T) {
	var f Funcs
	f.Add("f", i32, []Param{{Type: i32, Required: true}}, false)
	f.Add("f", f64, []Param{{Type: i64, Required: true}, {Type: u8}}, false)
	f.Add("g", i32, nil, false)

	if diff := cmp.Diff([]types.Type{i32, f64}, f.ReturnTypes("f")); diff != "" {
		t.Errorf("ReturnTypes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]types.Type{i32, i64}, f.ArgumentTypes("f", 0)); diff != "" {
		t.Errorf("ArgumentTypes(0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]types.Type{{}, u8}, f.ArgumentTypes("f", 1)); diff != "" {
		t.Errorf("ArgumentTypes(1) mismatch (-want +got):\n%s", diff)
	}
	be.Equal(t, len(f.ReturnTypes("missing")), 0)
	if diff := cmp.Diff([]string{"f", "g"}, f.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	for i, o := range f.Overloads("f") {
		be.Equal(t, o.Index, i)
	}
}

func TestFuncsExists(t *testing.T) {
	var f Funcs
	f.Add("f", i32, []Param{{Type: i32, Required: true}}, false)

	be.True(t, f.Exists("f", i32, []types.Type{i32}, false))
	be.Equal(t, f.Exists("f", i64, []types.Type{i32}, false), false)
	be.Equal(t, f.Exists("f", i32, []types.Type{i64}, false), false)
	be.Equal(t, f.Exists("f", i32, []types.Type{i32}, true), false)
	be.Equal(t, f.Exists("g", i32, []types.Type{i32}, false), false)

	// Add does not deduplicate.
	f.Add("f", i32, []Param{{Type: i32, Required: true}}, false)
	be.Equal(t, len(f.Overloads("f")), 2)
}

func TestResolveFirstEligible(t *testing.T) {
	var f Funcs
	f.Add("f", i32, []Param{{Type: i32, Required: true}}, false)
	f.Add("f", i64, []Param{{Type: i64, Required: true}}, false)

	o := f.Resolve("f", []types.Type{i32})
	be.True(t, o != nil)
	be.Equal(t, o.Index, 0)

	// u8 widens to both; the first declared still wins.
	o = f.Resolve("f", []types.Type{u8})
	be.True(t, o != nil)
	be.Equal(t, o.Index, 0)

	o = f.Resolve("f", []types.Type{i64})
	be.True(t, o != nil)
	be.Equal(t, o.Index, 1)

	be.True(t, f.Resolve("f", []types.Type{f64}) == nil)
	be.True(t, f.Resolve("f", nil) == nil)
	be.True(t, f.Resolve("g", nil) == nil)
}

func TestAccepts(t *testing.T) {
	tests := []struct {
		name string
		o    Overload
		args []types.Type
		want bool
	}{
		{
			name: "exact",
			o:    Overload{Params: []Param{{Type: i32, Required: true}}},
			args: []types.Type{i32},
			want: true,
		},
		{
			name: "too few",
			o:    Overload{Params: []Param{{Type: i32, Required: true}}},
			want: false,
		},
		{
			name: "default omitted",
			o:    Overload{Params: []Param{{Type: i32, Required: true}, {Type: i32}}},
			args: []types.Type{i32},
			want: true,
		},
		{
			name: "too many",
			o:    Overload{Params: []Param{{Type: i32, Required: true}}},
			args: []types.Type{i32, i32},
			want: false,
		},
		{
			name: "variadic extra",
			o:    Overload{Params: []Param{{Type: i32, Required: true}}, Variadic: true},
			args: []types.Type{i32, f64, u8},
			want: true,
		},
		{
			name: "not castable",
			o:    Overload{Params: []Param{{Type: u8, Required: true}}},
			args: []types.Type{i32},
			want: false,
		},
		{
			name: "reference parameter",
			o:    Overload{Params: []Param{{Type: i32.WithBack(types.Reference, 0), Required: true}}},
			args: []types.Type{i32},
			want: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, test.o.Accepts(test.args), test.want)
		})
	}
}

func TestOverloadString(t *testing.T) {
	o := &Overload{
		Name: "f",
		Ret:  i32,
		Params: []Param{
			{Name: "a", Type: i32, Required: true},
			{Name: "b", Type: f64},
		},
		Variadic: true,
	}
	be.Equal(t, o.String(), "i32 f(i32 a, f64 b = …, ...)")
}

func TestNamespaces(t *testing.T) {
	var n Namespaces
	be.True(t, n.Enter([]string{"a"}))
	be.True(t, n.Enter([]string{"a", "b"}))
	be.Equal(t, n.Enter([]string{"a"}), false)

	be.True(t, n.Exists([]string{"a", "b"}))
	be.Equal(t, n.Exists([]string{"b"}), false)
	if diff := cmp.Diff([][]string{{"a"}, {"a", "b"}}, n.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}

	n.Reset()
	be.Equal(t, n.Exists([]string{"a"}), false)
}

func TestTablesReset(t *testing.T) {
	tabs := New()
	tabs.Scopes.Begin()
	tabs.Scopes.Push("x", i32)
	tabs.Funcs.Add("f", i32, nil, false)
	tabs.Namespaces.Enter([]string{"n"})

	tabs.Reset()
	be.Equal(t, tabs.Scopes.Depth(), 0)
	be.Equal(t, len(tabs.Funcs.Names()), 0)
	be.Equal(t, len(tabs.Namespaces.Paths()), 0)
}

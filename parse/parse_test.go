// Copyright © 2020 The Pea Authors under an MIT-style license.

package parse

import (
	"strings"
	"testing"

	"github.com/dynamite-lang/dynamite/ast"
	"github.com/dynamite-lang/dynamite/diag"
	"github.com/dynamite-lang/dynamite/lex"
	"github.com/dynamite-lang/dynamite/sym"
	"github.com/dynamite-lang/dynamite/types"
	"github.com/google/go-cmp/cmp"
	"github.com/nalgeon/be"
)

func TestExprPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"1 / 2 / 3", "(/ (/ 1 2) 3)"},
		{"1 ^ 2 ^ 3", "(^ (^ 1 2) 3)"},
		{"1 | 2 + 3", "(+ (| 1 2) 3)"},
		{"1 & 2 ^ 3", "(& 1 (^ 2 3))"},
		{"1 + 2 & 3 * 4", "(+ 1 (* (& 2 3) 4))"},
		{"(1 + 2) * 3", "(* (paren (+ 1 2)) 3)"},
		{"*#a + 1", "(+ (deref (addr a)) 1)"},
		{"a-1", "(- a 1)"},
		{"a - -1", "(- a -1)"},
	}
	for _, test := range tests {
		var diags diag.List
		e := ParseExpr(test.src, exprTables(), &diags, Config{Debug: true})
		if len(diags.Diags) > 0 {
			t.Errorf("ParseExpr(%q) reported %s", test.src, diagText(&diags))
			continue
		}
		if got := ast.String(e); got != test.want {
			t.Errorf("ParseExpr(%q)=%s, want %s", test.src, got, test.want)
		}
	}
}

func TestEndToEnd(t *testing.T) {
	u := Compile("add.dy", "i32 add(i32 a, i32 b) { return a + b; }", Config{Debug: true})
	be.Equal(t, len(u.Diags.Diags), 0)
	be.Equal(t, len(u.Program.Defs), 1)

	f, ok := u.Program.Defs[0].(*ast.FuncDef)
	be.True(t, ok)
	i32 := types.Prim(types.Int32)
	be.Equal(t, f.Name, "add")
	be.True(t, f.Ret.Equal(i32))
	be.Equal(t, len(f.Params), 2)
	be.Equal(t, len(f.Body.Stmts), 1)

	ret, ok := f.Body.Stmts[0].(*ast.Return)
	be.True(t, ok)
	sum, ok := ret.Value.(*ast.Binary)
	be.True(t, ok)
	be.Equal(t, sum.Op, types.Add)
	be.True(t, sum.Type().Equal(i32))

	os := u.Tables.Funcs.Overloads("add")
	be.Equal(t, len(os), 1)
	be.True(t, os[0].Defined)
	be.Equal(t, os[0].Line, 1)
}

func TestErrorRecovery(t *testing.T) {
	u := Compile("", "i32 x = ;\ni32 y = 1;\n", Config{Debug: true})
	be.Equal(t, len(u.Diags.Diags), 1)
	d := u.Diags.Diags[0]
	be.Equal(t, d.Loc.Line, 1)
	be.Equal(t, d.Severity, diag.Error)
	be.Equal(t, len(u.Program.Defs), 2)
	be.Equal(t, ast.String(u.Program.Defs[1]), "(var i32 y 1)")
}

func TestSyntaxErrorReportedOncePerToken(t *testing.T) {
	u := Compile("", "void g();\nvoid f() {\n\tg(;\n}\n", Config{Debug: true})
	be.Equal(t, diagText(u.Diags), `3: error: expected expression, got ";"`)
	// The call wants an expression and then a ")" at the same token.
	be.Equal(t, len(u.Fail.Kids), 2)
}

func TestSyntaxError(t *testing.T) {
	u := Compile("t.dy", "i32 x = ;\n", Config{})
	be.Equal(t, len(u.Fail.Kids), 1)
	kid := u.Fail.Kids[0]
	be.Equal(t, kid.Name, "Primary")
	be.Equal(t, kid.Pos, strings.Index(u.Text, ";"))
	be.Equal(t, kid.Kids[0].Want, "expression")

	err := u.SyntaxError()
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "t.dy"))

	u = Compile("t.dy", "i32 x = 1;\n", Config{})
	be.Err(t, u.SyntaxError(), nil)
}

func TestScopeBalance(t *testing.T) {
	srcs := []string{
		"void f() { { { i32 x = 1; } } }",
		"void f(i32 a) { if (a) { i32 b = a; } else if (a) { } else { i32 c = 1; } }",
		"void f() { { i32 x = ; } }",
		"void f() { if (1.5) { i32 x = 1; } }",
		"void f() { { i32 x = 1 }",
		"namespace a { void f() { { } } }",
	}
	for _, src := range srcs {
		u := Compile("", src, Config{Debug: true})
		if d := u.Tables.Scopes.Depth(); d != 0 {
			t.Errorf("Compile(%q) left scope depth %d", src, d)
		}
		if n := u.Diags.Count(diag.Internal); n != 0 {
			t.Errorf("Compile(%q) reported %d internal errors", src, n)
		}
	}
}

func TestBlockRestoresScope(t *testing.T) {
	tabs := sym.New()
	tabs.Scopes.Push("g", types.Prim(types.Int32))
	toks := lex.Tokenize("{ i32 x = g; { i32 y = x; } }", nil)
	p := newParser(toks, tabs, nil, Config{Debug: true})

	b := p.block()
	be.Equal(t, ast.String(b), "(block (var i32 x g) (block (var i32 y x)))")
	be.Equal(t, tabs.Scopes.Depth(), 0)
	be.Equal(t, tabs.Scopes.Len(), 1)
	_, ok := tabs.Scopes.Lookup("x")
	be.Equal(t, ok, false)
}

func TestOverloadDeterminism(t *testing.T) {
	tests := []struct {
		src      string
		overload int
		ret      types.Primitive
	}{
		{
			src:      "i32 f(i32 x); i64 f(i64 x); i32 g(i32 x) { return f(x); }",
			overload: 0,
			ret:      types.Int32,
		},
		{
			src:      "i64 f(i64 x); i32 f(i32 x); i64 g(i32 x) { return f(x); }",
			overload: 0,
			ret:      types.Int64,
		},
		{
			src:      "i64 f(i64 x); i32 f(i32 x); i64 g(i16 x) { return f(x); }",
			overload: 0,
			ret:      types.Int64,
		},
		{
			src:      "i8 f(i8 x); i64 f(i64 x); i64 g(i16 x) { return f(x); }",
			overload: 1,
			ret:      types.Int64,
		},
	}
	for _, test := range tests {
		u := Compile("", test.src, Config{Debug: true})
		var calls []*ast.Call
		ast.Inspect(u.Program, func(n ast.Node) bool {
			if c, ok := n.(*ast.Call); ok {
				calls = append(calls, c)
			}
			return true
		})
		if len(calls) != 1 {
			t.Errorf("%q: got %d calls, want 1 (%s)", test.src, len(calls), diagText(u.Diags))
			continue
		}
		if c := calls[0]; c.Overload != test.overload || !c.T.Is(test.ret) {
			t.Errorf("%q: called f#%d returning %s, want f#%d returning %s",
				test.src, c.Overload, c.T, test.overload, test.ret)
		}
	}
}

func TestEveryExprTyped(t *testing.T) {
	srcs := []string{
		"i32 add(i32 a, i32 b) { return a + b; }",
		"f64 g(f32 x, i64 n = 3) { mut f64 y = x * n; y = y / 2; return y; }",
		"void h(i32 a) { mut i32& r = a; i32* p = #r; if (*p - 1) { r = (a ^ 1) | 2; } }",
		"namespace n { u8 k(u8 c) { return c; } } i32 m() { return n::k('a') + 1; }",
	}
	for _, src := range srcs {
		u := Compile("", src, Config{Debug: true})
		if len(u.Diags.Diags) > 0 {
			t.Errorf("Compile(%q) reported %s", src, diagText(u.Diags))
			continue
		}
		ast.Inspect(u.Program, func(n ast.Node) bool {
			if e, ok := n.(ast.Expr); ok && e.Type().IsNone() {
				t.Errorf("Compile(%q): %s has no type", src, ast.String(e))
			}
			return true
		})
	}
}

// Even with errors, every identifier in the tree
// names a variable or parameter that is also in the tree.
func TestEveryIdentDeclared(t *testing.T) {
	srcs := []string{
		"i32 f() { i32 x = 1.5; i32 y = x; return y; }",
		"void f() { i64 big = 1; i32 small = big; small = 2; }",
		"void f(i32 a) { i32& r = 1; r = a; }",
		"i32 g = 1.5; i32 f() { return g; }",
		"void f() { i32 x = undeclared; x = 1; }",
	}
	for _, src := range srcs {
		u := Compile("", src, Config{Debug: true})
		if !u.Diags.HasErrors() {
			t.Errorf("Compile(%q) reported no errors", src)
		}
		declared := make(map[string]bool)
		ast.Inspect(u.Program, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.VarStmt:
				declared[n.Name] = true
			case *ast.FuncDef:
				for _, p := range n.Params {
					declared[p.Name] = true
				}
			}
			return true
		})
		ast.Inspect(u.Program, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok && !declared[id.Name] {
				t.Errorf("Compile(%q): %s is not declared in %s", src, id.Name, ast.Dump(u.Program))
			}
			return true
		})
	}
}

func TestWordSize(t *testing.T) {
	tests := []struct {
		wordSize int
		want     string
	}{
		{4, "(+ p:i32* l:i64):i64"},
		{8, "(+ p:i32* l:i64):i32*"},
	}
	for _, test := range tests {
		cfg := Config{Sizes: types.Sizes{WordSize: test.wordSize}, Debug: true}
		e := ParseExpr("p + l", exprTables(), nil, cfg)
		if got := ast.TypedString(e); got != test.want {
			t.Errorf("WordSize=%d: got %s, want %s", test.wordSize, got, test.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	setConfigDefaults(&cfg)
	be.Equal(t, cfg.Sizes.WordSize, 8)

	defer func() {
		r := recover()
		be.Equal(t, r, interface{}("bad WordSize 3"))
	}()
	setConfigDefaults(&Config{Sizes: types.Sizes{WordSize: 3}})
	t.Fatal("expected a panic")
}

func TestInternalError(t *testing.T) {
	toks := lex.Tokenize("return 1;", nil)

	var diags diag.List
	p := newParser(toks, sym.New(), &diags, Config{})
	be.Equal(t, p.returnStmt(), nil)
	be.Equal(t, diags.Count(diag.Internal), 1)
	be.True(t, diags.HasErrors())

	p = newParser(toks, sym.New(), &diags, Config{Debug: true})
	defer func() {
		r, ok := recover().(string)
		be.True(t, ok)
		be.True(t, strings.HasPrefix(r, "impossible: return outside"))
	}()
	p.returnStmt()
	t.Fatal("expected a panic")
}

func TestParseResetsTables(t *testing.T) {
	tabs := sym.New()
	tabs.Funcs.Add("stale", types.Prim(types.Void), nil, false)
	tabs.Scopes.Push("stale", types.Prim(types.Int32))

	toks := lex.Tokenize("void f();", nil)
	_, fail := Parse("", toks, tabs, nil, Config{Debug: true})
	be.Equal(t, len(fail.Kids), 0)
	if diff := cmp.Diff([]string{"f"}, tabs.Funcs.Names()); diff != "" {
		t.Errorf("function names (-want +got):\n%s", diff)
	}
	_, ok := tabs.Scopes.Lookup("stale")
	be.Equal(t, ok, false)
}

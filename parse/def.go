// Copyright © 2020 The Pea Authors under an MIT-style license.

package parse

import (
	"strconv"

	"github.com/dynamite-lang/dynamite/ast"
	"github.com/dynamite-lang/dynamite/loc"
	"github.com/dynamite-lang/dynamite/sym"
	"github.com/dynamite-lang/dynamite/token"
	"github.com/dynamite-lang/dynamite/types"
)

func (p *parser) program(path string) *ast.Program {
	defer p.tr("program")()

	depth := p.tabs.Scopes.Depth()
	prog := &ast.Program{Path: path, Arena: p.arena}
	prog.Defs = p.defs(token.Invalid)
	if d := p.tabs.Scopes.Depth(); d != depth {
		p.internal(p.peek().Line, "scope depth %d after parsing, want %d", d, depth)
	}
	return prog
}

// defs parses definitions until end of input or a token of kind end.
func (p *parser) defs(end token.Kind) []ast.Def {
	var defs []ast.Def
	for !p.eof() && p.peek().Kind != end {
		start := p.pos
		defs = append(defs, p.def()...)
		if p.pos == start {
			p.next()
		}
	}
	return defs
}

// def parses a top-level definition.
// A namespace block gives all of its definitions.
func (p *parser) def() []ast.Def {
	defer p.tr("def")()

	switch tok := p.peek(); {
	case tok.Kind == token.Namespace:
		return p.namespaceBlock()
	case tok.Kind == token.Struct || tok.Kind == token.Class || tok.Kind == token.Enum:
		p.unsupported()
		return nil
	case startsType(tok.Kind) || tok.Kind == token.Ident && startsNamedType(p.peekN(1).Kind):
		t, ok := p.typ("Def")
		if !ok {
			p.syncDef()
			return nil
		}
		name := p.peek()
		if !p.expect("Def", token.Ident) {
			p.syncDef()
			return nil
		}
		if p.peek().Kind == token.OpenParen {
			if f := p.function(t, name); f != nil {
				return []ast.Def{f}
			}
			return nil
		}
		if v := p.varRest(t, name); v != nil {
			return []ast.Def{v}
		}
		return nil
	default:
		p.syntaxError("Def", "definition")
		p.syncDef()
		return nil
	}
}

// typ parses a type: front qualifiers, a specifier, and back qualifiers.
func (p *parser) typ(rule string) (types.Type, bool) {
	var t types.Type
	for {
		if p.accept(token.Mut) {
			t = t.With(types.Mut)
		} else if p.accept(token.Volatile) {
			t = t.With(types.Volatile)
		} else {
			break
		}
	}
	tok := p.peek()
	ok := true
	switch {
	case tok.Kind.IsPrimitive():
		p.next()
		t.Spec = types.Specifier{Kind: types.PrimitiveSpec, Prim: primitive(tok.Kind)}
	case tok.Kind == token.Ident:
		// There are no type definitions yet,
		// so a type name can never resolve.
		p.next()
		p.errorf(tok.Line, "undefined type %s", tok.Text)
		t.Spec = types.Specifier{Kind: types.NamedSpec, Name: tok.Text}
		ok = false
	default:
		p.syntaxError(rule, "type")
		return types.Type{}, false
	}
	for {
		switch q := p.peek(); q.Kind {
		case token.Star:
			p.next()
			t = t.WithBack(types.Pointer, 0)
			continue
		case token.Ampersand:
			p.next()
			t = t.WithBack(types.Reference, 0)
			continue
		case token.OpenBracket:
			p.next()
			n := -1
			if lenTok := p.peek(); p.accept(token.Int) {
				var err error
				if n, err = strconv.Atoi(lenTok.Text); err != nil || n < 0 {
					p.errorf(lenTok.Line, "bad array length %s", lenTok.Text)
					ok = false
				}
			}
			if !p.expect(rule, token.CloseBracket) {
				return types.Type{}, false
			}
			t = t.WithBack(types.Array, n)
			continue
		}
		break
	}
	return t, ok
}

func primitive(k token.Kind) types.Primitive {
	switch k {
	case token.Void:
		return types.Void
	case token.Bool:
		return types.Bool
	case token.CharType:
		return types.Char
	case token.Int8:
		return types.Int8
	case token.Int16:
		return types.Int16
	case token.Int32:
		return types.Int32
	case token.Int64:
		return types.Int64
	case token.UInt8:
		return types.UInt8
	case token.UInt16:
		return types.UInt16
	case token.UInt32:
		return types.UInt32
	case token.UInt64:
		return types.UInt64
	case token.Float32:
		return types.Float32
	case token.Float64:
		return types.Float64
	default:
		panic("impossible primitive token " + k.String())
	}
}

// function parses a function declaration or definition
// after its return type and name.
func (p *parser) function(ret types.Type, name token.Token) ast.Def {
	defer p.tr("function %s", name.Text)()

	p.next() // (
	params, variadic, ok := p.params()
	if !ok {
		p.syncDef()
		return nil
	}
	sig := ast.Sig{
		Namespace: append([]string(nil), p.namespace...),
		Name:      name.Text,
		Ret:       ret,
		Params:    params,
		Variadic:  variadic,
	}
	switch tok := p.peek(); tok.Kind {
	case token.Semicolon:
		p.next()
		p.declare(name, &sig, false)
		return p.arena.FuncDecl(ast.FuncDecl{Pos: loc.Pos{Line: name.Line}, Sig: sig})
	case token.OpenBrace:
		p.declare(name, &sig, true)
		body := p.body(&sig)
		return p.arena.FuncDef(ast.FuncDef{Pos: loc.Pos{Line: name.Line}, Sig: sig, Body: body})
	default:
		p.syntaxError("Function", `";" or "{"`)
		p.syncDef()
		return nil
	}
}

// params parses a parameter list after the opening (.
// Commas between parameters are optional.
// Default values are typed in the enclosing scope.
func (p *parser) params() ([]ast.Param, bool, bool) {
	var params []ast.Param
	seen := make(map[string]bool)
	for !p.accept(token.CloseParen) {
		if p.accept(token.Ellipsis) {
			if !p.expect("Params", token.CloseParen) {
				return nil, false, false
			}
			return params, true, true
		}
		t, ok := p.typ("Param")
		if !ok {
			return nil, false, false
		}
		name := p.peek()
		if !p.expect("Param", token.Ident) {
			return nil, false, false
		}
		if seen[name.Text] {
			p.errorf(name.Line, "duplicate parameter %s", name.Text)
		}
		seen[name.Text] = true
		if t.IsVoid() {
			p.errorf(name.Line, "parameter %s declared void", name.Text)
		}
		param := ast.Param{Pos: loc.Pos{Line: name.Line}, Name: name.Text, Type: t}
		if p.accept(token.Assign) {
			def := p.expr(0)
			if def == nil {
				return nil, false, false
			}
			if !sym.Assignable(def.Type(), t) {
				p.errorf(name.Line, "default value of type %s is not castable to parameter %s of type %s", def.Type(), name.Text, t)
			}
			param.Default = def
		}
		params = append(params, param)
		p.accept(token.Comma)
	}
	return params, false, true
}

// declare enters a signature into the function table.
// A signature with the same parameter types as an earlier one
// must agree with it in return type, variadic-ness, and defaults,
// and only one of them may have a body.
func (p *parser) declare(name token.Token, sig *ast.Sig, define bool) {
	full := sym.JoinPath(p.qualify([]string{sig.Name}))
	ptypes := make([]types.Type, len(sig.Params))
	symParams := make([]sym.Param, len(sig.Params))
	for i, param := range sig.Params {
		ptypes[i] = param.Type
		symParams[i] = sym.Param{Name: param.Name, Type: param.Type, Required: param.Default == nil}
	}

	prev := p.tabs.Funcs.Lookup(full, ptypes)
	if prev == nil {
		o := p.tabs.Funcs.Add(full, sig.Ret, symParams, sig.Variadic)
		o.Line = name.Line
		o.Defined = define
		sig.Overload = o.Index
		return
	}
	sig.Overload = prev.Index
	switch {
	case !prev.Ret.Equal(sig.Ret):
		p.errorf(name.Line, "%s redeclared with return type %s", full, sig.Ret)
		p.note("previous declaration %s (line %d)", prev, prev.Line)
	case prev.Variadic != sig.Variadic:
		p.errorf(name.Line, "%s redeclared with different variadic parameters", full)
		p.note("previous declaration %s (line %d)", prev, prev.Line)
	case !sameDefaults(prev.Params, symParams):
		p.errorf(name.Line, "%s redeclared with a different default parameter pattern", full)
		p.note("previous declaration %s (line %d)", prev, prev.Line)
	case define && prev.Defined:
		p.errorf(name.Line, "%s redefined", full)
		p.note("previous definition %s (line %d)", prev, prev.Line)
	case define:
		prev.Defined = true
	}
}

func sameDefaults(a, b []sym.Param) bool {
	for i := range a {
		if a[i].Required != b[i].Required {
			return false
		}
	}
	return true
}

// body parses a function body.
// The parameters are in a scope opened before the body,
// which the body's own statements share.
func (p *parser) body(sig *ast.Sig) *ast.Block {
	prev := p.fun
	p.fun = sig
	defer func() { p.fun = prev }()

	p.tabs.Scopes.Begin()
	defer p.tabs.Scopes.End()
	for _, param := range sig.Params {
		p.tabs.Scopes.Push(param.Name, param.Type)
	}
	open := p.next()
	b, last := p.stmts(open)

	if !sig.Ret.IsVoid() {
		if last != token.Return {
			p.warnf(open.Line, "%s returning %s does not end with a return statement", sig.Name, sig.Ret)
		}
	}
	return b
}

// namespaceBlock parses namespace a::b { defs }.
func (p *parser) namespaceBlock() []ast.Def {
	defer p.tr("namespace")()

	p.next()
	path, ok := p.qualifiedName("Namespace")
	if !ok || !p.expect("Namespace", token.OpenBrace) {
		p.syncDef()
		return nil
	}
	prev := p.namespace
	p.namespace = p.qualify(path)
	defer func() { p.namespace = prev }()
	p.tabs.Namespaces.Enter(p.namespace)

	defs := p.defs(token.CloseBrace)
	p.expect("Namespace", token.CloseBrace)
	return defs
}

// unsupported reports and skips a struct, class, or enum definition.
// TODO: parse aggregate definitions once named types can be resolved.
func (p *parser) unsupported() {
	tok := p.next()
	p.errorf(tok.Line, "%s definitions are not supported", tok.Kind)
	for !p.eof() {
		switch p.peek().Kind {
		case token.Semicolon:
			p.next()
			return
		case token.OpenBrace:
			p.syncDef()
			p.accept(token.Semicolon)
			return
		}
		p.next()
	}
}

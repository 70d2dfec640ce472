// Copyright © 2020 The Pea Authors under an MIT-style license.

package parse

import (
	"strings"

	"github.com/dynamite-lang/dynamite/ast"
	"github.com/dynamite-lang/dynamite/loc"
	"github.com/dynamite-lang/dynamite/sym"
	"github.com/dynamite-lang/dynamite/token"
	"github.com/dynamite-lang/dynamite/types"
)

// binaryOp returns the operator and precedence of an infix token.
// A higher precedence binds tighter.
func binaryOp(k token.Kind) (types.Operator, int, bool) {
	switch k {
	case token.Plus:
		return types.Add, 0, true
	case token.Minus:
		return types.Sub, 0, true
	case token.Star:
		return types.Mul, 1, true
	case token.Slash:
		return types.Div, 1, true
	case token.Ampersand:
		return types.And, 2, true
	case token.Caret:
		return types.Xor, 3, true
	case token.Pipe:
		return types.Or, 4, true
	}
	return 0, 0, false
}

func unaryOp(k token.Kind) (types.Operator, bool) {
	switch k {
	case token.Ampersand:
		return types.Ref, true
	case token.Hash:
		return types.Address, true
	case token.Star:
		return types.Dereference, true
	}
	return 0, false
}

// expr parses an expression by precedence climbing,
// consuming infix operators with precedence of at least minPrec.
// It returns nil if the expression could not be typed;
// the problem has already been reported.
func (p *parser) expr(minPrec int) (e ast.Expr) {
	defer p.tr("expr(%d)", minPrec)(&e)

	lhs := p.unary()
	if lhs == nil {
		return nil
	}
	for {
		op, prec, ok := binaryOp(p.peek().Kind)
		if !ok || prec < minPrec {
			return lhs
		}
		opTok := p.next()
		rhs := p.expr(prec + 1)
		if rhs == nil {
			return nil
		}
		if lhs = p.binary(opTok, op, lhs, rhs); lhs == nil {
			return nil
		}
	}
}

func (p *parser) binary(opTok token.Token, op types.Operator, l, r ast.Expr) ast.Expr {
	lt, rt := valueType(l.Type()), valueType(r.Type())
	for _, t := range [...]types.Type{lt, rt} {
		if !isArithmetic(t) {
			p.errorf(opTok.Line, "operator %s is not defined on type %s", op, t)
			return nil
		}
	}
	t, err := p.cfg.Sizes.BinaryResult(lt, op, rt)
	if err != nil {
		p.internal(opTok.Line, "%s", err)
		return nil
	}
	return p.arena.Binary(ast.Binary{
		Pos: loc.Pos{Line: l.GetPos().Line},
		Op:  op,
		T:   t,
		L:   l,
		R:   r,
	})
}

// valueType returns the type of the value a location of type t holds.
// A reference yields the referenced type.
func valueType(t types.Type) types.Type {
	if t.IsReference() {
		return t.Elem()
	}
	return t
}

func isArithmetic(t types.Type) bool {
	switch {
	case t.IsPointer():
		return true
	case t.IsNone() || len(t.Back) > 0 || t.IsVoid():
		return false
	}
	return t.Spec.Kind == types.PrimitiveSpec
}

// unary parses a prefix operation or a primary expression.
// Prefix operators bind tighter than every infix operator.
func (p *parser) unary() (e ast.Expr) {
	defer p.tr("unary")(&e)

	op, ok := unaryOp(p.peek().Kind)
	if !ok {
		return p.primary()
	}
	opTok := p.next()
	x := p.unary()
	if x == nil {
		return nil
	}
	if !ast.IsLvalue(x) {
		p.errorf(opTok.Line, "%s of non-lvalue %s", opName(op), ast.String(x))
		return nil
	}
	var t types.Type
	switch xt := x.Type(); op {
	case types.Ref:
		t = valueType(xt).WithBack(types.Reference, 0)
	case types.Address:
		t = valueType(xt).WithBack(types.Pointer, 0)
	case types.Dereference:
		if !xt.IsPointer() && !xt.IsReference() {
			p.errorf(opTok.Line, "dereference of %s of non-pointer type %s", ast.String(x), xt)
			return nil
		}
		t = xt.Elem()
	default:
		p.internal(opTok.Line, "bad unary operator %s", op)
		return nil
	}
	return p.arena.Unary(ast.Unary{Pos: loc.Pos{Line: opTok.Line}, Op: op, T: t, X: x})
}

func opName(op types.Operator) string {
	switch op {
	case types.Ref:
		return "reference"
	case types.Address:
		return "address"
	default:
		return "dereference"
	}
}

func (p *parser) primary() (e ast.Expr) {
	defer p.tr("primary")(&e)

	switch tok := p.peek(); tok.Kind {
	case token.Int, token.Float, token.Char, token.String, token.True, token.False:
		return p.literal()
	case token.Ident:
		if k := p.peekN(1).Kind; k == token.OpenParen || k == token.DoubleColon {
			if c := p.call(); c != nil {
				return c
			}
			return nil
		}
		p.next()
		t, ok := p.tabs.Scopes.Lookup(tok.Text)
		if !ok {
			p.errorf(tok.Line, "undeclared identifier %s", tok.Text)
			return nil
		}
		return p.arena.Ident(ast.Ident{Pos: loc.Pos{Line: tok.Line}, Name: tok.Text, T: t})
	case token.OpenParen:
		p.next()
		x := p.expr(0)
		if !p.expect("Paren", token.CloseParen) || x == nil {
			return nil
		}
		return p.arena.Paren(ast.Paren{Pos: loc.Pos{Line: tok.Line}, X: x})
	default:
		p.syntaxError("Primary", "expression")
		return nil
	}
}

func (p *parser) literal() ast.Expr {
	tok := p.next()
	var kind types.LiteralKind
	text := tok.Text
	switch tok.Kind {
	case token.Int:
		kind = types.IntLiteral
	case token.Float:
		kind = types.FloatLiteral
	case token.Char:
		kind = types.CharLiteral
	case token.String:
		kind = types.StringLiteral
	case token.True, token.False:
		kind = types.BoolLiteral
		text = tok.Kind.String()
	}
	t, err := types.FromLiteral(kind, text)
	if err != nil {
		p.errorf(tok.Line, "%s", err)
		return nil
	}
	return p.arena.Literal(ast.Literal{Pos: loc.Pos{Line: tok.Line}, Kind: kind, Text: text, T: t})
}

// qualifiedName parses Ident (:: Ident)*.
func (p *parser) qualifiedName(rule string) ([]string, bool) {
	var path []string
	for {
		tok := p.peek()
		if !p.expect(rule, token.Ident) {
			return nil, false
		}
		path = append(path, tok.Text)
		if !p.accept(token.DoubleColon) {
			return path, true
		}
	}
}

// call parses a function call and resolves its overload.
// The first overload in declaration order
// that accepts the argument types is called.
func (p *parser) call() *ast.Call {
	defer p.tr("call")()

	nameTok := p.peek()
	path, ok := p.qualifiedName("Call")
	if !ok || !p.expect("Call", token.OpenParen) {
		return nil
	}
	var args []ast.Expr
	if !p.accept(token.CloseParen) {
		for {
			if a := p.expr(0); a == nil {
				ok = false
			} else {
				args = append(args, a)
			}
			if p.accept(token.Comma) {
				continue
			}
			if !p.expect("Call", token.CloseParen) {
				return nil
			}
			break
		}
	}
	if !ok {
		return nil
	}

	if ns := path[:len(path)-1]; len(ns) > 0 && !p.tabs.Namespaces.Exists(p.qualify(ns)) && !p.tabs.Namespaces.Exists(ns) {
		p.errorf(nameTok.Line, "undeclared namespace %s", sym.JoinPath(ns))
		return nil
	}
	name, overloads := p.findFunc(path)
	if len(overloads) == 0 {
		p.errorf(nameTok.Line, "undeclared function %s", name)
		return nil
	}
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Type()
	}
	o := p.tabs.Funcs.Resolve(name, argTypes)
	if o == nil {
		p.errorf(nameTok.Line, "no overload of %s accepts (%s)", name, typeList(argTypes))
		for _, c := range overloads {
			p.note("candidate %s (line %d)", c, c.Line)
		}
		return nil
	}
	return p.arena.Call(ast.Call{
		Pos:      loc.Pos{Line: nameTok.Line},
		Name:     name,
		Args:     args,
		Overload: o.Index,
		T:        o.Ret,
	})
}

// qualify returns the path within the current namespace.
func (p *parser) qualify(path []string) []string {
	full := make([]string, 0, len(p.namespace)+len(path))
	full = append(full, p.namespace...)
	return append(full, path...)
}

// findFunc returns the full name and overloads of a function,
// searching from the current namespace outwards.
func (p *parser) findFunc(path []string) (string, []*sym.Overload) {
	for i := len(p.namespace); i >= 0; i-- {
		full := append(append([]string{}, p.namespace[:i]...), path...)
		name := sym.JoinPath(full)
		if os := p.tabs.Funcs.Overloads(name); len(os) > 0 {
			return name, os
		}
	}
	return sym.JoinPath(path), nil
}

func typeList(ts []types.Type) string {
	var s strings.Builder
	for i, t := range ts {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(t.String())
	}
	return s.String()
}

// Copyright © 2020 The Pea Authors under an MIT-style license.

package parse

import (
	"github.com/dynamite-lang/dynamite/ast"
	"github.com/dynamite-lang/dynamite/loc"
	"github.com/dynamite-lang/dynamite/sym"
	"github.com/dynamite-lang/dynamite/token"
	"github.com/dynamite-lang/dynamite/types"
)

// stmt parses a statement.
// It returns nil if the statement was dropped because of an error.
func (p *parser) stmt() (s ast.Stmt) {
	defer p.tr("stmt")(&s)

	switch tok := p.peek(); {
	case tok.Kind == token.OpenBrace:
		return p.block()
	case tok.Kind == token.If:
		return p.ifStmt()
	case tok.Kind == token.Return:
		return p.returnStmt()
	case startsType(tok.Kind) || tok.Kind == token.Ident && startsNamedType(p.peekN(1).Kind):
		if v := p.varStmt(); v != nil {
			return v
		}
		return nil
	case tok.Kind == token.Ident && (p.peekN(1).Kind == token.OpenParen || p.peekN(1).Kind == token.DoubleColon):
		c := p.call()
		if !p.expect("Stmt", token.Semicolon) {
			p.syncStmt()
		}
		if c == nil {
			return nil
		}
		return c
	case tok.Kind == token.Ident && p.peekN(1).Kind == token.Assign:
		return p.assign()
	default:
		p.syntaxError("Stmt", "statement")
		p.syncStmt()
		return nil
	}
}

// startsType returns whether a token can begin a type
// other than a named type.
func startsType(k token.Kind) bool {
	return k.IsPrimitive() || k == token.Mut || k == token.Volatile
}

// startsNamedType returns whether a token after an identifier
// makes the identifier a type name.
func startsNamedType(k token.Kind) bool {
	switch k {
	case token.Ident, token.Star, token.Ampersand, token.OpenBracket:
		return true
	}
	return false
}

// block parses a braced block in a new scope.
func (p *parser) block() *ast.Block {
	defer p.tr("block")()

	p.tabs.Scopes.Begin()
	defer p.tabs.Scopes.End()
	open := p.next()
	b, _ := p.stmts(open)
	return b
}

// stmts parses statements up to and including the closing }.
// The opening { has already been consumed.
// The second result is the kind of the token
// that began the last statement, or token.CloseBrace if there are none.
// It is reported even if the statement itself was dropped.
func (p *parser) stmts(open token.Token) (*ast.Block, token.Kind) {
	b := ast.Block{Pos: loc.Pos{Line: open.Line}}
	last := token.CloseBrace
	for !p.eof() && p.peek().Kind != token.CloseBrace {
		start := p.pos
		last = p.peek().Kind
		if s := p.stmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
		if p.pos == start {
			p.next()
		}
	}
	p.expect("Block", token.CloseBrace)
	return p.arena.Block(b), last
}

// braced parses a block where the grammar requires one.
func (p *parser) braced(rule string) *ast.Block {
	if p.peek().Kind != token.OpenBrace {
		p.syntaxError(rule, want(token.OpenBrace))
		p.syncStmt()
		return nil
	}
	return p.block()
}

func (p *parser) ifStmt() ast.Stmt {
	defer p.tr("if")()

	tok := p.next()
	cond := p.cond("If")
	then := p.braced("If")
	var next ast.Branch
	ok := true
	if p.accept(token.Else) {
		if next = p.branch(); next == nil {
			ok = false
		}
	}
	if !ok || cond == nil || then == nil {
		return nil
	}
	return p.arena.If(ast.If{Pos: loc.Pos{Line: tok.Line}, Cond: cond, Then: then, Next: next})
}

// branch parses what follows an else.
func (p *parser) branch() ast.Branch {
	tok := p.peek()
	if !p.accept(token.If) {
		b := p.braced("Else")
		if b == nil {
			return nil
		}
		return p.arena.Else(ast.Else{Pos: loc.Pos{Line: tok.Line}, Block: b})
	}
	cond := p.cond("ElseIf")
	b := p.braced("ElseIf")
	var next ast.Branch
	ok := true
	if p.accept(token.Else) {
		if next = p.branch(); next == nil {
			ok = false
		}
	}
	if !ok || cond == nil || b == nil {
		return nil
	}
	return p.arena.ElseIf(ast.ElseIf{Pos: loc.Pos{Line: tok.Line}, Cond: cond, Block: b, Next: next})
}

// cond parses a parenthesized condition,
// which must be implicitly castable to bool.
func (p *parser) cond(rule string) ast.Expr {
	if !p.expect(rule, token.OpenParen) {
		return nil
	}
	c := p.expr(0)
	if !p.expect(rule, token.CloseParen) || c == nil {
		return nil
	}
	if t := valueType(c.Type()); !types.ImplicitCastable(t, types.Prim(types.Bool)) {
		p.errorf(c.GetPos().Line, "condition of type %s is not castable to bool", c.Type())
		return nil
	}
	return c
}

// varStmt parses a variable declaration.
func (p *parser) varStmt() *ast.VarStmt {
	defer p.tr("var")()

	t, ok := p.typ("Var")
	if !ok {
		p.syncStmt()
		return nil
	}
	name := p.peek()
	if !p.expect("Var", token.Ident) {
		p.syncStmt()
		return nil
	}
	return p.varRest(t, name)
}

// varRest parses the rest of a variable declaration after its name.
// The variable is in scope in its own initializer.
func (p *parser) varRest(t types.Type, name token.Token) *ast.VarStmt {
	ok := true
	if t.IsVoid() {
		p.errorf(name.Line, "variable %s declared void", name.Text)
		ok = false
	}
	if p.tabs.Scopes.Declared(name.Text) {
		p.errorf(name.Line, "%s redeclared in this scope", name.Text)
		ok = false
	}
	if ok {
		p.tabs.Scopes.Push(name.Text, t)
	}
	var init ast.Expr
	if p.accept(token.Assign) {
		init = p.expr(0)
		if init != nil && ok && !p.checkInit(name, t, init) {
			// The variable is in scope, so it stays declared.
			init = nil
		}
	}
	if !p.expect("Var", token.Semicolon) {
		p.syncStmt()
	}
	if !ok {
		return nil
	}
	return p.arena.VarStmt(ast.VarStmt{Pos: loc.Pos{Line: name.Line}, Name: name.Text, T: t, Init: init})
}

func (p *parser) checkInit(name token.Token, t types.Type, init ast.Expr) bool {
	switch {
	case !sym.Assignable(init.Type(), t):
		p.errorf(name.Line, "cannot initialize %s of type %s with a value of type %s", name.Text, t, init.Type())
		return false
	case t.IsReference() && !ast.IsLvalue(init):
		p.errorf(name.Line, "cannot bind reference %s to non-lvalue %s", name.Text, ast.String(init))
		return false
	}
	return true
}

func (p *parser) assign() ast.Stmt {
	defer p.tr("assign")()

	name := p.next()
	p.next() // =
	value := p.expr(0)
	if !p.expect("Assign", token.Semicolon) {
		p.syncStmt()
	}
	t, ok := p.tabs.Scopes.Lookup(name.Text)
	switch {
	case !ok:
		p.errorf(name.Line, "undeclared identifier %s", name.Text)
		return nil
	case !t.IsMut():
		p.errorf(name.Line, "cannot assign to immutable %s of type %s", name.Text, t)
		return nil
	case value == nil:
		return nil
	case !sym.Assignable(value.Type(), t):
		p.errorf(name.Line, "cannot assign a value of type %s to %s of type %s", value.Type(), name.Text, t)
		return nil
	}
	return p.arena.Assign(ast.Assign{Pos: loc.Pos{Line: name.Line}, Name: name.Text, T: t, Value: value})
}

func (p *parser) returnStmt() ast.Stmt {
	defer p.tr("return")()

	tok := p.next()
	if p.fun == nil {
		p.internal(tok.Line, "return outside of a function")
		p.syncStmt()
		return nil
	}
	ret := p.fun.Ret
	if p.accept(token.Semicolon) {
		if !ret.IsVoid() {
			p.errorf(tok.Line, "missing return value in %s returning %s", p.fun.Name, ret)
			return nil
		}
		return p.arena.Return(ast.Return{Pos: loc.Pos{Line: tok.Line}})
	}
	value := p.expr(0)
	if !p.expect("Return", token.Semicolon) {
		p.syncStmt()
	}
	switch {
	case value == nil:
		return nil
	case ret.IsVoid():
		p.errorf(tok.Line, "%s returns void, but a value is returned", p.fun.Name)
		return nil
	case !sym.Assignable(value.Type(), ret):
		p.errorf(tok.Line, "cannot return a value of type %s from %s returning %s", value.Type(), p.fun.Name, ret)
		return nil
	}
	return p.arena.Return(ast.Return{Pos: loc.Pos{Line: tok.Line}, Value: value})
}

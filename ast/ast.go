// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package ast defines the typed syntax tree built by the parser.
//
// Every expression carries its type, resolved while parsing.
// Nodes are allocated from an Arena owned by the Program.
package ast

import (
	"fmt"

	"github.com/dynamite-lang/dynamite/loc"
	"github.com/dynamite-lang/dynamite/types"
)

// A Node is a node of the AST.
type Node interface {
	GetPos() loc.Pos
}

// An Expr is an expression.
//
// The concrete types are
// *Literal, *Ident, *Paren, *Binary, *Unary, and *Call.
type Expr interface {
	Node
	Type() types.Type
	expr()
}

// A Term is an expression without operators.
//
// The concrete types are *Literal, *Ident, and *Paren.
type Term interface {
	Expr
	term()
}

// A Stmt is a statement.
//
// The concrete types are
// *VarStmt, *Block, *If, *Assign, *Return, and *Call.
type Stmt interface {
	Node
	stmt()
}

// A Branch continues an If statement.
//
// The concrete types are *ElseIf and *Else.
type Branch interface {
	Node
	branch()
}

// A Def is a top-level definition.
//
// The concrete types are *VarStmt, *FuncDecl, and *FuncDef.
type Def interface {
	Node
	def()
}

// A Func is a function declaration or definition.
type Func interface {
	Def
	Signature() *Sig
}

// A Program is the tree of one compilation unit.
type Program struct {
	Path  string
	Defs  []Def
	Arena *Arena
}

// A Literal is a literal value.
type Literal struct {
	loc.Pos
	Kind types.LiteralKind
	// Text is the literal text, with escapes decoded.
	Text string
	T    types.Type
}

// An Ident is a reference to a variable.
type Ident struct {
	loc.Pos
	Name string
	T    types.Type
}

// A Paren is a parenthesized expression.
type Paren struct {
	loc.Pos
	X Expr
}

// A Binary is an infix operation.
type Binary struct {
	loc.Pos
	// Op is one of Add, Sub, Mul, Div, Or, And, or Xor.
	Op   types.Operator
	T    types.Type
	L, R Expr
}

// A Unary is a prefix operation.
type Unary struct {
	loc.Pos
	// Op is one of Ref, Address, or Dereference.
	Op types.Operator
	T  types.Type
	X  Expr
}

// A Call is a function call.
type Call struct {
	loc.Pos
	Name string
	Args []Expr
	// Overload is the index of the called overload
	// among the overloads of Name.
	Overload int
	T        types.Type
}

// A VarStmt is a variable declaration.
// At the top level it is a Def.
type VarStmt struct {
	loc.Pos
	Name string
	T    types.Type
	// Init is nil if there is no initializer.
	Init Expr
}

// A Block is a braced statement list with its own scope.
type Block struct {
	loc.Pos
	Stmts []Stmt
}

// An If is a conditional statement.
type If struct {
	loc.Pos
	Cond Expr
	Then *Block
	// Next is nil if there is no else.
	Next Branch
}

// An ElseIf is an else-if branch.
type ElseIf struct {
	loc.Pos
	Cond  Expr
	Block *Block
	Next  Branch
}

// An Else is a final else branch.
type Else struct {
	loc.Pos
	Block *Block
}

// An Assign assigns to a variable.
type Assign struct {
	loc.Pos
	Name string
	// T is the type of the variable.
	T     types.Type
	Value Expr
}

// A Return returns from a function.
type Return struct {
	loc.Pos
	// Value is nil in a void function.
	Value Expr
}

// A Param is a function parameter.
type Param struct {
	loc.Pos
	Name string
	Type types.Type
	// Default is nil if the parameter is required.
	Default Expr
}

// A Sig is a function signature.
type Sig struct {
	// Namespace is the path of the enclosing namespace, if any.
	Namespace []string
	Name      string
	Ret       types.Type
	Params    []Param
	Variadic  bool
	// Overload is the index of the signature
	// among the overloads of Name.
	Overload int
}

// A FuncDecl is a function declaration without a body.
type FuncDecl struct {
	loc.Pos
	Sig
}

// A FuncDef is a function definition.
type FuncDef struct {
	loc.Pos
	Sig
	Body *Block
}

func (n *Literal) Type() types.Type { return n.T }
func (n *Ident) Type() types.Type   { return n.T }
func (n *Paren) Type() types.Type   { return n.X.Type() }
func (n *Binary) Type() types.Type  { return n.T }
func (n *Unary) Type() types.Type   { return n.T }
func (n *Call) Type() types.Type    { return n.T }

func (n *FuncDecl) Signature() *Sig { return &n.Sig }
func (n *FuncDef) Signature() *Sig  { return &n.Sig }

func (*Literal) expr() {}
func (*Ident) expr()   {}
func (*Paren) expr()   {}
func (*Binary) expr()  {}
func (*Unary) expr()   {}
func (*Call) expr()    {}

func (*Literal) term() {}
func (*Ident) term()   {}
func (*Paren) term()   {}

func (*VarStmt) stmt() {}
func (*Block) stmt()   {}
func (*If) stmt()      {}
func (*Assign) stmt()  {}
func (*Return) stmt()  {}
func (*Call) stmt()    {}

func (*ElseIf) branch() {}
func (*Else) branch()   {}

func (*VarStmt) def()  {}
func (*FuncDecl) def() {}
func (*FuncDef) def()  {}

// IsLvalue returns whether the expression denotes a storage location.
func IsLvalue(e Expr) bool {
	switch e := e.(type) {
	case *Ident, *Unary:
		return true
	case *Paren:
		return IsLvalue(e.X)
	default:
		return false
	}
}

// Inspect traverses the tree rooted at n in depth-first order,
// calling f for each node.
// If f returns false, the children of the node are not visited.
// Nil children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, d := range n.Defs {
			Inspect(d, f)
		}
	case *Literal, *Ident:
	case *Paren:
		Inspect(n.X, f)
	case *Binary:
		Inspect(n.L, f)
		Inspect(n.R, f)
	case *Unary:
		Inspect(n.X, f)
	case *Call:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *VarStmt:
		Inspect(n.Init, f)
	case *Block:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *If:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Next, f)
	case *ElseIf:
		Inspect(n.Cond, f)
		Inspect(n.Block, f)
		Inspect(n.Next, f)
	case *Else:
		Inspect(n.Block, f)
	case *Assign:
		Inspect(n.Value, f)
	case *Return:
		Inspect(n.Value, f)
	case *FuncDecl:
		for _, p := range n.Params {
			Inspect(p.Default, f)
		}
	case *FuncDef:
		for _, p := range n.Params {
			Inspect(p.Default, f)
		}
		Inspect(n.Body, f)
	default:
		panic(fmt.Sprintf("impossible node type %T", n))
	}
}

// GetPos returns the position of the first definition.
func (p *Program) GetPos() loc.Pos {
	if len(p.Defs) == 0 {
		return loc.Pos{}
	}
	return p.Defs[0].GetPos()
}

func isNil(n Node) bool {
	b, ok := n.(*Block)
	return n == nil || ok && b == nil
}

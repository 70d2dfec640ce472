// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dynamite-lang/dynamite/sym"
	"github.com/dynamite-lang/dynamite/types"
)

// String returns the node as an s-expression, for example (+ 1 (* 2 3)).
func String(n Node) string {
	var s strings.Builder
	buildString(n, false, &s)
	return s.String()
}

// TypedString is like String,
// but each expression is followed by :type.
func TypedString(n Node) string {
	var s strings.Builder
	buildString(n, true, &s)
	return s.String()
}

// Dump returns the typed s-expression of each definition,
// one per line.
func Dump(p *Program) string {
	var s strings.Builder
	for _, d := range p.Defs {
		buildString(d, true, &s)
		s.WriteRune('\n')
	}
	return s.String()
}

func buildString(n Node, typed bool, s *strings.Builder) {
	switch n := n.(type) {
	case *Program:
		s.WriteString("(program")
		for _, d := range n.Defs {
			s.WriteRune(' ')
			buildString(d, typed, s)
		}
		s.WriteRune(')')
	case *Literal:
		switch n.Kind {
		case types.StringLiteral:
			s.WriteString(strconv.Quote(n.Text))
		case types.CharLiteral:
			s.WriteString(strconv.QuoteRune(firstRune(n.Text)))
		default:
			s.WriteString(n.Text)
		}
		buildType(n, typed, s)
	case *Ident:
		s.WriteString(n.Name)
		buildType(n, typed, s)
	case *Paren:
		s.WriteString("(paren ")
		buildString(n.X, typed, s)
		s.WriteRune(')')
	case *Binary:
		s.WriteRune('(')
		s.WriteString(n.Op.String())
		s.WriteRune(' ')
		buildString(n.L, typed, s)
		s.WriteRune(' ')
		buildString(n.R, typed, s)
		s.WriteRune(')')
		buildType(n, typed, s)
	case *Unary:
		s.WriteRune('(')
		s.WriteString(n.Op.String())
		s.WriteRune(' ')
		buildString(n.X, typed, s)
		s.WriteRune(')')
		buildType(n, typed, s)
	case *Call:
		s.WriteString("(call ")
		s.WriteString(n.Name)
		if typed {
			s.WriteRune('#')
			s.WriteString(strconv.Itoa(n.Overload))
		}
		for _, a := range n.Args {
			s.WriteRune(' ')
			buildString(a, typed, s)
		}
		s.WriteRune(')')
		buildType(n, typed, s)
	case *VarStmt:
		s.WriteString("(var ")
		buildTypeName(n.T, s)
		s.WriteRune(' ')
		s.WriteString(n.Name)
		if n.Init != nil {
			s.WriteRune(' ')
			buildString(n.Init, typed, s)
		}
		s.WriteRune(')')
	case *Block:
		s.WriteString("(block")
		for _, stmt := range n.Stmts {
			s.WriteRune(' ')
			buildString(stmt, typed, s)
		}
		s.WriteRune(')')
	case *If:
		s.WriteString("(if ")
		buildString(n.Cond, typed, s)
		s.WriteRune(' ')
		buildString(n.Then, typed, s)
		if n.Next != nil {
			s.WriteRune(' ')
			buildString(n.Next, typed, s)
		}
		s.WriteRune(')')
	case *ElseIf:
		s.WriteString("(elif ")
		buildString(n.Cond, typed, s)
		s.WriteRune(' ')
		buildString(n.Block, typed, s)
		if n.Next != nil {
			s.WriteRune(' ')
			buildString(n.Next, typed, s)
		}
		s.WriteRune(')')
	case *Else:
		s.WriteString("(else ")
		buildString(n.Block, typed, s)
		s.WriteRune(')')
	case *Assign:
		s.WriteString("(= ")
		s.WriteString(n.Name)
		s.WriteRune(' ')
		buildString(n.Value, typed, s)
		s.WriteRune(')')
	case *Return:
		s.WriteString("(return")
		if n.Value != nil {
			s.WriteRune(' ')
			buildString(n.Value, typed, s)
		}
		s.WriteRune(')')
	case *FuncDecl:
		s.WriteString("(decl ")
		buildSig(&n.Sig, typed, s)
		s.WriteRune(')')
	case *FuncDef:
		s.WriteString("(func ")
		buildSig(&n.Sig, typed, s)
		s.WriteRune(' ')
		buildString(n.Body, typed, s)
		s.WriteRune(')')
	case nil:
		s.WriteString("<nil>")
	default:
		panic(fmt.Sprintf("impossible node type %T", n))
	}
}

func buildSig(n *Sig, typed bool, s *strings.Builder) {
	buildTypeName(n.Ret, s)
	s.WriteRune(' ')
	if len(n.Namespace) > 0 {
		s.WriteString(sym.JoinPath(n.Namespace))
		s.WriteString("::")
	}
	s.WriteString(n.Name)
	s.WriteString(" (")
	for i, p := range n.Params {
		if i > 0 {
			s.WriteRune(' ')
		}
		s.WriteRune('(')
		buildTypeName(p.Type, s)
		s.WriteRune(' ')
		s.WriteString(p.Name)
		if p.Default != nil {
			s.WriteRune(' ')
			buildString(p.Default, typed, s)
		}
		s.WriteRune(')')
	}
	if n.Variadic {
		if len(n.Params) > 0 {
			s.WriteRune(' ')
		}
		s.WriteString("...")
	}
	s.WriteRune(')')
}

// buildTypeName writes a type as a single s-expression atom.
func buildTypeName(t types.Type, s *strings.Builder) {
	s.WriteString(strings.ReplaceAll(t.String(), " ", "_"))
}

func buildType(e Expr, typed bool, s *strings.Builder) {
	if !typed {
		return
	}
	s.WriteRune(':')
	buildTypeName(e.Type(), s)
}

func firstRune(text string) rune {
	for _, r := range text {
		return r
	}
	return 0
}

// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

// chunkSize is the number of nodes in each arena chunk.
const chunkSize = 64

// pool allocates values of one node type in fixed-size chunks.
// A chunk is never reallocated, so returned pointers stay valid.
type pool[T any] struct {
	chunks [][]T
	n      int
}

func (p *pool[T]) alloc(v T) *T {
	if k := len(p.chunks); k == 0 || len(p.chunks[k-1]) == chunkSize {
		p.chunks = append(p.chunks, make([]T, 0, chunkSize))
	}
	c := &p.chunks[len(p.chunks)-1]
	*c = append(*c, v)
	p.n++
	return &(*c)[len(*c)-1]
}

// An Arena allocates the nodes of one compilation unit.
// The nodes are released together when the Arena is no longer referenced.
//
// The zero Arena is ready to use.
type Arena struct {
	literals pool[Literal]
	idents   pool[Ident]
	parens   pool[Paren]
	binaries pool[Binary]
	unaries  pool[Unary]
	calls    pool[Call]
	vars     pool[VarStmt]
	blocks   pool[Block]
	ifs      pool[If]
	elseIfs  pool[ElseIf]
	elses    pool[Else]
	assigns  pool[Assign]
	returns  pool[Return]
	decls    pool[FuncDecl]
	defs     pool[FuncDef]
}

// Len returns the number of nodes allocated.
func (a *Arena) Len() int {
	return a.literals.n + a.idents.n + a.parens.n + a.binaries.n +
		a.unaries.n + a.calls.n + a.vars.n + a.blocks.n + a.ifs.n +
		a.elseIfs.n + a.elses.n + a.assigns.n + a.returns.n +
		a.decls.n + a.defs.n
}

func (a *Arena) Literal(n Literal) *Literal    { return a.literals.alloc(n) }
func (a *Arena) Ident(n Ident) *Ident          { return a.idents.alloc(n) }
func (a *Arena) Paren(n Paren) *Paren          { return a.parens.alloc(n) }
func (a *Arena) Binary(n Binary) *Binary       { return a.binaries.alloc(n) }
func (a *Arena) Unary(n Unary) *Unary          { return a.unaries.alloc(n) }
func (a *Arena) Call(n Call) *Call             { return a.calls.alloc(n) }
func (a *Arena) VarStmt(n VarStmt) *VarStmt    { return a.vars.alloc(n) }
func (a *Arena) Block(n Block) *Block          { return a.blocks.alloc(n) }
func (a *Arena) If(n If) *If                   { return a.ifs.alloc(n) }
func (a *Arena) ElseIf(n ElseIf) *ElseIf       { return a.elseIfs.alloc(n) }
func (a *Arena) Else(n Else) *Else             { return a.elses.alloc(n) }
func (a *Arena) Assign(n Assign) *Assign       { return a.assigns.alloc(n) }
func (a *Arena) Return(n Return) *Return       { return a.returns.alloc(n) }
func (a *Arena) FuncDecl(n FuncDecl) *FuncDecl { return a.decls.alloc(n) }
func (a *Arena) FuncDef(n FuncDef) *FuncDef    { return a.defs.alloc(n) }

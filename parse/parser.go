// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package parse builds a typed AST from tokens.
//
// Parsing and type checking happen in a single pass:
// each expression is typed as soon as it is parsed,
// and declarations are entered into the symbol tables as they are seen.
// Errors are reported to a diag.Sink and parsing continues,
// so one pass reports as many problems as possible.
package parse

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dynamite-lang/dynamite/ast"
	"github.com/dynamite-lang/dynamite/diag"
	"github.com/dynamite-lang/dynamite/lex"
	"github.com/dynamite-lang/dynamite/sym"
	"github.com/dynamite-lang/dynamite/token"
	"github.com/dynamite-lang/dynamite/types"
	"github.com/eaburns/peggy/peg"
)

// Config are configuration parameters for the parser.
type Config struct {
	// Sizes are the sizes of the target.
	// Sizes.WordSize must be 4 or 8 (default=8).
	Sizes types.Sizes
	// Trace is whether to enable debug tracing.
	Trace bool
	// Debug is whether internal errors panic
	// instead of being reported as diagnostics.
	Debug bool
}

func setConfigDefaults(cfg *Config) {
	switch cfg.Sizes.WordSize {
	case 0:
		cfg.Sizes.WordSize = 8
	case 4, 8:
		break
	default:
		panic("bad WordSize " + strconv.Itoa(cfg.Sizes.WordSize))
	}
}

// A Unit is the result of compiling one source file.
type Unit struct {
	Path    string
	Text    string
	Tokens  []token.Token
	Program *ast.Program
	Tables  *sym.Tables
	Diags   *diag.List
	// Fail is the root of the syntax failures.
	// It has no Kids if there were no syntax errors.
	Fail *peg.Fail
}

// Compile tokenizes and parses the source text of one file
// using fresh symbol tables.
func Compile(path, text string, cfg Config) *Unit {
	u := &Unit{
		Path:   path,
		Text:   text,
		Tables: sym.New(),
		Diags:  &diag.List{Path: path},
	}
	u.Tokens = lex.Tokenize(text, u.Diags)
	u.Program, u.Fail = Parse(path, u.Tokens, u.Tables, u.Diags, cfg)
	return u
}

// SyntaxError returns the first syntax error with its column,
// or nil if there were no syntax errors.
func (u *Unit) SyntaxError() error {
	if u.Fail == nil || len(u.Fail.Kids) == 0 {
		return nil
	}
	first := &peg.Fail{Name: u.Fail.Name, Pos: u.Fail.Pos, Kids: u.Fail.Kids[:1]}
	e := peg.SimpleError(u.Text, first)
	e.FilePath = u.Path
	return errors.New(e.Error())
}

// Parse parses a compilation unit from its tokens.
//
// The tables are reset before parsing,
// and hold the unit's functions and namespaces afterwards.
// Diagnostics are reported to the sink.
// The returned *peg.Fail is the root of a tree with one child
// for each syntax error.
func Parse(path string, toks []token.Token, tabs *sym.Tables, sink diag.Sink, cfg Config) (*ast.Program, *peg.Fail) {
	tabs.Reset()
	p := newParser(toks, tabs, sink, cfg)
	prog := p.program(path)
	return prog, p.fail
}

// ParseExpr parses a single expression using the given tables,
// which are not reset.
// It returns nil if the expression could not be typed.
func ParseExpr(text string, tabs *sym.Tables, sink diag.Sink, cfg Config) ast.Expr {
	p := newParser(lex.Tokenize(text, sink), tabs, sink, cfg)
	e := p.expr(0)
	if e != nil && !p.eof() {
		p.syntaxError("Expr", "end of expression")
	}
	return e
}

type parser struct {
	cfg   Config
	toks  []token.Token
	pos   int
	tabs  *sym.Tables
	arena *ast.Arena
	sink  diag.Sink
	fail  *peg.Fail

	// namespace is the path of the enclosing namespace.
	namespace []string
	// fun is the signature of the enclosing function, or nil.
	fun *ast.Sig

	// lastSyntax is the token index of the last syntax error.
	lastSyntax int
	indent     string
}

func newParser(toks []token.Token, tabs *sym.Tables, sink diag.Sink, cfg Config) *parser {
	setConfigDefaults(&cfg)
	if sink == nil {
		sink = diag.Discard
	}
	return &parser{
		cfg:        cfg,
		toks:       toks,
		tabs:       tabs,
		arena:      new(ast.Arena),
		sink:       sink,
		fail:       &peg.Fail{Name: "Program"},
		lastSyntax: -1,
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

// peek returns the current token.
// At the end of input it returns an Invalid token
// on the line of the last token.
func (p *parser) peek() token.Token { return p.peekN(0) }

func (p *parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	if len(p.toks) == 0 {
		return token.Token{Line: 1}
	}
	last := p.toks[len(p.toks)-1]
	return token.Token{Line: last.Line, Offs: last.Offs + len(last.String())}
}

func (p *parser) next() token.Token {
	t := p.peek()
	if !p.eof() {
		p.pos++
	}
	return t
}

// accept consumes the current token if it is of kind k.
func (p *parser) accept(k token.Kind) bool {
	if p.eof() || p.peek().Kind != k {
		return false
	}
	p.pos++
	return true
}

// expect consumes the current token if it is of kind k,
// and otherwise reports a syntax error in the named rule.
func (p *parser) expect(rule string, k token.Kind) bool {
	if p.accept(k) {
		return true
	}
	p.syntaxError(rule, want(k))
	return false
}

func want(k token.Kind) string {
	switch k {
	case token.Ident, token.Int, token.Float, token.Char, token.String:
		return k.String()
	default:
		return strconv.Quote(k.String())
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.Invalid:
		return "end of file"
	case token.Ident, token.Int, token.Float:
		return t.Kind.String() + " " + t.Text
	case token.Char, token.String:
		return t.Kind.String() + " " + t.String()
	default:
		return strconv.Quote(t.Kind.String())
	}
}

func (p *parser) errorf(line int, f string, vs ...interface{}) {
	p.log("error: "+f, vs...)
	p.sink.Report(diag.Error, line, fmt.Sprintf(f, vs...))
}

func (p *parser) warnf(line int, f string, vs ...interface{}) {
	p.sink.Report(diag.Warning, line, fmt.Sprintf(f, vs...))
}

// note adds a note to the last reported diagnostic
// if the sink supports notes.
func (p *parser) note(f string, vs ...interface{}) {
	if n, ok := p.sink.(diag.Noter); ok {
		n.Note(f, vs...)
	}
}

// internal reports a broken parser invariant.
func (p *parser) internal(line int, f string, vs ...interface{}) {
	msg := fmt.Sprintf(f, vs...)
	if p.cfg.Debug {
		panic("impossible: " + msg)
	}
	p.sink.Report(diag.Internal, line, msg)
}

// syntaxError reports that the current token is not what the rule wants.
// Only the first error at a given token is reported.
func (p *parser) syntaxError(rule, want string) {
	tok := p.peek()
	p.fail.Kids = append(p.fail.Kids, &peg.Fail{
		Name: rule,
		Pos:  tok.Offs,
		Kids: []*peg.Fail{{Pos: tok.Offs, Want: want}},
	})
	if p.lastSyntax == p.pos {
		return
	}
	p.lastSyntax = p.pos
	p.errorf(tok.Line, "expected %s, got %s", want, describe(tok))
}

// syncStmt skips to the end of the current statement:
// past the next ; or up to the } closing the enclosing block.
func (p *parser) syncStmt() {
	var depth int
	for !p.eof() {
		switch p.peek().Kind {
		case token.Semicolon:
			p.next()
			if depth == 0 {
				return
			}
		case token.OpenBrace:
			depth++
			p.next()
		case token.CloseBrace:
			if depth == 0 {
				return
			}
			depth--
			p.next()
		default:
			p.next()
		}
	}
}

// syncDef skips to the end of the current definition:
// past the next ; or balanced } at the current nesting,
// or up to the } closing an enclosing namespace.
func (p *parser) syncDef() {
	var depth int
	for !p.eof() {
		switch p.peek().Kind {
		case token.Semicolon:
			p.next()
			if depth == 0 {
				return
			}
		case token.OpenBrace:
			depth++
			p.next()
		case token.CloseBrace:
			if depth == 0 {
				return
			}
			depth--
			p.next()
			if depth == 0 {
				return
			}
		default:
			p.next()
		}
	}
}

// tr logs entry to a parse function.
// The returned function must be deferred;
// if its argument is a pointer to a node, the node is logged on exit.
func (p *parser) tr(f string, vs ...interface{}) func(...interface{}) {
	if !p.cfg.Trace {
		return func(...interface{}) {}
	}
	p.log(f+" [%s]", append(vs, describe(p.peek()))...)
	olddent := p.indent
	p.indent += "---"
	return func(res ...interface{}) {
		defer func() { p.indent = olddent }()
		if len(res) == 0 {
			return
		}
		switch r := res[0].(type) {
		case *ast.Expr:
			if *r != nil {
				p.log("⇒ %s", ast.TypedString(*r))
			}
		case *ast.Stmt:
			if *r != nil {
				p.log("⇒ %s", ast.String(*r))
			}
		}
	}
}

func (p *parser) log(f string, vs ...interface{}) {
	if !p.cfg.Trace {
		return
	}
	fmt.Print(p.indent)
	fmt.Printf(f, vs...)
	fmt.Println("")
}

// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package lex converts Dynamite source text into tokens.
package lex

import (
	"fmt"
	"strings"

	"github.com/dynamite-lang/dynamite/diag"
	"github.com/dynamite-lang/dynamite/token"
	"github.com/eaburns/peggy/peg"
)

// Tokenize returns the tokens of the source text.
//
// Tokenize never stops early.
// Each unrecognized character is reported to the sink and skipped,
// so the whole text is always scanned.
func Tokenize(text string, sink diag.Sink) []token.Token {
	if sink == nil {
		sink = diag.Discard
	}
	x := &lexer{text: text, line: 1, sink: sink}
	for x.offs < len(x.text) {
		x.next()
	}
	return x.toks
}

type lexer struct {
	text string
	offs int
	line int
	sink diag.Sink
	toks []token.Token
}

func (x *lexer) errorf(line int, f string, vs ...interface{}) {
	x.sink.Report(diag.Error, line, fmt.Sprintf(f, vs...))
}

func (x *lexer) emit(kind token.Kind, text string, offs, line int) {
	x.toks = append(x.toks, token.Token{Kind: kind, Text: text, Line: line, Offs: offs})
}

func (x *lexer) peek(n int) byte {
	if x.offs+n >= len(x.text) {
		return 0
	}
	return x.text[x.offs+n]
}

func (x *lexer) next() {
	switch c := x.text[x.offs]; {
	case isAlpha(c) || c == '_':
		x.word()
	case isDigit(c):
		x.number()
	case c == '-' && isDigit(x.peek(1)) && !x.afterOperand():
		x.number()
	case c == '\'':
		x.char()
	case c == '"':
		x.string()
	case c == '/' && x.peek(1) == '/':
		x.lineComment()
	case c == '/' && x.peek(1) == '*':
		x.blockComment()
	case c == '\n' || c == '\r':
		x.newline()
	case c == ' ' || c == '\t' || c == '\f' || c == '\v':
		x.offs++
	default:
		if x.operator() {
			return
		}
		r, w := peg.DecodeRuneInString(x.text[x.offs:])
		x.errorf(x.line, "invalid character %q", r)
		x.offs += w
	}
}

func (x *lexer) newline() {
	if x.text[x.offs] == '\r' && x.peek(1) == '\n' {
		x.offs++
	}
	x.offs++
	x.line++
}

// afterOperand returns whether the previous token can end an operand.
// A '-' following such a token is a binary operator,
// never the sign of a literal.
func (x *lexer) afterOperand() bool {
	if len(x.toks) == 0 {
		return false
	}
	switch x.toks[len(x.toks)-1].Kind {
	case token.Ident, token.Int, token.Float, token.Char, token.String,
		token.True, token.False, token.CloseParen, token.CloseBracket:
		return true
	}
	return false
}

func (x *lexer) word() {
	start := x.offs
	for x.offs < len(x.text) && (isAlpha(x.text[x.offs]) || isDigit(x.text[x.offs]) || x.text[x.offs] == '_') {
		x.offs++
	}
	w := x.text[start:x.offs]
	switch k := token.Lookup(w); k {
	case token.Ident:
		x.emit(k, w, start, x.line)
	default:
		x.emit(k, "", start, x.line)
	}
}

func (x *lexer) number() {
	start := x.offs
	if x.text[x.offs] == '-' {
		x.offs++
	}
	kind := token.Int
	for x.offs < len(x.text) && (isDigit(x.text[x.offs]) || x.text[x.offs] == '.') {
		if x.text[x.offs] == '.' {
			if x.peek(1) == '.' {
				// "1..." is an integer followed by an ellipsis.
				break
			}
			kind = token.Float
		}
		x.offs++
	}
	x.emit(kind, x.text[start:x.offs], start, x.line)
}

func (x *lexer) char() {
	start, line := x.offs, x.line
	x.offs++
	var buf []byte
	var n int
	for {
		if x.offs >= len(x.text) || x.text[x.offs] == '\n' || x.text[x.offs] == '\r' {
			x.errorf(line, "unterminated character literal")
			break
		}
		if x.text[x.offs] == '\'' {
			x.offs++
			break
		}
		buf = x.appendChar(buf)
		n++
	}
	switch {
	case n == 0:
		x.errorf(line, "empty character literal")
	case n > 1:
		x.errorf(line, "character literal %q has %d characters, want 1", string(buf), n)
	}
	x.emit(token.Char, string(buf), start, line)
}

func (x *lexer) string() {
	start, line := x.offs, x.line
	x.offs++
	var buf []byte
	for {
		if x.offs >= len(x.text) || x.text[x.offs] == '\n' || x.text[x.offs] == '\r' {
			x.errorf(line, "unterminated string literal")
			break
		}
		if x.text[x.offs] == '"' {
			x.offs++
			break
		}
		buf = x.appendChar(buf)
	}
	x.emit(token.String, string(buf), start, line)
}

// appendChar appends the next, possibly escaped, character to buf.
// An unknown escape keeps its backslash.
func (x *lexer) appendChar(buf []byte) []byte {
	if x.text[x.offs] == '\\' {
		if c, ok := escape(x.peek(1)); ok {
			x.offs += 2
			return append(buf, c)
		}
		x.offs++
		return append(buf, '\\')
	}
	_, w := peg.DecodeRuneInString(x.text[x.offs:])
	buf = append(buf, x.text[x.offs:x.offs+w]...)
	x.offs += w
	return buf
}

func escape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	}
	return 0, false
}

func (x *lexer) lineComment() {
	for x.offs < len(x.text) && x.text[x.offs] != '\n' && x.text[x.offs] != '\r' {
		x.offs++
	}
}

func (x *lexer) blockComment() {
	line := x.line
	x.offs += 2
	for x.offs < len(x.text) {
		switch {
		case strings.HasPrefix(x.text[x.offs:], "*/"):
			x.offs += 2
			return
		case x.text[x.offs] == '\n' || x.text[x.offs] == '\r':
			x.newline()
		default:
			x.offs++
		}
	}
	x.errorf(line, "unterminated block comment")
}

func (x *lexer) operator() bool {
	rest := x.text[x.offs:]
	for _, k := range token.Operators {
		if op := k.String(); strings.HasPrefix(rest, op) {
			x.emit(k, "", x.offs, x.line)
			x.offs += len(op)
			return true
		}
	}
	return false
}

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

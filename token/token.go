// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package token defines the lexical tokens of the Dynamite language.
package token

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind is the lexical category of a token.
type Kind int

const (
	Invalid Kind = iota

	// Literals and names; these carry Text.
	Ident
	Int
	Float
	Char
	String

	// Primitive type keywords.
	Void
	Bool
	CharType
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64

	// Keywords.
	If
	Else
	Return
	Mut
	Volatile
	Struct
	Class
	Enum
	Namespace
	True
	False

	// Operators and punctuation.
	Plus
	Minus
	Star
	Slash
	Pipe
	Ampersand
	Caret
	Hash
	Bang
	Assign
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	Semicolon
	Comma
	Dot
	Colon
	DoubleColon
	Arrow
	Ellipsis
	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	OpenBracket
	CloseBracket

	nKinds
)

var names = [...]string{
	Invalid:      "invalid",
	Ident:        "identifier",
	Int:          "integer literal",
	Float:        "float literal",
	Char:         "character literal",
	String:       "string literal",
	Void:         "void",
	Bool:         "bool",
	CharType:     "char",
	Int8:         "i8",
	Int16:        "i16",
	Int32:        "i32",
	Int64:        "i64",
	UInt8:        "u8",
	UInt16:       "u16",
	UInt32:       "u32",
	UInt64:       "u64",
	Float32:      "f32",
	Float64:      "f64",
	If:           "if",
	Else:         "else",
	Return:       "return",
	Mut:          "mut",
	Volatile:     "volatile",
	Struct:       "struct",
	Class:        "class",
	Enum:         "enum",
	Namespace:    "namespace",
	True:         "true",
	False:        "false",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Pipe:         "|",
	Ampersand:    "&",
	Caret:        "^",
	Hash:         "#",
	Bang:         "!",
	Assign:       "=",
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	Greater:      ">",
	LessEqual:    "<=",
	GreaterEqual: ">=",
	Semicolon:    ";",
	Comma:        ",",
	Dot:          ".",
	Colon:        ":",
	DoubleColon:  "::",
	Arrow:        "->",
	Ellipsis:     "...",
	OpenParen:    "(",
	CloseParen:   ")",
	OpenBrace:    "{",
	CloseBrace:   "}",
	OpenBracket:  "[",
	CloseBracket: "]",
}

// String returns the canonical source text of fixed tokens
// and a description of the others.
func (k Kind) String() string {
	if k < 0 || k >= nKinds {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return names[k]
}

// IsLiteral returns whether the kind is a literal value,
// including the boolean keywords.
func (k Kind) IsLiteral() bool {
	switch k {
	case Int, Float, Char, String, True, False:
		return true
	}
	return false
}

// IsPrimitive returns whether the kind is a primitive type keyword.
func (k Kind) IsPrimitive() bool { return k >= Void && k <= Float64 }

// IsKeyword returns whether the kind is a keyword,
// including the primitive type keywords.
func (k Kind) IsKeyword() bool { return k >= Void && k <= False }

// IsOperator returns whether the kind is an operator or punctuation.
func (k Kind) IsOperator() bool { return k >= Plus && k < nKinds }

// A Token is a single lexical token.
type Token struct {
	Kind Kind
	// Text is the name of an identifier or the value of a literal.
	// String and character literal text has escapes decoded.
	// Text is empty for keywords and operators.
	Text string
	// Line is the 1-based line on which the token starts.
	Line int
	// Offs is the byte offset at which the token starts.
	Offs int
}

// String returns source text that scans back to the same token.
func (t Token) String() string {
	switch t.Kind {
	case Ident, Int, Float:
		return t.Text
	case String:
		return strconv.Quote(t.Text)
	case Char:
		if len(t.Text) == 1 {
			return strconv.QuoteRuneToASCII(rune(t.Text[0]))
		}
		return "'" + t.Text + "'"
	default:
		return t.Kind.String()
	}
}

// GoString is used by %#v.
func (t Token) GoString() string {
	if t.Text == "" {
		return fmt.Sprintf("%d:%s", t.Line, t.Kind)
	}
	return fmt.Sprintf("%d:%s(%q)", t.Line, t.Kind, t.Text)
}

var primitives = map[string]Kind{
	"void": Void,
	"bool": Bool,
	"char": CharType,
	"i8":   Int8,
	"i16":  Int16,
	"i32":  Int32,
	"i64":  Int64,
	"u8":   UInt8,
	"u16":  UInt16,
	"u32":  UInt32,
	"u64":  UInt64,
	"f32":  Float32,
	"f64":  Float64,
}

var keywords = map[string]Kind{
	"if":        If,
	"else":      Else,
	"return":    Return,
	"mut":       Mut,
	"volatile":  Volatile,
	"struct":    Struct,
	"class":     Class,
	"enum":      Enum,
	"namespace": Namespace,
	"true":      True,
	"false":     False,
}

// Lookup returns the keyword kind of a word,
// checking primitive type names first, then other keywords.
// Words that are neither are identifiers.
func Lookup(word string) Kind {
	if k, ok := primitives[word]; ok {
		return k
	}
	if k, ok := keywords[word]; ok {
		return k
	}
	return Ident
}

// Operators lists the operator and punctuation kinds,
// longest spelling first.
var Operators []Kind

func init() {
	for k := Plus; k < nKinds; k++ {
		Operators = append(Operators, k)
	}
	sort.SliceStable(Operators, func(i, j int) bool {
		return len(names[Operators[i]]) > len(names[Operators[j]])
	})
}

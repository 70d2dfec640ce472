// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// A LiteralKind is the kind of a literal in source.
type LiteralKind int

// The following are the literal kinds.
const (
	BoolLiteral LiteralKind = iota
	IntLiteral
	FloatLiteral
	CharLiteral
	StringLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case BoolLiteral:
		return "bool"
	case IntLiteral:
		return "integer"
	case FloatLiteral:
		return "float"
	case CharLiteral:
		return "character"
	case StringLiteral:
		return "string"
	default:
		return fmt.Sprintf("LiteralKind(%d)", int(k))
	}
}

var (
	signedInts   = []Primitive{Int8, Int16, Int32, Int64}
	unsignedInts = []Primitive{UInt8, UInt16, UInt32, UInt64}
)

// FromLiteral returns the type of a literal.
//
// Integer literals with a leading - have the smallest signed type
// that can represent them; others have the smallest unsigned type.
// Float literals are Float32 if in range, otherwise Float64.
// A string literal is a Char array with room for a terminator.
func FromLiteral(kind LiteralKind, text string) (Type, error) {
	switch kind {
	case BoolLiteral:
		return Prim(Bool), nil
	case CharLiteral:
		return Prim(Char), nil
	case StringLiteral:
		return Prim(Char).WithBack(Array, len(text)+1), nil
	case IntLiteral:
		return intLiteral(text)
	case FloatLiteral:
		return floatLiteral(text)
	default:
		panic(fmt.Sprintf("impossible literal kind %d", int(kind)))
	}
}

func intLiteral(text string) (Type, error) {
	var i big.Int
	if _, ok := i.SetString(text, 10); !ok {
		return Type{}, fmt.Errorf("malformed integer literal %s", text)
	}
	ps := unsignedInts
	if len(text) > 0 && text[0] == '-' {
		ps = signedInts
	}
	for _, p := range ps {
		if intFits(p, &i) {
			return Prim(p), nil
		}
	}
	p := ps[len(ps)-1]
	if p.IsUnsigned() && i.Sign() < 0 {
		return Type{}, fmt.Errorf("type %s cannot represent %s: negative unsigned", p, &i)
	}
	return Type{}, fmt.Errorf("type %s cannot represent %s: overflow", p, &i)
}

// intFits returns whether the integer type p can represent i.
func intFits(p Primitive, i *big.Int) bool {
	signed := p.IsSigned()
	if !signed && i.Sign() < 0 {
		return false
	}
	bits := p.Size() * 8
	if signed {
		bits--
	}
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	return i.BitLen() <= bits || signed && i.Cmp(min) == 0
}

func floatLiteral(text string) (Type, error) {
	f, err := strconv.ParseFloat(text, 64)
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &numErr) && numErr.Err == strconv.ErrRange:
		return Type{}, fmt.Errorf("type %s cannot represent %s: overflow", Float64, text)
	case err != nil:
		return Type{}, fmt.Errorf("malformed float literal %s", text)
	case math.Abs(f) <= math.MaxFloat32:
		return Prim(Float32), nil
	default:
		return Prim(Float64), nil
	}
}

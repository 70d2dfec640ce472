// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"errors"
	"fmt"
)

// An Operator is an expression operator.
type Operator int

// The following are the operators.
// Add through Xor are binary; the rest are unary prefix operators.
const (
	Add Operator = iota
	Sub
	Mul
	Div
	Or
	And
	Xor
	Ref
	Address
	Dereference
)

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Or:
		return "|"
	case And:
		return "&"
	case Xor:
		return "^"
	case Ref:
		return "ref"
	case Address:
		return "addr"
	case Dereference:
		return "deref"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// IsBinary returns whether o is an infix binary operator.
func (o Operator) IsBinary() bool { return o >= Add && o <= Xor }

// ErrNotBinary is returned when a binary result type
// is requested for an operator that is not binary.
// It always indicates a bug in the caller.
var ErrNotBinary = errors.New("not a binary operator")

// Sizes are the target-dependent sizes of types.
type Sizes struct {
	// WordSize is the size of pointers and arrays in bytes.
	// It must be 4 or 8.
	WordSize int
}

// DefaultSizes are the sizes of a 64-bit target.
var DefaultSizes = Sizes{WordSize: 8}

// Sizeof returns the size of t in bytes.
// Named types have size 0.
func (s Sizes) Sizeof(t Type) int {
	if len(t.Back) > 0 {
		return s.WordSize
	}
	if t.Spec.Kind != PrimitiveSpec {
		return 0
	}
	return t.Spec.Prim.Size()
}

// Largest returns the larger of a and b by size.
// Ties return a.
func (s Sizes) Largest(a, b Type) Type {
	if s.Sizeof(b) > s.Sizeof(a) {
		return b
	}
	return a
}

// BinaryResult returns the type of applying a binary operator.
//
// Front qualifiers of the operands never reach the result.
// Equal types give that type;
// two pointers give the left pointer type;
// an integral operand with a float operand
// gives the float type as wide as the larger operand;
// otherwise the result is the larger operand type.
func (s Sizes) BinaryResult(lhs Type, op Operator, rhs Type) (Type, error) {
	if !op.IsBinary() {
		return Type{}, fmt.Errorf("%s: %w", op, ErrNotBinary)
	}
	l, r := lhs.Unqualified(), rhs.Unqualified()
	switch {
	case l.Equal(r):
		return l, nil
	case l.IsPointer() && r.IsPointer():
		return l, nil
	case isIntegral(l) && r.Primitive().IsFloat() ||
		l.Primitive().IsFloat() && isIntegral(r):
		if s.Sizeof(l) >= 8 || s.Sizeof(r) >= 8 {
			return Prim(Float64), nil
		}
		return Prim(Float32), nil
	}
	return s.Largest(l, r), nil
}

func isIntegral(t Type) bool {
	switch p := t.Primitive(); {
	case p.IsInteger():
		return true
	case p == Char || p == Bool:
		return true
	}
	return false
}

// ImplicitCastable returns whether a value of type from
// may be used where type to is expected without a cast.
// Front qualifiers are ignored.
func ImplicitCastable(from, to Type) bool {
	from, to = from.Unqualified(), to.Unqualified()
	switch {
	case from.Equal(to):
		return true
	case from.IsPointer() && to.IsPointer():
		return true
	case from.IsVoid() && !to.IsVoid():
		return false
	case from.IsPointer() != to.IsPointer() || from.IsArray() != to.IsArray():
		return false
	case len(from.Back) > 0 || len(to.Back) > 0:
		// Unequal arrays and references.
		return false
	}
	a, b := from.Primitive(), to.Primitive()
	switch {
	case a.IsInteger() && b == Bool:
		return true
	case a == Char && b.IsInteger():
		return true
	case a.IsSigned() && b.IsSigned(),
		a.IsUnsigned() && b.IsUnsigned(),
		a.IsUnsigned() && b.IsSigned():
		return a.Size() < b.Size()
	}
	return false
}

// ExplicitCastable returns whether a value of type from
// may be cast to type to.
// Every implicit conversion is also explicit.
func ExplicitCastable(from, to Type) bool {
	if ImplicitCastable(from, to) {
		return true
	}
	a, b := from.Primitive(), to.Primitive()
	switch {
	case a == NoPrimitive || b == NoPrimitive:
		return false
	case a.IsSigned() && b.IsUnsigned(), a.IsUnsigned() && b.IsSigned():
		return a.Size() == b.Size() || a.IsSigned() && a.Size() < b.Size()
	case a.IsInteger() && b.IsFloat():
		return true
	case a.IsFloat() && b.IsInteger():
		return true
	case a.IsFloat() && b.IsFloat():
		return true
	}
	return false
}

// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package types is the Dynamite type model
// and the rules for converting between types.
package types

import (
	"strconv"
	"strings"
)

// A Primitive is a built-in type.
type Primitive int

// The following are the primitive types.
const (
	NoPrimitive Primitive = iota
	Void
	Bool
	Char
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
)

var primNames = [...]string{
	NoPrimitive: "<none>",
	Void:        "void",
	Bool:        "bool",
	Char:        "char",
	Int8:        "i8",
	Int16:       "i16",
	Int32:       "i32",
	Int64:       "i64",
	UInt8:       "u8",
	UInt16:      "u16",
	UInt32:      "u32",
	UInt64:      "u64",
	Float32:     "f32",
	Float64:     "f64",
}

func (p Primitive) String() string {
	if p < 0 || int(p) >= len(primNames) {
		return "Primitive(" + strconv.Itoa(int(p)) + ")"
	}
	return primNames[p]
}

// IsSigned returns whether p is a signed integer type.
func (p Primitive) IsSigned() bool { return p >= Int8 && p <= Int64 }

// IsUnsigned returns whether p is an unsigned integer type.
func (p Primitive) IsUnsigned() bool { return p >= UInt8 && p <= UInt64 }

// IsInteger returns whether p is a signed or unsigned integer type.
// Char and Bool are not integer types.
func (p Primitive) IsInteger() bool { return p.IsSigned() || p.IsUnsigned() }

// IsFloat returns whether p is a floating point type.
func (p Primitive) IsFloat() bool { return p == Float32 || p == Float64 }

// Size returns the size of p in bytes.
func (p Primitive) Size() int {
	switch p {
	case Bool, Char, Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64:
		return 8
	default:
		return 0
	}
}

// A SpecKind is the kind of a type Specifier.
type SpecKind int

// The following are the specifier kinds.
const (
	// NoSpec is the kind of the zero Type, an unresolved type.
	NoSpec SpecKind = iota
	PrimitiveSpec
	NamedSpec
)

// A Specifier is the base of a type, before qualification.
type Specifier struct {
	Kind SpecKind
	// Prim is the primitive type if Kind is PrimitiveSpec.
	Prim Primitive
	// Name is the type name if Kind is NamedSpec.
	Name string
}

func (s Specifier) String() string {
	switch s.Kind {
	case PrimitiveSpec:
		return s.Prim.String()
	case NamedSpec:
		return s.Name
	default:
		return "<none>"
	}
}

// A Qualifier modifies a type.
// Mut and Volatile are front qualifiers;
// Pointer, Array, and Reference are back qualifiers.
type Qualifier int

// The following are the qualifiers.
const (
	Mut Qualifier = iota
	Volatile
	Pointer
	Array
	Reference
)

func (q Qualifier) String() string {
	switch q {
	case Mut:
		return "mut"
	case Volatile:
		return "volatile"
	case Pointer:
		return "*"
	case Array:
		return "[]"
	case Reference:
		return "&"
	default:
		return "Qualifier(" + strconv.Itoa(int(q)) + ")"
	}
}

// Qualifiers is a set of front qualifiers.
type Qualifiers uint8

// Has returns whether the set contains q.
func (qs Qualifiers) Has(q Qualifier) bool { return qs&(1<<uint(q)) != 0 }

// With returns the set with q added.
func (qs Qualifiers) With(q Qualifier) Qualifiers { return qs | 1<<uint(q) }

// A QualifierGroup is a back qualifier and its associated value.
type QualifierGroup struct {
	Qual Qualifier
	// Len is the length of an Array; -1 if the length is unspecified.
	Len int
}

// A Type is a specifier with front and back qualifiers.
//
// Types are values; methods that change a Type return a copy.
type Type struct {
	Front Qualifiers
	Spec  Specifier
	// Back are the back qualifiers in source order.
	// The last is the outermost.
	Back []QualifierGroup
}

// Prim returns the unqualified primitive type p.
func Prim(p Primitive) Type {
	return Type{Spec: Specifier{Kind: PrimitiveSpec, Prim: p}}
}

// Named returns the unqualified named type.
func Named(name string) Type {
	return Type{Spec: Specifier{Kind: NamedSpec, Name: name}}
}

// IsNone returns whether the type is unresolved.
func (t Type) IsNone() bool { return t.Spec.Kind == NoSpec }

// Is returns whether t is the primitive p without back qualifiers.
func (t Type) Is(p Primitive) bool {
	return len(t.Back) == 0 && t.Spec.Kind == PrimitiveSpec && t.Spec.Prim == p
}

// Primitive returns the primitive of t;
// NoPrimitive if t has back qualifiers or is not primitive.
func (t Type) Primitive() Primitive {
	if len(t.Back) > 0 || t.Spec.Kind != PrimitiveSpec {
		return NoPrimitive
	}
	return t.Spec.Prim
}

// IsVoid returns whether t is void.
func (t Type) IsVoid() bool { return t.Is(Void) }

func (t Type) outer(q Qualifier) bool {
	return len(t.Back) > 0 && t.Back[len(t.Back)-1].Qual == q
}

// IsPointer returns whether the outermost back qualifier is Pointer.
func (t Type) IsPointer() bool { return t.outer(Pointer) }

// IsArray returns whether the outermost back qualifier is Array.
func (t Type) IsArray() bool { return t.outer(Array) }

// IsReference returns whether the outermost back qualifier is Reference.
func (t Type) IsReference() bool { return t.outer(Reference) }

// IsMut returns whether t has the Mut front qualifier.
func (t Type) IsMut() bool { return t.Front.Has(Mut) }

// With returns t with the front qualifier q added.
func (t Type) With(q Qualifier) Type {
	t.Front = t.Front.With(q)
	return t
}

// WithBack returns t with a new outermost back qualifier.
func (t Type) WithBack(q Qualifier, n int) Type {
	back := make([]QualifierGroup, len(t.Back), len(t.Back)+1)
	copy(back, t.Back)
	t.Back = append(back, QualifierGroup{Qual: q, Len: n})
	return t
}

// Elem returns t without its outermost back qualifier
// and without front qualifiers.
func (t Type) Elem() Type {
	if len(t.Back) == 0 {
		return t
	}
	u := Type{Spec: t.Spec}
	if len(t.Back) > 1 {
		u.Back = make([]QualifierGroup, len(t.Back)-1)
		copy(u.Back, t.Back)
	}
	return u
}

// Unqualified returns t without front qualifiers.
func (t Type) Unqualified() Type {
	t.Front = 0
	return t
}

// Equal returns whether the types are structurally equal.
func (t Type) Equal(u Type) bool {
	if t.Front != u.Front || t.Spec != u.Spec || len(t.Back) != len(u.Back) {
		return false
	}
	for i := range t.Back {
		if t.Back[i] != u.Back[i] {
			return false
		}
	}
	return true
}

// String returns the type in source syntax.
func (t Type) String() string {
	var s strings.Builder
	if t.Front.Has(Mut) {
		s.WriteString("mut ")
	}
	if t.Front.Has(Volatile) {
		s.WriteString("volatile ")
	}
	s.WriteString(t.Spec.String())
	for _, g := range t.Back {
		switch {
		case g.Qual == Array && g.Len >= 0:
			s.WriteRune('[')
			s.WriteString(strconv.Itoa(g.Len))
			s.WriteRune(']')
		default:
			s.WriteString(g.Qual.String())
		}
	}
	return s.String()
}

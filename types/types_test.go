// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	i8   = Prim(Int8)
	i16  = Prim(Int16)
	i32  = Prim(Int32)
	i64  = Prim(Int64)
	u8   = Prim(UInt8)
	u16  = Prim(UInt16)
	u32  = Prim(UInt32)
	u64  = Prim(UInt64)
	f32  = Prim(Float32)
	f64  = Prim(Float64)
	chr  = Prim(Char)
	bln  = Prim(Bool)
	void = Prim(Void)
)

func TestTypeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typ  Type
		want string
	}{
		{Type{}, "<none>"},
		{i32, "i32"},
		{i32.With(Mut), "mut i32"},
		{i32.With(Volatile).With(Mut), "mut volatile i32"},
		{i32.WithBack(Pointer, 0), "i32*"},
		{chr.WithBack(Array, 6), "char[6]"},
		{chr.WithBack(Array, -1).WithBack(Pointer, 0), "char[]*"},
		{Named("Point").WithBack(Reference, 0), "Point&"},
	}
	for _, test := range tests {
		if got := test.typ.String(); got != test.want {
			t.Errorf("%#v.String()=%q, want %q", test.typ, got, test.want)
		}
	}
}

func TestTypeShape(t *testing.T) {
	t.Parallel()
	ptrArr := i32.WithBack(Array, 4).WithBack(Pointer, 0)
	if !ptrArr.IsPointer() || ptrArr.IsArray() {
		t.Errorf("%s: outermost qualifier should be a pointer", ptrArr)
	}
	if elem := ptrArr.Elem(); !elem.IsArray() || elem.IsPointer() {
		t.Errorf("%s.Elem()=%s, want an array", ptrArr, elem)
	}
	if elem := ptrArr.Elem().Elem(); !elem.Equal(i32) {
		t.Errorf("%s.Elem().Elem()=%s, want i32", ptrArr, elem)
	}
	if i32.Equal(i32.With(Mut)) {
		t.Errorf("i32 equals mut i32")
	}
	if !i32.Equal(i32.With(Mut).Unqualified()) {
		t.Errorf("unqualified mut i32 does not equal i32")
	}
	if i32.WithBack(Array, 3).Equal(i32.WithBack(Array, 4)) {
		t.Errorf("i32[3] equals i32[4]")
	}
	// WithBack must not share backing storage between copies.
	base := i32.WithBack(Pointer, 0)
	a := base.WithBack(Pointer, 0)
	b := base.WithBack(Array, 2)
	if a.Equal(b) {
		t.Errorf("%s equals %s", a, b)
	}
}

func TestImplicitCastable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from, to Type
		want     bool
	}{
		{i32, i32, true},
		{i32.With(Mut), i32, true},
		{i32, i32.With(Mut), true},
		{i8, i16, true},
		{i8, i64, true},
		{i16, i8, false},
		{u8, u16, true},
		{u8, i16, true},
		{u8, i8, false},
		{i8, u8, false},
		{i8, u16, false},
		{u32, i32, false},
		{i32, bln, true},
		{u64, bln, true},
		{chr, i32, true},
		{chr, u8, true},
		{i32, chr, false},
		{bln, i32, false},
		{void, i32, false},
		{i32, void, false},
		{i32, f32, false},
		{f32, f64, false},
		{f64, i64, false},
		{i32.WithBack(Pointer, 0), chr.WithBack(Pointer, 0), true},
		{i32.WithBack(Pointer, 0), i64, false},
		{i64, i32.WithBack(Pointer, 0), false},
		{i32.WithBack(Array, 2), i32.WithBack(Pointer, 0), false},
		{i32.WithBack(Array, 2), i32.WithBack(Array, 2), true},
		{i32.WithBack(Array, 2), i32.WithBack(Array, 3), false},
		{i32.WithBack(Reference, 0), i32, false},
	}
	for _, test := range tests {
		if got := ImplicitCastable(test.from, test.to); got != test.want {
			t.Errorf("ImplicitCastable(%s, %s)=%v, want %v", test.from, test.to, got, test.want)
		}
	}
}

func TestExplicitCastable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from, to Type
		want     bool
	}{
		{i8, u8, true},
		{u8, i8, true},
		{u64, i64, true},
		{i8, u16, true},
		{u8, i16, true},
		{u16, i8, false},
		{i16, u8, false},
		{i32, f32, true},
		{i64, f32, true},
		{f64, i8, true},
		{f32, f64, true},
		{f64, f32, true},
		{chr, f32, false},
		{bln, i32, false},
		{void, i32, false},
		{i32.WithBack(Pointer, 0), i64, false},
		{i32, i32, true},
	}
	for _, test := range tests {
		if got := ExplicitCastable(test.from, test.to); got != test.want {
			t.Errorf("ExplicitCastable(%s, %s)=%v, want %v", test.from, test.to, got, test.want)
		}
	}
}

// Same-size signed to unsigned needs an explicit cast.
func TestSignedUnsignedAsymmetry(t *testing.T) {
	if ImplicitCastable(i8, u8) {
		t.Errorf("ImplicitCastable(i8, u8)=true, want false")
	}
	if !ExplicitCastable(i8, u8) {
		t.Errorf("ExplicitCastable(i8, u8)=false, want true")
	}
}

func TestLargest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		sizes Sizes
		a, b  Type
		want  Type
	}{
		{DefaultSizes, i8, i16, i16},
		{DefaultSizes, i16, i8, i16},
		{DefaultSizes, i32, u32, i32},
		{DefaultSizes, u32, i32, u32},
		{DefaultSizes, f32, i32, f32},
		{DefaultSizes, bln, chr, bln},
		{DefaultSizes, i32, i32.WithBack(Pointer, 0), i32.WithBack(Pointer, 0)},
		{DefaultSizes, i64, i32.WithBack(Pointer, 0), i64},
		{Sizes{WordSize: 4}, i32, i32.WithBack(Pointer, 0), i32},
		{Sizes{WordSize: 4}, i64, chr.WithBack(Array, 16), i64},
	}
	for _, test := range tests {
		got := test.sizes.Largest(test.a, test.b)
		if !got.Equal(test.want) {
			t.Errorf("%+v.Largest(%s, %s)=%s, want %s", test.sizes, test.a, test.b, got, test.want)
		}
	}
}

func TestBinaryResult(t *testing.T) {
	t.Parallel()
	ptr := i32.WithBack(Pointer, 0)
	tests := []struct {
		lhs  Type
		op   Operator
		rhs  Type
		want Type
	}{
		{i32, Add, i32, i32},
		{i32.With(Mut), Add, i32, i32},
		{i32.With(Mut), Mul, i32.With(Mut), i32},
		{ptr, Sub, chr.WithBack(Pointer, 0), ptr},
		{i32, Add, f32, f32},
		{f32, Div, i64, f64},
		{u8, Mul, f64, f64},
		{chr, Add, f32, f32},
		{i8, Or, i32, i32},
		{u16, Xor, i16, u16},
		{i16, And, u16, i16},
	}
	for _, test := range tests {
		got, err := DefaultSizes.BinaryResult(test.lhs, test.op, test.rhs)
		if err != nil {
			t.Errorf("BinaryResult(%s, %s, %s) failed: %v", test.lhs, test.op, test.rhs, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("BinaryResult(%s, %s, %s)=%s, want %s", test.lhs, test.op, test.rhs, got, test.want)
		}
	}
}

func TestBinaryResultNotBinary(t *testing.T) {
	for _, op := range []Operator{Ref, Address, Dereference} {
		if _, err := DefaultSizes.BinaryResult(i32, op, i32); !errors.Is(err, ErrNotBinary) {
			t.Errorf("BinaryResult(i32, %s, i32) error=%v, want ErrNotBinary", op, err)
		}
	}
}

func TestOperatorString(t *testing.T) {
	tests := []struct {
		op     Operator
		want   string
		binary bool
	}{
		{Add, "+", true},
		{Xor, "^", true},
		{Ref, "ref", false},
		{Address, "addr", false},
		{Dereference, "deref", false},
	}
	for _, test := range tests {
		if got := test.op.String(); got != test.want {
			t.Errorf("Operator(%d).String()=%q, want %q", int(test.op), got, test.want)
		}
		if got := test.op.IsBinary(); got != test.binary {
			t.Errorf("%s.IsBinary()=%v, want %v", test.op, got, test.binary)
		}
	}
	// The reference operator yields the reference qualifier.
	if got := i32.WithBack(Reference, 0).String(); got != "i32&" {
		t.Errorf("i32.WithBack(Reference, 0)=%s, want i32&", got)
	}
}

func TestFromLiteral(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind LiteralKind
		text string
		want Type
		err  string
	}{
		{kind: BoolLiteral, text: "true", want: bln},
		{kind: CharLiteral, text: "a", want: chr},
		{kind: StringLiteral, text: "hello", want: chr.WithBack(Array, 6)},
		{kind: StringLiteral, text: "", want: chr.WithBack(Array, 1)},
		{kind: IntLiteral, text: "0", want: u8},
		{kind: IntLiteral, text: "127", want: u8},
		{kind: IntLiteral, text: "255", want: u8},
		{kind: IntLiteral, text: "256", want: u16},
		{kind: IntLiteral, text: "65536", want: u32},
		{kind: IntLiteral, text: "4294967296", want: u64},
		{kind: IntLiteral, text: "18446744073709551615", want: u64},
		{kind: IntLiteral, text: "-0", want: i8},
		{kind: IntLiteral, text: "-127", want: i8},
		{kind: IntLiteral, text: "-128", want: i8},
		{kind: IntLiteral, text: "-129", want: i16},
		{kind: IntLiteral, text: "-32768", want: i16},
		{kind: IntLiteral, text: "-32769", want: i32},
		{kind: IntLiteral, text: "-2147483649", want: i64},
		{kind: IntLiteral, text: "-9223372036854775808", want: i64},
		{kind: IntLiteral, text: "18446744073709551616", err: "type u64 cannot represent 18446744073709551616: overflow"},
		{kind: IntLiteral, text: "-9223372036854775809", err: "type i64 cannot represent -9223372036854775809: overflow"},
		{kind: IntLiteral, text: "12a", err: "malformed"},
		{kind: FloatLiteral, text: "3.25", want: f32},
		{kind: FloatLiteral, text: "-0.5", want: f32},
		{kind: FloatLiteral, text: "1.", want: f32},
		{kind: FloatLiteral, text: "340282346638528859811704183484516925440.0", want: f32},
		{kind: FloatLiteral, text: "340282346638528859811704183484516925440000.0", want: f64},
		{kind: FloatLiteral, text: "1" + strings.Repeat("0", 400) + ".0", err: "type f64 cannot represent"},
		{kind: FloatLiteral, text: "1.2.3", err: "malformed"},
	}
	for _, test := range tests {
		got, err := FromLiteral(test.kind, test.text)
		switch {
		case test.err != "" && err == nil:
			t.Errorf("FromLiteral(%s, %q)=%s, want error containing %q", test.kind, test.text, got, test.err)
		case test.err != "" && !strings.Contains(err.Error(), test.err):
			t.Errorf("FromLiteral(%s, %q) error=%q, want containing %q", test.kind, test.text, err, test.err)
		case test.err == "" && err != nil:
			t.Errorf("FromLiteral(%s, %q) failed: %v", test.kind, test.text, err)
		case test.err == "":
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("FromLiteral(%s, %q) mismatch (-want +got):\n%s", test.kind, test.text, diff)
			}
		}
	}
}

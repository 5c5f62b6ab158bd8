package types

import (
	"math"
	"testing"
)

func TestWordRoundTrips(t *testing.T) {
	if WordInt32(Int32Word(-123)) != -123 {
		t.Error("int32 word round trip lost the sign")
	}
	if WordInt64(Int64Word(-1<<50)) != -1<<50 {
		t.Error("int64 word round trip failed")
	}
	if WordFloat32(Float32Word(1.25)) != 1.25 {
		t.Error("float32 word round trip failed")
	}
	if WordFloat64(Float64Word(-0.125)) != -0.125 {
		t.Error("float64 word round trip failed")
	}
	if !WordBool(BoolWord(true)) || WordBool(BoolWord(false)) {
		t.Error("bool word round trip failed")
	}
	// Bit copies must carry NaN payloads unchanged.
	nan := math.Float64frombits(0x7ff8000000000001)
	if Float64Word(WordFloat64(Float64Word(nan))) != Float64Word(nan) {
		t.Error("NaN bit pattern not preserved")
	}
}

func TestElementTypeProperties(t *testing.T) {
	cases := []struct {
		typ        ElementType
		size       int
		fixedWidth bool
		numeric    bool
	}{
		{Empty, 0, false, false},
		{Bool, 1, true, false},
		{Int32, 4, true, true},
		{Int64, 8, true, true},
		{Float32, 4, true, true},
		{Float64, 8, true, true},
	}
	for _, tc := range cases {
		if got := tc.typ.Size(); got != tc.size {
			t.Errorf("%s: size = %d, want %d", tc.typ, got, tc.size)
		}
		if got := tc.typ.IsFixedWidth(); got != tc.fixedWidth {
			t.Errorf("%s: fixed width = %v, want %v", tc.typ, got, tc.fixedWidth)
		}
		if got := tc.typ.IsNumeric(); got != tc.numeric {
			t.Errorf("%s: numeric = %v, want %v", tc.typ, got, tc.numeric)
		}
		if tc.typ.IsFixedWidth() && tc.typ.Size() > WordSize {
			t.Errorf("%s does not fit in a scratch word", tc.typ)
		}
	}
}

func TestScalar(t *testing.T) {
	s := NewInt32Scalar(-7)
	if s.Type() != Int32 {
		t.Errorf("scalar type = %s, want INT32", s.Type())
	}
	if WordInt32(s.Word()) != -7 {
		t.Errorf("scalar word = %d, want -7", WordInt32(s.Word()))
	}
	if s.String() != "-7" {
		t.Errorf("scalar string = %q", s.String())
	}
	if NewBoolScalar(true).String() != "true" {
		t.Errorf("bool scalar string = %q", NewBoolScalar(true).String())
	}
}

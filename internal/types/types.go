package types

import (
	"fmt"
	"math"
)

// WordSize is the size in bytes of one scratch word. Every intermediate
// value produced during program execution is stored as one word.
const WordSize = 8

// Word is the bit pattern of one value in transit through the engine.
// Columns, literals and scratch slots all exchange values as words so that
// lanes never perform type-punned loads; conversion is always an explicit
// bit copy.
type Word = uint64

// ElementType identifies one of the closed set of column element types.
type ElementType uint8

const (
	// Empty is the sentinel type of a degenerate program with no data
	// references. It must never reach evaluation.
	Empty ElementType = iota
	Bool
	Int32
	Int64
	Float32
	Float64
)

var elementTypeNames = [...]string{
	Empty:   "EMPTY",
	Bool:    "BOOLEAN",
	Int32:   "INT32",
	Int64:   "INT64",
	Float32: "FLOAT32",
	Float64: "FLOAT64",
}

func (t ElementType) String() string {
	if int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	return fmt.Sprintf("ElementType(%d)", uint8(t))
}

// Size returns the storage size of one element in bytes, 0 for Empty.
func (t ElementType) Size() int {
	switch t {
	case Bool:
		return 1
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// IsFixedWidth reports whether the type has a fixed storage size. Every
// concrete type in the closed set is fixed width; only the Empty sentinel
// is not.
func (t ElementType) IsFixedWidth() bool {
	return t != Empty && int(t) < len(elementTypeNames)
}

// IsNumeric reports whether arithmetic operators apply to the type.
func (t ElementType) IsNumeric() bool {
	switch t {
	case Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsIntegral reports whether the type is a whole-number type.
func (t ElementType) IsIntegral() bool {
	return t == Int32 || t == Int64
}

// Word conversions. Each pair is an exact bit-pattern round trip: the word
// holds the value's bits zero-extended to 64, and reading it back with the
// matching type recovers the original value.

func BoolWord(v bool) Word {
	if v {
		return 1
	}
	return 0
}

func Int32Word(v int32) Word     { return Word(uint32(v)) }
func Int64Word(v int64) Word     { return Word(v) }
func Float32Word(v float32) Word { return Word(math.Float32bits(v)) }
func Float64Word(v float64) Word { return math.Float64bits(v) }

func WordBool(w Word) bool       { return w != 0 }
func WordInt32(w Word) int32     { return int32(uint32(w)) }
func WordInt64(w Word) int64     { return int64(w) }
func WordFloat32(w Word) float32 { return math.Float32frombits(uint32(w)) }
func WordFloat64(w Word) float64 { return math.Float64frombits(w) }

// Scalar is a single typed value, used for expression literals.
type Scalar struct {
	typ  ElementType
	word Word
}

func NewBoolScalar(v bool) Scalar       { return Scalar{typ: Bool, word: BoolWord(v)} }
func NewInt32Scalar(v int32) Scalar     { return Scalar{typ: Int32, word: Int32Word(v)} }
func NewInt64Scalar(v int64) Scalar     { return Scalar{typ: Int64, word: Int64Word(v)} }
func NewFloat32Scalar(v float32) Scalar { return Scalar{typ: Float32, word: Float32Word(v)} }
func NewFloat64Scalar(v float64) Scalar { return Scalar{typ: Float64, word: Float64Word(v)} }

// Type returns the scalar's element type.
func (s Scalar) Type() ElementType { return s.typ }

// Word returns the scalar's value as a bit-pattern word.
func (s Scalar) Word() Word { return s.word }

func (s Scalar) String() string {
	switch s.typ {
	case Bool:
		return fmt.Sprintf("%v", WordBool(s.word))
	case Int32:
		return fmt.Sprintf("%d", WordInt32(s.word))
	case Int64:
		return fmt.Sprintf("%d", WordInt64(s.word))
	case Float32:
		return fmt.Sprintf("%g", WordFloat32(s.word))
	case Float64:
		return fmt.Sprintf("%g", WordFloat64(s.word))
	default:
		return "EMPTY"
	}
}

package table

import (
	"fmt"

	"github.com/colexpr/colexpr/internal/types"
)

// Column is a typed, row-indexed array of elements. Only the data array
// matching the element type is allocated.
type Column struct {
	typ types.ElementType

	boolData    []bool
	int32Data   []int32
	int64Data   []int64
	float32Data []float32
	float64Data []float64
}

// NewBoolColumn creates a column backed by the given values.
func NewBoolColumn(values []bool) *Column {
	return &Column{typ: types.Bool, boolData: values}
}

// NewInt32Column creates a column backed by the given values.
func NewInt32Column(values []int32) *Column {
	return &Column{typ: types.Int32, int32Data: values}
}

// NewInt64Column creates a column backed by the given values.
func NewInt64Column(values []int64) *Column {
	return &Column{typ: types.Int64, int64Data: values}
}

// NewFloat32Column creates a column backed by the given values.
func NewFloat32Column(values []float32) *Column {
	return &Column{typ: types.Float32, float32Data: values}
}

// NewFloat64Column creates a column backed by the given values.
func NewFloat64Column(values []float64) *Column {
	return &Column{typ: types.Float64, float64Data: values}
}

// NewColumn allocates a zeroed column of the given type and length, used
// for evaluation output.
func NewColumn(typ types.ElementType, length int) (*Column, error) {
	switch typ {
	case types.Bool:
		return NewBoolColumn(make([]bool, length)), nil
	case types.Int32:
		return NewInt32Column(make([]int32, length)), nil
	case types.Int64:
		return NewInt64Column(make([]int64, length)), nil
	case types.Float32:
		return NewFloat32Column(make([]float32, length)), nil
	case types.Float64:
		return NewFloat64Column(make([]float64, length)), nil
	default:
		return nil, fmt.Errorf("cannot allocate column of type %s", typ)
	}
}

// Type returns the column's element type.
func (c *Column) Type() types.ElementType { return c.typ }

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.typ {
	case types.Bool:
		return len(c.boolData)
	case types.Int32:
		return len(c.int32Data)
	case types.Int64:
		return len(c.int64Data)
	case types.Float32:
		return len(c.float32Data)
	case types.Float64:
		return len(c.float64Data)
	default:
		return 0
	}
}

// Word reads the element at row as a bit-pattern word.
func (c *Column) Word(row int) types.Word {
	switch c.typ {
	case types.Bool:
		return types.BoolWord(c.boolData[row])
	case types.Int32:
		return types.Int32Word(c.int32Data[row])
	case types.Int64:
		return types.Int64Word(c.int64Data[row])
	case types.Float32:
		return types.Float32Word(c.float32Data[row])
	case types.Float64:
		return types.Float64Word(c.float64Data[row])
	default:
		panic(fmt.Sprintf("column read of type %s", c.typ))
	}
}

// SetWord writes a bit-pattern word into the element at row.
func (c *Column) SetWord(row int, w types.Word) {
	switch c.typ {
	case types.Bool:
		c.boolData[row] = types.WordBool(w)
	case types.Int32:
		c.int32Data[row] = types.WordInt32(w)
	case types.Int64:
		c.int64Data[row] = types.WordInt64(w)
	case types.Float32:
		c.float32Data[row] = types.WordFloat32(w)
	case types.Float64:
		c.float64Data[row] = types.WordFloat64(w)
	default:
		panic(fmt.Sprintf("column write of type %s", c.typ))
	}
}

// Typed accessors return the backing array. Callers must not mutate the
// result of a read-side accessor.

func (c *Column) Bools() []bool       { return c.boolData }
func (c *Column) Int32s() []int32     { return c.int32Data }
func (c *Column) Int64s() []int64     { return c.int64Data }
func (c *Column) Float32s() []float32 { return c.float32Data }
func (c *Column) Float64s() []float64 { return c.float64Data }

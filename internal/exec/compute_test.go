package exec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colexpr/colexpr/internal/config"
	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/expr"
	"github.com/colexpr/colexpr/internal/table"
	"github.com/colexpr/colexpr/internal/types"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ec, err := NewContext(nil)
	require.NoError(t, err)
	t.Cleanup(ec.Close)
	return ec
}

func op(t *testing.T, code expr.OpCode, operands ...expr.Node) expr.Node {
	t.Helper()
	n, err := expr.NewOperation(code, operands...)
	require.NoError(t, err)
	return n
}

func TestComputeColumnAdd(t *testing.T) {
	tbl, err := table.New(
		table.NewInt32Column([]int32{3, 20, 1, 50}),
		table.NewInt32Column([]int32{10, 7, 20, 0}),
	)
	require.NoError(t, err)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl,
		op(t, expr.OpAdd, expr.NewColumnRef(0), expr.NewColumnRef(1)))
	require.NoError(t, err)

	assert.Equal(t, types.Int32, out.Type())
	assert.Equal(t, []int32{13, 27, 21, 50}, out.Int32s())
}

func TestComputeColumnLess(t *testing.T) {
	tbl, err := table.New(
		table.NewInt32Column([]int32{3, 20, 1, 50}),
		table.NewInt32Column([]int32{10, 7, 20, 0}),
	)
	require.NoError(t, err)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl,
		op(t, expr.OpLess, expr.NewColumnRef(0), expr.NewColumnRef(1)))
	require.NoError(t, err)

	assert.Equal(t, types.Bool, out.Type())
	assert.Equal(t, []bool{true, false, true, false}, out.Bools())
}

func TestComputeColumnNestedWithSlotReuse(t *testing.T) {
	tbl, err := table.New(
		table.NewInt32Column([]int32{3, 20, 1, 50}),
		table.NewInt32Column([]int32{10, 7, 20, 0}),
		table.NewInt32Column([]int32{-3, 66, 2, -99}),
	)
	require.NoError(t, err)

	// (c0 + c1) + (c2 - c0)
	tree := op(t, expr.OpAdd,
		op(t, expr.OpAdd, expr.NewColumnRef(0), expr.NewColumnRef(1)),
		op(t, expr.OpSub, expr.NewColumnRef(2), expr.NewColumnRef(0)),
	)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl, tree)
	require.NoError(t, err)
	assert.Equal(t, []int32{7, 73, 22, -99}, out.Int32s())
}

func TestComputeColumnIdentityPassThrough(t *testing.T) {
	tbl, err := table.New(table.NewInt32Column([]int32{3, 0, 1, 50}))
	require.NoError(t, err)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl, op(t, expr.OpIdentity, expr.NewColumnRef(0)))
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 0, 1, 50}, out.Int32s())
}

func TestComputeColumnGreaterThanLiteral(t *testing.T) {
	tbl, err := table.New(table.NewInt32Column([]int32{3, 20, 1, 50}))
	require.NoError(t, err)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl,
		op(t, expr.OpGreater, expr.NewColumnRef(0),
			expr.NewLiteral(types.NewInt32Scalar(41))))
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true}, out.Bools())
}

func TestComputeColumnMixedTypesFailBeforeLaunch(t *testing.T) {
	tbl, err := table.New(
		table.NewInt32Column([]int32{1, 2}),
		table.NewFloat64Column([]float64{1.5, 2.5}),
	)
	require.NoError(t, err)

	ec := newTestContext(t)
	for name, tree := range map[string]expr.Node{
		"int_then_float": op(t, expr.OpAdd, expr.NewColumnRef(0), expr.NewColumnRef(1)),
		"float_then_int": op(t, expr.OpAdd, expr.NewColumnRef(1), expr.NewColumnRef(0)),
	} {
		t.Run(name, func(t *testing.T) {
			out, err := ComputeColumn(ec, tbl, tree)
			require.Error(t, err)
			assert.True(t, errors.IsError(err, errors.TypeMismatch))
			assert.Nil(t, out)
		})
	}
}

func TestComputeColumnIsIdempotent(t *testing.T) {
	tbl, err := table.New(
		table.NewFloat64Column([]float64{0.5, -1.25, 3.75}),
		table.NewFloat64Column([]float64{2.0, 0.25, -0.5}),
	)
	require.NoError(t, err)

	tree := op(t, expr.OpMul,
		op(t, expr.OpAdd, expr.NewColumnRef(0), expr.NewColumnRef(1)),
		expr.NewColumnRef(0),
	)

	ec := newTestContext(t)
	first, err := ComputeColumn(ec, tbl, tree)
	require.NoError(t, err)
	second, err := ComputeColumn(ec, tbl, tree)
	require.NoError(t, err)

	// Bit-identical output on repeat evaluation.
	for row := 0; row < tbl.NumRows(); row++ {
		assert.Equal(t, first.Word(row), second.Word(row))
	}
}

func TestComputeColumnMatchesReferenceEvaluation(t *testing.T) {
	const rows = 4096
	rng := rand.New(rand.NewSource(7))

	c0 := make([]int64, rows)
	c1 := make([]int64, rows)
	c2 := make([]int64, rows)
	for i := range c0 {
		c0[i] = rng.Int63n(2000) - 1000
		c1[i] = rng.Int63n(2000) - 1000
		c2[i] = rng.Int63n(2000) - 1000
	}
	tbl, err := table.New(
		table.NewInt64Column(c0),
		table.NewInt64Column(c1),
		table.NewInt64Column(c2),
	)
	require.NoError(t, err)

	// c0*c1 + (c2 - c0)
	tree := op(t, expr.OpAdd,
		op(t, expr.OpMul, expr.NewColumnRef(0), expr.NewColumnRef(1)),
		op(t, expr.OpSub, expr.NewColumnRef(2), expr.NewColumnRef(0)),
	)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl, tree)
	require.NoError(t, err)

	for i := 0; i < rows; i++ {
		want := c0[i]*c1[i] + (c2[i] - c0[i])
		if out.Int64s()[i] != want {
			t.Fatalf("row %d: got %d, want %d", i, out.Int64s()[i], want)
		}
	}
}

func TestComputeColumnCoversRowsAcrossStridedGroups(t *testing.T) {
	const rows = 10007 // prime, so the last group is ragged

	c0 := make([]int64, rows)
	for i := range c0 {
		c0[i] = int64(i)
	}
	tbl, err := table.New(table.NewInt64Column(c0))
	require.NoError(t, err)

	// Narrow groups and few resident workers force every worker to make
	// multiple strided passes.
	cfg := &config.EvalConfig{
		MaxGroupSize:       4,
		GroupScratchBudget: 48 * 1024,
		MaxResidentGroups:  3,
	}
	ec, err := NewContext(cfg)
	require.NoError(t, err)
	defer ec.Close()

	// c0 + c0 keeps every row's result distinct from its zero value.
	out, err := ComputeColumn(ec, tbl,
		op(t, expr.OpAdd, expr.NewColumnRef(0), expr.NewColumnRef(0)))
	require.NoError(t, err)

	for i := 0; i < rows; i++ {
		if out.Int64s()[i] != int64(2*i) {
			t.Fatalf("row %d evaluated to %d, want %d", i, out.Int64s()[i], 2*i)
		}
	}
}

func TestComputeColumnBooleanLogic(t *testing.T) {
	tbl, err := table.New(
		table.NewBoolColumn([]bool{true, true, false, false}),
		table.NewBoolColumn([]bool{true, false, true, false}),
	)
	require.NoError(t, err)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl,
		op(t, expr.OpLogicalOr,
			op(t, expr.OpLogicalAnd, expr.NewColumnRef(0), expr.NewColumnRef(1)),
			op(t, expr.OpNot, expr.NewColumnRef(0)),
		))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true}, out.Bools())
}

func TestComputeColumnDivisionByZeroAbortsJob(t *testing.T) {
	tbl, err := table.New(
		table.NewInt64Column([]int64{10, 20, 30}),
		table.NewInt64Column([]int64{2, 0, 5}),
	)
	require.NoError(t, err)

	ec := newTestContext(t)
	out, err := ComputeColumn(ec, tbl,
		op(t, expr.OpDiv, expr.NewColumnRef(0), expr.NewColumnRef(1)))
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.JobPanic))
	assert.Nil(t, out)
}

package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/expr"
	"github.com/colexpr/colexpr/internal/table"
	"github.com/colexpr/colexpr/internal/types"
)

func singleColumnView(t *testing.T, col *table.Column) *tableView {
	t.Helper()
	return &tableView{cols: []*table.Column{col}}
}

// Well-formed programs cannot reach these faults; they are the evaluator's
// defense against a corrupted plan.

func TestExecuteProgramDispatchMissIsFatal(t *testing.T) {
	out, err := table.NewColumn(types.Bool, 1)
	require.NoError(t, err)

	// LOGICAL_AND over INT64 has no kernel.
	plan := &devicePlan{
		refs: []expr.DataReference{
			{Kind: expr.RefColumn, Type: types.Int64, Side: expr.SideInput, Index: 0},
			{Kind: expr.RefColumn, Type: types.Bool, Side: expr.SideOutput, Index: 0},
		},
		ops:    []expr.OpCode{expr.OpLogicalAnd},
		srcIdx: []int32{0, 0, 1},
	}
	eval := rowEvaluator{
		plan: plan,
		tbl:  singleColumnView(t, table.NewInt64Column([]int64{1})),
		out:  out,
	}
	err = eval.executeProgram(0)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.DispatchMiss))
}

func TestExecuteProgramUnknownArityIsFatal(t *testing.T) {
	out, err := table.NewColumn(types.Int64, 1)
	require.NoError(t, err)

	plan := &devicePlan{
		ops: []expr.OpCode{expr.OpCode(200)}, // arity resolves to 0
	}
	eval := rowEvaluator{
		plan: plan,
		tbl:  singleColumnView(t, table.NewInt64Column([]int64{1})),
		out:  out,
	}
	err = eval.executeProgram(0)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.BadArity))
}

func TestResolveInputRejectsOutputColumn(t *testing.T) {
	eval := rowEvaluator{plan: &devicePlan{}}
	_, err := eval.resolveInput(expr.DataReference{
		Kind: expr.RefColumn, Type: types.Int64, Side: expr.SideOutput,
	}, 0)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.BadReferenceKind))
}

func TestResolveOutputRejectsLiteral(t *testing.T) {
	eval := rowEvaluator{plan: &devicePlan{}}
	err := eval.resolveOutput(expr.DataReference{
		Kind: expr.RefLiteral, Type: types.Int64,
	}, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errors.BadReferenceKind))
}

func TestScratchRoundTripThroughIntermediate(t *testing.T) {
	eval := rowEvaluator{scratch: make([]types.Word, 2)}
	ref := expr.DataReference{Kind: expr.RefIntermediate, Type: types.Float64, Index: 1}

	require.NoError(t, eval.resolveOutput(ref, 0, types.Float64Word(-3.5)))
	got, err := eval.resolveInput(ref, 0)
	require.NoError(t, err)
	assert.Equal(t, -3.5, types.WordFloat64(got))
}

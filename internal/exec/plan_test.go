package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colexpr/colexpr/internal/expr"
	"github.com/colexpr/colexpr/internal/table"
	"github.com/colexpr/colexpr/internal/types"
)

func compileTestProgram(t *testing.T) (*table.Table, *expr.Program) {
	t.Helper()
	tbl, err := table.New(
		table.NewInt32Column([]int32{3, 20, 1, 50}),
		table.NewInt32Column([]int32{10, 7, 20, 0}),
	)
	require.NoError(t, err)

	inner, err := expr.NewOperation(expr.OpAdd, expr.NewColumnRef(0), expr.NewColumnRef(1))
	require.NoError(t, err)
	root, err := expr.NewOperation(expr.OpGreater, inner,
		expr.NewLiteral(types.NewInt32Scalar(21)))
	require.NoError(t, err)

	program, err := expr.Compile(tbl, root)
	require.NoError(t, err)
	return tbl, program
}

func TestPackProgramSegmentLayout(t *testing.T) {
	_, program := compileTestProgram(t)

	buf, off := packProgram(program)

	assert.Equal(t, len(program.DataRefs()), off.NumDataRefs)
	assert.Equal(t, len(program.Literals()), off.NumLiterals)
	assert.Equal(t, len(program.Operators()), off.NumOperators)
	assert.Equal(t, len(program.SourceIndices()), off.NumSourceIndices)

	// Fixed segment order with natural alignment.
	assert.Equal(t, 0, off.DataRefs)
	assert.Equal(t, off.NumDataRefs*dataRefSize, off.Literals)
	assert.Equal(t, off.Literals+off.NumLiterals*types.WordSize, off.Operators)
	assert.Zero(t, off.SourceIndices%8)
	assert.Zero(t, off.Size%8)
	assert.Len(t, buf, off.Size)
}

func TestPackedPlanRoundTrip(t *testing.T) {
	_, program := compileTestProgram(t)

	buf, off := packProgram(program)
	plan, err := decodePlan(buf, off)
	require.NoError(t, err)

	assert.Equal(t, program.DataRefs(), plan.refs)
	assert.Equal(t, program.Literals(), plan.literals)
	assert.Equal(t, program.Operators(), plan.ops)
	assert.Equal(t, program.SourceIndices(), plan.srcIdx)
}

func TestDecodePlanRejectsShortBuffer(t *testing.T) {
	_, program := compileTestProgram(t)

	buf, off := packProgram(program)
	_, err := decodePlan(buf[:len(buf)-1], off)
	assert.Error(t, err)
}

func TestPackAndTransferLandsAfterSync(t *testing.T) {
	_, program := compileTestProgram(t)

	ec, err := NewContext(nil)
	require.NoError(t, err)
	defer ec.Close()

	device, off := packAndTransfer(ec, program)
	ec.stream.Sync()

	plan, err := decodePlan(device, off)
	require.NoError(t, err)
	assert.Equal(t, program.Operators(), plan.ops)

	// The device buffer came from the context allocator.
	assert.Equal(t, int64(off.Size), ec.Allocator().InUse())
	ec.Allocator().Release(device)
	assert.Equal(t, int64(0), ec.Allocator().InUse())
}

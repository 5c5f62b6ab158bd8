package exec

import (
	"github.com/colexpr/colexpr/internal/expr"
	"github.com/colexpr/colexpr/internal/table"
)

// ComputeColumn compiles the expression tree against the table and
// evaluates it independently for every row, producing one output column
// with the table's row count and the tree's resolved root type.
//
// Compile-time faults are returned before any parallel work starts.
// Execution-time faults abort the job; the output is then unusable.
func ComputeColumn(ec *Context, tbl *table.Table, root expr.Node) (*table.Column, error) {
	program, err := expr.Compile(tbl, root)
	if err != nil {
		return nil, err
	}

	// Start the packed plan's transfer without waiting. Output allocation
	// and table view preparation overlap the copy; the view's stream sync
	// fences the transfer before any lane runs.
	device, off := packAndTransfer(ec, program)
	defer ec.alloc.Release(device)

	out, err := table.NewColumn(program.RootType(), tbl.NumRows())
	if err != nil {
		return nil, err
	}
	view := ec.prepareTableView(tbl)

	plan, err := decodePlan(device, off)
	if err != nil {
		return nil, err
	}
	plan.rootType = program.RootType()
	plan.peakSlots = program.PeakSlots()

	if err := ec.runJob(plan, view, out, tbl.NumRows()); err != nil {
		return nil, err
	}
	return out, nil
}

package exec

import (
	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/expr"
	"github.com/colexpr/colexpr/internal/table"
	"github.com/colexpr/colexpr/internal/types"
)

// tableView is the execution-context-resident view of the input table.
type tableView struct {
	cols []*table.Column
}

// word reads the element at (col, row) as a bit-pattern word.
func (v *tableView) word(col, row int) types.Word {
	return v.cols[col].Word(row)
}

// prepareTableView builds the lanes' view of the input table. It is also
// the guaranteed synchronization point before compute: it waits on the
// stream so that the packed plan's earlier fire-and-forget transfer has
// landed by the time any lane reads it.
func (ec *Context) prepareTableView(t *table.Table) *tableView {
	cols := make([]*table.Column, t.NumColumns())
	for i := range cols {
		cols[i] = t.Column(i)
	}
	ec.stream.Sync()
	return &tableView{cols: cols}
}

// rowEvaluator executes the compiled program for single rows within one
// lane. The scratch slice is private to the lane; the plan and table view
// are shared read-only, and each output row is written by exactly one
// lane.
type rowEvaluator struct {
	plan    *devicePlan
	tbl     *tableView
	out     *table.Column
	scratch []types.Word
}

// resolveInput produces the operand value named by ref for the given row.
// Intermediate reads are bit-pattern copies of the scratch word, never
// type-punned loads.
func (r *rowEvaluator) resolveInput(ref expr.DataReference, row int) (types.Word, error) {
	switch ref.Kind {
	case expr.RefColumn:
		if ref.Side != expr.SideInput {
			return 0, errors.BadReferenceKindError("COLUMN(OUTPUT)", "an operand")
		}
		return r.tbl.word(int(ref.Index), row), nil
	case expr.RefLiteral:
		return r.plan.literals[ref.Index], nil
	case expr.RefIntermediate:
		return r.scratch[ref.Index], nil
	default:
		return 0, errors.BadReferenceKindError(ref.Kind.String(), "an operand")
	}
}

// resolveOutput stores a result value where ref points: the output column
// for the root, a scratch slot otherwise.
func (r *rowEvaluator) resolveOutput(ref expr.DataReference, row int, w types.Word) error {
	switch ref.Kind {
	case expr.RefColumn:
		r.out.SetWord(row, w)
		return nil
	case expr.RefIntermediate:
		r.scratch[ref.Index] = w
		return nil
	default:
		return errors.BadReferenceKindError(ref.Kind.String(), "a result")
	}
}

// executeProgram runs the operator list once for one row, advancing a
// cursor into the source index list by arity+1 per step. The list mirrors
// the linearizer's emission order, so producers always precede consumers.
func (r *rowEvaluator) executeProgram(row int) error {
	cursor := 0
	for _, op := range r.plan.ops {
		arity := op.Arity()
		switch arity {
		case 1:
			in := r.plan.refs[r.plan.srcIdx[cursor]]
			outRef := r.plan.refs[r.plan.srcIdx[cursor+1]]
			kernel, ok := expr.LookupUnary(op, in.Type)
			if !ok {
				return errors.DispatchMissError(op.String(), in.Type.String())
			}
			a, err := r.resolveInput(in, row)
			if err != nil {
				return err
			}
			if err := r.resolveOutput(outRef, row, kernel(a)); err != nil {
				return err
			}
		case 2:
			left := r.plan.refs[r.plan.srcIdx[cursor]]
			right := r.plan.refs[r.plan.srcIdx[cursor+1]]
			outRef := r.plan.refs[r.plan.srcIdx[cursor+2]]
			kernel, ok := expr.LookupBinary(op, left.Type)
			if !ok {
				return errors.DispatchMissError(op.String(), left.Type.String())
			}
			a, err := r.resolveInput(left, row)
			if err != nil {
				return err
			}
			b, err := r.resolveInput(right, row)
			if err != nil {
				return err
			}
			if err := r.resolveOutput(outRef, row, kernel(a, b)); err != nil {
				return err
			}
		default:
			// Unreachable with a well-formed registry.
			return errors.BadArityError(arity)
		}
		cursor += arity + 1
	}
	return nil
}

package expr

import (
	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/table"
	"github.com/colexpr/colexpr/internal/types"
)

// RefKind tags where a data reference's value lives.
type RefKind uint8

const (
	RefColumn RefKind = iota
	RefLiteral
	RefIntermediate
)

func (k RefKind) String() string {
	switch k {
	case RefColumn:
		return "COLUMN"
	case RefLiteral:
		return "LITERAL"
	case RefIntermediate:
		return "INTERMEDIATE"
	default:
		return "RefKind(?)"
	}
}

// DataReference is a typed handle naming where one operand or result
// lives: an input/output column, a literal, or a scratch slot. Structural
// equality drives deduplication in the program's reference table.
type DataReference struct {
	Kind  RefKind
	Type  types.ElementType
	Side  TableSide // meaningful for column references only
	Index int32     // column index, literal index or slot index by kind
}

// Program is the flat, ordered form of one compiled expression tree. It is
// frozen after compilation; accessors expose read-only views.
type Program struct {
	ops       []OpCode
	srcIdx    []int32
	literals  []types.Word
	refs      []DataReference
	rootType  types.ElementType
	peakSlots int
}

// Operators returns the operator sequence in execution order.
func (p *Program) Operators() []OpCode { return p.ops }

// SourceIndices returns the flattened source index groups: for each
// operator, its operand indices followed by one result index, all
// indexing the data reference table.
func (p *Program) SourceIndices() []int32 { return p.srcIdx }

// Literals returns the literal values as bit-pattern words.
func (p *Program) Literals() []types.Word { return p.literals }

// DataRefs returns the deduplicated data reference table.
func (p *Program) DataRefs() []DataReference { return p.refs }

// RootType returns the element type produced by the tree's root.
func (p *Program) RootType() types.ElementType { return p.rootType }

// PeakSlots returns the number of scratch slots one lane needs.
func (p *Program) PeakSlots() int { return p.peakSlots }

// linearizer walks the expression tree post-order, building the program
// piece by piece. One instance serves one compile call.
type linearizer struct {
	tbl      *table.Table
	root     Node
	refs     []DataReference
	literals []types.Word
	ops      []OpCode
	srcIdx   []int32
	slots    slotAllocator
}

// Compile flattens the expression tree into a program over the table's
// columns. All compile-time faults surface here, before any parallel work.
func Compile(tbl *table.Table, root Node) (*Program, error) {
	if root == nil {
		return nil, errors.New(errors.EmptyExpression, "expression tree is empty")
	}
	if _, ok := root.(*Operation); !ok {
		return nil, errors.New(errors.EmptyExpression,
			"expression root must be an operation so the output column has a producer")
	}
	l := &linearizer{tbl: tbl, root: root}
	if _, err := l.visit(root); err != nil {
		return nil, err
	}
	return &Program{
		ops:       l.ops,
		srcIdx:    l.srcIdx,
		literals:  l.literals,
		refs:      l.refs,
		rootType:  l.rootType(),
		peakSlots: l.slots.peakUsed(),
	}, nil
}

// visit dispatches on the closed node set and returns the index of the
// reference holding the node's value.
func (l *linearizer) visit(n Node) (int32, error) {
	switch e := n.(type) {
	case *Literal:
		return l.visitLiteral(e), nil
	case *ColumnRef:
		return l.visitColumnRef(e)
	case *Operation:
		return l.visitOperation(e)
	default:
		return 0, errors.InternalErrorf("unknown expression node %T", n)
	}
}

// visitLiteral appends the value to the literal list and records a
// LITERAL reference. Literals are never deduplicated by value: every
// literal node gets a fresh list entry, so the structural dedup below
// never merges two distinct nodes.
func (l *linearizer) visitLiteral(e *Literal) int32 {
	litIdx := int32(len(l.literals))
	l.literals = append(l.literals, e.Value.Word())
	return l.addDataReference(DataReference{
		Kind:  RefLiteral,
		Type:  e.Value.Type(),
		Index: litIdx,
	})
}

// visitColumnRef resolves the column's element type from the table and
// records a COLUMN reference. Two references to the same column collapse
// to one table entry.
func (l *linearizer) visitColumnRef(e *ColumnRef) (int32, error) {
	if e.Column < 0 || e.Column >= l.tbl.NumColumns() {
		return 0, errors.ColumnOutOfRangeError(e.Column, l.tbl.NumColumns())
	}
	return l.addDataReference(DataReference{
		Kind:  RefColumn,
		Type:  l.tbl.ColumnType(e.Column),
		Side:  e.Side,
		Index: int32(e.Column),
	}), nil
}

// visitOperation compiles operands left to right, frees their scratch
// slots, resolves the result type and emits the operator with its source
// index group. Operand order defines evaluation order, so producers
// always precede the operator that consumes them.
func (l *linearizer) visitOperation(e *Operation) (int32, error) {
	operandIdx := make([]int32, 0, len(e.Operands))
	for _, operand := range e.Operands {
		idx, err := l.visit(operand)
		if err != nil {
			return 0, err
		}
		operandIdx = append(operandIdx, idx)
	}

	operandTypes := make([]types.ElementType, len(operandIdx))
	for i, idx := range operandIdx {
		operandTypes[i] = l.refs[idx].Type
	}
	for i := 1; i < len(operandTypes); i++ {
		if operandTypes[i] != operandTypes[0] {
			return 0, errors.TypeMismatchError(e.Op.String(),
				operandTypes[0].String(), operandTypes[i].String())
		}
	}

	// Operand slots are spent after this operation; hand them back so a
	// later sibling subtree can reuse them.
	for _, idx := range operandIdx {
		if ref := l.refs[idx]; ref.Kind == RefIntermediate {
			l.slots.give(int(ref.Index))
		}
	}

	resultType, err := ReturnType(e.Op, operandTypes)
	if err != nil {
		return 0, err
	}

	var out DataReference
	if Node(e) == l.root {
		// The root's result is the output column.
		out = DataReference{Kind: RefColumn, Type: resultType, Side: SideOutput, Index: 0}
	} else {
		if !resultType.IsFixedWidth() {
			return 0, errors.Newf(errors.IntermediateWidth,
				"intermediate result type %s is not fixed width", resultType)
		}
		if resultType.Size() > types.WordSize {
			return 0, errors.IntermediateWidthError(resultType.String(), resultType.Size())
		}
		out = DataReference{Kind: RefIntermediate, Type: resultType, Index: int32(l.slots.take())}
	}
	resultIdx := l.addDataReference(out)

	l.ops = append(l.ops, e.Op)
	l.srcIdx = append(l.srcIdx, operandIdx...)
	l.srcIdx = append(l.srcIdx, resultIdx)
	return resultIdx, nil
}

// addDataReference returns the index of a structurally equal existing
// reference, or appends the reference and returns its new index.
func (l *linearizer) addDataReference(ref DataReference) int32 {
	for i, existing := range l.refs {
		if existing == ref {
			return int32(i)
		}
	}
	l.refs = append(l.refs, ref)
	return int32(len(l.refs) - 1)
}

// rootType reads the root's element type from the last reference added,
// or the Empty sentinel for a degenerate empty program.
func (l *linearizer) rootType() types.ElementType {
	if len(l.refs) == 0 {
		return types.Empty
	}
	return l.refs[len(l.refs)-1].Type
}

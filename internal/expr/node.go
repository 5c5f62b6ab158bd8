// Package expr holds the expression tree, the operator dispatch registry
// and the linearizer that compiles a tree into a flat program over a
// deduplicated table of data references.
package expr

import (
	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/types"
)

// TableSide tags which table a column reference addresses. Expressions
// read from the input side; the compiled root writes to the output side.
type TableSide uint8

const (
	SideInput TableSide = iota
	SideOutput
)

func (s TableSide) String() string {
	switch s {
	case SideInput:
		return "INPUT"
	case SideOutput:
		return "OUTPUT"
	default:
		return "TableSide(?)"
	}
}

// Node is one node of an immutable expression tree. The set of
// implementations is closed: Literal, ColumnRef and Operation. The
// linearizer matches on the concrete type exhaustively.
type Node interface {
	isNode()
}

// Literal is a scalar constant leaf.
type Literal struct {
	Value types.Scalar
}

// NewLiteral creates a literal leaf holding the given scalar.
func NewLiteral(v types.Scalar) *Literal {
	return &Literal{Value: v}
}

func (*Literal) isNode() {}

// ColumnRef is a leaf naming one column of the input table.
type ColumnRef struct {
	Side   TableSide
	Column int
}

// NewColumnRef creates a reference to column index on the input table.
func NewColumnRef(column int) *ColumnRef {
	return &ColumnRef{Side: SideInput, Column: column}
}

func (*ColumnRef) isNode() {}

// Operation applies an operator to an ordered list of operand subtrees.
type Operation struct {
	Op       OpCode
	Operands []Node
}

// NewOperation creates an operation node, validating the operand count
// against the operator's declared arity. A mismatch fails immediately;
// the tree never reaches compilation.
func NewOperation(op OpCode, operands ...Node) (*Operation, error) {
	if !op.Valid() {
		return nil, errors.Newf(errors.UnknownOperator, "unknown operator code %d", uint8(op))
	}
	if len(operands) != op.Arity() {
		return nil, errors.ArityMismatchError(op.String(), op.Arity(), len(operands))
	}
	return &Operation{Op: op, Operands: operands}, nil
}

func (*Operation) isNode() {}

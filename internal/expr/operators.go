package expr

import (
	"fmt"

	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/types"
)

// OpCode identifies an operator in the dispatch registry.
type OpCode uint8

const (
	OpAdd OpCode = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpLogicalAnd
	OpLogicalOr
	OpIdentity
	OpNot
	OpNegate

	numOpCodes
)

type opClass uint8

const (
	classArithmetic opClass = iota // numeric in, same type out
	classModulo                    // integral in, same type out
	classEquality                  // any fixed-width in, boolean out
	classOrdering                  // numeric in, boolean out
	classLogical                   // boolean in, boolean out
	classIdentity                  // any fixed-width in, same type out
	classNot                       // boolean in, boolean out
	classNegate                    // numeric in, same type out
)

type opInfo struct {
	name  string
	arity int
	class opClass
}

var opTable = [numOpCodes]opInfo{
	OpAdd:          {"ADD", 2, classArithmetic},
	OpSub:          {"SUB", 2, classArithmetic},
	OpMul:          {"MUL", 2, classArithmetic},
	OpDiv:          {"DIV", 2, classArithmetic},
	OpMod:          {"MOD", 2, classModulo},
	OpEqual:        {"EQUAL", 2, classEquality},
	OpNotEqual:     {"NOT_EQUAL", 2, classEquality},
	OpLess:         {"LESS", 2, classOrdering},
	OpLessEqual:    {"LESS_EQUAL", 2, classOrdering},
	OpGreater:      {"GREATER", 2, classOrdering},
	OpGreaterEqual: {"GREATER_EQUAL", 2, classOrdering},
	OpLogicalAnd:   {"LOGICAL_AND", 2, classLogical},
	OpLogicalOr:    {"LOGICAL_OR", 2, classLogical},
	OpIdentity:     {"IDENTITY", 1, classIdentity},
	OpNot:          {"NOT", 1, classNot},
	OpNegate:       {"NEGATE", 1, classNegate},
}

// Valid reports whether the code names a registered operator.
func (op OpCode) Valid() bool { return op < numOpCodes }

func (op OpCode) String() string {
	if op.Valid() {
		return opTable[op].name
	}
	return fmt.Sprintf("OpCode(%d)", uint8(op))
}

// Arity returns the operator's declared operand count.
func (op OpCode) Arity() int {
	if op.Valid() {
		return opTable[op].arity
	}
	return 0
}

// accepts reports whether the operator has an instantiation for the given
// operand type. Operand types are homogeneous, so one type describes all
// operands.
func (op OpCode) accepts(t types.ElementType) bool {
	switch opTable[op].class {
	case classArithmetic, classOrdering, classNegate:
		return t.IsNumeric()
	case classModulo:
		return t.IsIntegral()
	case classEquality, classIdentity:
		return t.IsFixedWidth()
	case classLogical, classNot:
		return t == types.Bool
	default:
		return false
	}
}

// ReturnType resolves the result type of applying op to operands of the
// given (already homogeneous) types. A combination with no registered
// instantiation is a compile-time fault.
func ReturnType(op OpCode, operandTypes []types.ElementType) (types.ElementType, error) {
	if !op.Valid() {
		return types.Empty, errors.Newf(errors.UnknownOperator, "unknown operator code %d", uint8(op))
	}
	if len(operandTypes) != op.Arity() {
		return types.Empty, errors.ArityMismatchError(op.String(), op.Arity(), len(operandTypes))
	}
	t := operandTypes[0]
	if !op.accepts(t) {
		return types.Empty, errors.UnsupportedOperandError(op.String(), t.String())
	}
	switch opTable[op].class {
	case classEquality, classOrdering, classLogical, classNot:
		return types.Bool, nil
	default:
		return t, nil
	}
}

// UnaryKernel applies a one-operand operator to a bit-pattern word.
type UnaryKernel func(a types.Word) types.Word

// BinaryKernel applies a two-operand operator to bit-pattern words.
type BinaryKernel func(a, b types.Word) types.Word

type unaryKey struct {
	op  OpCode
	typ types.ElementType
}

type binaryKey struct {
	op  OpCode
	typ types.ElementType
}

var (
	unaryKernels  = map[unaryKey]UnaryKernel{}
	binaryKernels = map[binaryKey]BinaryKernel{}
)

// LookupUnary resolves the concrete kernel for a unary operator over the
// given operand type. A miss is a fatal execution fault for the caller.
func LookupUnary(op OpCode, t types.ElementType) (UnaryKernel, bool) {
	k, ok := unaryKernels[unaryKey{op, t}]
	return k, ok
}

// LookupBinary resolves the concrete kernel for a binary operator over the
// given operand type.
func LookupBinary(op OpCode, t types.ElementType) (BinaryKernel, bool) {
	k, ok := binaryKernels[binaryKey{op, t}]
	return k, ok
}

// registerNumeric instantiates the numeric operator set for one element
// type, given its word codec.
func registerNumeric[T int32 | int64 | float32 | float64](t types.ElementType, from func(types.Word) T, to func(T) types.Word) {
	binaryKernels[binaryKey{OpAdd, t}] = func(a, b types.Word) types.Word { return to(from(a) + from(b)) }
	binaryKernels[binaryKey{OpSub, t}] = func(a, b types.Word) types.Word { return to(from(a) - from(b)) }
	binaryKernels[binaryKey{OpMul, t}] = func(a, b types.Word) types.Word { return to(from(a) * from(b)) }
	binaryKernels[binaryKey{OpDiv, t}] = func(a, b types.Word) types.Word { return to(from(a) / from(b)) }
	binaryKernels[binaryKey{OpEqual, t}] = func(a, b types.Word) types.Word { return types.BoolWord(from(a) == from(b)) }
	binaryKernels[binaryKey{OpNotEqual, t}] = func(a, b types.Word) types.Word { return types.BoolWord(from(a) != from(b)) }
	binaryKernels[binaryKey{OpLess, t}] = func(a, b types.Word) types.Word { return types.BoolWord(from(a) < from(b)) }
	binaryKernels[binaryKey{OpLessEqual, t}] = func(a, b types.Word) types.Word { return types.BoolWord(from(a) <= from(b)) }
	binaryKernels[binaryKey{OpGreater, t}] = func(a, b types.Word) types.Word { return types.BoolWord(from(a) > from(b)) }
	binaryKernels[binaryKey{OpGreaterEqual, t}] = func(a, b types.Word) types.Word { return types.BoolWord(from(a) >= from(b)) }
	unaryKernels[unaryKey{OpIdentity, t}] = func(a types.Word) types.Word { return a }
	unaryKernels[unaryKey{OpNegate, t}] = func(a types.Word) types.Word { return to(-from(a)) }
}

// registerIntegral adds the whole-number-only operators.
func registerIntegral[T int32 | int64](t types.ElementType, from func(types.Word) T, to func(T) types.Word) {
	binaryKernels[binaryKey{OpMod, t}] = func(a, b types.Word) types.Word { return to(from(a) % from(b)) }
}

func init() {
	registerNumeric(types.Int32, types.WordInt32, types.Int32Word)
	registerNumeric(types.Int64, types.WordInt64, types.Int64Word)
	registerNumeric(types.Float32, types.WordFloat32, types.Float32Word)
	registerNumeric(types.Float64, types.WordFloat64, types.Float64Word)
	registerIntegral(types.Int32, types.WordInt32, types.Int32Word)
	registerIntegral(types.Int64, types.WordInt64, types.Int64Word)

	// Boolean instantiations.
	binaryKernels[binaryKey{OpEqual, types.Bool}] = func(a, b types.Word) types.Word {
		return types.BoolWord(types.WordBool(a) == types.WordBool(b))
	}
	binaryKernels[binaryKey{OpNotEqual, types.Bool}] = func(a, b types.Word) types.Word {
		return types.BoolWord(types.WordBool(a) != types.WordBool(b))
	}
	binaryKernels[binaryKey{OpLogicalAnd, types.Bool}] = func(a, b types.Word) types.Word {
		return types.BoolWord(types.WordBool(a) && types.WordBool(b))
	}
	binaryKernels[binaryKey{OpLogicalOr, types.Bool}] = func(a, b types.Word) types.Word {
		return types.BoolWord(types.WordBool(a) || types.WordBool(b))
	}
	unaryKernels[unaryKey{OpIdentity, types.Bool}] = func(a types.Word) types.Word { return a }
	unaryKernels[unaryKey{OpNot, types.Bool}] = func(a types.Word) types.Word {
		return types.BoolWord(!types.WordBool(a))
	}
}

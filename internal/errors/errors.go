package errors

import (
	"fmt"
)

// Error is a compile-time or execution-time fault with a stable code.
type Error struct {
	Code    string // machine-readable fault code
	Message string // primary message
	Detail  string // optional detail
	Hint    string // optional hint
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s) DETAIL: %s", e.Message, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// New creates a new Error with the given code and message.
func New(code string, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail adds detail to the error.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithDetailf adds formatted detail to the error.
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint adds a hint to the error.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// Common fault constructors

// TypeMismatchError reports operands of one operation with differing types.
func TypeMismatchError(operator string, leftType, rightType string) *Error {
	return Newf(TypeMismatch, "operator %s was provided non-matching operand types %s and %s",
		operator, leftType, rightType).
		WithHint("all operands of one operation must share a resolved type; no promotion is performed")
}

// ArityMismatchError reports an operation built with the wrong operand count.
func ArityMismatchError(operator string, want, got int) *Error {
	return Newf(ArityMismatch, "operator %s takes %d operands, got %d", operator, want, got)
}

// IntermediateWidthError reports an intermediate result type that cannot be
// stored in one scratch word.
func IntermediateWidthError(typeName string, size int) *Error {
	return Newf(IntermediateWidth,
		"intermediate result type %s (%d bytes) does not fit in a scratch word", typeName, size)
}

// UnsupportedOperandError reports an operator applied to a type it has no
// instantiation for.
func UnsupportedOperandError(operator string, typeName string) *Error {
	return Newf(UnsupportedOperand, "operator %s is not defined for operand type %s",
		operator, typeName)
}

// ColumnOutOfRangeError reports a column reference past the table's width.
func ColumnOutOfRangeError(column, numColumns int) *Error {
	return Newf(ColumnOutOfRange, "column reference %d out of range for table with %d columns",
		column, numColumns)
}

// DispatchMissError reports a missing kernel for an operator/type pair at
// execution time.
func DispatchMissError(operator string, typeName string) *Error {
	return Newf(DispatchMiss, "no kernel for operator %s over %s", operator, typeName)
}

// BadReferenceKindError reports a data reference kind the evaluator cannot
// resolve in the given position.
func BadReferenceKindError(kind string, position string) *Error {
	return Newf(BadReferenceKind, "data reference kind %s cannot be resolved as %s", kind, position)
}

// BadArityError reports an operator arity the evaluator cannot step over.
func BadArityError(arity int) *Error {
	return Newf(BadArity, "unsupported operator arity %d", arity)
}

// InternalErrorf creates an internal error.
func InternalErrorf(format string, args ...interface{}) *Error {
	return Newf(Internal, format, args...)
}

// IsError checks if an error is an Error with a specific code.
func IsError(err error, code string) bool {
	if err == nil {
		return false
	}
	cErr, ok := err.(*Error)
	return ok && cErr.Code == code
}

// GetError attempts to extract an Error from any error, wrapping foreign
// errors as internal faults.
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	if cErr, ok := err.(*Error); ok {
		return cErr
	}
	return InternalErrorf("%v", err)
}

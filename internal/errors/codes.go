package errors

// Fault codes. Compile-time codes are reported before any parallel work
// starts; execution codes abort an in-flight compute job.

// Compile-time faults.
const (
	TypeMismatch       = "type_mismatch"
	ArityMismatch      = "arity_mismatch"
	IntermediateWidth  = "intermediate_width"
	UnknownOperator    = "unknown_operator"
	UnsupportedOperand = "unsupported_operand"
	ColumnOutOfRange   = "column_out_of_range"
	EmptyExpression    = "empty_expression"
	TableMismatch      = "table_mismatch"
	InvalidConfig      = "invalid_config"
)

// Execution faults.
const (
	DispatchMiss     = "dispatch_miss"
	BadReferenceKind = "bad_reference_kind"
	BadArity         = "bad_arity"
	JobPanic         = "job_panic"
)

// Everything else.
const (
	Internal = "internal"
)

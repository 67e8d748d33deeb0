package sql

// Row is a materialized tuple of column values, used only at the boundary
// of the core (literal rows in LogicalValues, results handed to callers by
// the code-generated query kernel). Inside generated code values travel as
// typed Go values produced by the compiled row function, not as Row.
type Row []any

// NewRow builds a Row from its column values.
func NewRow(values ...any) Row {
	return Row(values)
}

// Copy returns a defensive shallow copy of the row.
func (r Row) Copy() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

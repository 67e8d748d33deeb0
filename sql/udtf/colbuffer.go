package udtf

import "github.com/heavyql/qkernel/sql/codegen"

// materializedColumn is a fully in-memory codegen.ColumnBuffer, used to
// give a "pass by value" UDTF argument a backing store independent of the
// caller's original buffer.
type materializedColumn struct {
	values []any
	nulls  []bool
}

func (m *materializedColumn) Len() int { return len(m.values) }
func (m *materializedColumn) At(i int) (any, bool) {
	return m.values[i], m.nulls[i]
}

// copyColumnBuffer reads col fully into a materializedColumn.
func copyColumnBuffer(col codegen.ColumnBuffer) codegen.ColumnBuffer {
	if col == nil {
		return nil
	}
	n := col.Len()
	cp := &materializedColumn{values: make([]any, n), nulls: make([]bool, n)}
	for i := 0; i < n; i++ {
		cp.values[i], cp.nulls[i] = col.At(i)
	}
	return cp
}

// OutputBuffer is the output_buffers local wrapper collects a
// UDTF's produced rows into: a growable codegen.ColumnBuffer a user
// function appends to directly, standing in for the raw output pointer
// the real ABI hands the user function.
type OutputBuffer struct {
	values []any
	nulls  []bool
}

// NewOutputBuffer returns an empty OutputBuffer.
func NewOutputBuffer() *OutputBuffer {
	return &OutputBuffer{}
}

// Append adds one output row's value (or NULL).
func (o *OutputBuffer) Append(value any, isNull bool) {
	o.values = append(o.values, value)
	o.nulls = append(o.nulls, isNull)
}

func (o *OutputBuffer) Len() int { return len(o.values) }
func (o *OutputBuffer) At(i int) (any, bool) {
	return o.values[i], o.nulls[i]
}

package types

import "github.com/heavyql/qkernel/sql"

// ErrTypeUnification wraps sql.ErrTypeInference for failures raised while
// computing a common type.
func ErrTypeUnification(msg string) error {
	return sql.ErrTypeInference.New(msg)
}

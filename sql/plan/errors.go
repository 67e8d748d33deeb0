package plan

import (
	"fmt"

	"github.com/heavyql/qkernel/sql"
)

func errArity(node string, want, got int) error {
	return sql.ErrInvalidExpression.New(fmt.Sprintf("%s: expected %d children, got %d", node, want, got))
}

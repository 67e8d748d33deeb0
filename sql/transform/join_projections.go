package transform

import (
	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
)

// InsertJoinProjections is rewrite pass 5: every Join not
// immediately consumed by exactly one Project is wrapped in an identity
// Project exposing all of its columns, so later passes (dead-column
// elimination in particular) always have a Project sitting atop a Join to
// narrow instead of having to reach into the Join's own schema. Two cases
// are exempt: a Join already consumed by a Project (nothing to insert),
// and a Join feeding the left input of a parent Join (a left-deep join
// tree reads its intermediate joins directly, cross-join-filter hoisting
// depends on that shape).
//
// This is also where the self-join shape check happens, resolved at
// compile time instead of at hash-join probe time: a self-join — the
// same base table scanned on both sides — is only representable as a
// left-deep join tree, so any
// Join whose right input is itself a Join, in a DAG where some table is
// scanned more than once, is rejected here before a hash-join builder
// ever sees it.
func InsertJoinProjections(root plan.Node) (plan.Node, error) {
	if err := checkSelfJoinShape(root); err != nil {
		return nil, err
	}

	nextID := maxNodeID(root) + 1

	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		if _, isProject := n.(*plan.Project); isProject {
			return nil, false, nil
		}

		children := n.Children()
		if len(children) == 0 {
			return nil, false, nil
		}

		parentJoin, parentIsJoin := n.(*plan.Join)
		newChildren := make([]plan.Node, len(children))
		changed := false
		for i, c := range children {
			j, ok := c.(*plan.Join)
			if !ok {
				newChildren[i] = c
				continue
			}
			if parentIsJoin && c == parentJoin.Left() && i == 0 {
				newChildren[i] = c
				continue
			}
			newChildren[i] = wrapWithIdentityProject(j, &nextID)
			changed = true
		}
		if !changed {
			return nil, false, nil
		}

		replacement, err := n.WithChildren(newChildren...)
		if err != nil {
			return nil, false, err
		}
		return replacement, true, nil
	})
}

// checkSelfJoinShape walks the whole DAG once, collecting every scanned
// table name and every Join whose right input is itself a Join (a bushy
// shape). If any table is scanned more than once and the tree contains a
// bushy join, the self-join cannot be expressed as the single left-deep
// probe chain the hash-join builder requires.
func checkSelfJoinShape(root plan.Node) error {
	scanCounts := map[string]int{}
	bushy := false

	walk(root, func(n plan.Node) {
		switch node := n.(type) {
		case *plan.Scan:
			key := node.Table.DBName + "." + node.Table.Name
			scanCounts[key]++
		case *plan.Join:
			if _, rightIsJoin := node.Right().(*plan.Join); rightIsJoin {
				bushy = true
			}
		}
	})

	if !bushy {
		return nil
	}
	for table, count := range scanCounts {
		if count > 1 {
			return sql.ErrSelfJoinNotSupported.New(table)
		}
	}
	return nil
}

func wrapWithIdentityProject(j *plan.Join, nextID *int) *plan.Project {
	schema := j.Schema()
	exprs := make([]expression.Expr, len(schema))
	names := make([]string, len(schema))
	for i, f := range schema {
		exprs[i] = expression.NewColumnRef(f.Type, j.ID(), i)
		names[i] = f.Name
	}
	id := *nextID
	*nextID++
	return plan.NewProject(id, exprs, names, j)
}

package transform

import "github.com/heavyql/qkernel/sql/plan"

// EliminateIdentityProjects is rewrite pass 4: a Project that
// does nothing but copy every column of its input through, in order, is
// removed and replaced by its input directly. Any expression elsewhere in
// the DAG that still references the removed Project's id (necessarily its
// immediate parent, since a ColumnRef only ever targets the node whose
// scope it was built from) is remapped to the surviving input's id at the
// same column index, since the copy preserved both order and type. The DAG
// root is never eliminated this way even if it happens to be an identity
// copy, since dropping it would change which node callers treat as the
// final result.
func EliminateIdentityProjects(root plan.Node) (plan.Node, error) {
	rootID := root.ID()
	remap := map[int]int{}

	return Rewrite(root, func(n plan.Node) (plan.Node, bool, error) {
		current, changed, err := remapNodeExprs(n, remap)
		if err != nil {
			return nil, false, err
		}

		if current.ID() == rootID {
			return current, changed, nil
		}

		proj, ok := current.(*plan.Project)
		if !ok {
			return current, changed, nil
		}
		if !exprsEqualAsColumnCopy(proj.Exprs, proj.Input()) {
			return current, changed, nil
		}

		remap[proj.ID()] = proj.Input().ID()
		return proj.Input(), true, nil
	})
}

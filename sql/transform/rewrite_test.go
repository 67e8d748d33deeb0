package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/plan"
	"github.com/heavyql/qkernel/sql/types"
)

func intCol(name string) expression.ColumnInfo {
	return expression.ColumnInfo{Name: name, Type: types.NewInteger(8, false)}
}

func scan(id int, names ...string) *plan.Scan {
	cols := make([]expression.ColumnInfo, len(names))
	for i, n := range names {
		cols[i] = intCol(n)
	}
	return plan.NewScan(id, plan.TableInfo{Name: "t", DBName: "db"}, cols)
}

func colref(node plan.Node, idx int) *expression.ColumnRef {
	return expression.NewColumnRef(node.Schema()[idx].Type, node.ID(), idx)
}

func TestMarkNopsFlagsRedundantAggregate(t *testing.T) {
	s := scan(0, "a", "b")
	inner := plan.NewAggregate(1, 2, nil, []string{"a", "b"}, s)
	outer := plan.NewAggregate(2, 2, nil, []string{"a", "b"}, inner)

	root, err := MarkNops(outer)
	require.NoError(t, err)

	agg := root.(*plan.Aggregate)
	require.True(t, agg.Nop)
}

func TestMarkNopsLeavesRealAggregateAlone(t *testing.T) {
	s := scan(0, "a", "b")
	sum := expression.NewAggExpr(types.NewInteger(8, true), expression.AggSum, colref(s, 1), false, nil, expression.InterpolationLinear)
	agg := plan.NewAggregate(1, 1, []*expression.AggExpr{sum}, []string{"a", "total"}, s)

	root, err := MarkNops(agg)
	require.NoError(t, err)
	require.False(t, root.(*plan.Aggregate).Nop)
}

func TestSimplifySortsMergesChain(t *testing.T) {
	s := scan(0, "a")
	inner := plan.NewSort(1, []plan.Collation{{Expr: colref(s, 0), Ascending: true}}, 20, 0, s)
	outer := plan.NewSort(2, nil, 10, 0, inner)

	root, err := SimplifySorts(outer)
	require.NoError(t, err)

	sort := root.(*plan.Sort)
	require.Equal(t, int64(10), sort.Limit)
	require.Equal(t, s, sort.Input())
	require.Len(t, sort.Collations, 1)
}

func TestEliminateIdentityProjectsDropsPureCopy(t *testing.T) {
	s := scan(0, "a", "b")
	identity := plan.NewProject(1, []expression.Expr{colref(s, 0), colref(s, 1)}, []string{"a", "b"}, s)
	filter := plan.NewFilter(2, colref(identity, 0), identity)

	root, err := EliminateIdentityProjects(filter)
	require.NoError(t, err)

	f := root.(*plan.Filter)
	require.Equal(t, s, f.Input())
}

func TestEliminateIdentityProjectsKeepsRoot(t *testing.T) {
	s := scan(0, "a", "b")
	identity := plan.NewProject(1, []expression.Expr{colref(s, 0), colref(s, 1)}, []string{"a", "b"}, s)

	root, err := EliminateIdentityProjects(identity)
	require.NoError(t, err)
	_, ok := root.(*plan.Project)
	require.True(t, ok, "root identity project must survive")
}

func TestInsertJoinProjectionsWrapsNakedJoinChild(t *testing.T) {
	left := scan(0, "a")
	right := scan(1, "b")
	j := plan.NewJoin(2, left, right, expression.NewBinOper(types.NewBoolean(false), expression.OpEq, expression.QualOne, colref(left, 0), colref(right, 0)), plan.JoinInner)
	filter := plan.NewFilter(3, expression.NewConstant(types.NewBoolean(false), true), j)

	root, err := InsertJoinProjections(filter)
	require.NoError(t, err)

	f := root.(*plan.Filter)
	_, ok := f.Input().(*plan.Project)
	require.True(t, ok, "join must be wrapped in an identity project")
}

func TestInsertJoinProjectionsSkipsLeftDeepChild(t *testing.T) {
	a := scan(0, "a")
	b := scan(1, "b")
	c := scan(2, "c")
	inner := plan.NewJoin(3, a, b, nil, plan.JoinInner)
	outer := plan.NewJoin(4, inner, c, nil, plan.JoinInner)

	root, err := InsertJoinProjections(outer)
	require.NoError(t, err)

	j := root.(*plan.Join)
	_, stillBareJoin := j.Left().(*plan.Join)
	require.True(t, stillBareJoin, "left-deep join input must not be wrapped")
}

func TestFoldFiltersMergesChain(t *testing.T) {
	s := scan(0, "a")
	inner := plan.NewFilter(1, expression.NewBinOper(types.NewBoolean(false), expression.OpGt, expression.QualOne, colref(s, 0), expression.NewConstant(types.NewInteger(8, false), int64(1))), s)
	outer := plan.NewFilter(2, expression.NewBinOper(types.NewBoolean(false), expression.OpLt, expression.QualOne, colref(s, 0), expression.NewConstant(types.NewInteger(8, false), int64(100))), inner)

	root, err := FoldFilters(outer)
	require.NoError(t, err)

	f := root.(*plan.Filter)
	require.Equal(t, s, f.Input())
	bo, ok := f.Condition.(*expression.BinOper)
	require.True(t, ok)
	require.Equal(t, expression.OpAnd, bo.Op)
}

func TestHoistCrossJoinFiltersMigratesTwoSidedConjunct(t *testing.T) {
	left := scan(0, "a")
	right := scan(1, "b")
	j := plan.NewJoin(2, left, right, nil, plan.JoinInner)

	oneSided := expression.NewBinOper(types.NewBoolean(false), expression.OpGt, expression.QualOne, colref(j, 0), expression.NewConstant(types.NewInteger(8, false), int64(1)))
	twoSided := expression.NewBinOper(types.NewBoolean(false), expression.OpEq, expression.QualOne, colref(j, 0), colref(j, 1))
	cond := expression.NewBinOper(types.NewBoolean(false), expression.OpAnd, expression.QualOne, oneSided, twoSided)
	filter := plan.NewFilter(3, cond, j)

	root, err := HoistCrossJoinFilters(filter)
	require.NoError(t, err)

	f := root.(*plan.Filter)
	newJoin := f.Input().(*plan.Join)
	require.NotNil(t, newJoin.Condition)

	migratedBO, ok := newJoin.Condition.(*expression.BinOper)
	require.True(t, ok)
	require.Equal(t, expression.OpEq, migratedBO.Op)

	keptBO, ok := f.Condition.(*expression.BinOper)
	require.True(t, ok)
	require.Equal(t, expression.OpGt, keptBO.Op)
}

func TestEliminateDeadColumnsTrimsTrailingColumns(t *testing.T) {
	s := scan(0, "a", "b", "c")
	proj := plan.NewProject(1, []expression.Expr{colref(s, 0), colref(s, 1), colref(s, 2)}, []string{"a", "b", "c"}, s)
	root := plan.NewFilter(2, colref(proj, 0), proj)

	rewritten, err := EliminateDeadColumns(root)
	require.NoError(t, err)

	f := rewritten.(*plan.Filter)
	narrowed := f.Input().(*plan.Project)
	require.Len(t, narrowed.Exprs, 1)
}

func TestEliminateDeadColumnsNeverTrimsRoot(t *testing.T) {
	s := scan(0, "a", "b")
	proj := plan.NewProject(1, []expression.Expr{colref(s, 0), colref(s, 1)}, []string{"a", "b"}, s)

	rewritten, err := EliminateDeadColumns(proj)
	require.NoError(t, err)
	require.Len(t, rewritten.Schema(), 2)
}

func TestSeparateWindowFunctionsSplitsNestedWindow(t *testing.T) {
	s := scan(0, "a")
	wf := expression.NewWindowFunction(types.NewInteger(8, false), expression.WinRowNumber, nil, nil, nil, "")
	nested := expression.NewBinOper(types.NewInteger(8, false), expression.OpAdd, expression.QualOne, wf, expression.NewConstant(types.NewInteger(8, false), int64(1)))
	proj := plan.NewProject(1, []expression.Expr{colref(s, 0), nested}, []string{"a", "wf_plus_one"}, s)

	root, err := SeparateWindowFunctions(proj)
	require.NoError(t, err)

	upper := root.(*plan.Project)
	lower, ok := upper.Input().(*plan.Project)
	require.True(t, ok, "a nested window function must produce a lower project")

	foundWF := false
	for _, e := range lower.Exprs {
		if _, ok := e.(*expression.WindowFunction); ok {
			foundWF = true
		}
	}
	require.True(t, foundWF)

	upperBO, ok := upper.Exprs[1].(*expression.BinOper)
	require.True(t, ok)
	ref, ok := upperBO.LHS.(*expression.ColumnRef)
	require.True(t, ok)
	require.Equal(t, lower.ID(), ref.ProducingNodeID)
}

func TestSeparateWindowFunctionsLeavesTopLevelWindowAlone(t *testing.T) {
	s := scan(0, "a")
	wf := expression.NewWindowFunction(types.NewInteger(8, false), expression.WinRowNumber, nil, nil, nil, "")
	proj := plan.NewProject(1, []expression.Expr{colref(s, 0), wf}, []string{"a", "rn"}, s)

	root, err := SeparateWindowFunctions(proj)
	require.NoError(t, err)
	require.Same(t, proj, root)
}

func TestPipelineRunsFullDAGWithoutError(t *testing.T) {
	left := scan(0, "id", "name")
	right := scan(1, "id", "amount")
	j := plan.NewJoin(2, left, right, expression.NewBinOper(types.NewBoolean(false), expression.OpEq, expression.QualOne, colref(left, 0), colref(right, 0)), plan.JoinInner)
	filter := plan.NewFilter(3, expression.NewBinOper(types.NewBoolean(false), expression.OpGt, expression.QualOne, colref(j, 3), expression.NewConstant(types.NewInteger(8, false), int64(0))), j)
	proj := plan.NewProject(4, []expression.Expr{colref(filter, 1)}, []string{"name"}, filter)

	root, err := Pipeline(proj)
	require.NoError(t, err)
	require.Len(t, root.Schema(), 1)
	require.Equal(t, "name", root.Schema()[0].Name)
}

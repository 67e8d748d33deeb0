package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

type fakeSchema struct{}

func (fakeSchema) TableSchema(dbName, tableName string) (TableInfo, []expression.ColumnInfo, error) {
	return TableInfo{Name: tableName, DBName: dbName},
		[]expression.ColumnInfo{
			{TableID: 1, Name: "id", Type: types.NewInteger(8, false), ColIndex: 0},
			{TableID: 1, Name: "amount", Type: types.NewFloatingPoint(types.Fp64, true), ColIndex: 1},
		}, nil
}

func TestBuildScanProjectFilter(t *testing.T) {
	doc := []byte(`{
		"rels": [
			{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
			{"id": "1", "relOp": "LogicalFilter", "inputs": ["0"],
			 "condition": {"op": ">", "operands": [
				{"input": 1}, {"literal": 100.0, "type": {"type": "DOUBLE", "nullable": true}}
			 ]}},
			{"id": "2", "relOp": "LogicalProject", "inputs": ["1"], "fields": ["id"],
			 "exprs": [{"input": 0}]}
		]
	}`)

	root, err := NewBuilder(fakeSchema{}).Build(doc)
	require.NoError(t, err)

	proj, ok := root.(*Project)
	require.True(t, ok)
	require.Len(t, proj.Schema(), 1)
	require.Equal(t, "id", proj.Schema()[0].Name)

	filter, ok := proj.Input().(*Filter)
	require.True(t, ok)
	bo, ok := filter.Condition.(*expression.BinOper)
	require.True(t, ok)
	require.Equal(t, expression.OpGt, bo.Op)
}

func TestBuildAggregateWithGroupBy(t *testing.T) {
	doc := []byte(`{
		"rels": [
			{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
			{"id": "1", "relOp": "LogicalAggregate", "inputs": ["0"],
			 "group": [0], "fields": ["id", "total"],
			 "aggs": [{"agg": "SUM", "operands": [1], "type": {"type": "DOUBLE", "nullable": true}}]}
		]
	}`)

	root, err := NewBuilder(fakeSchema{}).Build(doc)
	require.NoError(t, err)

	agg, ok := root.(*Aggregate)
	require.True(t, ok)
	require.Equal(t, 1, agg.GroupByCount)
	require.Len(t, agg.Aggs, 1)
	require.Equal(t, expression.AggSum, agg.Aggs[0].Kind)
	require.Len(t, agg.Schema(), 2)
}

func TestBuildJoinAndSort(t *testing.T) {
	doc := []byte(`{
		"rels": [
			{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
			{"id": "1", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
			{"id": "2", "relOp": "LogicalJoin", "inputs": ["0", "1"], "joinType": "inner",
			 "condition": {"op": "=", "operands": [{"input": 0}, {"input": 2}]}},
			{"id": "3", "relOp": "LogicalSort", "inputs": ["2"],
			 "collation": [{"field": 0, "direction": "ASCENDING", "nulls": "LAST"}],
			 "fetch": {"literal": 10}}
		]
	}`)

	root, err := NewBuilder(fakeSchema{}).Build(doc)
	require.NoError(t, err)

	sort, ok := root.(*Sort)
	require.True(t, ok)
	require.Equal(t, int64(10), sort.Limit)

	join, ok := sort.Input().(*Join)
	require.True(t, ok)
	require.Len(t, join.Schema(), 4)
}

func TestBuildUnknownRelOpIsNotSupported(t *testing.T) {
	doc := []byte(`{"rels": [{"id": "0", "relOp": "LogicalWindow"}]}`)
	_, err := NewBuilder(fakeSchema{}).Build(doc)
	require.Error(t, err)
}

func TestBuildInSubquery(t *testing.T) {
	doc := []byte(`{
		"rels": [
			{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
			{"id": "1", "relOp": "LogicalFilter", "inputs": ["0"],
			 "condition": {"op": "IN", "operands": [
				{"input": 0},
				{"subquery": {"rels": [
					{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
					{"id": "1", "relOp": "LogicalProject", "inputs": ["0"], "fields": ["id"],
					 "exprs": [{"input": 0}]}
				]}}
			 ]}}
		]
	}`)

	b := NewBuilder(fakeSchema{})
	root, err := b.Build(doc)
	require.NoError(t, err)

	filter := root.(*Filter)
	inSub, ok := filter.Condition.(*expression.InSubquery)
	require.True(t, ok)
	require.Len(t, b.Subqueries, 1)
	require.Equal(t, types.KindInteger, inSub.Result.OutputType(0).Kind())
}

func TestBuildDecimalLiteralParsesExactScaledValue(t *testing.T) {
	doc := []byte(`{
		"rels": [
			{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
			{"id": "1", "relOp": "LogicalFilter", "inputs": ["0"],
			 "condition": {"op": ">", "operands": [
				{"input": 0},
				{"literal": "19.99", "type": {"type": "DECIMAL(10,2)", "nullable": false}}
			 ]}},
			{"id": "2", "relOp": "LogicalProject", "inputs": ["1"], "fields": ["id"],
			 "exprs": [{"input": 0}]}
		]
	}`)

	root, err := NewBuilder(fakeSchema{}).Build(doc)
	require.NoError(t, err)

	filter := root.(*Project).Input().(*Filter)
	bo := filter.Condition.(*expression.BinOper)
	lit := bo.RHS.(*expression.Constant)
	require.Equal(t, int64(1999), lit.Datum)
	dec := lit.Type().(*types.Decimal64Type)
	require.Equal(t, 10, dec.Precision)
	require.Equal(t, 2, dec.Scale)
}

func TestBuildDecimalLiteralRejectsExcessFractionalDigits(t *testing.T) {
	doc := []byte(`{
		"rels": [
			{"id": "0", "relOp": "LogicalTableScan", "table": ["db", "orders"]},
			{"id": "1", "relOp": "LogicalFilter", "inputs": ["0"],
			 "condition": {"op": ">", "operands": [
				{"input": 1},
				{"literal": "19.999", "type": {"type": "DECIMAL(10,2)", "nullable": false}}
			 ]}}
		]
	}`)

	_, err := NewBuilder(fakeSchema{}).Build(doc)
	require.Error(t, err)
}

func TestParseFieldTypeAcceptsDecimalParameters(t *testing.T) {
	typ, err := ParseFieldType("decimal(12,4)", true)
	require.NoError(t, err)
	dec, ok := typ.(*types.Decimal64Type)
	require.True(t, ok)
	require.Equal(t, 12, dec.Precision)
	require.Equal(t, 4, dec.Scale)
	require.True(t, dec.Nullable())
}

package plan

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// SchemaProvider resolves a scanned table name to its TableInfo and column
// metadata. It is an external collaborator: the catalog/metadata
// store that owns table definitions is out of this package's scope.
type SchemaProvider interface {
	TableSchema(dbName, tableName string) (TableInfo, []expression.ColumnInfo, error)
}

// Builder parses a JSON plan document into a relational-algebra DAG. It is deterministic and side-effect free except for appending
// encountered subquery roots to Subqueries.
type Builder struct {
	schema     SchemaProvider
	nodes      []Node
	Subqueries []Node
}

func NewBuilder(schema SchemaProvider) *Builder {
	return &Builder{schema: schema}
}

// planDoc is the top-level {"rels": [...]} document.
type planDoc struct {
	Rels []json.RawMessage `json:"rels"`
}

// relEnvelope carries every field any relOp might use; only the fields
// relevant to a given relOp are read.
type relEnvelope struct {
	RelOp  string          `json:"relOp"`
	ID     json.Number     `json:"id"`
	Inputs []string        `json:"inputs"`
	Table  []string        `json:"table"`
	Fields []string        `json:"fields"`

	Exprs []json.RawMessage `json:"exprs"`

	Condition json.RawMessage `json:"condition"`

	Group json.RawMessage   `json:"group"`
	Aggs  []json.RawMessage `json:"aggs"`

	JoinType string `json:"joinType"`

	Collation []rawCollation `json:"collation"`
	Fetch     json.RawMessage `json:"fetch"`
	Offset    json.RawMessage `json:"offset"`

	All bool `json:"all"`

	RowType  []rawField        `json:"rowType"`
	TupleSet [][]json.RawMessage `json:"inputsRows"`
}

type rawCollation struct {
	Field     int    `json:"field"`
	Direction string `json:"direction"`
	Nulls     string `json:"nulls"`
}

type rawField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Build parses doc (the {"rels": [...]} JSON) into the DAG's root node.
func (b *Builder) Build(doc []byte) (Node, error) {
	var pd planDoc
	if err := json.Unmarshal(doc, &pd); err != nil {
		return nil, sql.ErrNotSupported.New("malformed plan document: " + err.Error())
	}
	b.nodes = make([]Node, 0, len(pd.Rels))
	for idx, raw := range pd.Rels {
		var env relEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, sql.ErrNotSupported.New("malformed rel at index " + strconv.Itoa(idx) + ": " + err.Error())
		}
		node, err := b.dispatch(idx, &env)
		if err != nil {
			return nil, err
		}
		b.nodes = append(b.nodes, node)
	}
	if len(b.nodes) == 0 {
		return nil, sql.ErrNotSupported.New("empty plan")
	}
	return b.nodes[len(b.nodes)-1], nil
}

func (b *Builder) dispatch(id int, env *relEnvelope) (Node, error) {
	switch env.RelOp {
	case "LogicalTableScan", "EnumerableTableScan":
		return b.dispatchScan(id, env)
	case "LogicalProject":
		return b.dispatchProject(id, env)
	case "LogicalFilter":
		return b.dispatchFilter(id, env)
	case "LogicalAggregate":
		return b.dispatchAggregate(id, env)
	case "LogicalJoin":
		return b.dispatchJoin(id, env)
	case "LogicalSort":
		return b.dispatchSort(id, env)
	case "LogicalValues":
		return b.dispatchValues(id, env)
	case "LogicalUnion":
		return b.dispatchUnion(id, env)
	default:
		return nil, sql.ErrNotSupported.New("relOp " + env.RelOp + " not supported")
	}
}

func (b *Builder) inputNodes(env *relEnvelope) ([]Node, error) {
	out := make([]Node, 0, len(env.Inputs))
	for _, idStr := range env.Inputs {
		id, err := strconv.Atoi(idStr)
		if err != nil || id < 0 || id >= len(b.nodes) {
			return nil, sql.ErrNotSupported.New("invalid input reference " + idStr)
		}
		out = append(out, b.nodes[id])
	}
	return out, nil
}

// scopeColumnRefs produces the ColumnRef vector an "input" expression
// ordinal indexes into: the concatenation of every input node's output
// columns, in order.
func scopeColumnRefs(inputs ...Node) []expression.Expr {
	var out []expression.Expr
	for _, n := range inputs {
		schema := n.Schema()
		for i, f := range schema {
			out = append(out, expression.NewColumnRef(f.Type, n.ID(), i))
		}
	}
	return out
}

func (b *Builder) dispatchScan(id int, env *relEnvelope) (Node, error) {
	if len(env.Table) == 0 {
		return nil, sql.ErrNotSupported.New("scan node missing table reference")
	}
	dbName, tableName := "", env.Table[len(env.Table)-1]
	if len(env.Table) >= 2 {
		dbName = env.Table[len(env.Table)-2]
	}
	tinfo, cols, err := b.schema.TableSchema(dbName, tableName)
	if err != nil {
		return nil, err
	}
	if len(env.Fields) > 0 && len(env.Fields) == len(cols) {
		for i := range cols {
			cols[i].Name = env.Fields[i]
		}
	}
	return NewScan(id, tinfo, cols), nil
}

func (b *Builder) dispatchProject(id int, env *relEnvelope) (Node, error) {
	inputs, err := b.inputNodes(env)
	if err != nil {
		return nil, err
	}
	if len(inputs) != 1 {
		return nil, sql.ErrInvalidExpression.New("Project expects exactly 1 input")
	}
	scope := scopeColumnRefs(inputs[0])
	exprs := make([]expression.Expr, len(env.Exprs))
	for i, raw := range env.Exprs {
		e, err := b.parseExpr(raw, scope)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	fieldNames := env.Fields
	if len(fieldNames) != len(exprs) {
		fieldNames = make([]string, len(exprs))
		for i := range fieldNames {
			fieldNames[i] = "expr$" + strconv.Itoa(i)
		}
	}
	return NewProject(id, exprs, fieldNames, inputs[0]), nil
}

func (b *Builder) dispatchFilter(id int, env *relEnvelope) (Node, error) {
	inputs, err := b.inputNodes(env)
	if err != nil {
		return nil, err
	}
	if len(inputs) != 1 {
		return nil, sql.ErrInvalidExpression.New("Filter expects exactly 1 input")
	}
	cond, err := b.parseExpr(env.Condition, scopeColumnRefs(inputs[0]))
	if err != nil {
		return nil, err
	}
	return NewFilter(id, cond, inputs[0]), nil
}

func (b *Builder) dispatchAggregate(id int, env *relEnvelope) (Node, error) {
	inputs, err := b.inputNodes(env)
	if err != nil {
		return nil, err
	}
	if len(inputs) != 1 {
		return nil, sql.ErrInvalidExpression.New("Aggregate expects exactly 1 input")
	}
	var groupIdx []int
	if len(env.Group) > 0 {
		if err := json.Unmarshal(env.Group, &groupIdx); err != nil {
			return nil, sql.ErrNotSupported.New("malformed group array: " + err.Error())
		}
	}
	scope := scopeColumnRefs(inputs[0])
	aggs := make([]*expression.AggExpr, len(env.Aggs))
	fieldNames := env.Fields
	for i, raw := range env.Aggs {
		agg, err := b.parseAgg(raw, scope)
		if err != nil {
			return nil, err
		}
		aggs[i] = agg
	}
	if len(fieldNames) != len(groupIdx)+len(aggs) {
		fieldNames = make([]string, len(groupIdx)+len(aggs))
		for i := range fieldNames {
			fieldNames[i] = "agg$" + strconv.Itoa(i)
		}
	}
	return NewAggregate(id, len(groupIdx), aggs, fieldNames, inputs[0]), nil
}

func (b *Builder) parseAgg(raw json.RawMessage, scope []expression.Expr) (*expression.AggExpr, error) {
	var obj struct {
		Agg         string          `json:"agg"`
		Type        rawField        `json:"type"`
		Operands    []int           `json:"operands"`
		Distinct    bool            `json:"distinct"`
		Interpolation string        `json:"interpolation"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, sql.ErrNotSupported.New("malformed aggregate expression: " + err.Error())
	}
	kind, err := parseAggKind(obj.Agg)
	if err != nil {
		return nil, err
	}
	var arg, arg1 expression.Expr
	if len(obj.Operands) > 0 {
		if obj.Operands[0] >= len(scope) {
			return nil, sql.ErrInvalidExpression.New("aggregate operand out of scope")
		}
		arg = scope[obj.Operands[0]]
	}
	if len(obj.Operands) > 1 {
		if obj.Operands[1] >= len(scope) {
			return nil, sql.ErrInvalidExpression.New("aggregate operand out of scope")
		}
		arg1 = scope[obj.Operands[1]]
	}
	resultType, err := fieldType(obj.Type)
	if err != nil {
		if arg != nil {
			resultType = arg.Type()
		} else {
			resultType = types.Int64
		}
	}
	interp := parseInterpolation(obj.Interpolation)
	return expression.NewAggExpr(resultType, kind, arg, obj.Distinct, arg1, interp), nil
}

func parseAggKind(name string) (expression.AggKind, error) {
	switch strings.ToUpper(name) {
	case "COUNT":
		return expression.AggCount, nil
	case "MIN":
		return expression.AggMin, nil
	case "MAX":
		return expression.AggMax, nil
	case "SUM":
		return expression.AggSum, nil
	case "AVG":
		return expression.AggAvg, nil
	case "SINGLE_VALUE":
		return expression.AggSingleValue, nil
	case "SAMPLE":
		return expression.AggSample, nil
	case "APPROX_COUNT_DISTINCT":
		return expression.AggApproxCountDistinct, nil
	case "APPROX_QUANTILE":
		return expression.AggApproxQuantile, nil
	case "QUANTILE":
		return expression.AggQuantile, nil
	case "TOP_K":
		return expression.AggTopK, nil
	default:
		return 0, sql.ErrNotSupported.New("aggregate kind " + name + " not supported")
	}
}

func parseInterpolation(s string) expression.Interpolation {
	switch strings.ToUpper(s) {
	case "LOWER":
		return expression.InterpolationLower
	case "HIGHER":
		return expression.InterpolationHigher
	case "NEAREST":
		return expression.InterpolationNearest
	default:
		return expression.InterpolationLinear
	}
}

func (b *Builder) dispatchJoin(id int, env *relEnvelope) (Node, error) {
	inputs, err := b.inputNodes(env)
	if err != nil {
		return nil, err
	}
	if len(inputs) != 2 {
		return nil, sql.ErrInvalidExpression.New("Join expects exactly 2 inputs")
	}
	kind, err := parseJoinKind(env.JoinType)
	if err != nil {
		return nil, err
	}
	scope := scopeColumnRefs(inputs[0], inputs[1])
	cond, err := b.parseExpr(env.Condition, scope)
	if err != nil {
		return nil, err
	}
	return NewJoin(id, inputs[0], inputs[1], cond, kind), nil
}

func parseJoinKind(s string) (JoinKind, error) {
	switch strings.ToLower(s) {
	case "inner":
		return JoinInner, nil
	case "left":
		return JoinLeft, nil
	case "semi":
		return JoinSemi, nil
	case "anti":
		return JoinAnti, nil
	default:
		return 0, sql.ErrNotSupported.New("join type " + s + " not supported")
	}
}

func (b *Builder) dispatchSort(id int, env *relEnvelope) (Node, error) {
	inputs, err := b.inputNodes(env)
	if err != nil {
		return nil, err
	}
	if len(inputs) != 1 {
		return nil, sql.ErrInvalidExpression.New("Sort expects exactly 1 input")
	}
	scope := scopeColumnRefs(inputs[0])
	collations := make([]Collation, len(env.Collation))
	for i, c := range env.Collation {
		if c.Field >= len(scope) {
			return nil, sql.ErrInvalidExpression.New("sort field out of scope")
		}
		collations[i] = Collation{
			Expr:      scope[c.Field],
			Ascending: !strings.EqualFold(c.Direction, "DESCENDING"),
			NullsLast: !strings.EqualFold(c.Nulls, "FIRST"),
		}
	}
	limit := intLiteralField(env.Fetch, -1)
	offset := intLiteralField(env.Offset, 0)
	return NewSort(id, collations, limit, offset, inputs[0]), nil
}

// intLiteralField reads a {"literal": N, ...} expression embedded directly
// as a rel field (Calcite emits LIMIT/OFFSET this way rather than as a
// child expression).
func intLiteralField(raw json.RawMessage, def int64) int64 {
	if len(raw) == 0 {
		return def
	}
	var obj struct {
		Literal json.Number `json:"literal"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Literal == "" {
		return def
	}
	n, err := obj.Literal.Int64()
	if err != nil {
		return def
	}
	return n
}

func (b *Builder) dispatchValues(id int, env *relEnvelope) (Node, error) {
	schema := make(Schema, len(env.RowType))
	for i, f := range env.RowType {
		typ, err := fieldType(f)
		if err != nil {
			return nil, err
		}
		schema[i] = Field{Name: f.Name, Type: typ}
	}
	rows := make([][]any, len(env.TupleSet))
	for r, tuple := range env.TupleSet {
		row := make([]any, len(tuple))
		for c, raw := range tuple {
			var obj struct {
				Literal json.RawMessage `json:"literal"`
			}
			if err := json.Unmarshal(raw, &obj); err != nil {
				return nil, sql.ErrNotSupported.New("malformed LogicalValues cell: " + err.Error())
			}
			var datum any
			if err := json.Unmarshal(obj.Literal, &datum); err != nil {
				return nil, sql.ErrNotSupported.New("malformed LogicalValues literal: " + err.Error())
			}
			if datum != nil && c < len(schema) {
				datum = coerceLiteral(datum, schema[c].Type)
			}
			row[c] = datum
		}
		rows[r] = row
	}
	return NewLogicalValues(id, schema, rows), nil
}

// coerceLiteral converts a generically JSON-decoded literal (numbers
// always surface as float64) into the Go type sql.Row values of typ
// actually carry at evaluation time (int64 for integers, bool for
// booleans, float64 for floats, string for text) — the same
// representation compileConstant and the codegen arithmetic/comparison
// helpers expect, so a row function receives the same value shapes
// whether the row came from a VALUES literal or a ColumnVar slot.
func coerceLiteral(datum any, typ types.Type) any {
	switch typ.Kind() {
	case types.KindInteger, types.KindDecimal64, types.KindDate, types.KindTime, types.KindTimestamp, types.KindInterval:
		if f, ok := datum.(float64); ok {
			return int64(f)
		}
	case types.KindFloatingPoint:
		if f, ok := datum.(float64); ok {
			return f
		}
	case types.KindBoolean:
		if b, ok := datum.(bool); ok {
			return b
		}
	}
	return datum
}

func (b *Builder) dispatchUnion(id int, env *relEnvelope) (Node, error) {
	inputs, err := b.inputNodes(env)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, sql.ErrInvalidExpression.New("LogicalUnion expects at least 1 input")
	}
	return NewLogicalUnion(id, inputs, env.All), nil
}

// ParseFieldType decodes a JSON plan's field-type name into a types.Type, exported
// so external SchemaProviders (cmd/qkernelc's file-backed catalog) can
// decode table-column types the same way a rowType entry's type is
// decoded, without duplicating the name table.
func ParseFieldType(name string, nullable bool) (types.Type, error) {
	return fieldType(rawField{Type: name, Nullable: nullable})
}

func fieldType(f rawField) (types.Type, error) {
	var base types.Type
	switch strings.ToUpper(f.Type) {
	case "BIGINT":
		base = types.NewInteger(8, f.Nullable)
	case "INTEGER", "INT":
		base = types.NewInteger(4, f.Nullable)
	case "SMALLINT":
		base = types.NewInteger(2, f.Nullable)
	case "TINYINT":
		base = types.NewInteger(1, f.Nullable)
	case "DOUBLE", "FLOAT64":
		base = types.NewFloatingPoint(types.Fp64, f.Nullable)
	case "REAL", "FLOAT", "FLOAT32":
		base = types.NewFloatingPoint(types.Fp32, f.Nullable)
	case "BOOLEAN":
		base = types.NewBoolean(f.Nullable)
	case "VARCHAR", "CHAR", "TEXT":
		base = types.NewText(f.Nullable)
	default:
		if precision, scale, ok := parseDecimalTypeName(f.Type); ok {
			dec, err := types.NewDecimal64Checked(precision, scale, f.Nullable)
			if err != nil {
				return nil, sql.ErrNotSupported.New(err.Error())
			}
			return dec, nil
		}
		return nil, sql.ErrNotSupported.New("field type " + f.Type + " not supported")
	}
	return base, nil
}

// parseDecimalTypeName recognizes "DECIMAL(precision,scale)" (the
// Decimal64 type, absent from the plain BIGINT/DOUBLE/... names above
// because it carries parameters). Returns ok=false for anything else,
// including a bare "DECIMAL" with no parameters.
func parseDecimalTypeName(name string) (precision, scale int, ok bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(upper, "DECIMAL(") || !strings.HasSuffix(upper, ")") {
		return 0, 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(upper, "DECIMAL("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	p, errP := strconv.Atoi(strings.TrimSpace(parts[0]))
	s, errS := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errP != nil || errS != nil {
		return 0, 0, false
	}
	return p, s, true
}


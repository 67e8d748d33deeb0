package plan

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// rawExpr carries every field any expression shape might use; parseExpr
// dispatches on which keys are present, mirroring the "input"/"literal"/
// "op" discrimination of
type rawExpr struct {
	Input *int `json:"input"`

	Literal    json.RawMessage `json:"literal"`
	Type       *rawField       `json:"type"`
	TargetType *rawField       `json:"target_type"`

	Op       string            `json:"op"`
	Operands []json.RawMessage `json:"operands"`

	// CASE: flattened [cond0, val0, cond1, val1, ..., elseVal?] operands,
	// matching Calcite's ROW/CASE operand layout.
	Window *rawWindow `json:"window"`

	Subquery json.RawMessage `json:"subquery"`
}

type rawWindow struct {
	AggOp         string         `json:"aggOp"`
	Operands      []int          `json:"operands"`
	PartitionKeys []int          `json:"partitionKeys"`
	OrderKeys     []rawCollation `json:"orderKeys"`
}

// parseExpr parses a single expression JSON node against scope, the
// ColumnRef vector produced by scopeColumnRefs for the node's input(s).
func (b *Builder) parseExpr(raw json.RawMessage, scope []expression.Expr) (expression.Expr, error) {
	if len(raw) == 0 {
		return nil, sql.ErrInvalidExpression.New("missing expression")
	}
	var e rawExpr
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, sql.ErrNotSupported.New("malformed expression: " + err.Error())
	}

	switch {
	case e.Input != nil:
		if *e.Input < 0 || *e.Input >= len(scope) {
			return nil, sql.ErrInvalidExpression.New("input ordinal out of scope: " + strconv.Itoa(*e.Input))
		}
		return scope[*e.Input], nil
	case len(e.Subquery) > 0:
		root, err := b.parseSubquery(e.Subquery)
		if err != nil {
			return nil, err
		}
		return expression.NewScalarSubquery(root), nil
	case len(e.Literal) > 0 || e.Type != nil && e.Op == "":
		return b.parseLiteral(&e)
	case e.Window != nil:
		return b.parseWindow(&e, scope)
	case e.Op != "":
		return b.parseOp(&e, scope)
	default:
		return nil, sql.ErrNotSupported.New("expression shape not recognized")
	}
}

// parseSubquery builds a nested {"rels": [...]} plan as a standalone DAG
// and registers its root as an owned subquery. The
// nested builder shares no input scope with the enclosing node: its leaf
// Scans are resolved the same way a top-level plan's are.
func (b *Builder) parseSubquery(doc json.RawMessage) (expression.SubqueryNode, error) {
	sub := NewBuilder(b.schema)
	root, err := sub.Build(doc)
	if err != nil {
		return nil, err
	}
	subqueryRoot, ok := root.(expression.SubqueryNode)
	if !ok {
		return nil, sql.ErrNotSupported.New("subquery root does not expose a column type")
	}
	b.Subqueries = append(b.Subqueries, root)
	b.Subqueries = append(b.Subqueries, sub.Subqueries...)
	return subqueryRoot, nil
}

// parseLiteral handles the typed-datum literal form. The "hijacked cast"
// form, CAST('string' AS TIMESTAMP(6|9)), does not come through here: parseOp
// checks for it itself.
func (b *Builder) parseLiteral(e *rawExpr) (expression.Expr, error) {
	if e.Type == nil {
		return nil, sql.ErrInvalidExpression.New("literal missing type")
	}
	typ, err := fieldType(*e.Type)
	if err != nil {
		return nil, err
	}
	if len(e.Literal) == 0 || string(e.Literal) == "null" {
		return expression.NewNullConstant(typ.WithNullable(true)), nil
	}

	switch t := typ.(type) {
	case *types.IntegerType:
		var n int64
		if err := json.Unmarshal(e.Literal, &n); err != nil {
			return nil, sql.ErrInvalidExpression.New("malformed integer literal: " + err.Error())
		}
		return expression.AnalyzeIntValue(n), nil
	case *types.FloatingPointType:
		var f float64
		if err := json.Unmarshal(e.Literal, &f); err != nil {
			return nil, sql.ErrInvalidExpression.New("malformed float literal: " + err.Error())
		}
		return expression.NewConstant(t, f), nil
	case *types.BooleanType:
		var bv bool
		if err := json.Unmarshal(e.Literal, &bv); err != nil {
			return nil, sql.ErrInvalidExpression.New("malformed boolean literal: " + err.Error())
		}
		return expression.NewConstant(t, bv), nil
	case *types.TextType:
		var s string
		if err := json.Unmarshal(e.Literal, &s); err != nil {
			return nil, sql.ErrInvalidExpression.New("malformed string literal: " + err.Error())
		}
		return expression.AnalyzeStringValue(s), nil
	case *types.Decimal64Type:
		return parseDecimalLiteral(e.Literal, t)
	default:
		var raw any
		if err := json.Unmarshal(e.Literal, &raw); err != nil {
			return nil, sql.ErrInvalidExpression.New("malformed literal: " + err.Error())
		}
		return expression.NewConstant(typ, raw), nil
	}
}

// parseDecimalLiteral turns a JSON decimal literal ("123.45", exact
// base-10 text so a binary float64 round-trip never perturbs the
// fraction) into the unscaled int64 representation Decimal64 actually
// stores, the way AnalyzeFixedPtValue expects to receive it.
func parseDecimalLiteral(raw json.RawMessage, t *types.Decimal64Type) (expression.Expr, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, sql.ErrInvalidExpression.New("decimal literal must be a base-10 string: " + err.Error())
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, sql.ErrInvalidExpression.New("malformed decimal literal " + s + ": " + err.Error())
	}
	unscaled := d.Shift(int32(t.Scale))
	if !unscaled.IsInteger() {
		return nil, sql.ErrInvalidExpression.New("decimal literal " + s + " has more fractional digits than scale " + strconv.Itoa(t.Scale) + " allows")
	}
	if !unscaled.BigInt().IsInt64() {
		return nil, sql.ErrInvalidExpression.New("decimal literal " + s + " overflows DECIMAL(" + strconv.Itoa(t.Precision) + "," + strconv.Itoa(t.Scale) + ")")
	}
	return expression.AnalyzeFixedPtValue(unscaled.IntPart(), t.Precision, t.Scale), nil
}

func (b *Builder) parseOperands(e *rawExpr, scope []expression.Expr) ([]expression.Expr, error) {
	out := make([]expression.Expr, len(e.Operands))
	for i, raw := range e.Operands {
		arg, err := b.parseExpr(raw, scope)
		if err != nil {
			return nil, err
		}
		out[i] = arg
	}
	return out, nil
}

func (b *Builder) parseOp(e *rawExpr, scope []expression.Expr) (expression.Expr, error) {
	op := strings.ToUpper(e.Op)

	// The hijacked high-precision-timestamp cast: CAST applied to a literal
	// operand with a TIMESTAMP target type. fieldType has no TIMESTAMP type
	// name, so this path returns fieldType's ErrNotSupported; no timestamp
	// constant is built for it. A TIMESTAMP CAST whose operand is not a
	// literal falls through to the switch below.
	if op == "CAST" && e.TargetType != nil && strings.EqualFold(e.TargetType.Type, "TIMESTAMP") && len(e.Operands) == 1 {
		var inner rawExpr
		if err := json.Unmarshal(e.Operands[0], &inner); err == nil && len(inner.Literal) > 0 {
			targetType, err := fieldType(*e.TargetType)
			if err != nil {
				return nil, err
			}
			var s string
			if err := json.Unmarshal(inner.Literal, &s); err == nil {
				return expression.NewConstant(targetType, s), nil
			}
		}
	}

	switch op {
	case "CASE":
		return b.parseCase(e, scope)
	case "$SCALAR_QUERY", "SCALAR_SUBQUERY":
		return nil, sql.ErrNotSupported.New("scalar subquery must be wired through a registered subquery root")
	case "NOT":
		args, err := b.parseOperands(e, scope)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, sql.ErrInvalidExpression.New("NOT expects 1 operand")
		}
		return expression.NewUOper(types.NewBoolean(args[0].Type().Nullable()), expression.OpNot, args[0]), nil
	case "IS NULL", "IS_NULL":
		args, err := b.parseOperands(e, scope)
		if err != nil {
			return nil, err
		}
		return expression.NewUOper(types.NewBoolean(false), expression.OpIsNull, args[0]), nil
	case "-", "MINUS", "UMINUS":
		args, err := b.parseOperands(e, scope)
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return expression.NewUOper(args[0].Type(), expression.OpUMinus, args[0]), nil
		}
		return expression.NormalizeBinOper(expression.OpSub, expression.QualOne, args[0], args[1])
	case "CAST":
		args, err := b.parseOperands(e, scope)
		if err != nil {
			return nil, err
		}
		if e.TargetType == nil {
			return nil, sql.ErrInvalidExpression.New("CAST missing target_type")
		}
		targetType, err := fieldType(*e.TargetType)
		if err != nil {
			return nil, err
		}
		return expression.NewUOper(targetType, expression.OpCast, args[0]), nil
	case "LIKE":
		args, err := b.parseOperands(e, scope)
		if err != nil {
			return nil, err
		}
		var escape expression.Expr
		if len(args) > 2 {
			escape = args[2]
		}
		return expression.AnalyzeLike(args[0], args[1], escape)
	case "IN":
		return b.parseIn(e, scope)
	default:
		return b.parseBinaryOrFunction(op, e, scope)
	}
}

var binOpByName = map[string]expression.BinaryOp{
	"+": expression.OpAdd, "PLUS": expression.OpAdd,
	"-": expression.OpSub, "MINUS": expression.OpSub,
	"*": expression.OpMul, "TIMES": expression.OpMul,
	"/": expression.OpDiv, "DIVIDE": expression.OpDiv,
	"%": expression.OpMod, "MOD": expression.OpMod,
	"=": expression.OpEq, "EQUALS": expression.OpEq,
	"<>": expression.OpNotEq, "NOT_EQUALS": expression.OpNotEq,
	"<": expression.OpLt, "LESS_THAN": expression.OpLt,
	"<=": expression.OpLtEq, "LESS_THAN_OR_EQUAL": expression.OpLtEq,
	">": expression.OpGt, "GREATER_THAN": expression.OpGt,
	">=": expression.OpGtEq, "GREATER_THAN_OR_EQUAL": expression.OpGtEq,
	"AND": expression.OpAnd,
	"OR":  expression.OpOr,
	"<=>": expression.OpBwEq, "IS_NOT_DISTINCT_FROM": expression.OpBwEq,
	"ITEM": expression.OpArrayAt,
}

// parseIn handles `arg IN (value_list)` and `arg IN (subquery)` forms: when
// the last operand carries a nested subquery rel instead of a value, the
// result is an InSubquery rather than an InValues.
func (b *Builder) parseIn(e *rawExpr, scope []expression.Expr) (expression.Expr, error) {
	if len(e.Operands) == 0 {
		return nil, sql.ErrInvalidExpression.New("IN requires an argument")
	}
	arg, err := b.parseExpr(e.Operands[0], scope)
	if err != nil {
		return nil, err
	}
	if len(e.Operands) == 2 {
		var tail rawExpr
		if err := json.Unmarshal(e.Operands[1], &tail); err == nil && len(tail.Subquery) > 0 {
			root, err := b.parseSubquery(tail.Subquery)
			if err != nil {
				return nil, err
			}
			return expression.NewInSubquery(arg, root), nil
		}
	}
	values := make([]expression.Expr, 0, len(e.Operands)-1)
	for _, raw := range e.Operands[1:] {
		v, err := b.parseExpr(raw, scope)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return expression.NewInValues(arg, values), nil
}

func (b *Builder) parseBinaryOrFunction(op string, e *rawExpr, scope []expression.Expr) (expression.Expr, error) {
	args, err := b.parseOperands(e, scope)
	if err != nil {
		return nil, err
	}
	if binOp, ok := binOpByName[op]; ok && len(args) == 2 {
		return expression.NormalizeBinOper(binOp, expression.QualOne, args[0], args[1])
	}
	switch op {
	case "CHAR_LENGTH", "CHARACTER_LENGTH":
		return expression.NewCharLengthExpr(args[0]), nil
	case "LOWER":
		return expression.NewLowerExpr(args[0]), nil
	case "CARDINALITY":
		return expression.NewCardinalityExpr(args[0]), nil
	case "WIDTH_BUCKET":
		return expression.NewWidthBucketExpr(args[0], args[1], args[2], args[3]), nil
	case "OFFSET_IN_FRAGMENT":
		return expression.OffsetInFragment{}, nil
	default:
		resultType, err := e.resultType(args)
		if err != nil {
			return nil, err
		}
		return expression.NewFunctionOper(resultType, op, args), nil
	}
}

func (e *rawExpr) resultType(args []expression.Expr) (types.Type, error) {
	if e.Type != nil {
		return fieldType(*e.Type)
	}
	if len(args) > 0 {
		return args[0].Type(), nil
	}
	return nil, sql.ErrTypeInference.New("cannot infer function result type")
}

func (b *Builder) parseCase(e *rawExpr, scope []expression.Expr) (expression.Expr, error) {
	args, err := b.parseOperands(e, scope)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, sql.ErrInvalidExpression.New("CASE requires at least one WHEN/THEN pair")
	}
	hasElse := len(args)%2 == 1
	pairCount := len(args) / 2
	branches := make([]expression.CaseBranch, pairCount)
	for i := 0; i < pairCount; i++ {
		branches[i] = expression.CaseBranch{Cond: args[i*2], Value: args[i*2+1]}
	}
	var elseExpr expression.Expr
	if hasElse {
		elseExpr = args[len(args)-1]
	}
	return expression.NormalizeCase(branches, elseExpr)
}

func (b *Builder) parseWindow(e *rawExpr, scope []expression.Expr) (expression.Expr, error) {
	w := e.Window
	kind, err := parseWindowKind(w.AggOp)
	if err != nil {
		return nil, err
	}
	args := make([]expression.Expr, len(w.Operands))
	for i, idx := range w.Operands {
		if idx >= len(scope) {
			return nil, sql.ErrInvalidExpression.New("window operand out of scope")
		}
		args[i] = scope[idx]
	}
	partitionKeys := make([]expression.Expr, len(w.PartitionKeys))
	for i, idx := range w.PartitionKeys {
		if idx >= len(scope) {
			return nil, sql.ErrInvalidExpression.New("window partition key out of scope")
		}
		partitionKeys[i] = scope[idx]
	}
	orderKeys := make([]expression.OrderKey, len(w.OrderKeys))
	for i, c := range w.OrderKeys {
		if c.Field >= len(scope) {
			return nil, sql.ErrInvalidExpression.New("window order key out of scope")
		}
		orderKeys[i] = expression.OrderKey{
			Expr:      scope[c.Field],
			Ascending: !strings.EqualFold(c.Direction, "DESCENDING"),
			NullsLast: !strings.EqualFold(c.Nulls, "FIRST"),
		}
	}
	var resultType types.Type
	if e.Type != nil {
		resultType, err = fieldType(*e.Type)
		if err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		resultType = args[0].Type()
	} else {
		resultType = types.NewInteger(4, true)
	}
	return expression.NewWindowFunction(resultType, kind, args, partitionKeys, orderKeys, ""), nil
}

func parseWindowKind(name string) (expression.WindowKind, error) {
	switch strings.ToUpper(name) {
	case "ROW_NUMBER":
		return expression.WinRowNumber, nil
	case "RANK":
		return expression.WinRank, nil
	case "DENSE_RANK":
		return expression.WinDenseRank, nil
	case "PERCENT_RANK":
		return expression.WinPercentRank, nil
	case "CUME_DIST":
		return expression.WinCumeDist, nil
	case "NTILE":
		return expression.WinNTile, nil
	case "LAG":
		return expression.WinLag, nil
	case "LEAD":
		return expression.WinLead, nil
	case "FIRST_VALUE":
		return expression.WinFirstValue, nil
	case "LAST_VALUE":
		return expression.WinLastValue, nil
	case "AVG":
		return expression.WinAvg, nil
	case "MIN":
		return expression.WinMin, nil
	case "MAX":
		return expression.WinMax, nil
	case "SUM":
		return expression.WinSum, nil
	case "COUNT":
		return expression.WinCount, nil
	default:
		return 0, sql.ErrNotSupported.New("window function " + name + " not supported")
	}
}

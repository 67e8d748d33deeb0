package expression

import (
	"fmt"
	"strings"

	"github.com/heavyql/qkernel/sql/types"
)

// WindowKind enumerates WindowFunction kinds.
type WindowKind int

const (
	WinRowNumber WindowKind = iota
	WinRank
	WinDenseRank
	WinPercentRank
	WinCumeDist
	WinNTile
	WinLag
	WinLead
	WinFirstValue
	WinLastValue
	WinAvg
	WinMin
	WinMax
	WinSum
	WinCount
	WinSumInternal
)

func (k WindowKind) String() string {
	return [...]string{
		"ROW_NUMBER", "RANK", "DENSE_RANK", "PERCENT_RANK", "CUME_DIST", "NTILE",
		"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "AVG", "MIN", "MAX", "SUM", "COUNT", "SUM_INTERNAL",
	}[k]
}

// IsRanking reports whether k is one of the ranking functions driven by the
// row_number_window_func runtime.
func (k WindowKind) IsRanking() bool {
	switch k {
	case WinRowNumber, WinRank, WinDenseRank, WinNTile:
		return true
	default:
		return false
	}
}

// IsPercentRanking reports whether k uses the percent_window_func runtime.
func (k WindowKind) IsPercentRanking() bool {
	return k == WinPercentRank || k == WinCumeDist
}

// IsValueFunction reports whether k just reads from a precomputed array
// (Lag/Lead/FirstValue/LastValue).
func (k WindowKind) IsValueFunction() bool {
	switch k {
	case WinLag, WinLead, WinFirstValue, WinLastValue:
		return true
	default:
		return false
	}
}

// IsAggregateWindow reports whether k runs a one-slot accumulator reset at
// each partition boundary.
func (k WindowKind) IsAggregateWindow() bool {
	switch k {
	case WinAvg, WinMin, WinMax, WinSum, WinCount, WinSumInternal:
		return true
	default:
		return false
	}
}

// OrderKey is one ORDER BY entry of a window's frame.
type OrderKey struct {
	Expr      Expr
	Ascending bool
	NullsLast bool
}

// WindowFunction is a window-function expression.
type WindowFunction struct {
	typ           types.Type
	Kind          WindowKind
	Args          []Expr
	PartitionKeys []Expr
	OrderKeys     []OrderKey
	Collation     string
}

func NewWindowFunction(typ types.Type, kind WindowKind, args []Expr, partitionKeys []Expr, orderKeys []OrderKey, collation string) *WindowFunction {
	return &WindowFunction{typ: typ, Kind: kind, Args: args, PartitionKeys: partitionKeys, OrderKeys: orderKeys, Collation: collation}
}

func (w *WindowFunction) Type() types.Type  { return w.typ }
func (w *WindowFunction) ContainsAgg() bool { return false } // windows are handled separately, pass 10
func (w *WindowFunction) Children() []Expr {
	children := make([]Expr, 0, len(w.Args)+len(w.PartitionKeys)+len(w.OrderKeys))
	children = append(children, w.Args...)
	children = append(children, w.PartitionKeys...)
	for _, ok := range w.OrderKeys {
		children = append(children, ok.Expr)
	}
	return children
}
func (w *WindowFunction) DeepCopy() Expr {
	args := deepCopyAll(w.Args)
	parts := deepCopyAll(w.PartitionKeys)
	orderKeys := make([]OrderKey, len(w.OrderKeys))
	for i, ok := range w.OrderKeys {
		orderKeys[i] = OrderKey{Expr: ok.Expr.DeepCopy(), Ascending: ok.Ascending, NullsLast: ok.NullsLast}
	}
	return &WindowFunction{typ: w.typ, Kind: w.Kind, Args: args, PartitionKeys: parts, OrderKeys: orderKeys, Collation: w.Collation}
}
func (w *WindowFunction) WithChildren(children ...Expr) (Expr, error) {
	want := len(w.Args) + len(w.PartitionKeys) + len(w.OrderKeys)
	if len(children) != want {
		return nil, errArity("WindowFunction", want, len(children))
	}
	cp := *w
	i := 0
	cp.Args = children[i : i+len(w.Args)]
	i += len(w.Args)
	cp.PartitionKeys = children[i : i+len(w.PartitionKeys)]
	i += len(w.PartitionKeys)
	orderKeys := make([]OrderKey, len(w.OrderKeys))
	for j := range orderKeys {
		orderKeys[j] = OrderKey{Expr: children[i+j], Ascending: w.OrderKeys[j].Ascending, NullsLast: w.OrderKeys[j].NullsLast}
	}
	cp.OrderKeys = orderKeys
	return &cp, nil
}
func (w *WindowFunction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(...)", w.Kind)
	sb.WriteString(" OVER (")
	if len(w.PartitionKeys) > 0 {
		sb.WriteString("PARTITION BY ...")
	}
	if len(w.OrderKeys) > 0 {
		sb.WriteString(" ORDER BY ...")
	}
	sb.WriteString(")")
	return sb.String()
}

func deepCopyAll(exprs []Expr) []Expr {
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = e.DeepCopy()
	}
	return out
}

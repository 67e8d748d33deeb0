package aggregation

import (
	"fmt"

	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// RuntimeName returns the base runtime symbol name table
// assigns to agg's kind, mirroring sql/hashjoin/probe.go's ProbeVariant
// affix composition: a real code generator would use this to pick which
// compiled helper to call rather than branching on AggKind at codegen
// time. skipVal is true when the aggregated column may be null (the
// "skip_val" variant), and typ is the column's scalar type for Min/Max/Sum's
// width suffix.
func RuntimeName(agg *expression.AggExpr, skipVal bool, typ types.Type) string {
	switch agg.Kind {
	case expression.AggCount:
		if agg.IsDistinct {
			return "agg_count_distinct"
		}
		return "agg_count"
	case expression.AggMin:
		return "agg_min" + skipValSuffix(skipVal) + widthSuffix(typ)
	case expression.AggMax:
		return "agg_max" + skipValSuffix(skipVal) + widthSuffix(typ)
	case expression.AggSum:
		return "agg_sum" + skipValSuffix(skipVal) + widthSuffix(typ)
	case expression.AggAvg:
		return "agg_sum" + skipValSuffix(skipVal) + widthSuffix(typ)
	case expression.AggSingleValue:
		return "checked_single_agg_id" + widthSuffix(typ)
	case expression.AggSample:
		return "agg_id"
	case expression.AggApproxCountDistinct:
		return "agg_approximate_count_distinct"
	case expression.AggApproxQuantile, expression.AggQuantile:
		return "agg_approx_quantile"
	case expression.AggTopK:
		return "agg_top_k"
	default:
		return "agg_unsupported"
	}
}

func skipValSuffix(skipVal bool) string {
	if skipVal {
		return "_skip_val"
	}
	return ""
}

// widthSuffix maps a scalar type to the integer-width or float/double
// suffix table uses for Min/Max/Sum/SingleValue.
func widthSuffix(typ types.Type) string {
	if typ == nil {
		return ""
	}
	switch t := typ.(type) {
	case *types.IntegerType:
		return fmt.Sprintf("_int%d", t.Width*8)
	case *types.FloatingPointType:
		if t.Precision == types.Fp32 {
			return "_float"
		}
		return "_double"
	default:
		return ""
	}
}

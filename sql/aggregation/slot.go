package aggregation

import (
	"github.com/heavyql/qkernel/sql/expression"
	"github.com/heavyql/qkernel/sql/types"
)

// SlotWidth computes the byte width QueryMemoryDescriptor assigns to one
// aggregate's result-buffer slot. Avg needs two adjacent
// slots (sum, count); every other kind needs exactly one. lazyFetch widens
// every slot to 8 bytes regardless of the aggregate's own type, since a
// lazily-fetched columnar projection stores a row-id index in the slot
// instead of the materialized value, and a row-id must fit in 8 bytes.
func SlotWidth(typ types.Type, lazyFetch bool) int {
	if lazyFetch {
		return 8
	}
	if typ == nil {
		return 8
	}
	switch t := typ.(type) {
	case *types.IntegerType:
		return t.Width
	case *types.FloatingPointType:
		return t.Size()
	default:
		return 8
	}
}

// SlotCount returns how many adjacent result-buffer slots a Kind occupies:
// two for Avg (a sum slot and a parallel count slot), one
// for everything else.
func SlotCount(kind expression.AggKind) int {
	if kind == expression.AggAvg {
		return 2
	}
	return 1
}

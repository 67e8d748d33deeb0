package aggregation

import "github.com/heavyql/qkernel/sql/errcode"

// countAccumulator backs AggCount, lowered to `agg_count[_shared]`: a
// plain running total, 64-bit when BigintCount is set, widened to a set
// when the aggregate is COUNT(DISTINCT ...) so duplicate values are only
// counted once.
type countAccumulator struct {
	distinct bool
	bigint   bool
	count    int64
	seen     map[any]struct{}
}

func newCountAccumulator(distinct, bigint bool) *countAccumulator {
	c := &countAccumulator{distinct: distinct, bigint: bigint}
	if distinct {
		c.seen = make(map[any]struct{})
	}
	return c
}

func (c *countAccumulator) Update(value any, isNull bool) errcode.Code {
	// COUNT(*) passes isNull=false, value=nil; every other COUNT form
	// skips null inputs, matching SQL COUNT semantics.
	if isNull {
		return errcode.OK
	}
	if c.distinct {
		if _, ok := c.seen[value]; ok {
			return errcode.OK
		}
		c.seen[value] = struct{}{}
	}
	c.count++
	return errcode.OK
}

func (c *countAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*countAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	if c.distinct {
		for v := range o.seen {
			if _, ok := c.seen[v]; !ok {
				c.seen[v] = struct{}{}
				c.count++
			}
		}
		return errcode.OK
	}
	c.count += o.count
	return errcode.OK
}

func (c *countAccumulator) Eval() (any, bool) {
	if !c.bigint {
		return int32(c.count), false
	}
	return c.count, false
}

func (c *countAccumulator) Reset() {
	c.count = 0
	if c.distinct {
		c.seen = make(map[any]struct{})
	}
}

package codegen

import (
	"github.com/pilosa/pilosa/roaring"
	"golang.org/x/sync/errgroup"

	"github.com/heavyql/qkernel/sql"
)

// inBitmapWorkerThreshold mirrors CompilationOptions.InBitmapWorkerThreshold
// as the default when a caller builds a bitmap without a Context (tests,
// standalone callers).
const inBitmapWorkerThreshold = 10000

// InBitmap is the built `InValuesBitmap`: a roaring bitmap of the IN-list's values plus the value range
// it covers, probed at evaluation time by BitIsSet rather than a chained
// OR of equality checks.
type InBitmap struct {
	bitmap   *roaring.Bitmap
	Min, Max int64
}

// BuildInBitmap builds an InBitmap from sortedValues (already deduplicated
// and sorted, per expression.InIntegerSet's contract). Above
// ctx.Options.InBitmapWorkerThreshold entries, the bitmap is built by
// fan-out worker goroutines over disjoint slices, grounded on
// golang.org/x/sync/errgroup's bounded-fan-out pattern rather than the
// original's raw thread pool.
func BuildInBitmap(ctx *sql.Context, sortedValues []int64) *InBitmap {
	b := &InBitmap{bitmap: roaring.NewBitmap()}
	if len(sortedValues) == 0 {
		return b
	}
	b.Min, b.Max = sortedValues[0], sortedValues[len(sortedValues)-1]

	threshold := inBitmapWorkerThreshold
	if ctx != nil && ctx.Options.InBitmapWorkerThreshold > 0 {
		threshold = ctx.Options.InBitmapWorkerThreshold
	}

	if len(sortedValues) <= threshold {
		for _, v := range sortedValues {
			b.bitmap.Add(uint64(v))
		}
		return b
	}

	const workers = 8
	chunks := make([][]int64, workers)
	chunkSize := (len(sortedValues) + workers - 1) / workers
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		if start >= len(sortedValues) {
			break
		}
		end := start + chunkSize
		if end > len(sortedValues) {
			end = len(sortedValues)
		}
		chunks[i] = sortedValues[start:end]
	}

	partials := make([]*roaring.Bitmap, workers)
	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			partial := roaring.NewBitmap()
			for _, v := range chunk {
				partial.Add(uint64(v))
			}
			partials[i] = partial
			return nil
		})
	}
	_ = g.Wait()

	for _, partial := range partials {
		if partial == nil {
			continue
		}
		for _, v := range partial.Slice() {
			b.bitmap.Add(v)
		}
	}
	return b
}

// BitIsSet is the `bit_is_set` external-call probe: a value
// outside [Min, Max] is never in the list without consulting the bitmap.
func (b *InBitmap) BitIsSet(value int64) bool {
	if value < b.Min || value > b.Max {
		return false
	}
	return b.bitmap.Contains(uint64(value))
}

// EvalInSmall evaluates the "IN with few values" chained-OR lowering
// directly: `arg = v1 OR arg = v2 OR ...`.
func EvalInSmall(value int64, values []int64) bool {
	for _, v := range values {
		if value == v {
			return true
		}
	}
	return false
}

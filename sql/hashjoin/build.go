package hashjoin

import (
	"fmt"
	"sync"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/plan"
	"github.com/heavyql/qkernel/sql/types"
)

// ColumnSource is the thin interface the build protocol consumes in place
// of a real columnar chunk-fetch layer, which keeps external to
// this module. A caller's storage/chunk-fetch collaborator need only
// implement this to drive a build.
type ColumnSource interface {
	Len() int
	// At returns the row's int64-normalized key (already shifted from its
	// native representation — e.g. a Date's day count, a Decimal64's
	// scaled integer, or a dictionary id) and whether it is null.
	At(i int) (value int64, isNull bool)
}

// BuildInput bundles the parameters lists for one hash-join
// build: both sides of an equijoin expression after column-pair
// normalization, the inner column's known range, the join's kind, and an
// optional dictionary translation when the two sides don't share one.
type BuildInput struct {
	Inner ColumnSource

	Min, Max int64

	// IsBitwiseEq marks a <=> comparison, which reserves the extra NULL
	// bucket.
	IsBitwiseEq bool
	Nullable    bool
	KeyType     types.Type
	Kind        plan.JoinKind

	// Dictionary is non-nil when the two join sides were encoded against
	// different string dictionaries; Build translates the inner side to
	// the probe side's dictionary before hashing.
	Dictionary *DictionaryTranslation

	Memory MemoryLevel
	Device int
}

// maxEntriesCPU and maxEntriesGPU are the addressable-range ceilings:
// 2^31 entries on CPU, 2^31/sizeof(int32) on GPU (the GPU buffer itself
// is capped at 2^31 bytes).
const (
	maxEntriesCPU = int64(1) << 31
	maxEntriesGPU = (int64(1) << 31) / 4
)

// Executor is the build-side coordinator describes: "builds are
// guarded by a coarse mutex per Executor", and completed tables are handed
// to a process-wide recycler so identical joins reuse the same buffer.
type Executor struct {
	buildMu sync.Mutex
	Cache   *Cache
}

// NewExecutor wires an Executor to a recycler cache: one long-lived
// cache handed to every query this Executor runs, not reallocated per
// query.
func NewExecutor(cache *Cache) *Executor {
	return &Executor{Cache: cache}
}

// Build runs the decision tree of and either returns a
// freshly-built table or, on a recycler hit, the cached one.
func (e *Executor) Build(ctx *sql.Context, key CacheKey, in BuildInput) (*HashTable, error) {
	if e.Cache != nil {
		if table, ok := e.Cache.Get(key); ok {
			return table, nil
		}
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	// Another goroutine may have populated the cache while we waited on
	// the mutex; re-check before doing the work twice.
	if e.Cache != nil {
		if table, ok := e.Cache.Get(key); ok {
			return table, nil
		}
	}

	table, err := build(ctx, in)
	if err != nil {
		return nil, err
	}

	if e.Cache != nil {
		e.Cache.Put(key, table)
	}
	return table, nil
}

func build(ctx *sql.Context, in BuildInput) (*HashTable, error) {
	bucketSize := int64(1)
	if in.KeyType != nil && in.KeyType.Kind() == types.KindDate {
		if dt, ok := in.KeyType.(*types.DateType); ok {
			if perDay := dt.Unit.PerDay(); perDay > 0 {
				bucketSize = perDay
			}
		}
	}

	// Step 1: entry_count = (max - min + 1 + is_bw_eq) / bucket_size,
	// rounded up.
	span := in.Max - in.Min + 1
	if in.IsBitwiseEq {
		span++
	}
	entryCount := (span + bucketSize - 1) / bucketSize
	if entryCount < 1 {
		entryCount = 1
	}

	// Step 2: addressable-range ceiling.
	ceiling := maxEntriesCPU
	if in.Memory == GPU {
		ceiling = maxEntriesGPU
	}
	if entryCount > ceiling {
		return nil, sql.ErrTooManyHashEntries.New(fmt.Sprintf("entry_count=%d", entryCount))
	}

	// Step 3: huge-and-sparse rejection. We don't want to build huge and
	// very sparse tables: once the entry count crosses the configured
	// "huge" threshold, the inner side must have at least min_load tuples
	// per 100 entries or the build is rejected outright.
	tuples := int64(in.Inner.Len())
	if entryCount > ctx.Options.HugeJoinHashThreshold &&
		tuples*100 < int64(ctx.Options.HugeJoinHashMinLoad)*entryCount {
		return nil, sql.ErrTooManyHashEntries.New(fmt.Sprintf("entry_count=%d", entryCount))
	}

	// Step 4: translate to a common dictionary first. GPU builds skip
	// translation.
	source := in.Inner
	if in.Dictionary != nil && in.Memory == CPU {
		source = in.Dictionary.Translate(source)
	}

	table := &HashTable{
		EntryCount:  entryCount,
		Min:         in.Min,
		BucketSize:  bucketSize,
		IsBitwiseEq: in.IsBitwiseEq,
		Nullable:    in.Nullable,
		KeyType:     in.KeyType,
		Memory:      in.Memory,
		Device:      in.Device,
	}

	// Step 5: attempt OneToOne; on collision, abort and retry OneToMany.
	if slots, ok := buildOneToOne(source, in.Min, bucketSize, entryCount); ok {
		table.Layout = OneToOne
		table.Slots = slots
		return table, nil
	}

	offsets, counts, payload := buildOneToMany(source, in.Min, bucketSize, entryCount)
	table.Layout = OneToMany
	table.Offsets = offsets
	table.Counts = counts
	table.Payload = payload
	return table, nil
}

// buildOneToOne implements init_hash_join_buff's single-pass fill: walk
// every inner row, compute its bucket, and claim the slot. A second row
// landing on an already-claimed bucket is a collision, at which point the
// whole attempt is abandoned in favor of OneToMany.
func buildOneToOne(src ColumnSource, min, bucketSize, entryCount int64) ([]int32, bool) {
	slots := make([]int32, entryCount)
	for i := range slots {
		slots[i] = InvalidSlot
	}
	for i := 0; i < src.Len(); i++ {
		v, isNull := src.At(i)
		if isNull {
			continue
		}
		h := (v - min) / bucketSize
		if h < 0 || h >= entryCount {
			continue
		}
		if slots[h] != InvalidSlot {
			return nil, false
		}
		slots[h] = int32(i)
	}
	return slots, true
}

// buildOneToMany fills the offsets/counts/payload layout in the standard
// two-pass counting-sort shape: count rows per bucket, prefix-sum into
// offsets, then scatter row ids into payload using a per-bucket cursor.
func buildOneToMany(src ColumnSource, min, bucketSize, entryCount int64) (offsets, counts, payload []int32) {
	counts = make([]int32, entryCount)
	buckets := make([]int64, src.Len())
	for i := 0; i < src.Len(); i++ {
		v, isNull := src.At(i)
		if isNull {
			buckets[i] = -1
			continue
		}
		h := (v - min) / bucketSize
		if h < 0 || h >= entryCount {
			buckets[i] = -1
			continue
		}
		buckets[i] = h
		counts[h]++
	}

	offsets = make([]int32, entryCount)
	var running int32
	for i, c := range counts {
		offsets[i] = running
		running += c
	}

	payload = make([]int32, running)
	cursor := make([]int32, entryCount)
	copy(cursor, offsets)
	for i, h := range buckets {
		if h < 0 {
			continue
		}
		payload[cursor[h]] = int32(i)
		cursor[h]++
	}
	return offsets, counts, payload
}

// Package hashjoin implements a perfect-hash-table join builder: the hash
// is the probe key itself minus the inner column's minimum value,
// optionally divided by a per-type bucket size, so the table never needs
// open addressing or chaining on collision — it either fits as a dense
// OneToOne slot array or falls back to a OneToMany offsets/counts/payload
// layout.
package hashjoin

import "github.com/heavyql/qkernel/sql/types"

// Layout discriminates the two hash-table shapes.
type Layout int

const (
	// OneToOne is a buffer of int32 slots, one per hash entry, holding
	// either the matching inner row id or InvalidSlot.
	OneToOne Layout = iota
	// OneToMany is three contiguous int32 subarrays (offsets, counts,
	// payload) for when more than one inner row can share a hash entry.
	OneToMany
)

func (l Layout) String() string {
	if l == OneToMany {
		return "OneToMany"
	}
	return "OneToOne"
}

// InvalidSlot is the OneToOne sentinel meaning "no matching inner row".
const InvalidSlot int32 = -1

// HashTable is the in-memory, self-describing build result of a join's
// build phase. Exactly one of the OneToOne/OneToMany buffers is
// populated, selected by Layout.
type HashTable struct {
	Layout Layout

	// EntryCount is the number of addressable hash buckets:
	// (max-min+1)/BucketSize, rounded up.
	EntryCount int64

	// Min is the inner column's minimum value over the build input, the
	// hash function's subtrahend.
	Min int64
	// BucketSize divides the shifted key before indexing; 1 for every type
	// except bucketized Date, which divides by the unit's seconds-per-day
	// equivalent.
	BucketSize int64
	// IsBitwiseEq marks a `<=>`-style comparison, which reserves one extra
	// entry for the NULL bucket.
	IsBitwiseEq bool
	// Nullable marks that codegenSlot/codegenMatchingSet must emit the
	// `_nullable` probe variant.
	Nullable bool
	// KeyType is the inner column's type, used to pick the `bucketized_`
	// vs plain probe variant (Date columns only).
	KeyType types.Type

	// Slots backs a OneToOne table: len(Slots) == EntryCount.
	Slots []int32

	// Offsets, Counts and Payload back a OneToMany table.
	// len(Offsets) == len(Counts) == EntryCount, len(Payload) == row count.
	Offsets []int32
	Counts  []int32
	Payload []int32

	// Memory is CPU or GPU, and Device is which GPU ordinal when Memory is
	// GPU.
	Memory MemoryLevel
	Device int
}

// MemoryLevel mirrors sql.MemoryLevel without importing the root
// package.
type MemoryLevel int

const (
	CPU MemoryLevel = iota
	GPU
)

// Bytes reports the table's total resident size, used by the recycler's
// LRU budget accounting.
func (h *HashTable) Bytes() int64 {
	const int32Size = 4
	switch h.Layout {
	case OneToOne:
		return int64(len(h.Slots)) * int32Size
	default:
		return int64(len(h.Offsets)+len(h.Counts)+len(h.Payload)) * int32Size
	}
}

// IsBucketized reports whether the build used the Date bucketized variant.
func (h *HashTable) IsBucketized() bool {
	return h.KeyType != nil && h.KeyType.Kind() == types.KindDate
}

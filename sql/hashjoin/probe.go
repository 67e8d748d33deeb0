package hashjoin

import "fmt"

// ProbeVariant names the runtime helper family picks between:
// hash_join_idx for OneToOne, with _bitwise/_nullable/bucketized_ affixes.
type ProbeVariant struct {
	// Bucketized selects the `bucketized_` prefix (Date columns).
	Bucketized bool
	// Bitwise selects the `_bitwise` suffix (a <=> equality with a
	// reserved NULL bucket).
	Bitwise bool
	// Nullable selects the `_nullable` suffix.
	Nullable bool
}

// RuntimeName renders the probe helper's symbol name, e.g.
// "bucketized_hash_join_idx_nullable".
func (v ProbeVariant) RuntimeName(base string) string {
	name := base
	if v.Bucketized {
		name = "bucketized_" + name
	}
	if v.Bitwise {
		name += "_bitwise"
	}
	if v.Nullable {
		name += "_nullable"
	}
	return name
}

// variantFor derives the probe variant a table's own build parameters
// require, so the code generator never has to re-derive it from scratch.
func (h *HashTable) variantFor() ProbeVariant {
	return ProbeVariant{
		Bucketized: h.IsBucketized(),
		Bitwise:    h.IsBitwiseEq,
		Nullable:   h.Nullable,
	}
}

// TableLoadDescriptor is what codegenHashTableLoad(index)
// hands the code generator: enough to emit a load of the index-th hash
// table's base pointer for the current row function.
type TableLoadDescriptor struct {
	Index  int
	Layout Layout
	Memory MemoryLevel
}

// CodegenHashTableLoad implements codegenHashTableLoad(index).
func (h *HashTable) CodegenHashTableLoad(index int) TableLoadDescriptor {
	return TableLoadDescriptor{Index: index, Layout: h.Layout, Memory: h.Memory}
}

// SlotDescriptor is what codegenSlot(opts, index) hands the
// code generator for a OneToOne probe: which runtime helper to call and
// the constant arguments it needs (min, bucket size, invalid sentinel).
type SlotDescriptor struct {
	Index       int
	RuntimeFunc string
	Min         int64
	BucketSize  int64
	InvalidSlot int32
}

// CodegenSlot implements codegenSlot for a OneToOne table.
// Returns an error if the table is not OneToOne-shaped.
func (h *HashTable) CodegenSlot(index int) (SlotDescriptor, error) {
	if h.Layout != OneToOne {
		return SlotDescriptor{}, fmt.Errorf("hashjoin: CodegenSlot requires a OneToOne table, got %s", h.Layout)
	}
	return SlotDescriptor{
		Index:       index,
		RuntimeFunc: h.variantFor().RuntimeName("hash_join_idx"),
		Min:         h.Min,
		BucketSize:  h.BucketSize,
		InvalidSlot: InvalidSlot,
	}, nil
}

// MatchingSetDescriptor is what codegenMatchingSet(opts, index)  hands the code generator for a OneToMany probe: the
// lengths of the offsets, counts and payload subarrays plus the key range's
// Min and BucketSize, used by the surrounding loop driver.
type MatchingSetDescriptor struct {
	Index      int
	OffsetsLen int
	CountsLen  int
	PayloadLen int
	Min        int64
	BucketSize int64
}

// CodegenMatchingSet implements codegenMatchingSet for a
// OneToMany table. Returns an error if the table is not OneToMany-shaped.
func (h *HashTable) CodegenMatchingSet(index int) (MatchingSetDescriptor, error) {
	if h.Layout != OneToMany {
		return MatchingSetDescriptor{}, fmt.Errorf("hashjoin: CodegenMatchingSet requires a OneToMany table, got %s", h.Layout)
	}
	return MatchingSetDescriptor{
		Index:      index,
		OffsetsLen: len(h.Offsets),
		CountsLen:  len(h.Counts),
		PayloadLen: len(h.Payload),
		Min:        h.Min,
		BucketSize: h.BucketSize,
	}, nil
}

// RowIDShortcut reports whether the inner column is the virtual rowid
//: probe short-circuits because the key itself is the result
// row id, subject only to a null check. Callers that detect this at plan
// time should skip Build entirely and emit the shortcut instead.
func RowIDShortcut(innerColumnIsRowID bool) bool {
	return innerColumnIsRowID
}

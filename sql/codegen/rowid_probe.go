package codegen

import (
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/hashjoin"
)

// ProbeRowIDShortcut implements: when the inner column is the
// virtual rowid (hashjoin.RowIDShortcut), the code generator skips
// calling into a built HashTable entirely and emits this direct check
// instead — the key itself is the resulting row id, subject only to a
// null check.
func ProbeRowIDShortcut(innerColumnIsRowID bool, key int64, keyIsNull bool) (rowID int64, matched bool, code errcode.Code) {
	if !hashjoin.RowIDShortcut(innerColumnIsRowID) {
		return 0, false, errcode.OK
	}
	if keyIsNull {
		return 0, false, errcode.OK
	}
	return key, true, errcode.OK
}

// ProbeHashTable runs the general (non-rowid-shortcut) probe path for a
// built hashjoin.HashTable, dispatching on its Layout — the Go-level
// evaluator standing in for the CodegenSlot/CodegenMatchingSet IR
// descriptors hashjoin/probe.go defines, since this package is the one
// that would actually call them once a real LLVM backend exists.
func ProbeHashTable(table *hashjoin.HashTable, key int64, keyIsNull bool) (matches []int32, code errcode.Code) {
	if keyIsNull {
		return nil, errcode.OK
	}
	bucket := (key - table.Min) / table.BucketSize
	if bucket < 0 || bucket >= table.EntryCount {
		return nil, errcode.OK
	}
	if table.Layout == hashjoin.OneToOne {
		slot := table.Slots[bucket]
		if slot == hashjoin.InvalidSlot {
			return nil, errcode.OK
		}
		return []int32{slot}, errcode.OK
	}
	count := table.Counts[bucket]
	if count == 0 {
		return nil, errcode.OK
	}
	offset := table.Offsets[bucket]
	return table.Payload[offset : offset+count], errcode.OK
}

// Package sql holds the contracts shared by every core component: the row
// and schema shapes, the per-query Context, and the typed exception kinds
// raised during compilation and DAG building.
package sql

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

// Typed compile-time / build-time exceptions. Runtime row_func errors are
// negative int32 codes, not errors.Kind instances — see package errcode.
var (
	// ErrTypeInference is raised when two operand types cannot be unified,
	// or a CASE expression's arms are all untyped NULL.
	ErrTypeInference = errors.NewKind("type inference error: %s")

	// ErrNotSupported is raised for constructs the core recognizes but does
	// not (yet, or ever) lower to IR: unrepresentable subqueries, self-joins
	// without a left-deep shape, cross-dictionary array comparisons, etc.
	ErrNotSupported = errors.NewKind("not supported: %s")

	// ErrInvalidExpression is raised on arity mismatches and other
	// structurally malformed expression trees.
	ErrInvalidExpression = errors.NewKind("invalid expression: %s")

	// ErrUnknownRelOp names an unrecognized relOp discriminator. The JSON
	// plan builder does not raise it: it reports an unknown relOp through
	// ErrNotSupported.
	ErrUnknownRelOp = errors.NewKind("unknown relOp: %s")

	// ErrTooManyHashEntries is raised when a hash join's computed entry
	// count exceeds the addressable range for the target memory level, or
	// when the bucket is sparse enough that a perfect hash table would
	// waste more memory than the configured load-factor budget allows.
	ErrTooManyHashEntries = errors.NewKind("too many hash entries: %s")

	// ErrOutOfDeviceMemory is raised when a GPU buffer allocation fails
	// while building or copying a hash table.
	ErrOutOfDeviceMemory = errors.NewKind("out of device memory: %s")

	// ErrSelfJoinNotSupported is raised when a self-join does not have a
	// representable left-deep join-tree shape. Checked at DAG build time
	// (see sql/transform's join-projection-insertion pass), rather than
	// deferred to hash-join probe time.
	ErrSelfJoinNotSupported = errors.NewKind("self join not supported: %s")

	// ErrKeyNotFound describes a cache-key miss. The hash-join recycler
	// cache does not return it: Cache.Get reports a miss through its bool
	// result.
	ErrKeyNotFound = errors.NewKind("key not found in cache: %v")
)

package sql

// MemoryLevel selects which side of the CPU/GPU boundary a hash table,
// kernel, or buffer lives on.
type MemoryLevel int

const (
	CPU MemoryLevel = iota
	GPU
)

func (m MemoryLevel) String() string {
	if m == GPU {
		return "GPU"
	}
	return "CPU"
}

// CompilationOptions is threaded through the code generator and aggregator.
// It is populated from a qkernel.toml by sql/config and is immutable once an
// Executor starts compiling queries.
type CompilationOptions struct {
	// BigintCount makes COUNT(*) accumulate into a 64-bit slot regardless of
	// the declared result type.
	BigintCount bool

	// NullDivByZero makes integer division by zero return NULL instead of
	// ERR_DIV_BY_ZERO. This always governs integer division;
	// InfDivByZero always governs floating-point division. Both being
	// true is rejected by Validate rather than picked arbitrarily.
	NullDivByZero bool

	// InfDivByZero makes floating-point division by zero return +/-Inf
	// instead of ERR_DIV_BY_ZERO or NULL.
	InfDivByZero bool

	// ApproxCountDistinctBits sizes the HyperLogLog register count as
	// 2^bits. Validate accepts [1, 100]; the sketch itself only takes
	// [4, 18] and falls back to 2^14 registers for any other value.
	ApproxCountDistinctBits int

	// HugeJoinHashThreshold is the entry count above which a perfect hash
	// table is considered "huge" and therefore subject to the sparseness
	// check below; see sql/hashjoin build step 3.
	HugeJoinHashThreshold int64

	// HugeJoinHashMinLoad is the minimum load factor (tuples per 100
	// entries) below which a huge hash-entry-count perfect hash table is
	// rejected as too sparse; see sql/hashjoin build step 3.
	HugeJoinHashMinLoad int

	// HashTableCacheBudgetBytes bounds the recycler's total resident bytes;
	// eviction is LRU once exceeded.
	HashTableCacheBudgetBytes int64

	// WatchdogEnabled makes the query kernel poll the interrupt flag at
	// fragment boundaries and return ERR_INTERRUPTED.
	WatchdogEnabled bool

	// InBitmapWorkerThreshold is the IN-list size above which the bitmap
	// builder fans out across worker goroutines.
	InBitmapWorkerThreshold int

	// MaxUnnestElements bounds how many elements a single UNNEST may
	// expand a row into before the code generator reports
	// ERR_UNNEST_TOO_MANY_ELEMENTS.
	MaxUnnestElements int
}

// DefaultCompilationOptions mirrors the defaults a fresh Executor boots
// with absent a qkernel.toml.
func DefaultCompilationOptions() CompilationOptions {
	return CompilationOptions{
		BigintCount:               false,
		NullDivByZero:             false,
		InfDivByZero:              false,
		ApproxCountDistinctBits:   11,
		HugeJoinHashThreshold:     1 << 20,
		HugeJoinHashMinLoad:       50,
		HashTableCacheBudgetBytes: 4 << 30,
		WatchdogEnabled:           true,
		InBitmapWorkerThreshold:   10000,
		MaxUnnestElements:         1 << 20,
	}
}

// Validate rejects configuration accidents instead of silently resolving
// them, resolving's "implementation accident" open question
// explicitly: NullDivByZero governs integers, InfDivByZero governs floats,
// and they must not both apply to the same operation's choice is avoided by
// requiring the caller to pick one overall div-by-zero policy per type
// class, not relying on evaluation order of two independent flags overlapping.
func (c CompilationOptions) Validate() error {
	if c.ApproxCountDistinctBits < 1 || c.ApproxCountDistinctBits > 100 {
		return ErrInvalidExpression.New("approx_count_distinct_bits must be in [1, 100]")
	}
	if c.NullDivByZero && c.InfDivByZero {
		return ErrInvalidExpression.New("null_div_by_zero and inf_div_by_zero cannot both be set")
	}
	return nil
}

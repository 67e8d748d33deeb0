package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/heavyql/qkernel/sql"
)

// fileConfig is the top-level qkernel.toml document. Field names mirror
// sql.CompilationOptions, snake_cased, as a flat struct with toml tags.
type fileConfig struct {
	BigintCount               bool  `toml:"bigint_count"`
	NullDivByZero             bool  `toml:"null_div_by_zero"`
	InfDivByZero              bool  `toml:"inf_div_by_zero"`
	ApproxCountDistinctBits   int   `toml:"approx_count_distinct_bits"`
	HugeJoinHashThreshold     int64 `toml:"huge_join_hash_threshold"`
	HugeJoinHashMinLoad       int   `toml:"huge_join_hash_min_load"`
	HashTableCacheBudgetBytes int64 `toml:"hashtable_cache_budget_bytes"`
	WatchdogEnabled           bool  `toml:"watchdog"`
	InBitmapWorkerThreshold   int   `toml:"in_bitmap_worker_threshold"`
	MaxUnnestElements         int   `toml:"max_unnest_elements"`
}

// Load reads path as a qkernel.toml and returns the CompilationOptions it
// describes, starting from sql.DefaultCompilationOptions so a file that
// sets only a handful of keys still produces a fully-populated, valid
// options struct. The result is validated before being returned.
func Load(path string) (sql.CompilationOptions, error) {
	f, err := os.Open(path)
	if err != nil {
		return sql.CompilationOptions{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a qkernel.toml document from r. See Load.
func Decode(r io.Reader) (sql.CompilationOptions, error) {
	fc := fileConfig(defaultFileConfig())
	if _, err := toml.NewDecoder(r).Decode(&fc); err != nil {
		return sql.CompilationOptions{}, fmt.Errorf("config: decode error: %w", err)
	}

	opts := sql.CompilationOptions{
		BigintCount:               fc.BigintCount,
		NullDivByZero:             fc.NullDivByZero,
		InfDivByZero:              fc.InfDivByZero,
		ApproxCountDistinctBits:   fc.ApproxCountDistinctBits,
		HugeJoinHashThreshold:     fc.HugeJoinHashThreshold,
		HugeJoinHashMinLoad:       fc.HugeJoinHashMinLoad,
		HashTableCacheBudgetBytes: fc.HashTableCacheBudgetBytes,
		WatchdogEnabled:           fc.WatchdogEnabled,
		InBitmapWorkerThreshold:   fc.InBitmapWorkerThreshold,
		MaxUnnestElements:         fc.MaxUnnestElements,
	}
	if err := opts.Validate(); err != nil {
		return sql.CompilationOptions{}, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}

// defaultFileConfig mirrors sql.DefaultCompilationOptions so an absent or
// partial qkernel.toml key falls back to the same defaults a bare
// sql.NewEmptyContext would use.
func defaultFileConfig() fileConfig {
	d := sql.DefaultCompilationOptions()
	return fileConfig{
		BigintCount:               d.BigintCount,
		NullDivByZero:             d.NullDivByZero,
		InfDivByZero:              d.InfDivByZero,
		ApproxCountDistinctBits:   d.ApproxCountDistinctBits,
		HugeJoinHashThreshold:     d.HugeJoinHashThreshold,
		HugeJoinHashMinLoad:       d.HugeJoinHashMinLoad,
		HashTableCacheBudgetBytes: d.HashTableCacheBudgetBytes,
		WatchdogEnabled:           d.WatchdogEnabled,
		InBitmapWorkerThreshold:   d.InBitmapWorkerThreshold,
		MaxUnnestElements:         d.MaxUnnestElements,
	}
}

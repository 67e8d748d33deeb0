package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql"
)

func TestDecodePartialDocumentKeepsDefaults(t *testing.T) {
	opts, err := Decode(strings.NewReader(`
approx_count_distinct_bits = 14
watchdog = false
`))
	require.NoError(t, err)

	assert.Equal(t, 14, opts.ApproxCountDistinctBits)
	assert.False(t, opts.WatchdogEnabled)

	def := sql.DefaultCompilationOptions()
	assert.Equal(t, def.BigintCount, opts.BigintCount)
	assert.Equal(t, def.HugeJoinHashThreshold, opts.HugeJoinHashThreshold)
	assert.Equal(t, def.MaxUnnestElements, opts.MaxUnnestElements)
}

func TestDecodeFullDocument(t *testing.T) {
	opts, err := Decode(strings.NewReader(`
bigint_count = true
null_div_by_zero = true
inf_div_by_zero = false
approx_count_distinct_bits = 16
huge_join_hash_threshold = 500000
huge_join_hash_min_load = 40
hashtable_cache_budget_bytes = 1073741824
watchdog = true
in_bitmap_worker_threshold = 5000
max_unnest_elements = 1024
`))
	require.NoError(t, err)

	assert.Equal(t, sql.CompilationOptions{
		BigintCount:               true,
		NullDivByZero:             true,
		InfDivByZero:              false,
		ApproxCountDistinctBits:   16,
		HugeJoinHashThreshold:     500000,
		HugeJoinHashMinLoad:       40,
		HashTableCacheBudgetBytes: 1073741824,
		WatchdogEnabled:           true,
		InBitmapWorkerThreshold:   5000,
		MaxUnnestElements:         1024,
	}, opts)
}

func TestDecodeRejectsConflictingDivByZeroPolicy(t *testing.T) {
	_, err := Decode(strings.NewReader(`
null_div_by_zero = true
inf_div_by_zero = true
`))
	require.Error(t, err)
}

func TestDecodeRejectsOutOfRangeApproxCountDistinctBits(t *testing.T) {
	_, err := Decode(strings.NewReader(`approx_count_distinct_bits = 200`))
	require.Error(t, err)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/qkernel.toml")
	require.Error(t, err)
}

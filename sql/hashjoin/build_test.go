package hashjoin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/plan"
)

type sliceSource struct {
	values []int64
	nulls  []bool
}

func (s *sliceSource) Len() int { return len(s.values) }

func (s *sliceSource) At(i int) (int64, bool) {
	if s.nulls != nil && s.nulls[i] {
		return 0, true
	}
	return s.values[i], false
}

func TestBuildProducesOneToOneForDenseUniqueKeys(t *testing.T) {
	ctx := sql.NewEmptyContext()
	src := &sliceSource{values: []int64{10, 11, 12, 13}}

	table, err := build(ctx, BuildInput{
		Inner: src,
		Min:   10,
		Max:   13,
		Kind:  plan.JoinInner,
	})
	require.NoError(t, err)
	require.Equal(t, OneToOne, table.Layout)
	require.Len(t, table.Slots, 4)
	for i, slot := range table.Slots {
		require.Equal(t, int32(i), slot)
	}
}

func TestBuildFallsBackToOneToManyOnCollision(t *testing.T) {
	ctx := sql.NewEmptyContext()
	src := &sliceSource{values: []int64{10, 10, 11}}

	table, err := build(ctx, BuildInput{
		Inner: src,
		Min:   10,
		Max:   11,
		Kind:  plan.JoinInner,
	})
	require.NoError(t, err)
	require.Equal(t, OneToMany, table.Layout)
	require.Len(t, table.Offsets, 2)
	require.Len(t, table.Counts, 2)
	require.Equal(t, int32(2), table.Counts[0])
	require.Equal(t, int32(1), table.Counts[1])
	require.Len(t, table.Payload, 3)
}

func TestBuildSkipsNullKeys(t *testing.T) {
	ctx := sql.NewEmptyContext()
	src := &sliceSource{values: []int64{10, 0, 12}, nulls: []bool{false, true, false}}

	table, err := build(ctx, BuildInput{
		Inner:    src,
		Min:      10,
		Max:      12,
		Nullable: true,
		Kind:     plan.JoinInner,
	})
	require.NoError(t, err)
	require.Equal(t, OneToOne, table.Layout)
	require.Equal(t, InvalidSlot, table.Slots[1])
}

func TestBuildRejectsEntryCountOverCeiling(t *testing.T) {
	ctx := sql.NewEmptyContext()
	src := &sliceSource{values: []int64{0, 1}}

	_, err := build(ctx, BuildInput{
		Inner:  src,
		Min:    0,
		Max:    maxEntriesGPU + 10,
		Kind:   plan.JoinInner,
		Memory: GPU,
	})
	require.ErrorContains(t, err, "too many hash entries")
}

func TestBuildRejectsHugeSparseTable(t *testing.T) {
	ctx := sql.NewEmptyContext()
	ctx.Options.HugeJoinHashThreshold = 100
	ctx.Options.HugeJoinHashMinLoad = 50

	src := &sliceSource{values: []int64{0, 1}} // 2 tuples over 1000 entries

	_, err := build(ctx, BuildInput{
		Inner: src,
		Min:   0,
		Max:   999,
		Kind:  plan.JoinInner,
	})
	require.ErrorContains(t, err, "too many hash entries")
}

func TestExecutorBuildReusesCachedTable(t *testing.T) {
	ctx := sql.NewEmptyContext()
	cache := NewCache(1 << 20)
	exec := NewExecutor(cache)
	key := NewAlternativeCacheKey("t.a", 0, plan.JoinInner, "")

	src := &sliceSource{values: []int64{1, 2, 3}}
	first, err := exec.Build(ctx, key, BuildInput{Inner: src, Min: 1, Max: 3, Kind: plan.JoinInner})
	require.NoError(t, err)

	second, err := exec.Build(ctx, key, BuildInput{Inner: src, Min: 1, Max: 3, Kind: plan.JoinInner})
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestCacheEvictsLeastRecentlyUsedOverBudget(t *testing.T) {
	cache := NewCache(8) // room for exactly 2 int32 slots
	small := &HashTable{Layout: OneToOne, Slots: []int32{1}}
	other := &HashTable{Layout: OneToOne, Slots: []int32{2}}
	third := &HashTable{Layout: OneToOne, Slots: []int32{3}}

	k1 := NewAlternativeCacheKey("a", 0, plan.JoinInner, "")
	k2 := NewAlternativeCacheKey("b", 0, plan.JoinInner, "")
	k3 := NewAlternativeCacheKey("c", 0, plan.JoinInner, "")

	cache.Put(k1, small)
	cache.Put(k2, other)
	cache.Put(k3, third) // evicts k1, the LRU entry

	_, ok := cache.Get(k1)
	require.False(t, ok)
	_, ok = cache.Get(k2)
	require.True(t, ok)
	_, ok = cache.Get(k3)
	require.True(t, ok)
}

func TestCodegenSlotRequiresOneToOneLayout(t *testing.T) {
	table := &HashTable{Layout: OneToMany}
	_, err := table.CodegenSlot(0)
	require.Error(t, err)
}

func TestCodegenMatchingSetRequiresOneToManyLayout(t *testing.T) {
	table := &HashTable{Layout: OneToOne}
	_, err := table.CodegenMatchingSet(0)
	require.Error(t, err)
}

func TestProbeVariantRuntimeNameComposesAffixes(t *testing.T) {
	v := ProbeVariant{Bucketized: true, Bitwise: true, Nullable: true}
	require.Equal(t, "bucketized_hash_join_idx_bitwise_nullable", v.RuntimeName("hash_join_idx"))
}

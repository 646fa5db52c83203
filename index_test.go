package annidx_test

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annidx"
	"github.com/hupe1980/annidx/distance"
)

func buildIndex(t *testing.T, n, dim int) (*annidx.Index, [][]float32, []uint64) {
	t.Helper()

	idx, err := annidx.New(&distance.L2{Dimension: dim}, n+8, 8)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	vectors := make([][]float32, n)
	labels := make([]uint64, n)

	ctx := context.Background()
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		for j := range v {
			v[j] = rng.Float32()
		}
		vectors[i] = v
		labels[i] = uint64(i + 1)
		_, err := idx.Add(ctx, v, labels[i], 32)
		require.NoError(t, err)
	}
	return idx, vectors, labels
}

func TestIndex_AddAndSearchFindsExactMatch(t *testing.T) {
	idx, vectors, labels := buildIndex(t, 64, 8)

	results, err := idx.Search(context.Background(), vectors[10], 1, 64)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, labels[10], results[0].Label)
	assert.InDelta(t, 0, results[0].Distance, 1e-4)
}

func TestIndex_SearchResultsSortedAscending(t *testing.T) {
	idx, vectors, _ := buildIndex(t, 64, 8)

	results, err := idx.Search(context.Background(), vectors[0], 10, 64)
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestIndex_AddRejectsWrongDimension(t *testing.T) {
	idx, err := annidx.New(&distance.L2{Dimension: 4}, 8, 4)
	require.NoError(t, err)

	_, err = idx.Add(context.Background(), []float32{1, 2, 3}, 1, 8)
	var mismatch *annidx.ErrDimensionMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestIndex_AddReturnsCapacityExhausted(t *testing.T) {
	idx, err := annidx.New(&distance.L2{Dimension: 2}, 2, 2)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = idx.Add(ctx, []float32{0, 0}, 1, 4)
	require.NoError(t, err)
	_, err = idx.Add(ctx, []float32{1, 1}, 2, 4)
	require.NoError(t, err)

	_, err = idx.Add(ctx, []float32{2, 2}, 3, 4)
	assert.ErrorIs(t, err, annidx.ErrCapacityExhausted)
}

func TestIndex_SearchPanicsOnEmptyIndex(t *testing.T) {
	idx, err := annidx.New(&distance.L2{Dimension: 2}, 4, 2)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = idx.Search(context.Background(), []float32{0, 0}, 1, 4)
	})
}

func TestIndex_SaveLoadRoundTripPreservesSearch(t *testing.T) {
	idx, vectors, labels := buildIndex(t, 32, 6)

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	loaded, err := annidx.Load(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), loaded.Len())

	want, err := idx.Search(context.Background(), vectors[5], 5, 32)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), vectors[5], 5, 32)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	_ = labels
}

func TestIndex_SaveLoadRoundTripWithCompression(t *testing.T) {
	idx, vectors, _ := buildIndex(t, 16, 4)

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf, annidx.WithCompression()))

	loaded, err := annidx.Load(context.Background(), &buf)
	require.NoError(t, err)

	want, err := idx.Search(context.Background(), vectors[0], 3, 16)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), vectors[0], 3, 16)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIndex_ReorderRCMPreservesSearchResultLabels(t *testing.T) {
	idx, vectors, _ := buildIndex(t, 48, 6)

	before, err := idx.Search(context.Background(), vectors[3], 5, 48)
	require.NoError(t, err)

	require.NoError(t, idx.ReorderRCM())

	after, err := idx.Search(context.Background(), vectors[3], 5, 48)
	require.NoError(t, err)

	assert.ElementsMatch(t, labelsOf(before), labelsOf(after))
}

func TestIndex_ReorderGorderPreservesSearchResultLabels(t *testing.T) {
	idx, vectors, _ := buildIndex(t, 48, 6)

	before, err := idx.Search(context.Background(), vectors[3], 5, 48)
	require.NoError(t, err)

	require.NoError(t, idx.ReorderGorder(4))

	after, err := idx.Search(context.Background(), vectors[3], 5, 48)
	require.NoError(t, err)

	assert.ElementsMatch(t, labelsOf(before), labelsOf(after))
}

func TestIndex_AddBatchReportsFailureOnDimensionMismatch(t *testing.T) {
	idx, err := annidx.New(&distance.L2{Dimension: 3}, 8, 4)
	require.NoError(t, err)

	vectors := [][]float32{{1, 2, 3}, {1, 2}}
	labels := []uint64{1, 2}

	_, firstFailed, err := idx.AddBatch(context.Background(), vectors, labels, 4)
	require.Error(t, err)
	assert.Equal(t, 1, firstFailed)
}

func TestIndex_SearchBatchMatchesSequentialSearch(t *testing.T) {
	idx, vectors, _ := buildIndex(t, 48, 6)

	queries := vectors[:5]
	batch, err := idx.SearchBatch(context.Background(), queries, 4, 32)
	require.NoError(t, err)
	require.Len(t, batch, 5)

	for i, q := range queries {
		want, err := idx.Search(context.Background(), q, 4, 32)
		require.NoError(t, err)
		assert.Equal(t, want, batch[i])
	}
}

func labelsOf(results []annidx.Result) []uint64 {
	out := make([]uint64, len(results))
	for i, r := range results {
		out[i] = r.Label
	}
	return out
}

package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func TestEmbedderRequiresPrepare(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	assert.Zero(t, e.Dimension())
	_, err := e.Embed(ctx, "theft")
	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.ErrorIs(t, e.Prepare(ctx, nil), ErrEmptyCorpus)
	assert.ErrorIs(t, e.Prepare(ctx, []string{"the and of"}), ErrEmptyCorpus)
}

func TestEmbedderVectors(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, []string{
		"The penalty for theft is imprisonment",
		"Employment is a right of every citizen",
		"المادة 5 العمل حق",
	}))
	assert.Equal(t, "tfidf", e.Name())
	assert.Positive(t, e.Dimension())

	v, err := e.Embed(ctx, "theft penalty")
	require.NoError(t, err)
	require.Len(t, v, e.Dimension())
	assert.InDelta(t, 1.0, norm(v), 1e-9)

	zero, err := e.Embed(ctx, "unseen vocabulary only")
	require.NoError(t, err)
	assert.Zero(t, norm(zero))

	ar, err := e.Embed(ctx, "العمل")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, norm(ar), 1e-9)
}

func TestEmbedderRareTermsWeighMore(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(ctx, []string{"penalty theft", "penalty fraud", "penalty bribery"}))

	v, err := e.Embed(ctx, "penalty theft")
	require.NoError(t, err)
	penalty, theft := v[e.vocab.index["penalty"]], v[e.vocab.index["theft"]]
	assert.Greater(t, theft, penalty)
}

func TestFreshIsIndependentlyFitted(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder(WithStopwords("Shall"))
	require.NoError(t, e.Prepare(ctx, []string{"theft shall be punished", "fraud shall be fined"}))

	fresh := e.Fresh()
	_, err := fresh.Embed(ctx, "theft")
	assert.ErrorIs(t, err, ErrNotPrepared)

	require.NoError(t, fresh.Prepare(ctx, []string{"theft shall be punished"}))
	assert.Equal(t, 2, fresh.Dimension())
	assert.Equal(t, 4, e.Dimension())
	assert.NotContains(t, fresh.(*Embedder).vocab.index, "shall")
}

func TestPrepareHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewEmbedder().Prepare(ctx, []string{"text"}), context.Canceled)
}

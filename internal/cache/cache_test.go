package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/domain"
)

func TestKey(t *testing.T) {
	a, err := Key([]byte("pdf bytes"), "laws/labor.pdf", "recursive:1000:200")
	require.NoError(t, err)
	assert.Len(t, a, 16)

	same, err := Key([]byte("pdf bytes"), "laws/labor.pdf", "recursive:1000:200")
	require.NoError(t, err)
	assert.Equal(t, a, same)

	otherParams, err := Key([]byte("pdf bytes"), "laws/labor.pdf", "recursive:500:100")
	require.NoError(t, err)
	assert.NotEqual(t, a, otherParams)

	otherBytes, err := Key([]byte("pdf bytez"), "laws/labor.pdf", "recursive:1000:200")
	require.NoError(t, err)
	assert.NotEqual(t, a, otherBytes)

	renamed, err := Key([]byte("pdf bytes"), "laws/labor-2024.pdf", "recursive:1000:200")
	require.NoError(t, err)
	assert.NotEqual(t, a, renamed)

	// Field boundaries are delimited.
	shifted, err := Key([]byte("pdf bytes"), "laws/labor.pdfrecursive:1000:20", "0")
	require.NoError(t, err)
	assert.NotEqual(t, a, shifted)
}

func TestChunkCache(t *testing.T) {
	ctx := context.Background()
	c, err := Open(filepath.Join(t.TempDir(), "chunks.db"))
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	chunks := []domain.Chunk{
		{Content: "[ARTICLE_1] المادة", LawName: "قانون العمل", Source: "labor.pdf", Script: domain.ScriptArabic, Page: 2, SequenceIndex: 0, TotalInDocument: 2},
		{Content: "second", LawName: "قانون العمل", Source: "labor.pdf", Script: domain.ScriptArabic, Page: 3, SequenceIndex: 1, TotalInDocument: 2},
	}
	require.NoError(t, c.Put(ctx, "k1", "labor.pdf", chunks))

	got, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, chunks, got)

	require.NoError(t, c.Put(ctx, "k1", "labor.pdf", chunks[:1]))
	got, _, err = c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, c.Put(ctx, "empty", "blank.pdf", nil))
	got, ok, err = c.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)

	require.NoError(t, c.Purge(ctx))
	_, ok, err = c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChunkCachePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chunks.db")
	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "k", "a.pdf", []domain.Chunk{{Content: "x", LawName: "A", Source: "a.pdf", TotalInDocument: 1}}))
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", got[0].Content)
}

func TestQueryCache(t *testing.T) {
	c := NewQueryCache(time.Minute, time.Minute)
	results := []domain.SearchResult{{Chunk: domain.Chunk{Content: "a"}, Score: 0.5}}

	_, ok := c.Get(1, "", "theft", 5)
	assert.False(t, ok)

	c.Set(1, "", "theft", 5, results)
	got, ok := c.Get(1, "", "theft", 5)
	require.True(t, ok)
	assert.Equal(t, results, got)

	got[0].Score = 0.9
	again, _ := c.Get(1, "", "theft", 5)
	assert.InDelta(t, 0.5, again[0].Score, 1e-9)

	_, ok = c.Get(2, "", "theft", 5)
	assert.False(t, ok, "other generation")
	_, ok = c.Get(1, "Penal Code", "theft", 5)
	assert.False(t, ok, "other scope")
	_, ok = c.Get(1, "", "theft", 3)
	assert.False(t, ok, "other k")

	assert.Equal(t, 1, c.Len())
	c.Flush()
	assert.Equal(t, 0, c.Len())
}

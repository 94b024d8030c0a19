package chunker

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/domain"
	"legalrag/internal/extractor"
)

func bodies(text string, spans []Span) []string {
	runes := []rune(text)
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = string(runes[s.Start:s.End])
	}
	return out
}

func reconstruct(parts []string, overlap int) string {
	var b strings.Builder
	for i, p := range parts {
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(string([]rune(p)[overlap:]))
	}
	return b.String()
}

func TestNewRecursiveChunker(t *testing.T) {
	c := NewRecursiveChunker()
	assert.Equal(t, DefaultChunkSize, c.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, c.Overlap())
	assert.Equal(t, "recursive:1000:200", c.Signature())

	c = NewRecursiveChunker(WithChunkSize(100), WithOverlap(150))
	assert.Less(t, c.Overlap(), 100)

	c = NewRecursiveChunker(WithChunkSize(0), WithOverlap(-1))
	assert.Equal(t, DefaultChunkSize, c.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, c.Overlap())
}

func TestSplitPrefersWordBoundaries(t *testing.T) {
	c := NewRecursiveChunker(WithChunkSize(10), WithOverlap(2))
	text := "hello world foo bar"
	got := bodies(text, c.Split(text))
	assert.Equal(t, []string{"hello ", "o world ", "d foo bar"}, got)
	assert.Equal(t, text, reconstruct(got, 2))
}

func TestSplitPrefersParagraphsOverLines(t *testing.T) {
	c := NewRecursiveChunker(WithChunkSize(20), WithOverlap(3))
	text := "first para\n\nline a\nline b and more text"
	got := bodies(text, c.Split(text))
	require.NotEmpty(t, got)
	assert.Equal(t, "first para\n\n", got[0])
	assert.Equal(t, text, reconstruct(got, 3))
}

func TestSplitHardCut(t *testing.T) {
	c := NewRecursiveChunker(WithChunkSize(6), WithOverlap(2))
	text := "abcdefghijklmnop"
	assert.Equal(t, []Span{{0, 6}, {4, 10}, {8, 14}, {12, 16}}, c.Split(text))
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, NewRecursiveChunker().Split(""))
}

func TestSplitReconstructsRandomText(t *testing.T) {
	alphabet := []rune("abc xyz\n\nالمادة٥ 12")
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		size := 20 + rng.Intn(80)
		overlap := rng.Intn(size / 2)
		c := NewRecursiveChunker(WithChunkSize(size), WithOverlap(overlap))

		runes := make([]rune, rng.Intn(2000))
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)

		spans := c.Split(text)
		parts := bodies(text, spans)
		for i, s := range spans {
			assert.LessOrEqual(t, s.End-s.Start, size)
			assert.Greater(t, s.End-s.Start, 0)
			if i > 0 {
				assert.Equal(t, spans[i-1].End-overlap, s.Start)
			}
		}
		require.Equal(t, text, reconstruct(parts, overlap), "round %d", round)
	}
}

func TestChunkAttachesMetadata(t *testing.T) {
	doc := extractor.Assemble("labor.pdf", []string{
		"Omani Labor Law\n" + strings.Repeat("Employment is a right. ", 20),
		strings.Repeat("No forced work. ", 20),
	})
	c := NewRecursiveChunker(WithChunkSize(120), WithOverlap(20))

	chunks, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	for i, ch := range chunks {
		assert.Equal(t, "Omani Labor Law", ch.LawName)
		assert.Equal(t, "labor.pdf", ch.Source)
		assert.Equal(t, i, ch.SequenceIndex)
		assert.Equal(t, len(chunks), ch.TotalInDocument)
		assert.NotEmpty(t, strings.TrimSpace(ch.Content))
		assert.LessOrEqual(t, len([]rune(ch.Content)), 120)
	}
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[len(chunks)-1].Page)
}

func TestChunkPageUnknownWithoutDelimiters(t *testing.T) {
	doc := domain.Document{Source: "x.pdf", LawName: "X", Text: "plain text without pages"}
	chunks, err := NewRecursiveChunker().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "unknown", chunks[0].PageLabel())
}

func TestChunkSkipsWhitespaceOnlyBodies(t *testing.T) {
	doc := domain.Document{Source: "x.pdf", LawName: "X", Text: "   "}
	chunks, err := NewRecursiveChunker().Chunk(doc)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkDropsBlankSpansButSplitStaysExact(t *testing.T) {
	text := "alpha" + strings.Repeat(" ", 30) + "omega"
	c := NewRecursiveChunker(WithChunkSize(10), WithOverlap(2))

	spans := c.Split(text)
	assert.Equal(t, text, reconstruct(bodies(text, spans), c.Overlap()))

	chunks, err := c.Chunk(domain.Document{Source: "x.pdf", LawName: "X", Text: text})
	require.NoError(t, err)
	assert.Less(t, len(chunks), len(spans))
	for i, ch := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(ch.Content))
		assert.Equal(t, i, ch.SequenceIndex)
		assert.Equal(t, len(chunks), ch.TotalInDocument)
	}
}

func TestChunkKeepsArabicScript(t *testing.T) {
	doc := extractor.Assemble("ar.pdf", []string{"قانون العمل العماني\nالمادة 1 العمل حق"})
	chunks, err := NewRecursiveChunker().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].HasScript())
}

func TestChunkSpanningPagesTakesFirstPage(t *testing.T) {
	doc := extractor.Assemble("short.pdf", []string{"Penal Code text", "second page", "third page"})
	chunks, err := NewRecursiveChunker().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].Page)
}

func TestPageIndex(t *testing.T) {
	text := "intro " + extractor.PageDelimiter(4) + " body " + extractor.PageDelimiter(5) + " tail"
	idx := newPageIndex(text)
	second := strings.Index(text, extractor.PageDelimiter(5))

	assert.Equal(t, 0, idx.of(0, 3))
	assert.Equal(t, 4, idx.of(0, len(text)))
	assert.Equal(t, 4, idx.of(second-2, second))
	assert.Equal(t, 5, idx.of(len(text)-4, len(text)))
}

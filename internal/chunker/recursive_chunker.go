package chunker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"legalrag/internal/domain"
	"legalrag/internal/extractor"
)

const (
	// DefaultChunkSize is the maximum number of runes per chunk.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the number of runes shared by consecutive chunks.
	DefaultChunkOverlap = 200
)

// Boundaries tried in order before falling back to a hard cut.
var separators = [][]rune{[]rune("\n\n"), []rune("\n"), []rune(" ")}

// RecursiveChunker splits text into bounded chunks with a fixed overlap,
// preferring paragraph, then line, then word boundaries.
type RecursiveChunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*RecursiveChunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *RecursiveChunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *RecursiveChunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

func NewRecursiveChunker(opts ...Option) *RecursiveChunker {
	c := &RecursiveChunker{chunkSize: DefaultChunkSize, overlap: DefaultChunkOverlap}
	for _, opt := range opts {
		opt(c)
	}
	// Configured values are checked by config.Validate. This guard only
	// keeps Split advancing for direct callers.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	return c
}

// Overlap returns the configured overlap in runes.
func (c *RecursiveChunker) Overlap() int { return c.overlap }

// Signature identifies the chunking parameters.
func (c *RecursiveChunker) Signature() string {
	return fmt.Sprintf("recursive:%d:%d", c.chunkSize, c.overlap)
}

// Span is a half-open rune range of the input text.
type Span struct {
	Start, End int
}

// Split returns the chunk spans of text. Each span after the first starts
// exactly Overlap() runes before the previous one ends.
func (c *RecursiveChunker) Split(text string) []Span {
	runes := []rune(text)
	n := len(runes)
	var spans []Span
	start := 0
	for start < n {
		end := start + c.chunkSize
		if end >= n {
			end = n
		} else {
			end = c.breakPoint(runes, start, end)
		}
		spans = append(spans, Span{Start: start, End: end})
		if end == n {
			break
		}
		start = end - c.overlap
	}
	return spans
}

// breakPoint picks the chunk end in (start+overlap, limit], preferring the
// latest occurrence of the highest-priority separator.
func (c *RecursiveChunker) breakPoint(runes []rune, start, limit int) int {
	lo := start + c.overlap
	for _, sep := range separators {
		if end := lastSeparatorEnd(runes, lo, limit, sep); end > 0 {
			return end
		}
	}
	return limit
}

// lastSeparatorEnd returns the index just past the last sep that ends in
// (lo, hi], or -1.
func lastSeparatorEnd(runes []rune, lo, hi int, sep []rune) int {
	for end := hi; end > lo; end-- {
		begin := end - len(sep)
		if begin < 0 {
			break
		}
		match := true
		for i, r := range sep {
			if runes[begin+i] != r {
				match = false
				break
			}
		}
		if match {
			return end
		}
	}
	return -1
}

// Chunk splits a document and attaches retrieval metadata to every chunk.
// Spans holding only whitespace are dropped, so chunk contents rebuild the
// text exactly only when no span was blank; Split is the lossless view.
func (c *RecursiveChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	text := document.Text
	spans := c.Split(text)
	byteAt := runeByteOffsets(text)
	pages := newPageIndex(text)

	bodies := make([]string, 0, len(spans))
	pageNums := make([]int, 0, len(spans))
	for _, s := range spans {
		start, end := byteAt[s.Start], byteAt[s.End]
		body := text[start:end]
		if strings.TrimSpace(body) == "" {
			continue
		}
		bodies = append(bodies, body)
		pageNums = append(pageNums, pages.of(start, end))
	}

	chunks := make([]domain.Chunk, 0, len(bodies))
	for i, body := range bodies {
		ch, err := domain.NewChunk(body, document.LawName, document.Source, document.Script, pageNums[i], i, len(bodies))
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", document.Source, err)
		}
		chunks = append(chunks, ch)
	}
	return chunks, nil
}

// pageIndex locates page delimiters by byte offset.
type pageIndex struct {
	ends  []int // byte offset just past each delimiter
	pages []int
}

func newPageIndex(text string) pageIndex {
	var idx pageIndex
	for _, loc := range extractor.PageDelimiterPattern.FindAllStringSubmatchIndex(text, -1) {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		idx.ends = append(idx.ends, loc[1])
		idx.pages = append(idx.pages, n)
	}
	return idx
}

// of returns the page of the chunk text[start:end]: the last delimiter
// completed before start, else the first one completed inside the chunk,
// else 0.
func (p pageIndex) of(start, end int) int {
	// i is the first delimiter ending after start.
	i := sort.SearchInts(p.ends, start+1)
	if i > 0 {
		return p.pages[i-1]
	}
	if i < len(p.ends) && p.ends[i] <= end {
		return p.pages[i]
	}
	return 0
}

func runeByteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

package domain

import (
	"context"
	"errors"
)

// ErrEmptyVocabulary is returned by Embedder.Prepare when the texts hold no
// indexable term.
var ErrEmptyVocabulary = errors.New("no indexable terms")

// Extractor pulls text and metadata out of a source file.
// Implementations never fail: problems are reported through Document.Err.
type Extractor interface {
	Extract(ctx context.Context, path string) Document
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
	// Signature identifies the chunking parameters, used to key caches.
	Signature() string
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore persists vectors and answers nearest-neighbour queries.
// Search returns L2 distances, ascending. An empty law matches every chunk.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, law string, topK int) ([]Neighbor, error)
	Clear(ctx context.Context) error
}

// Neighbor is a stored chunk at a given distance from a query vector.
// Position is the chunk's insertion order in the store.
type Neighbor struct {
	Chunk    Chunk
	Position int
	Distance float64
}

// Index answers ranked queries over an immutable chunk set.
type Index interface {
	Name() string
	Search(ctx context.Context, query string, topK int) ([]SearchResult, error)
	SearchScoped(ctx context.Context, query, lawName string, topK int) ([]SearchResult, error)
	Chunks() []Chunk
}

// Answerer produces natural-language text from a prompt.
type Answerer interface {
	Name() string
	Answer(ctx context.Context, prompt Prompt) (string, error)
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte, lang Lang) (string, error)
}

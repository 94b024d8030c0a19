package index

import (
	"context"
	"errors"
	"fmt"

	"legalrag/internal/domain"
	"legalrag/internal/vectorstore/memory"
)

// batchEmbedder is implemented by embedders that accept many inputs per call.
type batchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// corpusFitted is implemented by embedders whose vector space depends on
// the texts passed to Prepare. Fresh returns an unprepared copy.
type corpusFitted interface {
	Fresh() domain.Embedder
}

// Dense ranks chunks by L2 distance between embeddings and converts the
// distance d to the score 1/(1+d).
type Dense struct {
	embedder domain.Embedder
	store    domain.VectorStore
	chunks   []domain.Chunk
	// byLaw holds per-law sub-indexes when the embedder is corpus fitted.
	byLaw map[string]*Dense
}

// NewDense embeds every chunk once and loads the vectors into store.
// An empty chunk list yields an index that always returns no results.
//
// For corpus-fitted embedders each law also gets an in-memory sub-index
// with an embedder fitted to that law's chunks alone, and SearchScoped
// is answered there. Filtering the global space by law would rank with
// weights learned from other laws.
func NewDense(ctx context.Context, chunks []domain.Chunk, embedder domain.Embedder, store domain.VectorStore) (*Dense, error) {
	d, err := newDense(ctx, chunks, embedder, store)
	if err != nil {
		return nil, err
	}
	if fitted, ok := embedder.(corpusFitted); ok {
		if err := d.fitLaws(ctx, fitted); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dense) fitLaws(ctx context.Context, fitted corpusFitted) error {
	corpus := domain.Corpus(d.chunks)
	laws := corpus.Laws()
	d.byLaw = make(map[string]*Dense, len(laws))
	for _, law := range laws {
		emb := fitted.Fresh()
		sub, err := newDense(ctx, corpus.ByLaw(law), emb, memory.NewStorage())
		if errors.Is(err, domain.ErrEmptyVocabulary) {
			// Nothing in this law can match any query.
			d.byLaw[law] = &Dense{embedder: emb}
			continue
		}
		if err != nil {
			return fmt.Errorf("law %q: %w", law, err)
		}
		d.byLaw[law] = sub
	}
	return nil
}

func newDense(ctx context.Context, chunks []domain.Chunk, embedder domain.Embedder, store domain.VectorStore) (*Dense, error) {
	owned := make([]domain.Chunk, len(chunks))
	copy(owned, chunks)
	d := &Dense{embedder: embedder, store: store, chunks: owned}
	if len(owned) == 0 {
		return d, nil
	}

	texts := make([]string, len(owned))
	for i, ch := range owned {
		texts[i] = ch.Content
	}
	if err := embedder.Prepare(ctx, texts); err != nil {
		return nil, fmt.Errorf("prepare %s embedder: %w", embedder.Name(), err)
	}
	vectors, err := embedAll(ctx, embedder, texts)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx, len(vectors[0])); err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	if err := store.Upsert(ctx, owned, vectors); err != nil {
		return nil, fmt.Errorf("upsert vectors: %w", err)
	}
	return d, nil
}

func embedAll(ctx context.Context, embedder domain.Embedder, texts []string) ([][]float64, error) {
	if be, ok := embedder.(batchEmbedder); ok {
		vectors, err := be.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		return vectors, nil
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (d *Dense) Name() string { return string(StrategyDense) + ":" + d.embedder.Name() }

// Chunks returns the indexed chunks in corpus order. Callers must not modify it.
func (d *Dense) Chunks() []domain.Chunk { return d.chunks }

func (d *Dense) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	return d.search(ctx, query, "", topK)
}

func (d *Dense) SearchScoped(ctx context.Context, query, lawName string, topK int) ([]domain.SearchResult, error) {
	if lawName == "" {
		return nil, nil
	}
	if d.byLaw != nil {
		sub, ok := d.byLaw[lawName]
		if !ok {
			return nil, nil
		}
		return sub.search(ctx, query, "", topK)
	}
	return d.search(ctx, query, lawName, topK)
}

func (d *Dense) search(ctx context.Context, query, law string, topK int) ([]domain.SearchResult, error) {
	if blank(query) || len(d.chunks) == 0 {
		return nil, nil
	}
	vec, err := d.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	// A query with no known terms is equidistant from everything.
	if isZero(vec) {
		return nil, nil
	}
	neighbors, err := d.store.Search(ctx, vec, law, normalizeK(topK))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	out := make([]domain.SearchResult, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, domain.SearchResult{Chunk: n.Chunk, Score: 1 / (1 + n.Distance)})
	}
	return out, nil
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

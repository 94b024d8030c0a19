// Package service wires retrieval, article lookup and answer synthesis into
// the assistant used by the CLI and the TUI.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"legalrag/internal/cache"
	"legalrag/internal/domain"
	"legalrag/internal/index"
	"legalrag/internal/ingest"
	"legalrag/internal/locator"
	"legalrag/internal/segmenter"
)

// LexicalFloor is the default relevance floor for term-overlap scores.
const LexicalFloor = 0.2

// Ingester produces a corpus from file paths.
type Ingester interface {
	ProcessCorpus(ctx context.Context, paths []string) (domain.Corpus, ingest.Report, error)
}

// IndexBuilder builds a fresh index over chunks. Each call must return an
// index that shares no mutable state with earlier ones.
type IndexBuilder func(ctx context.Context, chunks []domain.Chunk) (domain.Index, error)

// LexicalBuilder builds term-overlap indexes.
func LexicalBuilder() IndexBuilder {
	return func(_ context.Context, chunks []domain.Chunk) (domain.Index, error) {
		return index.NewLexical(chunks), nil
	}
}

// DenseBuilder builds vector indexes with a fresh embedder and store per build.
func DenseBuilder(newDeps func() (index.Deps, error)) IndexBuilder {
	return func(ctx context.Context, chunks []domain.Chunk) (domain.Index, error) {
		deps, err := newDeps()
		if err != nil {
			return nil, err
		}
		return index.Build(ctx, index.StrategyDense, chunks, deps)
	}
}

// snapshot is the immutable state one generation of queries reads.
type snapshot struct {
	generation uint64
	corpus     domain.Corpus
	index      domain.Index
	locator    *locator.Locator
	report     ingest.Report
	builtAt    time.Time
}

// Assistant answers questions over the current corpus. Queries never block
// a Rebuild; they finish against the snapshot they started with.
type Assistant struct {
	ingester    Ingester
	build       IndexBuilder
	answerer    domain.Answerer
	transcriber domain.Transcriber
	queries     *cache.QueryCache
	floor       float64
	topK        int
	logger      *slog.Logger

	current    atomic.Pointer[snapshot]
	generation atomic.Uint64
}

// Option configures an Assistant.
type Option func(*Assistant)

func WithTranscriber(t domain.Transcriber) Option {
	return func(a *Assistant) { a.transcriber = t }
}

// WithQueryCache memoizes search results per index generation.
func WithQueryCache(c *cache.QueryCache) Option {
	return func(a *Assistant) { a.queries = c }
}

// WithRelevanceFloor sets the score a result must exceed to enter answer context.
func WithRelevanceFloor(floor float64) Option {
	return func(a *Assistant) { a.floor = floor }
}

// WithTopK sets how many results feed an answer.
func WithTopK(k int) Option {
	return func(a *Assistant) {
		if k > 0 {
			a.topK = k
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an assistant with an empty corpus.
func New(ingester Ingester, build IndexBuilder, answerer domain.Answerer, opts ...Option) *Assistant {
	a := &Assistant{
		ingester: ingester,
		build:    build,
		answerer: answerer,
		floor:    LexicalFloor,
		topK:     index.DefaultTopK,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.current.Store(&snapshot{index: index.NewLexical(nil), locator: locator.New(nil)})
	return a
}

func (a *Assistant) snap() *snapshot { return a.current.Load() }

// Rebuild ingests paths and replaces the corpus and index wholesale. On
// error the previous snapshot stays in place.
func (a *Assistant) Rebuild(ctx context.Context, patterns []string) (ingest.Report, error) {
	paths, err := ingest.ExpandPaths(patterns)
	if err != nil {
		return ingest.Report{}, err
	}
	corpus, report, err := a.ingester.ProcessCorpus(ctx, paths)
	if err != nil {
		return report, err
	}
	if err := a.install(ctx, corpus, report); err != nil {
		return report, err
	}
	return report, nil
}

// Load replaces the corpus with chunks that were produced elsewhere.
func (a *Assistant) Load(ctx context.Context, corpus domain.Corpus) error {
	return a.install(ctx, corpus, ingest.Report{Chunks: len(corpus)})
}

func (a *Assistant) install(ctx context.Context, corpus domain.Corpus, report ingest.Report) error {
	start := time.Now()
	idx, err := a.build(ctx, corpus)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	next := &snapshot{
		generation: a.generation.Add(1),
		corpus:     corpus,
		index:      idx,
		locator:    locator.New(corpus),
		report:     report,
		builtAt:    time.Now(),
	}
	a.current.Store(next)
	if a.queries != nil {
		a.queries.Flush()
	}
	a.logger.Info("index ready",
		"generation", next.generation, "index", idx.Name(),
		"chunks", len(corpus), "laws", len(corpus.Laws()), "took", time.Since(start))
	return nil
}

// Generation identifies the snapshot queries currently run against.
func (a *Assistant) Generation() uint64 { return a.snap().generation }

// Report describes the ingestion behind the current snapshot.
func (a *Assistant) Report() ingest.Report { return a.snap().report }

// Laws lists the law names of the current corpus.
func (a *Assistant) Laws() []string { return a.snap().corpus.Laws() }

// HasLaw reports whether law is part of the current corpus.
func (a *Assistant) HasLaw(law string) bool {
	for _, l := range a.Laws() {
		if l == law {
			return true
		}
	}
	return false
}

// Articles lists the distinct article numbers marked in law, ascending.
func (a *Assistant) Articles(law string) []int {
	seen := make(map[int]struct{})
	for _, ch := range a.snap().corpus.ByLaw(law) {
		for _, n := range segmenter.Numbers(ch.Content) {
			seen[n] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Search ranks chunks of the whole corpus.
func (a *Assistant) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	return a.search(ctx, a.snap(), query, "", topK)
}

// SearchScoped ranks chunks of one law.
func (a *Assistant) SearchScoped(ctx context.Context, query, law string, topK int) ([]domain.SearchResult, error) {
	if law == "" {
		return nil, nil
	}
	return a.search(ctx, a.snap(), query, law, topK)
}

func (a *Assistant) search(ctx context.Context, s *snapshot, query, law string, topK int) ([]domain.SearchResult, error) {
	if a.queries != nil {
		if hit, ok := a.queries.Get(s.generation, law, query, topK); ok {
			return hit, nil
		}
	}
	var (
		results []domain.SearchResult
		err     error
	)
	if law == "" {
		results, err = s.index.Search(ctx, query, topK)
	} else {
		results, err = s.index.SearchScoped(ctx, query, law, topK)
	}
	if err != nil {
		return nil, err
	}
	if a.queries != nil {
		a.queries.Set(s.generation, law, query, topK, results)
	}
	return results, nil
}

// Locate returns the text of an article. number may use Arabic-Indic digits
// or carry a prefix such as "Article".
func (a *Assistant) Locate(law, number string) (string, bool) {
	n := locator.NormalizeArticleNumber(number)
	if n == "" {
		return "", false
	}
	return a.snap().locator.Locate(law, n)
}

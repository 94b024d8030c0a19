// Package ingest turns a set of PDF paths into the merged chunk corpus.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"legalrag/internal/cache"
	"legalrag/internal/domain"
	"legalrag/internal/segmenter"
)

// ErrNoDocuments is returned by ExpandPaths when no pattern names a PDF.
var ErrNoDocuments = errors.New("no .pdf documents found")

// ChunkStore is the persistence the pipeline needs from a chunk cache.
type ChunkStore interface {
	Get(ctx context.Context, key string) ([]domain.Chunk, bool, error)
	Put(ctx context.Context, key, source string, chunks []domain.Chunk) error
}

// Failure records a file that contributed no chunks.
type Failure struct {
	Path string
	Err  error
}

// Report summarises one ProcessCorpus run.
type Report struct {
	Files     int
	Chunks    int
	CacheHits int
	Failures  []Failure
}

// Pipeline runs Extractor, Segmenter and Chunker over each file.
type Pipeline struct {
	extractor domain.Extractor
	chunker   domain.Chunker
	store     ChunkStore
	workers   int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithChunkStore enables the chunk cache.
func WithChunkStore(store ChunkStore) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithWorkers bounds the number of files processed at once.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPipeline(extractor domain.Extractor, chunker domain.Chunker, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		chunker:   chunker,
		workers:   4,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExpandPaths resolves glob patterns and keeps .pdf files, deduplicated, in
// pattern order. A plain path that does not exist is kept so the failure
// surfaces in the report.
func ExpandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matches == nil && !strings.ContainsAny(pattern, `*?[`) {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !strings.EqualFold(filepath.Ext(m), ".pdf") {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoDocuments
	}
	return out, nil
}

type fileResult struct {
	chunks []domain.Chunk
	hit    bool
	err    error
}

// ProcessCorpus ingests every path and merges the chunks in input order.
// Per-file problems land in Report.Failures and never abort the batch; the
// returned error is non-nil only when ctx is done.
func (p *Pipeline) ProcessCorpus(ctx context.Context, paths []string) (domain.Corpus, Report, error) {
	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.processFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, err
	}

	var corpus domain.Corpus
	report := Report{Files: len(paths)}
	for i, r := range results {
		if r.err != nil {
			report.Failures = append(report.Failures, Failure{Path: paths[i], Err: r.err})
			p.logger.Warn("document skipped", "path", paths[i], "error", r.err)
			continue
		}
		if r.hit {
			report.CacheHits++
		}
		corpus = append(corpus, r.chunks...)
	}
	report.Chunks = len(corpus)
	p.logger.Info("corpus ingested",
		"files", report.Files, "chunks", report.Chunks,
		"cache_hits", report.CacheHits, "failures", len(report.Failures))
	return corpus, report, nil
}

func (p *Pipeline) processFile(ctx context.Context, path string) fileResult {
	var key string
	if p.store != nil {
		if data, err := os.ReadFile(path); err == nil {
			key, err = cache.Key(data, path, p.chunker.Signature())
			if err != nil {
				p.logger.Debug("cache key", "path", path, "error", err)
				key = ""
			}
		}
		if key != "" {
			chunks, ok, err := p.store.Get(ctx, key)
			switch {
			case err != nil:
				p.logger.Warn("chunk cache read", "path", path, "error", err)
			case ok:
				p.logger.Debug("chunk cache hit", "path", path, "chunks", len(chunks))
				return fileResult{chunks: chunks, hit: true}
			}
		}
	}

	doc := p.extractor.Extract(ctx, path)
	if doc.Err != nil {
		return fileResult{err: doc.Err}
	}
	doc.Text = segmenter.Segment(doc.Text)
	chunks, err := p.chunker.Chunk(doc)
	if err != nil {
		return fileResult{err: fmt.Errorf("chunk %s: %w", path, err)}
	}
	p.logger.Debug("document chunked", "path", path, "law", doc.LawName, "pages", doc.Pages, "chunks", len(chunks))

	if key != "" {
		if err := p.store.Put(ctx, key, path, chunks); err != nil {
			p.logger.Warn("chunk cache write", "path", path, "error", err)
		}
	}
	return fileResult{chunks: chunks}
}

// AvailableLaws returns the sorted distinct law names in corpus.
func AvailableLaws(corpus domain.Corpus) []string {
	return corpus.Laws()
}

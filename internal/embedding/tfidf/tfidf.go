// Package tfidf is a local embedder whose vector space is fitted to the
// texts it will index. Vectors embedded under different fits are not
// comparable.
package tfidf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"legalrag/internal/domain"
)

var (
	ErrNotPrepared = errors.New("tfidf embedder not prepared")
	ErrEmptyCorpus = fmt.Errorf("tfidf corpus: %w", domain.ErrEmptyVocabulary)
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’]\p{L}+)*`)

var (
	englishStopwords = []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so",
		"such", "into", "about", "between", "through", "during", "before", "after", "above", "below",
		"out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	arabicStopwords = []string{
		"في", "من", "على", "إلى", "عن", "أو", "أن", "التي", "الذي", "هذا", "هذه",
	}
)

// vocabulary is one fit: term positions and smoothed inverse document frequencies.
type vocabulary struct {
	index map[string]int
	idf   []float64
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithStopwords adds words to the default English and Arabic stopword lists.
func WithStopwords(words ...string) Option {
	return func(e *Embedder) {
		for _, w := range words {
			e.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// Embedder vectorizes text as L2-normalized TF-IDF weights over the
// vocabulary of the last Prepare call.
type Embedder struct {
	opts      []Option
	stopwords map[string]struct{}
	vocab     *vocabulary
}

func NewEmbedder(opts ...Option) *Embedder {
	e := &Embedder{opts: opts, stopwords: make(map[string]struct{})}
	for _, list := range [][]string{englishStopwords, arabicStopwords} {
		for _, w := range list {
			e.stopwords[w] = struct{}{}
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Embedder) Name() string { return "tfidf" }

// Fresh returns an unprepared embedder with the same options, for fitting
// to a different set of texts.
func (e *Embedder) Fresh() domain.Embedder { return NewEmbedder(e.opts...) }

// Prepare fits the vocabulary to corpus, replacing any previous fit.
func (e *Embedder) Prepare(ctx context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	df := make(map[string]int)
	for _, text := range corpus {
		if err := ctx.Err(); err != nil {
			return err
		}
		for term := range e.termCounts(text) {
			df[term]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyCorpus
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &vocabulary{index: make(map[string]int, len(terms)), idf: make([]float64, len(terms))}
	n := float64(len(corpus))
	for i, term := range terms {
		v.index[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	e.vocab = v
	return nil
}

// Dimension is the vocabulary size, 0 before Prepare.
func (e *Embedder) Dimension() int {
	if e.vocab == nil {
		return 0
	}
	return len(e.vocab.idf)
}

// Embed maps text into the fitted space. Text with no vocabulary term
// yields the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	v := e.vocab
	if v == nil {
		return nil, ErrNotPrepared
	}
	vec := make([]float64, len(v.idf))
	for term, count := range e.termCounts(text) {
		if i, ok := v.index[term]; ok {
			vec[i] = float64(count) * v.idf[i]
		}
	}
	// Summed in index order so equal inputs give bit-identical vectors.
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return vec, nil
	}
	norm := math.Sqrt(sum)
	for i, w := range vec {
		if w != 0 {
			vec[i] = w / norm
		}
	}
	return vec, nil
}

// termCounts returns lowercased non-stopword token frequencies.
func (e *Embedder) termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		counts[tok]++
	}
	return counts
}

package index

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"legalrag/internal/domain"
)

// exactMatchBonus is added when the whole query occurs verbatim in a chunk.
const exactMatchBonus = 0.5

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Lexical scores chunks by query term overlap. Scores lie in (0, 1];
// chunks sharing no term with the query are never returned.
type Lexical struct {
	chunks  []domain.Chunk
	lowered []string
}

// NewLexical indexes a private copy of chunks.
func NewLexical(chunks []domain.Chunk) *Lexical {
	owned := make([]domain.Chunk, len(chunks))
	copy(owned, chunks)
	lowered := make([]string, len(owned))
	for i, ch := range owned {
		lowered[i] = strings.ToLower(ch.Content)
	}
	return &Lexical{chunks: owned, lowered: lowered}
}

func (l *Lexical) Name() string { return string(StrategyLexical) }

// Chunks returns the indexed chunks in corpus order. Callers must not modify it.
func (l *Lexical) Chunks() []domain.Chunk { return l.chunks }

func (l *Lexical) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	return l.rank(query, "", topK), nil
}

func (l *Lexical) SearchScoped(_ context.Context, query, lawName string, topK int) ([]domain.SearchResult, error) {
	if lawName == "" {
		return nil, nil
	}
	return l.rank(query, lawName, topK), nil
}

func (l *Lexical) rank(query, law string, topK int) []domain.SearchResult {
	if blank(query) || len(l.chunks) == 0 {
		return nil
	}
	lowerQuery := strings.ToLower(strings.TrimSpace(query))
	tokens := wordPattern.FindAllString(lowerQuery, -1)
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	var hits []scored
	for i := range l.chunks {
		if law != "" && l.chunks[i].LawName != law {
			continue
		}
		if s := LexicalScore(tokens, lowerQuery, l.lowered[i]); s > 0 {
			hits = append(hits, scored{i, s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	topK = min(normalizeK(topK), len(hits))
	out := make([]domain.SearchResult, 0, topK)
	for _, h := range hits[:topK] {
		out = append(out, domain.SearchResult{Chunk: l.chunks[h.idx], Score: h.score})
	}
	return out
}

// LexicalScore computes the overlap score of lowercased text for tokenized
// lowerQuery: distinct tokens present over total tokens, plus the exact
// match bonus, clamped to 1.
func LexicalScore(tokens []string, lowerQuery, text string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(tokens))
	present := 0
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		if strings.Contains(text, tok) {
			present++
		}
	}
	if present == 0 {
		return 0
	}
	score := float64(present) / float64(len(tokens))
	if strings.Contains(text, lowerQuery) {
		score += exactMatchBonus
	}
	return min(score, 1.0)
}

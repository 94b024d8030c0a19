// Package index builds searchable indexes over a chunk set. Two strategies
// share the domain.Index contract: lexical term overlap and dense vectors.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legalrag/internal/domain"
)

// DefaultTopK is used when a caller passes k <= 0.
const DefaultTopK = 5

// ErrUnknownStrategy is returned by Build for an unsupported strategy name.
var ErrUnknownStrategy = errors.New("unknown index strategy")

// Strategy names an index implementation.
type Strategy string

const (
	StrategyLexical Strategy = "lexical"
	StrategyDense   Strategy = "dense"
)

// Deps carries the collaborators the dense strategy needs.
type Deps struct {
	Embedder domain.Embedder
	Store    domain.VectorStore
}

// Build constructs the index for strategy over chunks.
func Build(ctx context.Context, strategy Strategy, chunks []domain.Chunk, deps Deps) (domain.Index, error) {
	switch strategy {
	case StrategyLexical, "":
		return NewLexical(chunks), nil
	case StrategyDense:
		if deps.Embedder == nil || deps.Store == nil {
			return nil, errors.New("dense index requires an embedder and a vector store")
		}
		return NewDense(ctx, chunks, deps.Embedder, deps.Store)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}

func normalizeK(k int) int {
	if k <= 0 {
		return DefaultTopK
	}
	return k
}

func blank(query string) bool {
	return strings.TrimSpace(query) == ""
}

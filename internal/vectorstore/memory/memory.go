package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"legalrag/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force L2 distance.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.chunks = nil
	return nil
}

func (s *Storage) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK nearest chunks, restricted to law when it is set.
// Equal distances keep insertion order.
func (s *Storage) Search(_ context.Context, vector []float64, law string, topK int) ([]domain.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	if len(s.vectors) > 0 && len(vector) != s.dimension {
		return nil, errors.New("query dimension mismatch")
	}
	candidates := make([]domain.Neighbor, 0, len(s.vectors))
	for i := range s.vectors {
		if law != "" && s.chunks[i].LawName != law {
			continue
		}
		candidates = append(candidates, domain.Neighbor{
			Chunk:    s.chunks[i],
			Position: i,
			Distance: l2(s.vectors[i], vector),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})
	if topK > len(candidates) {
		topK = len(candidates)
	}
	return candidates[:topK], nil
}

func (s *Storage) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

func l2(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

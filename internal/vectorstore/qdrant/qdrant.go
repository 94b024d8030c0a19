package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"legalrag/internal/domain"
)

// Storage is a minimal REST client to Qdrant.
// It uses Euclid distance and recreates the collection on Init.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	next       int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	s.next = 0
	// The index is rebuilt wholesale, so stale points must not survive.
	if err := s.Clear(ctx); err != nil {
		return err
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Euclid",
		},
	}
	if err := s.send(ctx, http.MethodPut, s.collectionURL(""), body, nil); err != nil {
		return err
	}
	index := map[string]any{"field_name": "law_name", "field_schema": "keyword"}
	return s.send(ctx, http.MethodPut, s.collectionURL("/index?wait=true"), index, nil)
}

func (s *Storage) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	points := make([]map[string]any, len(chunks))
	for i, ch := range chunks {
		pos := s.next + i
		points[i] = map[string]any{
			"id":     PointID(ch),
			"vector": vectors[i],
			"payload": map[string]any{
				"content":           ch.Content,
				"law_name":          ch.LawName,
				"source":            ch.Source,
				"script":            ch.Script.String(),
				"page":              ch.Page,
				"sequence_index":    ch.SequenceIndex,
				"total_in_document": ch.TotalInDocument,
				"position":          pos,
			},
		}
	}
	body := map[string]any{"points": points}
	if err := s.send(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil); err != nil {
		return err
	}
	s.next += len(chunks)
	return nil
}

// Search queries the collection, filtered on law_name when law is set.
func (s *Storage) Search(ctx context.Context, vector []float64, law string, topK int) ([]domain.Neighbor, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if law != "" {
		req["filter"] = map[string]any{
			"must": []any{
				map[string]any{"key": "law_name", "match": map[string]any{"value": law}},
			},
		}
	}
	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload payload `json:"payload"`
		} `json:"result"`
	}
	if err := s.send(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Neighbor, 0, len(resp.Result))
	for _, r := range resp.Result {
		out = append(out, domain.Neighbor{
			Chunk:    r.Payload.chunk(),
			Position: r.Payload.Position,
			Distance: r.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// Clear drops the collection. A missing collection is not an error.
func (s *Storage) Clear(ctx context.Context) error {
	err := s.send(ctx, http.MethodDelete, s.collectionURL(""), nil, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil
	}
	return err
}

// PointID derives a stable point id from a chunk's identity.
func PointID(ch domain.Chunk) string {
	key := ch.Source + "#" + strconv.Itoa(ch.SequenceIndex)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

type payload struct {
	Content         string `json:"content"`
	LawName         string `json:"law_name"`
	Source          string `json:"source"`
	Script          string `json:"script"`
	Page            int    `json:"page"`
	SequenceIndex   int    `json:"sequence_index"`
	TotalInDocument int    `json:"total_in_document"`
	Position        int    `json:"position"`
}

func (p payload) chunk() domain.Chunk {
	script := domain.ScriptLatin
	if p.Script == domain.ScriptArabic.String() {
		script = domain.ScriptArabic
	}
	return domain.Chunk{
		Content:         p.Content,
		LawName:         p.LawName,
		Source:          p.Source,
		Script:          script,
		Page:            p.Page,
		SequenceIndex:   p.SequenceIndex,
		TotalInDocument: p.TotalInDocument,
	}
}

type statusError struct {
	method string
	url    string
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant %s %s failed: %s", e.method, e.url, e.status)
}

func (s *Storage) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func (s *Storage) send(ctx context.Context, method, url string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{method: method, url: url, code: resp.StatusCode, status: resp.Status}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

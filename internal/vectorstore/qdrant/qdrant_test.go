package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/domain"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func fakeQdrant(t *testing.T, searchResult any) (*httptest.Server, *[]recorded) {
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		rec := recorded{method: r.Method, path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()

		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/collections/laws/points/search":
			_ = json.NewEncoder(w).Encode(map[string]any{"result": searchResult})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"result": true})
		}
	}))
	return srv, &calls
}

func TestStorageInitAndUpsert(t *testing.T) {
	srv, calls := fakeQdrant(t, nil)
	defer srv.Close()
	ctx := context.Background()

	s := NewStorage(Config{URL: srv.URL, APIKey: "secret", Collection: "laws"})
	require.NoError(t, s.Init(ctx, 3))

	chunks := []domain.Chunk{
		{Content: "x", LawName: "A", Source: "a.pdf", SequenceIndex: 0, TotalInDocument: 2},
		{Content: "y", LawName: "A", Source: "a.pdf", SequenceIndex: 1, TotalInDocument: 2, Script: domain.ScriptArabic},
	}
	require.NoError(t, s.Upsert(ctx, chunks, [][]float64{{1, 2, 3}, {4, 5, 6}}))

	require.Len(t, *calls, 4)
	assert.Equal(t, http.MethodDelete, (*calls)[0].method)
	create := (*calls)[1]
	assert.Equal(t, "/collections/laws", create.path)
	assert.Equal(t, "Euclid", create.body["vectors"].(map[string]any)["distance"])
	assert.Equal(t, "/collections/laws/index", (*calls)[2].path)

	upsert := (*calls)[3]
	points := upsert.body["points"].([]any)
	require.Len(t, points, 2)
	second := points[1].(map[string]any)
	assert.Equal(t, PointID(chunks[1]), second["id"])
	assert.Equal(t, "arabic", second["payload"].(map[string]any)["script"])
	assert.EqualValues(t, 1, second["payload"].(map[string]any)["position"])
}

func TestStorageSearchScoped(t *testing.T) {
	result := []map[string]any{
		{"score": 0.5, "payload": map[string]any{"content": "late", "law_name": "A", "source": "a.pdf", "position": 4, "total_in_document": 5, "sequence_index": 4}},
		{"score": 0.5, "payload": map[string]any{"content": "early", "law_name": "A", "source": "a.pdf", "position": 1, "total_in_document": 5, "sequence_index": 1, "script": "arabic", "page": 2}},
		{"score": 0.1, "payload": map[string]any{"content": "best", "law_name": "A", "source": "a.pdf", "position": 3, "total_in_document": 5, "sequence_index": 3}},
	}
	srv, calls := fakeQdrant(t, result)
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, APIKey: "secret", Collection: "laws"})
	got, err := s.Search(context.Background(), []float64{1, 2, 3}, "A", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "best", got[0].Chunk.Content)
	assert.Equal(t, "early", got[1].Chunk.Content)
	assert.True(t, got[1].Chunk.HasScript())
	assert.Equal(t, 2, got[1].Chunk.Page)
	assert.Equal(t, "late", got[2].Chunk.Content)

	req := (*calls)[0].body
	must := req["filter"].(map[string]any)["must"].([]any)
	cond := must[0].(map[string]any)
	assert.Equal(t, "law_name", cond["key"])
	assert.Equal(t, "A", cond["match"].(map[string]any)["value"])
}

func TestPointIDStable(t *testing.T) {
	a := domain.Chunk{Source: "a.pdf", SequenceIndex: 2}
	assert.Equal(t, PointID(a), PointID(a))
	assert.NotEqual(t, PointID(a), PointID(domain.Chunk{Source: "a.pdf", SequenceIndex: 3}))
}

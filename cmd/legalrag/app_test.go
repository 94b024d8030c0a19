package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/config"
	"legalrag/internal/service"
)

func TestRelevanceFloor(t *testing.T) {
	assert.InDelta(t, service.LexicalFloor, relevanceFloor(config.IndexConfig{Strategy: "lexical"}), 1e-9)
	assert.InDelta(t, 0.5, relevanceFloor(config.IndexConfig{Strategy: "dense"}), 1e-9)
	assert.InDelta(t, 0.3, relevanceFloor(config.IndexConfig{Strategy: "dense", RelevanceFloor: 0.3}), 1e-9)
}

func TestNewEmbedder(t *testing.T) {
	emb, err := newEmbedder(config.EmbedderConfig{Type: "tfidf"})
	require.NoError(t, err)
	assert.Equal(t, "tfidf", emb.Name())

	_, err = newEmbedder(config.EmbedderConfig{Type: "openai"})
	assert.Error(t, err)
	_, err = newEmbedder(config.EmbedderConfig{Type: "glove"})
	assert.Error(t, err)
}

func TestNewAnswerer(t *testing.T) {
	a, tr, err := newAnswerer(config.LLMConfig{Provider: "extractive"})
	require.NoError(t, err)
	assert.Equal(t, "extractive", a.Name())
	assert.Nil(t, tr)

	t.Setenv("LEGALRAG_CMD_KEY", "k")
	a, tr, err = newAnswerer(config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKeyEnv: "LEGALRAG_CMD_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o-mini", a.Name())
	assert.NotNil(t, tr)
}

func TestNewAppWithoutDocuments(t *testing.T) {
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ingest:\n  paths: ["+filepath.Join(dir, "*.pdf")+"]\n"), 0o644))
	t.Cleanup(func() { cfgPath = "" })

	_, err := newApp(context.Background())
	assert.Error(t, err)
}

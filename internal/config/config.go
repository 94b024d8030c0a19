// Package config loads the YAML application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// IndexConfig selects the retrieval strategy.
type IndexConfig struct {
	Strategy string `yaml:"strategy"`
	// RelevanceFloor drops results at or below it when building answer
	// context. Zero picks the strategy's default.
	RelevanceFloor float64 `yaml:"relevance_floor"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
// Sizes are in characters.
type ChunkerConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IngestConfig controls the document pipeline.
type IngestConfig struct {
	// Paths are file paths or glob patterns of the PDF corpus.
	Paths   []string `yaml:"paths"`
	Workers int      `yaml:"workers"`
	// CacheDSN is a sqlite DSN for the chunk cache. Empty disables it.
	CacheDSN string `yaml:"cache_dsn"`
}

// LLMConfig selects the answer generator and transcriber.
type LLMConfig struct {
	Provider           string `yaml:"provider"`
	Model              string `yaml:"model"`
	TranscriptionModel string `yaml:"transcription_model"`
	BaseURL            string `yaml:"base_url"`
	APIKeyEnv          string `yaml:"api_key_env"`
	TimeoutSecs        int    `yaml:"timeout_secs"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Index       IndexConfig       `yaml:"index"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Ingest      IngestConfig      `yaml:"ingest"`
	LLM         LLMConfig         `yaml:"llm"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/legalrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/legalrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first setting that would make startup impossible.
// Credentials are looked up in the environment, so call it after .env is loaded.
func (c *AppConfig) Validate() error {
	switch c.Index.Strategy {
	case "lexical", "dense":
	default:
		return fmt.Errorf("%w: index.strategy %q", ErrInvalidConfig, c.Index.Strategy)
	}
	if c.Index.RelevanceFloor < 0 || c.Index.RelevanceFloor >= 1 {
		return fmt.Errorf("%w: index.relevance_floor must be in [0,1)", ErrInvalidConfig)
	}
	switch c.Embedder.Type {
	case "tfidf":
	case "openai":
		if c.Embedder.OpenAI == nil {
			return fmt.Errorf("%w: embedder.openai section missing", ErrInvalidConfig)
		}
		if os.Getenv(c.Embedder.OpenAI.APIKeyEnv) == "" {
			return fmt.Errorf("%w: embedder needs %s set", ErrInvalidConfig, c.Embedder.OpenAI.APIKeyEnv)
		}
	default:
		return fmt.Errorf("%w: embedder.type %q", ErrInvalidConfig, c.Embedder.Type)
	}
	if c.Chunker.Size <= 0 || c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.Size {
		return fmt.Errorf("%w: chunker size %d overlap %d", ErrInvalidConfig, c.Chunker.Size, c.Chunker.Overlap)
	}
	switch c.VectorStore.Type {
	case "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return fmt.Errorf("%w: vector_store.qdrant.url missing", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: vector_store.type %q", ErrInvalidConfig, c.VectorStore.Type)
	}
	switch c.LLM.Provider {
	case "extractive":
	case "openai":
		if os.Getenv(c.LLM.APIKeyEnv) == "" {
			return fmt.Errorf("%w: llm needs %s set", ErrInvalidConfig, c.LLM.APIKeyEnv)
		}
	default:
		return fmt.Errorf("%w: llm.provider %q", ErrInvalidConfig, c.LLM.Provider)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "legalrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Index:       IndexConfig{Strategy: "lexical"},
		Embedder:    EmbedderConfig{Type: "tfidf"},
		Chunker:     ChunkerConfig{Size: 1000, Overlap: 200},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Ingest:      IngestConfig{Paths: []string{"laws/*.pdf"}, Workers: 4},
		LLM:         LLMConfig{Provider: "extractive"},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Index.Strategy == "" {
		cfg.Index.Strategy = "lexical"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = 1000
		if cfg.Chunker.Overlap == 0 {
			cfg.Chunker.Overlap = 200
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.Collection == "" {
			q.Collection = "legal_chunks"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 10
		}
	}
	if cfg.Ingest.Workers <= 0 {
		cfg.Ingest.Workers = 4
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "extractive"
	}
	if cfg.LLM.Provider == "openai" {
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = "gpt-4o-mini"
		}
		if cfg.LLM.TranscriptionModel == "" {
			cfg.LLM.TranscriptionModel = "whisper-1"
		}
		if cfg.LLM.APIKeyEnv == "" {
			cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.LLM.TimeoutSecs == 0 {
			cfg.LLM.TimeoutSecs = 60
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

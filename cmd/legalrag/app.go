package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"legalrag/internal/cache"
	"legalrag/internal/chunker"
	"legalrag/internal/config"
	"legalrag/internal/domain"
	"legalrag/internal/embedding/openai"
	"legalrag/internal/embedding/tfidf"
	"legalrag/internal/extractor"
	"legalrag/internal/index"
	"legalrag/internal/ingest"
	"legalrag/internal/llm"
	"legalrag/internal/service"
	"legalrag/internal/vectorstore"
)

// app holds the assembled components for one command run.
type app struct {
	cfg       *config.AppConfig
	logger    *slog.Logger
	lang      domain.Lang
	assistant *service.Assistant
	report    ingest.Report
	closers   []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close", "error", err)
		}
	}
}

func loadConfig() (*config.AppConfig, string, error) {
	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		return cfg, cfgPath, err
	}
	return config.LoadDefault()
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newApp loads configuration, assembles every component and ingests the corpus.
func newApp(ctx context.Context) (*app, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lang, err := domain.ParseLang(langArg)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log)
	logger.Debug("config loaded", "path", path)

	a := &app{cfg: cfg, logger: logger, lang: lang}

	ch := chunker.NewRecursiveChunker(chunker.WithChunkSize(cfg.Chunker.Size), chunker.WithOverlap(cfg.Chunker.Overlap))
	pipelineOpts := []ingest.Option{ingest.WithWorkers(cfg.Ingest.Workers), ingest.WithLogger(logger)}
	if cfg.Ingest.CacheDSN != "" {
		store, err := cache.Open(cfg.Ingest.CacheDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		if purge {
			if err := store.Purge(ctx); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to purge chunk cache: %w", err)
			}
			logger.Info("chunk cache purged", "dsn", cfg.Ingest.CacheDSN)
		}
		pipelineOpts = append(pipelineOpts, ingest.WithChunkStore(store))
	}
	pipeline := ingest.NewPipeline(extractor.NewPDFExtractor(logger), ch, pipelineOpts...)

	answerer, transcriber, err := newAnswerer(cfg.LLM)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithRelevanceFloor(relevanceFloor(cfg.Index)),
		service.WithQueryCache(cache.NewQueryCache(10*time.Minute, 20*time.Minute)),
	}
	if transcriber != nil {
		opts = append(opts, service.WithTranscriber(transcriber))
	}
	a.assistant = service.New(pipeline, newIndexBuilder(cfg), answerer, opts...)

	paths := docs
	if len(paths) == 0 {
		paths = cfg.Ingest.Paths
	}
	a.report, err = a.assistant.Rebuild(ctx, paths)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	for _, f := range a.report.Failures {
		logger.Warn("could not process document", "path", f.Path, "error", f.Err)
	}
	return a, nil
}

// relevanceFloor picks the configured floor or the strategy default. Dense
// scores are 1/(1+d), so 0.5 keeps neighbours closer than unit distance.
func relevanceFloor(cfg config.IndexConfig) float64 {
	if cfg.RelevanceFloor > 0 {
		return cfg.RelevanceFloor
	}
	if cfg.Strategy == string(index.StrategyDense) {
		return 0.5
	}
	return service.LexicalFloor
}

func newIndexBuilder(cfg *config.AppConfig) service.IndexBuilder {
	if cfg.Index.Strategy != string(index.StrategyDense) {
		return service.LexicalBuilder()
	}
	return service.DenseBuilder(func() (index.Deps, error) {
		emb, err := newEmbedder(cfg.Embedder)
		if err != nil {
			return index.Deps{}, err
		}
		store, err := vectorstore.New(cfg.VectorStore)
		if err != nil {
			return index.Deps{}, err
		}
		return index.Deps{Embedder: emb, Store: store}, nil
	})
}

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.OpenAI.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func newAnswerer(cfg config.LLMConfig) (domain.Answerer, domain.Transcriber, error) {
	switch cfg.Provider {
	case "extractive", "":
		return llm.NewExtractiveAnswerer(5), nil, nil
	case "openai":
		lc := llm.Config{
			BaseURL:            cfg.BaseURL,
			APIKeyEnv:          cfg.APIKeyEnv,
			Model:              cfg.Model,
			TranscriptionModel: cfg.TranscriptionModel,
			Timeout:            time.Duration(cfg.TimeoutSecs) * time.Second,
		}
		answerer, err := llm.NewOpenAIAnswerer(lc)
		if err != nil {
			return nil, nil, err
		}
		transcriber, err := llm.NewWhisperTranscriber(lc)
		if err != nil {
			return nil, nil, err
		}
		return answerer, transcriber, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// Package llm holds the text-generation collaborators: answer synthesis,
// the bilingual prompts fed to it, and audio transcription.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"legalrag/internal/domain"
)

// ErrEmptyResponse is returned when the model produced no choices.
var ErrEmptyResponse = errors.New("empty response from model")

// Config configures the OpenAI-compatible client.
type Config struct {
	BaseURL            string
	APIKeyEnv          string
	Model              string
	TranscriptionModel string
	Timeout            time.Duration
}

// OpenAIAnswerer generates answers through chat completions.
type OpenAIAnswerer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func newClient(cfg Config) (*openai.Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	clientConfig := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig), nil
}

// NewOpenAIAnswerer creates an answerer reading its key from cfg.APIKeyEnv.
func NewOpenAIAnswerer(cfg Config) (*OpenAIAnswerer, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAIAnswerer{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (a *OpenAIAnswerer) Name() string { return "openai:" + a.model }

// Answer sends the rendered prompt as a single user message.
func (a *OpenAIAnswerer) Answer(ctx context.Context, prompt domain.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Render(prompt)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// WhisperTranscriber transcribes audio through the transcription endpoint.
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewWhisperTranscriber(cfg Config) (*WhisperTranscriber, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.TranscriptionModel == "" {
		cfg.TranscriptionModel = openai.Whisper1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &WhisperTranscriber{client: client, model: cfg.TranscriptionModel, timeout: cfg.Timeout}, nil
}

// Transcribe returns the spoken text. An empty lang lets the model detect it.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, filename string, audio []byte, lang domain.Lang) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio")
	}
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: string(lang),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Package aigen classifies syllabus documents and generates practice questions
// with a langchaingo model (Gemini or Ollama).
package aigen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syllabus-buddy/internal/config"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const (
	defaultClassifyTemperature = 0.1
	defaultGenerateTemperature = 0.7
	defaultQuestionCount       = 5
)

// Client implements domain.SyllabusClassifier and domain.QuestionGenerator.
type Client struct {
	llm                 llms.Model
	classifyTemperature float64
	generateTemperature float64
	questionCount       int
}

// Option configures a Client.
type Option func(*Client)

func WithClassifyTemperature(t float64) Option {
	return func(c *Client) { c.classifyTemperature = t }
}

func WithGenerateTemperature(t float64) Option {
	return func(c *Client) { c.generateTemperature = t }
}

// WithQuestionCount sets how many questions are requested per generation.
func WithQuestionCount(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.questionCount = n
		}
	}
}

// New wraps an existing langchaingo model.
func New(llm llms.Model, opts ...Option) *Client {
	c := &Client{
		llm:                 llm,
		classifyTemperature: defaultClassifyTemperature,
		generateTemperature: defaultGenerateTemperature,
		questionCount:       defaultQuestionCount,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds the model selected by cfg.Provider.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig, opts ...Option) (*Client, error) {
	var (
		llm llms.Model
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("gemini api key is not configured")
		}
		llm, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.Gemini.APIKey),
			googleai.WithDefaultModel(cfg.Gemini.Model),
		)
	case "ollama":
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.Ollama.ServerURL),
			ollama.WithModel(cfg.Ollama.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Provider, err)
	}

	logger.Get().Info("LLM client initialized", zap.String("provider", cfg.Provider))
	return New(llm, opts...), nil
}

func (c *Client) call(ctx context.Context, parts []llms.ContentPart, temperature float64) (string, error) {
	l := logger.Get()

	resp, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{{Role: llms.ChatMessageTypeHuman, Parts: parts}},
		llms.WithTemperature(temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", errors.New("LLM returned no choices")
	}

	l.Debug("Raw LLM response received", zap.String("raw_response", resp.Choices[0].Content))
	return resp.Choices[0].Content, nil
}

var (
	_ domain.SyllabusClassifier = (*Client)(nil)
	_ domain.QuestionGenerator  = (*Client)(nil)
)

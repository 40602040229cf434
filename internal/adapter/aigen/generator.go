package aigen

import (
	"context"
	"errors"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/logger"
	"syllabus-buddy/internal/validation"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

var errNoQuestions = errors.New("LLM returned no usable questions")

type generateResponse struct {
	Questions []domain.GeneratedQuestion `json:"questions"`
}

// GenerateQuestions asks the model for practice questions tailored to level and region.
func (c *Client) GenerateQuestions(ctx context.Context, topicName, level, region string) ([]domain.GeneratedQuestion, error) {
	l := logger.Get()
	l.Info("Generating questions with LLM",
		zap.String("topic", topicName),
		zap.String("level", level),
		zap.String("region", region),
		zap.Int("count", c.questionCount))

	prompt := buildGeneratePrompt(c.questionCount, topicName, level, region)
	raw, err := c.call(ctx, []llms.ContentPart{llms.TextPart(prompt)}, c.generateTemperature)
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	var resp generateResponse
	if err := decodeResponse(raw, &resp); err != nil {
		l.Error("Failed to parse generation response", zap.Error(err), zap.String("raw_response", raw))
		return nil, domain.NewGenerationError(err)
	}

	questions := validation.NormalizeQuestions(resp.Questions)
	if len(questions) == 0 {
		return nil, domain.NewGenerationError(errNoQuestions)
	}
	if dropped := len(resp.Questions) - len(questions); dropped > 0 {
		l.Warn("Dropped blank generated questions", zap.Int("dropped", dropped))
	}
	return questions, nil
}

package aigen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/logger"
	"syllabus-buddy/internal/validation"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type classifyResponse struct {
	Subjects []domain.ClassifiedSubject `json:"subjects"`
	Error    string                     `json:"error"`
}

// Classify sends the document to the model and parses the subject tree it returns.
func (c *Client) Classify(ctx context.Context, doc domain.Document) ([]domain.ClassifiedSubject, error) {
	l := logger.Get()
	l.Info("Classifying syllabus with LLM",
		zap.String("name", doc.Name),
		zap.String("mimeType", doc.MIMEType))

	data, err := base64.StdEncoding.DecodeString(doc.Base64Data)
	if err != nil {
		return nil, domain.NewClassificationError("", fmt.Errorf("invalid document encoding: %w", err))
	}

	parts := []llms.ContentPart{
		documentPart(doc.MIMEType, data),
		llms.TextPart(buildClassifyPrompt(doc.Name)),
	}

	raw, err := c.call(ctx, parts, c.classifyTemperature)
	if err != nil {
		return nil, domain.NewClassificationError("", err)
	}

	var resp classifyResponse
	if err := decodeResponse(raw, &resp); err != nil {
		l.Error("Failed to parse classification response", zap.Error(err), zap.String("raw_response", raw))
		return nil, domain.NewClassificationError("", err)
	}
	if resp.Error != "" {
		l.Warn("Model rejected the document", zap.String("reason", resp.Error))
		return nil, domain.NewClassificationError(
			fmt.Sprintf("The syllabus could not be analyzed: %s", resp.Error),
			errors.New(resp.Error))
	}

	subjects := validation.NormalizeClassification(resp.Subjects)
	l.Info("Syllabus classified", zap.String("name", doc.Name), zap.Int("subjects", len(subjects)))
	return subjects, nil
}

// documentPart inlines text documents and attaches everything else as binary.
func documentPart(mimeType string, data []byte) llms.ContentPart {
	if isTextMIME(mimeType) {
		return llms.TextPart("Syllabus document:\n" + string(data))
	}
	return llms.BinaryPart(mimeType, data)
}

func isTextMIME(mimeType string) bool {
	base, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	base = strings.TrimSpace(base)
	switch {
	case strings.HasPrefix(base, "text/"):
		return true
	case base == "application/json", base == "application/xml":
		return true
	}
	return false
}

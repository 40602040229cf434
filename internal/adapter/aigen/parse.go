package aigen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoJSON = errors.New("no JSON object found in LLM response")

// stripThinking removes a <think>...</think> block emitted by reasoning models.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

// extractJSON returns the outermost {...} object, tolerating code fences and chatter.
func extractJSON(raw string) (string, error) {
	cleaned := stripThinking(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errNoJSON
	}
	return cleaned[start : end+1], nil
}

func decodeResponse(raw string, v any) error {
	extracted, err := extractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(extracted), v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from LLM: %w", err)
	}
	return nil
}

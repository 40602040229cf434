package dto

import (
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/library"
)

// SyllabusResponse is a syllabus with its dashboard statistics
// @Description Syllabus tree with counts
type SyllabusResponse struct {
	domain.SyllabusRecord
	Stats library.SyllabusStats `json:"stats"`
}

// StateResponse represents the whole session state in the API response
// @Description Current phase, library, history and flags
type StateResponse struct {
	Phase                domain.Phase                 `json:"phase"`
	Library              []SyllabusResponse           `json:"library"`
	History              []domain.SessionHistoryEntry `json:"history"`
	ActiveSyllabusID     string                       `json:"activeSyllabusId,omitempty"`
	IsClassifying        bool                         `json:"isClassifying"`
	Error                string                       `json:"error,omitempty"`
	Practice             *domain.PracticeSession      `json:"practice,omitempty"`
	DefaultQuestionCount int                          `json:"defaultQuestionCount"`
}

// NewStateResponse converts a state snapshot into its API shape.
func NewStateResponse(state domain.AppState, defaultQuestionCount int) StateResponse {
	syllabi := make([]SyllabusResponse, len(state.Library))
	for i, rec := range state.Library {
		syllabi[i] = SyllabusResponse{SyllabusRecord: rec, Stats: library.Stats(rec)}
	}
	history := state.History
	if history == nil {
		history = []domain.SessionHistoryEntry{}
	}
	return StateResponse{
		Phase:                state.Phase,
		Library:              syllabi,
		History:              history,
		ActiveSyllabusID:     state.ActiveSyllabusID,
		IsClassifying:        state.IsClassifying,
		Error:                state.Error,
		Practice:             state.Practice,
		DefaultQuestionCount: defaultQuestionCount,
	}
}

// GenerateQuestionsRequest is the body of a question generation request.
// An empty region falls back to the saved region preference.
type GenerateQuestionsRequest struct {
	Level  string `json:"level"`
	Region string `json:"region"`
}

// StartPracticeRequest starts a practice session. Count defaults to the configured value.
type StartPracticeRequest struct {
	TopicID string `json:"topicId"`
	Count   *int   `json:"count,omitempty"`
}

// SaveSessionRequest records the result of the current practice session.
type SaveSessionRequest struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"totalQuestions"`
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

type RegionRequest struct {
	Region string `json:"region"`
}

// AppearanceRequest relays the browser's prefers-color-scheme value.
type AppearanceRequest struct {
	Dark bool `json:"dark"`
}

// AcceptedResponse acknowledges work that completes in the background.
type AcceptedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse reports liveness and store reachability.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

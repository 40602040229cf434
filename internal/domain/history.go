package domain

import (
	"math"
	"time"
)

// SessionHistoryEntry is a frozen summary of a completed practice session.
type SessionHistoryEntry struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	TopicName      string    `json:"topicName"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Proficiency    int       `json:"proficiency"`
}

// Proficiency is the rounded percentage of correct answers, 0 when no questions were asked.
func Proficiency(score, total int) int {
	if total <= 0 {
		return 0
	}
	if score < 0 {
		score = 0
	}
	if score > total {
		score = total
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// NewSessionHistoryEntry creates a new SessionHistoryEntry instance
func NewSessionHistoryEntry(id, topicName string, score, total int, at time.Time) SessionHistoryEntry {
	return SessionHistoryEntry{
		ID:             id,
		Date:           at,
		TopicName:      topicName,
		Score:          score,
		TotalQuestions: total,
		Proficiency:    Proficiency(score, total),
	}
}

// Validate validates the history entry
func (e SessionHistoryEntry) Validate() error {
	if e.TotalQuestions <= 0 {
		return NewInvalidInputError("total questions must be positive")
	}
	if e.Score < 0 || e.Score > e.TotalQuestions {
		return NewInvalidInputError("score must be between 0 and total questions")
	}
	return nil
}

package domain

import "time"

// Phase is the top-level screen the user is on.
type Phase string

const (
	PhaseOnboarding Phase = "onboarding"
	PhaseLibrary    Phase = "library"
	PhasePractice   Phase = "practice"
)

// PracticeSession is the ephemeral set of questions drawn for one practice run.
type PracticeSession struct {
	TopicID     string     `json:"topicId"`
	TopicName   string     `json:"topicName"`
	SubjectName string     `json:"subjectName"`
	Questions   []Question `json:"questions"`
	StartedAt   time.Time  `json:"startedAt"`
}

// AppState is the whole UI/session state owned by the session orchestrator.
type AppState struct {
	Phase            Phase                 `json:"phase"`
	Library          Library               `json:"library"`
	History          []SessionHistoryEntry `json:"history"`
	ActiveSyllabusID string                `json:"activeSyllabusId,omitempty"`
	IsClassifying    bool                  `json:"isClassifying"`
	Error            string                `json:"error,omitempty"`
	Practice         *PracticeSession      `json:"practice,omitempty"`
}

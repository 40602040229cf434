package handler_test

import (
	"context"
	"io"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/service"
)

// --- Manual Mocks ---

// MockStudySession
type MockStudySession struct {
	StateFunc              func() domain.AppState
	DefaultCount           int
	StartUploadFunc        func(ctx context.Context, name, mimeType string, r io.Reader) error
	StartGenerationFunc    func(ctx context.Context, topicID, level, region string) error
	ResetGenerationFunc    func(ctx context.Context, topicID string) error
	StartPracticeFunc      func(topicID string, count int) (domain.PracticeSession, error)
	SaveSessionFunc        func(ctx context.Context, score, total int) (domain.SessionHistoryEntry, error)
	DeleteHistoryEntryFunc func(ctx context.Context, entryID string) error
	SelectSyllabusFunc     func(syllabusID string) error
	DeleteSyllabusFunc     func(ctx context.Context, syllabusID string) error
	ClearAllDataFunc       func(ctx context.Context, confirmed bool) error

	EndSessionCalls   int
	AddAnotherCalls   int
	DismissErrorCalls int
}

func (m *MockStudySession) State() domain.AppState {
	if m.StateFunc != nil {
		return m.StateFunc()
	}
	return domain.AppState{Phase: domain.PhaseOnboarding, Library: domain.Library{}, History: []domain.SessionHistoryEntry{}}
}
func (m *MockStudySession) DefaultQuestionCount() int { return m.DefaultCount }
func (m *MockStudySession) StartUpload(ctx context.Context, name, mimeType string, r io.Reader) error {
	if m.StartUploadFunc != nil {
		return m.StartUploadFunc(ctx, name, mimeType, r)
	}
	panic("MockStudySession.StartUploadFunc not implemented")
}
func (m *MockStudySession) StartGeneration(ctx context.Context, topicID, level, region string) error {
	if m.StartGenerationFunc != nil {
		return m.StartGenerationFunc(ctx, topicID, level, region)
	}
	panic("MockStudySession.StartGenerationFunc not implemented")
}
func (m *MockStudySession) ResetGeneration(ctx context.Context, topicID string) error {
	if m.ResetGenerationFunc != nil {
		return m.ResetGenerationFunc(ctx, topicID)
	}
	panic("MockStudySession.ResetGenerationFunc not implemented")
}
func (m *MockStudySession) StartPractice(topicID string, count int) (domain.PracticeSession, error) {
	if m.StartPracticeFunc != nil {
		return m.StartPracticeFunc(topicID, count)
	}
	panic("MockStudySession.StartPracticeFunc not implemented")
}
func (m *MockStudySession) EndSession() { m.EndSessionCalls++ }
func (m *MockStudySession) SaveSession(ctx context.Context, score, total int) (domain.SessionHistoryEntry, error) {
	if m.SaveSessionFunc != nil {
		return m.SaveSessionFunc(ctx, score, total)
	}
	panic("MockStudySession.SaveSessionFunc not implemented")
}
func (m *MockStudySession) DeleteHistoryEntry(ctx context.Context, entryID string) error {
	if m.DeleteHistoryEntryFunc != nil {
		return m.DeleteHistoryEntryFunc(ctx, entryID)
	}
	panic("MockStudySession.DeleteHistoryEntryFunc not implemented")
}
func (m *MockStudySession) SelectSyllabus(syllabusID string) error {
	if m.SelectSyllabusFunc != nil {
		return m.SelectSyllabusFunc(syllabusID)
	}
	panic("MockStudySession.SelectSyllabusFunc not implemented")
}
func (m *MockStudySession) DeleteSyllabus(ctx context.Context, syllabusID string) error {
	if m.DeleteSyllabusFunc != nil {
		return m.DeleteSyllabusFunc(ctx, syllabusID)
	}
	panic("MockStudySession.DeleteSyllabusFunc not implemented")
}
func (m *MockStudySession) AddAnotherSyllabus() { m.AddAnotherCalls++ }
func (m *MockStudySession) ClearAllData(ctx context.Context, confirmed bool) error {
	if m.ClearAllDataFunc != nil {
		return m.ClearAllDataFunc(ctx, confirmed)
	}
	panic("MockStudySession.ClearAllDataFunc not implemented")
}
func (m *MockStudySession) DismissError() { m.DismissErrorCalls++ }

// MockPreferences
type MockPreferences struct {
	Prefs        service.Preferences
	SetThemeErr  error
	SetRegionErr error
}

func (m *MockPreferences) Preferences() service.Preferences { return m.Prefs }
func (m *MockPreferences) Region() string                   { return m.Prefs.Region }
func (m *MockPreferences) SetTheme(ctx context.Context, theme domain.ThemeSetting) error {
	if m.SetThemeErr != nil {
		return m.SetThemeErr
	}
	m.Prefs.Theme = theme
	return nil
}
func (m *MockPreferences) SetRegion(ctx context.Context, region string) error {
	if m.SetRegionErr != nil {
		return m.SetRegionErr
	}
	m.Prefs.Region = region
	return nil
}

// MockAppearance
type MockAppearance struct {
	Dark []bool
}

func (m *MockAppearance) SetPrefersDark(dark bool) { m.Dark = append(m.Dark, dark) }

// MockPinger
type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }

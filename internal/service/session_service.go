package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/library"
	"syllabus-buddy/internal/logger"
	"syllabus-buddy/internal/util"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultPracticeQuestionCount = 10

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

// WithIDGenerator replaces the timestamp-derived id source used for syllabi and history entries.
func WithIDGenerator(newID func(time.Time) string) SessionOption {
	return func(s *SessionService) { s.newID = newID }
}

// WithRandom replaces the random source used to shuffle practice questions.
func WithRandom(intn util.IntnFunc) SessionOption {
	return func(s *SessionService) { s.intn = intn }
}

// WithDefaultQuestionCount sets the practice size used when a request does not name one.
func WithDefaultQuestionCount(n int) SessionOption {
	return func(s *SessionService) {
		if n > 0 {
			s.defaultQuestionCount = n
		}
	}
}

// WithCallTimeout bounds background classify and generate calls.
func WithCallTimeout(d time.Duration) SessionOption {
	return func(s *SessionService) { s.callTimeout = d }
}

// SessionService owns the application state and coordinates classification,
// question generation and practice sessions.
//
// Every mutation runs to completion under mu. Collaborator calls are made
// without holding mu; their results are applied in a separate step, so a
// completion may land on a library that changed in the meantime.
type SessionService struct {
	mu          sync.Mutex
	state       domain.AppState
	classifying int

	store      *StateStore
	classifier domain.SyllabusClassifier
	generator  domain.QuestionGenerator
	sfGroup    singleflight.Group
	wg         sync.WaitGroup

	now                  func() time.Time
	newID                func(time.Time) string
	intn                 util.IntnFunc
	defaultQuestionCount int
	callTimeout          time.Duration
}

// NewSessionService creates a new SessionService in the onboarding phase. Call Start to load persisted state.
func NewSessionService(
	store *StateStore,
	classifier domain.SyllabusClassifier,
	generator domain.QuestionGenerator,
	opts ...SessionOption,
) *SessionService {
	s := &SessionService{
		state: domain.AppState{
			Phase:   domain.PhaseOnboarding,
			Library: domain.Library{},
			History: []domain.SessionHistoryEntry{},
		},
		store:                store,
		classifier:           classifier,
		generator:            generator,
		now:                  time.Now,
		newID:                util.NewULIDAt,
		intn:                 rand.IntN,
		defaultQuestionCount: defaultPracticeQuestionCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the library and history. The library phase is entered when the
// library has content, and the first syllabus becomes active.
func (s *SessionService) Start(ctx context.Context) {
	lib, _ := s.store.LoadLibrary(ctx)
	history, _ := s.store.LoadHistory(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Library = library.ClearLoading(lib)
	s.state.History = history
	s.state.Practice = nil
	s.state.ActiveSyllabusID = ""
	s.state.Phase = domain.PhaseOnboarding
	if len(s.state.Library) > 0 {
		s.state.ActiveSyllabusID = s.state.Library[0].ID
		s.state.Phase = domain.PhaseLibrary
	}

	logger.Get().Info("Session state loaded",
		zap.Int("syllabi", len(s.state.Library)),
		zap.Int("historyEntries", len(s.state.History)),
		zap.String("phase", string(s.state.Phase)))
}

// State returns a deep copy of the current state.
func (s *SessionService) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() domain.AppState {
	st := s.state
	st.Library = library.Clone(st.Library)
	st.History = append(make([]domain.SessionHistoryEntry, 0, len(st.History)), st.History...)
	if st.Practice != nil {
		p := *st.Practice
		p.Questions = library.CloneQuestions(p.Questions)
		st.Practice = &p
	}
	return st
}

// DefaultQuestionCount is the practice size used when the caller does not request one.
func (s *SessionService) DefaultQuestionCount() int {
	return s.defaultQuestionCount
}

// Wait blocks until every background call started by StartUpload or StartGeneration has finished.
func (s *SessionService) Wait() {
	s.wg.Wait()
}

// Ping checks the backing store.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *SessionService) goBackground(parent context.Context, task func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Error("Background task panicked", zap.Any("panic", r))
			}
		}()

		ctx := context.WithoutCancel(parent)
		if s.callTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
			defer cancel()
		}
		task(ctx)
	}()
}

// --- Classification ---

// UploadDocument reads a syllabus document and classifies it, blocking until the classifier returns.
func (s *SessionService) UploadDocument(ctx context.Context, name, mimeType string, r io.Reader) error {
	doc, err := s.beginClassification(name, mimeType, r)
	if err != nil {
		return err
	}
	return s.classify(ctx, doc)
}

// StartUpload reads the document synchronously, marks classification in flight
// and finishes the classification in the background.
func (s *SessionService) StartUpload(ctx context.Context, name, mimeType string, r io.Reader) error {
	doc, err := s.beginClassification(name, mimeType, r)
	if err != nil {
		return err
	}
	s.goBackground(ctx, func(ctx context.Context) {
		_ = s.classify(ctx, doc)
	})
	return nil
}

func (s *SessionService) beginClassification(name, mimeType string, r io.Reader) (domain.Document, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Document{}, domain.NewInvalidInputError("document name is required")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		logger.Get().Warn("Failed to read uploaded document", zap.String("name", name), zap.Error(err))
		s.mu.Lock()
		s.state.Error = domain.MsgFileReadFailed
		s.mu.Unlock()
		return domain.Document{}, domain.NewFileReadError(err)
	}

	doc := domain.Document{
		Name:       name,
		MIMEType:   resolveMIMEType(name, mimeType, data),
		Base64Data: base64.StdEncoding.EncodeToString(data),
	}

	s.mu.Lock()
	s.classifying++
	s.state.IsClassifying = true
	s.mu.Unlock()

	logger.Get().Info("Classifying syllabus", zap.String("name", name), zap.String("mimeType", doc.MIMEType), zap.Int("bytes", len(data)))
	return doc, nil
}

func resolveMIMEType(name, hint string, data []byte) string {
	if hint != "" && hint != "application/octet-stream" {
		return hint
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}

func (s *SessionService) classify(ctx context.Context, doc domain.Document) error {
	subjects, err := s.classifier.Classify(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.classifying--
	s.state.IsClassifying = s.classifying > 0

	if err != nil {
		msg := classificationMessage(err)
		s.state.Error = msg
		logger.Get().Error("Syllabus classification failed", zap.String("name", doc.Name), zap.Error(err))
		return domain.NewClassificationError(msg, err)
	}

	at := s.now()
	rec := buildSyllabus(s.newID(at), doc.Name, at, subjects)
	s.state.Library = library.AddSyllabus(s.state.Library, rec)
	s.state.ActiveSyllabusID = rec.ID
	s.state.Phase = domain.PhaseLibrary

	stats := library.Stats(rec)
	logger.Get().Info("Syllabus classified",
		zap.String("syllabusID", rec.ID),
		zap.String("name", rec.Name),
		zap.Int("subjects", stats.Subjects),
		zap.Int("topics", stats.Topics))

	return s.store.SaveLibrary(ctx, s.state.Library)
}

// classificationMessage prefers the message a classifier attached to a DomainError.
func classificationMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return domain.MsgClassificationFallback
}

// buildSyllabus constructs a syllabus record with positional ids namespaced by syllabusID.
func buildSyllabus(syllabusID, name string, at time.Time, classified []domain.ClassifiedSubject) domain.SyllabusRecord {
	rec := domain.SyllabusRecord{
		ID:         syllabusID,
		Name:       name,
		UploadDate: at,
		Subjects:   make([]domain.Subject, 0, len(classified)),
	}
	for i, cs := range classified {
		subject := domain.Subject{
			ID:       fmt.Sprintf("%s-s%d", syllabusID, i),
			Name:     strings.TrimSpace(cs.Name),
			Chapters: make([]domain.Chapter, 0, len(cs.Chapters)),
		}
		for j, cc := range cs.Chapters {
			chapter := domain.Chapter{
				ID:     fmt.Sprintf("%s-c%d", subject.ID, j),
				Name:   strings.TrimSpace(cc.Name),
				Topics: make([]domain.Topic, 0, len(cc.Topics)),
			}
			for k, topicName := range cc.Topics {
				chapter.Topics = append(chapter.Topics, domain.Topic{
					ID:        fmt.Sprintf("%s-t%d", chapter.ID, k),
					Name:      strings.TrimSpace(topicName),
					Questions: []domain.Question{},
				})
			}
			subject.Chapters = append(subject.Chapters, chapter)
		}
		rec.Subjects = append(rec.Subjects, subject)
	}
	return rec
}

// --- Question generation ---

// GenerateQuestions generates questions for a topic and blocks until done.
// Concurrent requests for the same topic share a single collaborator call.
func (s *SessionService) GenerateQuestions(ctx context.Context, topicID, level, region string) error {
	if err := s.beginGeneration(topicID, level, region); err != nil {
		return err
	}
	return s.generate(ctx, topicID, level, region)
}

// StartGeneration marks the topic loading and finishes generation in the background.
func (s *SessionService) StartGeneration(ctx context.Context, topicID, level, region string) error {
	if err := s.beginGeneration(topicID, level, region); err != nil {
		return err
	}
	s.goBackground(ctx, func(ctx context.Context) {
		_ = s.generate(ctx, topicID, level, region)
	})
	return nil
}

func (s *SessionService) beginGeneration(topicID, level, region string) error {
	if strings.TrimSpace(level) == "" {
		return domain.NewInvalidInputError("level is required")
	}
	if strings.TrimSpace(region) == "" {
		return domain.NewInvalidInputError("region is required")
	}
	_, err := s.markLoading(topicID)
	return err
}

// markLoading flags the topic as loading. A topic that already has questions
// must be reset first, so the two flags are never set together.
func (s *SessionService) markLoading(topicID string) (domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, _, ok := library.FindTopic(s.state.Library, topicID)
	if !ok {
		return domain.Topic{}, domain.NewTopicNotFoundError(topicID)
	}
	if topic.QuestionsGenerated {
		return domain.Topic{}, domain.NewAlreadyGeneratedError(topic.Name)
	}
	s.state.Library = library.UpdateTopic(s.state.Library, topicID, domain.LoadingPatch())
	return topic, nil
}

func (s *SessionService) generate(ctx context.Context, topicID, level, region string) error {
	_, err, shared := s.sfGroup.Do(topicID, func() (any, error) {
		return nil, s.runGeneration(ctx, topicID, level, region)
	})
	if shared {
		logger.Get().Debug("Joined in-flight generation", zap.String("topicID", topicID))
	}
	return err
}

func (s *SessionService) runGeneration(ctx context.Context, topicID, level, region string) error {
	topic, err := s.markLoading(topicID)
	if err != nil {
		if domain.CodeOf(err) == domain.ErrInvalidInput {
			// an earlier flight for this topic completed after this request was accepted
			logger.Get().Debug("Questions already generated by a concurrent request", zap.String("topicID", topicID))
			return nil
		}
		return err
	}

	logger.Get().Info("Generating questions",
		zap.String("topicID", topicID),
		zap.String("topic", topic.Name),
		zap.String("level", level),
		zap.String("region", region))

	generated, genErr := s.generator.GenerateQuestions(ctx, topic.Name, level, region)

	s.mu.Lock()
	defer s.mu.Unlock()

	if genErr != nil {
		s.state.Library = library.UpdateTopic(s.state.Library, topicID, domain.FailedPatch())
		s.state.Error = domain.MsgGenerationFailed
		logger.Get().Error("Question generation failed", zap.String("topicID", topicID), zap.Error(genErr))
		return domain.NewGenerationError(genErr)
	}

	questions := make([]domain.Question, len(generated))
	for i, g := range generated {
		questions[i] = domain.Question{
			ID:       fmt.Sprintf("topic-%s-%d", topicID, i),
			Text:     g.Text,
			Type:     g.Type,
			Options:  g.Options,
			Hints:    g.Hints,
			Solution: g.Solution,
		}
	}
	s.state.Library = library.UpdateTopic(s.state.Library, topicID, domain.GeneratedPatch(questions))
	logger.Get().Info("Questions generated", zap.String("topicID", topicID), zap.Int("count", len(questions)))

	return s.store.SaveLibrary(ctx, s.state.Library)
}

// ResetGeneration clears a topic's questions so they can be generated again.
func (s *SessionService) ResetGeneration(ctx context.Context, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, ok := library.FindTopic(s.state.Library, topicID); !ok {
		return domain.NewTopicNotFoundError(topicID)
	}
	s.state.Library = library.UpdateTopic(s.state.Library, topicID, domain.ResetPatch())
	logger.Get().Info("Question generation reset", zap.String("topicID", topicID))
	return s.store.SaveLibrary(ctx, s.state.Library)
}

// --- Practice ---

// StartPractice draws up to count questions from the topic and enters the practice phase.
func (s *SessionService) StartPractice(topicID string, count int) (domain.PracticeSession, error) {
	if count <= 0 {
		return domain.PracticeSession{}, domain.NewInvalidInputError("question count must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topic, subject, ok := library.FindTopic(s.state.Library, topicID)
	if !ok {
		return domain.PracticeSession{}, domain.NewTopicNotFoundError(topicID)
	}
	if len(topic.Questions) == 0 {
		return domain.PracticeSession{}, domain.NewNoQuestionsError(topic.Name)
	}

	session := domain.PracticeSession{
		TopicID:     topic.ID,
		TopicName:   topic.Name,
		SubjectName: subject.Name,
		Questions:   SelectPracticeQuestions(topic.Questions, count, s.intn),
		StartedAt:   s.now(),
	}
	s.state.Practice = &session
	s.state.Phase = domain.PhasePractice

	logger.Get().Info("Practice started", zap.String("topicID", topicID), zap.Int("questions", len(session.Questions)))

	out := session
	out.Questions = library.CloneQuestions(session.Questions)
	return out, nil
}

// EndSession abandons the current practice session.
func (s *SessionService) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != domain.PhasePractice {
		return
	}
	s.state.Practice = nil
	s.state.Phase = domain.PhaseLibrary
}

// SaveSession records the result of the current practice session, newest first, and returns to the library.
func (s *SessionService) SaveSession(ctx context.Context, score, totalQuestions int) (domain.SessionHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Practice == nil {
		return domain.SessionHistoryEntry{}, domain.NewInvalidInputError("no practice session is in progress")
	}

	at := s.now()
	entry := domain.NewSessionHistoryEntry(s.newID(at), s.state.Practice.TopicName, score, totalQuestions, at)
	if err := entry.Validate(); err != nil {
		return domain.SessionHistoryEntry{}, err
	}

	history := make([]domain.SessionHistoryEntry, 0, len(s.state.History)+1)
	history = append(history, entry)
	s.state.History = append(history, s.state.History...)
	s.state.Practice = nil
	s.state.Phase = domain.PhaseLibrary

	logger.Get().Info("Practice session saved",
		zap.String("entryID", entry.ID),
		zap.String("topic", entry.TopicName),
		zap.Int("proficiency", entry.Proficiency))

	return entry, s.store.SaveHistory(ctx, s.state.History)
}

// DeleteHistoryEntry removes one history entry.
func (s *SessionService) DeleteHistoryEntry(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]domain.SessionHistoryEntry, 0, len(s.state.History))
	for _, e := range s.state.History {
		if e.ID != entryID {
			history = append(history, e)
		}
	}
	if len(history) == len(s.state.History) {
		return domain.NewNotFoundError("History entry not found with ID: " + entryID)
	}
	s.state.History = history
	return s.store.SaveHistory(ctx, s.state.History)
}

// --- Library navigation ---

// SelectSyllabus makes syllabusID the active syllabus.
func (s *SessionService) SelectSyllabus(syllabusID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := library.FindSyllabus(s.state.Library, syllabusID); !ok {
		return domain.NewSyllabusNotFoundError(syllabusID)
	}
	s.state.ActiveSyllabusID = syllabusID
	return nil
}

// DeleteSyllabus removes a syllabus and its subtree. When it was active, the
// first remaining syllabus becomes active; an emptied library returns to onboarding.
func (s *SessionService) DeleteSyllabus(ctx context.Context, syllabusID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := library.FindSyllabus(s.state.Library, syllabusID); !ok {
		return domain.NewSyllabusNotFoundError(syllabusID)
	}
	s.state.Library = library.DeleteSyllabus(s.state.Library, syllabusID)

	if s.state.ActiveSyllabusID == syllabusID {
		s.state.ActiveSyllabusID = ""
		if len(s.state.Library) > 0 {
			s.state.ActiveSyllabusID = s.state.Library[0].ID
		}
	}
	if len(s.state.Library) == 0 {
		s.state.Practice = nil
		s.state.Phase = domain.PhaseOnboarding
	}

	logger.Get().Info("Syllabus deleted", zap.String("syllabusID", syllabusID), zap.Int("remaining", len(s.state.Library)))
	return s.store.SaveLibrary(ctx, s.state.Library)
}

// AddAnotherSyllabus returns to onboarding so another document can be uploaded.
func (s *SessionService) AddAnotherSyllabus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Practice = nil
	s.state.Phase = domain.PhaseOnboarding
}

// ClearAllData wipes the library and history. It refuses to run without confirmation.
func (s *SessionService) ClearAllData(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return domain.NewConfirmationRequiredError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Library = domain.Library{}
	s.state.History = []domain.SessionHistoryEntry{}
	s.state.ActiveSyllabusID = ""
	s.state.Practice = nil
	s.state.Error = ""
	s.state.Phase = domain.PhaseOnboarding

	logger.Get().Warn("All study data cleared")
	return s.store.ClearStudyData(ctx)
}

// DismissError empties the shared error slot.
func (s *SessionService) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

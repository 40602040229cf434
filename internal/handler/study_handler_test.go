package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/dto"
	"syllabus-buddy/internal/handler"
	"syllabus-buddy/internal/middleware"
	"syllabus-buddy/internal/service"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app        *fiber.App
	session    *MockStudySession
	prefs      *MockPreferences
	appearance *MockAppearance
	pinger     *MockPinger
}

func newTestApp(t *testing.T, withAppearance bool) *testApp {
	t.Helper()
	ta := &testApp{
		session: &MockStudySession{DefaultCount: 10},
		prefs: &MockPreferences{Prefs: service.Preferences{
			Theme:       domain.ThemeSystem,
			DisplayMode: domain.DisplayLight,
			Region:      "United States",
		}},
		appearance: &MockAppearance{},
		pinger:     &MockPinger{},
	}

	var relay handler.AppearanceRelay
	if withAppearance {
		relay = ta.appearance
	}

	ta.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(
		ta.app.Group("/api"),
		middleware.NewValidationMiddleware(1024),
		handler.NewStudyHandler(ta.session, ta.prefs),
		handler.NewPreferenceHandler(ta.prefs, relay),
		handler.NewHealthHandler(ta.pinger),
	)
	return ta
}

func (ta *testApp) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func sampleLibrary() domain.Library {
	return domain.Library{{
		ID:         "syl1",
		Name:       "calc101.pdf",
		UploadDate: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
		Subjects: []domain.Subject{{
			ID:   "syl1-s0",
			Name: "Calculus",
			Chapters: []domain.Chapter{{
				ID:   "syl1-s0-c0",
				Name: "Limits",
				Topics: []domain.Topic{
					{ID: "syl1-s0-c0-t0", Name: "Epsilon-Delta", Questions: []domain.Question{}},
					{ID: "syl1-s0-c0-t1", Name: "L'Hopital", QuestionsGenerated: true, Questions: []domain.Question{
						{ID: "topic-syl1-s0-c0-t1-0", Text: "Explain.", Type: domain.QuestionDescriptive, Hints: []string{}},
					}},
				},
			}},
		}},
	}}
}

func TestStudyHandler_GetState(t *testing.T) {
	ta := newTestApp(t, false)
	ta.session.StateFunc = func() domain.AppState {
		return domain.AppState{
			Phase:            domain.PhaseLibrary,
			Library:          sampleLibrary(),
			ActiveSyllabusID: "syl1",
			Error:            domain.MsgGenerationFailed,
		}
	}

	resp := ta.do(t, http.MethodGet, "/api/state", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[dto.StateResponse](t, resp)
	assert.Equal(t, domain.PhaseLibrary, state.Phase)
	assert.Equal(t, "syl1", state.ActiveSyllabusID)
	assert.Equal(t, domain.MsgGenerationFailed, state.Error)
	assert.Equal(t, 10, state.DefaultQuestionCount)
	assert.NotNil(t, state.History)
	require.Len(t, state.Library, 1)
	assert.Equal(t, "calc101.pdf", state.Library[0].Name)
	assert.Equal(t, 2, state.Library[0].Stats.Topics)
	assert.Equal(t, 1, state.Library[0].Stats.GeneratedTopics)
	assert.Equal(t, 1, state.Library[0].Stats.Questions)
}

func newUploadRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/syllabi", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestStudyHandler_UploadSyllabus(t *testing.T) {
	ta := newTestApp(t, false)
	var gotName, gotMIME, gotContent string
	ta.session.StartUploadFunc = func(ctx context.Context, name, mimeType string, r io.Reader) error {
		gotName, gotMIME = name, mimeType
		data, err := io.ReadAll(r)
		gotContent = string(data)
		return err
	}

	resp, err := ta.app.Test(newUploadRequest(t, "calc101.txt", "text/plain", []byte("Week 1: limits")), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	accepted := decode[dto.AcceptedResponse](t, resp)
	assert.Equal(t, "accepted", accepted.Status)
	assert.Equal(t, "calc101.txt", gotName)
	assert.Equal(t, "text/plain", gotMIME)
	assert.Equal(t, "Week 1: limits", gotContent)
}

func TestStudyHandler_UploadSyllabus_Rejected(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		ta := newTestApp(t, false)
		resp := ta.do(t, http.MethodPost, "/api/syllabi", map[string]string{"name": "x"})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[middleware.ValidationErrorResponse](t, resp)
		assert.Equal(t, string(domain.ErrValidation), body.Code)
	})

	t.Run("too large", func(t *testing.T) {
		ta := newTestApp(t, false)
		resp, err := ta.app.Test(newUploadRequest(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("x"), 2048)), -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("read failure", func(t *testing.T) {
		ta := newTestApp(t, false)
		ta.session.StartUploadFunc = func(ctx context.Context, name, mimeType string, r io.Reader) error {
			return domain.NewFileReadError(errors.New("truncated"))
		}
		resp, err := ta.app.Test(newUploadRequest(t, "calc101.pdf", "application/pdf", []byte("%PDF")), -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[middleware.ErrorResponse](t, resp)
		assert.Equal(t, domain.MsgFileReadFailed, body.Message)
	})
}

func TestStudyHandler_GenerateQuestions(t *testing.T) {
	tests := []struct {
		name       string
		body       dto.GenerateQuestionsRequest
		genErr     error
		wantStatus int
		wantRegion string
	}{
		{"explicit region", dto.GenerateQuestionsRequest{Level: "intermediate", Region: "Canada"}, nil, http.StatusAccepted, "Canada"},
		{"region from preferences", dto.GenerateQuestionsRequest{Level: "beginner"}, nil, http.StatusAccepted, "United States"},
		{"missing level", dto.GenerateQuestionsRequest{Region: "Canada"}, nil, http.StatusBadRequest, ""},
		{"unknown topic", dto.GenerateQuestionsRequest{Level: "beginner"}, domain.NewTopicNotFoundError("nope"), http.StatusNotFound, "United States"},
		{"already generated", dto.GenerateQuestionsRequest{Level: "beginner"}, domain.NewAlreadyGeneratedError("Limits"), http.StatusBadRequest, "United States"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, false)
			var gotTopic, gotRegion string
			ta.session.StartGenerationFunc = func(ctx context.Context, topicID, level, region string) error {
				gotTopic, gotRegion = topicID, region
				return tt.genErr
			}

			resp := ta.do(t, http.MethodPost, "/api/topics/syl1-s0-c0-t0/questions", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantRegion != "" {
				assert.Equal(t, "syl1-s0-c0-t0", gotTopic)
				assert.Equal(t, tt.wantRegion, gotRegion)
			}
		})
	}
}

func TestStudyHandler_ResetQuestions(t *testing.T) {
	ta := newTestApp(t, false)
	var reset string
	ta.session.ResetGenerationFunc = func(ctx context.Context, topicID string) error {
		reset = topicID
		return nil
	}

	resp := ta.do(t, http.MethodDelete, "/api/topics/syl1-s0-c0-t1/questions", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "syl1-s0-c0-t1", reset)
}

func TestStudyHandler_StartPractice(t *testing.T) {
	t.Run("default count", func(t *testing.T) {
		ta := newTestApp(t, false)
		var gotCount int
		ta.session.StartPracticeFunc = func(topicID string, count int) (domain.PracticeSession, error) {
			gotCount = count
			return domain.PracticeSession{TopicID: topicID, TopicName: "L'Hopital", Questions: []domain.Question{}}, nil
		}

		resp := ta.do(t, http.MethodPost, "/api/practice", map[string]any{"topicId": "syl1-s0-c0-t1"})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 10, gotCount)
		practice := decode[domain.PracticeSession](t, resp)
		assert.Equal(t, "L'Hopital", practice.TopicName)
	})

	t.Run("non-positive count", func(t *testing.T) {
		ta := newTestApp(t, false)
		resp := ta.do(t, http.MethodPost, "/api/practice", map[string]any{"topicId": "t", "count": 0})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("no questions", func(t *testing.T) {
		ta := newTestApp(t, false)
		ta.session.StartPracticeFunc = func(topicID string, count int) (domain.PracticeSession, error) {
			return domain.PracticeSession{}, domain.NewNoQuestionsError("Epsilon-Delta")
		}
		resp := ta.do(t, http.MethodPost, "/api/practice", map[string]any{"topicId": "t", "count": 3})

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decode[middleware.ErrorResponse](t, resp)
		assert.Equal(t, string(domain.ErrNoQuestions), body.Code)
	})
}

func TestStudyHandler_EndPracticeAndOnboarding(t *testing.T) {
	ta := newTestApp(t, false)

	assert.Equal(t, http.StatusOK, ta.do(t, http.MethodDelete, "/api/practice", nil).StatusCode)
	assert.Equal(t, http.StatusOK, ta.do(t, http.MethodPost, "/api/onboarding", nil).StatusCode)
	assert.Equal(t, http.StatusNoContent, ta.do(t, http.MethodDelete, "/api/error", nil).StatusCode)

	assert.Equal(t, 1, ta.session.EndSessionCalls)
	assert.Equal(t, 1, ta.session.AddAnotherCalls)
	assert.Equal(t, 1, ta.session.DismissErrorCalls)
}

func TestStudyHandler_SaveSession(t *testing.T) {
	ta := newTestApp(t, false)
	ta.session.SaveSessionFunc = func(ctx context.Context, score, total int) (domain.SessionHistoryEntry, error) {
		return domain.NewSessionHistoryEntry("h1", "L'Hopital", score, total, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)), nil
	}

	resp := ta.do(t, http.MethodPost, "/api/history", dto.SaveSessionRequest{Score: 2, TotalQuestions: 3})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[domain.SessionHistoryEntry](t, resp)
	assert.Equal(t, 67, entry.Proficiency)

	resp = ta.do(t, http.MethodPost, "/api/history", dto.SaveSessionRequest{Score: 4, TotalQuestions: 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStudyHandler_DeleteHistoryEntry(t *testing.T) {
	ta := newTestApp(t, false)
	ta.session.DeleteHistoryEntryFunc = func(ctx context.Context, entryID string) error {
		if entryID != "h1" {
			return domain.NewNotFoundError("history entry not found")
		}
		return nil
	}

	assert.Equal(t, http.StatusNoContent, ta.do(t, http.MethodDelete, "/api/history/h1", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodDelete, "/api/history/h2", nil).StatusCode)
}

func TestStudyHandler_Syllabi(t *testing.T) {
	ta := newTestApp(t, false)
	var selected, deleted string
	ta.session.SelectSyllabusFunc = func(id string) error {
		selected = id
		if id == "missing" {
			return domain.NewSyllabusNotFoundError(id)
		}
		return nil
	}
	ta.session.DeleteSyllabusFunc = func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}

	assert.Equal(t, http.StatusOK, ta.do(t, http.MethodPut, "/api/syllabi/syl1/active", nil).StatusCode)
	assert.Equal(t, "syl1", selected)
	assert.Equal(t, http.StatusNotFound, ta.do(t, http.MethodPut, "/api/syllabi/missing/active", nil).StatusCode)
	assert.Equal(t, http.StatusOK, ta.do(t, http.MethodDelete, "/api/syllabi/syl1", nil).StatusCode)
	assert.Equal(t, "syl1", deleted)
}

func TestStudyHandler_ClearAllData(t *testing.T) {
	ta := newTestApp(t, false)
	ta.session.ClearAllDataFunc = func(ctx context.Context, confirmed bool) error {
		if !confirmed {
			return domain.NewConfirmationRequiredError()
		}
		return nil
	}

	resp := ta.do(t, http.MethodDelete, "/api/data", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[middleware.ErrorResponse](t, resp)
	assert.Equal(t, string(domain.ErrConfirmationRequired), body.Code)

	assert.Equal(t, http.StatusOK, ta.do(t, http.MethodDelete, "/api/data?confirm=true", nil).StatusCode)
}

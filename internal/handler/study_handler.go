package handler

import (
	"context"
	"io"
	"mime/multipart"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/dto"
	"syllabus-buddy/internal/logger"
	"syllabus-buddy/internal/middleware"
	"syllabus-buddy/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// StudySession is the session orchestrator as seen by the HTTP layer.
type StudySession interface {
	State() domain.AppState
	DefaultQuestionCount() int
	StartUpload(ctx context.Context, name, mimeType string, r io.Reader) error
	StartGeneration(ctx context.Context, topicID, level, region string) error
	ResetGeneration(ctx context.Context, topicID string) error
	StartPractice(topicID string, count int) (domain.PracticeSession, error)
	EndSession()
	SaveSession(ctx context.Context, score, totalQuestions int) (domain.SessionHistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, entryID string) error
	SelectSyllabus(syllabusID string) error
	DeleteSyllabus(ctx context.Context, syllabusID string) error
	AddAnotherSyllabus()
	ClearAllData(ctx context.Context, confirmed bool) error
	DismissError()
}

// RegionSource supplies the saved region when a request omits one.
type RegionSource interface {
	Region() string
}

// StudyHandler handles syllabus, question and practice requests
type StudyHandler struct {
	session   StudySession
	regions   RegionSource
	validator *validation.Validator
}

// NewStudyHandler creates a new StudyHandler instance
func NewStudyHandler(session StudySession, regions RegionSource) *StudyHandler {
	return &StudyHandler{
		session:   session,
		regions:   regions,
		validator: validation.NewValidator(),
	}
}

func (h *StudyHandler) stateResponse() dto.StateResponse {
	return dto.NewStateResponse(h.session.State(), h.session.DefaultQuestionCount())
}

// GetState godoc
// @Summary Get session state
// @Description Returns the phase, library with statistics, history and in-flight flags
// @Tags state
// @Produce json
// @Success 200 {object} dto.StateResponse
// @Router /state [get]
func (h *StudyHandler) GetState(c *fiber.Ctx) error {
	return c.JSON(h.stateResponse())
}

// UploadSyllabus godoc
// @Summary Upload a syllabus
// @Description Reads the document and classifies it in the background. Poll /state for the result.
// @Tags syllabi
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Syllabus document"
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /syllabi [post]
func (h *StudyHandler) UploadSyllabus(c *fiber.Ctx) error {
	fh, ok := c.Locals(middleware.LocalUploadedFile).(*multipart.FileHeader)
	if !ok {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}

	file, err := fh.Open()
	if err != nil {
		logger.Get().Error("Failed to open uploaded file", zap.String("name", fh.Filename), zap.Error(err))
		return domain.NewFileReadError(err)
	}
	defer file.Close()

	if err := h.session.StartUpload(c.UserContext(), fh.Filename, fh.Header.Get(fiber.HeaderContentType), file); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.AcceptedResponse{
		Status:  "accepted",
		Message: "Syllabus is being analyzed",
	})
}

// AddAnotherSyllabus godoc
// @Summary Return to onboarding
// @Description Leaves the library so another syllabus can be uploaded
// @Tags syllabi
// @Produce json
// @Success 200 {object} dto.StateResponse
// @Router /onboarding [post]
func (h *StudyHandler) AddAnotherSyllabus(c *fiber.Ctx) error {
	h.session.AddAnotherSyllabus()
	return c.JSON(h.stateResponse())
}

// SelectSyllabus godoc
// @Summary Make a syllabus active
// @Tags syllabi
// @Produce json
// @Param id path string true "Syllabus ID"
// @Success 200 {object} dto.StateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /syllabi/{id}/active [put]
func (h *StudyHandler) SelectSyllabus(c *fiber.Ctx) error {
	if err := h.session.SelectSyllabus(pathID(c)); err != nil {
		return err
	}
	return c.JSON(h.stateResponse())
}

// DeleteSyllabus godoc
// @Summary Delete a syllabus
// @Description Removes the syllabus with all its subjects, chapters, topics and questions
// @Tags syllabi
// @Produce json
// @Param id path string true "Syllabus ID"
// @Success 200 {object} dto.StateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /syllabi/{id} [delete]
func (h *StudyHandler) DeleteSyllabus(c *fiber.Ctx) error {
	if err := h.session.DeleteSyllabus(c.UserContext(), pathID(c)); err != nil {
		return err
	}
	return c.JSON(h.stateResponse())
}

// GenerateQuestions godoc
// @Summary Generate practice questions for a topic
// @Description Starts generation in the background. The topic is marked loading until it completes.
// @Tags topics
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param request body dto.GenerateQuestionsRequest true "Level and region"
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /topics/{id}/questions [post]
func (h *StudyHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("malformed request body")
	}
	if req.Region == "" && h.regions != nil {
		req.Region = h.regions.Region()
	}

	topicID := pathID(c)
	if errors := h.validator.ValidateGenerateRequest(topicID, req.Level, req.Region); len(errors) > 0 {
		return errors
	}

	if err := h.session.StartGeneration(c.UserContext(), topicID, req.Level, req.Region); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.AcceptedResponse{
		Status:  "accepted",
		Message: "Questions are being generated",
	})
}

// ResetQuestions godoc
// @Summary Reset a topic's questions
// @Tags topics
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} dto.StateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /topics/{id}/questions [delete]
func (h *StudyHandler) ResetQuestions(c *fiber.Ctx) error {
	if err := h.session.ResetGeneration(c.UserContext(), pathID(c)); err != nil {
		return err
	}
	return c.JSON(h.stateResponse())
}

// StartPractice godoc
// @Summary Start a practice session
// @Description Draws up to count random questions from the topic
// @Tags practice
// @Accept json
// @Produce json
// @Param request body dto.StartPracticeRequest true "Topic and question count"
// @Success 200 {object} domain.PracticeSession
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /practice [post]
func (h *StudyHandler) StartPractice(c *fiber.Ctx) error {
	var req dto.StartPracticeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("malformed request body")
	}

	count := h.session.DefaultQuestionCount()
	if req.Count != nil {
		count = *req.Count
	}
	if errors := h.validator.ValidatePracticeRequest(req.TopicID, count); len(errors) > 0 {
		return errors
	}

	practice, err := h.session.StartPractice(req.TopicID, count)
	if err != nil {
		return err
	}
	return c.JSON(practice)
}

// EndPractice godoc
// @Summary Abandon the practice session
// @Tags practice
// @Produce json
// @Success 200 {object} dto.StateResponse
// @Router /practice [delete]
func (h *StudyHandler) EndPractice(c *fiber.Ctx) error {
	h.session.EndSession()
	return c.JSON(h.stateResponse())
}

// SaveSession godoc
// @Summary Record the practice result
// @Description Prepends a history entry and returns to the library
// @Tags history
// @Accept json
// @Produce json
// @Param request body dto.SaveSessionRequest true "Score"
// @Success 201 {object} domain.SessionHistoryEntry
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /history [post]
func (h *StudyHandler) SaveSession(c *fiber.Ctx) error {
	var req dto.SaveSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("malformed request body")
	}
	if errors := h.validator.ValidateSessionResult(req.Score, req.TotalQuestions); len(errors) > 0 {
		return errors
	}

	entry, err := h.session.SaveSession(c.UserContext(), req.Score, req.TotalQuestions)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// DeleteHistoryEntry godoc
// @Summary Delete a history entry
// @Tags history
// @Param id path string true "History entry ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /history/{id} [delete]
func (h *StudyHandler) DeleteHistoryEntry(c *fiber.Ctx) error {
	if err := h.session.DeleteHistoryEntry(c.UserContext(), pathID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearAllData godoc
// @Summary Delete every syllabus and history entry
// @Description Requires confirm=true. Preferences are kept.
// @Tags data
// @Produce json
// @Param confirm query bool true "Explicit confirmation"
// @Success 200 {object} dto.StateResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /data [delete]
func (h *StudyHandler) ClearAllData(c *fiber.Ctx) error {
	if err := h.session.ClearAllData(c.UserContext(), c.QueryBool("confirm", false)); err != nil {
		return err
	}
	logger.Get().Warn("All data cleared via API", zap.String("ip", c.IP()))
	return c.JSON(h.stateResponse())
}

// DismissError godoc
// @Summary Dismiss the current error message
// @Tags state
// @Success 204
// @Router /error [delete]
func (h *StudyHandler) DismissError(c *fiber.Ctx) error {
	h.session.DismissError()
	return c.SendStatus(fiber.StatusNoContent)
}

func pathID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalValidatedID).(string); ok {
		return id
	}
	// Params are backed by the request buffer, which fiber reuses.
	return utils.CopyString(c.Params("id"))
}

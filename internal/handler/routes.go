package handler

import (
	"syllabus-buddy/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts every API route on api.
func RegisterRoutes(api fiber.Router, v *middleware.ValidationMiddleware, study *StudyHandler, prefs *PreferenceHandler, health *HealthHandler) {
	api.Get("/healthz", health.Health)
	api.Get("/state", study.GetState)
	api.Delete("/error", study.DismissError)

	api.Post("/syllabi", v.ValidateUpload(), study.UploadSyllabus)
	api.Post("/onboarding", study.AddAnotherSyllabus)
	api.Put("/syllabi/:id/active", v.ValidatePathID("syllabusId"), study.SelectSyllabus)
	api.Delete("/syllabi/:id", v.ValidatePathID("syllabusId"), study.DeleteSyllabus)

	api.Post("/topics/:id/questions", v.ValidatePathID("topicId"), study.GenerateQuestions)
	api.Delete("/topics/:id/questions", v.ValidatePathID("topicId"), study.ResetQuestions)

	api.Post("/practice", study.StartPractice)
	api.Delete("/practice", study.EndPractice)

	api.Post("/history", study.SaveSession)
	api.Delete("/history/:id", v.ValidatePathID("historyId"), study.DeleteHistoryEntry)

	api.Delete("/data", study.ClearAllData)

	api.Get("/preferences", prefs.GetPreferences)
	api.Put("/preferences/theme", prefs.SetTheme)
	api.Put("/preferences/region", prefs.SetRegion)
	api.Put("/appearance", prefs.SetAppearance)
}

package handler

import (
	"context"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/dto"
	"syllabus-buddy/internal/service"
	"syllabus-buddy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PreferenceStore is the preference service as seen by the HTTP layer.
type PreferenceStore interface {
	Preferences() service.Preferences
	SetTheme(ctx context.Context, theme domain.ThemeSetting) error
	SetRegion(ctx context.Context, region string) error
}

// AppearanceRelay accepts OS dark-mode changes reported by the browser.
type AppearanceRelay interface {
	SetPrefersDark(dark bool)
}

// PreferenceHandler handles theme, region and appearance requests
type PreferenceHandler struct {
	prefs      PreferenceStore
	appearance AppearanceRelay
	validator  *validation.Validator
}

// NewPreferenceHandler creates a new PreferenceHandler. appearance may be nil
// when the OS signal comes from somewhere other than the browser.
func NewPreferenceHandler(prefs PreferenceStore, appearance AppearanceRelay) *PreferenceHandler {
	return &PreferenceHandler{
		prefs:      prefs,
		appearance: appearance,
		validator:  validation.NewValidator(),
	}
}

// GetPreferences godoc
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} service.Preferences
// @Router /preferences [get]
func (h *PreferenceHandler) GetPreferences(c *fiber.Ctx) error {
	return c.JSON(h.prefs.Preferences())
}

// SetTheme godoc
// @Summary Set the theme
// @Description light, dark or system. system follows the OS appearance.
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.ThemeRequest true "Theme"
// @Success 200 {object} service.Preferences
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /preferences/theme [put]
func (h *PreferenceHandler) SetTheme(c *fiber.Ctx) error {
	var req dto.ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("malformed request body")
	}
	if errors := h.validator.ValidateTheme(req.Theme); len(errors) > 0 {
		return errors
	}
	if err := h.prefs.SetTheme(c.UserContext(), domain.ThemeSetting(req.Theme)); err != nil {
		return err
	}
	return c.JSON(h.prefs.Preferences())
}

// SetRegion godoc
// @Summary Set the region
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.RegionRequest true "Region"
// @Success 200 {object} service.Preferences
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /preferences/region [put]
func (h *PreferenceHandler) SetRegion(c *fiber.Ctx) error {
	var req dto.RegionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("malformed request body")
	}
	if errors := h.validator.ValidateRegion(req.Region); len(errors) > 0 {
		return errors
	}
	if err := h.prefs.SetRegion(c.UserContext(), req.Region); err != nil {
		return err
	}
	return c.JSON(h.prefs.Preferences())
}

// SetAppearance godoc
// @Summary Report the OS appearance
// @Description Relays prefers-color-scheme from the browser
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body dto.AppearanceRequest true "Dark mode flag"
// @Success 200 {object} service.Preferences
// @Failure 404 {object} middleware.ErrorResponse
// @Router /appearance [put]
func (h *PreferenceHandler) SetAppearance(c *fiber.Ctx) error {
	if h.appearance == nil {
		return fiber.NewError(fiber.StatusNotFound, "appearance is not relayed by the browser")
	}
	var req dto.AppearanceRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("malformed request body")
	}
	h.appearance.SetPrefersDark(req.Dark)
	return c.JSON(h.prefs.Preferences())
}

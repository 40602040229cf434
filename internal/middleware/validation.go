package middleware

import (
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Locals keys set by the validation middleware.
const (
	LocalValidatedID   = "validated_id"
	LocalUploadedFile  = "validated_upload"
	uploadFormFieldKey = "file"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator     *validation.Validator
	maxUploadSize int64
}

// NewValidationMiddleware creates a new validation middleware instance.
// maxUploadSize <= 0 disables the size check.
func NewValidationMiddleware(maxUploadSize int64) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator:     validation.NewValidator(),
		maxUploadSize: maxUploadSize,
	}
}

// ValidatePathID rejects a blank :id path parameter and stores it for handlers.
func (vm *ValidationMiddleware) ValidatePathID(field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return domain.ValidationErrors{domain.NewMissingFieldError(field)}
		}
		c.Locals(LocalValidatedID, utils.CopyString(id))
		return c.Next()
	}
}

// ValidateUpload checks the multipart "file" field and stores its header for handlers.
func (vm *ValidationMiddleware) ValidateUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile(uploadFormFieldKey)
		if err != nil {
			return domain.ValidationErrors{domain.NewMissingFieldError(uploadFormFieldKey)}
		}
		if errors := vm.validator.ValidateUpload(fh.Filename, fh.Size, vm.maxUploadSize); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler
		}
		c.Locals(LocalUploadedFile, fh)
		return c.Next()
	}
}

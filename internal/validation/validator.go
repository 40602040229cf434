package validation

import (
	"strings"
	"syllabus-buddy/internal/domain"
	"unicode/utf8"
)

const (
	maxLevelLength     = 50
	maxRegionLength    = 100
	maxPracticeCount   = 100
	maxTotalQuestions  = 1000
	maxDocumentNameLen = 255
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateUpload validates an uploaded syllabus document
func (v *Validator) ValidateUpload(name string, size int64, maxSize int64) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(name) == "" {
		errors = append(errors, domain.NewMissingFieldError("file"))
	} else if utf8.RuneCountInString(name) > maxDocumentNameLen {
		errors = append(errors, domain.NewOutOfRangeError("file.name", utf8.RuneCountInString(name), 1, maxDocumentNameLen))
	}

	if size <= 0 {
		errors = append(errors, domain.ValidationError{Field: "file", Message: "is empty"})
	} else if maxSize > 0 && size > maxSize {
		errors = append(errors, domain.ValidationError{Field: "file", Message: "exceeds the maximum upload size"})
	}

	return errors
}

// ValidateGenerateRequest validates a question generation request
func (v *Validator) ValidateGenerateRequest(topicID, level, region string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(topicID) == "" {
		errors = append(errors, domain.NewMissingFieldError("topic_id"))
	}
	if strings.TrimSpace(level) == "" {
		errors = append(errors, domain.NewMissingFieldError("level"))
	} else if len(level) > maxLevelLength {
		errors = append(errors, domain.NewOutOfRangeError("level", len(level), 1, maxLevelLength))
	}
	errors = append(errors, v.ValidateRegion(region)...)

	return errors
}

// ValidatePracticeRequest validates a start-practice request
func (v *Validator) ValidatePracticeRequest(topicID string, count int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(topicID) == "" {
		errors = append(errors, domain.NewMissingFieldError("topicId"))
	}
	if count <= 0 || count > maxPracticeCount {
		errors = append(errors, domain.NewOutOfRangeError("count", count, 1, maxPracticeCount))
	}

	return errors
}

// ValidateSessionResult validates a completed practice session result
func (v *Validator) ValidateSessionResult(score, totalQuestions int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if totalQuestions <= 0 || totalQuestions > maxTotalQuestions {
		errors = append(errors, domain.NewOutOfRangeError("totalQuestions", totalQuestions, 1, maxTotalQuestions))
	} else if score < 0 || score > totalQuestions {
		errors = append(errors, domain.NewOutOfRangeError("score", score, 0, totalQuestions))
	}

	return errors
}

// ValidateTheme validates a theme setting
func (v *Validator) ValidateTheme(theme string) domain.ValidationErrors {
	if strings.TrimSpace(theme) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("theme")}
	}
	if !domain.ThemeSetting(theme).IsValid() {
		return domain.ValidationErrors{domain.NewInvalidFormatError("theme", theme)}
	}
	return nil
}

// ValidateRegion validates a region preference
func (v *Validator) ValidateRegion(region string) domain.ValidationErrors {
	trimmed := strings.TrimSpace(region)
	if trimmed == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("region")}
	}
	if n := utf8.RuneCountInString(trimmed); n > maxRegionLength {
		return domain.ValidationErrors{domain.NewOutOfRangeError("region", n, 1, maxRegionLength)}
	}
	return nil
}

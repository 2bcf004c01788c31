package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/benvon/dayflow/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func init() {
	Validate = validator.New()

	// Register custom validators for domain values
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("time_of_day", validateTimeOfDay); err != nil {
		panic(fmt.Sprintf("failed to register time_of_day validator: %v", err))
	}
	if err := Validate.RegisterValidation("day_end", validateDayEnd); err != nil {
		panic(fmt.Sprintf("failed to register day_end validator: %v", err))
	}
	if err := Validate.RegisterValidation("repeat_task_status", validateRepeatTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register repeat_task_status validator: %v", err))
	}
}

// validateTimeOfDay validates an "HH:MM" wall-clock string
func validateTimeOfDay(fl validator.FieldLevel) bool {
	return timeOfDayPattern.MatchString(fl.Field().String())
}

// validateDayEnd validates an "HH:MM" string where the sentinel "24:00"
// ("no upper bound") is also accepted
func validateDayEnd(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "24:00" || timeOfDayPattern.MatchString(value)
}

// validateRepeatTaskStatus validates that a string is a valid RepeatTaskStatus value
func validateRepeatTaskStatus(fl validator.FieldLevel) bool {
	switch models.RepeatTaskStatus(fl.Field().String()) {
	case models.RepeatTaskStatusActive, models.RepeatTaskStatusInactive:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTimeOfDay validates an "HH:MM" wall-clock string value
func ValidateTimeOfDay(value string) error {
	if !timeOfDayPattern.MatchString(value) {
		return fmt.Errorf("invalid time of day: %q (must be HH:MM)", value)
	}
	return nil
}

// ValidateRepeatTaskStatus validates a RepeatTaskStatus string value
func ValidateRepeatTaskStatus(value string) error {
	switch models.RepeatTaskStatus(value) {
	case models.RepeatTaskStatusActive, models.RepeatTaskStatusInactive:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'active' or 'inactive')", value)
	}
}

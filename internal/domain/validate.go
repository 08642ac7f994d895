package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen       = 120
	maxDescriptionLen = 2000
	maxNotesLen       = 2000
)

// FieldErrors maps a field name to its validation messages. Empty map = valid.
type FieldErrors map[string][]string

// ValidateCreate checks the creation payload. Presence and length errors for
// title are alternatives (a missing title is never also "too long"); fields
// are otherwise checked independently, so the result can carry several keys
// at once.
func ValidateCreate(title string, description *string) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(title) == "" {
		errs["title"] = []string{"Title is required."}
	} else if utf8.RuneCountInString(strings.TrimSpace(title)) > maxTitleLen {
		errs["title"] = []string{fmt.Sprintf("Title must be <= %d characters.", maxTitleLen)}
	}

	if description != nil && utf8.RuneCountInString(strings.TrimSpace(*description)) > maxDescriptionLen {
		errs["description"] = []string{fmt.Sprintf("Description must be <= %d characters.", maxDescriptionLen)}
	}

	return errs
}

// ValidateUpdate checks an update payload against the record's current status.
// nil means the field was not provided ("leave unchanged").
func ValidateUpdate(status *Status, notes *string, current Status) FieldErrors {
	errs := FieldErrors{}

	if status == nil && notes == nil {
		errs["body"] = []string{"Provide at least one of: status, notes."}
	}

	if notes != nil && utf8.RuneCountInString(strings.TrimSpace(*notes)) > maxNotesLen {
		errs["notes"] = []string{fmt.Sprintf("Notes must be <= %d characters.", maxNotesLen)}
	}

	if status != nil && !IsValidTransition(current, *status) {
		errs["status"] = []string{fmt.Sprintf("Invalid status transition: %s -> %s.", current, *status)}
	}

	return errs
}

// NormalizeOptional trims s and returns nil when nothing is left. Optional
// text is stored as absent, never as an empty string.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

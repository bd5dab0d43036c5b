// Package validation provides small form validation helpers.
// Violation values are translation codes resolved by the view layer.
package validation

import (
	"regexp"
	"strings"
	"time"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLen(field, value string, max int, v Violations) {
	if len([]rune(value)) > max {
		v[field] = "too_long"
	}
}

func MinLen(field, value string, min int, v Violations) {
	if value != "" && len([]rune(value)) < min {
		v[field] = "too_short"
	}
}

func Email(field, value string, v Violations) {
	if value != "" && !emailRe.MatchString(value) {
		v[field] = "invalid_email"
	}
}

// In validates that value belongs to the allowed set.
func In(field, value string, allowed []string, code string, v Violations) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	v[field] = code
}

// DateBefore parses value as YYYY-MM-DD and requires it to be before ref.
// The parsed time is returned so callers do not parse twice.
func DateBefore(field, value string, ref time.Time, v Violations) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		v[field] = "invalid_date"
		return time.Time{}
	}
	if !t.Before(ref) {
		v[field] = "date_in_future"
	}
	return t
}

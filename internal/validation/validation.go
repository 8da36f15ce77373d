package validation

import (
	"net/url"
	"strings"
	"time"
)

// Violations maps field name to a short error code for re-rendering forms.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Required flags empty or whitespace-only values.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// URLField flags values that are not absolute http(s) URLs. Runs after
// Required; an already-flagged field is left alone.
func URLField(field, value string, v Violations) {
	if _, done := v[field]; done {
		return
	}
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v[field] = "invalid_url"
	}
}

// TimeOfDay flags values that do not parse as "HH:MM".
func TimeOfDay(field, value string, v Violations) {
	if _, done := v[field]; done {
		return
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(value)); err != nil {
		v[field] = "invalid_time"
	}
}

// OneOf flags values outside the fixed choice set (ordinal ratings).
func OneOf(field, value string, choices []string, v Violations) {
	if _, done := v[field]; done {
		return
	}
	for _, c := range choices {
		if value == c {
			return
		}
	}
	v[field] = "invalid_choice"
}

// Package validation holds the field validators shared by the
// operation, category and registration flows. A Violations map keyed
// by field name travels back to the form templates untouched.
package validation

import (
	"strings"
	"time"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Required flags empty (after trimming) string fields.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// OneOf flags values outside a closed set of choices.
func OneOf(field, value string, choices []string, v Violations) {
	for _, c := range choices {
		if value == c {
			return
		}
	}
	v[field] = "invalid_choice"
}

// Date flags strings that do not parse with the given calendar layout.
// Empty values are left to Required.
func Date(field, value, layout string, v Violations) {
	if value == "" {
		return
	}
	if _, err := time.Parse(layout, value); err != nil {
		v[field] = "invalid_date"
	}
}

// PositiveInt flags non-positive quantities.
func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// MaxLen flags strings longer than max bytes.
func MaxLen(field, value string, max int, v Violations) {
	if len(value) > max {
		v[field] = "too_long"
	}
}

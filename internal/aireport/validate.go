package aireport

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Violations collects schema problems found in generated content. Field
// names use dotted paths ("meta.disclaimer") so repair prompts and error
// texts point at the offending value.
type Violations struct {
	errs []string
}

func (v *Violations) Add(msg string) {
	v.errs = append(v.errs, msg)
}

func (v *Violations) Addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Sprintf(format, args...))
}

func (v *Violations) OK() bool {
	return len(v.errs) == 0
}

func (v *Violations) List() []string {
	return v.errs
}

// Required flags a missing mandatory section or field.
func (v *Violations) Required(field string, present bool) bool {
	if !present {
		v.Addf("%s is required", field)
	}
	return present
}

// Length enforces rune-count bounds on a string.
func (v *Violations) Length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		v.Addf("%s must be %d-%d characters (got %d)", field, min, max, n)
	}
}

// MaxLength enforces only an upper rune-count bound; empty values pass.
func (v *Violations) MaxLength(field, value string, max int) {
	if n := utf8.RuneCountInString(value); n > max {
		v.Addf("%s must be at most %d characters (got %d)", field, max, n)
	}
}

// Count enforces list cardinality. Equal bounds read as "exactly n".
func (v *Violations) Count(field string, got, min, max int) bool {
	if got < min || got > max {
		if min == max {
			v.Addf("%s must contain exactly %d items (got %d)", field, min, got)
		} else {
			v.Addf("%s must contain %d-%d items (got %d)", field, min, max, got)
		}
		return false
	}
	return true
}

func (v *Violations) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.Addf("%s must be one of: %s", field, strings.Join(allowed, ", "))
}

func (v *Violations) IntRange(field string, value, min, max int) {
	if value < min || value > max {
		v.Addf("%s must be between %d and %d (got %d)", field, min, max, value)
	}
}

func (v *Violations) FloatRange(field string, value, min, max float64) {
	if value < min || value > max {
		v.Addf("%s must be between %g and %g (got %g)", field, min, max, value)
	}
}

func (v *Violations) Pattern(field, value string, re *regexp.Regexp, hint string) {
	if !re.MatchString(value) {
		v.Addf("%s must match format %s", field, hint)
	}
}

// Items flags empty or overlong entries in a string list.
func (v *Violations) Items(field string, items []string, maxLen int) {
	for _, item := range items {
		if strings.TrimSpace(item) == "" || utf8.RuneCountInString(item) > maxLen {
			v.Addf("%s: all list items must be non-empty and under %d characters", field, maxLen)
			return
		}
	}
}

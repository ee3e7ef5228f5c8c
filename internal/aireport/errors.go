package aireport

import (
	"errors"
	"fmt"
	"strings"
)

// Error messages double as the error_text persisted on failed reports, so
// their wording is part of the API contract.
var (
	ErrNotConfigured = errors.New("OpenAI API key not configured")
	ErrEmptyResponse = errors.New("Empty response from OpenAI")
)

// ProviderError reports a chat call that could not be completed, including
// how many attempts were spent on it.
type ProviderError struct {
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("OpenAI API error after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("OpenAI API error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError means the model returned something that is not JSON and the
// profile treats parse failures as terminal.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse AI response as JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError carries the violations still present after the repair attempt.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "Failed to generate valid report after repair: " + strings.Join(e.Violations, "; ")
}

// CardinalityError reports an input set outside the profile's record bounds.
type CardinalityError struct {
	Got, Min, Max int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("record count %d outside allowed range %d-%d", e.Got, e.Min, e.Max)
}

// httpError preserves the status code so the retry loop can classify it.
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Package aireport runs AI report generation end to end: input hashing and
// caching, provider calls with retry, strict schema validation and a single
// repair attempt. Report types plug in as Profiles; the pipeline itself knows
// nothing about basketball.
package aireport

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// ValidateFunc checks decoded report content against a profile's schema. It
// returns the normalized JSON to persist (unknown fields dropped) and the
// list of violations; a non-empty list means the content is rejected.
type ValidateFunc func(raw []byte) (normalized []byte, violations []string)

// Profile parameterizes the pipeline for one report type.
type Profile struct {
	PromptVersion      string
	SystemPrompt       string
	RepairSystemPrompt string
	// RepairGuide is the schema recap inserted into the repair prompt.
	RepairGuide string

	Temperature       float64
	RepairTemperature float64
	MaxTokens         int

	// RepairParse extends the repair attempt to unparseable responses.
	// Profiles without it treat a non-JSON response as terminal.
	RepairParse bool

	// EmbedMetadata merges generation metadata (model, tokens, timing, risk
	// flags) into the stored content.
	EmbedMetadata bool

	MinRecords int
	MaxRecords int

	Validate ValidateFunc
}

// Request is one generation call.
type Request struct {
	SubjectID   string
	RecordIDs   []string
	UserMessage string
	// RiskFlags are data-quality warnings computed from the input records,
	// carried into embedded metadata.
	RiskFlags []string
}

// Outcome reports a completed generation.
type Outcome struct {
	Content          []byte
	CacheHit         bool
	Model            string
	PromptVersion    string
	PromptTokens     int
	CompletionTokens int
	Attempts         int
	Repaired         bool
	Duration         time.Duration
}

// Pipeline generates validated report content for any profile.
type Pipeline struct {
	provider Provider
	cache    *Cache
	now      func() time.Time
}

func NewPipeline(provider Provider, cache *Cache) *Pipeline {
	return &Pipeline{
		provider: provider,
		cache:    cache,
		now:      time.Now,
	}
}

// Generate runs the full pipeline. Identical inputs within the cache TTL
// short-circuit to the previously validated content without a provider call.
func (p *Pipeline) Generate(ctx context.Context, profile *Profile, req *Request) (*Outcome, error) {
	if got := len(req.RecordIDs); got < profile.MinRecords || (profile.MaxRecords > 0 && got > profile.MaxRecords) {
		return nil, &CardinalityError{Got: got, Min: profile.MinRecords, Max: profile.MaxRecords}
	}

	if !p.provider.Configured() {
		return nil, ErrNotConfigured
	}

	key := CacheKey(req.SubjectID, req.RecordIDs)
	if content, ok := p.cache.Lookup(key); ok {
		return &Outcome{
			Content:       content,
			CacheHit:      true,
			PromptVersion: profile.PromptVersion,
		}, nil
	}

	start := p.now()

	result, err := p.provider.Chat(ctx, []Message{
		{Role: "system", Content: profile.SystemPrompt},
		{Role: "user", Content: req.UserMessage},
	}, profile.Temperature, profile.MaxTokens)
	if err != nil {
		return nil, err
	}

	model := result.Model
	promptTokens := result.PromptTokens
	completionTokens := result.CompletionTokens
	attempts := result.Attempts

	content := result.Content
	if content == "" {
		return nil, ErrEmptyResponse
	}

	repaired := false
	normalized, violations, parseErr := inspect(profile, content)
	if parseErr != nil && !profile.RepairParse {
		return nil, &ParseError{Err: parseErr}
	}

	if parseErr != nil || len(violations) > 0 {
		faults := violations
		if parseErr != nil {
			faults = []string{parseErr.Error()}
		}

		repair, err := p.provider.Chat(ctx, []Message{
			{Role: "system", Content: profile.RepairSystemPrompt},
			{Role: "user", Content: repairPrompt(profile, faults, content)},
		}, profile.RepairTemperature, profile.MaxTokens)
		if err != nil {
			return nil, err
		}

		repaired = true
		promptTokens += repair.PromptTokens
		completionTokens += repair.CompletionTokens
		attempts += repair.Attempts
		if repair.Model != "" {
			model = repair.Model
		}

		content = repair.Content
		if content == "" {
			return nil, ErrEmptyResponse
		}
		normalized, violations, parseErr = inspect(profile, content)
		if parseErr != nil {
			return nil, &SchemaError{Violations: []string{parseErr.Error()}}
		}
		if len(violations) > 0 {
			return nil, &SchemaError{Violations: violations}
		}
	}

	if profile.EmbedMetadata {
		riskFlags := req.RiskFlags
		if repaired {
			riskFlags = append(riskFlags, "Report required one repair attempt")
		}
		normalized, err = embedMetadata(normalized, generationMeta{
			Model:            model,
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			GenerationTimeMs: int(p.now().Sub(start).Milliseconds()),
			RiskFlags:        riskFlags,
		})
		if err != nil {
			return nil, err
		}
	}

	p.cache.Store(key, normalized)

	return &Outcome{
		Content:          normalized,
		Model:            model,
		PromptVersion:    profile.PromptVersion,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		Attempts:         attempts,
		Repaired:         repaired,
		Duration:         p.now().Sub(start),
	}, nil
}

// inspect parses and validates one candidate response. A parse error means
// the content is not JSON at all; violations mean it is JSON that does not
// satisfy the profile's schema.
func inspect(profile *Profile, content string) (normalized []byte, violations []string, parseErr error) {
	var probe any
	if err := json.Unmarshal([]byte(content), &probe); err != nil {
		return nil, nil, err
	}
	normalized, violations = profile.Validate([]byte(content))
	return normalized, violations, nil
}

func repairPrompt(profile *Profile, faults []string, previous string) string {
	return "The previous response had validation errors:\n" +
		strings.Join(faults, "\n") +
		"\n\nPlease fix the JSON and ensure it matches this schema exactly:\n" +
		profile.RepairGuide +
		"\n\nPrevious response:\n" +
		previous +
		"\n\nReturn ONLY the corrected JSON."
}

type generationMeta struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	GenerationTimeMs int
	RiskFlags        []string
}

func embedMetadata(content []byte, meta generationMeta) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	if meta.RiskFlags == nil {
		meta.RiskFlags = []string{}
	}
	doc["model_used"] = meta.Model
	doc["prompt_tokens"] = meta.PromptTokens
	doc["completion_tokens"] = meta.CompletionTokens
	doc["generation_time_ms"] = meta.GenerationTimeMs
	doc["risk_flags"] = meta.RiskFlags
	return json.Marshal(doc)
}

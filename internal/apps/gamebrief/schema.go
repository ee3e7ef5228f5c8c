package gamebrief

import (
	"encoding/json"

	"github.com/benchwise/coaching-backend/internal/aireport"
)

// reportContent is the structured body of a game analysis report. Pointer
// fields distinguish a missing key from an empty value so presence checks
// match what the model actually returned.
type reportContent struct {
	Summary              *string          `json:"summary"`
	KeyInsights          []keyInsight     `json:"key_insights"`
	ActionItems          []actionItem     `json:"action_items"`
	PracticeFocus        *string          `json:"practice_focus"`
	QuestionsForNextGame []reportQuestion `json:"questions_for_next_game"`
}

type keyInsight struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Evidence    *string `json:"evidence"`
	Confidence  *string `json:"confidence"`
}

type actionItem struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Metric      *string `json:"metric"`
	Priority    *string `json:"priority"`
}

type reportQuestion struct {
	Question *string `json:"question"`
	Context  *string `json:"context"`
}

// validateReportContent checks a parsed response against the game report
// schema and returns the normalized JSON to store. Metadata keys the model
// may have echoed back are dropped; the pipeline re-embeds real values.
func validateReportContent(raw []byte) ([]byte, []string) {
	var content reportContent
	var v aireport.Violations
	if err := json.Unmarshal(raw, &content); err != nil {
		v.Add(err.Error())
		return nil, v.List()
	}

	if v.Required("summary", content.Summary != nil) {
		v.Length("summary", *content.Summary, 50, 500)
	}

	if v.Count("key_insights", len(content.KeyInsights), 3, 3) {
		for _, insight := range content.KeyInsights {
			v.Required("key_insights.title", insight.Title != nil)
			v.Required("key_insights.description", insight.Description != nil)
			v.Required("key_insights.evidence", insight.Evidence != nil)
			if v.Required("key_insights.confidence", insight.Confidence != nil) {
				v.OneOf("key_insights.confidence", *insight.Confidence, "high", "medium", "low")
			}
		}
	}

	if v.Count("action_items", len(content.ActionItems), 2, 2) {
		for _, item := range content.ActionItems {
			v.Required("action_items.title", item.Title != nil)
			v.Required("action_items.description", item.Description != nil)
			v.Required("action_items.metric", item.Metric != nil)
			if v.Required("action_items.priority", item.Priority != nil) {
				v.OneOf("action_items.priority", *item.Priority, "high", "medium", "low")
			}
		}
	}

	if v.Required("practice_focus", content.PracticeFocus != nil) {
		v.Length("practice_focus", *content.PracticeFocus, 20, 300)
	}

	if v.Count("questions_for_next_game", len(content.QuestionsForNextGame), 2, 3) {
		for _, q := range content.QuestionsForNextGame {
			v.Required("questions_for_next_game.question", q.Question != nil)
			v.Required("questions_for_next_game.context", q.Context != nil)
		}
	}

	if !v.OK() {
		return nil, v.List()
	}

	normalized, err := json.Marshal(content)
	if err != nil {
		v.Add(err.Error())
		return nil, v.List()
	}
	return normalized, nil
}

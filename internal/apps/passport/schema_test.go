package passport

import (
	"encoding/json"
	"strings"
	"testing"
)

// validReportBody builds a body that passes every schema check. Tests mutate
// single fields to probe individual rules.
func validReportBody() map[string]any {
	drill := func(title string) map[string]any {
		return map[string]any{
			"title":          title,
			"why_this_drill": "Builds repeatable mechanics under game fatigue.",
			"how_to_do_it":   "Run the drill at half speed until clean, then full speed for three rounds with a partner tracking makes.",
			"frequency":      "3x per week",
			"success_metric": "Hit the target in three straight rounds",
		}
	}
	game := func(label, date string, pts int) map[string]any {
		return map[string]any{
			"game_label": label,
			"date":       date,
			"opponent":   "Eagles",
			"minutes":    28,
			"pts":        pts,
			"reb":        5,
			"ast":        5,
			"stl":        2,
			"blk":        0,
			"tov":        3,
			"fgm":        6,
			"fga":        13,
			"tpm":        1,
			"tpa":        4,
			"ftm":        2,
			"fta":        3,
			"notes":      "",
		}
	}
	return map[string]any{
		"meta": map[string]any{
			"player_name":       "Jordan Lee",
			"report_window":     "Jan 05-12, 2025",
			"confidence_level":  "medium",
			"confidence_reason": "Three games with consistent minutes give a usable baseline.",
			"disclaimer":        "This report is coaching guidance built from a small sample of games and makes no guarantees or promises about playing time, performance, or recruiting.",
		},
		"growth_summary": "Jordan's scoring climbed from twelve to eighteen points across this window while turnovers held steady at three or fewer, so the extra usage is not costing ball security. Rebounding and assist numbers also improved game over game.",
		"development_report": map[string]any{
			"strengths": []any{
				"Consistent mid range scoring touch",
				"Active hands in passing lanes",
			},
			"growth_areas": []any{
				"Free throw consistency",
				"Decision speed in transition",
			},
			"trend_insights": []any{
				"Points per game climbed from 12 to 18 across the window",
				"Assist to turnover ratio reached 2.0 in the final game",
				"Rebounds held at five or more in every game",
			},
			"key_metrics": []any{
				map[string]any{"label": "PPG", "value": "14.7", "note": "Scoring average across the three games in this window."},
				map[string]any{"label": "APG", "value": "5.0", "note": "Assists climbed every game and peaked at seven."},
				map[string]any{"label": "FG%", "value": "46.2%", "note": "Healthy efficiency for a primary ball handler."},
			},
			"next_2_weeks_focus": []any{
				"Daily routine of 50 free throws",
				"Two ball handling circuits per week",
				"Film review of transition reads",
			},
		},
		"drill_plan": []any{
			drill("Form Shooting Ladder"),
			drill("Two Ball Pound Dribble"),
			drill("Closeout Shooting"),
		},
		"motivational_message": "Jordan, raising your scoring without giving the ball away more is real growth. Keep stacking these focused reps and trust the work.",
		"college_fit_indicator_v1": map[string]any{
			"label":     "Tracking toward a strong varsity role",
			"reasoning": "Production and efficiency point to a dependable varsity contributor; any college projection needs more games, verified measurements, and schedule context.",
			"what_to_improve_to_level_up": []any{
				"Three point volume and consistency",
				"Finishing through contact",
			},
		},
		"player_profile": map[string]any{
			"headline": "Steady combo guard who values the basketball",
			"player_info": map[string]any{
				"name":     "Jordan Lee",
				"grade":    "10th",
				"position": "PG",
				"height":   "",
				"team":     "Westview Wolves",
				"goals":    []any{"Make varsity"},
			},
			"top_stats_snapshot":            []any{"PPG: 14.7", "APG: 5.0", "FG%: 46.2"},
			"strengths_short":               []any{"Scoring touch", "Active defender"},
			"development_areas_short":       []any{"Free throws", "Transition reads"},
			"coach_notes_summary":           "Coach highlights improved pace control and wants more vocal leadership.",
			"highlight_summary_placeholder": "Show the pull up jumper from each elbow plus two defensive stops that turn into transition assists.",
		},
		"structured_data": map[string]any{
			"per_game_summary": []any{
				game("Game 1", "2025-01-05", 12),
				game("Game 2", "2025-01-08", 14),
				game("Game 3", "2025-01-12", 18),
			},
			"computed_insights": map[string]any{
				"games_count":      3,
				"pts_avg":          14.67,
				"reb_avg":          5.0,
				"ast_avg":          5.0,
				"tov_avg":          3.0,
				"minutes_avg":      28.0,
				"fg_pct":           46.2,
				"three_pct":        25.0,
				"ft_pct":           66.7,
				"ast_to_tov_ratio": 1.67,
			},
		},
	}
}

func marshalBody(t *testing.T, body map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal test body: %v", err)
	}
	return raw
}

func hasViolation(violations []string, want string) bool {
	for _, v := range violations {
		if v == want {
			return true
		}
	}
	return false
}

func TestValidateReportContentAcceptsValidBody(t *testing.T) {
	normalized, violations := validateReportContent(marshalBody(t, validReportBody()))
	if violations != nil {
		t.Fatalf("valid body rejected: %v", violations)
	}
	if normalized == nil {
		t.Fatalf("expected normalized content")
	}
	if !json.Valid(normalized) {
		t.Fatalf("normalized content is not valid JSON")
	}
}

func TestValidateReportContentDropsUnknownKeys(t *testing.T) {
	body := validReportBody()
	body["model_used"] = "gpt-4o"
	body["completion_tokens"] = 1180

	normalized, violations := validateReportContent(marshalBody(t, body))
	if violations != nil {
		t.Fatalf("body rejected: %v", violations)
	}
	if strings.Contains(string(normalized), "model_used") {
		t.Fatalf("echoed metadata should be dropped, got: %s", normalized)
	}
}

func TestValidateReportContentDisclaimerMustAcknowledgeUncertainty(t *testing.T) {
	body := validReportBody()
	body["meta"].(map[string]any)["disclaimer"] = "This report was produced automatically from the statistics supplied for the selected games."

	_, violations := validateReportContent(marshalBody(t, body))
	want := "meta.disclaimer must mention no guarantees or promises"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentConfidenceEnum(t *testing.T) {
	body := validReportBody()
	body["meta"].(map[string]any)["confidence_level"] = "certain"

	_, violations := validateReportContent(marshalBody(t, body))
	want := "meta.confidence_level must be one of: low, medium, high"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentGrowthSummaryLength(t *testing.T) {
	body := validReportBody()
	body["growth_summary"] = "Too short."

	normalized, violations := validateReportContent(marshalBody(t, body))
	if normalized != nil {
		t.Fatalf("short summary should be rejected")
	}
	want := "growth_summary must be 100-2000 characters (got 10)"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentRejectsMedicalAdvice(t *testing.T) {
	body := validReportBody()
	body["growth_summary"] = strings.Replace(
		body["growth_summary"].(string), "Rebounding", "If the knee keeps aching he should see a doctor. Rebounding", 1)

	_, violations := validateReportContent(marshalBody(t, body))
	want := "growth_summary cannot contain medical advice: 'see a doctor'"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentRejectsRecruitingGuarantees(t *testing.T) {
	body := validReportBody()
	body["motivational_message"] = "Keep this up and a guaranteed scholarship is coming your way, no question about it at all."

	_, violations := validateReportContent(marshalBody(t, body))
	want := "motivational_message cannot contain recruiting guarantees: 'guaranteed scholarship'"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentFitLabelBansCertaintyLanguage(t *testing.T) {
	body := validReportBody()
	body["college_fit_indicator_v1"].(map[string]any)["label"] = "Definitely a future D1 starter"

	_, violations := validateReportContent(marshalBody(t, body))
	want := "college_fit_indicator_v1.label cannot contain guarantee language: 'definitely'"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentHeadlineBansRecruitingClaims(t *testing.T) {
	body := validReportBody()
	body["player_profile"].(map[string]any)["headline"] = "College bound guard with elite court vision"

	_, violations := validateReportContent(marshalBody(t, body))
	want := "player_profile.headline cannot contain guarantee language: 'college bound'"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentDrillPlanCount(t *testing.T) {
	body := validReportBody()
	body["drill_plan"] = body["drill_plan"].([]any)[:2]

	_, violations := validateReportContent(marshalBody(t, body))
	want := "drill_plan must contain 3-5 items (got 2)"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentKeyMetricNoteBounds(t *testing.T) {
	body := validReportBody()
	metrics := body["development_report"].(map[string]any)["key_metrics"].([]any)
	metrics[0].(map[string]any)["note"] = "Too short"

	_, violations := validateReportContent(marshalBody(t, body))
	want := "key_metrics.note must be 10-300 characters (got 9)"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentGameDatePattern(t *testing.T) {
	body := validReportBody()
	games := body["structured_data"].(map[string]any)["per_game_summary"].([]any)
	games[0].(map[string]any)["date"] = "01/05/2025"

	_, violations := validateReportContent(marshalBody(t, body))
	want := "per_game_summary.date must match format YYYY-MM-DD"
	if !hasViolation(violations, want) {
		t.Fatalf("expected %q in %v", want, violations)
	}
}

func TestValidateReportContentMinutesMayBeNull(t *testing.T) {
	body := validReportBody()
	games := body["structured_data"].(map[string]any)["per_game_summary"].([]any)
	games[0].(map[string]any)["minutes"] = nil

	_, violations := validateReportContent(marshalBody(t, body))
	if violations != nil {
		t.Fatalf("null minutes should be allowed: %v", violations)
	}
}

func TestValidateReportContentStatRanges(t *testing.T) {
	body := validReportBody()
	games := body["structured_data"].(map[string]any)["per_game_summary"].([]any)
	games[0].(map[string]any)["minutes"] = 55
	games[1].(map[string]any)["pts"] = 120

	_, violations := validateReportContent(marshalBody(t, body))
	for _, want := range []string{
		"per_game_summary.minutes must be between 0 and 48 (got 55)",
		"per_game_summary.pts must be between 0 and 100 (got 120)",
	} {
		if !hasViolation(violations, want) {
			t.Fatalf("expected %q in %v", want, violations)
		}
	}
}

func TestValidateReportContentMissingFields(t *testing.T) {
	body := validReportBody()
	delete(body, "player_profile")
	delete(body["structured_data"].(map[string]any)["computed_insights"].(map[string]any), "ast_to_tov_ratio")

	_, violations := validateReportContent(marshalBody(t, body))
	for _, want := range []string{
		"player_profile is required",
		"computed_insights.ast_to_tov_ratio is required",
	} {
		if !hasViolation(violations, want) {
			t.Fatalf("expected %q in %v", want, violations)
		}
	}
}

func TestValidateReportContentInvalidJSON(t *testing.T) {
	normalized, violations := validateReportContent([]byte("{not json"))
	if normalized != nil {
		t.Fatalf("invalid JSON should not normalize")
	}
	if len(violations) == 0 {
		t.Fatalf("expected a violation for invalid JSON")
	}
}

package passport

import (
	"encoding/json"
	"regexp"

	"github.com/benchwise/coaching-backend/internal/aireport"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// reportContent is the structured body of a development report. Pointer
// fields distinguish a missing key from an empty value; plain string fields
// are optional with an empty default.
type reportContent struct {
	Meta                  *reportMeta    `json:"meta"`
	GrowthSummary         *string        `json:"growth_summary"`
	DevelopmentReport     *devReport     `json:"development_report"`
	DrillPlan             []drill        `json:"drill_plan"`
	MotivationalMessage   *string        `json:"motivational_message"`
	CollegeFitIndicatorV1 *fitIndicator  `json:"college_fit_indicator_v1"`
	PlayerProfile         *playerProfile `json:"player_profile"`
	StructuredData        *structData    `json:"structured_data"`
}

type reportMeta struct {
	PlayerName       *string `json:"player_name"`
	ReportWindow     *string `json:"report_window"`
	ConfidenceLevel  *string `json:"confidence_level"`
	ConfidenceReason *string `json:"confidence_reason"`
	Disclaimer       *string `json:"disclaimer"`
}

type devReport struct {
	Strengths       []string    `json:"strengths"`
	GrowthAreas     []string    `json:"growth_areas"`
	TrendInsights   []string    `json:"trend_insights"`
	KeyMetrics      []keyMetric `json:"key_metrics"`
	Next2WeeksFocus []string    `json:"next_2_weeks_focus"`
}

type keyMetric struct {
	Label *string `json:"label"`
	Value *string `json:"value"`
	Note  *string `json:"note"`
}

type drill struct {
	Title         *string `json:"title"`
	WhyThisDrill  *string `json:"why_this_drill"`
	HowToDoIt     *string `json:"how_to_do_it"`
	Frequency     *string `json:"frequency"`
	SuccessMetric *string `json:"success_metric"`
}

type fitIndicator struct {
	Label                  *string  `json:"label"`
	Reasoning              *string  `json:"reasoning"`
	WhatToImproveToLevelUp []string `json:"what_to_improve_to_level_up"`
}

type playerInfo struct {
	Name     *string  `json:"name"`
	Grade    *string  `json:"grade"`
	Position *string  `json:"position"`
	Height   string   `json:"height"`
	Team     string   `json:"team"`
	Goals    []string `json:"goals"`
}

type playerProfile struct {
	Headline                    *string     `json:"headline"`
	PlayerInfo                  *playerInfo `json:"player_info"`
	TopStatsSnapshot            []string    `json:"top_stats_snapshot"`
	StrengthsShort              []string    `json:"strengths_short"`
	DevelopmentAreasShort       []string    `json:"development_areas_short"`
	CoachNotesSummary           *string     `json:"coach_notes_summary"`
	HighlightSummaryPlaceholder *string     `json:"highlight_summary_placeholder"`
}

type perGameSummary struct {
	GameLabel *string `json:"game_label"`
	Date      *string `json:"date"`
	Opponent  *string `json:"opponent"`
	Minutes   *int    `json:"minutes"`
	Pts       *int    `json:"pts"`
	Reb       *int    `json:"reb"`
	Ast       *int    `json:"ast"`
	Stl       *int    `json:"stl"`
	Blk       *int    `json:"blk"`
	Tov       *int    `json:"tov"`
	FGM       *int    `json:"fgm"`
	FGA       *int    `json:"fga"`
	TPM       *int    `json:"tpm"`
	TPA       *int    `json:"tpa"`
	FTM       *int    `json:"ftm"`
	FTA       *int    `json:"fta"`
	Notes     string  `json:"notes"`
}

type computedInsights struct {
	GamesCount    *int     `json:"games_count"`
	PtsAvg        *float64 `json:"pts_avg"`
	RebAvg        *float64 `json:"reb_avg"`
	AstAvg        *float64 `json:"ast_avg"`
	TovAvg        *float64 `json:"tov_avg"`
	MinutesAvg    *float64 `json:"minutes_avg"`
	FGPct         *float64 `json:"fg_pct"`
	ThreePct      *float64 `json:"three_pct"`
	FTPct         *float64 `json:"ft_pct"`
	AstToTovRatio *float64 `json:"ast_to_tov_ratio"`
}

type structData struct {
	PerGameSummary   []perGameSummary  `json:"per_game_summary"`
	ComputedInsights *computedInsights `json:"computed_insights"`
}

// validateReportContent checks a parsed response against the development
// report schema and returns the normalized JSON to store. Unknown keys are
// dropped. Safety rules reject the whole response rather than stripping the
// offending text.
func validateReportContent(raw []byte) ([]byte, []string) {
	var content reportContent
	var v aireport.Violations
	if err := json.Unmarshal(raw, &content); err != nil {
		v.Add(err.Error())
		return nil, v.List()
	}

	validateMeta(&v, content.Meta)

	if v.Required("growth_summary", content.GrowthSummary != nil) {
		v.Length("growth_summary", *content.GrowthSummary, 100, 2000)
		v.NoMedicalAdvice("growth_summary", *content.GrowthSummary)
		v.NoRecruitingGuarantees("growth_summary", *content.GrowthSummary)
	}

	validateDevReport(&v, content.DevelopmentReport)
	validateDrillPlan(&v, content.DrillPlan)

	if v.Required("motivational_message", content.MotivationalMessage != nil) {
		v.Length("motivational_message", *content.MotivationalMessage, 50, 500)
		v.NoMedicalAdvice("motivational_message", *content.MotivationalMessage)
		v.NoRecruitingGuarantees("motivational_message", *content.MotivationalMessage)
	}

	validateFitIndicator(&v, content.CollegeFitIndicatorV1)
	validatePlayerProfile(&v, content.PlayerProfile)
	validateStructuredData(&v, content.StructuredData)

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

func validateMeta(v *aireport.Violations, meta *reportMeta) {
	if !v.Required("meta", meta != nil) {
		return
	}

	if v.Required("meta.player_name", meta.PlayerName != nil) {
		v.Length("meta.player_name", *meta.PlayerName, 1, 255)
	}
	if v.Required("meta.report_window", meta.ReportWindow != nil) {
		v.Length("meta.report_window", *meta.ReportWindow, 1, 100)
	}
	if v.Required("meta.confidence_level", meta.ConfidenceLevel != nil) {
		v.OneOf("meta.confidence_level", *meta.ConfidenceLevel, "low", "medium", "high")
	}
	if v.Required("meta.confidence_reason", meta.ConfidenceReason != nil) {
		v.Length("meta.confidence_reason", *meta.ConfidenceReason, 10, 500)
	}
	if v.Required("meta.disclaimer", meta.Disclaimer != nil) {
		v.Length("meta.disclaimer", *meta.Disclaimer, 50, 1000)
		v.MustMentionAny("meta.disclaimer", *meta.Disclaimer, "no guarantees or promises", "guarantee", "promise")
	}
}

func validateDevReport(v *aireport.Violations, report *devReport) {
	if !v.Required("development_report", report != nil) {
		return
	}

	if v.Count("development_report.strengths", len(report.Strengths), 2, 5) {
		v.Items("development_report.strengths", report.Strengths, 300)
	}
	if v.Count("development_report.growth_areas", len(report.GrowthAreas), 2, 5) {
		v.Items("development_report.growth_areas", report.GrowthAreas, 300)
	}
	if v.Count("development_report.trend_insights", len(report.TrendInsights), 3, 5) {
		v.Items("development_report.trend_insights", report.TrendInsights, 300)
	}
	if v.Count("development_report.key_metrics", len(report.KeyMetrics), 3, 6) {
		for _, metric := range report.KeyMetrics {
			if v.Required("key_metrics.label", metric.Label != nil) {
				v.Length("key_metrics.label", *metric.Label, 1, 100)
			}
			if v.Required("key_metrics.value", metric.Value != nil) {
				v.Length("key_metrics.value", *metric.Value, 1, 50)
			}
			if v.Required("key_metrics.note", metric.Note != nil) {
				v.Length("key_metrics.note", *metric.Note, 10, 300)
			}
		}
	}
	if v.Count("development_report.next_2_weeks_focus", len(report.Next2WeeksFocus), 3, 5) {
		v.Items("development_report.next_2_weeks_focus", report.Next2WeeksFocus, 300)
	}
}

func validateDrillPlan(v *aireport.Violations, plan []drill) {
	if !v.Count("drill_plan", len(plan), 3, 5) {
		return
	}

	for _, d := range plan {
		if v.Required("drill_plan.title", d.Title != nil) {
			v.Length("drill_plan.title", *d.Title, 5, 100)
		}
		if v.Required("drill_plan.why_this_drill", d.WhyThisDrill != nil) {
			v.Length("drill_plan.why_this_drill", *d.WhyThisDrill, 20, 300)
		}
		if v.Required("drill_plan.how_to_do_it", d.HowToDoIt != nil) {
			v.Length("drill_plan.how_to_do_it", *d.HowToDoIt, 30, 500)
		}
		if v.Required("drill_plan.frequency", d.Frequency != nil) {
			v.Length("drill_plan.frequency", *d.Frequency, 5, 100)
		}
		if v.Required("drill_plan.success_metric", d.SuccessMetric != nil) {
			v.Length("drill_plan.success_metric", *d.SuccessMetric, 10, 200)
		}
	}
}

func validateFitIndicator(v *aireport.Violations, fit *fitIndicator) {
	if !v.Required("college_fit_indicator_v1", fit != nil) {
		return
	}

	if v.Required("college_fit_indicator_v1.label", fit.Label != nil) {
		v.Length("college_fit_indicator_v1.label", *fit.Label, 10, 150)
		v.NoGuaranteeLanguage("college_fit_indicator_v1.label", *fit.Label, aireport.GuaranteeLanguage)
	}
	if v.Required("college_fit_indicator_v1.reasoning", fit.Reasoning != nil) {
		v.Length("college_fit_indicator_v1.reasoning", *fit.Reasoning, 50, 500)
	}
	v.Count("college_fit_indicator_v1.what_to_improve_to_level_up", len(fit.WhatToImproveToLevelUp), 2, 5)
}

func validatePlayerProfile(v *aireport.Violations, profile *playerProfile) {
	if !v.Required("player_profile", profile != nil) {
		return
	}

	if v.Required("player_profile.headline", profile.Headline != nil) {
		v.Length("player_profile.headline", *profile.Headline, 10, 200)
		v.NoGuaranteeLanguage("player_profile.headline", *profile.Headline, aireport.RecruitingClaims)
	}

	if v.Required("player_profile.player_info", profile.PlayerInfo != nil) {
		info := profile.PlayerInfo
		if v.Required("player_info.name", info.Name != nil) {
			v.Length("player_info.name", *info.Name, 1, 255)
		}
		if v.Required("player_info.grade", info.Grade != nil) {
			v.Length("player_info.grade", *info.Grade, 1, 50)
		}
		if v.Required("player_info.position", info.Position != nil) {
			v.Length("player_info.position", *info.Position, 1, 50)
		}
		v.MaxLength("player_info.height", info.Height, 20)
		v.MaxLength("player_info.team", info.Team, 255)
		v.Count("player_info.goals", len(info.Goals), 0, 10)
	}

	v.Count("player_profile.top_stats_snapshot", len(profile.TopStatsSnapshot), 3, 5)
	v.Count("player_profile.strengths_short", len(profile.StrengthsShort), 2, 4)
	v.Count("player_profile.development_areas_short", len(profile.DevelopmentAreasShort), 2, 4)

	if v.Required("player_profile.coach_notes_summary", profile.CoachNotesSummary != nil) {
		v.Length("player_profile.coach_notes_summary", *profile.CoachNotesSummary, 10, 500)
	}
	if v.Required("player_profile.highlight_summary_placeholder", profile.HighlightSummaryPlaceholder != nil) {
		v.Length("player_profile.highlight_summary_placeholder", *profile.HighlightSummaryPlaceholder, 20, 300)
	}
}

func validateStructuredData(v *aireport.Violations, data *structData) {
	if !v.Required("structured_data", data != nil) {
		return
	}

	if v.Count("structured_data.per_game_summary", len(data.PerGameSummary), 1, 10) {
		for _, game := range data.PerGameSummary {
			validatePerGame(v, &game)
		}
	}

	if !v.Required("structured_data.computed_insights", data.ComputedInsights != nil) {
		return
	}

	insights := data.ComputedInsights
	if v.Required("computed_insights.games_count", insights.GamesCount != nil) {
		v.IntRange("computed_insights.games_count", *insights.GamesCount, 1, 10)
	}
	floatChecks := []struct {
		field string
		value *float64
		max   float64
	}{
		{"computed_insights.pts_avg", insights.PtsAvg, 100},
		{"computed_insights.reb_avg", insights.RebAvg, 50},
		{"computed_insights.ast_avg", insights.AstAvg, 30},
		{"computed_insights.tov_avg", insights.TovAvg, 20},
		{"computed_insights.minutes_avg", insights.MinutesAvg, 48},
		{"computed_insights.fg_pct", insights.FGPct, 100},
		{"computed_insights.three_pct", insights.ThreePct, 100},
		{"computed_insights.ft_pct", insights.FTPct, 100},
		{"computed_insights.ast_to_tov_ratio", insights.AstToTovRatio, 10},
	}
	for _, chk := range floatChecks {
		if v.Required(chk.field, chk.value != nil) {
			v.FloatRange(chk.field, *chk.value, 0, chk.max)
		}
	}
}

func validatePerGame(v *aireport.Violations, game *perGameSummary) {
	if v.Required("per_game_summary.game_label", game.GameLabel != nil) {
		v.Length("per_game_summary.game_label", *game.GameLabel, 1, 100)
	}
	if v.Required("per_game_summary.date", game.Date != nil) {
		v.Pattern("per_game_summary.date", *game.Date, isoDatePattern, "YYYY-MM-DD")
	}
	if v.Required("per_game_summary.opponent", game.Opponent != nil) {
		v.Length("per_game_summary.opponent", *game.Opponent, 1, 255)
	}

	// Minutes is the one stat the model may leave null.
	if game.Minutes != nil {
		v.IntRange("per_game_summary.minutes", *game.Minutes, 0, 48)
	}

	intChecks := []struct {
		field string
		value *int
		max   int
	}{
		{"per_game_summary.pts", game.Pts, 100},
		{"per_game_summary.reb", game.Reb, 50},
		{"per_game_summary.ast", game.Ast, 30},
		{"per_game_summary.stl", game.Stl, 20},
		{"per_game_summary.blk", game.Blk, 20},
		{"per_game_summary.tov", game.Tov, 20},
		{"per_game_summary.fgm", game.FGM, 50},
		{"per_game_summary.fga", game.FGA, 100},
		{"per_game_summary.tpm", game.TPM, 30},
		{"per_game_summary.tpa", game.TPA, 50},
		{"per_game_summary.ftm", game.FTM, 30},
		{"per_game_summary.fta", game.FTA, 40},
	}
	for _, chk := range intChecks {
		if v.Required(chk.field, chk.value != nil) {
			v.IntRange(chk.field, *chk.value, 0, chk.max)
		}
	}

	v.MaxLength("per_game_summary.notes", game.Notes, 1000)
}

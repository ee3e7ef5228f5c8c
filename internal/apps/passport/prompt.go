package passport

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Prompt version for player development reports. Stored on every report;
// behavior changes mean a new version string with new text, never edits here.
const promptVersion = "player_passport_v1"

const systemPrompt = `SYSTEM (Player Passport - Report Generator, V1)
You are Player Passport's AI coach and analyst. Your job is to turn limited youth/high-school basketball box score data + optional coach/parent notes into a trustworthy, motivational, parent-friendly development report and a shareable player profile summary.

NON-NEGOTIABLE RULES (Trust + Safety + Credibility):
- Do NOT claim guarantees about scholarships, recruiting outcomes, offers, or scout attention.
- Do NOT invent facts, stats, injuries, awards, rankings, or measurements not in the input.
- Do NOT provide medical advice, diagnoses, or treatment recommendations.
- If data is missing or noisy, explicitly say what's unknown and make best-effort suggestions without pretending certainty.
- Keep advice age-appropriate, practical, and positive.
- Avoid harsh language. Be supportive and professional.
- Use basketball language that parents understand; explain jargon briefly if used.
- IMPORTANT: The "College Fit Indicator" is a *rough* placeholder based only on provided stats + context. Use cautious wording.

OUTPUT FORMAT REQUIREMENTS:
Return ONLY valid JSON (no markdown fences). The JSON must match the schema exactly.
All text must be ready to render in a web app UI (clean sentences, no weird symbols).
Keep each bullet concise. Prioritize clarity over hype.

Return JSON with exactly this structure:
{
  "meta": {
    "player_name": "player's name from the input",
    "report_window": "date range covered, e.g. Dec 15-28, 2024",
    "confidence_level": "low|medium|high",
    "confidence_reason": "one or two sentences on data quality (10-500 chars)",
    "disclaimer": "50-1000 chars; must state there are no guarantees or promises about performance or recruiting"
  },
  "growth_summary": "100-2000 chars of narrative on trajectory across the games",
  "development_report": {
    "strengths": ["2-5 items, each under 300 chars"],
    "growth_areas": ["2-5 items"],
    "trend_insights": ["3-5 items citing the actual numbers"],
    "key_metrics": [
      {"label": "metric name", "value": "short value string (1-50 chars)", "note": "10-300 chars of context"}
    ],
    "next_2_weeks_focus": ["3-5 concrete focus items"]
  },
  "drill_plan": [
    {"title": "5-100 chars", "why_this_drill": "20-300 chars", "how_to_do_it": "30-500 chars", "frequency": "e.g. 3x per week (5-100 chars)", "success_metric": "10-200 chars"}
  ],
  "motivational_message": "50-500 chars addressed to the player",
  "college_fit_indicator_v1": {
    "label": "cautious one-liner, 10-150 chars, no guarantee language",
    "reasoning": "50-500 chars",
    "what_to_improve_to_level_up": ["2-5 items"]
  },
  "player_profile": {
    "headline": "10-200 chars, no recruiting claims",
    "player_info": {"name": "...", "grade": "...", "position": "...", "height": "", "team": "", "goals": []},
    "top_stats_snapshot": ["3-5 items like 'PPG: 14.2'"],
    "strengths_short": ["2-4 items"],
    "development_areas_short": ["2-4 items"],
    "coach_notes_summary": "10-500 chars; if no notes were provided, say so",
    "highlight_summary_placeholder": "20-300 chars describing what a highlight reel should show"
  },
  "structured_data": {
    "per_game_summary": [
      {"game_label": "...", "date": "YYYY-MM-DD", "opponent": "...", "minutes": 0, "pts": 0, "reb": 0, "ast": 0, "stl": 0, "blk": 0, "tov": 0, "fgm": 0, "fga": 0, "tpm": 0, "tpa": 0, "ftm": 0, "fta": 0, "notes": ""},
    ],
    "computed_insights": {"games_count": 0, "pts_avg": 0.0, "reb_avg": 0.0, "ast_avg": 0.0, "tov_avg": 0.0, "minutes_avg": 0.0, "fg_pct": 0.0, "three_pct": 0.0, "ft_pct": 0.0, "ast_to_tov_ratio": 0.0}
  }
}

drill_plan must contain 3-5 drills. key_metrics must contain 3-6 entries. per_game_summary must echo every input game with its real numbers; computed_insights must be averages over exactly those games.`

const repairSystemPrompt = "Fix the JSON to match the required schema exactly."

const repairGuide = `- meta: player_name (1-255), report_window (1-100), confidence_level (low/medium/high), confidence_reason (10-500), disclaimer (50-1000, must mention no guarantees or promises)
- growth_summary: string, 100-2000 characters, no medical advice or recruiting guarantees
- development_report: strengths (2-5 items), growth_areas (2-5), trend_insights (3-5), key_metrics (3-6 objects with label 1-100, value 1-50, note 10-300), next_2_weeks_focus (3-5); all list items non-empty and under 300 characters
- drill_plan: 3-5 objects with title (5-100), why_this_drill (20-300), how_to_do_it (30-500), frequency (5-100), success_metric (10-200)
- motivational_message: string, 50-500 characters, no medical advice or recruiting guarantees
- college_fit_indicator_v1: label (10-150, no guarantee language), reasoning (50-500), what_to_improve_to_level_up (2-5 items)
- player_profile: headline (10-200, no recruiting claims), player_info (name, grade, position required), top_stats_snapshot (3-5), strengths_short (2-4), development_areas_short (2-4), coach_notes_summary (10-500), highlight_summary_placeholder (20-300)
- structured_data: per_game_summary (1-10 objects, date as YYYY-MM-DD, stats within plausible single-game ranges), computed_insights (games_count, pts_avg, reb_avg, ast_avg, tov_avg, minutes_avg, fg_pct, three_pct, ft_pct, ast_to_tov_ratio all required)`

// reportInput is the user message: the raw material serialized as indented
// JSON. Field order is fixed so identical inputs hash identically upstream.
type reportInput struct {
	Player      inputPlayer   `json:"player"`
	Games       []inputGame   `json:"games"`
	Context     *inputContext `json:"context,omitempty"`
	CoachNotes  string        `json:"coach_notes,omitempty"`
	ParentNotes string        `json:"parent_notes,omitempty"`
}

type inputPlayer struct {
	Name     string   `json:"name"`
	Grade    string   `json:"grade"`
	Position string   `json:"position"`
	Height   string   `json:"height,omitempty"`
	Team     string   `json:"team,omitempty"`
	Goals    []string `json:"goals,omitempty"`
}

type inputGame struct {
	GameLabel string `json:"game_label"`
	Date      string `json:"date"`
	Opponent  string `json:"opponent"`
	Minutes   int    `json:"minutes"`
	Pts       int    `json:"pts"`
	Reb       int    `json:"reb"`
	Ast       int    `json:"ast"`
	Stl       int    `json:"stl"`
	Blk       int    `json:"blk"`
	Tov       int    `json:"tov"`
	FGM       int    `json:"fgm"`
	FGA       int    `json:"fga"`
	TPM       int    `json:"tpm"`
	TPA       int    `json:"tpa"`
	FTM       int    `json:"ftm"`
	FTA       int    `json:"fta"`
	Notes     string `json:"notes,omitempty"`
}

type inputContext struct {
	CompetitionLevel string `json:"competition_level,omitempty"`
	Role             string `json:"role,omitempty"`
	Injuries         string `json:"injuries,omitempty"`
	MinutesContext   string `json:"minutes_context,omitempty"`
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// buildReportInput assembles the user message for one report: player info,
// games in ascending date order, and whatever optional context exists.
// Absent optional fields are omitted entirely rather than sent empty.
func buildReportInput(player *Player, games []PlayerGame) (string, error) {
	sorted := sortGamesByDate(games)

	input := reportInput{
		Player: inputPlayer{
			Name:     player.Name,
			Grade:    player.Grade,
			Position: player.Position,
			Height:   strOrEmpty(player.Height),
			Team:     strOrEmpty(player.Team),
			Goals:    player.Goals,
		},
		Games:       make([]inputGame, 0, len(sorted)),
		CoachNotes:  strOrEmpty(player.CoachNotes),
		ParentNotes: strOrEmpty(player.ParentNotes),
	}

	for i, game := range sorted {
		label := strOrEmpty(game.GameLabel)
		if label == "" {
			label = fmt.Sprintf("Game %d", i+1)
		}
		input.Games = append(input.Games, inputGame{
			GameLabel: label,
			Date:      game.GameDate.Format("2006-01-02"),
			Opponent:  game.Opponent,
			Minutes:   game.Minutes,
			Pts:       game.Pts,
			Reb:       game.Reb,
			Ast:       game.Ast,
			Stl:       game.Stl,
			Blk:       game.Blk,
			Tov:       game.Tov,
			FGM:       game.FGM,
			FGA:       game.FGA,
			TPM:       game.TPM,
			TPA:       game.TPA,
			FTM:       game.FTM,
			FTA:       game.FTA,
			Notes:     strOrEmpty(game.Notes),
		})
	}

	context := inputContext{
		CompetitionLevel: strOrEmpty(player.CompetitionLevel),
		Role:             strOrEmpty(player.Role),
		Injuries:         strOrEmpty(player.Injuries),
		MinutesContext:   strOrEmpty(player.MinutesContext),
	}
	if context != (inputContext{}) {
		input.Context = &context
	}

	raw, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func sortGamesByDate(games []PlayerGame) []PlayerGame {
	sorted := make([]PlayerGame, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GameDate.Before(sorted[j].GameDate)
	})
	return sorted
}

// computeReportWindow renders the date span of the analyzed games, collapsing
// the shared parts: "Jan 05, 2025", "Jan 05-12, 2025", "Jan 05-Feb 02, 2025",
// "Dec 28, 2024-Jan 04, 2025".
func computeReportWindow(games []PlayerGame) string {
	if len(games) == 0 {
		return "No games"
	}

	sorted := sortGamesByDate(games)
	start := sorted[0].GameDate
	end := sorted[len(sorted)-1].GameDate

	startDay := start.Format("2006-01-02")
	endDay := end.Format("2006-01-02")
	if startDay == endDay {
		return start.Format("Jan 02, 2006")
	}

	if start.Year() == end.Year() {
		if start.Month() == end.Month() {
			return start.Format("Jan 02") + "-" + end.Format("02, 2006")
		}
		return start.Format("Jan 02") + "-" + end.Format("Jan 02, 2006")
	}

	return start.Format("Jan 02, 2006") + "-" + end.Format("Jan 02, 2006")
}

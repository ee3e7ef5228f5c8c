package gamebrief

import (
	"fmt"
	"strings"
)

// Prompt version for game analysis reports. Changing report behavior means
// introducing a new version with new text, never editing this one: every
// stored report records the version that produced it.
const promptVersion = "v1"

const systemPrompt = "You are an expert basketball coach providing detailed game analysis. " +
	"Always respond with valid JSON matching the exact schema provided."

const repairSystemPrompt = "Fix the JSON to match the required schema exactly."

const repairGuide = `- summary: string (2-4 sentences, 50-500 characters)
- key_insights: array of exactly 3 objects, each with title, description, evidence, confidence (high/medium/low)
- action_items: array of exactly 2 objects, each with title, description, metric, priority (high/medium/low)
- practice_focus: string (20-300 characters)
- questions_for_next_game: array of 2-3 objects, each with question and context`

// buildPrompt assembles the user message for one game analysis.
func buildPrompt(game *Game, stats *GameStats, additionalContext string) string {
	var b strings.Builder

	b.WriteString("You are an experienced basketball coach providing a post-game analysis report.\n\n")

	b.WriteString("GAME INFORMATION:\n")
	fmt.Fprintf(&b, "- Opponent: %s\n", game.OpponentName)
	fmt.Fprintf(&b, "- Date: %s\n", game.GameDate.Format("January 2, 2006"))
	location := "Not specified"
	if game.Location != nil && *game.Location != "" {
		location = *game.Location
	}
	fmt.Fprintf(&b, "- Location: %s\n\n", location)

	b.WriteString("GAME STATISTICS:\n")
	b.WriteString(buildStatsSummary(stats))
	b.WriteString("\n")

	if game.Notes != nil && *game.Notes != "" {
		fmt.Fprintf(&b, "\nCOACH'S NOTES: %s\n", *game.Notes)
	}
	if additionalContext != "" {
		fmt.Fprintf(&b, "\nADDITIONAL CONTEXT: %s\n", additionalContext)
	}

	b.WriteString(`
Based on these statistics, provide a structured coaching report. Be specific and use the actual numbers from the stats. Focus on actionable insights that can improve performance.

Guidelines:
- The summary should be 2-4 sentences highlighting the key story of the game
- Each insight must cite specific statistics as evidence
- Set confidence to "high" if you have clear data, "medium" if data is partial, "low" if inferring
- Action items should be specific and measurable
- Practice focus should be the single most important area to work on
- Questions should prompt strategic thinking for the next game

Return ONLY valid JSON with this exact structure:
{
    "summary": "2-4 sentence game overview",
    "key_insights": [
        {"title": "...", "description": "...", "evidence": "...", "confidence": "high|medium|low"},
        {"title": "...", "description": "...", "evidence": "...", "confidence": "high|medium|low"},
        {"title": "...", "description": "...", "evidence": "...", "confidence": "high|medium|low"}
    ],
    "action_items": [
        {"title": "...", "description": "...", "metric": "...", "priority": "high|medium|low"},
        {"title": "...", "description": "...", "metric": "...", "priority": "high|medium|low"}
    ],
    "practice_focus": "One clear theme to work on",
    "questions_for_next_game": [
        {"question": "...", "context": "..."},
        {"question": "...", "context": "..."}
    ]
}`)

	return b.String()
}

// buildStatsSummary renders a box score as the line-per-stat block the prompt
// embeds. Shooting lines are omitted entirely when there were no attempts.
func buildStatsSummary(stats *GameStats) string {
	result := "Tie"
	if stats.PointsFor > stats.PointsAgainst {
		result = "Win"
	} else if stats.PointsFor < stats.PointsAgainst {
		result = "Loss"
	}

	lines := []string{
		fmt.Sprintf("Final Score: %d - %d", stats.PointsFor, stats.PointsAgainst),
		fmt.Sprintf("Result: %s", result),
		fmt.Sprintf("Point Differential: %+d", stats.PointsFor-stats.PointsAgainst),
	}

	if stats.FGAtt > 0 {
		pct := float64(stats.FGMade) / float64(stats.FGAtt) * 100
		lines = append(lines, fmt.Sprintf("Field Goals: %d/%d (%.1f%%)", stats.FGMade, stats.FGAtt, pct))
	}
	if stats.ThreeAtt > 0 {
		pct := float64(stats.ThreeMade) / float64(stats.ThreeAtt) * 100
		lines = append(lines, fmt.Sprintf("Three-Pointers: %d/%d (%.1f%%)", stats.ThreeMade, stats.ThreeAtt, pct))
	}
	if stats.FTAtt > 0 {
		pct := float64(stats.FTMade) / float64(stats.FTAtt) * 100
		lines = append(lines, fmt.Sprintf("Free Throws: %d/%d (%.1f%%)", stats.FTMade, stats.FTAtt, pct))
	}

	lines = append(lines,
		fmt.Sprintf("Rebounds: %d (Off: %d, Def: %d)", stats.ReboundsOff+stats.ReboundsDef, stats.ReboundsOff, stats.ReboundsDef),
		fmt.Sprintf("Assists: %d", stats.Assists),
		fmt.Sprintf("Steals: %d", stats.Steals),
		fmt.Sprintf("Blocks: %d", stats.Blocks),
		fmt.Sprintf("Turnovers: %d", stats.Turnovers),
		fmt.Sprintf("Team Fouls: %d", stats.Fouls),
	)

	return strings.Join(lines, "\n")
}

// detectRiskFlags spots box scores that look like data-entry mistakes. The
// flags are stored with the report so readers can judge its reliability.
func detectRiskFlags(stats *GameStats) []string {
	var flags []string

	if stats.PointsFor > 150 || stats.PointsAgainst > 150 {
		flags = append(flags, "Unusually high score - verify data accuracy")
	}

	if stats.FGAtt > 0 {
		pct := float64(stats.FGMade) / float64(stats.FGAtt) * 100
		if pct > 70 {
			flags = append(flags, "Unusually high FG% - verify data accuracy")
		}
		if pct < 20 {
			flags = append(flags, "Unusually low FG% - verify data accuracy")
		}
	}

	return flags
}

package gamebrief

import (
	"strings"
	"testing"
	"time"
)

func statsFixture() *GameStats {
	return &GameStats{
		PointsFor:     85,
		PointsAgainst: 78,
		FGMade:        32,
		FGAtt:         65,
		ThreeMade:     8,
		ThreeAtt:      22,
		FTMade:        13,
		FTAtt:         18,
		ReboundsOff:   12,
		ReboundsDef:   28,
		Assists:       22,
		Steals:        8,
		Blocks:        5,
		Turnovers:     14,
		Fouls:         18,
	}
}

func TestBuildStatsSummaryWin(t *testing.T) {
	got := buildStatsSummary(statsFixture())

	for _, want := range []string{
		"Final Score: 85 - 78",
		"Result: Win",
		"Point Differential: +7",
		"Field Goals: 32/65 (49.2%)",
		"Three-Pointers: 8/22 (36.4%)",
		"Free Throws: 13/18 (72.2%)",
		"Rebounds: 40 (Off: 12, Def: 28)",
		"Assists: 22",
		"Steals: 8",
		"Blocks: 5",
		"Turnovers: 14",
		"Team Fouls: 18",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestBuildStatsSummaryOmitsShootingWithoutAttempts(t *testing.T) {
	stats := &GameStats{PointsFor: 40, PointsAgainst: 62}
	got := buildStatsSummary(stats)

	if !strings.Contains(got, "Result: Loss") {
		t.Fatalf("expected loss result:\n%s", got)
	}
	if !strings.Contains(got, "Point Differential: -22") {
		t.Fatalf("expected negative differential:\n%s", got)
	}
	for _, line := range []string{"Field Goals:", "Three-Pointers:", "Free Throws:"} {
		if strings.Contains(got, line) {
			t.Fatalf("shooting line %q should be omitted with zero attempts:\n%s", line, got)
		}
	}
}

func TestBuildStatsSummaryTie(t *testing.T) {
	got := buildStatsSummary(&GameStats{PointsFor: 50, PointsAgainst: 50})
	if !strings.Contains(got, "Result: Tie") {
		t.Fatalf("expected tie result:\n%s", got)
	}
	if !strings.Contains(got, "Point Differential: +0") {
		t.Fatalf("expected +0 differential:\n%s", got)
	}
}

func TestBuildPromptIncludesGameContext(t *testing.T) {
	location := "Home Court"
	notes := "Struggled against the press."
	game := &Game{
		OpponentName: "Eagles",
		GameDate:     time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		Location:     &location,
		Notes:        &notes,
	}

	got := buildPrompt(game, statsFixture(), "Two starters were out.")

	for _, want := range []string{
		"- Opponent: Eagles",
		"- Date: March 14, 2025",
		"- Location: Home Court",
		"GAME STATISTICS:",
		"Final Score: 85 - 78",
		"COACH'S NOTES: Struggled against the press.",
		"ADDITIONAL CONTEXT: Two starters were out.",
		"Return ONLY valid JSON",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptOmitsEmptySections(t *testing.T) {
	game := &Game{
		OpponentName: "Eagles",
		GameDate:     time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
	}

	got := buildPrompt(game, statsFixture(), "")

	if !strings.Contains(got, "- Location: Not specified") {
		t.Fatalf("expected location placeholder")
	}
	if strings.Contains(got, "COACH'S NOTES") {
		t.Fatalf("notes section should be omitted when the game has none")
	}
	if strings.Contains(got, "ADDITIONAL CONTEXT") {
		t.Fatalf("context section should be omitted when empty")
	}
}

func TestDetectRiskFlags(t *testing.T) {
	tests := []struct {
		name  string
		stats *GameStats
		want  []string
	}{
		{
			name:  "clean box score",
			stats: statsFixture(),
			want:  nil,
		},
		{
			name:  "blowout score",
			stats: &GameStats{PointsFor: 160, PointsAgainst: 78},
			want:  []string{"Unusually high score - verify data accuracy"},
		},
		{
			name:  "implausibly hot shooting",
			stats: &GameStats{PointsFor: 85, PointsAgainst: 78, FGMade: 15, FGAtt: 16},
			want:  []string{"Unusually high FG% - verify data accuracy"},
		},
		{
			name:  "implausibly cold shooting",
			stats: &GameStats{PointsFor: 30, PointsAgainst: 78, FGMade: 3, FGAtt: 20},
			want:  []string{"Unusually low FG% - verify data accuracy"},
		},
		{
			name:  "both score and shooting suspicious",
			stats: &GameStats{PointsFor: 85, PointsAgainst: 155, FGMade: 15, FGAtt: 16},
			want: []string{
				"Unusually high score - verify data accuracy",
				"Unusually high FG% - verify data accuracy",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectRiskFlags(tt.stats)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d flags, got %v", len(tt.want), got)
			}
			for i, flag := range tt.want {
				if got[i] != flag {
					t.Fatalf("flag %d: expected %q, got %q", i, flag, got[i])
				}
			}
		})
	}
}

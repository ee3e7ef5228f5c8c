package passport

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func playerFixture() *Player {
	return &Player{
		Name:     "Jordan Lee",
		Grade:    "10th",
		Position: "PG",
	}
}

func gameFixture(date time.Time, pts int) PlayerGame {
	return PlayerGame{
		GameDate: date,
		Opponent: "Eagles",
		Minutes:  28,
		Pts:      pts,
		Reb:      5,
		Ast:      6,
		FGM:      6,
		FGA:      13,
	}
}

func TestComputeReportWindow(t *testing.T) {
	jan05 := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	jan12 := time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
	feb02 := time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)
	dec28 := time.Date(2024, time.December, 28, 0, 0, 0, 0, time.UTC)
	jan04 := time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		games []PlayerGame
		want  string
	}{
		{
			name:  "no games",
			games: nil,
			want:  "No games",
		},
		{
			name:  "single day",
			games: []PlayerGame{gameFixture(jan05, 14)},
			want:  "Jan 05, 2025",
		},
		{
			name:  "same month",
			games: []PlayerGame{gameFixture(jan05, 14), gameFixture(jan12, 18)},
			want:  "Jan 05-12, 2025",
		},
		{
			name:  "same year across months",
			games: []PlayerGame{gameFixture(jan05, 14), gameFixture(feb02, 18)},
			want:  "Jan 05-Feb 02, 2025",
		},
		{
			name:  "across years",
			games: []PlayerGame{gameFixture(dec28, 14), gameFixture(jan04, 18)},
			want:  "Dec 28, 2024-Jan 04, 2025",
		},
		{
			name:  "unsorted input",
			games: []PlayerGame{gameFixture(jan12, 18), gameFixture(jan05, 14)},
			want:  "Jan 05-12, 2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeReportWindow(tt.games); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildReportInputOrdersGamesAscending(t *testing.T) {
	later := gameFixture(time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC), 18)
	earlier := gameFixture(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 14)

	got, err := buildReportInput(playerFixture(), []PlayerGame{later, earlier})
	if err != nil {
		t.Fatalf("buildReportInput: %v", err)
	}

	first := strings.Index(got, `"2025-01-05"`)
	second := strings.Index(got, `"2025-01-12"`)
	if first == -1 || second == -1 {
		t.Fatalf("expected both game dates in input:\n%s", got)
	}
	if first > second {
		t.Fatalf("games should be serialized in ascending date order:\n%s", got)
	}
}

func TestBuildReportInputDefaultsGameLabels(t *testing.T) {
	labeled := gameFixture(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 14)
	label := "Season Opener"
	labeled.GameLabel = &label
	unlabeled := gameFixture(time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC), 18)

	got, err := buildReportInput(playerFixture(), []PlayerGame{unlabeled, labeled})
	if err != nil {
		t.Fatalf("buildReportInput: %v", err)
	}

	if !strings.Contains(got, `"game_label": "Season Opener"`) {
		t.Fatalf("explicit label should be kept:\n%s", got)
	}
	if !strings.Contains(got, `"game_label": "Game 2"`) {
		t.Fatalf("missing label should default to position after sorting:\n%s", got)
	}
}

func TestBuildReportInputOmitsAbsentOptionalFields(t *testing.T) {
	got, err := buildReportInput(playerFixture(), []PlayerGame{
		gameFixture(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 14),
	})
	if err != nil {
		t.Fatalf("buildReportInput: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("input should be valid JSON: %v\n%s", err, got)
	}

	for _, key := range []string{"context", "coach_notes", "parent_notes"} {
		if _, ok := decoded[key]; ok {
			t.Fatalf("%s should be omitted when absent:\n%s", key, got)
		}
	}

	var player map[string]json.RawMessage
	if err := json.Unmarshal(decoded["player"], &player); err != nil {
		t.Fatalf("player block: %v", err)
	}
	for _, key := range []string{"height", "team", "goals"} {
		if _, ok := player[key]; ok {
			t.Fatalf("player.%s should be omitted when unset:\n%s", key, got)
		}
	}
}

func TestBuildReportInputIncludesContextWhenAnyFieldPresent(t *testing.T) {
	player := playerFixture()
	role := "Starter"
	player.Role = &role
	coachNotes := "Needs to attack the rim more."
	player.CoachNotes = &coachNotes

	got, err := buildReportInput(player, []PlayerGame{
		gameFixture(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 14),
	})
	if err != nil {
		t.Fatalf("buildReportInput: %v", err)
	}

	if !strings.Contains(got, `"role": "Starter"`) {
		t.Fatalf("context role should be present:\n%s", got)
	}
	if strings.Contains(got, `"competition_level"`) {
		t.Fatalf("unset context fields should be omitted inside the block:\n%s", got)
	}
	if !strings.Contains(got, `"coach_notes": "Needs to attack the rim more."`) {
		t.Fatalf("coach notes should be present:\n%s", got)
	}
	if strings.Contains(got, `"parent_notes"`) {
		t.Fatalf("parent notes should stay omitted:\n%s", got)
	}
}

func TestBuildReportInputUsesTwoSpaceIndent(t *testing.T) {
	got, err := buildReportInput(playerFixture(), []PlayerGame{
		gameFixture(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 14),
	})
	if err != nil {
		t.Fatalf("buildReportInput: %v", err)
	}

	if !strings.HasPrefix(got, "{\n  \"player\"") {
		t.Fatalf("input should start with the player block at two-space indent:\n%s", got)
	}
}

package gamebrief

import (
	"strings"
	"testing"
)

func TestParseCSVStatsTemplateRoundTrip(t *testing.T) {
	rows, err := parseCSVStats(csvTemplate())
	if err != nil {
		t.Fatalf("template should parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row["points_for"] != 85 || row["points_against"] != 78 {
		t.Fatalf("unexpected score: %v", row)
	}
	if row["fouls"] != 18 {
		t.Fatalf("expected 18 fouls, got %d", row["fouls"])
	}
	if _, ok := row["pace_estimate"]; ok {
		t.Fatalf("empty pace cell should stay absent")
	}
}

func TestParseCSVStatsHeaderAliases(t *testing.T) {
	content := "Points Scored,Points Allowed,FGM,FGA,OREB,Personal Fouls\n62,58,24,50,9,13\n"

	rows, err := parseCSVStats(content)
	if err != nil {
		t.Fatalf("aliased headers should parse: %v", err)
	}

	row := rows[0]
	checks := map[string]int{
		"points_for":     62,
		"points_against": 58,
		"fg_made":        24,
		"fg_att":         50,
		"rebounds_off":   9,
		"fouls":          13,
	}
	for name, want := range checks {
		if row[name] != want {
			t.Fatalf("%s: expected %d, got %d (row %v)", name, want, row[name], row)
		}
	}
}

func TestParseCSVStatsMissingRequiredColumns(t *testing.T) {
	_, err := parseCSVStats("fg_made,fg_att\n10,20\n")
	if err == nil {
		t.Fatalf("expected error for missing score columns")
	}
	if err.Error() != "Missing required columns: points_against, points_for" {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = parseCSVStats("points_against,fg_made\n58,24\n")
	if err == nil || err.Error() != "Missing required columns: points_for" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseCSVStatsEmptyFile(t *testing.T) {
	_, err := parseCSVStats("")
	if err == nil || err.Error() != "CSV file is empty or has no headers" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseCSVStatsNoDataRows(t *testing.T) {
	_, err := parseCSVStats("points_for,points_against\n")
	if err == nil || err.Error() != "CSV file has no data rows" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseCSVStatsInvalidValue(t *testing.T) {
	_, err := parseCSVStats("points_for,points_against,assists\n70,64,many\n")
	if err == nil {
		t.Fatalf("expected error for non-numeric cell")
	}
	if err.Error() != `Error parsing row 2: invalid value "many" for assists` {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseCSVStatsEmptyCellsDefaultToZero(t *testing.T) {
	rows, err := parseCSVStats("points_for,points_against,assists,pace_estimate\n70,64,,\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	row := rows[0]
	if got, ok := row["assists"]; !ok || got != 0 {
		t.Fatalf("empty counting cell should default to 0, got %v", row)
	}
	if _, ok := row["pace_estimate"]; ok {
		t.Fatalf("empty pace cell should stay absent")
	}
}

func TestParseCSVStatsBadPaceSkipped(t *testing.T) {
	rows, err := parseCSVStats("points_for,points_against,pace_estimate\n70,64,fast\n")
	if err != nil {
		t.Fatalf("bad pace value should not fail the import: %v", err)
	}
	if _, ok := rows[0]["pace_estimate"]; ok {
		t.Fatalf("unparseable pace should stay absent")
	}
	if rows[0]["points_for"] != 70 {
		t.Fatalf("expected points_for 70, got %d", rows[0]["points_for"])
	}
}

func TestParseCSVStatsIgnoresUnknownColumns(t *testing.T) {
	rows, err := parseCSVStats("points_for,points_against,mascot\n70,64,hawk\n")
	if err != nil {
		t.Fatalf("unknown columns should be ignored: %v", err)
	}
	if len(rows[0]) != 2 {
		t.Fatalf("expected only score columns, got %v", rows[0])
	}
}

func TestParseCSVStatsMultipleRows(t *testing.T) {
	rows, err := parseCSVStats("points_for,points_against\n70,64\n55,61\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1]["points_for"] != 55 {
		t.Fatalf("row order not preserved: %v", rows)
	}
}

func TestStatsFromCSVRowDefaults(t *testing.T) {
	stats := statsFromCSVRow(map[string]int{"points_for": 70, "points_against": 64})
	if stats.PointsFor != 70 || stats.PointsAgainst != 64 {
		t.Fatalf("unexpected score: %+v", stats)
	}
	if stats.FGMade != 0 || stats.Turnovers != 0 {
		t.Fatalf("omitted columns should default to zero: %+v", stats)
	}
	if stats.PaceEstimate != nil {
		t.Fatalf("pace should be nil when absent")
	}

	withPace := statsFromCSVRow(map[string]int{"points_for": 70, "points_against": 64, "pace_estimate": 72})
	if withPace.PaceEstimate == nil || *withPace.PaceEstimate != 72 {
		t.Fatalf("pace pointer not set: %+v", withPace)
	}
}

func TestCSVTemplateShape(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(csvTemplate()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus example row, got %d lines", len(lines))
	}

	wantHeader := "points_for,points_against,fg_made,fg_att,three_made,three_att," +
		"ft_made,ft_att,rebounds_off,rebounds_def,assists,steals,blocks,turnovers,fouls,pace_estimate"
	if lines[0] != wantHeader {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "85,78,") {
		t.Fatalf("unexpected example row: %s", lines[1])
	}
}

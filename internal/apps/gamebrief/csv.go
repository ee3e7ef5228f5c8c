package gamebrief

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// statColumns are the canonical CSV column names for a box score import.
// pace_estimate is the only optional (nullable) column.
var statColumns = map[string]bool{
	"points_for":     true,
	"points_against": true,
	"fg_made":        true,
	"fg_att":         true,
	"three_made":     true,
	"three_att":      true,
	"ft_made":        true,
	"ft_att":         true,
	"rebounds_off":   true,
	"rebounds_def":   true,
	"assists":        true,
	"steals":         true,
	"blocks":         true,
	"turnovers":      true,
	"fouls":          true,
	"pace_estimate":  true,
}

// columnAliases maps common spreadsheet header spellings to canonical names.
// Keys are normalized (lowercased, underscores as spaces).
var columnAliases = map[string]string{
	"points scored":         "points_for",
	"our score":             "points_for",
	"team score":            "points_for",
	"points allowed":        "points_against",
	"opponent score":        "points_against",
	"opp score":             "points_against",
	"field goals made":      "fg_made",
	"fgm":                   "fg_made",
	"field goals attempted": "fg_att",
	"fga":                   "fg_att",
	"3pt made":              "three_made",
	"3pm":                   "three_made",
	"threes made":           "three_made",
	"3pt attempted":         "three_att",
	"3pa":                   "three_att",
	"threes attempted":      "three_att",
	"free throws made":      "ft_made",
	"ftm":                   "ft_made",
	"free throws attempted": "ft_att",
	"fta":                   "ft_att",
	"offensive rebounds":    "rebounds_off",
	"off reb":               "rebounds_off",
	"oreb":                  "rebounds_off",
	"defensive rebounds":    "rebounds_def",
	"def reb":               "rebounds_def",
	"dreb":                  "rebounds_def",
	"ast":                   "assists",
	"stl":                   "steals",
	"blk":                   "blocks",
	"to":                    "turnovers",
	"tov":                   "turnovers",
	"pf":                    "fouls",
	"personal fouls":        "fouls",
	"pace":                  "pace_estimate",
}

func normalizeColumnName(col string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(col)), "_", " ")
	if canonical, ok := columnAliases[normalized]; ok {
		return canonical
	}
	return strings.ReplaceAll(normalized, " ", "_")
}

// parseCSVStats parses box scores from CSV content. Each returned map holds
// canonical column names; empty cells become 0 for counting stats and stay
// absent for pace_estimate.
func parseCSVStats(content string) ([]map[string]int, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV parse error: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("CSV file is empty or has no headers")
	}

	headers := records[0]
	// Map header position to canonical column name.
	columnMapping := map[int]string{}
	for i, col := range headers {
		normalized := normalizeColumnName(col)
		if statColumns[normalized] {
			columnMapping[i] = normalized
		}
	}

	mapped := map[string]bool{}
	for _, name := range columnMapping {
		mapped[name] = true
	}
	var missing []string
	for _, required := range []string{"points_against", "points_for"} {
		if !mapped[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Missing required columns: %s", strings.Join(missing, ", "))
	}

	var results []map[string]int
	for rowIdx, row := range records[1:] {
		rowNum := rowIdx + 2 // header is row 1
		stats := map[string]int{}
		for i, name := range columnMapping {
			if i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				if name != "pace_estimate" {
					stats[name] = 0
				}
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				if name == "pace_estimate" {
					continue
				}
				return nil, fmt.Errorf("Error parsing row %d: invalid value %q for %s", rowNum, value, name)
			}
			stats[name] = n
		}
		results = append(results, stats)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("CSV file has no data rows")
	}

	return results, nil
}

// statsFromCSVRow builds a GameStats from one parsed CSV row, applying zero
// defaults for columns the file omitted.
func statsFromCSVRow(row map[string]int) *GameStats {
	stats := &GameStats{
		PointsFor:     row["points_for"],
		PointsAgainst: row["points_against"],
		FGMade:        row["fg_made"],
		FGAtt:         row["fg_att"],
		ThreeMade:     row["three_made"],
		ThreeAtt:      row["three_att"],
		FTMade:        row["ft_made"],
		FTAtt:         row["ft_att"],
		ReboundsOff:   row["rebounds_off"],
		ReboundsDef:   row["rebounds_def"],
		Assists:       row["assists"],
		Steals:        row["steals"],
		Blocks:        row["blocks"],
		Turnovers:     row["turnovers"],
		Fouls:         row["fouls"],
	}
	if pace, ok := row["pace_estimate"]; ok {
		stats.PaceEstimate = &pace
	}
	return stats
}

// csvTemplate returns the downloadable import template: canonical headers
// plus one example row.
func csvTemplate() string {
	headers := []string{
		"points_for", "points_against",
		"fg_made", "fg_att",
		"three_made", "three_att",
		"ft_made", "ft_att",
		"rebounds_off", "rebounds_def",
		"assists", "steals", "blocks", "turnovers", "fouls",
		"pace_estimate",
	}
	example := []string{"85", "78", "32", "65", "8", "22", "13", "18", "12", "28", "22", "8", "5", "14", "18", ""}

	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(headers)
	w.Write(example)
	w.Flush()
	return b.String()
}

package gamebrief

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benchwise/coaching-backend/internal/aireport"
	"github.com/benchwise/coaching-backend/internal/ratelimit"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAppID = "gamebrief"

// serviceSchema mirrors the migrated tables without the Postgres column
// defaults; ids come from the BeforeCreate hooks.
var serviceSchema = []string{
	`CREATE TABLE teams (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		owner_user_id text NOT NULL,
		name text NOT NULL,
		sport text NOT NULL DEFAULT 'basketball',
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE team_members (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		team_id text NOT NULL,
		user_id text NOT NULL,
		role text NOT NULL DEFAULT 'member',
		created_at datetime,
		UNIQUE (team_id, user_id)
	)`,
	`CREATE TABLE games (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		team_id text NOT NULL,
		opponent_name text NOT NULL,
		game_date date NOT NULL,
		location text,
		notes text,
		created_at datetime
	)`,
	`CREATE TABLE game_stats (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		game_id text NOT NULL UNIQUE,
		points_for integer NOT NULL DEFAULT 0,
		points_against integer NOT NULL DEFAULT 0,
		fg_made integer NOT NULL DEFAULT 0,
		fg_att integer NOT NULL DEFAULT 0,
		three_made integer NOT NULL DEFAULT 0,
		three_att integer NOT NULL DEFAULT 0,
		ft_made integer NOT NULL DEFAULT 0,
		ft_att integer NOT NULL DEFAULT 0,
		rebounds_off integer NOT NULL DEFAULT 0,
		rebounds_def integer NOT NULL DEFAULT 0,
		assists integer NOT NULL DEFAULT 0,
		steals integer NOT NULL DEFAULT 0,
		blocks integer NOT NULL DEFAULT 0,
		turnovers integer NOT NULL DEFAULT 0,
		fouls integer NOT NULL DEFAULT 0,
		pace_estimate integer,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE game_reports (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		game_id text NOT NULL,
		status text NOT NULL DEFAULT 'pending',
		report_json text,
		model_used text,
		prompt_version text,
		error_text text,
		created_at datetime
	)`,
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gamebrief.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	for _, ddl := range serviceSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

// seedGame creates a team owned by userID and one game against the Eagles.
func seedGame(t *testing.T, db *gorm.DB, userID uuid.UUID) *Game {
	t.Helper()

	team, err := NewTeamService(db).Create(testAppID, userID, CreateTeamRequest{
		Name:  "Wildcats",
		Sport: "basketball",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	game, err := NewGameService(db).Create(testAppID, userID, team.ID, CreateGameRequest{
		OpponentName: "Eagles",
		GameDate:     "2025-01-10",
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func seedStats(t *testing.T, db *gorm.DB, userID uuid.UUID, gameID uuid.UUID) {
	t.Helper()

	pointsFor, pointsAgainst := 62, 55
	_, err := NewGameService(db).AddStats(testAppID, userID, gameID, CreateStatsRequest{
		PointsFor:     &pointsFor,
		PointsAgainst: &pointsAgainst,
		FGMade:        24,
		FGAtt:         51,
		ThreeMade:     5,
		ThreeAtt:      16,
		FTMade:        9,
		FTAtt:         12,
		ReboundsOff:   8,
		ReboundsDef:   21,
		Assists:       14,
		Steals:        7,
		Blocks:        3,
		Turnovers:     11,
		Fouls:         15,
	})
	if err != nil {
		t.Fatalf("add stats: %v", err)
	}
}

type stubChatProvider struct {
	content string
	err     error
	calls   int
}

func (s *stubChatProvider) Configured() bool { return true }

func (s *stubChatProvider) Chat(_ context.Context, _ []aireport.Message, _ float64, _ int) (*aireport.ChatResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &aireport.ChatResult{
		Content:  s.content,
		Model:    "gpt-4o-2024-08-06",
		Attempts: 1,
	}, nil
}

func newReportHarness(db *gorm.DB, provider aireport.Provider) *ReportService {
	pipeline := aireport.NewPipeline(provider, aireport.NewCache(time.Hour))
	limiter := ratelimit.NewSlidingWindow(10, time.Hour)
	return NewReportService(db, pipeline, limiter)
}

func TestGenerateReportPersistsCompletedReport(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	game := seedGame(t, db, userID)
	seedStats(t, db, userID, game.ID)

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	resp, err := svc.Generate(context.Background(), testAppID, userID, game.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.WasRegenerated {
		t.Error("first generation should not be flagged as regenerated")
	}
	if resp.Report.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", resp.Report.Status, StatusCompleted)
	}
	if resp.Report.ModelUsed == nil || *resp.Report.ModelUsed != "gpt-4o-2024-08-06" {
		t.Errorf("model used = %v, want gpt-4o-2024-08-06", resp.Report.ModelUsed)
	}

	var stored GameReport
	if err := db.Where("game_id = ?", game.ID).First(&stored).Error; err != nil {
		t.Fatalf("load report: %v", err)
	}
	if stored.Status != StatusCompleted {
		t.Errorf("stored status = %q, want %q", stored.Status, StatusCompleted)
	}
	if stored.PromptVersion == nil || *stored.PromptVersion != promptVersion {
		t.Errorf("stored prompt version = %v, want %q", stored.PromptVersion, promptVersion)
	}
	if !strings.Contains(string(stored.ReportJSON), `"model_used"`) {
		t.Error("stored body should carry generation metadata")
	}
}

func TestGenerateReportReturnsExistingWithoutForce(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	game := seedGame(t, db, userID)
	seedStats(t, db, userID, game.ID)

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	first, err := svc.Generate(context.Background(), testAppID, userID, game.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	second, err := svc.Generate(context.Background(), testAppID, userID, game.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if second.WasRegenerated {
		t.Error("returning an existing report should not be flagged as regenerated")
	}
	if second.Report.ID != first.Report.ID {
		t.Errorf("second call returned report %s, want existing %s", second.Report.ID, first.Report.ID)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}

	var count int64
	db.Model(&GameReport{}).Where("game_id = ?", game.ID).Count(&count)
	if count != 1 {
		t.Errorf("report rows = %d, want 1", count)
	}
}

func TestGenerateReportForceRegenerateReusesRow(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	game := seedGame(t, db, userID)
	seedStats(t, db, userID, game.ID)

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	first, err := svc.Generate(context.Background(), testAppID, userID, game.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	second, err := svc.Generate(context.Background(), testAppID, userID, game.ID, GenerateReportRequest{ForceRegenerate: true})
	if err != nil {
		t.Fatalf("forced Generate: %v", err)
	}
	if !second.WasRegenerated {
		t.Error("forced generation should be flagged as regenerated")
	}
	if second.Report.ID != first.Report.ID {
		t.Errorf("forced call created report %s, want reused %s", second.Report.ID, first.Report.ID)
	}
	if second.Report.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", second.Report.Status, StatusCompleted)
	}

	// Same game and stats means the regeneration is served from the content
	// cache without another provider call.
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}

	var count int64
	db.Model(&GameReport{}).Where("game_id = ?", game.ID).Count(&count)
	if count != 1 {
		t.Errorf("report rows = %d, want 1", count)
	}
}

func TestGenerateReportRequiresStats(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	game := seedGame(t, db, userID)

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	_, err := svc.Generate(context.Background(), testAppID, userID, game.ID, GenerateReportRequest{})
	if !errors.Is(err, ErrStatsRequired) {
		t.Fatalf("err = %v, want ErrStatsRequired", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.calls)
	}

	var count int64
	db.Model(&GameReport{}).Where("game_id = ?", game.ID).Count(&count)
	if count != 0 {
		t.Errorf("report rows = %d, want 0", count)
	}
}

func TestGenerateReportRequiresCoachRole(t *testing.T) {
	db := newServiceDB(t)
	ownerID := uuid.New()
	game := seedGame(t, db, ownerID)
	seedStats(t, db, ownerID, game.ID)

	memberID := uuid.New()
	membership := &TeamMember{
		AppID:  testAppID,
		TeamID: game.TeamID,
		UserID: memberID,
		Role:   RoleMember,
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	_, err := svc.Generate(context.Background(), testAppID, memberID, game.ID, GenerateReportRequest{})
	var roleErr *RoleError
	if !errors.As(err, &roleErr) {
		t.Fatalf("err = %v, want RoleError", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.calls)
	}
}

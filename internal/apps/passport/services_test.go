package passport

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

const testAppID = "passport"

// serviceSchema mirrors the migrated tables without the Postgres column
// defaults; ids come from the BeforeCreate hooks.
var serviceSchema = []string{
	`CREATE TABLE players (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		user_id text NOT NULL,
		name text NOT NULL,
		grade text NOT NULL,
		position text NOT NULL,
		height text,
		team text,
		goals text,
		competition_level text,
		role text,
		injuries text,
		minutes_context text,
		coach_notes text,
		parent_notes text,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE player_games (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		player_id text NOT NULL,
		game_date date NOT NULL,
		opponent text NOT NULL,
		game_label text,
		minutes integer NOT NULL DEFAULT 0,
		pts integer NOT NULL DEFAULT 0,
		reb integer NOT NULL DEFAULT 0,
		ast integer NOT NULL DEFAULT 0,
		stl integer NOT NULL DEFAULT 0,
		blk integer NOT NULL DEFAULT 0,
		tov integer NOT NULL DEFAULT 0,
		fgm integer NOT NULL DEFAULT 0,
		fga integer NOT NULL DEFAULT 0,
		tpm integer NOT NULL DEFAULT 0,
		tpa integer NOT NULL DEFAULT 0,
		ftm integer NOT NULL DEFAULT 0,
		fta integer NOT NULL DEFAULT 0,
		notes text,
		created_at datetime
	)`,
	`CREATE TABLE player_reports (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		player_id text NOT NULL,
		status text NOT NULL DEFAULT 'pending',
		report_window text,
		report_json text,
		model_used text,
		prompt_version text,
		error_text text,
		share_token text UNIQUE,
		is_public boolean NOT NULL DEFAULT false,
		created_at datetime
	)`,
	`CREATE TABLE player_report_feedbacks (
		id text PRIMARY KEY,
		app_id text NOT NULL,
		player_report_id text NOT NULL,
		rating integer NOT NULL,
		accurate boolean,
		missing_text text,
		created_at datetime
	)`,
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "passport.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, ddl := range serviceSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedPlayerWithGames(t *testing.T, db *gorm.DB, userID uuid.UUID, dates ...string) *Player {
	t.Helper()

	players := NewPlayerService(db)
	player, err := players.Create(testAppID, userID, CreatePlayerRequest{
		Name:     "Jordan Lee",
		Grade:    "10th",
		Position: "PG",
		Goals:    []string{"Make varsity"},
	})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	games := NewGameService(db)
	for i, date := range dates {
		_, err := games.Create(testAppID, userID, player.ID, CreateGameRequest{
			GameDate: date,
			Opponent: "Eagles",
			Minutes:  28,
			Pts:      14 + i,
			Reb:      5,
			Ast:      6,
			FGM:      6,
			FGA:      13,
		})
		if err != nil {
			t.Fatalf("create game %s: %v", date, err)
		}
	}
	return player
}

// stubChatProvider returns one fixed response and counts provider calls.
type stubChatProvider struct {
	content string
	err     error
	calls   int
}

func (s *stubChatProvider) Configured() bool { return true }

func (s *stubChatProvider) Chat(context.Context, []aireport.Message, float64, int) (*aireport.ChatResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &aireport.ChatResult{Content: s.content, Model: "gpt-4o-2024-08-06", Attempts: 1}, nil
}

func newReportHarness(db *gorm.DB, provider aireport.Provider) *ReportService {
	pipe := aireport.NewPipeline(provider, aireport.NewCache(time.Hour))
	return NewReportService(db, pipe, ratelimit.NewSlidingWindow(10, time.Hour))
}

func TestGenerateReportPersistsCompletedReport(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	player := seedPlayerWithGames(t, db, userID, "2025-01-05", "2025-01-08", "2025-01-12")

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	report, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", report.Status, StatusCompleted)
	}
	if report.PromptVersion == nil || *report.PromptVersion != promptVersion {
		t.Errorf("prompt version = %v, want %q", report.PromptVersion, promptVersion)
	}
	if report.ModelUsed == nil || *report.ModelUsed != "gpt-4o-2024-08-06" {
		t.Errorf("model used = %v, want gpt-4o-2024-08-06", report.ModelUsed)
	}
	if report.ShareToken == nil || *report.ShareToken == "" {
		t.Error("completed report should carry a share token")
	}
	if report.ReportWindow == nil || *report.ReportWindow != "Jan 05-12, 2025" {
		t.Errorf("report window = %v, want Jan 05-12, 2025", report.ReportWindow)
	}
	if len(report.ReportJSON) == 0 {
		t.Error("completed report should store the validated content")
	}

	var stored PlayerReport
	if err := db.First(&stored, "id = ?", report.ID).Error; err != nil {
		t.Fatalf("load stored report: %v", err)
	}
	if stored.Status != StatusCompleted {
		t.Errorf("stored status = %q, want %q", stored.Status, StatusCompleted)
	}
	if stored.ShareToken == nil || *stored.ShareToken != *report.ShareToken {
		t.Error("stored share token does not match the returned report")
	}
}

func TestGenerateReportRequiresMinimumGames(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	player := seedPlayerWithGames(t, db, userID, "2025-01-05", "2025-01-08")

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	_, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	if !errors.Is(err, ErrNotEnoughGames) {
		t.Fatalf("err = %v, want ErrNotEnoughGames", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.calls)
	}

	var count int64
	if err := db.Model(&PlayerReport{}).Count(&count).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if count != 0 {
		t.Errorf("reports persisted = %d, want 0", count)
	}
}

func TestGenerateReportRejectsForeignPlayer(t *testing.T) {
	db := newServiceDB(t)
	owner := uuid.New()
	player := seedPlayerWithGames(t, db, owner, "2025-01-05", "2025-01-08", "2025-01-12")

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	_, err := svc.Generate(context.Background(), testAppID, uuid.New(), player.ID, GenerateReportRequest{})
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.calls)
	}
}

func TestGenerateReportFailureKeepsFailedRow(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	player := seedPlayerWithGames(t, db, userID, "2025-01-05", "2025-01-08", "2025-01-12")

	provider := &stubChatProvider{err: errors.New("provider unavailable")}
	svc := newReportHarness(db, provider)

	_, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %v, want GenerationError", err)
	}

	var stored PlayerReport
	if err := db.First(&stored, "player_id = ?", player.ID).Error; err != nil {
		t.Fatalf("load stored report: %v", err)
	}
	if stored.Status != StatusFailed {
		t.Errorf("stored status = %q, want %q", stored.Status, StatusFailed)
	}
	if stored.ErrorText == nil || !strings.Contains(*stored.ErrorText, "provider unavailable") {
		t.Errorf("error text = %v, want the provider failure", stored.ErrorText)
	}
	if stored.ShareToken != nil {
		t.Error("failed report should not carry a share token")
	}
}

func TestGenerateReportCacheHitMintsFreshToken(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	player := seedPlayerWithGames(t, db, userID, "2025-01-05", "2025-01-08", "2025-01-12")

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	first, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second run should hit the cache)", provider.calls)
	}
	if second.ID == first.ID {
		t.Error("each generation should persist its own report row")
	}
	if first.ShareToken == nil || second.ShareToken == nil {
		t.Fatal("both reports should carry share tokens")
	}
	if *second.ShareToken == *first.ShareToken {
		t.Errorf("cache hit reused share token %q", *first.ShareToken)
	}
	if second.ModelUsed != nil {
		t.Errorf("cache hit should leave the model unset, got %q", *second.ModelUsed)
	}

	var count int64
	if err := db.Model(&PlayerReport{}).Where("player_id = ?", player.ID).Count(&count).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if count != 2 {
		t.Errorf("reports persisted = %d, want 2", count)
	}
}

func TestSharedByTokenRequiresPublicReport(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	player := seedPlayerWithGames(t, db, userID, "2025-01-05", "2025-01-08", "2025-01-12")

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	report, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := svc.SharedByToken(*report.ShareToken); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("private report resolved through its token: %v", err)
	}

	if _, err := svc.Share(testAppID, userID, player.ID, report.ID, true); err != nil {
		t.Fatalf("Share: %v", err)
	}

	view, err := svc.SharedByToken(*report.ShareToken)
	if err != nil {
		t.Fatalf("SharedByToken: %v", err)
	}
	if view.Status != StatusCompleted {
		t.Errorf("shared status = %q, want %q", view.Status, StatusCompleted)
	}
	if view.Player.Name != "Jordan Lee" {
		t.Errorf("shared player name = %q, want Jordan Lee", view.Player.Name)
	}

	if _, err := svc.Share(testAppID, userID, player.ID, report.ID, false); err != nil {
		t.Fatalf("unshare: %v", err)
	}
	if _, err := svc.SharedByToken(*report.ShareToken); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("revoked report still resolves: %v", err)
	}
}

func TestRevokeShareDisablesPublicView(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	player := seedPlayerWithGames(t, db, userID, "2025-01-05", "2025-01-08", "2025-01-12")

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	report, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Share(testAppID, userID, player.ID, report.ID, true); err != nil {
		t.Fatalf("Share: %v", err)
	}

	if err := svc.RevokeShare(*report.ShareToken); err != nil {
		t.Fatalf("RevokeShare: %v", err)
	}
	if _, err := svc.SharedByToken(*report.ShareToken); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("revoked link still resolves: %v", err)
	}

	// The owner's view keeps the report, only the public flag drops.
	stored, err := svc.GetByID(testAppID, userID, player.ID, report.ID)
	if err != nil {
		t.Fatalf("GetByID after revoke: %v", err)
	}
	if stored.IsPublic {
		t.Error("report should no longer be public")
	}

	if err := svc.RevokeShare("no-such-token"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("unknown token err = %v, want ErrReportNotFound", err)
	}
}

func TestSubmitFeedbackOncePerReport(t *testing.T) {
	db := newServiceDB(t)
	userID := uuid.New()
	player := seedPlayerWithGames(t, db, userID, "2025-01-05", "2025-01-08", "2025-01-12")

	provider := &stubChatProvider{content: string(marshalBody(t, validReportBody()))}
	svc := newReportHarness(db, provider)

	report, err := svc.Generate(context.Background(), testAppID, userID, player.ID, GenerateReportRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := svc.SubmitFeedback(testAppID, userID, report.ID, SubmitFeedbackRequest{Rating: 4}); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	_, err = svc.SubmitFeedback(testAppID, userID, report.ID, SubmitFeedbackRequest{Rating: 5})
	if !errors.Is(err, ErrFeedbackExists) {
		t.Fatalf("err = %v, want ErrFeedbackExists", err)
	}
}

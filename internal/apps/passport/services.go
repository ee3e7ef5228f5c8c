package passport

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benchwise/coaching-backend/internal/aireport"
	"github.com/benchwise/coaching-backend/internal/ratelimit"
	"github.com/benchwise/coaching-backend/internal/tenant"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrReportNotFound = errors.New("report not found")
	ErrNotEnoughGames = errors.New("not enough games to generate a report")
	ErrFeedbackExists = errors.New("feedback already submitted for this report")
	ErrRateLimited    = errors.New("report generation rate limit reached")
)

// ValidationError marks client input problems so handlers return 400 with the
// message instead of a generic 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidInput(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// GenerationError wraps a pipeline failure that has already been recorded on
// the report row.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return e.Err.Error() }

func (e *GenerationError) Unwrap() error { return e.Err }

// =============================================================================
// Access control
// =============================================================================

// playerForUser returns the player only when it belongs to the caller.
// Someone else's player is indistinguishable from a missing one.
func playerForUser(db *gorm.DB, appID string, userID, playerID uuid.UUID) (*Player, error) {
	var player Player
	err := db.Scopes(tenant.ForTenant(appID)).
		Where("id = ? AND user_id = ?", playerID, userID).
		First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func gameForPlayer(db *gorm.DB, appID string, playerID, gameID uuid.UUID) (*PlayerGame, error) {
	var game PlayerGame
	err := db.Scopes(tenant.ForTenant(appID)).
		Where("id = ? AND player_id = ?", gameID, playerID).
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// =============================================================================
// PlayerService
// =============================================================================

type PlayerService struct {
	db *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{db: db}
}

func validatePlayer(player *Player) error {
	if player.Name == "" {
		return invalidInput("Player name is required")
	}
	if len(player.Name) > 255 {
		return invalidInput("Player name must be 255 characters or fewer")
	}
	if player.Grade == "" {
		return invalidInput("Grade is required")
	}
	if len(player.Grade) > 50 {
		return invalidInput("Grade must be 50 characters or fewer")
	}
	if player.Position == "" {
		return invalidInput("Position is required")
	}
	if len(player.Position) > 50 {
		return invalidInput("Position must be 50 characters or fewer")
	}
	if player.Height != nil && len(*player.Height) > 20 {
		return invalidInput("Height must be 20 characters or fewer")
	}
	if player.Team != nil && len(*player.Team) > 255 {
		return invalidInput("Team must be 255 characters or fewer")
	}
	if len(player.Goals) > 10 {
		return invalidInput("A player can have at most 10 goals")
	}
	if player.CompetitionLevel != nil && len(*player.CompetitionLevel) > 100 {
		return invalidInput("Competition level must be 100 characters or fewer")
	}
	if player.Role != nil && len(*player.Role) > 100 {
		return invalidInput("Role must be 100 characters or fewer")
	}
	return nil
}

// Create adds a player profile owned by the caller.
func (s *PlayerService) Create(appID string, userID uuid.UUID, req CreatePlayerRequest) (*Player, error) {
	player := &Player{
		AppID:            appID,
		UserID:           userID,
		Name:             req.Name,
		Grade:            req.Grade,
		Position:         req.Position,
		Height:           req.Height,
		Team:             req.Team,
		Goals:            req.Goals,
		CompetitionLevel: req.CompetitionLevel,
		Role:             req.Role,
		Injuries:         req.Injuries,
		MinutesContext:   req.MinutesContext,
		CoachNotes:       req.CoachNotes,
		ParentNotes:      req.ParentNotes,
	}
	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	if err := s.db.Create(player).Error; err != nil {
		return nil, err
	}

	slog.Info("player created", "player_id", player.ID, "player_name", player.Name, "user_id", userID)
	return player, nil
}

// List returns the caller's players, newest first.
func (s *PlayerService) List(appID string, userID uuid.UUID) ([]Player, error) {
	var players []Player
	err := s.db.Scopes(tenant.ForTenant(appID)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// Get returns a player with their game log, most recent game first.
func (s *PlayerService) Get(appID string, userID, playerID uuid.UUID) (*PlayerWithGames, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	var games []PlayerGame
	err = s.db.Scopes(tenant.ForTenant(appID)).
		Where("player_id = ?", player.ID).
		Order("game_date DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}

	view := &PlayerWithGames{Player: *player, GameViews: make([]GameView, 0, len(games))}
	for i := range games {
		view.GameViews = append(view.GameViews, *newGameView(&games[i]))
	}
	return view, nil
}

// Update patches a player profile. Absent fields keep their values.
func (s *PlayerService) Update(appID string, userID, playerID uuid.UUID, req UpdatePlayerRequest) (*Player, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		player.Name = *req.Name
	}
	if req.Grade != nil {
		player.Grade = *req.Grade
	}
	if req.Position != nil {
		player.Position = *req.Position
	}
	if req.Height != nil {
		player.Height = req.Height
	}
	if req.Team != nil {
		player.Team = req.Team
	}
	if req.Goals != nil {
		player.Goals = *req.Goals
	}
	if req.CompetitionLevel != nil {
		player.CompetitionLevel = req.CompetitionLevel
	}
	if req.Role != nil {
		player.Role = req.Role
	}
	if req.Injuries != nil {
		player.Injuries = req.Injuries
	}
	if req.MinutesContext != nil {
		player.MinutesContext = req.MinutesContext
	}
	if req.CoachNotes != nil {
		player.CoachNotes = req.CoachNotes
	}
	if req.ParentNotes != nil {
		player.ParentNotes = req.ParentNotes
	}

	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	if err := s.db.Save(player).Error; err != nil {
		return nil, err
	}
	return player, nil
}

// Delete removes a player with their games, reports and feedback.
func (s *PlayerService) Delete(appID string, userID, playerID uuid.UUID) error {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(player).Error; err != nil {
		return err
	}
	slog.Info("player deleted", "player_id", player.ID, "deleted_by", userID)
	return nil
}

// =============================================================================
// GameService
// =============================================================================

type GameService struct {
	db *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{db: db}
}

func parseGameDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, invalidInput("game_date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func validateGame(game *PlayerGame) error {
	if game.Opponent == "" {
		return invalidInput("Opponent is required")
	}
	if len(game.Opponent) > 255 {
		return invalidInput("Opponent must be 255 characters or fewer")
	}
	if game.GameLabel != nil && len(*game.GameLabel) > 100 {
		return invalidInput("game_label must be 100 characters or fewer")
	}
	counts := []int{
		game.Minutes, game.Pts, game.Reb, game.Ast, game.Stl, game.Blk, game.Tov,
		game.FGM, game.FGA, game.TPM, game.TPA, game.FTM, game.FTA,
	}
	for _, n := range counts {
		if n < 0 {
			return invalidInput("Stats values cannot be negative")
		}
	}
	return nil
}

// Create records one game's stat line for a player.
func (s *GameService) Create(appID string, userID, playerID uuid.UUID, req CreateGameRequest) (*GameView, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	if req.GameDate == "" {
		return nil, invalidInput("game_date is required")
	}
	gameDate, err := parseGameDate(req.GameDate)
	if err != nil {
		return nil, err
	}

	game := &PlayerGame{
		AppID:     appID,
		PlayerID:  player.ID,
		GameDate:  gameDate,
		Opponent:  req.Opponent,
		GameLabel: req.GameLabel,
		Minutes:   req.Minutes,
		Pts:       req.Pts,
		Reb:       req.Reb,
		Ast:       req.Ast,
		Stl:       req.Stl,
		Blk:       req.Blk,
		Tov:       req.Tov,
		FGM:       req.FGM,
		FGA:       req.FGA,
		TPM:       req.TPM,
		TPA:       req.TPA,
		FTM:       req.FTM,
		FTA:       req.FTA,
		Notes:     req.Notes,
	}
	if err := validateGame(game); err != nil {
		return nil, err
	}

	if err := s.db.Create(game).Error; err != nil {
		return nil, err
	}

	slog.Info("player game recorded", "game_id", game.ID, "player_id", player.ID,
		"opponent", game.Opponent, "pts", game.Pts)
	return newGameView(game), nil
}

// List returns a player's games, most recent first.
func (s *GameService) List(appID string, userID, playerID uuid.UUID) ([]GameView, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	var games []PlayerGame
	err = s.db.Scopes(tenant.ForTenant(appID)).
		Where("player_id = ?", player.ID).
		Order("game_date DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}

	views := make([]GameView, 0, len(games))
	for i := range games {
		views = append(views, *newGameView(&games[i]))
	}
	return views, nil
}

// Update patches a game's stat line.
func (s *GameService) Update(appID string, userID, playerID, gameID uuid.UUID, req UpdateGameRequest) (*GameView, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	game, err := gameForPlayer(s.db, appID, player.ID, gameID)
	if err != nil {
		return nil, err
	}

	if req.GameDate != nil {
		gameDate, err := parseGameDate(*req.GameDate)
		if err != nil {
			return nil, err
		}
		game.GameDate = gameDate
	}
	if req.Opponent != nil {
		game.Opponent = *req.Opponent
	}
	if req.GameLabel != nil {
		game.GameLabel = req.GameLabel
	}
	applyStatUpdates(game, req)
	if req.Notes != nil {
		game.Notes = req.Notes
	}

	if err := validateGame(game); err != nil {
		return nil, err
	}

	if err := s.db.Save(game).Error; err != nil {
		return nil, err
	}

	slog.Info("player game updated", "game_id", game.ID, "player_id", player.ID)
	return newGameView(game), nil
}

// Delete removes one game from a player's log.
func (s *GameService) Delete(appID string, userID, playerID, gameID uuid.UUID) error {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return err
	}

	game, err := gameForPlayer(s.db, appID, player.ID, gameID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(game).Error; err != nil {
		return err
	}
	slog.Info("player game deleted", "game_id", game.ID, "player_id", player.ID, "deleted_by", userID)
	return nil
}

func applyStatUpdates(game *PlayerGame, req UpdateGameRequest) {
	if req.Minutes != nil {
		game.Minutes = *req.Minutes
	}
	if req.Pts != nil {
		game.Pts = *req.Pts
	}
	if req.Reb != nil {
		game.Reb = *req.Reb
	}
	if req.Ast != nil {
		game.Ast = *req.Ast
	}
	if req.Stl != nil {
		game.Stl = *req.Stl
	}
	if req.Blk != nil {
		game.Blk = *req.Blk
	}
	if req.Tov != nil {
		game.Tov = *req.Tov
	}
	if req.FGM != nil {
		game.FGM = *req.FGM
	}
	if req.FGA != nil {
		game.FGA = *req.FGA
	}
	if req.TPM != nil {
		game.TPM = *req.TPM
	}
	if req.TPA != nil {
		game.TPA = *req.TPA
	}
	if req.FTM != nil {
		game.FTM = *req.FTM
	}
	if req.FTA != nil {
		game.FTA = *req.FTA
	}
}

func newGameView(game *PlayerGame) *GameView {
	return &GameView{
		ID:        game.ID,
		PlayerID:  game.PlayerID,
		GameDate:  game.GameDate,
		Opponent:  game.Opponent,
		GameLabel: game.GameLabel,
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
		Notes:     game.Notes,

		FGPct:    aireport.Pct(game.FGM, game.FGA),
		ThreePct: aireport.Pct(game.TPM, game.TPA),
		FTPct:    aireport.Pct(game.FTM, game.FTA),

		CreatedAt: game.CreatedAt,
	}
}

// =============================================================================
// ReportService
// =============================================================================

type ReportService struct {
	db       *gorm.DB
	pipeline *aireport.Pipeline
	limiter  *ratelimit.SlidingWindow
	profile  *aireport.Profile
}

func NewReportService(db *gorm.DB, pipeline *aireport.Pipeline, limiter *ratelimit.SlidingWindow) *ReportService {
	return &ReportService{
		db:       db,
		pipeline: pipeline,
		limiter:  limiter,
		profile:  reportProfile(),
	}
}

// reportProfile parameterizes the generation pipeline for development
// reports: a multi-game window, a larger response budget, and parse failures
// treated as terminal. The stored body is the validated content alone.
func reportProfile() *aireport.Profile {
	return &aireport.Profile{
		PromptVersion:      promptVersion,
		SystemPrompt:       systemPrompt,
		RepairSystemPrompt: repairSystemPrompt,
		RepairGuide:        repairGuide,
		Temperature:        0.7,
		RepairTemperature:  0.3,
		MaxTokens:          4000,
		RepairParse:        false,
		EmbedMetadata:      false,
		MinRecords:         3,
		MaxRecords:         10,
		Validate:           validateReportContent,
	}
}

// Generate runs the report pipeline over a window of a player's games:
// the requested ones, or the most recent five. Every generation creates a new
// report row; a completed report always carries a fresh share token.
func (s *ReportService) Generate(ctx context.Context, appID string, userID, playerID uuid.UUID, req GenerateReportRequest) (*PlayerReport, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	games, err := s.gamesForReport(appID, player.ID, req.GameIDs)
	if err != nil {
		return nil, err
	}
	if len(games) < s.profile.MinRecords {
		return nil, ErrNotEnoughGames
	}

	if !s.limiter.Allow(userID.String()) {
		return nil, ErrRateLimited
	}

	input, err := buildReportInput(player, games)
	if err != nil {
		return nil, err
	}

	report, err := s.stageReport(appID, player.ID, games)
	if err != nil {
		return nil, err
	}

	recordIDs := make([]string, len(games))
	for i, game := range games {
		recordIDs[i] = game.ID.String()
	}

	outcome, genErr := s.pipeline.Generate(ctx, s.profile, &aireport.Request{
		SubjectID:   player.ID.String(),
		RecordIDs:   recordIDs,
		UserMessage: input,
	})
	if genErr != nil {
		msg := genErr.Error()
		report.Status = StatusFailed
		report.ErrorText = &msg
		if err := s.db.Save(report).Error; err != nil {
			return nil, err
		}
		slog.Error("player report generation failed", "player_id", player.ID, "report_id", report.ID, "error", msg)
		return nil, &GenerationError{Err: genErr}
	}

	token, err := newShareToken()
	if err != nil {
		return nil, err
	}

	report.Status = StatusCompleted
	report.ReportJSON = datatypes.JSON(outcome.Content)
	promptVer := outcome.PromptVersion
	report.PromptVersion = &promptVer
	if outcome.Model != "" {
		model := outcome.Model
		report.ModelUsed = &model
	}
	report.ErrorText = nil
	report.ShareToken = &token
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}

	slog.Info("player report generated", "player_id", player.ID, "report_id", report.ID,
		"games", len(games), "cache_hit", outcome.CacheHit, "repaired", outcome.Repaired, "attempts", outcome.Attempts)
	return report, nil
}

// gamesForReport resolves the analysis window: the requested ids that belong
// to the player, or the most recent five games when none were named.
func (s *ReportService) gamesForReport(appID string, playerID uuid.UUID, gameIDs []uuid.UUID) ([]PlayerGame, error) {
	var games []PlayerGame
	if len(gameIDs) > 0 {
		err := s.db.Scopes(tenant.ForTenant(appID)).
			Where("player_id = ? AND id IN ?", playerID, gameIDs).
			Find(&games).Error
		return games, err
	}

	err := s.db.Scopes(tenant.ForTenant(appID)).
		Where("player_id = ?", playerID).
		Order("game_date DESC").
		Limit(5).
		Find(&games).Error
	return games, err
}

// stageReport commits the pending state, then the generating state with the
// report window, before any provider traffic.
func (s *ReportService) stageReport(appID string, playerID uuid.UUID, games []PlayerGame) (*PlayerReport, error) {
	report := &PlayerReport{AppID: appID, PlayerID: playerID, Status: StatusPending}
	if err := s.db.Create(report).Error; err != nil {
		return nil, err
	}

	window := computeReportWindow(games)
	report.Status = StatusGenerating
	report.ReportWindow = &window
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// newShareToken mints the public handle for a completed report: 32 random
// bytes, URL-safe, unpadded. The column is unique.
func newShareToken() (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(rawBytes), nil
}

// List returns a player's reports, newest first.
func (s *ReportService) List(appID string, userID, playerID uuid.UUID) ([]PlayerReport, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	var reports []PlayerReport
	err = s.db.Scopes(tenant.ForTenant(appID)).
		Where("player_id = ?", player.ID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// GetByID returns one report under its player.
func (s *ReportService) GetByID(appID string, userID, playerID, reportID uuid.UUID) (*PlayerReport, error) {
	player, err := playerForUser(s.db, appID, userID, playerID)
	if err != nil {
		return nil, err
	}

	var report PlayerReport
	err = s.db.Scopes(tenant.ForTenant(appID)).
		Where("id = ? AND player_id = ?", reportID, player.ID).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Share flips public visibility for a report's share link.
func (s *ReportService) Share(appID string, userID, playerID, reportID uuid.UUID, isPublic bool) (*PlayerReport, error) {
	report, err := s.GetByID(appID, userID, playerID, reportID)
	if err != nil {
		return nil, err
	}

	report.IsPublic = isPublic
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}

	slog.Info("report sharing toggled", "report_id", report.ID, "is_public", isPublic)
	return report, nil
}

// SharedByToken resolves a public share link. It deliberately skips tenant
// scoping: share tokens are globally unique and the reader has no app
// context. Reports that are not public do not exist from the outside.
func (s *ReportService) SharedByToken(token string) (*SharedReportView, error) {
	var report PlayerReport
	err := s.db.Where("share_token = ? AND is_public = ?", token, true).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	var player Player
	if err := s.db.First(&player, "id = ?", report.PlayerID).Error; err != nil {
		return nil, err
	}

	return &SharedReportView{
		ID:            report.ID,
		Status:        report.Status,
		ReportWindow:  report.ReportWindow,
		ReportJSON:    report.ReportJSON,
		PromptVersion: report.PromptVersion,
		CreatedAt:     report.CreatedAt,
		Player: PlayerSummary{
			Name:     player.Name,
			Grade:    player.Grade,
			Position: player.Position,
			Height:   player.Height,
			Team:     player.Team,
			Goals:    player.Goals,
		},
	}, nil
}

// RevokeShare disables the public view behind a share token without touching
// the owner's account. Like SharedByToken it skips tenant scoping: the token
// is the only identifier ops has for a leaked link.
func (s *ReportService) RevokeShare(token string) error {
	var report PlayerReport
	err := s.db.Where("share_token = ?", token).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReportNotFound
	}
	if err != nil {
		return err
	}

	if !report.IsPublic {
		return nil
	}

	report.IsPublic = false
	if err := s.db.Save(&report).Error; err != nil {
		return err
	}

	slog.Info("share link revoked", "report_id", report.ID)
	return nil
}

// reportForUser resolves a report through its player's ownership. Reports
// under someone else's player are reported as missing.
func (s *ReportService) reportForUser(appID string, userID, reportID uuid.UUID) (*PlayerReport, error) {
	var report PlayerReport
	err := s.db.Scopes(tenant.ForTenant(appID)).First(&report, "id = ?", reportID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := playerForUser(s.db, appID, userID, report.PlayerID); err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// SubmitFeedback records a 1-5 rating on a report, once per report.
func (s *ReportService) SubmitFeedback(appID string, userID, reportID uuid.UUID, req SubmitFeedbackRequest) (*PlayerReportFeedback, error) {
	report, err := s.reportForUser(appID, userID, reportID)
	if err != nil {
		return nil, err
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalidInput("Rating must be between 1 and 5")
	}
	if req.MissingInfo != nil && len(*req.MissingInfo) > 1000 {
		return nil, invalidInput("missing_text must be 1000 characters or fewer")
	}

	var existing PlayerReportFeedback
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("player_report_id = ?", report.ID).First(&existing).Error
	if err == nil {
		return nil, ErrFeedbackExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	feedback := &PlayerReportFeedback{
		AppID:          appID,
		PlayerReportID: report.ID,
		Rating:         req.Rating,
		Accurate:       req.Accurate,
		MissingText:    req.MissingInfo,
	}
	if err := s.db.Create(feedback).Error; err != nil {
		return nil, err
	}

	slog.Info("report feedback submitted", "report_id", report.ID, "rating", req.Rating)
	return feedback, nil
}

package gamebrief

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benchwise/coaching-backend/internal/aireport"
	"github.com/benchwise/coaching-backend/internal/models"
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
	ErrTeamNotFound      = errors.New("team not found")
	ErrGameNotFound      = errors.New("game not found")
	ErrReportNotFound    = errors.New("report not found")
	ErrNotTeamMember     = errors.New("not a team member")
	ErrUserEmailNotFound = errors.New("no user with that email")
	ErrAlreadyMember     = errors.New("user is already a team member")
	ErrLastOwner         = errors.New("cannot remove the only owner")
	ErrMemberNotFound    = errors.New("team member not found")
	ErrStatsExist        = errors.New("stats already exist for this game")
	ErrStatsNotFound     = errors.New("no stats found for this game")
	ErrStatsRequired     = errors.New("cannot generate report without game stats")
	ErrNoReportForGame   = errors.New("no report found for this game")
	ErrFeedbackExists    = errors.New("feedback already submitted for this report")
	ErrRateLimited       = errors.New("report generation rate limit reached")
)

// RoleError reports a caller whose team role is below what the operation
// requires. Its message is returned to the client as-is.
type RoleError struct {
	MinRole string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("This action requires %s role or higher", e.MinRole)
}

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

// Team roles, strongest first.
const (
	RoleOwner  = "owner"
	RoleCoach  = "coach"
	RoleMember = "member"
)

var roleLevel = map[string]int{
	RoleOwner:  3,
	RoleCoach:  2,
	RoleMember: 1,
}

// teamMembership returns the caller's membership row, or an access error when
// the caller is not on the team or sits below minRole.
func teamMembership(db *gorm.DB, appID string, teamID, userID uuid.UUID, minRole string) (*TeamMember, error) {
	var membership TeamMember
	err := db.Scopes(tenant.ForTenant(appID)).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotTeamMember
	}
	if err != nil {
		return nil, err
	}

	if minRole != "" && roleLevel[membership.Role] < roleLevel[minRole] {
		return nil, &RoleError{MinRole: minRole}
	}
	return &membership, nil
}

func teamForUser(db *gorm.DB, appID string, userID, teamID uuid.UUID, minRole string) (*Team, error) {
	var team Team
	err := db.Scopes(tenant.ForTenant(appID)).First(&team, "id = ?", teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := teamMembership(db, appID, team.ID, userID, minRole); err != nil {
		return nil, err
	}
	return &team, nil
}

func gameForUser(db *gorm.DB, appID string, userID, gameID uuid.UUID, minRole string) (*Game, error) {
	var game Game
	err := db.Scopes(tenant.ForTenant(appID)).First(&game, "id = ?", gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := teamMembership(db, appID, game.TeamID, userID, minRole); err != nil {
		return nil, err
	}
	return &game, nil
}

// reportForUser resolves a report through its game's team membership. Reading
// reports only needs plain membership.
func reportForUser(db *gorm.DB, appID string, userID, reportID uuid.UUID) (*GameReport, error) {
	var report GameReport
	err := db.Scopes(tenant.ForTenant(appID)).First(&report, "id = ?", reportID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := gameForUser(db, appID, userID, report.GameID, ""); err != nil {
		return nil, err
	}
	return &report, nil
}

// =============================================================================
// TeamService
// =============================================================================

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// Create makes a team and enrolls the creator as its owner in one transaction.
func (s *TeamService) Create(appID string, userID uuid.UUID, req CreateTeamRequest) (*Team, error) {
	if req.Name == "" {
		return nil, invalidInput("Team name is required")
	}
	if len(req.Name) > 100 {
		return nil, invalidInput("Team name must be 100 characters or fewer")
	}
	sport := req.Sport
	if sport == "" {
		sport = "basketball"
	}
	if sport != "basketball" {
		return nil, invalidInput("Sport must be 'basketball'")
	}

	team := &Team{
		AppID:       appID,
		OwnerUserID: userID,
		Name:        req.Name,
		Sport:       sport,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		return tx.Create(&TeamMember{
			AppID:  appID,
			TeamID: team.ID,
			UserID: userID,
			Role:   RoleOwner,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("team created", "team_id", team.ID, "team_name", team.Name, "owner_id", userID)
	return team, nil
}

// List returns the teams the user belongs to, newest first.
func (s *TeamService) List(appID string, userID uuid.UUID) ([]Team, error) {
	var teams []Team
	err := s.db.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("teams.app_id = ? AND team_members.user_id = ?", appID, userID).
		Order("teams.created_at DESC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// Get returns team details with the member roster. Requires membership.
func (s *TeamService) Get(appID string, userID, teamID uuid.UUID) (*TeamWithMembers, error) {
	team, err := teamForUser(s.db, appID, userID, teamID, "")
	if err != nil {
		return nil, err
	}

	var members []TeamMemberView
	err = s.db.Table("team_members").
		Select("team_members.id, team_members.user_id, team_members.team_id, team_members.role, team_members.created_at, users.email AS user_email").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", team.ID).
		Scan(&members).Error
	if err != nil {
		return nil, err
	}

	return &TeamWithMembers{
		ID:        team.ID,
		Name:      team.Name,
		Sport:     team.Sport,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
		Members:   members,
	}, nil
}

// Update patches team details. Requires owner role.
func (s *TeamService) Update(appID string, userID, teamID uuid.UUID, req UpdateTeamRequest) (*Team, error) {
	team, err := teamForUser(s.db, appID, userID, teamID, RoleOwner)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, invalidInput("Team name is required")
		}
		if len(*req.Name) > 100 {
			return nil, invalidInput("Team name must be 100 characters or fewer")
		}
		team.Name = *req.Name
	}

	if err := s.db.Save(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes a team with its members, games, stats and reports. Requires
// owner role.
func (s *TeamService) Delete(appID string, userID, teamID uuid.UUID) error {
	team, err := teamForUser(s.db, appID, userID, teamID, RoleOwner)
	if err != nil {
		return err
	}

	if err := s.db.Delete(team).Error; err != nil {
		return err
	}
	slog.Info("team deleted", "team_id", team.ID, "deleted_by", userID)
	return nil
}

// AddMember enrolls a registered user by email. Requires owner role.
func (s *TeamService) AddMember(appID string, userID, teamID uuid.UUID, req AddMemberRequest) (*TeamMemberView, error) {
	team, err := teamForUser(s.db, appID, userID, teamID, RoleOwner)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if _, ok := roleLevel[role]; !ok {
		return nil, invalidInput("Role must be one of: owner, coach, member")
	}

	var user models.User
	err = s.db.Where("app_id = ? AND email = ?", appID, req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserEmailNotFound
	}
	if err != nil {
		return nil, err
	}

	var existing TeamMember
	err = s.db.Scopes(tenant.ForTenant(appID)).
		Where("team_id = ? AND user_id = ?", team.ID, user.ID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyMember
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membership := &TeamMember{
		AppID:  appID,
		TeamID: team.ID,
		UserID: user.ID,
		Role:   role,
	}
	if err := s.db.Create(membership).Error; err != nil {
		return nil, err
	}

	slog.Info("team member added", "team_id", team.ID, "user_id", user.ID, "role", role)
	return &TeamMemberView{
		ID:        membership.ID,
		UserID:    membership.UserID,
		TeamID:    membership.TeamID,
		Role:      membership.Role,
		CreatedAt: membership.CreatedAt,
		UserEmail: user.Email,
	}, nil
}

// RemoveMember drops a membership. Requires owner role. The last owner cannot
// remove themselves without transferring ownership first.
func (s *TeamService) RemoveMember(appID string, userID, teamID, memberUserID uuid.UUID) error {
	team, err := teamForUser(s.db, appID, userID, teamID, RoleOwner)
	if err != nil {
		return err
	}

	if memberUserID == userID {
		var owners int64
		err := s.db.Model(&TeamMember{}).Scopes(tenant.ForTenant(appID)).
			Where("team_id = ? AND role = ?", team.ID, RoleOwner).
			Count(&owners).Error
		if err != nil {
			return err
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}

	result := s.db.Scopes(tenant.ForTenant(appID)).
		Where("team_id = ? AND user_id = ?", team.ID, memberUserID).
		Delete(&TeamMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	slog.Info("team member removed", "team_id", team.ID, "removed_user_id", memberUserID)
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

// Create schedules a game for a team. Requires coach role.
func (s *GameService) Create(appID string, userID, teamID uuid.UUID, req CreateGameRequest) (*Game, error) {
	team, err := teamForUser(s.db, appID, userID, teamID, RoleCoach)
	if err != nil {
		return nil, err
	}

	if req.OpponentName == "" {
		return nil, invalidInput("Opponent name is required")
	}
	if len(req.OpponentName) > 100 {
		return nil, invalidInput("Opponent name must be 100 characters or fewer")
	}
	if req.GameDate == "" {
		return nil, invalidInput("game_date is required")
	}
	gameDate, err := parseGameDate(req.GameDate)
	if err != nil {
		return nil, err
	}

	game := &Game{
		AppID:        appID,
		TeamID:       team.ID,
		OpponentName: req.OpponentName,
		GameDate:     gameDate,
		Location:     req.Location,
		Notes:        req.Notes,
	}
	if err := s.db.Create(game).Error; err != nil {
		return nil, err
	}

	slog.Info("game created", "game_id", game.ID, "team_id", team.ID, "opponent", game.OpponentName)
	return game, nil
}

// List returns a team's games newest first, flagged with whether stats and a
// report exist. Requires membership.
func (s *GameService) List(appID string, userID, teamID uuid.UUID) ([]GameView, error) {
	team, err := teamForUser(s.db, appID, userID, teamID, "")
	if err != nil {
		return nil, err
	}

	var games []Game
	err = s.db.Scopes(tenant.ForTenant(appID)).
		Where("team_id = ?", team.ID).
		Order("game_date DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}

	views := make([]GameView, 0, len(games))
	if len(games) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(games))
	for i, game := range games {
		ids[i] = game.ID
	}

	var statGameIDs []uuid.UUID
	if err := s.db.Model(&GameStats{}).Where("game_id IN ?", ids).Pluck("game_id", &statGameIDs).Error; err != nil {
		return nil, err
	}
	var reportGameIDs []uuid.UUID
	if err := s.db.Model(&GameReport{}).Where("game_id IN ?", ids).Pluck("game_id", &reportGameIDs).Error; err != nil {
		return nil, err
	}

	hasStats := make(map[uuid.UUID]bool, len(statGameIDs))
	for _, id := range statGameIDs {
		hasStats[id] = true
	}
	hasReport := make(map[uuid.UUID]bool, len(reportGameIDs))
	for _, id := range reportGameIDs {
		hasReport[id] = true
	}

	for _, game := range games {
		views = append(views, GameView{
			ID:           game.ID,
			TeamID:       game.TeamID,
			OpponentName: game.OpponentName,
			GameDate:     game.GameDate,
			Location:     game.Location,
			Notes:        game.Notes,
			CreatedAt:    game.CreatedAt,
			HasStats:     hasStats[game.ID],
			HasReport:    hasReport[game.ID],
		})
	}
	return views, nil
}

// Get returns a game with its stats when recorded. Requires membership.
func (s *GameService) Get(appID string, userID, gameID uuid.UUID) (*GameWithStats, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, "")
	if err != nil {
		return nil, err
	}

	view := &GameWithStats{
		ID:           game.ID,
		TeamID:       game.TeamID,
		OpponentName: game.OpponentName,
		GameDate:     game.GameDate,
		Location:     game.Location,
		Notes:        game.Notes,
		CreatedAt:    game.CreatedAt,
	}

	var stats GameStats
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&stats).Error
	if err == nil {
		view.BasketballStats = newStatsView(&stats)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return view, nil
}

// Update patches game details. Requires coach role.
func (s *GameService) Update(appID string, userID, gameID uuid.UUID, req UpdateGameRequest) (*Game, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, RoleCoach)
	if err != nil {
		return nil, err
	}

	if req.OpponentName != nil {
		if *req.OpponentName == "" {
			return nil, invalidInput("Opponent name is required")
		}
		if len(*req.OpponentName) > 100 {
			return nil, invalidInput("Opponent name must be 100 characters or fewer")
		}
		game.OpponentName = *req.OpponentName
	}
	if req.GameDate != nil {
		gameDate, err := parseGameDate(*req.GameDate)
		if err != nil {
			return nil, err
		}
		game.GameDate = gameDate
	}
	if req.Location != nil {
		game.Location = req.Location
	}
	if req.Notes != nil {
		game.Notes = req.Notes
	}

	if err := s.db.Save(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

// Delete removes a game with its stats and reports. Requires coach role.
func (s *GameService) Delete(appID string, userID, gameID uuid.UUID) error {
	game, err := gameForUser(s.db, appID, userID, gameID, RoleCoach)
	if err != nil {
		return err
	}

	if err := s.db.Delete(game).Error; err != nil {
		return err
	}
	slog.Info("game deleted", "game_id", game.ID, "deleted_by", userID)
	return nil
}

// AddStats records the box score for a game, one entry per game. Requires
// coach role.
func (s *GameService) AddStats(appID string, userID, gameID uuid.UUID, req CreateStatsRequest) (*StatsView, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, RoleCoach)
	if err != nil {
		return nil, err
	}

	if req.PointsFor == nil || req.PointsAgainst == nil {
		return nil, invalidInput("points_for and points_against are required")
	}

	var existing GameStats
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&existing).Error
	if err == nil {
		return nil, ErrStatsExist
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats := &GameStats{
		AppID:         appID,
		GameID:        game.ID,
		PointsFor:     *req.PointsFor,
		PointsAgainst: *req.PointsAgainst,
		FGMade:        req.FGMade,
		FGAtt:         req.FGAtt,
		ThreeMade:     req.ThreeMade,
		ThreeAtt:      req.ThreeAtt,
		FTMade:        req.FTMade,
		FTAtt:         req.FTAtt,
		ReboundsOff:   req.ReboundsOff,
		ReboundsDef:   req.ReboundsDef,
		Assists:       req.Assists,
		Steals:        req.Steals,
		Blocks:        req.Blocks,
		Turnovers:     req.Turnovers,
		Fouls:         req.Fouls,
		PaceEstimate:  req.PaceEstimate,
	}
	if err := validateStats(stats); err != nil {
		return nil, err
	}

	if err := s.db.Create(stats).Error; err != nil {
		return nil, err
	}

	slog.Info("game stats added", "game_id", game.ID, "stats_id", stats.ID,
		"score", fmt.Sprintf("%d-%d", stats.PointsFor, stats.PointsAgainst))
	return newStatsView(stats), nil
}

// GetStats returns a game's box score. Requires membership.
func (s *GameService) GetStats(appID string, userID, gameID uuid.UUID) (*StatsView, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, "")
	if err != nil {
		return nil, err
	}

	var stats GameStats
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	return newStatsView(&stats), nil
}

// UpdateStats patches a game's box score. Requires coach role.
func (s *GameService) UpdateStats(appID string, userID, gameID uuid.UUID, req UpdateStatsRequest) (*StatsView, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, RoleCoach)
	if err != nil {
		return nil, err
	}

	var stats GameStats
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}

	applyStatsUpdate(&stats, req)
	if err := validateStats(&stats); err != nil {
		return nil, err
	}

	if err := s.db.Save(&stats).Error; err != nil {
		return nil, err
	}

	slog.Info("game stats updated", "game_id", game.ID, "stats_id", stats.ID)
	return newStatsView(&stats), nil
}

// ImportStatsCSV records the box score from an uploaded CSV. Only the first
// data row is used. Requires coach role.
func (s *GameService) ImportStatsCSV(appID string, userID, gameID uuid.UUID, content string) (*StatsView, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, RoleCoach)
	if err != nil {
		return nil, err
	}

	var existing GameStats
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&existing).Error
	if err == nil {
		return nil, ErrStatsExist
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rows, err := parseCSVStats(content)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if len(rows) > 1 {
		slog.Warn("csv has multiple rows, using first row only", "game_id", game.ID, "row_count", len(rows))
	}

	stats := statsFromCSVRow(rows[0])
	stats.AppID = appID
	stats.GameID = game.ID
	if err := validateStats(stats); err != nil {
		return nil, err
	}

	if err := s.db.Create(stats).Error; err != nil {
		return nil, err
	}

	slog.Info("game stats imported from csv", "game_id", game.ID, "stats_id", stats.ID,
		"score", fmt.Sprintf("%d-%d", stats.PointsFor, stats.PointsAgainst))
	return newStatsView(stats), nil
}

func applyStatsUpdate(stats *GameStats, req UpdateStatsRequest) {
	if req.PointsFor != nil {
		stats.PointsFor = *req.PointsFor
	}
	if req.PointsAgainst != nil {
		stats.PointsAgainst = *req.PointsAgainst
	}
	if req.FGMade != nil {
		stats.FGMade = *req.FGMade
	}
	if req.FGAtt != nil {
		stats.FGAtt = *req.FGAtt
	}
	if req.ThreeMade != nil {
		stats.ThreeMade = *req.ThreeMade
	}
	if req.ThreeAtt != nil {
		stats.ThreeAtt = *req.ThreeAtt
	}
	if req.FTMade != nil {
		stats.FTMade = *req.FTMade
	}
	if req.FTAtt != nil {
		stats.FTAtt = *req.FTAtt
	}
	if req.ReboundsOff != nil {
		stats.ReboundsOff = *req.ReboundsOff
	}
	if req.ReboundsDef != nil {
		stats.ReboundsDef = *req.ReboundsDef
	}
	if req.Assists != nil {
		stats.Assists = *req.Assists
	}
	if req.Steals != nil {
		stats.Steals = *req.Steals
	}
	if req.Blocks != nil {
		stats.Blocks = *req.Blocks
	}
	if req.Turnovers != nil {
		stats.Turnovers = *req.Turnovers
	}
	if req.Fouls != nil {
		stats.Fouls = *req.Fouls
	}
	if req.PaceEstimate != nil {
		stats.PaceEstimate = req.PaceEstimate
	}
}

func validateStats(stats *GameStats) error {
	counts := []int{
		stats.PointsFor, stats.PointsAgainst,
		stats.FGMade, stats.FGAtt, stats.ThreeMade, stats.ThreeAtt,
		stats.FTMade, stats.FTAtt, stats.ReboundsOff, stats.ReboundsDef,
		stats.Assists, stats.Steals, stats.Blocks, stats.Turnovers, stats.Fouls,
	}
	for _, n := range counts {
		if n < 0 {
			return invalidInput("Stats values cannot be negative")
		}
	}
	if stats.PaceEstimate != nil && *stats.PaceEstimate < 0 {
		return invalidInput("Stats values cannot be negative")
	}

	if stats.FGMade > stats.FGAtt {
		return invalidInput("Field goals made cannot exceed field goals attempted")
	}
	if stats.ThreeMade > stats.ThreeAtt {
		return invalidInput("Three-pointers made cannot exceed three-pointers attempted")
	}
	if stats.FTMade > stats.FTAtt {
		return invalidInput("Free throws made cannot exceed free throws attempted")
	}
	return nil
}

func newStatsView(stats *GameStats) *StatsView {
	return &StatsView{
		ID:            stats.ID,
		GameID:        stats.GameID,
		PointsFor:     stats.PointsFor,
		PointsAgainst: stats.PointsAgainst,
		FGMade:        stats.FGMade,
		FGAtt:         stats.FGAtt,
		ThreeMade:     stats.ThreeMade,
		ThreeAtt:      stats.ThreeAtt,
		FTMade:        stats.FTMade,
		FTAtt:         stats.FTAtt,
		ReboundsOff:   stats.ReboundsOff,
		ReboundsDef:   stats.ReboundsDef,
		Assists:       stats.Assists,
		Steals:        stats.Steals,
		Blocks:        stats.Blocks,
		Turnovers:     stats.Turnovers,
		Fouls:         stats.Fouls,
		PaceEstimate:  stats.PaceEstimate,

		TotalRebounds:   stats.ReboundsOff + stats.ReboundsDef,
		FGPercentage:    aireport.Pct(stats.FGMade, stats.FGAtt),
		ThreePercentage: aireport.Pct(stats.ThreeMade, stats.ThreeAtt),
		FTPercentage:    aireport.Pct(stats.FTMade, stats.FTAtt),

		CreatedAt: stats.CreatedAt,
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

// reportProfile parameterizes the generation pipeline for game reports: one
// stats record per report, metadata embedded in the stored body, and parse
// failures eligible for the repair pass like any schema violation.
func reportProfile() *aireport.Profile {
	return &aireport.Profile{
		PromptVersion:      promptVersion,
		SystemPrompt:       systemPrompt,
		RepairSystemPrompt: repairSystemPrompt,
		RepairGuide:        repairGuide,
		Temperature:        0.7,
		RepairTemperature:  0.3,
		MaxTokens:          2000,
		RepairParse:        true,
		EmbedMetadata:      true,
		MinRecords:         1,
		MaxRecords:         1,
		Validate:           validateReportContent,
	}
}

// Generate runs the report pipeline for a game. An existing report is
// returned as-is unless force_regenerate is set; regeneration reuses the row.
// Requires coach role.
func (s *ReportService) Generate(ctx context.Context, appID string, userID, gameID uuid.UUID, req GenerateReportRequest) (*GenerateReportResponse, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, RoleCoach)
	if err != nil {
		return nil, err
	}

	if len(req.AdditionalContext) > 1000 {
		return nil, invalidInput("additional_context must be 1000 characters or fewer")
	}

	var stats GameStats
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatsRequired
	}
	if err != nil {
		return nil, err
	}

	var existing *GameReport
	var found GameReport
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&found).Error
	if err == nil {
		existing = &found
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil && !req.ForceRegenerate {
		slog.Info("returning existing report", "game_id", game.ID, "report_id", existing.ID)
		return &GenerateReportResponse{Report: reportView(existing), WasRegenerated: false}, nil
	}

	if !s.limiter.Allow(userID.String()) {
		return nil, ErrRateLimited
	}

	report, err := s.stageReport(appID, game.ID, existing)
	if err != nil {
		return nil, err
	}

	outcome, genErr := s.pipeline.Generate(ctx, s.profile, &aireport.Request{
		SubjectID:   game.ID.String(),
		RecordIDs:   []string{stats.ID.String()},
		UserMessage: buildPrompt(game, &stats, req.AdditionalContext),
		RiskFlags:   detectRiskFlags(&stats),
	})
	if genErr != nil {
		msg := genErr.Error()
		report.Status = StatusFailed
		report.ErrorText = &msg
		if err := s.db.Save(report).Error; err != nil {
			return nil, err
		}
		slog.Error("report generation failed", "game_id", game.ID, "report_id", report.ID, "error", msg)
		return nil, &GenerationError{Err: genErr}
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
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}

	slog.Info("report generated", "game_id", game.ID, "report_id", report.ID,
		"cache_hit", outcome.CacheHit, "repaired", outcome.Repaired, "attempts", outcome.Attempts)
	return &GenerateReportResponse{Report: reportView(report), WasRegenerated: existing != nil}, nil
}

// stageReport commits the pending state, then the generating state, before
// any provider traffic. Regeneration reuses the existing row with its prior
// result cleared.
func (s *ReportService) stageReport(appID string, gameID uuid.UUID, existing *GameReport) (*GameReport, error) {
	var report *GameReport
	if existing != nil {
		report = existing
		report.Status = StatusPending
		report.ReportJSON = nil
		report.ModelUsed = nil
		report.PromptVersion = nil
		report.ErrorText = nil
		if err := s.db.Save(report).Error; err != nil {
			return nil, err
		}
	} else {
		report = &GameReport{AppID: appID, GameID: gameID, Status: StatusPending}
		if err := s.db.Create(report).Error; err != nil {
			return nil, err
		}
	}

	report.Status = StatusGenerating
	if err := s.db.Save(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// GetByID returns one report. Requires membership of the game's team.
func (s *ReportService) GetByID(appID string, userID, reportID uuid.UUID) (*ReportView, error) {
	report, err := reportForUser(s.db, appID, userID, reportID)
	if err != nil {
		return nil, err
	}
	return reportView(report), nil
}

// GetForGame returns the report attached to a game. Requires membership.
func (s *ReportService) GetForGame(appID string, userID, gameID uuid.UUID) (*ReportView, error) {
	game, err := gameForUser(s.db, appID, userID, gameID, "")
	if err != nil {
		return nil, err
	}

	var report GameReport
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_id = ?", game.ID).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoReportForGame
	}
	if err != nil {
		return nil, err
	}
	return reportView(&report), nil
}

// SubmitFeedback records a 1-5 rating on a report, once per report. Requires
// membership.
func (s *ReportService) SubmitFeedback(appID string, userID, reportID uuid.UUID, req SubmitFeedbackRequest) (*ReportFeedback, error) {
	report, err := reportForUser(s.db, appID, userID, reportID)
	if err != nil {
		return nil, err
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalidInput("Rating must be between 1 and 5")
	}
	if req.MissingInfo != nil && len(*req.MissingInfo) > 1000 {
		return nil, invalidInput("missing_text must be 1000 characters or fewer")
	}

	var existing ReportFeedback
	err = s.db.Scopes(tenant.ForTenant(appID)).Where("game_report_id = ?", report.ID).First(&existing).Error
	if err == nil {
		return nil, ErrFeedbackExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	feedback := &ReportFeedback{
		AppID:        appID,
		GameReportID: report.ID,
		Rating:       req.Rating,
		Accurate:     req.Accurate,
		MissingText:  req.MissingInfo,
	}
	if err := s.db.Create(feedback).Error; err != nil {
		return nil, err
	}

	slog.Info("report feedback submitted", "report_id", report.ID, "rating", req.Rating)
	return feedback, nil
}

// reportView flattens a report row for clients: content fields pulled out of
// report_json, model falling back to the embedded copy when the column is
// empty (cache hits record no model).
func reportView(report *GameReport) *ReportView {
	view := &ReportView{
		ID:                   report.ID,
		GameID:               report.GameID,
		Status:               report.Status,
		KeyInsights:          []keyInsight{},
		ActionItems:          []actionItem{},
		QuestionsForNextGame: []reportQuestion{},
		RiskFlags:            []string{},
		ModelUsed:            report.ModelUsed,
		ErrorText:            report.ErrorText,
		CreatedAt:            report.CreatedAt,
	}

	if len(report.ReportJSON) == 0 {
		return view
	}

	var body struct {
		Summary              *string          `json:"summary"`
		KeyInsights          []keyInsight     `json:"key_insights"`
		ActionItems          []actionItem     `json:"action_items"`
		PracticeFocus        *string          `json:"practice_focus"`
		QuestionsForNextGame []reportQuestion `json:"questions_for_next_game"`
		ModelUsed            *string          `json:"model_used"`
		PromptTokens         *int             `json:"prompt_tokens"`
		CompletionTokens     *int             `json:"completion_tokens"`
		GenerationTimeMs     *int             `json:"generation_time_ms"`
		RiskFlags            []string         `json:"risk_flags"`
	}
	if err := json.Unmarshal(report.ReportJSON, &body); err != nil {
		slog.Warn("stored report body is not decodable", "report_id", report.ID, "error", err.Error())
		return view
	}

	view.Summary = body.Summary
	if body.KeyInsights != nil {
		view.KeyInsights = body.KeyInsights
	}
	if body.ActionItems != nil {
		view.ActionItems = body.ActionItems
	}
	view.PracticeFocus = body.PracticeFocus
	if body.QuestionsForNextGame != nil {
		view.QuestionsForNextGame = body.QuestionsForNextGame
	}
	if view.ModelUsed == nil {
		view.ModelUsed = body.ModelUsed
	}
	view.PromptTokens = body.PromptTokens
	view.CompletionTokens = body.CompletionTokens
	view.GenerationTimeMs = body.GenerationTimeMs
	if body.RiskFlags != nil {
		view.RiskFlags = body.RiskFlags
	}
	return view
}

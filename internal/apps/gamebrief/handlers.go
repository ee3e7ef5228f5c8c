package gamebrief

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/benchwise/coaching-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps the service errors every endpoint can surface: missing
// resources, membership and role checks, and input validation. Unmatched
// errors log and fall back to a 500 with the given message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var roleErr *RoleError
	var inputErr *ValidationError

	switch {
	case errors.Is(err, ErrTeamNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Team not found"})
	case errors.Is(err, ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Game not found"})
	case errors.Is(err, ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Report not found"})
	case errors.Is(err, ErrNotTeamMember):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": "You are not a member of this team"})
	case errors.As(err, &roleErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": roleErr.Error()})
	case errors.As(err, &inputErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": inputErr.Error()})
	}

	slog.Error("gamebrief request failed", "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": fallback})
}

// =============================================================================
// TeamHandler
// =============================================================================

type TeamHandler struct {
	teamService *TeamService
}

func NewTeamHandler(teamService *TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	team, err := h.teamService.Create(appID, userID, req)
	if err != nil {
		return respondError(c, err, "Failed to create team")
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teams, err := h.teamService.List(appID, userID)
	if err != nil {
		return respondError(c, err, "Failed to list teams")
	}

	return c.JSON(teams)
}

func (h *TeamHandler) Get(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid team ID"})
	}

	team, err := h.teamService.Get(appID, userID, teamID)
	if err != nil {
		return respondError(c, err, "Failed to get team")
	}

	return c.JSON(team)
}

func (h *TeamHandler) Update(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid team ID"})
	}

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	team, err := h.teamService.Update(appID, userID, teamID, req)
	if err != nil {
		return respondError(c, err, "Failed to update team")
	}

	return c.JSON(team)
}

func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid team ID"})
	}

	if err := h.teamService.Delete(appID, userID, teamID); err != nil {
		return respondError(c, err, "Failed to delete team")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TeamHandler) AddMember(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid team ID"})
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	member, err := h.teamService.AddMember(appID, userID, teamID, req)
	if err != nil {
		if errors.Is(err, ErrUserEmailNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": fmt.Sprintf("User with email %s not found", req.Email)})
		}
		if errors.Is(err, ErrAlreadyMember) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": "User is already a team member"})
		}
		return respondError(c, err, "Failed to add team member")
	}

	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid team ID"})
	}

	memberUserID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	if err := h.teamService.RemoveMember(appID, userID, teamID, memberUserID); err != nil {
		if errors.Is(err, ErrLastOwner) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Cannot remove the only owner. Transfer ownership first."})
		}
		if errors.Is(err, ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Team member not found"})
		}
		return respondError(c, err, "Failed to remove team member")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// =============================================================================
// GameHandler
// =============================================================================

type GameHandler struct {
	gameService *GameService
}

func NewGameHandler(gameService *GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) Create(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid team ID"})
	}

	var req CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	game, err := h.gameService.Create(appID, userID, teamID, req)
	if err != nil {
		return respondError(c, err, "Failed to create game")
	}

	return c.Status(fiber.StatusCreated).JSON(game)
}

func (h *GameHandler) List(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid team ID"})
	}

	games, err := h.gameService.List(appID, userID, teamID)
	if err != nil {
		return respondError(c, err, "Failed to list games")
	}

	return c.JSON(games)
}

func (h *GameHandler) Get(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	game, err := h.gameService.Get(appID, userID, gameID)
	if err != nil {
		return respondError(c, err, "Failed to get game")
	}

	return c.JSON(game)
}

func (h *GameHandler) Update(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	var req UpdateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	game, err := h.gameService.Update(appID, userID, gameID, req)
	if err != nil {
		return respondError(c, err, "Failed to update game")
	}

	return c.JSON(game)
}

func (h *GameHandler) Delete(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	if err := h.gameService.Delete(appID, userID, gameID); err != nil {
		return respondError(c, err, "Failed to delete game")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *GameHandler) AddStats(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	var req CreateStatsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	stats, err := h.gameService.AddStats(appID, userID, gameID, req)
	if err != nil {
		if errors.Is(err, ErrStatsExist) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": "Stats already exist for this game. Use PATCH to update."})
		}
		return respondError(c, err, "Failed to add stats")
	}

	return c.Status(fiber.StatusCreated).JSON(stats)
}

func (h *GameHandler) GetStats(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	stats, err := h.gameService.GetStats(appID, userID, gameID)
	if err != nil {
		if errors.Is(err, ErrStatsNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "No stats found for this game"})
		}
		return respondError(c, err, "Failed to get stats")
	}

	return c.JSON(stats)
}

func (h *GameHandler) UpdateStats(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	var req UpdateStatsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	stats, err := h.gameService.UpdateStats(appID, userID, gameID, req)
	if err != nil {
		if errors.Is(err, ErrStatsNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "No stats found for this game"})
		}
		return respondError(c, err, "Failed to update stats")
	}

	return c.JSON(stats)
}

// CSVTemplate serves the import template with headers and one example row.
func (h *GameHandler) CSVTemplate(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(csvTemplate())
}

func (h *GameHandler) ImportCSV(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "CSV file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Failed to read CSV file: " + err.Error()})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Failed to read CSV file: " + err.Error()})
	}

	stats, err := h.gameService.ImportStatsCSV(appID, userID, gameID, string(content))
	if err != nil {
		if errors.Is(err, ErrStatsExist) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": "Stats already exist for this game. Delete existing stats first."})
		}
		return respondError(c, err, "Failed to import stats")
	}

	return c.Status(fiber.StatusCreated).JSON(stats)
}

// =============================================================================
// ReportHandler
// =============================================================================

type ReportHandler struct {
	reportService *ReportService
	flags         FlagSource
	limitPerHour  int
}

func NewReportHandler(reportService *ReportService, flags FlagSource, limitPerHour int) *ReportHandler {
	return &ReportHandler{reportService: reportService, flags: flags, limitPerHour: limitPerHour}
}

func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	if !h.flags.BoolFlag(appID, "report_generation_enabled", true) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": true, "message": "Report generation is temporarily disabled"})
	}

	// Body is optional; an empty POST generates with defaults.
	req := GenerateReportRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
		}
	}

	resp, err := h.reportService.Generate(c.UserContext(), appID, userID, gameID, req)
	if err != nil {
		var genErr *GenerationError
		switch {
		case errors.Is(err, ErrStatsRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Cannot generate report without game stats. Add stats first."})
		case errors.Is(err, ErrRateLimited):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": true, "message": fmt.Sprintf("Rate limit exceeded. Maximum %d reports per hour.", h.limitPerHour)})
		case errors.As(err, &genErr):
			// The row already carries the failed state; the response relays
			// the upstream failure.
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": true, "message": "Failed to generate report: " + genErr.Error()})
		}
		return respondError(c, err, "Failed to generate report")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	reportID, err := uuid.Parse(c.Params("report_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid report ID"})
	}

	report, err := h.reportService.GetByID(appID, userID, reportID)
	if err != nil {
		return respondError(c, err, "Failed to get report")
	}

	return c.JSON(report)
}

func (h *ReportHandler) GetForGame(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	report, err := h.reportService.GetForGame(appID, userID, gameID)
	if err != nil {
		if errors.Is(err, ErrNoReportForGame) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "No report found for this game"})
		}
		return respondError(c, err, "Failed to get report")
	}

	return c.JSON(report)
}

func (h *ReportHandler) SubmitFeedback(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	reportID, err := uuid.Parse(c.Params("report_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid report ID"})
	}

	var req SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	feedback, err := h.reportService.SubmitFeedback(appID, userID, reportID, req)
	if err != nil {
		if errors.Is(err, ErrFeedbackExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": "Feedback has already been submitted for this report"})
		}
		return respondError(c, err, "Failed to submit feedback")
	}

	return c.Status(fiber.StatusCreated).JSON(feedback)
}

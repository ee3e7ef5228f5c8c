package passport

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/benchwise/coaching-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps the service errors every endpoint can surface. Unmatched
// errors log and fall back to a 500 with the given message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var inputErr *ValidationError

	switch {
	case errors.Is(err, ErrPlayerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Player not found"})
	case errors.Is(err, ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Game not found"})
	case errors.Is(err, ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Report not found"})
	case errors.As(err, &inputErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": inputErr.Error()})
	}

	slog.Error("passport request failed", "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": fallback})
}

// =============================================================================
// PlayerHandler
// =============================================================================

type PlayerHandler struct {
	playerService *PlayerService
}

func NewPlayerHandler(playerService *PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

func (h *PlayerHandler) Create(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	var req CreatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	player, err := h.playerService.Create(appID, userID, req)
	if err != nil {
		return respondError(c, err, "Failed to create player")
	}

	return c.Status(fiber.StatusCreated).JSON(player)
}

func (h *PlayerHandler) List(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	players, err := h.playerService.List(appID, userID)
	if err != nil {
		return respondError(c, err, "Failed to list players")
	}

	return c.JSON(players)
}

func (h *PlayerHandler) Get(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	player, err := h.playerService.Get(appID, userID, playerID)
	if err != nil {
		return respondError(c, err, "Failed to get player")
	}

	return c.JSON(player)
}

func (h *PlayerHandler) Update(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	var req UpdatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	player, err := h.playerService.Update(appID, userID, playerID, req)
	if err != nil {
		return respondError(c, err, "Failed to update player")
	}

	return c.JSON(player)
}

func (h *PlayerHandler) Delete(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	if err := h.playerService.Delete(appID, userID, playerID); err != nil {
		return respondError(c, err, "Failed to delete player")
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

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	var req CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	game, err := h.gameService.Create(appID, userID, playerID, req)
	if err != nil {
		return respondError(c, err, "Failed to record game")
	}

	return c.Status(fiber.StatusCreated).JSON(game)
}

func (h *GameHandler) List(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	games, err := h.gameService.List(appID, userID, playerID)
	if err != nil {
		return respondError(c, err, "Failed to list games")
	}

	return c.JSON(games)
}

func (h *GameHandler) Update(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	var req UpdateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	game, err := h.gameService.Update(appID, userID, playerID, gameID, req)
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

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	gameID, err := uuid.Parse(c.Params("game_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}

	if err := h.gameService.Delete(appID, userID, playerID, gameID); err != nil {
		return respondError(c, err, "Failed to delete game")
	}

	return c.SendStatus(fiber.StatusNoContent)
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

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	if !h.flags.BoolFlag(appID, "report_generation_enabled", true) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": true, "message": "Report generation is temporarily disabled"})
	}

	// Body is optional; an empty POST analyzes the most recent games.
	req := GenerateReportRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
		}
	}

	report, err := h.reportService.Generate(c.UserContext(), appID, userID, playerID, req)
	if err != nil {
		var genErr *GenerationError
		switch {
		case errors.Is(err, ErrNotEnoughGames):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "At least 3 games are required to generate a report"})
		case errors.Is(err, ErrRateLimited):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": true, "message": fmt.Sprintf("Rate limit exceeded. Maximum %d reports per hour.", h.limitPerHour)})
		case errors.As(err, &genErr):
			// The row already carries the failed state; the response relays
			// the upstream failure.
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": true, "message": "Failed to generate report: " + genErr.Error()})
		}
		return respondError(c, err, "Failed to generate report")
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	reports, err := h.reportService.List(appID, userID, playerID)
	if err != nil {
		return respondError(c, err, "Failed to list reports")
	}

	return c.JSON(reports)
}

func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	reportID, err := uuid.Parse(c.Params("report_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid report ID"})
	}

	report, err := h.reportService.GetByID(appID, userID, playerID, reportID)
	if err != nil {
		return respondError(c, err, "Failed to get report")
	}

	return c.JSON(report)
}

func (h *ReportHandler) Share(c *fiber.Ctx) error {
	appID := tenant.GetAppID(c)
	userID, err := tenant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	playerID, err := uuid.Parse(c.Params("player_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid player ID"})
	}

	reportID, err := uuid.Parse(c.Params("report_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid report ID"})
	}

	var req ShareReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	if req.IsPublic == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "is_public is required"})
	}

	report, err := h.reportService.Share(appID, userID, playerID, reportID, *req.IsPublic)
	if err != nil {
		return respondError(c, err, "Failed to update report sharing")
	}

	return c.JSON(report)
}

// GetShared serves a public share link. No auth, no tenant: the token is the
// whole credential.
func (h *ReportHandler) GetShared(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Report not found"})
	}

	report, err := h.reportService.SharedByToken(token)
	if err != nil {
		return respondError(c, err, "Failed to get shared report")
	}

	return c.JSON(report)
}

// RevokeShare kills a leaked share link by token. Mounted behind the admin
// key, never on user routes.
func (h *ReportHandler) RevokeShare(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Report not found"})
	}

	if err := h.reportService.RevokeShare(token); err != nil {
		return respondError(c, err, "Failed to revoke share link")
	}

	return c.SendStatus(fiber.StatusNoContent)
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

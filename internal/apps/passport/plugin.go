// Package passport is the player development app: parents and trainers track
// individual players' game logs and generate AI development reports that can
// be shared through public links.
package passport

import (
	"github.com/benchwise/coaching-backend/internal/aireport"
	"github.com/benchwise/coaching-backend/internal/config"
	"github.com/benchwise/coaching-backend/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FlagSource reads runtime feature flags from remote config. Report
// generation consults the report_generation_enabled kill switch through it.
type FlagSource interface {
	BoolFlag(appID, key string, fallback bool) bool
}

type PassportPlugin struct {
	flags    FlagSource
	pipeline *aireport.Pipeline
	limiter  *ratelimit.SlidingWindow
}

// New wires the plugin to the shared report pipeline and the per-user
// generation limiter. Both are shared across report-producing apps.
func New(flags FlagSource, pipeline *aireport.Pipeline, limiter *ratelimit.SlidingWindow) *PassportPlugin {
	return &PassportPlugin{flags: flags, pipeline: pipeline, limiter: limiter}
}

func (p *PassportPlugin) ID() string { return "passport" }

func (p *PassportPlugin) Models() []interface{} {
	return []interface{}{
		&Player{},
		&PlayerGame{},
		&PlayerReport{},
		&PlayerReportFeedback{},
	}
}

func (p *PassportPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	playerService := NewPlayerService(db)
	gameService := NewGameService(db)
	reportService := NewReportService(db, p.pipeline, p.limiter)

	playerHandler := NewPlayerHandler(playerService)
	gameHandler := NewGameHandler(gameService)
	reportHandler := NewReportHandler(reportService, p.flags, cfg.ReportLimitPerHour)

	// Player routes
	router.Post("/passport/players", playerHandler.Create)
	router.Get("/passport/players", playerHandler.List)
	router.Get("/passport/players/:player_id", playerHandler.Get)
	router.Patch("/passport/players/:player_id", playerHandler.Update)
	router.Delete("/passport/players/:player_id", playerHandler.Delete)

	// Game routes
	router.Post("/passport/players/:player_id/games", gameHandler.Create)
	router.Get("/passport/players/:player_id/games", gameHandler.List)
	router.Patch("/passport/players/:player_id/games/:game_id", gameHandler.Update)
	router.Delete("/passport/players/:player_id/games/:game_id", gameHandler.Delete)

	// Report routes
	router.Post("/passport/players/:player_id/reports", reportHandler.Generate)
	router.Get("/passport/players/:player_id/reports", reportHandler.List)
	router.Get("/passport/players/:player_id/reports/:report_id", reportHandler.GetByID)
	router.Patch("/passport/players/:player_id/reports/:report_id/share", reportHandler.Share)
	router.Post("/passport/reports/:report_id/feedback", reportHandler.SubmitFeedback)
}

// RegisterPublicRoutes mounts the share link read. The route carries no JWT
// and no tenant requirement: the token alone identifies the report.
func (p *PassportPlugin) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	reportService := NewReportService(db, p.pipeline, p.limiter)
	reportHandler := NewReportHandler(reportService, p.flags, cfg.ReportLimitPerHour)

	router.Get("/share/:token", reportHandler.GetShared)
}

// RegisterAdminRoutes mounts the ops lever for leaked share links: revoke by
// token, without the owner's involvement.
func (p *PassportPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	reportService := NewReportService(db, p.pipeline, p.limiter)
	reportHandler := NewReportHandler(reportService, p.flags, cfg.ReportLimitPerHour)

	router.Delete("/passport/shares/:token", reportHandler.RevokeShare)
}

// Package gamebrief is the team game-analysis app: coaches record box scores
// for their team's games and generate AI post-game reports from them.
package gamebrief

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

type GameBriefPlugin struct {
	flags    FlagSource
	pipeline *aireport.Pipeline
	limiter  *ratelimit.SlidingWindow
}

// New wires the plugin to the shared report pipeline and the per-user
// generation limiter. Both are shared across report-producing apps.
func New(flags FlagSource, pipeline *aireport.Pipeline, limiter *ratelimit.SlidingWindow) *GameBriefPlugin {
	return &GameBriefPlugin{flags: flags, pipeline: pipeline, limiter: limiter}
}

func (p *GameBriefPlugin) ID() string { return "gamebrief" }

func (p *GameBriefPlugin) Models() []interface{} {
	return []interface{}{
		&Team{},
		&TeamMember{},
		&Game{},
		&GameStats{},
		&GameReport{},
		&ReportFeedback{},
	}
}

func (p *GameBriefPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	teamService := NewTeamService(db)
	gameService := NewGameService(db)
	reportService := NewReportService(db, p.pipeline, p.limiter)

	teamHandler := NewTeamHandler(teamService)
	gameHandler := NewGameHandler(gameService)
	reportHandler := NewReportHandler(reportService, p.flags, cfg.ReportLimitPerHour)

	// Team routes
	router.Post("/gamebrief/teams", teamHandler.Create)
	router.Get("/gamebrief/teams", teamHandler.List)
	router.Get("/gamebrief/teams/:team_id", teamHandler.Get)
	router.Patch("/gamebrief/teams/:team_id", teamHandler.Update)
	router.Delete("/gamebrief/teams/:team_id", teamHandler.Delete)
	router.Post("/gamebrief/teams/:team_id/members", teamHandler.AddMember)
	router.Delete("/gamebrief/teams/:team_id/members/:user_id", teamHandler.RemoveMember)

	// Game routes
	router.Post("/gamebrief/teams/:team_id/games", gameHandler.Create)
	router.Get("/gamebrief/teams/:team_id/games", gameHandler.List)
	router.Get("/gamebrief/games/:game_id", gameHandler.Get)
	router.Patch("/gamebrief/games/:game_id", gameHandler.Update)
	router.Delete("/gamebrief/games/:game_id", gameHandler.Delete)

	// Stats routes
	router.Post("/gamebrief/games/:game_id/stats/basketball", gameHandler.AddStats)
	router.Get("/gamebrief/games/:game_id/stats/basketball", gameHandler.GetStats)
	router.Patch("/gamebrief/games/:game_id/stats/basketball", gameHandler.UpdateStats)
	router.Get("/gamebrief/stats/csv-template", gameHandler.CSVTemplate)
	router.Post("/gamebrief/games/:game_id/stats/import-csv", gameHandler.ImportCSV)

	// Report routes
	router.Post("/gamebrief/games/:game_id/generate-report", reportHandler.Generate)
	router.Get("/gamebrief/games/:game_id/report", reportHandler.GetForGame)
	router.Get("/gamebrief/reports/:report_id", reportHandler.GetByID)
	router.Post("/gamebrief/reports/:report_id/feedback", reportHandler.SubmitFeedback)
}

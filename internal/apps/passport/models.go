package passport

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Player is one athlete tracked by the account that created it. Players are
// private to their owner; the only outside view is a shared report.
type Player struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID  string    `gorm:"size:50;not null;index" json:"-"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Name     string                      `gorm:"size:255;not null" json:"name"`
	Grade    string                      `gorm:"size:50;not null" json:"grade"`
	Position string                      `gorm:"size:50;not null" json:"position"`
	Height   *string                     `gorm:"size:20" json:"height"`
	Team     *string                     `gorm:"size:255" json:"team"`
	Goals    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"goals"`

	CompetitionLevel *string `gorm:"size:100" json:"competition_level"`
	Role             *string `gorm:"size:100" json:"role"`
	Injuries         *string `gorm:"type:text" json:"injuries"`
	MinutesContext   *string `gorm:"type:text" json:"minutes_context"`

	CoachNotes  *string `gorm:"type:text" json:"coach_notes"`
	ParentNotes *string `gorm:"type:text" json:"parent_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Games   []PlayerGame   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reports []PlayerReport `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate ensures UUID is set before creation
func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlayerGame is one game's stat line for a player.
type PlayerGame struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID    string    `gorm:"size:50;not null;index" json:"-"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;index" json:"player_id"`

	GameDate  time.Time `gorm:"type:date;not null" json:"game_date"`
	Opponent  string    `gorm:"size:255;not null" json:"opponent"`
	GameLabel *string   `gorm:"size:100" json:"game_label"`

	Minutes int `gorm:"not null;default:0" json:"minutes"`
	Pts     int `gorm:"not null;default:0" json:"pts"`
	Reb     int `gorm:"not null;default:0" json:"reb"`
	Ast     int `gorm:"not null;default:0" json:"ast"`
	Stl     int `gorm:"not null;default:0" json:"stl"`
	Blk     int `gorm:"not null;default:0" json:"blk"`
	Tov     int `gorm:"not null;default:0" json:"tov"`
	FGM     int `gorm:"not null;default:0" json:"fgm"`
	FGA     int `gorm:"not null;default:0" json:"fga"`
	TPM     int `gorm:"not null;default:0" json:"tpm"`
	TPA     int `gorm:"not null;default:0" json:"tpa"`
	FTM     int `gorm:"not null;default:0" json:"ftm"`
	FTA     int `gorm:"not null;default:0" json:"fta"`

	Notes *string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

func (g *PlayerGame) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// PlayerReport is an AI development report built from a window of games. A
// player accumulates reports over the season; every generation is a new row.
type PlayerReport struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID    string    `gorm:"size:50;not null;index" json:"-"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;index" json:"player_id"`

	Status       string         `gorm:"size:50;not null;default:'pending'" json:"status"`
	ReportWindow *string        `gorm:"size:100" json:"report_window"`
	ReportJSON   datatypes.JSON `gorm:"type:jsonb" json:"report_json"`

	ModelUsed     *string `gorm:"size:100" json:"model_used"`
	PromptVersion *string `gorm:"size:50" json:"prompt_version"`
	ErrorText     *string `gorm:"type:text" json:"error_text"`

	// ShareToken is minted on every successful generation. A report is only
	// reachable through it while IsPublic is set.
	ShareToken *string `gorm:"size:64;uniqueIndex" json:"share_token"`
	IsPublic   bool    `gorm:"not null;default:false" json:"is_public"`

	CreatedAt time.Time `json:"created_at"`

	Feedback []PlayerReportFeedback `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *PlayerReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PlayerReportFeedback is a 1-5 rating on a generated report, one per report.
type PlayerReportFeedback struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID          string    `gorm:"size:50;not null;index" json:"-"`
	PlayerReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Rating         int       `gorm:"not null" json:"rating_1_5"`
	Accurate       *bool     `json:"accurate_bool"`
	MissingText    *string   `gorm:"type:text" json:"missing_text"`
	CreatedAt      time.Time `json:"created_at"`
}

func (f *PlayerReportFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Report lifecycle states, shared with the game reports: pending before any
// provider work, generating during it, then completed or failed.
const (
	StatusPending    = "pending"
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// =============================================================================
// Request / Response types
// =============================================================================

type CreatePlayerRequest struct {
	Name             string   `json:"name"`
	Grade            string   `json:"grade"`
	Position         string   `json:"position"`
	Height           *string  `json:"height"`
	Team             *string  `json:"team"`
	Goals            []string `json:"goals"`
	CompetitionLevel *string  `json:"competition_level"`
	Role             *string  `json:"role"`
	Injuries         *string  `json:"injuries"`
	MinutesContext   *string  `json:"minutes_context"`
	CoachNotes       *string  `json:"coach_notes"`
	ParentNotes      *string  `json:"parent_notes"`
}

type UpdatePlayerRequest struct {
	Name             *string   `json:"name"`
	Grade            *string   `json:"grade"`
	Position         *string   `json:"position"`
	Height           *string   `json:"height"`
	Team             *string   `json:"team"`
	Goals            *[]string `json:"goals"`
	CompetitionLevel *string   `json:"competition_level"`
	Role             *string   `json:"role"`
	Injuries         *string   `json:"injuries"`
	MinutesContext   *string   `json:"minutes_context"`
	CoachNotes       *string   `json:"coach_notes"`
	ParentNotes      *string   `json:"parent_notes"`
}

type PlayerWithGames struct {
	Player
	GameViews []GameView `json:"games"`
}

// Game dates travel as YYYY-MM-DD strings.
type CreateGameRequest struct {
	GameDate  string  `json:"game_date"`
	Opponent  string  `json:"opponent"`
	GameLabel *string `json:"game_label"`
	Minutes   int     `json:"minutes"`
	Pts       int     `json:"pts"`
	Reb       int     `json:"reb"`
	Ast       int     `json:"ast"`
	Stl       int     `json:"stl"`
	Blk       int     `json:"blk"`
	Tov       int     `json:"tov"`
	FGM       int     `json:"fgm"`
	FGA       int     `json:"fga"`
	TPM       int     `json:"tpm"`
	TPA       int     `json:"tpa"`
	FTM       int     `json:"ftm"`
	FTA       int     `json:"fta"`
	Notes     *string `json:"notes"`
}

type UpdateGameRequest struct {
	GameDate  *string `json:"game_date"`
	Opponent  *string `json:"opponent"`
	GameLabel *string `json:"game_label"`
	Minutes   *int    `json:"minutes"`
	Pts       *int    `json:"pts"`
	Reb       *int    `json:"reb"`
	Ast       *int    `json:"ast"`
	Stl       *int    `json:"stl"`
	Blk       *int    `json:"blk"`
	Tov       *int    `json:"tov"`
	FGM       *int    `json:"fgm"`
	FGA       *int    `json:"fga"`
	TPM       *int    `json:"tpm"`
	TPA       *int    `json:"tpa"`
	FTM       *int    `json:"ftm"`
	FTA       *int    `json:"fta"`
	Notes     *string `json:"notes"`
}

// GameView adds the shooting percentages the raw row does not store. They
// stay null until at least one attempt is recorded.
type GameView struct {
	ID        uuid.UUID `json:"id"`
	PlayerID  uuid.UUID `json:"player_id"`
	GameDate  time.Time `json:"game_date"`
	Opponent  string    `json:"opponent"`
	GameLabel *string   `json:"game_label"`

	Minutes int `json:"minutes"`
	Pts     int `json:"pts"`
	Reb     int `json:"reb"`
	Ast     int `json:"ast"`
	Stl     int `json:"stl"`
	Blk     int `json:"blk"`
	Tov     int `json:"tov"`
	FGM     int `json:"fgm"`
	FGA     int `json:"fga"`
	TPM     int `json:"tpm"`
	TPA     int `json:"tpa"`
	FTM     int `json:"ftm"`
	FTA     int `json:"fta"`

	Notes *string `json:"notes"`

	FGPct    *float64 `json:"fg_pct"`
	ThreePct *float64 `json:"three_pct"`
	FTPct    *float64 `json:"ft_pct"`

	CreatedAt time.Time `json:"created_at"`
}

// GenerateReportRequest optionally pins the games to analyze. Without ids
// the most recent five games are used.
type GenerateReportRequest struct {
	GameIDs []uuid.UUID `json:"game_ids"`
}

type ShareReportRequest struct {
	IsPublic *bool `json:"is_public"`
}

// PlayerSummary is the slice of a player profile that may leave the owner's
// account with a shared report. Context and notes never do.
type PlayerSummary struct {
	Name     string   `json:"name"`
	Grade    string   `json:"grade"`
	Position string   `json:"position"`
	Height   *string  `json:"height"`
	Team     *string  `json:"team"`
	Goals    []string `json:"goals"`
}

// SharedReportView is the public payload behind a share token.
type SharedReportView struct {
	ID            uuid.UUID      `json:"id"`
	Status        string         `json:"status"`
	ReportWindow  *string        `json:"report_window"`
	ReportJSON    datatypes.JSON `json:"report_json"`
	PromptVersion *string        `json:"prompt_version"`
	CreatedAt     time.Time      `json:"created_at"`
	Player        PlayerSummary  `json:"player"`
}

type SubmitFeedbackRequest struct {
	Rating      int     `json:"rating_1_5"`
	Accurate    *bool   `json:"accurate_bool"`
	MissingInfo *string `json:"missing_text"`
}

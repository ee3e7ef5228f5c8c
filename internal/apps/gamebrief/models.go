package gamebrief

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Team is a coached roster. The creating user becomes its owner and gets an
// owner membership row in the same transaction.
type Team struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID       string    `gorm:"size:50;not null;index" json:"-"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Sport       string    `gorm:"size:50;not null;default:'basketball'" json:"sport"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Members []TeamMember `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Games   []Game       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate ensures UUID is set before creation
func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TeamMember links a user to a team with a role (owner, coach, member).
type TeamMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID     string    `gorm:"size:50;not null;index" json:"-"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_team_member" json:"team_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_team_member" json:"user_id"`
	Role      string    `gorm:"size:50;not null;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Game is one scheduled or played game for a team.
type Game struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID        string    `gorm:"size:50;not null;index" json:"-"`
	TeamID       uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	OpponentName string    `gorm:"size:255;not null" json:"opponent_name"`
	GameDate     time.Time `gorm:"type:date;not null" json:"game_date"`
	Location     *string   `gorm:"size:255" json:"location"`
	Notes        *string   `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`

	Stats   *GameStats   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reports []GameReport `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// GameStats is the single box score attached to a game.
type GameStats struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID  string    `gorm:"size:50;not null;index" json:"-"`
	GameID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"game_id"`

	PointsFor     int `gorm:"not null;default:0" json:"points_for"`
	PointsAgainst int `gorm:"not null;default:0" json:"points_against"`

	FGMade    int `gorm:"not null;default:0" json:"fg_made"`
	FGAtt     int `gorm:"not null;default:0" json:"fg_att"`
	ThreeMade int `gorm:"not null;default:0" json:"three_made"`
	ThreeAtt  int `gorm:"not null;default:0" json:"three_att"`
	FTMade    int `gorm:"not null;default:0" json:"ft_made"`
	FTAtt     int `gorm:"not null;default:0" json:"ft_att"`

	ReboundsOff int `gorm:"not null;default:0" json:"rebounds_off"`
	ReboundsDef int `gorm:"not null;default:0" json:"rebounds_def"`
	Assists     int `gorm:"not null;default:0" json:"assists"`
	Steals      int `gorm:"not null;default:0" json:"steals"`
	Blocks      int `gorm:"not null;default:0" json:"blocks"`
	Turnovers   int `gorm:"not null;default:0" json:"turnovers"`
	Fouls       int `gorm:"not null;default:0" json:"fouls"`

	PaceEstimate *int `json:"pace_estimate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *GameStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// GameReport is the AI post-game analysis for a game. At most one row per
// game; forced regeneration reuses the row.
type GameReport struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID         string         `gorm:"size:50;not null;index" json:"-"`
	GameID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"game_id"`
	Status        string         `gorm:"size:50;not null;default:'pending'" json:"status"`
	ReportJSON    datatypes.JSON `gorm:"type:jsonb" json:"report_json,omitempty"`
	ModelUsed     *string        `gorm:"size:100" json:"model_used"`
	PromptVersion *string        `gorm:"size:50" json:"prompt_version"`
	ErrorText     *string        `gorm:"type:text" json:"error_text"`
	CreatedAt     time.Time      `json:"created_at"`

	Feedback []ReportFeedback `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *GameReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReportFeedback is a 1-5 rating on a generated report, one per report.
type ReportFeedback struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppID        string    `gorm:"size:50;not null;index" json:"-"`
	GameReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Rating       int       `gorm:"not null" json:"rating_1_5"`
	Accurate     *bool     `json:"accurate_bool"`
	MissingText  *string   `gorm:"type:text" json:"missing_text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (f *ReportFeedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Report lifecycle states. A report is created pending, moves to generating
// before the provider call, and ends completed or failed.
const (
	StatusPending    = "pending"
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// =============================================================================
// Request / Response types
// =============================================================================

type CreateTeamRequest struct {
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

type UpdateTeamRequest struct {
	Name *string `json:"name"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TeamMemberView struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TeamID    uuid.UUID `json:"team_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UserEmail string    `json:"user_email"`
}

type TeamWithMembers struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Sport     string           `json:"sport"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Members   []TeamMemberView `json:"members"`
}

// Game dates travel as YYYY-MM-DD strings.
type CreateGameRequest struct {
	OpponentName string  `json:"opponent_name"`
	GameDate     string  `json:"game_date"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
}

type UpdateGameRequest struct {
	OpponentName *string `json:"opponent_name"`
	GameDate     *string `json:"game_date"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
}

type GameView struct {
	ID           uuid.UUID `json:"id"`
	TeamID       uuid.UUID `json:"team_id"`
	OpponentName string    `json:"opponent_name"`
	GameDate     time.Time `json:"game_date"`
	Location     *string   `json:"location"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	HasStats     bool      `json:"has_stats"`
	HasReport    bool      `json:"has_report"`
}

type GameWithStats struct {
	ID              uuid.UUID  `json:"id"`
	TeamID          uuid.UUID  `json:"team_id"`
	OpponentName    string     `json:"opponent_name"`
	GameDate        time.Time  `json:"game_date"`
	Location        *string    `json:"location"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	BasketballStats *StatsView `json:"basketball_stats"`
}

// CreateStatsRequest requires the score; every other stat defaults to zero.
type CreateStatsRequest struct {
	PointsFor     *int `json:"points_for"`
	PointsAgainst *int `json:"points_against"`
	FGMade        int  `json:"fg_made"`
	FGAtt         int  `json:"fg_att"`
	ThreeMade     int  `json:"three_made"`
	ThreeAtt      int  `json:"three_att"`
	FTMade        int  `json:"ft_made"`
	FTAtt         int  `json:"ft_att"`
	ReboundsOff   int  `json:"rebounds_off"`
	ReboundsDef   int  `json:"rebounds_def"`
	Assists       int  `json:"assists"`
	Steals        int  `json:"steals"`
	Blocks        int  `json:"blocks"`
	Turnovers     int  `json:"turnovers"`
	Fouls         int  `json:"fouls"`
	PaceEstimate  *int `json:"pace_estimate"`
}

type UpdateStatsRequest struct {
	PointsFor     *int `json:"points_for"`
	PointsAgainst *int `json:"points_against"`
	FGMade        *int `json:"fg_made"`
	FGAtt         *int `json:"fg_att"`
	ThreeMade     *int `json:"three_made"`
	ThreeAtt      *int `json:"three_att"`
	FTMade        *int `json:"ft_made"`
	FTAtt         *int `json:"ft_att"`
	ReboundsOff   *int `json:"rebounds_off"`
	ReboundsDef   *int `json:"rebounds_def"`
	Assists       *int `json:"assists"`
	Steals        *int `json:"steals"`
	Blocks        *int `json:"blocks"`
	Turnovers     *int `json:"turnovers"`
	Fouls         *int `json:"fouls"`
	PaceEstimate  *int `json:"pace_estimate"`
}

// StatsView adds the derived numbers the raw row does not store. Percentages
// stay null until at least one attempt is recorded.
type StatsView struct {
	ID            uuid.UUID `json:"id"`
	GameID        uuid.UUID `json:"game_id"`
	PointsFor     int       `json:"points_for"`
	PointsAgainst int       `json:"points_against"`
	FGMade        int       `json:"fg_made"`
	FGAtt         int       `json:"fg_att"`
	ThreeMade     int       `json:"three_made"`
	ThreeAtt      int       `json:"three_att"`
	FTMade        int       `json:"ft_made"`
	FTAtt         int       `json:"ft_att"`
	ReboundsOff   int       `json:"rebounds_off"`
	ReboundsDef   int       `json:"rebounds_def"`
	Assists       int       `json:"assists"`
	Steals        int       `json:"steals"`
	Blocks        int       `json:"blocks"`
	Turnovers     int       `json:"turnovers"`
	Fouls         int       `json:"fouls"`
	PaceEstimate  *int      `json:"pace_estimate"`

	TotalRebounds   int      `json:"total_rebounds"`
	FGPercentage    *float64 `json:"fg_percentage"`
	ThreePercentage *float64 `json:"three_percentage"`
	FTPercentage    *float64 `json:"ft_percentage"`

	CreatedAt time.Time `json:"created_at"`
}

type GenerateReportRequest struct {
	ForceRegenerate   bool   `json:"force_regenerate"`
	AdditionalContext string `json:"additional_context"`
}

type GenerateReportResponse struct {
	Report         *ReportView `json:"report"`
	WasRegenerated bool        `json:"was_regenerated"`
}

// ReportView flattens the stored report body for clients: content fields from
// report_json plus generation metadata. Pending and failed reports carry
// empty content.
type ReportView struct {
	ID     uuid.UUID `json:"id"`
	GameID uuid.UUID `json:"game_id"`
	Status string    `json:"status"`

	Summary              *string          `json:"summary"`
	KeyInsights          []keyInsight     `json:"key_insights"`
	ActionItems          []actionItem     `json:"action_items"`
	PracticeFocus        *string          `json:"practice_focus"`
	QuestionsForNextGame []reportQuestion `json:"questions_for_next_game"`

	ModelUsed        *string  `json:"model_used"`
	PromptTokens     *int     `json:"prompt_tokens"`
	CompletionTokens *int     `json:"completion_tokens"`
	GenerationTimeMs *int     `json:"generation_time_ms"`
	RiskFlags        []string `json:"risk_flags"`
	ErrorText        *string  `json:"error_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type SubmitFeedbackRequest struct {
	Rating      int     `json:"rating_1_5"`
	Accurate    *bool   `json:"accurate_bool"`
	MissingInfo *string `json:"missing_text"`
}

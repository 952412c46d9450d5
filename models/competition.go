package models

import "time"

// CompetitionStatus represents competition lifecycle statuses, matching the ENUM in the DB.
type CompetitionStatus string

const (
	CompetitionStatusRegistration CompetitionStatus = "registration"
	CompetitionStatusDrawComplete CompetitionStatus = "draw_complete"
	CompetitionStatusActive       CompetitionStatus = "active"
	CompetitionStatusCompleted    CompetitionStatus = "completed"
	CompetitionStatusCanceled     CompetitionStatus = "canceled"
)

// Competition is a single tournament run by the club. The points-per-outcome
// configuration drives both the incremental stat updates and the standings
// recalculation.
type Competition struct {
	ID              int               `json:"id" db:"id"`
	ClubID          int               `json:"club_id" db:"club_id"`
	Name            string            `json:"name" db:"name"`
	Description     *string           `json:"description,omitempty" db:"description"`
	Status          CompetitionStatus `json:"status" db:"status"`
	PointsForWin    int               `json:"points_for_win" db:"points_for_win"`
	PointsForDraw   int               `json:"points_for_draw" db:"points_for_draw"`
	PointsForLoss   int               `json:"points_for_loss" db:"points_for_loss"`
	HomeAndAway     bool              `json:"home_and_away" db:"home_and_away"`
	TiebreakerRules *string           `json:"tiebreaker_rules,omitempty" db:"tiebreaker_rules"`
	StartDate       *time.Time        `json:"start_date,omitempty" db:"start_date"`
	EndDate         *time.Time        `json:"end_date,omitempty" db:"end_date"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	LogoKey         *string           `json:"-" db:"logo_key"`
	LogoURL         *string           `json:"logo_url,omitempty" db:"-"`

	// Optional linked entities, not mapped directly.
	Rounds    []CompetitionRound    `json:"rounds,omitempty" db:"-"`
	Teams     []CompetitionTeam     `json:"teams,omitempty" db:"-"`
	Matches   []Match               `json:"matches,omitempty" db:"-"`
	Standings []CompetitionStanding `json:"standings,omitempty" db:"-"`
}

// DefaultPointsForWin/Draw/Loss are applied when a competition row carries zeroes
// for all three awards (legacy rows created before the columns existed).
const (
	DefaultPointsForWin  = 3
	DefaultPointsForDraw = 1
	DefaultPointsForLoss = 0
)

// PointsFor returns the configured award for a match result from this
// competition's perspective of the given team side.
func (c *Competition) PointsFor(outcome TeamOutcome) int {
	switch outcome {
	case OutcomeWin:
		return c.PointsForWin
	case OutcomeDraw:
		return c.PointsForDraw
	case OutcomeLoss:
		return c.PointsForLoss
	}
	return 0
}

// TeamOutcome is a match result seen from one team's side.
type TeamOutcome string

const (
	OutcomeWin  TeamOutcome = "win"
	OutcomeDraw TeamOutcome = "draw"
	OutcomeLoss TeamOutcome = "loss"
)

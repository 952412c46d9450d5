package models

import "time"

// CompetitionTeam is a club team entered into a competition, together with its
// running statistics. The statistics are derived state: they must always equal
// a function of the completed matches involving the team. RecalculateStandings
// is the authoritative writer; result recording only keeps them warm.
type CompetitionTeam struct {
	ID            int     `json:"id" db:"id"`
	CompetitionID int     `json:"competition_id" db:"competition_id"`
	ClubTeamID    int     `json:"club_team_id" db:"club_team_id"`
	Name          string  `json:"name" db:"name"`
	Group         *string `json:"group,omitempty" db:"group_name"`
	SeedNumber    *int    `json:"seed_number,omitempty" db:"seed_number"`
	DrawPosition  *int    `json:"draw_position,omitempty" db:"draw_position"`
	Confirmed     bool    `json:"confirmed" db:"confirmed"`

	Played         int `json:"played" db:"played"`
	Won            int `json:"won" db:"won"`
	Drawn          int `json:"drawn" db:"drawn"`
	Lost           int `json:"lost" db:"lost"`
	GoalsFor       int `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int `json:"goals_against" db:"goals_against"`
	GoalDifference int `json:"goal_difference" db:"goal_difference"`
	Points         int `json:"points" db:"points"`
	Position       int `json:"position" db:"position"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	LogoKey   *string   `json:"-" db:"logo_key"`
	LogoURL   *string   `json:"logo_url,omitempty" db:"-"`
}

// GroupKey buckets teams for standings purposes. Teams with no group share the
// empty-string group.
func (t *CompetitionTeam) GroupKey() string {
	if t.Group == nil {
		return ""
	}
	return *t.Group
}

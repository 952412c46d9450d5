package models

import "time"

// CompetitionStanding is one fully derived table row per team per group.
// Recalculation deletes every row for the competition and inserts a fresh set;
// rows own no identity across recalculations.
type CompetitionStanding struct {
	ID                int       `json:"id" db:"id"`
	CompetitionID     int       `json:"competition_id" db:"competition_id"`
	CompetitionTeamID int       `json:"competition_team_id" db:"competition_team_id"`
	Group             string    `json:"group" db:"group_name"`
	Position          int       `json:"position" db:"position"`
	Played            int       `json:"played" db:"played"`
	Won               int       `json:"won" db:"won"`
	Drawn             int       `json:"drawn" db:"drawn"`
	Lost              int       `json:"lost" db:"lost"`
	GoalsFor          int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst      int       `json:"goals_against" db:"goals_against"`
	GoalDifference    int       `json:"goal_difference" db:"goal_difference"`
	Points            int       `json:"points" db:"points"`
	Form              *string   `json:"form,omitempty" db:"form"`
	Zone              *string   `json:"zone,omitempty" db:"zone"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	Team *CompetitionTeam `json:"team,omitempty" db:"-"`
}

package models

import "time"

// CompetitionRound is an ordered segment of a competition's schedule.
// Rounds are created only by fixture generation.
type CompetitionRound struct {
	ID            int        `json:"id" db:"id"`
	CompetitionID int        `json:"competition_id" db:"competition_id"`
	RoundNumber   int        `json:"round_number" db:"round_number"`
	Name          *string    `json:"name,omitempty" db:"name"`
	StartDate     *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty" db:"end_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}

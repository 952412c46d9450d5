package models

import "time"

// MatchEvent is a timestamped occurrence within a match. EventType is a
// free-text tag ("goal", "penalty", "yellowcard", ...) entered by admins.
type MatchEvent struct {
	ID                    int       `json:"id" db:"id"`
	MatchID               int       `json:"match_id" db:"match_id"`
	EventType             string    `json:"event_type" db:"event_type"`
	Minute                int       `json:"minute" db:"minute"`
	ParticipantID         *int      `json:"participant_id,omitempty" db:"participant_id"`
	TeamID                *int      `json:"team_id,omitempty" db:"team_id"`
	AssistByParticipantID *int      `json:"assist_by_participant_id,omitempty" db:"assist_by_participant_id"`
	Description           *string   `json:"description,omitempty" db:"description"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

package models

import "time"

// MatchStatus matches the ENUM in the DB.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusPostponed MatchStatus = "postponed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// MatchResult is the derived outcome of a match. It is computed from the
// primary scores only; extra-time and penalty scores never change it.
type MatchResult string

const (
	ResultNotPlayed MatchResult = "not_played"
	ResultHomeWin   MatchResult = "home_win"
	ResultAwayWin   MatchResult = "away_win"
	ResultDraw      MatchResult = "draw"
)

// Match belongs to one competition and optionally one round. A nil team
// reference on either side marks a bye; fixture generation never persists bye
// matches, but directly created matches may carry them.
type Match struct {
	ID            int         `json:"id" db:"id"`
	CompetitionID int         `json:"competition_id" db:"competition_id"`
	RoundID       *int        `json:"round_id,omitempty" db:"round_id"`
	HomeTeamID    *int        `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID    *int        `json:"away_team_id,omitempty" db:"away_team_id"`
	MatchNumber   int         `json:"match_number" db:"match_number"`
	LegNumber     *int        `json:"leg_number,omitempty" db:"leg_number"`
	KickoffTime   time.Time   `json:"kickoff_time" db:"kickoff_time"`
	Status        MatchStatus `json:"status" db:"status"`
	Result        MatchResult `json:"result" db:"result"`

	HomeScore          *int `json:"home_score,omitempty" db:"home_score"`
	AwayScore          *int `json:"away_score,omitempty" db:"away_score"`
	HomeScoreHalfTime  *int `json:"home_score_half_time,omitempty" db:"home_score_half_time"`
	AwayScoreHalfTime  *int `json:"away_score_half_time,omitempty" db:"away_score_half_time"`
	HomeScoreExtraTime *int `json:"home_score_extra_time,omitempty" db:"home_score_extra_time"`
	AwayScoreExtraTime *int `json:"away_score_extra_time,omitempty" db:"away_score_extra_time"`
	HomePenaltyScore   *int `json:"home_penalty_score,omitempty" db:"home_penalty_score"`
	AwayPenaltyScore   *int `json:"away_penalty_score,omitempty" db:"away_penalty_score"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InvolvesTeam reports whether the given competition team plays in this match.
func (m *Match) InvolvesTeam(teamID int) bool {
	return (m.HomeTeamID != nil && *m.HomeTeamID == teamID) ||
		(m.AwayTeamID != nil && *m.AwayTeamID == teamID)
}

// OutcomeFor translates the match result into the given team's perspective.
// The second return is false when the team does not play in the match or the
// match has no derived result yet.
func (m *Match) OutcomeFor(teamID int) (TeamOutcome, bool) {
	if !m.InvolvesTeam(teamID) || m.Result == ResultNotPlayed || m.Result == "" {
		return "", false
	}
	isHome := m.HomeTeamID != nil && *m.HomeTeamID == teamID
	switch m.Result {
	case ResultDraw:
		return OutcomeDraw, true
	case ResultHomeWin:
		if isHome {
			return OutcomeWin, true
		}
		return OutcomeLoss, true
	case ResultAwayWin:
		if isHome {
			return OutcomeLoss, true
		}
		return OutcomeWin, true
	}
	return "", false
}

// DeriveResult computes the outcome from the primary scores.
func DeriveResult(homeScore, awayScore int) MatchResult {
	switch {
	case homeScore > awayScore:
		return ResultHomeWin
	case awayScore > homeScore:
		return ResultAwayWin
	default:
		return ResultDraw
	}
}

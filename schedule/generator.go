package schedule

import (
	"time"

	"github.com/clubsport/competition-system/models"
)

// FixtureOptions controls fixture generation for one competition.
type FixtureOptions struct {
	RandomizeOrder    bool
	HomeAndAway       bool
	StartDate         time.Time
	DaysBetweenRounds int
}

// DrawOptions controls draw-position assignment. RandomDraw and SeedTeams are
// mutually exclusive in intent; RandomDraw wins if both are set.
type DrawOptions struct {
	RandomDraw bool
	SeedTeams  bool
}

// Pairing is one planned meeting between two confirmed teams.
type Pairing struct {
	HomeTeamID int
	AwayTeamID int
}

// PlannedRound is one round of a fixture plan. LegNumber is 0 for a single
// round-robin, 1 or 2 when the plan carries home-and-away legs.
type PlannedRound struct {
	RoundNumber int
	LegNumber   int
	StartDate   time.Time
	Pairings    []Pairing
}

// FixturePlan is the full output of the scheduler: every round with its
// pairings, byes already dropped.
type FixturePlan struct {
	Rounds       []PlannedRound
	TotalMatches int
}

// FixtureScheduler produces a fixture plan from an ordered list of confirmed
// teams.
type FixtureScheduler interface {
	BuildPlan(teams []*models.CompetitionTeam, opts FixtureOptions) (*FixturePlan, error)

	GetName() string
}

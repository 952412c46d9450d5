package schedule

import (
	"errors"
	"math/rand"
	"time"

	"github.com/clubsport/competition-system/models"
)

// ErrInsufficientTeams is returned when fewer than two confirmed teams are
// available for scheduling or a draw.
var ErrInsufficientTeams = errors.New("at least 2 confirmed teams are required")

// RoundRobinScheduler implements the circle method: one slot is held fixed and
// the rest rotate, so every team meets every other exactly once per leg.
type RoundRobinScheduler struct {
	rng *rand.Rand
}

func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewRoundRobinSchedulerWithRand fixes the random source, for deterministic
// scheduling in tests.
func NewRoundRobinSchedulerWithRand(rng *rand.Rand) *RoundRobinScheduler {
	return &RoundRobinScheduler{rng: rng}
}

func (s *RoundRobinScheduler) GetName() string {
	return "RoundRobin"
}

// BuildPlan pairs the given teams into rounds. For an odd team count a bye
// slot pads the working list to even length; pairings against the bye are
// dropped. With HomeAndAway set, a mirrored second leg follows the first,
// offset by one full leg of rounds.
func (s *RoundRobinScheduler) BuildPlan(teams []*models.CompetitionTeam, opts FixtureOptions) (*FixturePlan, error) {
	if len(teams) < 2 {
		return nil, ErrInsufficientTeams
	}

	working := make([]*models.CompetitionTeam, len(teams))
	copy(working, teams)

	if opts.RandomizeOrder {
		s.rng.Shuffle(len(working), func(i, j int) {
			working[i], working[j] = working[j], working[i]
		})
	}

	// Pad with a bye slot so the rotation works on an even list.
	if len(working)%2 != 0 {
		working = append(working, nil)
	}

	n := len(working)
	totalRounds := n - 1
	matchesPerRound := n / 2

	plan := &FixturePlan{}
	for r := 0; r < totalRounds; r++ {
		round := PlannedRound{
			RoundNumber: r + 1,
			StartDate:   roundStart(opts, r),
		}
		if opts.HomeAndAway {
			round.LegNumber = 1
		}
		for i := 0; i < matchesPerRound; i++ {
			home, away := working[i], working[n-1-i]
			if home == nil || away == nil {
				continue // bye, no match
			}
			round.Pairings = append(round.Pairings, Pairing{
				HomeTeamID: home.ID,
				AwayTeamID: away.ID,
			})
		}
		plan.Rounds = append(plan.Rounds, round)
		plan.TotalMatches += len(round.Pairings)

		rotate(working)
	}

	if opts.HomeAndAway {
		// Mirror every first-leg round into a second block with home and away
		// swapped.
		firstLeg := plan.Rounds
		for _, src := range firstLeg {
			mirrored := PlannedRound{
				RoundNumber: src.RoundNumber + totalRounds,
				LegNumber:   2,
				StartDate:   roundStart(opts, src.RoundNumber+totalRounds-1),
			}
			for _, p := range src.Pairings {
				mirrored.Pairings = append(mirrored.Pairings, Pairing{
					HomeTeamID: p.AwayTeamID,
					AwayTeamID: p.HomeTeamID,
				})
			}
			plan.Rounds = append(plan.Rounds, mirrored)
			plan.TotalMatches += len(mirrored.Pairings)
		}
	}

	return plan, nil
}

// rotate holds slot 0 fixed, moves the last element to index 1 and shifts the
// rest up by one. Standard round-robin rotation.
func rotate(list []*models.CompetitionTeam) {
	if len(list) < 3 {
		return
	}
	last := list[len(list)-1]
	copy(list[2:], list[1:len(list)-1])
	list[1] = last
}

func roundStart(opts FixtureOptions, roundIndex int) time.Time {
	if opts.StartDate.IsZero() {
		return time.Time{}
	}
	return opts.StartDate.AddDate(0, 0, roundIndex*opts.DaysBetweenRounds)
}

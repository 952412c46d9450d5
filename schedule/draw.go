package schedule

import (
	"math/rand"
	"sort"

	"github.com/clubsport/competition-system/models"
)

// OrderForDraw returns the teams in draw order without mutating the input.
// RandomDraw shuffles uniformly; SeedTeams sorts ascending by seed number with
// unseeded teams last; with neither option set the input order is kept.
func OrderForDraw(teams []*models.CompetitionTeam, opts DrawOptions, rng *rand.Rand) []*models.CompetitionTeam {
	ordered := make([]*models.CompetitionTeam, len(teams))
	copy(ordered, teams)

	switch {
	case opts.RandomDraw:
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	case opts.SeedTeams:
		sort.SliceStable(ordered, func(i, j int) bool {
			si, sj := ordered[i].SeedNumber, ordered[j].SeedNumber
			switch {
			case si == nil && sj == nil:
				return false
			case si == nil:
				return false
			case sj == nil:
				return true
			default:
				return *si < *sj
			}
		})
	}

	return ordered
}

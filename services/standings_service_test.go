package services

import (
	"context"
	"testing"
	"time"

	"github.com/clubsport/competition-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedMatch(id, competitionID, homeID, awayID, homeScore, awayScore int, kickoff time.Time) *models.Match {
	return &models.Match{
		ID:            id,
		CompetitionID: competitionID,
		HomeTeamID:    &homeID,
		AwayTeamID:    &awayID,
		MatchNumber:   1,
		KickoffTime:   kickoff,
		Status:        models.MatchStatusCompleted,
		Result:        models.DeriveResult(homeScore, awayScore),
		HomeScore:     &homeScore,
		AwayScore:     &awayScore,
	}
}

// fourTeamSeason is a completed single round-robin: A beats D, B and C draw,
// A beats C, D beats B, A beats B, C and D draw.
func fourTeamSeason(competitionID int) []*models.Match {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 15, 0, 0, 0, time.UTC)
	}
	return []*models.Match{
		completedMatch(1, competitionID, 1, 4, 2, 0, day(1)),
		completedMatch(2, competitionID, 2, 3, 1, 1, day(1)),
		completedMatch(3, competitionID, 1, 3, 3, 1, day(8)),
		completedMatch(4, competitionID, 4, 2, 2, 1, day(8)),
		completedMatch(5, competitionID, 1, 2, 1, 0, day(15)),
		completedMatch(6, competitionID, 3, 4, 2, 2, day(15)),
	}
}

func newStandingsServiceForTest(
	t *testing.T,
	competitions *fakeCompetitionRepo,
	teams *fakeTeamRepo,
	matches *fakeMatchRepo,
	standings *fakeStandingRepo,
) (StandingsService, func()) {
	t.Helper()
	db, mock := newTxDB(t)
	svc := NewStandingsService(db, competitions, teams, matches, standings, nil, NewLockRegistry(), testLogger())
	return svc, func() { expectTx(mock) }
}

func TestRecalculateStandingsFourTeamSeason(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Alpha"),
		confirmedTeam(2, 1, "Bravo"),
		confirmedTeam(3, 1, "Charlie"),
		confirmedTeam(4, 1, "Delta"),
	)
	matches := newFakeMatchRepo(fourTeamSeason(1)...)
	standings := newFakeStandingRepo()
	svc, nextTx := newStandingsServiceForTest(t, competitions, teams, matches, standings)

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))

	rows, err := svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Alpha wins all three, Delta edges Charlie on points, Bravo trails.
	type want struct {
		teamID, points, played, gd, gf int
	}
	wants := []want{
		{teamID: 1, points: 9, played: 3, gd: 5, gf: 6},
		{teamID: 4, points: 4, played: 3, gd: -1, gf: 4},
		{teamID: 3, points: 2, played: 3, gd: -2, gf: 4},
		{teamID: 2, points: 1, played: 3, gd: -2, gf: 2},
	}
	for i, w := range wants {
		row := rows[i]
		assert.Equal(t, i+1, row.Position, "position %d", i+1)
		assert.Equal(t, w.teamID, row.CompetitionTeamID)
		assert.Equal(t, w.points, row.Points)
		assert.Equal(t, w.played, row.Played)
		assert.Equal(t, w.gd, row.GoalDifference)
		assert.Equal(t, w.gf, row.GoalsFor)
		assert.Equal(t, row.Won+row.Drawn+row.Lost, row.Played)
		assert.Equal(t, row.GoalsFor-row.GoalsAgainst, row.GoalDifference)
		assert.Equal(t, 3*row.Won+row.Drawn, row.Points)
	}

	// Form letters read most recent first.
	require.NotNil(t, rows[0].Form)
	assert.Equal(t, "WWW", *rows[0].Form)
	require.NotNil(t, rows[3].Form)
	assert.Equal(t, "LLD", *rows[3].Form)

	// The computed statistics are mirrored onto the team rows.
	assert.Equal(t, 9, teams.teams[1].Points)
	assert.Equal(t, 1, teams.teams[1].Position)
	assert.Equal(t, 4, teams.teams[4].Points)
}

func TestRecalculateStandingsIsIdempotent(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Alpha"),
		confirmedTeam(2, 1, "Bravo"),
		confirmedTeam(3, 1, "Charlie"),
		confirmedTeam(4, 1, "Delta"),
	)
	matches := newFakeMatchRepo(fourTeamSeason(1)...)
	standings := newFakeStandingRepo()
	svc, nextTx := newStandingsServiceForTest(t, competitions, teams, matches, standings)

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))
	first, err := svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))
	second, err := svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].CompetitionTeamID, second[i].CompetitionTeamID)
		assert.Equal(t, first[i].Position, second[i].Position)
		assert.Equal(t, first[i].Points, second[i].Points)
		assert.Equal(t, first[i].GoalDifference, second[i].GoalDifference)
	}
}

func TestRecalculateStandingsTieBreakChain(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Zulu"),
		confirmedTeam(2, 1, "Echo"),
		confirmedTeam(3, 1, "Mike"),
		confirmedTeam(4, 1, "Kilo"),
	)
	day := func(d int) time.Time {
		return time.Date(2026, time.May, d, 12, 0, 0, 0, time.UTC)
	}
	// Zulu and Echo finish on equal points and goal difference; Echo scores
	// more. Mike and Kilo are identical on every metric, so name decides.
	matches := newFakeMatchRepo(
		completedMatch(1, 1, 1, 3, 1, 0, day(1)),
		completedMatch(2, 1, 2, 4, 2, 1, day(1)),
		completedMatch(3, 1, 3, 2, 1, 1, day(8)),
		completedMatch(4, 1, 4, 1, 0, 0, day(8)),
	)
	standings := newFakeStandingRepo()
	svc, nextTx := newStandingsServiceForTest(t, competitions, teams, matches, standings)

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))
	rows, err := svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Echo 4pts GF3, Zulu 4pts GF1, then Kilo before Mike on name alone.
	assert.Equal(t, 2, rows[0].CompetitionTeamID)
	assert.Equal(t, 1, rows[1].CompetitionTeamID)
	assert.Equal(t, 4, rows[2].CompetitionTeamID)
	assert.Equal(t, 3, rows[3].CompetitionTeamID)
}

func TestRecalculateStandingsGroups(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	groupA, groupB := "A", "B"
	teamOne := confirmedTeam(1, 1, "Alpha")
	teamTwo := confirmedTeam(2, 1, "Bravo")
	teamThree := confirmedTeam(3, 1, "Charlie")
	teamFour := confirmedTeam(4, 1, "Delta")
	teamOne.Group = &groupA
	teamTwo.Group = &groupA
	teamThree.Group = &groupB
	teamFour.Group = &groupB
	teams := newFakeTeamRepo(teamOne, teamTwo, teamThree, teamFour)
	day := time.Date(2026, time.June, 6, 16, 0, 0, 0, time.UTC)
	matches := newFakeMatchRepo(
		completedMatch(1, 1, 1, 2, 3, 0, day),
		completedMatch(2, 1, 3, 4, 1, 2, day),
	)
	standings := newFakeStandingRepo()
	svc, nextTx := newStandingsServiceForTest(t, competitions, teams, matches, standings)

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))

	all, err := svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "A", all[0].Group)
	assert.Equal(t, "B", all[2].Group)

	onlyB, err := svc.GetStandings(context.Background(), 1, &groupB)
	require.NoError(t, err)
	require.Len(t, onlyB, 2)
	assert.Equal(t, 4, onlyB[0].CompetitionTeamID)
	assert.Equal(t, 1, onlyB[0].Position)
	assert.Equal(t, 3, onlyB[1].CompetitionTeamID)
}

func TestRecalculateStandingsMissingCompetitionIsNoOp(t *testing.T) {
	standings := newFakeStandingRepo()
	svc, _ := newStandingsServiceForTest(t, newFakeCompetitionRepo(), newFakeTeamRepo(), newFakeMatchRepo(), standings)

	require.NoError(t, svc.RecalculateStandings(context.Background(), 404))
	assert.Empty(t, standings.standings)
}

func TestRecalculateStandingsReplacesStaleRows(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Alpha"),
		confirmedTeam(2, 1, "Bravo"),
	)
	matches := newFakeMatchRepo()
	standings := newFakeStandingRepo()
	svc, nextTx := newStandingsServiceForTest(t, competitions, teams, matches, standings)

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))
	rows, err := svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Played)

	// A result arrives; recalculation replaces the zero rows.
	matches.matches[1] = completedMatch(1, 1, 1, 2, 4, 0,
		time.Date(2026, time.July, 1, 18, 0, 0, 0, time.UTC))

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))
	rows, err = svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].CompetitionTeamID)
	assert.Equal(t, 3, rows[0].Points)
	assert.Equal(t, 1, rows[0].Played)
	assert.Equal(t, 0, rows[1].Points)
}

func TestGetStandingsAttachesTeams(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Alpha"),
		confirmedTeam(2, 1, "Bravo"),
	)
	matches := newFakeMatchRepo()
	standings := newFakeStandingRepo()
	svc, nextTx := newStandingsServiceForTest(t, competitions, teams, matches, standings)

	nextTx()
	require.NoError(t, svc.RecalculateStandings(context.Background(), 1))

	rows, err := svc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.NotNil(t, row.Team)
		assert.Equal(t, row.CompetitionTeamID, row.Team.ID)
	}
}

// End to end: every result enters through recording, then a recalculation
// rebuilds the table. The incremental stats and the recomputed table must
// agree.
func TestRecordResultsThenRecalculate(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Alpha"),
		confirmedTeam(2, 1, "Bravo"),
		confirmedTeam(3, 1, "Charlie"),
		confirmedTeam(4, 1, "Delta"),
	)
	matches := newFakeMatchRepo()
	standings := newFakeStandingRepo()
	locks := NewLockRegistry()
	db, mock := newTxDB(t)

	resultSvc := NewResultService(db, competitions, teams, matches, locks, testLogger())
	standingsSvc := NewStandingsService(db, competitions, teams, matches, standings, nil, locks, testLogger())

	fixtures := []struct {
		home, away           int
		homeScore, awayScore int
	}{
		{1, 4, 2, 0},
		{2, 3, 1, 1},
		{1, 3, 3, 1},
		{4, 2, 2, 1},
		{1, 2, 1, 0},
		{3, 4, 2, 2},
	}
	for i, f := range fixtures {
		m := scheduledMatch(i+1, 1, f.home, f.away)
		m.KickoffTime = m.KickoffTime.AddDate(0, 0, (i/2)*7)
		matches.matches[m.ID] = m

		expectTx(mock)
		_, err := resultSvc.RecordMatchResult(context.Background(), m.ID, RecordResultInput{
			HomeScore: f.homeScore,
			AwayScore: f.awayScore,
		})
		require.NoError(t, err)
	}

	// Incremental stats already reflect the season.
	assert.Equal(t, 9, teams.teams[1].Points)
	assert.Equal(t, 1, teams.teams[2].Points)
	assert.Equal(t, 2, teams.teams[3].Points)
	assert.Equal(t, 4, teams.teams[4].Points)

	expectTx(mock)
	require.NoError(t, standingsSvc.RecalculateStandings(context.Background(), 1))
	rows, err := standingsSvc.GetStandings(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	wantOrder := []int{1, 4, 3, 2}
	for i, teamID := range wantOrder {
		assert.Equal(t, teamID, rows[i].CompetitionTeamID)
		// The recomputed row matches the incrementally maintained team stats.
		team := teams.teams[teamID]
		assert.Equal(t, team.Points, rows[i].Points)
		assert.Equal(t, team.Played, rows[i].Played)
		assert.Equal(t, team.GoalDifference, rows[i].GoalDifference)
	}
}

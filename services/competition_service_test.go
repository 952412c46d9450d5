package services

import (
	"context"
	"testing"
	"time"

	"github.com/clubsport/competition-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCompetitionByIDLoadsRelations(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Alpha"),
		confirmedTeam(2, 1, "Bravo"),
	)
	rounds := newFakeRoundRepo()
	require.NoError(t, rounds.Create(context.Background(), nil, &models.CompetitionRound{CompetitionID: 1, RoundNumber: 1}))
	require.NoError(t, rounds.Create(context.Background(), nil, &models.CompetitionRound{CompetitionID: 1, RoundNumber: 2}))
	matches := newFakeMatchRepo(scheduledMatch(10, 1, 1, 2))
	svc := NewCompetitionService(competitions, teams, rounds, matches, nil, testLogger())

	competition, err := svc.GetCompetitionByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Spring Cup", competition.Name)
	assert.Len(t, competition.Rounds, 2)
	assert.Len(t, competition.Teams, 2)
	assert.Len(t, competition.Matches, 1)
}

func TestGetCompetitionByIDNotFound(t *testing.T) {
	svc := NewCompetitionService(newFakeCompetitionRepo(), newFakeTeamRepo(), newFakeRoundRepo(), newFakeMatchRepo(), nil, testLogger())

	_, err := svc.GetCompetitionByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestListMatchesByCompetitionFiltersStatus(t *testing.T) {
	competitions := newFakeCompetitionRepo(singleLegCompetition(1))
	teams := newFakeTeamRepo(
		confirmedTeam(1, 1, "Alpha"),
		confirmedTeam(2, 1, "Bravo"),
	)
	kickoff := time.Date(2026, time.April, 4, 14, 0, 0, 0, time.UTC)
	done := completedMatch(11, 1, 2, 1, 1, 0, kickoff.AddDate(0, 0, 7))
	matches := newFakeMatchRepo(scheduledMatch(10, 1, 1, 2), done)
	svc := NewCompetitionService(competitions, teams, newFakeRoundRepo(), matches, nil, testLogger())

	all, err := svc.ListMatchesByCompetition(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Ordered by kickoff time.
	assert.Equal(t, 10, all[0].ID)

	completedOnly := models.MatchStatusCompleted
	filtered, err := svc.ListMatchesByCompetition(context.Background(), 1, &completedOnly)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 11, filtered[0].ID)
}

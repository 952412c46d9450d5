package handlers

import (
	"context"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/services"
)

// The handler tests stub the service layer; each fake returns canned data or a
// canned error.

type fakeCompetitionService struct {
	competition *models.Competition
	matches     []*models.Match
	err         error

	lastStatus *models.MatchStatus
}

func (f *fakeCompetitionService) GetCompetitionByID(_ context.Context, _ int) (*models.Competition, error) {
	return f.competition, f.err
}

func (f *fakeCompetitionService) ListMatchesByCompetition(_ context.Context, _ int, status *models.MatchStatus) ([]*models.Match, error) {
	f.lastStatus = status
	return f.matches, f.err
}

type fakeFixtureService struct {
	matches   []*models.Match
	err       error
	lastInput services.GenerateFixturesInput
}

func (f *fakeFixtureService) GenerateFixtures(_ context.Context, _ int, input services.GenerateFixturesInput) ([]*models.Match, error) {
	f.lastInput = input
	return f.matches, f.err
}

type fakeDrawService struct {
	teams []*models.CompetitionTeam
	err   error
}

func (f *fakeDrawService) PerformDraw(_ context.Context, _ int, _ services.PerformDrawInput) ([]*models.CompetitionTeam, error) {
	return f.teams, f.err
}

type fakeStandingsService struct {
	standings    []*models.CompetitionStanding
	recalcErr    error
	getErr       error
	recalculated int
	lastGroup    *string
}

func (f *fakeStandingsService) RecalculateStandings(_ context.Context, _ int) error {
	f.recalculated++
	return f.recalcErr
}

func (f *fakeStandingsService) GetStandings(_ context.Context, _ int, group *string) ([]*models.CompetitionStanding, error) {
	f.lastGroup = group
	return f.standings, f.getErr
}

type fakeScorerService struct {
	scorers   []*models.TopScorer
	err       error
	lastLimit int
}

func (f *fakeScorerService) GetTopScorers(_ context.Context, _ int, limit int) ([]*models.TopScorer, error) {
	f.lastLimit = limit
	return f.scorers, f.err
}

type fakeResultService struct {
	match     *models.Match
	err       error
	lastInput services.RecordResultInput
}

func (f *fakeResultService) RecordMatchResult(_ context.Context, _ int, input services.RecordResultInput) (*models.Match, error) {
	f.lastInput = input
	return f.match, f.err
}

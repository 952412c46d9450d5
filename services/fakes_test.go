package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/repositories"
)

// The service tests fake the repository layer in memory and use sqlmock only
// for the transaction handle the services begin and commit.

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompetitionRepo struct {
	competitions map[int]*models.Competition
	statuses     map[int]models.CompetitionStatus
}

func newFakeCompetitionRepo(competitions ...*models.Competition) *fakeCompetitionRepo {
	r := &fakeCompetitionRepo{
		competitions: make(map[int]*models.Competition),
		statuses:     make(map[int]models.CompetitionStatus),
	}
	for _, c := range competitions {
		r.competitions[c.ID] = c
	}
	return r
}

func (r *fakeCompetitionRepo) GetByID(_ context.Context, id int) (*models.Competition, error) {
	c, ok := r.competitions[id]
	if !ok {
		return nil, repositories.ErrCompetitionNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompetitionRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.CompetitionStatus) error {
	c, ok := r.competitions[id]
	if !ok {
		return repositories.ErrCompetitionNotFound
	}
	c.Status = status
	r.statuses[id] = status
	return nil
}

type fakeTeamRepo struct {
	teams map[int]*models.CompetitionTeam
}

func newFakeTeamRepo(teams ...*models.CompetitionTeam) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int]*models.CompetitionTeam)}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.CompetitionTeam, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrCompetitionTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) ListByCompetition(_ context.Context, competitionID int, confirmedOnly bool) ([]*models.CompetitionTeam, error) {
	out := make([]*models.CompetitionTeam, 0)
	for _, t := range r.teams {
		if t.CompetitionID != competitionID {
			continue
		}
		if confirmedOnly && !t.Confirmed {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) UpdateDrawPosition(_ context.Context, _ repositories.SQLExecutor, id int, drawPosition int) error {
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrCompetitionTeamNotFound
	}
	pos := drawPosition
	t.DrawPosition = &pos
	return nil
}

func (r *fakeTeamRepo) UpdateStats(_ context.Context, _ repositories.SQLExecutor, team *models.CompetitionTeam) error {
	t, ok := r.teams[team.ID]
	if !ok {
		return repositories.ErrCompetitionTeamNotFound
	}
	t.Played = team.Played
	t.Won = team.Won
	t.Drawn = team.Drawn
	t.Lost = team.Lost
	t.GoalsFor = team.GoalsFor
	t.GoalsAgainst = team.GoalsAgainst
	t.GoalDifference = team.GoalDifference
	t.Points = team.Points
	t.Position = team.Position
	return nil
}

type fakeRoundRepo struct {
	rounds []*models.CompetitionRound
	nextID int
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{nextID: 1}
}

func (r *fakeRoundRepo) Create(_ context.Context, _ repositories.SQLExecutor, round *models.CompetitionRound) error {
	round.ID = r.nextID
	r.nextID++
	cp := *round
	r.rounds = append(r.rounds, &cp)
	return nil
}

func (r *fakeRoundRepo) ListByCompetition(_ context.Context, competitionID int) ([]*models.CompetitionRound, error) {
	out := make([]*models.CompetitionRound, 0)
	for _, round := range r.rounds {
		if round.CompetitionID == competitionID {
			cp := *round
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out, nil
}

func (r *fakeRoundRepo) DeleteByCompetitionID(_ context.Context, _ repositories.SQLExecutor, competitionID int) error {
	kept := r.rounds[:0]
	for _, round := range r.rounds {
		if round.CompetitionID != competitionID {
			kept = append(kept, round)
		}
	}
	r.rounds = kept
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
	for _, m := range matches {
		r.matches[m.ID] = m
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
	}
	return r
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	cp := *match
	r.matches[cp.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) ListByCompetition(_ context.Context, competitionID int, status *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.CompetitionID != competitionID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffTime.Equal(out[j].KickoffTime) {
			return out[i].KickoffTime.Before(out[j].KickoffTime)
		}
		if out[i].MatchNumber != out[j].MatchNumber {
			return out[i].MatchNumber < out[j].MatchNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	m, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = match.Status
	m.Result = match.Result
	m.HomeScore = match.HomeScore
	m.AwayScore = match.AwayScore
	m.HomeScoreHalfTime = match.HomeScoreHalfTime
	m.AwayScoreHalfTime = match.AwayScoreHalfTime
	m.HomeScoreExtraTime = match.HomeScoreExtraTime
	m.AwayScoreExtraTime = match.AwayScoreExtraTime
	m.HomePenaltyScore = match.HomePenaltyScore
	m.AwayPenaltyScore = match.AwayPenaltyScore
	return nil
}

type fakeEventRepo struct {
	events []*models.MatchEvent
}

func newFakeEventRepo(events ...*models.MatchEvent) *fakeEventRepo {
	return &fakeEventRepo{events: events}
}

func (r *fakeEventRepo) ListByMatch(_ context.Context, matchID int) ([]*models.MatchEvent, error) {
	out := make([]*models.MatchEvent, 0)
	for _, e := range r.events {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListByCompetition(_ context.Context, _ int) ([]*models.MatchEvent, error) {
	return r.events, nil
}

type fakeStandingRepo struct {
	standings []*models.CompetitionStanding
	nextID    int
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{nextID: 1}
}

func (r *fakeStandingRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, standings []*models.CompetitionStanding) error {
	for _, s := range standings {
		s.ID = r.nextID
		r.nextID++
		cp := *s
		r.standings = append(r.standings, &cp)
	}
	return nil
}

func (r *fakeStandingRepo) ListByCompetition(_ context.Context, competitionID int, group *string) ([]*models.CompetitionStanding, error) {
	out := make([]*models.CompetitionStanding, 0)
	for _, s := range r.standings {
		if s.CompetitionID != competitionID {
			continue
		}
		if group != nil && s.Group != *group {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *fakeStandingRepo) DeleteByCompetitionID(_ context.Context, _ repositories.SQLExecutor, competitionID int) error {
	kept := r.standings[:0]
	for _, s := range r.standings {
		if s.CompetitionID != competitionID {
			kept = append(kept, s)
		}
	}
	r.standings = kept
	return nil
}

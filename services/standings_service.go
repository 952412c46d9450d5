package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/repositories"
	"github.com/clubsport/competition-system/storage"
	"golang.org/x/sync/errgroup"
)

const formMatchCount = 5

type StandingsService interface {
	// RecalculateStandings rebuilds every standing row of the competition from
	// the completed-match set. Recalculating twice without new results yields
	// identical output; a missing competition is a silent no-op.
	RecalculateStandings(ctx context.Context, competitionID int) error

	// GetStandings returns the stored table, ordered by group then position.
	GetStandings(ctx context.Context, competitionID int, group *string) ([]*models.CompetitionStanding, error)
}

type standingsService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	teamRepo        repositories.CompetitionTeamRepository
	matchRepo       repositories.MatchRepository
	standingRepo    repositories.StandingRepository
	uploader        storage.FileUploader
	locks           *LockRegistry
	logger          *slog.Logger
}

func NewStandingsService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	teamRepo repositories.CompetitionTeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	uploader storage.FileUploader,
	locks *LockRegistry,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		db:              db,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
		uploader:        uploader,
		locks:           locks,
		logger:          logger,
	}
}

func (s *standingsService) RecalculateStandings(ctx context.Context, competitionID int) (txErr error) {
	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			// Recalculation is often triggered speculatively (after result
			// entry, admin actions); tolerate a missing competition.
			s.logger.DebugContext(ctx, "recalculation skipped, competition not found",
				slog.Int("competition_id", competitionID))
			return nil
		}
		return fmt.Errorf("load competition %d: %w", competitionID, err)
	}

	release := s.locks.Acquire(competitionID)
	defer release()

	teams, err := s.teamRepo.ListByCompetition(ctx, competitionID, false)
	if err != nil {
		return fmt.Errorf("list teams for competition %d: %w", competitionID, err)
	}

	// A single consistent snapshot of the completed matches; every group is
	// computed from this set.
	completed := models.MatchStatusCompleted
	matches, err := s.matchRepo.ListByCompetition(ctx, competitionID, &completed)
	if err != nil {
		return fmt.Errorf("list completed matches for competition %d: %w", competitionID, err)
	}

	groups := make(map[string][]*models.CompetitionTeam)
	for _, team := range teams {
		key := team.GroupKey()
		groups[key] = append(groups[key], team)
	}

	// Groups are independent; compute them in parallel and persist once all
	// are done.
	var (
		mu       sync.Mutex
		computed = make(map[string][]*models.CompetitionStanding, len(groups))
	)
	g, gCtx := errgroup.WithContext(ctx)
	for key, groupTeams := range groups {
		key, groupTeams := key, groupTeams
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rows := computeGroupStandings(competition, key, groupTeams, matches)
			mu.Lock()
			computed[key] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("compute standings for competition %d: %w", competitionID, err)
	}

	groupKeys := make([]string, 0, len(computed))
	for key := range computed {
		groupKeys = append(groupKeys, key)
	}
	sort.Strings(groupKeys)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr))
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				txErr = fmt.Errorf("commit standings for competition %d: %w", competitionID, cErr)
			}
		}
	}()

	// The stored standings own no identity across recalculations: drop and
	// re-insert the whole set.
	if txErr = s.standingRepo.DeleteByCompetitionID(ctx, tx, competitionID); txErr != nil {
		return txErr
	}
	for _, key := range groupKeys {
		if txErr = s.standingRepo.BatchCreate(ctx, tx, computed[key]); txErr != nil {
			return txErr
		}
		// Mirror the computed statistics back onto the team rows.
		for _, row := range computed[key] {
			if row.Team == nil {
				continue
			}
			if txErr = s.teamRepo.UpdateStats(ctx, tx, row.Team); txErr != nil {
				return txErr
			}
		}
	}

	s.logger.InfoContext(ctx, "standings recalculated",
		slog.Int("competition_id", competitionID),
		slog.Int("teams", len(teams)),
		slog.Int("completed_matches", len(matches)),
		slog.Int("groups", len(groupKeys)),
	)
	return txErr
}

func (s *standingsService) GetStandings(ctx context.Context, competitionID int, group *string) ([]*models.CompetitionStanding, error) {
	standings, err := s.standingRepo.ListByCompetition(ctx, competitionID, group)
	if err != nil {
		return nil, fmt.Errorf("list standings for competition %d: %w", competitionID, err)
	}
	if len(standings) == 0 {
		return standings, nil
	}

	teams, err := s.teamRepo.ListByCompetition(ctx, competitionID, false)
	if err != nil {
		return nil, fmt.Errorf("list teams for competition %d: %w", competitionID, err)
	}
	byID := make(map[int]*models.CompetitionTeam, len(teams))
	for _, team := range teams {
		populateTeamLogoURL(team, s.uploader)
		byID[team.ID] = team
	}
	for _, row := range standings {
		row.Team = byID[row.CompetitionTeamID]
	}
	return standings, nil
}

// computeGroupStandings derives the table of one group from scratch. The team
// structs are updated in place so the caller can mirror the values onto the
// store.
func computeGroupStandings(
	competition *models.Competition,
	group string,
	teams []*models.CompetitionTeam,
	matches []*models.Match,
) []*models.CompetitionStanding {
	forms := make(map[int]string, len(teams))
	for _, team := range teams {
		var (
			played, won, drawn, lost int
			goalsFor, goalsAgainst   int
		)
		var teamMatches []*models.Match
		for _, m := range matches {
			if !m.InvolvesTeam(team.ID) {
				continue
			}
			// Matches against teams outside the group still count: the group
			// split only buckets the table rows.
			outcome, ok := m.OutcomeFor(team.ID)
			if !ok || m.HomeScore == nil || m.AwayScore == nil {
				continue
			}
			teamMatches = append(teamMatches, m)
			played++
			if m.HomeTeamID != nil && *m.HomeTeamID == team.ID {
				goalsFor += *m.HomeScore
				goalsAgainst += *m.AwayScore
			} else {
				goalsFor += *m.AwayScore
				goalsAgainst += *m.HomeScore
			}
			switch outcome {
			case models.OutcomeWin:
				won++
			case models.OutcomeDraw:
				drawn++
			case models.OutcomeLoss:
				lost++
			}
		}

		team.Played = played
		team.Won = won
		team.Drawn = drawn
		team.Lost = lost
		team.GoalsFor = goalsFor
		team.GoalsAgainst = goalsAgainst
		team.GoalDifference = goalsFor - goalsAgainst
		team.Points = won*competition.PointsForWin + drawn*competition.PointsForDraw + lost*competition.PointsForLoss
		forms[team.ID] = formString(teamMatches, team.ID)
	}

	ranked := make([]*models.CompetitionTeam, len(teams))
	copy(ranked, teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Name < b.Name
	})

	rows := make([]*models.CompetitionStanding, 0, len(ranked))
	for i, team := range ranked {
		team.Position = i + 1
		row := &models.CompetitionStanding{
			CompetitionID:     competition.ID,
			CompetitionTeamID: team.ID,
			Group:             group,
			Position:          team.Position,
			Played:            team.Played,
			Won:               team.Won,
			Drawn:             team.Drawn,
			Lost:              team.Lost,
			GoalsFor:          team.GoalsFor,
			GoalsAgainst:      team.GoalsAgainst,
			GoalDifference:    team.GoalDifference,
			Points:            team.Points,
			Team:              team,
		}
		if form := forms[team.ID]; form != "" {
			row.Form = &form
		}
		rows = append(rows, row)
	}
	return rows
}

// formString summarizes the team's five most recent completed matches as
// W/D/L letters, most recent first.
func formString(teamMatches []*models.Match, teamID int) string {
	sorted := make([]*models.Match, len(teamMatches))
	copy(sorted, teamMatches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].KickoffTime.Equal(sorted[j].KickoffTime) {
			return sorted[i].KickoffTime.Before(sorted[j].KickoffTime)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var b strings.Builder
	count := 0
	for i := len(sorted) - 1; i >= 0 && count < formMatchCount; i-- {
		outcome, ok := sorted[i].OutcomeFor(teamID)
		if !ok {
			continue
		}
		switch outcome {
		case models.OutcomeWin:
			b.WriteByte('W')
		case models.OutcomeDraw:
			b.WriteByte('D')
		case models.OutcomeLoss:
			b.WriteByte('L')
		}
		count++
	}
	return b.String()
}

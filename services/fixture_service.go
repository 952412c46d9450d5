package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/repositories"
	"github.com/clubsport/competition-system/schedule"
)

// GenerateFixturesInput carries the caller-facing generation options.
// HomeAndAway overrides the competition's own flag when set.
type GenerateFixturesInput struct {
	RandomizeOrder    bool      `json:"randomize_order"`
	HomeAndAway       *bool     `json:"home_and_away,omitempty"`
	StartDate         time.Time `json:"start_date"`
	DaysBetweenRounds int       `json:"days_between_rounds"`
}

type FixtureService interface {
	GenerateFixtures(ctx context.Context, competitionID int, input GenerateFixturesInput) ([]*models.Match, error)
}

type fixtureService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	teamRepo        repositories.CompetitionTeamRepository
	roundRepo       repositories.RoundRepository
	matchRepo       repositories.MatchRepository
	scheduler       schedule.FixtureScheduler
	locks           *LockRegistry
	logger          *slog.Logger
}

func NewFixtureService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	teamRepo repositories.CompetitionTeamRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	scheduler schedule.FixtureScheduler,
	locks *LockRegistry,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		db:              db,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		roundRepo:       roundRepo,
		matchRepo:       matchRepo,
		scheduler:       scheduler,
		locks:           locks,
		logger:          logger,
	}
}

// GenerateFixtures builds the full round-robin schedule for a competition and
// persists rounds and matches in one transaction. Nothing is written when the
// precondition checks fail.
func (s *fixtureService) GenerateFixtures(ctx context.Context, competitionID int, input GenerateFixturesInput) (created []*models.Match, txErr error) {
	release := s.locks.Acquire(competitionID)
	defer release()

	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("load competition %d: %w", competitionID, err)
	}

	existing, err := s.matchRepo.ListByCompetition(ctx, competitionID, nil)
	if err != nil {
		return nil, fmt.Errorf("list matches for competition %d: %w", competitionID, err)
	}
	if len(existing) > 0 {
		return nil, ErrFixturesAlreadyExist
	}

	teams, err := s.teamRepo.ListByCompetition(ctx, competitionID, true)
	if err != nil {
		return nil, fmt.Errorf("list confirmed teams for competition %d: %w", competitionID, err)
	}

	opts := schedule.FixtureOptions{
		RandomizeOrder:    input.RandomizeOrder,
		HomeAndAway:       competition.HomeAndAway,
		StartDate:         input.StartDate,
		DaysBetweenRounds: input.DaysBetweenRounds,
	}
	if input.HomeAndAway != nil {
		opts.HomeAndAway = *input.HomeAndAway
	}

	plan, err := s.scheduler.BuildPlan(teams, opts)
	if err != nil {
		if errors.Is(err, schedule.ErrInsufficientTeams) {
			return nil, ErrInsufficientTeams
		}
		return nil, fmt.Errorf("build fixture plan for competition %d: %w", competitionID, err)
	}

	s.logger.InfoContext(ctx, "generated fixture plan",
		slog.Int("competition_id", competitionID),
		slog.Int("teams", len(teams)),
		slog.Int("rounds", len(plan.Rounds)),
		slog.Int("matches", plan.TotalMatches),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
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
				txErr = fmt.Errorf("commit fixtures for competition %d: %w", competitionID, cErr)
			}
		}
	}()

	created = make([]*models.Match, 0, plan.TotalMatches)
	for _, planned := range plan.Rounds {
		round := &models.CompetitionRound{
			CompetitionID: competitionID,
			RoundNumber:   planned.RoundNumber,
		}
		if !planned.StartDate.IsZero() {
			start := planned.StartDate
			round.StartDate = &start
		}
		if txErr = s.roundRepo.Create(ctx, tx, round); txErr != nil {
			return nil, txErr
		}

		for i, pairing := range planned.Pairings {
			homeID, awayID := pairing.HomeTeamID, pairing.AwayTeamID
			match := &models.Match{
				CompetitionID: competitionID,
				RoundID:       &round.ID,
				HomeTeamID:    &homeID,
				AwayTeamID:    &awayID,
				MatchNumber:   i + 1,
				KickoffTime:   planned.StartDate,
				Status:        models.MatchStatusScheduled,
				Result:        models.ResultNotPlayed,
			}
			if planned.LegNumber > 0 {
				leg := planned.LegNumber
				match.LegNumber = &leg
			}
			if txErr = s.matchRepo.Create(ctx, tx, match); txErr != nil {
				return nil, txErr
			}
			created = append(created, match)
		}
	}

	if txErr != nil {
		return nil, txErr
	}
	return created, txErr
}

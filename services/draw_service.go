package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/repositories"
	"github.com/clubsport/competition-system/schedule"
)

// PerformDrawInput selects the draw mode. RandomDraw and SeedTeams are
// mutually exclusive in intent; with neither set the registration order is
// kept as-is.
type PerformDrawInput struct {
	RandomDraw bool `json:"random_draw"`
	SeedTeams  bool `json:"seed_teams"`
}

type DrawService interface {
	PerformDraw(ctx context.Context, competitionID int, input PerformDrawInput) ([]*models.CompetitionTeam, error)
}

type drawService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	teamRepo        repositories.CompetitionTeamRepository
	locks           *LockRegistry
	logger          *slog.Logger
	rng             *rand.Rand
}

func NewDrawService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	teamRepo repositories.CompetitionTeamRepository,
	locks *LockRegistry,
	logger *slog.Logger,
) DrawService {
	return &drawService{
		db:              db,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		locks:           locks,
		logger:          logger,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PerformDraw assigns draw positions 1..N to the confirmed teams and marks the
// competition's draw as complete. Fewer than two teams is a no-op failure.
func (s *drawService) PerformDraw(ctx context.Context, competitionID int, input PerformDrawInput) (teams []*models.CompetitionTeam, txErr error) {
	release := s.locks.Acquire(competitionID)
	defer release()

	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("load competition %d: %w", competitionID, err)
	}

	confirmed, err := s.teamRepo.ListByCompetition(ctx, competitionID, true)
	if err != nil {
		return nil, fmt.Errorf("list confirmed teams for competition %d: %w", competitionID, err)
	}
	if len(confirmed) < 2 {
		return nil, ErrInsufficientTeams
	}

	ordered := schedule.OrderForDraw(confirmed, schedule.DrawOptions{
		RandomDraw: input.RandomDraw,
		SeedTeams:  input.SeedTeams,
	}, s.rng)

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
				txErr = fmt.Errorf("commit draw for competition %d: %w", competitionID, cErr)
			}
		}
	}()

	for i, team := range ordered {
		position := i + 1
		if txErr = s.teamRepo.UpdateDrawPosition(ctx, tx, team.ID, position); txErr != nil {
			return nil, txErr
		}
		team.DrawPosition = &position
	}

	if txErr = s.competitionRepo.UpdateStatus(ctx, tx, competitionID, models.CompetitionStatusDrawComplete); txErr != nil {
		return nil, txErr
	}

	s.logger.InfoContext(ctx, "draw complete",
		slog.Int("competition_id", competitionID),
		slog.Int("teams", len(ordered)),
		slog.Bool("random", input.RandomDraw),
		slog.Bool("seeded", input.SeedTeams),
	)
	return ordered, txErr
}

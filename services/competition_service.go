package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/repositories"
	"github.com/clubsport/competition-system/storage"
	"golang.org/x/sync/errgroup"
)

// CompetitionService covers the read side consumed by the admin frontend:
// full competition data and the match list. All mutation beyond the
// scheduling engine lives outside this system.
type CompetitionService interface {
	GetCompetitionByID(ctx context.Context, competitionID int) (*models.Competition, error)
	ListMatchesByCompetition(ctx context.Context, competitionID int, status *models.MatchStatus) ([]*models.Match, error)
}

type competitionService struct {
	competitionRepo repositories.CompetitionRepository
	teamRepo        repositories.CompetitionTeamRepository
	roundRepo       repositories.RoundRepository
	matchRepo       repositories.MatchRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewCompetitionService(
	competitionRepo repositories.CompetitionRepository,
	teamRepo repositories.CompetitionTeamRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) CompetitionService {
	return &competitionService{
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		roundRepo:       roundRepo,
		matchRepo:       matchRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

// GetCompetitionByID loads the competition with its rounds, teams and matches.
// The related collections are fetched in parallel.
func (s *competitionService) GetCompetitionByID(ctx context.Context, competitionID int) (*models.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("load competition %d: %w", competitionID, err)
	}
	populateCompetitionLogoURL(competition, s.uploader)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rounds, err := s.roundRepo.ListByCompetition(gCtx, competitionID)
		if err != nil {
			return fmt.Errorf("load rounds: %w", err)
		}
		competition.Rounds = make([]models.CompetitionRound, 0, len(rounds))
		for _, r := range rounds {
			competition.Rounds = append(competition.Rounds, *r)
		}
		return nil
	})

	g.Go(func() error {
		teams, err := s.teamRepo.ListByCompetition(gCtx, competitionID, false)
		if err != nil {
			return fmt.Errorf("load teams: %w", err)
		}
		competition.Teams = make([]models.CompetitionTeam, 0, len(teams))
		for _, t := range teams {
			populateTeamLogoURL(t, s.uploader)
			competition.Teams = append(competition.Teams, *t)
		}
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByCompetition(gCtx, competitionID, nil)
		if err != nil {
			return fmt.Errorf("load matches: %w", err)
		}
		competition.Matches = make([]models.Match, 0, len(matches))
		for _, m := range matches {
			competition.Matches = append(competition.Matches, *m)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load competition %d details: %w", competitionID, err)
	}
	return competition, nil
}

func (s *competitionService) ListMatchesByCompetition(ctx context.Context, competitionID int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByCompetition(ctx, competitionID, status)
	if err != nil {
		return nil, fmt.Errorf("list matches for competition %d: %w", competitionID, err)
	}
	return matches, nil
}

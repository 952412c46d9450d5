package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/repositories"
)

// RecordResultInput carries a match's final scores. Only the primary scores
// drive the result derivation; the extended scores are stored as entered.
type RecordResultInput struct {
	HomeScore          int  `json:"home_score"`
	AwayScore          int  `json:"away_score"`
	HomeScoreHalfTime  *int `json:"home_score_half_time,omitempty"`
	AwayScoreHalfTime  *int `json:"away_score_half_time,omitempty"`
	HomeScoreExtraTime *int `json:"home_score_extra_time,omitempty"`
	AwayScoreExtraTime *int `json:"away_score_extra_time,omitempty"`
	HomePenaltyScore   *int `json:"home_penalty_score,omitempty"`
	AwayPenaltyScore   *int `json:"away_penalty_score,omitempty"`
}

type ResultService interface {
	RecordMatchResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error)
}

type resultService struct {
	db              *sql.DB
	competitionRepo repositories.CompetitionRepository
	teamRepo        repositories.CompetitionTeamRepository
	matchRepo       repositories.MatchRepository
	locks           *LockRegistry
	logger          *slog.Logger
}

func NewResultService(
	db *sql.DB,
	competitionRepo repositories.CompetitionRepository,
	teamRepo repositories.CompetitionTeamRepository,
	matchRepo repositories.MatchRepository,
	locks *LockRegistry,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		db:              db,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		locks:           locks,
		logger:          logger,
	}
}

// RecordMatchResult stores the scores, derives the outcome and applies the
// incremental statistics update to both teams. A match that is already
// completed is rejected rather than double-counted; the recalculation path
// remains the source of truth for statistics.
func (s *resultService) RecordMatchResult(ctx context.Context, matchID int, input RecordResultInput) (updated *models.Match, txErr error) {
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, ErrNegativeScore
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}

	release := s.locks.Acquire(match.CompetitionID)
	defer release()

	// Re-read under the lock; a concurrent recording may have completed the
	// match between the first load and lock acquisition.
	match, err = s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.HomeTeamID == nil || match.AwayTeamID == nil {
		return nil, ErrMatchMissingTeams
	}

	competition, err := s.competitionRepo.GetByID(ctx, match.CompetitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("load competition %d: %w", match.CompetitionID, err)
	}

	homeTeam, err := s.teamRepo.GetByID(ctx, *match.HomeTeamID)
	if err != nil {
		return nil, fmt.Errorf("load home team %d: %w", *match.HomeTeamID, err)
	}
	awayTeam, err := s.teamRepo.GetByID(ctx, *match.AwayTeamID)
	if err != nil {
		return nil, fmt.Errorf("load away team %d: %w", *match.AwayTeamID, err)
	}

	homeScore, awayScore := input.HomeScore, input.AwayScore
	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	match.HomeScoreHalfTime = input.HomeScoreHalfTime
	match.AwayScoreHalfTime = input.AwayScoreHalfTime
	match.HomeScoreExtraTime = input.HomeScoreExtraTime
	match.AwayScoreExtraTime = input.AwayScoreExtraTime
	match.HomePenaltyScore = input.HomePenaltyScore
	match.AwayPenaltyScore = input.AwayPenaltyScore
	match.Result = models.DeriveResult(homeScore, awayScore)
	match.Status = models.MatchStatusCompleted

	applyResultToTeam(homeTeam, competition, homeScore, awayScore, match.Result == models.ResultHomeWin, match.Result == models.ResultDraw)
	applyResultToTeam(awayTeam, competition, awayScore, homeScore, match.Result == models.ResultAwayWin, match.Result == models.ResultDraw)

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
				txErr = fmt.Errorf("commit result for match %d: %w", matchID, cErr)
			}
		}
	}()

	if txErr = s.matchRepo.UpdateResult(ctx, tx, match); txErr != nil {
		return nil, txErr
	}
	if txErr = s.teamRepo.UpdateStats(ctx, tx, homeTeam); txErr != nil {
		return nil, txErr
	}
	if txErr = s.teamRepo.UpdateStats(ctx, tx, awayTeam); txErr != nil {
		return nil, txErr
	}

	s.logger.InfoContext(ctx, "match result recorded",
		slog.Int("match_id", matchID),
		slog.Int("competition_id", match.CompetitionID),
		slog.String("result", string(match.Result)),
	)
	return match, txErr
}

// applyResultToTeam applies one completed match to a team's running
// statistics, seen from that team's side.
func applyResultToTeam(team *models.CompetitionTeam, competition *models.Competition, goalsFor, goalsAgainst int, won, drawn bool) {
	team.Played++
	team.GoalsFor += goalsFor
	team.GoalsAgainst += goalsAgainst
	team.GoalDifference = team.GoalsFor - team.GoalsAgainst
	switch {
	case won:
		team.Won++
		team.Points += competition.PointsForWin
	case drawn:
		team.Drawn++
		team.Points += competition.PointsForDraw
	default:
		team.Lost++
		team.Points += competition.PointsForLoss
	}
}

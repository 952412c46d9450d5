package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/clubsport/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchCompetitionInvalid = errors.New("match competition conflict or invalid")
	ErrMatchTeamInvalid        = errors.New("match team conflict or invalid")
	ErrMatchRoundInvalid       = errors.New("match round conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByCompetition(ctx context.Context, competitionID int, status *models.MatchStatus) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, competition_id, round_id, home_team_id, away_team_id, match_number, leg_number,
	kickoff_time, status, result, home_score, away_score,
	home_score_half_time, away_score_half_time, home_score_extra_time, away_score_extra_time,
	home_penalty_score, away_penalty_score, created_at`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.CompetitionID, &m.RoundID, &m.HomeTeamID, &m.AwayTeamID, &m.MatchNumber, &m.LegNumber,
		&m.KickoffTime, &m.Status, &m.Result, &m.HomeScore, &m.AwayScore,
		&m.HomeScoreHalfTime, &m.AwayScoreHalfTime, &m.HomeScoreExtraTime, &m.AwayScoreExtraTime,
		&m.HomePenaltyScore, &m.AwayPenaltyScore, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.executor(exec)
	query := `
		INSERT INTO matches
			(competition_id, round_id, home_team_id, away_team_id, match_number, leg_number,
			 kickoff_time, status, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	err := executor.QueryRowContext(ctx, query,
		match.CompetitionID,
		match.RoundID,
		match.HomeTeamID,
		match.AwayTeamID,
		match.MatchNumber,
		match.LegNumber,
		match.KickoffTime,
		match.Status,
		match.Result,
		match.CreatedAt,
	).Scan(&match.ID)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanMatch(row)
}

func (r *postgresMatchRepository) ListByCompetition(ctx context.Context, competitionID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE competition_id = $1`)

	args := []interface{}{competitionID}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY kickoff_time ASC, match_number ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.executor(exec)
	query := `
		UPDATE matches SET
			status = $1, result = $2, home_score = $3, away_score = $4,
			home_score_half_time = $5, away_score_half_time = $6,
			home_score_extra_time = $7, away_score_extra_time = $8,
			home_penalty_score = $9, away_penalty_score = $10
		WHERE id = $11`

	result, err := executor.ExecContext(ctx, query,
		match.Status, match.Result, match.HomeScore, match.AwayScore,
		match.HomeScoreHalfTime, match.AwayScoreHalfTime,
		match.HomeScoreExtraTime, match.AwayScoreExtraTime,
		match.HomePenaltyScore, match.AwayPenaltyScore,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_competition_id_fkey":
				return ErrMatchCompetitionInvalid
			case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
				return ErrMatchTeamInvalid
			case "matches_round_id_fkey":
				return ErrMatchRoundInvalid
			}
		}
	}
	return err
}

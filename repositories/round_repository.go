package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clubsport/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrRoundNotFound           = errors.New("competition round not found")
	ErrRoundCompetitionInvalid = errors.New("round competition conflict or invalid")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.CompetitionRound) error
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.CompetitionRound, error)
	DeleteByCompetitionID(ctx context.Context, exec SQLExecutor, competitionID int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.CompetitionRound) error {
	executor := r.executor(exec)
	query := `
		INSERT INTO competition_rounds (competition_id, round_number, name, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if round.CreatedAt.IsZero() {
		round.CreatedAt = time.Now()
	}
	err := executor.QueryRowContext(ctx, query,
		round.CompetitionID,
		round.RoundNumber,
		round.Name,
		round.StartDate,
		round.EndDate,
		round.CreatedAt,
	).Scan(&round.ID)

	return r.handleRoundError(err)
}

func (r *postgresRoundRepository) ListByCompetition(ctx context.Context, competitionID int) ([]*models.CompetitionRound, error) {
	query := `
		SELECT id, competition_id, round_number, name, start_date, end_date, created_at
		FROM competition_rounds
		WHERE competition_id = $1
		ORDER BY round_number ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.CompetitionRound, 0)
	for rows.Next() {
		var round models.CompetitionRound
		if scanErr := rows.Scan(
			&round.ID,
			&round.CompetitionID,
			&round.RoundNumber,
			&round.Name,
			&round.StartDate,
			&round.EndDate,
			&round.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, &round)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *postgresRoundRepository) DeleteByCompetitionID(ctx context.Context, exec SQLExecutor, competitionID int) error {
	executor := r.executor(exec)
	query := `DELETE FROM competition_rounds WHERE competition_id = $1`
	_, err := executor.ExecContext(ctx, query, competitionID)
	return err
}

func (r *postgresRoundRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundRepository) handleRoundError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" && pqErr.Constraint == "competition_rounds_competition_id_fkey" {
			return ErrRoundCompetitionInvalid
		}
	}
	return err
}

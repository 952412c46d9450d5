package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubsport/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNameConflict = errors.New("competition name already exists")
	ErrCompetitionClubInvalid  = errors.New("competition club conflict or invalid")
)

type CompetitionRepository interface {
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `
		SELECT id, club_id, name, description, status, points_for_win, points_for_draw, points_for_loss,
		       home_and_away, tiebreaker_rules, start_date, end_date, logo_key, created_at
		FROM competitions
		WHERE id = $1`

	c := &models.Competition{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.ClubID,
		&c.Name,
		&c.Description,
		&c.Status,
		&c.PointsForWin,
		&c.PointsForDraw,
		&c.PointsForLoss,
		&c.HomeAndAway,
		&c.TiebreakerRules,
		&c.StartDate,
		&c.EndDate,
		&c.LogoKey,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}

	// Legacy rows created before the points columns existed carry zeroes for
	// all three awards; fall back to the standard 3/1/0.
	if c.PointsForWin == 0 && c.PointsForDraw == 0 && c.PointsForLoss == 0 {
		c.PointsForWin = models.DefaultPointsForWin
		c.PointsForDraw = models.DefaultPointsForDraw
		c.PointsForLoss = models.DefaultPointsForLoss
	}

	return c, nil
}

func (r *postgresCompetitionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error {
	executor := r.executor(exec)
	query := `UPDATE competitions SET status = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCompetitionRepository) handleCompetitionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "competitions_club_id_name_key" {
				return ErrCompetitionNameConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "competitions_club_id_fkey" {
				return ErrCompetitionClubInvalid
			}
		}
	}
	return err
}

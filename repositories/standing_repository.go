package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/clubsport/competition-system/models"
)

var ErrStandingNotFound = errors.New("competition standing not found")

type StandingRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, standings []*models.CompetitionStanding) error
	ListByCompetition(ctx context.Context, competitionID int, group *string) ([]*models.CompetitionStanding, error)
	DeleteByCompetitionID(ctx context.Context, exec SQLExecutor, competitionID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) BatchCreate(ctx context.Context, exec SQLExecutor, standings []*models.CompetitionStanding) error {
	executor := r.executor(exec)
	if len(standings) == 0 {
		return nil
	}

	query := `
		INSERT INTO competition_standings
			(competition_id, competition_team_id, group_name, position, played, won, drawn, lost,
			 goals_for, goals_against, goal_difference, points, form, zone, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	for _, s := range standings {
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = time.Now()
		}
		err := executor.QueryRowContext(ctx, query,
			s.CompetitionID, s.CompetitionTeamID, s.Group, s.Position, s.Played, s.Won, s.Drawn, s.Lost,
			s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points, s.Form, s.Zone, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("batch create standing for team %d: %w", s.CompetitionTeamID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) ListByCompetition(ctx context.Context, competitionID int, group *string) ([]*models.CompetitionStanding, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, competition_id, competition_team_id, group_name, position, played, won, drawn, lost,
		       goals_for, goals_against, goal_difference, points, form, zone, updated_at
		FROM competition_standings
		WHERE competition_id = $1`)

	args := []interface{}{competitionID}
	if group != nil {
		queryBuilder.WriteString(" AND group_name = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *group)
	}
	queryBuilder.WriteString(" ORDER BY group_name ASC, position ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.CompetitionStanding, 0)
	for rows.Next() {
		var s models.CompetitionStanding
		if scanErr := rows.Scan(
			&s.ID, &s.CompetitionID, &s.CompetitionTeamID, &s.Group, &s.Position, &s.Played, &s.Won, &s.Drawn, &s.Lost,
			&s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.Points, &s.Form, &s.Zone, &s.UpdatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		standings = append(standings, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *postgresStandingRepository) DeleteByCompetitionID(ctx context.Context, exec SQLExecutor, competitionID int) error {
	executor := r.executor(exec)
	query := `DELETE FROM competition_standings WHERE competition_id = $1`
	_, err := executor.ExecContext(ctx, query, competitionID)
	return err
}

func (r *postgresStandingRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

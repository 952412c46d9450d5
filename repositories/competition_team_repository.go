package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/clubsport/competition-system/models"
	"github.com/lib/pq"
)

var (
	ErrCompetitionTeamNotFound           = errors.New("competition team not found")
	ErrCompetitionTeamCompetitionInvalid = errors.New("competition team competition conflict or invalid")
)

type CompetitionTeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.CompetitionTeam, error)
	ListByCompetition(ctx context.Context, competitionID int, confirmedOnly bool) ([]*models.CompetitionTeam, error)
	UpdateDrawPosition(ctx context.Context, exec SQLExecutor, id int, drawPosition int) error
	UpdateStats(ctx context.Context, exec SQLExecutor, team *models.CompetitionTeam) error
}

type postgresCompetitionTeamRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionTeamRepository(db *sql.DB) CompetitionTeamRepository {
	return &postgresCompetitionTeamRepository{db: db}
}

const competitionTeamColumns = `
	id, competition_id, club_team_id, name, group_name, seed_number, draw_position, confirmed,
	played, won, drawn, lost, goals_for, goals_against, goal_difference, points, position,
	logo_key, created_at`

func (r *postgresCompetitionTeamRepository) scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.CompetitionTeam, error) {
	var t models.CompetitionTeam
	err := rowScanner.Scan(
		&t.ID, &t.CompetitionID, &t.ClubTeamID, &t.Name, &t.Group, &t.SeedNumber, &t.DrawPosition, &t.Confirmed,
		&t.Played, &t.Won, &t.Drawn, &t.Lost, &t.GoalsFor, &t.GoalsAgainst, &t.GoalDifference, &t.Points, &t.Position,
		&t.LogoKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresCompetitionTeamRepository) GetByID(ctx context.Context, id int) (*models.CompetitionTeam, error) {
	query := `SELECT ` + competitionTeamColumns + ` FROM competition_teams WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTeam(row)
}

func (r *postgresCompetitionTeamRepository) ListByCompetition(ctx context.Context, competitionID int, confirmedOnly bool) ([]*models.CompetitionTeam, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + competitionTeamColumns + ` FROM competition_teams WHERE competition_id = $1`)

	args := []interface{}{competitionID}
	if confirmedOnly {
		queryBuilder.WriteString(" AND confirmed = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, true)
	}
	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.CompetitionTeam, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresCompetitionTeamRepository) UpdateDrawPosition(ctx context.Context, exec SQLExecutor, id int, drawPosition int) error {
	executor := r.executor(exec)
	query := `UPDATE competition_teams SET draw_position = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, drawPosition, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrCompetitionTeamNotFound)
}

func (r *postgresCompetitionTeamRepository) UpdateStats(ctx context.Context, exec SQLExecutor, team *models.CompetitionTeam) error {
	executor := r.executor(exec)
	query := `
		UPDATE competition_teams SET
			played = $1, won = $2, drawn = $3, lost = $4,
			goals_for = $5, goals_against = $6, goal_difference = $7,
			points = $8, position = $9
		WHERE id = $10`

	result, err := executor.ExecContext(ctx, query,
		team.Played, team.Won, team.Drawn, team.Lost,
		team.GoalsFor, team.GoalsAgainst, team.GoalDifference,
		team.Points, team.Position,
		team.ID,
	)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrCompetitionTeamNotFound)
}

func (r *postgresCompetitionTeamRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCompetitionTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" && pqErr.Constraint == "competition_teams_competition_id_fkey" {
			return ErrCompetitionTeamCompetitionInvalid
		}
	}
	return err
}

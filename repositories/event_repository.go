package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubsport/competition-system/models"
)

var ErrMatchEventNotFound = errors.New("match event not found")

type MatchEventRepository interface {
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]*models.MatchEvent, error)
}

type postgresMatchEventRepository struct {
	db *sql.DB
}

func NewPostgresMatchEventRepository(db *sql.DB) MatchEventRepository {
	return &postgresMatchEventRepository{db: db}
}

const matchEventColumns = `
	id, match_id, event_type, minute, participant_id, team_id, assist_by_participant_id, description, created_at`

func (r *postgresMatchEventRepository) scanEvent(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchEvent, error) {
	var e models.MatchEvent
	err := rowScanner.Scan(
		&e.ID, &e.MatchID, &e.EventType, &e.Minute, &e.ParticipantID,
		&e.TeamID, &e.AssistByParticipantID, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresMatchEventRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	query := `SELECT ` + matchEventColumns + ` FROM match_events WHERE match_id = $1 ORDER BY minute ASC, id ASC`
	return r.list(ctx, query, matchID)
}

func (r *postgresMatchEventRepository) ListByCompetition(ctx context.Context, competitionID int) ([]*models.MatchEvent, error) {
	query := `
		SELECT me.id, me.match_id, me.event_type, me.minute, me.participant_id, me.team_id,
		       me.assist_by_participant_id, me.description, me.created_at
		FROM match_events me
		JOIN matches m ON me.match_id = m.id
		WHERE m.competition_id = $1
		ORDER BY me.match_id ASC, me.minute ASC, me.id ASC`
	return r.list(ctx, query, competitionID)
}

func (r *postgresMatchEventRepository) list(ctx context.Context, query string, arg interface{}) ([]*models.MatchEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		e, scanErr := r.scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

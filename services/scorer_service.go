package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/repositories"
)

const defaultScorerLimit = 10

type ScorerService interface {
	// GetTopScorers ranks scorers from the competition's goal and penalty
	// events. Attribution is derived from the event description text, not
	// from participant identifiers.
	GetTopScorers(ctx context.Context, competitionID int, limit int) ([]*models.TopScorer, error)
}

type scorerService struct {
	competitionRepo repositories.CompetitionRepository
	teamRepo        repositories.CompetitionTeamRepository
	eventRepo       repositories.MatchEventRepository
}

func NewScorerService(
	competitionRepo repositories.CompetitionRepository,
	teamRepo repositories.CompetitionTeamRepository,
	eventRepo repositories.MatchEventRepository,
) ScorerService {
	return &scorerService{
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		eventRepo:       eventRepo,
	}
}

// scorerKey groups events by the derived player name and the event's team.
type scorerKey struct {
	name   string
	teamID int // 0 when the event has no team reference
}

type scorerAccumulator struct {
	key         scorerKey
	teamID      *int
	goals       int
	penalties   int
	matchesSeen map[int]bool
}

func (s *scorerService) GetTopScorers(ctx context.Context, competitionID int, limit int) ([]*models.TopScorer, error) {
	if limit <= 0 {
		limit = defaultScorerLimit
	}

	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("load competition %d: %w", competitionID, err)
	}

	events, err := s.eventRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list match events for competition %d: %w", competitionID, err)
	}

	accumulators := make(map[scorerKey]*scorerAccumulator)
	order := make([]scorerKey, 0)
	for _, event := range events {
		isGoal := strings.EqualFold(event.EventType, "goal")
		isPenalty := strings.EqualFold(event.EventType, "penalty")
		if !isGoal && !isPenalty {
			continue
		}
		name := scorerNameFromDescription(derefString(event.Description))
		if name == "" {
			continue
		}
		key := scorerKey{name: name}
		if event.TeamID != nil {
			key.teamID = *event.TeamID
		}
		acc, ok := accumulators[key]
		if !ok {
			acc = &scorerAccumulator{key: key, teamID: event.TeamID, matchesSeen: make(map[int]bool)}
			accumulators[key] = acc
			order = append(order, key)
		}
		if isGoal {
			acc.goals++
		} else {
			acc.penalties++
		}
		acc.matchesSeen[event.MatchID] = true
	}

	ranked := make([]*scorerAccumulator, 0, len(accumulators))
	for _, key := range order {
		ranked = append(ranked, accumulators[key])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := ranked[i].goals+ranked[i].penalties, ranked[j].goals+ranked[j].penalties
		if ti != tj {
			return ti > tj
		}
		ai, aj := len(ranked[i].matchesSeen), len(ranked[j].matchesSeen)
		if ai != aj {
			return ai > aj
		}
		return ranked[i].key.name < ranked[j].key.name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	// Second pass: assists are extracted from the goal descriptions and
	// matched against the derived scorer names by exact string comparison.
	assists := make(map[string]int)
	for _, event := range events {
		if !strings.EqualFold(event.EventType, "goal") {
			continue
		}
		if name := assistNameFromDescription(derefString(event.Description)); name != "" {
			assists[name]++
		}
	}

	teamNames, err := s.teamNamesByID(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	scorers := make([]*models.TopScorer, 0, len(ranked))
	for i, acc := range ranked {
		scorer := &models.TopScorer{
			Rank:        i + 1,
			PlayerName:  acc.key.name,
			TeamID:      acc.teamID,
			Goals:       acc.goals,
			Assists:     assists[acc.key.name],
			Penalties:   acc.penalties,
			Appearances: len(acc.matchesSeen),
		}
		if acc.teamID != nil {
			scorer.TeamName = teamNames[*acc.teamID]
		}
		scorers = append(scorers, scorer)
	}
	return scorers, nil
}

func (s *scorerService) teamNamesByID(ctx context.Context, competitionID int) (map[int]string, error) {
	teams, err := s.teamRepo.ListByCompetition(ctx, competitionID, false)
	if err != nil {
		return nil, fmt.Errorf("list teams for competition %d: %w", competitionID, err)
	}
	names := make(map[int]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}
	return names, nil
}

// scorerNameFromDescription derives the player name from a free-text event
// description: everything before the first '(' trimmed of whitespace, e.g.
// "John Smith (assist: Mike)" -> "John Smith".
func scorerNameFromDescription(description string) string {
	if idx := strings.Index(description, "("); idx >= 0 {
		description = description[:idx]
	}
	return strings.TrimSpace(description)
}

// assistNameFromDescription extracts the text after "assist:" up to the next
// ')', trimmed. Returns "" when the description carries no assist tag.
func assistNameFromDescription(description string) string {
	idx := strings.Index(strings.ToLower(description), "assist:")
	if idx < 0 {
		return ""
	}
	rest := description[idx+len("assist:"):]
	if end := strings.Index(rest, ")"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

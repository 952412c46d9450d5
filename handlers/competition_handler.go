package handlers

import (
	"errors"
	"net/http"

	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/services"
)

type CompetitionHandler struct {
	competitionService services.CompetitionService
	fixtureService     services.FixtureService
	drawService        services.DrawService
	standingsService   services.StandingsService
	scorerService      services.ScorerService
}

func NewCompetitionHandler(
	competitionService services.CompetitionService,
	fixtureService services.FixtureService,
	drawService services.DrawService,
	standingsService services.StandingsService,
	scorerService services.ScorerService,
) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
		fixtureService:     fixtureService,
		drawService:        drawService,
		standingsService:   standingsService,
		scorerService:      scorerService,
	}
}

// GetByIDHandler handles GET /competitions/{competitionID}
func (h *CompetitionHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	competition, err := h.competitionService.GetCompetitionByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateFixturesHandler handles POST /competitions/{competitionID}/fixtures
func (h *CompetitionHandler) GenerateFixturesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateFixturesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.fixtureService.GenerateFixtures(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PerformDrawHandler handles POST /competitions/{competitionID}/draw
func (h *CompetitionHandler) PerformDrawHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PerformDrawInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.drawService.PerformDraw(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateStandingsHandler handles POST /competitions/{competitionID}/standings/recalculate
func (h *CompetitionHandler) RecalculateStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.standingsService.RecalculateStandings(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	standings, err := h.standingsService.GetStandings(r.Context(), id, nil)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandingsHandler handles GET /competitions/{competitionID}/standings?group=
func (h *CompetitionHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var group *string
	if g := r.URL.Query().Get("group"); g != "" {
		group = &g
	}

	standings, err := h.standingsService.GetStandings(r.Context(), id, group)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTopScorersHandler handles GET /competitions/{competitionID}/topscorers?limit=
func (h *CompetitionHandler) GetTopScorersHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := parsePositiveInt(limitStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
		limit = parsed
	}

	scorers, err := h.scorerService.GetTopScorers(r.Context(), id, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"top_scorers": scorers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchesHandler handles GET /competitions/{competitionID}/matches?status=
func (h *CompetitionHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "competitionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.MatchStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ms := models.MatchStatus(s)
		switch ms {
		case models.MatchStatusScheduled, models.MatchStatusCompleted, models.MatchStatusPostponed, models.MatchStatusCancelled:
			status = &ms
		default:
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
	}

	matches, err := h.competitionService.ListMatchesByCompetition(r.Context(), id, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

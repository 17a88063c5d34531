package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/gpu-wars/internal/service"
)

// LeaderboardHandler handles leaderboard endpoints.
type LeaderboardHandler struct {
	svc *service.LeaderboardService
}

// NewLeaderboardHandler creates a LeaderboardHandler.
func NewLeaderboardHandler(svc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

// Top handles GET /api/leaderboard?limit=N
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.svc.Top(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load leaderboard")
		writeError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Submit handles POST /api/leaderboard
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.Submission
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.SubmitScore(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, service.ErrInvalidFaction), errors.Is(err, service.ErrInvalidSummary):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("Failed to submit score")
		writeError(w, http.StatusInternalServerError, "Failed to submit score")
	default:
		writeJSON(w, http.StatusCreated, entry)
	}
}

// UserBest handles GET /api/leaderboard/user/{handle}
func (h *LeaderboardHandler) UserBest(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.BestForHandle(r.Context(), r.PathValue("handle"))
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "handle is required")
	case err != nil:
		log.Error().Err(err).Msg("Failed to load user score")
		writeError(w, http.StatusInternalServerError, "Failed to fetch user score")
	case entry == nil:
		writeError(w, http.StatusNotFound, "no scores for this handle")
	default:
		writeJSON(w, http.StatusOK, entry)
	}
}

package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/gpu-wars/internal/bot"
	"github.com/freeeve/gpu-wars/internal/logger"
	"github.com/freeeve/gpu-wars/internal/repository"
	"github.com/freeeve/gpu-wars/internal/service"
	"github.com/freeeve/gpu-wars/pkg/gpuwars"
)

// MatchesChannel carries match_finished events.
const MatchesChannel = "matches"

// maxServerRounds caps arena games run inside a request.
const maxServerRounds = 200

// MatchHandler runs and serves arena matches.
type MatchHandler struct {
	leaderboardRepo repository.LeaderboardRepository
	matchRepo       repository.MatchRepository
	lbSvc           *service.LeaderboardService
	broadcaster     service.Broadcaster
	catalog         *gpuwars.Catalog
	eventLogDir     string
}

// NewMatchHandler creates a MatchHandler. catalog may be nil for the
// built-in one; an empty eventLogDir skips event log export.
func NewMatchHandler(
	leaderboardRepo repository.LeaderboardRepository,
	matchRepo repository.MatchRepository,
	lbSvc *service.LeaderboardService,
	broadcaster service.Broadcaster,
	catalog *gpuwars.Catalog,
	eventLogDir string,
) *MatchHandler {
	if broadcaster == nil {
		broadcaster = service.NoopBroadcaster{}
	}
	return &MatchHandler{
		leaderboardRepo: leaderboardRepo,
		matchRepo:       matchRepo,
		lbSvc:           lbSvc,
		broadcaster:     broadcaster,
		catalog:         catalog,
		eventLogDir:     eventLogDir,
	}
}

// RunMatch handles POST /api/matches: plays one bot-vs-bot game and stores it.
func (h *MatchHandler) RunMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Faction   string `json:"faction"`
		Handle    string `json:"twitter_handle,omitempty"`
		Seed      int64  `json:"seed,omitempty"`
		MaxRounds int    `json:"max_rounds,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	faction := gpuwars.FactionType(strings.ToUpper(strings.TrimSpace(req.Faction)))
	if faction == "" {
		faction = gpuwars.OpenG
	}
	if !knownFaction(faction) {
		writeError(w, http.StatusBadRequest, "invalid faction: "+string(faction))
		return
	}
	if req.MaxRounds <= 0 || req.MaxRounds > maxServerRounds {
		req.MaxRounds = maxServerRounds
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	result, err := bot.RunGame(ctx, bot.ArenaConfig{
		HumanFaction: faction,
		Handle:       req.Handle,
		MaxRounds:    req.MaxRounds,
		Seed:         req.Seed,
		EventLogDir:  h.eventLogDir,
		Catalog:      h.catalog,
	}, h.leaderboardRepo, h.matchRepo)
	if err != nil {
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Str("faction", string(faction)).Msg("Arena match failed")
		writeError(w, http.StatusInternalServerError, "match failed")
		return
	}

	if !result.Draw() && h.lbSvc != nil {
		h.lbSvc.Invalidate(r.Context())
	}
	h.broadcaster.BroadcastEvent(MatchesChannel, EventMatchFinished, result)
	writeJSON(w, http.StatusCreated, result)
}

func knownFaction(f gpuwars.FactionType) bool {
	for _, t := range gpuwars.AllFactionTypes() {
		if t == f {
			return true
		}
	}
	return false
}

// GetMatch handles GET /api/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.matchRepo.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load match")
		writeError(w, http.StatusInternalServerError, "failed to load match")
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Healthz handles GET /healthz
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handler

import "net/http"

// NewMux wires the API routes. A nil match handler leaves the match routes
// unregistered.
func NewMux(lb *LeaderboardHandler, matches *MatchHandler, ws *WSHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", Healthz)

	mux.HandleFunc("GET /api/leaderboard", lb.Top)
	mux.HandleFunc("POST /api/leaderboard", lb.Submit)
	mux.HandleFunc("GET /api/leaderboard/user/{handle}", lb.UserBest)
	if matches != nil {
		mux.HandleFunc("POST /api/matches", matches.RunMatch)
		mux.HandleFunc("GET /api/matches/{id}", matches.GetMatch)
	}
	if ws != nil {
		mux.HandleFunc("GET /api/ws", ws.ServeWS)
	}
	return mux
}

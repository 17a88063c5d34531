package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/freeeve/gpu-wars/internal/model"
	"github.com/freeeve/gpu-wars/internal/repository/sqlite"
	"github.com/freeeve/gpu-wars/internal/service"
)

type testServer struct {
	mux     *http.ServeMux
	hub     *Hub
	matches *sqlite.MatchRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hub := NewHub()
	lbRepo := sqlite.NewLeaderboardRepo(db)
	svc := service.NewLeaderboardService(lbRepo, nil, hub)
	matches := sqlite.NewMatchRepo(db)
	mux := NewMux(
		NewLeaderboardHandler(svc),
		NewMatchHandler(lbRepo, matches, svc, hub, nil, ""),
		NewWSHandler(hub),
	)
	return &testServer{mux: mux, hub: hub, matches: matches}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
}

func TestSubmitAndListLeaderboard(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/leaderboard",
		`{"twitter_handle":"@neo","faction":"OPENG","rounds_survived":4,"enemies_eliminated":1,"gpus_remaining":200,"score":999999}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created model.LeaderboardEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Score != 1100 || created.TwitterHandle != "neo" {
		t.Errorf("expected neo with 1100, got %+v", created)
	}

	s.do(http.MethodPost, "/api/leaderboard", `{"twitter_handle":"trin","faction":"SLOTH","rounds_survived":10}`)

	rec = s.do(http.MethodGet, "/api/leaderboard?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var top []model.LeaderboardEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &top); err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].TwitterHandle != "neo" {
		t.Errorf("expected neo on top, got %+v", top)
	}
}

func TestListEmptyLeaderboard(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/leaderboard", "")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestSubmitRejectsBadInput(t *testing.T) {
	tests := []struct {
		name, body, wantErr string
	}{
		{"not json", `not json`, "invalid request body"},
		{"missing handle", `{"faction":"OPENG"}`, "Missing required fields"},
		{"missing faction", `{"twitter_handle":"x"}`, "Missing required fields"},
		{"unknown faction", `{"twitter_handle":"x","faction":"ACME"}`, "invalid faction: ACME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(http.MethodPost, "/api/leaderboard", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := decodeError(t, rec); got != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, got)
			}
		})
	}
}

func TestBadLimit(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(http.MethodGet, "/api/leaderboard?limit=ten", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUserBest(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/leaderboard", `{"twitter_handle":"morpheus","faction":"CAMEL","gpus_remaining":10}`)
	s.do(http.MethodPost, "/api/leaderboard", `{"twitter_handle":"morpheus","faction":"CAMEL","gpus_remaining":90}`)

	rec := s.do(http.MethodGet, "/api/leaderboard/user/morpheus", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var best model.LeaderboardEntry
	json.Unmarshal(rec.Body.Bytes(), &best)
	if best.GPUsRemaining != 90 {
		t.Errorf("expected best entry with 90, got %+v", best)
	}

	rec = s.do(http.MethodGet, "/api/leaderboard/user/smith", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetMatch(t *testing.T) {
	s := newTestServer(t)
	m := &model.Match{Seed: 5, HumanFaction: "GEMAICA", Winner: "gemaica", Rounds: 6, Turns: 28}
	if err := s.matches.Create(context.Background(), m); err != nil {
		t.Fatal(err)
	}

	rec := s.do(http.MethodGet, "/api/matches/"+m.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got model.Match
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Winner != "gemaica" || got.Seed != 5 {
		t.Errorf("unexpected match %+v", got)
	}

	if rec := s.do(http.MethodGet, "/api/matches/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRunMatchStoresGame(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/matches", `{"faction":"sloth","twitter_handle":"@arena","seed":7,"max_rounds":30}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		GameID string `json:"game_id"`
		Seed   int64  `json:"seed"`
		Winner string `json:"winner"`
		Rounds int    `json:"rounds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Seed != 7 || result.Rounds > 30 {
		t.Errorf("unexpected result %+v", result)
	}

	found, err := s.matches.FindByID(context.Background(), result.GameID)
	if err != nil || found == nil {
		t.Fatalf("expected stored match, got %v, %v", found, err)
	}
	if found.HumanFaction != "SLOTH" || found.Winner != result.Winner {
		t.Errorf("stored match mismatch: %+v", found)
	}

	board := s.do(http.MethodGet, "/api/leaderboard", "")
	var top []model.LeaderboardEntry
	json.Unmarshal(board.Body.Bytes(), &top)
	wantEntries := 1
	if result.Winner == "" {
		wantEntries = 0
	}
	if len(top) != wantEntries {
		t.Errorf("expected %d leaderboard entries, got %d", wantEntries, len(top))
	}
}

func TestRunMatchRejectsUnknownFaction(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/matches", `{"faction":"ACME"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "invalid faction: ACME" {
		t.Errorf("unexpected error %q", got)
	}
}

func TestWebSocketReceivesLeaderboardUpdates(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ev WSEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if ev.Type != EventConnected {
		t.Fatalf("expected connected, got %s", ev.Type)
	}

	resp, err := http.Post(srv.URL+"/api/leaderboard", "application/json",
		strings.NewReader(`{"twitter_handle":"tank","faction":"CLARISA","rounds_survived":2}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if ev.Type != EventLeaderboardUpdated || ev.Channel != service.LeaderboardChannel {
		t.Errorf("unexpected event %+v", ev)
	}
	data, _ := ev.Data.(map[string]any)
	if data["twitter_handle"] != "tank" {
		t.Errorf("expected tank's entry, got %v", ev.Data)
	}
}

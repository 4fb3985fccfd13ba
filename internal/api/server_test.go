package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardroom/internal/config"
	"boardroom/internal/game"
	"boardroom/internal/store"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := game.NewService(store.NewMemory(), game.NewDeckGenerator(7), slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := New(config.APIConfig{Rules: game.DefaultRules(), RequestTimeout: 10 * time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, playerID string, body, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndPlayOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	var g game.Game
	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/games", "",
		map[string]any{"players": []string{"alice", "bob"}}, &g)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, g.Players, 2)
	alice, bob := g.Players[0].ID, g.Players[1].ID

	var fetched game.Game
	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/games/"+g.ID+"/", "", nil, &fetched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, g.ID, fetched.ID)

	// A validation failure is still HTTP 200, success=false in the body.
	var res game.ActionResult
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games/"+g.ID+"/actions", alice,
		game.ActionRequest{Type: game.ActionBuy, Symbol: "COBOLT", Quantity: 1_000_000}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, res.Success)

	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games/"+g.ID+"/actions", alice,
		game.ActionRequest{Type: game.ActionBuy, Symbol: "COBOLT", Quantity: 10}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, res.Success, res.Message)

	// Out-of-turn play is a conflict.
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games/"+g.ID+"/actions", bob,
		game.ActionRequest{Type: game.ActionSkip}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out game.TurnOutcome
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games/"+g.ID+"/end-turn", alice, nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, out.RoundEnded)

	var view game.PortfolioView
	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/games/"+g.ID+"/players/"+alice+"/portfolio", "", nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, view.Holdings, 1)
}

func TestDomainErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/games/nope/", "", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Missing player header.
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games/nope/end-turn", "", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var g game.Game
	doJSON(t, http.MethodPost, ts.URL+"/v1/games", "",
		map[string]any{"players": []string{"alice"}}, &g)

	// No exclusion phase in progress.
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games/"+g.ID+"/exclusion/next", g.Players[0].ID, nil, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unknown fields are rejected.
	resp = doJSON(t, http.MethodPost, ts.URL+"/v1/games/"+g.ID+"/actions", g.Players[0].ID,
		map[string]any{"type": "buy", "bogus": true}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"boardroom/internal/game"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateGame(ctx context.Context, players []string) (*game.Game, error) {
	var out game.Game
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", "", map[string]any{
		"players": players,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetGame(ctx context.Context, gameID string) (*game.Game, error) {
	var out game.Game
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID), "", nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Action(ctx context.Context, gameID, playerID string, req game.ActionRequest) (game.ActionResult, error) {
	var out game.ActionResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/actions", playerID, req, &out)
	return out, err
}

func (c *Client) EndTurn(ctx context.Context, gameID, playerID string) (game.TurnOutcome, error) {
	var out game.TurnOutcome
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/end-turn", playerID, nil, &out)
	return out, err
}

func (c *Client) ExclusionState(ctx context.Context, gameID string) (game.ExclusionView, error) {
	var out game.ExclusionView
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(gameID)+"/exclusion", "", nil, &out)
	return out, err
}

func (c *Client) ExcludeEvent(ctx context.Context, gameID, playerID, eventID string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/exclusion/exclude", playerID, map[string]any{
		"event_id": eventID,
	}, nil)
}

func (c *Client) NextLeader(ctx context.Context, gameID, playerID string) (game.TurnOutcome, error) {
	var out game.TurnOutcome
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(gameID)+"/exclusion/next", playerID, nil, &out)
	return out, err
}

func (c *Client) Portfolio(ctx context.Context, gameID, playerID string) (game.PortfolioView, error) {
	var out game.PortfolioView
	path := "/v1/games/" + url.PathEscape(gameID) + "/players/" + url.PathEscape(playerID) + "/portfolio"
	err := c.jsonRequest(ctx, http.MethodGet, path, "", nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, playerID string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("api error: %s", strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

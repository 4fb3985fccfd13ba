package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"boardroom/internal/game"
)

// Memory keeps game state as serialized snapshots, so callers never share
// live pointers with the store. That is the same isolation the Postgres
// store gives for free.
type Memory struct {
	mu    sync.RWMutex
	games map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{games: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, gameID string) (*game.Game, error) {
	m.mu.RLock()
	raw, ok := m.games[gameID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var g game.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return &g, nil
}

func (m *Memory) Save(_ context.Context, g *game.Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	m.mu.Lock()
	m.games[g.ID] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, gameID string) error {
	m.mu.Lock()
	delete(m.games, gameID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ReapIdle(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reaped := 0
	for id, raw := range m.games {
		var g game.Game
		if err := json.Unmarshal(raw, &g); err != nil {
			continue
		}
		if g.UpdatedAt.Before(cutoff) {
			delete(m.games, id)
			reaped++
		}
	}
	return reaped, nil
}

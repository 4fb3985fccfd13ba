package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"boardroom/internal/game"
)

// Postgres stores each game as one JSONB row keyed by game id.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the games table when missing. Schema migrations
// beyond this are out of scope.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id         text PRIMARY KEY,
			state      jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Postgres) Load(ctx context.Context, gameID string) (*game.Game, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT state
		FROM games
		WHERE id = $1
	`, gameID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var g game.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return &g, nil
}

func (s *Postgres) Save(ctx context.Context, g *game.Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO games (id, state, created_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET state = EXCLUDED.state, updated_at = now()
	`, g.ID, raw, g.CreatedAt)
	return err
}

func (s *Postgres) Delete(ctx context.Context, gameID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	return err
}

func (s *Postgres) ReapIdle(ctx context.Context, cutoff time.Time) (int, error) {
	cmd, err := s.db.Exec(ctx, `DELETE FROM games WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

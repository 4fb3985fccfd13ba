// Package store persists game state. The engine treats one
// load-mutate-save cycle as its transaction boundary, so Save must be
// atomic per call.
package store

import (
	"context"
	"errors"
	"time"

	"boardroom/internal/game"
)

var ErrNotFound = errors.New("game not found in store")

type Store interface {
	Load(ctx context.Context, gameID string) (*game.Game, error)
	Save(ctx context.Context, g *game.Game) error
	Delete(ctx context.Context, gameID string) error
	// ReapIdle removes games not updated since the cutoff and reports how
	// many were removed.
	ReapIdle(ctx context.Context, cutoff time.Time) (int, error)
}

package game_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"boardroom/internal/game"
	"boardroom/internal/store"

	"github.com/stretchr/testify/require"
)

// emptyDeck deals no cards so service tests stay deterministic.
type emptyDeck struct{}

func (emptyDeck) Deal(round int, players []*game.Player, stocks []*game.Stock, rules game.Rules) {
	for _, p := range players {
		p.Events = nil
		p.CorporateActions = nil
	}
}

func newTestService() *game.Service {
	return game.NewService(store.NewMemory(), emptyDeck{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServiceCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	g, err := svc.CreateGame(ctx, []string{"alice", "bob"}, game.Rules{})
	require.NoError(t, err)
	require.NotEmpty(t, g.ID)

	loaded, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, g.ID, loaded.ID)
	require.Len(t, loaded.Players, 2)
	require.NotSame(t, g, loaded, "store must hand out snapshots, not shared pointers")

	_, err = svc.GetGame(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestServicePersistsSuccessfulActions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	g, err := svc.CreateGame(ctx, []string{"alice"}, game.Rules{})
	require.NoError(t, err)
	alice := g.Players[0].ID

	res, err := svc.Apply(ctx, g.ID, alice, game.ActionRequest{Type: game.ActionBuy, Symbol: "COBOLT", Quantity: 10})
	require.NoError(t, err)
	require.True(t, res.Success)

	loaded, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	h := loaded.PlayerByID(alice).Holding("COBOLT")
	require.NotNil(t, h)
	require.Equal(t, 10, h.Quantity)
}

func TestServiceDoesNotPersistFailedActions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	g, err := svc.CreateGame(ctx, []string{"alice"}, game.Rules{})
	require.NoError(t, err)
	alice := g.Players[0].ID

	res, err := svc.Apply(ctx, g.ID, alice, game.ActionRequest{Type: game.ActionBuy, Symbol: "COBOLT", Quantity: 1_000_000})
	require.NoError(t, err)
	require.False(t, res.Success)

	loaded, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.PlayerByID(alice).Portfolio)
	require.Equal(t, game.DefaultStartingCash, loaded.PlayerByID(alice).Cash)
}

func TestServiceSequencingErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	g, err := svc.CreateGame(ctx, []string{"alice", "bob"}, game.Rules{})
	require.NoError(t, err)
	bob := g.Players[1].ID

	_, err = svc.Apply(ctx, g.ID, bob, game.ActionRequest{Type: game.ActionSkip})
	require.ErrorIs(t, err, game.ErrNotYourTurn)
	_, err = svc.EndTurn(ctx, g.ID, bob)
	require.ErrorIs(t, err, game.ErrNotYourTurn)
	_, err = svc.NextLeader(ctx, g.ID, bob)
	require.ErrorIs(t, err, game.ErrExclusionInactive)
}

func TestServiceExclusionFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	rules := game.Rules{MaxRounds: 2, TurnsPerRound: 1, StartingCash: 1_000_000}
	g, err := svc.CreateGame(ctx, []string{"alice", "bob"}, rules)
	require.NoError(t, err)
	alice, bob := g.Players[0].ID, g.Players[1].ID

	res, err := svc.Apply(ctx, g.ID, alice, game.ActionRequest{Type: game.ActionBuy, Symbol: "ZENITH", Quantity: 12000})
	require.NoError(t, err)
	require.True(t, res.Success)
	_, err = svc.EndTurn(ctx, g.ID, alice)
	require.NoError(t, err)

	out, err := svc.EndTurn(ctx, g.ID, bob)
	require.NoError(t, err)
	require.True(t, out.ExclusionStarted)

	// The exclusion sub-phase is persisted: a fresh load resumes it.
	view, err := svc.ExclusionState(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, game.ExclusionPhaseActive, view.Phase)
	require.Equal(t, alice, view.CurrentLeaderID)

	_, err = svc.NextLeader(ctx, g.ID, bob)
	require.ErrorIs(t, err, game.ErrNotCurrentLeader)

	out, err = svc.NextLeader(ctx, g.ID, alice)
	require.NoError(t, err)
	require.True(t, out.RoundEnded)

	loaded, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.CurrentRound)
}

func TestServicePortfolioView(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	g, err := svc.CreateGame(ctx, []string{"alice"}, game.Rules{})
	require.NoError(t, err)
	alice := g.Players[0].ID

	_, err = svc.Apply(ctx, g.ID, alice, game.ActionRequest{Type: game.ActionBuy, Symbol: "COBOLT", Quantity: 10})
	require.NoError(t, err)

	view, err := svc.Portfolio(ctx, g.ID, alice)
	require.NoError(t, err)
	require.Equal(t, alice, view.PlayerID)
	require.Len(t, view.Holdings, 1)
	require.Equal(t, 1300.0, view.HoldValue)
	// 10000 - 1300 cash + 1300 market value.
	require.Equal(t, 10000.0, view.NetWorth)

	_, err = svc.Portfolio(ctx, g.ID, "missing")
	require.ErrorIs(t, err, game.ErrPlayerNotFound)
}

func TestServiceSerializesPerGame(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	g, err := svc.CreateGame(ctx, []string{"alice"}, game.Rules{MaxRounds: 100})
	require.NoError(t, err)
	alice := g.Players[0].ID

	// Hammer the same game concurrently; the per-game lock must keep every
	// load-mutate-save cycle atomic.
	const workers = 8
	const buysEach = 5
	errs := make(chan error, workers*buysEach)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < buysEach; i++ {
				_, err := svc.Apply(ctx, g.ID, alice, game.ActionRequest{Type: game.ActionBuy, Symbol: "ZENITH", Quantity: 1})
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	loaded, err := svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	h := loaded.PlayerByID(alice).Holding("ZENITH")
	require.NotNil(t, h)
	require.Equal(t, workers*buysEach, h.Quantity)
	require.Equal(t, game.DefaultStockSupply-workers*buysEach, loaded.StockBySymbol("ZENITH").AvailableQuantity)
}

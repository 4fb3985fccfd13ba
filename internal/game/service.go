package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract the engine consumes. Each Save is
// assumed atomic; the service's transaction boundary is one full
// load-mutate-save cycle under the per-game lock.
type Store interface {
	Load(ctx context.Context, gameID string) (*Game, error)
	Save(ctx context.Context, g *Game) error
}

// Service serializes all mutations per game id: concurrent requests for
// the same game queue on its lock, while different games proceed in
// parallel.
type Service struct {
	store Store
	gen   CardGenerator
	log   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store, gen CardGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store: store,
		gen:   gen,
		log:   logger,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) gameLock(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[gameID] = l
	}
	return l
}

func (s *Service) CreateGame(ctx context.Context, playerNames []string, rules Rules) (*Game, error) {
	g, err := NewGame(uuid.NewString(), playerNames, rules, s.gen, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save new game: %w", err)
	}
	s.log.Info("game created", "game_id", g.ID, "players", len(g.Players), "max_rounds", g.MaxRounds)
	return g, nil
}

func (s *Service) GetGame(ctx context.Context, gameID string) (*Game, error) {
	return s.store.Load(ctx, gameID)
}

// Apply runs one in-turn action. Unsuccessful results carry a message and
// leave the game untouched, so nothing is persisted for them.
func (s *Service) Apply(ctx context.Context, gameID, playerID string, req ActionRequest) (ActionResult, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	g, err := s.store.Load(ctx, gameID)
	if err != nil {
		return ActionResult{}, err
	}
	res, err := g.Apply(playerID, req, time.Now().UTC())
	if err != nil {
		return ActionResult{}, err
	}
	if !res.Success {
		return res, nil
	}
	if err := s.store.Save(ctx, g); err != nil {
		return ActionResult{}, fmt.Errorf("save game %s: %w", gameID, err)
	}
	s.log.Info("action applied",
		"game_id", gameID, "player_id", playerID, "type", req.Type,
		"symbol", req.Symbol, "quantity", req.Quantity)
	return res, nil
}

func (s *Service) EndTurn(ctx context.Context, gameID, playerID string) (TurnOutcome, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	g, err := s.store.Load(ctx, gameID)
	if err != nil {
		return TurnOutcome{}, err
	}
	out, err := g.EndTurn(playerID, s.gen, time.Now().UTC())
	if err != nil {
		return TurnOutcome{}, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return TurnOutcome{}, fmt.Errorf("save game %s: %w", gameID, err)
	}
	if out.RoundEnded {
		s.log.Info("round ended",
			"game_id", gameID, "round", g.CurrentRound,
			"exclusion", out.ExclusionStarted, "game_over", out.GameOver)
	}
	return out, nil
}

func (s *Service) ExcludeEvent(ctx context.Context, gameID, leaderID, eventID string) error {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	g, err := s.store.Load(ctx, gameID)
	if err != nil {
		return err
	}
	if err := g.ExcludeEvent(leaderID, eventID, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return fmt.Errorf("save game %s: %w", gameID, err)
	}
	s.log.Info("event excluded", "game_id", gameID, "leader_id", leaderID, "event_id", eventID)
	return nil
}

// NextLeader advances the exclusion phase; only the current leader may
// advance. Completing the final leader finalizes the round.
func (s *Service) NextLeader(ctx context.Context, gameID, leaderID string) (TurnOutcome, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	g, err := s.store.Load(ctx, gameID)
	if err != nil {
		return TurnOutcome{}, err
	}
	le := g.LeadershipExclusion
	if le == nil || le.Phase != ExclusionPhaseActive {
		return TurnOutcome{}, ErrExclusionInactive
	}
	if le.LeaderIDs[le.CurrentLeaderIndex] != leaderID {
		return TurnOutcome{}, ErrNotCurrentLeader
	}
	out, err := g.AdvanceLeader(s.gen, time.Now().UTC())
	if err != nil {
		return TurnOutcome{}, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return TurnOutcome{}, fmt.Errorf("save game %s: %w", gameID, err)
	}
	return out, nil
}

func (s *Service) ExclusionState(ctx context.Context, gameID string) (ExclusionView, error) {
	g, err := s.store.Load(ctx, gameID)
	if err != nil {
		return ExclusionView{}, err
	}
	le := g.LeadershipExclusion
	if le == nil {
		return ExclusionView{}, ErrExclusionInactive
	}
	view := ExclusionView{
		Phase:     le.Phase,
		LeaderIDs: le.LeaderIDs,
		Completed: le.CompletedLeaderIDs,
	}
	if le.Phase == ExclusionPhaseActive {
		view.CurrentLeaderID = le.LeaderIDs[le.CurrentLeaderIndex]
		view.Excludable = g.ExcludableEvents(view.CurrentLeaderID)
	}
	return view, nil
}

func (s *Service) Portfolio(ctx context.Context, gameID, playerID string) (PortfolioView, error) {
	g, err := s.store.Load(ctx, gameID)
	if err != nil {
		return PortfolioView{}, err
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return PortfolioView{}, ErrPlayerNotFound
	}

	view := PortfolioView{PlayerID: p.ID, Name: p.Name, Cash: p.Cash}
	prices := make(map[string]float64, len(g.Stocks))
	for _, st := range g.Stocks {
		prices[st.Symbol] = st.Price
	}
	for _, h := range p.Portfolio {
		hv := HoldingDetails(h, prices[h.Symbol])
		view.Holdings = append(view.Holdings, hv)
		view.HoldValue = round2(view.HoldValue + hv.MarketValue)
	}
	view.NetWorth = PortfolioValue(p, prices)
	return view, nil
}

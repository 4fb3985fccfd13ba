package game

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// CardGenerator deals a fixed-size hand of event and corporate-action
// cards to every player for one round. The randomness source lives behind
// this interface so the engine itself stays deterministic and tests can
// inject fixed hands.
type CardGenerator interface {
	Deal(round int, players []*Player, stocks []*Stock, rules Rules)
}

// DeckGenerator is the production card source. The rand is seedable so a
// whole game can be replayed.
type DeckGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewDeckGenerator(seed int64) *DeckGenerator {
	return &DeckGenerator{rand: rand.New(rand.NewSource(seed))}
}

func (g *DeckGenerator) Deal(round int, players []*Player, stocks []*Stock, rules Rules) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range players {
		p.Events = p.Events[:0]
		p.CorporateActions = p.CorporateActions[:0]
		for i := 0; i < rules.HandEvents; i++ {
			p.Events = append(p.Events, g.randomEvent(round, p.ID, stocks))
		}
		for i := 0; i < rules.HandCorporateActions; i++ {
			p.CorporateActions = append(p.CorporateActions, g.randomCorporateAction(round, p.ID, stocks))
		}
	}
}

func (g *DeckGenerator) randomEvent(round int, playerID string, stocks []*Stock) *MarketEvent {
	ev := &MarketEvent{
		ID:       uuid.NewString(),
		Round:    round,
		PlayerID: playerID,
	}

	roll := g.rand.Float64()
	switch {
	case roll < 0.05:
		ev.Type = EventCrash
		ev.Impact = -(20 + g.rand.Float64()*20)
	case roll < 0.10:
		ev.Type = EventBullRun
		ev.Impact = 20 + g.rand.Float64()*20
	case roll < 0.22:
		ev.Type = EventInflation
		ev.Impact = -(2 + g.rand.Float64()*8)
	case roll < 0.30:
		ev.Type = EventDeflation
		ev.Impact = 2 + g.rand.Float64()*8
	case roll < 0.65:
		ev.Type = EventBoom
		ev.Impact = 2 + g.rand.Float64()*18
	default:
		ev.Type = EventDecline
		ev.Impact = -(2 + g.rand.Float64()*18)
	}
	ev.Impact = round2(ev.Impact)
	ev.Severity = EventSeverity(ev.Impact)

	if !IsCashEvent(ev.Type) {
		ev.AffectedStocks = g.pickSymbols(stocks, 1+g.rand.Intn(3))
	}
	return ev
}

func (g *DeckGenerator) pickSymbols(stocks []*Stock, n int) []string {
	if n > len(stocks) {
		n = len(stocks)
	}
	perm := g.rand.Perm(len(stocks))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, stocks[i].Symbol)
	}
	return out
}

var bonusRatios = []BonusIssueDetails{
	{Ratio: 1, BaseShares: 5},
	{Ratio: 1, BaseShares: 4},
	{Ratio: 1, BaseShares: 2},
	{Ratio: 2, BaseShares: 5},
}

func (g *DeckGenerator) randomCorporateAction(round int, playerID string, stocks []*Stock) *CorporateAction {
	ca := &CorporateAction{
		ID:       uuid.NewString(),
		Round:    round,
		PlayerID: playerID,
	}
	switch g.rand.Intn(3) {
	case 0:
		ca.Type = ActionDividend
		// Symbol is chosen by the player at play time.
		ca.Dividend = &DividendDetails{Percentage: round2(0.02 + g.rand.Float64()*0.08)}
	case 1:
		ca.Type = ActionBonusIssue
		ratio := bonusRatios[g.rand.Intn(len(bonusRatios))]
		ca.BonusIssue = &ratio
	default:
		ca.Type = ActionRightIssue
		ca.RightsIssue = &RightsIssueDetails{
			DiscountPercent: round2(10 + g.rand.Float64()*20),
			Status:          RightsPending,
		}
	}
	return ca
}

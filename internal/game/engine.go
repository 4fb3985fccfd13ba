package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var stockCatalog = []struct {
	Symbol string
	Name   string
	Price  float64
}{
	{"COBOLT", "Cobalt Dynamics", 130},
	{"NIMBUS", "Nimbus Labs", 95},
	{"RUSTIC", "Rustic Systems", 115},
	{"PYLONS", "Pylon Networks", 80},
	{"JAVOLT", "Javolt Cloud", 105},
	{"SWIFTR", "Swiftr Mobile", 150},
	{"VECTRA", "Vectra AI", 165},
	{"ZENITH", "Zenith Retail", 75},
}

// NewGame builds a fresh aggregate: seeded stock catalog, one player per
// name with starting cash, and round-1 hands dealt.
func NewGame(id string, playerNames []string, rules Rules, gen CardGenerator, now time.Time) (*Game, error) {
	if len(playerNames) == 0 {
		return nil, fmt.Errorf("at least one player is required")
	}
	if len(playerNames) > MaxPlayers {
		return nil, fmt.Errorf("at most %d players are supported", MaxPlayers)
	}
	rules = rules.withDefaults()

	g := &Game{
		ID:                 id,
		CurrentRound:       1,
		MaxRounds:          rules.MaxRounds,
		CurrentTurnInRound: 1,
		TurnsPerRound:      rules.TurnsPerRound,
		Rules:              rules,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, row := range stockCatalog {
		g.Stocks = append(g.Stocks, &Stock{
			Symbol:            row.Symbol,
			Name:              row.Name,
			Price:             row.Price,
			AvailableQuantity: DefaultStockSupply,
			TotalQuantity:     DefaultStockSupply,
		})
	}
	for _, name := range playerNames {
		g.Players = append(g.Players, &Player{
			ID:   uuid.NewString(),
			Name: name,
			Cash: round2(rules.StartingCash),
		})
	}
	gen.Deal(1, g.Players, g.Stocks, rules)
	return g, nil
}

func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.CurrentPlayerIndex]
}

func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) StockBySymbol(symbol string) *Stock {
	for _, s := range g.Stocks {
		if s.Symbol == symbol {
			return s
		}
	}
	return nil
}

func (g *Game) exclusionActive() bool {
	return g.LeadershipExclusion != nil && g.LeadershipExclusion.Phase == ExclusionPhaseActive
}

// Apply executes one in-turn action for the current player. Validation
// failures surface as an unsuccessful ActionResult with no mutation;
// sequencing failures return an error before anything is touched.
func (g *Game) Apply(playerID string, req ActionRequest, now time.Time) (ActionResult, error) {
	if g.IsComplete {
		return ActionResult{}, ErrGameComplete
	}
	if g.exclusionActive() {
		return ActionResult{}, ErrExclusionActive
	}
	player := g.PlayerByID(playerID)
	if player == nil {
		return ActionResult{}, ErrPlayerNotFound
	}
	if g.CurrentPlayer().ID != playerID {
		return ActionResult{}, ErrNotYourTurn
	}

	var res ActionResult
	switch req.Type {
	case ActionBuy:
		res = g.applyTrade(player, req, true, now)
	case ActionSell:
		res = g.applyTrade(player, req, false, now)
	case ActionSkip:
		res = ActionResult{Success: true, Message: "turn skipped"}
		g.logAction(player, TurnLogEntry{Action: string(ActionSkip), Result: "ok"}, now)
	case ActionPlayCorporate:
		res = g.playCorporateAction(player, req, now)
	case ActionExerciseRights:
		res = g.exerciseRights(player, req, now)
	default:
		return ActionResult{}, fmt.Errorf("unknown action type %q", req.Type)
	}
	g.UpdatedAt = now
	return res, nil
}

func (g *Game) applyTrade(player *Player, req ActionRequest, buy bool, now time.Time) ActionResult {
	if err := ValidateSymbol(req.Symbol); err != nil {
		return ActionResult{Message: err.Error()}
	}
	stock := g.StockBySymbol(req.Symbol)
	if stock == nil {
		return ActionResult{Message: ErrStockNotFound.Error()}
	}

	action, verb := string(ActionSell), "sold"
	var err error
	if buy {
		action, verb = string(ActionBuy), "bought"
		err = ExecuteBuy(player, stock, req.Quantity)
	} else {
		err = ExecuteSell(player, stock, req.Quantity)
	}
	if err != nil {
		return ActionResult{Message: err.Error()}
	}
	g.logAction(player, TurnLogEntry{
		Action:     action,
		Symbol:     req.Symbol,
		Quantity:   req.Quantity,
		Price:      stock.Price,
		TotalValue: round2(stock.Price * float64(req.Quantity)),
		Result:     "ok",
	}, now)
	return ActionResult{
		Success: true,
		Message: fmt.Sprintf("%s %d %s at %.2f", verb, req.Quantity, req.Symbol, stock.Price),
	}
}

func (g *Game) playCorporateAction(player *Player, req ActionRequest, now time.Time) ActionResult {
	var card *CorporateAction
	for _, ca := range player.CorporateActions {
		if ca.ID == req.CorporateActionID {
			card = ca
			break
		}
	}
	if card == nil {
		return ActionResult{Message: ErrCardNotFound.Error()}
	}
	if card.Played {
		return ActionResult{Message: ErrCardAlreadyPlayed.Error()}
	}
	if err := ValidateSymbol(req.Symbol); err != nil {
		return ActionResult{Message: err.Error()}
	}
	stock := g.StockBySymbol(req.Symbol)
	if stock == nil {
		return ActionResult{Message: ErrStockNotFound.Error()}
	}

	card.Played = true
	card.Symbol = req.Symbol
	var msg string
	switch card.Type {
	case ActionDividend:
		msg = fmt.Sprintf("dividend declared on %s at %.0f%%", req.Symbol, card.Dividend.Percentage*100)
	case ActionBonusIssue:
		msg = fmt.Sprintf("bonus issue declared on %s (%d per %d held)", req.Symbol, card.BonusIssue.Ratio, card.BonusIssue.BaseShares)
	case ActionRightIssue:
		card.RightsIssue.Status = RightsActive
		card.RightsIssue.EligiblePlayerIDs = SnapshotRightsEligibility(g.Players, req.Symbol)
		card.RightsIssue.ExpiresAtPlayerID = player.ID
		msg = fmt.Sprintf("rights issue opened on %s at %.0f%% discount", req.Symbol, card.RightsIssue.DiscountPercent)
	}
	g.logAction(player, TurnLogEntry{
		Action: string(ActionPlayCorporate),
		Symbol: req.Symbol,
		Result: string(card.Type),
	}, now)
	return ActionResult{Success: true, Message: msg, Toasts: []string{msg}}
}

func (g *Game) exerciseRights(player *Player, req ActionRequest, now time.Time) ActionResult {
	card := g.findCorporateAction(req.CorporateActionID)
	if card == nil || card.Type != ActionRightIssue {
		return ActionResult{Message: ErrCardNotFound.Error()}
	}
	ri := card.RightsIssue
	if !card.Played || ri.Status != RightsActive {
		return ActionResult{Message: ErrOfferNotActive.Error()}
	}
	if !containsString(ri.EligiblePlayerIDs, player.ID) {
		return ActionResult{Message: ErrNotEligible.Error()}
	}
	if containsString(card.PlayersProcessed, player.ID) {
		return ActionResult{Message: "offer already exercised"}
	}
	stock := g.StockBySymbol(card.Symbol)
	if stock == nil {
		return ActionResult{Message: ErrStockNotFound.Error()}
	}

	price := RightsIssuePrice(stock.Price, ri.DiscountPercent)
	switch {
	case req.Quantity <= 0:
		return ActionResult{Message: ErrInvalidQuantity.Error()}
	case req.Quantity > stock.AvailableQuantity:
		return ActionResult{Message: ErrInsufficientShares.Error()}
	case round2(price*float64(req.Quantity)) > player.Cash:
		return ActionResult{Message: ErrInsufficientFunds.Error()}
	}
	applyBuy(player, stock, req.Quantity, price)
	card.PlayersProcessed = append(card.PlayersProcessed, player.ID)
	g.logAction(player, TurnLogEntry{
		Action:     string(ActionExerciseRights),
		Symbol:     card.Symbol,
		Quantity:   req.Quantity,
		Price:      price,
		TotalValue: round2(price * float64(req.Quantity)),
		Result:     "ok",
	}, now)
	return ActionResult{
		Success: true,
		Message: fmt.Sprintf("exercised rights: %d %s at %.2f", req.Quantity, card.Symbol, price),
	}
}

func (g *Game) findCorporateAction(id string) *CorporateAction {
	for _, p := range g.Players {
		for _, ca := range p.CorporateActions {
			if ca.ID == id {
				return ca
			}
		}
	}
	return nil
}

func (g *Game) logAction(player *Player, entry TurnLogEntry, now time.Time) {
	entry.Round = g.CurrentRound
	entry.Turn = g.CurrentTurnInRound
	entry.Timestamp = now
	player.ActionHistory = append(player.ActionHistory, entry)
}

// EndTurn rotates to the next player and, on wrapping past the final turn
// of the round, runs round-end processing synchronously. When at least one
// leader exists the round parks in the leadership-exclusion sub-phase and
// only finalizes once the last leader advances.
func (g *Game) EndTurn(playerID string, gen CardGenerator, now time.Time) (TurnOutcome, error) {
	var out TurnOutcome
	if g.IsComplete {
		return out, ErrGameComplete
	}
	if g.exclusionActive() {
		return out, ErrExclusionActive
	}
	if g.CurrentPlayer().ID != playerID {
		return out, ErrNotYourTurn
	}

	g.CurrentPlayerIndex++
	if g.CurrentPlayerIndex >= len(g.Players) {
		g.CurrentPlayerIndex = 0
		g.CurrentTurnInRound++
	}
	g.expireRightsFor(g.CurrentPlayer().ID)
	g.UpdatedAt = now

	if g.CurrentTurnInRound <= g.TurnsPerRound {
		return out, nil
	}

	out.RoundEnded = true
	g.recomputeLeadership()
	leaders := g.collectLeaders()
	if len(leaders) > 0 {
		g.LeadershipExclusion = &LeadershipExclusionStatus{
			Phase:              ExclusionPhaseActive,
			LeaderIDs:          leaders,
			CurrentLeaderIndex: 0,
			CompletedLeaderIDs: []string{},
		}
		out.ExclusionStarted = true
		return out, nil
	}
	if err := g.finalizeRound(gen, now); err != nil {
		return out, err
	}
	out.GameOver = g.IsComplete
	return out, nil
}

func (g *Game) recomputeLeadership() {
	for _, s := range g.Stocks {
		res := CalculateLeadership(g.Players, s.Symbol, s.TotalQuantity,
			s.ChairmanID, s.DirectorID, g.Rules.ChairmanThreshold, g.Rules.DirectorThreshold)
		s.ChairmanID = res.ChairmanID
		s.DirectorID = res.DirectorID
	}
}

// collectLeaders returns the distinct chairman/director holders in stock
// iteration order, chairman before director, first occurrence wins. The
// order is stable for the whole exclusion phase.
func (g *Game) collectLeaders() []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range g.Stocks {
		for _, id := range []string{s.ChairmanID, s.DirectorID} {
			if id != "" && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// ExcludableEvents lists the current-round events the leader may veto: a
// chairman any event touching a stock they chair, a director only events
// from their own hand touching a stock they direct.
func (g *Game) ExcludableEvents(leaderID string) []*MarketEvent {
	var out []*MarketEvent
	for _, p := range g.Players {
		for _, ev := range p.Events {
			if ev.ExcludedBy == "" && !ev.Applied && g.mayExclude(leaderID, ev) {
				out = append(out, ev)
			}
		}
	}
	return out
}

func (g *Game) mayExclude(leaderID string, ev *MarketEvent) bool {
	for _, symbol := range ev.AffectedStocks {
		s := g.StockBySymbol(symbol)
		if s == nil {
			continue
		}
		if s.ChairmanID == leaderID {
			return true
		}
		if s.DirectorID == leaderID && ev.PlayerID == leaderID {
			return true
		}
	}
	return false
}

// ExcludeEvent records a leader veto during the exclusion phase. A leader
// may exclude at most one event per stock during their turn in the phase.
func (g *Game) ExcludeEvent(leaderID, eventID string, now time.Time) error {
	if !g.exclusionActive() {
		return ErrExclusionInactive
	}
	le := g.LeadershipExclusion
	if le.LeaderIDs[le.CurrentLeaderIndex] != leaderID {
		return ErrNotCurrentLeader
	}

	var target *MarketEvent
	for _, p := range g.Players {
		for _, ev := range p.Events {
			if ev.ID == eventID {
				target = ev
				break
			}
		}
	}
	if target == nil {
		return fmt.Errorf("event %s: %w", eventID, ErrCardNotFound)
	}
	if target.ExcludedBy != "" {
		return fmt.Errorf("event already excluded")
	}
	if target.Applied {
		return fmt.Errorf("event already applied")
	}
	if !g.mayExclude(leaderID, target) {
		return fmt.Errorf("leader may not exclude this event")
	}
	for _, p := range g.Players {
		for _, ev := range p.Events {
			if ev.ExcludedBy != leaderID {
				continue
			}
			for _, symbol := range target.AffectedStocks {
				if EventAffectsStock(ev.AffectedStocks, symbol) {
					return fmt.Errorf("already excluded an event for %s this turn", symbol)
				}
			}
		}
	}
	target.ExcludedBy = leaderID
	g.UpdatedAt = now
	return nil
}

// AdvanceLeader moves the exclusion phase to the next leader; advancing
// past the final leader completes the phase and finalizes the round.
func (g *Game) AdvanceLeader(gen CardGenerator, now time.Time) (TurnOutcome, error) {
	var out TurnOutcome
	if !g.exclusionActive() {
		return out, ErrExclusionInactive
	}
	le := g.LeadershipExclusion
	le.CompletedLeaderIDs = append(le.CompletedLeaderIDs, le.LeaderIDs[le.CurrentLeaderIndex])
	le.CurrentLeaderIndex++
	g.UpdatedAt = now
	if le.CurrentLeaderIndex < len(le.LeaderIDs) {
		return out, nil
	}

	le.Phase = ExclusionPhaseCompleted
	out.RoundEnded = true
	if err := g.finalizeRound(gen, now); err != nil {
		return out, err
	}
	out.GameOver = g.IsComplete
	return out, nil
}

// finalizeRound is the back half of round-end processing, run only after
// exclusions are collected: apply effects, append price history, deal the
// next hands and advance the round counter. It either fully applies or
// returns an error without a partial save (the caller must not persist on
// error).
func (g *Game) finalizeRound(gen CardGenerator, now time.Time) error {
	g.applyEvents()
	if err := g.applyCorporateActions(); err != nil {
		return err
	}

	for _, s := range g.Stocks {
		s.PriceHistory = append(s.PriceHistory, PricePoint{Round: g.CurrentRound, Price: s.Price})
	}

	g.CurrentRound++
	g.CurrentTurnInRound = 1
	g.CurrentPlayerIndex = 0
	if g.CurrentRound > g.MaxRounds {
		g.IsComplete = true
	} else {
		carried := g.activeRightsIssues()
		gen.Deal(g.CurrentRound, g.Players, g.Stocks, g.Rules)
		for _, ca := range carried {
			if owner := g.PlayerByID(ca.PlayerID); owner != nil {
				owner.CorporateActions = append(owner.CorporateActions, ca)
			}
		}
		g.expireRightsFor(g.CurrentPlayer().ID)
	}
	g.UpdatedAt = now
	return g.checkInvariants()
}

// applyEvents applies every non-excluded event in player order, each
// player's hand in dealt order. Stock events move prices; inflation and
// deflation move every player's cash.
func (g *Game) applyEvents() {
	for _, p := range g.Players {
		for _, ev := range p.Events {
			if ev.ExcludedBy != "" || ev.Applied {
				continue
			}
			if IsCashEvent(ev.Type) {
				for _, target := range g.Players {
					target.Cash = ApplyCashImpact(target.Cash, ev.Impact, 0)
				}
				ev.ActualImpact = ev.Impact
			} else {
				var diff float64
				for _, symbol := range ev.AffectedStocks {
					s := g.StockBySymbol(symbol)
					if s == nil {
						continue
					}
					old := s.Price
					s.Price = ApplyPriceImpact(old, ev.Impact, g.Rules.PriceFloor)
					diff += s.Price - old
				}
				ev.PriceDiff = round2(diff)
				ev.ActualImpact = ev.Impact
			}
			ev.Applied = true
		}
	}
}

// applyCorporateActions settles every played dividend and bonus issue.
// Rights issues settle during turns (exercise) and expire on the issuer's
// turn recurrence, so there is nothing to do for them here.
func (g *Game) applyCorporateActions() error {
	for _, p := range g.Players {
		for _, ca := range p.CorporateActions {
			if !ca.Played {
				continue
			}
			switch ca.Type {
			case ActionDividend:
				g.settleDividend(ca)
			case ActionBonusIssue:
				if err := g.settleBonusIssue(ca); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Game) settleDividend(ca *CorporateAction) {
	stock := g.StockBySymbol(ca.Symbol)
	if stock == nil || len(ca.PlayersProcessed) > 0 {
		return
	}
	for _, payout := range CalculateDividends(g.Players, ca.Symbol, stock.Price, ca.Dividend.Percentage) {
		holder := g.PlayerByID(payout.PlayerID)
		holder.Cash = round2(holder.Cash + payout.Amount)
		ca.PlayersProcessed = append(ca.PlayersProcessed, payout.PlayerID)
	}
}

func (g *Game) settleBonusIssue(ca *CorporateAction) error {
	stock := g.StockBySymbol(ca.Symbol)
	if stock == nil || len(ca.PlayersProcessed) > 0 {
		return nil
	}
	res := CalculateBonusIssue(g.Players, ca.Symbol, ca.BonusIssue.Ratio, ca.BonusIssue.BaseShares, stock.TotalQuantity)
	if res.TotalBonusShares > stock.AvailableQuantity {
		return fmt.Errorf("bonus issue on %s grants %d shares with only %d unissued", ca.Symbol, res.TotalBonusShares, stock.AvailableQuantity)
	}
	for _, d := range res.Distributions {
		h := g.PlayerByID(d.PlayerID).Holding(ca.Symbol)
		h.Quantity = d.NewQuantity
		h.AverageCost = d.NewAverageCost
		ca.PlayersProcessed = append(ca.PlayersProcessed, d.PlayerID)
	}
	stock.AvailableQuantity -= res.TotalBonusShares
	return nil
}

func (g *Game) activeRightsIssues() []*CorporateAction {
	var out []*CorporateAction
	for _, p := range g.Players {
		for _, ca := range p.CorporateActions {
			if ca.Type == ActionRightIssue && ca.Played && ca.RightsIssue.Status == RightsActive {
				out = append(out, ca)
			}
		}
	}
	return out
}

func (g *Game) expireRightsFor(playerID string) {
	for _, p := range g.Players {
		for _, ca := range p.CorporateActions {
			if ca.Type == ActionRightIssue && ca.Played &&
				ca.RightsIssue.Status == RightsActive &&
				ca.RightsIssue.ExpiresAtPlayerID == playerID {
				ca.RightsIssue.Status = RightsExpired
			}
		}
	}
}

// checkInvariants guards the aggregate after a round-end transition.
// A failure here is an engine defect, not caller misuse; the transition
// must be aborted rather than persisted.
func (g *Game) checkInvariants() error {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return fmt.Errorf("player index %d out of range", g.CurrentPlayerIndex)
	}
	for _, p := range g.Players {
		if p.Cash < 0 {
			return fmt.Errorf("player %s has negative cash %.2f", p.ID, p.Cash)
		}
		for _, h := range p.Portfolio {
			if h.Quantity <= 0 {
				return fmt.Errorf("player %s holds non-positive quantity of %s", p.ID, h.Symbol)
			}
		}
	}
	for _, s := range g.Stocks {
		issued := 0
		for _, p := range g.Players {
			if h := p.Holding(s.Symbol); h != nil {
				issued += h.Quantity
			}
		}
		if issued+s.AvailableQuantity != s.TotalQuantity {
			return fmt.Errorf("stock %s supply mismatch: issued %d + available %d != total %d",
				s.Symbol, issued, s.AvailableQuantity, s.TotalQuantity)
		}
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

package game

import "testing"

func newTestStock(symbol string, price float64, available, total int) *Stock {
	return &Stock{Symbol: symbol, Name: symbol, Price: price, AvailableQuantity: available, TotalQuantity: total}
}

func newTestPlayer(id string, cash float64) *Player {
	return &Player{ID: id, Name: id, Cash: cash}
}

func TestValidateBuyTrade(t *testing.T) {
	v := ValidateBuyTrade(10, 100, 500, 5000)
	if !v.IsValid {
		t.Fatalf("expected valid trade, got error %q", v.Error)
	}
	if v.MaxQuantity != 50 {
		t.Fatalf("max quantity %d want 50", v.MaxQuantity)
	}

	v = ValidateBuyTrade(0, 100, 500, 5000)
	if v.IsValid || v.Error != ErrInvalidQuantity.Error() {
		t.Fatalf("zero quantity should fail with invalid quantity, got %+v", v)
	}

	v = ValidateBuyTrade(600, 100, 500, 100000)
	if v.IsValid || v.Error != ErrInsufficientShares.Error() {
		t.Fatalf("oversupply buy should fail, got %+v", v)
	}

	v = ValidateBuyTrade(60, 100, 500, 5000)
	if v.IsValid || v.Error != ErrInsufficientFunds.Error() {
		t.Fatalf("unaffordable buy should fail, got %+v", v)
	}
	if v.MaxQuantity != 50 {
		t.Fatalf("max quantity %d want 50", v.MaxQuantity)
	}

	// Availability caps the affordable maximum.
	v = ValidateBuyTrade(1, 100, 20, 1000000)
	if v.MaxQuantity != 20 {
		t.Fatalf("max quantity %d want 20", v.MaxQuantity)
	}
}

func TestExecuteBuyWeightedAverageCost(t *testing.T) {
	p := newTestPlayer("p1", 10000)
	s := newTestStock("COBOLT", 100, 1000, 1000)

	if err := ExecuteBuy(p, s, 10); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	s.Price = 200
	if err := ExecuteBuy(p, s, 10); err != nil {
		t.Fatalf("second buy: %v", err)
	}

	h := p.Holding("COBOLT")
	if h == nil {
		t.Fatalf("missing holding")
	}
	if h.Quantity != 20 {
		t.Fatalf("quantity %d want 20", h.Quantity)
	}
	// (10*100 + 10*200) / 20 = 150
	if h.AverageCost != 150.0 {
		t.Fatalf("average cost %v want 150", h.AverageCost)
	}
	if p.Cash != 7000.0 {
		t.Fatalf("cash %v want 7000", p.Cash)
	}
	if s.AvailableQuantity != 980 {
		t.Fatalf("available %d want 980", s.AvailableQuantity)
	}
}

func TestExecuteBuyFailureLeavesStateUntouched(t *testing.T) {
	p := newTestPlayer("p1", 50)
	s := newTestStock("COBOLT", 100, 1000, 1000)

	if err := ExecuteBuy(p, s, 10); err == nil {
		t.Fatalf("expected error on unaffordable buy")
	}
	if p.Cash != 50.0 || len(p.Portfolio) != 0 || s.AvailableQuantity != 1000 {
		t.Fatalf("failed buy mutated state: cash=%v holdings=%d avail=%d", p.Cash, len(p.Portfolio), s.AvailableQuantity)
	}
}

func TestExecuteSell(t *testing.T) {
	p := newTestPlayer("p1", 0)
	s := newTestStock("COBOLT", 120, 980, 1000)
	p.Portfolio = []StockHolding{{Symbol: "COBOLT", Quantity: 20, AverageCost: 100}}

	if err := ExecuteSell(p, s, 5); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if p.Cash != 600.0 {
		t.Fatalf("cash %v want 600", p.Cash)
	}
	h := p.Holding("COBOLT")
	if h.Quantity != 15 || h.AverageCost != 100.0 {
		t.Fatalf("remaining holding %+v, cost basis must not change on sale", *h)
	}
	if s.AvailableQuantity != 985 {
		t.Fatalf("available %d want 985", s.AvailableQuantity)
	}

	// Selling down to zero removes the holding entirely.
	if err := ExecuteSell(p, s, 15); err != nil {
		t.Fatalf("sell rest: %v", err)
	}
	if p.Holding("COBOLT") != nil {
		t.Fatalf("zero-quantity holding should be removed")
	}

	if err := ExecuteSell(p, s, 1); err == nil {
		t.Fatalf("selling shares you do not hold must fail")
	}
}

func TestPortfolioValue(t *testing.T) {
	p := newTestPlayer("p1", 500)
	p.Portfolio = []StockHolding{
		{Symbol: "COBOLT", Quantity: 10, AverageCost: 100},
		{Symbol: "NIMBUS", Quantity: 4, AverageCost: 90},
	}
	prices := map[string]float64{"COBOLT": 110, "NIMBUS": 80}
	// 500 + 10*110 + 4*80 = 1920
	if got := PortfolioValue(p, prices); got != 1920.0 {
		t.Fatalf("got %v want 1920", got)
	}
}

func TestHoldingDetails(t *testing.T) {
	view := HoldingDetails(StockHolding{Symbol: "COBOLT", Quantity: 10, AverageCost: 100}, 125)
	if view.MarketValue != 1250.0 || view.CostBasis != 1000.0 {
		t.Fatalf("market=%v basis=%v", view.MarketValue, view.CostBasis)
	}
	if view.ProfitLoss != 250.0 || view.ProfitLossPct != 25.0 {
		t.Fatalf("pl=%v pct=%v want 250 / 25", view.ProfitLoss, view.ProfitLossPct)
	}
}

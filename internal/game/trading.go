package game

import "fmt"

// TradeValidation is the outcome of checking a prospective buy order.
// MaxQuantity reports the largest quantity that is both affordable and
// available, whether or not the requested quantity passed.
type TradeValidation struct {
	IsValid     bool   `json:"is_valid"`
	Error       string `json:"error,omitempty"`
	MaxQuantity int    `json:"max_quantity"`
}

func ValidateBuyTrade(quantity int, price float64, availableQuantity int, cash float64) TradeValidation {
	max := maxAffordable(price, availableQuantity, cash)
	switch {
	case quantity <= 0:
		return TradeValidation{Error: ErrInvalidQuantity.Error(), MaxQuantity: max}
	case quantity > availableQuantity:
		return TradeValidation{Error: ErrInsufficientShares.Error(), MaxQuantity: max}
	case round2(price*float64(quantity)) > cash:
		return TradeValidation{Error: ErrInsufficientFunds.Error(), MaxQuantity: max}
	}
	return TradeValidation{IsValid: true, MaxQuantity: max}
}

func maxAffordable(price float64, availableQuantity int, cash float64) int {
	if price <= 0 {
		return availableQuantity
	}
	max := int(cash / price)
	if max > availableQuantity {
		max = availableQuantity
	}
	if max < 0 {
		max = 0
	}
	return max
}

// ExecuteBuy debits cash, takes shares from the stock's available supply
// and folds the purchase into the weighted-average cost of the holding.
// All-or-nothing: on error neither player nor stock is touched.
func ExecuteBuy(player *Player, stock *Stock, quantity int) error {
	v := ValidateBuyTrade(quantity, stock.Price, stock.AvailableQuantity, player.Cash)
	if !v.IsValid {
		return fmt.Errorf("buy %d %s: %s (max %d)", quantity, stock.Symbol, v.Error, v.MaxQuantity)
	}

	applyBuy(player, stock, quantity, stock.Price)
	return nil
}

// applyBuy performs the buy mutation at an explicit price. Rights-issue
// exercises reuse this with the discounted price; validation is the
// caller's job.
func applyBuy(player *Player, stock *Stock, quantity int, price float64) {
	cost := round2(price * float64(quantity))
	if i := holdingIndex(player, stock.Symbol); i >= 0 {
		h := &player.Portfolio[i]
		oldQty := h.Quantity
		newQty := oldQty + quantity
		h.AverageCost = round2((h.AverageCost*float64(oldQty) + price*float64(quantity)) / float64(newQty))
		h.Quantity = newQty
	} else {
		player.Portfolio = append(player.Portfolio, StockHolding{
			Symbol:      stock.Symbol,
			Quantity:    quantity,
			AverageCost: round2(price),
		})
	}
	player.Cash = round2(player.Cash - cost)
	stock.AvailableQuantity -= quantity
}

// ExecuteSell credits cash at the current price and returns shares to the
// available supply. Cost basis of the remaining shares is unchanged; the
// holding is removed entirely when it reaches zero.
func ExecuteSell(player *Player, stock *Stock, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("sell %d %s: %w", quantity, stock.Symbol, ErrInvalidQuantity)
	}
	i := holdingIndex(player, stock.Symbol)
	if i < 0 || player.Portfolio[i].Quantity < quantity {
		held := 0
		if i >= 0 {
			held = player.Portfolio[i].Quantity
		}
		return fmt.Errorf("sell %d %s: %w (held %d)", quantity, stock.Symbol, ErrInsufficientShares, held)
	}

	proceeds := round2(stock.Price * float64(quantity))
	player.Portfolio[i].Quantity -= quantity
	if player.Portfolio[i].Quantity == 0 {
		player.Portfolio = append(player.Portfolio[:i], player.Portfolio[i+1:]...)
	}
	player.Cash = round2(player.Cash + proceeds)
	stock.AvailableQuantity += quantity
	return nil
}

func holdingIndex(player *Player, symbol string) int {
	for i := range player.Portfolio {
		if player.Portfolio[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

// Holding returns the player's holding for symbol, or nil.
func (p *Player) Holding(symbol string) *StockHolding {
	if i := holdingIndex(p, symbol); i >= 0 {
		return &p.Portfolio[i]
	}
	return nil
}

// PortfolioValue is cash plus market value of every holding, in cents.
func PortfolioValue(player *Player, prices map[string]float64) float64 {
	total := player.Cash
	for _, h := range player.Portfolio {
		total += prices[h.Symbol] * float64(h.Quantity)
	}
	return round2(total)
}

// HoldingDetails reports per-holding market value and profit/loss against
// cost basis, in absolute and percentage terms.
func HoldingDetails(h StockHolding, currentPrice float64) HoldingView {
	market := round2(currentPrice * float64(h.Quantity))
	basis := round2(h.AverageCost * float64(h.Quantity))
	pl := round2(market - basis)
	pct := float64(0)
	if basis != 0 {
		pct = round2(pl / basis * 100)
	}
	return HoldingView{
		Symbol:        h.Symbol,
		Quantity:      h.Quantity,
		AverageCost:   h.AverageCost,
		CurrentPrice:  currentPrice,
		MarketValue:   market,
		CostBasis:     basis,
		ProfitLoss:    pl,
		ProfitLossPct: pct,
	}
}

package game

import "math"

// DividendPayout is one shareholder's slice of a dividend.
type DividendPayout struct {
	PlayerID string  `json:"player_id"`
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// CalculateDividends computes the per-shareholder payout for a dividend at
// the given rate of the current price. Holders with zero quantity do not
// appear in the result at all. Pure: the player set is never mutated.
func CalculateDividends(players []*Player, symbol string, price, rate float64) []DividendPayout {
	var out []DividendPayout
	for _, p := range players {
		h := p.Holding(symbol)
		if h == nil || h.Quantity <= 0 {
			continue
		}
		out = append(out, DividendPayout{
			PlayerID: p.ID,
			Quantity: h.Quantity,
			Amount:   round2(float64(h.Quantity) * price * rate),
		})
	}
	return out
}

// BonusDistribution is one shareholder's grant from a bonus issue.
type BonusDistribution struct {
	PlayerID       string  `json:"player_id"`
	Quantity       int     `json:"quantity"`
	BonusShares    int     `json:"bonus_shares"`
	NewQuantity    int     `json:"new_quantity"`
	NewAverageCost float64 `json:"new_average_cost"`
}

type BonusIssueResult struct {
	Distributions         []BonusDistribution `json:"distributions"`
	TotalBonusShares      int                 `json:"total_bonus_shares"`
	CurrentIssuedQuantity int                 `json:"current_issued_quantity"`
	MaxStockQuantity      int                 `json:"max_stock_quantity"`
	WouldExceedLimit      bool                `json:"would_exceed_limit"`
}

// CalculateBonusIssue grants ratio free shares per baseShares held,
// flooring per shareholder. If the grants would push the issued quantity
// past the supply cap, every grant is scaled by available/intended and
// floored again independently, which preserves relative ownership within
// one share of floor error. The scaled total may undershoot the cap;
// that slack is accepted, there is no remainder pass.
func CalculateBonusIssue(players []*Player, symbol string, ratio, baseShares, maxStockQuantity int) BonusIssueResult {
	res := BonusIssueResult{MaxStockQuantity: maxStockQuantity}
	if ratio <= 0 || baseShares <= 0 {
		return res
	}

	type stake struct {
		player   *Player
		quantity int
		avgCost  float64
		intended int
	}
	var stakes []stake
	totalIntended := 0
	for _, p := range players {
		h := p.Holding(symbol)
		if h == nil || h.Quantity <= 0 {
			continue
		}
		res.CurrentIssuedQuantity += h.Quantity
		intended := (h.Quantity / baseShares) * ratio
		if intended <= 0 {
			continue
		}
		stakes = append(stakes, stake{player: p, quantity: h.Quantity, avgCost: h.AverageCost, intended: intended})
		totalIntended += intended
	}
	if totalIntended == 0 {
		return res
	}

	scale := 1.0
	if res.CurrentIssuedQuantity+totalIntended > maxStockQuantity {
		res.WouldExceedLimit = true
		available := maxStockQuantity - res.CurrentIssuedQuantity
		if available <= 0 {
			return res
		}
		scale = float64(available) / float64(totalIntended)
	}

	for _, s := range stakes {
		bonus := int(math.Floor(float64(s.intended) * scale))
		if bonus <= 0 {
			continue
		}
		newQty := s.quantity + bonus
		res.Distributions = append(res.Distributions, BonusDistribution{
			PlayerID:       s.player.ID,
			Quantity:       s.quantity,
			BonusShares:    bonus,
			NewQuantity:    newQty,
			NewAverageCost: round2(s.avgCost * float64(s.quantity) / float64(newQty)),
		})
		res.TotalBonusShares += bonus
	}
	return res
}

// SnapshotRightsEligibility freezes the set of players entitled to a
// rights issue at the moment the card is played. Later trades do not
// change eligibility.
func SnapshotRightsEligibility(players []*Player, symbol string) []string {
	var out []string
	for _, p := range players {
		if h := p.Holding(symbol); h != nil && h.Quantity > 0 {
			out = append(out, p.ID)
		}
	}
	return out
}

// RightsIssuePrice is the discounted purchase price of an active rights
// issue, never below a cent.
func RightsIssuePrice(currentPrice, discountPercent float64) float64 {
	price := round2(currentPrice * (1 - discountPercent/100))
	if price < 0.01 {
		return 0.01
	}
	return price
}

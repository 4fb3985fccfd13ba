package game

import "sort"

// OwnershipEntry is one shareholder's stake in a stock.
type OwnershipEntry struct {
	PlayerID   string  `json:"player_id"`
	Quantity   int     `json:"quantity"`
	Percentage float64 `json:"percentage"`
}

// LeadershipResult pairs the two per-stock roles.
type LeadershipResult struct {
	ChairmanID string `json:"chairman_id,omitempty"`
	DirectorID string `json:"director_id,omitempty"`
}

// CalculateOwnership lists shareholders of symbol sorted by quantity
// descending. Ties keep the input player order, which is what makes the
// chairman/director tie-break stable.
func CalculateOwnership(players []*Player, symbol string, totalIssued int) []OwnershipEntry {
	var out []OwnershipEntry
	for _, p := range players {
		h := p.Holding(symbol)
		if h == nil || h.Quantity <= 0 {
			continue
		}
		pct := float64(0)
		if totalIssued > 0 {
			pct = float64(h.Quantity) / float64(totalIssued) * 100
		}
		out = append(out, OwnershipEntry{PlayerID: p.ID, Quantity: h.Quantity, Percentage: pct})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})
	return out
}

// DetermineChairman picks the largest holder at or above the threshold.
// When the sitting chairman is tied for the maximum they keep the seat;
// leadership must not flicker between equally weighted holders.
func DetermineChairman(ownership []OwnershipEntry, currentChairmanID string, threshold float64) string {
	return pickLeader(ownership, currentChairmanID, threshold, "")
}

// DetermineDirector applies the same rule over the holders excluding the
// chairman: one player never holds both roles.
func DetermineDirector(ownership []OwnershipEntry, currentDirectorID, chairmanID string, threshold float64) string {
	return pickLeader(ownership, currentDirectorID, threshold, chairmanID)
}

func pickLeader(ownership []OwnershipEntry, incumbentID string, threshold float64, excludeID string) string {
	minPct := threshold * 100
	best := ""
	bestQty := 0
	incumbentQty := -1
	for _, e := range ownership {
		if e.PlayerID == excludeID || e.Percentage < minPct {
			continue
		}
		if best == "" || e.Quantity > bestQty {
			best = e.PlayerID
			bestQty = e.Quantity
		}
		if e.PlayerID == incumbentID {
			incumbentQty = e.Quantity
		}
	}
	if best == "" {
		return ""
	}
	if incumbentQty == bestQty && incumbentID != "" {
		return incumbentID
	}
	return best
}

// CalculateLeadership composes ownership, chairman and director for one
// stock. Each stock is evaluated independently.
func CalculateLeadership(players []*Player, symbol string, totalIssued int, currentChairmanID, currentDirectorID string, chairmanThreshold, directorThreshold float64) LeadershipResult {
	ownership := CalculateOwnership(players, symbol, totalIssued)
	chairman := DetermineChairman(ownership, currentChairmanID, chairmanThreshold)
	director := DetermineDirector(ownership, currentDirectorID, chairman, directorThreshold)
	return LeadershipResult{ChairmanID: chairman, DirectorID: director}
}

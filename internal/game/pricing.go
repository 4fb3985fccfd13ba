package game

import "math"

// ApplyPriceImpact adds a fixed-dollar impact to a price, clamped to the
// floor. Deterministic and side-effect free.
func ApplyPriceImpact(price, impact, floor float64) float64 {
	next := round2(price + impact)
	if next < floor {
		return floor
	}
	return next
}

// ApplyMultiplePriceImpacts folds ApplyPriceImpact over the impacts in
// order. The input slice is never mutated.
func ApplyMultiplePriceImpacts(price float64, impacts []float64, floor float64) float64 {
	next := price
	for _, impact := range impacts {
		next = ApplyPriceImpact(next, impact, floor)
	}
	return next
}

// ApplyCashImpact applies a percentage impact to a cash value, clamped to
// the floor and rounded to cents.
func ApplyCashImpact(cash, percent, floor float64) float64 {
	next := round2(cash * (1 + percent/100))
	if next < floor {
		return floor
	}
	return next
}

func PriceChangePercentage(oldPrice, newPrice float64) float64 {
	if oldPrice == 0 {
		return 0
	}
	return (newPrice - oldPrice) / oldPrice * 100
}

// ClassifySeverity is the single authoritative banding of impact
// magnitude. Event severity elsewhere must delegate here.
func ClassifySeverity(impact float64) Severity {
	abs := math.Abs(impact)
	switch {
	case abs < 10:
		return SeverityLow
	case abs < 20:
		return SeverityMedium
	case abs < 30:
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}

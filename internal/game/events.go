package game

// EventSeverity classifies an event's impact magnitude. It delegates to
// the pricing banding so there is one source of truth.
func EventSeverity(impact float64) Severity {
	return ClassifySeverity(impact)
}

func IsRareEvent(t EventType) bool {
	return t == EventCrash || t == EventBullRun
}

// IsCashEvent reports whether the event acts on player cash instead of a
// stock price. Cash events carry an empty affected-stocks list and a
// percentage impact.
func IsCashEvent(t EventType) bool {
	return t == EventInflation || t == EventDeflation
}

func EventAffectsStock(affectedStocks []string, symbol string) bool {
	for _, s := range affectedStocks {
		if s == symbol {
			return true
		}
	}
	return false
}

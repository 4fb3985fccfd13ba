package game

import "testing"

func TestIsRareEvent(t *testing.T) {
	rare := []EventType{EventCrash, EventBullRun}
	for _, et := range rare {
		if !IsRareEvent(et) {
			t.Fatalf("expected %s to be rare", et)
		}
	}
	common := []EventType{EventBoom, EventDecline, EventInflation, EventDeflation}
	for _, et := range common {
		if IsRareEvent(et) {
			t.Fatalf("expected %s not to be rare", et)
		}
	}
}

func TestEventSeverityDelegatesToBanding(t *testing.T) {
	for _, impact := range []float64{5, 10, 15, 20, 25, 30} {
		if EventSeverity(impact) != ClassifySeverity(impact) {
			t.Fatalf("severity mismatch for impact %v", impact)
		}
	}
}

func TestEventAffectsStock(t *testing.T) {
	affected := []string{"COBOLT", "NIMBUS"}
	if !EventAffectsStock(affected, "NIMBUS") {
		t.Fatalf("expected NIMBUS to be affected")
	}
	if EventAffectsStock(affected, "ZENITH") {
		t.Fatalf("expected ZENITH not to be affected")
	}
	if EventAffectsStock(nil, "COBOLT") {
		t.Fatalf("empty list affects nothing")
	}
}

func TestIsCashEvent(t *testing.T) {
	if !IsCashEvent(EventInflation) || !IsCashEvent(EventDeflation) {
		t.Fatalf("inflation/deflation act on cash")
	}
	if IsCashEvent(EventCrash) {
		t.Fatalf("crash is a stock event")
	}
}

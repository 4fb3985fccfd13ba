package game

import "testing"

func TestApplyPriceImpact(t *testing.T) {
	if got := ApplyPriceImpact(100, 12.5, 0); got != 112.5 {
		t.Fatalf("got %v want 112.5", got)
	}
	if got := ApplyPriceImpact(100, -30, 0); got != 70.0 {
		t.Fatalf("got %v want 70", got)
	}
}

func TestApplyPriceImpactClampsToFloor(t *testing.T) {
	if got := ApplyPriceImpact(10, -25, 0); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
	if got := ApplyPriceImpact(10, -25, 5); got != 5.0 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestApplyMultiplePriceImpacts(t *testing.T) {
	impacts := []float64{10, -5, 2.25}
	got := ApplyMultiplePriceImpacts(100, impacts, 0)
	if got != 107.25 {
		t.Fatalf("got %v want 107.25", got)
	}
	if impacts[0] != 10 || impacts[1] != -5 || impacts[2] != 2.25 {
		t.Fatalf("input impacts mutated: %v", impacts)
	}
}

func TestApplyCashImpact(t *testing.T) {
	if got := ApplyCashImpact(1000, -5, 0); got != 950.0 {
		t.Fatalf("got %v want 950", got)
	}
	if got := ApplyCashImpact(333.33, 3, 0); got != 343.33 {
		t.Fatalf("got %v want 343.33", got)
	}
	if got := ApplyCashImpact(100, -150, 0); got != 0.0 {
		t.Fatalf("got %v want 0 (floor)", got)
	}
}

func TestPriceChangePercentage(t *testing.T) {
	if got := PriceChangePercentage(100, 125); got != 25.0 {
		t.Fatalf("got %v want 25", got)
	}
	if got := PriceChangePercentage(0, 50); got != 0.0 {
		t.Fatalf("got %v want 0 on zero base", got)
	}
}

func TestClassifySeverityBands(t *testing.T) {
	tests := []struct {
		impact float64
		want   Severity
	}{
		{5, SeverityLow},
		{-5, SeverityLow},
		{9.99, SeverityLow},
		{10, SeverityMedium},
		{15, SeverityMedium},
		{-15, SeverityMedium},
		{20, SeverityHigh},
		{25, SeverityHigh},
		{30, SeverityExtreme},
		{-42, SeverityExtreme},
	}
	for _, tc := range tests {
		if got := ClassifySeverity(tc.impact); got != tc.want {
			t.Fatalf("impact=%v got=%s want=%s", tc.impact, got, tc.want)
		}
	}
}

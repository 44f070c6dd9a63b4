package analytics

import (
	"math"
	"testing"
)

func TestUtilization(t *testing.T) {
	if got := Utilization(40, 1); got != 100 {
		t.Fatalf("expected 100, got %.2f", got)
	}
	if got := Utilization(30, 1); got != 75 {
		t.Fatalf("expected 75, got %.2f", got)
	}
	if got := Utilization(120, 4); got != 75 {
		t.Fatalf("expected 75 over 4 weeks, got %.2f", got)
	}
	if got := Utilization(40, 0); got != 0 {
		t.Fatalf("zero weeks must yield 0, got %.2f", got)
	}
}

func TestVarianceIsSigned(t *testing.T) {
	if got := Variance(38, 40); got != -2 {
		t.Fatalf("expected -2, got %.2f", got)
	}
	if got := Variance(45, 40); got != 5 {
		t.Fatalf("expected 5, got %.2f", got)
	}
}

func TestForecastCompliance(t *testing.T) {
	// 40h forecast, 38h actual: variance -2, compliance 95.
	if got := ForecastCompliance(38, 40); got != 95 {
		t.Fatalf("expected 95, got %.2f", got)
	}
	// No forecast is trivially compliant.
	if got := ForecastCompliance(37, 0); got != 100 {
		t.Fatalf("expected 100 for zero forecast, got %.2f", got)
	}
	// Wildly off actuals clamp at the floor, never negative.
	if got := ForecastCompliance(500, 10); got != 0 {
		t.Fatalf("expected clamp to 0, got %.2f", got)
	}
}

func TestForecastComplianceRange(t *testing.T) {
	cases := []struct{ actual, forecast float64 }{
		{0, 0}, {10, 0}, {0, 10}, {10, 10}, {7.3, 41.2}, {400, 3}, {38, 40},
	}
	for _, c := range cases {
		got := ForecastCompliance(c.actual, c.forecast)
		if got < 0 || got > 100 {
			t.Fatalf("compliance(%v, %v) out of range: %.2f", c.actual, c.forecast, got)
		}
	}
}

func TestUtilizationRateZeroForecastDiverges(t *testing.T) {
	// The zero-denominator policy intentionally differs from compliance.
	if got := UtilizationRate(30, 0); got != 0 {
		t.Fatalf("expected 0 for zero forecast, got %.2f", got)
	}
	if got := ForecastCompliance(30, 0); got != 100 {
		t.Fatalf("expected 100 for zero forecast, got %.2f", got)
	}
	if got := UtilizationRate(30, 40); got != 75 {
		t.Fatalf("expected 75, got %.2f", got)
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(-2, 40); got != 95 {
		t.Fatalf("expected 95, got %.2f", got)
	}
	if got := Accuracy(5, 0); got != 100 {
		t.Fatalf("expected 100 for zero forecast, got %.2f", got)
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(37.4999); got != 37.5 {
		t.Fatalf("expected 37.5, got %v", got)
	}
	if got := Round1(37.44); got != 37.4 {
		t.Fatalf("expected 37.4, got %v", got)
	}
	if got := Round1(-2.05); math.Abs(got+2.1) > 1e-9 && math.Abs(got+2) > 1e-9 {
		t.Fatalf("unexpected rounding of -2.05: %v", got)
	}
}

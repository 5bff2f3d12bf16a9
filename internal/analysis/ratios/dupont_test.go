package ratios

import (
	"math"
	"testing"
)

func TestComputeMargins(t *testing.T) {
	m := ComputeMargins(IncomeStatement{
		Revenue:      10000,
		COGS:         6000,
		OpEx:         2000,
		Depreciation: 500,
		Interest:     200,
		TaxRate:      0.25,
	})

	if m.GrossProfit != 4000 {
		t.Errorf("expected gross profit 4000, got %.2f", m.GrossProfit)
	}
	if m.EBIT != 1500 {
		t.Errorf("expected EBIT 1500, got %.2f", m.EBIT)
	}
	if m.EBT != 1300 {
		t.Errorf("expected EBT 1300, got %.2f", m.EBT)
	}
	if math.Abs(m.NetIncome-975) > 1e-9 {
		t.Errorf("expected net income 975, got %.2f", m.NetIncome)
	}
	if math.Abs(m.GrossMargin-40) > 1e-9 || math.Abs(m.OperatingMargin-15) > 1e-9 || math.Abs(m.NetMargin-9.75) > 1e-9 {
		t.Errorf("margins wrong: gross %.2f op %.2f net %.2f", m.GrossMargin, m.OperatingMargin, m.NetMargin)
	}
}

func TestComputeMarginsZeroRevenue(t *testing.T) {
	m := ComputeMargins(IncomeStatement{Revenue: 0, COGS: 100})
	if m.GrossMargin != 0 || m.NetMargin != 0 {
		t.Errorf("zero revenue must zero the margins, got %.2f / %.2f", m.GrossMargin, m.NetMargin)
	}
}

func TestDuPont(t *testing.T) {
	r := DuPont(10000, 1500, 200, 325, 5000, 2000)

	if math.Abs(r.TaxBurden-0.75) > 1e-9 {
		t.Errorf("expected tax burden 0.75, got %.4f", r.TaxBurden)
	}
	if math.Abs(r.InterestBurden-1300.0/1500.0) > 1e-9 {
		t.Errorf("expected interest burden %.4f, got %.4f", 1300.0/1500.0, r.InterestBurden)
	}
	if math.Abs(r.ProfitMargin-0.15) > 1e-9 {
		t.Errorf("expected margin 0.15, got %.4f", r.ProfitMargin)
	}
	if math.Abs(r.AssetTurnover-2.0) > 1e-9 {
		t.Errorf("expected turnover 2.0, got %.4f", r.AssetTurnover)
	}
	if math.Abs(r.Leverage-2.5) > 1e-9 {
		t.Errorf("expected leverage 2.5, got %.4f", r.Leverage)
	}

	// The five factors must multiply back to the direct ROE.
	direct := 975.0 / 2000.0 * 100
	if math.Abs(r.ROE-direct) > 1e-9 {
		t.Errorf("decomposed ROE %.4f must equal direct %.4f", r.ROE, direct)
	}
	if math.Abs(r.ROA-19.5) > 1e-9 {
		t.Errorf("expected ROA 19.5, got %.4f", r.ROA)
	}
	if r.Rating != "Excellent" {
		t.Errorf("expected Excellent for ROE %.2f%%, got %q", r.ROE, r.Rating)
	}
}

func TestDuPontGuardsDenominators(t *testing.T) {
	r := DuPont(0, 0, 0, 0, 0, 0)
	if r.ROE != 0 || r.ROA != 0 {
		t.Errorf("all-zero inputs must not divide by zero: ROE %.2f ROA %.2f", r.ROE, r.ROA)
	}
	if r.Rating != "Below Average" {
		t.Errorf("expected Below Average, got %q", r.Rating)
	}
}

func TestRateROEBands(t *testing.T) {
	tests := []struct {
		roe  float64
		want string
	}{
		{25, "Excellent"},
		{20, "Excellent"},
		{17, "Good"},
		{12, "Average"},
		{5, "Below Average"},
	}
	for _, tt := range tests {
		if got := rateROE(tt.roe); got != tt.want {
			t.Errorf("rateROE(%.0f) = %q, want %q", tt.roe, got, tt.want)
		}
	}
}

func TestEVA(t *testing.T) {
	// NOPAT 800 × 0.75 = 600, charge 0.10 × 5000 = 500 → EVA 100.
	if got := EVA(800, 0.25, 0.10, 5000); math.Abs(got-100) > 1e-9 {
		t.Errorf("expected EVA 100, got %.2f", got)
	}
	// Value destruction when the capital charge dominates.
	if got := EVA(400, 0.25, 0.10, 5000); got >= 0 {
		t.Errorf("expected negative EVA, got %.2f", got)
	}
}

package equity

import (
	"math"
	"testing"
)

func TestCAPMRequiredReturn(t *testing.T) {
	// rf 3%, beta 1.2, market 10% → 3% + 1.2 × 7% = 11.4%
	got := CAPMRequiredReturn(0.03, 1.2, 0.10)
	if math.Abs(got-0.114) > 1e-12 {
		t.Errorf("expected 0.114, got %.6f", got)
	}
	// Beta zero collapses to the risk-free rate.
	if got := CAPMRequiredReturn(0.03, 0, 0.10); got != 0.03 {
		t.Errorf("expected risk-free rate for beta 0, got %.6f", got)
	}
}

func TestGordonGrowth(t *testing.T) {
	// D0=2, g=5%, k=10% → 2.10 / 0.05 = 42
	got := GordonGrowth(2.00, 0.05, 0.10)
	if math.Abs(got-42.0) > 1e-9 {
		t.Errorf("expected 42.00, got %.4f", got)
	}
}

func TestGordonGrowthDiverges(t *testing.T) {
	if !math.IsNaN(GordonGrowth(2.00, 0.10, 0.10)) {
		t.Error("growth == required return must be undefined")
	}
	if !math.IsNaN(GordonGrowth(2.00, 0.12, 0.10)) {
		t.Error("growth above required return must be undefined")
	}
}

func TestTwoStageDDM(t *testing.T) {
	p := TwoStageDDMParams{
		D0:             2.00,
		HighGrowth:     0.15,
		StableGrowth:   0.04,
		RequiredReturn: 0.11,
		HighYears:      5,
	}

	res := TwoStageDDM(p)
	if res.Value <= 0 {
		t.Fatalf("expected positive value, got %.4f", res.Value)
	}
	if math.Abs(res.Value-(res.PVHighGrowth+res.PVTerminal)) > 1e-9 {
		t.Errorf("value %.4f must equal sum of parts %.4f + %.4f",
			res.Value, res.PVHighGrowth, res.PVTerminal)
	}

	// With high growth above the discount rate minus stable growth, the
	// terminal value dominates.
	if res.PVTerminal <= res.PVHighGrowth {
		t.Errorf("terminal value %.4f should exceed phase-one PV %.4f",
			res.PVTerminal, res.PVHighGrowth)
	}

	// Higher required return must lower the value.
	p.RequiredReturn = 0.14
	if lower := TwoStageDDM(p); lower.Value >= res.Value {
		t.Errorf("higher discount rate must lower value: %.4f vs %.4f", lower.Value, res.Value)
	}
}

func TestTwoStageDDMCollapsesToGordon(t *testing.T) {
	// With equal growth in both phases the model must agree with the
	// single-stage formula.
	p := TwoStageDDMParams{
		D0:             2.00,
		HighGrowth:     0.05,
		StableGrowth:   0.05,
		RequiredReturn: 0.10,
		HighYears:      5,
	}
	got := TwoStageDDM(p).Value
	want := GordonGrowth(2.00, 0.05, 0.10)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("two-stage with flat growth should equal Gordon: %.6f vs %.6f", got, want)
	}
}

func TestTwoStageDDMUndefined(t *testing.T) {
	p := TwoStageDDMParams{D0: 2, HighGrowth: 0.15, StableGrowth: 0.12, RequiredReturn: 0.10, HighYears: 5}
	if res := TwoStageDDM(p); !math.IsNaN(res.Value) {
		t.Errorf("stable growth above k must be undefined, got %.4f", res.Value)
	}
	p = TwoStageDDMParams{D0: 2, HighGrowth: 0.15, StableGrowth: 0.04, RequiredReturn: 0.10, HighYears: 0}
	if res := TwoStageDDM(p); !math.IsNaN(res.Value) {
		t.Errorf("zero-length phase must be undefined, got %.4f", res.Value)
	}
}

func TestPERelativeValue(t *testing.T) {
	if got := PERelativeValue(50, 22); got != 1100 {
		t.Errorf("expected 1100, got %.2f", got)
	}
	if got := PERelativeValue(-5, 22); got != 0 {
		t.Errorf("expected 0 for negative EPS, got %.2f", got)
	}
}

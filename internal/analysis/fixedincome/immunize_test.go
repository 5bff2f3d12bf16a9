package fixedincome

import (
	"errors"
	"math"
	"testing"
)

func classroomLiability() ImmunizationInput {
	return ImmunizationInput{
		LiabilityAmount: 10000,
		LiabilityYears:  5,
		CouponRate:      0.06,
		Yield:           0.08,
	}
}

func TestImmunizeMatchesTargetDuration(t *testing.T) {
	plan, err := Immunize(classroomLiability())
	if err != nil {
		t.Fatalf("Immunize: %v", err)
	}

	if plan.Maturity < 5 {
		t.Errorf("coupon bond must mature at or after the horizon, got %.2f years", plan.Maturity)
	}
	if math.Abs(plan.Duration-5) > 0.1 {
		t.Errorf("expected duration within 0.1 of target 5.0, got %.4f", plan.Duration)
	}
	if plan.BondPrice <= 0 {
		t.Errorf("expected positive bond price, got %.2f", plan.BondPrice)
	}

	wantPV := 10000 / math.Pow(1.08, 5)
	if math.Abs(plan.PVLiability-wantPV) > 0.01 {
		t.Errorf("expected PV(liability) %.2f, got %.2f", wantPV, plan.PVLiability)
	}
	if math.Abs(plan.BondCount-plan.PVLiability/plan.BondPrice) > 1e-9 {
		t.Errorf("bond count %.6f inconsistent with PV/price", plan.BondCount)
	}
	if math.Abs(plan.TotalInvestment-plan.PVLiability) > 0.01 {
		t.Errorf("total investment %.2f should equal PV of liability %.2f",
			plan.TotalInvestment, plan.PVLiability)
	}
}

func TestImmunizeZeroCouponPicksHorizon(t *testing.T) {
	in := classroomLiability()
	in.CouponRate = 0 // duration == maturity, so the horizon itself is optimal

	plan, err := Immunize(in)
	if err != nil {
		t.Fatalf("Immunize: %v", err)
	}
	if math.Abs(plan.Maturity-5) > 1e-9 {
		t.Errorf("zero-coupon match should pick maturity 5.0, got %.4f", plan.Maturity)
	}
	if math.Abs(plan.Duration-5) > 1e-9 {
		t.Errorf("expected duration 5.0, got %.4f", plan.Duration)
	}
}

func TestImmunizeNoFeasibleMaturity(t *testing.T) {
	in := classroomLiability()
	in.CouponRate = -1.0 // coupons swamp the face value; every price is negative

	_, err := Immunize(in)
	if !errors.Is(err, ErrNoFeasibleMaturity) {
		t.Fatalf("expected ErrNoFeasibleMaturity, got %v", err)
	}
}

func TestProjectShockUnshockedFundsLiability(t *testing.T) {
	in := classroomLiability()
	plan, err := Immunize(in)
	if err != nil {
		t.Fatalf("Immunize: %v", err)
	}

	// With no shock the position grows at the original yield and should
	// land on the liability up to grid granularity.
	proj := plan.ProjectShock(in, 0)
	if math.Abs(proj.ShortfallPct) > 2 {
		t.Errorf("unshocked plan should fund the liability closely, shortfall %.2f%%", proj.ShortfallPct)
	}
}

func TestProjectShockSmallShocksStayImmunized(t *testing.T) {
	in := classroomLiability()
	plan, err := Immunize(in)
	if err != nil {
		t.Fatalf("Immunize: %v", err)
	}

	for _, dy := range []float64{-0.01, -0.005, 0.005, 0.01} {
		proj := plan.ProjectShock(in, dy)
		if math.Abs(proj.ShortfallPct) > 3 {
			t.Errorf("Δy=%.3f: duration matching should limit shortfall, got %.2f%%", dy, proj.ShortfallPct)
		}
		if proj.TotalValue <= 0 {
			t.Errorf("Δy=%.3f: projected value must be positive, got %.2f", dy, proj.TotalValue)
		}
	}
}

func TestProjectShockPriceAndReinvestmentOffset(t *testing.T) {
	in := classroomLiability()
	plan, err := Immunize(in)
	if err != nil {
		t.Fatalf("Immunize: %v", err)
	}

	up := plan.ProjectShock(in, 0.01)
	down := plan.ProjectShock(in, -0.01)

	// Rates up: bonds cheaper today, coupons reinvest richer. Rates down:
	// the reverse. Both horizon values stay near the liability.
	if up.PortfolioValueToday >= down.PortfolioValueToday {
		t.Errorf("higher yield must mark the position lower today: up %.2f, down %.2f",
			up.PortfolioValueToday, down.PortfolioValueToday)
	}
	if up.CouponFV <= down.CouponFV {
		t.Errorf("higher yield must reinvest coupons richer: up %.2f, down %.2f",
			up.CouponFV, down.CouponFV)
	}
}

package options

import (
	"math"
	"testing"
)

func TestCallPayoff(t *testing.T) {
	tests := []struct {
		name    string
		spot    float64
		pos     Position
		want    float64
	}{
		{"long ITM", 120, Long, 15},   // max(120-100,0) - 5
		{"long OTM", 90, Long, -5},    // premium lost
		{"long ATM", 100, Long, -5},
		{"short ITM", 120, Short, -15},
		{"short OTM", 90, Short, 5}, // premium kept
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CallPayoff(tt.spot, 100, 5, tt.pos); got != tt.want {
				t.Errorf("CallPayoff(%.0f) = %.2f, want %.2f", tt.spot, got, tt.want)
			}
		})
	}
}

func TestPutPayoff(t *testing.T) {
	tests := []struct {
		name string
		spot float64
		pos  Position
		want float64
	}{
		{"long ITM", 80, Long, 15}, // max(100-80,0) - 5
		{"long OTM", 110, Long, -5},
		{"short ITM", 80, Short, -15},
		{"short OTM", 110, Short, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PutPayoff(tt.spot, 100, 5, tt.pos); got != tt.want {
				t.Errorf("PutPayoff(%.0f) = %.2f, want %.2f", tt.spot, got, tt.want)
			}
		})
	}
}

func TestLongShortMirror(t *testing.T) {
	for spot := 50.0; spot <= 150; spot += 10 {
		l := CallPayoff(spot, 100, 5, Long)
		s := CallPayoff(spot, 100, 5, Short)
		if math.Abs(l+s) > 1e-12 {
			t.Errorf("spot %.0f: long %.2f and short %.2f must sum to zero", spot, l, s)
		}
	}
}

func TestBreakevens(t *testing.T) {
	// A long call is exactly flat at strike + premium.
	be := CallBreakeven(100, 5)
	if be != 105 {
		t.Fatalf("expected call breakeven 105, got %.2f", be)
	}
	if got := CallPayoff(be, 100, 5, Long); got != 0 {
		t.Errorf("payoff at breakeven must be zero, got %.2f", got)
	}

	be = PutBreakeven(100, 5)
	if be != 95 {
		t.Fatalf("expected put breakeven 95, got %.2f", be)
	}
	if got := PutPayoff(be, 100, 5, Long); got != 0 {
		t.Errorf("payoff at breakeven must be zero, got %.2f", got)
	}
}

func TestSeries(t *testing.T) {
	pts := Series(50, 150, 101, func(s float64) float64 {
		return CallPayoff(s, 100, 5, Long)
	})
	if len(pts) != 101 {
		t.Fatalf("expected 101 points, got %d", len(pts))
	}
	if pts[0].Spot != 50 || pts[100].Spot != 150 {
		t.Errorf("endpoints wrong: [%.2f, %.2f]", pts[0].Spot, pts[100].Spot)
	}
	// Long call payoff is non-decreasing in spot.
	for i := 1; i < len(pts); i++ {
		if pts[i].Payoff < pts[i-1].Payoff {
			t.Fatalf("long call payoff must not decrease: %.2f then %.2f", pts[i-1].Payoff, pts[i].Payoff)
		}
	}
	if Series(100, 100, 10, func(float64) float64 { return 0 }) != nil {
		t.Error("degenerate range must return nil")
	}
}

func TestCoveredCall(t *testing.T) {
	// Stock bought at 100, call sold at strike 110 for 3.
	// Above the strike the upside is capped at 10 + 3.
	if got := CoveredCall(130, 100, 110, 3); got != 13 {
		t.Errorf("expected capped profit 13, got %.2f", got)
	}
	// Below the strike it is stock P&L plus the premium.
	if got := CoveredCall(95, 100, 110, 3); got != -2 {
		t.Errorf("expected -2, got %.2f", got)
	}
}

func TestProtectivePut(t *testing.T) {
	// Stock bought at 100, put bought at strike 95 for 2.
	// Downside is floored: for any spot below the strike the loss is
	// (95 - 100) - 2 = -7.
	for _, spot := range []float64{50, 70, 94.9} {
		if got := ProtectivePut(spot, 100, 95, 2); math.Abs(got-(-7)) > 1e-12 {
			t.Errorf("spot %.1f: expected floored loss -7, got %.2f", spot, got)
		}
	}
	// Upside is stock P&L minus the premium.
	if got := ProtectivePut(120, 100, 95, 2); got != 18 {
		t.Errorf("expected 18, got %.2f", got)
	}
}

func TestStraddle(t *testing.T) {
	// Strike 100, both premiums 4. Pinned at the strike loses both.
	if got := Straddle(100, 100, 4, 4); got != -8 {
		t.Errorf("expected -8 at the pin, got %.2f", got)
	}
	// Large move either way profits symmetrically.
	up := Straddle(130, 100, 4, 4)
	down := Straddle(70, 100, 4, 4)
	if up != 22 || down != 22 {
		t.Errorf("expected 22 both sides, got up %.2f down %.2f", up, down)
	}
}

// Package options implements option payoff arithmetic at expiry: single
// calls and puts (long or short), breakevens, payoff series for diagrams,
// and the classic two-leg strategies.
package options

import "math"

// Position is the side of an option trade.
type Position string

const (
	Long  Position = "long"
	Short Position = "short"
)

// CallPayoff returns the profit of a call at expiry, net of premium.
// Long: max(S − K, 0) − premium. Short is the mirror image.
func CallPayoff(spot, strike, premium float64, pos Position) float64 {
	intrinsic := math.Max(spot-strike, 0)
	if pos == Short {
		return premium - intrinsic
	}
	return intrinsic - premium
}

// PutPayoff returns the profit of a put at expiry, net of premium.
// Long: max(K − S, 0) − premium. Short is the mirror image.
func PutPayoff(spot, strike, premium float64, pos Position) float64 {
	intrinsic := math.Max(strike-spot, 0)
	if pos == Short {
		return premium - intrinsic
	}
	return intrinsic - premium
}

// CallBreakeven is the expiry price at which a call position is flat.
func CallBreakeven(strike, premium float64) float64 { return strike + premium }

// PutBreakeven is the expiry price at which a put position is flat.
func PutBreakeven(strike, premium float64) float64 { return strike - premium }

// PayoffPoint is one sample of a payoff diagram.
type PayoffPoint struct {
	Spot   float64 `json:"spot"`
	Payoff float64 `json:"payoff"`
}

// Series samples an arbitrary payoff function over [lo, hi] for charting.
// Fewer than two samples returns nil.
func Series(lo, hi float64, samples int, payoff func(spot float64) float64) []PayoffPoint {
	if samples < 2 || hi <= lo {
		return nil
	}
	step := (hi - lo) / float64(samples-1)
	points := make([]PayoffPoint, samples)
	for i := range points {
		s := lo + float64(i)*step
		points[i] = PayoffPoint{Spot: s, Payoff: payoff(s)}
	}
	return points
}

// --- two-leg strategies, per share, entry price vs expiry spot ---

// CoveredCall is long stock plus a short call: stock P&L capped above the
// strike, cushioned by the premium collected.
func CoveredCall(spot, entry, strike, premium float64) float64 {
	return (spot - entry) + CallPayoff(spot, strike, premium, Short)
}

// ProtectivePut is long stock plus a long put: downside floored at the
// strike, at the cost of the premium.
func ProtectivePut(spot, entry, strike, premium float64) float64 {
	return (spot - entry) + PutPayoff(spot, strike, premium, Long)
}

// Straddle is a long call and long put at the same strike: profits from a
// large move in either direction, loses both premiums if the spot pins.
func Straddle(spot, strike, callPremium, putPremium float64) float64 {
	return CallPayoff(spot, strike, callPremium, Long) + PutPayoff(spot, strike, putPremium, Long)
}

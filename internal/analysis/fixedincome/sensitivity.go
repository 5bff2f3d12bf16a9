package fixedincome

import "math"

// PriceChangeDuration returns the first-order (duration-only) estimate of
// the proportional price change for a yield shift: ΔP/P ≈ −D* × Δy.
func PriceChangeDuration(modifiedDuration, deltaYield float64) float64 {
	return -modifiedDuration * deltaYield
}

// PriceChangeDurationConvexity returns the second-order estimate
// ΔP/P ≈ −D* × Δy + ½ × C × Δy². With non-negative convexity it is never
// a worse estimate than the first-order term alone.
func PriceChangeDurationConvexity(modifiedDuration, convexity, deltaYield float64) float64 {
	return -modifiedDuration*deltaYield + 0.5*convexity*deltaYield*deltaYield
}

// ActualPriceChange reprices the bond at yield+deltaYield and returns the
// exact proportional price change (P(y+Δ) − P(y)) / P(y). This is the
// reference the duration and duration+convexity estimates are validated
// against. Undefined (NaN) when the base price is zero.
func (b Bond) ActualPriceChange(yield, deltaYield float64) float64 {
	base := b.Price(yield)
	if base == 0 {
		return math.NaN()
	}
	return (b.Price(yield+deltaYield) - base) / base
}

// Sensitivity bundles the two estimates with the exact reprice for a
// single yield shift, ready for display side by side.
type Sensitivity struct {
	DeltaYield       float64 `json:"delta_yield"`
	ModifiedDuration float64 `json:"modified_duration"`
	Convexity        float64 `json:"convexity"`
	FirstOrder       float64 `json:"first_order"`
	SecondOrder      float64 `json:"second_order"`
	Actual           float64 `json:"actual"`
}

// Sensitivity computes duration, convexity, both estimators, and the exact
// repriced change for the given yield shift.
func (b Bond) Sensitivity(yield, deltaYield float64) Sensitivity {
	macaulay := b.Duration(yield)
	modDur := ModifiedDuration(macaulay, yield, b.Frequency)
	convexity := b.Convexity(yield)

	return Sensitivity{
		DeltaYield:       deltaYield,
		ModifiedDuration: modDur,
		Convexity:        convexity,
		FirstOrder:       PriceChangeDuration(modDur, deltaYield),
		SecondOrder:      PriceChangeDurationConvexity(modDur, convexity, deltaYield),
		Actual:           b.ActualPriceChange(yield, deltaYield),
	}
}

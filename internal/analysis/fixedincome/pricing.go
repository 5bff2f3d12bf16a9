package fixedincome

import "math"

// Price returns the present value of the bond's cash flows discounted at
// a flat per-period rate derived from the annual yield.
//
// The coupon annuity uses the closed form c × (1 − (1+r)^−N) / r, which is
// numerically unstable near r = 0; below zeroRateEpsilon it collapses to
// the undiscounted sum c × N. A matured bond (years ≤ 0) is worth exactly
// its face value.
func (b Bond) Price(yield float64) float64 {
	if b.Years <= 0 {
		return b.Face
	}

	n := b.Periods()
	c := b.Coupon()
	r := b.periodicRate(yield)

	var pvCoupons float64
	if math.Abs(r) < zeroRateEpsilon {
		pvCoupons = c * float64(n)
	} else {
		pvCoupons = c * (1 - math.Pow(1+r, -float64(n))) / r
	}

	pvFace := b.Face / math.Pow(1+r, float64(n))
	return pvCoupons + pvFace
}

// CurvePoint is one sample of the price-yield curve.
type CurvePoint struct {
	Yield float64 `json:"yield"`
	Price float64 `json:"price"`
}

// PriceYieldCurve samples Price over [minYield, maxYield] at evenly spaced
// yields. Used to drive price-yield charts; the resulting series is
// strictly decreasing in yield for any bond with positive cash flows.
// Fewer than two samples returns nil.
func (b Bond) PriceYieldCurve(minYield, maxYield float64, samples int) []CurvePoint {
	if samples < 2 || maxYield <= minYield {
		return nil
	}

	step := (maxYield - minYield) / float64(samples-1)
	points := make([]CurvePoint, samples)
	for i := range points {
		y := minYield + float64(i)*step
		points[i] = CurvePoint{Yield: y, Price: b.Price(y)}
	}
	return points
}

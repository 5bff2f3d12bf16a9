package fixedincome

import "math"

// Duration returns the Macaulay duration in years: the PV-weighted average
// time to receipt of the bond's cash flows, using the same schedule and
// discounting convention as Price. For a zero-coupon bond it equals the
// time to maturity; it never exceeds it. Undefined (NaN) for a matured
// bond or when the total present value is zero.
func (b Bond) Duration(yield float64) float64 {
	if b.Years <= 0 {
		return math.NaN()
	}

	var weightedPV, totalPV float64
	b.eachFlow(yield, func(t int, pv float64) {
		weightedPV += float64(t) / float64(b.Frequency) * pv
		totalPV += pv
	})

	if totalPV == 0 {
		return math.NaN()
	}
	return weightedPV / totalPV
}

// ModifiedDuration adjusts a Macaulay duration by one periodic yield:
// macaulay / (1 + yield/frequency). It approximates the proportional
// price change per unit change in annual yield.
func ModifiedDuration(macaulay, yield float64, frequency int) float64 {
	return macaulay / (1 + yield/float64(frequency))
}

// Convexity returns the discrete convexity measure
//
//	Σ PV(cf_t) × t × (t+1) / (price × (1+r)² × frequency²)
//
// over the same schedule as Price. It is non-negative for any bond with
// positive cash flows. Undefined (NaN) for a matured bond or when the
// price is zero.
func (b Bond) Convexity(yield float64) float64 {
	if b.Years <= 0 {
		return math.NaN()
	}

	price := b.Price(yield)
	if price == 0 {
		return math.NaN()
	}

	var sum float64
	b.eachFlow(yield, func(t int, pv float64) {
		sum += pv * float64(t) * float64(t+1)
	})

	r := b.periodicRate(yield)
	freq := float64(b.Frequency)
	return sum / (price * (1 + r) * (1 + r) * freq * freq)
}

// Package fixedincome implements the bond analytics core: present-value
// pricing, yield measures, duration/convexity risk metrics, sensitivity
// approximation, and duration-matching (immunization).
//
// All computations are pure functions of scalar inputs. Rates are decimals
// (0.06 = 6%), never percentages. Undefined results (division by zero in a
// ratio, metrics on an empty schedule) are signalled with NaN rather than
// an error, since these are legitimate edge cases a caller may explore.
package fixedincome

import (
	"fmt"
	"math"
)

// zeroRateEpsilon is the threshold below which a periodic rate is treated
// as zero. The discounted-annuity formula divides by the rate, so near
// zero it degenerates to the undiscounted sum instead.
const zeroRateEpsilon = 1e-12

// Bond describes a fixed-rate bullet bond.
type Bond struct {
	// Face is the face (par) value, paid at maturity. Must be positive.
	Face float64 `json:"face"`
	// CouponRate is the annual coupon rate as a decimal. Zero is valid.
	CouponRate float64 `json:"coupon_rate"`
	// Years is the time to maturity in years. Non-negative; zero or less
	// means the bond has matured.
	Years float64 `json:"years"`
	// Frequency is the number of coupon payments per year (1, 2, 4, ...).
	Frequency int `json:"frequency"`
}

// Validate checks the structural invariants of the bond.
func (b Bond) Validate() error {
	if b.Face <= 0 {
		return fmt.Errorf("bond: face value must be positive, got %g", b.Face)
	}
	if b.Frequency < 1 {
		return fmt.Errorf("bond: frequency must be at least 1, got %d", b.Frequency)
	}
	if b.Years < 0 {
		return fmt.Errorf("bond: years to maturity must be non-negative, got %g", b.Years)
	}
	return nil
}

// Periods returns the number of coupon periods N = round(years × frequency),
// floored at one so a partial final period still pays.
func (b Bond) Periods() int {
	n := int(math.Round(b.Years * float64(b.Frequency)))
	if n < 1 {
		n = 1
	}
	return n
}

// Coupon returns the coupon payment per period.
func (b Bond) Coupon() float64 {
	return b.Face * b.CouponRate / float64(b.Frequency)
}

// periodicRate converts an annual yield to the flat per-period discount rate.
func (b Bond) periodicRate(yield float64) float64 {
	return yield / float64(b.Frequency)
}

// eachFlow walks the cash-flow schedule, calling fn once per period with
// the period index t (1-based) and the present value of that period's flow
// discounted at the given annual yield. The final period's flow includes
// the face value. Discounting uses the same zero-rate degeneracy as Price
// so the two stay mutually consistent.
func (b Bond) eachFlow(yield float64, fn func(t int, pv float64)) {
	n := b.Periods()
	c := b.Coupon()
	r := b.periodicRate(yield)

	for t := 1; t <= n; t++ {
		cf := c
		if t == n {
			cf += b.Face
		}
		pv := cf
		if math.Abs(r) > zeroRateEpsilon {
			pv = cf / math.Pow(1+r, float64(t))
		}
		fn(t, pv)
	}
}

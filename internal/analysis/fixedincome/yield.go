package fixedincome

import "math"

// CurrentYield returns annual coupon income divided by price. It ignores
// capital gains and time value. Undefined (NaN) when price is zero.
func CurrentYield(couponRate, face, price float64) float64 {
	if price == 0 {
		return math.NaN()
	}
	return couponRate * face / price
}

// ApproxYTM returns the closed-form yield-to-maturity estimate
//
//	(C + (F − P)/n) / ((F + P)/2)
//
// where C is the annual coupon. This is deliberately an approximation,
// not the root of the exact pricing equation; it is the number the
// classic back-of-envelope formula produces. Undefined (NaN) when
// years ≤ 0.
func ApproxYTM(price, face, couponRate, years float64) float64 {
	if years <= 0 {
		return math.NaN()
	}
	annualCoupon := couponRate * face
	return (annualCoupon + (face-price)/years) / ((face + price) / 2)
}

// ApproxYTC returns the yield-to-call estimate, the same shape as
// ApproxYTM with the call price and call date substituted for face value
// and maturity. annualCoupon is the coupon amount per year in currency
// units, not a rate. Undefined (NaN) when yearsToCall ≤ 0.
func ApproxYTC(price, callPrice, annualCoupon, yearsToCall float64) float64 {
	if yearsToCall <= 0 {
		return math.NaN()
	}
	return (annualCoupon + (callPrice-price)/yearsToCall) / ((callPrice + price) / 2)
}

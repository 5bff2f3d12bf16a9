package fixedincome

import (
	"errors"
	"math"
)

// ErrNoFeasibleMaturity is returned when no maturity in the search range
// produces a defined duration and a positive price.
var ErrNoFeasibleMaturity = errors.New("fixedincome: no feasible maturity in search range")

// ImmunizationInput describes a single future liability and the bond
// available to fund it.
type ImmunizationInput struct {
	// LiabilityAmount is the obligation due at the horizon.
	LiabilityAmount float64 `json:"liability_amount"`
	// LiabilityYears is the horizon in years; it is also the target
	// duration, since a single cash outflow's duration is its timing.
	LiabilityYears float64 `json:"liability_years"`
	// CouponRate is the candidate bond's annual coupon rate (decimal).
	CouponRate float64 `json:"coupon_rate"`
	// Yield is the current flat annual yield (decimal).
	Yield float64 `json:"yield"`

	// Face is the candidate bond's face value; defaults to 1000.
	Face float64 `json:"face,omitempty"`
	// Frequency is coupon payments per year; defaults to 2.
	Frequency int `json:"frequency,omitempty"`
	// MaxExtension bounds the maturity search above the horizon, in
	// years; defaults to 10.
	MaxExtension float64 `json:"max_extension,omitempty"`
	// Samples is the number of maturities scanned; defaults to 100.
	Samples int `json:"samples,omitempty"`
}

func (in *ImmunizationInput) applyDefaults() {
	if in.Face <= 0 {
		in.Face = 1000
	}
	if in.Frequency < 1 {
		in.Frequency = 2
	}
	if in.MaxExtension <= 0 {
		in.MaxExtension = 10
	}
	if in.Samples < 2 {
		in.Samples = 100
	}
}

// ImmunizationPlan is the duration-matched position funding the liability.
type ImmunizationPlan struct {
	// Maturity is the chosen bond maturity in years.
	Maturity float64 `json:"maturity"`
	// Duration is the Macaulay duration of the chosen bond.
	Duration float64 `json:"duration"`
	// BondPrice is the chosen bond's current price.
	BondPrice float64 `json:"bond_price"`
	// PVLiability is the liability discounted to today at the yield.
	PVLiability float64 `json:"pv_liability"`
	// BondCount is PVLiability / BondPrice, the position size.
	BondCount float64 `json:"bond_count"`
	// TotalInvestment is BondCount × BondPrice.
	TotalInvestment float64 `json:"total_investment"`
}

// Immunize searches maturities in [max(0.5, horizon), horizon+MaxExtension]
// for the bond whose Macaulay duration is closest to the liability's
// duration, then sizes the position so its present value funds the
// liability. Near-ties resolve to the smallest maturity: the scan is in
// ascending maturity order and only a strictly smaller distance displaces
// the incumbent.
func Immunize(in ImmunizationInput) (ImmunizationPlan, error) {
	in.applyDefaults()

	target := in.LiabilityYears
	lo := math.Max(0.5, in.LiabilityYears)
	hi := in.LiabilityYears + in.MaxExtension
	step := (hi - lo) / float64(in.Samples-1)

	best := ImmunizationPlan{Duration: math.NaN()}
	bestDist := math.Inf(1)

	for i := 0; i < in.Samples; i++ {
		maturity := lo + float64(i)*step
		bond := Bond{Face: in.Face, CouponRate: in.CouponRate, Years: maturity, Frequency: in.Frequency}

		dur := bond.Duration(in.Yield)
		if math.IsNaN(dur) {
			continue
		}
		price := bond.Price(in.Yield)
		if price <= 0 {
			continue
		}

		if dist := math.Abs(dur - target); dist < bestDist {
			bestDist = dist
			best.Maturity = maturity
			best.Duration = dur
			best.BondPrice = price
		}
	}

	if math.IsNaN(best.Duration) {
		return ImmunizationPlan{}, ErrNoFeasibleMaturity
	}

	best.PVLiability = in.LiabilityAmount / math.Pow(1+in.Yield, in.LiabilityYears)
	best.BondCount = best.PVLiability / best.BondPrice
	best.TotalInvestment = best.BondCount * best.BondPrice
	return best, nil
}

// ShockProjection is the portfolio outcome at the liability horizon after
// an immediate parallel yield shock.
type ShockProjection struct {
	// NewYield is the shocked annual yield.
	NewYield float64 `json:"new_yield"`
	// PortfolioValueToday is the position marked at the shocked yield.
	PortfolioValueToday float64 `json:"portfolio_value_today"`
	// CouponFV is the value of all coupons received before the horizon,
	// reinvested to the horizon at the shocked yield.
	CouponFV float64 `json:"coupon_fv"`
	// BondValueAtHorizon is the remaining bond repriced at the horizon.
	BondValueAtHorizon float64 `json:"bond_value_at_horizon"`
	// TotalValue is the projected portfolio value at the horizon.
	TotalValue float64 `json:"total_value"`
	// Shortfall is liability − TotalValue (negative means surplus).
	Shortfall float64 `json:"shortfall"`
	// ShortfallPct is the shortfall as a percentage of the liability.
	ShortfallPct float64 `json:"shortfall_pct"`
}

// ProjectShock values the immunized position at the liability horizon
// after the yield moves immediately by deltaYield. Coupons paid before
// the horizon compound forward at the shocked yield; the bond's remaining
// life is repriced at the shocked yield. At the duration-matched maturity
// the price and reinvestment effects approximately offset.
func (p ImmunizationPlan) ProjectShock(in ImmunizationInput, deltaYield float64) ShockProjection {
	in.applyDefaults()

	newYield := in.Yield + deltaYield
	bond := Bond{Face: in.Face, CouponRate: in.CouponRate, Years: p.Maturity, Frequency: in.Frequency}

	out := ShockProjection{NewYield: newYield}
	out.PortfolioValueToday = p.BondCount * bond.Price(newYield)

	// Future value at the horizon of one bond's coupons, reinvested at
	// the shocked yield. Coupons landing on or after the horizon count
	// at face.
	freq := float64(in.Frequency)
	periods := int(math.Round(in.LiabilityYears * freq))
	if periods < 1 {
		periods = 1
	}
	coupon := in.Face * in.CouponRate / freq

	var fvCouponsOne float64
	for t := 1; t <= periods; t++ {
		remaining := in.LiabilityYears - float64(t)/freq
		if remaining > 0 {
			fvCouponsOne += coupon * math.Pow(1+newYield/freq, remaining*freq)
		} else {
			fvCouponsOne += coupon
		}
	}
	out.CouponFV = p.BondCount * fvCouponsOne

	remainingYears := math.Max(0, p.Maturity-in.LiabilityYears)
	horizonBond := Bond{Face: in.Face, CouponRate: in.CouponRate, Years: remainingYears, Frequency: in.Frequency}
	out.BondValueAtHorizon = horizonBond.Price(newYield)

	out.TotalValue = p.BondCount*out.BondValueAtHorizon + out.CouponFV
	out.Shortfall = in.LiabilityAmount - out.TotalValue
	if in.LiabilityAmount != 0 {
		out.ShortfallPct = out.Shortfall / in.LiabilityAmount * 100
	} else {
		out.ShortfallPct = math.NaN()
	}
	return out
}

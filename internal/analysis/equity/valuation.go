// Package equity implements dividend-discount and relative equity
// valuation: CAPM required return, Gordon growth, two-stage DDM, and
// P/E-relative fair value.
package equity

import "math"

// CAPMRequiredReturn returns rf + beta × (market − rf), the required
// return used as the discount rate in the dividend models.
func CAPMRequiredReturn(riskFree, beta, marketReturn float64) float64 {
	return riskFree + beta*(marketReturn-riskFree)
}

// GordonGrowth returns the constant-growth DDM value D₁/(k − g) with
// D₁ = D₀ × (1+g). The model is undefined when growth meets or exceeds
// the required return (the perpetuity diverges); that returns NaN for
// the caller to report, not an error.
func GordonGrowth(d0, growth, requiredReturn float64) float64 {
	if growth >= requiredReturn {
		return math.NaN()
	}
	d1 := d0 * (1 + growth)
	return d1 / (requiredReturn - growth)
}

// TwoStageDDMParams describes a high-growth phase followed by stable
// perpetual growth. All rates are decimals.
type TwoStageDDMParams struct {
	D0             float64 `json:"d0"`              // current dividend
	HighGrowth     float64 `json:"high_growth"`     // growth during the first phase
	StableGrowth   float64 `json:"stable_growth"`   // perpetual growth after the phase
	RequiredReturn float64 `json:"required_return"` // discount rate k
	HighYears      int     `json:"high_years"`      // length of the first phase
}

// TwoStageDDMResult splits the value into its two sources.
type TwoStageDDMResult struct {
	PVHighGrowth float64 `json:"pv_high_growth"` // PV of phase-one dividends
	PVTerminal   float64 `json:"pv_terminal"`    // PV of the terminal Gordon value
	Value        float64 `json:"value"`
}

// TwoStageDDM discounts each high-growth dividend individually, then adds
// the terminal value Dₙ₊₁/(k − g₂) discounted back n years. Undefined
// (all NaN) when stable growth meets or exceeds the required return.
func TwoStageDDM(p TwoStageDDMParams) TwoStageDDMResult {
	if p.StableGrowth >= p.RequiredReturn || p.HighYears < 1 {
		nan := math.NaN()
		return TwoStageDDMResult{PVHighGrowth: nan, PVTerminal: nan, Value: nan}
	}

	var out TwoStageDDMResult
	for t := 1; t <= p.HighYears; t++ {
		div := p.D0 * math.Pow(1+p.HighGrowth, float64(t))
		out.PVHighGrowth += div / math.Pow(1+p.RequiredReturn, float64(t))
	}

	n := float64(p.HighYears)
	terminalDiv := p.D0 * math.Pow(1+p.HighGrowth, n) * (1 + p.StableGrowth)
	terminalValue := terminalDiv / (p.RequiredReturn - p.StableGrowth)
	out.PVTerminal = terminalValue / math.Pow(1+p.RequiredReturn, n)

	out.Value = out.PVHighGrowth + out.PVTerminal
	return out
}

// PERelativeValue estimates fair value as EPS × a peer or sector P/E.
// Zero when either input is non-positive.
func PERelativeValue(eps, peerPE float64) float64 {
	if eps <= 0 || peerPE <= 0 {
		return 0
	}
	return eps * peerPE
}

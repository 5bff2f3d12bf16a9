// Package hedgefund implements hedge-fund fee arithmetic: the one-period
// management/incentive fee breakdown with a high-water mark and hurdle,
// and a multi-year growth comparison against a flat-fee fund.
package hedgefund

import "math"

// FeeBreakdown is a single period's fees under a HWM/hurdle structure.
type FeeBreakdown struct {
	ManagementFee float64 `json:"management_fee"`
	GainAboveHWM  float64 `json:"gain_above_hwm"`
	HurdleAmount  float64 `json:"hurdle_amount"`
	IncentiveFee  float64 `json:"incentive_fee"`
	TotalFees     float64 `json:"total_fees"`
	NetValue      float64 `json:"net_value"`
}

// ComputeFees charges a management fee on current AUM and an incentive
// fee only on gains above both the high-water mark and the hurdle
// (hurdle measured on the HWM). All rates are decimals.
func ComputeFees(currentValue, highWaterMark, mgmtRate, incentiveRate, hurdleRate float64) FeeBreakdown {
	f := FeeBreakdown{}
	f.ManagementFee = currentValue * mgmtRate
	f.GainAboveHWM = math.Max(0, currentValue-highWaterMark)
	f.HurdleAmount = highWaterMark * hurdleRate

	excess := math.Max(0, f.GainAboveHWM-f.HurdleAmount)
	f.IncentiveFee = excess * incentiveRate

	f.TotalFees = f.ManagementFee + f.IncentiveFee
	f.NetValue = currentValue - f.TotalFees
	return f
}

// ProjectionInput compares a flat-fee fund against a management+incentive
// fund over a number of years at a constant gross annual return. Rates
// are decimals; the classic structure is MgmtRate 0.02, IncentiveRate 0.20.
type ProjectionInput struct {
	Investment    float64 `json:"investment"`
	AnnualReturn  float64 `json:"annual_return"`
	Years         int     `json:"years"`
	FlatFee       float64 `json:"flat_fee"`
	MgmtRate      float64 `json:"mgmt_rate"`
	IncentiveRate float64 `json:"incentive_rate"`
	HurdleRate    float64 `json:"hurdle_rate"`
}

// Projection is the year-by-year outcome of both fee structures.
type Projection struct {
	FlatValues      []float64 `json:"flat_values"`  // index 0 is the initial investment
	HedgeValues     []float64 `json:"hedge_values"` // likewise
	FlatFinal       float64   `json:"flat_final"`
	HedgeFinal      float64   `json:"hedge_final"`
	FlatFeesPaid    float64   `json:"flat_fees_paid"`
	HedgeFeesPaid   float64   `json:"hedge_fees_paid"`
	GrossFinalValue float64   `json:"gross_final_value"` // fee-free compounding, for reference
}

// Project runs both fee structures forward. Each year the flat fund pays
// its fee on beginning AUM; the hedge fund pays management on beginning
// AUM and incentive on the year's net-of-management return above the
// hurdle (hurdle measured on beginning AUM).
func Project(in ProjectionInput) Projection {
	p := Projection{
		FlatValues:  []float64{in.Investment},
		HedgeValues: []float64{in.Investment},
	}

	flat := in.Investment
	hedge := in.Investment

	for year := 0; year < in.Years; year++ {
		grossFlat := flat * in.AnnualReturn
		feeFlat := flat * in.FlatFee
		flat += grossFlat - feeFlat
		p.FlatFeesPaid += feeFlat
		p.FlatValues = append(p.FlatValues, flat)

		grossHedge := hedge * in.AnnualReturn
		mgmtFee := hedge * in.MgmtRate
		netAfterMgmt := grossHedge - mgmtFee
		hurdleAmount := hedge * in.HurdleRate
		excess := math.Max(0, netAfterMgmt-hurdleAmount)
		incentiveFee := excess * in.IncentiveRate
		hedge += grossHedge - mgmtFee - incentiveFee
		p.HedgeFeesPaid += mgmtFee + incentiveFee
		p.HedgeValues = append(p.HedgeValues, hedge)
	}

	p.FlatFinal = flat
	p.HedgeFinal = hedge
	p.GrossFinalValue = in.Investment * math.Pow(1+in.AnnualReturn, float64(in.Years))
	return p
}

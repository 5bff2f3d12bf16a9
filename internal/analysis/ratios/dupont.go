// Package ratios implements financial-statement ratio analysis: income
// statement margins, the DuPont ROE decomposition, and EVA.
package ratios

// IncomeStatement is the minimal income-statement walk used by the margin
// and DuPont calculations, in consistent currency units.
type IncomeStatement struct {
	Revenue      float64 `json:"revenue"`
	COGS         float64 `json:"cogs"`
	OpEx         float64 `json:"opex"`
	Depreciation float64 `json:"depreciation"`
	Interest     float64 `json:"interest"`
	TaxRate      float64 `json:"tax_rate"` // decimal
}

// Margins holds the derived profitability lines. Percentages are ×100.
type Margins struct {
	GrossProfit     float64 `json:"gross_profit"`
	EBIT            float64 `json:"ebit"`
	EBT             float64 `json:"ebt"`
	Tax             float64 `json:"tax"`
	NetIncome       float64 `json:"net_income"`
	GrossMargin     float64 `json:"gross_margin"`
	OperatingMargin float64 `json:"operating_margin"`
	NetMargin       float64 `json:"net_margin"`
}

// ComputeMargins walks the income statement from revenue to net income.
func ComputeMargins(is IncomeStatement) Margins {
	m := Margins{}
	m.GrossProfit = is.Revenue - is.COGS
	m.EBIT = m.GrossProfit - is.OpEx - is.Depreciation
	m.EBT = m.EBIT - is.Interest
	m.Tax = m.EBT * is.TaxRate
	m.NetIncome = m.EBT - m.Tax

	if is.Revenue > 0 {
		m.GrossMargin = m.GrossProfit / is.Revenue * 100
		m.OperatingMargin = m.EBIT / is.Revenue * 100
		m.NetMargin = m.NetIncome / is.Revenue * 100
	}
	return m
}

// DuPontResult is the five-factor DuPont decomposition of ROE:
// ROE = tax burden × interest burden × operating margin × turnover ×
// leverage. Burdens and turnover/leverage are plain ratios; ROE and ROA
// are percentages (×100).
type DuPontResult struct {
	TaxBurden      float64 `json:"tax_burden"`      // net income / EBT
	InterestBurden float64 `json:"interest_burden"` // EBT / EBIT
	ProfitMargin   float64 `json:"profit_margin"`   // EBIT / sales
	AssetTurnover  float64 `json:"asset_turnover"`  // sales / assets
	Leverage       float64 `json:"leverage"`        // assets / equity
	ROE            float64 `json:"roe"`
	ROA            float64 `json:"roa"`
	Rating         string  `json:"rating"`
}

// DuPont decomposes ROE from the statement lines. Each factor guards its
// own denominator, so a zero anywhere zeroes that factor instead of
// dividing by zero.
func DuPont(sales, ebit, interest, tax, totalAssets, equity float64) DuPontResult {
	ebt := ebit - interest
	netIncome := ebt - tax

	r := DuPontResult{}
	if ebt > 0 {
		r.TaxBurden = netIncome / ebt
	}
	if ebit > 0 {
		r.InterestBurden = ebt / ebit
	}
	if sales > 0 {
		r.ProfitMargin = ebit / sales
	}
	if totalAssets > 0 {
		r.AssetTurnover = sales / totalAssets
		r.ROA = netIncome / totalAssets * 100
	}
	if equity > 0 {
		r.Leverage = totalAssets / equity
	}

	r.ROE = r.TaxBurden * r.InterestBurden * r.ProfitMargin * r.AssetTurnover * r.Leverage * 100
	r.Rating = rateROE(r.ROE)
	return r
}

// EVA returns economic value added: NOPAT minus the capital charge,
// EVA = EBIT × (1 − tax rate) − WACC × total assets.
func EVA(ebit, taxRate, wacc, totalAssets float64) float64 {
	nopat := ebit * (1 - taxRate)
	return nopat - wacc*totalAssets
}

func rateROE(roePct float64) string {
	switch {
	case roePct >= 20:
		return "Excellent"
	case roePct >= 15:
		return "Good"
	case roePct >= 10:
		return "Average"
	default:
		return "Below Average"
	}
}

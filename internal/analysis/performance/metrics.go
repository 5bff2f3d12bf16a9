// Package performance implements risk-adjusted performance measures over
// return series (Sharpe, Treynor, Jensen's alpha, information ratio) and
// currency-adjusted international returns.
//
// Return series are per-period decimal returns; standard deviations are
// sample deviations (N−1). An empty or mismatched series is an undefined
// input and yields NaN; a zero denominator on valid data yields 0, the
// convention the companion calculators display as "no risk premium".
package performance

import "math"

// stdEpsilon separates genuine volatility from the floating-point noise a
// constant series leaves behind after the mean subtraction.
const stdEpsilon = 1e-12

// Sharpe returns (mean(returns) − riskFree) / sampleStd(returns).
func Sharpe(returns []float64, riskFree float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}
	sd := sampleStd(returns)
	if sd < stdEpsilon {
		return 0
	}
	return (mean(returns) - riskFree) / sd
}

// Treynor returns (mean(returns) − riskFree) / beta.
func Treynor(returns []float64, beta, riskFree float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	if beta == 0 {
		return 0
	}
	return (mean(returns) - riskFree) / beta
}

// JensensAlpha returns the portfolio's mean return in excess of its CAPM
// expectation: mean(r) − (rf + β × (mean(market) − rf)).
func JensensAlpha(returns, marketReturns []float64, beta, riskFree float64) float64 {
	if len(returns) == 0 || len(marketReturns) == 0 {
		return math.NaN()
	}
	expected := riskFree + beta*(mean(marketReturns)-riskFree)
	return mean(returns) - expected
}

// InformationRatio returns mean(active) / sampleStd(active) where active
// is the per-period difference against the benchmark. The two series must
// be the same length.
func InformationRatio(returns, benchmark []float64) float64 {
	if len(returns) < 2 || len(returns) != len(benchmark) {
		return math.NaN()
	}

	active := make([]float64, len(returns))
	for i := range returns {
		active[i] = returns[i] - benchmark[i]
	}

	te := sampleStd(active)
	if te < stdEpsilon {
		return 0
	}
	return mean(active) / te
}

// --- international returns ---

// CurrencyReturn is the return from exchange-rate movement alone,
// (final − initial) / initial, rates quoted as home currency per unit of
// foreign. Undefined (NaN) when the initial rate is zero.
func CurrencyReturn(initialRate, finalRate float64) float64 {
	if initialRate == 0 {
		return math.NaN()
	}
	return (finalRate - initialRate) / initialRate
}

// TotalReturnExact compounds a local-market return with a currency
// return: (1 + local) × (1 + fx) − 1.
func TotalReturnExact(localReturn, currencyReturn float64) float64 {
	return (1+localReturn)*(1+currencyReturn) - 1
}

// TotalReturnApprox is the additive first-order approximation
// local + fx, good for small returns.
func TotalReturnApprox(localReturn, currencyReturn float64) float64 {
	return localReturn + currencyReturn
}

// --- helpers ---

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStd(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

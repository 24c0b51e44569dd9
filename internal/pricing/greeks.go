package pricing

import "math"

// Greeks holds the first-order sensitivities of an option's price.
//
// Conventions:
//   - Theta is per calendar day (annual decay divided by 365).
//   - Vega is per one-percentage-point change in volatility.
//   - Rho is per one-percentage-point change in the risk-free rate.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// ComputeGreeks calculates delta, gamma, theta, vega and rho for a
// European option. It shares the d1/d2 derivation with Price.
//
// Preconditions mirror Price: S, K and sigma must be positive, enforced
// by the caller. At or past expiry (T <= 0) every sensitivity is zero.
func ComputeGreeks(isCall bool, S, K, T, r, sigma float64) Greeks {
	if T <= 0 {
		return Greeks{}
	}

	bs := bsTerms(S, K, T, r, sigma)
	pdfD1 := normPDF(bs.d1)

	var delta, theta, rho float64
	if isCall {
		delta = NormCDF(bs.d1)
		theta = (-S*pdfD1*sigma/(2*bs.sqrtT) - r*K*bs.disc*NormCDF(bs.d2)) / 365
		rho = K * T * bs.disc * NormCDF(bs.d2) / 100
	} else {
		delta = -NormCDF(-bs.d1)
		theta = (-S*pdfD1*sigma/(2*bs.sqrtT) + r*K*bs.disc*NormCDF(-bs.d2)) / 365
		rho = -K * T * bs.disc * NormCDF(-bs.d2) / 100
	}

	return Greeks{
		Delta: delta,
		Gamma: pdfD1 / (S * sigma * bs.sqrtT),
		Theta: theta,
		Vega:  S * pdfD1 * bs.sqrtT / 100,
		Rho:   rho,
	}
}

// Intrinsic returns the exercise value of an option at spot S.
func Intrinsic(isCall bool, S, K float64) float64 {
	if isCall {
		return math.Max(0, S-K)
	}
	return math.Max(0, K-S)
}

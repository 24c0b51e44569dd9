// Package pricing implements closed-form Black-Scholes-Merton valuation
// of European options, together with the first-order risk sensitivities
// (the Greeks).
//
// Implied volatility is always an input here; the package never solves
// for it from market prices.
package pricing

import "math"

const sqrt2Pi = 2.5066282746310002

// Abramowitz & Stegun 26.2.17 rational polynomial coefficients for the
// standard normal CDF. Absolute error is bounded by about 7.5e-8.
const (
	cdfP  = 0.2316419
	cdfA1 = 0.31938153
	cdfA2 = -0.356563782
	cdfA3 = 1.781477937
	cdfA4 = -1.821255978
	cdfA5 = 1.330274429
)

// Result holds the theoretical call and put values for one set of
// inputs, together with the d1/d2 intermediates and their CDF values.
// Both option types are priced in a single pass since they share the
// same derivation.
type Result struct {
	Call float64 `json:"call"`
	Put  float64 `json:"put"`

	D1 float64 `json:"d1"`
	D2 float64 `json:"d2"`

	// Cumulative normal values of +/-d1 and +/-d2. Greeks and
	// assignment estimates reuse these instead of re-deriving them.
	Nd1    float64 `json:"nd1"`
	Nd2    float64 `json:"nd2"`
	NNegD1 float64 `json:"n_neg_d1"`
	NNegD2 float64 `json:"n_neg_d2"`
}

// terms carries the shared d1/d2 derivation consumed by both the
// pricing and the Greeks paths.
type terms struct {
	d1    float64
	d2    float64
	sqrtT float64
	disc  float64 // e^{-rT}
}

func bsTerms(S, K, T, r, sigma float64) terms {
	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	return terms{
		d1:    d1,
		d2:    d1 - sigma*sqrtT,
		sqrtT: sqrtT,
		disc:  math.Exp(-r * T),
	}
}

// Price values a European call and put under Black-Scholes-Merton.
//
// Parameters:
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - r: risk-free interest rate (annual)
//   - sigma: volatility of the underlying asset (annual, as a decimal)
//
// The caller is responsible for S, K and sigma being positive; the
// engine itself does not validate. At or past expiry (T <= 0) the
// prices collapse to intrinsic value, d1 and d2 are zero by convention,
// and N(d1)/N(d2) degenerate to the moneyness indicator (1 if S > K,
// else 0), bypassing the log/sqrt path entirely.
func Price(S, K, T, r, sigma float64) Result {
	if T <= 0 {
		ind := 0.0
		if S > K {
			ind = 1.0
		}
		return Result{
			Call:   math.Max(0, S-K),
			Put:    math.Max(0, K-S),
			Nd1:    ind,
			Nd2:    ind,
			NNegD1: 1 - ind,
			NNegD2: 1 - ind,
		}
	}

	bs := bsTerms(S, K, T, r, sigma)
	nd1 := NormCDF(bs.d1)
	nd2 := NormCDF(bs.d2)
	nnd1 := NormCDF(-bs.d1)
	nnd2 := NormCDF(-bs.d2)

	return Result{
		Call:   S*nd1 - K*bs.disc*nd2,
		Put:    K*bs.disc*nnd2 - S*nnd1,
		D1:     bs.d1,
		D2:     bs.d2,
		Nd1:    nd1,
		Nd2:    nd2,
		NNegD1: nnd1,
		NNegD2: nnd2,
	}
}

// NormCDF computes the cumulative distribution function of the standard
// normal distribution using the Abramowitz-Stegun polynomial
// approximation. It is a total function over the reals: it saturates
// toward 0 and 1 for large |x|, satisfies NormCDF(0) = 0.5 and
// NormCDF(x) + NormCDF(-x) = 1 up to the approximation error.
func NormCDF(x float64) float64 {
	l := math.Abs(x)
	k := 1.0 / (1.0 + cdfP*l)
	poly := k * (cdfA1 + k*(cdfA2+k*(cdfA3+k*(cdfA4+k*cdfA5))))
	res := 1.0 - normPDF(l)*poly
	if x < 0 {
		return 1.0 - res
	}
	return res
}

// normPDF calculates the probability density function (PDF) of the
// standard normal distribution: exp(-0.5 * x^2) / sqrt(2π).
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

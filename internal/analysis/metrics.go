package analysis

import (
	"math"
	"time"

	"github.com/contactkeval/option-scan/internal/data"
	"github.com/contactkeval/option-scan/internal/pricing"
)

// Option expirations settle at the 16:00 close in New York.
var marketClose = newYork()

func newYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// Quotes older than this raise the staleness warning.
const staleQuoteAge = 15 * time.Minute

// Analyzer evaluates raw contracts into AnalyzedOption records. The
// risk-free rate is fixed at construction and threaded through every
// valuation; the clock is injectable so results are deterministic
// under test.
type Analyzer struct {
	RiskFreeRate float64
	Now          func() time.Time
}

// NewAnalyzer builds an Analyzer on the wall clock.
func NewAnalyzer(riskFreeRate float64) *Analyzer {
	return &Analyzer{RiskFreeRate: riskFreeRate, Now: time.Now}
}

// Analyze prices one contract against the underlying spot and derives
// every metric. It performs no I/O and is deterministic for a fixed
// clock: calling it twice at the same instant yields identical values.
//
// Non-positive spot, strike or volatility is rejected up front with
// InvalidInputError so NaNs never propagate out of the pricing engine.
func (a *Analyzer) Analyze(c data.OptionContract, spot float64, quoteAge time.Duration) (*AnalyzedOption, error) {
	switch {
	case spot <= 0:
		return nil, &InvalidInputError{Field: "spot", Value: spot}
	case c.Strike <= 0:
		return nil, &InvalidInputError{Field: "strike", Value: c.Strike}
	case c.IV <= 0:
		return nil, &InvalidInputError{Field: "volatility", Value: c.IV}
	}

	now := a.Now()
	tYears := yearsToExpiry(c.Expiration, now)
	days := tYears * 365

	isCall := c.IsCall()
	priced := pricing.Price(spot, c.Strike, tYears, a.RiskFreeRate, c.IV)
	greeks := pricing.ComputeGreeks(isCall, spot, c.Strike, tYears, a.RiskFreeRate, c.IV)

	theo := priced.Put
	if isCall {
		theo = priced.Call
	}

	out := &AnalyzedOption{
		Symbol:          c.Symbol,
		UnderlyingPrice: spot,
		Strike:          c.Strike,
		Expiration:      c.Expiration,
		Type:            c.Type,
		Last:            c.Last,
		Bid:             c.Bid,
		Ask:             c.Ask,
		Volume:          c.Volume,
		OpenInterest:    c.OpenInterest,
		IV:              c.IV,

		TimeToExpiration: tYears,
		DaysToExpiration: days,
		TheoreticalPrice: theo,
		Pricing:          priced,
		Greeks:           greeks,

		Edge:                  edge(c.Last, theo),
		Moneyness:             (c.Strike - spot) / spot * 100,
		BidAskSpreadPercent:   spreadPercent(c.Bid, c.Ask),
		AssignmentProbability: math.Abs(greeks.Delta) * 100,
	}

	if isCall {
		out.Strategy = StrategyCoveredCall
		out.BreakevenPrice = c.Strike + c.Last
		out.CollateralRequired = spot * 100 // 100 shares backing the short call
	} else {
		out.Strategy = StrategyCashSecuredPut
		out.BreakevenPrice = c.Strike - c.Last
		out.CollateralRequired = c.Strike * 100
	}
	out.MaxProfit = c.Last * 100
	if days > 0 {
		out.AnnualizedReturn = (out.MaxProfit / out.CollateralRequired) * (365 / days) * 100
	}

	out.HasLiquidityWarning = c.Volume < 1 || c.OpenInterest < 10
	out.HasSpreadWarning = out.BidAskSpreadPercent > 10
	out.HasStalenessWarning = quoteAge > staleQuoteAge

	return out, nil
}

// yearsToExpiry measures from now to the 16:00 New York close on the
// expiration date, clamped at zero, expressed in years.
func yearsToExpiry(expiration, now time.Time) float64 {
	closeAt := time.Date(expiration.Year(), expiration.Month(), expiration.Day(),
		16, 0, 0, 0, marketClose)
	years := closeAt.Sub(now).Hours() / 24 / 365.25
	if years < 0 {
		return 0
	}
	return years
}

// edge is the percentage deviation of the market price from theoretical
// fair value. A zero theoretical price yields zero edge rather than a
// division blowup.
func edge(marketPrice, theoreticalPrice float64) float64 {
	if theoreticalPrice == 0 {
		return 0
	}
	return (marketPrice - theoreticalPrice) / theoreticalPrice * 100
}

// spreadPercent is the bid/ask spread relative to the midpoint. A
// one-sided market reports zero.
func spreadPercent(bid, ask float64) float64 {
	if bid == 0 || ask == 0 {
		return 0
	}
	return (ask - bid) / ((bid + ask) / 2) * 100
}

// ClassifyByMoneyness is the alternate, direction-based classifier: a
// strike above spot reads as call-side (covered call), at or below
// spot as put-side (cash-secured put). The scan path deliberately uses
// the kind-based rule instead; this one is kept for chain-browsing
// views that tag rows by where the strike sits.
func ClassifyByMoneyness(strike, spot float64) StrategyType {
	if strike > spot {
		return StrategyCoveredCall
	}
	return StrategyCashSecuredPut
}

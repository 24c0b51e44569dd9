// Package analysis turns raw option quotes into ranked income-strategy
// opportunities: it prices each contract, derives its risk and return
// metrics, and scans whole symbol lists against user filters.
package analysis

import (
	"fmt"
	"time"

	"github.com/contactkeval/option-scan/internal/pricing"
)

// StrategyType tags the income strategy a short contract maps to.
type StrategyType string

const (
	StrategyCoveredCall    StrategyType = "covered-call"
	StrategyCashSecuredPut StrategyType = "cash-secured-put"
)

// AnalyzedOption is one contract fully evaluated at one instant: the
// raw quote, the theoretical valuation, the Greeks, and every derived
// metric. Instances are immutable once built; re-analyzing the same
// contract produces a fresh value.
type AnalyzedOption struct {
	Symbol          string    `json:"symbol"`
	UnderlyingPrice float64   `json:"underlying_price"`
	Strike          float64   `json:"strike"`
	Expiration      time.Time `json:"expiration"`
	Type            string    `json:"type"`
	Last            float64   `json:"last"`
	Bid             float64   `json:"bid"`
	Ask             float64   `json:"ask"`
	Volume          int64     `json:"volume"`
	OpenInterest    int64     `json:"open_interest"`
	IV              float64   `json:"iv"`

	TimeToExpiration float64 `json:"time_to_expiration"` // years
	DaysToExpiration float64 `json:"days_to_expiration"`

	TheoreticalPrice float64        `json:"theoretical_price"`
	Pricing          pricing.Result `json:"pricing"`
	Greeks           pricing.Greeks `json:"greeks"`

	Edge                  float64      `json:"edge"`
	Moneyness             float64      `json:"moneyness"`
	BidAskSpreadPercent   float64      `json:"bid_ask_spread_percent"`
	BreakevenPrice        float64      `json:"breakeven_price"`
	CollateralRequired    float64      `json:"collateral_required"`
	MaxProfit             float64      `json:"max_profit"`
	AnnualizedReturn      float64      `json:"annualized_return"`
	AssignmentProbability float64      `json:"assignment_probability"`
	Strategy              StrategyType `json:"strategy"`

	HasLiquidityWarning bool `json:"has_liquidity_warning"`
	HasSpreadWarning    bool `json:"has_spread_warning"`
	HasStalenessWarning bool `json:"has_staleness_warning"`
}

// InvalidInputError rejects a contract whose numeric inputs cannot be
// priced (non-positive spot, strike or volatility). It excludes only
// that contract, never the batch.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s=%g must be positive", e.Field, e.Value)
}

// Filters gates which analyzed contracts a scan keeps. All bounds are
// inclusive.
type Filters struct {
	MinEdge   float64 `json:"min_edge"`
	MinVolume int64   `json:"min_volume"`
	MinPrice  float64 `json:"min_price"`

	// Expression is an optional govaluate filter evaluated per
	// contract on top of the numeric bounds, e.g.
	// "edge >= 8 && assignmentProbability < 30". Empty means no-op.
	Expression string `json:"expression,omitempty"`
}

// DefaultFilters returns the standard scan thresholds.
func DefaultFilters() Filters {
	return Filters{
		MinEdge:   5,
		MinVolume: 1,
		MinPrice:  0.10,
	}
}

// ProgressFunc receives scan progress. It is called once after each
// symbol with the zero-based index just processed, and a final time
// with current == total and an empty label as a completion signal.
// Callers must not block inside it.
type ProgressFunc func(current, total int, symbol string)

package data

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/contactkeval/option-scan/internal/logger"
)

// staticDataProvider implements Provider from a built-in demo universe.
// Chains are generated once at construction, relative to the wall
// clock, so expirations are always in the future. Useful for demos and
// for running the scanner without an API key.
type staticDataProvider struct {
	data      map[string]*SymbolData
	secondary Provider
}

// staticUnderlying seeds one demo symbol.
type staticUnderlying struct {
	symbol string
	spot   float64
	iv     float64 // base implied vol for the chain
}

var staticUniverse = []staticUnderlying{
	{"AAPL", 185.50, 0.28},
	{"MSFT", 415.20, 0.25},
	{"NVDA", 920.75, 0.42},
	{"TSLA", 248.30, 0.55},
	{"SPY", 520.10, 0.15},
}

// NewStaticProvider builds the demo provider. The generated quotes
// carry a deliberate markup over time value so a default scan surfaces
// a few opportunities; volumes and quote ages are jittered, which is a
// demo artifact of this provider, not of anything downstream.
func NewStaticProvider(secondary Provider) Provider {
	p := &staticDataProvider{
		data:      make(map[string]*SymbolData, len(staticUniverse)),
		secondary: secondary,
	}
	now := time.Now()
	for _, u := range staticUniverse {
		p.data[u.symbol] = &SymbolData{
			Symbol:    u.symbol,
			Price:     u.spot,
			QuoteAge:  time.Duration(rand.Intn(300)) * time.Second,
			Contracts: generateChain(u, now),
		}
	}
	return p
}

func (staticDataProv *staticDataProvider) Secondary() Provider {
	return staticDataProv.secondary
}

func (staticDataProv *staticDataProvider) GetSymbolData(ctx context.Context, symbol string) (*SymbolData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sd, ok := staticDataProv.data[symbol]; ok {
		return sd, nil
	}
	if staticDataProv.secondary != nil {
		logger.Debugf("static provider has no %s, trying secondary", symbol)
		return staticDataProv.secondary.GetSymbolData(ctx, symbol)
	}
	return nil, ErrNoData
}

// generateChain produces calls and puts at strikes around spot for two
// expirations. Last prices are intrinsic plus an approximate time value
// (0.4*S*sigma*sqrt(T), the usual ATM shortcut) scaled by a per-row
// markup, so theoretical comparisons downstream see non-zero edges.
func generateChain(u staticUnderlying, now time.Time) []OptionContract {
	var out []OptionContract

	for _, dte := range []int{21, 45} {
		expiry := now.AddDate(0, 0, dte)
		tYears := float64(dte) / 365.0

		for i, pct := range []float64{0.95, 0.975, 1.0, 1.025, 1.05} {
			strike := roundToStrike(u.spot * pct)
			markup := 1.0 + 0.04*float64(i%3) // 0%, 4%, 8%

			for _, typ := range []string{"call", "put"} {
				intrinsic := math.Max(0, u.spot-strike)
				if typ == "put" {
					intrinsic = math.Max(0, strike-u.spot)
				}
				timeValue := 0.4 * u.spot * u.iv * math.Sqrt(tYears)
				last := round2((intrinsic + timeValue) * markup)
				spread := math.Max(0.02, last*0.03)

				out = append(out, OptionContract{
					Symbol:       OptionSymbolFromParts(u.symbol, expiry, typ, strike),
					Strike:       strike,
					Expiration:   expiry,
					Type:         typ,
					Last:         last,
					Bid:          round2(last - spread/2),
					Ask:          round2(last + spread/2),
					Volume:       int64(50 + rand.Intn(2000)),
					OpenInterest: int64(100 + rand.Intn(20000)),
					IV:           u.iv + 0.01*float64(i), // mild smile
				})
			}
		}
	}
	return out
}

func roundToStrike(v float64) float64 {
	interval := 2.5
	if v > 500 {
		interval = 5.0
	}
	return math.Round(v/interval) * interval
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

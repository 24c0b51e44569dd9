// Package data provides market data provider implementations.
//
// A Provider resolves a ticker symbol to the current underlying price
// plus its raw option contracts. Providers may chain a secondary
// fallback: when the primary has no data for a symbol, the secondary is
// consulted before giving up.
package data

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrNoData marks a symbol the provider knows nothing about. Callers
// treat it as "skip", not as a failure.
var ErrNoData = errors.New("no data for symbol")

// Provider supplies market data
type Provider interface {
	Secondary() Provider
	GetSymbolData(ctx context.Context, symbol string) (*SymbolData, error)
}

// SymbolData is one symbol's snapshot: underlying price and the raw
// option chain as delivered by the provider.
type SymbolData struct {
	Symbol string
	Price  float64

	// QuoteAge is how stale the snapshot is, as reported by the
	// provider. It is an opaque input; nothing downstream
	// manufactures or refreshes it.
	QuoteAge time.Duration

	Contracts []OptionContract
}

// OptionContract is a single raw quote for one option contract. It is
// immutable input: produced by a provider, never mutated downstream.
type OptionContract struct {
	Symbol       string    // OCC-style contract identifier
	Strike       float64   // positive
	Expiration   time.Time // calendar expiration date
	Type         string    // "call" or "put"
	Last         float64   // last trade price
	Bid          float64
	Ask          float64
	Volume       int64
	OpenInterest int64
	IV           float64 // annualized implied volatility, positive
}

// IsCall reports whether the contract is a call.
func (c OptionContract) IsCall() bool {
	return strings.EqualFold(c.Type, "call") || strings.EqualFold(c.Type, "c")
}

// MidPrice returns the bid/ask midpoint, falling back to whichever side
// exists, else the last trade.
func (c OptionContract) MidPrice() float64 {
	switch {
	case c.Bid > 0 && c.Ask > 0:
		return (c.Bid + c.Ask) / 2
	case c.Ask > 0:
		return c.Ask
	case c.Bid > 0:
		return c.Bid
	}
	return c.Last
}

// OptionSymbolFromParts formats an OCC-like contract identifier:
// <root><YYMMDD><C|P><strike*1000 padded to 8 digits>
func OptionSymbolFromParts(underlying string, expiryDate time.Time, optionType string, strike float64) string {
	expDt := expiryDate.UTC().Format("060102")
	optType := "C"
	lower := strings.ToLower(optionType)
	if lower == "put" || lower == "p" {
		optType = "P"
	}
	strikeInt := int(math.Round(strike * 1000))
	return fmt.Sprintf("%s%s%s%08d", strings.ToUpper(underlying), expDt, optType, strikeInt)
}

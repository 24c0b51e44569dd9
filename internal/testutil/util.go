// Package testutil carries shared test fixtures: a pinned clock and a
// canned market-data provider.
package testutil

import (
	"context"
	"time"

	"github.com/contactkeval/option-scan/internal/data"
)

// FixedClock returns a clock function pinned to t, for deterministic
// time-to-expiration math in tests.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

//
// --- Stub provider ---
//

// StubProvider serves canned symbol data and injected failures.
type StubProvider struct {
	Data map[string]*data.SymbolData
	Errs map[string]error

	// Calls records the symbols requested, in order.
	Calls []string
}

// NewStubProvider builds a provider over the given snapshots.
func NewStubProvider(snapshots ...*data.SymbolData) *StubProvider {
	m := make(map[string]*data.SymbolData, len(snapshots))
	for _, sd := range snapshots {
		m[sd.Symbol] = sd
	}
	return &StubProvider{Data: m, Errs: make(map[string]error)}
}

func (p *StubProvider) Secondary() data.Provider { return nil }

func (p *StubProvider) GetSymbolData(ctx context.Context, symbol string) (*data.SymbolData, error) {
	p.Calls = append(p.Calls, symbol)
	if err, ok := p.Errs[symbol]; ok {
		return nil, err
	}
	if sd, ok := p.Data[symbol]; ok {
		return sd, nil
	}
	return nil, data.ErrNoData
}

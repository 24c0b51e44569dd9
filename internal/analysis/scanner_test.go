package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-scan/internal/data"
	"github.com/contactkeval/option-scan/internal/testutil"
)

type progressCall struct {
	current int
	total   int
	symbol  string
}

func recordProgress(calls *[]progressCall) ProgressFunc {
	return func(current, total int, symbol string) {
		*calls = append(*calls, progressCall{current, total, symbol})
	}
}

// scanUniverse is the three-symbol scenario: data for AAPL and MSFT,
// nothing for ZZZZ. Last prices sit well above theoretical value so
// the default edge filter keeps both contracts, AAPL in front.
func scanUniverse() *testutil.StubProvider {
	aaplCall := testCall()
	aaplCall.Last = 16.00

	msftCall := data.OptionContract{
		Symbol:       "MSFT260416C00410000",
		Strike:       410,
		Expiration:   testNow.AddDate(0, 0, 45),
		Type:         "call",
		Last:         20.50,
		Bid:          20.30,
		Ask:          20.70,
		Volume:       800,
		OpenInterest: 3000,
		IV:           0.25,
	}

	return testutil.NewStubProvider(
		&data.SymbolData{Symbol: "AAPL", Price: 185.50, Contracts: []data.OptionContract{aaplCall}},
		&data.SymbolData{Symbol: "MSFT", Price: 415.20, Contracts: []data.OptionContract{msftCall}},
	)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	symbols := []string{"AAPL", "ZZZZ", "MSFT"}

	t.Run("batch scenario", func(t *testing.T) {
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		var calls []progressCall
		results, err := scanner.Search(ctx, symbols, DefaultFilters(), recordProgress(&calls))
		require.NoError(t, err)

		require.Len(t, results, 2)
		assert.Equal(t, "AAPL260416C00180000", results[0].Symbol)
		assert.Equal(t, "MSFT260416C00410000", results[1].Symbol)
		assert.GreaterOrEqual(t, results[0].Edge, results[1].Edge)
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Edge, 5.0)
		}

		want := []progressCall{
			{0, 3, "AAPL"},
			{1, 3, "ZZZZ"},
			{2, 3, "MSFT"},
			{3, 3, ""},
		}
		assert.Equal(t, want, calls)
	})

	t.Run("provider failure skips symbol and continues", func(t *testing.T) {
		prov := scanUniverse()
		prov.Errs["ZZZZ"] = errors.New("transport: connection reset")
		scanner := NewScanner(prov, newTestAnalyzer())

		var calls []progressCall
		results, err := scanner.Search(ctx, symbols, DefaultFilters(), recordProgress(&calls))
		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Len(t, calls, 4)
	})

	t.Run("all symbols failing yields empty result, not error", func(t *testing.T) {
		prov := testutil.NewStubProvider()
		prov.Errs["AAPL"] = errors.New("boom")
		prov.Errs["MSFT"] = errors.New("boom")
		scanner := NewScanner(prov, newTestAnalyzer())

		results, err := scanner.Search(ctx, symbols, DefaultFilters(), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("filter boundary is inclusive", func(t *testing.T) {
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		// Pin MinEdge to the exact edge of the weaker contract; it
		// must still be included.
		all, err := scanner.Search(ctx, symbols, Filters{MinEdge: -1e9, MinVolume: 0, MinPrice: 0}, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		cutoff := all[1].Edge

		results, err := scanner.Search(ctx, symbols, Filters{MinEdge: cutoff, MinVolume: 1, MinPrice: 0.10}, nil)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("volume and price filters", func(t *testing.T) {
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		results, err := scanner.Search(ctx, symbols, Filters{MinEdge: 5, MinVolume: 1000, MinPrice: 0.10}, nil)
		require.NoError(t, err)
		require.Len(t, results, 1) // MSFT volume 800 drops out
		assert.Equal(t, "AAPL260416C00180000", results[0].Symbol)

		results, err = scanner.Search(ctx, symbols, Filters{MinEdge: 5, MinVolume: 1, MinPrice: 18.0}, nil)
		require.NoError(t, err)
		require.Len(t, results, 1) // AAPL last 16.00 drops out
		assert.Equal(t, "MSFT260416C00410000", results[0].Symbol)
	})

	t.Run("invalid contract dropped, batch survives", func(t *testing.T) {
		bad := testCall()
		bad.IV = 0
		good := testCall()
		good.Last = 16.00
		prov := testutil.NewStubProvider(&data.SymbolData{
			Symbol:    "AAPL",
			Price:     185.50,
			Contracts: []data.OptionContract{bad, good},
		})
		scanner := NewScanner(prov, newTestAnalyzer())

		results, err := scanner.Search(ctx, []string{"AAPL"}, DefaultFilters(), nil)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("empty symbol list", func(t *testing.T) {
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		var calls []progressCall
		results, err := scanner.Search(ctx, nil, DefaultFilters(), recordProgress(&calls))
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, []progressCall{{0, 0, ""}}, calls)
	})

	t.Run("cancelled context aborts at symbol boundary", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		scanner := NewScanner(scanUniverse(), newTestAnalyzer())

		_, err := scanner.Search(cancelled, symbols, DefaultFilters(), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

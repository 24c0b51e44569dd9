package analysis

import (
	"context"
	"errors"
	"sort"

	"github.com/contactkeval/option-scan/internal/data"
	"github.com/contactkeval/option-scan/internal/logger"
)

// Scanner runs batch searches: it walks a symbol list, analyzes every
// contract the provider returns, filters, and ranks the survivors by
// edge.
type Scanner struct {
	prov     data.Provider
	analyzer *Analyzer
}

// NewScanner creates a scanner over the given market-data provider.
func NewScanner(prov data.Provider, analyzer *Analyzer) *Scanner {
	return &Scanner{prov: prov, analyzer: analyzer}
}

// Search processes symbols strictly in order, one at a time, so the
// progress callback observes a gap-free index sequence. Per-symbol
// behavior:
//
//   - the provider has no data (data.ErrNoData): skipped silently
//   - the provider fails (transport, parse): logged and skipped
//   - a contract fails its input preconditions: that contract alone is
//     dropped
//
// After each symbol, onProgress(i, total, symbol) fires with the index
// just processed; a final onProgress(total, total, "") signals
// completion. The context is checked once per symbol boundary, so a
// cancel abandons the scan between symbols.
//
// The result is sorted by edge descending, ties keeping arrival order.
// An empty result is a normal outcome, not an error.
func (s *Scanner) Search(ctx context.Context, symbols []string, filters Filters, onProgress ProgressFunc) ([]AnalyzedOption, error) {
	ef, err := compileFilter(filters)
	if err != nil {
		return nil, err
	}

	total := len(symbols)
	var results []AnalyzedOption

	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sd, err := s.prov.GetSymbolData(ctx, symbol)
		switch {
		case errors.Is(err, data.ErrNoData):
			logger.Debugf("scan: no data for %s, skipping", symbol)
		case err != nil:
			logger.Warnf("scan: fetching %s failed, skipping: %v", symbol, err)
		default:
			kept := s.analyzeSymbol(sd, filters, ef)
			logger.Debugf("scan: %s kept %d of %d contracts", symbol, len(kept), len(sd.Contracts))
			results = append(results, kept...)
		}

		if onProgress != nil {
			onProgress(i, total, symbol)
		}
	}

	if onProgress != nil {
		onProgress(total, total, "")
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Edge > results[j].Edge
	})
	return results, nil
}

func (s *Scanner) analyzeSymbol(sd *data.SymbolData, filters Filters, ef *exprFilter) []AnalyzedOption {
	var kept []AnalyzedOption
	for _, c := range sd.Contracts {
		opt, err := s.analyzer.Analyze(c, sd.Price, sd.QuoteAge)
		if err != nil {
			logger.Debugf("scan: dropping %s: %v", c.Symbol, err)
			continue
		}

		if opt.Edge < filters.MinEdge ||
			opt.Volume < filters.MinVolume ||
			opt.Last < filters.MinPrice {
			continue
		}

		ok, err := ef.keep(opt)
		if err != nil {
			logger.Debugf("scan: expression rejected %s: %v", c.Symbol, err)
			continue
		}
		if !ok {
			continue
		}

		kept = append(kept, *opt)
	}
	return kept
}

// Package report writes scan results to disk and computes summary
// statistics over the ranked opportunities.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/contactkeval/option-scan/internal/analysis"
)

// Summary aggregates the edge distribution of one scan.
type Summary struct {
	Count      int     `json:"count"`
	MeanEdge   float64 `json:"mean_edge"`
	MedianEdge float64 `json:"median_edge"`
	StdDevEdge float64 `json:"std_dev_edge"`
	BestEdge   float64 `json:"best_edge"`
}

// Result is the on-disk shape of a finished scan.
type Result struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     Summary                   `json:"summary"`
	Options     []analysis.AnalyzedOption `json:"options"`
}

// Summarize computes edge statistics over the kept contracts. An empty
// scan summarizes to zeros.
func Summarize(opts []analysis.AnalyzedOption) Summary {
	if len(opts) == 0 {
		return Summary{}
	}

	edges := make([]float64, len(opts))
	for i, o := range opts {
		edges[i] = o.Edge
	}

	mean, _ := stats.Mean(edges)
	median, _ := stats.Median(edges)
	sd, _ := stats.StandardDeviation(edges)
	best, _ := stats.Max(edges)

	return Summary{
		Count:      len(opts),
		MeanEdge:   mean,
		MedianEdge: median,
		StdDevEdge: sd,
		BestEdge:   best,
	}
}

// WriteJSON writes the full result, summary included, to
// options.json in outdir.
func WriteJSON(opts []analysis.AnalyzedOption, outdir string) error {
	res := Result{
		GeneratedAt: time.Now().UTC(),
		Summary:     Summarize(opts),
		Options:     opts,
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "options.json"), b, 0644)
}

// WriteCSV writes one row per kept contract to options.csv in outdir.
func WriteCSV(opts []analysis.AnalyzedOption, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "options.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"symbol", "type", "strike", "expiration", "underlying", "last", "bid", "ask",
		"theoretical", "edge", "delta", "theta", "annualized_return", "assignment_prob", "strategy", "warnings"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, o := range opts {
		row := []string{
			o.Symbol,
			o.Type,
			fmt.Sprintf("%.2f", o.Strike),
			o.Expiration.Format("2006-01-02"),
			fmt.Sprintf("%.2f", o.UnderlyingPrice),
			fmt.Sprintf("%.2f", o.Last),
			fmt.Sprintf("%.2f", o.Bid),
			fmt.Sprintf("%.2f", o.Ask),
			fmt.Sprintf("%.4f", o.TheoreticalPrice),
			fmt.Sprintf("%.2f", o.Edge),
			fmt.Sprintf("%.4f", o.Greeks.Delta),
			fmt.Sprintf("%.4f", o.Greeks.Theta),
			fmt.Sprintf("%.2f", o.AnnualizedReturn),
			fmt.Sprintf("%.1f", o.AssignmentProbability),
			string(o.Strategy),
			warningFlags(o),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func warningFlags(o analysis.AnalyzedOption) string {
	flags := ""
	if o.HasLiquidityWarning {
		flags += "L"
	}
	if o.HasSpreadWarning {
		flags += "S"
	}
	if o.HasStalenessWarning {
		flags += "T"
	}
	return flags
}

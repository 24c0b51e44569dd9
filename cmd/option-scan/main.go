package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/option-scan/internal/analysis"
	"github.com/contactkeval/option-scan/internal/data"
	"github.com/contactkeval/option-scan/internal/logger"
	"github.com/contactkeval/option-scan/internal/report"
)

// ScanConfig is the JSON file handed to -config.
type ScanConfig struct {
	Symbols      []string         `json:"symbols"`
	Filters      analysis.Filters `json:"filters"`
	RiskFreeRate float64          `json:"risk_free_rate,omitempty"`
	OutputDir    string           `json:"output_dir,omitempty"`
	Verbosity    int              `json:"verbosity,omitempty"`
}

func defaultConfig() ScanConfig {
	return ScanConfig{
		Symbols:      []string{"AAPL", "MSFT", "NVDA", "TSLA", "SPY"},
		Filters:      analysis.DefaultFilters(),
		RiskFreeRate: 0.0408,
		OutputDir:    "./out",
		Verbosity:    1,
	}
}

func loadConfig(path string) (ScanConfig, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.RiskFreeRate <= 0 {
		cfg.RiskFreeRate = 0.0408
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./out"
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "scans/default.json", "path to JSON scan config")
	rest := flag.Bool("rest", false, "run as REST server instead of one-shot scan")
	port := flag.String("port", ":8080", "REST server listen address")
	flag.Parse()

	// .env is optional; API keys may come from the environment directly.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Warnf("config %s not loaded (%v), running with defaults", *configPath, err)
	}
	logger.SetVerbosity(cfg.Verbosity)

	// choose provider
	var prov data.Provider
	if apiKey := os.Getenv("TRADIER_API_KEY"); apiKey != "" {
		prov = data.NewTradierDataProvider(apiKey, data.NewStaticProvider(nil))
		logger.Infof("tradier provider enabled (static fallback)")
	} else {
		prov = data.NewStaticProvider(nil)
		logger.Infof("static demo provider enabled")
	}

	scanner := analysis.NewScanner(prov, analysis.NewAnalyzer(cfg.RiskFreeRate))

	if *rest {
		runServer(scanner, cfg, *port)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := scanner.Search(ctx, cfg.Symbols, cfg.Filters, printProgress)
	if err != nil {
		logger.Errorf("scan failed: %v", err)
		os.Exit(1)
	}

	renderTable(results)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		logger.Warnf("could not create output dir %s: %v", cfg.OutputDir, err)
	}
	if err := report.WriteJSON(results, cfg.OutputDir); err != nil {
		logger.Warnf("writing JSON report: %v", err)
	}
	if err := report.WriteCSV(results, cfg.OutputDir); err != nil {
		logger.Warnf("writing CSV report: %v", err)
	}

	sum := report.Summarize(results)
	logger.Infof("finished in %v: %d opportunities, mean edge %.1f%%, best %.1f%%, wrote %s",
		time.Since(start).Round(time.Millisecond), sum.Count, sum.MeanEdge, sum.BestEdge, cfg.OutputDir)
}

// printProgress renders a single updating status line on stderr.
func printProgress(current, total int, symbol string) {
	if symbol == "" {
		fmt.Fprintf(os.Stderr, "\r[%d/%d] done          \n", current, total)
		return
	}
	fmt.Fprintf(os.Stderr, "\r[%d/%d] %-10s", current+1, total, symbol)
}

func renderTable(results []analysis.AnalyzedOption) {
	if len(results) == 0 {
		fmt.Println("no opportunities matched the filters")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Contract", "Type", "Strike", "Exp", "Last", "Theo", "Edge%", "Delta", "AnnRet%", "Strategy", "Warn"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, o := range results {
		warn := ""
		if o.HasLiquidityWarning {
			warn += "L"
		}
		if o.HasSpreadWarning {
			warn += "S"
		}
		if o.HasStalenessWarning {
			warn += "T"
		}
		table.Append([]string{
			o.Symbol,
			o.Type,
			fmt.Sprintf("%.2f", o.Strike),
			o.Expiration.Format("2006-01-02"),
			fmt.Sprintf("%.2f", o.Last),
			fmt.Sprintf("%.2f", o.TheoreticalPrice),
			fmt.Sprintf("%+.1f", o.Edge),
			fmt.Sprintf("%.3f", o.Greeks.Delta),
			fmt.Sprintf("%.1f", o.AnnualizedReturn),
			string(o.Strategy),
			warn,
		})
	}
	table.Render()
}

// runServer exposes the scan over HTTP:
//
//	GET /scan   runs the configured scan, returns the ranked JSON result
//	GET /health liveness probe
func runServer(scanner *analysis.Scanner, cfg ScanConfig, addr string) {
	r := mux.NewRouter()

	r.HandleFunc("/scan", func(w http.ResponseWriter, req *http.Request) {
		logger.Infof("received /scan request")
		results, err := scanner.Search(req.Context(), cfg.Symbols, cfg.Filters, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Summary report.Summary            `json:"summary"`
			Options []analysis.AnalyzedOption `json:"options"`
		}{report.Summarize(results), results})
	}).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	logger.Infof("starting REST server on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

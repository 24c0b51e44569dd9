// This file contains a Tradier-backed Provider implementation that
// retrieves underlying quotes and option chains via Tradier HTTP APIs.
//
// Design notes:
//   - Uses raw HTTP calls instead of an SDK
//   - Fetches the quote, then the expiration list, then one chain per
//     expiration inside the DTE window
//   - Logging is intentionally verbose at Debug/Trace levels
package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/contactkeval/option-scan/internal/logger"
)

// DefaultMaxDTE bounds how far out expirations are pulled when the
// caller does not say otherwise.
const DefaultMaxDTE = 60

// tradierDataProvider implements the Provider interface using Tradier APIs.
type tradierDataProvider struct {
	// APIKey used as the Bearer token on every request.
	APIKey string

	// Client is the HTTP client used to make API requests.
	Client *http.Client

	// BaseURL is the root endpoint (e.g. https://api.tradier.com).
	BaseURL string

	// MaxDTE limits which expirations are fetched.
	MaxDTE int

	// secondary is an optional fallback provider.
	secondary Provider
}

// NewTradierDataProvider constructs a Tradier-backed data provider.
func NewTradierDataProvider(apiKey string, secondary Provider) Provider {
	return &tradierDataProvider{
		APIKey:    apiKey,
		Client:    &http.Client{Timeout: 30 * time.Second},
		BaseURL:   "https://api.tradier.com",
		MaxDTE:    DefaultMaxDTE,
		secondary: secondary,
	}
}

func (tradierDataProv *tradierDataProvider) Secondary() Provider {
	return tradierDataProv.secondary
}

// tradierQuote models one entry of the quotes endpoint.
type tradierQuote struct {
	Symbol string  `json:"symbol"`
	Last   float64 `json:"last"`
}

// tradierOption models one contract of the chains endpoint.
type tradierOption struct {
	Symbol       string  `json:"symbol"`
	Strike       float64 `json:"strike"`
	OptionType   string  `json:"option_type"`
	Last         float64 `json:"last"`
	Bid          float64 `json:"bid"`
	Ask          float64 `json:"ask"`
	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"open_interest"`
	Expiration   string  `json:"expiration_date"`
	Greeks       *struct {
		MidIV float64 `json:"mid_iv"`
	} `json:"greeks"`
}

func (tradierDataProv *tradierDataProvider) GetSymbolData(ctx context.Context, symbol string) (*SymbolData, error) {
	fetchedAt := time.Now()

	spot, err := tradierDataProv.getQuote(ctx, symbol)
	if err != nil {
		return tradierDataProv.fallback(ctx, symbol, err)
	}
	if spot <= 0 {
		return tradierDataProv.fallback(ctx, symbol, ErrNoData)
	}

	expiries, err := tradierDataProv.getExpirations(ctx, symbol)
	if err != nil {
		return tradierDataProv.fallback(ctx, symbol, err)
	}

	cutoff := fetchedAt.AddDate(0, 0, tradierDataProv.MaxDTE)
	var contracts []OptionContract
	for _, exp := range expiries {
		if exp.After(cutoff) {
			continue
		}
		chain, err := tradierDataProv.getChain(ctx, symbol, exp)
		if err != nil {
			return nil, fmt.Errorf("chain %s %s: %w", symbol, exp.Format("2006-01-02"), err)
		}
		contracts = append(contracts, chain...)
	}
	if len(contracts) == 0 {
		return tradierDataProv.fallback(ctx, symbol, ErrNoData)
	}

	logger.Debugf("tradier: %s spot=%.2f contracts=%d", symbol, spot, len(contracts))
	return &SymbolData{
		Symbol:    symbol,
		Price:     spot,
		QuoteAge:  time.Since(fetchedAt),
		Contracts: contracts,
	}, nil
}

// fallback consults the secondary provider if one is configured,
// otherwise returns the original error.
func (tradierDataProv *tradierDataProvider) fallback(ctx context.Context, symbol string, err error) (*SymbolData, error) {
	if tradierDataProv.secondary != nil {
		logger.Debugf("tradier: %s failed (%v), trying secondary", symbol, err)
		return tradierDataProv.secondary.GetSymbolData(ctx, symbol)
	}
	return nil, err
}

func (tradierDataProv *tradierDataProvider) getQuote(ctx context.Context, symbol string) (float64, error) {
	var body struct {
		Quotes struct {
			Quote json.RawMessage `json:"quote"`
		} `json:"quotes"`
	}
	params := url.Values{"symbols": {symbol}}
	if err := tradierDataProv.getJSON(ctx, "/v1/markets/quotes", params, &body); err != nil {
		return 0, err
	}
	if len(body.Quotes.Quote) == 0 {
		return 0, ErrNoData
	}

	// Tradier returns an object for one symbol, an array for several.
	var q tradierQuote
	if err := json.Unmarshal(body.Quotes.Quote, &q); err != nil {
		var qs []tradierQuote
		if err2 := json.Unmarshal(body.Quotes.Quote, &qs); err2 != nil || len(qs) == 0 {
			return 0, fmt.Errorf("decode quote for %s: %w", symbol, err)
		}
		q = qs[0]
	}
	return q.Last, nil
}

func (tradierDataProv *tradierDataProvider) getExpirations(ctx context.Context, symbol string) ([]time.Time, error) {
	var body struct {
		Expirations struct {
			Date []string `json:"date"`
		} `json:"expirations"`
	}
	params := url.Values{"symbol": {symbol}}
	if err := tradierDataProv.getJSON(ctx, "/v1/markets/options/expirations", params, &body); err != nil {
		return nil, err
	}
	if len(body.Expirations.Date) == 0 {
		return nil, ErrNoData
	}

	out := make([]time.Time, 0, len(body.Expirations.Date))
	for _, d := range body.Expirations.Date {
		dt, err := time.Parse("2006-01-02", d)
		if err != nil {
			logger.Tracef("tradier: skipping unparseable expiration %q", d)
			continue
		}
		out = append(out, dt)
	}
	return out, nil
}

func (tradierDataProv *tradierDataProvider) getChain(ctx context.Context, symbol string, expiry time.Time) ([]OptionContract, error) {
	var body struct {
		Options struct {
			Option []tradierOption `json:"option"`
		} `json:"options"`
	}
	params := url.Values{
		"symbol":     {symbol},
		"expiration": {expiry.Format("2006-01-02")},
		"greeks":     {"true"},
	}
	if err := tradierDataProv.getJSON(ctx, "/v1/markets/options/chains", params, &body); err != nil {
		return nil, err
	}

	out := make([]OptionContract, 0, len(body.Options.Option))
	for _, o := range body.Options.Option {
		iv := 0.0
		if o.Greeks != nil {
			iv = o.Greeks.MidIV
		}
		last := o.Last
		if last <= 0 {
			last = OptionContract{Bid: o.Bid, Ask: o.Ask}.MidPrice()
		}
		out = append(out, OptionContract{
			Symbol:       o.Symbol,
			Strike:       o.Strike,
			Expiration:   expiry,
			Type:         o.OptionType,
			Last:         last,
			Bid:          o.Bid,
			Ask:          o.Ask,
			Volume:       o.Volume,
			OpenInterest: o.OpenInterest,
			IV:           iv,
		})
	}
	return out, nil
}

// getJSON performs one authenticated GET against the Tradier API and
// decodes the response into v. A 404 maps to ErrNoData.
func (tradierDataProv *tradierDataProvider) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	u := tradierDataProv.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tradierDataProv.APIKey)
	req.Header.Set("Accept", "application/json")

	logger.Tracef("GET %s", u)
	resp, err := tradierDataProv.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tradier %s status %d: %s", path, resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

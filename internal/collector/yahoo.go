package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"MarketPulse/internal/model"
)

const (
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	DefaultRange        = "1y"
	DefaultTimeout      = 10 * time.Second
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	Client  *resty.Client
	Range   string
	Timeout time.Duration // per symbol
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration, rng string) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if rng == "" {
		rng = DefaultRange
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{Client: client, Range: rng, Timeout: timeout}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) FetchDailySeries(ctx context.Context, symbol string) (model.PriceSeries, error) {
	series := model.PriceSeries{Symbol: symbol}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	resp, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    f.Range,
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return series, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(resp.Body(), &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		return series, fmt.Errorf("yahoo api error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if resp.StatusCode() != http.StatusOK {
		return series, fmt.Errorf("yahoo %s: status %d, body: %s", symbol, resp.StatusCode(), resp.String())
	}
	if decodeErr != nil {
		return series, fmt.Errorf("yahoo decode %s: %w", symbol, decodeErr)
	}

	series.FetchedAt = time.Now()
	if len(chart.Chart.Result) == 0 {
		return series, nil
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}
	closes := result.Indicators.Quote[0].Close

	bars := make([]model.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bars (holidays, halted sessions)
		}
		bars = append(bars, model.Bar{Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	series.Bars = bars
	return series, nil
}

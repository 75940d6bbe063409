package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"stockgraph/internal/ratelimit"
	"stockgraph/pkg/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validPeriods are the history range codes accepted by the chart API
var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

// YahooProvider implements the Provider interface for Yahoo Finance (unofficial API)
type YahooProvider struct {
	baseURL string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// NewYahooProvider creates a new Yahoo Finance provider
func NewYahooProvider(rateLimitPerMin int) *YahooProvider {
	return &YahooProvider{
		baseURL: yahooBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: ratelimit.NewLimiter("yahoo", rateLimitPerMin),
	}
}

// Name returns the provider name
func (p *YahooProvider) Name() string {
	return "yahoo"
}

// IsAvailable always returns true (no API key needed)
func (p *YahooProvider) IsAvailable() bool {
	return true
}

// yahooResponse represents the Yahoo Finance chart API response
type yahooResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				LongName           string  `json:"longName"`
				ShortName          string  `json:"shortName"`
				ExchangeTimezone   string  `json:"exchangeTimezoneName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				MarketCap          float64 `json:"marketCap"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, rangeCode, interval string) (*yahooResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?range=%s&interval=%s&includePrePost=false",
		p.baseURL, symbol, rangeCode, interval)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.SignalRateLimited()
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: false}
	}

	p.limiter.ResetBackoff()

	var data yahooResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if data.Chart.Error != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s", data.Chart.Error.Description), Retryable: false}
	}

	if len(data.Chart.Result) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("no data available"), Retryable: false}
	}

	return &data, nil
}

// GetQuote fetches 2 days of daily bars plus metadata and derives the quote.
// change = latest close - previous close; percent is relative to previous close.
func (p *YahooProvider) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	data, err := p.fetchChart(ctx, symbol, "2d", "1d")
	if err != nil {
		return nil, err
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("no quote data"), Retryable: false}
	}
	quotes := result.Indicators.Quote[0]

	// Drop bars with a missing close; the trailing bar can be null intraday
	closes := make([]float64, 0, len(quotes.Close))
	volumes := make([]int64, 0, len(quotes.Close))
	for i, c := range quotes.Close {
		if c == 0 {
			continue
		}
		closes = append(closes, c)
		var v int64
		if i < len(quotes.Volume) {
			v = quotes.Volume[i]
		}
		volumes = append(volumes, v)
	}

	if len(closes) < 2 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("insufficient history for %s", symbol), Retryable: false}
	}

	currentPrice := closes[len(closes)-1]
	prevPrice := closes[len(closes)-2]
	change := currentPrice - prevPrice
	changePercent := (change / prevPrice) * 100

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	if name == "" {
		name = symbol
	}

	return &model.Quote{
		Symbol:        symbol,
		Name:          name,
		CurrentPrice:  round2(currentPrice),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		Volume:        volumes[len(volumes)-1],
		MarketCap:     result.Meta.MarketCap,
	}, nil
}

// GetHistory fetches chronological daily bars for a period code
func (p *YahooProvider) GetHistory(ctx context.Context, symbol string, period string) ([]model.Candle, error) {
	if !validPeriods[period] {
		period = "1mo"
	}

	data, err := p.fetchChart(ctx, symbol, period, "1d")
	if err != nil {
		return nil, err
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("no data available"), Retryable: false}
	}
	quotes := result.Indicators.Quote[0]

	loc := time.UTC
	if tz, err := time.LoadLocation(result.Meta.ExchangeTimezone); err == nil && result.Meta.ExchangeTimezone != "" {
		loc = tz
	}

	candles := make([]model.Candle, 0, len(result.Timestamp))
	for i := range result.Timestamp {
		if i >= len(quotes.Open) || i >= len(quotes.High) || i >= len(quotes.Low) || i >= len(quotes.Close) {
			continue
		}
		if quotes.Close[i] == 0 {
			continue
		}

		var volume int64
		if i < len(quotes.Volume) {
			volume = quotes.Volume[i]
		}

		candles = append(candles, model.Candle{
			Date:   time.Unix(result.Timestamp[i], 0).In(loc).Format("2006-01-02"),
			Open:   round2(quotes.Open[i]),
			High:   round2(quotes.High[i]),
			Low:    round2(quotes.Low[i]),
			Close:  round2(quotes.Close[i]),
			Volume: volume,
		})
	}

	return candles, nil
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

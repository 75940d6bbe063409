package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stockgraph/internal/ratelimit"
	"stockgraph/pkg/model"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider implements the Provider interface for the Finnhub API.
// It serves as a secondary quote source; only quotes are supported, history
// requires a paid plan.
type FinnhubProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *ratelimit.Limiter
}

// NewFinnhubProvider creates a new Finnhub provider
func NewFinnhubProvider(apiKey string, rateLimitPerMin int) *FinnhubProvider {
	return &FinnhubProvider{
		apiKey:  apiKey,
		baseURL: finnhubBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: ratelimit.NewLimiter("finnhub", rateLimitPerMin),
	}
}

// Name returns the provider name
func (p *FinnhubProvider) Name() string {
	return "finnhub"
}

// IsAvailable checks if the provider has an API key
func (p *FinnhubProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// finnhubQuote represents the Finnhub /quote response
type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	PrevClose     float64 `json:"pc"`
}

// GetQuote fetches the latest quote. Finnhub does not return a display name
// or volume on this endpoint; callers overlay registry metadata.
func (p *FinnhubProvider) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/quote?symbol=%s&token=%s", p.baseURL, symbol, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

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

	var data finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// Finnhub returns all zeros for unknown symbols
	if data.Current == 0 && data.PrevClose == 0 {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("no data for %s", symbol), Retryable: false}
	}

	return &model.Quote{
		Symbol:        symbol,
		Name:          symbol,
		CurrentPrice:  round2(data.Current),
		Change:        round2(data.Change),
		ChangePercent: round2(data.ChangePercent),
	}, nil
}

// GetHistory is not supported on the free Finnhub tier
func (p *FinnhubProvider) GetHistory(ctx context.Context, symbol string, period string) ([]model.Candle, error) {
	return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("history not supported"), Retryable: false}
}

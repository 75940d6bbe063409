// Package provider implements the market data gateway over third-party quote APIs.
package provider

import (
	"context"
	"log"

	"stockgraph/pkg/model"
)

// Provider defines the interface for quote data sources
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetQuote fetches the latest quote for an exchange-suffixed symbol.
	// The quote carries current price, change vs previous close, volume
	// and market cap, all monetary figures rounded to 2 decimals.
	GetQuote(ctx context.Context, symbol string) (*model.Quote, error)

	// GetHistory fetches daily OHLCV bars for a period code
	// (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)
	GetHistory(ctx context.Context, symbol string, period string) ([]model.Candle, error)

	// IsAvailable checks if the provider can serve requests (has API key if one is needed)
	IsAvailable() bool
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// GetMany fetches each symbol's quote independently and returns only the
// successful ones keyed by symbol. Failures are logged and dropped; callers
// must treat an absent symbol as a valid outcome.
func GetMany(ctx context.Context, p Provider, symbols []string) map[string]*model.Quote {
	results := make(map[string]*model.Quote)
	for _, symbol := range symbols {
		quote, err := p.GetQuote(ctx, symbol)
		if err != nil {
			log.Printf("[DATA] No quote for %s: %v", symbol, err)
			continue
		}
		results[symbol] = quote
	}
	return results
}

// FallbackProvider tries multiple providers in order
type FallbackProvider struct {
	providers []Provider
}

// NewFallbackProvider creates a fallback chain from the available providers
func NewFallbackProvider(providers ...Provider) *FallbackProvider {
	available := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{providers: available}
}

// Name returns the combined provider name
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// IsAvailable returns true if any provider is available
func (f *FallbackProvider) IsAvailable() bool {
	return len(f.providers) > 0
}

// GetQuote tries each provider in order until one succeeds
func (f *FallbackProvider) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	var lastErr error
	for _, p := range f.providers {
		quote, err := p.GetQuote(ctx, symbol)
		if err == nil {
			return quote, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// GetHistory tries each provider in order
func (f *FallbackProvider) GetHistory(ctx context.Context, symbol string, period string) ([]model.Candle, error) {
	var lastErr error
	for _, p := range f.providers {
		candles, err := p.GetHistory(ctx, symbol, period)
		if err == nil {
			return candles, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Providers returns the list of underlying providers
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}

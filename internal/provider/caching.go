package provider

import (
	"context"
	"sync"
	"time"

	"stockgraph/pkg/model"
)

// CachingProvider wraps a Provider with a TTL cache for GetQuote.
// Several endpoints hit the same handful of registry symbols; a short TTL
// keeps them from turning every request into a live round trip.
type CachingProvider struct {
	inner Provider
	ttl   time.Duration

	mu    sync.Mutex
	cache map[string]cachedQuote

	now func() time.Time // overridable for tests
}

type cachedQuote struct {
	quote     *model.Quote
	fetchedAt time.Time
}

// NewCachingProvider creates a caching wrapper with the given TTL
func NewCachingProvider(inner Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		inner: inner,
		ttl:   ttl,
		cache: make(map[string]cachedQuote),
		now:   time.Now,
	}
}

func (p *CachingProvider) Name() string      { return p.inner.Name() }
func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }

// GetQuote returns a cached quote when fresh, otherwise fetches and stores.
// Errors are never cached; a failed symbol is retried on the next call.
func (p *CachingProvider) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	p.mu.Lock()
	if entry, ok := p.cache[symbol]; ok && p.now().Sub(entry.fetchedAt) < p.ttl {
		p.mu.Unlock()
		return entry.quote, nil
	}
	p.mu.Unlock()

	quote, err := p.inner.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[symbol] = cachedQuote{quote: quote, fetchedAt: p.now()}
	p.mu.Unlock()

	return quote, nil
}

// GetHistory passes through; history requests are rare enough to skip caching
func (p *CachingProvider) GetHistory(ctx context.Context, symbol string, period string) ([]model.Candle, error) {
	return p.inner.GetHistory(ctx, symbol, period)
}

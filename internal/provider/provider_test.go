package provider

import (
	"context"
	"fmt"
	"testing"
	"time"

	"stockgraph/pkg/model"
)

// stubProvider is a scriptable Provider for tests
type stubProvider struct {
	name      string
	available bool
	quotes    map[string]*model.Quote
	calls     int
}

func (s *stubProvider) Name() string      { return s.name }
func (s *stubProvider) IsAvailable() bool { return s.available }

func (s *stubProvider) GetQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	s.calls++
	if q, ok := s.quotes[symbol]; ok {
		return q, nil
	}
	return nil, &ProviderError{Provider: s.name, Err: fmt.Errorf("no data for %s", symbol)}
}

func (s *stubProvider) GetHistory(ctx context.Context, symbol string, period string) ([]model.Candle, error) {
	return nil, &ProviderError{Provider: s.name, Err: fmt.Errorf("history not supported")}
}

func quoteFor(symbol string, price float64) *model.Quote {
	return &model.Quote{Symbol: symbol, Name: symbol, CurrentPrice: price}
}

func TestFallbackProviderOrder(t *testing.T) {
	primary := &stubProvider{name: "primary", available: true, quotes: map[string]*model.Quote{
		"TCS.NS": quoteFor("TCS.NS", 3500),
	}}
	secondary := &stubProvider{name: "secondary", available: true, quotes: map[string]*model.Quote{
		"TCS.NS":  quoteFor("TCS.NS", 9999),
		"INFY.NS": quoteFor("INFY.NS", 1500),
	}}

	fb := NewFallbackProvider(primary, secondary)

	// Primary wins when it has data
	q, err := fb.GetQuote(context.Background(), "TCS.NS")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.CurrentPrice != 3500 {
		t.Errorf("Expected primary price 3500, got %v", q.CurrentPrice)
	}

	// Secondary serves what primary cannot
	q, err = fb.GetQuote(context.Background(), "INFY.NS")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.CurrentPrice != 1500 {
		t.Errorf("Expected secondary price 1500, got %v", q.CurrentPrice)
	}

	// Both fail: last error surfaces
	if _, err := fb.GetQuote(context.Background(), "NOPE.NS"); err == nil {
		t.Error("Expected error when no provider has data")
	}
}

func TestFallbackProviderFiltersUnavailable(t *testing.T) {
	down := &stubProvider{name: "down", available: false}
	up := &stubProvider{name: "up", available: true}

	fb := NewFallbackProvider(down, up)
	if len(fb.Providers()) != 1 {
		t.Fatalf("Expected 1 available provider, got %d", len(fb.Providers()))
	}
	if fb.Providers()[0].Name() != "up" {
		t.Errorf("Expected 'up' provider, got %s", fb.Providers()[0].Name())
	}

	empty := NewFallbackProvider(down)
	if empty.IsAvailable() {
		t.Error("Fallback over unavailable providers should not be available")
	}
}

func TestGetManyDropsFailures(t *testing.T) {
	p := &stubProvider{name: "stub", available: true, quotes: map[string]*model.Quote{
		"TCS.NS":  quoteFor("TCS.NS", 3500),
		"INFY.NS": quoteFor("INFY.NS", 1500),
	}}

	results := GetMany(context.Background(), p, []string{"TCS.NS", "MISSING.NS", "INFY.NS"})

	if len(results) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(results))
	}
	if _, ok := results["MISSING.NS"]; ok {
		t.Error("Failed symbol should be dropped, not present")
	}
	if results["TCS.NS"].CurrentPrice != 3500 {
		t.Errorf("Expected TCS.NS price 3500, got %v", results["TCS.NS"].CurrentPrice)
	}
}

func TestCachingProviderTTL(t *testing.T) {
	inner := &stubProvider{name: "stub", available: true, quotes: map[string]*model.Quote{
		"TCS.NS": quoteFor("TCS.NS", 3500),
	}}

	current := time.Unix(1700000000, 0)
	cp := NewCachingProvider(inner, 5*time.Minute)
	cp.now = func() time.Time { return current }

	ctx := context.Background()

	if _, err := cp.GetQuote(ctx, "TCS.NS"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := cp.GetQuote(ctx, "TCS.NS"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 upstream call within TTL, got %d", inner.calls)
	}

	// Expire the entry
	current = current.Add(6 * time.Minute)
	if _, err := cp.GetQuote(ctx, "TCS.NS"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("Expected refetch after TTL, got %d calls", inner.calls)
	}
}

func TestCachingProviderDoesNotCacheErrors(t *testing.T) {
	inner := &stubProvider{name: "stub", available: true, quotes: map[string]*model.Quote{}}
	cp := NewCachingProvider(inner, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cp.GetQuote(ctx, "MISSING.NS"); err == nil {
			t.Fatal("Expected error for missing symbol")
		}
	}
	if inner.calls != 3 {
		t.Errorf("Errors must not be cached; expected 3 upstream calls, got %d", inner.calls)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2456.789, 2456.79},
		{2456.784, 2456.78},
		{-1.005, -1.0}, // float representation of -1.005 is slightly above
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"stockgraph/pkg/model"
)

func TestNewAdvisorWithoutKeyIsDegraded(t *testing.T) {
	a := NewAdvisor("")
	if a.Mode() != ModeDegraded {
		t.Errorf("Expected degraded mode without API key, got %s", a.Mode())
	}
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		err       error
		want      string
	}{
		{
			name:      "prefers flash tier",
			available: []string{"models/gemini-pro", "models/gemini-1.5-flash"},
			want:      "gemini-1.5-flash",
		},
		{
			name:      "falls back to pro tier",
			available: []string{"models/gemini-pro", "models/other"},
			want:      "gemini-pro",
		},
		{
			name:      "first available otherwise",
			available: []string{"models/something-else"},
			want:      "something-else",
		},
		{
			name: "empty list defaults",
			want: "gemini-1.5-flash",
		},
		{
			name: "listing failure defaults",
			err:  fmt.Errorf("boom"),
			want: "gemini-1.5-flash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectModel(tt.available, tt.err); got != tt.want {
				t.Errorf("selectModel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExplainPredictionDegradedDeterministic(t *testing.T) {
	a := NewAdvisor("")
	ctx := context.Background()

	up1 := a.ExplainPrediction(ctx, "Infosys", 1500, 2.5, "Technology")
	up2 := a.ExplainPrediction(ctx, "Infosys", 1500, 4.0, "Technology")
	if up1 != up2 {
		t.Error("Degraded explanations must be identical for the same sign of change")
	}
	if !strings.Contains(up1, "bullish") {
		t.Errorf("Positive change should read bullish, got %q", up1)
	}

	down := a.ExplainPrediction(ctx, "Infosys", 1500, -1.0, "Technology")
	if !strings.Contains(down, "bearish") {
		t.Errorf("Negative change should read bearish, got %q", down)
	}
}

func TestExplainPredictionLiveFallsBackOnError(t *testing.T) {
	a := NewAdvisorWithGenerator(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("quota exceeded")
	})

	got := a.ExplainPrediction(context.Background(), "Wipro", 450, 1.2, "Technology")
	if !strings.Contains(got, "positive momentum in the Technology sector") {
		t.Errorf("Expected deterministic fallback, got %q", got)
	}
}

func TestExplainPredictionLive(t *testing.T) {
	a := NewAdvisorWithGenerator(func(ctx context.Context, prompt string) (string, error) {
		if !strings.Contains(prompt, "Wipro") || !strings.Contains(prompt, "Technology") {
			t.Errorf("Prompt missing stock context: %q", prompt)
		}
		return "  Sector rotation favors IT names.  ", nil
	})

	got := a.ExplainPrediction(context.Background(), "Wipro", 450, 1.2, "Technology")
	if got != "Sector rotation favors IT names." {
		t.Errorf("Expected trimmed model text, got %q", got)
	}
}

func TestAssessMarketSentimentDegraded(t *testing.T) {
	a := NewAdvisor("")
	quotes := []*model.Quote{
		{Name: "A", ChangePercent: 1.0},
		{Name: "B", ChangePercent: -2.0},
		{Name: "C", ChangePercent: 0.5},
		{Name: "D", ChangePercent: 3.0},
	}

	got := a.AssessMarketSentiment(context.Background(), quotes)
	if got.Sentiment != "Neutral" {
		t.Errorf("Degraded sentiment fixed to Neutral, got %q", got.Sentiment)
	}
	if got.Score != 7.5 { // 3 of 4 positive
		t.Errorf("Expected score 7.5, got %v", got.Score)
	}
}

func TestAssessMarketSentimentDegradedEmpty(t *testing.T) {
	a := NewAdvisor("")
	got := a.AssessMarketSentiment(context.Background(), nil)
	if got.Score != 5.0 {
		t.Errorf("Empty quote set should score 5.0, got %v", got.Score)
	}
}

func TestAssessMarketSentimentLive(t *testing.T) {
	var prompt string
	a := NewAdvisorWithGenerator(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "Bullish|8|Broad accumulation across sectors.", nil
	})

	quotes := []*model.Quote{
		{Name: "HDFC Bank", ChangePercent: 1.0},
		{Name: "Infosys", ChangePercent: 4.2},
		{Name: "Tata Steel", ChangePercent: -3.1},
	}
	got := a.AssessMarketSentiment(context.Background(), quotes)

	if got.Sentiment != "Bullish" || got.Score != 8 {
		t.Errorf("Unexpected assessment: %+v", got)
	}
	// The largest gainer and loser should anchor the prompt
	if !strings.Contains(prompt, "Infosys (+4.20%)") {
		t.Errorf("Prompt should name the top gainer, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Tata Steel (-3.10%)") {
		t.Errorf("Prompt should name the top loser, got:\n%s", prompt)
	}
}

func TestAssessMarketSentimentLiveCallFailure(t *testing.T) {
	a := NewAdvisorWithGenerator(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("deadline exceeded")
	})

	got := a.AssessMarketSentiment(context.Background(), []*model.Quote{{Name: "A", ChangePercent: 1}})
	if got.Sentiment != "Neutral" || got.Score != 5.0 {
		t.Errorf("Expected neutral fallback, got %+v", got)
	}
	if !strings.Contains(got.Summary, "temporarily unavailable") {
		t.Errorf("Call failure should use the distinct fallback summary, got %q", got.Summary)
	}
}

func TestAssessPortfolioDegraded(t *testing.T) {
	a := NewAdvisor("")
	advice := a.AssessPortfolio(context.Background(), []model.EnrichedHolding{
		{Ticker: "TCS", Quantity: 10, AvgPrice: 3200, Sector: "Technology"},
	})
	if advice.RiskScore != 5.0 || advice.DiversificationScore != 5.0 {
		t.Errorf("Expected 5.0/5.0 defaults, got %v/%v", advice.RiskScore, advice.DiversificationScore)
	}
	if len(advice.Recommendations) != 1 {
		t.Errorf("Expected one generic recommendation, got %v", advice.Recommendations)
	}
}

func TestAssessPortfolioLive(t *testing.T) {
	a := NewAdvisorWithGenerator(func(ctx context.Context, prompt string) (string, error) {
		if !strings.Contains(prompt, "- TCS: 10 shares @ 3200.00 (Sector: Technology)") {
			t.Errorf("Prompt missing holding summary:\n%s", prompt)
		}
		return "7|4|Reduce tech weight;Add pharma;Keep SIP going", nil
	})

	advice := a.AssessPortfolio(context.Background(), []model.EnrichedHolding{
		{Ticker: "TCS", Quantity: 10, AvgPrice: 3200, Sector: "Technology"},
	})
	if advice.RiskScore != 7 || advice.DiversificationScore != 4 {
		t.Errorf("Unexpected scores: %+v", advice)
	}
	if len(advice.Recommendations) != 3 {
		t.Errorf("Expected 3 recommendations, got %v", advice.Recommendations)
	}
}

func TestAssessPortfolioUnparseableFallsBack(t *testing.T) {
	a := NewAdvisorWithGenerator(func(ctx context.Context, prompt string) (string, error) {
		return "this is not the format you are looking for", nil
	})

	advice := a.AssessPortfolio(context.Background(), nil)
	if advice.RiskScore != 5.0 || advice.DiversificationScore != 5.0 {
		t.Errorf("Expected fixed fallback scores, got %+v", advice)
	}
	if len(advice.Recommendations) != 1 {
		t.Errorf("Expected one generic recommendation, got %v", advice.Recommendations)
	}
}

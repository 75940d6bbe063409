package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"stockgraph/pkg/model"
)

// Mode indicates whether the advisor talks to the live API or serves
// deterministic templated output.
type Mode string

const (
	ModeLive     Mode = "live"
	ModeDegraded Mode = "degraded"
)

// GenerateFunc produces model text for a prompt
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Advisor produces prediction explanations, market sentiment and portfolio
// assessments. The mode is fixed at construction: without an API key the
// advisor runs degraded for the process lifetime, and setup is never retried.
type Advisor struct {
	mode     Mode
	model    string
	generate GenerateFunc
}

// NewAdvisor creates an advisor. An empty API key selects degraded mode.
// With a key, the available models are queried once and the preferred one
// selected; if the listing call itself fails a default model is assumed and
// setup still completes.
func NewAdvisor(apiKey string) *Advisor {
	if apiKey == "" {
		log.Printf("[AI] No API key configured; advisor running in degraded mode")
		return &Advisor{mode: ModeDegraded}
	}

	client := NewClient(apiKey)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	modelName := selectModel(client.ListModels(ctx))
	log.Printf("[AI] Selected model: %s", modelName)

	return &Advisor{
		mode:  ModeLive,
		model: modelName,
		generate: func(ctx context.Context, prompt string) (string, error) {
			return client.GenerateContent(ctx, modelName, prompt)
		},
	}
}

// NewAdvisorWithGenerator creates a live-mode advisor around an injected
// generate function. This is the seam that makes the live path testable
// without the network.
func NewAdvisorWithGenerator(gen GenerateFunc) *Advisor {
	return &Advisor{mode: ModeLive, generate: gen}
}

// Mode returns the advisor mode
func (a *Advisor) Mode() Mode {
	return a.mode
}

const defaultModel = "gemini-1.5-flash"

// selectModel picks by preference: flash tier, then pro tier, then the first
// listed model. A failed listing falls back to the default.
func selectModel(available []string, err error) string {
	if err != nil {
		log.Printf("[AI] Listing models failed: %v; defaulting to %s", err, defaultModel)
		return defaultModel
	}

	has := func(name string) bool {
		for _, m := range available {
			if m == name {
				return true
			}
		}
		return false
	}

	switch {
	case has("models/gemini-1.5-flash"):
		return "gemini-1.5-flash"
	case has("models/gemini-pro"):
		return "gemini-pro"
	case len(available) > 0:
		return strings.TrimPrefix(available[0], "models/")
	default:
		return defaultModel
	}
}

// ExplainPrediction returns a short free-text explanation for a predicted
// price move. Degraded mode and call failures both produce deterministic
// templates branching only on the sign of the change.
func (a *Advisor) ExplainPrediction(ctx context.Context, name string, currentPrice, predictedChangePct float64, sector string) string {
	if a.mode == ModeDegraded {
		direction := "bearish"
		if predictedChangePct > 0 {
			direction = "bullish"
		}
		return fmt.Sprintf("Based on technical analysis and sector trends. %s shows %s momentum.", name, direction)
	}

	movement := "decrease"
	if predictedChangePct > 0 {
		movement = "increase"
	}
	pct := predictedChangePct
	if pct < 0 {
		pct = -pct
	}

	prompt := fmt.Sprintf(`As a financial analyst AI, provide a brief explanation (2-3 sentences) for why %s
in the %s sector might see a %.2f%% %s
from its current price of ₹%.2f.

Consider:
- Sector trends
- Market sentiment
- Technical indicators

Keep it concise and professional.`, name, sector, pct, movement, currentPrice)

	text, err := a.generate(ctx, prompt)
	if err != nil {
		log.Printf("[AI] Explanation call failed: %v", err)
		direction := "negative"
		if predictedChangePct > 0 {
			direction = "positive"
		}
		return fmt.Sprintf("Based on sector analysis and market trends. %s shows %s momentum in the %s sector.", name, direction, sector)
	}

	return strings.TrimSpace(text)
}

// AssessMarketSentiment summarizes overall sentiment from a set of quotes
func (a *Advisor) AssessMarketSentiment(ctx context.Context, quotes []*model.Quote) model.SentimentAssessment {
	if a.mode == ModeDegraded {
		positive := 0
		for _, q := range quotes {
			if q.ChangePercent > 0 {
				positive++
			}
		}
		score := defaultScore
		if len(quotes) > 0 {
			score = float64(positive) / float64(len(quotes)) * 10
		}
		return model.SentimentAssessment{
			Sentiment: defaultSentiment,
			Score:     score,
			Summary:   "Market showing mixed signals with balanced sector performance.",
		}
	}

	var gainers, losers int
	var topGainer, topLoser *model.Quote
	for _, q := range quotes {
		if q.ChangePercent > 0 {
			gainers++
			if topGainer == nil || q.ChangePercent > topGainer.ChangePercent {
				topGainer = q
			}
		} else if q.ChangePercent < 0 {
			losers++
			if topLoser == nil || q.ChangePercent < topLoser.ChangePercent {
				topLoser = q
			}
		}
	}

	gainerLine := "N/A"
	if topGainer != nil {
		gainerLine = fmt.Sprintf("%s (+%.2f%%)", topGainer.Name, topGainer.ChangePercent)
	}
	loserLine := "N/A"
	if topLoser != nil {
		loserLine = fmt.Sprintf("%s (%.2f%%)", topLoser.Name, topLoser.ChangePercent)
	}

	prompt := fmt.Sprintf(`Analyze the current Indian stock market sentiment based on this data:
- Total stocks tracked: %d
- Gainers: %d
- Losers: %d
- Top gainer: %s
- Top loser: %s

Provide:
1. Overall sentiment (Bullish/Bearish/Neutral)
2. Sentiment score (0-10)
3. Brief 1-sentence summary

Format: SENTIMENT|SCORE|SUMMARY`, len(quotes), gainers, losers, gainerLine, loserLine)

	text, err := a.generate(ctx, prompt)
	if err != nil {
		log.Printf("[AI] Sentiment call failed: %v", err)
		return model.SentimentAssessment{
			Sentiment: defaultSentiment,
			Score:     defaultScore,
			Summary:   "Market data is currently volatile. AI sentiment analysis is temporarily unavailable.",
		}
	}

	return ParseSentiment(text)
}

// AssessPortfolio scores risk and diversification for resolved holdings
func (a *Advisor) AssessPortfolio(ctx context.Context, holdings []model.EnrichedHolding) PortfolioAdvice {
	if a.mode == ModeDegraded {
		return PortfolioAdvice{
			RiskScore:            defaultScore,
			DiversificationScore: defaultScore,
			Recommendations:      []string{"AI features unavailable. Diversify across sectors."},
		}
	}

	var lines []string
	for _, h := range holdings {
		lines = append(lines, fmt.Sprintf("- %s: %d shares @ %.2f (Sector: %s)", h.Ticker, h.Quantity, h.AvgPrice, h.Sector))
	}

	prompt := fmt.Sprintf(`As a financial advisor, analyze this stock portfolio:
%s

Provide:
1. Risk Score (1-10, where 10 is extremely risky/concentrated)
2. Diversification Score (1-10, where 10 is perfectly diversified)
3. 3 Strategic Recommendations (bullet points, no asterisks)

Format exactly as:
RISK|DIVERSIFICATION|REC1;REC2;REC3`, strings.Join(lines, "\n"))

	text, err := a.generate(ctx, prompt)
	if err != nil {
		log.Printf("[AI] Portfolio call failed: %v", err)
		return portfolioFallback()
	}

	advice, ok := ParsePortfolio(text)
	if !ok {
		log.Printf("[AI] Unparseable portfolio response: %q", text)
		return portfolioFallback()
	}
	return advice
}

func portfolioFallback() PortfolioAdvice {
	return PortfolioAdvice{
		RiskScore:            defaultScore,
		DiversificationScore: defaultScore,
		Recommendations:      []string{"Error generating AI insights. Ensure portfolio has valid stocks."},
	}
}

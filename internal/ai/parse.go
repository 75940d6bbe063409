package ai

import (
	"strconv"
	"strings"

	"stockgraph/pkg/model"
)

// Model output is treated as untrusted text: parsing is positional on the
// documented delimiters, absent or non-numeric fields fall back to defaults,
// and no parse failure ever surfaces to the caller as an error.

const (
	defaultSentiment = "Neutral"
	defaultScore     = 5.0
	defaultSummary   = "Mixed market conditions."
)

// PortfolioAdvice is the structured result of a portfolio assessment
type PortfolioAdvice struct {
	RiskScore            float64
	DiversificationScore float64
	Recommendations      []string
}

// stripMarkdown removes the bold/italic markers models sprinkle in despite instructions
func stripMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	return strings.ReplaceAll(text, "*", "")
}

// ParseSentiment parses a SENTIMENT|SCORE|SUMMARY response.
// Every malformed field falls back independently.
func ParseSentiment(text string) model.SentimentAssessment {
	parts := strings.Split(stripMarkdown(strings.TrimSpace(text)), "|")

	sentiment := defaultSentiment
	if s := strings.TrimSpace(parts[0]); s != "" {
		sentiment = s
	}

	score := defaultScore
	if len(parts) > 1 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			score = v
		}
	}

	summary := defaultSummary
	if len(parts) > 2 {
		if s := strings.TrimSpace(parts[2]); s != "" {
			summary = s
		}
	}

	return model.SentimentAssessment{Sentiment: sentiment, Score: score, Summary: summary}
}

// ParsePortfolio parses a RISK|DIVERSIFICATION|REC1;REC2;REC3 response.
// Returns ok=false when a numeric field is unparseable; the caller substitutes
// its fixed fallback in that case.
func ParsePortfolio(text string) (PortfolioAdvice, bool) {
	parts := strings.Split(stripMarkdown(strings.TrimSpace(text)), "|")

	risk, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return PortfolioAdvice{}, false
	}

	diversification := defaultScore
	if len(parts) > 1 {
		diversification, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return PortfolioAdvice{}, false
		}
	}

	recommendations := []string{"Review portfolio allocation."}
	if len(parts) > 2 {
		recommendations = splitRecommendations(parts[2])
	}

	return PortfolioAdvice{
		RiskScore:            risk,
		DiversificationScore: diversification,
		Recommendations:      recommendations,
	}, true
}

// splitRecommendations splits on ';', strips bullet markers and blanks,
// and truncates to 3 items
func splitRecommendations(field string) []string {
	var recs []string
	for _, r := range strings.Split(field, ";") {
		r = strings.TrimSpace(r)
		r = strings.TrimPrefix(r, "- ")
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		recs = append(recs, r)
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}
	if len(recs) == 0 {
		recs = []string{"Review portfolio allocation."}
	}
	return recs
}

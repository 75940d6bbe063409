package web

import (
	"encoding/json"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sort"
	"strings"

	"stockgraph/internal/symbols"
	"stockgraph/pkg/model"
)

// liveStocksLimit caps /api/stocks/live to the registry prefix; fetching all
// 50 symbols per request would blow past the free-tier quota
const liveStocksLimit = 10

// topMoversScanLimit is the registry prefix ranked by /api/predictions/top-movers
const topMoversScanLimit = 20

// insightSampleSize is how many random stocks anchor /api/market-insight
const insightSampleSize = 5

// PredictRequest is the /api/predict request body
type PredictRequest struct {
	Ticker string `json:"ticker"`
}

// PortfolioRequest is the /api/portfolio/analyze request body
type PortfolioRequest struct {
	Holdings []model.Holding `json:"holdings"`
}

// LiveQuote is a quote with the registry sector attached
type LiveQuote struct {
	model.Quote
	Sector string `json:"sector"`
}

// HistoryResponse wraps daily bars for a symbol
type HistoryResponse struct {
	Symbol  string         `json:"symbol"`
	Period  string         `json:"period"`
	Candles []model.Candle `json:"candles"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"message": "StockGraph API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

// handleStocksAll returns the full static registry
func (s *Server) handleStocksAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, symbols.All())
}

// handleStocksLive returns live quotes for the first few registry entries.
// Symbols the data source cannot serve are silently dropped.
func (s *Server) handleStocksLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stocks := symbols.All()
	if len(stocks) > liveStocksLimit {
		stocks = stocks[:liveStocksLimit]
	}

	live := make([]LiveQuote, 0, len(stocks))
	for _, stock := range stocks {
		quote, err := s.provider.GetQuote(r.Context(), stock.Symbol)
		if err != nil {
			log.Printf("[WEB] No live data for %s: %v", stock.Symbol, err)
			continue
		}
		live = append(live, LiveQuote{Quote: *quote, Sector: stock.Sector})
	}

	writeJSON(w, live)
}

// handleHistory returns daily bars for a symbol and period code.
// Failures yield an empty bar list, not an error.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ticker := r.URL.Query().Get("symbol")
	if ticker == "" {
		http.Error(w, "Symbol required", http.StatusBadRequest)
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1mo"
	}

	symbol := symbols.Normalize(ticker)
	candles, err := s.provider.GetHistory(r.Context(), symbol, period)
	if err != nil {
		log.Printf("[WEB] No history for %s: %v", symbol, err)
		candles = []model.Candle{}
	}

	writeJSON(w, HistoryResponse{Symbol: symbol, Period: period, Candles: candles})
}

// handlePredict returns a prediction for a single ticker.
// This is the only quote path that surfaces a hard not-found error.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed — use POST", http.StatusMethodNotAllowed)
		return
	}

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		http.Error(w, "Ticker required", http.StatusBadRequest)
		return
	}

	symbol := symbols.Normalize(req.Ticker)

	sector := "Unknown"
	if stock, ok := symbols.Find(symbol); ok {
		sector = stock.Sector
	}

	quote, err := s.provider.GetQuote(r.Context(), symbol)
	if err != nil {
		http.Error(w, "Stock "+req.Ticker+" not found", http.StatusNotFound)
		return
	}

	pred := s.single.Predict(quote.CurrentPrice)
	explanation := s.advisor.ExplainPrediction(r.Context(), quote.Name, quote.CurrentPrice, pred.ChangePercent, sector)

	writeJSON(w, model.PredictionResult{
		Ticker:          req.Ticker,
		Name:            quote.Name,
		CurrentPrice:    quote.CurrentPrice,
		PredictedPrice:  pred.PredictedPrice,
		PredictedChange: pred.ChangePercent,
		Confidence:      pred.Confidence,
		Explanation:     explanation,
	})
}

// handleTopMovers ranks a registry prefix by magnitude of predicted change.
// The endpoint never returns an empty list: total quote failure synthesizes
// mock entries instead.
func (s *Server) handleTopMovers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stocks := symbols.All()
	if len(stocks) > topMoversScanLimit {
		stocks = stocks[:topMoversScanLimit]
	}

	var predictions []model.PredictionResult
	for _, stock := range stocks {
		quote, err := s.provider.GetQuote(r.Context(), stock.Symbol)
		if err != nil {
			continue
		}

		pred := s.ranking.Predict(quote.CurrentPrice)
		predictions = append(predictions, model.PredictionResult{
			Ticker:          strings.TrimSuffix(stock.Symbol, ".NS"),
			Name:            stock.Name,
			Sector:          stock.Sector,
			CurrentPrice:    quote.CurrentPrice,
			PredictedPrice:  pred.PredictedPrice,
			PredictedChange: pred.ChangePercent,
			Confidence:      pred.Confidence,
		})
	}

	// No live data at all: keep the board populated with mock entries
	if len(predictions) == 0 {
		log.Printf("[WEB] No live quotes for top movers; serving mock entries")
		for _, stock := range symbols.All()[:insightSampleSize] {
			predictions = append(predictions, model.PredictionResult{
				Ticker:          strings.TrimSuffix(stock.Symbol, ".NS"),
				Name:            stock.Name,
				Sector:          stock.Sector,
				CurrentPrice:    round2(500 + rand.Float64()*2000),
				PredictedPrice:  round2(500 + rand.Float64()*2000),
				PredictedChange: round2(-5 + rand.Float64()*10),
				Confidence:      0.85,
			})
		}
	}

	sortByAbsChange(predictions)
	if len(predictions) > 10 {
		predictions = predictions[:10]
	}

	writeJSON(w, predictions)
}

// sortByAbsChange orders predictions by |predicted change| descending
func sortByAbsChange(predictions []model.PredictionResult) {
	sort.Slice(predictions, func(i, j int) bool {
		return math.Abs(predictions[i].PredictedChange) > math.Abs(predictions[j].PredictedChange)
	})
}

// handleMarketInsight samples the registry and asks the advisor for an
// overall sentiment read. The endpoint always answers with a plausible
// payload, never an error.
func (s *Server) handleMarketInsight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Outer fallback: anything unexpected still yields a usable payload
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[WEB] Market insight failed: %v", rec)
			writeJSON(w, model.SentimentAssessment{
				Sentiment: "Bullish",
				Score:     7.8,
				Summary:   "AI signals indicate strong accumulation in Banking and IT sectors. Positive momentum detected across NIFTY 50 despite minor volatility.",
			})
		}
	}()

	all := symbols.All()
	var quotes []*model.Quote
	for _, idx := range rand.Perm(len(all))[:insightSampleSize] {
		quote, err := s.provider.GetQuote(r.Context(), all[idx].Symbol)
		if err != nil {
			continue
		}
		quotes = append(quotes, quote)
	}

	if len(quotes) == 0 {
		writeJSON(w, model.SentimentAssessment{
			Sentiment: "Neutral",
			Score:     5.0,
			Summary:   "Market data unavailable for real-time analysis, but trends indicate mixed signals across major sectors.",
		})
		return
	}

	writeJSON(w, s.advisor.AssessMarketSentiment(r.Context(), quotes))
}

// handlePortfolioAnalyze values the caller's holdings and delegates scoring
// to the advisor. Holdings absent from the registry are excluded from both
// valuation and scoring, and reported back in the unmatched list.
func (s *Server) handlePortfolioAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed — use POST", http.StatusMethodNotAllowed)
		return
	}

	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Holdings) == 0 {
		http.Error(w, "No holdings provided", http.StatusBadRequest)
		return
	}

	var (
		totalValue   float64
		sectorValues = make(map[string]float64)
		enriched     []model.EnrichedHolding
		unmatched    []string
	)

	for _, holding := range req.Holdings {
		symbol := symbols.Normalize(holding.Ticker)
		stock, ok := symbols.Find(symbol)
		if !ok {
			unmatched = append(unmatched, holding.Ticker)
			continue
		}

		// Live price when available, stored average otherwise
		currentPrice := holding.AvgPrice
		if quote, err := s.provider.GetQuote(r.Context(), symbol); err == nil {
			currentPrice = quote.CurrentPrice
		}

		value := float64(holding.Quantity) * currentPrice
		totalValue += value
		sectorValues[stock.Sector] += value

		enriched = append(enriched, model.EnrichedHolding{
			Ticker:   holding.Ticker,
			Quantity: holding.Quantity,
			AvgPrice: holding.AvgPrice,
			Sector:   stock.Sector,
		})
	}

	// Allocation percentages only make sense with positive total value
	allocation := make(map[string]float64)
	if totalValue > 0 {
		for sector, value := range sectorValues {
			allocation[sector] = round2(value / totalValue * 100)
		}
	}

	advice := s.advisor.AssessPortfolio(r.Context(), enriched)

	writeJSON(w, model.PortfolioAssessment{
		RiskScore:            advice.RiskScore,
		DiversificationScore: advice.DiversificationScore,
		Recommendations:      advice.Recommendations,
		SectorAllocation:     allocation,
		Unmatched:            unmatched,
	})
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

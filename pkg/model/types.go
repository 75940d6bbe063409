package model

// Stock represents a tracked security from the static registry
type Stock struct {
	Symbol string `json:"symbol"` // exchange-suffixed, e.g. RELIANCE.NS
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// Quote is a snapshot of a security's latest trading data
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
}

// Candle represents a single daily OHLCV bar
type Candle struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Holding is a caller-supplied portfolio position
type Holding struct {
	Ticker   string  `json:"ticker"`
	Quantity int     `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// EnrichedHolding is a holding resolved against the registry, as fed to the advisor
type EnrichedHolding struct {
	Ticker   string
	Quantity int
	AvgPrice float64
	Sector   string
}

// Prediction is the raw output of a price predictor
type Prediction struct {
	PredictedPrice float64
	ChangePercent  float64
	Confidence     float64
}

// PredictionResult is the composed per-stock prediction response
type PredictionResult struct {
	Ticker          string  `json:"ticker"`
	Name            string  `json:"name"`
	Sector          string  `json:"sector,omitempty"`
	CurrentPrice    float64 `json:"current_price"`
	PredictedPrice  float64 `json:"predicted_price"`
	PredictedChange float64 `json:"predicted_change"`
	Confidence      float64 `json:"confidence"`
	Explanation     string  `json:"explanation,omitempty"`
}

// PortfolioAssessment is the portfolio analysis response
type PortfolioAssessment struct {
	RiskScore            float64            `json:"risk_score"`
	DiversificationScore float64            `json:"diversification_score"`
	Recommendations      []string           `json:"recommendations"` // capped at 3
	SectorAllocation     map[string]float64 `json:"sector_allocation"`
	Unmatched            []string           `json:"unmatched,omitempty"` // tickers absent from the registry
}

// SentimentAssessment is the market insight response
type SentimentAssessment struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Summary   string  `json:"summary"`
}

// PriceUpdate is a single websocket price push entry
type PriceUpdate struct {
	Ticker    string  `json:"ticker"`
	NewPrice  float64 `json:"new_price"`
	Timestamp string  `json:"timestamp"`
}

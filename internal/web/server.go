// Package web serves the StockGraph HTTP and WebSocket API.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"stockgraph/internal/ai"
	"stockgraph/internal/config"
	"stockgraph/internal/predictor"
	"stockgraph/internal/provider"
)

// Server represents the API server
type Server struct {
	config   *config.Config
	provider provider.Provider
	advisor  *ai.Advisor
	single   predictor.Predictor
	ranking  predictor.Predictor
	srv      *http.Server
}

// NewServer creates a new API server. The single and ranking predictors may
// draw from different bands.
func NewServer(cfg *config.Config, p provider.Provider, advisor *ai.Advisor, single, ranking predictor.Predictor) *Server {
	return &Server{
		config:   cfg,
		provider: p,
		advisor:  advisor,
		single:   single,
		ranking:  ranking,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/stocks/all", s.handleStocksAll)
	mux.HandleFunc("/api/stocks/live", s.handleStocksLive)
	mux.HandleFunc("/api/stocks/history", s.handleHistory)
	mux.HandleFunc("/api/predict", s.handlePredict)
	mux.HandleFunc("/api/predictions/top-movers", s.handleTopMovers)
	mux.HandleFunc("/api/market-insight", s.handleMarketInsight)
	mux.HandleFunc("/api/portfolio/analyze", s.handlePortfolioAnalyze)
	mux.HandleFunc("/ws/predictions", s.handlePredictionsWS)

	return corsMiddleware(recoverMiddleware(mux))
}

// Start starts the server on the configured port
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("[WEB] StockGraph API listening on http://localhost:%d", s.config.Server.Port)

	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware allows the frontend to call from any origin
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware turns an unexpected panic into a generic server error
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[WEB] Panic serving %s: %v", r.URL.Path, rec)
				http.Error(w, fmt.Sprintf("internal error: %v", rec), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

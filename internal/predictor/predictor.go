// Package predictor produces predicted-price signals for quotes.
package predictor

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"stockgraph/pkg/model"
)

// Predictor produces a predicted price for a current price
type Predictor interface {
	// Name returns the predictor name
	Name() string

	// Predict returns predicted price, percent change and confidence
	Predict(currentPrice float64) model.Prediction
}

// Band bounds the random draw of a naive prediction
type Band struct {
	MinChangePct  float64
	MaxChangePct  float64
	MinConfidence float64
	MaxConfidence float64
}

// SingleBand is the band used for single-stock predictions (slight upward skew)
var SingleBand = Band{MinChangePct: -3.0, MaxChangePct: 5.0, MinConfidence: 0.75, MaxConfidence: 0.92}

// RankingBand is the wider band used for top-mover rankings
var RankingBand = Band{MinChangePct: -4.0, MaxChangePct: 6.0, MinConfidence: 0.70, MaxConfidence: 0.95}

// Naive perturbs the current price by a bounded uniform draw. It stands in
// for a trained model and carries no state.
type Naive struct {
	band Band
	rng  *rand.Rand
}

// NewNaive creates a naive predictor over the given band.
// A nil source uses the shared global generator.
func NewNaive(band Band, src rand.Source) *Naive {
	n := &Naive{band: band}
	if src != nil {
		n.rng = rand.New(src)
	}
	return n
}

// Name returns the predictor name
func (n *Naive) Name() string {
	return "naive"
}

func (n *Naive) uniform(lo, hi float64) float64 {
	if n.rng != nil {
		return lo + n.rng.Float64()*(hi-lo)
	}
	return lo + rand.Float64()*(hi-lo)
}

// Predict draws a change percent and confidence from the band
func (n *Naive) Predict(currentPrice float64) model.Prediction {
	changePct := n.uniform(n.band.MinChangePct, n.band.MaxChangePct)
	predicted := currentPrice * (1 + changePct/100)

	return model.Prediction{
		PredictedPrice: math.Round(predicted*100) / 100,
		ChangePercent:  math.Round(changePct*100) / 100,
		Confidence:     n.uniform(n.band.MinConfidence, n.band.MaxConfidence),
	}
}

// GNN is the learned-model variant. Inference needs a trained weights file;
// construction fails when it is absent so the serving path can fall back to
// the naive predictor explicitly.
type GNN struct {
	modelPath string
}

// NewGNN creates a graph-model predictor from a weights file
func NewGNN(modelPath string) (*GNN, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("no model path configured")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model weights not available: %w", err)
	}
	return &GNN{modelPath: modelPath}, nil
}

// Name returns the predictor name
func (g *GNN) Name() string {
	return "gnn"
}

// Predict is not implemented; the trained model has never shipped.
// TODO(ml): run inference once a trained checkpoint lands in models/.
func (g *GNN) Predict(currentPrice float64) model.Prediction {
	return model.Prediction{PredictedPrice: currentPrice, ChangePercent: 0, Confidence: 0.5}
}

// New builds the predictor selected by config mode ("naive" or "gnn"),
// falling back to naive when the learned model cannot be constructed.
func New(mode, modelPath string, band Band) Predictor {
	if mode == "gnn" {
		g, err := NewGNN(modelPath)
		if err == nil {
			return g
		}
		log.Printf("[PREDICT] GNN predictor unavailable (%v); using naive", err)
	}
	return NewNaive(band, nil)
}

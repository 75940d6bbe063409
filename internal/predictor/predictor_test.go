package predictor

import (
	"math"
	"math/rand"
	"testing"
)

func TestNaivePredictBounds(t *testing.T) {
	n := NewNaive(SingleBand, rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		p := n.Predict(1000)

		if p.ChangePercent < SingleBand.MinChangePct || p.ChangePercent > SingleBand.MaxChangePct {
			t.Fatalf("ChangePercent %v outside band [%v, %v]",
				p.ChangePercent, SingleBand.MinChangePct, SingleBand.MaxChangePct)
		}
		if p.Confidence < SingleBand.MinConfidence || p.Confidence > SingleBand.MaxConfidence {
			t.Fatalf("Confidence %v outside band [%v, %v]",
				p.Confidence, SingleBand.MinConfidence, SingleBand.MaxConfidence)
		}

		// predicted price must match the drawn percentage within rounding
		want := 1000 * (1 + p.ChangePercent/100)
		if math.Abs(p.PredictedPrice-want) > 0.15 {
			t.Fatalf("PredictedPrice %v inconsistent with change %v%%", p.PredictedPrice, p.ChangePercent)
		}
	}
}

func TestNaivePredictRounding(t *testing.T) {
	n := NewNaive(SingleBand, rand.NewSource(1))
	p := n.Predict(2456.78)

	if p.PredictedPrice != math.Round(p.PredictedPrice*100)/100 {
		t.Errorf("PredictedPrice not rounded to 2 decimals: %v", p.PredictedPrice)
	}
	if p.ChangePercent != math.Round(p.ChangePercent*100)/100 {
		t.Errorf("ChangePercent not rounded to 2 decimals: %v", p.ChangePercent)
	}
}

func TestNewGNNWithoutWeights(t *testing.T) {
	if _, err := NewGNN(""); err == nil {
		t.Error("Expected error for empty model path")
	}
	if _, err := NewGNN("/nonexistent/best_model.pth"); err == nil {
		t.Error("Expected error for missing weights file")
	}
}

func TestNewFallsBackToNaive(t *testing.T) {
	p := New("gnn", "/nonexistent/best_model.pth", SingleBand)
	if p.Name() != "naive" {
		t.Errorf("Expected naive fallback when GNN weights are missing, got %s", p.Name())
	}

	p = New("naive", "", RankingBand)
	if p.Name() != "naive" {
		t.Errorf("Expected naive predictor, got %s", p.Name())
	}
}

package web

import (
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stockgraph/pkg/model"
)

// pushInterval is how often a price update is pushed to each connection
const pushInterval = 5 * time.Second

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// predictionUpdate is the pushed websocket message
type predictionUpdate struct {
	Type string              `json:"type"`
	Data []model.PriceUpdate `json:"data"`
}

// handlePredictionsWS pushes a synthetic price update every pushInterval
// until the client disconnects. Each connection runs its own loop; there is
// no shared state between connections.
func (s *Server) handlePredictionsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()[:8]
	log.Printf("[WS] Client %s connected", id)
	defer log.Printf("[WS] Client %s disconnected", id)

	// Reader goroutine exists only to detect disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		update := predictionUpdate{
			Type: "prediction_update",
			Data: []model.PriceUpdate{
				{
					Ticker:    "RELIANCE",
					NewPrice:  round2(2400 + rand.Float64()*100),
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				},
			},
		}

		if err := conn.WriteJSON(update); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/krobus00/trading-sim/internal/service/marketdata"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Handler struct {
	feed *marketdata.Service
}

func NewMarketDataHTTPHandler(feed *marketdata.Service) *Handler {
	return &Handler{feed: feed}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/prices/", h.GetCurrentPrice)
	mux.HandleFunc("/v1/stream", h.StreamTicks)
}

func (h *Handler) GetCurrentPrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	symbol := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/v1/prices/"))
	if symbol == "" || strings.Contains(symbol, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid symbol"})
		return
	}

	price, err := h.feed.GetCurrentPrice(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, marketdata.ErrUnknownSymbol) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown symbol"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol": symbol,
		"price":  price.String(),
	})
}

// StreamTicks upgrades the connection and pushes feed ticks until the client
// goes away.
func (h *Handler) StreamTicks(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "symbol query parameter is required"})
		return
	}

	ticks, cancel, err := h.feed.Subscribe(symbol)
	if err != nil {
		if errors.Is(err, marketdata.ErrUnknownSymbol) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown symbol"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close messages are noticed.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-clientGone:
			return
		case <-r.Context().Done():
			return
		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case tick, ok := <-ticks:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(tick); err != nil {
				logrus.Warnf("websocket write failed: %v", err)
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/krobus00/trading-sim/internal/entity"
	"github.com/krobus00/trading-sim/internal/service/order"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
}

type PlaceOrderRequest struct {
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Side     string `json:"side"`
	Source   string `json:"source"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Price   string `json:"price"`
}

type Handler struct {
	orderService OrderService
}

func NewOrderHTTPHandler(orderService OrderService) *Handler {
	return &Handler{orderService: orderService}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/orders", h.PlaceOrder)
	mux.HandleFunc("/v1/orders/", h.GetOrder)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	defer r.Body.Close()

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json body"})
		return
	}

	if strings.TrimSpace(req.Symbol) == "" || strings.TrimSpace(req.Quantity) == "" || strings.TrimSpace(req.Side) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing required fields"})
		return
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid quantity"})
		return
	}

	price := decimal.Zero
	if strings.TrimSpace(req.Price) != "" {
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid price"})
			return
		}
	}

	placed, err := h.orderService.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		Symbol:   req.Symbol,
		Quantity: quantity,
		Price:    price,
		Side:     entity.OrderSide(strings.ToUpper(req.Side)),
		Source:   req.Source,
	})
	if err != nil {
		writePlaceOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PlaceOrderResponse{
		OrderID: placed.ID,
		Status:  string(placed.Status),
		Message: "order placed successfully",
		Price:   placed.Price.String(),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/orders/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid order id"})
		return
	}

	found, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "order not found"})
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func writePlaceOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrInvalidSide),
		errors.Is(err, entity.ErrUnsupportedSymbol):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	case errors.Is(err, order.ErrMarketDataUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

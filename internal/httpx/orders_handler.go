package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gvendas/go-sales-api/internal/redisx"
	"github.com/gvendas/go-sales-api/internal/sales"
)

type OrdersHandler struct {
	Workflow *sales.Workflow
	Redis    *redis.Client
	Log      *zap.Logger
}

type CreateOrderReq struct {
	CustomerID string            `json:"customer_id"`
	Lines      []sales.LineInput `json:"lines"`
}

type UpdateStatusReq struct {
	Status sales.Status `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Put("/orders/{id}/status", h.updateStatus)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	detail, err := h.Workflow.CreateOrder(r.Context(), req.CustomerID, req.Lines)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.Workflow.ListOrders(r.Context())
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	// cache first; the workflow refreshes this key on every mutation
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderDetail, orderID)
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	detail, err := h.Workflow.FetchOrder(r.Context(), orderID)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	detail, err := h.Workflow.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

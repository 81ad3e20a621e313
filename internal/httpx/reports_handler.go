package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gvendas/go-sales-api/internal/sales"
)

type ReportsHandler struct {
	Repo *sales.ReportsRepo
	Log  *zap.Logger
}

func (h *ReportsHandler) Register(r *chi.Mux) {
	r.Get("/reports/monthly-revenue", h.monthlyRevenue)
	r.Get("/reports/top-products", h.topProducts)
	r.Get("/reports/top-customers", h.topCustomers)
}

func (h *ReportsHandler) monthlyRevenue(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
			return
		}
		year = y
	}
	rep, err := h.Repo.MonthlyRevenue(r.Context(), year)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportsHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	out, err := h.Repo.TopProducts(r.Context(), limit)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ReportsHandler) topCustomers(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	out, err := h.Repo.TopCustomers(r.Context(), limit)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return 0, false
		}
		limit = n
	}
	return limit, true
}

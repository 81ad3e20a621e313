package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gvendas/go-sales-api/internal/sales"
)

type CustomersHandler struct {
	Repo *sales.CustomerRepo
	Log  *zap.Logger
}

func (h *CustomersHandler) Register(r *chi.Mux) {
	r.Post("/customers", h.create)
	r.Get("/customers", h.list)
	r.Get("/customers/{id}", h.get)
	r.Put("/customers/{id}", h.update)
	r.Delete("/customers/{id}", h.remove)
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in sales.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	c, err := h.Repo.Create(r.Context(), in)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomersHandler) list(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Repo.List(r.Context())
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch sales.CustomerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	c, err := h.Repo.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(h.Log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(h.Log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"net/http"
	"strconv"

	"pharmacy/m/internal/service"
)

func (h *Handler) totalMedicines(w http.ResponseWriter, r *http.Request) {
	n, err := h.dashboard.TotalMedicines(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}

func (h *Handler) totalSales(w http.ResponseWriter, r *http.Request) {
	n, err := h.dashboard.TotalSales(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	meds, err := h.dashboard.LowStock(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, meds)
}

func (h *Handler) recentSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.dashboard.RecentSales(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handler) expiryReport(w http.ResponseWriter, r *http.Request) {
	days := service.DefaultExpiryWindow
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	report, err := h.dashboard.ExpiryReport(r.Context(), days, h.now())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

package api

import (
	"net/http"
	"time"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "UP",
		"timestamp": h.now().Format(time.RFC3339),
		"service":   "Pharmacy Backend",
	})
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message":   "Pharmacy Management System API",
		"status":    "Running",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

package api

import (
	"bytes"
	"fmt"
	"net/http"

	"pharmacy/m/domain"
	"pharmacy/m/internal/service"
)

type createSaleRequest struct {
	Sale  domain.Sale        `json:"sale"`
	Items []domain.SalesItem `json:"items"`
}

type saleResponse struct {
	domain.Sale
	Warnings []service.ItemWarning `json:"warnings,omitempty"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := h.sales.Create(r.Context(), req.Sale, req.Items)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, saleResponse{Sale: res.Sale, Warnings: res.Warnings})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) saleItems(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.sales.Items(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.sales.Export(r.Context(), &buf); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sales-%s.xlsx"`, h.now().Format("20060102")))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

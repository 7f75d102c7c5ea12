package api

import (
	"errors"
	"net/http"

	"pharmacy/m/internal/service"
	"pharmacy/m/internal/store"
)

// The record handlers serve medicines, customers and suppliers alike.

func addRecord[T any, P interface {
	*T
	store.Entity
}](h *Handler, c *service.Catalog[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec T
		if err := decodeJSON(r, &rec); err != nil {
			respondError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		created, err := c.Add(r.Context(), rec)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, created)
	}
}

func listRecords[T any, P interface {
	*T
	store.Entity
}](h *Handler, c *service.Catalog[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := c.List(r.Context())
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// getRecord answers an unknown id with a JSON null rather than an error.
func getRecord[T any, P interface {
	*T
	store.Entity
}](h *Handler, c *service.Catalog[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		rec, err := c.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusOK, nil)
			return
		}
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, rec)
	}
}

func updateRecord[T any, P interface {
	*T
	store.Entity
}](h *Handler, c *service.Catalog[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var rec T
		if err := decodeJSON(r, &rec); err != nil {
			respondError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		updated, err := c.Update(r.Context(), id, rec)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

func patchRecord[X service.Patch[P], T any, P interface {
	*T
	store.Entity
}](h *Handler, c *service.Catalog[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var patch X
		if err := decodeJSON(r, &patch); err != nil {
			respondError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		patched, err := c.Patch(r.Context(), id, patch)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, patched)
	}
}

func deleteRecord[T any, P interface {
	*T
	store.Entity
}](h *Handler, c *service.Catalog[T, P], noun string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := c.Delete(r.Context(), id); err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, noun+" deleted successfully")
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/fitchef/fitchef/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListRecipes handles GET /api/v1/recipes
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	acct, err := h.currentAccount(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.history.ListByUser(r.Context(), acct.ID, limit)
	if err != nil {
		h.writeError(w, r, errors.NewInternal("Erro ao carregar histórico.", err))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": entries})
}

// GetRecipe handles GET /api/v1/recipes/{id}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	acct, err := h.currentAccount(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, errors.NewNotFound("Receita não encontrada."))
		return
	}

	entry, err := h.history.FindByID(r.Context(), id, acct.ID)
	if err != nil {
		h.writeError(w, r, errors.NewNotFound("Receita não encontrada."))
		return
	}

	h.writeJSON(w, http.StatusOK, entry)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fitchef/fitchef/internal/application/generation"
	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/fitchef/fitchef/internal/infrastructure/http/middleware"
	"github.com/fitchef/fitchef/pkg/errors"
	"github.com/google/uuid"
)

// generateRequest is the body of POST /api/v1/generate.
type generateRequest struct {
	Ingredients string `json:"ingredients"`
	Goal        string `json:"goal"`
	Time        string `json:"time"`
	Mode        string `json:"mode"`
}

// Generate handles POST /api/v1/generate
func (h *APIHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	acct, err := h.currentAccount(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.NewBadRequest("Dados inválidos. Verifique o formato da requisição."))
		return
	}

	if req.Mode == "" {
		req.Mode = string(recipe.ModeSingle)
	}
	mode := recipe.Mode(req.Mode)

	if strings.TrimSpace(req.Ingredients) == "" {
		h.writeError(w, r, errors.NewBadRequest("Ingredientes são obrigatórios."))
		return
	}
	if req.Goal == "" {
		h.writeError(w, r, errors.NewBadRequest("Objetivo é obrigatório."))
		return
	}
	if !recipe.ValidMode(mode) {
		h.writeError(w, r, errors.NewBadRequest("Modo inválido. Use 'single' ou 'daily'."))
		return
	}
	if !recipe.ValidGoal(req.Goal) {
		h.writeError(w, r, errors.NewBadRequest("Objetivo inválido."))
		return
	}
	// Pre-catalog accounts may still send bare "30 min" labels; those pass
	// through the free-window check.
	if mode == recipe.ModeSingle && !recipe.ValidTime(req.Time) && !recipe.FreeTime(req.Time) {
		h.writeError(w, r, errors.NewBadRequest("Tempo de preparo inválido."))
		return
	}

	gen, err := h.generation.Generate(r.Context(), acct, generation.Request{
		Ingredients: req.Ingredients,
		Goal:        req.Goal,
		Time:        req.Time,
		Mode:        mode,
	})
	if err != nil {
		outcome := "error"
		if errors.FromError(err).IsDenial() {
			outcome = "denied"
		}
		middleware.CountGeneration(string(mode), outcome)
		h.writeError(w, r, err)
		return
	}

	middleware.CountGeneration(string(mode), "success")
	h.writeJSON(w, http.StatusOK, gen.Payload())
}

// currentAccount loads the authenticated account from the request context.
func (h *APIHandlers) currentAccount(r *http.Request) (*account.Account, error) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, errors.NewUnauthorized("Usuário não autenticado.")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.NewUnauthorized("Usuário não autenticado.")
	}
	acct, err := h.accounts.FindByID(r.Context(), id)
	if err != nil {
		return nil, errors.NewUnauthorized("Usuário não autenticado.")
	}
	return acct, nil
}

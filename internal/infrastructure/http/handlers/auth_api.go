package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/infrastructure/http/middleware"
	persistence "github.com/fitchef/fitchef/internal/infrastructure/persistence/gorm"
	"github.com/fitchef/fitchef/pkg/errors"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type userPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Plan      string `json:"plan"`
	PlanLabel string `json:"plan_label"`
}

// Register handles POST /api/v1/auth/register
func (h *APIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.NewBadRequest("Dados inválidos. Verifique o formato da requisição."))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validate.Var(req.Email, "required,email"); err != nil {
		h.writeError(w, r, errors.NewBadRequest("Email inválido."))
		return
	}
	if err := h.validate.Var(req.Password, "required,min=6"); err != nil {
		h.writeError(w, r, errors.NewBadRequest("A senha deve ter no mínimo 6 caracteres."))
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		h.writeError(w, r, errors.NewInternal("Erro ao criar conta.", err))
		return
	}

	acct := &account.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		PlanTier:     string(account.TierFree),
	}
	if err := h.accounts.Create(r.Context(), acct); err != nil {
		if stderrors.Is(err, persistence.ErrEmailTaken) {
			h.writeError(w, r, errors.New(errors.CodeConflict, "Email já cadastrado."))
			return
		}
		h.writeError(w, r, errors.NewInternal("Erro ao criar conta.", err))
		return
	}

	token, err := h.authService.IssueToken(acct.ID, acct.Email)
	if err != nil {
		h.writeError(w, r, errors.NewInternal("Erro ao criar sessão.", err))
		return
	}

	h.writeJSON(w, http.StatusCreated, authResponse{
		Token: token,
		User:  h.userPayload(acct),
	})
}

// Login handles POST /api/v1/auth/login
func (h *APIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.NewBadRequest("Dados inválidos. Verifique o formato da requisição."))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Lookup and password failures share one message so the endpoint does
	// not confirm which emails are registered.
	acct, err := h.accounts.FindByEmail(r.Context(), email)
	if err != nil {
		h.writeError(w, r, errors.NewUnauthorized("Credenciais inválidas."))
		return
	}
	if err := h.authService.VerifyPassword(acct.PasswordHash, req.Password); err != nil {
		h.writeError(w, r, errors.NewUnauthorized("Credenciais inválidas."))
		return
	}

	token, err := h.authService.IssueToken(acct.ID, acct.Email)
	if err != nil {
		h.writeError(w, r, errors.NewInternal("Erro ao criar sessão.", err))
		return
	}

	h.writeJSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  h.userPayload(acct),
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *APIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errors.NewUnauthorized(""))
		return
	}

	if err := h.authService.RevokeToken(r.Context(), claims); err != nil {
		h.writeError(w, r, errors.NewInternal("Erro ao encerrar sessão.", err))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Profile handles GET /api/v1/auth/profile
func (h *APIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	acct, err := h.currentAccount(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	now := time.Now()
	tier := acct.EffectiveTier(now)

	resp := map[string]interface{}{
		"id":         acct.ID.String(),
		"email":      acct.Email,
		"name":       acct.Name,
		"plan":       string(tier),
		"plan_label": account.DisplayName(acct.PlanTier),
		"is_premium": tier == account.TierPerformance,
	}
	if acct.SubscriptionExpiresAt != nil {
		resp["subscription_expires_at"] = acct.SubscriptionExpiresAt
	}

	if tier == account.TierFree {
		if count, err := h.usage.GetCount(r.Context(), acct.ID, now.Format("2006-01-02")); err == nil {
			resp["usage_today"] = count
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) userPayload(acct *account.Account) userPayload {
	tier := acct.EffectiveTier(time.Now())
	return userPayload{
		ID:        acct.ID.String(),
		Email:     acct.Email,
		Name:      acct.Name,
		Plan:      string(tier),
		PlanLabel: account.DisplayName(acct.PlanTier),
	}
}

package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fitchef/fitchef/internal/application/billing"
	"github.com/fitchef/fitchef/pkg/errors"
)

// PaymentWebhook handles POST /api/v1/webhooks/payment. The caller is the
// payment provider, not a user: authentication is a shared bearer secret and
// there is no session context.
func (h *APIHandlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	secret := h.cfg.Billing.WebhookSecret
	if secret == "" {
		// An unconfigured secret is a deployment fault, not an auth failure.
		h.writeError(w, r, errors.NewConfig("payment webhook is not configured"))
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		h.writeError(w, r, errors.NewUnauthorized("Unauthorized"))
		return
	}

	var payload billing.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, errors.NewBadRequest("invalid webhook payload"))
		return
	}

	result, err := h.billing.ProcessPayment(r.Context(), &payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if !result.Activated {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Ignored: Payment not approved",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"plan":       result.PlanName,
		"expires_at": result.ExpiresAt,
	})
}

// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fitchef/fitchef/internal/application/billing"
	"github.com/fitchef/fitchef/internal/application/generation"
	"github.com/fitchef/fitchef/internal/infrastructure/config"
	"github.com/fitchef/fitchef/internal/infrastructure/security"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/fitchef/fitchef/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	accounts    outbound.AccountRepository
	usage       outbound.UsageRepository
	history     outbound.HistoryRepository
	authService *security.AuthService
	generation  *generation.Service
	billing     *billing.Service
	cfg         *config.Config
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	accounts outbound.AccountRepository,
	usage outbound.UsageRepository,
	history outbound.HistoryRepository,
	authService *security.AuthService,
	generationService *generation.Service,
	billingService *billing.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		accounts:    accounts,
		usage:       usage,
		history:     history,
		authService: authService,
		generation:  generationService,
		billing:     billingService,
		cfg:         cfg,
		validate:    validator.New(),
		logger:      logger,
	}
}

// HealthCheck handles GET /health
func (h *APIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"version":   h.cfg.App.Version,
	})
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps an error to the wire format. The body is {"error": msg}
// plus a "code" field for entitlement denials so the UI can distinguish the
// limit banner from the upsell prompt.
func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.FromError(err)

	body := map[string]interface{}{"error": appErr.Message}
	if appErr.IsDenial() {
		body["code"] = appErr.Code
	}

	status := appErr.StatusCode()
	switch {
	case appErr.IsDenial():
		// Denials are business outcomes, not faults.
		h.logger.Info("request denied",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
		)
	case status >= http.StatusInternalServerError:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr),
		)
	default:
		h.logger.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
		)
	}

	h.writeJSON(w, status, body)
}

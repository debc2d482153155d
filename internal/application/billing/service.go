// Package billing processes payment-provider webhooks and applies the
// resulting subscription grants.
package billing

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/fitchef/fitchef/internal/infrastructure/config"
	persistence "github.com/fitchef/fitchef/internal/infrastructure/persistence/gorm"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/fitchef/fitchef/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// WebhookPayload mirrors the payment provider's notification body. Only the
// fields the grant decision needs are decoded; everything else is ignored.
type WebhookPayload struct {
	Payment struct {
		Status string `json:"status"`
	} `json:"payment"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	Products []struct {
		ID string `json:"id"`
	} `json:"products"`
}

// Result reports what a webhook notification did. Non-approved statuses are
// acknowledged without any mutation, so Activated distinguishes a real grant
// from a no-op.
type Result struct {
	Activated bool
	PlanName  string
	ExpiresAt time.Time
}

// Service applies payment notifications to accounts. Account lookup goes
// through the privileged directory because the webhook carries no user
// session; the subscription write is the only mutation this service performs.
type Service struct {
	directory outbound.AccountDirectory
	accounts  outbound.AccountRepository
	cfg       *config.Config
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a billing service
func NewService(
	directory outbound.AccountDirectory,
	accounts outbound.AccountRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		directory: directory,
		accounts:  accounts,
		cfg:       cfg,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessPayment handles one provider notification. Approved payments for a
// known product activate or renew the subscription; a renewal resets the
// expiry from now rather than extending the previous one. Unknown products
// are rejected outright so a catalog gap can never grant a silent default.
func (s *Service) ProcessPayment(ctx context.Context, payload *WebhookPayload) (*Result, error) {
	// Exact match only. The provider sends lowercase statuses; anything else
	// is treated as not approved rather than guessed at.
	if payload.Payment.Status != "approved" {
		s.logger.Info("ignoring non-approved payment notification",
			zap.String("status", payload.Payment.Status),
		)
		return &Result{Activated: false}, nil
	}

	email := strings.TrimSpace(payload.Customer.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, errors.NewBadRequest("invalid customer email")
	}

	if len(payload.Products) == 0 {
		return nil, errors.NewBadRequest("payment has no products")
	}
	productID := payload.Products[0].ID

	plan, ok := s.cfg.LookupPlan(productID)
	if !ok {
		s.logger.Warn("payment for unknown product rejected",
			zap.String("product_id", productID),
		)
		return nil, errors.NewBadRequest("unknown product")
	}

	acct, err := s.directory.LookupByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, persistence.ErrAccountNotFound) {
			return nil, errors.NewNotFound("no account for customer email")
		}
		return nil, errors.NewInternal("account lookup failed", err)
	}

	expiresAt := s.now().AddDate(0, 0, plan.DurationDays)
	if err := s.accounts.UpdateSubscription(ctx, acct.ID, "performance", expiresAt, true); err != nil {
		return nil, errors.NewInternal("failed to update subscription", err)
	}

	s.logger.Info("subscription activated",
		zap.String("user_id", acct.ID.String()),
		zap.String("plan", plan.Name),
		zap.Time("expires_at", expiresAt),
	)

	return &Result{
		Activated: true,
		PlanName:  plan.Name,
		ExpiresAt: expiresAt,
	}, nil
}

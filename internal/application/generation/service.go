package generation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/fitchef/fitchef/pkg/errors"
	"go.uber.org/zap"
)

// Request carries the validated inputs of one generation call.
type Request struct {
	Ingredients string
	Goal        string
	Time        string
	Mode        recipe.Mode
}

// Service orchestrates one generation: entitlement gate, AI call, image URL
// stamping, then the best-effort side effects (usage count, history).
type Service struct {
	usage     outbound.UsageRepository
	history   outbound.HistoryRepository
	generator outbound.RecipeGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a generation service
func NewService(
	usage outbound.UsageRepository,
	history outbound.HistoryRepository,
	generator outbound.RecipeGenerator,
	logger *zap.Logger,
) *Service {
	return &Service{
		usage:     usage,
		history:   history,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// UsageDay formats the server-local calendar day used as the rate-limit
// window. No per-user timezone adjustment is performed.
func UsageDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// Generate runs the full workflow for an authenticated account. Entitlement
// denials come back as AppErrors with LIMIT_REACHED or PREMIUM_REQUIRED;
// they are business outcomes, not faults.
func (s *Service) Generate(ctx context.Context, acct *account.Account, req Request) (*recipe.Generation, error) {
	now := s.now()
	tier := acct.EffectiveTier(now)
	day := UsageDay(now)

	count := 0
	if tier == account.TierFree {
		c, err := s.usage.GetCount(ctx, acct.ID, day)
		if err != nil {
			// Reading the counter is best-effort: a storage hiccup must not
			// block generation, but it leaves a quota-tracking gap.
			s.logger.Warn("failed to read daily usage, assuming zero",
				zap.String("user_id", acct.ID.String()),
				zap.String("date", day),
				zap.Error(err),
			)
		} else {
			count = c
		}
	}

	decision := Evaluate(tier, count, req.Mode, req.Goal, req.Time)
	if !decision.Allowed {
		return nil, errors.New(decision.Code, decision.Reason)
	}

	gen, err := s.generator.Generate(ctx, outbound.GenerationRequest{
		Ingredients:         req.Ingredients,
		Goal:                req.Goal,
		Time:                req.Time,
		Mode:                req.Mode,
		IncludeShoppingList: req.Mode == recipe.ModeDaily && tier == account.TierPerformance,
	})
	if err != nil {
		// A failed generation consumes no quota; surface the error once.
		return nil, err
	}

	gen.SetImageURL(recipe.ImageURL(gen.ImagePrompt(), gen.Title()))

	// Quota is charged only after a successful generation, and only for the
	// free tier. Paid accounts are unlimited and never counted.
	if tier == account.TierFree {
		if err := s.usage.Increment(ctx, acct.ID, day); err != nil {
			s.logger.Error("failed to increment daily usage",
				zap.String("user_id", acct.ID.String()),
				zap.String("date", day),
				zap.Error(err),
			)
		}
	}

	s.saveHistory(ctx, acct, gen)

	return gen, nil
}

// saveHistory persists the exact payload returned to the caller. Failures
// are logged and swallowed: history is a side channel, not part of the
// response contract.
func (s *Service) saveHistory(ctx context.Context, acct *account.Account, gen *recipe.Generation) {
	data, err := json.Marshal(gen.Payload())
	if err != nil {
		s.logger.Error("failed to encode generation for history", zap.Error(err))
		return
	}

	entry := &recipe.Saved{
		UserID: acct.ID,
		Title:  gen.Title(),
		Data:   data,
	}
	if err := s.history.Save(ctx, entry); err != nil {
		s.logger.Error("failed to save generation to history",
			zap.String("user_id", acct.ID.String()),
			zap.Error(err),
		)
	}
}

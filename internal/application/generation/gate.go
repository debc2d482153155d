// Package generation implements the plan-entitlement gate and the recipe
// generation workflow that runs behind it.
package generation

import (
	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/fitchef/fitchef/pkg/errors"
)

// FreeDailyLimit is the number of generations a free account gets per
// server-local calendar day.
const FreeDailyLimit = 3

// Decision is the outcome of evaluating the access gate.
type Decision struct {
	Allowed bool
	Code    errors.ErrorCode
	Reason  string
}

// Evaluate decides whether a generation request may proceed. The checks run
// in a fixed order: daily limit first, then mode entitlement, then the free
// goal/time restrictions. Paid tiers pass unconditionally.
func Evaluate(tier account.Tier, count int, mode recipe.Mode, goal, timeLabel string) Decision {
	if tier != account.TierFree {
		return Decision{Allowed: true}
	}

	if count >= FreeDailyLimit {
		return Decision{
			Code:   errors.CodeLimitReached,
			Reason: "Limite diário atingido",
		}
	}

	if mode == recipe.ModeDaily {
		return Decision{
			Code:   errors.CodePremiumRequired,
			Reason: "Cardápio do Dia é exclusivo para o plano Performance",
		}
	}

	if !recipe.FreeGoal(goal) {
		return Decision{
			Code:   errors.CodePremiumRequired,
			Reason: "Objetivo exclusivo para assinantes",
		}
	}

	if !recipe.FreeTime(timeLabel) {
		return Decision{
			Code:   errors.CodePremiumRequired,
			Reason: "Tempo de preparo exclusivo para assinantes",
		}
	}

	return Decision{Allowed: true}
}

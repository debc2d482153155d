// Package account contains the account entity and plan entitlement rules
package account

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the effective entitlement level of an account.
// Legacy paid labels (essential, master) collapse into TierPerformance;
// only the two values below are ever used for gating.
type Tier string

const (
	TierFree        Tier = "free"
	TierPerformance Tier = "performance"
)

// Account represents a registered user together with their subscription state.
// PlanTier is the raw stored label and must never be used for gating directly;
// use EffectiveTier instead.
type Account struct {
	ID                    uuid.UUID
	Email                 string
	Name                  string
	PasswordHash          string
	PlanTier              string
	IsPremium             bool
	SubscriptionExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// planDisplayNames maps raw stored tier labels to user-facing names.
// Unknown labels fall back to the label itself so that new tiers can be
// introduced without a code change here.
var planDisplayNames = map[string]string{
	"free":        "Gratuito",
	"essential":   "Essential",
	"performance": "Performance",
	"master":      "Master",
}

// DisplayName returns the user-facing name for a raw plan tier label.
// Display names are preserved for the UI even though all paid labels share
// the same entitlements.
func DisplayName(planTier string) string {
	if planTier == "" {
		planTier = string(TierFree)
	}
	if name, ok := planDisplayNames[planTier]; ok {
		return name
	}
	return planTier
}

// EffectiveTier resolves the entitlement level granted right now from the raw
// subscription fields. The resolution order matters:
//
//  1. missing tier defaults to free
//  2. a non-free tier with an expiry strictly in the past downgrades to free
//  3. the legacy is_premium flag grandfathers free accounts to performance
//     (it carries no expiry, so it never lapses)
//  4. every remaining non-free label collapses to performance
//
// The function is pure: given the same inputs and the same now it always
// returns the same tier.
func EffectiveTier(planTier string, isPremium bool, expiresAt *time.Time, now time.Time) Tier {
	effective := planTier
	if effective == "" {
		effective = string(TierFree)
	}

	if effective != string(TierFree) && expiresAt != nil && expiresAt.Before(now) {
		effective = string(TierFree)
	}

	if effective == string(TierFree) && isPremium {
		return TierPerformance
	}

	if effective == string(TierFree) {
		return TierFree
	}
	return TierPerformance
}

// EffectiveTier resolves the account's entitlement level at the given time.
func (a *Account) EffectiveTier(now time.Time) Tier {
	return EffectiveTier(a.PlanTier, a.IsPremium, a.SubscriptionExpiresAt, now)
}

// Package outbound defines the driven-side ports implemented by the
// infrastructure layer.
package outbound

import (
	"context"
	"time"

	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/google/uuid"
)

// AccountRepository persists account records for the ordinary per-request
// path. Subscription fields are read here but only written through
// UpdateSubscription, which the billing service alone invokes.
type AccountRepository interface {
	Create(ctx context.Context, acct *account.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	FindByEmail(ctx context.Context, email string) (*account.Account, error)

	// UpdateSubscription overwrites the subscription fields in one write.
	// Renewals reset the expiry from now rather than extending it.
	UpdateSubscription(ctx context.Context, id uuid.UUID, planTier string, expiresAt time.Time, isPremium bool) error
}

// AccountDirectory is the privileged, session-less account lookup used by the
// payment webhook. It is constructed with an elevated store credential and
// matches email case-insensitively.
type AccountDirectory interface {
	LookupByEmail(ctx context.Context, email string) (*account.Account, error)
}

// UsageRepository tracks per-user, per-day generation counts for free-tier
// rate limiting. Day is the server-local calendar date in YYYY-MM-DD form.
type UsageRepository interface {
	// GetCount returns the stored count, or 0 when no record exists.
	GetCount(ctx context.Context, userID uuid.UUID, day string) (int, error)

	// Increment atomically creates the record at count=1 or adds 1 to the
	// existing count. Implementations must use a single upsert-with-increment
	// keyed on (user_id, date); a read-then-write would lose concurrent
	// updates.
	Increment(ctx context.Context, userID uuid.UUID, day string) error
}

// HistoryRepository stores generated recipes for later retrieval.
type HistoryRepository interface {
	Save(ctx context.Context, entry *recipe.Saved) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*recipe.Saved, error)
	FindByID(ctx context.Context, id, userID uuid.UUID) (*recipe.Saved, error)
}

// Package gorm provides GORM model definitions and repository
// implementations for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountModel represents the GORM model for accounts. The subscription
// fields (plan_tier, is_premium, subscription_expires_at) are written only by
// the billing entitlement writer; every read path resolves them through the
// entitlement resolver instead of trusting plan_tier directly.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`

	// plan_tier is free text at rest, not a closed enum; legacy rows carry
	// labels like essential or master.
	PlanTier              string `gorm:"type:varchar(50);default:'free'"`
	IsPremium             bool   `gorm:"default:false"`
	SubscriptionExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailyUsageModel represents the GORM model for free-tier usage counters,
// uniquely keyed by (user_id, date). Date is the server-local calendar day in
// YYYY-MM-DD form.
type DailyUsageModel struct {
	UserID uuid.UUID `gorm:"type:char(36);primaryKey"`
	Date   string    `gorm:"type:varchar(10);primaryKey"`
	Count  int       `gorm:"not null;default:0"`
}

// SavedRecipeModel represents the GORM model for generation history. The
// response payload is stored verbatim so a reload reproduces the exact
// imageUrl and title returned at generation time.
type SavedRecipeModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;index"`
	Title      string    `gorm:"type:varchar(255);not null"`
	RecipeData string    `gorm:"type:json;not null"`
	CreatedAt  time.Time `gorm:"index"`
}

// BeforeCreate hook for AccountModel
func (a *AccountModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for SavedRecipeModel
func (s *SavedRecipeModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (AccountModel) TableName() string {
	return "accounts"
}

func (DailyUsageModel) TableName() string {
	return "daily_usage"
}

func (SavedRecipeModel) TableName() string {
	return "saved_recipes"
}

package gorm

import (
	"context"
	"errors"

	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageRepository implements the usage counter interface using GORM
type UsageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *gorm.DB) outbound.UsageRepository {
	return &UsageRepository{db: db}
}

// GetCount returns the stored count for (userID, day), or 0 when absent.
func (r *UsageRepository) GetCount(ctx context.Context, userID uuid.UUID, day string) (int, error) {
	var model DailyUsageModel

	result := r.db.WithContext(ctx).
		First(&model, "user_id = ? AND date = ?", userID, day)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}

	return model.Count, nil
}

// Increment atomically creates the counter at 1 or adds 1 to the stored
// value. The increment runs inside the upsert itself, so two racing requests
// for the same (user_id, date) both land: the second conflicts and adds to
// the row the first one wrote.
func (r *UsageRepository) Increment(ctx context.Context, userID uuid.UUID, day string) error {
	model := DailyUsageModel{UserID: userID, Date: day, Count: 1}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("daily_usage.count + 1"),
		}),
	}).Create(&model).Error
}

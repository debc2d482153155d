package gorm

import (
	"context"
	"errors"

	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrRecipeNotFound is returned when no history entry matches the lookup.
var ErrRecipeNotFound = errors.New("recipe not found")

// HistoryRepository implements the generation history interface using GORM
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) outbound.HistoryRepository {
	return &HistoryRepository{db: db}
}

// Save stores a generation result verbatim.
func (r *HistoryRepository) Save(ctx context.Context, entry *recipe.Saved) error {
	model := SavedToModel(entry)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	entry.ID = model.ID
	entry.CreatedAt = model.CreatedAt
	return nil
}

// ListByUser returns the user's saved generations, newest first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*recipe.Saved, error) {
	if limit <= 0 {
		limit = 50
	}

	var models []SavedRecipeModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*recipe.Saved, len(models))
	for i := range models {
		entries[i] = ModelToSaved(&models[i])
	}
	return entries, nil
}

// FindByID returns one saved generation scoped to its owner.
func (r *HistoryRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*recipe.Saved, error) {
	var model SavedRecipeModel

	result := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToSaved(&model), nil
}

package gorm

import (
	"encoding/json"

	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/domain/recipe"
)

// AccountToModel converts a domain account to its GORM model
func AccountToModel(acct *account.Account) *AccountModel {
	return &AccountModel{
		ID:                    acct.ID,
		Email:                 acct.Email,
		Name:                  acct.Name,
		PasswordHash:          acct.PasswordHash,
		PlanTier:              acct.PlanTier,
		IsPremium:             acct.IsPremium,
		SubscriptionExpiresAt: acct.SubscriptionExpiresAt,
		CreatedAt:             acct.CreatedAt,
		UpdatedAt:             acct.UpdatedAt,
	}
}

// ModelToAccount converts a GORM model to a domain account
func ModelToAccount(model *AccountModel) *account.Account {
	return &account.Account{
		ID:                    model.ID,
		Email:                 model.Email,
		Name:                  model.Name,
		PasswordHash:          model.PasswordHash,
		PlanTier:              model.PlanTier,
		IsPremium:             model.IsPremium,
		SubscriptionExpiresAt: model.SubscriptionExpiresAt,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}
}

// SavedToModel converts a history entry to its GORM model
func SavedToModel(entry *recipe.Saved) *SavedRecipeModel {
	return &SavedRecipeModel{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Title:      entry.Title,
		RecipeData: string(entry.Data),
		CreatedAt:  entry.CreatedAt,
	}
}

// ModelToSaved converts a GORM model to a history entry
func ModelToSaved(model *SavedRecipeModel) *recipe.Saved {
	return &recipe.Saved{
		ID:        model.ID,
		UserID:    model.UserID,
		Title:     model.Title,
		Data:      json.RawMessage(model.RecipeData),
		CreatedAt: model.CreatedAt,
	}
}

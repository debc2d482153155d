// Package testutil provides test data factories shared across test packages
package testutil

import (
	"encoding/json"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/domain/recipe"
	"github.com/google/uuid"
)

// NewAccount builds a free-tier account with realistic fake data.
func NewAccount() *account.Account {
	return &account.Account{
		ID:           uuid.New(),
		Email:        gofakeit.Email(),
		Name:         gofakeit.Name(),
		PasswordHash: "$2a$10$" + gofakeit.LetterN(53),
		PlanTier:     string(account.TierFree),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

// NewPerformanceAccount builds an account with an active paid subscription.
func NewPerformanceAccount(expiresAt time.Time) *account.Account {
	acct := NewAccount()
	acct.PlanTier = string(account.TierPerformance)
	acct.IsPremium = true
	acct.SubscriptionExpiresAt = &expiresAt
	return acct
}

// NewRecipe builds a plausible generated single recipe.
func NewRecipe() *recipe.Recipe {
	title := gofakeit.Dinner()
	return &recipe.Recipe{
		Type:         string(recipe.ModeSingle),
		Title:        title,
		Description:  gofakeit.Sentence(8),
		Time:         "30 min",
		Calories:     "350 kcal",
		Protein:      "32g",
		ImagePrompt:  "photo of " + title,
		Ingredients:  []string{gofakeit.Vegetable(), gofakeit.Fruit(), "200g " + gofakeit.Lunch()},
		Instructions: []string{gofakeit.Sentence(6), gofakeit.Sentence(6)},
		ImageURL:     recipe.ImageURL("photo of "+title, title),
	}
}

// NewSaved builds a history entry wrapping a generated recipe.
func NewSaved(userID uuid.UUID) *recipe.Saved {
	r := NewRecipe()
	data, _ := json.Marshal(r)
	return &recipe.Saved{
		UserID: userID,
		Title:  r.Title,
		Data:   data,
	}
}

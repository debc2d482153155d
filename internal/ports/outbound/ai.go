package outbound

import (
	"context"

	"github.com/fitchef/fitchef/internal/domain/recipe"
)

// GenerationRequest carries the caller's inputs to the AI model.
// IncludeShoppingList is decided by entitlement before the call; the model
// only produces a shopping list when asked.
type GenerationRequest struct {
	Ingredients         string
	Goal                string
	Time                string
	Mode                recipe.Mode
	IncludeShoppingList bool
}

// RecipeGenerator produces a recipe or daily menu from a generation request.
// Implementations return errors.CodeAIUnavailable for transport/model
// failures and errors.CodeAIBadResponse when the model output cannot be
// parsed into the required shape. No retries are performed at any layer.
type RecipeGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*recipe.Generation, error)
}

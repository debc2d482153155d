package gorm_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/fitchef/fitchef/internal/domain/recipe"
	persistence "github.com/fitchef/fitchef/internal/infrastructure/persistence/gorm"
	"github.com/fitchef/fitchef/internal/infrastructure/persistence/sqlite"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/fitchef/fitchef/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func newHistoryRepo(t *testing.T) outbound.HistoryRepository {
	t.Helper()
	db, err := sqlite.SetupDatabase(filepath.Join(t.TempDir(), "history.db"), gormLogger.Silent)
	require.NoError(t, err)
	return persistence.NewHistoryRepository(db)
}

func TestHistorySaveAndReloadRoundTrip(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	entry := testutil.NewSaved(userID)
	require.NoError(t, repo.Save(ctx, entry))
	require.NotEqual(t, uuid.Nil, entry.ID)

	reloaded, err := repo.FindByID(ctx, entry.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, entry.Title, reloaded.Title)

	// The stored payload must come back byte-for-byte: same imageUrl, same
	// title, no re-derivation on reload.
	var original, restored recipe.Recipe
	require.NoError(t, json.Unmarshal(entry.Data, &original))
	require.NoError(t, json.Unmarshal(reloaded.Data, &restored))
	assert.Equal(t, original.ImageURL, restored.ImageURL)
	assert.Equal(t, original.Title, restored.Title)
}

func TestHistoryListNewestFirst(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, testutil.NewSaved(userID)))
	}
	require.NoError(t, repo.Save(ctx, testutil.NewSaved(uuid.New())))

	entries, err := repo.ListByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt))
	}
}

func TestHistoryFindScopedToOwner(t *testing.T) {
	repo := newHistoryRepo(t)
	ctx := context.Background()
	owner := uuid.New()

	entry := testutil.NewSaved(owner)
	require.NoError(t, repo.Save(ctx, entry))

	_, err := repo.FindByID(ctx, entry.ID, uuid.New())
	assert.ErrorIs(t, err, persistence.ErrRecipeNotFound)
}

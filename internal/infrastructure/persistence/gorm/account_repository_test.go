package gorm_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fitchef/fitchef/internal/domain/account"
	persistence "github.com/fitchef/fitchef/internal/infrastructure/persistence/gorm"
	"github.com/fitchef/fitchef/internal/infrastructure/persistence/sqlite"
	"github.com/fitchef/fitchef/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newAccountTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.SetupDatabase(filepath.Join(t.TempDir(), "accounts.db"), gormLogger.Silent)
	require.NoError(t, err)
	return db
}

func TestAccountCreateAndFind(t *testing.T) {
	db := newAccountTestDB(t)
	repo := persistence.NewAccountRepository(db)
	ctx := context.Background()

	acct := testutil.NewAccount()
	require.NoError(t, repo.Create(ctx, acct))

	found, err := repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(acct.Email), found.Email)
	assert.Equal(t, string(account.TierFree), found.PlanTier)

	found, err = repo.FindByEmail(ctx, acct.Email)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, found.ID)
}

func TestAccountCreateDuplicateEmail(t *testing.T) {
	db := newAccountTestDB(t)
	repo := persistence.NewAccountRepository(db)
	ctx := context.Background()

	acct := testutil.NewAccount()
	require.NoError(t, repo.Create(ctx, acct))

	dup := testutil.NewAccount()
	dup.Email = acct.Email
	assert.ErrorIs(t, repo.Create(ctx, dup), persistence.ErrEmailTaken)
}

func TestAccountFindMissing(t *testing.T) {
	db := newAccountTestDB(t)
	repo := persistence.NewAccountRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, persistence.ErrAccountNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, persistence.ErrAccountNotFound)
}

func TestUpdateSubscriptionOverwritesFields(t *testing.T) {
	db := newAccountTestDB(t)
	repo := persistence.NewAccountRepository(db)
	ctx := context.Background()

	acct := testutil.NewAccount()
	require.NoError(t, repo.Create(ctx, acct))

	expiry := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	require.NoError(t, repo.UpdateSubscription(ctx, acct.ID, string(account.TierPerformance), expiry, true))

	found, err := repo.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, string(account.TierPerformance), found.PlanTier)
	assert.True(t, found.IsPremium)
	require.NotNil(t, found.SubscriptionExpiresAt)
	assert.WithinDuration(t, expiry, *found.SubscriptionExpiresAt, time.Second)
}

func TestUpdateSubscriptionMissingAccount(t *testing.T) {
	db := newAccountTestDB(t)
	repo := persistence.NewAccountRepository(db)

	err := repo.UpdateSubscription(context.Background(), uuid.New(), string(account.TierPerformance), time.Now(), true)
	assert.ErrorIs(t, err, persistence.ErrAccountNotFound)
}

func TestDirectoryLookupIsCaseInsensitive(t *testing.T) {
	db := newAccountTestDB(t)
	repo := persistence.NewAccountRepository(db)
	directory := persistence.NewAccountDirectory(db)
	ctx := context.Background()

	acct := testutil.NewAccount()
	acct.Email = "Customer@Example.COM"
	require.NoError(t, repo.Create(ctx, acct))

	found, err := directory.LookupByEmail(ctx, "CUSTOMER@example.com")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, found.ID)

	_, err = directory.LookupByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, persistence.ErrAccountNotFound)
}

package gorm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fitchef/fitchef/internal/domain/account"
	"github.com/fitchef/fitchef/internal/ports/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAccountNotFound is returned when no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// ErrEmailTaken is returned when registering an already-used email.
var ErrEmailTaken = errors.New("account with this email already exists")

// AccountRepository implements the account repository interface using GORM
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) outbound.AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, acct *account.Account) error {
	model := AccountToModel(acct)
	model.Email = strings.ToLower(model.Email)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint failed") ||
			strings.Contains(result.Error.Error(), "duplicate key") {
			return ErrEmailTaken
		}
		return result.Error
	}

	acct.ID = model.ID
	return nil
}

// FindByID finds an account by ID
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var model AccountModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}

	return ModelToAccount(&model), nil
}

// FindByEmail finds an account by email
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	var model AccountModel

	result := r.db.WithContext(ctx).First(&model, "email = ?", strings.ToLower(email))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}

	return ModelToAccount(&model), nil
}

// UpdateSubscription overwrites the subscription fields of an account in a
// single write. This is the only mutation path for plan_tier,
// subscription_expires_at and is_premium.
func (r *AccountRepository) UpdateSubscription(ctx context.Context, id uuid.UUID, planTier string, expiresAt time.Time, isPremium bool) error {
	result := r.db.WithContext(ctx).Model(&AccountModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"plan_tier":               planTier,
			"subscription_expires_at": expiresAt,
			"is_premium":              isPremium,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// AccountDirectory is the privileged email index used by the payment webhook.
// It is constructed with a dedicated connection carrying the elevated store
// credential, separate from the per-request repository connection.
type AccountDirectory struct {
	db *gorm.DB
}

// NewAccountDirectory creates a directory over the elevated connection
func NewAccountDirectory(db *gorm.DB) outbound.AccountDirectory {
	return &AccountDirectory{db: db}
}

// LookupByEmail resolves an account by email, case-insensitively.
func (d *AccountDirectory) LookupByEmail(ctx context.Context, email string) (*account.Account, error) {
	var model AccountModel

	result := d.db.WithContext(ctx).First(&model, "lower(email) = ?", strings.ToLower(email))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, result.Error
	}

	return ModelToAccount(&model), nil
}

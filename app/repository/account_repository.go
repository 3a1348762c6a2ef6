package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account in the database
func (r *accountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entitlements.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByPublicID retrieves an account by its public UUID
func (r *accountRepository) GetByPublicID(publicID string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("public_id = ?", publicID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entitlements.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetBySlug retrieves an account by its site slug
func (r *accountRepository) GetBySlug(slug string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entitlements.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByTokenHash resolves a site token hash to its account
func (r *accountRepository) GetByTokenHash(hash string) (*models.Account, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, entitlements.ErrAccountNotFound
	}
	var account models.Account
	err := r.db.Where("token_hash = ? AND token_hash <> ''", trimmed).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entitlements.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// ApplyUpdate applies a transition change set under the optimistic version
// check. A stale version leaves the row untouched and returns
// entitlements.ErrVersionConflict.
func (r *accountRepository) ApplyUpdate(id uint, version int64, update entitlements.AccountUpdate) error {
	changes := update.Changes()
	changes["version"] = version + 1

	res := r.db.Model(&models.Account{}).
		Where("id = ? AND version = ?", id, version).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entitlements.ErrAccountNotFound
		}
		return entitlements.ErrVersionConflict
	}
	return nil
}

// Update saves the full account row. Prefer ApplyUpdate for lifecycle
// transitions; this is for provisioning-time fields (token, contact data).
func (r *accountRepository) Update(account *models.Account) error {
	return r.db.Save(account).Error
}

// HardDelete removes the account row permanently
func (r *accountRepository) HardDelete(id uint) error {
	return r.db.Unscoped().Delete(&models.Account{}, id).Error
}

// List retrieves a paginated list of accounts
func (r *accountRepository) List(offset, limit int) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&accounts).Error
	return accounts, err
}

// Count returns the total number of accounts
func (r *accountRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Account{}).Count(&count).Error
	return count, err
}

// ListGraceLapsed returns accounts with an upgrade request older than the cutoff
func (r *accountRepository) ListGraceLapsed(cutoff time.Time, limit int) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.
		Where("lifecycle_status = ? AND pending_since IS NOT NULL AND pending_since <= ?",
			models.StatusPendingUpgrade, cutoff).
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

// ListWindowExpired returns accounts past their access window and not yet marked expired
func (r *accountRepository) ListWindowExpired(now time.Time, limit int) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.
		Where("access_window_end < ? AND lifecycle_status <> ?", now, models.StatusExpired).
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

// ListStaleExpired returns accounts marked expired before the given instant
// whose rows still exist, meaning their purge never completed
func (r *accountRepository) ListStaleExpired(before time.Time, limit int) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.
		Where("lifecycle_status = ? AND updated_at < ?", models.StatusExpired, before).
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

// IncrementPageViews adds the flushed counter delta to the account row
func (r *accountRepository) IncrementPageViews(id uint, delta int64) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("page_views", gorm.Expr("page_views + ?", delta)).Error
}

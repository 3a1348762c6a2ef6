package repository

import (
	"gorm.io/gorm"

	"github.com/humberto3389/Bodas-sub000/app/models"
)

// guestbookRepository implements the GuestbookRepository interface
type guestbookRepository struct {
	db *gorm.DB
}

// NewGuestbookRepository creates a new guestbook repository instance
func NewGuestbookRepository(db *gorm.DB) GuestbookRepository {
	return &guestbookRepository{db: db}
}

func (r *guestbookRepository) Create(entry *models.GuestbookEntry) error {
	return r.db.Create(entry).Error
}

func (r *guestbookRepository) ListByAccountID(accountID uint, offset, limit int) ([]models.GuestbookEntry, error) {
	var entries []models.GuestbookEntry
	err := r.db.Where("account_id = ? AND is_approved = ?", accountID, true).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *guestbookRepository) CountByAccountID(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GuestbookEntry{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

func (r *guestbookRepository) HardDeleteByAccountID(accountID uint) error {
	return r.db.Unscoped().Where("account_id = ?", accountID).Delete(&models.GuestbookEntry{}).Error
}

package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/humberto3389/Bodas-sub000/app/models"
)

// guestRepository implements the GuestRepository interface
type guestRepository struct {
	db *gorm.DB
}

// NewGuestRepository creates a new guest repository instance
func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) Create(guest *models.Guest) error {
	return r.db.Create(guest).Error
}

func (r *guestRepository) GetByID(id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) GetByInviteCode(code string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.Where("invite_code = ?", strings.TrimSpace(code)).First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) ListByAccountID(accountID uint, offset, limit int) ([]models.Guest, error) {
	var guests []models.Guest
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&guests).Error
	return guests, err
}

func (r *guestRepository) CountByAccountID(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Guest{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// HardDeleteByAccountID removes every guest row of an account; used by the purge
func (r *guestRepository) HardDeleteByAccountID(accountID uint) error {
	return r.db.Unscoped().Where("account_id = ?", accountID).Delete(&models.Guest{}).Error
}

// rsvpRepository implements the RsvpRepository interface
type rsvpRepository struct {
	db *gorm.DB
}

// NewRsvpRepository creates a new RSVP repository instance
func NewRsvpRepository(db *gorm.DB) RsvpRepository {
	return &rsvpRepository{db: db}
}

func (r *rsvpRepository) Create(rsvp *models.RsvpResponse) error {
	return r.db.Create(rsvp).Error
}

func (r *rsvpRepository) ListByAccountID(accountID uint, offset, limit int) ([]models.RsvpResponse, error) {
	var rsvps []models.RsvpResponse
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&rsvps).Error
	return rsvps, err
}

func (r *rsvpRepository) CountByAccountID(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.RsvpResponse{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

func (r *rsvpRepository) HardDeleteByAccountID(accountID uint) error {
	return r.db.Unscoped().Where("account_id = ?", accountID).Delete(&models.RsvpResponse{}).Error
}

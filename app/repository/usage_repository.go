package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// usageRepository computes live resource counts per account. The counts are
// never stored; they are recomputed on demand for the limit guard.
type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new usage repository instance
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) CountForAccount(accountID uint, res plans.Resource) (int64, error) {
	var count int64
	var err error

	switch res {
	case plans.ResourceGuests:
		err = r.db.Model(&models.Guest{}).Where("account_id = ?", accountID).Count(&count).Error
	case plans.ResourceRsvps:
		err = r.db.Model(&models.RsvpResponse{}).Where("account_id = ?", accountID).Count(&count).Error
	case plans.ResourceMessages:
		err = r.db.Model(&models.GuestbookEntry{}).Where("account_id = ?", accountID).Count(&count).Error
	case plans.ResourcePhotos:
		err = r.db.Model(&models.Photo{}).Where("account_id = ?", accountID).Count(&count).Error
	case plans.ResourceVideos:
		err = r.db.Model(&models.Video{}).Where("account_id = ?", accountID).Count(&count).Error
	default:
		return 0, fmt.Errorf("unknown resource type %q", res)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to count %s for account %d: %w", res, accountID, err)
	}
	return count, nil
}

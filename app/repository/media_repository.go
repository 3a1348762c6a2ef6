package repository

import (
	"gorm.io/gorm"

	"github.com/humberto3389/Bodas-sub000/app/models"
)

// mediaRepository implements the MediaRepository interface
type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository instance
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) CreatePhoto(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

func (r *mediaRepository) CreateVideo(video *models.Video) error {
	return r.db.Create(video).Error
}

func (r *mediaRepository) ListPhotosByAccountID(accountID uint, offset, limit int) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&photos).Error
	return photos, err
}

func (r *mediaRepository) ListVideosByAccountID(accountID uint) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Where("account_id = ?", accountID).Order("created_at ASC").Find(&videos).Error
	return videos, err
}

func (r *mediaRepository) CountPhotosByAccountID(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

func (r *mediaRepository) CountVideosByAccountID(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Video{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

func (r *mediaRepository) HardDeleteByAccountID(accountID uint) error {
	if err := r.db.Unscoped().Where("account_id = ?", accountID).Delete(&models.Photo{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Where("account_id = ?", accountID).Delete(&models.Video{}).Error
}

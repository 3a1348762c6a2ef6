package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo is one gallery image owned by an account. The binary lives in the
// object store under the account's gallery namespace; ObjectKey points at it.
type Photo struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	AccountID uint           `gorm:"index" json:"account_id"`
	ObjectKey string         `gorm:"type:varchar(512)" json:"object_key" validate:"required,max=512"`
	Caption   string         `gorm:"type:varchar(500)" json:"caption" validate:"max=500"`
	FileSize  int64          `json:"file_size"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Photo) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// Video is one background/gallery video owned by an account.
type Video struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	AccountID       uint           `gorm:"index" json:"account_id"`
	ObjectKey       string         `gorm:"type:varchar(512)" json:"object_key" validate:"required,max=512"`
	Caption         string         `gorm:"type:varchar(500)" json:"caption" validate:"max=500"`
	DurationSeconds int            `json:"duration_seconds" validate:"min=0"`
	FileSize        int64          `json:"file_size"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Video) Validate() error {
	return validator.New().Struct(v)
}

// NewPhoto builds a validated photo record with a fresh UUID.
func NewPhoto(accountID uint, objectKey, caption string, fileSize int64) (*Photo, error) {
	p := &Photo{
		UUID:      uuid.NewString(),
		AccountID: accountID,
		ObjectKey: objectKey,
		Caption:   caption,
		FileSize:  fileSize,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewVideo builds a validated video record with a fresh UUID.
func NewVideo(accountID uint, objectKey, caption string, durationSeconds int, fileSize int64) (*Video, error) {
	v := &Video{
		UUID:            uuid.NewString(),
		AccountID:       accountID,
		ObjectKey:       objectKey,
		Caption:         caption,
		DurationSeconds: durationSeconds,
		FileSize:        fileSize,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

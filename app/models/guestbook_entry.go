package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// GuestbookEntry is one message on the couple's message wall.
type GuestbookEntry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AccountID  uint           `gorm:"index" json:"account_id"`
	AuthorName string         `gorm:"type:varchar(150)" json:"author_name" validate:"required,min=2,max=150"`
	Message    string         `gorm:"type:text" json:"message" validate:"required,min=1,max=2000"`
	IsApproved bool           `gorm:"default:true" json:"is_approved"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *GuestbookEntry) Validate() error {
	v := validator.New()

	return v.Struct(e)
}

package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	RsvpAttending    = "attending"
	RsvpNotAttending = "not_attending"
	RsvpMaybe        = "maybe"
)

// RsvpResponse records a guest's attendance answer.
type RsvpResponse struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AccountID  uint           `gorm:"index" json:"account_id"`
	GuestID    uint           `gorm:"index" json:"guest_id"`
	Guest      Guest          `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Status     string         `gorm:"type:varchar(30)" json:"status" validate:"oneof=attending not_attending maybe"`
	Attendees  int            `gorm:"default:1" json:"attendees" validate:"min=0,max=20"`
	MealChoice string         `gorm:"type:varchar(100)" json:"meal_choice" validate:"max=100"`
	Note       string         `gorm:"type:text" json:"note" validate:"max=1000"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *RsvpResponse) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

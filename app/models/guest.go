package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Guest is one invited party on an account's guest list.
type Guest struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AccountID  uint           `gorm:"index" json:"account_id"`
	Name       string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email      string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Phone      string         `gorm:"type:varchar(30)" json:"phone" validate:"max=30"`
	PartySize  int            `gorm:"default:1" json:"party_size" validate:"min=1,max=20"`
	InviteCode string         `gorm:"type:varchar(32);index" json:"invite_code"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *Guest) Validate() error {
	v := validator.New()

	return v.Struct(g)
}

// GenerateInviteCode assigns a random invite code for the guest's RSVP link.
func (g *Guest) GenerateInviteCode() error {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	g.InviteCode = hex.EncodeToString(b)
	return nil
}

// NewGuest builds a validated guest for the given account.
func NewGuest(accountID uint, name, email string, partySize int) (*Guest, error) {
	if partySize < 1 {
		partySize = 1
	}
	g := &Guest{
		AccountID: accountID,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		PartySize: partySize,
	}
	if err := g.GenerateInviteCode(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

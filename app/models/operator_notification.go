package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationUpgradeRequested = "upgrade_requested"
	NotificationAccountExpired   = "account_expired"
	NotificationPurgeFailed      = "purge_failed"
	NotificationSystem           = "system"
)

// OperatorNotification is an append-only message for the operator inbox.
// The entitlement core only ever inserts these; operators consume them
// through the admin API.
type OperatorNotification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AccountID uint           `gorm:"index" json:"account_id"`
	Kind      string         `gorm:"type:varchar(50)" json:"kind" validate:"oneof=upgrade_requested account_expired purge_failed system"`
	Message   string         `gorm:"type:text" json:"message"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarkAsRead marks a notification as read
func (n *OperatorNotification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}

// CreateOperatorNotification inserts a new operator notification
func CreateOperatorNotification(db *gorm.DB, accountID uint, kind string, message string) error {
	notification := OperatorNotification{
		AccountID: accountID,
		Kind:      kind,
		Message:   message,
		IsRead:    false,
	}

	return db.Create(&notification).Error
}

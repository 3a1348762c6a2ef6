package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/humberto3389/Bodas-sub000/app/models"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.OperatorNotification) error {
	return r.db.Create(notification).Error
}

// Notify satisfies the entitlement engine's NotificationSink.
func (r *notificationRepository) Notify(accountID uint, kind, message string) error {
	return r.Create(&models.OperatorNotification{
		AccountID: accountID,
		Kind:      kind,
		Message:   message,
	})
}

func (r *notificationRepository) ListUnread(limit int) ([]models.OperatorNotification, error) {
	var notifications []models.OperatorNotification
	err := r.db.Where("is_read = ?", false).
		Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(id uint) error {
	return r.db.Model(&models.OperatorNotification{}).
		Where("id = ?", id).Update("is_read", true).Error
}

func (r *notificationRepository) HardDeleteByAccountID(accountID uint) error {
	return r.db.Unscoped().Where("account_id = ?", accountID).Delete(&models.OperatorNotification{}).Error
}

// operatorRepository implements the OperatorRepository interface
type operatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates a new operator repository instance
func NewOperatorRepository(db *gorm.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(operator *models.Operator) error {
	return r.db.Create(operator).Error
}

func (r *operatorRepository) GetByEmail(email string) (*models.Operator, error) {
	var operator models.Operator
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&operator).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

package repository

import (
	"time"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// AccountRepository defines the interface for account-related database operations
type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByPublicID(publicID string) (*models.Account, error)
	GetBySlug(slug string) (*models.Account, error)
	GetByTokenHash(hash string) (*models.Account, error)
	// ApplyUpdate performs a transition's column writes guarded by the
	// optimistic version check. Stale writes fail with
	// entitlements.ErrVersionConflict and leave the record untouched.
	ApplyUpdate(id uint, version int64, update entitlements.AccountUpdate) error
	Update(account *models.Account) error
	// HardDelete removes the record for good; used by the purge only.
	HardDelete(id uint) error
	List(offset, limit int) ([]models.Account, error)
	Count() (int64, error)
	// ListGraceLapsed returns accounts whose pending upgrade started before
	// the cutoff and still awaits approval.
	ListGraceLapsed(cutoff time.Time, limit int) ([]models.Account, error)
	// ListWindowExpired returns accounts whose access window ended before
	// now and that are not yet marked expired.
	ListWindowExpired(now time.Time, limit int) ([]models.Account, error)
	// ListStaleExpired returns accounts stuck in expired status since
	// before the given instant, so their purge can be re-enqueued.
	ListStaleExpired(before time.Time, limit int) ([]models.Account, error)
	IncrementPageViews(id uint, delta int64) error
}

// GuestRepository defines the interface for guest-list database operations
type GuestRepository interface {
	Create(guest *models.Guest) error
	GetByID(id uint) (*models.Guest, error)
	GetByInviteCode(code string) (*models.Guest, error)
	ListByAccountID(accountID uint, offset, limit int) ([]models.Guest, error)
	CountByAccountID(accountID uint) (int64, error)
	HardDeleteByAccountID(accountID uint) error
}

// RsvpRepository defines the interface for RSVP database operations
type RsvpRepository interface {
	Create(rsvp *models.RsvpResponse) error
	ListByAccountID(accountID uint, offset, limit int) ([]models.RsvpResponse, error)
	CountByAccountID(accountID uint) (int64, error)
	HardDeleteByAccountID(accountID uint) error
}

// GuestbookRepository defines the interface for message-wall database operations
type GuestbookRepository interface {
	Create(entry *models.GuestbookEntry) error
	ListByAccountID(accountID uint, offset, limit int) ([]models.GuestbookEntry, error)
	CountByAccountID(accountID uint) (int64, error)
	HardDeleteByAccountID(accountID uint) error
}

// MediaRepository defines the interface for photo and video database operations
type MediaRepository interface {
	CreatePhoto(photo *models.Photo) error
	CreateVideo(video *models.Video) error
	ListPhotosByAccountID(accountID uint, offset, limit int) ([]models.Photo, error)
	ListVideosByAccountID(accountID uint) ([]models.Video, error)
	CountPhotosByAccountID(accountID uint) (int64, error)
	CountVideosByAccountID(accountID uint) (int64, error)
	HardDeleteByAccountID(accountID uint) error
}

// NotificationRepository defines the interface for the operator inbox
type NotificationRepository interface {
	Create(notification *models.OperatorNotification) error
	// Notify inserts a notification from its parts; satisfies the
	// entitlement engine's sink.
	Notify(accountID uint, kind, message string) error
	ListUnread(limit int) ([]models.OperatorNotification, error)
	MarkRead(id uint) error
	HardDeleteByAccountID(accountID uint) error
}

// OperatorRepository defines the interface for operator logins
type OperatorRepository interface {
	Create(operator *models.Operator) error
	GetByEmail(email string) (*models.Operator, error)
}

// UsageRepository counts live tenant resources for the limit guard
type UsageRepository interface {
	CountForAccount(accountID uint, res plans.Resource) (int64, error)
}

package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository instances
type Repositories struct {
	Account      AccountRepository
	Guest        GuestRepository
	Rsvp         RsvpRepository
	Guestbook    GuestbookRepository
	Media        MediaRepository
	Notification NotificationRepository
	Operator     OperatorRepository
	Usage        UsageRepository
}

// NewRepositories creates all repositories backed by the given DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:      NewAccountRepository(db),
		Guest:        NewGuestRepository(db),
		Rsvp:         NewRsvpRepository(db),
		Guestbook:    NewGuestbookRepository(db),
		Media:        NewMediaRepository(db),
		Notification: NewNotificationRepository(db),
		Operator:     NewOperatorRepository(db),
		Usage:        NewUsageRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetAccountRepository returns the account repository instance
func (f *Factory) GetAccountRepository() AccountRepository {
	return f.GetRepositories().Account
}

// GetGuestRepository returns the guest repository instance
func (f *Factory) GetGuestRepository() GuestRepository {
	return f.GetRepositories().Guest
}

// GetRsvpRepository returns the RSVP repository instance
func (f *Factory) GetRsvpRepository() RsvpRepository {
	return f.GetRepositories().Rsvp
}

// GetGuestbookRepository returns the guestbook repository instance
func (f *Factory) GetGuestbookRepository() GuestbookRepository {
	return f.GetRepositories().Guestbook
}

// GetMediaRepository returns the media repository instance
func (f *Factory) GetMediaRepository() MediaRepository {
	return f.GetRepositories().Media
}

// GetNotificationRepository returns the notification repository instance
func (f *Factory) GetNotificationRepository() NotificationRepository {
	return f.GetRepositories().Notification
}

// GetOperatorRepository returns the operator repository instance
func (f *Factory) GetOperatorRepository() OperatorRepository {
	return f.GetRepositories().Operator
}

// GetUsageRepository returns the usage repository instance
func (f *Factory) GetUsageRepository() UsageRepository {
	return f.GetRepositories().Usage
}

var (
	globalFactory   *Factory
	globalFactoryMu sync.RWMutex
)

// SetGlobalFactory installs the process-wide repository factory
func SetGlobalFactory(f *Factory) {
	globalFactoryMu.Lock()
	defer globalFactoryMu.Unlock()
	globalFactory = f
}

// GetGlobalFactory returns the process-wide repository factory
func GetGlobalFactory() *Factory {
	globalFactoryMu.RLock()
	defer globalFactoryMu.RUnlock()
	return globalFactory
}

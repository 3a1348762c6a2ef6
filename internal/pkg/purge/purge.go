package purge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/hashicorp/go-multierror"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
)

// AccountSource loads and removes account rows.
type AccountSource interface {
	GetByID(id uint) (*models.Account, error)
	HardDelete(id uint) error
}

// RowPurger removes one kind of tenant data.
type RowPurger interface {
	HardDeleteByAccountID(accountID uint) error
}

// MediaDeleter removes stored objects under a prefix.
type MediaDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// IdentityRemover drops the couple's login at the auth service.
type IdentityRemover interface {
	DeleteUserByEmail(ctx context.Context, email string) error
}

// PrefixBuilder yields every object prefix belonging to a site.
type PrefixBuilder interface {
	SitePrefixes(sitePublicID string) []string
}

// Coordinator tears down everything a site owns: stored media, guest
// and RSVP rows, guestbook entries, media records, operator
// notifications, the external login and finally the account row itself.
// Every step tolerates repetition, so a crashed purge can simply run
// again.
type Coordinator struct {
	accounts      AccountSource
	guests        RowPurger
	rsvps         RowPurger
	guestbook     RowPurger
	media         RowPurger
	notifications RowPurger
	store         MediaDeleter
	prefixes      PrefixBuilder
	identity      IdentityRemover
	nowFn         func() time.Time
}

// Deps bundles the collaborators a Coordinator needs. Store, Prefixes
// and Identity may be nil when the deployment runs without them.
type Deps struct {
	Accounts      AccountSource
	Guests        RowPurger
	Rsvps         RowPurger
	Guestbook     RowPurger
	Media         RowPurger
	Notifications RowPurger
	Store         MediaDeleter
	Prefixes      PrefixBuilder
	Identity      IdentityRemover
}

func NewCoordinator(deps Deps) *Coordinator {
	return &Coordinator{
		accounts:      deps.Accounts,
		guests:        deps.Guests,
		rsvps:         deps.Rsvps,
		guestbook:     deps.Guestbook,
		media:         deps.Media,
		notifications: deps.Notifications,
		store:         deps.Store,
		prefixes:      deps.Prefixes,
		identity:      deps.Identity,
		nowFn:         time.Now,
	}
}

// Purge removes all data for the given account. It re-checks the
// account's state first: a site renewed between enqueue and execution
// is left alone, and a site already gone counts as success.
func (c *Coordinator) Purge(ctx context.Context, accountID uint, publicID string) error {
	acc, err := c.accounts.GetByID(accountID)
	if err != nil {
		if errors.Is(err, entitlements.ErrAccountNotFound) {
			log.Infof("[Purge] account %d already gone, nothing to do", accountID)
			return nil
		}
		return fmt.Errorf("failed to load account %d: %w", accountID, err)
	}

	// A renewal between enqueue and execution rescues the site.
	if acc.LifecycleStatus != models.StatusExpired || !acc.IsAccessWindowOver(c.nowFn()) {
		log.Infof("[Purge] account %d is no longer expired, skipping purge", accountID)
		return nil
	}

	// Every step runs even when an earlier one fails; a step that
	// errors here just runs again on the retry.
	var result *multierror.Error

	if c.store != nil && c.prefixes != nil {
		for _, prefix := range c.prefixes.SitePrefixes(publicID) {
			if _, err := c.store.DeletePrefix(ctx, prefix); err != nil {
				log.Errorf("[Purge] failed to delete stored media under %s: %v", prefix, err)
				result = multierror.Append(result, fmt.Errorf("stored media under %s: %w", prefix, err))
			}
		}
	}

	steps := []struct {
		name   string
		purger RowPurger
	}{
		{"guests", c.guests},
		{"rsvps", c.rsvps},
		{"guestbook", c.guestbook},
		{"media", c.media},
		{"notifications", c.notifications},
	}
	for _, step := range steps {
		if step.purger == nil {
			continue
		}
		if err := step.purger.HardDeleteByAccountID(accountID); err != nil {
			log.Errorf("[Purge] failed to purge %s for account %d: %v", step.name, accountID, err)
			result = multierror.Append(result, fmt.Errorf("%s rows: %w", step.name, err))
		}
	}

	// The login lives in an external system; losing it is annoying but
	// not worth blocking the purge over.
	if c.identity != nil && acc.ContactEmail != "" {
		if err := c.identity.DeleteUserByEmail(ctx, acc.ContactEmail); err != nil {
			log.Warnf("[Purge] failed to remove login for account %d: %v", accountID, err)
		}
	}

	// The account row goes last, and only once every step above
	// returned: as long as it exists, a retry can redo the purge.
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("purge of account %d incomplete: %w", accountID, err)
	}
	if err := c.accounts.HardDelete(accountID); err != nil {
		return fmt.Errorf("failed to delete account %d: %w", accountID, err)
	}

	log.Infof("[Purge] account %d (%s) fully purged", accountID, publicID)
	return nil
}

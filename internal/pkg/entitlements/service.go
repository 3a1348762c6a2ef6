package entitlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// AccountStore is the persistence surface the engine needs. Implementations
// must return ErrAccountNotFound for missing records and ErrVersionConflict
// when the optimistic version check fails.
type AccountStore interface {
	GetByID(id uint) (*models.Account, error)
	ApplyUpdate(id uint, version int64, update AccountUpdate) error
}

// UsageCounter supplies live resource counts for the limit guard.
type UsageCounter interface {
	CountForAccount(accountID uint, res plans.Resource) (int64, error)
}

// NotificationSink receives operator-facing messages. The engine only ever
// inserts; send failures never roll back a completed transition.
type NotificationSink interface {
	Notify(accountID uint, kind, message string) error
}

// PurgeEnqueuer schedules the irreversible purge of an expired account.
type PurgeEnqueuer interface {
	EnqueuePurge(accountID uint, publicID string) error
}

// CacheInvalidator drops a cached account snapshot after a guarded write.
type CacheInvalidator interface {
	Invalidate(accountID uint)
}

// Engine orchestrates the entitlement lifecycle: upgrade requests, operator
// approvals, grace-period reversion, access-window expiry and renewals.
type Engine struct {
	store AccountStore
	usage UsageCounter
	sink  NotificationSink
	purge PurgeEnqueuer
	cache CacheInvalidator
	nowFn func() time.Time
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithCache wires a cache invalidated on every guarded write.
func WithCache(c CacheInvalidator) Option {
	return func(e *Engine) { e.cache = c }
}

// WithClock overrides the engine clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.nowFn = now }
}

// NewEngine creates the entitlement engine.
func NewEngine(store AccountStore, usage UsageCounter, sink NotificationSink, purge PurgeEnqueuer, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		usage: usage,
		sink:  sink,
		purge: purge,
		nowFn: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAndRevertIfExpired loads an account and applies any overdue
// time-triggered transition before returning it: access-window expiry
// first, then grace-period reversion. Callers must go through this (or
// Resolve's grace math) before trusting CurrentTier.
func (e *Engine) CheckAndRevertIfExpired(ctx context.Context, accountID uint) (*models.Account, error) {
	_ = ctx
	acc, err := e.store.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	now := e.nowFn()

	if acc.IsAccessWindowOver(now) {
		return e.expire(acc, now)
	}

	if GraceElapsed(acc, now) {
		update, err := BuildGraceReversion(acc, now)
		if err != nil {
			return nil, err
		}
		if err := e.store.ApplyUpdate(acc.ID, acc.Version, update); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				// Another session already reverted or approved; their write wins.
				return e.store.GetByID(accountID)
			}
			return nil, err
		}
		e.invalidate(acc.ID)
		log.Infof("[Entitlements] Account %d: upgrade to %s lapsed unconfirmed, reverted to %s",
			acc.ID, deref(acc.PendingTier), update.RevertTier)
		return e.store.GetByID(accountID)
	}

	return acc, nil
}

// expire applies the expiry transition and schedules the purge. Only the
// session whose guarded write succeeds enqueues, so repeated checks trigger
// the purge once.
func (e *Engine) expire(acc *models.Account, now time.Time) (*models.Account, error) {
	update, err := BuildExpiry(acc, now)
	if err != nil {
		// Already marked expired; the purge is scheduled or in flight.
		return acc, nil
	}
	if err := e.store.ApplyUpdate(acc.ID, acc.Version, update); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return e.store.GetByID(acc.ID)
		}
		return nil, err
	}
	e.invalidate(acc.ID)
	e.notify(acc.ID, models.NotificationAccountExpired,
		fmt.Sprintf("Account %s (%s) passed its access window on %s and is scheduled for purge",
			acc.Slug, acc.PublicID, acc.AccessWindowEnd.Format(time.RFC3339)))

	if err := e.purge.EnqueuePurge(acc.ID, acc.PublicID); err != nil {
		// The sweep re-enqueues stale expired accounts, so this is not fatal.
		log.Errorf("[Entitlements] Failed to enqueue purge for account %d: %v", acc.ID, err)
	} else {
		log.Infof("[Entitlements] Account %d expired, purge enqueued", acc.ID)
	}
	return e.store.GetByID(acc.ID)
}

// RequestUpgrade opens an upgrade request: the tenant is granted the new
// tier immediately and the operator has the grace period to confirm payment
// before the grant reverts. The notification is emitted only after the
// guarded write succeeds.
func (e *Engine) RequestUpgrade(ctx context.Context, accountID uint, tier string) (*models.Account, error) {
	acc, err := e.CheckAndRevertIfExpired(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.LifecycleStatus == models.StatusExpired {
		return nil, ErrAccountExpired
	}
	if !acc.IsEnabled {
		return nil, ErrAccountDisabled
	}

	now := e.nowFn()
	update, err := BuildUpgradeRequest(acc, plans.Tier(tier), now)
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyUpdate(acc.ID, acc.Version, update); err != nil {
		return nil, err
	}
	e.invalidate(acc.ID)

	e.notify(acc.ID, models.NotificationUpgradeRequested,
		fmt.Sprintf("Account %s (%s) requested an upgrade from %s to %s and awaits payment confirmation",
			acc.Slug, acc.PublicID, update.OriginalTier, update.NewTier))
	log.Infof("[Entitlements] Account %d requested upgrade %s -> %s", acc.ID, update.OriginalTier, update.NewTier)

	return e.store.GetByID(accountID)
}

// ApproveUpgrade records the operator's acknowledgement of payment and
// makes the pending grant permanent.
func (e *Engine) ApproveUpgrade(ctx context.Context, accountID uint) (*models.Account, error) {
	acc, err := e.CheckAndRevertIfExpired(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.LifecycleStatus == models.StatusExpired {
		return nil, ErrAccountExpired
	}

	update, err := BuildApproval(acc, e.nowFn())
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyUpdate(acc.ID, acc.Version, update); err != nil {
		return nil, err
	}
	e.invalidate(acc.ID)
	log.Infof("[Entitlements] Account %d upgrade to %s approved", acc.ID, acc.CurrentTier)

	return e.store.GetByID(accountID)
}

// RenewAccess extends the access window by the given number of days and
// re-enables an account that had lapsed.
func (e *Engine) RenewAccess(ctx context.Context, accountID uint, days int) (*models.Account, error) {
	_ = ctx
	acc, err := e.store.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	update, err := BuildRenewal(acc, days, e.nowFn())
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyUpdate(acc.ID, acc.Version, update); err != nil {
		return nil, err
	}
	e.invalidate(acc.ID)
	log.Infof("[Entitlements] Account %d renewed for %d days, window now ends %s",
		acc.ID, days, update.AccessWindowEnd.Format(time.RFC3339))

	return e.store.GetByID(accountID)
}

// Suspend flips the operator kill switch off.
func (e *Engine) Suspend(ctx context.Context, accountID uint) (*models.Account, error) {
	_ = ctx
	acc, err := e.store.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	update, err := BuildSuspension(acc)
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyUpdate(acc.ID, acc.Version, update); err != nil {
		return nil, err
	}
	e.invalidate(acc.ID)
	return e.store.GetByID(accountID)
}

// Reactivate flips the operator kill switch back on.
func (e *Engine) Reactivate(ctx context.Context, accountID uint) (*models.Account, error) {
	_ = ctx
	acc, err := e.store.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	update, err := BuildReactivation(acc)
	if err != nil {
		return nil, err
	}
	if err := e.store.ApplyUpdate(acc.ID, acc.Version, update); err != nil {
		return nil, err
	}
	e.invalidate(acc.ID)
	return e.store.GetByID(accountID)
}

// IsExpired reports whether the account's access window has elapsed at the
// given instant, independent of its stored lifecycle status.
func (e *Engine) IsExpired(ctx context.Context, accountID uint, now time.Time) (bool, error) {
	_ = ctx
	acc, err := e.store.GetByID(accountID)
	if err != nil {
		return false, err
	}
	return acc.IsAccessWindowOver(now), nil
}

// EffectiveTier resolves the tier the account is entitled to right now,
// including any temporary grant from a pending upgrade.
func (e *Engine) EffectiveTier(acc *models.Account) plans.Tier {
	return Resolve(acc, e.nowFn())
}

// CheckLimit counts existing resources of the given type and decides
// whether one more may be created under the effective tier's ceiling.
func (e *Engine) CheckLimit(ctx context.Context, accountID uint, res plans.Resource) (Decision, error) {
	acc, err := e.CheckAndRevertIfExpired(ctx, accountID)
	if err != nil {
		return Decision{}, err
	}
	if acc.LifecycleStatus == models.StatusExpired {
		return Decision{}, ErrAccountExpired
	}
	if !acc.IsEnabled {
		return Decision{}, ErrAccountDisabled
	}

	count, err := e.usage.CountForAccount(acc.ID, res)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count %s for account %d: %w", res, acc.ID, err)
	}

	return CheckLimit(acc, res, count, e.nowFn()), nil
}

// UsageInfo pairs a live count with the ceiling that applies to it.
type UsageInfo struct {
	Current int64 `json:"current"`
	Ceiling int64 `json:"ceiling"`
}

// Usage returns the live resource counts of an account together with the
// effective tier's ceilings.
func (e *Engine) Usage(ctx context.Context, accountID uint) (map[plans.Resource]UsageInfo, error) {
	acc, err := e.CheckAndRevertIfExpired(ctx, accountID)
	if err != nil {
		return nil, err
	}
	tier := Resolve(acc, e.nowFn())

	usage := make(map[plans.Resource]UsageInfo)
	for _, res := range []plans.Resource{plans.ResourceGuests, plans.ResourceRsvps, plans.ResourceMessages, plans.ResourcePhotos, plans.ResourceVideos} {
		count, err := e.usage.CountForAccount(acc.ID, res)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s for account %d: %w", res, acc.ID, err)
		}
		usage[res] = UsageInfo{Current: count, Ceiling: plans.Ceiling(tier, res)}
	}
	return usage, nil
}

func (e *Engine) notify(accountID uint, kind, message string) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Notify(accountID, kind, message); err != nil {
		log.Errorf("[Entitlements] Failed to notify operators about account %d: %v", accountID, err)
	}
}

func (e *Engine) invalidate(accountID uint) {
	if e.cache != nil {
		e.cache.Invalidate(accountID)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

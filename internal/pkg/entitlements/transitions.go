package entitlements

import (
	"fmt"
	"time"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// AccountUpdate is a typed, transition-specific set of column writes. Each
// transition gets its own struct enumerating exactly the fields it may
// touch; the account store applies the change set under an optimistic
// version check and rejects stale writes.
type AccountUpdate interface {
	// Changes returns the column writes for the storage layer. A nil value
	// clears the column.
	Changes() map[string]any
}

// UpgradeRequestUpdate grants the requested tier immediately and opens the
// grace-period reversion path.
type UpgradeRequestUpdate struct {
	NewTier      plans.Tier
	OriginalTier plans.Tier
	RequestedAt  time.Time
}

func (u UpgradeRequestUpdate) Changes() map[string]any {
	return map[string]any{
		"current_tier":      string(u.NewTier),
		"lifecycle_status":  models.StatusPendingUpgrade,
		"pending_tier":      string(u.NewTier),
		"pending_since":     u.RequestedAt,
		"original_tier":     string(u.OriginalTier),
		"upgrade_confirmed": false,
	}
}

// ApprovalUpdate makes the pending grant permanent. CurrentTier is left
// untouched; it was already set to the new tier on request.
type ApprovalUpdate struct {
	ApprovedAt time.Time
}

func (u ApprovalUpdate) Changes() map[string]any {
	return map[string]any{
		"lifecycle_status":  models.StatusUpgradeApproved,
		"upgrade_confirmed": true,
		"approved_at":       u.ApprovedAt,
		"pending_tier":      nil,
		"pending_since":     nil,
		"original_tier":     nil,
	}
}

// GraceReversionUpdate restores the tier held before the upgrade request.
type GraceReversionUpdate struct {
	RevertTier plans.Tier
}

func (u GraceReversionUpdate) Changes() map[string]any {
	return map[string]any{
		"current_tier":      string(u.RevertTier),
		"lifecycle_status":  models.StatusActive,
		"pending_tier":      nil,
		"pending_since":     nil,
		"original_tier":     nil,
		"upgrade_confirmed": false,
	}
}

// RenewalUpdate extends the access window and re-enables the account. An
// account that had lapsed into expired returns to active; pending-upgrade
// fields are never touched.
type RenewalUpdate struct {
	AccessWindowEnd time.Time
	SetActive       bool
}

func (u RenewalUpdate) Changes() map[string]any {
	changes := map[string]any{
		"access_window_end": u.AccessWindowEnd,
		"is_enabled":        true,
	}
	if u.SetActive {
		changes["lifecycle_status"] = models.StatusActive
	}
	return changes
}

// ExpiryUpdate marks the account expired once the access window lapses.
// The record itself is removed later by the purge.
type ExpiryUpdate struct{}

func (u ExpiryUpdate) Changes() map[string]any {
	return map[string]any{
		"lifecycle_status": models.StatusExpired,
		"is_enabled":       false,
	}
}

// SuspensionUpdate flips the operator kill switch off. The lifecycle status
// only moves to suspended from active; an open upgrade request keeps its
// status and pending fields so the grace-period clock is unaffected.
type SuspensionUpdate struct {
	SetStatus bool
}

func (u SuspensionUpdate) Changes() map[string]any {
	changes := map[string]any{"is_enabled": false}
	if u.SetStatus {
		changes["lifecycle_status"] = models.StatusSuspended
	}
	return changes
}

// ReactivationUpdate flips the kill switch back on.
type ReactivationUpdate struct {
	SetStatus bool
}

func (u ReactivationUpdate) Changes() map[string]any {
	changes := map[string]any{"is_enabled": true}
	if u.SetStatus {
		changes["lifecycle_status"] = models.StatusActive
	}
	return changes
}

// BuildUpgradeRequest validates and prepares an upgrade request. Valid from
// active, or from an open request targeting a different tier; re-requesting
// overwrites the pending fields and resets the grace clock while keeping
// the tier held before the first request as the reversion target.
func BuildUpgradeRequest(acc *models.Account, newTier plans.Tier, now time.Time) (UpgradeRequestUpdate, error) {
	if !plans.IsValid(string(newTier)) {
		return UpgradeRequestUpdate{}, fmt.Errorf("%w: %q", ErrUnknownTier, newTier)
	}

	var original plans.Tier
	switch acc.LifecycleStatus {
	case models.StatusActive:
		original = plans.Normalize(acc.CurrentTier)
	case models.StatusPendingUpgrade:
		if acc.PendingTier != nil && plans.Normalize(*acc.PendingTier) == newTier {
			return UpgradeRequestUpdate{}, fmt.Errorf("%w: upgrade to %s already requested", ErrInvalidTransition, newTier)
		}
		if acc.OriginalTier == nil {
			return UpgradeRequestUpdate{}, fmt.Errorf("%w: pending upgrade without original tier", ErrInvalidTransition)
		}
		original = plans.Normalize(*acc.OriginalTier)
	default:
		return UpgradeRequestUpdate{}, fmt.Errorf("%w: cannot request upgrade from %s", ErrInvalidTransition, acc.LifecycleStatus)
	}

	if plans.Rank(newTier) <= plans.Rank(original) {
		return UpgradeRequestUpdate{}, fmt.Errorf("%w: %s is not an upgrade from %s", ErrInvalidTransition, newTier, original)
	}

	return UpgradeRequestUpdate{
		NewTier:      newTier,
		OriginalTier: original,
		RequestedAt:  now,
	}, nil
}

// BuildApproval validates and prepares the operator approval of an open
// upgrade request. This is the single permanent-grant transition; there is
// no separate payment-confirmation step.
func BuildApproval(acc *models.Account, now time.Time) (ApprovalUpdate, error) {
	if acc.LifecycleStatus != models.StatusPendingUpgrade {
		return ApprovalUpdate{}, fmt.Errorf("%w: cannot approve upgrade from %s", ErrInvalidTransition, acc.LifecycleStatus)
	}
	return ApprovalUpdate{ApprovedAt: now}, nil
}

// BuildGraceReversion prepares the automatic reversion of an upgrade request
// whose grace period lapsed without approval.
func BuildGraceReversion(acc *models.Account, now time.Time) (GraceReversionUpdate, error) {
	if !GraceElapsed(acc, now) {
		return GraceReversionUpdate{}, fmt.Errorf("%w: no lapsed upgrade request", ErrInvalidTransition)
	}
	if acc.OriginalTier == nil {
		return GraceReversionUpdate{}, fmt.Errorf("%w: pending upgrade without original tier", ErrInvalidTransition)
	}
	return GraceReversionUpdate{RevertTier: plans.Normalize(*acc.OriginalTier)}, nil
}

// BuildRenewal extends the access window by the given number of days,
// counted from the current window end or from now if the window already
// lapsed. Renewal is the only operation allowed to move AccessWindowEnd.
func BuildRenewal(acc *models.Account, days int, now time.Time) (RenewalUpdate, error) {
	if days <= 0 {
		return RenewalUpdate{}, fmt.Errorf("%w: renewal days must be positive", ErrInvalidTransition)
	}
	base := acc.AccessWindowEnd
	if base.Before(now) {
		base = now
	}
	return RenewalUpdate{
		AccessWindowEnd: base.AddDate(0, 0, days),
		SetActive:       acc.LifecycleStatus == models.StatusExpired,
	}, nil
}

// BuildExpiry prepares the expiry transition once the access window lapsed.
func BuildExpiry(acc *models.Account, now time.Time) (ExpiryUpdate, error) {
	if !acc.IsAccessWindowOver(now) {
		return ExpiryUpdate{}, fmt.Errorf("%w: access window still open", ErrInvalidTransition)
	}
	if acc.LifecycleStatus == models.StatusExpired {
		return ExpiryUpdate{}, fmt.Errorf("%w: already expired", ErrInvalidTransition)
	}
	return ExpiryUpdate{}, nil
}

// BuildSuspension prepares the operator suspension.
func BuildSuspension(acc *models.Account) (SuspensionUpdate, error) {
	if !acc.IsEnabled {
		return SuspensionUpdate{}, fmt.Errorf("%w: already suspended", ErrInvalidTransition)
	}
	return SuspensionUpdate{SetStatus: acc.LifecycleStatus == models.StatusActive}, nil
}

// BuildReactivation prepares the operator reactivation.
func BuildReactivation(acc *models.Account) (ReactivationUpdate, error) {
	if acc.IsEnabled {
		return ReactivationUpdate{}, fmt.Errorf("%w: not suspended", ErrInvalidTransition)
	}
	if acc.LifecycleStatus == models.StatusExpired {
		return ReactivationUpdate{}, fmt.Errorf("%w: expired accounts are renewed, not reactivated", ErrInvalidTransition)
	}
	return ReactivationUpdate{SetStatus: acc.LifecycleStatus == models.StatusSuspended}, nil
}

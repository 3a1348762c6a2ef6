package entitlements

import (
	"time"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// GracePeriod is the window after an upgrade request during which the new
// tier is granted optimistically while payment confirmation is pending.
const GracePeriod = 24 * time.Hour

// Resolve returns the tier whose quotas apply at the given instant.
//
// During a pending upgrade the requested tier is granted before the operator
// confirms payment; once GracePeriod elapses unconfirmed, the original tier
// applies again even if the stored record has not been reverted yet. Callers
// must therefore never trust CurrentTier alone for an entitlement decision.
// Resolve is pure and never mutates the record.
func Resolve(acc *models.Account, now time.Time) plans.Tier {
	if acc.LifecycleStatus == models.StatusUpgradeApproved && acc.UpgradeConfirmed {
		return plans.Normalize(acc.CurrentTier)
	}

	if acc.HasPendingUpgrade() {
		if now.Sub(*acc.PendingSince) < GracePeriod {
			return plans.Normalize(*acc.PendingTier)
		}
		if acc.OriginalTier != nil {
			return plans.Normalize(*acc.OriginalTier)
		}
	}

	return plans.Normalize(acc.CurrentTier)
}

// GraceElapsed reports whether a pending upgrade has outlived its grace
// period without operator approval.
func GraceElapsed(acc *models.Account, now time.Time) bool {
	return acc.HasPendingUpgrade() && now.Sub(*acc.PendingSince) >= GracePeriod
}

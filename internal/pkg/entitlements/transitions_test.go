package entitlements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

func TestBuildUpgradeRequestFromActive(t *testing.T) {
	acc := &models.Account{ID: 1, CurrentTier: "basic", LifecycleStatus: models.StatusActive}
	now := time.Now()

	update, err := BuildUpgradeRequest(acc, plans.TierPremium, now)
	require.NoError(t, err)

	assert.Equal(t, plans.TierPremium, update.NewTier)
	assert.Equal(t, plans.TierBasic, update.OriginalTier)
	assert.Equal(t, now, update.RequestedAt)

	changes := update.Changes()
	assert.Equal(t, "premium", changes["current_tier"], "new tier is granted immediately")
	assert.Equal(t, models.StatusPendingUpgrade, changes["lifecycle_status"])
	assert.Equal(t, "premium", changes["pending_tier"])
	assert.Equal(t, "basic", changes["original_tier"])
	assert.Equal(t, false, changes["upgrade_confirmed"])
}

func TestBuildUpgradeRequestRejectsUnknownTier(t *testing.T) {
	acc := &models.Account{CurrentTier: "basic", LifecycleStatus: models.StatusActive}
	_, err := BuildUpgradeRequest(acc, plans.Tier("platinum"), time.Now())
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestBuildUpgradeRequestRejectsNonUpgrade(t *testing.T) {
	acc := &models.Account{CurrentTier: "premium", LifecycleStatus: models.StatusActive}
	_, err := BuildUpgradeRequest(acc, plans.TierBasic, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = BuildUpgradeRequest(acc, plans.TierPremium, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBuildUpgradeRequestRejectsFromSuspendedOrExpired(t *testing.T) {
	for _, status := range []string{models.StatusSuspended, models.StatusExpired, models.StatusUpgradeApproved} {
		acc := &models.Account{CurrentTier: "basic", LifecycleStatus: status}
		_, err := BuildUpgradeRequest(acc, plans.TierPremium, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestReRequestOverwritesPendingAndKeepsOriginalTier(t *testing.T) {
	since := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	// First request was basic -> deluxe; CurrentTier already holds deluxe.
	acc := pendingAccount("deluxe", "deluxe", "basic", since)
	later := since.Add(2 * time.Hour)

	update, err := BuildUpgradeRequest(acc, plans.TierPremium, later)
	require.NoError(t, err)

	assert.Equal(t, plans.TierPremium, update.NewTier)
	assert.Equal(t, plans.TierBasic, update.OriginalTier, "reversion target stays the pre-first-request tier")
	assert.Equal(t, later, update.RequestedAt, "grace clock resets")
}

func TestReRequestSameTierRejected(t *testing.T) {
	since := time.Now()
	acc := pendingAccount("premium", "premium", "basic", since)

	_, err := BuildUpgradeRequest(acc, plans.TierPremium, since.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBuildApproval(t *testing.T) {
	since := time.Now()
	acc := pendingAccount("premium", "premium", "basic", since)
	at := since.Add(time.Hour)

	update, err := BuildApproval(acc, at)
	require.NoError(t, err)

	changes := update.Changes()
	assert.Equal(t, models.StatusUpgradeApproved, changes["lifecycle_status"])
	assert.Equal(t, true, changes["upgrade_confirmed"])
	assert.Equal(t, at, changes["approved_at"])
	assert.Nil(t, changes["pending_tier"])
	assert.Nil(t, changes["pending_since"])
	assert.Nil(t, changes["original_tier"])
	_, touchesCurrent := changes["current_tier"]
	assert.False(t, touchesCurrent, "approval must not change the granted tier")
}

func TestBuildApprovalOnlyFromPending(t *testing.T) {
	for _, status := range []string{models.StatusActive, models.StatusUpgradeApproved, models.StatusSuspended, models.StatusExpired} {
		acc := &models.Account{CurrentTier: "premium", LifecycleStatus: status}
		_, err := BuildApproval(acc, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestBuildGraceReversion(t *testing.T) {
	since := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	acc := pendingAccount("premium", "premium", "basic", since)

	_, err := BuildGraceReversion(acc, since.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition, "grace period still running")

	update, err := BuildGraceReversion(acc, since.Add(GracePeriod))
	require.NoError(t, err)
	assert.Equal(t, plans.TierBasic, update.RevertTier)

	changes := update.Changes()
	assert.Equal(t, "basic", changes["current_tier"])
	assert.Equal(t, models.StatusActive, changes["lifecycle_status"])
	assert.Nil(t, changes["pending_tier"])
	assert.Nil(t, changes["pending_since"])
	assert.Nil(t, changes["original_tier"])
	assert.Equal(t, false, changes["upgrade_confirmed"])
}

func TestBuildRenewalExtendsFromWindowEnd(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, 10)
	acc := &models.Account{LifecycleStatus: models.StatusActive, AccessWindowEnd: end, IsEnabled: true}

	update, err := BuildRenewal(acc, 30, now)
	require.NoError(t, err)
	assert.True(t, update.AccessWindowEnd.Equal(end.AddDate(0, 0, 30)))
	assert.False(t, update.SetActive)
}

func TestBuildRenewalOfLapsedAccountExtendsFromNow(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	acc := &models.Account{
		LifecycleStatus: models.StatusExpired,
		AccessWindowEnd: now.AddDate(0, 0, -5),
		IsEnabled:       false,
	}

	update, err := BuildRenewal(acc, 30, now)
	require.NoError(t, err)
	assert.True(t, update.AccessWindowEnd.Equal(now.AddDate(0, 0, 30)))
	assert.True(t, update.SetActive)

	changes := update.Changes()
	assert.Equal(t, true, changes["is_enabled"])
	assert.Equal(t, models.StatusActive, changes["lifecycle_status"])
	_, touchesPending := changes["pending_tier"]
	assert.False(t, touchesPending, "renewal never touches pending-upgrade fields")
}

func TestBuildRenewalRejectsNonPositiveDays(t *testing.T) {
	acc := &models.Account{LifecycleStatus: models.StatusActive, AccessWindowEnd: time.Now()}
	for _, days := range []int{0, -5} {
		_, err := BuildRenewal(acc, days, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, "days %d", days)
	}
}

func TestBuildExpiry(t *testing.T) {
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	acc := &models.Account{LifecycleStatus: models.StatusActive, AccessWindowEnd: end}

	_, err := BuildExpiry(acc, end.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition, "window still open")

	update, err := BuildExpiry(acc, end.Add(time.Hour))
	require.NoError(t, err)
	changes := update.Changes()
	assert.Equal(t, models.StatusExpired, changes["lifecycle_status"])
	assert.Equal(t, false, changes["is_enabled"])

	acc.LifecycleStatus = models.StatusExpired
	_, err = BuildExpiry(acc, end.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition, "expiry is applied once")
}

func TestSuspensionAxisLeavesPendingFieldsAlone(t *testing.T) {
	since := time.Now()
	acc := pendingAccount("premium", "premium", "basic", since)
	acc.IsEnabled = true

	update, err := BuildSuspension(acc)
	require.NoError(t, err)
	assert.False(t, update.SetStatus, "open upgrade request keeps its status")

	changes := update.Changes()
	assert.Equal(t, false, changes["is_enabled"])
	_, touchesStatus := changes["lifecycle_status"]
	assert.False(t, touchesStatus)
	_, touchesPending := changes["pending_tier"]
	assert.False(t, touchesPending)
}

func TestSuspendAndReactivateActiveAccount(t *testing.T) {
	acc := &models.Account{LifecycleStatus: models.StatusActive, IsEnabled: true}

	suspend, err := BuildSuspension(acc)
	require.NoError(t, err)
	assert.True(t, suspend.SetStatus)
	assert.Equal(t, models.StatusSuspended, suspend.Changes()["lifecycle_status"])

	acc.LifecycleStatus = models.StatusSuspended
	acc.IsEnabled = false

	reactivate, err := BuildReactivation(acc)
	require.NoError(t, err)
	assert.True(t, reactivate.SetStatus)
	assert.Equal(t, models.StatusActive, reactivate.Changes()["lifecycle_status"])
}

func TestReactivationRejectsExpired(t *testing.T) {
	acc := &models.Account{LifecycleStatus: models.StatusExpired, IsEnabled: false}
	_, err := BuildReactivation(acc)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

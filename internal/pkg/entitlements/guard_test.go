package entitlements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

func TestCheckLimitExclusiveBound(t *testing.T) {
	acc := &models.Account{CurrentTier: "basic", LifecycleStatus: models.StatusActive}
	now := time.Now()

	// basic allows at most 50 guests
	tests := []struct {
		count   int64
		allowed bool
	}{
		{count: 0, allowed: true},
		{count: 49, allowed: true},
		{count: 50, allowed: false},
		{count: 51, allowed: false},
	}

	for _, tt := range tests {
		d := CheckLimit(acc, plans.ResourceGuests, tt.count, now)
		assert.Equal(t, tt.allowed, d.Allowed, "count %d", tt.count)
		assert.Equal(t, int64(50), d.Ceiling)
		if !tt.allowed {
			assert.Contains(t, d.Message, "basic")
			assert.Contains(t, d.Message, "guests")
		}
	}
}

func TestCheckLimitUnlimited(t *testing.T) {
	acc := &models.Account{CurrentTier: "deluxe", LifecycleStatus: models.StatusActive}
	now := time.Now()

	for _, count := range []int64{0, 1000, 1 << 40} {
		d := CheckLimit(acc, plans.ResourceGuests, count, now)
		assert.True(t, d.Allowed, "count %d", count)
		assert.Equal(t, plans.Unlimited, d.Ceiling)
	}
}

func TestCheckLimitZeroCeiling(t *testing.T) {
	acc := &models.Account{CurrentTier: "basic", LifecycleStatus: models.StatusActive}

	d := CheckLimit(acc, plans.ResourceVideos, 0, time.Now())
	assert.False(t, d.Allowed, "basic plan has no videos")
}

func TestCheckLimitUsesEffectiveTier(t *testing.T) {
	since := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	acc := pendingAccount("premium", "premium", "basic", since)

	// Within the grace period the premium ceiling (150) applies.
	d := CheckLimit(acc, plans.ResourceGuests, 80, since.Add(time.Hour))
	assert.True(t, d.Allowed)
	assert.Equal(t, plans.TierPremium, d.Tier)

	// After the grace period the basic ceiling (50) applies again, even
	// though the stored record still says premium.
	d = CheckLimit(acc, plans.ResourceGuests, 80, since.Add(25*time.Hour))
	assert.False(t, d.Allowed)
	assert.Equal(t, plans.TierBasic, d.Tier)
}

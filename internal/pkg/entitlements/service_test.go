package entitlements

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

type fakeStore struct {
	mu       sync.Mutex
	accounts map[uint]*models.Account
	applyErr error
	applies  int
}

func newFakeStore(accounts ...*models.Account) *fakeStore {
	s := &fakeStore{accounts: make(map[uint]*models.Account)}
	for _, acc := range accounts {
		s.accounts[acc.ID] = acc
	}
	return s
}

func (s *fakeStore) GetByID(id uint) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *acc
	return &copied, nil
}

func (s *fakeStore) ApplyUpdate(id uint, version int64, update AccountUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	acc, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	if acc.Version != version {
		return ErrVersionConflict
	}
	applyChanges(acc, update.Changes())
	acc.Version++
	s.applies++
	return nil
}

// applyChanges mirrors what the GORM store does with the change set.
func applyChanges(acc *models.Account, changes map[string]any) {
	for col, val := range changes {
		switch col {
		case "current_tier":
			acc.CurrentTier = val.(string)
		case "lifecycle_status":
			acc.LifecycleStatus = val.(string)
		case "pending_tier":
			if val == nil {
				acc.PendingTier = nil
			} else {
				v := val.(string)
				acc.PendingTier = &v
			}
		case "pending_since":
			if val == nil {
				acc.PendingSince = nil
			} else {
				v := val.(time.Time)
				acc.PendingSince = &v
			}
		case "original_tier":
			if val == nil {
				acc.OriginalTier = nil
			} else {
				v := val.(string)
				acc.OriginalTier = &v
			}
		case "upgrade_confirmed":
			acc.UpgradeConfirmed = val.(bool)
		case "approved_at":
			if val == nil {
				acc.ApprovedAt = nil
			} else {
				v := val.(time.Time)
				acc.ApprovedAt = &v
			}
		case "access_window_end":
			acc.AccessWindowEnd = val.(time.Time)
		case "is_enabled":
			acc.IsEnabled = val.(bool)
		}
	}
}

type fakeUsage struct {
	counts map[plans.Resource]int64
}

func (u *fakeUsage) CountForAccount(accountID uint, res plans.Resource) (int64, error) {
	return u.counts[res], nil
}

type fakeSink struct {
	mu       sync.Mutex
	messages []string
	kinds    []string
}

func (s *fakeSink) Notify(accountID uint, kind, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = append(s.kinds, kind)
	s.messages = append(s.messages, message)
	return nil
}

type fakePurge struct {
	mu    sync.Mutex
	calls int
}

func (p *fakePurge) EnqueuePurge(accountID uint, publicID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func activeAccount(id uint, tier string) *models.Account {
	return &models.Account{
		ID:              id,
		PublicID:        "00000000-0000-0000-0000-000000000001",
		Slug:            "ana-y-luis",
		CurrentTier:     tier,
		LifecycleStatus: models.StatusActive,
		AccessWindowEnd: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		IsEnabled:       true,
	}
}

func TestEngineRequestUpgrade(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(activeAccount(1, "basic"))
	sink := &fakeSink{}
	purge := &fakePurge{}
	engine := NewEngine(store, &fakeUsage{}, sink, purge, WithClock(fixedClock(now)))

	acc, err := engine.RequestUpgrade(context.Background(), 1, "premium")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendingUpgrade, acc.LifecycleStatus)
	assert.Equal(t, "premium", acc.CurrentTier)
	require.NotNil(t, acc.PendingTier)
	assert.Equal(t, "premium", *acc.PendingTier)
	require.NotNil(t, acc.OriginalTier)
	assert.Equal(t, "basic", *acc.OriginalTier)
	assert.False(t, acc.UpgradeConfirmed)

	require.Len(t, sink.kinds, 1)
	assert.Equal(t, models.NotificationUpgradeRequested, sink.kinds[0])
	assert.Contains(t, sink.messages[0], "premium")
	assert.Zero(t, purge.calls)
}

func TestEngineRequestUpgradeNoNotificationOnWriteFailure(t *testing.T) {
	store := newFakeStore(activeAccount(1, "basic"))
	store.applyErr = errors.New("db down")
	sink := &fakeSink{}
	engine := NewEngine(store, &fakeUsage{}, sink, &fakePurge{})

	_, err := engine.RequestUpgrade(context.Background(), 1, "premium")
	require.Error(t, err)
	assert.Empty(t, sink.kinds, "failed write must not emit a notification")
}

func TestEngineRequestUpgradeVersionConflict(t *testing.T) {
	store := newFakeStore(activeAccount(1, "basic"))
	store.applyErr = ErrVersionConflict
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{})

	_, err := engine.RequestUpgrade(context.Background(), 1, "premium")
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestEngineApproveMakesUpgradePermanent(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(activeAccount(1, "basic"))
	clock := start
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{},
		WithClock(func() time.Time { return clock }))

	_, err := engine.RequestUpgrade(context.Background(), 1, "premium")
	require.NoError(t, err)

	clock = start.Add(time.Hour)
	acc, err := engine.ApproveUpgrade(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.StatusUpgradeApproved, acc.LifecycleStatus)
	assert.True(t, acc.UpgradeConfirmed)
	assert.Nil(t, acc.PendingTier)
	assert.Nil(t, acc.PendingSince)
	assert.Nil(t, acc.OriginalTier)
	require.NotNil(t, acc.ApprovedAt)

	// Long after the grace period the grant still applies.
	assert.Equal(t, plans.TierPremium, Resolve(acc, start.Add(999*time.Hour)))
}

func TestEngineLapsedUpgradeRevertsOnLoad(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(activeAccount(1, "basic"))
	clock := start
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{},
		WithClock(func() time.Time { return clock }))

	_, err := engine.RequestUpgrade(context.Background(), 1, "premium")
	require.NoError(t, err)

	clock = start.Add(25 * time.Hour)
	acc, err := engine.CheckAndRevertIfExpired(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.StatusActive, acc.LifecycleStatus)
	assert.Equal(t, "basic", acc.CurrentTier)
	assert.Nil(t, acc.PendingTier)
	assert.Nil(t, acc.OriginalTier)
	assert.False(t, acc.UpgradeConfirmed)
}

func TestEngineAccessWindowExpiryPurgesExactlyOnce(t *testing.T) {
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	acc := activeAccount(1, "basic")
	acc.AccessWindowEnd = end
	store := newFakeStore(acc)
	sink := &fakeSink{}
	purge := &fakePurge{}
	engine := NewEngine(store, &fakeUsage{}, sink, purge,
		WithClock(fixedClock(end.Add(time.Hour))))

	for i := 0; i < 5; i++ {
		got, err := engine.CheckAndRevertIfExpired(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, models.StatusExpired, got.LifecycleStatus)
		assert.False(t, got.IsEnabled)
	}

	assert.Equal(t, 1, purge.calls, "purge must be enqueued exactly once")
	require.Len(t, sink.kinds, 1)
	assert.Equal(t, models.NotificationAccountExpired, sink.kinds[0])
}

func TestEngineExpiredAccountRejectsUpgrades(t *testing.T) {
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	acc := activeAccount(1, "basic")
	acc.AccessWindowEnd = end
	store := newFakeStore(acc)
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{},
		WithClock(fixedClock(end.Add(time.Hour))))

	_, err := engine.RequestUpgrade(context.Background(), 1, "premium")
	assert.ErrorIs(t, err, ErrAccountExpired)
}

func TestEngineRenewRescuesExpiredAccount(t *testing.T) {
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	now := end.Add(48 * time.Hour)
	acc := activeAccount(1, "basic")
	acc.AccessWindowEnd = end
	acc.LifecycleStatus = models.StatusExpired
	acc.IsEnabled = false
	store := newFakeStore(acc)
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{},
		WithClock(fixedClock(now)))

	got, err := engine.RenewAccess(context.Background(), 1, 30)
	require.NoError(t, err)

	assert.Equal(t, models.StatusActive, got.LifecycleStatus)
	assert.True(t, got.IsEnabled)
	assert.True(t, got.AccessWindowEnd.Equal(now.AddDate(0, 0, 30)))
}

func TestEngineSuspendAndReactivate(t *testing.T) {
	store := newFakeStore(activeAccount(1, "basic"))
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{})

	acc, err := engine.Suspend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, acc.LifecycleStatus)
	assert.False(t, acc.IsEnabled)

	acc, err = engine.Reactivate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, acc.LifecycleStatus)
	assert.True(t, acc.IsEnabled)
}

func TestEngineCheckLimit(t *testing.T) {
	store := newFakeStore(activeAccount(1, "basic"))
	usage := &fakeUsage{counts: map[plans.Resource]int64{plans.ResourceGuests: 50}}
	engine := NewEngine(store, usage, &fakeSink{}, &fakePurge{})

	d, err := engine.CheckLimit(context.Background(), 1, plans.ResourceGuests)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	usage.counts[plans.ResourceGuests] = 49
	d, err = engine.CheckLimit(context.Background(), 1, plans.ResourceGuests)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestEngineCheckLimitDisabledAccount(t *testing.T) {
	acc := activeAccount(1, "basic")
	acc.IsEnabled = false
	acc.LifecycleStatus = models.StatusSuspended
	store := newFakeStore(acc)
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{})

	_, err := engine.CheckLimit(context.Background(), 1, plans.ResourceGuests)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestEngineIsExpired(t *testing.T) {
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	acc := activeAccount(1, "basic")
	acc.AccessWindowEnd = end
	store := newFakeStore(acc)
	engine := NewEngine(store, &fakeUsage{}, &fakeSink{}, &fakePurge{})

	expired, err := engine.IsExpired(context.Background(), 1, end.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, expired)

	expired, err = engine.IsExpired(context.Background(), 1, end.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestEngineNotFound(t *testing.T) {
	engine := NewEngine(newFakeStore(), &fakeUsage{}, &fakeSink{}, &fakePurge{})

	_, err := engine.CheckAndRevertIfExpired(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

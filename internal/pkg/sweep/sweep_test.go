package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humberto3389/Bodas-sub000/app/models"
)

type fakeLister struct {
	lapsed  []models.Account
	expired []models.Account
	stale   []models.Account
	lastCut time.Time
}

func (f *fakeLister) ListGraceLapsed(cutoff time.Time, limit int) ([]models.Account, error) {
	f.lastCut = cutoff
	return f.lapsed, nil
}

func (f *fakeLister) ListWindowExpired(now time.Time, limit int) ([]models.Account, error) {
	return f.expired, nil
}

func (f *fakeLister) ListStaleExpired(before time.Time, limit int) ([]models.Account, error) {
	return f.stale, nil
}

type fakeLifecycle struct {
	touched []uint
	err     error
}

func (f *fakeLifecycle) CheckAndRevertIfExpired(ctx context.Context, accountID uint) (*models.Account, error) {
	f.touched = append(f.touched, accountID)
	return nil, f.err
}

type fakeEnqueuer struct {
	enqueued []uint
}

func (f *fakeEnqueuer) EnqueuePurge(accountID uint, publicID string) error {
	f.enqueued = append(f.enqueued, accountID)
	return nil
}

func newTestSweeper(lister *fakeLister) (*Sweeper, *fakeLifecycle, *fakeEnqueuer) {
	lifecycle := &fakeLifecycle{}
	enqueuer := &fakeEnqueuer{}
	s := New(lister, lifecycle, enqueuer)
	return s, lifecycle, enqueuer
}

func TestRunOnceTouchesLapsedAndExpiredAccounts(t *testing.T) {
	lister := &fakeLister{
		lapsed:  []models.Account{{ID: 1}, {ID: 2}},
		expired: []models.Account{{ID: 3}},
	}
	s, lifecycle, enqueuer := newTestSweeper(lister)

	s.RunOnce(context.Background())

	assert.Equal(t, []uint{1, 2, 3}, lifecycle.touched)
	assert.Empty(t, enqueuer.enqueued)
}

func TestRunOnceUsesGracePeriodCutoff(t *testing.T) {
	lister := &fakeLister{}
	s, _, _ := newTestSweeper(lister)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return now }

	s.RunOnce(context.Background())

	require.Equal(t, now.Add(-24*time.Hour), lister.lastCut)
}

func TestRunOnceReEnqueuesStalePurges(t *testing.T) {
	lister := &fakeLister{
		stale: []models.Account{
			{ID: 9, PublicID: "pub-9", LifecycleStatus: models.StatusExpired},
		},
	}
	s, _, enqueuer := newTestSweeper(lister)

	s.RunOnce(context.Background())

	assert.Equal(t, []uint{9}, enqueuer.enqueued)
}

func TestRunOnceKeepsGoingWhenATransitionFails(t *testing.T) {
	lister := &fakeLister{
		lapsed:  []models.Account{{ID: 1}, {ID: 2}},
		expired: []models.Account{{ID: 3}},
	}
	s, lifecycle, _ := newTestSweeper(lister)
	lifecycle.err = errors.New("version conflict")

	s.RunOnce(context.Background())

	assert.Equal(t, []uint{1, 2, 3}, lifecycle.touched, "one failure must not stop the pass")
}

package purge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
)

type fakeAccounts struct {
	accounts map[uint]*models.Account
	deleted  []uint
}

func (f *fakeAccounts) GetByID(id uint) (*models.Account, error) {
	acc, ok := f.accounts[id]
	if !ok {
		return nil, entitlements.ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeAccounts) HardDelete(id uint) error {
	delete(f.accounts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRowPurger struct {
	calls int
	err   error
}

func (f *fakeRowPurger) HardDeleteByAccountID(accountID uint) error {
	f.calls++
	return f.err
}

type fakeMediaDeleter struct {
	prefixes []string
	err      error
}

func (f *fakeMediaDeleter) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.prefixes = append(f.prefixes, prefix)
	return 2, nil
}

type fakePrefixes struct{}

func (fakePrefixes) SitePrefixes(sitePublicID string) []string {
	return []string{"galleries/" + sitePublicID + "/", "videos/" + sitePublicID + "/"}
}

type fakeIdentity struct {
	emails []string
	err    error
}

func (f *fakeIdentity) DeleteUserByEmail(ctx context.Context, email string) error {
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, email)
	return nil
}

func expiredAccount(id uint) *models.Account {
	return &models.Account{
		ID:              id,
		PublicID:        "pub-1234",
		ContactEmail:    "ana.y.luis@example.com",
		LifecycleStatus: models.StatusExpired,
		AccessWindowEnd: time.Now().Add(-48 * time.Hour),
	}
}

func newTestCoordinator(accounts *fakeAccounts) (*Coordinator, *fakeRowPurger, *fakeMediaDeleter, *fakeIdentity) {
	rows := &fakeRowPurger{}
	media := &fakeMediaDeleter{}
	identity := &fakeIdentity{}
	c := NewCoordinator(Deps{
		Accounts:      accounts,
		Guests:        rows,
		Rsvps:         rows,
		Guestbook:     rows,
		Media:         rows,
		Notifications: rows,
		Store:         media,
		Prefixes:      fakePrefixes{},
		Identity:      identity,
	})
	return c, rows, media, identity
}

func TestPurgeRemovesEverything(t *testing.T) {
	accounts := &fakeAccounts{accounts: map[uint]*models.Account{7: expiredAccount(7)}}
	c, rows, media, identity := newTestCoordinator(accounts)

	err := c.Purge(context.Background(), 7, "pub-1234")
	require.NoError(t, err)

	assert.Equal(t, []string{"galleries/pub-1234/", "videos/pub-1234/"}, media.prefixes)
	assert.Equal(t, 5, rows.calls, "all five row kinds should be purged")
	assert.Equal(t, []string{"ana.y.luis@example.com"}, identity.emails)
	assert.Equal(t, []uint{7}, accounts.deleted)
}

func TestPurgeMissingAccountIsANoop(t *testing.T) {
	accounts := &fakeAccounts{accounts: map[uint]*models.Account{}}
	c, rows, media, _ := newTestCoordinator(accounts)

	err := c.Purge(context.Background(), 99, "gone")
	require.NoError(t, err)
	assert.Zero(t, rows.calls)
	assert.Empty(t, media.prefixes)
}

func TestPurgeSkipsRenewedAccount(t *testing.T) {
	acc := expiredAccount(3)
	acc.LifecycleStatus = models.StatusActive
	acc.AccessWindowEnd = time.Now().Add(30 * 24 * time.Hour)
	accounts := &fakeAccounts{accounts: map[uint]*models.Account{3: acc}}
	c, rows, _, _ := newTestCoordinator(accounts)

	err := c.Purge(context.Background(), 3, acc.PublicID)
	require.NoError(t, err)
	assert.Zero(t, rows.calls)
	assert.Empty(t, accounts.deleted, "a renewed site must not be deleted")
}

func TestPurgeKeepsAccountRowOnRowFailure(t *testing.T) {
	accounts := &fakeAccounts{accounts: map[uint]*models.Account{5: expiredAccount(5)}}
	c, rows, _, _ := newTestCoordinator(accounts)
	rows.err = errors.New("deadlock")

	err := c.Purge(context.Background(), 5, "pub-1234")
	require.Error(t, err)
	assert.Empty(t, accounts.deleted, "account row must survive so a retry can redo the purge")

	// retry after the transient failure clears
	rows.err = nil
	require.NoError(t, c.Purge(context.Background(), 5, "pub-1234"))
	assert.Equal(t, []uint{5}, accounts.deleted)
}

func TestPurgeContinuesRowStepsAfterMediaFailure(t *testing.T) {
	accounts := &fakeAccounts{accounts: map[uint]*models.Account{6: expiredAccount(6)}}
	c, rows, media, _ := newTestCoordinator(accounts)
	media.err = errors.New("bucket unreachable")

	err := c.Purge(context.Background(), 6, "pub-1234")
	require.Error(t, err)
	assert.Equal(t, 5, rows.calls, "row cleanup must still run when media deletion fails")
	assert.Empty(t, accounts.deleted, "account row must survive an incomplete purge")

	// once the bucket is back, the retry finishes the job
	media.err = nil
	require.NoError(t, c.Purge(context.Background(), 6, "pub-1234"))
	assert.Equal(t, []uint{6}, accounts.deleted)
}

func TestPurgeAttemptsAllRowStepsDespiteFailure(t *testing.T) {
	accounts := &fakeAccounts{accounts: map[uint]*models.Account{9: expiredAccount(9)}}
	rows := &fakeRowPurger{err: errors.New("deadlock")}
	media := &fakeMediaDeleter{}
	c := NewCoordinator(Deps{
		Accounts:  accounts,
		Guests:    rows,
		Rsvps:     rows,
		Guestbook: rows,
		Media:     rows,
		Store:     media,
		Prefixes:  fakePrefixes{},
	})

	err := c.Purge(context.Background(), 9, "pub-1234")
	require.Error(t, err)
	assert.Equal(t, 4, rows.calls, "every row step must be attempted even when each fails")
	assert.Empty(t, accounts.deleted)
}

func TestPurgeToleratesIdentityFailure(t *testing.T) {
	accounts := &fakeAccounts{accounts: map[uint]*models.Account{8: expiredAccount(8)}}
	c, _, _, identity := newTestCoordinator(accounts)
	identity.err = errors.New("auth service down")

	err := c.Purge(context.Background(), 8, "pub-1234")
	require.NoError(t, err, "a missing login must not block the purge")
	assert.Equal(t, []uint{8}, accounts.deleted)
}

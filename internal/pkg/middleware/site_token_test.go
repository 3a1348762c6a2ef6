package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/accountcontext"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
)

type fakeAccountStore struct {
	account  *models.Account
	applyErr error
}

func (s *fakeAccountStore) GetByID(id uint) (*models.Account, error) {
	if s.account == nil || s.account.ID != id {
		return nil, entitlements.ErrAccountNotFound
	}
	cp := *s.account
	return &cp, nil
}

func (s *fakeAccountStore) ApplyUpdate(id uint, version int64, update entitlements.AccountUpdate) error {
	return s.applyErr
}

func (s *fakeAccountStore) GetByTokenHash(hash string) (*models.Account, error) {
	if s.account == nil || s.account.TokenHash != hash {
		return nil, entitlements.ErrAccountNotFound
	}
	cp := *s.account
	return &cp, nil
}

type noopPurge struct{}

func (noopPurge) EnqueuePurge(accountID uint, publicID string) error { return nil }

func newAuthedApp(t *testing.T, store *fakeAccountStore) (*fiber.App, string) {
	t.Helper()

	rawToken, err := store.account.IssueToken()
	require.NoError(t, err)

	engine := entitlements.NewEngine(store, nil, nil, noopPurge{})
	app := fiber.New()
	app.Get("/protected", SiteTokenAuth(engine, store), func(c *fiber.Ctx) error {
		ac := accountcontext.GetAccountContext(c)
		return c.JSON(fiber.Map{"account_id": ac.AccountID})
	})
	return app, rawToken
}

func activeAccount(id uint) *models.Account {
	return &models.Account{
		ID:              id,
		PublicID:        "pub-1",
		Slug:            "ana-y-luis",
		CurrentTier:     "basic",
		LifecycleStatus: models.StatusActive,
		AccessWindowEnd: time.Now().Add(30 * 24 * time.Hour),
		IsEnabled:       true,
	}
}

func TestSiteTokenAuthAllowsValidToken(t *testing.T) {
	store := &fakeAccountStore{account: activeAccount(1)}
	app, token := newAuthedApp(t, store)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-Site-Token", token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSiteTokenAuthRejectsUnknownToken(t *testing.T) {
	store := &fakeAccountStore{account: activeAccount(1)}
	app, _ := newAuthedApp(t, store)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-Site-Token", "bda_not-a-real-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSiteTokenAuthMissingToken(t *testing.T) {
	store := &fakeAccountStore{account: activeAccount(1)}
	app, _ := newAuthedApp(t, store)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSiteTokenAuthSurvivesLifecycleWriteFailure(t *testing.T) {
	// An account past its window forces the expiry write inside the
	// lifecycle check; a store failure there must come back as a clean
	// 500, not a panic.
	acc := activeAccount(2)
	acc.AccessWindowEnd = time.Now().Add(-time.Hour)
	store := &fakeAccountStore{account: acc, applyErr: errors.New("db down")}
	app, token := newAuthedApp(t, store)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-Site-Token", token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestSiteTokenAuthBlocksSuspendedSite(t *testing.T) {
	acc := activeAccount(3)
	acc.IsEnabled = false
	store := &fakeAccountStore{account: acc}
	app, token := newAuthedApp(t, store)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-Site-Token", token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountIssueToken(t *testing.T) {
	a := &Account{ID: 1}

	token, err := a.IssueToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NotEmpty(t, a.TokenHash)
	assert.NotEmpty(t, a.TokenPrefix)
	assert.NotNil(t, a.TokenIssuedAt)
	assert.True(t, a.HasActiveToken())
	assert.Equal(t, HashToken(token), a.TokenHash)
}

func TestNewAccountDefaults(t *testing.T) {
	wedding := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	end := wedding.AddDate(0, 0, 30)

	a, err := NewAccount("Ana-y-Luis", "Ana & Luis", "ana@example.com", "basic", wedding, end)
	require.NoError(t, err)

	assert.Equal(t, "ana-y-luis", a.Slug)
	assert.Equal(t, StatusActive, a.LifecycleStatus)
	assert.Equal(t, "basic", a.CurrentTier)
	assert.True(t, a.IsEnabled)
	assert.False(t, a.UpgradeConfirmed)
	assert.Nil(t, a.PendingTier)
	assert.NotEmpty(t, a.PublicID)
	assert.True(t, a.AccessWindowEnd.Equal(end))
}

func TestNewAccountRejectsInvalidEmail(t *testing.T) {
	wedding := time.Now()
	_, err := NewAccount("slug-ok", "Ana & Luis", "not-an-email", "basic", wedding, wedding)
	assert.Error(t, err)
}

func TestAccountIsAccessWindowOver(t *testing.T) {
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	a := &Account{AccessWindowEnd: end}

	assert.False(t, a.IsAccessWindowOver(end.Add(-time.Hour)))
	assert.False(t, a.IsAccessWindowOver(end))
	assert.True(t, a.IsAccessWindowOver(end.Add(time.Second)))
}

func TestAccountHasPendingUpgrade(t *testing.T) {
	tier := "premium"
	since := time.Now()

	a := &Account{LifecycleStatus: StatusActive}
	assert.False(t, a.HasPendingUpgrade())

	a.LifecycleStatus = StatusPendingUpgrade
	assert.False(t, a.HasPendingUpgrade(), "pending fields unset")

	a.PendingTier = &tier
	a.PendingSince = &since
	assert.True(t, a.HasPendingUpgrade())
}

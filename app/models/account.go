package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive          = "active"
	StatusPendingUpgrade  = "pending_upgrade"
	StatusUpgradeApproved = "upgrade_approved"
	StatusExpired         = "expired"
	StatusSuspended       = "suspended"
)

// Account is the durable entitlement record for one rented wedding
// microsite. CurrentTier may be a temporary grant while an upgrade request
// awaits operator confirmation; PendingTier/PendingSince/OriginalTier carry
// the reversion path for that window.
type Account struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PublicID         string         `gorm:"type:char(36);uniqueIndex" json:"public_id"`
	Slug             string         `gorm:"type:varchar(100);uniqueIndex" json:"slug" validate:"required,min=3,max=100"`
	CoupleNames      string         `gorm:"type:varchar(200)" json:"couple_names" validate:"required,min=3,max=200"`
	ContactEmail     string         `gorm:"type:varchar(200);index" json:"contact_email" validate:"required,email"`
	WeddingDate      time.Time      `json:"wedding_date"`
	CurrentTier      string         `gorm:"type:varchar(50);default:'basic'" json:"current_tier" validate:"oneof=basic premium deluxe"`
	LifecycleStatus  string         `gorm:"type:varchar(50);default:'active';index" json:"lifecycle_status" validate:"oneof=active pending_upgrade upgrade_approved expired suspended"`
	PendingTier      *string        `gorm:"type:varchar(50)" json:"pending_tier,omitempty"`
	PendingSince     *time.Time     `json:"pending_since,omitempty"`
	OriginalTier     *string        `gorm:"type:varchar(50)" json:"-"`
	UpgradeConfirmed bool           `gorm:"default:false" json:"upgrade_confirmed"`
	ApprovedAt       *time.Time     `json:"approved_at,omitempty"`
	AccessWindowEnd  time.Time      `gorm:"index" json:"access_window_end"`
	IsEnabled        bool           `gorm:"default:true" json:"is_enabled"`
	Version          int64          `gorm:"default:0" json:"-"`
	TokenHash        string         `gorm:"type:char(64);default:'';index" json:"-"`
	TokenPrefix      string         `gorm:"type:varchar(20);default:''" json:"token_prefix"`
	TokenIssuedAt    *time.Time     `json:"-"`
	PageViews        int64          `gorm:"default:0" json:"page_views"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

var accountTokenEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const accountTokenPrefix = "bda_"

func (a *Account) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// NewAccount builds a freshly provisioned account. AccessWindowEnd must be
// set by the caller from the tier's access window.
func NewAccount(slug, coupleNames, contactEmail, tier string, weddingDate, accessWindowEnd time.Time) (*Account, error) {
	a := &Account{
		PublicID:        uuid.NewString(),
		Slug:            strings.ToLower(strings.TrimSpace(slug)),
		CoupleNames:     strings.TrimSpace(coupleNames),
		ContactEmail:    strings.TrimSpace(contactEmail),
		WeddingDate:     weddingDate,
		CurrentTier:     tier,
		LifecycleStatus: StatusActive,
		AccessWindowEnd: accessWindowEnd,
		IsEnabled:       true,
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// IsActive reports whether the account status is active
func (a *Account) IsActive() bool {
	return a.LifecycleStatus == StatusActive
}

// IsAccessWindowOver reports whether the access window has elapsed at the
// given instant, regardless of LifecycleStatus.
func (a *Account) IsAccessWindowOver(now time.Time) bool {
	return now.After(a.AccessWindowEnd)
}

// HasPendingUpgrade reports whether an unconfirmed upgrade request is open.
func (a *Account) HasPendingUpgrade() bool {
	return a.LifecycleStatus == StatusPendingUpgrade && a.PendingTier != nil && a.PendingSince != nil
}

// IssueToken generates a new site token, stores its hash on the struct, and
// returns the raw secret. Callers must persist the struct afterwards.
func (a *Account) IssueToken() (string, error) {
	rawToken, prefix, hash, err := generateTokenMaterial()
	if err != nil {
		return "", err
	}
	now := time.Now()
	a.TokenHash = hash
	a.TokenPrefix = prefix
	a.TokenIssuedAt = &now
	return rawToken, nil
}

// HasActiveToken reports whether the account has a usable site token.
func (a *Account) HasActiveToken() bool {
	return a != nil && a.TokenHash != ""
}

// HashToken returns the SHA-256 hash for the provided site token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

func generateTokenMaterial() (string, string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", err
	}
	encoded := strings.ToLower(accountTokenEncoding.EncodeToString(b))
	rawToken := accountTokenPrefix + encoded
	if len(rawToken) < 12 {
		return "", "", "", fmt.Errorf("token generation failed: token too short")
	}
	prefix := rawToken[:min(len(rawToken), 16)]
	hash := HashToken(rawToken)
	return rawToken, prefix, hash, nil
}

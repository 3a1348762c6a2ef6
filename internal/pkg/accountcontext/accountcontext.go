package accountcontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// AccountContext represents the authenticated site for a request
type AccountContext struct {
	AccountID     uint       `json:"account_id"`
	PublicID      string     `json:"public_id"`
	Slug          string     `json:"slug"`
	CoupleNames   string     `json:"couple_names"`
	EffectiveTier plans.Tier `json:"effective_tier"`
	Status        string     `json:"status"`
	IsResolved    bool       `json:"is_resolved"`
}

// GetAccountContext retrieves the account context from fiber context.
// Returns an unresolved context if none is set.
func GetAccountContext(c *fiber.Ctx) AccountContext {
	if ctx := c.Locals(KeyAccountContext); ctx != nil {
		if ac, ok := ctx.(AccountContext); ok {
			return ac
		}
	}
	return AccountContext{IsResolved: false}
}

// SetAccountContext stores the account context for downstream handlers
func SetAccountContext(c *fiber.Ctx, ac AccountContext) {
	ac.IsResolved = true
	c.Locals(KeyAccountContext, ac)
	c.Locals(KeyAccountID, ac.AccountID)
	c.Locals(KeySlug, ac.Slug)
}

// GetAccountID returns the current site's account ID, or 0 if unresolved
func GetAccountID(c *fiber.Ctx) uint {
	return GetAccountContext(c).AccountID
}

// GetEffectiveTier returns the tier the current request is entitled to
func GetEffectiveTier(c *fiber.Ctx) plans.Tier {
	return GetAccountContext(c).EffectiveTier
}

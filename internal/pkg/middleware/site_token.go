package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/accountcontext"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
)

// AccountLookup resolves a site token hash to its account.
type AccountLookup interface {
	GetByTokenHash(hash string) (*models.Account, error)
}

// SiteTokenAuth authenticates requests carrying a site management token.
// It also runs the lifecycle check, so a lapsed grace grant or an ended
// access window takes effect on the very next authenticated request.
func SiteTokenAuth(engine *entitlements.Engine, accounts AccountLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractTokenFromHeader(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing site token"})
		}

		acc, err := accounts.GetByTokenHash(models.HashToken(token))
		if err != nil {
			if errors.Is(err, entitlements.ErrAccountNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid site token"})
			}
			log.Errorf("[Middleware] Site token lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Token verification failed"})
		}

		accountID := acc.ID
		acc, err = engine.CheckAndRevertIfExpired(c.Context(), accountID)
		if err != nil {
			log.Errorf("[Middleware] Lifecycle check failed for account %d: %v", accountID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Lifecycle check failed"})
		}

		if !acc.IsEnabled {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "This site is suspended"})
		}
		if acc.LifecycleStatus == models.StatusExpired {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "The access window for this site has ended"})
		}

		accountcontext.SetAccountContext(c, accountcontext.AccountContext{
			AccountID:     acc.ID,
			PublicID:      acc.PublicID,
			Slug:          acc.Slug,
			CoupleNames:   acc.CoupleNames,
			EffectiveTier: engine.EffectiveTier(acc),
			Status:        acc.LifecycleStatus,
		})

		return c.Next()
	}
}

func extractTokenFromHeader(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get("X-Site-Token"))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

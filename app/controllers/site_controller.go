package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/humberto3389/Bodas-sub000/internal/pkg/accountcontext"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// HandleGetSite returns the authenticated site's entitlement state:
// effective tier, lifecycle status, access window and live usage.
func HandleGetSite(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	// Display reads go through the snapshot cache; guarded writes
	// invalidate it, and the TTL heals anything that slips through.
	acc, err := snapshots.Get(ac.AccountID)
	if err != nil {
		return lifecycleError(c, err)
	}

	usage, err := engine.Usage(c.Context(), ac.AccountID)
	if err != nil {
		return lifecycleError(c, err)
	}

	def, err := plans.Get(ac.EffectiveTier)
	if err != nil {
		return lifecycleError(c, err)
	}

	usageMap := fiber.Map{}
	for res, info := range usage {
		var ceiling interface{}
		if info.Ceiling != plans.Unlimited {
			ceiling = info.Ceiling
		}
		usageMap[string(res)] = fiber.Map{
			"current": info.Current,
			"ceiling": ceiling,
		}
	}

	features := make([]string, 0, len(def.Features))
	for _, f := range def.Features {
		features = append(features, string(f))
	}

	return c.JSON(fiber.Map{
		"public_id":         acc.PublicID,
		"slug":              acc.Slug,
		"couple_names":      acc.CoupleNames,
		"wedding_date":      acc.WeddingDate.UTC().Format("2006-01-02"),
		"status":            acc.LifecycleStatus,
		"purchased_tier":    acc.CurrentTier,
		"effective_tier":    ac.EffectiveTier,
		"pending_tier":      acc.PendingTier,
		"pending_since":     formatTimePtr(acc.PendingSince),
		"upgrade_confirmed": acc.UpgradeConfirmed,
		"access_window_end": acc.AccessWindowEnd.UTC().Format(time.RFC3339),
		"page_views":        acc.PageViews,
		"usage":             usageMap,
		"limits": fiber.Map{
			"max_video_seconds": def.MaxVideoSeconds,
			"features":          features,
		},
	})
}

// UpgradeRequest is the body for tier upgrade requests.
type UpgradeRequest struct {
	Tier string `json:"tier"`
}

// HandleRequestUpgrade requests a tier upgrade. The new tier takes
// effect immediately and holds for the grace period while an operator
// confirms the payment.
func HandleRequestUpgrade(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	var req UpgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	acc, err := engine.RequestUpgrade(c.Context(), ac.AccountID, req.Tier)
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":         acc.LifecycleStatus,
		"effective_tier": engine.EffectiveTier(acc),
		"pending_tier":   acc.PendingTier,
		"pending_since":  formatTimePtr(acc.PendingSince),
		"message":        "Upgrade granted, awaiting operator confirmation",
	})
}

// HandleGetUsage returns the live resource usage against the effective
// tier's ceilings.
func HandleGetUsage(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	usage, err := engine.Usage(c.Context(), ac.AccountID)
	if err != nil {
		return lifecycleError(c, err)
	}

	response := fiber.Map{}
	for res, info := range usage {
		var ceiling interface{}
		if info.Ceiling != plans.Unlimited {
			ceiling = info.Ceiling
		}
		response[string(res)] = fiber.Map{
			"current": info.Current,
			"ceiling": ceiling,
		}
	}

	return c.JSON(fiber.Map{
		"tier":  ac.EffectiveTier,
		"usage": response,
	})
}

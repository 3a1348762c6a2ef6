package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/app/repository"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// HandlePublicSite serves the public view of a wedding site by slug.
// This is the read path guests hit, so it doubles as the lifecycle
// trigger for sites nobody manages anymore.
func HandlePublicSite(c *fiber.Ctx) error {
	slug := c.Params("slug")
	acc, err := repository.GetGlobalFactory().GetAccountRepository().GetBySlug(slug)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Site not found")
	}

	acc, err = engine.CheckAndRevertIfExpired(c.Context(), acc.ID)
	if err != nil {
		return lifecycleError(c, err)
	}

	if acc.LifecycleStatus == models.StatusExpired {
		return jsonError(c, fiber.StatusGone, "gone", "This wedding site is no longer available")
	}
	if !acc.IsEnabled {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "This site is temporarily unavailable")
	}

	if pageViews != nil {
		pageViews.Record(acc.ID)
	}

	tier := engine.EffectiveTier(acc)
	def := plans.MustGet(tier)
	features := make([]string, 0, len(def.Features))
	for _, f := range def.Features {
		features = append(features, string(f))
	}

	return c.JSON(fiber.Map{
		"slug":         acc.Slug,
		"couple_names": acc.CoupleNames,
		"wedding_date": acc.WeddingDate.UTC().Format("2006-01-02"),
		"tier":         tier,
		"features":     features,
	})
}

// HandlePublicGuestbook lists the approved messages on a site's wall.
func HandlePublicGuestbook(c *fiber.Ctx) error {
	slug := c.Params("slug")
	acc, err := repository.GetGlobalFactory().GetAccountRepository().GetBySlug(slug)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Site not found")
	}
	if acc.LifecycleStatus == models.StatusExpired {
		return jsonError(c, fiber.StatusGone, "gone", "This wedding site is no longer available")
	}
	if !acc.IsEnabled {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "This site is temporarily unavailable")
	}

	offset, limit := parsePagination(c)
	entries, err := repository.GetGlobalFactory().GetGuestbookRepository().ListByAccountID(acc.ID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load messages")
	}

	approved := make([]models.GuestbookEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsApproved {
			approved = append(approved, e)
		}
	}

	return c.JSON(fiber.Map{
		"entries": approved,
		"offset":  offset,
		"limit":   limit,
	})
}

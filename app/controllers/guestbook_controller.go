package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/app/repository"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/accountcontext"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// GuestbookEntryRequest is the body for posting to the message wall.
type GuestbookEntryRequest struct {
	AuthorName string `json:"author_name"`
	Message    string `json:"message"`
}

// HandleCreateGuestbookEntry posts a message to a site's wall. Visitors
// reach this through the public site, addressed by slug.
func HandleCreateGuestbookEntry(c *fiber.Ctx) error {
	slug := c.Params("slug")
	acc, err := repository.GetGlobalFactory().GetAccountRepository().GetBySlug(slug)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Site not found")
	}

	decision, err := engine.CheckLimit(c.Context(), acc.ID, plans.ResourceMessages)
	if err != nil {
		if errors.Is(err, entitlements.ErrAccountExpired) {
			return jsonError(c, fiber.StatusGone, "gone", "This wedding site is no longer available")
		}
		return lifecycleError(c, err)
	}
	if !decision.Allowed {
		return limitDenied(c, decision)
	}

	var req GuestbookEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	entry := &models.GuestbookEntry{
		AccountID:  acc.ID,
		AuthorName: req.AuthorName,
		Message:    req.Message,
		IsApproved: true,
	}
	if err := entry.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetGuestbookRepository().Create(entry); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save message")
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleListGuestbook returns the site's message wall for the couple.
func HandleListGuestbook(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetGuestbookRepository()

	entries, err := repo.ListByAccountID(ac.AccountID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load messages")
	}
	total, err := repo.CountByAccountID(ac.AccountID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count messages")
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"total":   total,
		"offset":  offset,
		"limit":   limit,
	})
}

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

// CreateGuestRequest is the body for adding a guest to the list.
type CreateGuestRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	PartySize int    `json:"party_size"`
}

// HandleCreateGuest adds a guest to the site's list, subject to the
// effective tier's guest ceiling.
func HandleCreateGuest(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	var req CreateGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	decision, err := engine.CheckLimit(c.Context(), ac.AccountID, plans.ResourceGuests)
	if err != nil {
		return lifecycleError(c, err)
	}
	if !decision.Allowed {
		return limitDenied(c, decision)
	}

	guest, err := models.NewGuest(ac.AccountID, req.Name, req.Email, req.PartySize)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	guest.Phone = req.Phone

	if err := repository.GetGlobalFactory().GetGuestRepository().Create(guest); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save guest")
	}

	return c.Status(fiber.StatusCreated).JSON(guest)
}

// HandleListGuests returns the site's guest list.
func HandleListGuests(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetGuestRepository()

	guests, err := repo.ListByAccountID(ac.AccountID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load guests")
	}
	total, err := repo.CountByAccountID(ac.AccountID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count guests")
	}

	return c.JSON(fiber.Map{
		"guests": guests,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

// RsvpRequest is the body for a guest's RSVP answer.
type RsvpRequest struct {
	Status     string `json:"status"`
	Attendees  int    `json:"attendees"`
	MealChoice string `json:"meal_choice"`
	Note       string `json:"note"`
}

// HandleSubmitRsvp records an RSVP for the guest identified by invite
// code. Tokenless: guests follow the link from their invitation.
func HandleSubmitRsvp(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing invite code")
	}

	guest, err := repository.GetGlobalFactory().GetGuestRepository().GetByInviteCode(code)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown invite code")
	}

	// The lifecycle check runs here too: an RSVP against an expired or
	// suspended site must bounce even without a site token.
	decision, err := engine.CheckLimit(c.Context(), guest.AccountID, plans.ResourceRsvps)
	if err != nil {
		if errors.Is(err, entitlements.ErrAccountExpired) {
			return jsonError(c, fiber.StatusGone, "gone", "This wedding site is no longer available")
		}
		return lifecycleError(c, err)
	}
	if !decision.Allowed {
		return limitDenied(c, decision)
	}

	var req RsvpRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	rsvp := &models.RsvpResponse{
		AccountID:  guest.AccountID,
		GuestID:    guest.ID,
		Status:     req.Status,
		Attendees:  req.Attendees,
		MealChoice: req.MealChoice,
		Note:       req.Note,
	}
	if rsvp.Attendees == 0 && rsvp.Status == models.RsvpAttending {
		rsvp.Attendees = guest.PartySize
	}
	if err := rsvp.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetRsvpRepository().Create(rsvp); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save RSVP")
	}

	return c.Status(fiber.StatusCreated).JSON(rsvp)
}

// HandleListRsvps returns the RSVP answers collected so far.
func HandleListRsvps(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetRsvpRepository()

	rsvps, err := repo.ListByAccountID(ac.AccountID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load RSVPs")
	}
	total, err := repo.CountByAccountID(ac.AccountID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count RSVPs")
	}

	return c.JSON(fiber.Map{
		"rsvps":  rsvps,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

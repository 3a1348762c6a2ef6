package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/app/repository"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/jobqueue"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// CreateSiteRequest is the body for provisioning a new wedding site.
type CreateSiteRequest struct {
	Slug         string `json:"slug"`
	CoupleNames  string `json:"couple_names"`
	ContactEmail string `json:"contact_email"`
	WeddingDate  string `json:"wedding_date"`
	Tier         string `json:"tier"`
}

// HandleAdminCreateSite provisions a new site. The access window is
// derived from the wedding date and the tier's window length. The raw
// site token appears once in the response and is never stored.
func HandleAdminCreateSite(c *fiber.Ctx) error {
	var req CreateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	weddingDate, err := time.Parse("2006-01-02", req.WeddingDate)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "wedding_date must be YYYY-MM-DD")
	}

	tier := plans.Normalize(req.Tier)
	def, err := plans.Get(tier)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown plan tier")
	}

	acc, err := models.NewAccount(req.Slug, req.CoupleNames, req.ContactEmail,
		string(tier), weddingDate, def.AccessWindowEnd(weddingDate))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	rawToken, err := acc.IssueToken()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue site token")
	}

	if err := repository.GetGlobalFactory().GetAccountRepository().Create(acc); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "A site with this slug already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":                acc.ID,
		"public_id":         acc.PublicID,
		"slug":              acc.Slug,
		"tier":              acc.CurrentTier,
		"access_window_end": acc.AccessWindowEnd.UTC().Format(time.RFC3339),
		"site_token":        rawToken,
	})
}

// HandleAdminListSites returns all accounts for the operator dashboard.
func HandleAdminListSites(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetAccountRepository()

	accounts, err := repo.List(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load sites")
	}
	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count sites")
	}

	return c.JSON(fiber.Map{
		"sites":  accounts,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

// HandleAdminApproveUpgrade confirms a pending upgrade's payment and
// makes the granted tier permanent.
func HandleAdminApproveUpgrade(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid site ID")
	}

	acc, err := engine.ApproveUpgrade(c.Context(), uint(id))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":            acc.LifecycleStatus,
		"tier":              acc.CurrentTier,
		"upgrade_confirmed": acc.UpgradeConfirmed,
		"approved_at":       formatTimePtr(acc.ApprovedAt),
	})
}

// RenewRequest is the body for extending a site's access window.
type RenewRequest struct {
	Days int `json:"days"`
}

// HandleAdminRenew extends a site's access window, rescuing it from
// expiry if the purge has not landed yet.
func HandleAdminRenew(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid site ID")
	}

	var req RenewRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Days <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "days must be positive")
	}

	acc, err := engine.RenewAccess(c.Context(), uint(id), req.Days)
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":            acc.LifecycleStatus,
		"access_window_end": acc.AccessWindowEnd.UTC().Format(time.RFC3339),
	})
}

// HandleAdminSuspend disables a site without touching its entitlement
// state; a pending upgrade keeps aging while suspended.
func HandleAdminSuspend(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid site ID")
	}

	acc, err := engine.Suspend(c.Context(), uint(id))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(fiber.Map{"status": acc.LifecycleStatus, "is_enabled": acc.IsEnabled})
}

// HandleAdminReactivate re-enables a suspended site.
func HandleAdminReactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid site ID")
	}

	acc, err := engine.Reactivate(c.Context(), uint(id))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(fiber.Map{"status": acc.LifecycleStatus, "is_enabled": acc.IsEnabled})
}

// CreateOperatorRequest is the body for provisioning an operator login.
type CreateOperatorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleAdminCreateOperator provisions a staff login for the admin API.
func HandleAdminCreateOperator(c *fiber.Ctx) error {
	var req CreateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Role == "" {
		req.Role = models.OperatorRoleSupport
	}

	op, err := models.CreateOperator(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetOperatorRepository().Create(op); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "An operator with this email already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(op)
}

// HandleAdminListNotifications returns unread operator notifications.
func HandleAdminListNotifications(c *fiber.Ctx) error {
	_, limit := parsePagination(c)

	notifications, err := repository.GetGlobalFactory().GetNotificationRepository().ListUnread(limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load notifications")
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

// HandleAdminMarkNotificationRead acknowledges one notification.
func HandleAdminMarkNotificationRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid notification ID")
	}

	if err := repository.GetGlobalFactory().GetNotificationRepository().MarkRead(uint(id)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to mark notification read")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAdminQueueStats reports background job counts for monitoring.
func HandleAdminQueueStats(c *fiber.Ctx) error {
	manager := jobqueue.GetManager()
	if manager == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "unavailable", "Job queue is not running")
	}

	queue := manager.GetQueue()
	stats, err := queue.GetJobStats(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load queue stats")
	}
	pending, _ := queue.GetQueueSize(c.Context())
	processing, _ := queue.GetProcessingSize(c.Context())

	return c.JSON(fiber.Map{
		"stats":      stats,
		"pending":    pending,
		"processing": processing,
	})
}

package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/humberto3389/Bodas-sub000/internal/pkg/accountcache"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/entitlements"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/mediastore"
)

var (
	engine     *entitlements.Engine
	snapshots  *accountcache.Cache
	pageViews  *accountcache.DebouncedWriter
	mediaStore *mediastore.Client
	mediaCfg   *mediastore.Config
)

// Setup wires the shared collaborators into the controller package.
// Router setup calls it once before registering routes.
func Setup(e *entitlements.Engine, cache *accountcache.Cache, views *accountcache.DebouncedWriter, store *mediastore.Client, cfg *mediastore.Config) {
	engine = e
	snapshots = cache
	pageViews = views
	mediaStore = store
	mediaCfg = cfg
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// limitDenied renders a denied limit decision
func limitDenied(c *fiber.Ctx, d entitlements.Decision) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":    "limit_exceeded",
		"message":  d.Message,
		"resource": d.Res,
		"ceiling":  d.Ceiling,
		"tier":     d.Tier,
	})
}

// lifecycleError maps engine errors onto HTTP responses
func lifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entitlements.ErrAccountNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Site not found")
	case errors.Is(err, entitlements.ErrAccountExpired):
		return jsonError(c, fiber.StatusForbidden, "forbidden", "The access window for this site has ended")
	case errors.Is(err, entitlements.ErrAccountDisabled):
		return jsonError(c, fiber.StatusForbidden, "forbidden", "This site is suspended")
	case errors.Is(err, entitlements.ErrUnknownTier):
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown plan tier")
	case errors.Is(err, entitlements.ErrInvalidTransition):
		return jsonError(c, fiber.StatusConflict, "conflict", err.Error())
	case errors.Is(err, entitlements.ErrVersionConflict):
		return jsonError(c, fiber.StatusConflict, "conflict", "The site changed concurrently, please retry")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Something went wrong")
	}
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parsePagination(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	limit = c.QueryInt("limit", 50)
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return offset, limit
}

package controllers

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/app/repository"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/accountcontext"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/plans"
)

// HandleUploadPhoto stores a gallery photo, subject to the effective
// tier's photo ceiling.
func HandleUploadPhoto(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}
	if mediaStore == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "unavailable", "Media storage is not configured")
	}

	decision, err := engine.CheckLimit(c.Context(), ac.AccountID, plans.ResourcePhotos)
	if err != nil {
		return lifecycleError(c, err)
	}
	if !decision.Allowed {
		return limitDenied(c, decision)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing file upload")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !isAllowedImageExt(ext) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unsupported image format")
	}

	photoID := uuid.NewString()
	objectKey := mediaCfg.PhotoKey(ac.PublicID, photoID, ext)

	record := &models.Photo{
		UUID:      photoID,
		AccountID: ac.AccountID,
		ObjectKey: objectKey,
		Caption:   c.FormValue("caption"),
		FileSize:  fileHeader.Size,
	}
	if err := record.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read upload")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := mediaStore.Upload(c.Context(), objectKey, src, fileHeader.Size, contentType); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store photo")
	}

	if err := repository.GetGlobalFactory().GetMediaRepository().CreatePhoto(record); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save photo record")
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// HandleUploadVideo stores a site video. Besides the count ceiling, the
// effective tier also caps the clip duration.
func HandleUploadVideo(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}
	if mediaStore == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "unavailable", "Media storage is not configured")
	}

	decision, err := engine.CheckLimit(c.Context(), ac.AccountID, plans.ResourceVideos)
	if err != nil {
		return lifecycleError(c, err)
	}
	if !decision.Allowed {
		return limitDenied(c, decision)
	}

	duration := 0
	if v := c.FormValue("duration_seconds"); v != "" {
		duration, _ = strconv.Atoi(v)
	}
	def := plans.MustGet(ac.EffectiveTier)
	if def.MaxVideoSeconds > 0 && duration > def.MaxVideoSeconds {
		return jsonError(c, fiber.StatusBadRequest, "bad_request",
			"Video exceeds the maximum duration for this plan")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing file upload")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".mp4" && ext != ".webm" && ext != ".mov" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unsupported video format")
	}

	video := &models.Video{
		UUID:            uuid.NewString(),
		AccountID:       ac.AccountID,
		Caption:         c.FormValue("caption"),
		DurationSeconds: duration,
		FileSize:        fileHeader.Size,
	}
	video.ObjectKey = mediaCfg.VideoKey(ac.PublicID, video.UUID, ext)
	if err := video.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to read upload")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := mediaStore.Upload(c.Context(), video.ObjectKey, src, fileHeader.Size, contentType); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store video")
	}

	if err := repository.GetGlobalFactory().GetMediaRepository().CreateVideo(video); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save video record")
	}

	return c.Status(fiber.StatusCreated).JSON(video)
}

// HandleListPhotos returns the site's gallery records.
func HandleListPhotos(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	offset, limit := parsePagination(c)
	repo := repository.GetGlobalFactory().GetMediaRepository()

	photos, err := repo.ListPhotosByAccountID(ac.AccountID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load photos")
	}
	total, err := repo.CountPhotosByAccountID(ac.AccountID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count photos")
	}

	return c.JSON(fiber.Map{
		"photos": photos,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

// HandleListVideos returns the site's video records.
func HandleListVideos(c *fiber.Ctx) error {
	ac := accountcontext.GetAccountContext(c)
	if !ac.IsResolved {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid site token")
	}

	videos, err := repository.GetGlobalFactory().GetMediaRepository().ListVideosByAccountID(ac.AccountID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load videos")
	}

	return c.JSON(fiber.Map{"videos": videos})
}

func isAllowedImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif":
		return true
	}
	return false
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"authcore/internal/errors"
	"authcore/internal/storage"
)

// allowedUploadTypes restricts presigned uploads to profile picture formats.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler issues presigned upload URLs and deletes stored objects.
type UploadHandler struct {
	store storage.Storage
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

// PresignUploadRequest represents a presigned upload URL request.
type PresignUploadRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

// DeleteUploadRequest represents a stored object deletion request.
type DeleteUploadRequest struct {
	Key string `json:"key" validate:"required"`
}

// Presign godoc
// @Summary Get a presigned upload URL
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body PresignUploadRequest true "File to upload"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /uploads/presigned-url [post]
func (h *UploadHandler) Presign(c echo.Context) error {
	if h.store == nil {
		return errors.Internal("File storage is not configured")
	}

	var req PresignUploadRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}
	if !allowedUploadTypes[req.ContentType] {
		return errors.BadRequest("Unsupported file type")
	}

	upload, err := h.store.PresignUpload(c.Request().Context(), req.Filename, req.ContentType)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", upload)
}

// Delete godoc
// @Summary Delete a stored object
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body DeleteUploadRequest true "Object key"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /uploads [delete]
func (h *UploadHandler) Delete(c echo.Context) error {
	if h.store == nil {
		return errors.Internal("File storage is not configured")
	}

	var req DeleteUploadRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	if err := h.store.Delete(c.Request().Context(), req.Key); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "File deleted successfully", nil)
}
